package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/creator_match_api/internal/service"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	token, expires, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expires,
	})
}
