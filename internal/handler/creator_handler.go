package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/internal/service"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

// CreatorHandler handles creator-related HTTP endpoints.
type CreatorHandler struct {
	creatorService *service.CreatorService
}

// NewCreatorHandler constructs a CreatorHandler.
func NewCreatorHandler(creatorService *service.CreatorService) *CreatorHandler {
	return &CreatorHandler{creatorService: creatorService}
}

type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

type listCreatorsQuery struct {
	pageQuery
	Platform string `form:"platform" binding:"omitempty,oneof=instagram youtube tiktok blog"`
	Category string `form:"category" binding:"omitempty,oneof=Beauty Fashion Food Health Tech Home Sports Pet"`
	Sort     string `form:"sort" binding:"omitempty,oneof=followers engagementRate totalSales totalRevenue name createdAt"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// ListCreators returns creators with optional filters, sorting and pagination.
func (h *CreatorHandler) ListCreators(c *gin.Context) {
	var q listCreatorsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}

	creators, page, err := h.creatorService.List(c.Request.Context(), models.CreatorFilter{
		Platform: models.Platform(q.Platform),
		Category: models.Category(q.Category),
		Sort:     models.CreatorSortKey(q.Sort),
		Order:    models.SortOrder(q.Order),
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithPagination(c, http.StatusOK, creators, page)
}

// GetCreator returns one creator with computed sales stats.
func (h *CreatorHandler) GetCreator(c *gin.Context) {
	detail, err := h.creatorService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, detail)
}

// ListCreatorSales returns a creator's sales history, newest first.
func (h *CreatorHandler) ListCreatorSales(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}

	sales, page, err := h.creatorService.ListSales(c.Request.Context(), c.Param("id"), q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, sales, page)
}
