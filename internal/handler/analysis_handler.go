package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/creator_match_api/internal/service"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

// AnalysisHandler serves the insight and matching endpoints.
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler constructs an AnalysisHandler.
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

type analyzeRequest struct {
	CreatorID string `json:"creatorId" binding:"required"`
}

// limit 0 means the default; values above the maximum are clamped.
type matchProductsRequest struct {
	CreatorID string `json:"creatorId" binding:"required"`
	Limit     int    `json:"limit" binding:"omitempty,min=1"`
}

type matchCreatorsRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Limit     int    `json:"limit" binding:"omitempty,min=1"`
}

// Analyze returns a narrative insight for a creator.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	insight, err := h.analysisService.AnalyzeCreator(c.Request.Context(), req.CreatorID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, insight)
}

// MatchProducts ranks products for a creator.
func (h *AnalysisHandler) MatchProducts(c *gin.Context) {
	var req matchProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	matches, err := h.analysisService.MatchProducts(c.Request.Context(), req.CreatorID, req.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{
		"creatorId": req.CreatorID,
		"matches":   matches,
	})
}

// MatchCreators ranks creators for a product.
func (h *AnalysisHandler) MatchCreators(c *gin.Context) {
	var req matchCreatorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	matches, err := h.analysisService.MatchCreators(c.Request.Context(), req.ProductID, req.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{
		"productId": req.ProductID,
		"matches":   matches,
	})
}
