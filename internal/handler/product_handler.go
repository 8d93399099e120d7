package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/internal/service"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

// ProductHandler handles product-related HTTP endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type listProductsQuery struct {
	pageQuery
	Category string `form:"category" binding:"omitempty,oneof=Beauty Fashion Food Health Tech Home Sports Pet"`
	MinPrice *int64 `form:"minPrice" binding:"omitempty,min=0"`
	MaxPrice *int64 `form:"maxPrice" binding:"omitempty,min=0"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	Sort     string `form:"sort" binding:"omitempty,oneof=price name commissionRate discountRate createdAt"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// ListProducts returns the product list with optional filters and pagination.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var q listProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		utils.ErrorWithDetails(c, http.StatusBadRequest, utils.CodeInvalidRequest, "Request validation failed",
			[]utils.FieldDetail{{Field: "maxPrice", Message: "must not be less than minPrice"}})
		return
	}

	products, page, err := h.productService.List(c.Request.Context(), models.ProductFilter{
		Category: models.Category(q.Category),
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Search:   q.Search,
		Sort:     models.ProductSortKey(q.Sort),
		Order:    models.SortOrder(q.Order),
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithPagination(c, http.StatusOK, products, page)
}

// GetProduct returns one product.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, product)
}
