package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/internal/repository"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

// ProductService provides product catalog queries.
type ProductService struct {
	products repository.ProductRepository
}

// NewProductService constructs a ProductService.
func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// List returns one page of products. Missing sort and order fall back to
// newest first.
func (s *ProductService) List(ctx context.Context, f models.ProductFilter) ([]models.Product, utils.Pagination, error) {
	if f.Sort == "" {
		f.Sort = models.DefaultProductSort
	}
	if f.Order == "" {
		f.Order = models.SortDesc
	}
	f.Page, f.Limit = utils.NormalizePage(f.Page, f.Limit)

	products, total, err := s.products.List(ctx, f)
	if err != nil {
		return nil, utils.Pagination{}, fmt.Errorf("list products: %w", err)
	}
	return products, utils.NewPagination(f.Page, f.Limit, total), nil
}

// Get returns a product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}
