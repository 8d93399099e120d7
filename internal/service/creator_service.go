package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GTDGit/creator_match_api/internal/analytics"
	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/internal/repository"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

// CreatorService provides creator listing and detail views.
type CreatorService struct {
	creators repository.CreatorRepository
	products repository.ProductRepository
	sales    repository.SaleRepository
}

// NewCreatorService constructs a CreatorService.
func NewCreatorService(creators repository.CreatorRepository, products repository.ProductRepository, sales repository.SaleRepository) *CreatorService {
	return &CreatorService{creators: creators, products: products, sales: sales}
}

// List returns one page of creators. Missing sort and order fall back to
// followers, descending.
func (s *CreatorService) List(ctx context.Context, f models.CreatorFilter) ([]models.Creator, utils.Pagination, error) {
	if f.Sort == "" {
		f.Sort = models.DefaultCreatorSort
	}
	if f.Order == "" {
		f.Order = models.SortDesc
	}
	f.Page, f.Limit = utils.NormalizePage(f.Page, f.Limit)

	creators, total, err := s.creators.List(ctx, f)
	if err != nil {
		return nil, utils.Pagination{}, fmt.Errorf("list creators: %w", err)
	}
	return creators, utils.NewPagination(f.Page, f.Limit, total), nil
}

// Get returns a creator with stats computed from its sales history.
func (s *CreatorService) Get(ctx context.Context, id string) (*models.CreatorDetail, error) {
	creator, err := s.getCreator(ctx, id)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.ListByCreator(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	products, err := s.products.GetByIDs(ctx, productIDsOf(sales))
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	return &models.CreatorDetail{
		Creator: *creator,
		Stats:   analytics.CreatorStats(sales, products),
	}, nil
}

// ListSales returns one page of a creator's sales, newest first.
func (s *CreatorService) ListSales(ctx context.Context, id string, page, limit int) ([]models.Sale, utils.Pagination, error) {
	if _, err := s.getCreator(ctx, id); err != nil {
		return nil, utils.Pagination{}, err
	}

	page, limit = utils.NormalizePage(page, limit)
	sales, total, err := s.sales.ListByCreatorPaged(ctx, id, page, limit)
	if err != nil {
		return nil, utils.Pagination{}, fmt.Errorf("list sales: %w", err)
	}
	return sales, utils.NewPagination(page, limit, total), nil
}

func (s *CreatorService) getCreator(ctx context.Context, id string) (*models.Creator, error) {
	creator, err := s.creators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrCreatorNotFound
		}
		return nil, fmt.Errorf("get creator: %w", err)
	}
	return creator, nil
}

// productIDsOf returns the distinct product ids referenced by sales.
func productIDsOf(sales []models.Sale) []string {
	seen := make(map[string]struct{}, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		if _, ok := seen[s.ProductID]; ok {
			continue
		}
		seen[s.ProductID] = struct{}{}
		ids = append(ids, s.ProductID)
	}
	return ids
}
