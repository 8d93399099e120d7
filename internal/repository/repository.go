package repository

import (
	"context"
	"errors"

	"github.com/GTDGit/creator_match_api/internal/models"
)

// ErrNotFound is returned when a lookup by id finds nothing.
var ErrNotFound = errors.New("record not found")

// CreatorRepository provides read access to creators.
type CreatorRepository interface {
	List(ctx context.Context, filter models.CreatorFilter) ([]models.Creator, int, error)
	GetByID(ctx context.Context, id string) (*models.Creator, error)
	// ListByCategory returns every creator declaring an affinity for category.
	ListByCategory(ctx context.Context, category models.Category) ([]models.Creator, error)
}

// ProductRepository provides read access to the product catalog.
type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// GetByIDs resolves the given ids. Unknown ids are absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
	// ListByCategories returns catalog products in any of the categories, in
	// catalog order.
	ListByCategories(ctx context.Context, categories []string) ([]models.Product, error)
}

// SaleRepository provides read access to sales history.
type SaleRepository interface {
	// ListByCreator returns a creator's sales oldest first.
	ListByCreator(ctx context.Context, creatorID string) ([]models.Sale, error)
	// ListByCreatorPaged returns one page of a creator's sales, newest first.
	ListByCreatorPaged(ctx context.Context, creatorID string, page, limit int) ([]models.Sale, int, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
