package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

const saleColumns = `id, creator_id, product_id, quantity, revenue, commission, conversion_rate, sold_at`

// SQLSaleRepository handles data access for sales history.
type SQLSaleRepository struct {
	db *sqlx.DB
}

var _ SaleRepository = (*SQLSaleRepository)(nil)

// NewSQLSaleRepository creates a new SQLSaleRepository.
func NewSQLSaleRepository(db *sqlx.DB) *SQLSaleRepository {
	return &SQLSaleRepository{db: db}
}

// ListByCreator returns all of a creator's sales, oldest first.
func (r *SQLSaleRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Sale, error) {
	q := r.db.Rebind(`SELECT ` + saleColumns + ` FROM sales WHERE creator_id = ? ORDER BY sold_at ASC, id ASC`)

	sales := []models.Sale{}
	if err := r.db.SelectContext(ctx, &sales, q, creatorID); err != nil {
		return nil, err
	}
	return sales, nil
}

// ListByCreatorPaged returns one page of a creator's sales, newest first.
func (r *SQLSaleRepository) ListByCreatorPaged(ctx context.Context, creatorID string, page, limit int) ([]models.Sale, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(1) FROM sales WHERE creator_id = ?`), creatorID); err != nil {
		return nil, 0, err
	}

	page, limit = utils.NormalizePage(page, limit)
	q := r.db.Rebind(`SELECT ` + saleColumns + ` FROM sales WHERE creator_id = ?
        ORDER BY sold_at DESC, id DESC LIMIT ? OFFSET ?`)

	sales := []models.Sale{}
	if err := r.db.SelectContext(ctx, &sales, q, creatorID, limit, utils.PageOffset(page, limit, total)); err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// CountByProduct returns how many sales reference a product.
func (r *SQLSaleRepository) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(1) FROM sales WHERE product_id = ?`), productID)
	return n, err
}
