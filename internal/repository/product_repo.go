package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

const productColumns = `id, name, category, brand, price, original_price, commission_rate,
        tags, seasonality, target_audience, created_at`

// SQLProductRepository handles data access for products.
type SQLProductRepository struct {
	db *sqlx.DB
}

var _ ProductRepository = (*SQLProductRepository)(nil)

// NewSQLProductRepository creates a new SQLProductRepository.
func NewSQLProductRepository(db *sqlx.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db}
}

// List returns one page of products with filters plus the total count.
// Filters: category (exact), price bounds (inclusive), search (case-insensitive
// substring of name or brand). Empty filters are ignored.
func (r *SQLProductRepository) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	var (
		clauses []string
		args    []interface{}
	)
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, string(f.Category))
	}
	if f.MinPrice != nil {
		clauses = append(clauses, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, "price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		clauses = append(clauses, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(brand) LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(search) + "%"
		args = append(args, pattern, pattern)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(1) FROM products`+where), args...); err != nil {
		return nil, 0, err
	}

	page, limit := utils.NormalizePage(f.Page, f.Limit)
	q := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY ` + productOrderBy(f.Sort, f.Order) + ` LIMIT ? OFFSET ?`

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(q), append(args, limit, utils.PageOffset(page, limit, total))...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID returns a single product by id.
func (r *SQLProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	q := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ? LIMIT 1`)

	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByIDs resolves products by id. Unknown ids are left out of the result.
func (r *SQLProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	q, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// ListByCategories returns products in any of the categories ordered by id.
func (r *SQLProductRepository) ListByCategories(ctx context.Context, categories []string) ([]models.Product, error) {
	products := []models.Product{}
	if len(categories) == 0 {
		return products, nil
	}

	q, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE category IN (?) ORDER BY id`, categories)
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return products, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
