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

const creatorColumns = `id, name, handle, platform, followers, engagement_rate,
        categories, audience, total_sales, total_revenue, created_at`

// SQLCreatorRepository handles data access for creators.
type SQLCreatorRepository struct {
	db *sqlx.DB
}

var _ CreatorRepository = (*SQLCreatorRepository)(nil)

// NewSQLCreatorRepository creates a new SQLCreatorRepository.
func NewSQLCreatorRepository(db *sqlx.DB) *SQLCreatorRepository {
	return &SQLCreatorRepository{db: db}
}

// categoryPattern matches a label inside the JSON text of a list column.
func categoryPattern(category string) string {
	return `%"` + category + `"%`
}

// List returns one page of creators matching the filter plus the total count.
func (r *SQLCreatorRepository) List(ctx context.Context, f models.CreatorFilter) ([]models.Creator, int, error) {
	var (
		clauses []string
		args    []interface{}
	)
	if f.Platform != "" {
		clauses = append(clauses, "platform = ?")
		args = append(args, string(f.Platform))
	}
	if f.Category != "" {
		clauses = append(clauses, "categories LIKE ?")
		args = append(args, categoryPattern(string(f.Category)))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(1) FROM creators`+where), args...); err != nil {
		return nil, 0, err
	}

	page, limit := utils.NormalizePage(f.Page, f.Limit)
	q := `SELECT ` + creatorColumns + ` FROM creators` + where +
		` ORDER BY ` + creatorOrderBy(f.Sort, f.Order) + ` LIMIT ? OFFSET ?`

	creators := []models.Creator{}
	if err := r.db.SelectContext(ctx, &creators, r.db.Rebind(q), append(args, limit, utils.PageOffset(page, limit, total))...); err != nil {
		return nil, 0, err
	}
	return creators, total, nil
}

// GetByID returns a single creator by id.
func (r *SQLCreatorRepository) GetByID(ctx context.Context, id string) (*models.Creator, error) {
	q := r.db.Rebind(`SELECT ` + creatorColumns + ` FROM creators WHERE id = ? LIMIT 1`)

	var c models.Creator
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByCategory returns every creator that declares category.
func (r *SQLCreatorRepository) ListByCategory(ctx context.Context, category models.Category) ([]models.Creator, error) {
	q := r.db.Rebind(`SELECT ` + creatorColumns + ` FROM creators WHERE categories LIKE ? ORDER BY id`)

	creators := []models.Creator{}
	if err := r.db.SelectContext(ctx, &creators, q, categoryPattern(string(category))); err != nil {
		return nil, err
	}
	return creators, nil
}
