package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/creator_match_api/internal/dataset"
)

const (
	upsertCreator = `
        INSERT INTO creators (id, name, handle, platform, followers, engagement_rate,
            categories, audience, total_sales, total_revenue, created_at)
        VALUES (:id, :name, :handle, :platform, :followers, :engagement_rate,
            :categories, :audience, :total_sales, :total_revenue, :created_at)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            handle = EXCLUDED.handle,
            platform = EXCLUDED.platform,
            followers = EXCLUDED.followers,
            engagement_rate = EXCLUDED.engagement_rate,
            categories = EXCLUDED.categories,
            audience = EXCLUDED.audience,
            total_sales = EXCLUDED.total_sales,
            total_revenue = EXCLUDED.total_revenue`

	upsertProduct = `
        INSERT INTO products (id, name, category, brand, price, original_price,
            commission_rate, tags, seasonality, target_audience, created_at)
        VALUES (:id, :name, :category, :brand, :price, :original_price,
            :commission_rate, :tags, :seasonality, :target_audience, :created_at)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            category = EXCLUDED.category,
            brand = EXCLUDED.brand,
            price = EXCLUDED.price,
            original_price = EXCLUDED.original_price,
            commission_rate = EXCLUDED.commission_rate,
            tags = EXCLUDED.tags,
            seasonality = EXCLUDED.seasonality,
            target_audience = EXCLUDED.target_audience`

	upsertSale = `
        INSERT INTO sales (id, creator_id, product_id, quantity, revenue, commission,
            conversion_rate, sold_at)
        VALUES (:id, :creator_id, :product_id, :quantity, :revenue, :commission,
            :conversion_rate, :sold_at)
        ON CONFLICT (id) DO NOTHING`
)

// ImportDataset writes a dataset into the SQL store in one transaction.
// Existing creators and products are updated; existing sales are kept.
func ImportDataset(ctx context.Context, db *sqlx.DB, ds *dataset.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for i := range ds.Creators {
		if _, err := tx.NamedExecContext(ctx, upsertCreator, &ds.Creators[i]); err != nil {
			return fmt.Errorf("import creator %s: %w", ds.Creators[i].ID, err)
		}
	}
	for i := range ds.Products {
		if _, err := tx.NamedExecContext(ctx, upsertProduct, &ds.Products[i]); err != nil {
			return fmt.Errorf("import product %s: %w", ds.Products[i].ID, err)
		}
	}
	for i := range ds.Sales {
		if _, err := tx.NamedExecContext(ctx, upsertSale, &ds.Sales[i]); err != nil {
			return fmt.Errorf("import sale %s: %w", ds.Sales[i].ID, err)
		}
	}
	return tx.Commit()
}
