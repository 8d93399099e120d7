package repository

import (
	"context"
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/creator_match_api/internal/database"
	"github.com/GTDGit/creator_match_api/internal/dataset"
	"github.com/GTDGit/creator_match_api/internal/models"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 10, 0, 0, 0, time.UTC)
}

func fixture() *dataset.Dataset {
	return &dataset.Dataset{
		Creators: []models.Creator{
			{ID: "c-1", Name: "Alice", Handle: "@alice", Platform: models.PlatformInstagram, Followers: 5000, EngagementRate: 4.2, Categories: models.StringList{"Beauty", "Fashion"}, Audience: models.StringList{"women"}, CreatedAt: day(1, 1)},
			{ID: "c-2", Name: "bob", Handle: "@bob", Platform: models.PlatformTikTok, Followers: 9000, EngagementRate: 6.1, Categories: models.StringList{"Food"}, CreatedAt: day(1, 2)},
			{ID: "c-3", Name: "Cara", Handle: "@cara", Platform: models.PlatformYouTube, Followers: 5000, EngagementRate: 3.3, Categories: models.StringList{"Beauty"}, CreatedAt: day(1, 3)},
			{ID: "c-4", Name: "Dan", Handle: "@dan", Platform: models.PlatformInstagram, Followers: 1000, EngagementRate: 2.0, Categories: models.StringList{"Tech"}, CreatedAt: day(1, 4)},
		},
		Products: []models.Product{
			{ID: "p-1", Name: "Glow Serum", Category: models.CategoryBeauty, Brand: "Lumina", Price: 25000, OriginalPrice: 30000, CommissionRate: 12, CreatedAt: day(2, 1)},
			{ID: "p-2", Name: "Matte Lipstick", Category: models.CategoryBeauty, Brand: "Rouge", Price: 15000, OriginalPrice: 15000, CommissionRate: 10, CreatedAt: day(2, 2)},
			{ID: "p-3", Name: "Chili Oil", Category: models.CategoryFood, Brand: "Dapur", Price: 20000, OriginalPrice: 25000, CommissionRate: 8, CreatedAt: day(2, 3)},
			{ID: "p-4", Name: "Earbuds", Category: models.CategoryTech, Brand: "Sonic", Price: 150000, OriginalPrice: 200000, CommissionRate: 5, CreatedAt: day(2, 4)},
		},
		Sales: []models.Sale{
			{ID: "s-1", CreatorID: "c-1", ProductID: "p-1", Quantity: 2, Revenue: 50000, Commission: 6000, ConversionRate: 2.5, SoldAt: day(1, 10)},
			{ID: "s-2", CreatorID: "c-1", ProductID: "p-2", Quantity: 1, Revenue: 15000, Commission: 1500, ConversionRate: 1.5, SoldAt: day(3, 10)},
			{ID: "s-3", CreatorID: "c-1", ProductID: "p-1", Quantity: 1, Revenue: 25000, Commission: 3000, ConversionRate: 2.0, SoldAt: day(2, 10)},
			{ID: "s-4", CreatorID: "c-1", ProductID: "p-retired", Quantity: 1, Revenue: 9000, Commission: 900, ConversionRate: 1.0, SoldAt: day(4, 10)},
			{ID: "s-5", CreatorID: "c-2", ProductID: "p-3", Quantity: 3, Revenue: 60000, Commission: 4800, ConversionRate: 3.0, SoldAt: day(1, 20)},
		},
	}
}

type backend struct {
	creators CreatorRepository
	products ProductRepository
	sales    SaleRepository
}

func newSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	raw, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	driver, err := sqlite3.WithInstance(raw, &sqlite3.Config{})
	require.NoError(t, err)
	require.NoError(t, database.MigrateWith(driver, "sqlite3"))

	return sqlx.NewDb(raw, "sqlite3")
}

// backends returns the memory and SQL implementations loaded with the same data.
func backends(t *testing.T) map[string]backend {
	t.Helper()

	mem := NewMemoryStore(fixture())

	db := newSQLiteDB(t)
	require.NoError(t, ImportDataset(context.Background(), db, fixture()))

	return map[string]backend{
		"memory": {creators: mem.Creators(), products: mem.Products(), sales: mem.Sales()},
		"sql": {
			creators: NewSQLCreatorRepository(db),
			products: NewSQLProductRepository(db),
			sales:    NewSQLSaleRepository(db),
		},
	}
}

func creatorIDs(items []models.Creator) []string {
	ids := make([]string, len(items))
	for i, c := range items {
		ids[i] = c.ID
	}
	return ids
}

func productIDs(items []models.Product) []string {
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}

func saleIDs(items []models.Sale) []string {
	ids := make([]string, len(items))
	for i, s := range items {
		ids[i] = s.ID
	}
	return ids
}

func TestCreatorRepository(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("default sort followers desc with id tiebreak", func(t *testing.T) {
				items, total, err := b.creators.List(ctx, models.CreatorFilter{})
				require.NoError(t, err)
				assert.Equal(t, 4, total)
				assert.Equal(t, []string{"c-2", "c-1", "c-3", "c-4"}, creatorIDs(items))
			})

			t.Run("platform filter", func(t *testing.T) {
				items, total, err := b.creators.List(ctx, models.CreatorFilter{Platform: models.PlatformInstagram})
				require.NoError(t, err)
				assert.Equal(t, 2, total)
				assert.Equal(t, []string{"c-1", "c-4"}, creatorIDs(items))
			})

			t.Run("category filter", func(t *testing.T) {
				items, total, err := b.creators.List(ctx, models.CreatorFilter{Category: models.CategoryBeauty})
				require.NoError(t, err)
				assert.Equal(t, 2, total)
				assert.ElementsMatch(t, []string{"c-1", "c-3"}, creatorIDs(items))
			})

			t.Run("pagination", func(t *testing.T) {
				items, total, err := b.creators.List(ctx, models.CreatorFilter{Page: 2, Limit: 3})
				require.NoError(t, err)
				assert.Equal(t, 4, total)
				assert.Equal(t, []string{"c-4"}, creatorIDs(items))

				items, _, err = b.creators.List(ctx, models.CreatorFilter{Page: 5, Limit: 3})
				require.NoError(t, err)
				assert.Empty(t, items)

				items, total, err = b.creators.List(ctx, models.CreatorFilter{Page: math.MaxInt, Limit: 20})
				require.NoError(t, err)
				assert.Equal(t, 4, total)
				assert.Empty(t, items)
			})

			t.Run("numeric sort both directions", func(t *testing.T) {
				asc, _, err := b.creators.List(ctx, models.CreatorFilter{Sort: models.CreatorSortEngagementRate, Order: models.SortAsc})
				require.NoError(t, err)
				require.Len(t, asc, 4)
				for i := 1; i < len(asc); i++ {
					assert.LessOrEqual(t, asc[i-1].EngagementRate, asc[i].EngagementRate)
				}

				desc, _, err := b.creators.List(ctx, models.CreatorFilter{Sort: models.CreatorSortEngagementRate, Order: models.SortDesc})
				require.NoError(t, err)
				require.Len(t, desc, 4)
				for i := 1; i < len(desc); i++ {
					assert.GreaterOrEqual(t, desc[i-1].EngagementRate, desc[i].EngagementRate)
				}
				assert.Equal(t, []string{"c-2", "c-1", "c-3", "c-4"}, creatorIDs(desc))

				// equal follower counts fall back to id order in both directions
				asc, _, err = b.creators.List(ctx, models.CreatorFilter{Sort: models.CreatorSortFollowers, Order: models.SortAsc})
				require.NoError(t, err)
				assert.Equal(t, []string{"c-4", "c-1", "c-3", "c-2"}, creatorIDs(asc))
			})

			t.Run("name sort is case-insensitive", func(t *testing.T) {
				items, _, err := b.creators.List(ctx, models.CreatorFilter{Sort: models.CreatorSortName, Order: models.SortAsc})
				require.NoError(t, err)
				assert.Equal(t, []string{"c-1", "c-2", "c-3", "c-4"}, creatorIDs(items))
			})

			t.Run("get by id", func(t *testing.T) {
				c, err := b.creators.GetByID(ctx, "c-1")
				require.NoError(t, err)
				assert.Equal(t, "Alice", c.Name)
				assert.Equal(t, models.StringList{"Beauty", "Fashion"}, c.Categories)

				_, err = b.creators.GetByID(ctx, "c-404")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("list by category", func(t *testing.T) {
				items, err := b.creators.ListByCategory(ctx, models.CategoryBeauty)
				require.NoError(t, err)
				assert.Equal(t, []string{"c-1", "c-3"}, creatorIDs(items))
			})
		})
	}
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	price := func(v int64) *int64 { return &v }

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("default sort newest first", func(t *testing.T) {
				items, total, err := b.products.List(ctx, models.ProductFilter{})
				require.NoError(t, err)
				assert.Equal(t, 4, total)
				assert.Equal(t, []string{"p-4", "p-3", "p-2", "p-1"}, productIDs(items))
			})

			t.Run("price bounds are inclusive", func(t *testing.T) {
				items, total, err := b.products.List(ctx, models.ProductFilter{
					MinPrice: price(15000),
					MaxPrice: price(25000),
					Sort:     models.ProductSortPrice,
					Order:    models.SortAsc,
				})
				require.NoError(t, err)
				assert.Equal(t, 3, total)
				assert.Equal(t, []string{"p-2", "p-3", "p-1"}, productIDs(items))
				for _, p := range items {
					assert.GreaterOrEqual(t, p.Price, int64(15000))
					assert.LessOrEqual(t, p.Price, int64(25000))
				}
			})

			t.Run("category with price bounds", func(t *testing.T) {
				items, total, err := b.products.List(ctx, models.ProductFilter{
					Category: models.CategoryBeauty,
					MinPrice: price(20000),
					MaxPrice: price(80000),
				})
				require.NoError(t, err)
				assert.Equal(t, 1, total)
				assert.Equal(t, []string{"p-1"}, productIDs(items))

				items, total, err = b.products.List(ctx, models.ProductFilter{
					Category: models.CategoryBeauty,
					MinPrice: price(30000),
					MaxPrice: price(80000),
				})
				require.NoError(t, err)
				assert.Zero(t, total)
				assert.Empty(t, items)
			})

			t.Run("search wildcards match literally", func(t *testing.T) {
				for _, q := range []string{"%", "_", `\`, "glow%"} {
					items, total, err := b.products.List(ctx, models.ProductFilter{Search: q})
					require.NoError(t, err, q)
					assert.Zero(t, total, q)
					assert.Empty(t, items, q)
				}
			})

			t.Run("page past the end", func(t *testing.T) {
				items, total, err := b.products.List(ctx, models.ProductFilter{Page: math.MaxInt, Limit: 20})
				require.NoError(t, err)
				assert.Equal(t, 4, total)
				assert.Empty(t, items)
			})

			t.Run("category and search", func(t *testing.T) {
				items, _, err := b.products.List(ctx, models.ProductFilter{Category: models.CategoryBeauty})
				require.NoError(t, err)
				assert.ElementsMatch(t, []string{"p-1", "p-2"}, productIDs(items))

				items, _, err = b.products.List(ctx, models.ProductFilter{Search: "lumi"})
				require.NoError(t, err)
				assert.Equal(t, []string{"p-1"}, productIDs(items))

				items, _, err = b.products.List(ctx, models.ProductFilter{Search: "OIL"})
				require.NoError(t, err)
				assert.Equal(t, []string{"p-3"}, productIDs(items))
			})

			t.Run("discount sort", func(t *testing.T) {
				items, _, err := b.products.List(ctx, models.ProductFilter{Sort: models.ProductSortDiscountRate})
				require.NoError(t, err)
				assert.Equal(t, []string{"p-4", "p-3", "p-1", "p-2"}, productIDs(items))
			})

			t.Run("get by ids skips unknown", func(t *testing.T) {
				got, err := b.products.GetByIDs(ctx, []string{"p-1", "p-retired"})
				require.NoError(t, err)
				assert.Len(t, got, 1)
				assert.Equal(t, "Glow Serum", got["p-1"].Name)

				_, err = b.products.GetByID(ctx, "p-retired")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("list by categories", func(t *testing.T) {
				items, err := b.products.ListByCategories(ctx, []string{"Beauty", "Food"})
				require.NoError(t, err)
				assert.Equal(t, []string{"p-1", "p-2", "p-3"}, productIDs(items))

				items, err = b.products.ListByCategories(ctx, nil)
				require.NoError(t, err)
				assert.Empty(t, items)
			})
		})
	}
}

func TestSaleRepository(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sales, err := b.sales.ListByCreator(ctx, "c-1")
			require.NoError(t, err)
			assert.Equal(t, []string{"s-1", "s-3", "s-2", "s-4"}, saleIDs(sales))

			page, total, err := b.sales.ListByCreatorPaged(ctx, "c-1", 1, 2)
			require.NoError(t, err)
			assert.Equal(t, 4, total)
			assert.Equal(t, []string{"s-4", "s-2"}, saleIDs(page))

			none, err := b.sales.ListByCreator(ctx, "c-4")
			require.NoError(t, err)
			assert.Empty(t, none)

			page, total, err = b.sales.ListByCreatorPaged(ctx, "c-1", math.MaxInt, 20)
			require.NoError(t, err)
			assert.Equal(t, 4, total)
			assert.Empty(t, page)

			n, err := b.sales.CountByProduct(ctx, "p-1")
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}

func TestMemoryStore_Swap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(fixture())

	next := fixture()
	next.Creators = next.Creators[:1]
	next.Sales = next.Sales[:4]
	store.Swap(next)

	_, total, err := store.Creators().List(ctx, models.CreatorFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = store.Creators().GetByID(ctx, "c-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportDataset_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)

	require.NoError(t, ImportDataset(ctx, db, fixture()))

	updated := fixture()
	updated.Creators[0].Followers = 7777
	require.NoError(t, ImportDataset(ctx, db, updated))

	c, err := NewSQLCreatorRepository(db).GetByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7777), c.Followers)

	var sales int
	require.NoError(t, db.Get(&sales, `SELECT COUNT(1) FROM sales`))
	assert.Equal(t, 5, sales)
}

func TestImportDataset_RejectsInvalid(t *testing.T) {
	db := newSQLiteDB(t)

	bad := fixture()
	bad.Sales[0].CreatorID = "c-404"
	err := ImportDataset(context.Background(), db, bad)
	assert.ErrorIs(t, err, dataset.ErrInvalid)
}
