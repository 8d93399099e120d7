package repository

import (
	"cmp"
	"sort"
	"strings"

	"github.com/GTDGit/creator_match_api/internal/models"
)

type creatorCompare func(a, b *models.Creator) int

type productCompare func(a, b *models.Product) int

var creatorComparators = map[models.CreatorSortKey]creatorCompare{
	models.CreatorSortFollowers: func(a, b *models.Creator) int {
		return cmp.Compare(a.Followers, b.Followers)
	},
	models.CreatorSortEngagementRate: func(a, b *models.Creator) int {
		return cmp.Compare(a.EngagementRate, b.EngagementRate)
	},
	models.CreatorSortTotalSales: func(a, b *models.Creator) int {
		return cmp.Compare(a.TotalSales, b.TotalSales)
	},
	models.CreatorSortTotalRevenue: func(a, b *models.Creator) int {
		return cmp.Compare(a.TotalRevenue, b.TotalRevenue)
	},
	models.CreatorSortName: func(a, b *models.Creator) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	},
	models.CreatorSortCreatedAt: func(a, b *models.Creator) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	},
}

var productComparators = map[models.ProductSortKey]productCompare{
	models.ProductSortPrice: func(a, b *models.Product) int {
		return cmp.Compare(a.Price, b.Price)
	},
	models.ProductSortName: func(a, b *models.Product) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	},
	models.ProductSortCommissionRate: func(a, b *models.Product) int {
		return cmp.Compare(a.CommissionRate, b.CommissionRate)
	},
	models.ProductSortDiscountRate: func(a, b *models.Product) int {
		return cmp.Compare(a.DiscountRate(), b.DiscountRate())
	},
	models.ProductSortCreatedAt: func(a, b *models.Product) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	},
}

// SQL expressions for each sort key. Keys outside the map never reach SQL.
var creatorSortColumns = map[models.CreatorSortKey]string{
	models.CreatorSortFollowers:      "followers",
	models.CreatorSortEngagementRate: "engagement_rate",
	models.CreatorSortTotalSales:     "total_sales",
	models.CreatorSortTotalRevenue:   "total_revenue",
	models.CreatorSortName:           "LOWER(name)",
	models.CreatorSortCreatedAt:      "created_at",
}

var productSortColumns = map[models.ProductSortKey]string{
	models.ProductSortPrice:          "price",
	models.ProductSortName:           "LOWER(name)",
	models.ProductSortCommissionRate: "commission_rate",
	models.ProductSortDiscountRate:   "CASE WHEN original_price > price AND original_price > 0 THEN (original_price - price) * 1.0 / original_price ELSE 0 END",
	models.ProductSortCreatedAt:      "created_at",
}

// sortCreators orders creators in place by key and direction. Equal keys
// fall back to ascending id so pages are stable.
func sortCreators(items []models.Creator, key models.CreatorSortKey, order models.SortOrder) {
	compare, ok := creatorComparators[key]
	if !ok {
		compare = creatorComparators[models.DefaultCreatorSort]
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := compare(&items[i], &items[j])
		if c == 0 {
			return items[i].ID < items[j].ID
		}
		if order == models.SortAsc {
			return c < 0
		}
		return c > 0
	})
}

func sortProducts(items []models.Product, key models.ProductSortKey, order models.SortOrder) {
	compare, ok := productComparators[key]
	if !ok {
		compare = productComparators[models.DefaultProductSort]
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := compare(&items[i], &items[j])
		if c == 0 {
			return items[i].ID < items[j].ID
		}
		if order == models.SortAsc {
			return c < 0
		}
		return c > 0
	})
}

func creatorOrderBy(key models.CreatorSortKey, order models.SortOrder) string {
	col, ok := creatorSortColumns[key]
	if !ok {
		col = creatorSortColumns[models.DefaultCreatorSort]
	}
	return col + " " + direction(order) + ", id ASC"
}

func productOrderBy(key models.ProductSortKey, order models.SortOrder) string {
	col, ok := productSortColumns[key]
	if !ok {
		col = productSortColumns[models.DefaultProductSort]
	}
	return col + " " + direction(order) + ", id ASC"
}

func direction(order models.SortOrder) string {
	if order == models.SortAsc {
		return "ASC"
	}
	return "DESC"
}
