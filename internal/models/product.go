package models

import "time"

// Category enumerates product categories.
type Category string

const (
	CategoryBeauty  Category = "Beauty"
	CategoryFashion Category = "Fashion"
	CategoryFood    Category = "Food"
	CategoryHealth  Category = "Health"
	CategoryTech    Category = "Tech"
	CategoryHome    Category = "Home"
	CategorySports  Category = "Sports"
	CategoryPet     Category = "Pet"
)

// Categories lists every product category.
var Categories = []Category{
	CategoryBeauty, CategoryFashion, CategoryFood, CategoryHealth,
	CategoryTech, CategoryHome, CategorySports, CategoryPet,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Product represents a sellable catalog item.
// Prices are whole currency units.
type Product struct {
	ID             string     `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Category       Category   `db:"category" json:"category"`
	Brand          string     `db:"brand" json:"brand"`
	Price          int64      `db:"price" json:"price"`
	OriginalPrice  int64      `db:"original_price" json:"originalPrice"`
	CommissionRate float64    `db:"commission_rate" json:"commissionRate"`
	Tags           StringList `db:"tags" json:"tags,omitempty"`
	Seasonality    StringList `db:"seasonality" json:"seasonality,omitempty"`
	TargetAudience StringList `db:"target_audience" json:"targetAudience,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// DiscountRate returns the percentage off the original price, 0 when the
// product is not discounted.
func (p *Product) DiscountRate() float64 {
	if p.OriginalPrice <= 0 || p.Price >= p.OriginalPrice {
		return 0
	}
	return float64(p.OriginalPrice-p.Price) / float64(p.OriginalPrice) * 100
}

// ProductSortKey is the closed set of fields a product list can be sorted by.
type ProductSortKey string

const (
	ProductSortPrice          ProductSortKey = "price"
	ProductSortName           ProductSortKey = "name"
	ProductSortCommissionRate ProductSortKey = "commissionRate"
	ProductSortDiscountRate   ProductSortKey = "discountRate"
	ProductSortCreatedAt      ProductSortKey = "createdAt"
)

// ProductFilter holds list filters for products. Nil or empty fields are ignored.
type ProductFilter struct {
	Category Category
	MinPrice *int64
	MaxPrice *int64
	Search   string
	Sort     ProductSortKey
	Order    SortOrder
	Page     int
	Limit    int
}

// DefaultProductSort is applied when a list request names no sort key.
const DefaultProductSort = ProductSortCreatedAt

// ProductSortKeys lists every valid product sort key.
var ProductSortKeys = []ProductSortKey{
	ProductSortPrice, ProductSortName, ProductSortCommissionRate,
	ProductSortDiscountRate, ProductSortCreatedAt,
}
