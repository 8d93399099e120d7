package models

import "time"

// Sale is a historical sale of a product by a creator.
type Sale struct {
	ID             string    `db:"id" json:"id"`
	CreatorID      string    `db:"creator_id" json:"creatorId"`
	ProductID      string    `db:"product_id" json:"productId"`
	Quantity       int       `db:"quantity" json:"quantity"`
	Revenue        int64     `db:"revenue" json:"revenue"`
	Commission     int64     `db:"commission" json:"commission"`
	ConversionRate float64   `db:"conversion_rate" json:"conversionRate"`
	SoldAt         time.Time `db:"sold_at" json:"soldAt"`
}

// UnitPrice is the per-unit price actually paid. Zero-quantity records fall
// back to the supplied list price.
func (s *Sale) UnitPrice(listPrice int64) float64 {
	if s.Quantity <= 0 {
		return float64(listPrice)
	}
	return float64(s.Revenue) / float64(s.Quantity)
}
