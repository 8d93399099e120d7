package analytics

import "github.com/GTDGit/creator_match_api/internal/models"

// CreatorStats summarizes a creator's sales history for the detail view.
func CreatorStats(sales []models.Sale, products map[string]models.Product) models.CreatorStats {
	stats := models.CreatorStats{
		SalesCount:    len(sales),
		HasEnoughData: len(sales) >= models.MinSalesForAnalysis,
	}
	if len(sales) == 0 {
		return stats
	}

	var conversion float64
	for _, s := range sales {
		stats.TotalQuantity += s.Quantity
		stats.TotalRevenue += s.Revenue
		stats.TotalCommission += s.Commission
		conversion += s.ConversionRate
	}
	stats.AverageOrderValue = float64(stats.TotalRevenue) / float64(len(sales))
	stats.AverageConversionRate = conversion / float64(len(sales))

	pre := Preprocess(sales, products)
	stats.TopCategory = pre.TopCategory()
	return stats
}
