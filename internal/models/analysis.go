package models

import "time"

// MinSalesForAnalysis is the minimum sales history needed before a creator or
// product can be analyzed or matched.
const MinSalesForAnalysis = 5

// ResultSource tells the caller which path produced an analysis result.
type ResultSource string

const (
	SourceAI       ResultSource = "ai"
	SourceFallback ResultSource = "fallback"
)

// CategoryShare is one row of a category breakdown.
type CategoryShare struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Revenue  int64   `json:"revenue"`
	Share    float64 `json:"share"`
}

// PriceBucket aggregates sales whose unit price falls in Range.
type PriceBucket struct {
	Range   string `json:"range"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

// SeasonStat aggregates sales by season.
type SeasonStat struct {
	Season  string `json:"season"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

// SalesSummary holds scalar totals over a sales history.
// UnattributedRevenue is revenue from sales whose product could not be
// resolved; it is part of TotalRevenue but of no category.
type SalesSummary struct {
	TotalSales          int     `json:"totalSales"`
	TotalRevenue        int64   `json:"totalRevenue"`
	AverageOrderValue   float64 `json:"averageOrderValue"`
	UnattributedRevenue int64   `json:"unattributedRevenue"`
}

// Preprocessed is the aggregate view of one creator's sales.
type Preprocessed struct {
	CategoryBreakdown []CategoryShare `json:"categoryBreakdown"`
	PriceDistribution []PriceBucket   `json:"priceDistribution"`
	SeasonalPattern   []SeasonStat    `json:"seasonalPattern"`
	Summary           SalesSummary    `json:"summary"`
}

// TopCategory returns the category with the highest revenue share, or an
// empty string when nothing could be attributed.
func (p *Preprocessed) TopCategory() string {
	if p == nil || len(p.CategoryBreakdown) == 0 {
		return ""
	}
	return p.CategoryBreakdown[0].Category
}

// Insight is the narrative analysis of a creator.
type Insight struct {
	CreatorID       string       `json:"creatorId"`
	Summary         string       `json:"summary"`
	Strengths       []string     `json:"strengths"`
	Opportunities   []string     `json:"opportunities"`
	Recommendations []string     `json:"recommendations"`
	TopCategories   []string     `json:"topCategories"`
	Preprocessed    Preprocessed `json:"preprocessed"`
	Source          ResultSource `json:"source"`
	GeneratedAt     time.Time    `json:"generatedAt"`
}
