package service

import (
	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/pkg/llm"
)

func creatorProfile(c *models.Creator) llm.CreatorProfile {
	return llm.CreatorProfile{
		ID:             c.ID,
		Name:           c.Name,
		Platform:       string(c.Platform),
		Followers:      c.Followers,
		EngagementRate: c.EngagementRate,
		Categories:     c.Categories,
		Audience:       c.Audience,
	}
}

func productProfile(p *models.Product) llm.ProductProfile {
	return llm.ProductProfile{
		ID:             p.ID,
		Name:           p.Name,
		Category:       string(p.Category),
		Brand:          p.Brand,
		Price:          p.Price,
		CommissionRate: p.CommissionRate,
		Seasonality:    p.Seasonality,
		TargetAudience: p.TargetAudience,
	}
}

// salesProfile sends aggregates only; raw sale rows never reach the prompt.
func salesProfile(pre *models.Preprocessed) llm.SalesProfile {
	out := llm.SalesProfile{
		TotalSales:        pre.Summary.TotalSales,
		TotalRevenue:      pre.Summary.TotalRevenue,
		AverageOrderValue: pre.Summary.AverageOrderValue,
		Categories:        make([]llm.Stat, 0, len(pre.CategoryBreakdown)),
		PriceRanges:       make([]llm.Stat, 0, len(pre.PriceDistribution)),
		Seasons:           make([]llm.Stat, 0, len(pre.SeasonalPattern)),
	}
	for _, c := range pre.CategoryBreakdown {
		out.Categories = append(out.Categories, llm.Stat{Label: c.Category, Count: c.Count, Revenue: c.Revenue, Share: c.Share})
	}
	for _, b := range pre.PriceDistribution {
		out.PriceRanges = append(out.PriceRanges, llm.Stat{Label: b.Range, Count: b.Count, Revenue: b.Revenue})
	}
	for _, s := range pre.SeasonalPattern {
		out.Seasons = append(out.Seasons, llm.Stat{Label: s.Season, Count: s.Count, Revenue: s.Revenue})
	}
	return out
}
