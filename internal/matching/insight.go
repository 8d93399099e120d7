package matching

import (
	"fmt"
	"time"

	"github.com/GTDGit/creator_match_api/internal/models"
)

const (
	maxTopCategories   = 3
	engagementBaseline = 3.0
)

// Insight builds a rule-based narrative from a creator's preprocessed sales.
func Insight(creator models.Creator, pre models.Preprocessed, now time.Time) models.Insight {
	top := topCategory(&creator, &pre)

	topCategories := make([]string, 0, maxTopCategories)
	for i, c := range pre.CategoryBreakdown {
		if i == maxTopCategories {
			break
		}
		topCategories = append(topCategories, c.Category)
	}

	return models.Insight{
		CreatorID:       creator.ID,
		Summary:         insightSummary(&creator, &pre, top),
		Strengths:       strengths(&creator, &pre),
		Opportunities:   opportunities(&creator, &pre),
		Recommendations: recommendations(&pre, top),
		TopCategories:   topCategories,
		Preprocessed:    pre,
		Source:          models.SourceFallback,
		GeneratedAt:     now,
	}
}

func insightSummary(c *models.Creator, pre *models.Preprocessed, top string) string {
	s := pre.Summary
	summary := fmt.Sprintf("%s generated %d in revenue across %d sales with an average order value of %.0f.",
		c.Name, s.TotalRevenue, s.TotalSales, s.AverageOrderValue)
	if top != "" && len(pre.CategoryBreakdown) > 0 {
		summary += fmt.Sprintf(" %s leads with %.1f%% of revenue.", top, pre.CategoryBreakdown[0].Share)
	}
	return summary
}

func strengths(c *models.Creator, pre *models.Preprocessed) []string {
	out := make([]string, 0, 3)
	for i, cat := range pre.CategoryBreakdown {
		if i == 2 {
			break
		}
		out = append(out, fmt.Sprintf("Strong performance in %s: %.1f%% of revenue from %d sales", cat.Category, cat.Share, cat.Count))
	}
	if c.EngagementRate >= engagementBaseline {
		out = append(out, fmt.Sprintf("Engagement rate of %.1f%% is above the %.0f%% baseline", c.EngagementRate, engagementBaseline))
	}
	if len(out) == 0 {
		out = append(out, fmt.Sprintf("Established %s presence with %d followers", c.Platform, c.Followers))
	}
	return out
}

func opportunities(c *models.Creator, pre *models.Preprocessed) []string {
	sold := make(map[string]struct{}, len(pre.CategoryBreakdown))
	for _, cat := range pre.CategoryBreakdown {
		sold[cat.Category] = struct{}{}
	}

	out := make([]string, 0, 3)
	for _, cat := range c.Categories {
		if _, ok := sold[cat]; !ok {
			out = append(out, fmt.Sprintf("No recorded sales yet in %s despite a declared interest", cat))
		}
	}
	if bucket, ok := weakestBucket(pre.PriceDistribution); ok && len(pre.PriceDistribution) > 1 {
		out = append(out, fmt.Sprintf("The %s price range is underused with %d sales", bucket.Range, bucket.Count))
	}
	if pre.Summary.UnattributedRevenue > 0 {
		out = append(out, fmt.Sprintf("%d in revenue could not be attributed to a catalog product", pre.Summary.UnattributedRevenue))
	}
	if len(out) == 0 {
		out = append(out, "Broaden the catalog mix to reduce dependence on the leading category")
	}
	return out
}

func recommendations(pre *models.Preprocessed, top string) []string {
	out := make([]string, 0, 3)
	if top != "" {
		out = append(out, fmt.Sprintf("Prioritize %s products for upcoming campaigns", top))
	}
	if bucket, ok := strongestBucket(pre.PriceDistribution); ok {
		out = append(out, fmt.Sprintf("Focus on products in the %s price range, which drives the most revenue", bucket.Range))
	}
	if season, ok := strongestSeason(pre.SeasonalPattern); ok {
		out = append(out, fmt.Sprintf("Schedule major launches for %s, the strongest season with %d sales", season.Season, season.Count))
	}
	if len(out) == 0 {
		out = append(out, "Build a longer sales history before committing to a campaign focus")
	}
	return out
}

func strongestBucket(buckets []models.PriceBucket) (models.PriceBucket, bool) {
	if len(buckets) == 0 {
		return models.PriceBucket{}, false
	}
	best := buckets[0]
	for _, b := range buckets[1:] {
		if b.Revenue > best.Revenue {
			best = b
		}
	}
	return best, true
}

func weakestBucket(buckets []models.PriceBucket) (models.PriceBucket, bool) {
	if len(buckets) == 0 {
		return models.PriceBucket{}, false
	}
	worst := buckets[0]
	for _, b := range buckets[1:] {
		if b.Count < worst.Count {
			worst = b
		}
	}
	return worst, true
}

func strongestSeason(seasons []models.SeasonStat) (models.SeasonStat, bool) {
	if len(seasons) == 0 {
		return models.SeasonStat{}, false
	}
	best := seasons[0]
	for _, s := range seasons[1:] {
		if s.Count > best.Count {
			best = s
		}
	}
	return best, true
}
