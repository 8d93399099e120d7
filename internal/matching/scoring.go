// Package matching implements the deterministic fallback used when the AI
// provider cannot produce an insight or match list. Everything here is a pure
// function of its inputs.
package matching

import (
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/GTDGit/creator_match_api/internal/models"
)

// Composite score weights. They sum to 1.
const (
	WeightCategory = 0.4
	WeightPrice    = 0.3
	WeightSeason   = 0.2
	WeightAudience = 0.1
)

// Sub-score constants.
const (
	TopCategoryFit      = 92.0
	AffinityCategoryFit = 75.0
	DefaultSeasonFit    = 80.0
	DefaultAudienceFit  = 85.0

	maxPricePenalty = 50.0
)

// Revenue band parameters.
const (
	minQuantity       = 10
	maxQuantity       = 20
	commissionShare   = 0.15
	minRevenueFactor  = 0.7
	maxRevenueFactor  = 1.3
	minConfidence     = 60
	maxConfidence     = 90
	confidencePenalty = 5
)

// CategoryFit scores a candidate category against the creator's top category.
// Candidates reach scoring only after the affinity filter, so anything that is
// not the top category is an affinity match.
func CategoryFit(candidate, topCategory string) float64 {
	if candidate != "" && candidate == topCategory {
		return TopCategoryFit
	}
	return AffinityCategoryFit
}

// PriceFit is 100 minus the relative distance (in percent) between price and
// the average order value, with the penalty capped at 50. A zero average
// order value means no history and yields the capped penalty.
func PriceFit(price int64, aov float64) float64 {
	if aov <= 0 {
		return 100 - maxPricePenalty
	}
	penalty := math.Abs(float64(price)-aov) / aov * 100
	return 100 - math.Min(penalty, maxPricePenalty)
}

// AudienceFit scores the overlap between a product's target audience and a
// creator's audience labels. Missing labels on either side yield the default.
func AudienceFit(target, audience []string) float64 {
	if len(target) == 0 || len(audience) == 0 {
		return DefaultAudienceFit
	}
	have := make(map[string]struct{}, len(audience))
	for _, a := range audience {
		have[a] = struct{}{}
	}
	overlap := 0
	for _, t := range target {
		if _, ok := have[t]; ok {
			overlap++
		}
	}
	return 60 + 40*float64(overlap)/float64(len(target))
}

// Composite returns the weighted score rounded and clamped to [0,100].
func Composite(b models.ScoreBreakdown) int {
	raw := b.CategoryFit*WeightCategory +
		b.PriceFit*WeightPrice +
		b.SeasonFit*WeightSeason +
		b.AudienceFit*WeightAudience
	return clamp(int(math.Round(raw)), 0, 100)
}

// Confidence maps a composite score into the [60,90] confidence band.
func Confidence(score int) int {
	return clamp(score-confidencePenalty, minConfidence, maxConfidence)
}

// PredictRevenue derives a revenue band for a creator/product pair. The unit
// estimate is taken from a hash of both identities so the same pair always
// yields the same band.
func PredictRevenue(creatorID, productID string, price int64) models.PredictedRevenue {
	span := uint64(maxQuantity - minQuantity + 1)
	units := minQuantity + int(xxhash.Sum64String(creatorID+":"+productID)%span)

	if price <= 0 {
		return models.PredictedRevenue{}
	}

	expected := price * int64(units)
	return models.PredictedRevenue{
		Min:        int64(math.Round(float64(expected) * minRevenueFactor)),
		Expected:   expected,
		Max:        int64(math.Round(float64(expected) * maxRevenueFactor)),
		Quantity:   int(math.Round(float64(expected) / float64(price))),
		Commission: int64(math.Round(float64(expected) * commissionShare)),
	}
}

// NormalizeLimit applies the default and maximum match limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return models.DefaultMatchLimit
	}
	if limit > models.MaxMatchLimit {
		return models.MaxMatchLimit
	}
	return limit
}

// topCategory is the creator's top category by revenue share, or the first
// declared category when no sale could be attributed.
func topCategory(c *models.Creator, pre *models.Preprocessed) string {
	if top := pre.TopCategory(); top != "" {
		return top
	}
	if len(c.Categories) > 0 {
		return c.Categories[0]
	}
	return ""
}

func categoryShare(pre *models.Preprocessed, category string) float64 {
	for _, c := range pre.CategoryBreakdown {
		if c.Category == category {
			return c.Share
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
