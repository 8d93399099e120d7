package matching

import (
	"fmt"
	"sort"

	"github.com/GTDGit/creator_match_api/internal/models"
)

// MatchProducts ranks candidate products for a creator. Only products whose
// category is in the creator's affinity set are scored. The result is sorted
// by score (ties keep candidate order) and truncated to limit.
func MatchProducts(creator models.Creator, pre models.Preprocessed, candidates []models.Product, limit int) []models.ProductMatch {
	limit = NormalizeLimit(limit)
	top := topCategory(&creator, &pre)
	aov := pre.Summary.AverageOrderValue

	matches := make([]models.ProductMatch, 0, len(candidates))
	for _, p := range candidates {
		if !creator.HasCategory(p.Category) {
			continue
		}

		breakdown := models.ScoreBreakdown{
			CategoryFit: CategoryFit(string(p.Category), top),
			PriceFit:    PriceFit(p.Price, aov),
			SeasonFit:   DefaultSeasonFit,
			AudienceFit: DefaultAudienceFit,
		}
		score := Composite(breakdown)

		matches = append(matches, models.ProductMatch{
			Product:          p,
			Score:            score,
			Breakdown:        breakdown,
			PredictedRevenue: PredictRevenue(creator.ID, p.ID, p.Price),
			Reasoning:        productReasoning(&p, top, &pre),
			Confidence:       Confidence(score),
			Source:           models.SourceFallback,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func productReasoning(p *models.Product, top string, pre *models.Preprocessed) string {
	var fit string
	if string(p.Category) == top {
		fit = fmt.Sprintf("%s (%s) is in the creator's top category %s, which accounts for %.1f%% of their revenue.",
			p.Name, p.Category, top, categoryShare(pre, top))
	} else {
		fit = fmt.Sprintf("%s (%s) matches a category the creator covers; their top category is %s.",
			p.Name, p.Category, top)
	}

	aov := pre.Summary.AverageOrderValue
	if aov <= 0 {
		return fit
	}
	return fmt.Sprintf("%s Its price of %d compares with an average order value of %.0f.", fit, p.Price, aov)
}
