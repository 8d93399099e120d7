package matching

import (
	"fmt"
	"sort"

	"github.com/GTDGit/creator_match_api/internal/models"
)

// CreatorCandidate is a creator together with its preprocessed history.
type CreatorCandidate struct {
	Creator      models.Creator
	Preprocessed models.Preprocessed
}

// MatchCreators ranks creators for a product. It mirrors MatchProducts:
// creators without an affinity for the product category are skipped.
func MatchCreators(product models.Product, candidates []CreatorCandidate, limit int) []models.CreatorMatch {
	limit = NormalizeLimit(limit)

	matches := make([]models.CreatorMatch, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if !c.Creator.HasCategory(product.Category) {
			continue
		}

		top := topCategory(&c.Creator, &c.Preprocessed)
		breakdown := models.ScoreBreakdown{
			CategoryFit: CategoryFit(string(product.Category), top),
			PriceFit:    PriceFit(product.Price, c.Preprocessed.Summary.AverageOrderValue),
			SeasonFit:   DefaultSeasonFit,
			AudienceFit: AudienceFit(product.TargetAudience, c.Creator.Audience),
		}
		score := Composite(breakdown)

		matches = append(matches, models.CreatorMatch{
			Creator:          c.Creator,
			Score:            score,
			Breakdown:        breakdown,
			PredictedRevenue: PredictRevenue(c.Creator.ID, product.ID, product.Price),
			Reasoning:        creatorReasoning(&product, c, top),
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

func creatorReasoning(p *models.Product, c *CreatorCandidate, top string) string {
	name := c.Creator.Name
	if string(p.Category) == top {
		return fmt.Sprintf("%s sells mostly %s (%.1f%% of revenue across %d sales), the category of %s.",
			name, top, categoryShare(&c.Preprocessed, top), c.Preprocessed.Summary.TotalSales, p.Name)
	}
	if top == "" {
		return fmt.Sprintf("%s declares %s as a category of interest for %s on %s.",
			name, p.Category, p.Name, c.Creator.Platform)
	}
	return fmt.Sprintf("%s covers %s alongside their top category %s, reaching %d followers on %s.",
		name, p.Category, top, c.Creator.Followers, c.Creator.Platform)
}
