package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/creator_match_api/internal/models"
)

func testCreator() models.Creator {
	return models.Creator{
		ID:             "c-1",
		Name:           "Ayu",
		Platform:       models.PlatformInstagram,
		Followers:      120000,
		EngagementRate: 4.2,
		Categories:     models.StringList{"Beauty", "Food", "Home"},
		Audience:       models.StringList{"women", "18-24"},
	}
}

func testPreprocessed() models.Preprocessed {
	return models.Preprocessed{
		CategoryBreakdown: []models.CategoryShare{
			{Category: "Beauty", Count: 4, Revenue: 140000, Share: 80},
			{Category: "Food", Count: 1, Revenue: 35000, Share: 20},
		},
		PriceDistribution: []models.PriceBucket{
			{Range: "10000-30000", Count: 1, Revenue: 35000},
			{Range: "30000-50000", Count: 4, Revenue: 140000},
		},
		SeasonalPattern: []models.SeasonStat{
			{Season: "spring", Count: 2, Revenue: 70000},
			{Season: "summer", Count: 3, Revenue: 105000},
		},
		Summary: models.SalesSummary{TotalSales: 5, TotalRevenue: 175000, AverageOrderValue: 35000},
	}
}

func testCatalog() []models.Product {
	return []models.Product{
		{ID: "p-food", Name: "Granola", Category: models.CategoryFood, Price: 20000},
		{ID: "p-tech", Name: "Earbuds", Category: models.CategoryTech, Price: 35000},
		{ID: "p-beauty", Name: "Glow Serum", Category: models.CategoryBeauty, Price: 35000},
	}
}

func TestPriceFit(t *testing.T) {
	assert.Equal(t, 100.0, PriceFit(35000, 35000))
	assert.InDelta(t, 90.0, PriceFit(38500, 35000), 0.0001)
	assert.Equal(t, 50.0, PriceFit(1000000, 35000))
	assert.Equal(t, 50.0, PriceFit(35000, 0))
}

func TestAudienceFit(t *testing.T) {
	assert.Equal(t, DefaultAudienceFit, AudienceFit(nil, []string{"women"}))
	assert.Equal(t, DefaultAudienceFit, AudienceFit([]string{"women"}, nil))
	assert.Equal(t, 100.0, AudienceFit([]string{"women"}, []string{"women", "18-24"}))
	assert.Equal(t, 80.0, AudienceFit([]string{"women", "men"}, []string{"women"}))
	assert.Equal(t, 60.0, AudienceFit([]string{"men"}, []string{"women"}))
}

func TestComposite_Clamped(t *testing.T) {
	assert.Equal(t, 100, Composite(models.ScoreBreakdown{CategoryFit: 500, PriceFit: 100, SeasonFit: 100, AudienceFit: 100}))
	assert.Equal(t, 0, Composite(models.ScoreBreakdown{CategoryFit: -500}))
	assert.Equal(t, 91, Composite(models.ScoreBreakdown{CategoryFit: 92, PriceFit: 100, SeasonFit: 80, AudienceFit: 85}))
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 60, Confidence(40))
	assert.Equal(t, 70, Confidence(75))
	assert.Equal(t, 90, Confidence(99))
}

func TestPredictRevenue(t *testing.T) {
	rev := PredictRevenue("c-1", "p-1", 35000)

	assert.GreaterOrEqual(t, rev.Quantity, minQuantity)
	assert.LessOrEqual(t, rev.Quantity, maxQuantity)
	assert.Equal(t, int64(rev.Quantity)*35000, rev.Expected)
	assert.LessOrEqual(t, rev.Min, rev.Expected)
	assert.LessOrEqual(t, rev.Expected, rev.Max)
	assert.Equal(t, rev, PredictRevenue("c-1", "p-1", 35000))

	assert.Equal(t, models.PredictedRevenue{}, PredictRevenue("c-1", "p-1", 0))
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, models.DefaultMatchLimit, NormalizeLimit(0))
	assert.Equal(t, models.DefaultMatchLimit, NormalizeLimit(-3))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, models.MaxMatchLimit, NormalizeLimit(500))
}

func TestMatchProducts(t *testing.T) {
	matches := MatchProducts(testCreator(), testPreprocessed(), testCatalog(), 10)

	require.Len(t, matches, 2)
	assert.Equal(t, "p-beauty", matches[0].Product.ID)
	assert.Equal(t, 91, matches[0].Score)
	assert.Equal(t, TopCategoryFit, matches[0].Breakdown.CategoryFit)
	assert.Equal(t, 86, matches[0].Confidence)

	assert.Equal(t, "p-food", matches[1].Product.ID)
	assert.Equal(t, AffinityCategoryFit, matches[1].Breakdown.CategoryFit)
	assert.Equal(t, 72, matches[1].Score)

	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Score, 0)
		assert.LessOrEqual(t, m.Score, 100)
		assert.GreaterOrEqual(t, m.Confidence, 60)
		assert.LessOrEqual(t, m.Confidence, 90)
		assert.LessOrEqual(t, m.PredictedRevenue.Min, m.PredictedRevenue.Expected)
		assert.LessOrEqual(t, m.PredictedRevenue.Expected, m.PredictedRevenue.Max)
		assert.Equal(t, models.SourceFallback, m.Source)
		assert.NotEmpty(t, m.Reasoning)
	}
}

func TestMatchProducts_Deterministic(t *testing.T) {
	a := MatchProducts(testCreator(), testPreprocessed(), testCatalog(), 10)
	b := MatchProducts(testCreator(), testPreprocessed(), testCatalog(), 10)
	assert.Equal(t, a, b)
}

func TestMatchProducts_LimitAndEmpty(t *testing.T) {
	matches := MatchProducts(testCreator(), testPreprocessed(), testCatalog(), 1)
	require.Len(t, matches, 1)
	assert.Equal(t, "p-beauty", matches[0].Product.ID)

	creator := testCreator()
	creator.Categories = models.StringList{"Pet"}
	matches = MatchProducts(creator, testPreprocessed(), testCatalog(), 10)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestMatchProducts_TiesKeepCatalogOrder(t *testing.T) {
	catalog := []models.Product{
		{ID: "p-a", Name: "A", Category: models.CategoryBeauty, Price: 35000},
		{ID: "p-b", Name: "B", Category: models.CategoryBeauty, Price: 35000},
		{ID: "p-c", Name: "C", Category: models.CategoryBeauty, Price: 35000},
	}

	matches := MatchProducts(testCreator(), testPreprocessed(), catalog, 10)

	require.Len(t, matches, 3)
	assert.Equal(t, []string{"p-a", "p-b", "p-c"}, []string{matches[0].Product.ID, matches[1].Product.ID, matches[2].Product.ID})
}

func TestMatchCreators(t *testing.T) {
	product := models.Product{
		ID:             "p-beauty",
		Name:           "Glow Serum",
		Category:       models.CategoryBeauty,
		Price:          35000,
		TargetAudience: models.StringList{"women"},
	}

	noHistory := testCreator()
	noHistory.ID = "c-2"
	noHistory.Name = "Budi"
	noHistory.Categories = models.StringList{"Food", "Beauty"}
	noHistory.Audience = nil

	outsider := testCreator()
	outsider.ID = "c-3"
	outsider.Categories = models.StringList{"Tech"}

	candidates := []CreatorCandidate{
		{Creator: noHistory},
		{Creator: outsider, Preprocessed: testPreprocessed()},
		{Creator: testCreator(), Preprocessed: testPreprocessed()},
	}

	matches := MatchCreators(product, candidates, 10)

	require.Len(t, matches, 2)
	assert.Equal(t, "c-1", matches[0].Creator.ID)
	assert.Equal(t, 100.0, matches[0].Breakdown.AudienceFit)
	assert.Equal(t, TopCategoryFit, matches[0].Breakdown.CategoryFit)

	assert.Equal(t, "c-2", matches[1].Creator.ID)
	assert.Equal(t, AffinityCategoryFit, matches[1].Breakdown.CategoryFit)
	assert.Equal(t, 50.0, matches[1].Breakdown.PriceFit)
	assert.Equal(t, DefaultAudienceFit, matches[1].Breakdown.AudienceFit)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}

func TestInsight(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	insight := Insight(testCreator(), testPreprocessed(), now)

	assert.Equal(t, "c-1", insight.CreatorID)
	assert.Equal(t, models.SourceFallback, insight.Source)
	assert.Equal(t, now, insight.GeneratedAt)
	assert.Equal(t, []string{"Beauty", "Food"}, insight.TopCategories)
	assert.Contains(t, insight.Summary, "Beauty")
	assert.NotEmpty(t, insight.Strengths)
	assert.NotEmpty(t, insight.Opportunities)
	assert.NotEmpty(t, insight.Recommendations)
	assert.Contains(t, insight.Opportunities[0], "Home")
	assert.Contains(t, insight.Recommendations[1], "30000-50000")
	assert.Contains(t, insight.Recommendations[2], "summer")
}
