package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/creator_match_api/internal/analytics"
	"github.com/GTDGit/creator_match_api/internal/cache"
	"github.com/GTDGit/creator_match_api/internal/matching"
	"github.com/GTDGit/creator_match_api/internal/metrics"
	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/internal/repository"
	"github.com/GTDGit/creator_match_api/internal/utils"
	"github.com/GTDGit/creator_match_api/pkg/llm"
)

// Operation names used in logs and metrics.
const (
	OpAnalyze       = "analyze"
	OpMatchProducts = "match_products"
	OpMatchCreators = "match_creators"
)

// errNoValidMatches means the model answered but none of its matches
// referenced a candidate we sent.
var errNoValidMatches = errors.New("no valid matches in AI response")

// errEmptyInsight means the model answered without a summary.
var errEmptyInsight = errors.New("empty insight in AI response")

// Analyzer is the primary (AI) path. *llm.Client implements it.
type Analyzer interface {
	Configured() bool
	AnalyzeCreator(ctx context.Context, req llm.AnalyzeRequest) (*llm.AnalysisResponse, error)
	MatchProducts(ctx context.Context, req llm.ProductMatchRequest) (*llm.MatchResponse, error)
	MatchCreators(ctx context.Context, req llm.CreatorMatchRequest) (*llm.MatchResponse, error)
}

// AnalysisService produces insights and match lists. Each operation tries the
// AI path first and falls back to the deterministic heuristic on any failure.
type AnalysisService struct {
	creators repository.CreatorRepository
	products repository.ProductRepository
	sales    repository.SaleRepository
	ai       Analyzer
	cache    *cache.ResultCache
	metrics  *metrics.Metrics
	timeout  time.Duration
	now      func() time.Time
}

// NewAnalysisService constructs an AnalysisService. cache and metrics may be nil.
func NewAnalysisService(
	creators repository.CreatorRepository,
	products repository.ProductRepository,
	sales repository.SaleRepository,
	ai Analyzer,
	resultCache *cache.ResultCache,
	m *metrics.Metrics,
	timeout time.Duration,
) *AnalysisService {
	return &AnalysisService{
		creators: creators,
		products: products,
		sales:    sales,
		ai:       ai,
		cache:    resultCache,
		metrics:  m,
		timeout:  timeout,
		now:      time.Now,
	}
}

// creatorHistory is a creator with its aggregated sales.
type creatorHistory struct {
	creator models.Creator
	pre     models.Preprocessed
}

func (s *AnalysisService) loadCreator(ctx context.Context, id string) (*creatorHistory, error) {
	creator, err := s.creators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrCreatorNotFound
		}
		return nil, fmt.Errorf("get creator: %w", err)
	}

	sales, err := s.sales.ListByCreator(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(sales) < models.MinSalesForAnalysis {
		return nil, fmt.Errorf("%w: creator %s has %d sales, need %d",
			utils.ErrInsufficientData, id, len(sales), models.MinSalesForAnalysis)
	}

	products, err := s.products.GetByIDs(ctx, productIDsOf(sales))
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	return &creatorHistory{
		creator: *creator,
		pre:     analytics.Preprocess(sales, products),
	}, nil
}

// primary runs fn under the configured timeout and records its latency.
func (s *AnalysisService) primary(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if s.ai == nil || !s.ai.Configured() {
		return llm.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	s.metrics.RecordLLMCall(op, time.Since(start), err)
	return err
}

func (s *AnalysisService) logFallback(op, id string, err error) {
	if errors.Is(err, llm.ErrNotConfigured) {
		log.Debug().Str("operation", op).Str("id", id).Msg("AI provider not configured, using fallback")
		return
	}
	log.Warn().Err(err).Str("operation", op).Str("id", id).Msg("AI path failed, using fallback")
}

// AnalyzeCreator returns a narrative insight for a creator with at least five sales.
func (s *AnalysisService) AnalyzeCreator(ctx context.Context, creatorID string) (*models.Insight, error) {
	h, err := s.loadCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	key := cache.InsightKey(creatorID)
	var cached models.Insight
	hit := s.cache.Get(ctx, key, &cached)
	s.metrics.RecordCache(OpAnalyze, hit)
	if hit {
		s.metrics.RecordResult(OpAnalyze, string(cached.Source))
		return &cached, nil
	}

	fallback := matching.Insight(h.creator, h.pre, s.now())

	var resp *llm.AnalysisResponse
	err = s.primary(ctx, OpAnalyze, func(ctx context.Context) error {
		var err error
		resp, err = s.ai.AnalyzeCreator(ctx, llm.AnalyzeRequest{
			Creator: creatorProfile(&h.creator),
			Sales:   salesProfile(&h.pre),
		})
		if err == nil && resp.Summary == "" {
			err = errEmptyInsight
		}
		return err
	})
	if err != nil {
		s.logFallback(OpAnalyze, creatorID, err)
		s.metrics.RecordResult(OpAnalyze, string(models.SourceFallback))
		return &fallback, nil
	}

	insight := fallback
	insight.Summary = resp.Summary
	insight.Strengths = orDefault(resp.Strengths, fallback.Strengths)
	insight.Opportunities = orDefault(resp.Opportunities, fallback.Opportunities)
	insight.Recommendations = orDefault(resp.Recommendations, fallback.Recommendations)
	insight.TopCategories = orDefault(resp.TopCategories, fallback.TopCategories)
	insight.Source = models.SourceAI

	s.cache.Set(ctx, key, insight)
	s.metrics.RecordResult(OpAnalyze, string(models.SourceAI))
	return &insight, nil
}

// MatchProducts ranks catalog products for a creator with at least five sales.
func (s *AnalysisService) MatchProducts(ctx context.Context, creatorID string, limit int) ([]models.ProductMatch, error) {
	limit = matching.NormalizeLimit(limit)

	h, err := s.loadCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.products.ListByCategories(ctx, h.creator.Categories)
	if err != nil {
		return nil, fmt.Errorf("list candidate products: %w", err)
	}
	if len(candidates) == 0 {
		s.metrics.RecordResult(OpMatchProducts, string(models.SourceFallback))
		return []models.ProductMatch{}, nil
	}

	key := cache.ProductMatchKey(creatorID, limit)
	var cached []models.ProductMatch
	hit := s.cache.Get(ctx, key, &cached)
	s.metrics.RecordCache(OpMatchProducts, hit)
	if hit {
		s.metrics.RecordResult(OpMatchProducts, string(models.SourceAI))
		return cached, nil
	}

	var matches []models.ProductMatch
	err = s.primary(ctx, OpMatchProducts, func(ctx context.Context) error {
		profiles := make([]llm.ProductProfile, len(candidates))
		for i := range candidates {
			profiles[i] = productProfile(&candidates[i])
		}
		resp, err := s.ai.MatchProducts(ctx, llm.ProductMatchRequest{
			Creator:  creatorProfile(&h.creator),
			Sales:    salesProfile(&h.pre),
			Products: profiles,
			Limit:    limit,
		})
		if err != nil {
			return err
		}
		matches, err = productMatchesFromAI(&h.creator, candidates, resp.Matches, limit)
		return err
	})
	if err != nil {
		s.logFallback(OpMatchProducts, creatorID, err)
		s.metrics.RecordResult(OpMatchProducts, string(models.SourceFallback))
		return matching.MatchProducts(h.creator, h.pre, candidates, limit), nil
	}

	s.cache.Set(ctx, key, matches)
	s.metrics.RecordResult(OpMatchProducts, string(models.SourceAI))
	return matches, nil
}

// MatchCreators ranks creators for a product that has at least five sales.
func (s *AnalysisService) MatchCreators(ctx context.Context, productID string, limit int) ([]models.CreatorMatch, error) {
	limit = matching.NormalizeLimit(limit)

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	sold, err := s.sales.CountByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("count product sales: %w", err)
	}
	if sold < models.MinSalesForAnalysis {
		return nil, fmt.Errorf("%w: product %s has %d sales, need %d",
			utils.ErrInsufficientData, productID, sold, models.MinSalesForAnalysis)
	}

	candidates, err := s.creatorCandidates(ctx, product.Category)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		s.metrics.RecordResult(OpMatchCreators, string(models.SourceFallback))
		return []models.CreatorMatch{}, nil
	}

	key := cache.CreatorMatchKey(productID, limit)
	var cached []models.CreatorMatch
	hit := s.cache.Get(ctx, key, &cached)
	s.metrics.RecordCache(OpMatchCreators, hit)
	if hit {
		s.metrics.RecordResult(OpMatchCreators, string(models.SourceAI))
		return cached, nil
	}

	var matches []models.CreatorMatch
	err = s.primary(ctx, OpMatchCreators, func(ctx context.Context) error {
		offered := make([]llm.CreatorCandidate, len(candidates))
		for i := range candidates {
			offered[i] = llm.CreatorCandidate{
				Creator: creatorProfile(&candidates[i].Creator),
				Sales:   salesProfile(&candidates[i].Preprocessed),
			}
		}
		resp, err := s.ai.MatchCreators(ctx, llm.CreatorMatchRequest{
			Product:  productProfile(product),
			Sales:    llm.SalesProfile{TotalSales: sold},
			Creators: offered,
			Limit:    limit,
		})
		if err != nil {
			return err
		}
		matches, err = creatorMatchesFromAI(product, candidates, resp.Matches, limit)
		return err
	})
	if err != nil {
		s.logFallback(OpMatchCreators, productID, err)
		s.metrics.RecordResult(OpMatchCreators, string(models.SourceFallback))
		return matching.MatchCreators(*product, candidates, limit), nil
	}

	s.cache.Set(ctx, key, matches)
	s.metrics.RecordResult(OpMatchCreators, string(models.SourceAI))
	return matches, nil
}

// creatorCandidates loads every creator with an affinity for category along
// with its preprocessed history. Products are resolved in one batch.
func (s *AnalysisService) creatorCandidates(ctx context.Context, category models.Category) ([]matching.CreatorCandidate, error) {
	creators, err := s.creators.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list candidate creators: %w", err)
	}

	history := make([][]models.Sale, len(creators))
	var all []models.Sale
	for i, c := range creators {
		if history[i], err = s.sales.ListByCreator(ctx, c.ID); err != nil {
			return nil, fmt.Errorf("list sales for %s: %w", c.ID, err)
		}
		all = append(all, history[i]...)
	}

	products, err := s.products.GetByIDs(ctx, productIDsOf(all))
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	out := make([]matching.CreatorCandidate, len(creators))
	for i, c := range creators {
		out[i] = matching.CreatorCandidate{
			Creator:      c,
			Preprocessed: analytics.Preprocess(history[i], products),
		}
	}
	return out, nil
}

// productMatchesFromAI keeps the model's ranking but only for products that
// were offered, each at most once. Scores are clamped and the revenue band is
// computed locally.
func productMatchesFromAI(creator *models.Creator, candidates []models.Product, ranked []llm.Match, limit int) ([]models.ProductMatch, error) {
	byID := make(map[string]*models.Product, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	seen := make(map[string]struct{}, len(ranked))
	out := make([]models.ProductMatch, 0, len(ranked))
	for _, m := range ranked {
		p, ok := byID[m.ID]
		if !ok {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}

		score, breakdown, confidence := scoreFromAI(m)
		out = append(out, models.ProductMatch{
			Product:          *p,
			Score:            score,
			Breakdown:        breakdown,
			PredictedRevenue: matching.PredictRevenue(creator.ID, p.ID, p.Price),
			Reasoning:        reasoningOr(m.Reasoning, p.Name),
			Confidence:       confidence,
			Source:           models.SourceAI,
		})
	}
	if len(out) == 0 {
		return nil, errNoValidMatches
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func creatorMatchesFromAI(product *models.Product, candidates []matching.CreatorCandidate, ranked []llm.Match, limit int) ([]models.CreatorMatch, error) {
	byID := make(map[string]*models.Creator, len(candidates))
	for i := range candidates {
		byID[candidates[i].Creator.ID] = &candidates[i].Creator
	}

	seen := make(map[string]struct{}, len(ranked))
	out := make([]models.CreatorMatch, 0, len(ranked))
	for _, m := range ranked {
		c, ok := byID[m.ID]
		if !ok {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}

		score, breakdown, confidence := scoreFromAI(m)
		out = append(out, models.CreatorMatch{
			Creator:          *c,
			Score:            score,
			Breakdown:        breakdown,
			PredictedRevenue: matching.PredictRevenue(c.ID, product.ID, product.Price),
			Reasoning:        reasoningOr(m.Reasoning, c.Name),
			Confidence:       confidence,
			Source:           models.SourceAI,
		})
	}
	if len(out) == 0 {
		return nil, errNoValidMatches
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// scoreFromAI clamps every model score to [0,100]. A missing overall score
// is derived from the breakdown; a missing confidence from the score.
func scoreFromAI(m llm.Match) (int, models.ScoreBreakdown, int) {
	breakdown := models.ScoreBreakdown{
		CategoryFit: clampScore(m.CategoryFit),
		PriceFit:    clampScore(m.PriceFit),
		SeasonFit:   clampScore(m.SeasonFit),
		AudienceFit: clampScore(m.AudienceFit),
	}

	score := int(math.Round(clampScore(m.Score)))
	if score == 0 {
		score = matching.Composite(breakdown)
	}

	conf := m.Confidence
	if conf > 0 && conf <= 1 {
		conf *= 100 // some models answer with a fraction
	}
	confidence := int(math.Round(clampScore(conf)))
	if confidence == 0 {
		confidence = matching.Confidence(score)
	}
	return score, breakdown, confidence
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func reasoningOr(reasoning, name string) string {
	if reasoning != "" {
		return reasoning
	}
	return fmt.Sprintf("%s was ranked by AI analysis of the sales history.", name)
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
