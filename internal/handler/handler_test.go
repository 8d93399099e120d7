package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/creator_match_api/internal/config"
	"github.com/GTDGit/creator_match_api/internal/dataset"
	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/internal/repository"
	"github.com/GTDGit/creator_match_api/internal/service"
	"github.com/GTDGit/creator_match_api/internal/utils"
	"github.com/GTDGit/creator_match_api/pkg/llm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testDataset: c-1 has six sales, c-2 four. p-1 has seven sales.
func testDataset() *dataset.Dataset {
	ds := &dataset.Dataset{
		Creators: []models.Creator{
			{ID: "c-1", Name: "Ayu", Platform: models.PlatformInstagram, Followers: 120000, Categories: models.StringList{"Beauty", "Food"}},
			{ID: "c-2", Name: "bima", Platform: models.PlatformTikTok, Followers: 80000, Categories: models.StringList{"Beauty"}},
			{ID: "c-3", Name: "Citra", Platform: models.PlatformBlog, Followers: 500, Categories: models.StringList{"Food"}},
		},
		Products: []models.Product{
			{ID: "p-1", Name: "Glow Serum", Category: models.CategoryBeauty, Brand: "Lumina", Price: 25000},
			{ID: "p-2", Name: "Matte Lipstick", Category: models.CategoryBeauty, Brand: "Rouge", Price: 15000},
			{ID: "p-3", Name: "Chili Oil", Category: models.CategoryFood, Brand: "Dapur", Price: 20000},
			{ID: "p-4", Name: "Earbuds", Category: models.CategoryTech, Brand: "Sonic", Price: 150000},
			{ID: "p-5", Name: "Silk Foundation", Category: models.CategoryBeauty, Brand: "Velvet", Price: 45000},
		},
	}
	add := func(creator, product string, revenue int64, month time.Month) {
		ds.Sales = append(ds.Sales, models.Sale{
			ID:        fmt.Sprintf("s-%d", len(ds.Sales)+1),
			CreatorID: creator,
			ProductID: product,
			Quantity:  1,
			Revenue:   revenue,
			SoldAt:    time.Date(2024, month, 10, 0, 0, 0, 0, time.UTC),
		})
	}
	for m := time.January; m <= time.May; m++ {
		add("c-1", "p-1", 25000, m)
	}
	add("c-1", "p-3", 20000, time.June)
	add("c-2", "p-1", 25000, time.March)
	add("c-2", "p-1", 25000, time.April)
	add("c-2", "p-2", 15000, time.May)
	add("c-2", "p-2", 15000, time.July)
	return ds
}

// failingAnalyzer is a configured provider whose every call fails.
type failingAnalyzer struct{}

func (failingAnalyzer) Configured() bool { return true }

func (failingAnalyzer) AnalyzeCreator(context.Context, llm.AnalyzeRequest) (*llm.AnalysisResponse, error) {
	return nil, errors.New("upstream unavailable")
}

func (failingAnalyzer) MatchProducts(context.Context, llm.ProductMatchRequest) (*llm.MatchResponse, error) {
	return nil, errors.New("upstream unavailable")
}

func (failingAnalyzer) MatchCreators(context.Context, llm.CreatorMatchRequest) (*llm.MatchResponse, error) {
	return nil, errors.New("upstream unavailable")
}

// brokenCreators fails every query, standing in for a lost database.
type brokenCreators struct{}

func (brokenCreators) List(context.Context, models.CreatorFilter) ([]models.Creator, int, error) {
	return nil, 0, errors.New("connection reset")
}

func (brokenCreators) GetByID(context.Context, string) (*models.Creator, error) {
	return nil, errors.New("connection reset")
}

func (brokenCreators) ListByCategory(context.Context, models.Category) ([]models.Creator, error) {
	return nil, errors.New("connection reset")
}

func newRouter(t *testing.T, creators repository.CreatorRepository) *gin.Engine {
	t.Helper()

	store := repository.NewMemoryStore(testDataset())
	if creators == nil {
		creators = store.Creators()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	creatorHandler := NewCreatorHandler(service.NewCreatorService(creators, store.Products(), store.Sales()))
	productHandler := NewProductHandler(service.NewProductService(store.Products()))
	analysisHandler := NewAnalysisHandler(service.NewAnalysisService(
		creators, store.Products(), store.Sales(), failingAnalyzer{}, nil, nil, time.Second,
	))
	authHandler := NewAuthHandler(service.NewAuthService(config.AuthConfig{
		JWTSecret: "secret", Username: "admin", PasswordHash: string(hash), TokenTTL: time.Hour,
	}))
	healthHandler := NewHealthHandler("memory", true, map[string]HealthCheck{
		"redis": func(context.Context) error { return nil },
	})

	r := gin.New()
	r.GET("/health", healthHandler.GetHealth)
	api := r.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.GET("/creators", creatorHandler.ListCreators)
	api.GET("/creators/:id", creatorHandler.GetCreator)
	api.GET("/creators/:id/sales", creatorHandler.ListCreatorSales)
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/:id", productHandler.GetProduct)
	api.POST("/analyze", analysisHandler.Analyze)
	api.POST("/match", analysisHandler.MatchProducts)
	api.POST("/match/creators", analysisHandler.MatchCreators)
	return r
}

type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Pagination *utils.Pagination `json:"pagination"`
	Error      *utils.ErrorInfo  `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestAnalyze_Validation(t *testing.T) {
	r := newRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/api/analyze", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.CodeInvalidRequest, env.Error.Code)
	assert.Equal(t, []utils.FieldDetail{{Field: "creatorId", Message: "is required"}}, env.Error.Details)

	w, env = do(t, r, http.MethodPost, "/api/analyze", `{"creatorId":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.CodeInvalidRequest, env.Error.Code)
	assert.Equal(t, "body", env.Error.Details[0].Field)

	w, env = do(t, r, http.MethodPost, "/api/analyze", `{"creatorId": 12}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "creatorId", env.Error.Details[0].Field)
}

func TestAnalyze_Errors(t *testing.T) {
	r := newRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/api/analyze", `{"creatorId":"c-404"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, utils.CodeNotFound, env.Error.Code)

	w, env = do(t, r, http.MethodPost, "/api/analyze", `{"creatorId":"c-2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.CodeInsufficientData, env.Error.Code)
}

func TestAnalyze_PrimaryFailureFallsBack(t *testing.T) {
	r := newRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/api/analyze", `{"creatorId":"c-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var insight models.Insight
	require.NoError(t, json.Unmarshal(env.Data, &insight))
	assert.Equal(t, "c-1", insight.CreatorID)
	assert.Equal(t, models.SourceFallback, insight.Source)
	assert.Equal(t, 6, insight.Preprocessed.Summary.TotalSales)
}

func TestMatchProducts_Fallback(t *testing.T) {
	r := newRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/api/match", `{"creatorId":"c-1","limit":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		CreatorID string                `json:"creatorId"`
		Matches   []models.ProductMatch `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "c-1", data.CreatorID)
	require.Len(t, data.Matches, 2)
	assert.GreaterOrEqual(t, data.Matches[0].Score, data.Matches[1].Score)
	for _, m := range data.Matches {
		assert.Equal(t, models.SourceFallback, m.Source)
		assert.True(t, m.Score >= 0 && m.Score <= 100)
	}

	w, env = do(t, r, http.MethodPost, "/api/match", `{"creatorId":"c-1","limit":-3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "limit", env.Error.Details[0].Field)
}

func TestMatchCreators(t *testing.T) {
	r := newRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/api/match/creators", `{"productId":"p-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Matches []models.CreatorMatch `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Matches, 2)

	w, env = do(t, r, http.MethodPost, "/api/match/creators", `{"productId":"p-2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.CodeInsufficientData, env.Error.Code)

	w, _ = do(t, r, http.MethodPost, "/api/match/creators", `{"productId":"p-404"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCreators(t *testing.T) {
	r := newRouter(t, nil)

	w, env := do(t, r, http.MethodGet, "/api/creators?category=Beauty&sort=name&order=asc&limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, utils.Pagination{Page: 1, Limit: 1, Total: 2, TotalPages: 2, HasNext: true}, *env.Pagination)

	var creators []models.Creator
	require.NoError(t, json.Unmarshal(env.Data, &creators))
	require.Len(t, creators, 1)
	assert.Equal(t, "c-1", creators[0].ID)

	w, env = do(t, r, http.MethodGet, "/api/creators?sort=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "sort", env.Error.Details[0].Field)
}

func TestListCreators_SortDirection(t *testing.T) {
	r := newRouter(t, nil)

	for _, order := range []string{"asc", "desc"} {
		w, env := do(t, r, http.MethodGet, "/api/creators?sort=followers&order="+order, "")
		require.Equal(t, http.StatusOK, w.Code)

		var creators []models.Creator
		require.NoError(t, json.Unmarshal(env.Data, &creators))
		require.Len(t, creators, 3)
		for i := 1; i < len(creators); i++ {
			if order == "asc" {
				assert.Less(t, creators[i-1].Followers, creators[i].Followers)
			} else {
				assert.Greater(t, creators[i-1].Followers, creators[i].Followers)
			}
		}
	}
}

func TestListRoutes_PageBeyondRange(t *testing.T) {
	r := newRouter(t, nil)

	for _, path := range []string{
		"/api/creators?page=9223372036854775807&limit=20",
		"/api/products?page=9223372036854775807&limit=20",
		"/api/creators/c-1/sales?page=9223372036854775807&limit=20",
	} {
		w, env := do(t, r, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.True(t, env.Success, path)
		assert.JSONEq(t, "[]", string(env.Data), path)
		require.NotNil(t, env.Pagination, path)
		assert.False(t, env.Pagination.HasNext, path)
		assert.True(t, env.Pagination.HasPrev, path)
	}
}

func TestGetCreator(t *testing.T) {
	r := newRouter(t, nil)

	w, env := do(t, r, http.MethodGet, "/api/creators/c-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail models.CreatorDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, 6, detail.Stats.SalesCount)
	assert.Equal(t, "Beauty", detail.Stats.TopCategory)

	w, _ = do(t, r, http.MethodGet, "/api/creators/c-404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/creators/c-1/sales?limit=4&page=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, env.Pagination.Total)
	assert.True(t, env.Pagination.HasPrev)
	assert.False(t, env.Pagination.HasNext)
}

func TestListProducts(t *testing.T) {
	r := newRouter(t, nil)

	w, env := do(t, r, http.MethodGet, "/api/products?minPrice=15000&maxPrice=25000&sort=price&order=asc", "")
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 3)
	for i, p := range products {
		assert.GreaterOrEqual(t, p.Price, int64(15000))
		assert.LessOrEqual(t, p.Price, int64(25000))
		if i > 0 {
			assert.LessOrEqual(t, products[i-1].Price, p.Price)
		}
	}

	w, env = do(t, r, http.MethodGet, "/api/products?category=Beauty&minPrice=30000&maxPrice=80000", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "p-5", products[0].ID)
	assert.Equal(t, models.CategoryBeauty, products[0].Category)
	assert.Equal(t, 1, env.Pagination.Total)

	w, env = do(t, r, http.MethodGet, "/api/products?minPrice=500&maxPrice=100", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "maxPrice", env.Error.Details[0].Field)

	w, env = do(t, r, http.MethodGet, "/api/products?search=SERUM", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Len(t, products, 1)

	w, env = do(t, r, http.MethodGet, "/api/products/p-404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, utils.CodeNotFound, env.Error.Code)
}

func TestInternalErrorHidesDetails(t *testing.T) {
	r := newRouter(t, brokenCreators{})

	w, env := do(t, r, http.MethodGet, "/api/creators", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, utils.CodeInternal, env.Error.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")

	w, _ = do(t, r, http.MethodPost, "/api/analyze", `{"creatorId":"c-1"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogin(t *testing.T) {
	r := newRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	_, err := utils.ValidateJWT(data.Token, "secret")
	assert.NoError(t, err)

	w, env = do(t, r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, utils.CodeUnauthorized, env.Error.Code)
}

func TestHealth(t *testing.T) {
	r := newRouter(t, nil)

	w, env := do(t, r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"healthy"`)
	assert.Contains(t, string(env.Data), `"redis":"connected"`)
}
