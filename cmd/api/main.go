package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/creator_match_api/internal/cache"
	"github.com/GTDGit/creator_match_api/internal/config"
	"github.com/GTDGit/creator_match_api/internal/database"
	"github.com/GTDGit/creator_match_api/internal/dataset"
	"github.com/GTDGit/creator_match_api/internal/handler"
	"github.com/GTDGit/creator_match_api/internal/metrics"
	"github.com/GTDGit/creator_match_api/internal/middleware"
	"github.com/GTDGit/creator_match_api/internal/repository"
	"github.com/GTDGit/creator_match_api/internal/service"
	"github.com/GTDGit/creator_match_api/internal/worker"
	"github.com/GTDGit/creator_match_api/pkg/llm"
)

// repositories bundles the reference data access for one data source.
type repositories struct {
	creators repository.CreatorRepository
	products repository.ProductRepository
	sales    repository.SaleRepository
	checks   map[string]handler.HealthCheck

	// set only for the in-memory source
	store  *repository.MemoryStore
	loader *dataset.Loader

	close func()
}

// main is the application entrypoint for the creator match API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("data_source", cfg.DataSource).Msg("starting creator match api")

	// 3. Error reporting
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			AttachStacktrace: true,
		}); err != nil {
			log.Warn().Err(err).Msg("sentry initialization failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Reference data
	repos, err := setupRepositories(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("reference data setup failed")
		fmt.Fprintf(os.Stderr, "reference data setup failed: %v\n", err)
		os.Exit(1)
	}
	defer repos.close()

	// 5. Optional Redis result cache
	var resultCache *cache.ResultCache
	if cfg.Redis.Host != "" {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable - analysis results will not be cached")
		} else {
			defer redisClient.Close()
			resultCache = cache.NewResultCache(redisClient, cfg.Redis.TTL)
			repos.checks["redis"] = redisClient.Ping
			log.Info().Dur("ttl", cfg.Redis.TTL).Msg("redis connected successfully")
		}
	}

	// 6. Metrics and LLM provider
	appMetrics := metrics.New(prometheus.DefaultRegisterer)
	llmClient := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	})
	if llmClient.Configured() {
		log.Info().Str("model", llmClient.Model()).Dur("timeout", cfg.LLM.Timeout).Msg("LLM provider configured")
	} else {
		log.Warn().Msg("LLM_API_KEY not set - serving deterministic fallback results only")
	}

	// 7. Services
	creatorSvc := service.NewCreatorService(repos.creators, repos.products, repos.sales)
	productSvc := service.NewProductService(repos.products)
	analysisSvc := service.NewAnalysisService(
		repos.creators, repos.products, repos.sales,
		llmClient, resultCache, appMetrics, cfg.LLM.Timeout,
	)
	authSvc := service.NewAuthService(cfg.Auth)

	handlers := &Handlers{
		Health:   handler.NewHealthHandler(cfg.DataSource, llmClient.Configured(), repos.checks),
		Auth:     handler.NewAuthHandler(authSvc),
		Creator:  handler.NewCreatorHandler(creatorSvc),
		Product:  handler.NewProductHandler(productSvc),
		Analysis: handler.NewAnalysisHandler(analysisSvc),
	}

	// 8. Middleware
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	var jwtMw *middleware.JWTMiddleware
	if authSvc.Enabled() {
		jwtMw = middleware.NewJWTMiddleware(cfg.Auth.JWTSecret)
	} else {
		log.Warn().Msg("dashboard login not configured - /api routes are public")
	}

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	router.Use(appMetrics.Middleware())
	setupRoutes(router, handlers, limiter, jwtMw)

	// 10. Start workers
	go limiter.Cleanup(ctx, time.Minute)

	if repos.store != nil && cfg.Dataset.ReloadCron != "" {
		reloader := worker.NewDatasetReloadWorker(repos.loader, repos.store, resultCache, appMetrics)
		if err := reloader.Start(ctx, cfg.Dataset.ReloadCron); err != nil {
			log.Error().Err(err).Msg("dataset reload worker not started")
		} else {
			defer reloader.Stop()
		}
	}

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// setupRepositories connects the configured data source.
func setupRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.DataSource == config.DataSourcePostgres {
		db, err := database.Connect(&cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := database.Migrate(db.DB); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		log.Info().Msg("migrations completed successfully")

		return &repositories{
			creators: repository.NewSQLCreatorRepository(db),
			products: repository.NewSQLProductRepository(db),
			sales:    repository.NewSQLSaleRepository(db),
			checks: map[string]handler.HealthCheck{
				"database": db.PingContext,
			},
			close: func() { db.Close() },
		}, nil
	}

	var objects dataset.ObjectGetter
	if strings.HasPrefix(cfg.Dataset.Path, "s3://") {
		s3Client, err := dataset.NewS3Client(ctx, &cfg.AWS)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		objects = s3Client
	}

	loader := dataset.NewLoader(&cfg.Dataset, objects)
	ds, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset from %s: %w", loader.Source(), err)
	}
	log.Info().
		Str("source", loader.Source()).
		Int("creators", len(ds.Creators)).
		Int("products", len(ds.Products)).
		Int("sales", len(ds.Sales)).
		Msg("dataset loaded")

	store := repository.NewMemoryStore(ds)
	return &repositories{
		creators: store.Creators(),
		products: store.Products(),
		sales:    store.Sales(),
		checks:   map[string]handler.HealthCheck{},
		store:    store,
		loader:   loader,
		close:    func() {},
	}, nil
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Creator  *handler.CreatorHandler
	Product  *handler.ProductHandler
	Analysis *handler.AnalysisHandler
}

// setupRoutes registers all routes. jwtMiddleware is nil when login is disabled.
func setupRoutes(router *gin.Engine, handlers *Handlers, limiter *middleware.IPRateLimiter, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/api/auth/login", handlers.Auth.Login)

	api := router.Group("/api")
	if jwtMiddleware != nil {
		api.Use(jwtMiddleware.Handle())
	}
	{
		api.GET("/creators", handlers.Creator.ListCreators)
		api.GET("/creators/:id", handlers.Creator.GetCreator)
		api.GET("/creators/:id/sales", handlers.Creator.ListCreatorSales)

		api.GET("/products", handlers.Product.ListProducts)
		api.GET("/products/:id", handlers.Product.GetProduct)
	}

	// AI-backed routes share a per-IP budget
	ai := api.Group("")
	ai.Use(limiter.Handle())
	{
		ai.POST("/analyze", handlers.Analysis.Analyze)
		ai.POST("/match", handlers.Analysis.MatchProducts)
		ai.POST("/match/creators", handlers.Analysis.MatchCreators)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
