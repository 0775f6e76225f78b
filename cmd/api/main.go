// Package main is the entry point for the API server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/driftline/driftline/internal/api"
	"github.com/driftline/driftline/internal/auth"
	"github.com/driftline/driftline/internal/config"
	"github.com/driftline/driftline/internal/content"
	"github.com/driftline/driftline/internal/engagement"
	"github.com/driftline/driftline/internal/feed"
	"github.com/driftline/driftline/internal/geo"
	"github.com/driftline/driftline/internal/health"
	"github.com/driftline/driftline/internal/middleware"
	"github.com/driftline/driftline/internal/profile"
	"github.com/driftline/driftline/internal/ranking"
	"github.com/driftline/driftline/internal/tracing"
)

// signalRepository is a content store that can also back the profile builder.
type signalRepository interface {
	content.Repository
	profile.GraphSource
	profile.ActivitySource
	profile.PreferenceSource
	profile.NegativeSignalSource
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("Driftline API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "config", cfg.LogSummary())

	// Tracing
	tp, err := tracing.NewProvider(tracing.Config{
		ServiceName:  "driftline-api",
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplingRate: 1.0,
		InsecureMode: cfg.Env != "production",
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("failed to shut down tracing", "error", err)
		}
	}()

	// Metrics registry
	reg := prometheus.NewRegistry()
	feedMetrics := feed.NewPromMetrics()
	engagementMetrics := engagement.NewPromMetrics()
	httpMetrics := middleware.NewMetrics()
	for name, register := range map[string]func(prometheus.Registerer) error{
		"feed":       feedMetrics.Register,
		"engagement": engagementMetrics.Register,
		"http":       httpMetrics.Register,
	} {
		if err := register(reg); err != nil {
			logger.Error("failed to register metrics", "collector", name, "error", err)
			os.Exit(1)
		}
	}

	// Content repository: Postgres when configured, in-memory otherwise
	var baseRepo signalRepository
	var dbChecker api.HealthChecker
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		baseRepo = content.NewPostgresRepository(db)
		dbChecker = health.NewDBChecker(db)
		logger.Info("using postgres content repository")
	} else {
		baseRepo = content.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory content repository")
	}

	// Optional Redis cache in front of the candidate pool
	var repo content.Repository = baseRepo
	var redisChecker api.HealthChecker
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		repo = content.NewCachedRepository(baseRepo, client, logger, 0)
		redisChecker = health.NewRedisChecker(client)
		logger.Info("candidate pool caching enabled", "addr", cfg.RedisAddr)
	}

	// Ranking calibration and engagement scoring config
	weights, err := ranking.LoadCalibration(cfg.RankingCalibrationPath)
	if err != nil {
		logger.Warn("using default feed weights", "error", err)
	}

	engagementCfg, err := engagement.Preset(cfg.EngagementPreset)
	if err != nil {
		logger.Error("invalid engagement preset", "preset", cfg.EngagementPreset, "error", err)
		os.Exit(1)
	}
	store := engagement.NewStore(engagementCfg)

	// Feed pipeline
	rankerOpts := []feed.RankerOption{feed.WithEngagementMetrics(engagementMetrics)}
	if cfg.GeoBoostEnabled {
		rankerOpts = append(rankerOpts, feed.WithGeoBoost(geo.ProximityBoost))
	}
	ranker := feed.NewRanker(weights, store, rankerOpts...)

	builder := profile.NewBuilder(baseRepo, baseRepo, baseRepo,
		profile.WithNegativeSignals(baseRepo))

	feedService := feed.NewService(repo, builder, ranker,
		feed.WithLogger(logger),
		feed.WithMetrics(feedMetrics),
		feed.WithFeedLimit(cfg.FeedLimit),
		feed.WithCandidateWindow(time.Duration(cfg.CandidateWindowHours)*time.Hour),
		feed.WithPoolSize(cfg.CandidatePoolSize),
	)

	// Handlers
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	if cfg.JWTPreviousSecret != "" {
		jwtService = auth.NewJWTServiceWithRotation(cfg.JWTSecret, cfg.JWTPreviousSecret)
		logger.Info("jwt key rotation window active")
	}
	feedHandlers := api.NewFeedHandlers(feedService, logger)
	rankingHandlers := api.NewRankingHandlers(store, engagementMetrics, logger)
	healthHandlers := api.NewHealthHandlers(api.HealthHandlersConfig{
		DBChecker:    dbChecker,
		RedisChecker: redisChecker,
	})

	requireAuth := api.RequireAuth(jwtService)
	limitStore := middleware.NewInMemoryRateLimitStore()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandlers.Health)
	mux.HandleFunc("/ready", healthHandlers.Ready)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mux.Handle("/v1/feed",
		middleware.RateLimiter(limitStore, middleware.DefaultFeedLimit(), middleware.UserKeyFunc(), httpMetrics)(
			requireAuth(http.HandlerFunc(feedHandlers.GetFeed))))

	mux.Handle("/v1/ranking/config",
		middleware.RateLimiter(limitStore, middleware.DefaultConfigLimit(), middleware.UserKeyFunc(), httpMetrics)(
			requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					rankingHandlers.GetConfig(w, r)
				case http.MethodPut:
					rankingHandlers.UpdateConfig(w, r)
				default:
					ctx := middleware.SetErrorCode(r.Context(), api.ErrCodeBadRequest)
					api.WriteError(w, ctx, http.StatusMethodNotAllowed, api.ErrCodeBadRequest, "Method not allowed")
				}
			}))))

	// Middleware chain: RequestID -> Tracing -> Metrics -> Logging
	var handler http.Handler = mux
	handler = middleware.Logging(logger)(handler)
	handler = middleware.HTTPMetrics(httpMetrics)(handler)
	if cfg.TracingEnabled {
		handler = middleware.Tracing("driftline-api")(handler)
	}
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
