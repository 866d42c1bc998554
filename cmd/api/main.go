// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/trip-planner/backend/internal/catalog"
	"github.com/pkordes/trip-planner/backend/internal/config"
	"github.com/pkordes/trip-planner/backend/internal/deeplink"
	"github.com/pkordes/trip-planner/backend/internal/handler"
	"github.com/pkordes/trip-planner/backend/internal/middleware"
	"github.com/pkordes/trip-planner/backend/internal/planner"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/service"
	"github.com/pkordes/trip-planner/backend/migrations"
	"github.com/pkordes/trip-planner/backend/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use the default logger before ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Trip storage -----------------------------------------------------
	var trips repo.TripRepo
	if cfg.DatabaseURL != "" {
		pool, err := openDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		trips = repo.NewTripRepo(pool)
		slog.Info("database connection established")
	} else {
		trips = repo.NewMemoryTripRepo()
		slog.Warn("DATABASE_URL not set; trips are kept in memory and lost on restart")
	}

	// --- Catalog ----------------------------------------------------------
	var source catalog.Source
	if cfg.CatalogBaseURL != "" {
		client, err := catalog.NewClient(catalog.ClientOptions{
			BaseURL:           cfg.CatalogBaseURL,
			RequestsPerSecond: cfg.CatalogRPS,
			Logger:            logger,
		})
		if err != nil {
			slog.Error("failed to create catalog client", "error", err)
			os.Exit(1)
		}
		source = client

		if cfg.RedisURL != "" {
			opts, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				slog.Error("invalid REDIS_URL", "error", err)
				os.Exit(1)
			}
			rdb := redis.NewClient(opts)
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				// The cache falls through to the client, so keep serving.
				slog.Warn("redis unreachable; catalog cache will miss", "error", err)
			}
			source = catalog.NewRedisCache(client, rdb, cfg.CatalogCacheTTL, logger)
		}
	} else {
		slog.Warn("CATALOG_BASE_URL not set; catalog search is unavailable")
	}

	var tokens *deeplink.Codec
	if cfg.DeeplinkSecret != "" {
		tokens, err = deeplink.NewCodecFromHex(cfg.DeeplinkSecret)
	} else {
		tokens, err = deeplink.NewRandomCodec()
		slog.Warn("DEEPLINK_SECRET not set; listing links expire on restart")
	}
	if err != nil {
		slog.Error("failed to create deep-link codec", "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	tripSvc := service.NewTripService(trips)

	// Finished wizards are dropped at once; abandoned tabs are swept here.
	plans := planner.NewSessions()
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go plans.Janitor(janitorCtx, max(cfg.PlanIdleTTL/4, time.Second), cfg.PlanIdleTTL)

	server := handler.NewServer(handler.Deps{
		Trips:   tripSvc,
		Catalog: service.NewCatalogService(source, tokens),
		Export:  service.NewExportService(trips),
		Tokens:  tokens,
		Plans:   plans,
		OpenAPI: spec.OpenAPI,
		Logger:  logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openDatabase connects to Postgres and applies pending migrations.
func openDatabase(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	// goose drives database/sql, so borrow a *sql.DB view of the pool.
	// It keeps no idle connections of its own.
	db := stdlib.OpenDBFromPool(pool)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration_ms", res.Duration.Milliseconds())
	}
	return pool, nil
}
