// Copyright (c) 2026 Verdantia. All rights reserved.

// Command api is the entry point for the Verdantia HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/verdantia/verdantia/internal/api"
	"github.com/verdantia/verdantia/internal/core/article"
	"github.com/verdantia/verdantia/internal/core/engage"
	"github.com/verdantia/verdantia/internal/core/event"
	"github.com/verdantia/verdantia/internal/core/plant"
	"github.com/verdantia/verdantia/internal/platform/config"
	"github.com/verdantia/verdantia/internal/platform/constants"
	"github.com/verdantia/verdantia/internal/platform/migration"
	pgstore "github.com/verdantia/verdantia/internal/platform/postgres"
	redisstore "github.com/verdantia/verdantia/internal/platform/redis"
	"github.com/verdantia/verdantia/internal/platform/sec"
	"github.com/verdantia/verdantia/internal/users/account"
	"github.com/verdantia/verdantia/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "verdantia"))
	slog.SetDefault(log)

	log.Info("[Verdantia] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "verdantia"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// appCtx lives for the whole process; background middleware loops hang
	// off it.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	resetRepository := auth.NewResetTokenRepository(rdb)

	accountRepository := account.NewAccountRepository(pool)
	accountService := account.NewService(accountRepository, sessionRepository, log)
	accountHandler := account.NewHandler(accountService)

	// The account service doubles as the login-time promoter.
	authService := auth.NewService(userRepository, sessionRepository, resetRepository, jwtSvc, accountService)
	authHandler := auth.NewHandler(authService)

	plantService := plant.NewService(plant.NewRepository(pool), log)
	plantHandler := plant.NewHandler(plantService)

	articleService := article.NewService(article.NewRepository(pool), log)
	articleHandler := article.NewHandler(articleService)

	eventService := event.NewService(event.NewRepository(pool), log)
	eventHandler := event.NewHandler(eventService)

	engageService := engage.NewService(
		engage.NewReviewRepository(pool),
		engage.NewFavoriteRepository(pool),
		engage.NewLikeRepository(pool),
		&api.ContentTargets{
			Plants:   plantService,
			Articles: articleService,
			Events:   eventService,
		},
		log,
	)
	engageHandler := engage.NewHandler(engageService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Plant:     plantHandler,
		Article:   articleHandler,
		Event:     eventHandler,
		Engage:    engageHandler,
	}

	server := api.NewServer(appCtx, cfg, log, authService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
