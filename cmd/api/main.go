// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

// Command api is the entry point for the Askora HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Connect the Kafka writer and ensure topics exist.
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/askora/askora/internal/api"
	"github.com/askora/askora/internal/events"
	"github.com/askora/askora/internal/platform/config"
	"github.com/askora/askora/internal/platform/constants"
	platformkafka "github.com/askora/askora/internal/platform/kafka"
	"github.com/askora/askora/internal/platform/metrics"
	"github.com/askora/askora/internal/platform/migration"
	pgstore "github.com/askora/askora/internal/platform/postgres"
	redisstore "github.com/askora/askora/internal/platform/redis"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/internal/qa/answer"
	"github.com/askora/askora/internal/qa/comment"
	"github.com/askora/askora/internal/qa/question"
	"github.com/askora/askora/internal/qa/tag"
	"github.com/askora/askora/internal/users/auth"
	"github.com/askora/askora/internal/users/user"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Askora] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
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

	// ── 6. Kafka ──────────────────────────────────────────────────────────
	writer, err := platformkafka.NewWriter(cfg.KafkaBrokers)
	must(log, err, "create kafka writer")
	defer func() {
		log.Info("closing kafka writer")
		if cerr := writer.Close(); cerr != nil {
			log.Error("kafka writer close error", slog.Any("error", cerr))
		}
	}()

	must(log, platformkafka.EnsureTopics(startupCtx, cfg.KafkaBrokers, events.TopicSpecs(), log),
		"ensure kafka topics")

	publisher := events.NewPublisher(writer, log)

	// ── 7. Token Service ──────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL, log)
	must(log, err, "initialize token service")

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userStore := user.NewPostgresStore(pool)
	tagStore := tag.NewPostgresStore(pool)
	questionStore := question.NewPostgresStore(pool)
	answerStore := answer.NewPostgresStore(pool)
	commentStore := comment.NewPostgresStore(pool)

	questionCache := question.NewCache(rdb, log)

	userService := user.NewService(userStore, tagStore, publisher)
	authService := auth.NewService(userStore, tokenService, publisher)
	tagService := tag.NewService(tagStore)
	questionService := question.NewService(questionStore, questionCache, publisher)
	answerService := answer.NewService(answerStore, questionStore, publisher)
	commentService := comment.NewService(commentStore)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	metrics.Register()

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	router := api.NewRouter(serverCtx, api.Dependencies{
		Config:            cfg,
		Logger:            log,
		Pool:              pool,
		RedisClient:       rdb,
		TokenVerifier:     tokenService,
		PrincipalResolver: userService,
		AuthHandler:       auth.NewHandler(authService),
		UserHandler:       user.NewHandler(userService),
		QuestionHandler:   question.NewHandler(questionService),
		AnswerHandler:     answer.NewHandler(answerService),
		CommentHandler:    comment.NewHandler(commentService),
		TagHandler:        tag.NewHandler(tagService),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadTimeout:       constants.DefaultReadTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
	}

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server_listening", slog.String("addr", server.Addr))
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
	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
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
