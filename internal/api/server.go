// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

/*
Package api assembles the HTTP surface of Askora: the middleware chain, the
versioned route tree, and the operational endpoints (health, readiness,
metrics).

# Request Pipeline

Every request passes through, in order: request ID assignment, structured
logging, Prometheus instrumentation, rate limiting, panic recovery, CORS, a
global timeout, and the fail-open authentication gate. Rejection only happens
later, at RequireAuth/RequireRole-guarded routes.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/askora/askora/internal/platform/config"
	"github.com/askora/askora/internal/platform/constants"
	"github.com/askora/askora/internal/platform/metrics"
	"github.com/askora/askora/internal/platform/middleware"
	"github.com/askora/askora/internal/qa/answer"
	"github.com/askora/askora/internal/qa/comment"
	"github.com/askora/askora/internal/qa/question"
	"github.com/askora/askora/internal/qa/tag"
	"github.com/askora/askora/internal/users/auth"
	"github.com/askora/askora/internal/users/user"
)

// Dependencies carries everything the router needs, fully constructed.
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	Pool        *pgxpool.Pool
	RedisClient *redis.Client

	TokenVerifier     middleware.TokenVerifier
	PrincipalResolver middleware.PrincipalResolver

	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	QuestionHandler *question.Handler
	AnswerHandler   *answer.Handler
	CommentHandler  *comment.Handler
	TagHandler      *tag.Handler
}

/*
NewRouter builds the complete route tree.

Parameters:
  - ctx: context.Context (owns the rate limiter's cleanup goroutine)
  - deps: Dependencies

Returns:
  - chi.Router: Ready to serve
*/
func NewRouter(ctx context.Context, deps Dependencies) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(deps.Logger))
	router.Use(metrics.Instrument)
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.PanicRecovery(deps.Logger))
	router.Use(middleware.CORS(deps.Config))
	router.Use(chimiddleware.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.Authenticate(deps.TokenVerifier, deps.PrincipalResolver, deps.Logger))

	// Operational endpoints stay outside the versioned tree.
	router.Get("/health", health)
	router.Get("/ready", ready(deps.Pool, deps.RedisClient))
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", deps.AuthHandler.Routes())
		r.Mount("/users", deps.UserHandler.Routes())
		r.Mount("/questions", deps.QuestionHandler.Routes(deps.AnswerHandler.ByQuestion))
		r.Mount("/answers", deps.AnswerHandler.Routes())
		r.Mount("/comments", deps.CommentHandler.Routes())
		r.Mount("/tags", deps.TagHandler.Routes())
	})

	return router
}
