// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/askora/askora/internal/platform/constants"
	"github.com/askora/askora/internal/platform/postgres"
	"github.com/askora/askora/internal/platform/redis"
	"github.com/askora/askora/internal/platform/respond"
)

// health reports process liveness. It never touches dependencies.
func health(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		"status":  "ok",
		"service": constants.AppName,
		"version": constants.AppVersion,
	})
}

// ready reports whether the process can serve traffic: Postgres and Redis
// must both answer a ping.
func ready(pool *pgxpool.Pool, client *goredis.Client) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		checks := map[string]string{
			"postgres": "ok",
			"redis":    "ok",
		}
		healthy := true

		if err := postgres.Ping(request.Context(), pool); err != nil {
			checks["postgres"] = "unreachable"
			healthy = false
		}

		if err := redis.Ping(request.Context(), client); err != nil {
			checks["redis"] = "unreachable"
			healthy = false
		}

		if !healthy {
			respond.JSON(writer, http.StatusServiceUnavailable, checks)
			return
		}

		respond.OK(writer, checks)
	}
}
