// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/askora/askora/internal/platform/ctxkey"
	"github.com/askora/askora/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithPrincipal returns a new context with the authenticated principal attached.
func WithPrincipal(ctx context.Context, principal *sec.Principal) context.Context {
	return context.WithValue(ctx, ctxkey.KeyPrincipal, principal)
}

// GetPrincipal retrieves the [*sec.Principal] from the [context.Context].
// Returns nil for anonymous requests.
func GetPrincipal(ctx context.Context) *sec.Principal {
	principal, ok := ctx.Value(ctxkey.KeyPrincipal).(*sec.Principal)
	if !ok {
		return nil
	}
	return principal
}
