// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/ctxutil"
	"github.com/askora/askora/internal/platform/respond"
	"github.com/askora/askora/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the sec package's
// concrete TokenService, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Validate(tokenString string) bool
	Subject(tokenString string) (int64, error)
}

// PrincipalResolver loads the current identity and role for a user ID.
//
// The role always comes from the store, never from the token, so role changes
// take effect immediately without waiting for token expiry.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID int64) (*sec.Principal, error)
}

// Authenticate establishes the request identity from the Authorization header.
//
// # Fail-Open Contract
//
// This middleware NEVER rejects a request. Every failure mode — missing
// header, malformed header, invalid or expired token, unknown user, store
// error — results in the request proceeding as anonymous. Rejection is the
// exclusive job of [RequireAuth] and [RequireRole], which run after it.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. Validate the token signature and expiry via [TokenVerifier].
//  3. Resolve the principal (identity + current role) via [PrincipalResolver].
//  4. Inject [*sec.Principal] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, resolver PrincipalResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Header Extraction ──────────────────────────────────────────
			tokenString, ok := bearerToken(request.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			if !verifier.Validate(tokenString) {
				next.ServeHTTP(writer, request)
				return
			}

			userID, err := verifier.Subject(tokenString)
			if err != nil {
				logger.WarnContext(request.Context(), "auth_subject_unreadable", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Principal Resolution ───────────────────────────────────────
			principal, err := resolver.ResolvePrincipal(request.Context(), userID)
			if err != nil || principal == nil {
				// A valid token for a deleted or unknown account stays anonymous.
				logger.WarnContext(request.Context(), "auth_principal_unresolved",
					slog.Int64("user_id", userID),
					slog.Any("error", err),
				)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential from an 'Authorization: Bearer x' value.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Principal] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.Principal] exists in context (implies AuthN).
//  2. Check if the user's role meets or exceeds the target using [sec.UserRole.AtLeast].
//  3. If insufficient, abort with HTTP 403 Forbidden.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !principal.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
