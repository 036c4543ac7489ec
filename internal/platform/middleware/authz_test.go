// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora/internal/platform/ctxutil"
	"github.com/askora/askora/internal/platform/middleware"
	"github.com/askora/askora/internal/platform/sec"
)

// stubVerifier validates exactly one known token string.
type stubVerifier struct {
	validToken string
	subject    int64
	subjectErr error
}

func (s *stubVerifier) Validate(tokenString string) bool {
	return tokenString == s.validToken
}

func (s *stubVerifier) Subject(tokenString string) (int64, error) {
	if s.subjectErr != nil {
		return 0, s.subjectErr
	}
	return s.subject, nil
}

// stubResolver returns a fixed principal or error.
type stubResolver struct {
	principal *sec.Principal
	err       error
}

func (s *stubResolver) ResolvePrincipal(ctx context.Context, userID int64) (*sec.Principal, error) {
	return s.principal, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// capturePrincipal records what identity (if any) reached the inner handler.
func capturePrincipal(got **sec.Principal) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*got = ctxutil.GetPrincipal(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidToken_AttachesPrincipal(t *testing.T) {
	verifier := &stubVerifier{validToken: "good-token", subject: 42}
	resolver := &stubResolver{principal: &sec.Principal{UserID: 42, Username: "quinn", Role: sec.RoleUser}}

	var got *sec.Principal
	handler := middleware.Authenticate(verifier, resolver, discardLogger())(capturePrincipal(&got))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil)
	request.Header.Set("Authorization", "Bearer good-token")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "quinn", got.Username)
}

func TestAuthenticate_FailOpen_NeverRejects(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		verifier *stubVerifier
		resolver *stubResolver
	}{
		{
			name:     "missing_header",
			header:   "",
			verifier: &stubVerifier{validToken: "good"},
			resolver: &stubResolver{},
		},
		{
			name:     "malformed_header",
			header:   "NotBearer xyz",
			verifier: &stubVerifier{validToken: "good"},
			resolver: &stubResolver{},
		},
		{
			name:     "bearer_without_token",
			header:   "Bearer ",
			verifier: &stubVerifier{validToken: "good"},
			resolver: &stubResolver{},
		},
		{
			name:     "invalid_token",
			header:   "Bearer bad-token",
			verifier: &stubVerifier{validToken: "good"},
			resolver: &stubResolver{},
		},
		{
			name:     "unreadable_subject",
			header:   "Bearer good",
			verifier: &stubVerifier{validToken: "good", subjectErr: errors.New("bad sub")},
			resolver: &stubResolver{},
		},
		{
			name:     "unknown_user",
			header:   "Bearer good",
			verifier: &stubVerifier{validToken: "good", subject: 7},
			resolver: &stubResolver{err: errors.New("no such user")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *sec.Principal
			handler := middleware.Authenticate(tt.verifier, tt.resolver, discardLogger())(capturePrincipal(&got))

			request := httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			// The gate must stay open: 200 from the inner handler, no identity.
			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Nil(t, got)
		})
	}
}

func TestRequireAuth_BlocksAnonymous(t *testing.T) {
	handler := middleware.RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodPost, "/api/v1/questions", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "UNAUTHORIZED")
}

func TestRequireAuth_PassesAuthenticated(t *testing.T) {
	handler := middleware.RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodPost, "/api/v1/questions", nil)
	ctx := ctxutil.WithPrincipal(request.Context(), &sec.Principal{UserID: 1, Role: sec.RoleUser})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request.WithContext(ctx))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		principal  *sec.Principal
		required   sec.UserRole
		wantStatus int
	}{
		{"anonymous", nil, sec.RoleModerator, http.StatusUnauthorized},
		{"insufficient_role", &sec.Principal{UserID: 1, Role: sec.RoleUser}, sec.RoleModerator, http.StatusForbidden},
		{"exact_role", &sec.Principal{UserID: 1, Role: sec.RoleModerator}, sec.RoleModerator, http.StatusOK},
		{"higher_role", &sec.Principal{UserID: 1, Role: sec.RoleAdmin}, sec.RoleModerator, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.RequireRole(tt.required)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodDelete, "/api/v1/questions/9", nil)
			if tt.principal != nil {
				request = request.WithContext(ctxutil.WithPrincipal(request.Context(), tt.principal))
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
