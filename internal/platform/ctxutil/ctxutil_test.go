// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package ctxutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora/internal/platform/ctxutil"
	"github.com/askora/askora/internal/platform/sec"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

func TestRequestID_Missing(t *testing.T) {
	assert.Empty(t, ctxutil.GetRequestID(context.Background()))
}

func TestPrincipal_RoundTrip(t *testing.T) {
	principal := &sec.Principal{UserID: 7, Username: "quinn", Role: sec.RoleModerator}
	ctx := ctxutil.WithPrincipal(context.Background(), principal)

	got := ctxutil.GetPrincipal(ctx)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, sec.RoleModerator, got.Role)
}

func TestPrincipal_Anonymous(t *testing.T) {
	assert.Nil(t, ctxutil.GetPrincipal(context.Background()))
}

func TestGetLogger_FallsBackToDefault(t *testing.T) {
	assert.NotNil(t, ctxutil.GetLogger(context.Background()))
}
