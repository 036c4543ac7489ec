// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package sec_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora/internal/platform/sec"
)

const testSigningKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenService {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service, err := sec.NewTokenService(testSigningKey, "askora.app", accessTTL, refreshTTL, logger)
	require.NoError(t, err)
	return service
}

func TestNewTokenService_RejectsShortKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := sec.NewTokenService("too-short", "askora.app", time.Hour, time.Hour, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signing key")
}

func TestAccessToken_RoundTrip(t *testing.T) {
	service := newTestService(t, 24*time.Hour, 7*24*time.Hour)

	tokenString, err := service.GenerateAccessToken(42, "quinn")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	assert.True(t, service.Validate(tokenString))

	userID, err := service.Subject(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	username, err := service.ExtractUsername(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "quinn", username)

	claims, err := service.Claims(tokenString)
	require.NoError(t, err)
	assert.False(t, claims.IsRefresh())
	assert.Empty(t, claims.TokenType)
}

func TestRefreshToken_CarriesTypeClaimOnly(t *testing.T) {
	service := newTestService(t, 24*time.Hour, 7*24*time.Hour)

	tokenString, err := service.GenerateRefreshToken(42)
	require.NoError(t, err)
	assert.True(t, service.Validate(tokenString))

	claims, err := service.Claims(tokenString)
	require.NoError(t, err)
	assert.True(t, claims.IsRefresh())
	assert.Equal(t, sec.TokenTypeRefresh, claims.TokenType)
	assert.Empty(t, claims.Username)
}

func TestValidate_ExpiredToken(t *testing.T) {
	service := newTestService(t, -time.Minute, -time.Minute)

	tokenString, err := service.GenerateAccessToken(7, "lee")
	require.NoError(t, err)

	assert.False(t, service.Validate(tokenString))

	_, err = service.Claims(tokenString)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidate_TamperedSignature(t *testing.T) {
	service := newTestService(t, time.Hour, time.Hour)

	tokenString, err := service.GenerateAccessToken(7, "lee")
	require.NoError(t, err)

	// Flip the last signature byte.
	tampered := tokenString[:len(tokenString)-2] + "xx"
	assert.False(t, service.Validate(tampered))
}

func TestValidate_WrongKey(t *testing.T) {
	issuer := newTestService(t, time.Hour, time.Hour)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	otherKey := strings.Repeat("z", sec.MinSigningKeyLength)
	verifier, err := sec.NewTokenService(otherKey, "askora.app", time.Hour, time.Hour, logger)
	require.NoError(t, err)

	tokenString, err := issuer.GenerateAccessToken(9, "pat")
	require.NoError(t, err)

	assert.False(t, verifier.Validate(tokenString))
}

func TestValidate_RejectsNonHMACAlgorithm(t *testing.T) {
	service := newTestService(t, time.Hour, time.Hour)

	// alg=none with an empty signature segment must not validate.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.False(t, service.Validate(tokenString))
}

func TestValidate_NeverPanicsOnGarbage(t *testing.T) {
	service := newTestService(t, time.Hour, time.Hour)

	garbage := []string{
		"",
		"not-a-token",
		"a.b",
		"a.b.c",
		"....",
		strings.Repeat("A", 10_000),
		"Bearer abc.def.ghi",
		"\x00\x01\x02",
		"eyJhbGciOiJIUzUxMiJ9..",
	}

	for _, input := range garbage {
		assert.NotPanics(t, func() {
			assert.False(t, service.Validate(input))
		})
	}
}

func TestSubject_NonNumeric(t *testing.T) {
	service := newTestService(t, time.Hour, time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "not-a-number",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(testSigningKey))
	require.NoError(t, err)

	_, err = service.Subject(tokenString)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-numeric subject")
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, sec.CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-pass", hash))
	assert.False(t, sec.CheckPasswordHash("s3cret-pass", "not-a-bcrypt-hash"))
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleModerator))
	assert.True(t, sec.RoleModerator.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleUser.AtLeast(sec.RoleUser))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleModerator))
	assert.False(t, sec.UserRole("ghost").AtLeast(sec.RoleUser))
}
