// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer and the authentication middleware via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Model

// TokenKind distinguishes the two credentials issued at login.
type TokenKind string

const (
	// TokenAccess is the short-lived credential presented on every request.
	TokenAccess TokenKind = "access"

	// TokenRefresh is the long-lived credential exchanged for a new pair.
	TokenRefresh TokenKind = "refresh"
)

// TokenTypeRefresh is the value of the "type" claim carried only by refresh
// tokens. Access tokens omit the claim entirely.
const TokenTypeRefresh = "refresh"

// MinSigningKeyLength is the minimum byte length accepted for the HMAC
// signing key. HS512 wants a full 512-bit key.
const MinSigningKeyLength = 64

// AuthClaims is the claim set embedded in every Askora JWT.
//
// # Shape
//
// Access tokens carry {sub, username, iat, exp}; refresh tokens carry
// {sub, iat, exp, type="refresh"} and deliberately omit the username.
// Both shapes share this struct — omitempty keeps the compact payloads
// byte-identical to the published wire contract.
type AuthClaims struct {
	Username  string `json:"username,omitempty"`
	TokenType string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// IsRefresh reports whether this claim set belongs to a refresh token.
func (c *AuthClaims) IsRefresh() bool {
	return c.TokenType == TokenTypeRefresh
}

// # Token Service

// TokenService issues and verifies HS512-signed JWTs.
//
// Token validity is purely time- and signature-based: no store lookup is
// needed to validate, only to resolve the principal's current role.
type TokenService struct {
	signingKey []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger
}

// NewTokenService creates a new TokenService with a symmetric signing key.
//
// It rejects keys shorter than [MinSigningKeyLength] so a weak secret fails
// loudly at startup instead of silently signing with insufficient entropy.
func NewTokenService(signingKey, issuer string, accessTTL, refreshTTL time.Duration, logger *slog.Logger) (*TokenService, error) {
	if len(signingKey) < MinSigningKeyLength {
		return nil, fmt.Errorf("sec: signing key must be at least %d bytes, got %d", MinSigningKeyLength, len(signingKey))
	}

	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (service *TokenService) RefreshTTL() time.Duration { return service.refreshTTL }

// GenerateAccessToken creates a signed access token for the given user.
//
// # Claims
//   - sub: decimal user ID
//   - username: the account's username
//   - iat / exp: issuance time and issuance + access TTL
func (service *TokenService) GenerateAccessToken(userID int64, username string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.accessTTL)),
		},
	}

	return service.sign(claims)
}

// GenerateRefreshToken creates a signed refresh token for the given user.
//
// The claim set omits the username and instead tags type=refresh, so a
// refresh token can never be confused with an access token during exchange.
func (service *TokenService) GenerateRefreshToken(userID int64) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.refreshTTL)),
		},
	}

	return service.sign(claims)
}

// sign serializes and signs a claim set with HS512.
func (service *TokenService) sign(claims AuthClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(service.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signedToken, nil
}

// # Verification

/*
Validate checks the signature and expiry of a token string.

Description: Classifies every failure mode (expired, malformed, bad signature,
unsupported algorithm) for logging, but deliberately collapses the outcome to
a boolean — callers only get an allow/deny gate, never the reason. The reason
stays in the logs so diagnostic detail cannot leak to clients.

Validate never panics and never returns an error, regardless of input shape.

Parameters:
  - tokenString: string (raw compact JWT, possibly garbage)

Returns:
  - bool: true only when signature and expiry both check out
*/
func (service *TokenService) Validate(tokenString string) bool {
	_, err := service.parse(tokenString)
	if err == nil {
		return true
	}

	// All non-valid outcomes are distinguishable here for operators, but the
	// public contract stays a plain false.
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		service.logger.Debug("token_rejected", slog.String("reason", "expired"))
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		service.logger.Warn("token_rejected", slog.String("reason", "invalid_signature"))
	case errors.Is(err, jwt.ErrTokenMalformed):
		service.logger.Debug("token_rejected", slog.String("reason", "malformed"))
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		service.logger.Warn("token_rejected", slog.String("reason", "unsupported_algorithm"))
	default:
		service.logger.Debug("token_rejected", slog.String("reason", "invalid"), slog.Any("error", err))
	}

	return false
}

// Claims returns the verified claim set of a token.
//
// Calling Claims on an invalid or expired token returns an error — callers
// must Validate first when they only need a gate.
func (service *TokenService) Claims(tokenString string) (*AuthClaims, error) {
	return service.parse(tokenString)
}

// Subject extracts the user ID from a verified token.
func (service *TokenService) Subject(tokenString string) (int64, error) {
	claims, err := service.parse(tokenString)
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sec: non-numeric subject claim %q: %w", claims.Subject, err)
	}

	return userID, nil
}

// ExtractUsername extracts the username claim from a verified access token.
//
// Refresh tokens carry no username; the empty string is returned for them.
func (service *TokenService) ExtractUsername(tokenString string) (string, error) {
	claims, err := service.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

// parse verifies the token signature and expiry and returns the claim set.
func (service *TokenService) parse(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject any algorithm other than the HMAC family. An attacker
		// swapping alg to "none" or RS256 must not get a key back.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return service.signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
