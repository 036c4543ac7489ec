// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

/*
Package auth implements the account lifecycle entry points: registration,
credential login, and refresh-token rotation.

It owns no storage of its own. Accounts live in the user domain's store and
tokens are stateless JWTs minted by the platform sec package, so this layer is
pure orchestration plus the security policies around it.

# Security Posture

Login failures are deliberately indistinguishable: an unknown identifier, a
wrong password, and a deactivated account all produce the same generic
Unauthorized error so the endpoint cannot be used to enumerate which accounts
exist.
*/
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/internal/users/user"
)

// # Contracts & Types

// TokenProvider mints and inspects the JWT pair issued to clients.
// Implemented by [sec.TokenService].
type TokenProvider interface {
	GenerateAccessToken(userID int64, username string) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
	Claims(token string) (*sec.AuthClaims, error)
	AccessTTL() time.Duration
}

// EventPublisher defines the outbound events the auth flow emits. The welcome
// notification is not published here: the consumer derives it from
// USER_SIGNED_UP.
type EventPublisher interface {
	PublishUserSignedUp(ctx context.Context, userID int64, username, email string)
	PublishAuditLog(ctx context.Context, userID int64, action, resourceType string, resourceID int64, details string)
}

// Service implements the authentication use cases.
type Service struct {
	store     user.Store
	tokens    TokenProvider
	publisher EventPublisher
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(store user.Store, tokens TokenProvider, publisher EventPublisher) *Service {
	return &Service{
		store:     store,
		tokens:    tokens,
		publisher: publisher,
	}
}

// # Inputs & Outputs

// RegisterInput carries a validated signup request.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// TokenPair is the credential set returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// # Use Cases

/*
Register creates a new account and announces the signup.

Description: Username and email must both be unused. The password is stored
only as a bcrypt hash. A successful registration emits USER_SIGNED_UP (which
the consumer turns into a welcome notification) and an AUDIT_LOG entry.

Parameters:
  - context: context.Context
  - input: RegisterInput (pre-validated at the transport layer)

Returns:
  - *user.User: The created account
  - error: Conflict on duplicate identity, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*user.User, error) {
	if _, err := service.store.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("auth_register_email_check_failed: %w", err)
	}

	if _, err := service.store.FindByUsername(context, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("auth_register_username_check_failed: %w", err)
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_register_hash_failed: %w", err)
	}

	account := &user.User{
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         sec.RoleUser,
		IsActive:     true,
	}

	if err := service.store.Create(context, account); err != nil {
		return nil, err
	}

	service.publisher.PublishUserSignedUp(context, account.ID, account.Username, account.Email)
	service.publisher.PublishAuditLog(context, account.ID, "REGISTER", "USER", account.ID,
		fmt.Sprintf("New account '%s' registered", account.Username))

	return account, nil
}

/*
Login verifies credentials and issues a fresh token pair.

Description: The identifier may be an email address or a username. Every
failure mode collapses into the same generic Unauthorized response.

Parameters:
  - context: context.Context
  - identifier: string (email or username)
  - password: string

Returns:
  - *TokenPair: Access and refresh JWTs
  - error: apperr.Unauthorized on any credential failure
*/
func (service *Service) Login(context context.Context, identifier, password string) (*TokenPair, error) {
	account, err := service.findByIdentifier(context, identifier)
	if err != nil {
		return nil, errInvalidCredentials()
	}

	if !account.IsActive {
		return nil, errInvalidCredentials()
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, errInvalidCredentials()
	}

	return service.issuePair(account)
}

/*
Refresh exchanges a valid refresh token for a new token pair.

Description: The presented token must verify, must carry the refresh type
claim (access tokens are rejected even when otherwise valid), and its subject
must still map to an active account.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenPair: Fresh access and refresh JWTs
  - error: apperr.Unauthorized on any token or account failure
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := service.tokens.Claims(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	if !claims.IsRefresh() {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	account, err := service.store.FindByID(context, userID)
	if err != nil || !account.IsActive {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	return service.issuePair(account)
}

/*
CurrentUser loads the account behind an authenticated principal.

Parameters:
  - context: context.Context
  - userID: int64 (from the request principal)

Returns:
  - *user.User: The caller's own account
  - error: NotFound or storage errors
*/
func (service *Service) CurrentUser(context context.Context, userID int64) (*user.User, error) {
	return service.store.FindByID(context, userID)
}

/*
Logout records the end of a session on the audit stream.

Description: Tokens are stateless JWTs, so there is nothing to revoke server
side — the pair stays valid until expiry and clients discard it. The call
exists so logouts are still observable.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: always nil today; kept for future revocation support
*/
func (service *Service) Logout(context context.Context, userID int64) error {
	service.publisher.PublishAuditLog(context, userID, "LOGOUT", "USER", userID, "")
	return nil
}

// # Internals

// issuePair mints the access/refresh pair for an account.
func (service *Service) issuePair(account *user.User) (*TokenPair, error) {
	access, err := service.tokens.GenerateAccessToken(account.ID, account.Username)
	if err != nil {
		return nil, fmt.Errorf("auth_access_token_failed: %w", err)
	}

	refresh, err := service.tokens.GenerateRefreshToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_refresh_token_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(service.tokens.AccessTTL().Seconds()),
	}, nil
}

// findByIdentifier resolves a login identifier that may be an email or a
// username.
func (service *Service) findByIdentifier(context context.Context, identifier string) (*user.User, error) {
	if strings.Contains(identifier, "@") {
		return service.store.FindByEmail(context, strings.ToLower(identifier))
	}
	return service.store.FindByUsername(context, identifier)
}

func errInvalidCredentials() error {
	return apperr.Unauthorized("Invalid credentials")
}

func isNotFound(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.HTTPStatus == http.StatusNotFound
}
