// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/internal/users/user"
	"github.com/askora/askora/pkg/pagination"
)

const testSigningKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// memoryUserStore is an in-memory user.Store for service tests.
type memoryUserStore struct {
	users  map[int64]*user.User
	nextID int64
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[int64]*user.User{}, nextID: 1}
}

func (store *memoryUserStore) Create(_ context.Context, account *user.User) error {
	account.ID = store.nextID
	store.nextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	store.users[account.ID] = account
	return nil
}

func (store *memoryUserStore) FindByID(_ context.Context, id int64) (*user.User, error) {
	if account, ok := store.users[id]; ok {
		return account, nil
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUserStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, account := range store.users {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUserStore) FindByUsername(_ context.Context, username string) (*user.User, error) {
	for _, account := range store.users {
		if account.Username == username {
			return account, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUserStore) Update(_ context.Context, account *user.User) error {
	store.users[account.ID] = account
	return nil
}

func (store *memoryUserStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	account, ok := store.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	account.PasswordHash = hash
	return nil
}

func (store *memoryUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := store.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(store.users, id)
	return nil
}

func (store *memoryUserStore) Statistics(_ context.Context, _ int64) (*user.Statistics, error) {
	return &user.Statistics{}, nil
}

func (store *memoryUserStore) List(_ context.Context, _ pagination.Params) ([]*user.User, int, error) {
	return nil, 0, nil
}

func (store *memoryUserStore) FollowTag(_ context.Context, _, _ int64) error   { return nil }
func (store *memoryUserStore) UnfollowTag(_ context.Context, _, _ int64) error { return nil }
func (store *memoryUserStore) FollowedTags(_ context.Context, _ int64) ([]*user.FollowedTag, error) {
	return nil, nil
}

// capturePublisher records emitted events by name.
type capturePublisher struct {
	signups []int64
	audits  []string
}

func (p *capturePublisher) PublishUserSignedUp(_ context.Context, userID int64, _, _ string) {
	p.signups = append(p.signups, userID)
}

func (p *capturePublisher) PublishAuditLog(_ context.Context, _ int64, action, _ string, _ int64, _ string) {
	p.audits = append(p.audits, action)
}

func newTestService(t *testing.T) (*Service, *memoryUserStore, *capturePublisher, *sec.TokenService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := sec.NewTokenService(testSigningKey, "askora.app", time.Hour, 24*time.Hour, logger)
	require.NoError(t, err)

	store := newMemoryUserStore()
	publisher := &capturePublisher{}
	return NewService(store, tokens, publisher), store, publisher, tokens
}

func register(t *testing.T, service *Service, username, email string) *user.User {
	t.Helper()

	account, err := service.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return account
}

func TestRegister_CreatesAccountAndEmitsSignup(t *testing.T) {
	service, store, publisher, _ := newTestService(t)

	account := register(t, service, "alice", "alice@example.com")

	assert.Equal(t, sec.RoleUser, account.Role)
	assert.True(t, account.IsActive)
	assert.NotEqual(t, "correct horse battery", account.PasswordHash)

	stored, err := store.FindByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)

	assert.Equal(t, []int64{account.ID}, publisher.signups)
	assert.Equal(t, []string{"REGISTER"}, publisher.audits)
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	service, _, _, _ := newTestService(t)
	register(t, service, "alice", "alice@example.com")

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "another password",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice2@example.com",
		Password: "another password",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestLogin_IssuesPairForEmailOrUsername(t *testing.T) {
	service, _, _, tokens := newTestService(t)
	account := register(t, service, "alice", "alice@example.com")

	for _, identifier := range []string{"alice@example.com", "alice"} {
		pair, err := service.Login(context.Background(), identifier, "correct horse battery")
		require.NoError(t, err)

		assert.Equal(t, "Bearer", pair.TokenType)
		assert.True(t, tokens.Validate(pair.AccessToken))
		assert.True(t, tokens.Validate(pair.RefreshToken))

		subject, err := tokens.Subject(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, account.ID, subject)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	service, store, _, _ := newTestService(t)
	account := register(t, service, "alice", "alice@example.com")

	account.IsActive = false
	require.NoError(t, store.Update(context.Background(), account))
	register(t, service, "bob", "bob@example.com")

	cases := []struct {
		name       string
		identifier string
		password   string
	}{
		{"unknown account", "nobody@example.com", "whatever"},
		{"wrong password", "bob@example.com", "not the password"},
		{"deactivated account", "alice@example.com", "correct horse battery"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), testCase.identifier, testCase.password)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "UNAUTHORIZED", appError.Code)
			assert.Equal(t, "Invalid credentials", appError.Message)
		})
	}
}

func TestRefresh_RotatesPair(t *testing.T) {
	service, _, _, tokens := newTestService(t)
	account := register(t, service, "alice", "alice@example.com")

	pair, err := service.Login(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	rotated, err := service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	subject, err := tokens.Subject(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, subject)

	claims, err := tokens.Claims(rotated.RefreshToken)
	require.NoError(t, err)
	assert.True(t, claims.IsRefresh())
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	service, _, _, _ := newTestService(t)
	register(t, service, "alice", "alice@example.com")

	pair, err := service.Login(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	// A perfectly valid access token must not pass the refresh gate.
	_, err = service.Refresh(context.Background(), pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestCurrentUser_ReturnsOwnAccount(t *testing.T) {
	service, _, _, _ := newTestService(t)
	account := register(t, service, "alice", "alice@example.com")

	current, err := service.CurrentUser(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", current.Username)

	_, err = service.CurrentUser(context.Background(), account.ID+99)
	require.Error(t, err)
}

func TestLogout_EmitsAuditEntry(t *testing.T) {
	service, _, publisher, _ := newTestService(t)
	account := register(t, service, "alice", "alice@example.com")

	require.NoError(t, service.Logout(context.Background(), account.ID))
	assert.Equal(t, []string{"REGISTER", "LOGOUT"}, publisher.audits)
}

func TestRefresh_RejectsGarbageAndDeactivated(t *testing.T) {
	service, store, _, _ := newTestService(t)
	account := register(t, service, "alice", "alice@example.com")

	pair, err := service.Login(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	_, err = service.Refresh(context.Background(), "not.a.token")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	account.IsActive = false
	require.NoError(t, store.Update(context.Background(), account))

	_, err = service.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}
