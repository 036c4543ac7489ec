// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package question

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/pkg/pagination"
)

// memoryStore is an in-memory Store for service tests.
type memoryStore struct {
	questions map[int64]*Question
	likes     map[int64]map[int64]bool
	nextID    int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		questions: map[int64]*Question{},
		likes:     map[int64]map[int64]bool{},
		nextID:    1,
	}
}

func (store *memoryStore) Create(_ context.Context, question *Question, _ []int64) error {
	question.ID = store.nextID
	store.nextID++
	clone := *question
	store.questions[question.ID] = &clone
	return nil
}

func (store *memoryStore) FindByID(_ context.Context, id int64) (*Question, error) {
	question, ok := store.questions[id]
	if !ok {
		return nil, apperr.NotFound("Question")
	}
	clone := *question
	clone.LikeCount = len(store.likes[id])
	return &clone, nil
}

func (store *memoryStore) Update(_ context.Context, question *Question, _ []int64) error {
	clone := *question
	store.questions[question.ID] = &clone
	return nil
}

func (store *memoryStore) Delete(_ context.Context, id int64) error {
	if _, ok := store.questions[id]; !ok {
		return apperr.NotFound("Question")
	}
	delete(store.questions, id)
	return nil
}

func (store *memoryStore) List(_ context.Context, _ pagination.Params, _ int64) ([]*Question, int, error) {
	return nil, 0, nil
}

func (store *memoryStore) Like(_ context.Context, questionID, userID int64) (bool, error) {
	if store.likes[questionID] == nil {
		store.likes[questionID] = map[int64]bool{}
	}
	if store.likes[questionID][userID] {
		return false, nil
	}
	store.likes[questionID][userID] = true
	return true, nil
}

func (store *memoryStore) Unlike(_ context.Context, questionID, userID int64) error {
	delete(store.likes[questionID], userID)
	return nil
}

// fakeCache is an in-memory ReadCache that tracks invalidations.
type fakeCache struct {
	entries       map[int64]*Question
	views         map[int64]int64
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[int64]*Question{}, views: map[int64]int64{}}
}

func (cache *fakeCache) Get(_ context.Context, questionID int64) *Question {
	entry, ok := cache.entries[questionID]
	if !ok {
		return nil
	}
	clone := *entry
	return &clone
}

func (cache *fakeCache) Set(_ context.Context, question *Question) {
	clone := *question
	cache.entries[question.ID] = &clone
}

func (cache *fakeCache) Invalidate(_ context.Context, questionID int64) {
	delete(cache.entries, questionID)
	cache.invalidations++
}

func (cache *fakeCache) IncrementViews(_ context.Context, questionID int64) int64 {
	cache.views[questionID]++
	return cache.views[questionID]
}

func (cache *fakeCache) DropViews(_ context.Context, questionID int64) {
	delete(cache.views, questionID)
}

// eventRecorder captures the publisher calls by name.
type eventRecorder struct {
	created []int64
	edited  []int64
	deleted []int64
	liked   []int64
	audits  []string
}

func (rec *eventRecorder) PublishQuestionCreated(_ context.Context, questionID, _ int64, _ string) {
	rec.created = append(rec.created, questionID)
}

func (rec *eventRecorder) PublishQuestionEdited(_ context.Context, questionID, _ int64, _ string) {
	rec.edited = append(rec.edited, questionID)
}

func (rec *eventRecorder) PublishQuestionDeleted(_ context.Context, questionID, _ int64, _ string) {
	rec.deleted = append(rec.deleted, questionID)
}

func (rec *eventRecorder) PublishQuestionLiked(_ context.Context, _, questionID int64) {
	rec.liked = append(rec.liked, questionID)
}

func (rec *eventRecorder) PublishAuditLog(_ context.Context, _ int64, action, _ string, _ int64, _ string) {
	rec.audits = append(rec.audits, action)
}

func newTestService() (*Service, *memoryStore, *fakeCache, *eventRecorder) {
	store := newMemoryStore()
	cache := newFakeCache()
	recorder := &eventRecorder{}
	return NewService(store, cache, recorder), store, cache, recorder
}

func author() *sec.Principal {
	return &sec.Principal{UserID: 1, Username: "alice", Role: sec.RoleUser}
}

func createQuestion(t *testing.T, service *Service) *Question {
	t.Helper()

	question, err := service.Create(context.Background(), author(), CreateInput{
		Title:  "How do goroutines get scheduled?",
		Body:   "I keep reading about M:N scheduling and want the details.",
		TagIDs: []int64{1},
	})
	require.NoError(t, err)
	return question
}

func TestCreate_EmitsCreatedAndAudit(t *testing.T) {
	service, _, _, recorder := newTestService()

	question := createQuestion(t, service)

	assert.Equal(t, []int64{question.ID}, recorder.created)
	assert.Equal(t, []string{"CREATE"}, recorder.audits)
}

func TestCreate_RequiresTags(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Create(context.Background(), author(), CreateInput{
		Title: "Tagless question",
		Body:  "No tags attached.",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestGet_CountsViewsAndCaches(t *testing.T) {
	service, _, cache, _ := newTestService()
	question := createQuestion(t, service)

	first, err := service.Get(context.Background(), question.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ViewCount)

	// Second read is a cache hit and still counts.
	second, err := service.Get(context.Background(), question.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ViewCount)
	assert.NotNil(t, cache.entries[question.ID])
}

func TestUpdate_AuthorOnly(t *testing.T) {
	service, _, cache, recorder := newTestService()
	question := createQuestion(t, service)

	stranger := &sec.Principal{UserID: 2, Username: "bob", Role: sec.RoleUser}
	_, err := service.Update(context.Background(), stranger, question.ID, UpdateInput{
		Title:  "Hijacked",
		Body:   "Rewritten body.",
		TagIDs: []int64{1},
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	updated, err := service.Update(context.Background(), author(), question.ID, UpdateInput{
		Title:  "How does the Go scheduler work?",
		Body:   "Rephrased for clarity.",
		TagIDs: []int64{1},
	})
	require.NoError(t, err)
	assert.Equal(t, "How does the Go scheduler work?", updated.Title)
	assert.Equal(t, []int64{question.ID}, recorder.edited)
	assert.Equal(t, 1, cache.invalidations)
}

func TestDelete_ModeratorOverride(t *testing.T) {
	service, store, _, recorder := newTestService()
	question := createQuestion(t, service)

	stranger := &sec.Principal{UserID: 2, Username: "bob", Role: sec.RoleUser}
	err := service.Delete(context.Background(), stranger, question.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	moderator := &sec.Principal{UserID: 3, Username: "mod", Role: sec.RoleModerator}
	require.NoError(t, service.Delete(context.Background(), moderator, question.ID))

	_, err = store.FindByID(context.Background(), question.ID)
	require.Error(t, err)
	assert.Equal(t, []int64{question.ID}, recorder.deleted)
	assert.Equal(t, []string{"CREATE", "DELETE"}, recorder.audits)
}

func TestLike_IdempotentEmitsOnce(t *testing.T) {
	service, _, _, recorder := newTestService()
	question := createQuestion(t, service)

	liker := &sec.Principal{UserID: 2, Username: "bob", Role: sec.RoleUser}
	require.NoError(t, service.Like(context.Background(), liker, question.ID))
	require.NoError(t, service.Like(context.Background(), liker, question.ID))

	assert.Equal(t, []int64{question.ID}, recorder.liked)

	loaded, err := service.Get(context.Background(), question.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.LikeCount)
}
