// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package tag

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/pkg/pagination"
)

// memoryStore is an in-memory Store for service tests.
type memoryStore struct {
	tags   map[int64]*Tag
	nextID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{tags: map[int64]*Tag{}, nextID: 1}
}

func (store *memoryStore) Create(_ context.Context, tag *Tag) error {
	for _, existing := range store.tags {
		if existing.Slug == tag.Slug {
			return apperr.Conflict("Tag already exists")
		}
	}
	tag.ID = store.nextID
	store.nextID++
	tag.CreatedAt = time.Now()
	tag.UpdatedAt = tag.CreatedAt
	store.tags[tag.ID] = tag
	return nil
}

func (store *memoryStore) FindByID(_ context.Context, id int64) (*Tag, error) {
	if tag, ok := store.tags[id]; ok {
		return tag, nil
	}
	return nil, apperr.NotFound("Tag")
}

func (store *memoryStore) FindBySlug(_ context.Context, slug string) (*Tag, error) {
	for _, tag := range store.tags {
		if tag.Slug == slug {
			return tag, nil
		}
	}
	return nil, apperr.NotFound("Tag")
}

func (store *memoryStore) List(_ context.Context, _ pagination.Params) ([]*Tag, int, error) {
	tags := make([]*Tag, 0, len(store.tags))
	for _, tag := range store.tags {
		tags = append(tags, tag)
	}
	return tags, len(tags), nil
}

func (store *memoryStore) Delete(_ context.Context, id int64) error {
	if _, ok := store.tags[id]; !ok {
		return apperr.NotFound("Tag")
	}
	delete(store.tags, id)
	return nil
}

func (store *memoryStore) TagName(_ context.Context, tagID int64) (string, error) {
	tag, ok := store.tags[tagID]
	if !ok {
		return "", apperr.NotFound("Tag")
	}
	return tag.Name, nil
}

func TestCreate_DerivesSlugAndTimestamps(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)

	created, err := service.Create(context.Background(), "  Distributed Systems ", "all things consensus")
	require.NoError(t, err)

	assert.Equal(t, "Distributed Systems", created.Name)
	assert.Equal(t, "distributed-systems", created.Slug)
	assert.Zero(t, created.QuestionCount)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	found, err := service.GetBySlug(context.Background(), "distributed-systems")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestCreate_RejectsInvalidName(t *testing.T) {
	service := NewService(newMemoryStore())

	_, err := service.Create(context.Background(), "   ", "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestCreate_DuplicateSlugConflicts(t *testing.T) {
	service := NewService(newMemoryStore())

	_, err := service.Create(context.Background(), "Golang", "")
	require.NoError(t, err)

	_, err = service.Create(context.Background(), "golang", "same slug, different case")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestDelete_UnknownTag(t *testing.T) {
	service := NewService(newMemoryStore())

	err := service.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
