// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package question

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/askora/askora/internal/platform/constants"
)

// cacheTTL bounds staleness of the hot question cache. Writes invalidate
// eagerly; the TTL is the backstop for missed invalidations.
const cacheTTL = 5 * time.Minute

// Cache is the Redis-backed read accelerator for single-question fetches.
//
// # Degradation
//
// Every method swallows Redis errors after logging them. A broken cache makes
// reads slower and view counts stall, but never fails a request.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewCache creates a question cache on top of a connected Redis client.
func NewCache(client *redis.Client, logger *slog.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

func cacheKey(questionID int64) string {
	return constants.RedisPrefixQuestionCache + strconv.FormatInt(questionID, 10)
}

func viewsKey(questionID int64) string {
	return constants.RedisPrefixQuestionViews + strconv.FormatInt(questionID, 10)
}

// Get returns the cached question, or nil on a miss or cache failure.
func (cache *Cache) Get(context context.Context, questionID int64) *Question {
	raw, err := cache.client.Get(context, cacheKey(questionID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.WarnContext(context, "question_cache_get_failed",
				slog.Int64("question_id", questionID),
				slog.Any("error", err),
			)
		}
		return nil
	}

	question := &Question{}
	if err := json.Unmarshal(raw, question); err != nil {
		cache.logger.WarnContext(context, "question_cache_decode_failed",
			slog.Int64("question_id", questionID),
			slog.Any("error", err),
		)
		return nil
	}

	return question
}

// Set stores the rendered question under the cache TTL.
func (cache *Cache) Set(context context.Context, question *Question) {
	raw, err := json.Marshal(question)
	if err != nil {
		cache.logger.WarnContext(context, "question_cache_encode_failed",
			slog.Int64("question_id", question.ID),
			slog.Any("error", err),
		)
		return
	}

	if err := cache.client.Set(context, cacheKey(question.ID), raw, cacheTTL).Err(); err != nil {
		cache.logger.WarnContext(context, "question_cache_set_failed",
			slog.Int64("question_id", question.ID),
			slog.Any("error", err),
		)
	}
}

// Invalidate drops the cached entry after a write.
func (cache *Cache) Invalidate(context context.Context, questionID int64) {
	if err := cache.client.Del(context, cacheKey(questionID)).Err(); err != nil {
		cache.logger.WarnContext(context, "question_cache_invalidate_failed",
			slog.Int64("question_id", questionID),
			slog.Any("error", err),
		)
	}
}

// IncrementViews bumps and returns the live view counter for a question.
// On cache failure it returns 0 and the stored base count stands alone.
func (cache *Cache) IncrementViews(context context.Context, questionID int64) int64 {
	views, err := cache.client.Incr(context, viewsKey(questionID)).Result()
	if err != nil {
		cache.logger.WarnContext(context, "question_views_incr_failed",
			slog.Int64("question_id", questionID),
			slog.Any("error", err),
		)
		return 0
	}

	return views
}

// DropViews discards the view counter when a question is deleted.
func (cache *Cache) DropViews(context context.Context, questionID int64) {
	if err := cache.client.Del(context, viewsKey(questionID)).Err(); err != nil {
		cache.logger.WarnContext(context, "question_views_drop_failed",
			slog.Int64("question_id", questionID),
			slog.Any("error", err),
		)
	}
}
