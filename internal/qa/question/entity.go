// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

/*
Package question implements the question aggregate: authored posts that carry
a title, a body, a tag set, and engagement counters.

# Read Path

Single-question reads are served through a Redis cache: the rendered entity is
cached under a short TTL and every read bumps a Redis view counter, so the hot
path touches Postgres only on cache misses. Cache failures degrade to direct
database reads, never to request failures.
*/
package question

import "time"

// Question represents an authored question with its tag set and counters.
type Question struct {
	ID             int64        `json:"id"`
	AuthorID       int64        `json:"author_id"`
	AuthorUsername string       `json:"author_username"`
	Title          string       `json:"title"`
	Body           string       `json:"body"`
	ViewCount      int64        `json:"view_count"`
	LikeCount      int          `json:"like_count"`
	AnswerCount    int          `json:"answer_count"`
	Tags           []TagSummary `json:"tags"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// TagSummary is the compact tag projection embedded in question responses.
type TagSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Field identifiers for validation.
const (
	FieldTitle  = "title"
	FieldBody   = "body"
	FieldTagIDs = "tag_ids"
)

// Content limits.
const (
	MaxTitleLen        = 255
	MaxBodyLen         = 20000
	MaxTagsPerQuestion = 5
)
