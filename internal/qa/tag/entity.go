// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

/*
Package tag implements topic tags: the curated vocabulary questions are filed
under.

Tags are created and deleted by moderators only. Their follower counts are
maintained by the user domain's follow operations; this package exposes the
lookup surface other domains need (name resolution for events, slug routing).
*/
package tag

import "time"

// Tag represents a curated topic label.
//
// QuestionCount is derived from the question assignments at query time, never
// stored, so it cannot drift.
type Tag struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	FollowerCount int       `json:"follower_count"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Field identifiers for validation.
const (
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldDescription = "description"
)

// Content length limits.
const (
	MaxNameLen        = 50
	MaxDescriptionLen = 500
)
