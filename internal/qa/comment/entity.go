// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

/*
Package comment implements threaded comments on questions and answers.

A comment targets exactly one of a question or an answer, and may optionally
reply to another comment on the same target. Comments emit no domain events;
they are deliberately the quiet corner of the platform.
*/
package comment

import "time"

// Comment represents a remark on a question or an answer.
//
// Exactly one of QuestionID and AnswerID is set. ParentID links a reply to
// its parent comment.
type Comment struct {
	ID             int64     `json:"id"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	QuestionID     *int64    `json:"question_id,omitempty"`
	AnswerID       *int64    `json:"answer_id,omitempty"`
	ParentID       *int64    `json:"parent_id,omitempty"`
	Body           string    `json:"body"`
	LikeCount      int       `json:"like_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Target identifies what a comment (or a listing query) is attached to.
type Target struct {
	QuestionID int64
	AnswerID   int64
}

// Valid reports whether exactly one target is set.
func (target Target) Valid() bool {
	return (target.QuestionID > 0) != (target.AnswerID > 0)
}

// Field identifiers for validation.
const (
	FieldBody     = "body"
	FieldTarget   = "target"
	FieldParentID = "parent_id"
)

// MaxBodyLen bounds comment content.
const MaxBodyLen = 2000
