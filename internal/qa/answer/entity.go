// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

/*
Package answer implements answers posted on questions, including the
acceptance flow that lets a question's author mark one answer as the solution.
*/
package answer

import "time"

// Answer represents a response posted on a question.
type Answer struct {
	ID             int64     `json:"id"`
	QuestionID     int64     `json:"question_id"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Body           string    `json:"body"`
	IsAccepted     bool      `json:"is_accepted"`
	LikeCount      int       `json:"like_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Field identifiers for validation.
const (
	FieldBody       = "body"
	FieldQuestionID = "question_id"
)

// MaxBodyLen bounds answer content.
const MaxBodyLen = 20000
