// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package answer

import (
	"context"

	"github.com/askora/askora/pkg/pagination"
)

// Store abstracts persistence for answers and their likes.
type Store interface {
	Create(ctx context.Context, answer *Answer) error
	FindByID(ctx context.Context, id int64) (*Answer, error)
	Delete(ctx context.Context, id int64) error
	ListByQuestion(ctx context.Context, questionID int64, params pagination.Params) ([]*Answer, int, error)

	// MarkAccepted flags one answer as the question's solution and clears the
	// flag on every sibling, atomically.
	MarkAccepted(ctx context.Context, answerID, questionID int64) error

	Like(ctx context.Context, answerID, userID int64) (bool, error)
	Unlike(ctx context.Context, answerID, userID int64) error
}

// QuestionDirectory resolves question authorship for the acceptance check.
// Implemented by the question domain's store.
type QuestionDirectory interface {
	QuestionAuthor(ctx context.Context, questionID int64) (int64, error)
}
