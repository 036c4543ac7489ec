// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package question

import (
	"context"

	"github.com/askora/askora/pkg/pagination"
)

// Store abstracts persistence for questions, their tag assignments, and likes.
type Store interface {
	Create(ctx context.Context, question *Question, tagIDs []int64) error
	FindByID(ctx context.Context, id int64) (*Question, error)
	Update(ctx context.Context, question *Question, tagIDs []int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params pagination.Params, tagID int64) ([]*Question, int, error)

	// Like records a like edge. The bool reports whether the edge was new,
	// so duplicate likes stay idempotent and don't re-emit events.
	Like(ctx context.Context, questionID, userID int64) (bool, error)
	Unlike(ctx context.Context, questionID, userID int64) error
}
