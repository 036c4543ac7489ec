// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package comment

import (
	"context"

	"github.com/askora/askora/pkg/pagination"
)

// Store abstracts persistence for comments and their likes.
type Store interface {
	Create(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, id int64) (*Comment, error)
	Delete(ctx context.Context, id int64) error

	// ListByTarget returns top-level comments on a question or answer.
	ListByTarget(ctx context.Context, target Target, params pagination.Params) ([]*Comment, int, error)

	// Replies returns the direct replies to a comment, oldest first.
	Replies(ctx context.Context, parentID int64) ([]*Comment, error)

	Like(ctx context.Context, commentID, userID int64) (bool, error)
	Unlike(ctx context.Context, commentID, userID int64) error
}
