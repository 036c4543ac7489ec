// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package tag

import (
	"context"

	"github.com/askora/askora/pkg/pagination"
)

// Store abstracts persistence for tags.
type Store interface {
	Create(ctx context.Context, tag *Tag) error
	FindByID(ctx context.Context, id int64) (*Tag, error)
	FindBySlug(ctx context.Context, slug string) (*Tag, error)
	List(ctx context.Context, params pagination.Params) ([]*Tag, int, error)
	Delete(ctx context.Context, id int64) error

	TagName(ctx context.Context, tagID int64) (string, error)
}
