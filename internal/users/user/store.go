// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package user

import (
	"context"

	"github.com/askora/askora/pkg/pagination"
)

// Store abstracts persistence for user profiles and tag follows.
//
// # Why an interface?
//
// Services depend on this contract instead of the Postgres implementation so
// tests can substitute in-memory fakes.
type Store interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	Delete(ctx context.Context, userID int64) error
	List(ctx context.Context, params pagination.Params) ([]*User, int, error)
	Statistics(ctx context.Context, userID int64) (*Statistics, error)

	FollowTag(ctx context.Context, userID, tagID int64) error
	UnfollowTag(ctx context.Context, userID, tagID int64) error
	FollowedTags(ctx context.Context, userID int64) ([]*FollowedTag, error)
}

// TagLookup resolves tag identity for follow operations and event payloads.
// Implemented by the tag domain's store.
type TagLookup interface {
	TagName(ctx context.Context, tagID int64) (string, error)
}
