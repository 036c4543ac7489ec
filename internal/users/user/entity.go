// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

/*
Package user implements member profiles and their social graph (followed tags).

It defines the core User entity and the operations that mutate it outside of
the authentication flow: profile updates, directory listing, username search,
and tag following.

# Architecture

This layer is the "Truth" for member identity. Entities defined here have no
transport dependencies and encapsulate all business rules related to profiles.
*/
package user

import (
	"time"

	"github.com/askora/askora/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Askora platform.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string       `json:"first_name,omitempty"`
	LastName     string       `json:"last_name,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Role         sec.UserRole `json:"role"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Statistics aggregates a member's authored content counts.
type Statistics struct {
	Questions int64 `json:"questions"`
	Answers   int64 `json:"answers"`
	Comments  int64 `json:"comments"`
}

// FollowedTag is a compact projection of a tag a user follows.
type FollowedTag struct {
	TagID      int64     `json:"tag_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	FollowedAt time.Time `json:"followed_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the user domain.
const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldBio       = "bio"
	FieldUserID    = "userId"
	FieldTagID     = "tagId"
)

// Profile length limits.
const (
	MaxUsernameLen = 50
	MaxNameLen     = 100
	MaxBioLen      = 1000
)

// Password policy limits, shared by registration and password change.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 72 // bcrypt input cap
)
