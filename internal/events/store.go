// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package events

import (
	"context"
	"time"
)

// Notification kinds materialized by the consumer.
const (
	NotificationWelcome        = "WELCOME"
	NotificationNewAnswer      = "NEW_ANSWER"
	NotificationAnswerAccepted = "ANSWER_ACCEPTED"
	NotificationTagFollowed    = "TAG_FOLLOWED"
)

// Notification is a consumer-materialized message for a user's inbox.
type Notification struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// AuditEntry is a consumer-materialized record of a sensitive action.
type AuditEntry struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   int64     `json:"resource_id"`
	Details      string    `json:"details"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NotificationStore persists notification rows.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notification *Notification) error
}

// AuditStore persists audit entry rows.
type AuditStore interface {
	CreateAuditEntry(ctx context.Context, entry *AuditEntry) error
}

// AuthorDirectory resolves the author of a question or answer so handlers
// can address notifications to the right inbox.
type AuthorDirectory interface {
	QuestionAuthor(ctx context.Context, questionID int64) (int64, error)
	AnswerAuthor(ctx context.Context, answerID int64) (int64, error)
}
