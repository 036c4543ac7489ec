// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/askora/askora/internal/platform/apperr"
)

// # Consumer-Side Store

// PostgresStore implements [NotificationStore], [AuditStore], and
// [AuthorDirectory] on the consumer's own connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the consumer-side persistence layer.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
CreateNotification persists a notification row into eventlog.notification.

Parameters:
  - context: context.Context
  - notification: *Notification

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (store *PostgresStore) CreateNotification(context context.Context, notification *Notification) error {
	const query = `
		INSERT INTO eventlog.notification (userid, type, message, createdat)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	err := store.pool.QueryRow(context, query,
		notification.UserID,
		notification.Type,
		notification.Message,
		notification.CreatedAt,
	).Scan(&notification.ID)

	if err != nil {
		return fmt.Errorf("postgres_notification_create_failed: %w", err)
	}

	return nil
}

/*
CreateAuditEntry persists an audit row into eventlog.auditentry.

Parameters:
  - context: context.Context
  - entry: *AuditEntry

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (store *PostgresStore) CreateAuditEntry(context context.Context, entry *AuditEntry) error {
	const query = `
		INSERT INTO eventlog.auditentry (userid, action, resourcetype, resourceid, details, occurredat)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}

	err := store.pool.QueryRow(context, query,
		entry.UserID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.Details,
		entry.OccurredAt,
	).Scan(&entry.ID)

	if err != nil {
		return fmt.Errorf("postgres_audit_create_failed: %w", err)
	}

	return nil
}

/*
QuestionAuthor resolves the author ID of a question.

Returns:
  - int64: Author user ID
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) QuestionAuthor(context context.Context, questionID int64) (int64, error) {
	const query = "SELECT authorid FROM qa.question WHERE id = $1"

	var authorID int64
	err := store.pool.QueryRow(context, query, questionID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("Question")
		}
		return 0, fmt.Errorf("postgres_question_author_failed: %w", err)
	}

	return authorID, nil
}

/*
AnswerAuthor resolves the author ID of an answer.

Returns:
  - int64: Author user ID
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) AnswerAuthor(context context.Context, answerID int64) (int64, error) {
	const query = "SELECT authorid FROM qa.answer WHERE id = $1"

	var authorID int64
	err := store.pool.QueryRow(context, query, answerID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("Answer")
		}
		return 0, fmt.Errorf("postgres_answer_author_failed: %w", err)
	}

	return authorID, nil
}
