// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/dberr"
	"github.com/askora/askora/pkg/pagination"
)

// PostgresStore implements the [Store] interface using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the comment Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const commentColumns = `
	c.id, c.authorid, a.username, c.questionid, c.answerid, c.parentid, c.body,
	(SELECT COUNT(*) FROM qa.commentlike l WHERE l.commentid = c.id),
	c.createdat, c.updatedat`

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID,
		&comment.AuthorID,
		&comment.AuthorUsername,
		&comment.QuestionID,
		&comment.AnswerID,
		&comment.ParentID,
		&comment.Body,
		&comment.LikeCount,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	return comment, err
}

// Create persists a new comment. A check constraint enforces the
// exactly-one-target rule at the database level too.
func (store *PostgresStore) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO qa.comment (authorid, questionid, answerid, parentid, body, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id`

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	err := store.pool.QueryRow(context, query,
		comment.AuthorID,
		comment.QuestionID,
		comment.AnswerID,
		comment.ParentID,
		comment.Body,
		now,
	).Scan(&comment.ID)

	if err != nil {
		return dberr.Wrap(err, "comment_create")
	}

	return nil
}

// FindByID retrieves a comment with its author and like count.
func (store *PostgresStore) FindByID(context context.Context, id int64) (*Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM qa.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.id = $1`

	comment, err := scanComment(store.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_find_by_id_failed: %w", err)
	}

	return comment, nil
}

// Delete removes a comment. Replies cascade away with it.
func (store *PostgresStore) Delete(context context.Context, id int64) error {
	const query = "DELETE FROM qa.comment WHERE id = $1"

	result, err := store.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "comment_delete")
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

/*
ListByTarget returns a page of top-level comments on a question or answer,
oldest first.

Returns:
  - []*Comment: Page of comments
  - int: Total top-level comment count for the target
  - error: Query failures
*/
func (store *PostgresStore) ListByTarget(context context.Context, target Target, params pagination.Params) ([]*Comment, int, error) {
	filter := "c.questionid = $1"
	targetID := target.QuestionID
	if target.AnswerID > 0 {
		filter = "c.answerid = $1"
		targetID = target.AnswerID
	}

	countQuery := "SELECT COUNT(*) FROM qa.comment c WHERE " + filter + " AND c.parentid IS NULL"

	var total int
	if err := store.pool.QueryRow(context, countQuery, targetID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_count_failed: %w", err)
	}

	listQuery := `
		SELECT ` + commentColumns + `
		FROM qa.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE ` + filter + ` AND c.parentid IS NULL
		ORDER BY c.createdat ASC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(context, listQuery, targetID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_list_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0, params.Limit)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, total, rows.Err()
}

// Replies returns the direct replies to a comment, oldest first.
func (store *PostgresStore) Replies(context context.Context, parentID int64) ([]*Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM qa.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.parentid = $1
		ORDER BY c.createdat ASC`

	rows, err := store.pool.Query(context, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("postgres_comment_replies_failed: %w", err)
	}
	defer rows.Close()

	replies := make([]*Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_comment_replies_scan_failed: %w", err)
		}
		replies = append(replies, comment)
	}

	return replies, rows.Err()
}

// # Likes

// Like records a like edge idempotently. The bool reports a fresh edge.
func (store *PostgresStore) Like(context context.Context, commentID, userID int64) (bool, error) {
	const query = `
		INSERT INTO qa.commentlike (commentid, userid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (commentid, userid) DO NOTHING`

	result, err := store.pool.Exec(context, query, commentID, userID, time.Now())
	if err != nil {
		return false, dberr.Wrap(err, "comment_like")
	}

	return result.RowsAffected() > 0, nil
}

// Unlike removes a like edge. Removing a non-existent edge is a no-op.
func (store *PostgresStore) Unlike(context context.Context, commentID, userID int64) error {
	const query = "DELETE FROM qa.commentlike WHERE commentid = $1 AND userid = $2"

	if _, err := store.pool.Exec(context, query, commentID, userID); err != nil {
		return dberr.Wrap(err, "comment_unlike")
	}

	return nil
}
