// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package answer

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

// NewPostgresStore creates a new PostgreSQL implementation of the answer Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const answerColumns = `
	ans.id, ans.questionid, ans.authorid, a.username, ans.body, ans.isaccepted,
	(SELECT COUNT(*) FROM qa.answerlike l WHERE l.answerid = ans.id),
	ans.createdat, ans.updatedat`

func scanAnswer(row pgx.Row) (*Answer, error) {
	answer := &Answer{}
	err := row.Scan(
		&answer.ID,
		&answer.QuestionID,
		&answer.AuthorID,
		&answer.AuthorUsername,
		&answer.Body,
		&answer.IsAccepted,
		&answer.LikeCount,
		&answer.CreatedAt,
		&answer.UpdatedAt,
	)
	return answer, err
}

// Create persists a new answer. The questionid foreign key rejects answers on
// unknown questions.
func (store *PostgresStore) Create(context context.Context, answer *Answer) error {
	const query = `
		INSERT INTO qa.answer (questionid, authorid, body, isaccepted, createdat, updatedat)
		VALUES ($1, $2, $3, FALSE, $4, $4)
		RETURNING id`

	now := time.Now()
	answer.CreatedAt = now
	answer.UpdatedAt = now

	err := store.pool.QueryRow(context, query,
		answer.QuestionID,
		answer.AuthorID,
		answer.Body,
		now,
	).Scan(&answer.ID)

	if err != nil {
		return dberr.Wrap(err, "answer_create")
	}

	return nil
}

// FindByID retrieves an answer with its author and like count.
func (store *PostgresStore) FindByID(context context.Context, id int64) (*Answer, error) {
	const query = `
		SELECT ` + answerColumns + `
		FROM qa.answer ans
		JOIN users.account a ON a.id = ans.authorid
		WHERE ans.id = $1`

	answer, err := scanAnswer(store.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Answer")
		}
		return nil, fmt.Errorf("postgres_answer_find_by_id_failed: %w", err)
	}

	return answer, nil
}

// Delete removes an answer. Its comments and likes cascade away with it.
func (store *PostgresStore) Delete(context context.Context, id int64) error {
	const query = "DELETE FROM qa.answer WHERE id = $1"

	result, err := store.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "answer_delete")
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Answer")
	}

	return nil
}

/*
ListByQuestion returns a page of answers on a question.

Description: Accepted answers sort first, then newest first, so the solution
always leads the page.

Returns:
  - []*Answer: Page of answers
  - int: Total answer count for the question
  - error: Query failures
*/
func (store *PostgresStore) ListByQuestion(context context.Context, questionID int64, params pagination.Params) ([]*Answer, int, error) {
	const countQuery = "SELECT COUNT(*) FROM qa.answer WHERE questionid = $1"

	var total int
	if err := store.pool.QueryRow(context, countQuery, questionID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_answer_count_failed: %w", err)
	}

	const query = `
		SELECT ` + answerColumns + `
		FROM qa.answer ans
		JOIN users.account a ON a.id = ans.authorid
		WHERE ans.questionid = $1
		ORDER BY ans.isaccepted DESC, ans.createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(context, query, questionID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_answer_list_failed: %w", err)
	}
	defer rows.Close()

	answers := make([]*Answer, 0, params.Limit)
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_answer_scan_failed: %w", err)
		}
		answers = append(answers, answer)
	}

	return answers, total, rows.Err()
}

/*
MarkAccepted flags one answer as the solution and clears its siblings.

Description: Both updates run in one transaction so a question can never show
two accepted answers.
*/
func (store *PostgresStore) MarkAccepted(context context.Context, answerID, questionID int64) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_answer_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const clearQuery = "UPDATE qa.answer SET isaccepted = FALSE, updatedat = $2 WHERE questionid = $1 AND isaccepted"
	if _, err := transaction.Exec(context, clearQuery, questionID, time.Now()); err != nil {
		return dberr.Wrap(err, "answer_accept_clear")
	}

	const acceptQuery = "UPDATE qa.answer SET isaccepted = TRUE, updatedat = $2 WHERE id = $1"
	result, err := transaction.Exec(context, acceptQuery, answerID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "answer_accept")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Answer")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_answer_commit_failed: %w", err)
	}

	return nil
}

// # Likes

// Like records a like edge idempotently. The bool reports a fresh edge.
func (store *PostgresStore) Like(context context.Context, answerID, userID int64) (bool, error) {
	const query = `
		INSERT INTO qa.answerlike (answerid, userid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (answerid, userid) DO NOTHING`

	result, err := store.pool.Exec(context, query, answerID, userID, time.Now())
	if err != nil {
		return false, dberr.Wrap(err, "answer_like")
	}

	return result.RowsAffected() > 0, nil
}

// Unlike removes a like edge. Removing a non-existent edge is a no-op.
func (store *PostgresStore) Unlike(context context.Context, answerID, userID int64) error {
	const query = "DELETE FROM qa.answerlike WHERE answerid = $1 AND userid = $2"

	if _, err := store.pool.Exec(context, query, answerID, userID); err != nil {
		return dberr.Wrap(err, "answer_unlike")
	}

	return nil
}
