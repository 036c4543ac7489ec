// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package question

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

// NewPostgresStore creates a new PostgreSQL implementation of the question Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// questionColumns joins against users.account for the author username and
// aggregates the counters inline.
const questionColumns = `
	q.id, q.authorid, a.username, q.title, q.body, q.viewcount,
	(SELECT COUNT(*) FROM qa.questionlike l WHERE l.questionid = q.id),
	(SELECT COUNT(*) FROM qa.answer ans WHERE ans.questionid = q.id),
	q.createdat, q.updatedat`

func scanQuestion(row pgx.Row) (*Question, error) {
	question := &Question{}
	err := row.Scan(
		&question.ID,
		&question.AuthorID,
		&question.AuthorUsername,
		&question.Title,
		&question.Body,
		&question.ViewCount,
		&question.LikeCount,
		&question.AnswerCount,
		&question.CreatedAt,
		&question.UpdatedAt,
	)
	return question, err
}

/*
Create persists a new question and its tag assignments in one transaction.

Parameters:
  - context: context.Context
  - question: *Question (ID written back on return)
  - tagIDs: []int64 (must reference existing tags)

Returns:
  - error: Unprocessable when a tag ID is unknown, or execution errors
*/
func (store *PostgresStore) Create(context context.Context, question *Question, tagIDs []int64) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_question_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const insertQuery = `
		INSERT INTO qa.question (authorid, title, body, viewcount, createdat, updatedat)
		VALUES ($1, $2, $3, 0, $4, $4)
		RETURNING id`

	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now

	if err := transaction.QueryRow(context, insertQuery,
		question.AuthorID,
		question.Title,
		question.Body,
		now,
	).Scan(&question.ID); err != nil {
		return dberr.Wrap(err, "question_create")
	}

	const tagQuery = "INSERT INTO qa.questiontag (questionid, tagid) VALUES ($1, $2)"
	for _, tagID := range tagIDs {
		if _, err := transaction.Exec(context, tagQuery, question.ID, tagID); err != nil {
			return dberr.Wrap(err, "question_tag_assign")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_question_commit_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a question with its author, counters, and tag set.

Returns:
  - *Question: Hydrated aggregate
  - error: apperr.NotFound or database errors
*/
func (store *PostgresStore) FindByID(context context.Context, id int64) (*Question, error) {
	const query = `
		SELECT ` + questionColumns + `
		FROM qa.question q
		JOIN users.account a ON a.id = q.authorid
		WHERE q.id = $1`

	question, err := scanQuestion(store.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Question")
		}
		return nil, fmt.Errorf("postgres_question_find_by_id_failed: %w", err)
	}

	if err := store.loadTags(context, []*Question{question}); err != nil {
		return nil, err
	}

	return question, nil
}

/*
Update persists title/body changes and replaces the tag assignment set.

Parameters:
  - context: context.Context
  - question: *Question
  - tagIDs: []int64 (full replacement set; nil leaves tags untouched)

Returns:
  - error: Update failures
*/
func (store *PostgresStore) Update(context context.Context, question *Question, tagIDs []int64) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_question_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const query = `
		UPDATE qa.question
		SET title = $2, body = $3, updatedat = $4
		WHERE id = $1`

	question.UpdatedAt = time.Now()
	if _, err := transaction.Exec(context, query,
		question.ID,
		question.Title,
		question.Body,
		question.UpdatedAt,
	); err != nil {
		return dberr.Wrap(err, "question_update")
	}

	if tagIDs != nil {
		const clearQuery = "DELETE FROM qa.questiontag WHERE questionid = $1"
		if _, err := transaction.Exec(context, clearQuery, question.ID); err != nil {
			return dberr.Wrap(err, "question_tag_clear")
		}

		const tagQuery = "INSERT INTO qa.questiontag (questionid, tagid) VALUES ($1, $2)"
		for _, tagID := range tagIDs {
			if _, err := transaction.Exec(context, tagQuery, question.ID, tagID); err != nil {
				return dberr.Wrap(err, "question_tag_assign")
			}
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_question_commit_failed: %w", err)
	}

	return nil
}

// Delete removes a question. Answers, comments, likes, and tag assignments
// cascade away with it.
func (store *PostgresStore) Delete(context context.Context, id int64) error {
	const query = "DELETE FROM qa.question WHERE id = $1"

	result, err := store.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "question_delete")
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Question")
	}

	return nil
}

/*
List returns a page of questions, newest first, optionally filtered by tag.

Parameters:
  - context: context.Context
  - params: pagination.Params
  - tagID: int64 (0 means no tag filter)

Returns:
  - []*Question: Page of aggregates with tag sets loaded
  - int: Total matching count
  - error: Query failures
*/
func (store *PostgresStore) List(context context.Context, params pagination.Params, tagID int64) ([]*Question, int, error) {
	countQuery := "SELECT COUNT(*) FROM qa.question q"
	listQuery := `
		SELECT ` + questionColumns + `
		FROM qa.question q
		JOIN users.account a ON a.id = q.authorid`

	var args []interface{}
	if tagID > 0 {
		filter := " JOIN qa.questiontag qt ON qt.questionid = q.id AND qt.tagid = $1"
		countQuery += filter
		listQuery += filter
		args = append(args, tagID)
	}

	var total int
	if err := store.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_question_count_failed: %w", err)
	}

	listQuery += fmt.Sprintf(" ORDER BY q.createdat DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := store.pool.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_question_list_failed: %w", err)
	}
	defer rows.Close()

	questions := make([]*Question, 0, params.Limit)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_question_scan_failed: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := store.loadTags(context, questions); err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// # Likes

/*
Like records a like edge idempotently.

Returns:
  - bool: true when the edge was newly created
  - error: Execution errors
*/
func (store *PostgresStore) Like(context context.Context, questionID, userID int64) (bool, error) {
	const query = `
		INSERT INTO qa.questionlike (questionid, userid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (questionid, userid) DO NOTHING`

	result, err := store.pool.Exec(context, query, questionID, userID, time.Now())
	if err != nil {
		return false, dberr.Wrap(err, "question_like")
	}

	return result.RowsAffected() > 0, nil
}

// Unlike removes a like edge. Removing a non-existent edge is a no-op.
func (store *PostgresStore) Unlike(context context.Context, questionID, userID int64) error {
	const query = "DELETE FROM qa.questionlike WHERE questionid = $1 AND userid = $2"

	if _, err := store.pool.Exec(context, query, questionID, userID); err != nil {
		return dberr.Wrap(err, "question_unlike")
	}

	return nil
}

// QuestionAuthor resolves the author of a question without hydrating the
// aggregate. The answer domain uses it for the acceptance check.
func (store *PostgresStore) QuestionAuthor(context context.Context, questionID int64) (int64, error) {
	const query = "SELECT authorid FROM qa.question WHERE id = $1"

	var authorID int64
	if err := store.pool.QueryRow(context, query, questionID).Scan(&authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("Question")
		}
		return 0, fmt.Errorf("postgres_question_author_failed: %w", err)
	}

	return authorID, nil
}

// # Internals

// loadTags hydrates the tag sets for a batch of questions in one query.
func (store *PostgresStore) loadTags(context context.Context, questions []*Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(questions))
	byID := make(map[int64]*Question, len(questions))
	for _, question := range questions {
		ids = append(ids, question.ID)
		byID[question.ID] = question
		question.Tags = []TagSummary{}
	}

	const query = `
		SELECT qt.questionid, t.id, t.name, t.slug
		FROM qa.questiontag qt
		JOIN qa.tag t ON t.id = qt.tagid
		WHERE qt.questionid = ANY($1)
		ORDER BY t.name`

	rows, err := store.pool.Query(context, query, ids)
	if err != nil {
		return fmt.Errorf("postgres_question_tags_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var questionID int64
		var summary TagSummary
		if err := rows.Scan(&questionID, &summary.ID, &summary.Name, &summary.Slug); err != nil {
			return fmt.Errorf("postgres_question_tags_scan_failed: %w", err)
		}
		if question, ok := byID[questionID]; ok {
			question.Tags = append(question.Tags, summary)
		}
	}

	return rows.Err()
}
