// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package user

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

// # User Repository

// PostgresStore implements the [Store] interface using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the user Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const userColumns = "id, username, email, passwordhash, firstname, lastname, bio, role, isactive, createdat, updatedat"

// scanUser hydrates a single user row.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

/*
Create persists a new user record into the users.account table.

Description: The database assigns the bigserial ID; it is written back into
the entity on return.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (store *PostgresStore) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			username, email, passwordhash, firstname, lastname, bio, role, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := store.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		return dberr.Wrap(err, "user_create")
	}

	return nil
}

/*
FindByID retrieves a user record by primary key.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresStore) FindByID(context context.Context, id int64) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanUser(store.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresStore) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE email = $1`

	user, err := scanUser(store.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresStore) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE username = $1`

	user, err := scanUser(store.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
Update persists changes to a user's mutable profile fields.

Description: Synchronizes the in-memory user state with the database,
refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (store *PostgresStore) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET username = $2, email = $3, firstname = $4, lastname = $5, bio = $6, updatedat = $7
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := store.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "user_update")
	}

	return nil
}

/*
UpdatePassword replaces a user's stored password hash.

Description: Kept separate from [PostgresStore.Update] so profile writes can
never touch the credential column.

Returns:
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) UpdatePassword(context context.Context, userID int64, passwordHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	result, err := store.pool.Exec(context, query, userID, passwordHash, time.Now())
	if err != nil {
		return dberr.Wrap(err, "user_update_password")
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete removes a user account.

Description: Questions, answers, comments, likes, and follows cascade away
with the account row.

Returns:
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) Delete(context context.Context, userID int64) error {
	const query = "DELETE FROM users.account WHERE id = $1"

	result, err := store.pool.Exec(context, query, userID)
	if err != nil {
		return dberr.Wrap(err, "user_delete")
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Statistics counts a user's authored content in one round trip.

Returns:
  - *Statistics: Question, answer, and comment totals
  - error: Query failures
*/
func (store *PostgresStore) Statistics(context context.Context, userID int64) (*Statistics, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM qa.question WHERE authorid = $1),
			(SELECT COUNT(*) FROM qa.answer   WHERE authorid = $1),
			(SELECT COUNT(*) FROM qa.comment  WHERE authorid = $1)`

	stats := &Statistics{}
	err := store.pool.QueryRow(context, query, userID).Scan(
		&stats.Questions,
		&stats.Answers,
		&stats.Comments,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_statistics_failed: %w", err)
	}

	return stats, nil
}

/*
List returns a page of users ordered by signup date, plus the total count.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*User: Page of account entities
  - int: Total account count
  - error: Query failures
*/
func (store *PostgresStore) List(context context.Context, params pagination.Params) ([]*User, int, error) {
	const countQuery = "SELECT COUNT(*) FROM users.account"

	var total int
	if err := store.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_count_failed: %w", err)
	}

	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := store.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0, params.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_user_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	return users, total, rows.Err()
}

// # Tag Follows

/*
FollowTag records that a user follows a tag and bumps the tag's counter.

Description: Idempotent — a duplicate follow is absorbed via ON CONFLICT so
retried requests don't inflate follower counts. Edge and counter move in one
transaction so the count never drifts from the tagfollow rows.

Parameters:
  - context: context.Context
  - userID, tagID: int64

Returns:
  - error: Unprocessable if the tag doesn't exist, or execution errors
*/
func (store *PostgresStore) FollowTag(context context.Context, userID, tagID int64) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_tag_follow_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const insertQuery = `
		INSERT INTO qa.tagfollow (tagid, userid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (tagid, userid) DO NOTHING`

	result, err := transaction.Exec(context, insertQuery, tagID, userID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "tag_follow")
	}

	// Only a fresh follow moves the counter.
	if result.RowsAffected() > 0 {
		const counterQuery = "UPDATE qa.tag SET followercount = followercount + 1, updatedat = now() WHERE id = $1"
		if _, err := transaction.Exec(context, counterQuery, tagID); err != nil {
			return dberr.Wrap(err, "tag_follow_counter")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_tag_follow_commit_failed: %w", err)
	}

	return nil
}

/*
UnfollowTag removes a follow edge and decrements the tag's counter, in one
transaction.

Returns:
  - error: Execution errors
*/
func (store *PostgresStore) UnfollowTag(context context.Context, userID, tagID int64) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_tag_unfollow_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const deleteQuery = "DELETE FROM qa.tagfollow WHERE tagid = $1 AND userid = $2"

	result, err := transaction.Exec(context, deleteQuery, tagID, userID)
	if err != nil {
		return dberr.Wrap(err, "tag_unfollow")
	}

	if result.RowsAffected() > 0 {
		const counterQuery = "UPDATE qa.tag SET followercount = GREATEST(followercount - 1, 0), updatedat = now() WHERE id = $1"
		if _, err := transaction.Exec(context, counterQuery, tagID); err != nil {
			return dberr.Wrap(err, "tag_unfollow_counter")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_tag_unfollow_commit_failed: %w", err)
	}

	return nil
}

/*
FollowedTags lists the tags a user follows, most recent first.

Returns:
  - []*FollowedTag: Joined tag projections
  - error: Query failures
*/
func (store *PostgresStore) FollowedTags(context context.Context, userID int64) ([]*FollowedTag, error) {
	const query = `
		SELECT t.id, t.name, t.slug, f.createdat
		FROM qa.tagfollow f
		JOIN qa.tag t ON t.id = f.tagid
		WHERE f.userid = $1
		ORDER BY f.createdat DESC`

	rows, err := store.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_followed_tags_failed: %w", err)
	}
	defer rows.Close()

	followed := make([]*FollowedTag, 0)
	for rows.Next() {
		entry := &FollowedTag{}
		if err := rows.Scan(&entry.TagID, &entry.Name, &entry.Slug, &entry.FollowedAt); err != nil {
			return nil, fmt.Errorf("postgres_followed_tags_scan_failed: %w", err)
		}
		followed = append(followed, entry)
	}

	return followed, rows.Err()
}
