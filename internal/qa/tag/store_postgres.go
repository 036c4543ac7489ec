// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package tag

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

// NewPostgresStore creates a new PostgreSQL implementation of the tag Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// questioncount is computed from the assignment table so it never drifts.
const tagColumns = `t.id, t.name, t.slug, t.description, t.followercount,
		(SELECT COUNT(*) FROM qa.questiontag qt WHERE qt.tagid = t.id) AS questioncount,
		t.createdat, t.updatedat`

func scanTag(row pgx.Row) (*Tag, error) {
	tag := &Tag{}
	err := row.Scan(
		&tag.ID,
		&tag.Name,
		&tag.Slug,
		&tag.Description,
		&tag.FollowerCount,
		&tag.QuestionCount,
		&tag.CreatedAt,
		&tag.UpdatedAt,
	)
	return tag, err
}

// Create persists a new tag. The slug's unique index guards duplicates.
func (store *PostgresStore) Create(context context.Context, tag *Tag) error {
	const query = `
		INSERT INTO qa.tag (name, slug, description, followercount, createdat, updatedat)
		VALUES ($1, $2, $3, 0, $4, $4)
		RETURNING id`

	tag.CreatedAt = time.Now()
	tag.UpdatedAt = tag.CreatedAt
	err := store.pool.QueryRow(context, query,
		tag.Name,
		tag.Slug,
		tag.Description,
		tag.CreatedAt,
	).Scan(&tag.ID)

	if err != nil {
		return dberr.Wrap(err, "tag_create")
	}

	return nil
}

// FindByID retrieves a tag by primary key.
func (store *PostgresStore) FindByID(context context.Context, id int64) (*Tag, error) {
	const query = `
		SELECT ` + tagColumns + `
		FROM qa.tag t
		WHERE t.id = $1`

	tag, err := scanTag(store.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Tag")
		}
		return nil, fmt.Errorf("postgres_tag_find_by_id_failed: %w", err)
	}

	return tag, nil
}

// FindBySlug retrieves a tag by its URL slug.
func (store *PostgresStore) FindBySlug(context context.Context, slug string) (*Tag, error) {
	const query = `
		SELECT ` + tagColumns + `
		FROM qa.tag t
		WHERE t.slug = $1`

	tag, err := scanTag(store.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Tag")
		}
		return nil, fmt.Errorf("postgres_tag_find_by_slug_failed: %w", err)
	}

	return tag, nil
}

// List returns a page of tags ordered by popularity, plus the total count.
func (store *PostgresStore) List(context context.Context, params pagination.Params) ([]*Tag, int, error) {
	const countQuery = "SELECT COUNT(*) FROM qa.tag"

	var total int
	if err := store.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_tag_count_failed: %w", err)
	}

	const query = `
		SELECT ` + tagColumns + `
		FROM qa.tag t
		ORDER BY t.followercount DESC, t.name ASC
		LIMIT $1 OFFSET $2`

	rows, err := store.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_tag_list_failed: %w", err)
	}
	defer rows.Close()

	tags := make([]*Tag, 0, params.Limit)
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_tag_scan_failed: %w", err)
		}
		tags = append(tags, tag)
	}

	return tags, total, rows.Err()
}

// Delete removes a tag. Question assignments and follows cascade away with it.
func (store *PostgresStore) Delete(context context.Context, id int64) error {
	const query = "DELETE FROM qa.tag WHERE id = $1"

	result, err := store.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "tag_delete")
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Tag")
	}

	return nil
}

// TagName resolves a tag's display name. Satisfies the lookup contract the
// user domain needs for follow events.
func (store *PostgresStore) TagName(context context.Context, tagID int64) (string, error) {
	const query = "SELECT name FROM qa.tag WHERE id = $1"

	var name string
	if err := store.pool.QueryRow(context, query, tagID).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("Tag")
		}
		return "", fmt.Errorf("postgres_tag_name_failed: %w", err)
	}

	return name, nil
}
