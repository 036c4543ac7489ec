// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/askora/askora/internal/platform/apperr"
)

// Postgres SQLSTATE codes that map to client errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations map to client errors by SQLSTATE
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperr.Conflict("Resource already exists")
		case codeForeignKeyViolation:
			return apperr.Unprocessable("Referenced resource does not exist")
		case codeCheckViolation:
			return apperr.Unprocessable("Value violates a data constraint")
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint error.
// Stores use it when a duplicate has a domain-specific meaning (idempotent likes).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
