// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

// Package migration applies the numbered SQL migrations under data/migrations.
//
// # Schema Layout
//
// The database is split across three Postgres schemas: users (accounts), qa
// (questions, answers, comments, tags, and their like/follow edges), and
// eventlog (the consumer's notification and audit projections). Migration
// 000001 creates the schemas; later pairs populate them and each carries a
// reversible .down.sql.
//
// Only the API binary migrates. The consumer worker assumes the API already
// brought the database to the current version, so its startup never races a
// half-applied schema.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers the "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql pairs from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunUp brings the database schema up to the newest migration version.
//
// A dirty version (a previous run died mid-migration) aborts startup; that
// state needs a human, not a retry loop.
//
// # Parameters
//   - dsn: A postgres:// or postgresql:// connection URL.
//   - migrationsPath: Filesystem path to the migrations directory.
//   - logger: Structured logger for migration progress.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if sourceError != nil {
			logger.Error("schema_source_close_failed", slog.Any("error", sourceError))
		}
		if dbError != nil {
			logger.Error("schema_db_close_failed", slog.Any("error", dbError))
		}
	}()

	migrator.Log = &slogBridge{logger: logger}

	fromVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to read schema version: %w", err)
	}

	if isDirty {
		return fmt.Errorf("migration: schema is dirty at version %d (manual intervention required)", fromVersion)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("schema_up_to_date", slog.Int("version", int(fromVersion)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	toVersion, _, _ := migrator.Version()
	logger.Info("schema_migrated",
		slog.Int("from_version", int(fromVersion)),
		slog.Int("to_version", int(toVersion)),
	)

	return nil
}

// pgx5URL rewrites a standard Postgres URL onto the pgx5:// scheme
// golang-migrate's pgx/v5 driver registers under.
func pgx5URL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogBridge adapts golang-migrate's logger interface to slog.
type slogBridge struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (bridge *slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (bridge *slogBridge) Verbose() bool {
	return false
}
