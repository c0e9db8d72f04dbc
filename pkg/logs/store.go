// Package logs implements the journal's Log Store on SQLite.
//
// A Store is constructed explicitly (Open or New) and must be closed by its owner.
// Queries are built with squirrel and scanned with sqlx; every multi-row write runs
// in a single transaction.
package logs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	pkgdb "github.com/unowned-ai/devlog/pkg/db"
)

// Store is the durable log and tag repository.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// New wraps an already opened and migrated connection.
func New(conn *sql.DB) *Store {
	return &Store{
		db:  sqlx.NewDb(conn, pkgdb.DriverName),
		now: time.Now,
	}
}

// Open connects to the database at path and brings its schema up to date.
func Open(path string, enableWAL bool, syncPragma string) (*Store, error) {
	conn, err := pkgdb.OpenDBConnection(path, enableWAL, syncPragma)
	if err != nil {
		return nil, err
	}

	if err := pkgdb.UpgradeDB(conn, path, pkgdb.TargetSchemaVersion); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", path, err)
	}

	return New(conn), nil
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// Close checkpoints the WAL and releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		slog.Warn("WAL checkpoint failed during close", slog.String("error", err.Error()))
	}
	return s.db.Close()
}

func errorSqlBuild(err error) error {
	return fmt.Errorf("failed to build sql query, %w", err)
}

// transaction runs fn inside a transaction, rolling back when fn fails.
func (s *Store) transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("transaction rollback failed", slog.String("error", rbErr.Error()))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
