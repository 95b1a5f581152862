package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// querier is satisfied by both *sql.DB and *sql.Tx so record-engine
// operations can run against the root connection or inside Transact.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store owns the single open handle to the local database. It is
// constructed once and passed by reference; there is no ambient global.
type Store struct {
	db *sql.DB
	q  querier
}

// New opens (or creates) the SQLite database at dbPath and structures it
// per the schema registry. Opening is idempotent: re-running the
// structuring against an already-structured database is a no-op. Open
// failures surface as ErrStoreUnavailable.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %v: %w", err, ErrStoreUnavailable)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %v: %w", err, ErrStoreUnavailable)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %v: %w", p, err, ErrStoreUnavailable)
		}
	}

	s := &Store{db: db}
	s.q = db
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %v: %w", err, ErrStoreUnavailable)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Transact runs fn against one SQLite transaction. The *Store handed to
// fn routes every record operation through the transaction, so a
// multi-collection write (user creation, backup import) commits or rolls
// back as a unit.
func (s *Store) Transact(fn func(tx *Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		// Already inside a transaction; run in the same scope.
		return fn(s)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

// migrateV1 creates one table per declared collection plus its indexes.
func (s *Store) migrateV1() error {
	var ddl strings.Builder
	for _, name := range collectionOrder {
		ddl.WriteString(collections[name].ddl())
	}
	if _, err := s.db.Exec(ddl.String()); err != nil {
		return fmt.Errorf("create collections: %w", err)
	}
	return nil
}

// DefaultDBPath returns ~/.config/chrono/chrono.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "chrono", "chrono.db"), nil
}
