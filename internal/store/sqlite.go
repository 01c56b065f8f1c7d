package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added journal index on (caller, seq)
const currentSchemaVersion = 1

// SQLite is the durable Store.
type SQLite struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := verifyPragma(db, "busy_timeout", "5000"); err != nil {
		db.Close()
		return nil, err
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Update implements Store.
func (s *SQLite) Update(ctx context.Context, fn func(Tx) error) error {
	return s.run(ctx, false, fn)
}

// View implements Store.
func (s *SQLite) View(ctx context.Context, fn func(Tx) error) error {
	return s.run(ctx, true, fn)
}

func (s *SQLite) run(ctx context.Context, readOnly bool, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(&sqliteTx{tx: tx, readOnly: readOnly}); err != nil {
		return err
	}
	if readOnly {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Journal implements Store.
func (s *SQLite) Journal(ctx context.Context, q JournalQuery) ([]JournalEntry, error) {
	query := `
		SELECT seq, id, request_id, op, caller, at, args, result
		FROM journal
		WHERE seq > ? AND (? = '' OR caller = ?)
		ORDER BY seq ASC`
	args := []any{q.After, q.Caller, q.Caller}
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	entries := []JournalEntry{}
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.Seq, &e.ID, &e.RequestID, &e.Op, &e.Caller, &e.At, &e.Args, &e.Result); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

type sqliteTx struct {
	tx       *sql.Tx
	readOnly bool
}

func (t *sqliteTx) Get(ctx context.Context, kind Kind, key string) ([]byte, bool, error) {
	var value string
	err := t.tx.QueryRowContext(ctx,
		`SELECT value FROM entities WHERE kind = ? AND key = ?`,
		string(kind), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", kind, key, err)
	}
	return []byte(value), true, nil
}

func (t *sqliteTx) Put(ctx context.Context, kind Kind, key string, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO entities (kind, key, value) VALUES (?, ?, ?)
		ON CONFLICT(kind, key) DO UPDATE SET value = excluded.value
	`, string(kind), key, string(value))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", kind, key, err)
	}
	return nil
}

func (t *sqliteTx) Keys(ctx context.Context, kind Kind) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT key FROM entities WHERE kind = ? ORDER BY key COLLATE BINARY ASC`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("query keys %s: %w", kind, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

func (t *sqliteTx) NextSeq(ctx context.Context, name string) (int64, error) {
	if t.readOnly {
		return 0, ErrReadOnly
	}
	var v int64
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO sequences (name, value) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET value = value + 1
		RETURNING value
	`, name).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("next seq %s: %w", name, err)
	}
	return v, nil
}

func (t *sqliteTx) AppendJournal(ctx context.Context, e JournalEntry) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if err := validateEntry(e); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO journal (seq, id, request_id, op, caller, at, args, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.Seq, e.ID, e.RequestID, e.Op, e.Caller, e.At, e.Args, e.Result)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("append journal seq %d: %w", e.Seq, ErrDuplicateEntry)
		}
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV1 indexes the journal by caller for per-account history reads.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_journal_caller
		ON journal(caller, seq)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
func verifyPragma(db *sql.DB, name, expected string) error {
	var value string
	if err := db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

var _ Store = (*SQLite)(nil)
