package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteBackend stores values in a sqlite file under the runtime directory.
// Values untouched for longer than the TTL are treated as gone.
type SQLiteBackend struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// DefaultSQLitePath returns the session database location, preferring
// $XDG_RUNTIME_DIR, which is emptied at logout.
func DefaultSQLitePath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "typekana", "session.db")
}

// OpenSQLite opens (creating if needed) the database at path and prunes
// expired rows.
func OpenSQLite(ctx context.Context, path string, ttl time.Duration) (*SQLiteBackend, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	// Writers are serialised through a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session table: %w", err)
	}

	b := &SQLiteBackend{db: db, ttl: ttl, now: time.Now}
	if err := b.prune(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return b, nil
}

func (b *SQLiteBackend) cutoff() int64 {
	return b.now().Add(-b.ttl).UnixNano()
}

// prune deletes rows older than the TTL.
func (b *SQLiteBackend) prune(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, "DELETE FROM kv WHERE updated_at < ?", b.cutoff()); err != nil {
		return fmt.Errorf("pruning expired sessions: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	row := b.db.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE key = ? AND updated_at >= ?", key, b.cutoff())
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

func (b *SQLiteBackend) Set(ctx context.Context, key string, value []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, b.now().UnixNano())
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
