package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned when nothing has been saved under a key.
var ErrNoSnapshot = errors.New("no snapshot")

// DefaultKey is the save slot the game uses.
const DefaultKey = "session"

// Store is a key-value table of snapshot blobs in SQLite.
type Store struct {
	conn *sqlx.DB
}

type saveRow struct {
	Blob    []byte `db:"blob"`
	SavedAt int64  `db:"saved_at"`
}

// OpenStore opens or creates the save database at path.
func OpenStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	conn, err := sqlx.Open("sqlite", filepath.Clean(path)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open save db: %w", err)
	}
	// one writer; the frame loop never races itself
	conn.SetMaxOpenConns(1)

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
	CREATE TABLE IF NOT EXISTS saves (
		key TEXT PRIMARY KEY,
		blob BLOB NOT NULL,
		saved_at INTEGER NOT NULL
	)`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Put stores blob under key, replacing what was there.
func (s *Store) Put(ctx context.Context, key string, blob []byte, at time.Time) error {
	if s == nil || s.conn == nil {
		return fmt.Errorf("storage is not configured")
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO saves (key, blob, saved_at) VALUES (?, ?, ?)`,
		key, blob, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Get returns the blob stored under key and when it was written.
func (s *Store) Get(ctx context.Context, key string) ([]byte, time.Time, error) {
	if s == nil || s.conn == nil {
		return nil, time.Time{}, fmt.Errorf("storage is not configured")
	}
	var row saveRow
	err := s.conn.GetContext(ctx, &row, `SELECT blob, saved_at FROM saves WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get %s: %w", key, err)
	}
	return row.Blob, time.UnixMilli(row.SavedAt), nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil || s.conn == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM saves WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
