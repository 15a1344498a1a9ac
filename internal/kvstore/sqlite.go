package kvstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a local SQLite database. Entries persist until
// overwritten or removed; nothing expires server-side.
type SQLite struct {
	db *sql.DB
}

// Open creates a SQLite store in dir. An empty dir resolves a default
// location following XDG standards.
func Open(dir string) (*SQLite, error) {
	if dir == "" {
		var err error
		dir, err = dataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dir, "storefront.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLite{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}

	return store, nil
}

// Close closes the underlying database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load retrieves the value stored under key
func (s *SQLite) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load entry: %w", err)
	}

	return value, true, nil
}

// Save stores value under key, replacing any previous value
func (s *SQLite) Save(ctx context.Context, key string, value []byte) error {
	query := "INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)"
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

// Remove deletes the entry stored under key. Removing a missing key is not
// an error.
func (s *SQLite) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

// Clear removes all entries
func (s *SQLite) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv")
	return err
}

// Prune removes entries last written before the cutoff. The cache layer
// never deletes stale entries eagerly (they serve as offline fallback), so
// this is the only reclamation path besides Clear.
func (s *SQLite) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE updated_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune store: %w", err)
	}

	removed, _ := result.RowsAffected()
	if removed > 0 {
		// Vacuum to reclaim space after pruning
		_, err = s.db.ExecContext(ctx, "VACUUM")
	}

	return removed, err
}

// Stats returns storage statistics
func (s *SQLite) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv").Scan(&stats.TotalEntries)
	if err != nil {
		return nil, err
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, err
	}

	stats.SizeBytes = pageCount * pageSize

	return &stats, nil
}

// initSchema creates the kv table if it doesn't exist
func (s *SQLite) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_updated_at ON kv(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// dataDir returns the store directory following XDG standards
func dataDir() (string, error) {
	// Check environment variable first
	if dir := os.Getenv("SOUQ_DATA_DIR"); dir != "" {
		return dir, nil
	}

	// Use XDG_CACHE_HOME if set
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "souq"), nil
	}

	// Fallback to ~/.cache/souq
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".cache", "souq"), nil
}

// Stats represents storage statistics
type Stats struct {
	TotalEntries int64 `json:"total_entries"`
	SizeBytes    int64 `json:"size_bytes"`
}

var _ Store = (*SQLite)(nil)
