package collector

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache remembers, per source URL, the source_hash of the last scan so
// `scan` and `audit` can report "unchanged since last scan" without
// special-casing the core pipeline's determinism. Grounded on the teacher's
// internal/mcpinspect/pins.go sqlite-backed pin store.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) a Cache at path.
func OpenCache(path string) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initCacheSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

func initCacheSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS scan_cache (
			source_url TEXT NOT NULL PRIMARY KEY,
			source_hash TEXT NOT NULL,
			scanned_at_ns INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init cache schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// LastHash returns the source_hash recorded for sourceURL on its last scan,
// or ("", false) if the source has never been scanned.
func (c *Cache) LastHash(sourceURL string) (string, bool, error) {
	var hash string
	err := c.db.QueryRow(`SELECT source_hash FROM scan_cache WHERE source_url = ?`, sourceURL).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query scan cache: %w", err)
	}
	return hash, true, nil
}

// Record upserts the source_hash for sourceURL as of now.
func (c *Cache) Record(sourceURL, sourceHash string, now time.Time) error {
	_, err := c.db.Exec(
		`INSERT INTO scan_cache (source_url, source_hash, scanned_at_ns) VALUES (?, ?, ?)
		 ON CONFLICT(source_url) DO UPDATE SET source_hash = excluded.source_hash, scanned_at_ns = excluded.scanned_at_ns`,
		sourceURL, sourceHash, now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record scan cache: %w", err)
	}
	return nil
}
