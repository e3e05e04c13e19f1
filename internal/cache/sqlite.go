package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/metrics"
	_ "modernc.org/sqlite"
)

// SQLiteCache stores one row per category, so writers for different
// categories never touch each other's data and freshness is tracked per row.
type SQLiteCache struct {
	readDB  *sql.DB
	writeDB *sql.DB
	ttl     time.Duration
	now     func() time.Time
}

func OpenSQLite(dbPath string, ttl time.Duration) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	c := &SQLiteCache{writeDB: writeDB, ttl: ttl, now: time.Now}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}

	// The read handle is opened after the schema exists; read-only mode
	// cannot create the file.
	readDB, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	c.readDB = readDB
	return c, nil
}

func (c *SQLiteCache) WithClock(now func() time.Time) *SQLiteCache {
	c.now = now
	return c
}

func (c *SQLiteCache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS category_news (
			category   TEXT PRIMARY KEY,
			articles   TEXT NOT NULL DEFAULT '[]',
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func (c *SQLiteCache) Get(category string) ([]Article, bool) {
	var (
		raw       string
		updatedAt time.Time
	)
	err := c.readDB.QueryRow(
		"SELECT articles, updated_at FROM category_news WHERE category = ?", category,
	).Scan(&raw, &updatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			slog.Warn("news cache query failed, treating as miss", "category", category, "error", err)
		}
		metrics.RecordCacheLookup("sqlite", "miss")
		return nil, false
	}
	if c.now().Sub(updatedAt) > c.ttl {
		metrics.RecordCacheLookup("sqlite", "stale")
		return nil, false
	}

	var articles []Article
	if err := json.Unmarshal([]byte(raw), &articles); err != nil {
		slog.Warn("news cache row unreadable, treating as miss", "category", category, "error", err)
		metrics.RecordCacheLookup("sqlite", "corrupt")
		return nil, false
	}
	metrics.RecordCacheLookup("sqlite", "hit")
	return cloneArticles(articles), true
}

func (c *SQLiteCache) Put(category string, articles []Article) error {
	data, err := json.Marshal(cloneArticles(articles))
	if err != nil {
		return fmt.Errorf("encoding articles: %w", err)
	}
	now := c.now().UTC()

	tx, err := c.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO category_news (category, articles, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			articles = excluded.articles,
			updated_at = excluded.updated_at
	`, category, string(data), now); err != nil {
		return fmt.Errorf("upserting category %s: %w", category, err)
	}
	if _, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES ('last_updated', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, now.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("stamping last update: %w", err)
	}
	return tx.Commit()
}

func (c *SQLiteCache) LastUpdated() (time.Time, bool) {
	var value string
	if err := c.readDB.QueryRow("SELECT value FROM meta WHERE key = 'last_updated'").Scan(&value); err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
