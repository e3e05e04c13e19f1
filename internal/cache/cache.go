package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/metrics"
)

// FileCache keeps every category in one JSON document. Freshness is judged by
// the file's modification time, so a write to any category refreshes them all.
type FileCache struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	// mu serializes the whole read-modify-write in Put so writers for
	// different categories never overwrite each other.
	mu sync.Mutex
}

func OpenFile(path string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileCache{path: path, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the clock used for freshness checks and update stamps.
func (c *FileCache) WithClock(now func() time.Time) *FileCache {
	c.now = now
	return c
}

func (c *FileCache) Path() string { return c.path }

func (c *FileCache) Get(category string) ([]Article, bool) {
	info, err := os.Stat(c.path)
	if err != nil {
		metrics.RecordCacheLookup("file", "miss")
		return nil, false
	}
	if c.now().Sub(info.ModTime()) > c.ttl {
		metrics.RecordCacheLookup("file", "stale")
		return nil, false
	}

	snap, err := c.read()
	if err != nil {
		slog.Warn("news cache unreadable, treating as miss", "path", c.path, "error", err)
		metrics.RecordCacheLookup("file", "corrupt")
		return nil, false
	}
	articles, ok := snap.Categories[category]
	if !ok {
		metrics.RecordCacheLookup("file", "miss")
		return nil, false
	}
	metrics.RecordCacheLookup("file", "hit")
	return cloneArticles(articles), true
}

func (c *FileCache) Put(category string, articles []Article) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("discarding unreadable news cache", "path", c.path, "error", err)
		}
		snap = &Snapshot{}
	}
	if snap.Categories == nil {
		snap.Categories = make(map[string][]Article)
	}
	snap.Categories[category] = cloneArticles(articles)
	snap.LastUpdated = c.now()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	return c.replace(data)
}

func (c *FileCache) LastUpdated() (time.Time, bool) {
	snap, err := c.read()
	if err != nil || snap.LastUpdated.IsZero() {
		return time.Time{}, false
	}
	return snap.LastUpdated, true
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) read() (*Snapshot, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.path, err)
	}
	for k, v := range snap.Categories {
		if v == nil {
			snap.Categories[k] = []Article{}
		}
	}
	return &snap, nil
}

// replace writes data next to the cache file and renames it into place, so
// readers see either the previous document or the new one.
func (c *FileCache) replace(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".news-*.json")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replacing cache: %w", err)
	}
	// Rename keeps the temp file's mtime; stamp it with our clock so the
	// freshness window follows the injected time.
	now := c.now()
	if err := os.Chtimes(c.path, now, now); err != nil {
		return fmt.Errorf("stamping cache: %w", err)
	}
	return nil
}
