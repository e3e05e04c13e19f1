package cache

import (
	"fmt"
	"time"
)

// Article is a single retrieved news item. Published is a human-readable
// recency label or the upstream timestamp string, never something the agent
// should read aloud.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Published   string `json:"published"`
}

// Snapshot is the persisted document: one ordered article list per category
// plus a cache-wide update stamp.
type Snapshot struct {
	Categories  map[string][]Article `json:"categories"`
	LastUpdated time.Time            `json:"last_updated"`
}

// Store is a freshness-gated per-category article cache.
type Store interface {
	// Get returns the cached articles for category, or false when the entry
	// is missing, stale or unreadable.
	Get(category string) ([]Article, bool)
	Put(category string, articles []Article) error
	LastUpdated() (time.Time, bool)
	Close() error
}

// DefaultTTL is how long a cached entry stays valid.
const DefaultTTL = 30 * time.Minute

func cloneArticles(in []Article) []Article {
	out := make([]Article, len(in))
	copy(out, in)
	return out
}

// Open returns the store for backend ("file" or "sqlite") at path.
func Open(backend, path string, ttl time.Duration) (Store, error) {
	switch backend {
	case "", "file":
		return OpenFile(path, ttl)
	case "sqlite":
		return OpenSQLite(path, ttl)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (valid: file, sqlite)", backend)
	}
}
