package feed

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/matheuskafuri/newsanchor/internal/cache"
	"github.com/microcosm-cc/bluemonday"
)

// MaxArticles caps every list the engine hands out.
const MaxArticles = 5

var (
	ErrEmptyFeed  = errors.New("upstream returned no articles")
	ErrNoAPIKey   = errors.New("news api key not configured")
	ErrNoLiveNews = errors.New("no live news available")
)

// Fetcher retrieves articles for a category from one upstream.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, category string) ([]cache.Article, error)
}

// Categories is the fixed set of topics, in display order. The first entry is
// the default.
var Categories = []string{
	"headlines",
	"technology",
	"business",
	"sports",
	"entertainment",
	"science",
	"world",
}

const DefaultCategory = "headlines"

func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// NormalizeCategory lowercases name and maps anything unknown to the default.
func NormalizeCategory(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if IsCategory(name) {
		return name
	}
	return DefaultCategory
}

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips markup and entities from upstream HTML and collapses
// whitespace.
func cleanText(s string) string {
	s = html.UnescapeString(textPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// splitTitle splits the "Headline - Outlet" convention used by aggregated
// feeds. ok is false when title carries no outlet suffix.
func splitTitle(title string) (clean, outlet string, ok bool) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, "", false
	}
	clean = strings.TrimSpace(title[:i])
	outlet = strings.TrimSpace(title[i+3:])
	if clean == "" || outlet == "" {
		return title, "", false
	}
	return clean, outlet, true
}

func capArticles(articles []cache.Article) []cache.Article {
	if len(articles) > MaxArticles {
		return articles[:MaxArticles]
	}
	return articles
}
