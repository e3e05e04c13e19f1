package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/cache"
	"github.com/mmcdole/gofeed"
)

const googleNewsSearch = "https://news.google.com/rss/search"

// categoryQueries steer the feed search toward broad, non-controversial
// coverage for each category.
var categoryQueries = map[string]string{
	"headlines":     "top stories today",
	"technology":    "technology OR artificial intelligence OR gadgets",
	"business":      "business OR markets OR economy",
	"sports":        "cricket OR football OR olympics",
	"entertainment": "movies OR music OR box office",
	"science":       "science OR space exploration OR research breakthrough",
	"world":         "world news international",
}

// Locale selects the edition of the feed search.
type Locale struct {
	Language string // hl, e.g. "en-IN"
	Country  string // gl, e.g. "IN"
}

type RSSFetcher struct {
	parser  *gofeed.Parser
	baseURL string
	locale  Locale
}

func NewRSSFetcher(baseURL string, locale Locale, timeout time.Duration) *RSSFetcher {
	if baseURL == "" {
		baseURL = googleNewsSearch
	}
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	p.UserAgent = "newsanchor/1.0"
	return &RSSFetcher{parser: p, baseURL: baseURL, locale: locale}
}

func (f *RSSFetcher) Name() string { return "rss" }

// SearchURL builds the feed search URL for category.
func (f *RSSFetcher) SearchURL(category string) string {
	q, ok := categoryQueries[category]
	if !ok {
		q = categoryQueries[DefaultCategory]
	}
	v := url.Values{}
	v.Set("q", q+" when:1d")
	if f.locale.Language != "" {
		v.Set("hl", f.locale.Language)
	}
	if f.locale.Country != "" {
		v.Set("gl", f.locale.Country)
		lang := f.locale.Language
		if i := strings.IndexByte(lang, '-'); i > 0 {
			lang = lang[:i]
		}
		if lang != "" {
			v.Set("ceid", f.locale.Country+":"+lang)
		}
	}
	return f.baseURL + "?" + v.Encode()
}

func (f *RSSFetcher) Fetch(ctx context.Context, category string) ([]cache.Article, error) {
	feed, err := f.parser.ParseURLWithContext(f.SearchURL(category), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s feed: %w", category, err)
	}

	articles := make([]cache.Article, 0, MaxArticles)
	for _, item := range feed.Items {
		if len(articles) == MaxArticles {
			break
		}
		title := cleanText(item.Title)
		if title == "" {
			continue
		}

		source := feed.Title
		if item.Author != nil && item.Author.Name != "" {
			source = item.Author.Name
		}
		if clean, outlet, ok := splitTitle(title); ok {
			title, source = clean, outlet
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}

		articles = append(articles, cache.Article{
			Title:       title,
			Description: truncate(cleanText(desc), 300),
			Source:      source,
			Published:   item.Published,
		})
	}
	if len(articles) == 0 {
		return nil, ErrEmptyFeed
	}
	return articles, nil
}

