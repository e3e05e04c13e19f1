package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/cache"
)

const newsAPIBase = "https://newsapi.org/v2"

// newsAPICategories maps our categories onto the API's category parameter.
// An empty value means no category filter.
var newsAPICategories = map[string]string{
	"headlines":     "",
	"technology":    "technology",
	"business":      "business",
	"sports":        "sports",
	"entertainment": "entertainment",
	"science":       "science",
	"world":         "general",
}

// NewsAPIFetcher reads top headlines from the commercial news API.
type NewsAPIFetcher struct {
	apiKey  string
	baseURL string
	country string
	client  *http.Client
	limiter *HostLimiter
}

func NewNewsAPIFetcher(apiKey, baseURL, country string, timeout time.Duration, limiter *HostLimiter) *NewsAPIFetcher {
	if baseURL == "" {
		baseURL = newsAPIBase
	}
	return &NewsAPIFetcher{
		apiKey:  apiKey,
		baseURL: baseURL,
		country: country,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

func (f *NewsAPIFetcher) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (f *NewsAPIFetcher) requestURL(category string) string {
	v := url.Values{}
	if f.country != "" {
		v.Set("country", f.country)
	}
	if c := newsAPICategories[category]; c != "" {
		v.Set("category", c)
	}
	v.Set("pageSize", fmt.Sprint(MaxArticles))
	return f.baseURL + "/top-headlines?" + v.Encode()
}

func (f *NewsAPIFetcher) Fetch(ctx context.Context, category string) ([]cache.Article, error) {
	if f.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	reqURL := f.requestURL(category)
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, reqURL); err != nil {
			return nil, fmt.Errorf("news api rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news api error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("news api %d: %s", resp.StatusCode, string(b))
	}

	var nr newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, fmt.Errorf("decoding news api response: %w", err)
	}
	if nr.Status != "" && nr.Status != "ok" {
		return nil, fmt.Errorf("news api %s: %s", nr.Code, nr.Message)
	}

	articles := make([]cache.Article, 0, MaxArticles)
	for _, a := range nr.Articles {
		if len(articles) == MaxArticles {
			break
		}
		if a.Title == "" {
			continue
		}
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		articles = append(articles, cache.Article{
			Title:       a.Title,
			Description: a.Description,
			Source:      source,
			Published:   a.PublishedAt,
		})
	}
	if len(articles) == 0 {
		return nil, ErrEmptyFeed
	}
	return articles, nil
}
