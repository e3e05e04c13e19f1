package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/cache"
	"github.com/matheuskafuri/newsanchor/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 10 * time.Second

// TierResult is the outcome of one tier attempt.
type TierResult struct {
	Tier     string
	Articles []cache.Article
	Err      error
}

func (r TierResult) ok() bool { return r.Err == nil && len(r.Articles) > 0 }

// Engine walks the network tiers in priority order and falls back to the
// offline dataset, so retrieval always yields something to say.
type Engine struct {
	tiers   []Fetcher
	store   cache.Store
	timeout time.Duration
	group   singleflight.Group
}

// NewEngine builds an engine over store. Tiers are attempted in the order
// given; nil tiers are skipped.
func NewEngine(store cache.Store, timeout time.Duration, tiers ...Fetcher) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	e := &Engine{store: store, timeout: timeout}
	for _, t := range tiers {
		if t != nil {
			e.tiers = append(e.tiers, t)
		}
	}
	return e
}

// Tiers returns the configured network tier names in priority order.
func (e *Engine) Tiers() []string {
	names := make([]string, len(e.tiers))
	for i, t := range e.tiers {
		names[i] = t.Name()
	}
	return names
}

func (e *Engine) attempt(ctx context.Context, f Fetcher, category string) TierResult {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	articles, err := f.Fetch(ctx, category)
	res := TierResult{Tier: f.Name(), Articles: capArticles(articles), Err: err}

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case len(res.Articles) == 0:
		outcome = "empty"
	}
	metrics.RecordTier(res.Tier, outcome, time.Since(start).Seconds())
	return res
}

// FetchLive tries only the network tiers and reports which one answered.
// An empty answer counts as a miss and moves on to the next tier.
func (e *Engine) FetchLive(ctx context.Context, category string) ([]cache.Article, string, error) {
	category = NormalizeCategory(category)

	var errs []error
	for _, f := range e.tiers {
		res := e.attempt(ctx, f, category)
		if res.ok() {
			slog.Debug("retrieval tier answered", "tier", res.Tier, "category", category, "count", len(res.Articles))
			return res.Articles, res.Tier, nil
		}
		err := res.Err
		if err == nil {
			err = ErrEmptyFeed
		}
		slog.Warn("retrieval tier failed, falling back", "tier", res.Tier, "category", category, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", res.Tier, err))
	}
	if len(errs) == 0 {
		return nil, "", ErrNoLiveNews
	}
	return nil, "", fmt.Errorf("%w: %w", ErrNoLiveNews, errors.Join(errs...))
}

// Retrieve returns at most MaxArticles for category and never fails.
func (e *Engine) Retrieve(ctx context.Context, category string) []cache.Article {
	articles, _, err := e.FetchLive(ctx, category)
	if err == nil {
		return articles
	}
	slog.Info("serving offline news", "category", NormalizeCategory(category))
	metrics.RecordTier("offline", "ok", 0)
	return Offline(category)
}

// ReadCached never touches the network: a fresh cache entry or the offline
// dataset.
func (e *Engine) ReadCached(category string) []cache.Article {
	category = NormalizeCategory(category)
	if e.store != nil {
		if articles, ok := e.store.Get(category); ok && len(articles) > 0 {
			return capArticles(articles)
		}
	}
	return Offline(category)
}

// Refresh retrieves category and writes it through to the cache. Concurrent
// refreshes of one category share a single retrieval.
func (e *Engine) Refresh(ctx context.Context, category string) ([]cache.Article, error) {
	category = NormalizeCategory(category)
	v, err, _ := e.group.Do(category, func() (any, error) {
		articles := e.Retrieve(ctx, category)
		if e.store == nil {
			return articles, nil
		}
		if err := e.store.Put(category, articles); err != nil {
			return articles, fmt.Errorf("caching %s: %w", category, err)
		}
		return articles, nil
	})
	articles, _ := v.([]cache.Article)
	return articles, err
}

// Store writes articles for category straight to the cache.
func (e *Engine) Store(category string, articles []cache.Article) error {
	if e.store == nil {
		return nil
	}
	return e.store.Put(NormalizeCategory(category), articles)
}
