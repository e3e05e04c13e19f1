package feed

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	name     string
	articles []cache.Article
	err      error
	delay    time.Duration
	calls    atomic.Int32
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context, category string) ([]cache.Article, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.articles, s.err
}

func articlesN(prefix string, n int) []cache.Article {
	out := make([]cache.Article, n)
	for i := range out {
		out[i] = cache.Article{Title: fmt.Sprintf("%s %d", prefix, i), Source: prefix}
	}
	return out
}

func testStore(t *testing.T) *cache.FileCache {
	t.Helper()
	c, err := cache.OpenFile(filepath.Join(t.TempDir(), "news.json"), cache.DefaultTTL)
	require.NoError(t, err)
	return c
}

func TestRetrieveFirstTierWins(t *testing.T) {
	rss := &stubFetcher{name: "rss", articles: articlesN("rss", 3)}
	api := &stubFetcher{name: "newsapi", articles: articlesN("api", 3)}
	e := NewEngine(nil, time.Second, rss, api)

	got := e.Retrieve(context.Background(), "technology")
	assert.Equal(t, "rss 0", got[0].Title)
	assert.EqualValues(t, 0, api.calls.Load(), "later tiers must not run after a success")
}

func TestRetrieveFallsThroughEmptyAndFailingTiers(t *testing.T) {
	rss := &stubFetcher{name: "rss"}
	api := &stubFetcher{name: "newsapi", articles: articlesN("api", 2)}
	e := NewEngine(nil, time.Second, rss, api)

	got := e.Retrieve(context.Background(), "technology")
	require.Len(t, got, 2)
	assert.Equal(t, "api", got[0].Source)

	rss.err = errors.New("boom")
	got = e.Retrieve(context.Background(), "technology")
	assert.Equal(t, "api", got[0].Source)
}

func TestRetrieveCapsAtFive(t *testing.T) {
	e := NewEngine(nil, time.Second, &stubFetcher{name: "rss", articles: articlesN("rss", 9)})
	assert.Len(t, e.Retrieve(context.Background(), "business"), MaxArticles)
}

func TestRetrieveOfflineWhenAllTiersFail(t *testing.T) {
	e := NewEngine(nil, time.Second,
		&stubFetcher{name: "rss", err: errors.New("dns")},
		&stubFetcher{name: "newsapi", err: errors.New("quota")},
	)
	for _, c := range Categories {
		got := e.Retrieve(context.Background(), c)
		assert.Equal(t, Offline(c), got, c)
		assert.LessOrEqual(t, len(got), MaxArticles)
	}
}

func TestRetrieveUnknownCategoryUsesDefaultOffline(t *testing.T) {
	e := NewEngine(testStore(t), time.Second, &stubFetcher{name: "rss", err: errors.New("down")})

	assert.Equal(t, Offline(DefaultCategory), e.Retrieve(context.Background(), "horoscopes"))
	assert.Equal(t, Offline(DefaultCategory), e.ReadCached("horoscopes"))
}

func TestRetrieveTimeoutFallsBack(t *testing.T) {
	slow := &stubFetcher{name: "rss", articles: articlesN("rss", 2), delay: time.Second}
	e := NewEngine(nil, 20*time.Millisecond, slow)

	got := e.Retrieve(context.Background(), "science")
	assert.Equal(t, Offline("science"), got)
}

func TestFetchLiveReportsTier(t *testing.T) {
	e := NewEngine(nil, time.Second,
		&stubFetcher{name: "rss", err: errors.New("down")},
		&stubFetcher{name: "newsapi", articles: articlesN("api", 1)},
	)
	got, tier, err := e.FetchLive(context.Background(), "world")
	require.NoError(t, err)
	assert.Equal(t, "newsapi", tier)
	assert.Len(t, got, 1)

	_, _, err = NewEngine(nil, time.Second, &stubFetcher{name: "rss"}).FetchLive(context.Background(), "world")
	assert.ErrorIs(t, err, ErrNoLiveNews)
	assert.ErrorIs(t, err, ErrEmptyFeed)

	_, _, err = NewEngine(nil, time.Second).FetchLive(context.Background(), "world")
	assert.ErrorIs(t, err, ErrNoLiveNews)
}

func TestReadCachedNeverFetches(t *testing.T) {
	rss := &stubFetcher{name: "rss", articles: articlesN("rss", 2)}
	store := testStore(t)
	e := NewEngine(store, time.Second, rss)

	assert.Equal(t, Offline("sports"), e.ReadCached("sports"))

	require.NoError(t, store.Put("sports", articlesN("cached", 7)))
	got := e.ReadCached("sports")
	assert.Len(t, got, MaxArticles)
	assert.Equal(t, "cached 0", got[0].Title)
	assert.EqualValues(t, 0, rss.calls.Load())
}

func TestReadCachedStaleFallsToOffline(t *testing.T) {
	now := time.Now()
	store := testStore(t).WithClock(func() time.Time { return now })
	e := NewEngine(store, time.Second)

	require.NoError(t, store.Put("sports", articlesN("cached", 2)))
	now = now.Add(31 * time.Minute)
	assert.Equal(t, Offline("sports"), e.ReadCached("sports"))
}

func TestRefreshWritesThrough(t *testing.T) {
	store := testStore(t)
	e := NewEngine(store, time.Second, &stubFetcher{name: "rss", articles: articlesN("rss", 3)})

	got, err := e.Refresh(context.Background(), "business")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	cached, ok := store.Get("business")
	require.True(t, ok)
	assert.Equal(t, got, cached)
}

func TestRefreshCachesOfflineOnFailure(t *testing.T) {
	store := testStore(t)
	e := NewEngine(store, time.Second, &stubFetcher{name: "rss", err: errors.New("down")})

	got, err := e.Refresh(context.Background(), "nonsense")
	require.NoError(t, err)
	assert.Equal(t, Offline(DefaultCategory), got)

	cached, ok := store.Get(DefaultCategory)
	require.True(t, ok)
	assert.Equal(t, got, cached)
}

func TestConcurrentRefreshesShareOneFetch(t *testing.T) {
	rss := &stubFetcher{name: "rss", articles: articlesN("rss", 2), delay: 100 * time.Millisecond}
	e := NewEngine(testStore(t), time.Second, rss)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Refresh(context.Background(), "world")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Less(t, rss.calls.Load(), int32(5))
}

func TestNewEngineSkipsNilTiers(t *testing.T) {
	var api Fetcher
	e := NewEngine(nil, 0, &stubFetcher{name: "rss"}, api)
	assert.Equal(t, []string{"rss"}, e.Tiers())
}
