package cmd

import (
	"fmt"

	"github.com/matheuskafuri/newsanchor/internal/cache"
	"github.com/matheuskafuri/newsanchor/internal/config"
	"github.com/matheuskafuri/newsanchor/internal/feed"
	"github.com/matheuskafuri/newsanchor/internal/logging"
	"github.com/matheuskafuri/newsanchor/internal/settings"
)

// app is the wiring shared by every command.
type app struct {
	cfg      *config.Config
	cache    cache.Store
	engine   *feed.Engine
	settings *settings.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format, nil)

	store, err := cache.Open(cfg.Cache.Backend, cfg.CacheFile(), cfg.CacheTTL())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	return &app{
		cfg:      cfg,
		cache:    store,
		engine:   feed.NewEngine(store, cfg.Timeout(), tiers(cfg)...),
		settings: cfg.Settings(),
	}, nil
}

// tiers lists the network fetchers in priority order. The news API is only
// used when a key is configured.
func tiers(cfg *config.Config) []feed.Fetcher {
	out := []feed.Fetcher{
		feed.NewRSSFetcher(cfg.RSS.BaseURL, feed.Locale{Language: cfg.RSS.Language, Country: cfg.RSS.Country}, cfg.Timeout()),
	}
	if key := cfg.NewsAPIKey(); key != "" {
		limiter := feed.NewHostLimiter(cfg.NewsAPIInterval())
		out = append(out, feed.NewNewsAPIFetcher(key, cfg.NewsAPI.BaseURL, cfg.NewsAPI.Country, cfg.Timeout(), limiter))
	}
	return out
}

func (a *app) Close() error {
	return a.cache.Close()
}
