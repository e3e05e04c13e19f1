package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/matheuskafuri/newsanchor/internal/settings"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type CacheConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path,omitempty"`
	TTL     string `yaml:"ttl"`
}

type NewsAPIConfig struct {
	APIKey      string `yaml:"api_key,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Country     string `yaml:"country"`
	MinInterval string `yaml:"min_interval"`
}

type RSSConfig struct {
	BaseURL  string `yaml:"base_url,omitempty"`
	Language string `yaml:"language"`
	Country  string `yaml:"country"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

type Config struct {
	Server       ServerConfig    `yaml:"server"`
	Cache        CacheConfig     `yaml:"cache"`
	FetchTimeout string          `yaml:"fetch_timeout"`
	NewsAPI      NewsAPIConfig   `yaml:"newsapi"`
	RSS          RSSConfig       `yaml:"rss"`
	Log          LogConfig       `yaml:"log"`
	Runtime      settings.Update `yaml:"runtime"`
}

// NewsAPIKey returns the resolved API key (config or env var).
func (c *Config) NewsAPIKey() string {
	if c.NewsAPI.APIKey != "" {
		return c.NewsAPI.APIKey
	}
	return os.Getenv("NEWS_API_KEY")
}

func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, 30*time.Minute)
}

func (c *Config) Timeout() time.Duration {
	return parseDuration(c.FetchTimeout, 10*time.Second)
}

func (c *Config) NewsAPIInterval() time.Duration {
	return parseDuration(c.NewsAPI.MinInterval, time.Second)
}

// CacheFile returns the configured cache path, or the XDG default for the
// configured backend.
func (c *Config) CacheFile() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return CachePath(c.Cache.Backend)
}

// Settings builds the runtime settings store seeded from the runtime section.
func (c *Config) Settings() *settings.Store {
	st := settings.NewStore(settings.Defaults())
	st.Apply(c.Runtime)
	return st
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsanchor", "config.yaml")
}

func CachePath(backend string) string {
	name := "news.json"
	if backend == "sqlite" {
		name = "news.db"
	}
	return filepath.Join(xdg.CacheHome, "newsanchor", name)
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path over the embedded defaults. A missing file is
// created from the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Non-fatal: embedded defaults still apply
		_ = writeDefaults(path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyEnv(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRuntime reads only the runtime section of the config at path.
func LoadRuntime(path string) (settings.Update, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return settings.Update{}, fmt.Errorf("reading config: %w", err)
	}
	var doc struct {
		Runtime settings.Update `yaml:"runtime"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return settings.Update{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return doc.Runtime, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NEWSANCHOR_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("NEWSANCHOR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

func validate(cfg *Config) error {
	switch cfg.Cache.Backend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("cache: unknown backend %q (valid: file, sqlite)", cfg.Cache.Backend)
	}
	for name, s := range map[string]string{
		"cache.ttl":            cfg.Cache.TTL,
		"fetch_timeout":        cfg.FetchTimeout,
		"newsapi.min_interval": cfg.NewsAPI.MinInterval,
	} {
		if s == "" {
			continue
		}
		if _, err := time.ParseDuration(s); err != nil {
			return fmt.Errorf("%s: invalid duration: %w", name, err)
		}
	}
	for name, raw := range map[string]string{"newsapi.base_url": cfg.NewsAPI.BaseURL, "rss.base_url": cfg.RSS.BaseURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: url scheme must be http or https, got %q", name, u.Scheme)
		}
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log: unknown format %q (valid: text, json)", cfg.Log.Format)
	}
	return nil
}
