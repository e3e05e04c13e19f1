// Package settings holds the operator-adjustable runtime configuration of the
// anchor: category, personality, feature flags and model parameters.
package settings

import (
	"strings"
	"sync"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/feed"
)

// Anchor styles.
const (
	StyleProfessional = "professional"
	StyleCasual       = "casual"
	StyleEnthusiastic = "enthusiastic"
)

var Styles = []string{StyleProfessional, StyleCasual, StyleEnthusiastic}

func IsStyle(s string) bool {
	for _, v := range Styles {
		if v == s {
			return true
		}
	}
	return false
}

type Features struct {
	LiveNews     bool `json:"live_news" yaml:"live_news"`
	MockFallback bool `json:"mock_fallback" yaml:"mock_fallback"`
	DetailedMode bool `json:"detailed_mode" yaml:"detailed_mode"`
}

type LLMParams struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
}

// Snapshot is a consistent copy of the runtime configuration.
type Snapshot struct {
	NewsCategory   string
	Features       Features
	CustomPrompt   string
	LLM            LLMParams
	AnchorStyle    string
	LastNewsUpdate *time.Time
}

func Defaults() Snapshot {
	return Snapshot{
		NewsCategory: feed.DefaultCategory,
		Features:     Features{LiveNews: true, MockFallback: true},
		LLM:          LLMParams{Temperature: 0.3, MaxTokens: 100},
		AnchorStyle:  StyleProfessional,
	}
}

// FeaturesUpdate changes only the flags that are set.
type FeaturesUpdate struct {
	LiveNews     *bool `json:"live_news,omitempty" yaml:"live_news,omitempty"`
	MockFallback *bool `json:"mock_fallback,omitempty" yaml:"mock_fallback,omitempty"`
	DetailedMode *bool `json:"detailed_mode,omitempty" yaml:"detailed_mode,omitempty"`
}

type LLMUpdate struct {
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// Update is a partial change. Nil fields are left alone.
type Update struct {
	NewsCategory *string         `json:"newsCategory,omitempty" yaml:"news_category,omitempty"`
	CustomPrompt *string         `json:"customPrompt,omitempty" yaml:"custom_prompt,omitempty"`
	Features     *FeaturesUpdate `json:"features,omitempty" yaml:"features,omitempty"`
	LLM          *LLMUpdate      `json:"llmParams,omitempty" yaml:"llm_params,omitempty"`
	AnchorStyle  *string         `json:"anchorStyle,omitempty" yaml:"anchor_style,omitempty"`
}

// Applied reports what an Update actually changed.
type Applied struct {
	NewsCategory    *string         `json:"newsCategory,omitempty"`
	CustomPrompt    *string         `json:"customPrompt,omitempty"`
	Features        *FeaturesUpdate `json:"features,omitempty"`
	LLM             *LLMUpdate      `json:"llmParams,omitempty"`
	AnchorStyle     *string         `json:"anchorStyle,omitempty"`
	CategoryChanged bool            `json:"-"`
}

// Store owns the runtime configuration. Every Apply lands as a unit: a
// reader sees all of an update or none of it.
type Store struct {
	mu  sync.RWMutex
	cur Snapshot
}

func NewStore(initial Snapshot) *Store {
	if !feed.IsCategory(initial.NewsCategory) {
		initial.NewsCategory = feed.DefaultCategory
	}
	if !IsStyle(initial.AnchorStyle) {
		initial.AnchorStyle = StyleProfessional
	}
	return &Store{cur: initial.clone()}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.clone()
}

// Apply merges u into the configuration. Unknown categories and anchor
// styles are ignored; the rest of the update still applies.
func (s *Store) Apply(u Update) Applied {
	s.mu.Lock()
	defer s.mu.Unlock()

	var a Applied
	if u.NewsCategory != nil {
		cat := strings.ToLower(strings.TrimSpace(*u.NewsCategory))
		if feed.IsCategory(cat) {
			a.CategoryChanged = cat != s.cur.NewsCategory
			s.cur.NewsCategory = cat
			a.NewsCategory = &cat
		}
	}
	if u.CustomPrompt != nil {
		p := *u.CustomPrompt
		s.cur.CustomPrompt = p
		a.CustomPrompt = &p
	}
	if f := u.Features; f != nil {
		applied := &FeaturesUpdate{}
		if f.LiveNews != nil {
			v := *f.LiveNews
			s.cur.Features.LiveNews, applied.LiveNews = v, &v
		}
		if f.MockFallback != nil {
			v := *f.MockFallback
			s.cur.Features.MockFallback, applied.MockFallback = v, &v
		}
		if f.DetailedMode != nil {
			v := *f.DetailedMode
			s.cur.Features.DetailedMode, applied.DetailedMode = v, &v
		}
		a.Features = applied
	}
	if l := u.LLM; l != nil {
		applied := &LLMUpdate{}
		if l.Temperature != nil && *l.Temperature >= 0 {
			v := *l.Temperature
			s.cur.LLM.Temperature, applied.Temperature = v, &v
		}
		if l.MaxTokens != nil && *l.MaxTokens > 0 {
			v := *l.MaxTokens
			s.cur.LLM.MaxTokens, applied.MaxTokens = v, &v
		}
		a.LLM = applied
	}
	if u.AnchorStyle != nil && IsStyle(*u.AnchorStyle) {
		style := *u.AnchorStyle
		s.cur.AnchorStyle = style
		a.AnchorStyle = &style
	}
	return a
}

// MarkNewsUpdated records when news for the active category was last
// refreshed.
func (s *Store) MarkNewsUpdated(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.LastNewsUpdate = &t
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.LastNewsUpdate != nil {
		t := *s.LastNewsUpdate
		out.LastNewsUpdate = &t
	}
	return out
}
