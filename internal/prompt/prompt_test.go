package prompt

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/cache"
	"github.com/matheuskafuri/newsanchor/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticNews map[string][]cache.Article

func (s staticNews) ReadCached(category string) []cache.Article { return s[category] }

var fixedNews = staticNews{
	"business": {
		{Title: "Markets rally", Description: "Stocks surged on jobs data", Source: "Economic Times", Published: "Fri, 16 Jan 2026 08:00:00 GMT"},
		{Title: "Rates hold", Description: "Central bank pauses", Source: "Mint", Published: "2 hours ago"},
	},
}

func at(hour, minute int) func() time.Time {
	return func() time.Time { return time.Date(2026, 1, 16, hour, minute, 0, 0, time.Local) }
}

func config() settings.Snapshot {
	s := settings.Defaults()
	s.NewsCategory = "business"
	return s
}

var greetingRe = regexp.MustCompile(`Good (morning|afternoon|evening)!`)

func TestSynthesizeContainsCoreIdentity(t *testing.T) {
	for _, style := range append(settings.Styles, "unknown") {
		cfg := config()
		cfg.AnchorStyle = style
		out := NewSynthesizer(fixedNews).WithClock(at(9, 0)).Synthesize(cfg)
		assert.True(t, strings.HasPrefix(out, CoreIdentity), style)
	}
}

func TestGreetingBuckets(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         string
	}{
		{0, 0, "morning"},
		{9, 0, "morning"},
		{11, 59, "morning"},
		{12, 0, "afternoon"},
		{16, 59, "afternoon"},
		{17, 0, "evening"},
		{23, 59, "evening"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%02d:%02d", tt.hour, tt.minute), func(t *testing.T) {
			out := NewSynthesizer(fixedNews).WithClock(at(tt.hour, tt.minute)).Synthesize(config())
			matches := greetingRe.FindAllStringSubmatch(out, -1)
			require.Len(t, matches, 1)
			assert.Equal(t, tt.want, matches[0][1])
		})
	}
}

func TestSynthesizeTimeLayer(t *testing.T) {
	out := NewSynthesizer(fixedNews).WithClock(at(15, 4)).Synthesize(config())
	assert.Contains(t, out, "CURRENT TIME: January 16, 2026 at 3:04 PM")
}

func TestGroundingBlockToggle(t *testing.T) {
	s := NewSynthesizer(fixedNews).WithClock(at(9, 0))

	cfg := config()
	cfg.Features.LiveNews = false
	off := s.Synthesize(cfg)
	assert.NotContains(t, off, "LIVE NEWS")
	assert.NotContains(t, off, "Markets rally")

	cfg.Features.LiveNews = true
	on := s.Synthesize(cfg)
	assert.Contains(t, on, "LIVE NEWS (BUSINESS):")
	assert.Contains(t, on, "1. Markets rally (Economic Times)")
	assert.Contains(t, on, "2. Rates hold (Mint)")
	assert.NotContains(t, on, "3. ")
	assert.Contains(t, on, "Stay under 3 sentences.")
}

func TestGroundingBlockOmitsMetadata(t *testing.T) {
	out := NewSynthesizer(fixedNews).WithClock(at(9, 0)).Synthesize(config())
	assert.NotContains(t, out, "Stocks surged on jobs data")
	assert.NotContains(t, out, "Fri, 16 Jan 2026")
	assert.NotContains(t, out, "2 hours ago")
}

func TestPersonalityLayer(t *testing.T) {
	s := NewSynthesizer(fixedNews).WithClock(at(9, 0))

	cfg := config()
	cfg.AnchorStyle = settings.StyleCasual
	assert.Contains(t, s.Synthesize(cfg), "friendly neighborhood news reporter")

	cfg.AnchorStyle = "sarcastic"
	assert.Contains(t, s.Synthesize(cfg), "professional news anchor")
}

func TestDetailedModeAllowance(t *testing.T) {
	s := NewSynthesizer(fixedNews).WithClock(at(9, 0))
	cfg := config()
	assert.NotContains(t, s.Synthesize(cfg), detailedAllowance)

	cfg.Features.DetailedMode = true
	assert.Contains(t, s.Synthesize(cfg), detailedAllowance)
}

func TestCustomDirective(t *testing.T) {
	s := NewSynthesizer(fixedNews).WithClock(at(9, 0))
	cfg := config()

	cfg.CustomPrompt = "   \n\t"
	assert.NotContains(t, s.Synthesize(cfg), "CUSTOM DIRECTIVE")

	cfg.CustomPrompt = "  Always mention cricket scores.  "
	assert.Contains(t, s.Synthesize(cfg), "CUSTOM DIRECTIVE:\nAlways mention cricket scores.\n")
}

func TestLayerOrder(t *testing.T) {
	cfg := config()
	cfg.CustomPrompt = "Operator note."
	out := NewSynthesizer(fixedNews).WithClock(at(9, 0)).Synthesize(cfg)

	idx := func(s string) int {
		i := strings.Index(out, s)
		require.GreaterOrEqual(t, i, 0, s)
		return i
	}
	order := []int{idx("IDENTITY:"), idx("VOICE & STYLE:"), idx("CUSTOM DIRECTIVE:"), idx("LIVE NEWS"), idx("CURRENT TIME:")}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1], order[i])
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	s := NewSynthesizer(fixedNews).WithClock(at(10, 30))
	assert.Equal(t, s.Synthesize(config()), s.Synthesize(config()))
}

func TestSpeechSummary(t *testing.T) {
	articles := []cache.Article{{Title: "One."}, {Title: "Two"}, {Title: "Three"}, {Title: "Four"}}
	got := SpeechSummary("technology", articles)
	assert.Equal(t, "In technology news today. First, One. Also, Two. And, Three. Would you like more details on any of these stories?", got)

	assert.True(t, strings.HasPrefix(SpeechSummary("astrology", articles[:1]), "Here's the latest news."))
	assert.Contains(t, SpeechSummary("world", nil), "don't have any news")
}
