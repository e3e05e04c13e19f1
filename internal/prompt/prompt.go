// Package prompt composes the anchor's system prompt from the runtime
// settings and the cached news. Composition never touches the network.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/cache"
	"github.com/matheuskafuri/newsanchor/internal/settings"
)

// CoreIdentity opens every prompt verbatim.
const CoreIdentity = `IDENTITY:
You are "NewsBot", a fast, direct AI news anchor.

MISSION:
- Deliver news with speed and accuracy.
- NO filler phrases ("Sure", "I can help", "Let me check").
- Get straight to the headline.
- Maximum 2-3 sentences per update.
- Use active voice. Be punchy.
- NEVER READ DATES, TIMES, OR URLS aloud.
- Summarize the story, don't read the headline verbatim.
- "According to [Source]..." is good.

STYLE:
- Short, punchy sentences. Avoid complex clauses.
- Pause frequently (use periods).
- If the listener asks a question, answer immediately with facts.`

var personalities = map[string]string{
	settings.StyleProfessional: `VOICE & STYLE:
- Speak like a professional news anchor.
- Clear, articulate and authoritative.
- Formal but accessible language.
- Structure updates with "First...", "Additionally...", "Finally...".`,
	settings.StyleCasual: `VOICE & STYLE:
- Speak like a friendly neighborhood news reporter.
- Warm, conversational and approachable.
- Everyday language.
- Personal touches like "Interesting development here...".`,
	settings.StyleEnthusiastic: `VOICE & STYLE:
- Speak like an energetic morning show host.
- Upbeat, dynamic and engaging.
- Show excitement about interesting stories.
- Phrases like "Exciting news!" or "You'll love this...".`,
}

const detailedAllowance = "- When the listener asks for more detail, you may use up to five sentences."

const groundingRules = `Pick 1-2 of these stories and summarize them in your own words.
Never read dates, times, or URLs aloud.
Stay under 3 sentences.`

// NewsReader is the synchronous, cache-only view of the news.
type NewsReader interface {
	ReadCached(category string) []cache.Article
}

type Synthesizer struct {
	news NewsReader
	now  func() time.Time
}

func NewSynthesizer(news NewsReader) *Synthesizer {
	return &Synthesizer{news: news, now: time.Now}
}

// WithClock replaces the wall clock used for the time layer.
func (s *Synthesizer) WithClock(now func() time.Time) *Synthesizer {
	s.now = now
	return s
}

// Synthesize builds the full prompt for cfg. It is rebuilt from scratch on
// every call.
func (s *Synthesizer) Synthesize(cfg settings.Snapshot) string {
	var b strings.Builder

	b.WriteString(CoreIdentity)
	b.WriteString("\n\n")

	style, ok := personalities[cfg.AnchorStyle]
	if !ok {
		style = personalities[settings.StyleProfessional]
	}
	b.WriteString(style)
	if cfg.Features.DetailedMode {
		b.WriteString("\n")
		b.WriteString(detailedAllowance)
	}
	b.WriteString("\n\n")

	if directive := strings.TrimSpace(cfg.CustomPrompt); directive != "" {
		b.WriteString("CUSTOM DIRECTIVE:\n")
		b.WriteString(directive)
		b.WriteString("\n\n")
	}

	if cfg.Features.LiveNews && s.news != nil {
		b.WriteString(groundingBlock(cfg.NewsCategory, s.news.ReadCached(cfg.NewsCategory)))
		b.WriteString("\n\n")
	}

	now := s.now()
	fmt.Fprintf(&b, "CURRENT TIME: %s\n", now.Format("January 2, 2006 at 3:04 PM"))
	fmt.Fprintf(&b, "Use this for time-appropriate greetings (Good %s!)\n", Greeting(now))

	return b.String()
}

// groundingBlock lists titles and outlets only. Descriptions and timestamps
// stay out so the model has nothing date-like to read aloud.
func groundingBlock(category string, articles []cache.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "LIVE NEWS (%s):\n", strings.ToUpper(category))
	if len(articles) == 0 {
		b.WriteString("No stories are available right now.\n")
	}
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. %s", i+1, a.Title)
		if a.Source != "" {
			fmt.Fprintf(&b, " (%s)", a.Source)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(groundingRules)
	return b.String()
}

// Greeting buckets t into morning, afternoon or evening.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	default:
		return "evening"
	}
}
