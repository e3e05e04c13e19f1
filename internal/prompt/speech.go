package prompt

import (
	"strings"

	"github.com/matheuskafuri/newsanchor/internal/cache"
)

var categoryIntros = map[string]string{
	"headlines":     "Here are today's top headlines.",
	"technology":    "In technology news today.",
	"business":      "Looking at business and markets.",
	"sports":        "Here's the latest in sports.",
	"entertainment": "In entertainment news.",
	"science":       "From the world of science.",
	"world":         "Here's what's happening around the world.",
}

const spokenLimit = 3

// SpeechSummary renders up to three headlines as a short spoken bulletin.
func SpeechSummary(category string, articles []cache.Article) string {
	if len(articles) == 0 {
		return "I don't have any news updates at the moment. Please try again shortly."
	}

	intro, ok := categoryIntros[category]
	if !ok {
		intro = "Here's the latest news."
	}
	parts := []string{intro}
	for i, a := range articles {
		if i == spokenLimit {
			break
		}
		title := strings.TrimRight(strings.TrimSpace(a.Title), ".")
		switch i {
		case 0:
			parts = append(parts, "First, "+title+".")
		case 1:
			parts = append(parts, "Also, "+title+".")
		default:
			parts = append(parts, "And, "+title+".")
		}
	}
	parts = append(parts, "Would you like more details on any of these stories?")
	return strings.Join(parts, " ")
}
