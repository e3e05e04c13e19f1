package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsanchor/internal/cache"
)

var (
	// Adaptive colors for dark/light terminals
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	originStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Italic(true)

	itemTitleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	itemSourceStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	itemTimeStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	speechStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(14)
)

// renderArticles formats a news list for the terminal.
func renderArticles(category, origin string, articles []cache.Article) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ToUpper(category)))
	if origin != "" {
		b.WriteString(" " + originStyle.Render(origin))
	}
	b.WriteString("\n\n")

	if len(articles) == 0 {
		b.WriteString(itemTimeStyle.Render("  no stories"))
		b.WriteString("\n")
		return b.String()
	}
	for i, a := range articles {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, itemTitleStyle.Render(a.Title))
		meta := itemSourceStyle.Render(a.Source)
		if a.Published != "" {
			meta += itemTimeStyle.Render(" · " + a.Published)
		}
		b.WriteString("    " + meta + "\n")
		if a.Description != "" {
			b.WriteString("    " + itemTimeStyle.Render(a.Description) + "\n")
		}
	}
	return b.String()
}

func renderField(label, value string) string {
	return fieldLabelStyle.Render(label) + value
}
