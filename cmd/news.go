package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/cache"
	"github.com/matheuskafuri/newsanchor/internal/feed"
	"github.com/matheuskafuri/newsanchor/internal/prompt"
	"github.com/spf13/cobra"
)

var (
	flagCategory string
	flagSpeech   bool
	flagLive     bool
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show the news the anchor would use",
	Long: `Print the articles for a category. By default the cache is read (falling back to
the offline set); --live walks the upstream tiers and writes the result through.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		category := activeCategory(a)
		var (
			articles []cache.Article
			origin   = "cache/offline"
		)
		if flagLive {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			live, tier, err := a.engine.FetchLive(ctx, category)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "  [warn] %v\n", err)
			} else {
				if err := a.engine.Store(category, live); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "  [warn] caching: %v\n", err)
				}
				articles, origin = live, "live via "+tier
			}
		}
		if articles == nil {
			articles = a.engine.ReadCached(category)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, renderArticles(category, origin, articles))
		if flagSpeech {
			fmt.Fprintln(out)
			fmt.Fprintln(out, speechStyle.Render(prompt.SpeechSummary(category, articles)))
		}
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch a category and store it in the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		category := activeCategory(a)
		fmt.Fprintf(cmd.OutOrStdout(), "Refreshing %s...\n", category)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		articles, err := a.engine.Refresh(ctx, category)
		if err != nil {
			return fmt.Errorf("refreshing %s: %w", category, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cached %d article(s) for %s.\n", len(articles), category)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{newsCmd, refreshCmd, promptCmd} {
		c.Flags().StringVarP(&flagCategory, "category", "c", "", "news category (default: configured category)")
	}
	newsCmd.Flags().BoolVar(&flagSpeech, "speech", false, "also print the spoken summary")
	newsCmd.Flags().BoolVar(&flagLive, "live", false, "fetch from upstream instead of the cache")
}

// activeCategory resolves --category against the configured one.
func activeCategory(a *app) string {
	if flagCategory != "" {
		return feed.NormalizeCategory(flagCategory)
	}
	return a.settings.Snapshot().NewsCategory
}
