package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/feed"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		path := a.cfg.CacheFile()
		out := cmd.OutOrStdout()
		backend := a.cfg.Cache.Backend
		if backend == "" {
			backend = "file"
		}
		fmt.Fprintln(out, renderField("Cache", path+" ("+backend+")"))
		if fi, err := os.Stat(path); err == nil {
			fmt.Fprintln(out, renderField("Size", formatBytes(fi.Size())))
		}
		if t, ok := a.cache.LastUpdated(); ok {
			fmt.Fprintln(out, renderField("Updated", t.Local().Format(time.RFC1123)+" ("+formatAge(time.Since(t))+" ago)"))
		} else {
			fmt.Fprintln(out, renderField("Updated", "never"))
		}
		fmt.Fprintln(out, renderField("TTL", a.cfg.CacheTTL().String()))
		fmt.Fprintln(out, renderField("Tiers", fmt.Sprint(a.engine.Tiers())))
		fmt.Fprintln(out)

		for _, c := range feed.Categories {
			status := itemTimeStyle.Render("stale or missing")
			if articles, ok := a.cache.Get(c); ok {
				status = itemSourceStyle.Render(fmt.Sprintf("%d fresh", len(articles)))
			}
			fmt.Fprintln(out, renderField(c, status))
		}
		return nil
	},
}

func formatAge(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
