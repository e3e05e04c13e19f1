package cmd

import (
	"fmt"

	"github.com/matheuskafuri/newsanchor/internal/prompt"
	"github.com/matheuskafuri/newsanchor/internal/settings"
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system prompt for the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if flagCategory != "" {
			c := activeCategory(a)
			a.settings.Apply(settings.Update{NewsCategory: &c})
		}
		snap := a.settings.Snapshot()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderField("category", snap.NewsCategory))
		fmt.Fprintln(out, renderField("style", snap.AnchorStyle))
		fmt.Fprintln(out, renderField("live news", fmt.Sprint(snap.Features.LiveNews)))
		fmt.Fprintln(out)
		fmt.Fprintln(out, prompt.NewSynthesizer(a.engine).Synthesize(snap))
		return nil
	},
}
