package cmd

import (
	"fmt"
	"os"

	"github.com/matheuskafuri/newsanchor/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagCheck  bool
)

var rootCmd = &cobra.Command{
	Use:   "newsanchor",
	Short: "Voice news anchor core",
	Long: `newsanchor grounds a conversational news anchor in fresh headlines and lets an
operator retune its category, personality and features while conversations run.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "newsanchor %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return
		}
		if res := update.Check(cmd.Context(), update.ReleasesURL, version); res != nil {
			fmt.Fprintf(out, "A newer release is available: %s\n", res.LatestVersion)
		} else {
			fmt.Fprintln(out, "No newer release found.")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
