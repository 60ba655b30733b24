package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "twinforge",
	Short: "Scripted digital-twin authoring demo for an industrial cooling cabinet",
	Long: "Twinforge plays back a deterministic, clock-driven demo of a digital\n" +
		"twin authoring pipeline as an interactive terminal dashboard.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	// Bare `twinforge` opens the dashboard.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.PersistentFlags().String("scenario", "", "path to a scenario file overriding the built-in one")
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
