package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twinforge/twinforge/internal/config"
	"github.com/twinforge/twinforge/internal/logbook"
	"github.com/twinforge/twinforge/internal/script"
	"github.com/twinforge/twinforge/internal/sim"
	"github.com/twinforge/twinforge/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the demo dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
}

func init() {
	runCmd.Flags().Duration("tick", 0, "tick interval (overrides config, e.g. 250ms)")
	runCmd.Flags().Bool("paused", false, "start paused regardless of config")
}

func runDashboard(cmd *cobra.Command) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	if err := config.Init(workDir); err != nil {
		return err
	}
	cfg, err := config.Load(workDir)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	scn, err := resolveScenario(cmd, cfg)
	if err != nil {
		return err
	}

	var journal *logbook.Logbook
	if cfg.Journal {
		journal, err = logbook.New(cfg.JournalPath())
		if err != nil {
			// The demo must run even when the journal cannot.
			fmt.Fprintf(os.Stderr, "journal disabled: %v\n", err)
			journal = nil
		}
	}

	app := tui.NewApp(cfg, sim.New(scn), journal)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if tick, err := cmd.Flags().GetDuration("tick"); err == nil && tick > 0 {
		cfg.TickInterval = tick
	}
	if paused, err := cmd.Flags().GetBool("paused"); err == nil && paused {
		cfg.Autoplay = false
	}
}

// resolveScenario picks the scenario source: --scenario flag first, then the
// config override, then the embedded stock scenario.
func resolveScenario(cmd *cobra.Command, cfg *config.Config) (*script.Scenario, error) {
	if path, err := cmd.Flags().GetString("scenario"); err == nil && path != "" {
		return script.Load(path)
	}
	if cfg != nil && cfg.ScenarioPath != "" {
		return script.Load(cfg.ScenarioPath)
	}
	return script.Default(), nil
}
