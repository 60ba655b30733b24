package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twinforge/twinforge/internal/sim"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Run the engine headlessly to a time and print the state as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := cmd.Flags().GetInt("at")
		if err != nil {
			return err
		}
		jump, _ := cmd.Flags().GetBool("jump")

		scn, err := loadScenarioForInspection(cmd)
		if err != nil {
			return err
		}
		engine := sim.New(scn)
		if jump {
			engine.SetTime(at)
		} else {
			engine.SetRunning(true)
			for engine.Snapshot().Clock.Elapsed < at {
				before := engine.Snapshot().Clock.Elapsed
				engine.Tick()
				if engine.Snapshot().Clock.Elapsed == before {
					break
				}
			}
		}

		encoded, err := json.MarshalIndent(engine.Snapshot(), "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return nil
	},
}

func init() {
	snapshotCmd.Flags().Int("at", 0, "demo second to stop at")
	snapshotCmd.Flags().Bool("jump", false, "jump directly instead of ticking (skips cue emissions on the way)")
}
