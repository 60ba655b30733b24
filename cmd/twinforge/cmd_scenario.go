package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/twinforge/twinforge/internal/config"
	"github.com/twinforge/twinforge/internal/script"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Inspect or validate the active scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		scn, err := loadScenarioForInspection(cmd)
		if err != nil {
			return err
		}
		validateOnly, _ := cmd.Flags().GetBool("validate")
		if validateOnly {
			fmt.Fprintf(cmd.OutOrStdout(), "scenario %s is valid (%d cue times)\n", scn.Name, len(scn.CueTimes()))
			return nil
		}
		printScenario(cmd, scn)
		return nil
	},
}

func init() {
	scenarioCmd.Flags().Bool("validate", false, "only validate, print nothing but a verdict")
}

func loadScenarioForInspection(cmd *cobra.Command) (*script.Scenario, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(workDir)
	if err != nil {
		// Inspection should work outside an initialized directory.
		cfg = nil
	}
	return resolveScenario(cmd, cfg)
}

func printScenario(cmd *cobra.Command, scn *script.Scenario) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s · %s · %d seconds\n\n", scn.Name, scn.Title, scn.Duration)

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "AGENT\tWINDOW\tMILESTONES\tARTIFACTS")
	for _, agent := range scn.Agents {
		fmt.Fprintf(w, "%s\t[%d,%d]\t%d\t%v\n",
			agent.Name, agent.Window.Start, agent.Window.End, len(agent.Milestones), agent.Artifacts)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "DROP AT\tARTIFACT\tSUMMARY")
	for _, drop := range scn.Drops {
		fmt.Fprintf(w, "%d\t%s\t%s\n", drop.At, drop.Artifact, drop.Summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "BUS AT\tBUS\tSEV\tMESSAGE")
	for _, cue := range scn.Bus {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", cue.At, cue.Bus, cue.Severity, cue.Message)
	}
	w.Flush()
	fmt.Fprintf(out, "\ndeploy gate opens at t=%ds\n", scn.DeployReadyAt)
}
