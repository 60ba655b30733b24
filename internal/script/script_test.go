package script

import (
	"sort"
	"strings"
	"testing"
)

func TestDefaultScenarioIsValid(t *testing.T) {
	scn := Default()
	if scn.Name != "cooling-cabinet" {
		t.Fatalf("stock scenario name = %q", scn.Name)
	}
	if scn.Duration != 180 {
		t.Fatalf("stock duration = %d, want 180", scn.Duration)
	}
	if len(scn.Agents) != 7 {
		t.Fatalf("stock scenario has %d agents, want 7", len(scn.Agents))
	}
	if len(scn.Artifacts) != 5 {
		t.Fatalf("stock scenario has %d artifact kinds, want 5", len(scn.Artifacts))
	}
	if len(scn.Drops) != 6 {
		t.Fatalf("stock scenario has %d drops, want 6", len(scn.Drops))
	}
	if len(scn.Bus) != 14 {
		t.Fatalf("stock scenario has %d bus cues, want 14", len(scn.Bus))
	}
	if len(scn.KPIs) != 5 {
		t.Fatalf("stock scenario has %d KPIs, want 5", len(scn.KPIs))
	}
	if scn.DeployReadyAt != 160 {
		t.Fatalf("deploy readiness at %d, want 160", scn.DeployReadyAt)
	}
}

func TestStockMilestoneShape(t *testing.T) {
	scn := Default()
	for _, agent := range scn.Agents {
		if len(agent.Milestones) != 4 {
			t.Errorf("agent %s has %d milestones, want 4", agent.ID, len(agent.Milestones))
		}
		last := agent.Milestones[len(agent.Milestones)-1]
		if !strings.Contains(last.Line, "compiled (draft v1)") {
			t.Errorf("agent %s final milestone %q lacks the completion phrasing", agent.ID, last.Line)
		}
		if last.At != agent.Window.End {
			t.Errorf("agent %s completes at %d but its window ends at %d", agent.ID, last.At, agent.Window.End)
		}
	}
}

func TestConnectorWindow(t *testing.T) {
	scn := Default()
	connector, ok := scn.Agent("connector")
	if !ok {
		t.Fatal("connector agent missing")
	}
	if connector.Window.Start != 30 || connector.Window.End != 74 {
		t.Fatalf("connector window = [%d,%d], want [30,74]", connector.Window.Start, connector.Window.End)
	}
}

func TestBindingsDropsTwice(t *testing.T) {
	scn := Default()
	count := 0
	for _, drop := range scn.Drops {
		if drop.Artifact == "bindings" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("bindings drops %d times, want 2 (initial bind plus derived-signal refinement)", count)
	}
}

func TestValidateRejections(t *testing.T) {
	base := func() *Scenario {
		scn := Default()
		return scn
	}
	cases := []struct {
		name    string
		mutate  func(*Scenario)
		wantSub string
	}{
		{
			name:    "unknown drop artifact",
			mutate:  func(s *Scenario) { s.Drops[0].Artifact = "mystery" },
			wantSub: "unknown artifact",
		},
		{
			name:    "bad severity",
			mutate:  func(s *Scenario) { s.Bus[0].Severity = "fatal" },
			wantSub: "bad severity",
		},
		{
			name:    "window outside run",
			mutate:  func(s *Scenario) { s.Agents[0].Window.End = 999 },
			wantSub: "outside run",
		},
		{
			name:    "inverted window",
			mutate:  func(s *Scenario) { s.Agents[0].Window = Window{Start: 50, End: 50} },
			wantSub: "must be after",
		},
		{
			name:    "duplicate agent id",
			mutate:  func(s *Scenario) { s.Agents[1].ID = s.Agents[0].ID },
			wantSub: "duplicate agent id",
		},
		{
			name:    "milestone outside run",
			mutate:  func(s *Scenario) { s.Agents[0].Milestones[0].At = -3 },
			wantSub: "outside run",
		},
		{
			name:    "duplicate kpi key",
			mutate:  func(s *Scenario) { s.KPIs[1].Key = s.KPIs[0].Key },
			wantSub: "duplicate kpi key",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scn := base()
			tc.mutate(scn)
			err := scn.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	if _, err := Parse([]byte("{not yaml")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCueTimesSortedAndDistinct(t *testing.T) {
	times := Default().CueTimes()
	if len(times) == 0 {
		t.Fatal("no cue times")
	}
	if !sort.IntsAreSorted(times) {
		t.Fatalf("cue times not sorted: %v", times)
	}
	for i := 1; i < len(times); i++ {
		if times[i] == times[i-1] {
			t.Fatalf("duplicate cue time %d", times[i])
		}
	}
}

func TestArtifactKindsStableOrder(t *testing.T) {
	scn := Default()
	first := scn.ArtifactKinds()
	for i := 0; i < 10; i++ {
		again := scn.ArtifactKinds()
		if len(again) != len(first) {
			t.Fatalf("kind count changed: %v vs %v", first, again)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("kind order changed: %v vs %v", first, again)
			}
		}
	}
	if first[0] != "manifest" {
		t.Fatalf("first kind = %q, want manifest (planner references it first)", first[0])
	}
}
