package script

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios/*.yaml
var stockFS embed.FS

const stockScenarioPath = "scenarios/cooling_cabinet.yaml"

// ErrUnknownArtifact marks a drop or agent reference to an undeclared
// artifact kind.
var ErrUnknownArtifact = errors.New("script: unknown artifact kind")

// Default returns the embedded cooling-cabinet scenario. The embedded
// document is part of the build; a parse failure here is a programming error.
func Default() *Scenario {
	data, err := stockFS.ReadFile(stockScenarioPath)
	if err != nil {
		panic(fmt.Sprintf("script: stock scenario missing: %v", err))
	}
	scn, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("script: stock scenario invalid: %v", err))
	}
	return scn
}

// Load reads and validates a scenario file from disk.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	scn, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", path, err)
	}
	return scn, nil
}

// Parse decodes a scenario document and validates it.
func Parse(data []byte) (*Scenario, error) {
	var scn Scenario
	if err := yaml.Unmarshal(data, &scn); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := scn.Validate(); err != nil {
		return nil, err
	}
	return &scn, nil
}

// Validate enforces the structural rules the engine relies on. The engine
// itself never fails at runtime, so every script problem must surface here.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario name is required")
	}
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", s.Duration)
	}
	if err := s.checkWindow("prompt_window", s.PromptWindow); err != nil {
		return err
	}
	if s.DeployReadyAt < 0 || s.DeployReadyAt > s.Duration {
		return fmt.Errorf("deploy_ready_at %d outside run [0,%d]", s.DeployReadyAt, s.Duration)
	}
	for name, w := range map[string]Window{
		"weights.data":       s.Weights.Data,
		"weights.stabilize":  s.Weights.Stabilize,
		"weights.confidence": s.Weights.Confidence,
	} {
		if err := s.checkWindow(name, w); err != nil {
			return err
		}
	}
	if len(s.Agents) == 0 {
		return errors.New("at least one agent is required")
	}
	seenAgents := map[string]struct{}{}
	for _, agent := range s.Agents {
		if agent.ID == "" {
			return errors.New("agent id is required")
		}
		if _, dup := seenAgents[agent.ID]; dup {
			return fmt.Errorf("duplicate agent id %q", agent.ID)
		}
		seenAgents[agent.ID] = struct{}{}
		if err := s.checkWindow("agent "+agent.ID, agent.Window); err != nil {
			return err
		}
		for _, kind := range agent.Artifacts {
			if _, ok := s.Artifacts[kind]; !ok {
				return fmt.Errorf("agent %s: %w: %q", agent.ID, ErrUnknownArtifact, kind)
			}
		}
		for _, m := range agent.Milestones {
			if m.At < 0 || m.At > s.Duration {
				return fmt.Errorf("agent %s: milestone at %d outside run", agent.ID, m.At)
			}
			if m.Line == "" {
				return fmt.Errorf("agent %s: milestone at %d has no line", agent.ID, m.At)
			}
		}
	}
	for _, drop := range s.Drops {
		if _, ok := s.Artifacts[drop.Artifact]; !ok {
			return fmt.Errorf("drop at %d: %w: %q", drop.At, ErrUnknownArtifact, drop.Artifact)
		}
		if drop.At < 0 || drop.At > s.Duration {
			return fmt.Errorf("drop for %s at %d outside run", drop.Artifact, drop.At)
		}
		for _, line := range drop.Diff {
			if !validSeverity(line.Severity) {
				return fmt.Errorf("drop for %s at %d: bad severity %q", drop.Artifact, drop.At, line.Severity)
			}
		}
	}
	for _, cue := range s.Bus {
		if cue.At < 0 || cue.At > s.Duration {
			return fmt.Errorf("bus cue at %d outside run", cue.At)
		}
		if cue.Bus == "" || cue.Message == "" {
			return fmt.Errorf("bus cue at %d missing bus or message", cue.At)
		}
		if !validSeverity(cue.Severity) {
			return fmt.Errorf("bus cue at %d: bad severity %q", cue.At, cue.Severity)
		}
	}
	seenKPIs := map[string]struct{}{}
	for _, kpi := range s.KPIs {
		if kpi.Key == "" {
			return errors.New("kpi key is required")
		}
		if _, dup := seenKPIs[kpi.Key]; dup {
			return fmt.Errorf("duplicate kpi key %q", kpi.Key)
		}
		seenKPIs[kpi.Key] = struct{}{}
		if kpi.Ceiling < 0 || kpi.Ceiling > 100 {
			return fmt.Errorf("kpi %s: confidence_ceiling %.1f outside [0,100]", kpi.Key, kpi.Ceiling)
		}
	}
	return nil
}

func (s *Scenario) checkWindow(name string, w Window) error {
	if w.End <= w.Start {
		return fmt.Errorf("%s: end %d must be after start %d", name, w.End, w.Start)
	}
	if w.Start < 0 || w.End > s.Duration {
		return fmt.Errorf("%s: window [%d,%d] outside run [0,%d]", name, w.Start, w.End, s.Duration)
	}
	return nil
}

func validSeverity(sev Severity) bool {
	switch sev {
	case SeverityInfo, SeverityWarn, SeverityOK:
		return true
	default:
		return false
	}
}

// CueTimes returns every distinct emission timestamp in the scenario
// (milestones, drops, bus cues) in ascending order. Used by the scenario
// inspection command.
func (s *Scenario) CueTimes() []int {
	set := map[int]struct{}{}
	for _, agent := range s.Agents {
		for _, m := range agent.Milestones {
			set[m.At] = struct{}{}
		}
	}
	for _, drop := range s.Drops {
		set[drop.At] = struct{}{}
	}
	for _, cue := range s.Bus {
		set[cue.At] = struct{}{}
	}
	times := make([]int, 0, len(set))
	for t := range set {
		times = append(times, t)
	}
	sort.Ints(times)
	return times
}
