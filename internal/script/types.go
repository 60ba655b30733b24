// Package script defines the scenario documents that drive a demo run:
// phase windows, the agent roster with its milestone lines, artifact drops,
// the bus cue sheet, and KPI curve parameters. Scenarios are YAML documents;
// the stock cooling-cabinet scenario ships embedded in the binary.
package script

import "sort"

// Severity tags a diff line or bus event.
type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityWarn Severity = "warn"
	SeverityOK   Severity = "ok"
)

// Window is a [Start, End] second range within the run.
type Window struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Contains reports whether t falls inside the window, inclusive.
func (w Window) Contains(t int) bool {
	return t >= w.Start && t <= w.End
}

// Milestone maps one literal timestamp to one fixed log line.
type Milestone struct {
	At   int    `yaml:"at"`
	Line string `yaml:"line"`
}

// AgentSpec declares one pipeline agent and its scripted behavior.
type AgentSpec struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Window     Window      `yaml:"window"`
	Artifacts  []string    `yaml:"artifacts,omitempty"`
	Milestones []Milestone `yaml:"milestones"`
}

// ArtifactDef names one artifact kind shown in the studio pane.
type ArtifactDef struct {
	Label string `yaml:"label"`
}

// DiffLine is one severity-tagged line of an artifact drop.
type DiffLine struct {
	Severity Severity `yaml:"severity"`
	Text     string   `yaml:"text"`
}

// Drop replaces an artifact's summary and diff at one exact timestamp,
// bumping its version by one.
type Drop struct {
	At       int        `yaml:"at"`
	Artifact string     `yaml:"artifact"`
	Summary  string     `yaml:"summary"`
	Diff     []DiffLine `yaml:"diff"`
}

// BusCue emits one synthetic bus event at one exact timestamp.
type BusCue struct {
	At       int      `yaml:"at"`
	Bus      string   `yaml:"bus"`
	Severity Severity `yaml:"severity"`
	Message  string   `yaml:"message"`
}

// Wobble parameterizes the deterministic two-sine oscillation applied on top
// of a KPI's interpolated value. No randomness is involved anywhere.
type Wobble struct {
	Amplitude float64 `yaml:"amplitude"`
	Phase     float64 `yaml:"phase"`
}

// KPISpec declares one KPI curve.
type KPISpec struct {
	Key      string   `yaml:"key"`
	Label    string   `yaml:"label"`
	Unit     string   `yaml:"unit,omitempty"`
	Baseline float64  `yaml:"baseline"`
	Target   *float64 `yaml:"target,omitempty"`
	// Ceiling is the confidence level (0..100) the data-arrival phase
	// ramps toward before the confidence phase raises it further.
	Ceiling float64 `yaml:"confidence_ceiling"`
	Wobble  Wobble  `yaml:"wobble"`
}

// Weights holds the three overlapping phase windows the KPI projector blends.
type Weights struct {
	Data       Window `yaml:"data"`
	Stabilize  Window `yaml:"stabilize"`
	Confidence Window `yaml:"confidence"`
}

// Scenario is a complete demo script.
type Scenario struct {
	Name          string                 `yaml:"name"`
	Title         string                 `yaml:"title"`
	Prompt        string                 `yaml:"prompt"`
	Duration      int                    `yaml:"duration"`
	PromptWindow  Window                 `yaml:"prompt_window"`
	DeployReadyAt int                    `yaml:"deploy_ready_at"`
	Weights       Weights                `yaml:"weights"`
	Agents        []AgentSpec            `yaml:"agents"`
	Artifacts     map[string]ArtifactDef `yaml:"artifacts"`
	Drops         []Drop                 `yaml:"drops"`
	Bus           []BusCue               `yaml:"bus"`
	KPIs          []KPISpec              `yaml:"kpis"`
}

// ArtifactKinds returns the artifact kind ids in a stable order: the order
// agents first reference them, then drop order, then anything left sorted.
func (s *Scenario) ArtifactKinds() []string {
	seen := map[string]struct{}{}
	var kinds []string
	add := func(kind string) {
		if kind == "" {
			return
		}
		if _, ok := seen[kind]; ok {
			return
		}
		if _, ok := s.Artifacts[kind]; !ok {
			return
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}
	for _, agent := range s.Agents {
		for _, kind := range agent.Artifacts {
			add(kind)
		}
	}
	for _, drop := range s.Drops {
		add(drop.Artifact)
	}
	rest := make([]string, 0, len(s.Artifacts))
	for kind := range s.Artifacts {
		rest = append(rest, kind)
	}
	sort.Strings(rest)
	for _, kind := range rest {
		add(kind)
	}
	return kinds
}

// Agent returns the agent spec with the given id, if present.
func (s *Scenario) Agent(id string) (AgentSpec, bool) {
	for _, agent := range s.Agents {
		if agent.ID == id {
			return agent, true
		}
	}
	return AgentSpec{}, false
}
