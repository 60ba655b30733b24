// Package sim implements the demo timeline engine: a deterministic
// projection of elapsed demo seconds onto agent states, artifact versions,
// bus events, KPI curves, and the deploy gate. There is exactly one writer
// (the engine) and every read goes through an immutable Snapshot.
package sim

import "github.com/twinforge/twinforge/internal/script"

// AgentStatus enumerates the lifecycle of a pipeline agent.
type AgentStatus string

const (
	StatusQueued      AgentStatus = "queued"
	StatusPlanning    AgentStatus = "planning"
	StatusRunning     AgentStatus = "running"
	StatusNeedsReview AgentStatus = "needs_review"
	StatusDone        AgentStatus = "done"
	StatusFailed      AgentStatus = "failed"
)

// FriendlyName returns the display form of a status.
func (s AgentStatus) FriendlyName() string {
	switch s {
	case StatusQueued:
		return "Queued"
	case StatusPlanning:
		return "Planning"
	case StatusRunning:
		return "Running"
	case StatusNeedsReview:
		return "Needs Review"
	case StatusDone:
		return "Done"
	case StatusFailed:
		return "Failed"
	default:
		return string(s)
	}
}

// Trend describes a KPI's movement relative to its previous value.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// DeployStage is the twin's promotion stage. Transitions are forward-only
// through Promote; SetStageDraft is the explicit display-only revert.
type DeployStage string

const (
	StageDraft      DeployStage = "draft"
	StageStaging    DeployStage = "staging"
	StageProduction DeployStage = "production"
)

// LogLine is one timestamped agent log entry. At is in demo seconds.
type LogLine struct {
	At   int    `json:"at"`
	Text string `json:"text"`
}

// Agent is the projected state of one pipeline agent.
type Agent struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    AgentStatus `json:"status"`
	Progress  int         `json:"progress"`
	Artifacts []string    `json:"artifacts,omitempty"`
	Log       []LogLine   `json:"log,omitempty"`
}

// Artifact is the current state of one versioned pipeline output.
type Artifact struct {
	Kind        string            `json:"kind"`
	Label       string            `json:"label"`
	Version     int               `json:"version"`
	LastUpdated int               `json:"last_updated"`
	Summary     string            `json:"summary,omitempty"`
	Diff        []script.DiffLine `json:"diff,omitempty"`
}

// BusEvent is one immutable synthetic bus message.
type BusEvent struct {
	ID       string          `json:"id"`
	At       int             `json:"at"`
	Bus      string          `json:"bus"`
	Severity script.Severity `json:"severity"`
	Message  string          `json:"message"`
}

// KPI is the projected state of one KPI curve. Value is nil until the
// data-arrival phase begins.
type KPI struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Unit       string   `json:"unit,omitempty"`
	Value      *float64 `json:"value"`
	Target     *float64 `json:"target,omitempty"`
	Trend      Trend    `json:"trend"`
	Confidence int      `json:"confidence"`
}

// Clock is the engine's time state.
type Clock struct {
	Elapsed  int  `json:"elapsed"`
	Duration int  `json:"duration"`
	Running  bool `json:"running"`
}

// Deploy is the gate and stage state.
type Deploy struct {
	Stage   DeployStage `json:"stage"`
	Enabled bool        `json:"enabled"`
}

// Snapshot is the read-only view handed to the presentation layer. All
// slices are copies; mutating a snapshot never touches engine state.
type Snapshot struct {
	RunID     string     `json:"run_id"`
	Scenario  string     `json:"scenario"`
	Title     string     `json:"title"`
	Clock     Clock      `json:"clock"`
	Agents    []Agent    `json:"agents"`
	Artifacts []Artifact `json:"artifacts"`
	Bus       []BusEvent `json:"bus"`
	KPIs      []KPI      `json:"kpis"`
	Deploy    Deploy     `json:"deploy"`
}

// Limits on the append-targets. Oldest entries are evicted first.
const (
	agentLogCap = 20
	busEventCap = 70
)
