package sim

import (
	"github.com/google/uuid"

	"github.com/twinforge/twinforge/internal/script"
)

// Engine owns all mutable demo state. It is single-writer by construction:
// the six operations below are the entire command surface, and every one of
// them completes synchronously before the caller can observe a Snapshot.
type Engine struct {
	scn   *script.Scenario
	runID string

	elapsed int
	running bool
	// lastApplied is the most recent time value whose cue emissions ran.
	// Emissions fire on exact equality only, once per distinct time value,
	// so re-applying the same time is a no-op and a forward jump skips
	// every cue strictly between the old and new time.
	lastApplied int

	agents      []Agent
	artifacts   []Artifact
	artifactIdx map[string]int
	bus         []BusEvent
	kpis        []KPI
	prevValues  map[string]float64
	deploy      Deploy
}

// New builds an engine at t=0 for the given scenario. The scenario must have
// passed script validation; the engine performs no further checks.
func New(scn *script.Scenario) *Engine {
	e := &Engine{scn: scn}
	e.reset()
	return e
}

// Scenario returns the scenario this engine plays.
func (e *Engine) Scenario() *script.Scenario { return e.scn }

func (e *Engine) reset() {
	e.runID = uuid.NewString()
	e.elapsed = 0
	e.running = false
	e.lastApplied = -1
	e.deploy = Deploy{Stage: StageDraft}

	e.agents = make([]Agent, len(e.scn.Agents))
	for i, spec := range e.scn.Agents {
		e.agents[i] = Agent{
			ID:        spec.ID,
			Name:      spec.Name,
			Status:    StatusQueued,
			Artifacts: append([]string(nil), spec.Artifacts...),
		}
	}

	kinds := e.scn.ArtifactKinds()
	e.artifacts = make([]Artifact, len(kinds))
	e.artifactIdx = make(map[string]int, len(kinds))
	for i, kind := range kinds {
		e.artifacts[i] = Artifact{Kind: kind, Label: e.scn.Artifacts[kind].Label}
		e.artifactIdx[kind] = i
	}

	e.bus = nil
	e.kpis = make([]KPI, len(e.scn.KPIs))
	e.prevValues = make(map[string]float64, len(e.scn.KPIs))
	for i, spec := range e.scn.KPIs {
		e.kpis[i] = KPI{
			Key:    spec.Key,
			Label:  spec.Label,
			Unit:   spec.Unit,
			Target: spec.Target,
			Trend:  TrendFlat,
		}
	}

	e.applyTime(0)
}

// Tick advances the clock by one second while running. At the configured
// duration the clock stops and running is forced false.
func (e *Engine) Tick() {
	if !e.running {
		return
	}
	if e.elapsed >= e.scn.Duration {
		e.running = false
		return
	}
	e.applyTime(e.elapsed + 1)
	if e.elapsed >= e.scn.Duration {
		e.running = false
	}
}

// SetRunning starts or pauses the clock. Once the run has completed, the
// clock cannot be restarted without a Reset.
func (e *Engine) SetRunning(run bool) {
	if run && e.elapsed >= e.scn.Duration {
		e.running = false
		return
	}
	e.running = run
}

// SetTime jumps the clock forward to t, clamped into [0, duration].
// Elapsed time never decreases except through Reset, so requests at or
// before the current time are no-ops. Cues strictly between the old and new
// time never fire; a cue at exactly t does.
func (e *Engine) SetTime(t int) {
	if t > e.scn.Duration {
		t = e.scn.Duration
	}
	if t <= e.elapsed {
		return
	}
	e.applyTime(t)
	if e.elapsed >= e.scn.Duration {
		e.running = false
	}
}

// Reset atomically reinitializes every piece of state to the t=0 baseline
// under a fresh run id.
func (e *Engine) Reset() {
	e.reset()
}

// Promote advances the deploy stage one step (Draft to Staging, Staging to
// Production) when the gate is open. Anything else is a no-op.
func (e *Engine) Promote() {
	if !e.deploy.Enabled {
		return
	}
	next, ok := stagePromotions[e.deploy.Stage]
	if !ok {
		return
	}
	e.deploy.Stage = next
}

// SetStageDraft reverts the displayed stage to Draft. The gate stays open.
func (e *Engine) SetStageDraft() {
	e.deploy.Stage = StageDraft
}

// applyTime moves the clock to t, fires cue emissions for exactly t, and
// recomputes every projection. Re-applying the current time is a no-op,
// which keeps emission idempotent at a given t.
func (e *Engine) applyTime(t int) {
	if t == e.lastApplied {
		return
	}
	e.elapsed = t
	e.emitAt(t)
	e.lastApplied = t
	e.projectAgents(t)
	e.projectKPIs(t)
	if t >= e.scn.DeployReadyAt {
		e.deploy.Enabled = true
	}
}

// emitAt performs the append/mutate effects scripted for exactly time t.
func (e *Engine) emitAt(t int) {
	for i, spec := range e.scn.Agents {
		for _, m := range spec.Milestones {
			if m.At != t {
				continue
			}
			agent := &e.agents[i]
			agent.Log = append(agent.Log, LogLine{At: t, Text: m.Line})
			if len(agent.Log) > agentLogCap {
				agent.Log = agent.Log[len(agent.Log)-agentLogCap:]
			}
		}
	}
	for _, drop := range e.scn.Drops {
		if drop.At != t {
			continue
		}
		idx, ok := e.artifactIdx[drop.Artifact]
		if !ok {
			continue
		}
		art := &e.artifacts[idx]
		art.Version++
		art.LastUpdated = t
		art.Summary = drop.Summary
		art.Diff = append([]script.DiffLine(nil), drop.Diff...)
	}
	for _, cue := range e.scn.Bus {
		if cue.At != t {
			continue
		}
		e.bus = append(e.bus, BusEvent{
			ID:       uuid.NewString(),
			At:       t,
			Bus:      cue.Bus,
			Severity: cue.Severity,
			Message:  cue.Message,
		})
		if len(e.bus) > busEventCap {
			e.bus = e.bus[len(e.bus)-busEventCap:]
		}
	}
}

// projectAgents recomputes every agent's progress and status from t.
func (e *Engine) projectAgents(t int) {
	for i, spec := range e.scn.Agents {
		agent := &e.agents[i]
		agent.Progress = StageProgress(t, spec.Window.Start, spec.Window.End)
		agent.Status = StageStatus(agent.Progress, t, spec.Window.Start, spec.Window.End)
	}
}

// Snapshot returns a copy of the full engine state for the view layer.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		RunID:    e.runID,
		Scenario: e.scn.Name,
		Title:    e.scn.Title,
		Clock: Clock{
			Elapsed:  e.elapsed,
			Duration: e.scn.Duration,
			Running:  e.running,
		},
		Agents:    make([]Agent, len(e.agents)),
		Artifacts: make([]Artifact, len(e.artifacts)),
		Bus:       append([]BusEvent(nil), e.bus...),
		KPIs:      make([]KPI, len(e.kpis)),
		Deploy:    e.deploy,
	}
	for i, agent := range e.agents {
		copied := agent
		copied.Artifacts = append([]string(nil), agent.Artifacts...)
		copied.Log = append([]LogLine(nil), agent.Log...)
		snap.Agents[i] = copied
	}
	for i, art := range e.artifacts {
		copied := art
		copied.Diff = append([]script.DiffLine(nil), art.Diff...)
		snap.Artifacts[i] = copied
	}
	for i, kpi := range e.kpis {
		copied := kpi
		if kpi.Value != nil {
			v := *kpi.Value
			copied.Value = &v
		}
		snap.KPIs[i] = copied
	}
	return snap
}
