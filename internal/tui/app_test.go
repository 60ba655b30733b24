package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/twinforge/twinforge/internal/config"
	"github.com/twinforge/twinforge/internal/script"
	"github.com/twinforge/twinforge/internal/sim"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		WorkDir:      t.TempDir(),
		TickInterval: time.Second,
		Autoplay:     false,
	}
	return NewApp(cfg, sim.New(script.Default()), nil)
}

func press(t *testing.T, app *App, key string) (*App, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	model, cmd := app.Update(msg)
	next, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	return next, cmd
}

func TestSpaceTogglesPlayback(t *testing.T) {
	app := newTestApp(t)
	if app.snap.Clock.Running {
		t.Fatal("clock should start paused without autoplay")
	}
	app, cmd := press(t, app, " ")
	if !app.snap.Clock.Running {
		t.Fatal("space should start playback")
	}
	if cmd == nil {
		t.Fatal("starting playback must schedule a tick")
	}
	app, cmd = press(t, app, " ")
	if app.snap.Clock.Running {
		t.Fatal("second space should pause")
	}
	if cmd != nil {
		t.Fatal("pausing must not schedule another tick")
	}
}

func TestTickAdvancesClockWhileRunning(t *testing.T) {
	app := newTestApp(t)
	app, _ = press(t, app, " ")
	model, cmd := app.Update(tickMsg(time.Now()))
	app = model.(*App)
	if app.snap.Clock.Elapsed != 1 {
		t.Fatalf("elapsed = %d, want 1", app.snap.Clock.Elapsed)
	}
	if cmd == nil {
		t.Fatal("running clock must reschedule the tick")
	}
}

func TestStepKeyAdvancesOneSecondWhilePaused(t *testing.T) {
	app := newTestApp(t)
	app, _ = press(t, app, "right")
	if app.snap.Clock.Elapsed != 1 {
		t.Fatalf("elapsed = %d, want 1", app.snap.Clock.Elapsed)
	}
	app, _ = press(t, app, "l")
	if app.snap.Clock.Elapsed != 2 {
		t.Fatalf("elapsed = %d, want 2", app.snap.Clock.Elapsed)
	}
}

func TestLeftKeyOnlySetsHint(t *testing.T) {
	app := newTestApp(t)
	app, _ = press(t, app, "right")
	app, _ = press(t, app, "left")
	if app.snap.Clock.Elapsed != 1 {
		t.Fatalf("elapsed = %d, want 1 (clock must not rewind)", app.snap.Clock.Elapsed)
	}
	if !strings.Contains(app.statusMsg, "forward") {
		t.Fatalf("status = %q, want rewind hint", app.statusMsg)
	}
}

func TestDeployJumpOpensGateAndPromotionLadder(t *testing.T) {
	app := newTestApp(t)
	app, _ = press(t, app, "p")
	if app.snap.Deploy.Stage != sim.StageDraft {
		t.Fatalf("promote with closed gate moved stage to %s", app.snap.Deploy.Stage)
	}
	app, _ = press(t, app, "d")
	if app.snap.Clock.Elapsed != app.engine.Scenario().DeployReadyAt {
		t.Fatalf("elapsed = %d, want %d", app.snap.Clock.Elapsed, app.engine.Scenario().DeployReadyAt)
	}
	if !app.snap.Deploy.Enabled {
		t.Fatal("deploy gate should open at readiness")
	}
	app, _ = press(t, app, "p")
	if app.snap.Deploy.Stage != sim.StageStaging {
		t.Fatalf("stage = %s, want staging", app.snap.Deploy.Stage)
	}
	app, _ = press(t, app, "p")
	if app.snap.Deploy.Stage != sim.StageProduction {
		t.Fatalf("stage = %s, want production", app.snap.Deploy.Stage)
	}
	app, _ = press(t, app, "D")
	if app.snap.Deploy.Stage != sim.StageDraft {
		t.Fatalf("stage = %s, want draft after revert", app.snap.Deploy.Stage)
	}
	if !app.snap.Deploy.Enabled {
		t.Fatal("reverting the stage display must keep the gate open")
	}
}

func TestDeployJumpIsNoOpWhenAlreadyPast(t *testing.T) {
	app := newTestApp(t)
	app.engine.SetTime(app.engine.Scenario().Duration)
	app.refresh()
	app, _ = press(t, app, "d")
	if app.snap.Clock.Elapsed != app.engine.Scenario().Duration {
		t.Fatalf("elapsed = %d, want %d", app.snap.Clock.Elapsed, app.engine.Scenario().Duration)
	}
	if !strings.Contains(app.statusMsg, "Already past") {
		t.Fatalf("status = %q, want already-past notice", app.statusMsg)
	}
}

func TestResetRestartsRun(t *testing.T) {
	app := newTestApp(t)
	app, _ = press(t, app, "d")
	firstRun := app.snap.RunID
	app, _ = press(t, app, "r")
	if app.snap.Clock.Elapsed != 0 {
		t.Fatalf("elapsed = %d after reset, want 0", app.snap.Clock.Elapsed)
	}
	if app.snap.RunID == firstRun {
		t.Fatal("reset should mint a new run id")
	}
	if app.selected != 0 {
		t.Fatalf("selected = %d after reset, want 0", app.selected)
	}
}

func TestAgentSelectionWraps(t *testing.T) {
	app := newTestApp(t)
	for range app.snap.Agents {
		app, _ = press(t, app, "tab")
	}
	if app.selected != 0 {
		t.Fatalf("selected = %d, want wrap to 0", app.selected)
	}
	app, _ = press(t, app, "down")
	app, _ = press(t, app, "up")
	if app.selected != 0 {
		t.Fatalf("selected = %d, want 0", app.selected)
	}
}

func TestViewerToggle(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40
	app, _ = press(t, app, "v")
	if !strings.Contains(app.View(), "AR VIEWER") {
		t.Fatal("viewer notes missing after toggle")
	}
	app, _ = press(t, app, "v")
	if strings.Contains(app.View(), "AR VIEWER") {
		t.Fatal("viewer notes still shown after second toggle")
	}
}

func TestViewRendersAllPanes(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40
	app, _ = press(t, app, "d")
	out := app.View()
	for _, want := range []string{"PIPELINE", "TWIN STUDIO", "KPIS", "BUS", "DEPLOY"} {
		if !strings.Contains(out, want) {
			t.Fatalf("View() missing %s pane", want)
		}
	}
}

func TestQuitKey(t *testing.T) {
	app := newTestApp(t)
	_, cmd := press(t, app, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
