// internal/tui/app.go
//
// The twinforge dashboard. bubbletea's Elm loop drives everything:
// a tick message once per interval advances the engine, and every Update
// re-reads a fresh engine snapshot for View to render.

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twinforge/twinforge/internal/config"
	"github.com/twinforge/twinforge/internal/logbook"
	"github.com/twinforge/twinforge/internal/sim"
)

// tickMsg is emitted once per tick interval while the demo clock runs.
type tickMsg time.Time

// App is the dashboard model. It is the only writer to the engine.
type App struct {
	cfg     *config.Config
	engine  *sim.Engine
	logbook *logbook.Logbook

	snap        sim.Snapshot
	selected    int
	showViewer  bool
	statusMsg   string
	lastLogLine string

	width  int
	height int

	bar progress.Model
}

// NewApp builds the dashboard around an engine. The logbook may be nil.
func NewApp(cfg *config.Config, eng *sim.Engine, lb *logbook.Logbook) *App {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	app := &App{
		cfg:     cfg,
		engine:  eng,
		logbook: lb,
		bar:     bar,
	}
	app.snap = eng.Snapshot()
	return app
}

// Init starts playback when autoplay is configured.
func (a *App) Init() tea.Cmd {
	a.logInfo("Session opened · scenario %s · run %s", a.snap.Scenario, a.snap.RunID)
	if a.cfg.Autoplay {
		a.engine.SetRunning(true)
		a.refresh()
		return a.scheduleTick()
	}
	return nil
}

// Update handles ticks, keys, and resizes.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tickMsg:
		a.engine.Tick()
		a.refresh()
		a.noteTickEvents()
		if a.snap.Clock.Running {
			return a, a.scheduleTick()
		}
		if a.snap.Clock.Elapsed >= a.snap.Clock.Duration {
			a.setStatus("Demo complete · p to promote, r to replay")
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		a.logInfo("Session closed at t=%ds", a.snap.Clock.Elapsed)
		return a, tea.Quit
	case " ":
		return a.togglePlayback()
	case "r":
		a.engine.Reset()
		a.selected = 0
		a.refresh()
		a.logInfo("Demo reset · run %s", a.snap.RunID)
		a.setStatus("Reset to t=0")
		return a, nil
	case "right", "l":
		a.engine.SetTime(a.snap.Clock.Elapsed + 1)
		a.refresh()
		a.noteTickEvents()
		return a, nil
	case "left", "h":
		a.setStatus("The demo clock only runs forward · r resets")
		return a, nil
	case "d":
		return a.jumpTo(a.engine.Scenario().DeployReadyAt, "deploy readiness")
	case "K":
		return a.jumpTo(a.engine.Scenario().Weights.Stabilize.Start, "KPI stabilization")
	case "p":
		before := a.snap.Deploy
		a.engine.Promote()
		a.refresh()
		if a.snap.Deploy.Stage != before.Stage {
			a.logInfo("Promoted twin to %s", a.snap.Deploy.Stage.FriendlyName())
			a.setStatus(fmt.Sprintf("Promoted to %s", a.snap.Deploy.Stage.FriendlyName()))
		} else if !before.Enabled {
			a.setStatus("Deploy gate is closed until validation settles")
		} else {
			a.setStatus("Already in Production")
		}
		return a, nil
	case "D":
		a.engine.SetStageDraft()
		a.refresh()
		a.setStatus("Stage display reverted to Draft")
		return a, nil
	case "v":
		a.showViewer = !a.showViewer
		if a.showViewer {
			a.setStatus("AR viewer notes shown · v hides")
		} else {
			a.setStatus("")
		}
		return a, nil
	case "up", "k":
		if a.selected > 0 {
			a.selected--
		}
		return a, nil
	case "down", "j", "tab":
		if a.selected < len(a.snap.Agents)-1 {
			a.selected++
		} else if msg.String() == "tab" {
			a.selected = 0
		}
		return a, nil
	}
	return a, nil
}

func (a *App) togglePlayback() (tea.Model, tea.Cmd) {
	if a.snap.Clock.Elapsed >= a.snap.Clock.Duration {
		a.setStatus("Run complete · r to replay")
		return a, nil
	}
	running := !a.snap.Clock.Running
	a.engine.SetRunning(running)
	a.refresh()
	if running {
		a.setStatus("Playing")
		return a, a.scheduleTick()
	}
	a.setStatus(fmt.Sprintf("Paused at t=%ds", a.snap.Clock.Elapsed))
	return a, nil
}

func (a *App) jumpTo(t int, label string) (tea.Model, tea.Cmd) {
	if t <= a.snap.Clock.Elapsed {
		a.setStatus(fmt.Sprintf("Already past %s", label))
		return a, nil
	}
	a.engine.SetTime(t)
	a.refresh()
	a.logInfo("Jumped to t=%ds (%s)", a.snap.Clock.Elapsed, label)
	a.setStatus(fmt.Sprintf("Jumped to %s (t=%ds)", label, a.snap.Clock.Elapsed))
	if a.snap.Clock.Running {
		return a, a.scheduleTick()
	}
	return a, nil
}

func (a *App) scheduleTick() tea.Cmd {
	interval := a.cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) refresh() {
	a.snap = a.engine.Snapshot()
	if a.selected >= len(a.snap.Agents) {
		a.selected = max(0, len(a.snap.Agents)-1)
	}
}

// noteTickEvents journals bus traffic as it appears so the session log
// mirrors what the operator saw.
func (a *App) noteTickEvents() {
	if len(a.snap.Bus) == 0 {
		return
	}
	last := a.snap.Bus[len(a.snap.Bus)-1]
	if last.At != a.snap.Clock.Elapsed {
		return
	}
	line := fmt.Sprintf("t=%ds [%s] %s", last.At, last.Bus, last.Message)
	if line == a.lastLogLine {
		return
	}
	a.lastLogLine = line
	switch last.Severity {
	case "warn":
		a.logWarn("%s", line)
	default:
		a.logInfo("%s", line)
	}
}

func (a *App) setStatus(message string) {
	a.statusMsg = message
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
