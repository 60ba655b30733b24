package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twinforge/twinforge/internal/script"
	"github.com/twinforge/twinforge/internal/sim"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	statusStyles = map[sim.AgentStatus]lipgloss.Style{
		sim.StatusQueued:      lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")),
		sim.StatusPlanning:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")),
		sim.StatusRunning:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
		sim.StatusNeedsReview: lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true),
		sim.StatusDone:        lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true),
		sim.StatusFailed:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
	severityStyles = map[script.Severity]lipgloss.Style{
		script.SeverityInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")),
		script.SeverityWarn: lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")),
		script.SeverityOK:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
	}
)

const viewerNotes = `The AR/VR viewer ships as a companion headset app.
This pane only summarizes what the deployed twin exposes:
 · cabinet geometry with zone overlays anchored in AR
 · live KPI badges pinned to compressor circuits
 · door-loss heat trace replay for operator training`

// View renders the three-pane board: pipeline, studio, signals.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 120
	}
	paneWidth := (width - 6) / 3
	if paneWidth < 28 {
		paneWidth = 28
	}

	header := a.renderHeader()
	left := paneStyle.Width(paneWidth).Render(a.renderPipelinePane(paneWidth - 2))
	middle := paneStyle.Width(paneWidth).Render(a.renderStudioPane(paneWidth - 2))
	right := paneStyle.Width(paneWidth).Render(a.renderSignalsPane(paneWidth - 2))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, middle, right)

	sections := []string{header, body}
	if logStrip := a.renderLogStrip(); logStrip != "" {
		sections = append(sections, logStrip)
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

func (a *App) renderHeader() string {
	clock := a.snap.Clock
	state := "PAUSED"
	if clock.Running {
		state = "PLAYING"
	} else if clock.Elapsed >= clock.Duration {
		state = "COMPLETE"
	}
	title := headerStyle.Render(fmt.Sprintf("◆ TWINFORGE · %s", a.snap.Title))
	timer := dimStyle.Render(fmt.Sprintf("t=%03ds / %ds · %s", clock.Elapsed, clock.Duration, state))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "   ", timer)
}

func (a *App) renderPipelinePane(width int) string {
	lines := []string{paneTitleStyle.Render("PIPELINE")}
	if a.promptActive() {
		lines = append(lines, dimStyle.Render(a.renderPrompt(width)), "")
	}
	barWidth := max(10, width-24)
	a.bar.Width = barWidth
	for i, agent := range a.snap.Agents {
		indicator := " "
		if i == a.selected {
			indicator = ">"
		}
		style, ok := statusStyles[agent.Status]
		if !ok {
			style = dimStyle
		}
		label := style.Render(agent.Status.FriendlyName())
		lines = append(lines, fmt.Sprintf("%s %-18s %s", indicator, agent.Name, label))
		lines = append(lines, "  "+a.bar.ViewAs(float64(agent.Progress)/100))
	}
	lines = append(lines, "", a.renderAgentLog(width))
	return strings.Join(lines, "\n")
}

// renderPrompt animates the authoring prompt during the typing window.
func (a *App) renderPrompt(width int) string {
	scn := a.engine.Scenario()
	window := scn.PromptWindow
	t := a.snap.Clock.Elapsed
	prompt := scn.Prompt
	shown := len(prompt)
	if t < window.End {
		frac := float64(t-window.Start) / float64(window.End-window.Start)
		if frac < 0 {
			frac = 0
		}
		shown = int(frac * float64(len(prompt)))
	}
	text := prompt[:shown]
	if shown < len(prompt) {
		text += "▌"
	}
	return wrapText("PROMPT: "+text, width)
}

func (a *App) promptActive() bool {
	scn := a.engine.Scenario()
	return a.snap.Clock.Elapsed <= scn.PromptWindow.End+4
}

func (a *App) renderAgentLog(width int) string {
	if len(a.snap.Agents) == 0 {
		return ""
	}
	agent := a.snap.Agents[a.selected]
	title := paneTitleStyle.Render(fmt.Sprintf("LOG · %s", agent.Name))
	if len(agent.Log) == 0 {
		return title + "\n" + dimStyle.Render("  waiting for this agent to start")
	}
	tail := agent.Log
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	lines := []string{title}
	for _, entry := range tail {
		lines = append(lines, dimStyle.Render(wrapText(fmt.Sprintf("  %3ds %s", entry.At, entry.Text), width)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderStudioPane(width int) string {
	if a.showViewer {
		return paneTitleStyle.Render("AR VIEWER") + "\n" + dimStyle.Render(wrapText(viewerNotes, width))
	}
	lines := []string{paneTitleStyle.Render("TWIN STUDIO")}
	for _, art := range a.snap.Artifacts {
		version := dimStyle.Render("unpublished")
		if art.Version > 0 {
			version = fmt.Sprintf("v%d · t=%ds", art.Version, art.LastUpdated)
		}
		lines = append(lines, fmt.Sprintf("%-20s %s", art.Label, version))
		if art.Summary != "" {
			lines = append(lines, dimStyle.Render(wrapText("  "+art.Summary, width)))
		}
		for _, diff := range art.Diff {
			style, ok := severityStyles[diff.Severity]
			if !ok {
				style = dimStyle
			}
			lines = append(lines, style.Render(wrapText("    "+diff.Text, width)))
		}
	}
	lines = append(lines, "", a.renderDeploy())
	return strings.Join(lines, "\n")
}

func (a *App) renderDeploy() string {
	deploy := a.snap.Deploy
	gate := "closed until validation settles"
	if deploy.Enabled {
		gate = "open · p promotes"
	}
	ladder := renderStageLadder(deploy.Stage)
	return paneTitleStyle.Render("DEPLOY") + "\n" +
		ladder + "\n" +
		dimStyle.Render("gate "+gate)
}

func renderStageLadder(current sim.DeployStage) string {
	stages := []sim.DeployStage{sim.StageDraft, sim.StageStaging, sim.StageProduction}
	parts := make([]string, len(stages))
	for i, stage := range stages {
		name := stage.FriendlyName()
		if stage == current {
			parts[i] = headerStyle.Render("[" + name + "]")
		} else {
			parts[i] = dimStyle.Render(name)
		}
	}
	return strings.Join(parts, " → ")
}

func (a *App) renderSignalsPane(width int) string {
	lines := []string{paneTitleStyle.Render("KPIS")}
	for _, kpi := range a.snap.KPIs {
		value := dimStyle.Render("awaiting data")
		if kpi.Value != nil {
			value = fmt.Sprintf("%s %s %s", formatValue(*kpi.Value), kpi.Unit, trendArrow(kpi.Trend))
		}
		lines = append(lines, fmt.Sprintf("%-18s %s", kpi.Label, value))
		lines = append(lines, dimStyle.Render(fmt.Sprintf("  confidence %d%%", kpi.Confidence)))
	}
	lines = append(lines, "", paneTitleStyle.Render("BUS"))
	feed := a.snap.Bus
	maxFeed := 8
	if len(feed) > maxFeed {
		feed = feed[len(feed)-maxFeed:]
	}
	if len(feed) == 0 {
		lines = append(lines, dimStyle.Render("  no traffic yet"))
	}
	for _, event := range feed {
		style, ok := severityStyles[event.Severity]
		if !ok {
			style = dimStyle
		}
		lines = append(lines, style.Render(wrapText(fmt.Sprintf("  %3ds %-9s %s", event.At, event.Bus, event.Message), width)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderLogStrip() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(3)
	if len(lines) == 0 {
		return ""
	}
	return paneStyle.Render(paneTitleStyle.Render("JOURNAL") + "\n" + dimStyle.Render(strings.Join(lines, "\n")))
}

func (a *App) renderFooter() string {
	hints := "space play/pause · r reset · →/l step · d deploy jump · K kpi jump · p promote · D draft · v viewer · q quit"
	parts := []string{footerStyle.Render(hints)}
	if a.statusMsg != "" {
		parts = append(parts, footerStyle.Render(a.statusMsg))
	}
	return strings.Join(parts, "\n")
}

func trendArrow(trend sim.Trend) string {
	switch trend {
	case sim.TrendUp:
		return "↑"
	case sim.TrendDown:
		return "↓"
	default:
		return "→"
	}
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// wrapText folds text to the pane width, preserving leading indentation on
// continuation lines.
func wrapText(text string, width int) string {
	if width <= 8 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		indent := len(line) - len(strings.TrimLeft(line, " "))
		for len(line) > width {
			cut := strings.LastIndex(line[:width], " ")
			if cut <= indent {
				cut = width
			}
			out = append(out, line[:cut])
			line = strings.Repeat(" ", indent) + strings.TrimLeft(line[cut:], " ")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
