// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/angle"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewPositions ViewMode = iota
	ViewAspects
	ViewMidpoints
	ViewOptions
	numViews
)

var viewNames = [numViews]string{"Positions", "Aspects", "Midpoints", "Options"}

// Msg types for Bubble Tea
type (
	// AnimTickMsg triggers spinner updates.
	AnimTickMsg time.Time

	// ChartBuiltMsg carries the result of one chart build.
	ChartBuiltMsg struct {
		Chart    *chart.Chart
		Duration time.Duration
		Err      error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	builder *chart.Builder
	state   *state.Manager
	logger  *logging.Logger

	// What the next build uses
	input chart.Input
	opts  chart.Options

	// UI state
	viewMode ViewMode
	width    int
	height   int
	ready    bool
	building bool
	animTick int

	// Sub-models
	positions PositionsModel
	aspects   AspectsModel
	midpoints MidpointsModel
	options   OptionsModel

	snapshot  state.Snapshot
	newEvents []state.Event
}

// New creates a new root UI model. A nil logger discards output.
func New(b *chart.Builder, mgr *state.Manager, in chart.Input, opts chart.Options, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	return Model{
		builder:   b,
		state:     mgr,
		logger:    logger,
		input:     in,
		opts:      opts,
		viewMode:  ViewPositions,
		positions: NewPositionsModel(),
		aspects:   NewAspectsModel(),
		midpoints: NewMidpointsModel(),
		options:   NewOptionsModel(opts),
	}
}

// Run starts the program on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.buildCmd(),
		animTickCmd(),
	)
}

// Input returns the input of the next build.
func (m Model) Input() chart.Input {
	return m.input
}

// Options returns the options of the next build.
func (m Model) Options() chart.Options {
	return m.opts
}

// ViewMode returns the active view.
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "2", "3", "4":
			m.viewMode = ViewMode(msg.String()[0] - '1')
		case "tab":
			m.viewMode = (m.viewMode + 1) % numViews
		case "shift+tab":
			m.viewMode = (m.viewMode + numViews - 1) % numViews

		case "h":
			cmds = append(cmds, m.step(-time.Hour))
		case "H":
			cmds = append(cmds, m.step(time.Hour))
		case "d":
			cmds = append(cmds, m.step(-24*time.Hour))
		case "D":
			cmds = append(cmds, m.step(24*time.Hour))

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Header takes 5 lines, footer 2
		contentHeight := msg.Height - 8
		m.positions = m.positions.SetSize(msg.Width, contentHeight)
		m.aspects = m.aspects.SetSize(msg.Width, contentHeight)
		m.midpoints = m.midpoints.SetSize(msg.Width, contentHeight)
		m.options = m.options.SetSize(msg.Width, contentHeight)

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case OptionsChangedMsg:
		m.opts = msg.Options
		m.options = m.options.SetOptions(msg.Options)
		m.building = true
		cmds = append(cmds, m.buildCmd())

	case ChartBuiltMsg:
		m.applyBuild(msg)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// step moves the chart time and requests a rebuild.
func (m *Model) step(d time.Duration) tea.Cmd {
	m.input = m.input.Add(d)
	m.building = true
	return m.buildCmd()
}

// buildCmd builds a chart from the current input and options off the UI
// goroutine.
func (m Model) buildCmd() tea.Cmd {
	b, in, opts, logger := m.builder, m.input, m.opts, m.logger
	return func() tea.Msg {
		start := time.Now()
		c, err := b.Build(in, opts)
		if err != nil {
			logger.Warn("chart build failed: %v", err)
		}
		return ChartBuiltMsg{Chart: c, Duration: time.Since(start), Err: err}
	}
}

// applyBuild records a build in the state manager. A failed build keeps
// the previous chart on screen.
func (m *Model) applyBuild(msg ChartBuiltMsg) {
	m.building = false
	m.state.Update(msg.Chart, msg.Duration, msg.Err)
	m.snapshot = m.state.Snapshot()

	m.newEvents = nil
	if msg.Err != nil {
		return
	}
	for _, e := range m.snapshot.Events {
		if e.Timestamp.Equal(m.snapshot.LastBuild) {
			m.newEvents = append(m.newEvents, e)
		}
	}

	var motion [ephem.NumPoints]float64
	for p := range motion {
		motion[p] = m.state.Motion(ephem.Point(p))
	}

	c := m.snapshot.Chart
	m.positions = m.positions.UpdateData(c, motion)
	m.aspects = m.aspects.UpdateData(c)
	m.midpoints = m.midpoints.UpdateData(c)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewPositions:
		m.positions, cmd = m.positions.Update(msg)
	case ViewAspects:
		m.aspects, cmd = m.aspects.Update(msg)
	case ViewMidpoints:
		m.midpoints, cmd = m.midpoints.Update(msg)
	case ViewOptions:
		m.options, cmd = m.options.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewPositions:
		content = m.positions.View()
	case ViewAspects:
		content = m.aspects.View()
	case ViewMidpoints:
		content = m.midpoints.View()
	case ViewOptions:
		content = m.options.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(renderGradient("ls-natal"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  v%s", version.Version)))
	b.WriteString("\n")
	b.WriteString("  " + m.renderInfo())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

// renderInfo shows the requested input and, once built, the resolved time.
func (m Model) renderInfo() string {
	in := m.input
	line := fmt.Sprintf("%04d-%02d-%02d %02d:%02d  lat %.4f  lon %.4f",
		in.Year, in.Month, in.Day, in.Hour, in.Minute, in.Latitude, in.Longitude)
	if m.opts.DST {
		line += "  DST"
	}
	text := rowStyle.Render(line)

	if c := m.snapshot.Chart; c != nil {
		text += dimStyle.Render(fmt.Sprintf("  │ UTC%+d  JD %.5f  LST %s  %s  %s orbs",
			c.Info.UTCOffset, c.Info.JulianDay, angle.HoursToDMS(c.Info.Sidereal).Clock(),
			c.Info.Ephemeris, c.OrbTable))
	}
	return text
}

func (m Model) renderTabs() string {
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)

	var parts []string
	for i, name := range viewNames {
		tab := fmt.Sprintf("[%d] %s", i+1, name)
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.building:
		status = accentStyle.Render(spinner) + " " + renderShimmerText("Casting chart...", m.animTick)
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.snapshot.Chart != nil:
		status = dimStyle.Render("built in " + m.snapshot.BuildDuration.Round(time.Microsecond).String())
		if len(m.newEvents) > 0 {
			status += "  " + accentStyle.Render(m.newEvents[len(m.newEvents)-1].String())
			if len(m.newEvents) > 1 {
				status += dimStyle.Render(fmt.Sprintf(" (+%d)", len(m.newEvents)-1))
			}
		}
	default:
		status = accentStyle.Render(spinner) + " " + renderShimmerText("Waiting for chart...", m.animTick)
	}

	var help string
	switch m.viewMode {
	case ViewAspects:
		help = "arrows: select pair"
	case ViewMidpoints:
		help = "↑↓/pgup/pgdn: scroll"
	case ViewOptions:
		help = "space: toggle"
	default:
		help = "↑↓: select point"
	}
	help += " | h/H: ∓1 hour | d/D: ∓1 day | tab: view | q: quit"

	return "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
