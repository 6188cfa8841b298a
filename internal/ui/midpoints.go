package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-natal/internal/angle"
	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
)

// MidpointsModel lists the enabled midpoint aspects.
type MidpointsModel struct {
	width   int
	height  int
	scrollY int
	chart   *chart.Chart
	rows    []aspect.MidpointAspect
}

// NewMidpointsModel creates a new midpoints model.
func NewMidpointsModel() MidpointsModel {
	return MidpointsModel{}
}

// SetSize updates the viewport size.
func (m MidpointsModel) SetSize(width, height int) MidpointsModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData sets the chart.
func (m MidpointsModel) UpdateData(c *chart.Chart) MidpointsModel {
	m.chart = c
	m.rows = nil
	if c != nil {
		m.rows = c.VisibleMidpoints()
	}
	if m.scrollY >= len(m.rows) {
		m.scrollY = 0
	}
	return m
}

// Update handles scrolling.
func (m MidpointsModel) Update(msg tea.Msg) (MidpointsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.scrollY > 0 {
				m.scrollY--
			}
		case "down", "j":
			if m.scrollY < len(m.rows)-1 {
				m.scrollY++
			}
		case "pgup":
			m.scrollY -= m.pageSize()
			if m.scrollY < 0 {
				m.scrollY = 0
			}
		case "pgdown":
			m.scrollY += m.pageSize()
			if m.scrollY > len(m.rows)-1 {
				m.scrollY = max(len(m.rows)-1, 0)
			}
		case "home":
			m.scrollY = 0
		}
	}
	return m, nil
}

func (m MidpointsModel) pageSize() int {
	rows := m.height - 6
	if rows < 5 {
		rows = 5
	}
	return rows
}

// View renders the list.
func (m MidpointsModel) View() string {
	if m.chart == nil {
		return "Waiting for chart...\n"
	}

	var b strings.Builder
	opts := m.chart.Options

	if !opts.Midpoints {
		b.WriteString(dimStyle.Render("Direct-aspect mode. Enable midpoints in the Options view."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("Midpoint aspects (%s)", opts.Aspects)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  from %s  to %s", pointList(opts.MidpointFrom), pointList(opts.MidpointTo))))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString("  No midpoint aspects\n")
		return b.String()
	}

	header := fmt.Sprintf("%-26s %-12s %-15s %-14s %8s", "Midpoint", "Position", "Aspect", "Target", "Sep")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	end := m.scrollY + m.pageSize()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for _, a := range m.rows[m.scrollY:end] {
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-26s %-12s ", truncate(a.Label(), 26), angle.ToDMS(a.Midpoint.Degree))))
		b.WriteString(aspectStyle(a.Kind).Render(fmt.Sprintf("%-3s %-11s", a.Kind.Symbol(), a.Kind)))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %-14s %8.3f", a.Target, a.Separation)))
		b.WriteString("\n")
	}

	if len(m.rows) > end-m.scrollY {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\n  Showing %d-%d of %d", m.scrollY+1, end, len(m.rows))))
		b.WriteString("\n")
	}
	return b.String()
}

func pointList(points []ephem.Point) string {
	if len(points) == 0 {
		return "-"
	}
	names := make([]string, len(points))
	for i, p := range points {
		names[i] = p.String()
	}
	return strings.Join(names, ",")
}
