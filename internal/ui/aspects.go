package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
)

const cellWidth = 4

// AspectsModel shows the triangular aspect grid. Row P holds the partners
// that come after P in chart order.
type AspectsModel struct {
	width  int
	height int
	row    ephem.Point
	col    ephem.Point
	chart  *chart.Chart
}

// NewAspectsModel creates a new aspect grid model.
func NewAspectsModel() AspectsModel {
	return AspectsModel{row: ephem.Sun, col: ephem.Moon}
}

// SetSize updates the viewport size.
func (m AspectsModel) SetSize(width, height int) AspectsModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData sets the chart.
func (m AspectsModel) UpdateData(c *chart.Chart) AspectsModel {
	m.chart = c
	return m
}

// Update moves the cell cursor, keeping it above the diagonal.
func (m AspectsModel) Update(msg tea.Msg) (AspectsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.row > ephem.Sun {
				m.row--
			}
		case "down", "j":
			if m.row < ephem.MediumCoeli-1 {
				m.row++
			}
			if m.col <= m.row {
				m.col = m.row + 1
			}
		case "left":
			if m.col > m.row+1 {
				m.col--
			}
		case "right":
			if m.col < ephem.MediumCoeli {
				m.col++
			}
		}
	}
	return m, nil
}

// Selected returns the pair under the cursor.
func (m AspectsModel) Selected() (ephem.Point, ephem.Point) {
	return m.row, m.col
}

// View renders the grid.
func (m AspectsModel) View() string {
	if m.chart == nil {
		return "Waiting for chart...\n"
	}

	var b strings.Builder
	enabled := m.chart.Options.Aspects

	if m.chart.Options.Midpoints {
		b.WriteString(dimStyle.Render("Midpoint mode: direct aspects are not computed. See the Midpoints view."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("Aspects (%s)", enabled)))
	b.WriteString("\n")

	b.WriteString(strings.Repeat(" ", cellWidth))
	for q := ephem.Moon; q <= ephem.MediumCoeli; q++ {
		b.WriteString(headerStyle.UnsetPadding().Render(fmt.Sprintf("%-*s", cellWidth, truncate(q.Info().Short, cellWidth-1))))
	}
	b.WriteString("\n")

	for p := ephem.Sun; p < ephem.MediumCoeli; p++ {
		b.WriteString(headerStyle.UnsetPadding().Render(fmt.Sprintf("%-*s", cellWidth, truncate(p.Info().Short, cellWidth-1))))
		for q := ephem.Moon; q <= ephem.MediumCoeli; q++ {
			b.WriteString(m.renderCell(p, q, enabled))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderSelection(enabled))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Total: %d aspects", m.chart.Grid.Count(enabled))))
	b.WriteString("\n")
	return b.String()
}

func (m AspectsModel) renderCell(p, q ephem.Point, enabled aspect.Set) string {
	if q <= p {
		return strings.Repeat(" ", cellWidth)
	}

	text := "·"
	style := dimStyle
	if e, ok := m.chart.Grid.Lookup(p, q); ok && e.Kind != aspect.None && enabled.Has(e.Kind) {
		text = e.Symbol()
		style = aspectStyle(e.Kind)
	}
	cell := fmt.Sprintf("%-*s", cellWidth, text)
	if p == m.row && q == m.col {
		return selectedRowStyle.Render(cell)
	}
	return style.Render(cell)
}

func (m AspectsModel) renderSelection(enabled aspect.Set) string {
	e, ok := m.chart.Grid.Lookup(m.row, m.col)
	if !ok {
		return dimStyle.Render(fmt.Sprintf("  %s / %s: no record", m.row, m.col))
	}
	kind := e.Kind.String()
	if e.Kind != aspect.None && !enabled.Has(e.Kind) {
		kind += " (hidden)"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		rowStyle.Render(fmt.Sprintf("  %s %s / %s %s  ", m.row.Glyph(), m.row, m.col.Glyph(), m.col)),
		aspectStyle(e.Kind).Render(kind),
		dimStyle.Render(fmt.Sprintf("  separation %.3f°", e.Separation)),
	)
}
