package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/angle"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
)

// PositionsModel lists the chart points and house cusps.
type PositionsModel struct {
	width  int
	height int
	cursor int
	chart  *chart.Chart
	motion [ephem.NumPoints]float64
}

// NewPositionsModel creates a new positions model.
func NewPositionsModel() PositionsModel {
	return PositionsModel{}
}

// SetSize updates the viewport size.
func (m PositionsModel) SetSize(width, height int) PositionsModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData sets the chart and the per-point daily motion.
func (m PositionsModel) UpdateData(c *chart.Chart, motion [ephem.NumPoints]float64) PositionsModel {
	m.chart = c
	m.motion = motion
	return m
}

// Update handles messages.
func (m PositionsModel) Update(msg tea.Msg) (PositionsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < ephem.NumPoints-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			m.cursor = ephem.NumPoints - 1
		}
	}
	return m, nil
}

// Selected returns the point under the cursor.
func (m PositionsModel) Selected() ephem.Point {
	return ephem.Point(m.cursor)
}

// View renders the points and houses side by side.
func (m PositionsModel) View() string {
	if m.chart == nil {
		return "Waiting for chart...\n"
	}
	points := m.renderPoints()
	houses := m.renderHouses()
	if m.width > 0 && m.width < lipgloss.Width(points)+lipgloss.Width(houses)+4 {
		return points + "\n" + houses
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, points, "    ", houses)
}

func (m PositionsModel) renderPoints() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Points"))
	b.WriteString("\n")
	header := fmt.Sprintf("%-3s %-13s %-3s %-12s %-12s %5s %2s", "", "Point", "", "Sign", "Position", "House", "")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, pos := range m.chart.Points {
		retro := ""
		if m.motion[i] < 0 {
			retro = "℞"
		}
		house := fmt.Sprintf("%5d", pos.House)
		if pos.House == 0 {
			house = fmt.Sprintf("%5s", "-")
		}
		row := fmt.Sprintf("%-3s %-13s %s %-12s %-12s %s %2s",
			pos.Point.Glyph(),
			truncate(pos.Point.String(), 13),
			signStyle(pos.Sign).Render(fmt.Sprintf("%-3s", pos.Sign.Glyph())),
			pos.Sign,
			angle.ToDMS(pos.Offset),
			house,
			retro,
		)
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	sel := m.chart.Points[m.cursor]
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s  λ %.4f°  chart %.3f°  motion %+.4f°/day",
		sel.Point, sel.Longitude, sel.Degree, m.motion[m.cursor])))
	b.WriteString("\n")
	return b.String()
}

func (m PositionsModel) renderHouses() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Houses"))
	b.WriteString("\n")
	header := fmt.Sprintf("%-5s %-4s %-3s %-12s %-12s", "House", "", "", "Sign", "Position")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, h := range m.chart.Houses {
		row := fmt.Sprintf("%-5d %-4s %s %-12s %-12s",
			h.Number,
			h.Role,
			signStyle(h.Sign).Render(fmt.Sprintf("%-3s", h.Sign.Glyph())),
			h.Sign,
			angle.ToDMS(h.Offset),
		)
		b.WriteString(rowStyle.Render(row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  Ring: "))
	for _, s := range m.chart.Ring.Signs {
		b.WriteString(signStyle(s).Render(s.Glyph()))
		b.WriteString(" ")
	}
	b.WriteString("\n")
	return b.String()
}
