package ui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
)

// OptionsChangedMsg carries a new Options value. The root model rebuilds
// the chart from scratch with it.
type OptionsChangedMsg struct {
	Options chart.Options
}

type optionKind int

const (
	optAspect optionKind = iota
	optMidpoints
	optDST
	optOrbs
	optFrom
	optTo
)

type optionItem struct {
	kind   optionKind
	aspect aspect.Kind
	point  ephem.Point
}

// optionItems lists every row of the options view, top to bottom.
var optionItems = func() []optionItem {
	var items []optionItem
	for _, k := range aspect.Kinds() {
		items = append(items, optionItem{kind: optAspect, aspect: k})
	}
	items = append(items,
		optionItem{kind: optMidpoints},
		optionItem{kind: optDST},
		optionItem{kind: optOrbs},
	)
	for _, p := range ephem.Bodies() {
		items = append(items, optionItem{kind: optFrom, point: p})
	}
	for _, p := range ephem.Bodies() {
		items = append(items, optionItem{kind: optTo, point: p})
	}
	return items
}()

// OptionsModel edits the chart options.
type OptionsModel struct {
	width   int
	height  int
	cursor  int
	options chart.Options
}

// NewOptionsModel creates an options model showing opts.
func NewOptionsModel(opts chart.Options) OptionsModel {
	return OptionsModel{options: opts}
}

// SetSize updates the viewport size.
func (m OptionsModel) SetSize(width, height int) OptionsModel {
	m.width = width
	m.height = height
	return m
}

// SetOptions replaces the displayed options.
func (m OptionsModel) SetOptions(opts chart.Options) OptionsModel {
	m.options = opts
	return m
}

// Options returns the displayed options.
func (m OptionsModel) Options() chart.Options {
	return m.options
}

// Update moves the cursor and toggles the row under it. Every toggle
// emits an OptionsChangedMsg.
func (m OptionsModel) Update(msg tea.Msg) (OptionsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(optionItems)-1 {
			m.cursor++
		}
		return m, nil
	case "home":
		m.cursor = 0
		return m, nil
	case "end":
		m.cursor = len(optionItems) - 1
		return m, nil
	case " ", "enter", "x":
		m.options = toggle(m.options, optionItems[m.cursor])
	case "a":
		m.options.Aspects = aspect.AllKinds()
	case "n":
		m.options.Aspects = 0
	default:
		return m, nil
	}

	opts := m.options
	return m, func() tea.Msg {
		return OptionsChangedMsg{Options: opts}
	}
}

// toggle returns a copy of opts with one item flipped. Point lists are
// copied so earlier Options values are never modified.
func toggle(opts chart.Options, item optionItem) chart.Options {
	switch item.kind {
	case optAspect:
		opts.Aspects = opts.Aspects.Toggle(item.aspect)
	case optMidpoints:
		opts.Midpoints = !opts.Midpoints
	case optDST:
		opts.DST = !opts.DST
	case optOrbs:
		if opts.Orbs == aspect.TableLegacy {
			opts.Orbs = aspect.TableSymmetric
		} else {
			opts.Orbs = aspect.TableLegacy
		}
	case optFrom:
		opts.MidpointFrom = togglePoint(opts.MidpointFrom, item.point)
	case optTo:
		opts.MidpointTo = togglePoint(opts.MidpointTo, item.point)
	}
	return opts
}

// togglePoint adds or removes p, keeping canonical order.
func togglePoint(points []ephem.Point, p ephem.Point) []ephem.Point {
	out := make([]ephem.Point, 0, len(points)+1)
	found := false
	for _, q := range points {
		if q == p {
			found = true
			continue
		}
		out = append(out, q)
	}
	if !found {
		out = append(out, p)
		slices.Sort(out)
	}
	return out
}

func (m OptionsModel) checked(item optionItem) bool {
	switch item.kind {
	case optAspect:
		return m.options.Aspects.Has(item.aspect)
	case optMidpoints:
		return m.options.Midpoints
	case optDST:
		return m.options.DST
	case optOrbs:
		return m.options.Orbs == aspect.TableLegacy
	case optFrom:
		return slices.Contains(m.options.MidpointFrom, item.point)
	case optTo:
		return slices.Contains(m.options.MidpointTo, item.point)
	}
	return false
}

func (m OptionsModel) label(item optionItem) string {
	switch item.kind {
	case optAspect:
		return fmt.Sprintf("%-3s %s", item.aspect.Symbol(), item.aspect)
	case optMidpoints:
		return "Midpoint mode"
	case optDST:
		return "Daylight saving time"
	case optOrbs:
		return "Legacy orb table"
	default:
		return fmt.Sprintf("%-3s %s", item.point.Glyph(), item.point)
	}
}

// View renders the options in three columns: aspects and switches, then
// the midpoint From and To selections.
func (m OptionsModel) View() string {
	var cols [3][]string
	cols[0] = append(cols[0], titleStyle.Render("Aspects"))
	cols[1] = append(cols[1], titleStyle.Render("Midpoints from"))
	cols[2] = append(cols[2], titleStyle.Render("Midpoints to"))

	for i, item := range optionItems {
		col := 0
		switch item.kind {
		case optFrom:
			col = 1
		case optTo:
			col = 2
		case optMidpoints:
			cols[0] = append(cols[0], "", titleStyle.Render("Chart"))
		}

		row := fmt.Sprintf("%s %-22s", checkbox(m.checked(item)), m.label(item))
		switch {
		case i == m.cursor:
			row = selectedRowStyle.Render(row)
		case item.kind == optAspect:
			row = aspectStyle(item.aspect).Render(row)
		default:
			row = rowStyle.Render(row)
		}
		cols[col] = append(cols[col], row)
	}

	height := 0
	for _, c := range cols {
		height = max(height, len(c))
	}

	var b strings.Builder
	for r := 0; r < height; r++ {
		for c := range cols {
			cell := ""
			if r < len(cols[c]) {
				cell = cols[c][r]
			}
			b.WriteString(padRight(cell, 30))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  space: toggle | a: all aspects | n: no aspects | ↑↓: move"))
	b.WriteString("\n")
	return b.String()
}
