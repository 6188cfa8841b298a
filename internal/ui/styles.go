package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// Styles shared by the views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7B2CBF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84A27"))
)

// Element colors for sign glyphs
var elementColors = map[zodiac.Element]lipgloss.Color{
	zodiac.Fire:  lipgloss.Color("#E8743B"),
	zodiac.Earth: lipgloss.Color("#7FB069"),
	zodiac.Air:   lipgloss.Color("#8AB4F8"),
	zodiac.Water: lipgloss.Color("#3B82F6"),
}

func signStyle(s zodiac.Sign) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(elementColors[s.Element()])
}

// aspectColor groups the kinds into hard, soft and minor.
func aspectColor(k aspect.Kind) lipgloss.Color {
	switch k {
	case aspect.Conjunction:
		return lipgloss.Color("229")
	case aspect.Square, aspect.Opposite, aspect.SemiSquare, aspect.Sesquiquadrate:
		return lipgloss.Color("#E84A27")
	case aspect.Trine, aspect.Sextile:
		return lipgloss.Color("#3B82F6")
	case aspect.None:
		return lipgloss.Color("60")
	default:
		return lipgloss.Color("#9D4EDD")
	}
}

func aspectStyle(k aspect.Kind) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(aspectColor(k))
}

// gradientColor returns a hex color for a position in the title gradient:
// blue -> purple -> magenta -> pink, darker toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	brightness := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*brightness), clampByte(g*brightness), clampByte(b*brightness))
}

func clampByte(v float64) int {
	switch {
	case v > 255:
		return 255
	case v < 0:
		return 0
	default:
		return int(v)
	}
}

// renderGradient colors a single line of text with the title gradient.
func renderGradient(text string) string {
	runes := []rune(text)
	var b strings.Builder
	for col, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, 0, len(runes), 1)))
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// renderShimmerText renders text with a moving highlight at position tick.
func renderShimmerText(text string, tick int) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := tick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

// truncate shortens s to maxLen runes, ending in an ellipsis.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}

// checkbox renders a toggle state.
func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// padRight pads s with spaces to width visible cells.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-w)
}
