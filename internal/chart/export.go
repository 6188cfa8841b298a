package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-natal/internal/angle"
	"github.com/litescript/ls-natal/internal/ephem"
)

// ChartExport is the JSON-serializable representation of a chart.
type ChartExport struct {
	Info            InfoExport             `json:"info"`
	Houses          []HouseExport          `json:"houses"`
	Signs           []string               `json:"signs"`
	Points          []PointExport          `json:"points"`
	Aspects         []AspectExport         `json:"aspects"`
	Midpoints       []MidpointExport       `json:"midpoints,omitempty"`
	MidpointAspects []MidpointAspectExport `json:"midpoint_aspects,omitempty"`
	ComputedAt      time.Time              `json:"computed_at"`
}

// InfoExport is the chart header.
type InfoExport struct {
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	DST         bool    `json:"dst"`
	UTCOffset   int     `json:"utc_offset_hours"`
	UTCHour     float64 `json:"utc_hour"`
	JulianDay   float64 `json:"julian_day"`
	Sidereal    string  `json:"local_sidereal_time"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Ephemeris   string  `json:"ephemeris"`
	HouseSystem string  `json:"house_system,omitempty"`
	OrbTable    string  `json:"orb_table"`
}

// HouseExport is a JSON-friendly house cusp.
type HouseExport struct {
	Number    int     `json:"number"`
	Longitude float64 `json:"longitude"`
	Sign      string  `json:"sign"`
	Position  string  `json:"position"`
	Role      string  `json:"role,omitempty"`
	Degree    float64 `json:"chart_degree"`
}

// PointExport is a JSON-friendly chart point.
type PointExport struct {
	Name      string  `json:"name"`
	Glyph     string  `json:"glyph"`
	Longitude float64 `json:"longitude"`
	Sign      string  `json:"sign"`
	Position  string  `json:"position"`
	Degree    float64 `json:"chart_degree"`
	House     int     `json:"house"`
}

// AspectExport is one enabled pair from the aspect grid.
type AspectExport struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Kind       string  `json:"kind"`
	Symbol     string  `json:"symbol"`
	Separation float64 `json:"separation"`
	Orb        float64 `json:"orb"`
}

// MidpointExport is one midpoint.
type MidpointExport struct {
	Label    string  `json:"label"`
	Degree   float64 `json:"chart_degree"`
	Position string  `json:"position"`
}

// MidpointAspectExport is one enabled midpoint aspect.
type MidpointAspectExport struct {
	Midpoint   string  `json:"midpoint"`
	Target     string  `json:"target"`
	Kind       string  `json:"kind"`
	Symbol     string  `json:"symbol"`
	Separation float64 `json:"separation"`
}

// Export converts a chart to its exportable form. Aspects follow the grid
// order and only enabled kinds are included.
func (c *Chart) Export() *ChartExport {
	if c == nil {
		return &ChartExport{}
	}

	in := c.Info.Input
	export := &ChartExport{
		Info: InfoExport{
			Date:        fmt.Sprintf("%04d-%02d-%02d", in.Year, in.Month, in.Day),
			Time:        fmt.Sprintf("%02d:%02d", in.Hour, in.Minute),
			DST:         c.Info.DST,
			UTCOffset:   c.Info.UTCOffset,
			UTCHour:     c.Info.UTCHour,
			JulianDay:   c.Info.JulianDay,
			Sidereal:    angle.HoursToDMS(c.Info.Sidereal).Clock(),
			Latitude:    in.Latitude,
			Longitude:   in.Longitude,
			Ephemeris:   c.Info.Ephemeris,
			HouseSystem: c.Info.HouseSystem,
			OrbTable:    c.OrbTable,
		},
		ComputedAt: c.ComputedAt,
	}

	for _, h := range c.Houses {
		export.Houses = append(export.Houses, HouseExport{
			Number:    h.Number,
			Longitude: h.Longitude,
			Sign:      h.Sign.String(),
			Position:  angle.ToDMS(h.Offset).String(),
			Role:      string(h.Role),
			Degree:    h.Degree,
		})
	}

	for _, s := range c.Ring.Signs {
		export.Signs = append(export.Signs, s.String())
	}

	for _, p := range c.Points {
		export.Points = append(export.Points, PointExport{
			Name:      p.Point.String(),
			Glyph:     p.Point.Glyph(),
			Longitude: p.Longitude,
			Sign:      p.Sign.String(),
			Position:  angle.ToDMS(p.Offset).String(),
			Degree:    p.Degree,
			House:     p.House,
		})
	}

	export.Aspects = []AspectExport{}
	for from, list := range c.Grid {
		for _, e := range list {
			if !c.Options.Aspects.Has(e.Kind) {
				continue
			}
			export.Aspects = append(export.Aspects, AspectExport{
				From:       ephem.Point(from).String(),
				To:         e.Partner.String(),
				Kind:       e.Kind.String(),
				Symbol:     e.Symbol(),
				Separation: e.Separation,
				Orb:        e.Orb(),
			})
		}
	}

	for _, m := range c.Midpoints {
		export.Midpoints = append(export.Midpoints, MidpointExport{
			Label:    m.Label(),
			Degree:   m.Degree,
			Position: angle.ToDMS(m.Degree).String(),
		})
	}
	for _, a := range c.VisibleMidpoints() {
		export.MidpointAspects = append(export.MidpointAspects, MidpointAspectExport{
			Midpoint:   a.Label(),
			Target:     a.Target.String(),
			Kind:       a.Kind.String(),
			Symbol:     a.Kind.Symbol(),
			Separation: a.Separation,
		})
	}

	return export
}

// WriteJSON writes the chart as JSON to the given writer.
func (e *ChartExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// FormatPosition renders a longitude as "12° 34' 56" Sign".
func FormatPosition(offset float64, sign fmt.Stringer) string {
	return fmt.Sprintf("%s %s", angle.ToDMS(offset), sign)
}

// WriteSummary writes the chart as text tables: chart info, planets, houses,
// the aspect grid and, in midpoint mode, the midpoint aspects.
func WriteSummary(w io.Writer, c *Chart) {
	if c == nil {
		fmt.Fprintln(w, "No chart")
		return
	}

	in := c.Info.Input
	fmt.Fprintf(w, "Natal chart %04d-%02d-%02d %02d:%02d  lat %.4f  lon %.4f\n",
		in.Year, in.Month, in.Day, in.Hour, in.Minute, in.Latitude, in.Longitude)
	fmt.Fprintln(w, strings.Repeat("─", 72))
	dst := ""
	if c.Info.DST {
		dst = " (DST)"
	}
	fmt.Fprintf(w, "UTC offset %+d h%s   UTC hour %.4f   JD %.6f   LST %s\n",
		c.Info.UTCOffset, dst, c.Info.UTCHour, c.Info.JulianDay,
		angle.HoursToDMS(c.Info.Sidereal).Clock())
	fmt.Fprintf(w, "Ephemeris %s", c.Info.Ephemeris)
	if c.Info.HouseSystem != "" {
		fmt.Fprintf(w, "   Houses %s", c.Info.HouseSystem)
	}
	fmt.Fprintf(w, "   Orbs %s\n\n", c.OrbTable)

	// Planets
	fmt.Fprintf(w, "%-14s %-3s %-12s %-14s %8s %5s\n", "Point", "", "Sign", "Position", "Chart°", "House")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, p := range c.Points {
		fmt.Fprintf(w, "%-14s %-3s %-12s %-14s %8.3f %5d\n",
			p.Point, p.Point.Glyph(), p.Sign, angle.ToDMS(p.Offset), p.Degree, p.House)
	}
	fmt.Fprintln(w)

	// Houses
	fmt.Fprintf(w, "%-6s %-4s %-12s %-14s %8s\n", "House", "", "Sign", "Position", "Chart°")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, h := range c.Houses {
		fmt.Fprintf(w, "%-6d %-4s %-12s %-14s %8.3f\n",
			h.Number, h.Role, h.Sign, angle.ToDMS(h.Offset), h.Degree)
	}
	fmt.Fprintln(w)

	if c.Options.Midpoints {
		writeMidpoints(w, c)
		return
	}
	writeGrid(w, c)
}

func writeGrid(w io.Writer, c *Chart) {
	fmt.Fprintf(w, "Aspects (%s)\n", c.Options.Aspects)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	// Triangular grid: row P lists partners after P
	fmt.Fprintf(w, "%-4s", "")
	for q := ephem.Moon; q <= ephem.MediumCoeli; q++ {
		fmt.Fprintf(w, "%-4s", truncateStr(q.Info().Short, 3))
	}
	fmt.Fprintln(w)
	for p := ephem.Sun; p < ephem.MediumCoeli; p++ {
		fmt.Fprintf(w, "%-4s", truncateStr(p.Info().Short, 3))
		for q := ephem.Moon; q <= ephem.MediumCoeli; q++ {
			cell := ""
			if q > p {
				cell = "·"
				if e, ok := c.Grid.Lookup(p, q); ok && c.Options.Aspects.Has(e.Kind) {
					cell = e.Symbol()
				}
			}
			fmt.Fprintf(w, "%-4s", cell)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\nTotal: %d aspects\n", c.Grid.Count(c.Options.Aspects))
}

func writeMidpoints(w io.Writer, c *Chart) {
	visible := c.VisibleMidpoints()
	fmt.Fprintf(w, "Midpoint aspects (%s)\n", c.Options.Aspects)
	fmt.Fprintln(w, strings.Repeat("─", 72))
	if len(visible) == 0 {
		fmt.Fprintln(w, "No midpoint aspects")
		return
	}

	fmt.Fprintf(w, "%-26s %-16s %-14s %-3s %8s\n", "Midpoint", "Position", "Aspect", "", "Sep")
	for _, a := range visible {
		fmt.Fprintf(w, "%-26s %-16s %-14s %-3s %8.3f  %s\n",
			truncateStr(a.Label(), 26), angle.ToDMS(a.Midpoint.Degree), a.Kind, a.Kind.Symbol(),
			a.Separation, a.Target)
	}
	fmt.Fprintf(w, "\nTotal: %d midpoint aspects\n", len(visible))
}

func truncateStr(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
