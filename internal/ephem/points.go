package ephem

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-natal/internal/astro"
)

// Point is a chart point. The constant order is the canonical chart order
// used for tables and aspect lists.
type Point int

const (
	Sun Point = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	NorthNode
	Chiron
	Ascendant
	MediumCoeli
)

// NumPoints is the number of chart points.
const NumPoints = 14

// NumBodies is the number of points an ephemeris supplies.
const NumBodies = 12

// PointInfo describes a chart point.
type PointInfo struct {
	Point    Point
	Name     string       // Display name
	Short    string       // Short label for tables
	Glyph    string       // Astrological glyph
	HorizCmd string       // Horizons command string, empty if not served
	Planet   astro.Planet // Keplerian element set, if any
	Kepler   bool         // Whether Planet is meaningful
}

// Points is the canonical table of chart points.
var Points = [NumPoints]PointInfo{
	{Point: Sun, Name: "Sun", Short: "Sun", Glyph: "☉", HorizCmd: "10"},
	{Point: Moon, Name: "Moon", Short: "Moo", Glyph: "☽", HorizCmd: "301"},
	{Point: Mercury, Name: "Mercury", Short: "Mer", Glyph: "☿", HorizCmd: "199", Planet: astro.Mercury, Kepler: true},
	{Point: Venus, Name: "Venus", Short: "Ven", Glyph: "♀", HorizCmd: "299", Planet: astro.Venus, Kepler: true},
	{Point: Mars, Name: "Mars", Short: "Mar", Glyph: "♂", HorizCmd: "499", Planet: astro.Mars, Kepler: true},
	{Point: Jupiter, Name: "Jupiter", Short: "Jup", Glyph: "♃", HorizCmd: "599", Planet: astro.Jupiter, Kepler: true},
	{Point: Saturn, Name: "Saturn", Short: "Sat", Glyph: "♄", HorizCmd: "699", Planet: astro.Saturn, Kepler: true},
	{Point: Uranus, Name: "Uranus", Short: "Ura", Glyph: "♅", HorizCmd: "799", Planet: astro.Uranus, Kepler: true},
	{Point: Neptune, Name: "Neptune", Short: "Nep", Glyph: "♆", HorizCmd: "899", Planet: astro.Neptune, Kepler: true},
	{Point: Pluto, Name: "Pluto", Short: "Plu", Glyph: "♇", HorizCmd: "999", Planet: astro.Pluto, Kepler: true},
	{Point: NorthNode, Name: "North Node", Short: "Nod", Glyph: "☊"},
	{Point: Chiron, Name: "Chiron", Short: "Chi", Glyph: "⚷", HorizCmd: "2060;", Planet: astro.Chiron, Kepler: true},
	{Point: Ascendant, Name: "Ascendant", Short: "Asc", Glyph: "Asc"},
	{Point: MediumCoeli, Name: "Medium Coeli", Short: "MC", Glyph: "MC"},
}

// PointsByName maps lower-case names, short labels and a few aliases to points.
var PointsByName = func() map[string]Point {
	m := make(map[string]Point, NumPoints*3)
	for _, info := range Points {
		m[strings.ToLower(info.Name)] = info.Point
		m[strings.ToLower(info.Short)] = info.Point
		m[strings.ToLower(strings.ReplaceAll(info.Name, " ", ""))] = info.Point
	}
	m["node"] = NorthNode
	m["asc"] = Ascendant
	m["mc"] = MediumCoeli
	return m
}()

// Bodies returns the points an ephemeris supplies, in canonical order.
func Bodies() []Point {
	out := make([]Point, NumBodies)
	for i := range out {
		out[i] = Point(i)
	}
	return out
}

// Info returns the table entry for p.
func (p Point) Info() PointInfo {
	if !p.Valid() {
		return PointInfo{Point: p, Name: p.String()}
	}
	return Points[p]
}

// Valid reports whether p is one of the 14 chart points.
func (p Point) Valid() bool {
	return p >= Sun && p <= MediumCoeli
}

// IsBody reports whether p is supplied by an ephemeris rather than derived
// from the house cusps.
func (p Point) IsBody() bool {
	return p >= Sun && p <= Chiron
}

// String returns the point name.
func (p Point) String() string {
	if p.Valid() {
		return Points[p].Name
	}
	return fmt.Sprintf("Point(%d)", int(p))
}

// Glyph returns the point glyph.
func (p Point) Glyph() string {
	return p.Info().Glyph
}

// ParsePoint looks a point up by name, short label or alias.
func ParsePoint(s string) (Point, error) {
	p, ok := PointsByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown chart point %q", s)
	}
	return p, nil
}

// ParseBodies parses a comma-separated list of ephemeris bodies.
func ParseBodies(s string) ([]Point, error) {
	var out []Point
	seen := make(map[Point]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePoint(part)
		if err != nil {
			return nil, err
		}
		if !p.IsBody() {
			return nil, fmt.Errorf("%s is not an ephemeris body", p)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

// MarshalText encodes the point by name.
func (p Point) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid chart point %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a point name, short label or alias.
func (p *Point) UnmarshalText(b []byte) error {
	parsed, err := ParsePoint(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
