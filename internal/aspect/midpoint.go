package aspect

import (
	"math"

	"github.com/litescript/ls-natal/internal/angle"
	"github.com/litescript/ls-natal/internal/ephem"
)

// Midpoint is the bisecting degree of an ordered pair of points.
type Midpoint struct {
	From   ephem.Point
	To     ephem.Point
	Degree float64
}

// Label returns "From/To".
func (m Midpoint) Label() string {
	return m.From.String() + "/" + m.To.String()
}

// MidpointAspect is a midpoint classified against a target point.
type MidpointAspect struct {
	Midpoint   Midpoint
	Target     ephem.Point
	Kind       Kind
	Separation float64
}

// Label returns the midpoint label.
func (a MidpointAspect) Label() string {
	return a.Midpoint.Label()
}

// lowWrap is the degree below which the second point of a midpoint pair is
// lifted by a full turn before bisecting.
const lowWrap = 30.0

// MidpointOf bisects two chart-frame degrees. The second degree is lifted by
// 360 when it is below 30 so pairs straddling the 0/360 seam bisect on the
// short arc; the result is normalized.
func MidpointOf(f, g float64) float64 {
	if g < lowWrap {
		g += 360
	}
	return angle.Normalize((f + g) / 2)
}

// Midpoints computes every midpoint (f, g) for f in from and g any other
// chart point, then classifies each against every point in to. Points
// outside the twelve ephemeris bodies are ignored in from and to. Nothing
// is produced unless both selections are non-empty.
func Midpoints(deg Degrees, from, to []ephem.Point, table OrbTable) ([]Midpoint, []MidpointAspect) {
	from = onlyBodies(from)
	to = onlyBodies(to)
	if len(from) == 0 || len(to) == 0 {
		return nil, nil
	}

	mids := make([]Midpoint, 0, len(from)*(ephem.NumPoints-1))
	aspects := make([]MidpointAspect, 0, len(from)*(ephem.NumPoints-1)*len(to))
	for _, f := range from {
		for g := ephem.Sun; g <= ephem.MediumCoeli; g++ {
			if g == f {
				continue
			}
			m := Midpoint{From: f, To: g, Degree: MidpointOf(deg[f], deg[g])}
			mids = append(mids, m)

			for _, t := range to {
				sep := math.Abs(deg[t] - m.Degree)
				aspects = append(aspects, MidpointAspect{
					Midpoint:   m,
					Target:     t,
					Kind:       table.Classify(sep),
					Separation: sep,
				})
			}
		}
	}
	return mids, aspects
}

func onlyBodies(points []ephem.Point) []ephem.Point {
	seen := make(map[ephem.Point]bool, len(points))
	out := make([]ephem.Point, 0, len(points))
	for _, p := range points {
		if !p.IsBody() || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
