package aspect

import (
	"math"

	"github.com/litescript/ls-natal/internal/angle"
	"github.com/litescript/ls-natal/internal/ephem"
)

// Entry is one line of a point's aspect list.
type Entry struct {
	Partner    ephem.Point
	Kind       Kind
	Separation float64
}

// Symbol returns the glyph of the entry's kind; None is blank.
func (e Entry) Symbol() string {
	return e.Kind.Symbol()
}

// Orb returns how far the pair is from the exact angle of its kind, in
// degrees. Separations past 180 are measured the short way round.
func (e Entry) Orb() float64 {
	if e.Kind == None {
		return 0
	}
	return math.Abs(angle.Distance(e.Separation, 0) - e.Kind.Angle())
}

// Grid holds the ordered aspect list of every chart point.
type Grid [ephem.NumPoints][]Entry

// Order builds the per-point aspect lists. Each pair is listed once, under
// the point that comes first in canonical order, and each list is sorted by
// partner. When a pair is recorded more than once the last record wins.
// None entries stay in the lists. The Ascendant and Medium Coeli lists are
// always empty.
func Order(records []Record) Grid {
	var latest [ephem.NumPoints][ephem.NumPoints]*Record
	for i := range records {
		r := &records[i]
		if !r.From.Valid() || !r.To.Valid() || r.From == r.To {
			continue
		}
		latest[r.From][r.To] = r
	}

	var g Grid
	for p := ephem.Sun; p <= ephem.MediumCoeli; p++ {
		g[p] = []Entry{}
		if p == ephem.Ascendant || p == ephem.MediumCoeli {
			continue
		}
		for q := p + 1; q <= ephem.MediumCoeli; q++ {
			r := latest[p][q]
			if r == nil {
				continue
			}
			g[p] = append(g[p], Entry{Partner: q, Kind: r.Kind, Separation: r.Separation})
		}
	}
	return g
}

// Lookup returns the entry for an unordered pair.
func (g Grid) Lookup(a, b ephem.Point) (Entry, bool) {
	if a > b {
		a, b = b, a
	}
	if !a.Valid() {
		return Entry{}, false
	}
	for _, e := range g[a] {
		if e.Partner == b {
			return e, true
		}
	}
	return Entry{}, false
}

// Count returns the number of listed pairs whose kind is in enabled.
func (g Grid) Count(enabled Set) int {
	n := 0
	for _, list := range g {
		for _, e := range list {
			if enabled.Has(e.Kind) {
				n++
			}
		}
	}
	return n
}
