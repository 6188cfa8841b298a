package aspect

import (
	"math"

	"github.com/litescript/ls-natal/internal/ephem"
)

// Degrees holds the chart-frame degree of every chart point, indexed by
// point.
type Degrees [ephem.NumPoints]float64

// Record is one classified pair, seen from From.
type Record struct {
	From       ephem.Point
	To         ephem.Point
	Kind       Kind
	Separation float64 // |deg(From) - deg(To)|, in [0, 360)
}

// Symbol returns the glyph of the record's kind.
func (r Record) Symbol() string {
	return r.Kind.Symbol()
}

// DirectAspects classifies every ordered pair of distinct chart points.
// Both directions of a pair are recorded and always agree on the kind.
func DirectAspects(deg Degrees, table OrbTable) []Record {
	records := make([]Record, 0, ephem.NumPoints*(ephem.NumPoints-1))
	for a := ephem.Sun; a <= ephem.MediumCoeli; a++ {
		for b := ephem.Sun; b <= ephem.MediumCoeli; b++ {
			if a == b {
				continue
			}
			sep := math.Abs(deg[a] - deg[b])
			records = append(records, Record{
				From:       a,
				To:         b,
				Kind:       table.Classify(sep),
				Separation: sep,
			})
		}
	}
	return records
}
