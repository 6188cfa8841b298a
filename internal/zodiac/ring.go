package zodiac

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-natal/internal/angle"
)

// ErrDegenerateSignMapping is returned when house cusp signs cannot be
// reconciled into the twelve signs in zodiacal order.
var ErrDegenerateSignMapping = errors.New("degenerate sign mapping")

// ChartAscendantDegree is where the Ascendant sits in the chart frame: the
// left-hand horizon of a conventional wheel.
const ChartAscendantDegree = 180.0

// ReconcileHouseSigns turns the signs on the twelve house cusps into the
// twelve signs in zodiacal order starting at the Ascendant's sign. Signs
// missing from the cusps (intercepted signs) are inserted before their
// successor; repeated signs keep only their first occurrence.
func ReconcileHouseSigns(cuspSigns [NumSigns]Sign) ([NumSigns]Sign, error) {
	var out [NumSigns]Sign

	list := make([]Sign, 0, 2*NumSigns)
	for _, s := range cuspSigns {
		if !s.Valid() {
			return out, fmt.Errorf("%w: invalid cusp sign %d", ErrDegenerateSignMapping, int(s))
		}
		list = append(list, s)
	}

	// Insert every missing sign before the first occurrence of its successor.
	// Walking backwards from Pisces lets a run of missing signs find the
	// successor that was itself just inserted.
	for i := NumSigns - 1; i >= 0; i-- {
		s := Sign(i)
		if indexOf(list, s, 0) >= 0 {
			continue
		}
		at := successorIndex(list, s)
		if at < 0 {
			return out, fmt.Errorf("%w: no successor for %s", ErrDegenerateSignMapping, s)
		}
		// Nothing precedes the Ascendant's sign; wrap to the end instead
		if at == 0 {
			at = len(list)
		}
		list = append(list[:at], append([]Sign{s}, list[at:]...)...)
	}

	// Remove every extra occurrence of a repeated sign
	for i := 0; i < NumSigns; i++ {
		s := Sign(i)
		first := indexOf(list, s, 0)
		for {
			dup := indexOf(list, s, first+1)
			if dup < 0 {
				break
			}
			list = append(list[:dup], list[dup+1:]...)
		}
	}

	if len(list) != NumSigns {
		return out, fmt.Errorf("%w: %d signs after reconciliation", ErrDegenerateSignMapping, len(list))
	}
	if list[0] != cuspSigns[0] {
		return out, fmt.Errorf("%w: ring starts at %s, Ascendant is in %s", ErrDegenerateSignMapping, list[0], cuspSigns[0])
	}
	for k := 1; k < NumSigns; k++ {
		if list[k] != list[k-1].Next() {
			return out, fmt.Errorf("%w: %s follows %s", ErrDegenerateSignMapping, list[k], list[k-1])
		}
	}

	copy(out[:], list)
	return out, nil
}

// successorIndex finds where a missing sign goes: before the first
// occurrence of the nearest following sign present in the list.
func successorIndex(list []Sign, s Sign) int {
	next := s.Next()
	for n := 0; n < NumSigns-1; n++ {
		if idx := indexOf(list, next, 0); idx >= 0 {
			return idx
		}
		next = next.Next()
	}
	return -1
}

func indexOf(list []Sign, s Sign, from int) int {
	for i := from; i < len(list); i++ {
		if list[i] == s {
			return i
		}
	}
	return -1
}

// Ring is the Ascendant-anchored sign ring of a chart.
type Ring struct {
	Ascendant float64           // ecliptic longitude of the Ascendant
	Signs     [NumSigns]Sign    // Signs[0] is the Ascendant's sign
	Start     [NumSigns]float64 // chart-frame degree where each sector starts
}

// NewRing builds the sign ring from the Ascendant and the cusp signs.
func NewRing(asc float64, cuspSigns [NumSigns]Sign) (Ring, error) {
	reconciled, err := ReconcileHouseSigns(cuspSigns)
	if err != nil {
		return Ring{}, err
	}

	asc = angle.Normalize(asc)
	r := Ring{Ascendant: asc, Signs: reconciled}

	ascOffset := math.Mod(asc, SignWidth)
	for k := 0; k < NumSigns; k++ {
		r.Start[k] = angle.Normalize(ChartAscendantDegree - ascOffset + SignWidth*float64(k))
	}
	return r, nil
}

// Index returns the ring position of a sign, or -1.
func (r Ring) Index(s Sign) int {
	for k, rs := range r.Signs {
		if rs == s {
			return k
		}
	}
	return -1
}

// Degree returns the chart-frame absolute degree of an ecliptic longitude:
// its offset within its sign added to the start of that sign's sector.
func (r Ring) Degree(lon float64) float64 {
	offset, sign := PositionToSign(lon)
	k := r.Index(sign)
	if k < 0 {
		return r.Rotate(lon)
	}
	return angle.Normalize(offset + r.Start[k])
}

// Rotate moves an ecliptic longitude into the chart frame directly.
func (r Ring) Rotate(lon float64) float64 {
	return angle.Normalize(lon - r.Ascendant + ChartAscendantDegree)
}

// CuspDegree returns the chart-frame degree of a house cusp.
func (r Ring) CuspDegree(cusp float64) float64 {
	return r.Rotate(cusp)
}
