package aspect

import (
	"fmt"
	"math"
	"strings"

	"github.com/litescript/ls-natal/internal/angle"
)

// Table names accepted by ParseTable.
const (
	TableSymmetric = "symmetric"
	TableLegacy    = "legacy"
)

// DefaultOrbs are the symmetric orbs in degrees, indexed by kind.
var DefaultOrbs = map[Kind]float64{
	Conjunction:    10,
	SemiSextile:    2,
	SemiSquare:     2,
	Sextile:        10,
	Quintile:       2,
	Square:         10,
	Trine:          10,
	Sesquiquadrate: 2,
	BiQuintile:     2,
	Quincunx:       3,
	Opposite:       10,
}

// band is an open interval (lo, hi) of raw separations.
type band struct {
	lo, hi float64
}

func (b band) contains(sep float64) bool {
	return sep > b.lo && sep < b.hi
}

// legacyBands reproduces the historical open-interval bands, including the
// lopsided upper Semi-Square and BiQuintile windows.
var legacyBands = [NumKinds + 1][]band{
	Conjunction:    {{0, 10}, {350, 360}},
	SemiSextile:    {{28, 32}, {328, 332}},
	SemiSquare:     {{43, 47}, {313, 347}},
	Sextile:        {{50, 70}, {290, 310}},
	Quintile:       {{70, 74}, {286, 290}},
	Square:         {{80, 100}, {260, 280}},
	Trine:          {{110, 130}, {230, 250}},
	Sesquiquadrate: {{133, 137}, {223, 227}},
	BiQuintile:     {{142, 146}, {202, 206}},
	Quincunx:       {{147, 153}, {207, 213}},
	Opposite:       {{170, 190}},
}

// OrbTable classifies separations into aspect kinds. The zero value is not
// usable; start from Symmetric or Legacy.
type OrbTable struct {
	name   string
	legacy bool
	orbs   [NumKinds + 1]float64
}

// Symmetric returns the default table: a separation matches a kind when its
// folded value lies strictly within the kind's orb of the exact angle.
func Symmetric() OrbTable {
	t := OrbTable{name: TableSymmetric}
	for k, orb := range DefaultOrbs {
		t.orbs[k] = orb
	}
	return t
}

// Legacy returns the historical band table.
func Legacy() OrbTable {
	t := Symmetric()
	t.name = TableLegacy
	t.legacy = true
	return t
}

// ParseTable returns the built-in table with the given name.
func ParseTable(name string) (OrbTable, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case TableSymmetric, "":
		return Symmetric(), nil
	case TableLegacy:
		return Legacy(), nil
	default:
		return OrbTable{}, fmt.Errorf("unknown orb table %q (want %s or %s)", name, TableSymmetric, TableLegacy)
	}
}

// Name returns the table name.
func (t OrbTable) Name() string {
	return t.name
}

// IsLegacy reports whether the table uses the historical bands.
func (t OrbTable) IsLegacy() bool {
	return t.legacy
}

// Orb returns the symmetric orb of a kind.
func (t OrbTable) Orb(k Kind) float64 {
	if k <= None || k > Opposite {
		return 0
	}
	return t.orbs[k]
}

// WithOrbs returns a copy of the table with the given orbs replaced.
// Non-positive and non-finite orbs are rejected. Legacy bands are fixed, so
// overrides only take effect on a symmetric table.
func (t OrbTable) WithOrbs(overrides map[Kind]float64) (OrbTable, error) {
	for k, orb := range overrides {
		if k <= None || k > Opposite {
			return t, fmt.Errorf("orb override for invalid aspect %v", k)
		}
		if math.IsNaN(orb) || math.IsInf(orb, 0) || orb <= 0 || orb >= 90 {
			return t, fmt.Errorf("orb %v for %s out of range (0, 90)", orb, k)
		}
		t.orbs[k] = orb
	}
	return t, nil
}

// Fold maps a separation in [0, 360) onto [0, 180] so windows mirror
// around 360.
func Fold(sep float64) float64 {
	if sep > 180 {
		return 360 - sep
	}
	return sep
}

// Classify returns the first kind in table order whose window contains sep,
// or None.
func (t OrbTable) Classify(sep float64) Kind {
	sep = math.Abs(sep)
	if math.IsNaN(sep) || math.IsInf(sep, 0) {
		return None
	}
	if t.legacy {
		return classifyLegacy(sep)
	}
	if sep >= 360 {
		sep = angle.Normalize(sep)
	}
	folded := Fold(sep)
	for k := Conjunction; k <= Opposite; k++ {
		if math.Abs(folded-k.Angle()) < t.orbs[k] {
			return k
		}
	}
	return None
}

func classifyLegacy(sep float64) Kind {
	for k := Conjunction; k <= Opposite; k++ {
		for _, b := range legacyBands[k] {
			if b.contains(sep) {
				return k
			}
		}
	}
	return None
}
