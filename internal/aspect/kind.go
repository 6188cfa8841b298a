// Package aspect classifies angular separations between chart points into
// named aspects and orders the results into per-point lists.
package aspect

import (
	"fmt"
	"math/bits"
	"strings"
)

// Kind is an aspect kind. The constants after None are in table order: the
// first matching kind in that order wins a classification.
type Kind int

const (
	None Kind = iota
	Conjunction
	SemiSextile
	SemiSquare
	Sextile
	Quintile
	Square
	Trine
	Sesquiquadrate
	BiQuintile
	Quincunx
	Opposite
)

// NumKinds is the number of named aspect kinds, None excluded.
const NumKinds = 11

type kindInfo struct {
	name   string
	symbol string
	exact  float64
}

var kinds = [NumKinds + 1]kindInfo{
	None:           {"None", " ", 0},
	Conjunction:    {"Conjunction", "☌", 0},
	SemiSextile:    {"Semi-Sextile", "⚺", 30},
	SemiSquare:     {"Semi-Square", "∠", 45},
	Sextile:        {"Sextile", "⚹", 60},
	Quintile:       {"Quintile", "Q", 72},
	Square:         {"Square", "□", 90},
	Trine:          {"Trine", "△", 120},
	Sesquiquadrate: {"Sesquiquadrate", "⚼", 135},
	BiQuintile:     {"BiQuintile", "bQ", 144},
	Quincunx:       {"Quincunx", "⚻", 150},
	Opposite:       {"Opposite", "☍", 180},
}

// Kinds returns the named kinds in table order.
func Kinds() []Kind {
	out := make([]Kind, NumKinds)
	for i := range out {
		out[i] = Kind(i + 1)
	}
	return out
}

// Valid reports whether k is None or a named kind.
func (k Kind) Valid() bool {
	return k >= None && k <= Opposite
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// Symbol returns the aspect glyph. None renders as a blank.
func (k Kind) Symbol() string {
	if !k.Valid() {
		return "?"
	}
	return kinds[k].symbol
}

// Angle returns the exact aspect angle in degrees.
func (k Kind) Angle() float64 {
	if !k.Valid() {
		return 0
	}
	return kinds[k].exact
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func squash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// ParseKind looks a kind up by name. Case, spaces, hyphens and underscores
// are ignored, so "semi-sextile" and "SemiSextile" both work.
func ParseKind(s string) (Kind, error) {
	want := squash(s)
	for k := range kinds {
		if squash(kinds[k].name) == want {
			return Kind(k), nil
		}
	}
	switch want {
	case "opposition":
		return Opposite, nil
	case "inconjunct":
		return Quincunx, nil
	case "sesquisquare":
		return Sesquiquadrate, nil
	}
	return None, fmt.Errorf("unknown aspect %q", s)
}

// Set is a set of named aspect kinds.
type Set uint32

// AllKinds returns the set of every named kind.
func AllKinds() Set {
	var s Set
	for _, k := range Kinds() {
		s = s.With(k)
	}
	return s
}

// NewSet builds a set from kinds. None is ignored.
func NewSet(ks ...Kind) Set {
	var s Set
	for _, k := range ks {
		s = s.With(k)
	}
	return s
}

// With returns s with k added.
func (s Set) With(k Kind) Set {
	if k <= None || k > Opposite {
		return s
	}
	return s | 1<<uint(k)
}

// Without returns s with k removed.
func (s Set) Without(k Kind) Set {
	if k <= None || k > Opposite {
		return s
	}
	return s &^ (1 << uint(k))
}

// Toggle flips membership of k.
func (s Set) Toggle(k Kind) Set {
	if s.Has(k) {
		return s.Without(k)
	}
	return s.With(k)
}

// Has reports whether k is in the set. None is never a member.
func (s Set) Has(k Kind) bool {
	if k <= None || k > Opposite {
		return false
	}
	return s&(1<<uint(k)) != 0
}

// Len returns the number of kinds in the set.
func (s Set) Len() int {
	return bits.OnesCount32(uint32(s & AllKindsMask))
}

// AllKindsMask masks the bits a Set may use.
const AllKindsMask Set = (1<<(NumKinds+1) - 1) &^ 1

// Kinds returns the members in table order.
func (s Set) Kinds() []Kind {
	var out []Kind
	for _, k := range Kinds() {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s Set) String() string {
	if s&AllKindsMask == AllKindsMask {
		return "all"
	}
	names := make([]string, 0, NumKinds)
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ",")
}

// ParseSet parses a comma-separated list of kind names. "all" selects every
// kind and "none" or an empty string selects nothing.
func ParseSet(csv string) (Set, error) {
	var s Set
	for _, part := range strings.Split(csv, ",") {
		switch squash(part) {
		case "":
			continue
		case "all":
			s |= AllKindsMask
			continue
		case "none":
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return 0, err
		}
		s = s.With(k)
	}
	return s, nil
}
