// Package zodiac maps ecliptic longitudes onto the twelve signs and builds
// the Ascendant-anchored sign ring of a chart.
package zodiac

import (
	"fmt"
	"math"

	"github.com/litescript/ls-natal/internal/angle"
)

// Sign is a zodiac sign in canonical order starting at Aries.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// NumSigns is the number of zodiac signs.
const NumSigns = 12

// SignWidth is the ecliptic span of one sign in degrees.
const SignWidth = 30.0

// Element is the classical element of a sign.
type Element string

const (
	Fire  Element = "fire"
	Earth Element = "earth"
	Air   Element = "air"
	Water Element = "water"
)

type signInfo struct {
	name  string
	glyph string
}

var signs = [NumSigns]signInfo{
	{"Aries", "♈"},
	{"Taurus", "♉"},
	{"Gemini", "♊"},
	{"Cancer", "♋"},
	{"Leo", "♌"},
	{"Virgo", "♍"},
	{"Libra", "♎"},
	{"Scorpio", "♏"},
	{"Sagittarius", "♐"},
	{"Capricorn", "♑"},
	{"Aquarius", "♒"},
	{"Pisces", "♓"},
}

// Valid reports whether s is one of the twelve signs.
func (s Sign) Valid() bool {
	return s >= Aries && s <= Pisces
}

// String returns the sign name.
func (s Sign) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signs[s].name
}

// Glyph returns the sign glyph.
func (s Sign) Glyph() string {
	if !s.Valid() {
		return "?"
	}
	return signs[s].glyph
}

// Element returns the classical element; signs cycle fire, earth, air, water.
func (s Sign) Element() Element {
	switch int(s) % 4 {
	case 0:
		return Fire
	case 1:
		return Earth
	case 2:
		return Air
	default:
		return Water
	}
}

// Start returns the ecliptic longitude where the sign begins.
func (s Sign) Start() float64 {
	return float64(s) * SignWidth
}

// Next returns the following sign, wrapping Pisces to Aries.
func (s Sign) Next() Sign {
	return Sign((int(s) + 1) % NumSigns)
}

// Prev returns the preceding sign, wrapping Aries to Pisces.
func (s Sign) Prev() Sign {
	return Sign((int(s) + NumSigns - 1) % NumSigns)
}

// PositionToSign returns the sign containing a longitude and the offset
// within it. Intervals are half-open: exactly 30k belongs to the sign that
// starts at 30k.
func PositionToSign(lon float64) (float64, Sign) {
	n := angle.Normalize(lon)
	idx := int(math.Floor(n / SignWidth))
	if idx >= NumSigns {
		idx = NumSigns - 1
	}
	offset := n - float64(idx)*SignWidth
	if offset < 0 {
		offset = 0
	}
	return offset, Sign(idx)
}
