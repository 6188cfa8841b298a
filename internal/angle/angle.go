// Package angle provides circular degree arithmetic and sexagesimal formatting.
package angle

import (
	"fmt"
	"math"
)

// Normalize reduces a degree value of any magnitude into [0, 360).
func Normalize(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// math.Mod of a tiny negative value plus 360 rounds up to 360.
	if a >= 360 {
		a = 0
	}
	return a
}

// Separation returns |a - b| of the normalized inputs, in [0, 360).
func Separation(a, b float64) float64 {
	return math.Abs(Normalize(a) - Normalize(b))
}

// Distance returns the shortest arc between a and b, in [0, 180].
func Distance(a, b float64) float64 {
	d := Separation(a, b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// DMS is an angle split into whole degrees, arc-minutes and arc-seconds.
type DMS struct {
	Degrees int `json:"degrees"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// ToDMS converts a degree value into degrees, minutes and rounded seconds.
// A rounded second of 60 carries into the minute, a minute of 60 into the
// degree, and a full circle wraps to zero.
func ToDMS(a float64) DMS {
	a = Normalize(a)

	deg := math.Floor(a)
	minFrac := (a - deg) * 60
	min := math.Floor(minFrac)
	sec := math.Round((minFrac - min) * 60)

	d := DMS{Degrees: int(deg), Minutes: int(min), Seconds: int(sec)}
	if d.Seconds >= 60 {
		d.Seconds -= 60
		d.Minutes++
	}
	if d.Minutes >= 60 {
		d.Minutes -= 60
		d.Degrees++
	}
	if d.Degrees >= 360 {
		d.Degrees -= 360
	}
	return d
}

// FromDMS converts degrees, minutes and seconds back into decimal degrees.
func FromDMS(d DMS) float64 {
	return float64(d.Degrees) + float64(d.Minutes)/60 + float64(d.Seconds)/3600
}

// String formats d as 12° 34' 56".
func (d DMS) String() string {
	return fmt.Sprintf("%d° %02d' %02d\"", d.Degrees, d.Minutes, d.Seconds)
}

// Clock formats d as 12:34:56, used for hour-valued quantities.
func (d DMS) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Degrees, d.Minutes, d.Seconds)
}

// HoursToDMS splits an hour value in [0, 24) the same way ToDMS splits degrees.
func HoursToDMS(h float64) DMS {
	h = math.Mod(h, 24)
	if h < 0 {
		h += 24
	}
	// Reuse the degree split; 24h never reaches the 360 wrap.
	d := ToDMS(h)
	if d.Degrees >= 24 {
		d.Degrees -= 24
	}
	return d
}
