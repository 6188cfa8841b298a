// Package ephem provides the ephemeris behind a chart: Julian days, sidereal
// time, house cusps and the ecliptic longitudes of the chart bodies.
package ephem

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-natal/internal/astro"
)

// Gateway is the narrow numeric interface a chart needs from an ephemeris.
// All angles are degrees, Julian days are in the chart's single time scale.
type Gateway interface {
	// Name returns the gateway name for display/logging.
	Name() string

	// JulianDay returns the Julian day of a calendar date at a fractional
	// universal hour.
	JulianDay(year, month, day int, utcHour float64) float64

	// DeltaT returns TT - UT in days.
	DeltaT(jd float64) float64

	// SiderealTime returns Greenwich sidereal time in hours.
	SiderealTime(jd float64) float64

	// Houses returns the twelve house cusps, index 0 holding house 1.
	Houses(jd, lat, lon float64) ([12]float64, error)

	// Longitude returns the geocentric ecliptic longitude of a body.
	Longitude(jd float64, p Point) (float64, error)
}

// LongitudeSource supplies body longitudes only. Remote sources implement
// this and leave time and house math to a local gateway.
type LongitudeSource interface {
	Name() string
	Longitude(jd float64, p Point) (float64, error)

	// Available returns true if this source can supply the point.
	Available(p Point) bool
}

// HouseSystemReporter is implemented by gateways that can say which house
// system produced the last cusps for a site.
type HouseSystemReporter interface {
	HouseSystem(jd, lat, lon float64) astro.HouseSystem
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeAnalytic Mode = iota // Closed-form theories only, no network
	ModeHorizons             // JPL Horizons for every body it serves
	ModeAuto                 // Try Horizons, fall back to analytic
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAnalytic:
		return "analytic"
	case ModeHorizons:
		return "horizons"
	case ModeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "analytic", "local", "":
		return ModeAnalytic, nil
	case "horizons":
		return ModeHorizons, nil
	case "auto":
		return ModeAuto, nil
	default:
		return ModeAnalytic, fmt.Errorf("unknown ephemeris mode %q", s)
	}
}
