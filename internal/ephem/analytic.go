package ephem

import (
	"fmt"

	"github.com/litescript/ls-natal/internal/astro"
)

// Analytic is an offline gateway backed by closed-form theories. It needs no
// network and is safe for concurrent use. Positions are good to roughly a
// tenth of a degree for the planets and a few degrees for Chiron; the lunar
// node is the mean node.
type Analytic struct{}

// NewAnalytic creates the offline gateway.
func NewAnalytic() *Analytic {
	return &Analytic{}
}

// Name implements Gateway.
func (a *Analytic) Name() string {
	return "Analytic"
}

// JulianDay implements Gateway.
func (a *Analytic) JulianDay(year, month, day int, utcHour float64) float64 {
	return astro.JulianDay(year, month, day, utcHour)
}

// DeltaT implements Gateway.
func (a *Analytic) DeltaT(jd float64) float64 {
	return astro.DeltaT(jd)
}

// SiderealTime implements Gateway.
func (a *Analytic) SiderealTime(jd float64) float64 {
	return astro.GreenwichSiderealTime(jd)
}

// Houses implements Gateway.
func (a *Analytic) Houses(jd, lat, lon float64) ([12]float64, error) {
	cusps, _ := astro.HouseCusps(jd, lat, lon)
	return cusps, nil
}

// HouseSystem implements HouseSystemReporter.
func (a *Analytic) HouseSystem(jd, lat, lon float64) astro.HouseSystem {
	_, system := astro.HouseCusps(jd, lat, lon)
	return system
}

// Longitude implements Gateway and LongitudeSource.
func (a *Analytic) Longitude(jd float64, p Point) (float64, error) {
	switch p {
	case Sun:
		return astro.SunLongitude(jd), nil
	case Moon:
		return astro.MoonLongitude(jd), nil
	case NorthNode:
		return astro.MeanNode(jd), nil
	}

	info := p.Info()
	if !info.Kepler {
		return 0, fmt.Errorf("analytic ephemeris has no theory for %s", p)
	}
	return astro.GeocentricLongitude(info.Planet, jd)
}

// Available implements LongitudeSource.
func (a *Analytic) Available(p Point) bool {
	return p.IsBody()
}
