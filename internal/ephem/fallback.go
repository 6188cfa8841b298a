package ephem

import (
	"fmt"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/logging"
)

// Composite combines a local gateway for time and house math with a
// preferred longitude source. Points the source does not serve always come
// from the local gateway; when fallback is enabled, source errors do too.
type Composite struct {
	local    Gateway
	source   LongitudeSource
	fallback bool
	logger   *logging.Logger
}

// NewComposite creates a gateway that asks source first.
func NewComposite(local Gateway, source LongitudeSource, fallback bool, logger *logging.Logger) *Composite {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Composite{
		local:    local,
		source:   source,
		fallback: fallback,
		logger:   logger,
	}
}

// Name implements Gateway.
func (c *Composite) Name() string {
	if c.fallback {
		return fmt.Sprintf("%s+%s", c.source.Name(), c.local.Name())
	}
	return c.source.Name()
}

// JulianDay implements Gateway.
func (c *Composite) JulianDay(year, month, day int, utcHour float64) float64 {
	return c.local.JulianDay(year, month, day, utcHour)
}

// DeltaT implements Gateway.
func (c *Composite) DeltaT(jd float64) float64 {
	return c.local.DeltaT(jd)
}

// SiderealTime implements Gateway.
func (c *Composite) SiderealTime(jd float64) float64 {
	return c.local.SiderealTime(jd)
}

// Houses implements Gateway.
func (c *Composite) Houses(jd, lat, lon float64) ([12]float64, error) {
	return c.local.Houses(jd, lat, lon)
}

// HouseSystem implements HouseSystemReporter when the local gateway does.
func (c *Composite) HouseSystem(jd, lat, lon float64) astro.HouseSystem {
	if r, ok := c.local.(HouseSystemReporter); ok {
		return r.HouseSystem(jd, lat, lon)
	}
	return astro.Placidus
}

// Longitude implements Gateway.
func (c *Composite) Longitude(jd float64, p Point) (float64, error) {
	if !c.source.Available(p) {
		return c.local.Longitude(jd, p)
	}

	lon, err := c.source.Longitude(jd, p)
	if err == nil {
		return lon, nil
	}
	if !c.fallback {
		return 0, err
	}

	c.logger.Warn("%s longitude for %s failed, using %s: %v", c.source.Name(), p, c.local.Name(), err)
	return c.local.Longitude(jd, p)
}

// New builds the gateway for a mode. A nil source defaults to Horizons.
func New(mode Mode, source LongitudeSource, logger *logging.Logger) Gateway {
	local := NewAnalytic()
	if source == nil {
		source = NewHorizonsProvider()
	}
	switch mode {
	case ModeHorizons:
		return NewComposite(local, source, false, logger)
	case ModeAuto:
		return NewComposite(local, source, true, logger)
	default:
		return local
	}
}
