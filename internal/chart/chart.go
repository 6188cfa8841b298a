// Package chart builds a natal chart from a birth moment and place: house
// cusps, the sign ring, point positions, aspects and midpoints.
package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-natal/internal/angle"
	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/civil"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// NumHouses is the number of houses.
const NumHouses = 12

// Role marks the four angular cusps.
type Role string

const (
	RoleNone Role = ""
	RoleAsc  Role = "Asc"
	RoleIC   Role = "IC"
	RoleDsc  Role = "Dsc"
	RoleMC   Role = "MC"
)

// roleOf returns the role of a 1-based house number.
func roleOf(house int) Role {
	switch house {
	case 1:
		return RoleAsc
	case 4:
		return RoleIC
	case 7:
		return RoleDsc
	case 10:
		return RoleMC
	default:
		return RoleNone
	}
}

// Info describes when and where a chart is cast.
type Info struct {
	Input     Input
	DST       bool
	CivilHour int     // hour after the DST adjustment
	UTCOffset int     // hours east of Greenwich
	UTCHour   float64 // fractional universal hour, may fall outside [0, 24)
	JulianDay float64 // the chart's time key, delta-T included
	Sidereal  float64 // local sidereal time in hours, [0, 24)

	Ephemeris   string // gateway name
	HouseSystem string // empty when the gateway does not say
}

// HouseCusp is one house boundary.
type HouseCusp struct {
	Number    int
	Longitude float64
	Offset    float64 // degrees into Sign
	Sign      zodiac.Sign
	Role      Role
	Degree    float64 // chart frame
}

// Position is a chart point placed in the zodiac and the chart frame.
type Position struct {
	Point     ephem.Point
	Longitude float64
	Sign      zodiac.Sign
	Offset    float64
	Degree    float64
	House     int
}

// Chart is the immutable result of one Build call.
type Chart struct {
	Info    Info
	Options Options
	Houses  [NumHouses]HouseCusp
	Ring    zodiac.Ring
	Points  [ephem.NumPoints]Position

	// Aspects holds every classified ordered pair in direct-aspect mode and
	// Grid the per-point lists built from them. Both are empty in
	// midpoint mode.
	Aspects []aspect.Record
	Grid    aspect.Grid

	Midpoints       []aspect.Midpoint
	MidpointAspects []aspect.MidpointAspect

	OrbTable   string
	ComputedAt time.Time
}

// Degrees returns the chart-frame degree of every point.
func (c *Chart) Degrees() aspect.Degrees {
	var d aspect.Degrees
	for i, p := range c.Points {
		d[i] = p.Degree
	}
	return d
}

// Position returns the position of a point.
func (c *Chart) Position(p ephem.Point) Position {
	if !p.Valid() {
		return Position{Point: p}
	}
	return c.Points[p]
}

// Visible returns the direct-aspect records whose kind is enabled.
func (c *Chart) Visible() []aspect.Record {
	var out []aspect.Record
	for _, r := range c.Aspects {
		if c.Options.Aspects.Has(r.Kind) {
			out = append(out, r)
		}
	}
	return out
}

// VisibleMidpoints returns the midpoint aspects whose kind is enabled.
func (c *Chart) VisibleMidpoints() []aspect.MidpointAspect {
	var out []aspect.MidpointAspect
	for _, a := range c.MidpointAspects {
		if c.Options.Aspects.Has(a.Kind) {
			out = append(out, a)
		}
	}
	return out
}

// AspectGrid returns the per-point ordered aspect lists.
func (c *Chart) AspectGrid() aspect.Grid {
	return c.Grid
}

// Ascendant returns the Ascendant longitude.
func (c *Chart) Ascendant() float64 {
	return c.Houses[0].Longitude
}

// Midheaven returns the Medium Coeli longitude.
func (c *Chart) Midheaven() float64 {
	return c.Houses[9].Longitude
}

// Builder casts charts against one ephemeris gateway. A Builder holds no
// per-chart state and may be shared.
type Builder struct {
	gateway ephem.Gateway
	logger  *logging.Logger
	orbs    map[aspect.Kind]float64
	now     func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithOrbs overrides symmetric orbs per kind for every chart.
func WithOrbs(orbs map[aspect.Kind]float64) BuilderOption {
	return func(b *Builder) {
		b.orbs = make(map[aspect.Kind]float64, len(orbs))
		for k, v := range orbs {
			b.orbs[k] = v
		}
	}
}

// WithClock sets the clock used for Chart.ComputedAt.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a chart builder.
func NewBuilder(gw ephem.Gateway, opts ...BuilderOption) *Builder {
	b := &Builder{
		gateway: gw,
		logger:  logging.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Gateway returns the ephemeris gateway.
func (b *Builder) Gateway() ephem.Gateway {
	return b.gateway
}

// Table returns the orb table opts select, with the builder's overrides.
func (b *Builder) Table(opts Options) (aspect.OrbTable, error) {
	table, err := aspect.ParseTable(opts.Orbs)
	if err != nil {
		return table, &FieldError{Field: "Orbs", Value: opts.Orbs, Reason: err.Error()}
	}
	table, err = table.WithOrbs(b.orbs)
	if err != nil {
		return table, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return table, nil
}

// Build casts a chart. Input and options are checked before the gateway is
// queried; any failure returns no chart.
func (b *Builder) Build(in Input, opts Options) (*Chart, error) {
	start := time.Now()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	table, err := b.Table(opts)
	if err != nil {
		return nil, err
	}

	res, err := civil.Resolve(in.Hour, in.Minute, in.Longitude, opts.DST)
	if err != nil {
		return nil, err
	}

	gw := b.gateway
	jd := civil.JulianDay(gw, in.Year, in.Month, in.Day, res.UTCFraction)

	c := &Chart{
		Info: Info{
			Input:     in,
			DST:       opts.DST,
			CivilHour: res.CivilHour,
			UTCOffset: res.OffsetHours,
			UTCHour:   res.UTCFraction,
			JulianDay: jd,
			Sidereal:  localSidereal(gw.SiderealTime(jd), in.Longitude),
			Ephemeris: gw.Name(),
		},
		Options:  opts,
		OrbTable: table.Name(),
	}
	if r, ok := gw.(ephem.HouseSystemReporter); ok {
		c.Info.HouseSystem = r.HouseSystem(jd, in.Latitude, in.Longitude).String()
	}

	cusps, err := gw.Houses(jd, in.Latitude, in.Longitude)
	if err != nil {
		return nil, fmt.Errorf("house cusps from %s: %w", gw.Name(), err)
	}

	var longitudes [ephem.NumPoints]float64
	for _, p := range ephem.Bodies() {
		lon, err := gw.Longitude(jd, p)
		if err != nil {
			return nil, fmt.Errorf("%s longitude from %s: %w", p, gw.Name(), err)
		}
		longitudes[p] = angle.Normalize(lon)
	}
	for i := range cusps {
		cusps[i] = angle.Normalize(cusps[i])
	}
	longitudes[ephem.Ascendant] = cusps[0]
	longitudes[ephem.MediumCoeli] = cusps[9]

	var cuspSigns [zodiac.NumSigns]zodiac.Sign
	for i, lon := range cusps {
		offset, sign := zodiac.PositionToSign(lon)
		cuspSigns[i] = sign
		c.Houses[i] = HouseCusp{
			Number:    i + 1,
			Longitude: lon,
			Offset:    offset,
			Sign:      sign,
			Role:      roleOf(i + 1),
		}
	}

	ring, err := zodiac.NewRing(cusps[0], cuspSigns)
	if err != nil {
		return nil, fmt.Errorf("house signs %v: %w", cuspSigns, err)
	}
	c.Ring = ring
	for i := range c.Houses {
		c.Houses[i].Degree = ring.CuspDegree(c.Houses[i].Longitude)
	}

	for p := ephem.Sun; p <= ephem.MediumCoeli; p++ {
		offset, sign := zodiac.PositionToSign(longitudes[p])
		c.Points[p] = Position{
			Point:     p,
			Longitude: longitudes[p],
			Sign:      sign,
			Offset:    offset,
			Degree:    ring.Degree(longitudes[p]),
			House:     houseOf(cusps, longitudes[p]),
		}
	}

	deg := c.Degrees()
	if opts.Midpoints {
		c.Midpoints, c.MidpointAspects = aspect.Midpoints(deg, opts.MidpointFrom, opts.MidpointTo, table)
	} else {
		c.Aspects = aspect.DirectAspects(deg, table)
	}
	c.Grid = aspect.Order(c.Aspects)
	c.ComputedAt = b.now()

	b.logger.Debug("chart %04d-%02d-%02d %02d:%02d lat=%.4f lon=%.4f jd=%.6f via %s in %v",
		in.Year, in.Month, in.Day, in.Hour, in.Minute, in.Latitude, in.Longitude,
		jd, gw.Name(), time.Since(start))

	return c, nil
}

// localSidereal converts Greenwich sidereal hours to local hours in [0, 24).
func localSidereal(gst, lon float64) float64 {
	lst := math.Mod(gst+lon/15, 24)
	if lst < 0 {
		lst += 24
	}
	if lst >= 24 {
		lst = 0
	}
	return lst
}

// houseOf returns the 1-based house containing lon. Each house runs from
// its cusp up to, not including, the next cusp.
func houseOf(cusps [NumHouses]float64, lon float64) int {
	for i := 0; i < NumHouses; i++ {
		next := cusps[(i+1)%NumHouses]
		width := angle.Normalize(next - cusps[i])
		if angle.Normalize(lon-cusps[i]) < width {
			return i + 1
		}
	}
	return 1
}
