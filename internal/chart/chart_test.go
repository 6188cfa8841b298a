package chart

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-natal/internal/angle"
	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// fakeGateway serves fixed cusps and longitudes and counts queries.
type fakeGateway struct {
	cusps    [12]float64
	lons     map[ephem.Point]float64
	sidereal float64
	houseErr error
	lonErr   error
	calls    int
}

func newFakeGateway() *fakeGateway {
	g := &fakeGateway{
		sidereal: 6,
		lons: map[ephem.Point]float64{
			ephem.Sun:       10,
			ephem.Moon:      40,
			ephem.Mercury:   100,
			ephem.Venus:     190,
			ephem.Mars:      55,
			ephem.Jupiter:   250,
			ephem.Saturn:    280,
			ephem.Uranus:    5,
			ephem.Neptune:   333,
			ephem.Pluto:     123,
			ephem.NorthNode: 200,
			ephem.Chiron:    75,
		},
	}
	for i := range g.cusps {
		g.cusps[i] = 15 + 30*float64(i)
	}
	return g
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) JulianDay(year, month, day int, utcHour float64) float64 {
	return astro.JulianDay(year, month, day, utcHour)
}

func (g *fakeGateway) DeltaT(jd float64) float64 { return 0 }

func (g *fakeGateway) SiderealTime(jd float64) float64 { return g.sidereal }

func (g *fakeGateway) Houses(jd, lat, lon float64) ([12]float64, error) {
	g.calls++
	return g.cusps, g.houseErr
}

func (g *fakeGateway) Longitude(jd float64, p ephem.Point) (float64, error) {
	g.calls++
	if g.lonErr != nil {
		return 0, g.lonErr
	}
	return g.lons[p], nil
}

func noon() Input {
	return Input{Year: 2000, Month: 1, Day: 1, Hour: 12, Minute: 0, Latitude: 0, Longitude: 0}
}

func TestBuild_InvalidInputBeforeGateway(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Input)
		field string
	}{
		{"month", func(in *Input) { in.Month = 13 }, "Month"},
		{"hour", func(in *Input) { in.Hour = 24 }, "Hour"},
		{"minute", func(in *Input) { in.Minute = -1 }, "Minute"},
		{"latitude", func(in *Input) { in.Latitude = 91 }, "Latitude"},
		{"longitude", func(in *Input) { in.Longitude = -181 }, "Longitude"},
		{"year", func(in *Input) { in.Year = 0 }, "Year"},
		{"february 30", func(in *Input) { in.Month, in.Day = 2, 30 }, "Day"},
		{"not a number", func(in *Input) { in.Latitude = math.NaN() }, "Latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway()
			in := noon()
			tt.edit(&in)

			c, err := NewBuilder(gw).Build(in, DefaultOptions())
			if c != nil {
				t.Error("partial chart returned")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Errorf("field error = %v, want field %s", err, tt.field)
			}
			if gw.calls != 0 {
				t.Errorf("gateway queried %d times before validation failed", gw.calls)
			}
		})
	}
}

func TestBuild_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Midpoints = true
	opts.MidpointFrom = []ephem.Point{ephem.Sun, ephem.Ascendant}
	opts.MidpointTo = []ephem.Point{ephem.Moon}

	if _, err := NewBuilder(newFakeGateway()).Build(noon(), opts); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("non-body midpoint selection: error = %v, want ErrInvalidInput", err)
	}

	opts = DefaultOptions()
	opts.Orbs = "wide"
	if _, err := NewBuilder(newFakeGateway()).Build(noon(), opts); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown orb table: error = %v, want ErrInvalidInput", err)
	}

	b := NewBuilder(newFakeGateway(), WithOrbs(map[aspect.Kind]float64{aspect.Trine: -2}))
	if _, err := b.Build(noon(), DefaultOptions()); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative orb: error = %v, want ErrInvalidInput", err)
	}
}

func TestBuild_GatewayErrors(t *testing.T) {
	sentinel := errors.New("ephemeris offline")

	gw := newFakeGateway()
	gw.houseErr = sentinel
	if _, err := NewBuilder(gw).Build(noon(), DefaultOptions()); !errors.Is(err, sentinel) {
		t.Errorf("house error = %v, want wrapped sentinel", err)
	}

	gw = newFakeGateway()
	gw.lonErr = sentinel
	c, err := NewBuilder(gw).Build(noon(), DefaultOptions())
	if !errors.Is(err, sentinel) || c != nil {
		t.Errorf("longitude error = %v, chart %v", err, c)
	}
}

func TestBuild_DegenerateSignMapping(t *testing.T) {
	gw := newFakeGateway()
	gw.cusps[1], gw.cusps[2] = gw.cusps[2], gw.cusps[1]

	_, err := NewBuilder(gw).Build(noon(), DefaultOptions())
	if !errors.Is(err, ErrDegenerateSignMapping) {
		t.Errorf("error = %v, want ErrDegenerateSignMapping", err)
	}
}

func TestBuild_Chart(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c, err := NewBuilder(newFakeGateway(), WithClock(func() time.Time { return fixed })).Build(noon(), DefaultOptions())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if c.Info.UTCOffset != 0 || c.Info.UTCHour != 12 {
		t.Errorf("offset %d, UTC hour %v; want 0 and 12", c.Info.UTCOffset, c.Info.UTCHour)
	}
	if math.Abs(c.Info.JulianDay-2451545.0) > 1e-9 {
		t.Errorf("JulianDay = %v, want 2451545.0", c.Info.JulianDay)
	}
	if c.Info.Sidereal != 6 {
		t.Errorf("Sidereal = %v, want 6", c.Info.Sidereal)
	}
	if !c.ComputedAt.Equal(fixed) {
		t.Errorf("ComputedAt = %v", c.ComputedAt)
	}

	// Houses
	roles := map[int]Role{1: RoleAsc, 4: RoleIC, 7: RoleDsc, 10: RoleMC, 2: RoleNone}
	for n, want := range roles {
		if got := c.Houses[n-1].Role; got != want {
			t.Errorf("house %d role = %q, want %q", n, got, want)
		}
	}
	if c.Houses[0].Sign != zodiac.Aries || c.Houses[0].Offset != 15 {
		t.Errorf("house 1 = %v %v, want Aries 15", c.Houses[0].Sign, c.Houses[0].Offset)
	}
	if c.Ring.Signs[0] != zodiac.Aries {
		t.Errorf("ring starts at %v", c.Ring.Signs[0])
	}

	// Chart frame
	asc := c.Position(ephem.Ascendant)
	if math.Abs(asc.Degree-180) > 1e-9 {
		t.Errorf("Ascendant degree = %v, want 180", asc.Degree)
	}
	mc := c.Position(ephem.MediumCoeli)
	if want := angle.Normalize(c.Midheaven() - c.Ascendant() + 180); math.Abs(mc.Degree-want) > 1e-9 {
		t.Errorf("MC degree = %v, want %v", mc.Degree, want)
	}
	sun := c.Position(ephem.Sun)
	if math.Abs(sun.Degree-175) > 1e-9 || sun.Sign != zodiac.Aries || sun.House != 12 {
		t.Errorf("Sun = %+v", sun)
	}
	if c.Position(ephem.Moon).House != 1 {
		t.Errorf("Moon house = %d, want 1", c.Position(ephem.Moon).House)
	}

	// Aspects
	if len(c.Aspects) != ephem.NumPoints*(ephem.NumPoints-1) {
		t.Errorf("got %d aspect records", len(c.Aspects))
	}
	if e, ok := c.AspectGrid().Lookup(ephem.Sun, ephem.Moon); !ok || e.Kind != aspect.SemiSextile {
		t.Errorf("Sun/Moon = %v, want Semi-Sextile", e.Kind)
	}
	if len(c.Grid[ephem.Ascendant]) != 0 || len(c.Grid[ephem.MediumCoeli]) != 0 {
		t.Error("Ascendant and MC lists must be empty")
	}
	if len(c.Midpoints) != 0 || len(c.MidpointAspects) != 0 {
		t.Error("direct mode produced midpoints")
	}
}

func TestBuild_TimeResolution(t *testing.T) {
	in := noon()
	in.Longitude = 50
	opts := DefaultOptions()
	opts.DST = true

	c, err := NewBuilder(newFakeGateway()).Build(in, opts)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if c.Info.UTCOffset != 4 {
		t.Errorf("UTCOffset = %d, want 4", c.Info.UTCOffset)
	}
	if c.Info.CivilHour != 11 || c.Info.UTCHour != 7 {
		t.Errorf("civil %d, UTC %v; want 11 and 7", c.Info.CivilHour, c.Info.UTCHour)
	}
	// 6h Greenwich + 50°/15
	if want := 6 + 50.0/15; math.Abs(c.Info.Sidereal-want) > 1e-9 {
		t.Errorf("Sidereal = %v, want %v", c.Info.Sidereal, want)
	}
}

func TestBuild_Visible(t *testing.T) {
	opts := DefaultOptions()
	opts.Aspects = aspect.NewSet(aspect.Square)

	c, err := NewBuilder(newFakeGateway()).Build(noon(), opts)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	visible := c.Visible()
	if len(visible) == 0 {
		t.Fatal("expected at least the Asc/MC square")
	}
	for _, r := range visible {
		if r.Kind != aspect.Square {
			t.Errorf("visible record %v->%v is %v", r.From, r.To, r.Kind)
		}
	}
}

func TestBuild_MidpointMode(t *testing.T) {
	opts := DefaultOptions()
	opts.Midpoints = true
	opts.MidpointFrom = []ephem.Point{ephem.Sun}
	opts.MidpointTo = []ephem.Point{ephem.Mars}

	c, err := NewBuilder(newFakeGateway()).Build(noon(), opts)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(c.Aspects) != 0 {
		t.Errorf("midpoint mode produced %d direct aspects", len(c.Aspects))
	}
	for p, list := range c.Grid {
		if len(list) != 0 {
			t.Errorf("%v has aspect list in midpoint mode", ephem.Point(p))
		}
	}
	if len(c.Midpoints) != ephem.NumPoints-1 {
		t.Errorf("got %d midpoints, want %d", len(c.Midpoints), ephem.NumPoints-1)
	}
	if len(c.MidpointAspects) != ephem.NumPoints-1 {
		t.Errorf("got %d midpoint aspects, want %d", len(c.MidpointAspects), ephem.NumPoints-1)
	}
}

func TestBuild_ChartsAreIndependent(t *testing.T) {
	b := NewBuilder(newFakeGateway())

	squares := DefaultOptions()
	squares.Aspects = aspect.NewSet(aspect.Square)
	first, err := b.Build(noon(), squares)
	if err != nil {
		t.Fatal(err)
	}

	later := noon()
	later.Day = 2
	second, err := b.Build(later, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if first.Options.Aspects != aspect.NewSet(aspect.Square) {
		t.Error("first chart's options changed")
	}
	if first.Info.Input.Day != 1 || second.Info.Input.Day != 2 {
		t.Error("chart inputs leaked between builds")
	}
	if second.Options.Aspects != aspect.AllKinds() {
		t.Error("second chart did not get its own options")
	}
}

func TestBuild_Analytic(t *testing.T) {
	in := Input{Year: 2000, Month: 1, Day: 1, Hour: 12, Minute: 0, Latitude: 51.5, Longitude: 0}
	c, err := NewBuilder(ephem.NewAnalytic()).Build(in, DefaultOptions())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if sun := c.Position(ephem.Sun).Longitude; math.Abs(sun-280.37) > 0.1 {
		t.Errorf("Sun longitude = %v, want ≈ 280.37", sun)
	}
	if c.Info.HouseSystem != "Placidus" {
		t.Errorf("HouseSystem = %q, want Placidus", c.Info.HouseSystem)
	}
	if d := c.Position(ephem.Ascendant).Degree; math.Abs(d-180) > 1e-9 {
		t.Errorf("Ascendant degree = %v", d)
	}
	for _, p := range c.Points {
		if p.Degree < 0 || p.Degree >= 360 || p.House < 1 || p.House > 12 {
			t.Errorf("%v out of range: %+v", p.Point, p)
		}
	}
}

func TestLocalSidereal(t *testing.T) {
	tests := []struct {
		gst, lon, want float64
	}{
		{6, 0, 6},
		{23, 30, 1},
		{1, -30, 23},
		{12, 180, 0},
	}
	for _, tt := range tests {
		if got := localSidereal(tt.gst, tt.lon); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("localSidereal(%v, %v) = %v, want %v", tt.gst, tt.lon, got, tt.want)
		}
	}
}

func TestInput_Add(t *testing.T) {
	in := Input{Year: 2023, Month: 12, Day: 31, Hour: 23, Minute: 30, Latitude: 10, Longitude: 20}
	got := in.Add(time.Hour)
	want := Input{Year: 2024, Month: 1, Day: 1, Hour: 0, Minute: 30, Latitude: 10, Longitude: 20}
	if got != want {
		t.Errorf("Add(1h) = %+v, want %+v", got, want)
	}
}

func TestExport(t *testing.T) {
	opts := DefaultOptions()
	opts.Aspects = aspect.NewSet(aspect.SemiSextile, aspect.Square)
	c, err := NewBuilder(newFakeGateway()).Build(noon(), opts)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	var buf bytes.Buffer
	if err := c.Export().WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var decoded ChartExport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Info.Date != "2000-01-01" || decoded.Info.Time != "12:00" {
		t.Errorf("info = %+v", decoded.Info)
	}
	if decoded.Info.Sidereal != "06:00:00" {
		t.Errorf("sidereal = %q", decoded.Info.Sidereal)
	}
	if len(decoded.Points) != ephem.NumPoints || len(decoded.Houses) != NumHouses || len(decoded.Signs) != zodiac.NumSigns {
		t.Errorf("points %d, houses %d, signs %d", len(decoded.Points), len(decoded.Houses), len(decoded.Signs))
	}
	if decoded.Points[0].Position != `10° 00' 00"` {
		t.Errorf("Sun position = %q", decoded.Points[0].Position)
	}
	for _, a := range decoded.Aspects {
		if a.Kind != "Semi-Sextile" && a.Kind != "Square" {
			t.Errorf("exported disabled aspect %+v", a)
		}
	}

	var found bool
	for _, a := range decoded.Aspects {
		if a.From == "Sun" && a.To == "Moon" {
			found = true
			// Sun 10, Moon 40: an exact semi-sextile
			if a.Orb > 1e-9 {
				t.Errorf("Sun/Moon orb = %v, want 0", a.Orb)
			}
		}
		if a.Orb < 0 || a.Orb > 10 {
			t.Errorf("orb out of range: %+v", a)
		}
		if a.From == "Moon" && a.To == "Sun" {
			t.Error("pair exported from the later point")
		}
	}
	if !found {
		t.Error("Sun/Moon semi-sextile not exported")
	}
}

func TestWriteSummary(t *testing.T) {
	c, err := NewBuilder(newFakeGateway()).Build(noon(), DefaultOptions())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	var buf bytes.Buffer
	WriteSummary(&buf, c)
	out := buf.String()

	for _, want := range []string{"Natal chart 2000-01-01 12:00", "Ephemeris fake", "Sun", "Medium Coeli", "Asc", "Aspects (all)", "Total:"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}

	opts := DefaultOptions()
	opts.Midpoints = true
	opts.MidpointFrom = []ephem.Point{ephem.Sun}
	opts.MidpointTo = []ephem.Point{ephem.Mars}
	c, err = NewBuilder(newFakeGateway()).Build(noon(), opts)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	buf.Reset()
	WriteSummary(&buf, c)
	if !strings.Contains(buf.String(), "Midpoint aspects") || !strings.Contains(buf.String(), "Sun/Moon") {
		t.Errorf("midpoint summary missing entries:\n%s", buf.String())
	}

	buf.Reset()
	WriteSummary(&buf, nil)
	if !strings.Contains(buf.String(), "No chart") {
		t.Error("nil chart summary")
	}
}
