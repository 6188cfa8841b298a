package ephem

import (
	"math"
	"testing"

	"github.com/litescript/ls-natal/internal/astro"
)

func TestAnalytic_ImplementsInterfaces(t *testing.T) {
	var _ Gateway = NewAnalytic()
	var _ LongitudeSource = NewAnalytic()
	var _ HouseSystemReporter = NewAnalytic()
	var _ LongitudeSource = NewHorizonsProvider()
	var _ Gateway = NewComposite(NewAnalytic(), NewHorizonsProvider(), true, nil)
}

func TestAnalytic_AllBodies(t *testing.T) {
	a := NewAnalytic()
	for _, p := range Bodies() {
		lon, err := a.Longitude(astro.J2000, p)
		if err != nil {
			t.Errorf("Longitude(%s) error: %v", p, err)
			continue
		}
		if lon < 0 || lon >= 360 {
			t.Errorf("Longitude(%s) = %v, out of [0, 360)", p, lon)
		}
	}
}

func TestAnalytic_DerivedPointsRejected(t *testing.T) {
	a := NewAnalytic()
	for _, p := range []Point{Ascendant, MediumCoeli, Point(42)} {
		if _, err := a.Longitude(astro.J2000, p); err == nil {
			t.Errorf("Longitude(%s) should fail", p)
		}
	}
}

func TestAnalytic_TimeAndHouses(t *testing.T) {
	a := NewAnalytic()

	if jd := a.JulianDay(2000, 1, 1, 12); jd != astro.J2000 {
		t.Errorf("JulianDay = %v, want %v", jd, astro.J2000)
	}
	if dt := a.DeltaT(astro.J2000) * 86400; math.Abs(dt-63.86) > 0.01 {
		t.Errorf("DeltaT = %v s, want 63.86", dt)
	}
	if st := a.SiderealTime(astro.J2000); st < 0 || st >= 24 {
		t.Errorf("SiderealTime = %v, out of range", st)
	}

	cusps, err := a.Houses(astro.J2000, 40.7, -74.0)
	if err != nil {
		t.Fatalf("Houses error: %v", err)
	}
	if d := math.Abs(math.Mod(cusps[6]-cusps[0]+360, 360) - 180); d > 1e-9 {
		t.Errorf("Dsc is not opposite Asc: %v", cusps)
	}
	if sys := a.HouseSystem(astro.J2000, 40.7, -74.0); sys != astro.Placidus {
		t.Errorf("HouseSystem = %v, want Placidus", sys)
	}
}
