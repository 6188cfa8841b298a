package astro

import (
	"errors"
	"math"
	"testing"
)

// altitudeOf returns the altitude of an ecliptic longitude for a sidereal
// angle and latitude, and whether it lies east of the meridian.
func altitudeOf(lon, ramc, eps, lat float64) (alt float64, east bool) {
	ra := radToDeg(math.Atan2(sinDeg(lon)*cosDeg(eps), cosDeg(lon)))
	dec := radToDeg(math.Asin(sinDeg(eps) * sinDeg(lon)))
	ha := ramc - ra
	sinAlt := sinDeg(lat)*sinDeg(dec) + cosDeg(lat)*cosDeg(dec)*cosDeg(ha)
	return radToDeg(math.Asin(sinAlt)), sinDeg(ha) < 0
}

func TestMidheaven(t *testing.T) {
	tests := []struct {
		ramc float64
		want float64
	}{
		{0, 0},
		{90, 90},
		{180, 180},
		{270, 270},
	}
	for _, tt := range tests {
		if got := Midheaven(tt.ramc, 23.44); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Midheaven(%v) = %v, want %v", tt.ramc, got, tt.want)
		}
	}
}

func TestAscendant_OnEasternHorizon(t *testing.T) {
	const eps = 23.4393
	for _, lat := range []float64{-60, -33.9, 0, 40.7, 51.5, 65} {
		for ramc := 0.0; ramc < 360; ramc += 17 {
			asc := Ascendant(ramc, eps, lat)
			alt, east := altitudeOf(asc, ramc, eps, lat)
			if math.Abs(alt) > 1e-6 {
				t.Errorf("lat=%v ramc=%v: Ascendant altitude = %v, want 0", lat, ramc, alt)
			}
			if !east {
				t.Errorf("lat=%v ramc=%v: Ascendant %v is not east", lat, ramc, asc)
			}
		}
	}
}

func TestAscendant_Equator(t *testing.T) {
	if got := Ascendant(0, 23.44, 0); math.Abs(got-90) > 1e-9 {
		t.Errorf("Ascendant(0, eps, 0) = %v, want 90", got)
	}
}

func TestPlacidusCusps_Structure(t *testing.T) {
	const eps = 23.4393
	for _, lat := range []float64{-45, 0, 35, 52} {
		for ramc := 5.0; ramc < 360; ramc += 40 {
			cusps, err := PlacidusCusps(ramc, eps, lat)
			if err != nil {
				t.Fatalf("PlacidusCusps(%v, %v) error: %v", ramc, lat, err)
			}

			if math.Abs(cusps[0]-Ascendant(ramc, eps, lat)) > 1e-9 {
				t.Errorf("cusp 1 = %v, want Ascendant", cusps[0])
			}
			if math.Abs(cusps[9]-Midheaven(ramc, eps)) > 1e-9 {
				t.Errorf("cusp 10 = %v, want MC", cusps[9])
			}

			for i := 0; i < 6; i++ {
				d := normalizeAngle360(cusps[i+6] - cusps[i])
				if math.Abs(d-180) > 1e-9 {
					t.Errorf("cusps %d and %d differ by %v, want 180", i+1, i+7, d)
				}
			}

			// Cusps advance through the zodiac
			for i := 0; i < 12; i++ {
				d := normalizeAngle360(cusps[(i+1)%12] - cusps[i])
				if d <= 0 || d >= 180 {
					t.Errorf("lat=%v ramc=%v: cusp %d -> %d step %v", lat, ramc, i+1, (i+1)%12+1, d)
				}
			}
		}
	}
}

func TestPlacidusCusps_EquatorDividesRA(t *testing.T) {
	// On the equator every semi-arc is 90°, so cusp 11 lies 30° of RA past the MC
	const eps = 23.4393
	ramc := 100.0
	cusps, err := PlacidusCusps(ramc, eps, 0)
	if err != nil {
		t.Fatalf("PlacidusCusps error: %v", err)
	}
	if want := eclipticFromRA(ramc+30, eps); math.Abs(cusps[10]-want) > 1e-6 {
		t.Errorf("cusp 11 = %v, want %v", cusps[10], want)
	}
	if want := eclipticFromRA(ramc+150, eps); math.Abs(cusps[2]-want) > 1e-6 {
		t.Errorf("cusp 3 = %v, want %v", cusps[2], want)
	}
}

func TestPlacidusCusps_Polar(t *testing.T) {
	_, err := PlacidusCusps(0, 23.44, 70)
	if !errors.Is(err, ErrCircumpolar) {
		t.Errorf("PlacidusCusps at 70° error = %v, want ErrCircumpolar", err)
	}
}

func TestPorphyryCusps(t *testing.T) {
	cusps := PorphyryCusps(90, 0)
	want := [12]float64{90, 120, 150, 180, 210, 240, 270, 300, 330, 0, 30, 60}
	for i := range want {
		if math.Abs(cusps[i]-want[i]) > 1e-9 {
			t.Errorf("cusp %d = %v, want %v", i+1, cusps[i], want[i])
		}
	}
}

func TestHouseCusps_Fallback(t *testing.T) {
	jd := JulianDay(2024, 6, 21, 12)

	_, system := HouseCusps(jd, 51.5, -0.1)
	if system != Placidus {
		t.Errorf("system at 51.5° = %v, want Placidus", system)
	}

	cusps, system := HouseCusps(jd, 78.2, 15.6)
	if system != Porphyry {
		t.Errorf("system at 78.2° = %v, want Porphyry", system)
	}
	for i := 0; i < 6; i++ {
		if d := normalizeAngle360(cusps[i+6] - cusps[i]); math.Abs(d-180) > 1e-9 {
			t.Errorf("polar cusps %d and %d differ by %v", i+1, i+7, d)
		}
	}
}

func TestHouseSystem_String(t *testing.T) {
	if Placidus.String() != "Placidus" || Porphyry.String() != "Porphyry" {
		t.Error("unexpected house system names")
	}
}
