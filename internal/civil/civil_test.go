package civil

import (
	"errors"
	"math"
	"testing"
)

func TestUTCOffsetHours(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		want int
	}{
		{"greenwich", 0, 0},
		{"fraction east truncates to zero", 0.9, 0},
		{"fraction west truncates to zero", -0.9, 0},
		{"first east band", 1, 1},
		{"first east band edge", 15, 1},
		{"second east band", 16, 2},
		{"fifty east", 50, 4},
		{"fifty east fractional", 50.75, 4},
		{"last east band", 180, 12},
		{"first west band", -1, -1},
		{"west fifteen", -15, -1},
		{"west sixteen", -16, -2},
		{"last west band", -180, -12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UTCOffsetHours(tt.lon)
			if err != nil {
				t.Fatalf("UTCOffsetHours(%v) error: %v", tt.lon, err)
			}
			if got != tt.want {
				t.Errorf("UTCOffsetHours(%v) = %d, want %d", tt.lon, got, tt.want)
			}
		})
	}
}

func TestUTCOffsetHours_Unresolved(t *testing.T) {
	for _, lon := range []float64{181, -181, 500, math.NaN(), math.Inf(1)} {
		_, err := UTCOffsetHours(lon)
		if !errors.Is(err, ErrUnresolvedTimeZone) {
			t.Errorf("UTCOffsetHours(%v) error = %v, want ErrUnresolvedTimeZone", lon, err)
		}
	}
}

func TestUTCHour(t *testing.T) {
	tests := []struct {
		hour int
		lon  float64
		want float64
	}{
		{12, 0, 12},
		{12, 50, 8},
		{12, -74, 17},
		{1, 50, -3},
		{23, -120, 31},
	}

	for _, tt := range tests {
		got, err := UTCHour(tt.hour, tt.lon)
		if err != nil {
			t.Fatalf("UTCHour(%d, %v) error: %v", tt.hour, tt.lon, err)
		}
		if got != tt.want {
			t.Errorf("UTCHour(%d, %v) = %v, want %v", tt.hour, tt.lon, got, tt.want)
		}
	}
}

func TestResolve_DST(t *testing.T) {
	res, err := Resolve(12, 30, 50, true)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if res.CivilHour != 11 {
		t.Errorf("CivilHour = %d, want 11", res.CivilHour)
	}
	if res.OffsetHours != 4 {
		t.Errorf("OffsetHours = %d, want 4", res.OffsetHours)
	}
	if res.UTCHour != 7 {
		t.Errorf("UTCHour = %v, want 7", res.UTCHour)
	}
	if res.UTCFraction != 7.5 {
		t.Errorf("UTCFraction = %v, want 7.5", res.UTCFraction)
	}
}

func TestResolve_Unresolved(t *testing.T) {
	if _, err := Resolve(12, 0, 200, false); !errors.Is(err, ErrUnresolvedTimeZone) {
		t.Errorf("Resolve error = %v, want ErrUnresolvedTimeZone", err)
	}
}

type fixedDays struct {
	jd     float64
	deltaT float64
}

func (f fixedDays) JulianDay(year, month, day int, utcHour float64) float64 {
	return f.jd + utcHour/24
}

func (f fixedDays) DeltaT(jd float64) float64 {
	return f.deltaT
}

func TestJulianDay_AddsDeltaTAndRounds(t *testing.T) {
	tests := []struct {
		name   string
		deltaT float64
		want   float64
	}{
		{"drops digits past the sixth", 0.000739123456, 2451545.000739},
		{"rounds up", 0.00073951, 2451545.000740},
		{"rounds down", 0.000739449, 2451545.000739},
		{"no delta-t", 0, 2451545},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := fixedDays{jd: 2451544.5, deltaT: tt.deltaT}
			got := JulianDay(days, 2000, 1, 1, 12)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("JulianDay = %.9f, want %.9f", got, tt.want)
			}
			if micro := got * 1e6; math.Abs(micro-math.Round(micro)) > 1e-3 {
				t.Errorf("JulianDay = %.9f, has more than six decimals", got)
			}
		})
	}
}
