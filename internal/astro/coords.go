// Package astro provides closed-form solar-system theories: Julian days,
// sidereal time, obliquity, and low-precision ecliptic longitudes of the Sun,
// Moon, planets, lunar node and Chiron, plus house cusps.
package astro

import (
	"math"
	"time"
)

// J2000 is the Julian day of 2000-01-01 12:00 TT.
const J2000 = 2451545.0

// DaysPerCentury is the length of a Julian century in days.
const DaysPerCentury = 36525.0

// JulianDay returns the Julian day of a Gregorian calendar date at a
// fractional universal hour. The hour may fall outside [0, 24); the result is
// linear in it.
func JulianDay(year, month, day int, hour float64) float64 {
	y := float64(year)
	m := float64(month)
	d := float64(day)

	// January/February count as months 13/14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + hour/24 + B - 1524.5
}

// JulianDate returns the Julian day of a time instant.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	h := float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond())/3600e9
	return JulianDay(t.Year(), int(t.Month()), t.Day(), h)
}

// centuries returns Julian centuries since J2000.
func centuries(jd float64) float64 {
	return (jd - J2000) / DaysPerCentury
}

// GreenwichSiderealTime returns the Greenwich mean sidereal time in hours
// for a Julian day, using the IAU 1982 expression.
func GreenwichSiderealTime(jd float64) float64 {
	T := centuries(jd)

	gmst := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalizeAngle360(gmst) / 15
}

// LocalSiderealTime returns the local mean sidereal time in hours.
// Longitude is east positive.
func LocalSiderealTime(jd, lonDeg float64) float64 {
	lst := GreenwichSiderealTime(jd) + lonDeg/15
	lst = math.Mod(lst, 24)
	if lst < 0 {
		lst += 24
	}
	return lst
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

func sinDeg(a float64) float64 { return math.Sin(degToRad(a)) }
func cosDeg(a float64) float64 { return math.Cos(degToRad(a)) }
func tanDeg(a float64) float64 { return math.Tan(degToRad(a)) }
