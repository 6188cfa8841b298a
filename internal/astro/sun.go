package astro

import (
	"math"
)

// SunLongitude returns the apparent geocentric ecliptic longitude of the Sun
// in degrees. Uses a simplified solar theory from the Astronomical Almanac;
// accuracy is about 0.01 degrees.
func SunLongitude(jd float64) float64 {
	T := centuries(jd)

	// Mean longitude of the Sun (degrees)
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	L0 = normalizeAngle360(L0)

	// Mean anomaly of the Sun (degrees)
	M := 357.52911 + 35999.05029*T - 0.0001537*T*T
	M = normalizeAngle360(M)
	Mrad := degToRad(M)

	// Equation of center (degrees)
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	// Aberration and nutation in longitude
	omega := 125.04 - 1934.136*T
	return normalizeAngle360(L0 + C - 0.00569 - 0.00478*sinDeg(omega))
}
