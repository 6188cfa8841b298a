package astro

import (
	"math"
)

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// EclipticLongitude returns the ecliptic longitude in degrees for a vector.
func EclipticLongitude(v Vec3) float64 {
	return normalizeAngle360(radToDeg(math.Atan2(v.Y, v.X)))
}

// EclipticLatitude returns the ecliptic latitude in degrees for a vector.
func EclipticLatitude(v Vec3) float64 {
	r := v.Norm()
	if r == 0 {
		return 0
	}
	return radToDeg(math.Asin(v.Z / r))
}

// MeanObliquity returns the mean obliquity of the ecliptic of date in degrees.
func MeanObliquity(jd float64) float64 {
	T := centuries(jd)
	return 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
}

// precessionSinceJ2000 returns the general precession in longitude, in
// degrees, accumulated between J2000 and jd.
func precessionSinceJ2000(jd float64) float64 {
	T := centuries(jd)
	return 1.396971*T + 0.0003086*T*T
}

// nutationInLongitude returns the dominant nutation term in degrees.
func nutationInLongitude(jd float64) float64 {
	T := centuries(jd)
	omega := 125.04452 - 1934.136261*T
	return -0.004778 * sinDeg(omega)
}

// OfDate converts a J2000 ecliptic longitude into an apparent ecliptic
// longitude of date by adding precession and nutation.
func OfDate(lonJ2000, jd float64) float64 {
	return normalizeAngle360(lonJ2000 + precessionSinceJ2000(jd) + nutationInLongitude(jd))
}
