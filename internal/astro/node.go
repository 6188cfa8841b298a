package astro

// MeanNode returns the ecliptic longitude of the Moon's mean ascending node
// in degrees, referred to the mean equinox of date.
func MeanNode(jd float64) float64 {
	T := centuries(jd)
	return normalizeAngle360(125.0445479 - 1934.1362891*T + 0.0020754*T*T + T*T*T/467441 - T*T*T*T/60616000)
}
