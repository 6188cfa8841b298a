package astro

import (
	"errors"
	"math"
)

// HouseSystem names the method used to divide the chart into houses.
type HouseSystem int

const (
	Placidus HouseSystem = iota
	Porphyry
)

// String returns the house system name.
func (h HouseSystem) String() string {
	switch h {
	case Placidus:
		return "Placidus"
	case Porphyry:
		return "Porphyry"
	default:
		return "unknown"
	}
}

// PolarLatitude is the latitude beyond which some ecliptic points never rise
// or set and Placidus cusps are undefined.
const PolarLatitude = 66.0

// ErrCircumpolar is returned when a Placidus cusp cannot be constructed
// because the ecliptic point involved never crosses the horizon.
var ErrCircumpolar = errors.New("ecliptic point is circumpolar")

// TrueObliquity returns the obliquity of the ecliptic of date in degrees,
// including the dominant nutation term.
func TrueObliquity(jd float64) float64 {
	T := centuries(jd)
	omega := 125.04 - 1934.136*T
	return MeanObliquity(jd) + 0.00256*cosDeg(omega)
}

// Midheaven returns the ecliptic longitude culminating at a sidereal angle
// ramc, for obliquity eps. All values in degrees.
func Midheaven(ramc, eps float64) float64 {
	return normalizeAngle360(radToDeg(math.Atan2(sinDeg(ramc), cosDeg(ramc)*cosDeg(eps))))
}

// Ascendant returns the ecliptic longitude rising on the eastern horizon.
func Ascendant(ramc, eps, lat float64) float64 {
	asc := normalizeAngle360(radToDeg(math.Atan2(
		cosDeg(ramc),
		-(sinDeg(ramc)*cosDeg(eps) + tanDeg(lat)*sinDeg(eps)),
	)))

	// Above the polar circles the formula can return the descending point
	if normalizeAngle360(asc-Midheaven(ramc, eps)) >= 180 {
		asc = normalizeAngle360(asc + 180)
	}
	return asc
}

// eclipticFromRA returns the ecliptic longitude of the ecliptic point with
// right ascension ra.
func eclipticFromRA(ra, eps float64) float64 {
	return normalizeAngle360(radToDeg(math.Atan2(sinDeg(ra), cosDeg(ra)*cosDeg(eps))))
}

// placidusCusp iterates the right ascension of an intermediate cusp. above
// selects the diurnal arc (houses 11 and 12) or the nocturnal arc (houses 2
// and 3); frac is the fraction of that semi-arc from the meridian.
func placidusCusp(ramc, eps, lat, frac float64, above bool) (float64, error) {
	tanLat := tanDeg(lat)

	ra := ramc + 90*frac
	if !above {
		ra = ramc + 180 - 90*frac
	}

	const maxIterations = 500
	for i := 0; i < maxIterations; i++ {
		lon := eclipticFromRA(ra, eps)
		dec := radToDeg(math.Asin(sinDeg(eps) * sinDeg(lon)))

		x := tanLat * tanDeg(dec)
		if math.Abs(x) >= 1 || !isFinite(x) {
			return 0, ErrCircumpolar
		}

		// Semi-arcs in degrees
		diurnal := 90 + radToDeg(math.Asin(x))
		nocturnal := 180 - diurnal

		next := ramc + frac*diurnal
		if !above {
			next = ramc + 180 - frac*nocturnal
		}

		if math.Abs(next-ra) < 1e-9 {
			return eclipticFromRA(next, eps), nil
		}
		ra = next
	}
	return 0, ErrCircumpolar
}

// PlacidusCusps returns the twelve cusps, index 0 holding house 1.
func PlacidusCusps(ramc, eps, lat float64) ([12]float64, error) {
	var cusps [12]float64
	if math.Abs(lat) >= PolarLatitude {
		return cusps, ErrCircumpolar
	}

	mc := Midheaven(ramc, eps)
	asc := Ascendant(ramc, eps, lat)

	c11, err := placidusCusp(ramc, eps, lat, 1.0/3, true)
	if err != nil {
		return cusps, err
	}
	c12, err := placidusCusp(ramc, eps, lat, 2.0/3, true)
	if err != nil {
		return cusps, err
	}
	c2, err := placidusCusp(ramc, eps, lat, 2.0/3, false)
	if err != nil {
		return cusps, err
	}
	c3, err := placidusCusp(ramc, eps, lat, 1.0/3, false)
	if err != nil {
		return cusps, err
	}

	return fillCusps(asc, c2, c3, mc, c11, c12), nil
}

// PorphyryCusps trisects each quadrant between the angles.
func PorphyryCusps(asc, mc float64) [12]float64 {
	east := normalizeAngle360(asc - mc)
	below := 180 - east

	return fillCusps(
		asc,
		asc+below/3,
		asc+2*below/3,
		mc,
		mc+east/3,
		mc+2*east/3,
	)
}

// fillCusps mirrors the six eastern cusps onto the western half.
func fillCusps(asc, c2, c3, mc, c11, c12 float64) [12]float64 {
	var cusps [12]float64
	cusps[0] = normalizeAngle360(asc)
	cusps[1] = normalizeAngle360(c2)
	cusps[2] = normalizeAngle360(c3)
	cusps[9] = normalizeAngle360(mc)
	cusps[10] = normalizeAngle360(c11)
	cusps[11] = normalizeAngle360(c12)
	for i := 3; i < 9; i++ {
		cusps[i] = normalizeAngle360(cusps[(i+6)%12] + 180)
	}
	return cusps
}

// HouseCusps returns Placidus cusps for a Julian day and site, falling back
// to Porphyry where Placidus is undefined. Longitude is east positive.
func HouseCusps(jd, lat, lon float64) ([12]float64, HouseSystem) {
	ramc := LocalSiderealTime(jd, lon) * 15
	eps := TrueObliquity(jd)

	cusps, err := PlacidusCusps(ramc, eps, lat)
	if err == nil {
		return cusps, Placidus
	}
	return PorphyryCusps(Ascendant(ramc, eps, lat), Midheaven(ramc, eps)), Porphyry
}
