package astro

import (
	"fmt"
	"math"
)

// Planet identifies a body with a Keplerian element set.
type Planet int

const (
	Mercury Planet = iota
	Venus
	EarthMoon // Earth-Moon barycenter
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Chiron
)

var planetNames = map[Planet]string{
	Mercury:   "Mercury",
	Venus:     "Venus",
	EarthMoon: "Earth-Moon",
	Mars:      "Mars",
	Jupiter:   "Jupiter",
	Saturn:    "Saturn",
	Uranus:    "Uranus",
	Neptune:   "Neptune",
	Pluto:     "Pluto",
	Chiron:    "Chiron",
}

// String returns the planet name.
func (p Planet) String() string {
	if n, ok := planetNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Planet(%d)", int(p))
}

// Elements is a heliocentric Keplerian element set referred to the J2000
// ecliptic and equinox. Angles are in degrees, A in AU.
type Elements struct {
	A    float64 // semi-major axis
	E    float64 // eccentricity
	I    float64 // inclination
	L    float64 // mean longitude
	Peri float64 // longitude of perihelion
	Node float64 // longitude of the ascending node
}

// elementSet holds J2000 elements and their rates per Julian century.
type elementSet struct {
	epoch Elements
	rate  Elements
}

// keplerianElements are the Standish approximate elements valid 1800-2050
// AD, plus an osculating set for Chiron fitted near its 1996 perihelion.
var keplerianElements = map[Planet]elementSet{
	Mercury: {
		Elements{0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593},
		Elements{0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081},
	},
	Venus: {
		Elements{0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255},
		Elements{0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418},
	},
	EarthMoon: {
		Elements{1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0.0},
		Elements{0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0.0},
	},
	Mars: {
		Elements{1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891},
		Elements{0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343},
	},
	Jupiter: {
		Elements{5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909},
		Elements{-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106},
	},
	Saturn: {
		Elements{9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448},
		Elements{-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794},
	},
	Uranus: {
		Elements{19.18916464, 0.04725744, 0.77263783, 313.23810451, 170.95427630, 74.01692503},
		Elements{-0.00196176, -0.00004397, -0.00242939, 428.48202785, 0.40805281, 0.04240589},
	},
	Neptune: {
		Elements{30.06992276, 0.00859048, 1.77004347, -55.12002969, 44.96476227, 131.78422574},
		Elements{0.00026291, 0.00005105, 0.00035372, 218.45945325, -0.32241464, -0.00508664},
	},
	Pluto: {
		Elements{39.48211675, 0.24882730, 17.14001206, 238.92903833, 224.06891629, 110.30393684},
		Elements{-0.00031596, 0.00005170, 0.00004818, 145.20780515, -0.04062942, -0.01183482},
	},
	Chiron: {
		Elements{13.648, 0.3827, 6.93, 216.61, 188.92, 209.38},
		Elements{0, 0, 0, 714.0, 0, 0},
	},
}

// ElementsAt returns the elements of p at a Julian day.
func ElementsAt(p Planet, jd float64) (Elements, error) {
	set, ok := keplerianElements[p]
	if !ok {
		return Elements{}, fmt.Errorf("no elements for %s", p)
	}
	T := centuries(jd)
	e, r := set.epoch, set.rate
	return Elements{
		A:    e.A + r.A*T,
		E:    e.E + r.E*T,
		I:    e.I + r.I*T,
		L:    e.L + r.L*T,
		Peri: e.Peri + r.Peri*T,
		Node: e.Node + r.Node*T,
	}, nil
}

// Position returns the heliocentric J2000 ecliptic position in AU.
func (el Elements) Position() Vec3 {
	argPeri := degToRad(el.Peri - el.Node)
	node := degToRad(el.Node)
	inc := degToRad(el.I)

	M := degToRad(normalizeAngle360(el.L - el.Peri))
	E := solveKepler(M, el.E)

	// Position in the orbital plane
	x := el.A * (math.Cos(E) - el.E)
	y := el.A * math.Sqrt(1-el.E*el.E) * math.Sin(E)

	cosO, sinO := math.Cos(node), math.Sin(node)
	cosW, sinW := math.Cos(argPeri), math.Sin(argPeri)
	cosI, sinI := math.Cos(inc), math.Sin(inc)

	return Vec3{
		X: (cosW*cosO-sinW*sinO*cosI)*x + (-sinW*cosO-cosW*sinO*cosI)*y,
		Y: (cosW*sinO+sinW*cosO*cosI)*x + (-sinW*sinO+cosW*cosO*cosI)*y,
		Z: sinW*sinI*x + cosW*sinI*y,
	}
}

// solveKepler solves M = E - e*sin(E) for E by Newton-Raphson. Angles in radians.
func solveKepler(M, e float64) float64 {
	E := M
	if e > 0.8 {
		E = math.Pi
	}

	const tolerance = 1e-12
	const maxIterations = 50

	for i := 0; i < maxIterations; i++ {
		deltaE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= deltaE
		if math.Abs(deltaE) < tolerance {
			break
		}
	}
	return E
}

// Heliocentric returns the heliocentric J2000 ecliptic position of p in AU.
func Heliocentric(p Planet, jd float64) (Vec3, error) {
	el, err := ElementsAt(p, jd)
	if err != nil {
		return Vec3{}, err
	}
	return el.Position(), nil
}

// GeocentricLongitude returns the apparent geocentric ecliptic longitude of
// p in degrees, referred to the equinox of date. Light time is applied once.
func GeocentricLongitude(p Planet, jd float64) (float64, error) {
	if p == EarthMoon {
		return 0, fmt.Errorf("geocentric longitude of %s is undefined", p)
	}

	earth, err := Heliocentric(EarthMoon, jd)
	if err != nil {
		return 0, err
	}

	body, err := Heliocentric(p, jd)
	if err != nil {
		return 0, err
	}

	// Retard the body by the light time of the first pass
	tau := body.Sub(earth).Norm() * lightDaysPerAU
	body, err = Heliocentric(p, jd-tau)
	if err != nil {
		return 0, err
	}

	return OfDate(EclipticLongitude(body.Sub(earth)), jd), nil
}

// lightDaysPerAU is the light travel time across one AU, in days.
const lightDaysPerAU = 0.0057755183
