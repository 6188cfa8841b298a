package astro

import "math"

// moonTerm is one periodic term of the lunar longitude series. Multipliers
// apply to D, M, M' and F; Coeff is in millionths of a degree.
type moonTerm struct {
	D, M, Mp, F int
	Coeff       float64
}

// moonLongitudeTerms holds the largest terms of the ELP-2000/82 series as
// abridged by Meeus (chapter 47). Truncation keeps the error near 0.01°.
var moonLongitudeTerms = []moonTerm{
	{0, 0, 1, 0, 6288774},
	{2, 0, -1, 0, 1274027},
	{2, 0, 0, 0, 658314},
	{0, 0, 2, 0, 213618},
	{0, 1, 0, 0, -185116},
	{0, 0, 0, 2, -114332},
	{2, 0, -2, 0, 58793},
	{2, -1, -1, 0, 57066},
	{2, 0, 1, 0, 53322},
	{2, -1, 0, 0, 45758},
	{0, 1, -1, 0, -40923},
	{1, 0, 0, 0, -34720},
	{0, 1, 1, 0, -30383},
	{2, 0, 0, -2, 15327},
	{0, 0, 1, 2, -12528},
	{0, 0, 1, -2, 10980},
	{4, 0, -1, 0, 10675},
	{0, 0, 3, 0, 10034},
	{4, 0, -2, 0, 8548},
	{2, 1, -1, 0, -7888},
	{2, 1, 0, 0, -6766},
	{1, 0, -1, 0, -5163},
	{1, 1, 0, 0, 4987},
	{2, -1, 1, 0, 4036},
	{2, 0, 2, 0, 3994},
	{4, 0, 0, 0, 3861},
	{2, 0, -3, 0, 3665},
	{0, 1, -2, 0, -2689},
	{2, 0, -1, 2, -2602},
	{2, -1, -2, 0, 2390},
	{1, 0, 1, 0, -2348},
	{2, -2, 0, 0, 2236},
	{0, 1, 2, 0, -2120},
	{0, 2, 0, 0, -2069},
	{2, -2, -1, 0, 2048},
	{2, 0, 1, -2, -1773},
	{2, 0, 0, 2, -1595},
	{4, -1, -1, 0, 1215},
	{0, 0, 2, 2, -1110},
	{3, 0, -1, 0, -892},
	{2, 1, 1, 0, -810},
	{4, -1, -2, 0, 759},
	{0, 2, -1, 0, -713},
	{2, 2, -1, 0, -700},
	{2, 1, -2, 0, 691},
	{2, -1, 0, -2, 596},
	{4, 0, 1, 0, 549},
	{0, 0, 4, 0, 537},
	{4, -1, 0, 0, 520},
	{1, 0, -2, 0, -487},
}

// lunarArguments holds the fundamental arguments of the lunar theory in degrees.
type lunarArguments struct {
	Lp float64 // mean longitude of the Moon
	D  float64 // mean elongation
	M  float64 // Sun's mean anomaly
	Mp float64 // Moon's mean anomaly
	F  float64 // argument of latitude
}

func lunarArgs(T float64) lunarArguments {
	return lunarArguments{
		Lp: normalizeAngle360(218.3164477 + 481267.88123421*T - 0.0015786*T*T + T*T*T/538841 - T*T*T*T/65194000),
		D:  normalizeAngle360(297.8501921 + 445267.1114034*T - 0.0018819*T*T + T*T*T/545868 - T*T*T*T/113065000),
		M:  normalizeAngle360(357.5291092 + 35999.0502909*T - 0.0001536*T*T + T*T*T/24490000),
		Mp: normalizeAngle360(134.9633964 + 477198.8675055*T + 0.0087414*T*T + T*T*T/69699 - T*T*T*T/14712000),
		F:  normalizeAngle360(93.2720950 + 483202.0175233*T - 0.0036539*T*T - T*T*T/3526000 + T*T*T*T/863310000),
	}
}

// MoonLongitude returns the apparent geocentric ecliptic longitude of the
// Moon in degrees.
func MoonLongitude(jd float64) float64 {
	T := centuries(jd)
	a := lunarArgs(T)

	// Eccentricity of Earth's orbit scales terms involving M
	E := 1 - 0.002516*T - 0.0000074*T*T

	sum := 0.0
	for _, term := range moonLongitudeTerms {
		arg := float64(term.D)*a.D + float64(term.M)*a.M + float64(term.Mp)*a.Mp + float64(term.F)*a.F
		coeff := term.Coeff
		switch math.Abs(float64(term.M)) {
		case 1:
			coeff *= E
		case 2:
			coeff *= E * E
		}
		sum += coeff * sinDeg(arg)
	}

	// Venus, Jupiter and flattening perturbations
	A1 := 119.75 + 131.849*T
	A2 := 53.09 + 479264.290*T
	sum += 3958*sinDeg(A1) + 1962*sinDeg(a.Lp-a.F) + 318*sinDeg(A2)

	return normalizeAngle360(a.Lp + sum/1e6 + nutationInLongitude(jd))
}
