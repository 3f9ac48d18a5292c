package astro

import "math"

// SunPosition returns the apparent geocentric equatorial position of the Sun
// for a TT Julian Date. Simplified solar theory from the Astronomical
// Almanac; accuracy ~0.01 degrees, sufficient for elongation angles.
func SunPosition(jdTT float64) Equatorial {
	T := JulianCenturies(jdTT)

	// Mean longitude and mean anomaly (degrees)
	L0 := normalize360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := normalize360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Equation of center
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mrad) +
		(0.019993-0.000101*T)*math.Sin(2*Mrad) +
		0.000289*math.Sin(3*Mrad)

	trueLon := L0 + C
	trueAnom := M + C

	// Radius vector in AU, then km
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T
	r := (1.000001018 * (1 - e*e)) / (1 + e*math.Cos(degToRad(trueAnom)))
	const auKm = 149597870.7

	// Apparent longitude: aberration and nutation in longitude
	omega := 125.04 - 1934.136*T
	appLon := trueLon - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	eps := obliquity(T) + 0.00256*math.Cos(degToRad(omega))

	return eclipticToEquatorial(appLon, 0, eps, r*auKm)
}

// obliquity returns the mean obliquity of the ecliptic in degrees.
func obliquity(T float64) float64 {
	return 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
}

// eclipticToEquatorial converts ecliptic longitude/latitude (degrees) at a
// given obliquity to equatorial coordinates.
func eclipticToEquatorial(lonDeg, latDeg, epsDeg, distanceKm float64) Equatorial {
	lon := degToRad(lonDeg)
	lat := degToRad(latDeg)
	eps := degToRad(epsDeg)

	ra := math.Atan2(
		math.Sin(lon)*math.Cos(eps)-math.Tan(lat)*math.Sin(eps),
		math.Cos(lon),
	)
	dec := math.Asin(math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*math.Sin(lon))

	raDeg := radToDeg(ra)
	if raDeg < 0 {
		raDeg += 360
	}

	return Equatorial{
		RAdeg:      raDeg,
		DecDeg:     radToDeg(dec),
		DistanceKm: distanceKm,
	}
}
