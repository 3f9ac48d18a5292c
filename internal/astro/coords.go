// Package astro provides positional astronomy: time scales, coordinate
// transformations, and analytic Sun/Moon theories.
package astro

import (
	"math"
	"time"
)

// Equatorial is a geocentric equatorial position.
type Equatorial struct {
	RAdeg      float64 // Right Ascension in degrees (0-360)
	DecDeg     float64 // Declination in degrees (-90 to +90)
	DistanceKm float64 // Distance from Earth's center, 0 if unknown
}

// Observer is a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
}

// JulianDate returns the Julian Date for a civil time.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// January/February count as months 13/14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + b - 1524.5
}

// JulianCenturies returns Julian centuries since J2000.0 for a Julian Date.
func JulianCenturies(jd float64) float64 {
	return (jd - 2451545.0) / 36525.0
}

// GreenwichSiderealTime returns GMST in degrees for a UT Julian Date
// (IAU 1982 formula).
func GreenwichSiderealTime(jdUT float64) float64 {
	T := JulianCenturies(jdUT)

	gmst := 280.46061837 +
		360.98564736629*(jdUT-2451545.0) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalize360(gmst)
}

// LocalSiderealTime returns LST in degrees for a UT Julian Date and an
// observer longitude (east positive).
func LocalSiderealTime(jdUT float64, lonDeg float64) float64 {
	return normalize360(GreenwichSiderealTime(jdUT) + lonDeg)
}

// AngularSeparation returns the angle in degrees between two points on the
// celestial sphere, using the haversine form for numerical stability at
// small separations.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)
	if a > 1 {
		a = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(a)))
}

// Altitude returns the apparent altitude in degrees of a body above an
// observer's horizon at a UT Julian Date. When the body carries a distance,
// the geocentric altitude is corrected for horizontal parallax; this matters
// for the Moon (~1 degree) and is negligible for the Sun and beyond.
func Altitude(eq Equatorial, obs Observer, jdUT float64) float64 {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(eq.DecDeg)

	lst := LocalSiderealTime(jdUT, obs.LonDeg)
	ha := degToRad(lst - eq.RAdeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	if sinAlt > 1 {
		sinAlt = 1
	} else if sinAlt < -1 {
		sinAlt = -1
	}
	alt := math.Asin(sinAlt)

	if eq.DistanceKm > 0 {
		alt -= horizontalParallax(eq.DistanceKm) * math.Cos(alt)
	}

	return radToDeg(alt)
}

// horizontalParallax returns the equatorial horizontal parallax in radians
// for a body at the given geocentric distance.
func horizontalParallax(distanceKm float64) float64 {
	const earthRadiusKm = 6378.14
	if distanceKm <= earthRadiusKm {
		return degToRad(1.0)
	}
	return math.Asin(earthRadiusKm / distanceKm)
}

// normalize360 normalizes an angle to [0, 360) degrees.
func normalize360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
