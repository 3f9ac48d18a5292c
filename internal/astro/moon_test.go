package astro

import (
	"math"
	"testing"
)

func TestMoonPosition(t *testing.T) {
	// Meeus example 47.a: 1992 April 12.0 TT. The full theory gives
	// RA 134.688, Dec 13.768, distance 368409.7 km; the truncated series
	// lands within a tenth of a degree and ~100 km.
	got := MoonPosition(2448724.5)

	if math.Abs(got.RAdeg-134.688) > 0.15 {
		t.Errorf("RA = %f, want 134.688 +/- 0.15", got.RAdeg)
	}
	if math.Abs(got.DecDeg-13.768) > 0.1 {
		t.Errorf("Dec = %f, want 13.768 +/- 0.1", got.DecDeg)
	}
	if math.Abs(got.DistanceKm-368409.7) > 200 {
		t.Errorf("Distance = %f, want 368409.7 +/- 200", got.DistanceKm)
	}
}

func TestMoonPositionBounds(t *testing.T) {
	// Scan a full orbit: distance stays within perigee/apogee limits and
	// declination inside the inclined orbit band.
	for jd := 2460000.5; jd < 2460000.5+30; jd += 0.5 {
		got := MoonPosition(jd)

		if got.DistanceKm < 350000 || got.DistanceKm > 410000 {
			t.Errorf("MoonPosition(%f).DistanceKm = %f, outside orbit range", jd, got.DistanceKm)
		}
		if math.Abs(got.DecDeg) > 29 {
			t.Errorf("MoonPosition(%f).DecDeg = %f, outside declination band", jd, got.DecDeg)
		}
		if got.RAdeg < 0 || got.RAdeg >= 360 {
			t.Errorf("MoonPosition(%f).RAdeg = %f, not normalized", jd, got.RAdeg)
		}
	}
}

func TestMoonMovesAgainstStars(t *testing.T) {
	// The Moon covers roughly 13 degrees per day.
	day1 := MoonPosition(2460000.5)
	day2 := MoonPosition(2460001.5)

	sep := AngularSeparation(day1.RAdeg, day1.DecDeg, day2.RAdeg, day2.DecDeg)
	if sep < 10 || sep > 16 {
		t.Errorf("daily motion = %f degrees, want roughly 13", sep)
	}
}
