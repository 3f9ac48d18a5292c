package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{
			name: "J2000 epoch",
			time: time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			want: 2451545.0,
		},
		{
			name: "1987 April 10 midnight",
			time: time.Date(1987, 4, 10, 0, 0, 0, 0, time.UTC),
			want: 2446895.5,
		},
		{
			name: "1992 April 12 midnight",
			time: time.Date(1992, 4, 12, 0, 0, 0, 0, time.UTC),
			want: 2448724.5,
		},
		{
			name: "half day fraction",
			time: time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC),
			want: 2451545.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("JulianDate(%v) = %f, want %f", tt.time, got, tt.want)
			}
		})
	}
}

func TestJulianDateConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("EET", 2*3600)
	local := time.Date(2000, 1, 1, 14, 0, 0, 0, loc)

	got := JulianDate(local)
	if math.Abs(got-2451545.0) > 1e-6 {
		t.Errorf("JulianDate in non-UTC zone = %f, want 2451545.0", got)
	}
}

func TestJulianCenturies(t *testing.T) {
	if got := JulianCenturies(2451545.0); got != 0 {
		t.Errorf("JulianCenturies(J2000) = %f, want 0", got)
	}
	if got := JulianCenturies(2451545.0 + 36525); math.Abs(got-1) > 1e-12 {
		t.Errorf("JulianCenturies(J2000+36525d) = %f, want 1", got)
	}
}

func TestGreenwichSiderealTime(t *testing.T) {
	// Meeus example 12.a: 1987 April 10.0 UT
	got := GreenwichSiderealTime(2446895.5)
	want := 197.693195
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("GreenwichSiderealTime(2446895.5) = %f, want %f", got, want)
	}
}

func TestLocalSiderealTime(t *testing.T) {
	gmst := GreenwichSiderealTime(2446895.5)

	tests := []struct {
		name string
		lon  float64
		want float64
	}{
		{"greenwich", 0, gmst},
		{"east shifts forward", 30, gmst + 30},
		{"west shifts back", -77.065556, gmst - 77.065556},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalSiderealTime(2446895.5, tt.lon)
			want := math.Mod(tt.want+360, 360)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("LocalSiderealTime(lon=%f) = %f, want %f", tt.lon, got, want)
			}
		})
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name                   string
		ra1, dec1, ra2, dec2   float64
		want, tol              float64
	}{
		{"coincident points", 100, 20, 100, 20, 0, 1e-9},
		{"opposite poles", 0, 90, 0, -90, 180, 1e-9},
		{"quarter circle on equator", 0, 0, 90, 0, 90, 1e-9},
		// Meeus example 17.a: Arcturus to Spica
		{"arcturus to spica", 213.9154, 19.1825, 201.2983, -11.1614, 32.7930, 1e-3},
		{"wraps around RA 0", 359, 0, 1, 0, 2, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.ra1, tt.dec1, tt.ra2, tt.dec2)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("AngularSeparation = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAltitude(t *testing.T) {
	jd := 2451545.0

	t.Run("celestial pole from north pole", func(t *testing.T) {
		eq := Equatorial{RAdeg: 0, DecDeg: 90}
		obs := Observer{LatDeg: 90, LonDeg: 0}
		got := Altitude(eq, obs, jd)
		if math.Abs(got-90) > 1e-6 {
			t.Errorf("Altitude = %f, want 90", got)
		}
	})

	t.Run("celestial pole from equator", func(t *testing.T) {
		eq := Equatorial{RAdeg: 0, DecDeg: 90}
		obs := Observer{LatDeg: 0, LonDeg: 0}
		got := Altitude(eq, obs, jd)
		if math.Abs(got) > 1e-6 {
			t.Errorf("Altitude = %f, want 0", got)
		}
	})

	t.Run("body on meridian at zenith", func(t *testing.T) {
		lst := LocalSiderealTime(jd, 0)
		eq := Equatorial{RAdeg: lst, DecDeg: 45}
		obs := Observer{LatDeg: 45, LonDeg: 0}
		got := Altitude(eq, obs, jd)
		if math.Abs(got-90) > 1e-6 {
			t.Errorf("Altitude = %f, want 90", got)
		}
	})

	t.Run("parallax lowers a nearby body", func(t *testing.T) {
		lst := LocalSiderealTime(jd, 0)
		far := Equatorial{RAdeg: lst + 60, DecDeg: 20}
		near := far
		near.DistanceKm = 385000

		altFar := Altitude(far, Observer{LatDeg: 50, LonDeg: 0}, jd)
		altNear := Altitude(near, Observer{LatDeg: 50, LonDeg: 0}, jd)

		if altNear >= altFar {
			t.Errorf("parallax-corrected altitude %f not below geocentric %f", altNear, altFar)
		}
		// Lunar horizontal parallax is about 0.95 degrees
		if diff := altFar - altNear; diff > 1.1 {
			t.Errorf("parallax correction %f degrees too large", diff)
		}
	})
}
