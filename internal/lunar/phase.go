package lunar

import (
	"math"
	"time"
)

// Analytic fallback model constants: mean synodic month length and a
// reference new-moon epoch.
const synodicMonthDays = 29.53058867

var fallbackEpoch = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

// Phase names indexed by 45-degree elongation bin, starting at new moon.
var phaseNames = [8]string{
	"New Moon",
	"Waxing Crescent",
	"First Quarter",
	"Waxing Gibbous",
	"Full Moon",
	"Waning Gibbous",
	"Last Quarter",
	"Waning Crescent",
}

// Phase returns the Moon phase at t. With the ephemeris backend available
// it uses the true Sun-Moon elongation; otherwise it falls back to the
// synodic-cycle approximation. The two models intentionally differ: they
// use opposite cosine signs for illumination and differently aligned
// phase-name bins, and both are preserved exactly.
func (s *Service) Phase(t time.Time) PhaseResult {
	if backend, ok := s.backend.Acquire(); ok {
		elongation := backend.Elongation(t)
		s.countPath("primary")
		s.log.Debug().Float64("elongation", elongation).Msg("moon phase from ephemeris")

		return PhaseResult{
			PhaseName:    primaryPhaseName(elongation),
			Illumination: round1((1 + math.Cos(degToRad(elongation))) / 2 * 100),
			PhaseAngle:   round1(elongation),
		}
	}

	elongation := fallbackElongation(t)
	s.countPath("fallback")
	s.log.Debug().Float64("elongation", elongation).Msg("moon phase from synodic fallback")

	return PhaseResult{
		PhaseName:    fallbackPhaseName(elongation),
		Illumination: round1((1 - math.Cos(degToRad(elongation))) / 2 * 100),
		PhaseAngle:   round1(elongation),
	}
}

// primaryPhaseName buckets an elongation into left-closed 45-degree bins
// starting at 0.
func primaryPhaseName(elongation float64) string {
	idx := int(normalizeElongation(elongation) / 45)
	if idx > 7 {
		idx = 7
	}
	return phaseNames[idx]
}

// fallbackPhaseName buckets an elongation into 45-degree bins centered on
// multiples of 45 degrees (New Moon spans [337.5, 360) and [0, 22.5)).
func fallbackPhaseName(elongation float64) string {
	shifted := math.Mod(normalizeElongation(elongation)+22.5, 360)
	idx := int(shifted / 45)
	if idx > 7 {
		idx = 7
	}
	return phaseNames[idx]
}

// fallbackElongation maps t to a synthetic elongation in [0, 360) from the
// fraction of the synodic cycle elapsed since the reference new moon.
func fallbackElongation(t time.Time) float64 {
	daysSince := t.Sub(fallbackEpoch).Hours() / 24.0

	age := math.Mod(daysSince, synodicMonthDays)
	if age < 0 {
		age += synodicMonthDays
	}

	return age / synodicMonthDays * 360
}

func normalizeElongation(e float64) float64 {
	e = math.Mod(e, 360)
	if e < 0 {
		e += 360
	}
	return e
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
