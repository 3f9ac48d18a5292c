package lunar

import (
	"time"

	"github.com/astroriga/skywatch/internal/astro"
)

// RiseSet finds moonrise and moonset within the UTC calendar day of `day`
// for the given observer.
//
// The search samples the Moon's altitude at 24 hourly instants (hour:00,
// hours 0-23 UTC) and classifies each adjacent pair: a crossing from below
// to at-or-above the horizon records a rise at the later sample, the
// reverse records a set. The scan is linear and later crossings of the same
// type overwrite earlier ones, so on the rare day with two rises (or two
// sets) the later event wins. Resolution is one hour; no sub-sampling is
// performed.
//
// If the ephemeris backend is unavailable both fields are nil: the analytic
// phase fallback has no orbital geometry to offer here.
func (s *Service) RiseSet(obs astro.Observer, day time.Time) RiseSetResult {
	backend, ok := s.backend.Acquire()
	if !ok {
		s.log.Debug().Msg("rise/set skipped, ephemeris unavailable")
		return RiseSetResult{}
	}

	day = day.UTC()

	var instants [24]time.Time
	var altitudes [24]float64
	for hour := 0; hour < 24; hour++ {
		instants[hour] = time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
		altitudes[hour] = backend.MoonAltitude(obs, instants[hour])
	}

	var result RiseSetResult
	for i := 0; i < len(instants)-1; i++ {
		if altitudes[i] < 0 && altitudes[i+1] >= 0 {
			rise := instants[i+1]
			result.Moonrise = &rise
		}
		if altitudes[i] >= 0 && altitudes[i+1] < 0 {
			set := instants[i+1]
			result.Moonset = &set
		}
	}

	return result
}
