// Package lunar derives Moon phase and rise/set information for an observer
// location. Calculations prefer the ephemeris backend; when it is
// unavailable the phase degrades to an analytic synodic-cycle model and
// rise/set times are reported as unknown. No operation in this package
// fails: callers always receive a well-formed result.
package lunar

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/astroriga/skywatch/internal/astro"
	"github.com/astroriga/skywatch/internal/ephem"
	"github.com/astroriga/skywatch/internal/observability"
)

// Reference observer for the visibility report: Riga, Latvia.
const (
	DefaultLocationLabel = "Riga, Latvia"
	DefaultLatitude      = 56.9496
	DefaultLongitude     = 24.1052
)

// PhaseResult describes the Moon's phase at one instant.
type PhaseResult struct {
	PhaseName    string  `json:"phase_name"`
	Illumination float64 `json:"illumination"` // percent, 1 decimal
	PhaseAngle   float64 `json:"phase_angle"`  // degrees, 1 decimal
}

// RiseSetResult holds the moonrise and moonset instants found within one
// calendar day. Either may be nil: the Moon can stay above or below the
// horizon all day, or the backend may be unavailable.
type RiseSetResult struct {
	Moonrise *time.Time `json:"moonrise"`
	Moonset  *time.Time `json:"moonset"`
}

// VisibilityReport combines phase and rise/set for the configured observer.
type VisibilityReport struct {
	Location string        `json:"location"`
	Phase    PhaseResult   `json:"phase"`
	RiseSet  RiseSetResult `json:"rise_set"`
}

// Backend is the positional-astronomy capability set the calculators need.
type Backend interface {
	// Elongation returns the apparent Sun-Moon separation in degrees as
	// seen from Earth.
	Elongation(t time.Time) float64
	// MoonAltitude returns the Moon's altitude in degrees above the
	// observer's horizon.
	MoonAltitude(obs astro.Observer, t time.Time) float64
}

// BackendProvider acquires a Backend, reporting availability rather than
// returning an error; unavailability is a normal degraded mode.
type BackendProvider interface {
	Acquire() (Backend, bool)
}

// NewEphemerisProvider adapts an ephem.Provider to the BackendProvider
// interface.
func NewEphemerisProvider(p *ephem.Provider) BackendProvider {
	return ephemerisProvider{p}
}

type ephemerisProvider struct {
	p *ephem.Provider
}

func (e ephemerisProvider) Acquire() (Backend, bool) {
	h, ok := e.p.Acquire()
	if !ok {
		return nil, false
	}
	return h, true
}

// Config holds Service construction parameters.
type Config struct {
	Backend BackendProvider
	Logger  zerolog.Logger
	Clock   clockwork.Clock        // nil: real clock
	Metrics *observability.Metrics // nil: no instrumentation

	// Observer for VisibilityReport. Zero coordinates select the Riga
	// defaults; an empty label is derived from the coordinates.
	LocationLabel string
	Latitude      float64
	Longitude     float64
}

// Service exposes the lunar calculation operations.
type Service struct {
	backend BackendProvider
	log     zerolog.Logger
	clock   clockwork.Clock
	metrics *observability.Metrics

	label    string
	observer astro.Observer
}

// New creates a lunar Service.
func New(cfg Config) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	label := cfg.LocationLabel
	lat, lon := cfg.Latitude, cfg.Longitude
	if lat == 0 && lon == 0 {
		lat = DefaultLatitude
		lon = DefaultLongitude
	}
	if label == "" {
		if lat == DefaultLatitude && lon == DefaultLongitude {
			label = DefaultLocationLabel
		} else {
			label = fmt.Sprintf("%.4f, %.4f", lat, lon)
		}
	}

	return &Service{
		backend:  cfg.Backend,
		log:      cfg.Logger,
		clock:    clock,
		metrics:  cfg.Metrics,
		label:    label,
		observer: astro.Observer{LatDeg: lat, LonDeg: lon},
	}
}

// Now returns the current time on the service clock.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// PhaseNow returns the Moon phase at the current time.
func (s *Service) PhaseNow() PhaseResult {
	return s.Phase(s.clock.Now())
}

// RiseSetToday returns moonrise/moonset for the current UTC day at the
// given location.
func (s *Service) RiseSetToday(lat, lon float64) RiseSetResult {
	return s.RiseSet(astro.Observer{LatDeg: lat, LonDeg: lon}, s.clock.Now())
}

// Report composes the phase and rise/set results for the configured
// observer location.
func (s *Service) Report() VisibilityReport {
	now := s.clock.Now()
	return VisibilityReport{
		Location: s.label,
		Phase:    s.Phase(now),
		RiseSet:  s.RiseSet(s.observer, now),
	}
}

// NextFullMoon scans the next 30 days for a full moon (illumination above
// 99% in the "Full Moon" bin). The second return is false if none is found
// in the window.
func (s *Service) NextFullMoon(from time.Time) (time.Time, bool) {
	for offset := 0; offset < 30; offset++ {
		day := from.AddDate(0, 0, offset)
		p := s.Phase(day)
		if p.Illumination > 99 && p.PhaseName == "Full Moon" {
			return day, true
		}
	}
	return time.Time{}, false
}

func (s *Service) countPath(path string) {
	if s.metrics != nil {
		s.metrics.PhasePath.WithLabelValues(path).Inc()
	}
}
