// Package ephem provides the positional-astronomy backend used by the lunar
// calculators: a lazily-acquired, process-shared handle bundling a time
// scale with Earth, Moon and Sun body models.
package ephem

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/astroriga/skywatch/internal/astro"
	"github.com/astroriga/skywatch/internal/observability"
)

// Body is a celestial body whose apparent geocentric position can be
// evaluated at a TT Julian Date.
type Body interface {
	Apparent(jdTT float64) astro.Equatorial
}

type moonBody struct{}

func (moonBody) Apparent(jdTT float64) astro.Equatorial { return astro.MoonPosition(jdTT) }

type sunBody struct{}

func (sunBody) Apparent(jdTT float64) astro.Equatorial { return astro.SunPosition(jdTT) }

// Earth is the observation center. Positions of other bodies are expressed
// as seen from it, either geocentrically or from a ground observer.
type Earth struct{}

// Observe returns the apparent geocentric position of a body.
func (Earth) Observe(b Body, jdTT float64) astro.Equatorial {
	return b.Apparent(jdTT)
}

// Handle bundles the time-scale converter with the Earth, Moon and Sun
// bodies. A Handle is only ever constructed whole: either all four fields
// are valid or the handle does not exist. Once published by the Provider it
// is immutable and safe for concurrent use.
type Handle struct {
	Timescale *Timescale
	Earth     Earth
	Moon      Body
	Sun       Body
}

// Elongation returns the apparent Sun-Moon angular separation in degrees
// as seen from Earth at the given instant.
func (h *Handle) Elongation(t time.Time) float64 {
	jdTT := h.Timescale.TT(t)
	sun := h.Earth.Observe(h.Sun, jdTT)
	moon := h.Earth.Observe(h.Moon, jdTT)
	return astro.AngularSeparation(sun.RAdeg, sun.DecDeg, moon.RAdeg, moon.DecDeg)
}

// MoonAltitude returns the Moon's apparent altitude in degrees above the
// observer's horizon at the given instant.
func (h *Handle) MoonAltitude(obs astro.Observer, t time.Time) float64 {
	moon := h.Earth.Observe(h.Moon, h.Timescale.TT(t))
	return astro.Altitude(moon, obs, h.Timescale.UT(t))
}

// Provider owns the lazy acquisition of the shared Handle.
//
// The first successful Acquire constructs the handle and caches it for the
// process lifetime. Failures are reported, never cached: every subsequent
// call retries the load, so a transient problem (data file not yet
// provisioned) heals without a restart. The mutex covers the whole
// check-then-load sequence so concurrent first calls cannot race.
type Provider struct {
	mu      sync.Mutex
	path    string
	log     zerolog.Logger
	metrics *observability.Metrics
	handle  *Handle
}

// NewProvider creates a Provider that loads its time-scale table from path.
// metrics may be nil.
func NewProvider(path string, log zerolog.Logger, metrics *observability.Metrics) *Provider {
	return &Provider{path: path, log: log, metrics: metrics}
}

// Acquire returns the shared handle and whether it is available. It never
// returns an error: an unavailable backend is an expected condition the
// calculators degrade around.
func (p *Provider) Acquire() (*Handle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != nil {
		p.countAcquire("hit")
		return p.handle, true
	}

	ts, err := LoadTimescale(p.path)
	if err != nil {
		p.countAcquire("failed")
		p.log.Warn().Err(err).Str("path", p.path).
			Msg("ephemeris backend unavailable, will retry on next use")
		return nil, false
	}

	p.handle = &Handle{
		Timescale: ts,
		Earth:     Earth{},
		Moon:      moonBody{},
		Sun:       sunBody{},
	}
	p.countAcquire("loaded")
	p.log.Info().Str("path", p.path).Msg("ephemeris backend loaded")
	return p.handle, true
}

func (p *Provider) countAcquire(outcome string) {
	if p.metrics != nil {
		p.metrics.EphemerisAcquire.WithLabelValues(outcome).Inc()
	}
}

// Available reports whether the backend has been, or can now be, acquired.
func (p *Provider) Available() bool {
	_, ok := p.Acquire()
	return ok
}
