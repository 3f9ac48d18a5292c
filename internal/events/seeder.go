// Package events keeps the events table populated. When the table is
// empty it seeds upcoming near-Earth object close approaches from the
// NASA NeoWs feed, and a daily scheduled job repeats the check so the
// site never shows an empty calendar.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/astroriga/skywatch/internal/nasa"
	"github.com/astroriga/skywatch/internal/store"
)

const (
	seedWindowDays = 4
	seedMaxEvents  = 20
	seedEventType  = "Near-Earth Object"
)

// NEOSource is the slice of the NASA client the seeder needs.
type NEOSource interface {
	NEOFeed(ctx context.Context, startDate, endDate string) ([]nasa.NEO, error)
}

// EventStore is the slice of the events repository the seeder needs.
type EventStore interface {
	All(ctx context.Context) ([]store.Event, error)
	Create(ctx context.Context, ev store.Event) error
}

// Seeder populates the events table from the NEO feed.
type Seeder struct {
	neo    NEOSource
	events EventStore
	clock  clockwork.Clock
	log    zerolog.Logger
}

// NewSeeder creates a seeder. clock may be nil.
func NewSeeder(neo NEOSource, events EventStore, clock clockwork.Clock, log zerolog.Logger) *Seeder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Seeder{neo: neo, events: events, clock: clock, log: log}
}

// EnsureAvailable seeds the events table if it is empty. It returns the
// number of events inserted; zero with a nil error means the table already
// had rows or the feed had nothing in the window.
func (s *Seeder) EnsureAvailable(ctx context.Context) (int, error) {
	existing, err := s.events.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("events: check existing: %w", err)
	}
	if len(existing) > 0 {
		s.log.Debug().Int("count", len(existing)).Msg("events table already populated")
		return 0, nil
	}

	today := s.clock.Now().UTC()
	start := today.Format(time.DateOnly)
	end := today.AddDate(0, 0, seedWindowDays).Format(time.DateOnly)

	neos, err := s.neo.NEOFeed(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("events: fetch NEO feed: %w", err)
	}

	inserted := 0
	for _, neo := range neos {
		if inserted >= seedMaxEvents {
			break
		}
		if err := s.events.Create(ctx, eventFromNEO(neo)); err != nil {
			return inserted, fmt.Errorf("events: insert %q: %w", neo.Name, err)
		}
		inserted++
	}

	s.log.Info().Int("inserted", inserted).Str("start", start).Str("end", end).
		Msg("seeded events from NEO feed")
	return inserted, nil
}

func eventFromNEO(neo nasa.NEO) store.Event {
	hazard := "is not"
	if neo.IsHazardous {
		hazard = "is"
	}
	return store.Event{
		Title: "NEO Close Approach: " + neo.Name,
		Description: fmt.Sprintf(
			"Asteroid %s passes near Earth. Estimated diameter up to %.3f km; it %s classified as potentially hazardous.",
			neo.Name, neo.DiameterKm, hazard),
		EventDate: neo.Date,
		EventType: seedEventType,
	}
}

// Schedule runs EnsureAvailable once a day at the given UTC wall time
// ("HH:MM"). The returned scheduler is already started; stop it to cancel.
func (s *Seeder) Schedule(ctx context.Context, at string) (*gocron.Scheduler, error) {
	sched := gocron.NewScheduler(time.UTC)
	_, err := sched.Every(1).Day().At(at).Do(func() {
		if _, err := s.EnsureAvailable(ctx); err != nil {
			s.log.Error().Err(err).Msg("scheduled event seeding failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("events: schedule seeding: %w", err)
	}
	sched.StartAsync()
	s.log.Info().Str("at", at).Msg("event seeding scheduled")
	return sched, nil
}
