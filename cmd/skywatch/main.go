// Command skywatch serves the astronomy site API: moon phase and
// visibility calculations, NASA data, events, and user accounts.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/astroriga/skywatch/internal/auth"
	"github.com/astroriga/skywatch/internal/config"
	"github.com/astroriga/skywatch/internal/ephem"
	"github.com/astroriga/skywatch/internal/events"
	"github.com/astroriga/skywatch/internal/httpapi"
	"github.com/astroriga/skywatch/internal/logging"
	"github.com/astroriga/skywatch/internal/lunar"
	"github.com/astroriga/skywatch/internal/nasa"
	"github.com/astroriga/skywatch/internal/observability"
	"github.com/astroriga/skywatch/internal/store"
	"github.com/astroriga/skywatch/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "skywatch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("version", version.Version).Str("addr", cfg.ListenAddr).Msg("starting skywatch")

	metrics := observability.NewMetrics()

	storeClient, err := store.NewClient(store.Config{
		URL:    cfg.SupabaseURL,
		APIKey: cfg.SupabaseKey,
		Logger: logging.Component(log, "store"),
	})
	if err != nil {
		return err
	}
	users := store.NewUsers(storeClient)
	eventRepo := store.NewEvents(storeClient)
	savedEvents := store.NewSavedEvents(storeClient)

	nasaClient := nasa.NewClient(cfg.NASAAPIKey, cfg.NASATimeout, logging.Component(log, "nasa"), metrics)
	apod := nasa.NewCachedAPOD(nasaClient, cfg.APODCacheSize, nil, metrics)

	ephemProvider := ephem.NewProvider(cfg.EphemerisPath, logging.Component(log, "ephem"), metrics)
	lunarSvc := lunar.New(lunar.Config{
		Backend:       lunar.NewEphemerisProvider(ephemProvider),
		Logger:        logging.Component(log, "lunar"),
		Metrics:       metrics,
		LocationLabel: cfg.ObserverLabel,
		Latitude:      cfg.ObserverLat,
		Longitude:     cfg.ObserverLon,
	})

	authSvc := auth.New(users, cfg.SecretKey, cfg.TokenTTL, logging.Component(log, "auth"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seeder := events.NewSeeder(nasaClient, eventRepo, nil, logging.Component(log, "events"))
	if _, err := seeder.EnsureAvailable(ctx); err != nil {
		log.Warn().Err(err).Msg("initial event seeding failed")
	}
	scheduler, err := seeder.Schedule(ctx, cfg.SeedTime)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	api := httpapi.NewServer(httpapi.Config{
		Lunar:       lunarSvc,
		APOD:        apod,
		NASAData:    nasaClient,
		Auth:        authSvc,
		Events:      eventRepo,
		SavedEvents: savedEvents,
		Metrics:     metrics,
		Logger:      logging.Component(log, "http"),
	})

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("stopped")
	return nil
}
