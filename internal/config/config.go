// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	ListenAddr      string        `env:"SKYWATCH_ADDR,default=:8080"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	LogFormat       string        `env:"LOG_FORMAT,default=json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	// Supabase persistence.
	SupabaseURL string `env:"SUPABASE_URL"`
	SupabaseKey string `env:"SUPABASE_KEY"`

	// NASA Open APIs.
	NASAAPIKey    string `env:"NASA_API_KEY"`
	NASATimeout   time.Duration `env:"NASA_TIMEOUT,default=10s"`
	APODCacheSize int           `env:"APOD_CACHE_SIZE,default=64"`

	// Session tokens.
	SecretKey string        `env:"SECRET_KEY,default=dev-secret-key-change-in-production"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,default=24h"`

	// Astronomical core.
	// With an empty observer label the lunar service derives one from
	// the coordinates ("Riga, Latvia" for the defaults below).
	EphemerisPath string  `env:"EPHEMERIS_PATH,default=data/deltat.dat"`
	ObserverLabel string  `env:"OBSERVER_LABEL"`
	ObserverLat   float64 `env:"OBSERVER_LAT,default=56.9496"`
	ObserverLon   float64 `env:"OBSERVER_LON,default=24.1052"`

	// Event seeding.
	SeedTime string `env:"EVENT_SEED_TIME,default=06:00"` // daily, UTC
}

// Load reads a .env file if present, then decodes configuration from the
// environment and validates required settings.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is not set")
	}
	if cfg.SupabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_KEY is not set")
	}
	if cfg.NASAAPIKey == "" {
		return nil, fmt.Errorf("NASA_API_KEY is not set")
	}

	return &cfg, nil
}
