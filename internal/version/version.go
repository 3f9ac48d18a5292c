// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - Moonrise/moonset scan, Riga visibility report, terminal dashboard
// 0.3.0 - NASA APOD cache, NEO event seeding, saved events API
// 0.2.0 - Ephemeris time-scale loading with analytic fallback phase model
// 0.1.0 - Initial release: moon phase API, accounts, Supabase storage
