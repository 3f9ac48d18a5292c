// Command skywatch-moon is a terminal dashboard for moon phase and
// visibility, sharing the site's calculation core.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/astroriga/skywatch/internal/ephem"
	"github.com/astroriga/skywatch/internal/logging"
	"github.com/astroriga/skywatch/internal/lunar"
	"github.com/astroriga/skywatch/internal/ui"
)

const (
	defaultRefresh = 1 * time.Minute
	minRefresh     = 5 * time.Second
	maxRefresh     = 1 * time.Hour
)

func main() {
	refresh := flag.Duration("refresh", defaultRefresh, "Dashboard refresh interval (e.g., 30s, 5m)")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	ephemerisPath := flag.String("ephemeris", "data/deltat.dat", "Path to the delta-T time scale table")
	label := flag.String("label", "", "Observer location label (default Riga, Latvia)")
	lat := flag.Float64("lat", lunar.DefaultLatitude, "Observer latitude in degrees")
	lon := flag.Float64("lon", lunar.DefaultLongitude, "Observer longitude in degrees")
	summaryMode := flag.Bool("summary", false, "Print text summary instead of TUI")
	watchInterval := flag.Duration("watch", 0, "Repeat summary at interval (e.g., 30s)")
	flag.Parse()

	if *refresh < minRefresh {
		*refresh = minRefresh
	} else if *refresh > maxRefresh {
		*refresh = maxRefresh
	}

	log := logging.New(*logLevel, "console")

	provider := ephem.NewProvider(*ephemerisPath, logging.Component(log, "ephem"), nil)
	svc := lunar.New(lunar.Config{
		Backend:       lunar.NewEphemerisProvider(provider),
		Logger:        logging.Component(log, "lunar"),
		LocationLabel: *label,
		Latitude:      *lat,
		Longitude:     *lon,
	})

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if *summaryMode || *watchInterval > 0 || !isTTY {
		runHeadless(svc, *watchInterval)
		return
	}

	p := tea.NewProgram(ui.New(svc, *refresh), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runHeadless(svc *lunar.Service, watch time.Duration) {
	ui.WriteSummary(os.Stdout, svc.Report(), time.Now())

	if watch == 0 {
		return
	}

	ticker := time.NewTicker(watch)
	defer ticker.Stop()

	for range ticker.C {
		fmt.Println()
		ui.WriteSummary(os.Stdout, svc.Report(), time.Now())
	}
}
