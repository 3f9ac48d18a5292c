package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/astroriga/skywatch/internal/lunar"
)

// WriteSummary prints a plain-text visibility report for headless use.
func WriteSummary(w io.Writer, rep lunar.VisibilityReport, now time.Time) {
	fmt.Fprintf(w, "Moon visibility for %s at %s UTC\n", rep.Location, now.UTC().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  Phase:        %s\n", rep.Phase.PhaseName)
	fmt.Fprintf(w, "  Illumination: %.1f%%\n", rep.Phase.Illumination)
	fmt.Fprintf(w, "  Phase angle:  %.1f°\n", rep.Phase.PhaseAngle)
	fmt.Fprintf(w, "  Moonrise:     %s\n", formatInstant(rep.RiseSet.Moonrise))
	fmt.Fprintf(w, "  Moonset:      %s\n", formatInstant(rep.RiseSet.Moonset))
}

func formatInstant(t *time.Time) string {
	if t == nil {
		return "not found"
	}
	return t.UTC().Format("15:04 UTC")
}
