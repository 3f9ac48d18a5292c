package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/astroriga/skywatch/internal/lunar"
)

func TestWriteSummary(t *testing.T) {
	rise := time.Date(2024, 3, 20, 11, 0, 0, 0, time.UTC)
	rep := lunar.VisibilityReport{
		Location: "Riga, Latvia",
		Phase: lunar.PhaseResult{
			PhaseName:    "Waxing Gibbous",
			Illumination: 82.4,
			PhaseAngle:   130.2,
		},
		RiseSet: lunar.RiseSetResult{Moonrise: &rise},
	}

	var b strings.Builder
	WriteSummary(&b, rep, time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC))
	out := b.String()

	for _, want := range []string{
		"Riga, Latvia",
		"2024-03-20 12:00",
		"Waxing Gibbous",
		"82.4%",
		"130.2",
		"11:00 UTC",
		"not found", // moonset unknown
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
