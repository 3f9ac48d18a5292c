package ephem

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/astroriga/skywatch/internal/astro"
)

const testTable = "2000.0 63.83\n2020.0 69.36\n2026.0 69.10\n"

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deltat.dat")
	if err := os.WriteFile(path, []byte(testTable), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewProvider(path, zerolog.Nop(), nil)
}

func TestProviderAcquire(t *testing.T) {
	p := newTestProvider(t)

	h1, ok := p.Acquire()
	if !ok || h1 == nil {
		t.Fatal("Acquire failed on valid data")
	}

	h2, ok := p.Acquire()
	if !ok {
		t.Fatal("second Acquire failed")
	}
	if h1 != h2 {
		t.Error("Acquire did not return the cached handle")
	}
}

func TestProviderRetriesAfterFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deltat.dat")
	p := NewProvider(path, zerolog.Nop(), nil)

	if _, ok := p.Acquire(); ok {
		t.Fatal("Acquire succeeded with no data file")
	}
	// Failure must not be cached: once the file appears the next call loads it.
	if _, ok := p.Acquire(); ok {
		t.Fatal("second Acquire succeeded with no data file")
	}

	if err := os.WriteFile(path, []byte(testTable), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Acquire(); !ok {
		t.Error("Acquire failed after data file appeared")
	}
	if !p.Available() {
		t.Error("Available() = false after successful load")
	}
}

func TestProviderConcurrentAcquire(t *testing.T) {
	p := newTestProvider(t)

	handles := make([]*Handle, 16)
	var wg sync.WaitGroup
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, ok := p.Acquire()
			if !ok {
				t.Error("concurrent Acquire failed")
				return
			}
			handles[i] = h
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(handles); i++ {
		if handles[i] != handles[0] {
			t.Fatal("concurrent Acquire returned different handles")
		}
	}
}

func TestHandleElongation(t *testing.T) {
	p := newTestProvider(t)
	h, ok := p.Acquire()
	if !ok {
		t.Fatal("Acquire failed")
	}

	tests := []struct {
		name     string
		at       time.Time
		min, max float64
	}{
		// Astronomical new moon: 2024-01-11 11:57 UTC
		{"new moon", time.Date(2024, 1, 11, 11, 57, 0, 0, time.UTC), 0, 15},
		// Astronomical full moon: 2024-01-25 17:54 UTC
		{"full moon", time.Date(2024, 1, 25, 17, 54, 0, 0, time.UTC), 165, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.Elongation(tt.at)
			if got < tt.min || got > tt.max {
				t.Errorf("Elongation = %f, want in [%f, %f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestHandleMoonAltitude(t *testing.T) {
	p := newTestProvider(t)
	h, ok := p.Acquire()
	if !ok {
		t.Fatal("Acquire failed")
	}

	riga := astro.Observer{LatDeg: 56.9496, LonDeg: 24.1052}

	// Precomputed hourly altitudes for Riga on 2024-03-20 put the Moon
	// below the horizon at 06:00 and high in the sky at 19:00.
	down := h.MoonAltitude(riga, time.Date(2024, 3, 20, 6, 0, 0, 0, time.UTC))
	if down >= 0 {
		t.Errorf("altitude at 06:00 = %f, want below horizon", down)
	}

	up := h.MoonAltitude(riga, time.Date(2024, 3, 20, 19, 0, 0, 0, time.UTC))
	if up < 45 {
		t.Errorf("altitude at 19:00 = %f, want well above horizon", up)
	}
}
