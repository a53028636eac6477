package domain

import (
	"fmt"
	"strings"
	"time"
)

const DefaultMaxStops = 25

// Manifest is the input of a single optimization run: where the courier
// starts, when it leaves, and the ordered stops it carries. The last stop is
// the final destination.
type Manifest struct {
	Start       string
	DepartAt    time.Time
	Stops       []*Stop
	Preferences Preferences
	MaxStops    int
}

func NewManifest(start string, departAt time.Time, maxStops int) *Manifest {
	if maxStops <= 0 {
		maxStops = DefaultMaxStops
	}

	return &Manifest{
		Start:    start,
		DepartAt: departAt,
		MaxStops: maxStops,
	}
}

// Add a single stop to the manifest.
func (m *Manifest) Add(stop *Stop) error {
	if stop == nil || strings.TrimSpace(stop.Address) == "" {
		return fmt.Errorf("add stop: address must be non-empty")
	}
	if len(m.Stops) >= m.MaxStops {
		return fmt.Errorf("add stop %q: %w (max_stops=%d)", stop.Address, ErrManifestFull, m.MaxStops)
	}
	if err := stop.Window.Validate(); err != nil {
		return fmt.Errorf("add stop %q: %w", stop.Address, err)
	}
	m.Stops = append(m.Stops, stop)
	return nil
}

// Add multiple stops, in order.
func (m *Manifest) AddAll(stops []*Stop) error {
	for _, s := range stops {
		if err := m.Add(s); err != nil {
			return err
		}
	}

	return nil
}

// Destinations returns the stop addresses in manifest order.
func (m *Manifest) Destinations() []string {
	out := make([]string, 0, len(m.Stops))
	for _, s := range m.Stops {
		out = append(out, s.Address)
	}
	return out
}

// Constraints returns the time windows of constrained stops keyed by address.
func (m *Manifest) Constraints() map[string]TimeWindow {
	out := make(map[string]TimeWindow)
	for _, s := range m.Stops {
		if s.Window.IsZero() {
			continue
		}
		out[s.Address] = s.Window
	}
	return out
}
