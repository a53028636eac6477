package domain

// Represents a single delivery address awaiting routing.
// Position orders stops within a manifest; the stop with the highest
// position is the final destination of the run.
type Stop struct {
	Position int
	Address  string
	Window   TimeWindow
}
