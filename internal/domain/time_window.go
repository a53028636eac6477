package domain

import "time"

// TimeWindow bounds the acceptable estimated arrival time at an address.
// A nil bound disables that side of the check.
type TimeWindow struct {
	Earliest *time.Time
	Latest   *time.Time
}

// Admits reports whether arrival falls inside the window. Both bounds are
// inclusive.
func (w TimeWindow) Admits(arrival time.Time) bool {
	if w.Earliest != nil && arrival.Before(*w.Earliest) {
		return false
	}
	if w.Latest != nil && arrival.After(*w.Latest) {
		return false
	}
	return true
}

func (w TimeWindow) IsZero() bool { return w.Earliest == nil && w.Latest == nil }

// Validate rejects windows whose earliest bound is after their latest bound.
func (w TimeWindow) Validate() error {
	if w.Earliest != nil && w.Latest != nil && w.Earliest.After(*w.Latest) {
		return ErrInvertedWindow
	}
	return nil
}
