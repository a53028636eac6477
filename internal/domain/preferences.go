package domain

// Preferences steer route selection.
// VisitFirst, when set, must name one of the run's destinations; the route
// then reaches that address before heading to the final destination.
type Preferences struct {
	VisitFirst string
}
