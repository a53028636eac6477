package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest    = errors.New("invalid route request")
	ErrNoDestinations    = errors.New("no destinations given")
	ErrUnknownLocation   = errors.New("location is not in the graph")
	ErrNegativeWeight    = errors.New("negative travel time")
	ErrInvalidTravelTime = errors.New("invalid travel time")
	ErrUnreachable       = errors.New("destination unreachable")
)

// UnreachableError reports a destination with no finite-time route from From.
type UnreachableError struct {
	Address string
	From    string
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%q is unreachable from %q", e.Address, e.From)
}

func (e *UnreachableError) Unwrap() error { return ErrUnreachable }

// ProviderError wraps a failure of the travel-time provider. It is distinct
// from an unreachable destination: the provider could not answer at all.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("travel time provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
