package domain

import (
	"errors"
	"fmt"
)

// Side identifies which address of the pair an error refers to.
type Side string

const (
	SideSource      Side = "source"
	SideDestination Side = "destination"
)

// ValidationError rejects a request before anything is persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrSameAddress  = &ValidationError{Message: "Source and destination cannot be the same"}
	ErrSameLocation = &ValidationError{Message: "Source and destination resolve to the same location"}

	// ErrNoResult is returned by a geocoder that answered but found nothing.
	ErrNoResult = errors.New("no geocoding result")
	// ErrNoRoute is returned by a routed estimator whose response carried no usable distance.
	ErrNoRoute = errors.New("no route distance in response")

	ErrDistanceUnavailable = errors.New("distance unavailable")
)

// GeocodeError means every geocoder failed to resolve one side.
type GeocodeError struct {
	Side    Side
	Address string
	Err     error
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("Invalid %s address: %s", e.Side, e.Address)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed history write.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persist location record: %v", e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }
