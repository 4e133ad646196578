package mapinit

import (
	"errors"
	"fmt"
)

var (
	ErrMissingContainer  = errors.New("map container not found")
	ErrGeocodeResolution = errors.New("geocode resolution failed")
)

// MissingContainerError aborts initialization; nothing is built.
type MissingContainerError struct {
	ContainerID string
}

func (e *MissingContainerError) Error() string {
	return fmt.Sprintf("no #%s element found", e.ContainerID)
}

func (e *MissingContainerError) Unwrap() error {
	return ErrMissingContainer
}

// GeocodeResolutionError is reported for a single address; sibling addresses are unaffected.
type GeocodeResolutionError struct {
	Address string
	Status  string
	Err     error
}

func (e *GeocodeResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocode failed for %q: %s: %v", e.Address, e.Status, e.Err)
	}
	return fmt.Sprintf("geocode failed for %q: %s", e.Address, e.Status)
}

func (e *GeocodeResolutionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrGeocodeResolution, e.Err}
	}
	return []error{ErrGeocodeResolution}
}
