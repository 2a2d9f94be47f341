package models

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by DataError.
var (
	ErrMissingField    = errors.New("missing required field")
	ErrBadValue        = errors.New("invalid value")
	ErrUnknownType     = errors.New("unknown location type")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrUnknownLocation = errors.New("unknown location")
	ErrSelfLoop        = errors.New("route starts and ends at the same location")
	ErrBadWeight       = errors.New("travel time must be a positive finite number")
)

// DataError reports a malformed or inconsistent input record. It is returned
// at load or build time and stops that load.
type DataError struct {
	Kind  string // location, route, team, zone, supply
	Key   string
	Field string
	Err   error
}

func (e *DataError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %q: field %s: %v", e.Kind, e.Key, e.Field, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// NewDataError builds a *DataError for the given record.
func NewDataError(kind, key, field string, err error) error {
	return &DataError{Kind: kind, Key: key, Field: field, Err: err}
}

// IsDataError reports whether err is, or wraps, a *DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
