package filter

import "errors"

var (
	// ErrFilterNotFound indicates a changeset referenced a filter the view
	// doesn't have.
	ErrFilterNotFound = errors.New("filter not found")
)
