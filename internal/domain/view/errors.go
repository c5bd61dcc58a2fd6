package view

import "errors"

var (
	// ErrFieldNotFound indicates an operation referenced an unknown field.
	ErrFieldNotFound = errors.New("field not found")

	// ErrRowNotFound indicates an operation referenced an unknown row.
	ErrRowNotFound = errors.New("row not found")

	// ErrNotGrouped indicates a board operation on a view with no grouping
	// configured.
	ErrNotGrouped = errors.New("view is not grouped")
)
