package group

import "errors"

var (
	// ErrNotGroupable indicates the chosen grouping field's type has no
	// grouping strategy.
	ErrNotGroupable = errors.New("field type is not groupable")

	// ErrGroupNotFound indicates an operation referenced a group id the
	// view doesn't have.
	ErrGroupNotFound = errors.New("group not found")

	// ErrNoGroupingField indicates the view has no grouping field
	// configured.
	ErrNoGroupingField = errors.New("view has no grouping field")

	// ErrRowNotFound indicates a move referenced a row that no longer
	// exists.
	ErrRowNotFound = errors.New("row not found")
)
