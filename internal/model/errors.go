package model

import "errors"

var (
	// ErrNoGeometry means a drawing yielded no entities or no finite extent.
	ErrNoGeometry = errors.New("no geometry extracted")

	// ErrInvalidSpacing means a center-to-center pitch leaves no room between rows.
	ErrInvalidSpacing = errors.New("invalid spacing request")

	// ErrInvalidInput means a dimension or option is out of range.
	ErrInvalidInput = errors.New("invalid input")
)
