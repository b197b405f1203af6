package grid

import "errors"

// Domain errors for grid operations.
var (
	// ErrDimensionMismatch indicates restored content does not fit the display.
	ErrDimensionMismatch = errors.New("grid: dimension mismatch")

	// ErrRaggedMatrix indicates rows of unequal length.
	ErrRaggedMatrix = errors.New("grid: rows have unequal length")

	// ErrInvalidCell indicates a serialized cell value other than 0 or 1.
	ErrInvalidCell = errors.New("grid: cell value must be 0 or 1")

	// ErrNoContent indicates an operation that needs extended content.
	ErrNoContent = errors.New("grid: no extended content")

	// ErrNarrowContent indicates content narrower than the display window.
	ErrNarrowContent = errors.New("grid: content narrower than display")
)
