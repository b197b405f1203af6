package storage

import "errors"

var (
	ErrNotFound = errors.New("storage: record not found")

	// ErrCorruptRecord marks a persisted record that cannot be decoded or
	// fails validation.
	ErrCorruptRecord = errors.New("storage: corrupt record")

	ErrEmptyName = errors.New("storage: record name is empty")
)

// LoadError reports a single record that failed to load.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return "storage: record " + e.ID + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
