package bundle

import "errors"

var (
	// ErrBundleNotFound indicates the bundle doesn't exist.
	ErrBundleNotFound = errors.New("bundle not found")
	// ErrInvalidStatus indicates an unknown status value.
	ErrInvalidStatus = errors.New("invalid bundle status")
	// ErrInvalidInput indicates invalid input for bundle operations.
	ErrInvalidInput = errors.New("invalid bundle input")
)
