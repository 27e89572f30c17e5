package item

import "errors"

var (
	// ErrItemNotFound indicates the item doesn't exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidNumber indicates a field value that doesn't parse as a
	// non-negative number.
	ErrInvalidNumber = errors.New("value is not a non-negative number")
	// ErrMarkupOutOfRange indicates a markup beyond the storable bound.
	ErrMarkupOutOfRange = errors.New("markup exceeds storage bound")
	// ErrInvalidStatus indicates an unknown status value.
	ErrInvalidStatus = errors.New("invalid item status")
	// ErrInvalidField indicates an unknown editable field.
	ErrInvalidField = errors.New("invalid item field")
	// ErrVersionLocked indicates the owning workbook version is locked and
	// read-only.
	ErrVersionLocked = errors.New("workbook version is locked")
	// ErrInvalidInput indicates invalid input for item operations.
	ErrInvalidInput = errors.New("invalid item input")
)
