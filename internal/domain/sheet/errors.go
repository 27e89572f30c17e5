package sheet

import "errors"

var (
	// ErrSheetNotFound indicates the sheet doesn't exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrVersionLocked indicates the owning workbook version is locked and
	// read-only.
	ErrVersionLocked = errors.New("workbook version is locked")
	// ErrInvalidInput indicates invalid input for sheet operations.
	ErrInvalidInput = errors.New("invalid sheet input")
)
