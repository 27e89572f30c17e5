package workbook

import "errors"

var (
	// ErrVersionNotFound indicates the version doesn't exist.
	ErrVersionNotFound = errors.New("workbook version not found")
	// ErrNoWorkingVersion indicates the job has no working version to
	// operate on.
	ErrNoWorkingVersion = errors.New("no working version for job")
	// ErrNoBaseline indicates the job has no locked version yet.
	ErrNoBaseline = errors.New("no locked baseline version for job")
	// ErrVersionExists indicates the job already has workbook versions, so
	// the only way to get a new working version is LockAndFork.
	ErrVersionExists = errors.New("job already has workbook versions")
	// ErrVersionLocked indicates a write against a locked version.
	ErrVersionLocked = errors.New("workbook version is locked")
	// ErrLaborNotFound indicates the labor estimate doesn't exist.
	ErrLaborNotFound = errors.New("labor estimate not found")
	// ErrInvalidInput indicates invalid input for workbook operations.
	ErrInvalidInput = errors.New("invalid workbook input")
	// ErrVersionStateCorrupt indicates more than one working version was
	// found for a job. The storage constraint makes this unreachable; if it
	// surfaces, upstream data is corrupt.
	ErrVersionStateCorrupt = errors.New("multiple working versions for job")
)
