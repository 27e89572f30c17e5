package workbook

import (
	"time"

	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/domain/sheet"
)

// VersionStatus represents the lifecycle state of a workbook version. It is
// a tagged enum rather than a locked/unlocked boolean so future states don't
// widen call sites.
type VersionStatus string

const (
	StatusWorking VersionStatus = "working"
	StatusLocked  VersionStatus = "locked"
)

// IsValid reports whether the status is one of the defined constants.
func (s VersionStatus) IsValid() bool {
	return s == StatusWorking || s == StatusLocked
}

// Version is one complete snapshot of a job's material list. At most one
// working version exists per job; the oldest locked version is the proposal
// baseline.
type Version struct {
	ID        string        `json:"id"`
	JobID     string        `json:"job_id"`
	Number    int           `json:"number"`
	Status    VersionStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	LockedAt  *time.Time    `json:"locked_at,omitempty"`
}

// LaborEstimate is a per-sheet labor cost row. It rides along with the sheet
// through lock-and-fork.
type LaborEstimate struct {
	ID           string    `json:"id"`
	SheetID      string    `json:"sheet_id"`
	Description  string    `json:"description"`
	Hours        *float64  `json:"hours,omitempty"`
	Rate         *float64  `json:"rate,omitempty"`
	ExtendedCost *float64  `json:"extended_cost,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SheetTree is a sheet with its items and labor rows.
type SheetTree struct {
	Sheet sheet.Sheet     `json:"sheet"`
	Items []item.Item     `json:"items"`
	Labor []LaborEstimate `json:"labor"`
}

// VersionTree is a version with its full sheet contents: the unit the fork
// builds in memory and the storage layer persists in one transaction.
type VersionTree struct {
	Version Version     `json:"version"`
	Sheets  []SheetTree `json:"sheets"`
}

// LockAndForkResult reports both sides of a completed lock-and-fork.
type LockAndForkResult struct {
	Locked  *Version `json:"locked"`
	Working *Version `json:"working"`
}
