package workbook

import (
	"context"
	"time"

	"github.com/slateworks/matbook/internal/domain/activity"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/domain/sheet"
)

// Repository provides persistence for workbook versions.
type Repository interface {
	CreateVersion(ctx context.Context, v *Version) error
	GetVersion(ctx context.Context, id string) (*Version, error)
	ListByJob(ctx context.Context, jobID string) ([]Version, error)
	ListWorkingVersions(ctx context.Context, jobID string) ([]Version, error)
	GetProposalVersion(ctx context.Context, jobID string) (*Version, error)
	// LockAndFork marks the version locked, reads its full tree, applies
	// the fork constructor to it, and persists the result, all inside one
	// transaction. Reading the tree after the lock succeeds is what keeps a
	// concurrent item edit from landing in the locked baseline but not in
	// the fork. It must leave prior state untouched on failure and returns
	// the persisted fork tree.
	LockAndFork(ctx context.Context, lockVersionID string, lockedAt time.Time, fork func(*VersionTree) *VersionTree) (*VersionTree, error)
	IsSheetLocked(ctx context.Context, sheetID string) (bool, error)
}

// SheetRepository lists the sheets of a version.
type SheetRepository interface {
	ListByVersion(ctx context.Context, versionID string) ([]sheet.Sheet, error)
}

// ItemRepository lists the items of a sheet.
type ItemRepository interface {
	ListBySheet(ctx context.Context, sheetID string) ([]item.Item, error)
}

// LaborRepository manages the labor rows of a sheet.
type LaborRepository interface {
	Create(ctx context.Context, le *LaborEstimate) error
	Get(ctx context.Context, id string) (*LaborEstimate, error)
	Update(ctx context.Context, le *LaborEstimate) error
	ListBySheet(ctx context.Context, sheetID string) ([]LaborEstimate, error)
}

// ActivityRepository logs workbook lifecycle events.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
