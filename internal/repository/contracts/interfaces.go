package contracts

import (
	"context"
	"time"

	"github.com/slateworks/matbook/internal/domain/activity"
	"github.com/slateworks/matbook/internal/domain/bundle"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/domain/sheet"
	"github.com/slateworks/matbook/internal/domain/workbook"
)

// These interfaces are the storage collaborator contract consumed by the
// engine. Each domain package declares the narrower slice it needs; the
// sqlite implementations satisfy both.

// WorkbookRepository manages workbook version persistence
type WorkbookRepository interface {
	CreateVersion(ctx context.Context, v *workbook.Version) error
	GetVersion(ctx context.Context, id string) (*workbook.Version, error)
	ListByJob(ctx context.Context, jobID string) ([]workbook.Version, error)
	ListWorkingVersions(ctx context.Context, jobID string) ([]workbook.Version, error)
	GetProposalVersion(ctx context.Context, jobID string) (*workbook.Version, error)
	// LockAndFork locks a working version, reads its tree, and persists the
	// deep copy built by the fork constructor, all in a single transaction;
	// any failure leaves prior state untouched.
	LockAndFork(ctx context.Context, lockVersionID string, lockedAt time.Time, fork func(*workbook.VersionTree) *workbook.VersionTree) (*workbook.VersionTree, error)
	IsVersionLocked(ctx context.Context, versionID string) (bool, error)
	IsSheetLocked(ctx context.Context, sheetID string) (bool, error)
}

// SheetRepository manages sheet persistence
type SheetRepository interface {
	Create(ctx context.Context, sh *sheet.Sheet) error
	Get(ctx context.Context, id string) (*sheet.Sheet, error)
	Update(ctx context.Context, sh *sheet.Sheet) error
	ListByVersion(ctx context.Context, versionID string) ([]sheet.Sheet, error)
}

// ItemRepository manages item persistence
type ItemRepository interface {
	Create(ctx context.Context, it *item.Item) error
	Get(ctx context.Context, id string) (*item.Item, error)
	Update(ctx context.Context, it *item.Item) error
	Delete(ctx context.Context, id string) error
	ListBySheet(ctx context.Context, sheetID string) ([]item.Item, error)
	UpdateStatusBulk(ctx context.Context, itemIDs []string, status item.Status, updatedAt time.Time) error
}

// LaborRepository manages per-sheet labor estimate persistence
type LaborRepository interface {
	Create(ctx context.Context, le *workbook.LaborEstimate) error
	Get(ctx context.Context, id string) (*workbook.LaborEstimate, error)
	Update(ctx context.Context, le *workbook.LaborEstimate) error
	ListBySheet(ctx context.Context, sheetID string) ([]workbook.LaborEstimate, error)
}

// BundleRepository manages bundle persistence
type BundleRepository interface {
	Create(ctx context.Context, b *bundle.Bundle) error
	Get(ctx context.Context, id string) (*bundle.Bundle, error)
	ListByJob(ctx context.Context, jobID string) ([]bundle.Bundle, error)
	UpdateStatus(ctx context.Context, id string, status item.Status, updatedAt time.Time) error
	AddItems(ctx context.Context, bundleID string, itemIDs []string) error
	RemoveItems(ctx context.Context, bundleID string, itemIDs []string) error
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
	List(ctx context.Context, jobID string, opts activity.ListOptions) ([]activity.Entry, error)
}
