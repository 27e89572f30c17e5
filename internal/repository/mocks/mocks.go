package mocks

import (
	"context"
	"time"

	"github.com/slateworks/matbook/internal/domain/activity"
	"github.com/slateworks/matbook/internal/domain/bundle"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/domain/sheet"
	"github.com/slateworks/matbook/internal/domain/workbook"
	"github.com/stretchr/testify/mock"
)

// WorkbookRepository is a mock for repository.WorkbookRepository.
type WorkbookRepository struct {
	mock.Mock
}

func (m *WorkbookRepository) CreateVersion(ctx context.Context, v *workbook.Version) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *WorkbookRepository) GetVersion(ctx context.Context, id string) (*workbook.Version, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*workbook.Version); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkbookRepository) ListByJob(ctx context.Context, jobID string) ([]workbook.Version, error) {
	args := m.Called(ctx, jobID)
	if list, ok := args.Get(0).([]workbook.Version); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkbookRepository) ListWorkingVersions(ctx context.Context, jobID string) ([]workbook.Version, error) {
	args := m.Called(ctx, jobID)
	if list, ok := args.Get(0).([]workbook.Version); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkbookRepository) GetProposalVersion(ctx context.Context, jobID string) (*workbook.Version, error) {
	args := m.Called(ctx, jobID)
	if v, ok := args.Get(0).(*workbook.Version); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// LockAndFork applies the fork constructor to the tree configured via
// Return, mirroring the real implementation's in-transaction read.
func (m *WorkbookRepository) LockAndFork(ctx context.Context, lockVersionID string, lockedAt time.Time, fork func(*workbook.VersionTree) *workbook.VersionTree) (*workbook.VersionTree, error) {
	args := m.Called(ctx, lockVersionID, lockedAt, fork)
	if tree, ok := args.Get(0).(*workbook.VersionTree); ok {
		return fork(tree), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkbookRepository) IsVersionLocked(ctx context.Context, versionID string) (bool, error) {
	args := m.Called(ctx, versionID)
	return args.Bool(0), args.Error(1)
}

func (m *WorkbookRepository) IsSheetLocked(ctx context.Context, sheetID string) (bool, error) {
	args := m.Called(ctx, sheetID)
	return args.Bool(0), args.Error(1)
}

// SheetRepository is a mock for repository.SheetRepository.
type SheetRepository struct {
	mock.Mock
}

func (m *SheetRepository) Create(ctx context.Context, sh *sheet.Sheet) error {
	args := m.Called(ctx, sh)
	return args.Error(0)
}

func (m *SheetRepository) Get(ctx context.Context, id string) (*sheet.Sheet, error) {
	args := m.Called(ctx, id)
	if sh, ok := args.Get(0).(*sheet.Sheet); ok {
		return sh, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SheetRepository) Update(ctx context.Context, sh *sheet.Sheet) error {
	args := m.Called(ctx, sh)
	return args.Error(0)
}

func (m *SheetRepository) ListByVersion(ctx context.Context, versionID string) ([]sheet.Sheet, error) {
	args := m.Called(ctx, versionID)
	if list, ok := args.Get(0).([]sheet.Sheet); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ItemRepository is a mock for repository.ItemRepository.
type ItemRepository struct {
	mock.Mock
}

func (m *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *ItemRepository) Get(ctx context.Context, id string) (*item.Item, error) {
	args := m.Called(ctx, id)
	if it, ok := args.Get(0).(*item.Item); ok {
		return it, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *ItemRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ItemRepository) ListBySheet(ctx context.Context, sheetID string) ([]item.Item, error) {
	args := m.Called(ctx, sheetID)
	if list, ok := args.Get(0).([]item.Item); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ItemRepository) UpdateStatusBulk(ctx context.Context, itemIDs []string, status item.Status, updatedAt time.Time) error {
	args := m.Called(ctx, itemIDs, status, updatedAt)
	return args.Error(0)
}

// LaborRepository is a mock for repository.LaborRepository.
type LaborRepository struct {
	mock.Mock
}

func (m *LaborRepository) Create(ctx context.Context, le *workbook.LaborEstimate) error {
	args := m.Called(ctx, le)
	return args.Error(0)
}

func (m *LaborRepository) Get(ctx context.Context, id string) (*workbook.LaborEstimate, error) {
	args := m.Called(ctx, id)
	if le, ok := args.Get(0).(*workbook.LaborEstimate); ok {
		return le, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LaborRepository) Update(ctx context.Context, le *workbook.LaborEstimate) error {
	args := m.Called(ctx, le)
	return args.Error(0)
}

func (m *LaborRepository) ListBySheet(ctx context.Context, sheetID string) ([]workbook.LaborEstimate, error) {
	args := m.Called(ctx, sheetID)
	if list, ok := args.Get(0).([]workbook.LaborEstimate); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// BundleRepository is a mock for repository.BundleRepository.
type BundleRepository struct {
	mock.Mock
}

func (m *BundleRepository) Create(ctx context.Context, b *bundle.Bundle) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BundleRepository) Get(ctx context.Context, id string) (*bundle.Bundle, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*bundle.Bundle); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BundleRepository) ListByJob(ctx context.Context, jobID string) ([]bundle.Bundle, error) {
	args := m.Called(ctx, jobID)
	if list, ok := args.Get(0).([]bundle.Bundle); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BundleRepository) UpdateStatus(ctx context.Context, id string, status item.Status, updatedAt time.Time) error {
	args := m.Called(ctx, id, status, updatedAt)
	return args.Error(0)
}

func (m *BundleRepository) AddItems(ctx context.Context, bundleID string, itemIDs []string) error {
	args := m.Called(ctx, bundleID, itemIDs)
	return args.Error(0)
}

func (m *BundleRepository) RemoveItems(ctx context.Context, bundleID string, itemIDs []string) error {
	args := m.Called(ctx, bundleID, itemIDs)
	return args.Error(0)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, jobID string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, jobID, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
