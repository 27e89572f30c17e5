package compare

import (
	"context"

	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/domain/sheet"
	"github.com/slateworks/matbook/internal/domain/workbook"
)

// VersionRepository resolves the baseline and actuals versions of a job.
type VersionRepository interface {
	GetProposalVersion(ctx context.Context, jobID string) (*workbook.Version, error)
	ListWorkingVersions(ctx context.Context, jobID string) ([]workbook.Version, error)
}

// SheetRepository lists the sheets of a version.
type SheetRepository interface {
	ListByVersion(ctx context.Context, versionID string) ([]sheet.Sheet, error)
}

// ItemRepository lists the items of a sheet.
type ItemRepository interface {
	ListBySheet(ctx context.Context, sheetID string) ([]item.Item, error)
}
