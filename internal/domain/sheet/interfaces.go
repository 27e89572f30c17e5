package sheet

import "context"

// Repository provides persistence for sheets.
type Repository interface {
	Create(ctx context.Context, sh *Sheet) error
	Get(ctx context.Context, id string) (*Sheet, error)
	Update(ctx context.Context, sh *Sheet) error
	ListByVersion(ctx context.Context, versionID string) ([]Sheet, error)
}

// VersionRepository answers whether a workbook version is still mutable.
type VersionRepository interface {
	IsVersionLocked(ctx context.Context, versionID string) (bool, error)
}
