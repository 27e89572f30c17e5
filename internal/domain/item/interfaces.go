package item

import "context"

// Repository provides persistence for items.
type Repository interface {
	Create(ctx context.Context, it *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id string) error
	ListBySheet(ctx context.Context, sheetID string) ([]Item, error)
}

// VersionRepository answers whether the version owning a sheet is still
// mutable. Locked versions are read-only forever.
type VersionRepository interface {
	IsSheetLocked(ctx context.Context, sheetID string) (bool, error)
}
