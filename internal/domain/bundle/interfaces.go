package bundle

import (
	"context"
	"time"

	"github.com/slateworks/matbook/internal/domain/activity"
	"github.com/slateworks/matbook/internal/domain/item"
)

// Repository provides persistence for bundles. Get and ListByJob return
// live membership; item deletion shrinks membership through the storage
// layer's referential-integrity policy.
type Repository interface {
	Create(ctx context.Context, b *Bundle) error
	Get(ctx context.Context, id string) (*Bundle, error)
	ListByJob(ctx context.Context, jobID string) ([]Bundle, error)
	UpdateStatus(ctx context.Context, id string, status item.Status, updatedAt time.Time) error
	AddItems(ctx context.Context, bundleID string, itemIDs []string) error
	RemoveItems(ctx context.Context, bundleID string, itemIDs []string) error
}

// ItemRepository applies the bundle's status to its member items in bulk.
type ItemRepository interface {
	UpdateStatusBulk(ctx context.Context, itemIDs []string, status item.Status, updatedAt time.Time) error
}

// ActivityRepository logs bundle lifecycle events.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
