package bundle

import (
	"time"

	"github.com/slateworks/matbook/internal/domain/item"
)

// Bundle is a named, cross-sheet group of items that share one propagated
// status. It holds references by item ID only, never copies of item data,
// so membership always reflects the live ledger.
type Bundle struct {
	ID          string      `json:"id"`
	JobID       string      `json:"job_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Status      item.Status `json:"status"`
	ItemIDs     []string    `json:"item_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ItemCount reports live membership size.
func (b *Bundle) ItemCount() int {
	return len(b.ItemIDs)
}

// MembershipResult reports the outcome of an idempotent add or remove, so a
// bulk UI action can show which IDs were no-ops.
type MembershipResult struct {
	Bundle  *Bundle  `json:"bundle"`
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped,omitempty"`
}
