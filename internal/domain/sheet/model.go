package sheet

import "time"

// Sheet is a named partition of items inside exactly one workbook version.
type Sheet struct {
	ID        string    `json:"id"`
	VersionID string    `json:"version_id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
