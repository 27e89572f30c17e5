package activity

import "time"

// Type represents the kind of lifecycle event being logged.
type Type string

const (
	TypeVersionLocked   Type = "version_locked"
	TypeBundleCreated   Type = "bundle_created"
	TypeBundleStatusSet Type = "bundle_status_set"
)

// Entry represents an event in the job activity log.
type Entry struct {
	ID        int64     `json:"id"`
	JobID     string    `json:"job_id"`
	EntityID  *string   `json:"entity_id,omitempty"`
	Type      Type      `json:"type"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}
