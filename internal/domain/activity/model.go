package activity

import "time"

// ActivityType names the kind of change an entry records
type ActivityType string

const (
	TypeProjectCreated    ActivityType = "project_created"
	TypeProjectUpdated    ActivityType = "project_updated"
	TypeStatusChanged     ActivityType = "status_changed"
	TypeProjectDeleted    ActivityType = "project_deleted"
	TypeProjectDuplicated ActivityType = "project_duplicated"
	TypeProjectArchived   ActivityType = "project_archived"
	TypeProjectRestored   ActivityType = "project_restored"
	TypeBulkAction        ActivityType = "bulk_action"
	TypeViewSaved         ActivityType = "view_saved"
	TypeViewDeleted       ActivityType = "view_deleted"
)

// ActivityEntry is one row of the tenant's audit trail
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	ProjectID    *string      `json:"project_id,omitempty"`
	ActorID      string       `json:"actor_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
