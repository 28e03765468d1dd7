package savedview

import (
	"time"

	"github.com/rpggio/agencydesk/internal/domain/project"
)

// DefaultViewID names the built-in view that clears every filter.
const DefaultViewID = "default"

// Scope identifies whose views are being read or written.
type Scope struct {
	TenantID string
	UserID   string
}

// Filters is the part of a project view's filter state a saved view keeps.
// Search text and sort order are not saved.
type Filters struct {
	Status    project.StatusFilter   `json:"status"`
	Priority  project.PriorityFilter `json:"priority"`
	Tags      []string               `json:"tags,omitempty"`
	DateRange project.DateRange      `json:"date_range"`
}

// Capture snapshots the saved portion of f.
func Capture(f project.Filters) Filters {
	f = f.Normalize()
	return Filters{
		Status:    f.Status,
		Priority:  f.Priority,
		Tags:      append([]string(nil), f.Tags...),
		DateRange: f.DateRange,
	}
}

// Filters expands the saved filters into a complete filter state, every
// unsaved field at its default.
func (v Filters) Filters() project.Filters {
	f := project.DefaultFilters()
	f.Status = v.Status
	f.Priority = v.Priority
	f.Tags = append([]string(nil), v.Tags...)
	f.DateRange = v.DateRange
	return f.Normalize()
}

// SavedView is a named, reusable bundle of filter settings.
type SavedView struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Filters   Filters   `json:"filters"`
	CreatedAt time.Time `json:"created_at"`
}
