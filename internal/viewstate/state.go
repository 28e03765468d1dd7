package viewstate

import (
	"fmt"
	"strings"

	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/savedview"
)

// Mode is how the project collection is laid out. Any mode may follow any
// other; switching never changes which projects are visible.
type Mode string

const (
	ModeGrid     Mode = "grid"
	ModeList     Mode = "list"
	ModeKanban   Mode = "kanban"
	ModeGantt    Mode = "gantt"
	ModeTimeline Mode = "timeline"
)

// Modes returns every view mode.
func Modes() []Mode {
	return []Mode{ModeGrid, ModeList, ModeKanban, ModeGantt, ModeTimeline}
}

// ParseMode parses a view mode name.
func ParseMode(v string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, v)
}

// Pending marks a project with an unconfirmed mutation.
type Pending string

const (
	PendingDragging Pending = "dragging"
	PendingDeleting Pending = "deleting"
	PendingUpdating Pending = "updating"
)

// ViewState is a serializable snapshot of a controller.
type ViewState struct {
	Mode           Mode                  `json:"mode"`
	Filters        project.Filters       `json:"filters"`
	FiltersActive  bool                  `json:"filters_active"`
	Selection      []string              `json:"selection"`
	SavedViews     []savedview.SavedView `json:"saved_views"`
	ActiveViewID   string                `json:"active_view_id"`
	Pending        map[string]Pending    `json:"pending,omitempty"`
	Page           int                   `json:"page"`
	PageSize       int                   `json:"page_size"`
	CollectionSize int                   `json:"collection_size"`
	VisibleCount   int                   `json:"visible_count"`
	LoadError      string                `json:"load_error,omitempty"`
}

// Item is one visible project with its derived view data.
type Item struct {
	project.Project
	Health   project.HealthScore `json:"health"`
	Favorite bool                `json:"favorite"`
	Selected bool                `json:"selected"`
	Pending  Pending             `json:"pending,omitempty"`
}

// PageResult is one page of visible projects.
type PageResult struct {
	Items      []Item `json:"items"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalItems int    `json:"total_items"`
	TotalPages int    `json:"total_pages"`
}

// BulkFailure records why one project of a bulk action failed.
type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkResult reports the per-project outcome of a bulk action.
type BulkResult struct {
	Action    string        `json:"action"`
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// OK reports whether every project succeeded.
func (r BulkResult) OK() bool {
	return len(r.Failed) == 0
}

// FailedIDs lists the ids that failed.
func (r BulkResult) FailedIDs() []string {
	ids := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.ID
	}
	return ids
}
