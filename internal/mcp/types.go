package mcp

import (
	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/savedview"
	"github.com/rpggio/agencydesk/internal/viewstate"
)

type ListProjectsParams struct {
	Page int `json:"page,omitempty"`
}

type ProjectIDParams struct {
	ID string `json:"id"`
}

type CreateProjectParams struct {
	ClientID    *string  `json:"client_id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Progress    float64  `json:"progress,omitempty"`
	Budget      float64  `json:"budget,omitempty"`
	ActualCost  float64  `json:"actual_cost,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type UpdateProjectParams struct {
	ID          string    `json:"id"`
	ClientID    *string   `json:"client_id,omitempty"`
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Progress    *float64  `json:"progress,omitempty"`
	Budget      *float64  `json:"budget,omitempty"`
	ActualCost  *float64  `json:"actual_cost,omitempty"`
	Currency    *string   `json:"currency,omitempty"`
	StartDate   *string   `json:"start_date,omitempty"` // "" clears
	Deadline    *string   `json:"deadline,omitempty"`   // "" clears
	Tags        *[]string `json:"tags,omitempty"`
}

type CreateClientParams struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name,omitempty"`
}

// SetFiltersParams is a partial filter update; absent fields keep their
// current value.
type SetFiltersParams struct {
	Search       *string   `json:"search,omitempty"`
	Status       *string   `json:"status,omitempty"`
	Priority     *string   `json:"priority,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	DateFrom     *string   `json:"date_from,omitempty"` // "" clears
	DateTo       *string   `json:"date_to,omitempty"`   // "" clears
	ShowArchived *bool     `json:"show_archived,omitempty"`
	Sort         *string   `json:"sort,omitempty"`
	SortBy       *string   `json:"sort_by,omitempty"`
	SortOrder    *string   `json:"sort_order,omitempty"`
}

type SetViewModeParams struct {
	Mode string `json:"mode"`
}

type SetPageParams struct {
	Page int `json:"page"`
}

type SaveViewParams struct {
	Name string `json:"name"`
}

type ViewIDParams struct {
	ID string `json:"id"`
}

type MoveProjectParams struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type BulkStatusChangeParams struct {
	Status string `json:"status"`
}

type GetRecentActivityParams struct {
	ProjectID string `json:"project_id,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`
	Type      string `json:"type,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// ProjectsResponse is one page of the visible collection with the state
// it was computed from.
type ProjectsResponse struct {
	viewstate.PageResult
	State viewstate.ViewState `json:"state"`
}

type ProjectResponse struct {
	Project project.Project     `json:"project"`
	Health  project.HealthScore `json:"health"`
}

type SelectionResponse struct {
	Selection []string `json:"selection"`
	Selected  *bool    `json:"selected,omitempty"`
}

type FavoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

type ViewsResponse struct {
	Views        []savedview.SavedView `json:"views"`
	ActiveViewID string                `json:"active_view_id"`
}

type BoardResponse struct {
	Columns []project.KanbanColumn `json:"columns"`
}

type ActivityResponse struct {
	Entries []activity.ActivityEntry `json:"entries"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
