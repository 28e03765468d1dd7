package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/session"
	"github.com/rpggio/agencydesk/internal/viewstate"
)

const (
	serverName      = "agencydesk"
	serverVersion   = "0.1.0"
	protocolVersion = "2025-06-18"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, tenantID string, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, tenantID, id string) (*project.Project, error)
	Update(ctx context.Context, tenantID string, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, tenantID, actorID, id string) error
	Duplicate(ctx context.Context, tenantID, actorID, id string) (*project.Project, error)
	Archive(ctx context.Context, tenantID, actorID, id string) error
	Restore(ctx context.Context, tenantID, actorID, id string) error
	CreateClient(ctx context.Context, tenantID string, req project.CreateClientRequest) (*project.Client, error)
}

// SessionService defines session operations needed by MCP.
type SessionService interface {
	Open(ctx context.Context, p session.Principal, id string) (*session.Session, error)
	Close(ctx context.Context, tenantID, id string) error
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Sessions SessionService
	Activity ActivityService
}

// Handler dispatches MCP commands. Tool calls run against the caller's
// view state held in the registry.
type Handler struct {
	projects ProjectService
	sessions SessionService
	activity ActivityService
	registry *viewstate.Registry
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandler creates a new MCP handler. Sessions may be nil, in which case
// session ids are used as view state keys only.
func NewHandler(services Services, registry *viewstate.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		projects: services.Projects,
		sessions: services.Sessions,
		activity: services.Activity,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle dispatches a JSON-RPC method. Besides the tool names it answers
// initialize, ping, tools/list and tools/call for clients that speak plain
// JSON-RPC.
func (h *Handler) Handle(ctx context.Context, p session.Principal, sessionID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "initialize":
		var req InitializeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		h.logger.Debug("client initialized", "client", req.ClientInfo.Name, "version", req.ClientInfo.Version)
		return InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: ServerCapabilities{
				Resources: &struct{}{},
				Tools:     &struct{}{},
			},
			ServerInfo:   ImplementationInfo{Name: serverName, Version: serverVersion},
			Instructions: serverInstructions,
		}, nil
	case "ping":
		return map[string]any{}, nil
	case "tools/list":
		return ToolsListResult{Tools: buildToolCatalog()}, nil
	case "resources/list":
		return listDocResources(), nil
	case "resources/read":
		var req ResourceReadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return readDocResource(req.URI)
	case "tools/call":
		var req ToolCallParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.CallTool(ctx, p, sessionID, req.Name, req.Arguments)
		text, isError := toolPayload(result, err)
		return ToolCallResult{
			Content: []ContentItem{{Type: "text", Text: text}},
			IsError: isError,
		}, nil
	}
	if strings.HasPrefix(method, "notifications/") {
		return nil, nil
	}
	return h.CallTool(ctx, p, sessionID, method, params)
}

// CallTool runs one tool for the principal in the given session.
func (h *Handler) CallTool(ctx context.Context, p session.Principal, sessionID, name string, params json.RawMessage) (any, error) {
	if name == "close_session" {
		return h.closeSession(ctx, p, sessionID)
	}
	if !knownTool(name) {
		return nil, &APIError{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown tool %q", name), RecoveryHint: "Call tools/list"}
	}

	if sessionID != "" && h.sessions != nil {
		if _, err := h.sessions.Open(ctx, p, sessionID); err != nil {
			return nil, MapError(err)
		}
	}
	ctl := h.registry.Get(ctx, sessionID, p)

	result, err := h.dispatch(ctx, ctl, name, params)
	if err != nil {
		return nil, MapError(err)
	}
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, ctl *viewstate.Controller, name string, params json.RawMessage) (any, error) {
	owner := ctl.Owner()

	switch name {
	case "list_projects":
		var req ListProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Page != 0 {
			if err := ctl.SetPage(req.Page); err != nil {
				return nil, err
			}
		}
		return h.page(ctl), nil

	case "refresh_projects":
		if err := ctl.Refresh(ctx); err != nil {
			return nil, err
		}
		return h.page(ctl), nil

	case "get_project":
		var req ProjectIDParams
		if err := decodeID(params, &req); err != nil {
			return nil, err
		}
		proj, err := h.projects.Get(ctx, owner.TenantID, req.ID)
		if err != nil {
			return nil, err
		}
		return h.projectResponse(proj), nil

	case "create_project":
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		create, err := req.toRequest(owner.UserID)
		if err != nil {
			return nil, err
		}
		var created *project.Project
		err = ctl.Mutate(ctx, "", "", func(ctx context.Context) error {
			var err error
			created, err = h.projects.Create(ctx, owner.TenantID, create)
			return err
		})
		if err != nil {
			return nil, err
		}
		return h.projectResponse(created), nil

	case "update_project":
		var req UpdateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		update, err := req.toRequest(owner.UserID)
		if err != nil {
			return nil, err
		}
		var updated *project.Project
		err = ctl.Mutate(ctx, req.ID, viewstate.PendingUpdating, func(ctx context.Context) error {
			var err error
			updated, err = h.projects.Update(ctx, owner.TenantID, update)
			return err
		})
		if err != nil {
			return nil, err
		}
		return h.projectResponse(updated), nil

	case "delete_project", "archive_project", "restore_project":
		var req ProjectIDParams
		if err := decodeID(params, &req); err != nil {
			return nil, err
		}
		op, marker := h.projects.Delete, viewstate.PendingDeleting
		switch name {
		case "archive_project":
			op, marker = h.projects.Archive, viewstate.PendingUpdating
		case "restore_project":
			op, marker = h.projects.Restore, viewstate.PendingUpdating
		}
		err := ctl.Mutate(ctx, req.ID, marker, func(ctx context.Context) error {
			return op(ctx, owner.TenantID, owner.UserID, req.ID)
		})
		if err != nil {
			return nil, err
		}
		return OKResponse{OK: true}, nil

	case "duplicate_project":
		var req ProjectIDParams
		if err := decodeID(params, &req); err != nil {
			return nil, err
		}
		var dup *project.Project
		err := ctl.Mutate(ctx, "", "", func(ctx context.Context) error {
			var err error
			dup, err = h.projects.Duplicate(ctx, owner.TenantID, owner.UserID, req.ID)
			return err
		})
		if err != nil {
			return nil, err
		}
		return h.projectResponse(dup), nil

	case "create_client":
		var req CreateClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.CreateClient(ctx, owner.TenantID, project.CreateClientRequest{
			Name:        req.Name,
			CompanyName: req.CompanyName,
		})

	case "set_filters":
		var req SetFiltersParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := ctl.UpdateFilters(req.apply); err != nil {
			return nil, err
		}
		return h.page(ctl), nil

	case "clear_filters":
		ctl.ClearAllFilters()
		return h.page(ctl), nil

	case "set_view_mode":
		var req SetViewModeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		mode, err := viewstate.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		if err := ctl.SetViewMode(mode); err != nil {
			return nil, err
		}
		return ctl.Snapshot(), nil

	case "set_page":
		var req SetPageParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := ctl.SetPage(req.Page); err != nil {
			return nil, err
		}
		return h.page(ctl), nil

	case "toggle_selection":
		var req ProjectIDParams
		if err := decodeID(params, &req); err != nil {
			return nil, err
		}
		selected, err := ctl.ToggleSelection(req.ID)
		if err != nil {
			return nil, err
		}
		return SelectionResponse{Selection: ctl.Selection(), Selected: &selected}, nil

	case "select_all":
		ctl.SelectAll()
		return SelectionResponse{Selection: ctl.Selection()}, nil

	case "clear_selection":
		ctl.ClearSelection()
		return SelectionResponse{Selection: ctl.Selection()}, nil

	case "save_view":
		var req SaveViewParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return ctl.SaveCurrentView(ctx, req.Name)

	case "load_view":
		var req ViewIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := ctl.LoadSavedView(ctx, req.ID); err != nil {
			return nil, err
		}
		return h.page(ctl), nil

	case "list_views":
		if err := ctl.RefreshViews(ctx); err != nil {
			return nil, err
		}
		state := ctl.Snapshot()
		return ViewsResponse{Views: state.SavedViews, ActiveViewID: state.ActiveViewID}, nil

	case "delete_view":
		var req ViewIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := ctl.DeleteSavedView(ctx, req.ID); err != nil {
			return nil, err
		}
		return OKResponse{OK: true}, nil

	case "move_project":
		var req MoveProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		status, err := project.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		if err := ctl.MoveProject(ctx, req.ID, status); err != nil {
			return nil, err
		}
		return h.page(ctl), nil

	case "bulk_status_change":
		var req BulkStatusChangeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		status, err := project.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		return ctl.BulkStatusChange(ctx, status)

	case "bulk_delete":
		return ctl.BulkDelete(ctx)

	case "toggle_favorite":
		var req ProjectIDParams
		if err := decodeID(params, &req); err != nil {
			return nil, err
		}
		on, err := ctl.ToggleFavorite(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return FavoriteResponse{ID: req.ID, Favorite: on}, nil

	case "get_view_state":
		return ctl.Snapshot(), nil

	case "get_kanban_board":
		return BoardResponse{Columns: ctl.Board()}, nil

	case "get_portfolio_summary":
		return ctl.Summary(), nil

	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListActivityOptions{
			ActorID: req.ActorID,
			Limit:   req.Limit,
			Offset:  req.Offset,
		}
		if req.ProjectID != "" {
			opts.ProjectID = &req.ProjectID
		}
		if req.Type != "" {
			typ := activity.ActivityType(req.Type)
			opts.ActivityType = &typ
		}
		entries, err := h.activity.GetRecentActivity(ctx, owner.TenantID, opts)
		if err != nil {
			return nil, err
		}
		return ActivityResponse{Entries: entries}, nil
	}

	return nil, &APIError{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown tool %q", name)}
}

func (h *Handler) closeSession(ctx context.Context, p session.Principal, sessionID string) (any, error) {
	if sessionID != "" && h.sessions != nil {
		if err := h.sessions.Close(ctx, p.TenantID, sessionID); err != nil {
			return nil, MapError(err)
		}
	}
	h.registry.Drop(sessionID, p)
	return OKResponse{OK: true}, nil
}

func (h *Handler) page(ctl *viewstate.Controller) ProjectsResponse {
	return ProjectsResponse{PageResult: ctl.CurrentPage(), State: ctl.Snapshot()}
}

func (h *Handler) projectResponse(proj *project.Project) ProjectResponse {
	return ProjectResponse{Project: *proj, Health: project.CalculateHealthScore(*proj, h.now())}
}

func (r CreateProjectParams) toRequest(actorID string) (project.CreateRequest, error) {
	req := project.CreateRequest{
		ActorID:     actorID,
		ClientID:    r.ClientID,
		Name:        r.Name,
		Description: r.Description,
		Progress:    r.Progress,
		Budget:      r.Budget,
		ActualCost:  r.ActualCost,
		Currency:    r.Currency,
		Tags:        r.Tags,
	}
	var err error
	if r.Status != "" {
		if req.Status, err = project.ParseStatus(r.Status); err != nil {
			return req, err
		}
	}
	if r.Priority != "" {
		if req.Priority, err = project.ParsePriority(r.Priority); err != nil {
			return req, err
		}
	}
	if req.StartDate, err = parseDate("start_date", r.StartDate); err != nil {
		return req, err
	}
	if req.Deadline, err = parseDate("deadline", r.Deadline); err != nil {
		return req, err
	}
	return req, nil
}

func (r UpdateProjectParams) toRequest(actorID string) (project.UpdateRequest, error) {
	if strings.TrimSpace(r.ID) == "" {
		return project.UpdateRequest{}, invalidParams("id is required")
	}
	req := project.UpdateRequest{
		ActorID:     actorID,
		ID:          r.ID,
		ClientID:    r.ClientID,
		Name:        r.Name,
		Description: r.Description,
		Progress:    r.Progress,
		Budget:      r.Budget,
		ActualCost:  r.ActualCost,
		Currency:    r.Currency,
		Tags:        r.Tags,
	}
	if r.Status != nil {
		status, err := project.ParseStatus(*r.Status)
		if err != nil {
			return req, err
		}
		req.Status = &status
	}
	if r.Priority != nil {
		priority, err := project.ParsePriority(*r.Priority)
		if err != nil {
			return req, err
		}
		req.Priority = &priority
	}
	var err error
	if r.StartDate != nil {
		req.ClearStartDate = *r.StartDate == ""
		if req.StartDate, err = parseDate("start_date", *r.StartDate); err != nil {
			return req, err
		}
	}
	if r.Deadline != nil {
		req.ClearDeadline = *r.Deadline == ""
		if req.Deadline, err = parseDate("deadline", *r.Deadline); err != nil {
			return req, err
		}
	}
	return req, nil
}

func (r SetFiltersParams) apply(f *project.Filters) error {
	if r.Search != nil {
		f.Search = *r.Search
	}
	if r.Status != nil {
		status, err := project.ParseStatusFilter(*r.Status)
		if err != nil {
			return err
		}
		f.Status = status
	}
	if r.Priority != nil {
		priority, err := project.ParsePriorityFilter(*r.Priority)
		if err != nil {
			return err
		}
		f.Priority = priority
	}
	if r.Tags != nil {
		f.Tags = *r.Tags
	}
	if r.DateFrom != nil {
		from, err := parseDate("date_from", *r.DateFrom)
		if err != nil {
			return err
		}
		f.DateRange.From = from
	}
	if r.DateTo != nil {
		to, err := parseDate("date_to", *r.DateTo)
		if err != nil {
			return err
		}
		f.DateRange.To = to
	}
	if r.ShowArchived != nil {
		f.ShowArchived = *r.ShowArchived
	}
	if r.Sort != nil {
		key, order, err := project.ParseSort(*r.Sort)
		if err != nil {
			return err
		}
		f.SortBy, f.SortOrder = key, order
	}
	if r.SortBy != nil {
		key, err := project.ParseSortKey(*r.SortBy)
		if err != nil {
			return err
		}
		f.SortBy = key
	}
	if r.SortOrder != nil {
		order, err := project.ParseSortOrder(*r.SortOrder)
		if err != nil {
			return err
		}
		f.SortOrder = order
	}
	return nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339. An empty value is no date.
func parseDate(field, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %q is not a date", project.ErrInvalidInput, field, v)
}

func decodeParams(params json.RawMessage, out any) error {
	if len(bytes.TrimSpace(params)) == 0 || string(bytes.TrimSpace(params)) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return invalidParams("%v", err)
	}
	return nil
}

func decodeID(params json.RawMessage, out *ProjectIDParams) error {
	if err := decodeParams(params, out); err != nil {
		return err
	}
	if strings.TrimSpace(out.ID) == "" {
		return invalidParams("id is required")
	}
	return nil
}

func knownTool(name string) bool {
	for _, tool := range buildToolCatalog() {
		if tool.Name == name {
			return true
		}
	}
	return false
}

// toolPayload renders a tool outcome as the JSON text of a tool result.
func toolPayload(result any, err error) (string, bool) {
	if err != nil {
		data, _ := json.Marshal(MapError(err))
		return string(data), true
	}
	data, mErr := json.Marshal(result)
	if mErr != nil {
		data, _ = json.Marshal(&APIError{Code: CodeInternal, Message: mErr.Error()})
		return string(data), true
	}
	return string(data), false
}
