package mcp

import (
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/viewstate"
)

var (
	statusEnum   = names(project.Statuses())
	priorityEnum = []string{"low", "medium", "high", "critical"}
	modeEnum     = names(viewstate.Modes())
)

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func enumProp(description string, values []string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

func stringArrayProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string"},
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func idSchema(description string) map[string]any {
	return objectSchema(map[string]any{"id": prop("string", description)}, "id")
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	projectFields := func() map[string]any {
		return map[string]any{
			"client_id":   prop("string", "Client the project is billed to"),
			"name":        prop("string", "Project name (1-200 characters)"),
			"description": prop("string", "Free-text description"),
			"status":      enumProp("Lifecycle status (default planning)", statusEnum),
			"priority":    enumProp("Priority (default medium)", priorityEnum),
			"progress":    prop("number", "Completion percentage, 0-100"),
			"budget":      prop("number", "Budgeted amount"),
			"actual_cost": prop("number", "Amount spent so far"),
			"currency":    prop("string", "ISO 4217 code (default USD)"),
			"start_date":  prop("string", "Start date, YYYY-MM-DD or RFC 3339"),
			"deadline":    prop("string", "Deadline, YYYY-MM-DD or RFC 3339"),
			"tags":        stringArrayProp("Tags"),
		}
	}

	update := projectFields()
	update["id"] = prop("string", "Project ID")
	update["start_date"] = prop("string", "Start date; empty string clears it")
	update["deadline"] = prop("string", "Deadline; empty string clears it")

	return []ToolDefinition{
		// Collection
		{
			Name:        "list_projects",
			Description: "Return a page of the visible projects (filtered, sorted) with health scores and the current view state",
			InputSchema: objectSchema(map[string]any{
				"page": prop("integer", "Page to show (1-based); omit for the current page"),
			}),
		},
		{
			Name:        "refresh_projects",
			Description: "Refetch the project collection from the store and return the first visible page",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "get_project",
			Description: "Get one project with its client and health score",
			InputSchema: idSchema("Project ID"),
		},

		// Project mutations
		{
			Name:        "create_project",
			Description: "Create a project",
			InputSchema: objectSchema(projectFields(), "name"),
		},
		{
			Name:        "update_project",
			Description: "Update a project; omitted fields are unchanged",
			InputSchema: objectSchema(update, "id"),
		},
		{
			Name:        "delete_project",
			Description: "Delete a project permanently",
			InputSchema: idSchema("Project ID"),
		},
		{
			Name:        "duplicate_project",
			Description: "Copy a project as a new planning project named \"<name> (Copy)\" with no progress or cost",
			InputSchema: idSchema("Project ID to copy"),
		},
		{
			Name:        "archive_project",
			Description: "Archive a project; archived projects are hidden unless show_archived is set",
			InputSchema: idSchema("Project ID"),
		},
		{
			Name:        "restore_project",
			Description: "Restore an archived project",
			InputSchema: idSchema("Project ID"),
		},
		{
			Name:        "create_client",
			Description: "Create a client projects can be billed to",
			InputSchema: objectSchema(map[string]any{
				"name":         prop("string", "Client name"),
				"company_name": prop("string", "Company name"),
			}, "name"),
		},

		// Filters and layout
		{
			Name:        "set_filters",
			Description: "Change filters and sort; omitted fields keep their value. Any change returns to page 1",
			InputSchema: objectSchema(map[string]any{
				"search":        prop("string", "Case-insensitive match on name, description and client name (max 200 characters)"),
				"status":        enumProp("Status filter", append([]string{"all", "favorites"}, statusEnum...)),
				"priority":      enumProp("Priority filter", append([]string{"all"}, priorityEnum...)),
				"tags":          stringArrayProp("Projects carrying any of these tags"),
				"date_from":     prop("string", "Earliest start date (inclusive); empty clears"),
				"date_to":       prop("string", "Latest start date (inclusive); empty clears"),
				"show_archived": prop("boolean", "Show only archived projects"),
				"sort":          prop("string", "Combined sort token such as priority_desc or deadline_asc"),
				"sort_by":       enumProp("Sort key", []string{"created_at", "name", "status", "priority", "budget", "deadline", "progress"}),
				"sort_order":    enumProp("Sort order", []string{"asc", "desc"}),
			}),
		},
		{
			Name:        "clear_filters",
			Description: "Reset every filter and the sort to defaults",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "set_view_mode",
			Description: "Switch the layout",
			InputSchema: objectSchema(map[string]any{"mode": enumProp("View mode", modeEnum)}, "mode"),
		},
		{
			Name:        "set_page",
			Description: "Go to a page of the visible projects; pages past the end show the last page",
			InputSchema: objectSchema(map[string]any{"page": prop("integer", "Page number, 1-based")}, "page"),
		},

		// Selection
		{
			Name:        "toggle_selection",
			Description: "Select or deselect a project",
			InputSchema: idSchema("Project ID"),
		},
		{
			Name:        "select_all",
			Description: "Select every visible project",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "clear_selection",
			Description: "Deselect everything",
			InputSchema: objectSchema(map[string]any{}),
		},

		// Saved views
		{
			Name:        "save_view",
			Description: "Save the current status, priority, tag and date filters under a name",
			InputSchema: objectSchema(map[string]any{"name": prop("string", "View name (1-100 characters)")}, "name"),
		},
		{
			Name:        "load_view",
			Description: "Apply a saved view's filters; the id \"default\" clears all filters",
			InputSchema: idSchema("Saved view ID or \"default\""),
		},
		{
			Name:        "list_views",
			Description: "List your saved views",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "delete_view",
			Description: "Delete a saved view",
			InputSchema: idSchema("Saved view ID"),
		},

		// Status changes
		{
			Name:        "move_project",
			Description: "Move a project to another kanban column (status)",
			InputSchema: objectSchema(map[string]any{
				"id":     prop("string", "Project ID"),
				"status": enumProp("Target status", statusEnum),
			}, "id", "status"),
		},
		{
			Name:        "bulk_status_change",
			Description: "Set the status of every selected project; returns per-project results and keeps failed projects selected",
			InputSchema: objectSchema(map[string]any{"status": enumProp("Target status", statusEnum)}, "status"),
		},
		{
			Name:        "bulk_delete",
			Description: "Delete every selected project (owner, admin or manager only); returns per-project results",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "toggle_favorite",
			Description: "Star or unstar a project",
			InputSchema: idSchema("Project ID"),
		},

		// Read models
		{
			Name:        "get_view_state",
			Description: "Get the current view state: mode, filters, selection, saved views, pending changes and page",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "get_kanban_board",
			Description: "Get the visible projects grouped into status columns",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "get_portfolio_summary",
			Description: "Summarize the visible projects: counts per status and health, average progress, budget totals per currency",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "get_recent_activity",
			Description: "List recent changes, newest first",
			InputSchema: objectSchema(map[string]any{
				"project_id": prop("string", "Only changes to this project"),
				"actor_id":   prop("string", "Only changes by this user"),
				"type":       prop("string", "Only this activity type, e.g. status_changed"),
				"limit":      prop("integer", "Maximum entries (default 50, max 500)"),
				"offset":     prop("integer", "Entries to skip"),
			}),
		},
		{
			Name:        "close_session",
			Description: "Sign out of the current session and drop its view state",
			InputSchema: objectSchema(map[string]any{}),
		},
	}
}
