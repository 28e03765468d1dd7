package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `agencydesk is the project workspace of an agency: projects, their clients, and a per-session view over them.

Core concepts:
- Project: name, client, status, priority, progress, budget/actual cost, start date, deadline, tags. Archived projects are hidden unless show_archived is set.
- Health: a 0-100 score from budget overrun, overdue deadline and progress lag. 70+ is healthy, 40-69 warning, below 40 critical.
- View state: each session has its own filters, sort, view mode (grid, list, kanban, gantt, timeline), page, selection and saved views.

Default workflow:
1) Orient: call get_view_state, then list_projects (or get_kanban_board / get_portfolio_summary).
2) Narrow: set_filters takes partial updates; clear_filters resets everything but the view mode.
3) Change one project: create_project / update_project / move_project / archive_project. The collection is refetched after every change.
4) Change many: toggle_selection or select_all, then bulk_status_change or bulk_delete. Failed ids stay selected so you can retry.
5) Keep useful filter sets with save_view; load_view("default") goes back to the defaults.

Transport notes:
- HTTP: pass session id via Mcp-Session-Id header.
- Stdio: pass session id via _meta.session_id when supported.

Docs:
- agencydesk://docs/index
- agencydesk://docs/filters
- agencydesk://docs/health
- agencydesk://docs/views
- agencydesk://docs/bulk-actions
`

const docMIMEType = "text/markdown"

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "agencydesk://docs/index",
		Name:        "docs_index",
		Title:       "agencydesk docs index",
		Description: "Entry point for agent-facing docs.",
		Content: `# agencydesk: Agent Docs Index

- agencydesk://docs/filters: how search, status, priority, tags, dates and sorting combine.
- agencydesk://docs/health: how the health score is computed.
- agencydesk://docs/views: view modes, paging and saved views.
- agencydesk://docs/bulk-actions: selection and bulk changes.

## Known limitations

- Filtering, sorting and paging run over the session's fetched collection, not in the database.
- Saved views are per user; there is no sharing.
`,
	},
	{
		URI:         "agencydesk://docs/filters",
		Name:        "docs_filters",
		Title:       "Filtering and sorting",
		Description: "Filter stages, matching rules and sort keys.",
		Content: `# Filtering and sorting

Filters narrow the collection in this order, and every stage must match:

1. Archived projects are dropped unless ` + "`show_archived`" + ` is true.
2. ` + "`status`" + `: "all", "favorites" (your starred projects) or one status.
3. ` + "`priority`" + `: "all" or one priority.
4. ` + "`tags`" + `: a project matches when it has ANY of the selected tags.
5. ` + "`date_from`/`date_to`" + `: inclusive bounds on the start date. Projects without a start date are excluded once a bound is set.
6. ` + "`search`" + `: case-insensitive substring of the project name or its client's name or company.

Sorting: ` + "`sort`" + ` takes a combined token like ` + "`deadline_asc`" + `, or use ` + "`sort_by`" + ` and ` + "`sort_order`" + `.
Keys: created_at, name, status, priority, budget, deadline, progress. Projects without a deadline sort last in both directions; ties keep their previous order.

Changing filters resets the page to 1. ` + "`set_filters`" + ` only touches the fields you send; an empty string clears a date bound.
`,
	},
	{
		URI:         "agencydesk://docs/health",
		Name:        "docs_health",
		Title:       "Project health score",
		Description: "Penalties and thresholds behind the health score.",
		Content: `# Project health score

Every project starts at 100 and loses points for:

- Budget overrun: when actual cost exceeds a positive budget, 200 points per 100% overrun, at most 50.
- Overdue deadline: 10 points plus 2 per calendar day past the deadline, at most 40. Completed and cancelled projects are never overdue.
- Progress lag: once progress trails the share of the schedule already elapsed by more than 15 points, half the excess, at most 20.

The result is rounded and clamped to 0-100. 70 and above is healthy, 40 to 69 is warning, below 40 is critical.
Missing numbers or dates never fail the score; they contribute no penalty.
`,
	},
	{
		URI:         "agencydesk://docs/views",
		Name:        "docs_views",
		Title:       "View modes and saved views",
		Description: "View modes, paging and saved filter sets.",
		Content: `# Views

- Modes: grid, list, kanban, gantt, timeline. The mode only changes presentation; ` + "`get_kanban_board`" + ` groups the visible projects by status.
- Paging: pages start at 1. Asking past the last page returns the last page.
- Saved views store the full filter set under a name. Loading one replaces the current filters and marks it active.
- ` + "`load_view`" + ` with "default" restores the default filters.
- Deleting the active view keeps the filters it applied.
`,
	},
	{
		URI:         "agencydesk://docs/bulk-actions",
		Name:        "docs_bulk_actions",
		Title:       "Selection and bulk actions",
		Description: "How selection, bulk status changes and bulk delete behave.",
		Content: `# Bulk actions

- ` + "`toggle_selection`" + ` flips one project; ` + "`select_all`" + ` selects every visible project.
- ` + "`bulk_status_change`" + ` and ` + "`bulk_delete`" + ` run per project. The result lists succeeded and failed ids; failed ids stay selected.
- Bulk delete requires the owner, admin or manager role.
- A project with a change already in flight is rejected with MUTATION_IN_FLIGHT.
- Projects deleted elsewhere drop out of the selection on the next refresh.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    docMIMEType,
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: docMIMEType,
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

func listDocResources() ResourcesListResult {
	out := ResourcesListResult{Resources: make([]ResourceDefinition, 0, len(docResources))}
	for _, doc := range docResources {
		out.Resources = append(out.Resources, ResourceDefinition{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    docMIMEType,
		})
	}
	return out
}

func readDocResource(uri string) (ResourceReadResult, error) {
	for _, doc := range docResources {
		if doc.URI == uri {
			return ResourceReadResult{Contents: []ResourceContent{{
				URI:      uri,
				MIMEType: docMIMEType,
				Text:     doc.Content,
			}}}, nil
		}
	}
	return ResourceReadResult{}, invalidParams("unknown resource %q", uri)
}
