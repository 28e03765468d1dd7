// Package viewstate holds the per-session state of a project workspace:
// the fetched project collection, the active filters, view mode,
// selection, saved views and pagination. Every mutation goes through the
// store and is followed by a full refetch; nothing is patched in place.
package viewstate

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/savedview"
	"github.com/rpggio/agencydesk/internal/domain/session"
)

const (
	// DefaultPageSize is the number of projects per page unless configured.
	DefaultPageSize = 12
	// DefaultBulkConcurrency bounds concurrent store calls of a bulk action.
	DefaultBulkConcurrency = 4
)

// ProjectStore is the data-access side of the collection.
type ProjectStore interface {
	List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error)
	SetStatus(ctx context.Context, tenantID, actorID, id string, status project.Status) (*project.Project, error)
	Delete(ctx context.Context, tenantID, actorID, id string) error
}

// ViewStore persists saved views.
type ViewStore interface {
	Create(ctx context.Context, scope savedview.Scope, name string, filters project.Filters) (*savedview.SavedView, error)
	Get(ctx context.Context, scope savedview.Scope, id string) (*savedview.SavedView, error)
	List(ctx context.Context, scope savedview.Scope) ([]savedview.SavedView, error)
	Delete(ctx context.Context, scope savedview.Scope, id string) error
}

// FavoriteStore tracks the caller's favorite projects.
type FavoriteStore interface {
	List(ctx context.Context, tenantID, userID string) ([]string, error)
	Toggle(ctx context.Context, tenantID, userID, projectID string) (bool, error)
}

// ActivityLogger records bulk actions.
type ActivityLogger interface {
	LogActivity(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}

// Deps are the collaborators of a controller. Favorites and Activity may be
// nil.
type Deps struct {
	Projects  ProjectStore
	Views     ViewStore
	Favorites FavoriteStore
	Activity  ActivityLogger
}

// Options tune a controller.
type Options struct {
	PageSize        int
	BulkConcurrency int
	Now             func() time.Time
}

// Controller owns one caller's workspace state. It is safe for concurrent
// use. The lock is released while store calls are in flight so readers see
// pending markers.
type Controller struct {
	deps   Deps
	logger *slog.Logger
	now    func() time.Time

	pageSize        int
	bulkConcurrency int

	openMu sync.Mutex
	opened bool

	mu           sync.Mutex
	owner        session.Principal
	mode         Mode
	filters      project.Filters
	selection    map[string]struct{}
	savedViews   []savedview.SavedView
	activeViewID string
	pending      map[string]Pending
	page         int

	collection    []project.Project
	collectionGen uint64
	favorites     project.FavoriteSet
	favoritesGen  uint64
	loadErr       error
	refreshSeq    uint64
	appliedSeq    uint64

	memo project.Memo
}

// NewController creates a controller for owner. Call Open before use.
func NewController(owner session.Principal, deps Deps, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.BulkConcurrency <= 0 {
		opts.BulkConcurrency = DefaultBulkConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		deps:            deps,
		logger:          logger.With("tenant_id", owner.TenantID, "user_id", owner.UserID),
		now:             opts.Now,
		pageSize:        opts.PageSize,
		bulkConcurrency: opts.BulkConcurrency,
		owner:           owner,
		mode:            ModeGrid,
		filters:         project.DefaultFilters(),
		selection:       make(map[string]struct{}),
		pending:         make(map[string]Pending),
		page:            1,
		favorites:       project.NewFavoriteSet(),
	}
}

// Open loads the collection and saved views the first time it is called.
// A failed load is recorded in the state rather than returned, so the
// controller is usable and the caller can retry with Refresh.
func (c *Controller) Open(ctx context.Context) {
	c.openMu.Lock()
	defer c.openMu.Unlock()
	if c.opened {
		return
	}
	c.opened = true
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("initial project fetch failed", "error", err)
	}
	if err := c.RefreshViews(ctx); err != nil {
		c.logger.Warn("initial saved view fetch failed", "error", err)
	}
}

// Owner returns the principal the controller acts for.
func (c *Controller) Owner() session.Principal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

// SetRole updates the owner's role, e.g. after the session is resumed with
// a different key.
func (c *Controller) SetRole(role session.Role) {
	c.mu.Lock()
	c.owner.Role = role
	c.mu.Unlock()
}

func (c *Controller) scope() savedview.Scope {
	return savedview.Scope{TenantID: c.owner.TenantID, UserID: c.owner.UserID}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() ViewState {
	visible := c.Visible()

	c.mu.Lock()
	defer c.mu.Unlock()
	state := ViewState{
		Mode:           c.mode,
		Filters:        c.filters,
		FiltersActive:  c.filters.Active(),
		Selection:      c.selectionLocked(),
		SavedViews:     slices.Clone(c.savedViews),
		ActiveViewID:   c.activeViewID,
		Page:           clampPage(c.page, len(visible), c.pageSize),
		PageSize:       c.pageSize,
		CollectionSize: len(c.collection),
		VisibleCount:   len(visible),
	}
	if state.SavedViews == nil {
		state.SavedViews = []savedview.SavedView{}
	}
	if len(c.pending) > 0 {
		state.Pending = make(map[string]Pending, len(c.pending))
		for id, p := range c.pending {
			state.Pending[id] = p
		}
	}
	if c.loadErr != nil {
		state.LoadError = c.loadErr.Error()
	}
	return state
}

// SetViewMode switches the layout. The visible set is unchanged.
func (c *Controller) SetViewMode(mode Mode) error {
	parsed, err := ParseMode(string(mode))
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.mode = parsed
	c.mu.Unlock()
	return nil
}

// SetFilters replaces the filter state.
func (c *Controller) SetFilters(f project.Filters) {
	_ = c.UpdateFilters(func(cur *project.Filters) error {
		*cur = f
		return nil
	})
}

// UpdateFilters edits the filter state atomically. If fn fails nothing
// changes. Any effective change returns to the first page.
func (c *Controller) UpdateFilters(fn func(f *project.Filters) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.filters
	next.Tags = slices.Clone(c.filters.Tags)
	if err := fn(&next); err != nil {
		return err
	}
	next = next.Normalize()
	if next.Key() != c.filters.Key() {
		c.page = 1
	}
	c.filters = next
	return nil
}

// ClearAllFilters resets every filter field to its default in one step and
// forgets the loaded saved view.
func (c *Controller) ClearAllFilters() {
	c.mu.Lock()
	c.filters = project.DefaultFilters()
	c.activeViewID = ""
	c.page = 1
	c.mu.Unlock()
}

// Visible returns the filtered and sorted collection. The result is
// memoized until the collection, the favorite set or the filters change.
func (c *Controller) Visible() []project.Project {
	c.mu.Lock()
	collection, collectionGen := c.collection, c.collectionGen
	favorites, favoritesGen := c.favorites, c.favoritesGen
	filters := c.filters
	c.mu.Unlock()

	return c.memo.Apply(collectionGen, favoritesGen, collection, filters, favorites)
}

// Projects returns the unfiltered collection.
func (c *Controller) Projects() []project.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.collection)
}

// Items decorates projects with health, favorite, selection and pending
// state.
func (c *Controller) Items(projects []project.Project) []Item {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, len(projects))
	for i, p := range projects {
		_, selected := c.selection[p.ID]
		items[i] = Item{
			Project:  p,
			Health:   project.CalculateHealthScore(p, now),
			Favorite: c.favorites.Contains(p.ID),
			Selected: selected,
			Pending:  c.pending[p.ID],
		}
	}
	return items
}

// SetPage moves to page n (1-based). Pages past the end show the last page.
func (c *Controller) SetPage(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, n)
	}
	c.mu.Lock()
	c.page = n
	c.mu.Unlock()
	return nil
}

// CurrentPage returns the current page of visible projects.
func (c *Controller) CurrentPage() PageResult {
	visible := c.Visible()

	c.mu.Lock()
	size := c.pageSize
	page := clampPage(c.page, len(visible), size)
	c.mu.Unlock()

	start := min((page-1)*size, len(visible))
	end := min(start+size, len(visible))
	return PageResult{
		Items:      c.Items(visible[start:end]),
		Page:       page,
		PageSize:   size,
		TotalItems: len(visible),
		TotalPages: totalPages(len(visible), size),
	}
}

// Board groups the visible projects into kanban columns.
func (c *Controller) Board() []project.KanbanColumn {
	return project.KanbanColumns(c.Visible())
}

// Summary aggregates the visible projects.
func (c *Controller) Summary() project.Summary {
	return project.Summarize(c.Visible(), c.now())
}

func totalPages(items, size int) int {
	if items == 0 {
		return 1
	}
	return (items + size - 1) / size
}

func clampPage(page, items, size int) int {
	return max(1, min(page, totalPages(items, size)))
}
