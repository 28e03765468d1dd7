package viewstate

import (
	"context"
	"fmt"

	"github.com/rpggio/agencydesk/internal/domain/savedview"
)

// SaveCurrentView persists the active filters under name and makes the
// new view the active one.
func (c *Controller) SaveCurrentView(ctx context.Context, name string) (*savedview.SavedView, error) {
	c.mu.Lock()
	scope := c.scope()
	filters := c.filters
	c.mu.Unlock()

	view, err := c.deps.Views.Create(ctx, scope, name, filters)
	if err != nil {
		return nil, err
	}
	if err := c.RefreshViews(ctx); err != nil {
		c.logger.Warn("refetch after saving view failed", "error", err)
	}

	c.mu.Lock()
	c.activeViewID = view.ID
	c.mu.Unlock()
	return view, nil
}

// LoadSavedView replaces the filter state wholesale with a saved view's
// filters. The id "default" clears every filter.
func (c *Controller) LoadSavedView(ctx context.Context, id string) error {
	if id == savedview.DefaultViewID || id == "" {
		c.ClearAllFilters()
		return nil
	}

	view, err := c.findView(ctx, id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.filters = view.Filters.Filters()
	c.activeViewID = view.ID
	c.page = 1
	c.mu.Unlock()
	return nil
}

// DeleteSavedView removes a saved view. Deleting the active view leaves
// the current filters in place.
func (c *Controller) DeleteSavedView(ctx context.Context, id string) error {
	if id == savedview.DefaultViewID {
		return fmt.Errorf("%w: the default view cannot be deleted", savedview.ErrInvalidInput)
	}
	c.mu.Lock()
	scope := c.scope()
	c.mu.Unlock()

	if err := c.deps.Views.Delete(ctx, scope, id); err != nil {
		return err
	}

	c.mu.Lock()
	if c.activeViewID == id {
		c.activeViewID = ""
	}
	c.mu.Unlock()

	if err := c.RefreshViews(ctx); err != nil {
		c.logger.Warn("refetch after deleting view failed", "error", err)
	}
	return nil
}

func (c *Controller) findView(ctx context.Context, id string) (*savedview.SavedView, error) {
	c.mu.Lock()
	scope := c.scope()
	for _, v := range c.savedViews {
		if v.ID == id {
			view := v
			c.mu.Unlock()
			return &view, nil
		}
	}
	c.mu.Unlock()

	return c.deps.Views.Get(ctx, scope, id)
}
