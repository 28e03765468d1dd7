package viewstate

import (
	"context"
	"fmt"

	"github.com/rpggio/agencydesk/internal/domain/project"
)

// Refresh refetches the whole collection and the favorite set. Results of
// a refresh that was overtaken by a later one are dropped. On failure the
// collection is emptied and the error is kept for Snapshot until the next
// successful refresh.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.refreshSeq++
	seq := c.refreshSeq
	owner := c.owner
	c.mu.Unlock()

	projects, err := c.deps.Projects.List(ctx, owner.TenantID, project.ListOptions{IncludeArchived: true})

	var favorites []string
	var favErr error
	if err == nil && c.deps.Favorites != nil {
		favorites, favErr = c.deps.Favorites.List(ctx, owner.TenantID, owner.UserID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.appliedSeq {
		return err
	}
	c.appliedSeq = seq
	c.collectionGen++

	if err != nil {
		c.collection = nil
		c.selection = make(map[string]struct{})
		c.loadErr = err
		return fmt.Errorf("fetching projects: %w", err)
	}
	c.collection = projects
	c.loadErr = nil

	if favErr != nil {
		c.logger.Warn("failed to fetch favorites, keeping previous set", "error", favErr)
	} else if c.deps.Favorites != nil {
		c.favorites = project.NewFavoriteSet(favorites...)
		c.favoritesGen++
	}

	// Projects deleted elsewhere drop out of the selection.
	present := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		present[p.ID] = struct{}{}
	}
	for id := range c.selection {
		if _, ok := present[id]; !ok {
			delete(c.selection, id)
		}
	}
	return nil
}

// RefreshViews refetches the caller's saved views.
func (c *Controller) RefreshViews(ctx context.Context) error {
	c.mu.Lock()
	scope := c.scope()
	c.mu.Unlock()

	views, err := c.deps.Views.List(ctx, scope)
	if err != nil {
		return fmt.Errorf("fetching saved views: %w", err)
	}

	c.mu.Lock()
	c.savedViews = views
	c.mu.Unlock()
	return nil
}

// ToggleFavorite stars or unstars a project and reports whether it is now
// a favorite.
func (c *Controller) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if c.deps.Favorites == nil {
		return false, fmt.Errorf("favorites are not available")
	}
	owner := c.Owner()
	on, err := c.deps.Favorites.Toggle(ctx, owner.TenantID, owner.UserID, id)
	if err != nil {
		return false, err
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("refetch after favorite toggle failed", "error", err)
	}
	return on, nil
}
