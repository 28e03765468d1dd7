package viewstate

import (
	"fmt"
	"slices"

	"github.com/rpggio/agencydesk/internal/domain/project"
)

// ToggleSelection adds or removes one project from the selection and
// reports whether it is now selected. Only projects in the collection can
// be selected.
func (c *Controller) ToggleSelection(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.selection[id]; ok {
		delete(c.selection, id)
		return false, nil
	}
	if !slices.ContainsFunc(c.collection, func(p project.Project) bool { return p.ID == id }) {
		return false, fmt.Errorf("%w: %s", project.ErrProjectNotFound, id)
	}
	c.selection[id] = struct{}{}
	return true, nil
}

// SelectAll selects exactly the visible projects, across all pages, and
// returns how many are selected.
func (c *Controller) SelectAll() int {
	visible := c.Visible()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = make(map[string]struct{}, len(visible))
	for _, p := range visible {
		c.selection[p.ID] = struct{}{}
	}
	return len(c.selection)
}

// ClearSelection empties the selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selection = make(map[string]struct{})
	c.mu.Unlock()
}

// Selection returns the selected ids in sorted order.
func (c *Controller) Selection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectionLocked()
}

func (c *Controller) selectionLocked() []string {
	ids := make([]string, 0, len(c.selection))
	for id := range c.selection {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
