package viewstate

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/domain/project"
)

// Mutate runs one store mutation for project id, marking it as pending
// while fn runs, then refetches the collection. An empty id skips the
// marker (e.g. creating a project). The marker is cleared whether fn
// succeeds or fails; a failure leaves the collection untouched. The
// refetch outlives ctx so a caller that goes away after the store
// confirmed does not blank the collection.
func (c *Controller) Mutate(ctx context.Context, id string, marker Pending, fn func(ctx context.Context) error) error {
	if id != "" {
		if err := c.mark([]string{id}, marker); err != nil {
			return err
		}
		defer c.unmark([]string{id})
	}

	if err := fn(ctx); err != nil {
		return err
	}
	if err := c.Refresh(context.WithoutCancel(ctx)); err != nil {
		c.logger.Warn("refetch after mutation failed", "project_id", id, "error", err)
	}
	return nil
}

// MoveProject handles a kanban drop: the project moves to status. Dropping
// a card on its own column does nothing.
func (c *Controller) MoveProject(ctx context.Context, id string, status project.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", project.ErrInvalidInput, status)
	}

	c.mu.Lock()
	idx := slices.IndexFunc(c.collection, func(p project.Project) bool { return p.ID == id })
	var current project.Status
	if idx >= 0 {
		current = c.collection[idx].Status
	}
	owner := c.owner
	c.mu.Unlock()

	if idx < 0 {
		return fmt.Errorf("%w: %s", project.ErrProjectNotFound, id)
	}
	if current == status {
		return nil
	}

	return c.Mutate(ctx, id, PendingDragging, func(ctx context.Context) error {
		_, err := c.deps.Projects.SetStatus(ctx, owner.TenantID, owner.UserID, id, status)
		return err
	})
}

// BulkStatusChange moves every selected project to status. Each project is
// updated independently; failures are reported per id and the selection is
// narrowed to the ids that failed so the action can be retried.
func (c *Controller) BulkStatusChange(ctx context.Context, status project.Status) (BulkResult, error) {
	if !status.Valid() {
		return BulkResult{}, fmt.Errorf("%w: unknown status %q", project.ErrInvalidInput, status)
	}
	owner := c.Owner()
	return c.bulk(ctx, "status_change:"+string(status), PendingUpdating, func(ctx context.Context, id string) error {
		_, err := c.deps.Projects.SetStatus(ctx, owner.TenantID, owner.UserID, id, status)
		return err
	})
}

// BulkDelete deletes every selected project. Only owners, admins and
// managers may bulk delete.
func (c *Controller) BulkDelete(ctx context.Context) (BulkResult, error) {
	owner := c.Owner()
	if !owner.Role.CanBulkDelete() {
		return BulkResult{}, fmt.Errorf("%w: role %q may not bulk delete", ErrForbidden, owner.Role)
	}
	return c.bulk(ctx, "delete", PendingDeleting, func(ctx context.Context, id string) error {
		return c.deps.Projects.Delete(ctx, owner.TenantID, owner.UserID, id)
	})
}

func (c *Controller) bulk(ctx context.Context, action string, marker Pending, op func(ctx context.Context, id string) error) (BulkResult, error) {
	ids := c.Selection()
	if len(ids) == 0 {
		return BulkResult{}, ErrEmptySelection
	}
	if err := c.mark(ids, marker); err != nil {
		return BulkResult{}, err
	}

	errs := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(c.bulkConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = op(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	c.unmark(ids)

	result := BulkResult{Action: action, Succeeded: []string{}, Failed: []BulkFailure{}}
	for i, id := range ids {
		if errs[i] != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Error: errs[i].Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	c.mu.Lock()
	c.selection = make(map[string]struct{}, len(result.Failed))
	for _, f := range result.Failed {
		c.selection[f.ID] = struct{}{}
	}
	c.mu.Unlock()

	c.logger.Info("bulk action finished", "action", action,
		"succeeded", len(result.Succeeded), "failed", len(result.Failed))
	c.logBulk(ctx, result)

	if err := c.Refresh(context.WithoutCancel(ctx)); err != nil {
		c.logger.Warn("refetch after bulk action failed", "action", action, "error", err)
	}
	return result, nil
}

func (c *Controller) mark(ids []string, marker Pending) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		if p, ok := c.pending[id]; ok {
			return fmt.Errorf("%w: %s is %s", ErrMutationInFlight, id, p)
		}
	}
	for _, id := range ids {
		c.pending[id] = marker
	}
	return nil
}

func (c *Controller) unmark(ids []string) {
	c.mu.Lock()
	for _, id := range ids {
		delete(c.pending, id)
	}
	c.mu.Unlock()
}

func (c *Controller) logBulk(ctx context.Context, result BulkResult) {
	if c.deps.Activity == nil || len(result.Succeeded) == 0 {
		return
	}
	owner := c.Owner()
	details, _ := json.Marshal(result)
	err := c.deps.Activity.LogActivity(context.WithoutCancel(ctx), owner.TenantID, &activity.ActivityEntry{
		ActorID:      owner.UserID,
		ActivityType: activity.TypeBulkAction,
		Summary:      fmt.Sprintf("%s on %d of %d projects", result.Action, len(result.Succeeded), len(result.Succeeded)+len(result.Failed)),
		Details:      string(details),
	})
	if err != nil {
		c.logger.Warn("failed to log bulk action", "error", err)
	}
}
