package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/savedview"
	"github.com/rpggio/agencydesk/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestSavedViewRepository_RoundTrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSavedViewRepository(db)
	ctx := context.Background()
	scope := savedview.Scope{TenantID: "tenant1", UserID: "user1"}

	filters := project.DefaultFilters()
	filters.Status = project.FavoritesOnly()
	filters.Priority = project.PriorityIs(project.PriorityCritical)
	filters.Tags = []string{"web"}
	filters.DateRange = project.DateRange{From: date("2026-01-01"), To: date("2026-03-31")}

	view := &savedview.SavedView{
		ID:        "v1",
		TenantID:  scope.TenantID,
		UserID:    scope.UserID,
		Name:      "Critical favorites",
		Filters:   savedview.Capture(filters),
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, view))

	got, err := repo.Get(ctx, scope, "v1")
	require.NoError(t, err)
	require.Equal(t, "Critical favorites", got.Name)
	require.True(t, got.Filters.Status.IsFavorites())
	prio, ok := got.Filters.Priority.Priority()
	require.True(t, ok)
	require.Equal(t, project.PriorityCritical, prio)
	require.Equal(t, []string{"web"}, got.Filters.Tags)
	require.Equal(t, filters.Key(), got.Filters.Filters().Key())

	_, err = repo.Get(ctx, savedview.Scope{TenantID: "tenant1", UserID: "user2"}, "v1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	views, err := repo.List(ctx, scope)
	require.NoError(t, err)
	require.Len(t, views, 1)

	require.NoError(t, repo.Delete(ctx, scope, "v1"))
	require.ErrorIs(t, repo.Delete(ctx, scope, "v1"), repository.ErrNotFound)
	views, err = repo.List(ctx, scope)
	require.NoError(t, err)
	require.Empty(t, views)
}
