package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	p1 := "p1"
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry1 := &activity.ActivityEntry{
		ProjectID:    &p1,
		ActorID:      "user1",
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created project",
		CreatedAt:    base,
	}
	entry2 := &activity.ActivityEntry{
		ProjectID:    &p1,
		ActorID:      "user2",
		ActivityType: activity.TypeStatusChanged,
		Summary:      "status active -> completed",
		Details:      `{"from":"active"}`,
		CreatedAt:    base.Add(time.Minute),
	}
	entry3 := &activity.ActivityEntry{
		ActorID:      "user1",
		ActivityType: activity.TypeViewSaved,
		Summary:      "saved view",
		CreatedAt:    base.Add(2 * time.Minute),
	}

	for _, e := range []*activity.ActivityEntry{entry1, entry2, entry3} {
		require.NoError(t, repo.Log(ctx, "tenant1", e))
		require.NotZero(t, e.ID)
	}

	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, activity.TypeViewSaved, entries[0].ActivityType)
	require.Nil(t, entries[0].ProjectID)
	require.Equal(t, `{"from":"active"}`, entries[1].Details)

	entries, err = repo.List(ctx, "tenant1", activity.ListActivityOptions{ProjectID: &p1})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeStatusChanged, entries[0].ActivityType)
	require.Equal(t, activity.TypeProjectCreated, entries[1].ActivityType)

	entries, err = repo.List(ctx, "tenant1", activity.ListActivityOptions{ActorID: "user1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeViewSaved, entries[0].ActivityType)

	typ := activity.TypeStatusChanged
	entries, err = repo.List(ctx, "tenant1", activity.ListActivityOptions{ActivityType: &typ})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestActivityRepository_TenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	require.NoError(t, repo.Log(ctx, "tenant1", &activity.ActivityEntry{ActivityType: activity.TypeBulkAction, Summary: "bulk"}))

	entries, err := repo.List(ctx, "tenant2", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Empty(t, entries)
}
