package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"
	projectID := "proj1"

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		ProjectID:    &projectID,
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created",
	}

	repo.On("Log", ctx, tenantID, entry).Return(nil)
	repo.On("List", ctx, tenantID, activity.ListActivityOptions{ProjectID: &projectID, Limit: 50}).
		Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, tenantID, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, tenantID, activity.ListActivityOptions{ProjectID: &projectID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_LimitIsCapped(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, "tenant1", mock.MatchedBy(func(opts activity.ListActivityOptions) bool {
		return opts.Limit == 500
	})).Return([]activity.ActivityEntry{}, nil)

	svc := activity.NewService(repo, nil)
	_, err := svc.GetRecentActivity(ctx, "tenant1", activity.ListActivityOptions{Limit: 10_000})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestActivityService_RejectsEmptyEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), "tenant1", nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), "tenant1", &activity.ActivityEntry{}), activity.ErrInvalidInput)
}

func TestActivityService_WrapsStoreErrors(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("disk full")
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, "tenant1", mock.Anything).Return(storeErr)

	svc := activity.NewService(repo, nil)
	err := svc.LogActivity(ctx, "tenant1", &activity.ActivityEntry{ActivityType: activity.TypeViewSaved})
	require.ErrorIs(t, err, storeErr)
}
