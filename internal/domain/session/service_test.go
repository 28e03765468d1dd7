package session_test

import (
	"context"
	"testing"

	"github.com/rpggio/agencydesk/internal/domain/session"
	"github.com/rpggio/agencydesk/internal/repository"
	"github.com/rpggio/agencydesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var caller = session.Principal{TenantID: "tenant1", UserID: "user1", Role: session.RoleManager}

func TestSessionService_OpenCreates(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.SessionRepository{}
	repo.On("Get", ctx, "tenant1", "s1").Return((*session.Session)(nil), repository.ErrNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(s *session.Session) bool {
		return s.ID == "s1" && s.UserID == "user1" && s.Role == session.RoleManager
	})).Return(nil)

	svc := session.NewService(repo, nil)
	sess, err := svc.Open(ctx, caller, "s1")
	require.NoError(t, err)
	require.Equal(t, session.StatusActive, sess.Status)
	repo.AssertExpectations(t)
}

func TestSessionService_OpenGeneratesID(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.SessionRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := session.NewService(repo, nil)
	sess, err := svc.Open(ctx, caller, "")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionService_OpenReactivates(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.SessionRepository{}
	repo.On("Get", ctx, "tenant1", "s1").Return(&session.Session{
		ID: "s1", TenantID: "tenant1", UserID: "user1", Role: session.RoleMember, Status: session.StatusClosed,
	}, nil)
	repo.On("Touch", ctx, "tenant1", "s1", session.RoleManager, mock.Anything).Return(nil)

	svc := session.NewService(repo, nil)
	sess, err := svc.Open(ctx, caller, "s1")
	require.NoError(t, err)
	require.Equal(t, session.StatusActive, sess.Status)
	require.Equal(t, session.RoleManager, sess.Role)
	require.Nil(t, sess.ClosedAt)
}

func TestSessionService_OpenRejectsOtherUser(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.SessionRepository{}
	repo.On("Get", ctx, "tenant1", "s1").Return(&session.Session{ID: "s1", UserID: "someone-else"}, nil)

	svc := session.NewService(repo, nil)
	_, err := svc.Open(ctx, caller, "s1")
	require.ErrorIs(t, err, session.ErrUnauthorized)
}

func TestSessionService_OpenValidatesPrincipal(t *testing.T) {
	svc := session.NewService(&mocks.SessionRepository{}, nil)

	_, err := svc.Open(context.Background(), session.Principal{TenantID: "tenant1"}, "")
	require.ErrorIs(t, err, session.ErrInvalidInput)

	_, err = svc.Open(context.Background(), session.Principal{TenantID: "t", UserID: "u", Role: "root"}, "")
	require.ErrorIs(t, err, session.ErrInvalidInput)
}

func TestSessionService_Close(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.SessionRepository{}
	repo.On("Close", ctx, "tenant1", "s1", mock.Anything).Return(nil)
	repo.On("Close", ctx, "tenant1", "gone", mock.Anything).Return(repository.ErrNotFound)

	svc := session.NewService(repo, nil)
	require.NoError(t, svc.Close(ctx, "tenant1", "s1"))
	require.ErrorIs(t, svc.Close(ctx, "tenant1", "gone"), session.ErrSessionNotFound)
}

func TestRole_CanBulkDelete(t *testing.T) {
	for role, want := range map[session.Role]bool{
		session.RoleOwner:   true,
		session.RoleAdmin:   true,
		session.RoleManager: true,
		session.RoleMember:  false,
		session.RoleViewer:  false,
		session.Role(""):    false,
	} {
		require.Equal(t, want, role.CanBulkDelete(), "role %q", role)
	}
}
