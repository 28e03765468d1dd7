package mocks

import (
	"context"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/savedview"
	"github.com/rpggio/agencydesk/internal/domain/session"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *ProjectRepository) SetArchived(ctx context.Context, tenantID, id string, archivedAt *time.Time) error {
	args := m.Called(ctx, tenantID, id, archivedAt)
	return args.Error(0)
}

// ClientRepository is a mock for project.ClientRepository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Create(ctx context.Context, tenantID string, client *project.Client) error {
	args := m.Called(ctx, tenantID, client)
	return args.Error(0)
}

func (m *ClientRepository) GetMany(ctx context.Context, tenantID string, ids []string) ([]project.Client, error) {
	args := m.Called(ctx, tenantID, ids)
	if list, ok := args.Get(0).([]project.Client); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SavedViewRepository is a mock for savedview.Repository.
type SavedViewRepository struct {
	mock.Mock
}

func (m *SavedViewRepository) Create(ctx context.Context, view *savedview.SavedView) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

func (m *SavedViewRepository) Get(ctx context.Context, scope savedview.Scope, id string) (*savedview.SavedView, error) {
	args := m.Called(ctx, scope, id)
	if view, ok := args.Get(0).(*savedview.SavedView); ok {
		return view, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SavedViewRepository) List(ctx context.Context, scope savedview.Scope) ([]savedview.SavedView, error) {
	args := m.Called(ctx, scope)
	if list, ok := args.Get(0).([]savedview.SavedView); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SavedViewRepository) Delete(ctx context.Context, scope savedview.Scope, id string) error {
	args := m.Called(ctx, scope, id)
	return args.Error(0)
}

// FavoriteRepository is a mock for favorite.Repository.
type FavoriteRepository struct {
	mock.Mock
}

func (m *FavoriteRepository) List(ctx context.Context, tenantID, userID string) ([]string, error) {
	args := m.Called(ctx, tenantID, userID)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FavoriteRepository) Has(ctx context.Context, tenantID, userID, projectID string) (bool, error) {
	args := m.Called(ctx, tenantID, userID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *FavoriteRepository) Add(ctx context.Context, tenantID, userID, projectID string) error {
	args := m.Called(ctx, tenantID, userID, projectID)
	return args.Error(0)
}

func (m *FavoriteRepository) Remove(ctx context.Context, tenantID, userID, projectID string) error {
	args := m.Called(ctx, tenantID, userID, projectID)
	return args.Error(0)
}

// SessionRepository is a mock for session.Repository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, tenantID, id string) (*session.Session, error) {
	args := m.Called(ctx, tenantID, id)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Touch(ctx context.Context, tenantID, id string, role session.Role, at time.Time) error {
	args := m.Called(ctx, tenantID, id, role, at)
	return args.Error(0)
}

func (m *SessionRepository) Close(ctx context.Context, tenantID, id string, at time.Time) error {
	args := m.Called(ctx, tenantID, id, at)
	return args.Error(0)
}

func (m *SessionRepository) ListActive(ctx context.Context, tenantID string) ([]session.SessionInfo, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]session.SessionInfo); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
