package savedview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/repository"
)

const maxNameLength = 100

// Service handles saved view operations. Views are append-only: replacing
// one means deleting it and saving again.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new saved view service. activities may be nil.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, activities: activities, logger: logger}
}

// Create snapshots filters under name.
func (s *Service) Create(ctx context.Context, scope Scope, name string, filters project.Filters) (*SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, maxNameLength)
	}
	if strings.EqualFold(name, DefaultViewID) {
		return nil, fmt.Errorf("%w: %q is reserved", ErrInvalidInput, DefaultViewID)
	}

	view := &SavedView{
		ID:        uuid.NewString(),
		TenantID:  scope.TenantID,
		UserID:    scope.UserID,
		Name:      name,
		Filters:   Capture(filters),
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, view); err != nil {
		return nil, fmt.Errorf("creating saved view: %w", err)
	}

	s.log(ctx, scope, activity.TypeViewSaved, fmt.Sprintf("saved view %q", view.Name))
	return view, nil
}

// Get fetches one of the caller's views.
func (s *Service) Get(ctx context.Context, scope Scope, id string) (*SavedView, error) {
	view, err := s.repo.Get(ctx, scope, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrViewNotFound
		}
		return nil, fmt.Errorf("getting saved view: %w", err)
	}
	return view, nil
}

// List returns the caller's views, oldest first.
func (s *Service) List(ctx context.Context, scope Scope) ([]SavedView, error) {
	views, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listing saved views: %w", err)
	}
	return views, nil
}

// Delete removes one of the caller's views.
func (s *Service) Delete(ctx context.Context, scope Scope, id string) error {
	if err := s.repo.Delete(ctx, scope, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrViewNotFound
		}
		return fmt.Errorf("deleting saved view: %w", err)
	}
	s.log(ctx, scope, activity.TypeViewDeleted, fmt.Sprintf("deleted view %s", id))
	return nil
}

func (s *Service) log(ctx context.Context, scope Scope, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, scope.TenantID, &activity.ActivityEntry{
		ActorID:      scope.UserID,
		ActivityType: typ,
		Summary:      summary,
	})
	if err != nil {
		s.logger.Warn("failed to log activity", "type", typ, "error", err)
	}
}
