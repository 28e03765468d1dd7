// Package favorite tracks each user's starred projects, the set behind the
// "favorites" status filter.
package favorite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/repository"
)

// Repository provides persistence for favorites.
type Repository interface {
	List(ctx context.Context, tenantID, userID string) ([]string, error)
	Has(ctx context.Context, tenantID, userID, projectID string) (bool, error)
	Add(ctx context.Context, tenantID, userID, projectID string) error
	Remove(ctx context.Context, tenantID, userID, projectID string) error
}

// Service handles favorite operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new favorite service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// List returns the user's favorite project ids.
func (s *Service) List(ctx context.Context, tenantID, userID string) ([]string, error) {
	ids, err := s.repo.List(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return ids, nil
}

// Toggle stars or unstars a project and reports whether it is now a
// favorite.
func (s *Service) Toggle(ctx context.Context, tenantID, userID, projectID string) (bool, error) {
	if strings.TrimSpace(projectID) == "" {
		return false, fmt.Errorf("toggling favorite: empty project id")
	}
	has, err := s.repo.Has(ctx, tenantID, userID, projectID)
	if err != nil {
		return false, fmt.Errorf("checking favorite: %w", err)
	}
	if has {
		if err := s.repo.Remove(ctx, tenantID, userID, projectID); err != nil {
			return false, fmt.Errorf("removing favorite: %w", err)
		}
		return false, nil
	}
	if err := s.repo.Add(ctx, tenantID, userID, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, fmt.Errorf("%w: %s", project.ErrProjectNotFound, projectID)
		}
		return false, fmt.Errorf("adding favorite: %w", err)
	}
	return true, nil
}
