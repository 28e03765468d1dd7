package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/agencydesk/internal/repository"
)

// Service handles session lifecycle.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new session service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Open returns the caller's session with the given id, creating it on first
// use and reactivating it if it was closed. An empty id starts a fresh
// session. A session belonging to another user is refused.
func (s *Service) Open(ctx context.Context, p Principal, id string) (*Session, error) {
	if strings.TrimSpace(p.TenantID) == "" || strings.TrimSpace(p.UserID) == "" {
		return nil, ErrInvalidInput
	}
	if !p.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, p.Role)
	}
	now := s.now()

	if id != "" {
		sess, err := s.repo.Get(ctx, p.TenantID, id)
		switch {
		case err == nil:
			if sess.UserID != p.UserID {
				return nil, ErrUnauthorized
			}
			if err := s.repo.Touch(ctx, p.TenantID, id, p.Role, now); err != nil {
				return nil, fmt.Errorf("touching session: %w", err)
			}
			sess.Role = p.Role
			sess.Status = StatusActive
			sess.LastActivity = now
			sess.ClosedAt = nil
			return sess, nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("getting session: %w", err)
		}
	} else {
		id = uuid.NewString()
	}

	sess := &Session{
		ID:           id,
		TenantID:     p.TenantID,
		UserID:       p.UserID,
		Role:         p.Role,
		Status:       StatusActive,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	s.logger.Debug("session opened", "session_id", id, "tenant_id", p.TenantID, "user_id", p.UserID)
	return sess, nil
}

// Close signs the session out.
func (s *Service) Close(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Close(ctx, tenantID, id, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("closing session: %w", err)
	}
	return nil
}

// ListActive lists the tenant's open sessions.
func (s *Service) ListActive(ctx context.Context, tenantID string) ([]SessionInfo, error) {
	return s.repo.ListActive(ctx, tenantID)
}
