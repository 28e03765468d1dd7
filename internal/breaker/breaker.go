// Package breaker guards the project store with a circuit breaker. After
// enough consecutive store failures the breaker opens and calls fail fast
// with ErrUnavailable until the open timeout passes and a probe succeeds.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/repository"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("project store unavailable")

// Settings configures the breaker.
type Settings struct {
	Name        string
	MaxFailures uint32
	OpenTimeout time.Duration
}

// ProjectRepository implements project.Repository on top of another
// repository, counting its failures.
type ProjectRepository struct {
	next project.Repository
	cb   *gobreaker.CircuitBreaker
}

// NewProjectRepository wraps next. A zero MaxFailures defaults to 5 and a
// zero OpenTimeout to 30 seconds.
func NewProjectRepository(next project.Repository, settings Settings, logger *slog.Logger) *ProjectRepository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if settings.Name == "" {
		settings.Name = "project-store"
	}
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &ProjectRepository{next: next, cb: cb}
}

// State reports the breaker's current state.
func (r *ProjectRepository) State() gobreaker.State {
	return r.cb.State()
}

// Lookups that miss and rejected writes mean the store answered.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrConflict) ||
		errors.Is(err, repository.ErrForeignKeyViolation) ||
		errors.Is(err, repository.ErrInvalidInput) ||
		errors.Is(err, context.Canceled)
}

func execute[T any](r *ProjectRepository, fn func() (T, error)) (T, error) {
	var zero T
	v, err := r.cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	_, err := execute(r, func() (struct{}, error) {
		return struct{}{}, r.next.Create(ctx, tenantID, proj)
	})
	return err
}

func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	return execute(r, func() (*project.Project, error) {
		return r.next.Get(ctx, tenantID, id)
	})
}

func (r *ProjectRepository) List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
	return execute(r, func() ([]project.Project, error) {
		return r.next.List(ctx, tenantID, opts)
	})
}

func (r *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	_, err := execute(r, func() (struct{}, error) {
		return struct{}{}, r.next.Update(ctx, tenantID, proj)
	})
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	_, err := execute(r, func() (struct{}, error) {
		return struct{}{}, r.next.Delete(ctx, tenantID, id)
	})
	return err
}

func (r *ProjectRepository) SetArchived(ctx context.Context, tenantID, id string, archivedAt *time.Time) error {
	_, err := execute(r, func() (struct{}, error) {
		return struct{}{}, r.next.SetArchived(ctx, tenantID, id, archivedAt)
	})
	return err
}
