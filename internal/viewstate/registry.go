package viewstate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rpggio/agencydesk/internal/domain/session"
)

// Key identifies one caller session.
type Key struct {
	TenantID  string
	UserID    string
	SessionID string
}

// Registry holds one controller per session.
type Registry struct {
	deps   Deps
	opts   Options
	logger *slog.Logger

	mu          sync.Mutex
	controllers map[Key]*Controller
}

// NewRegistry creates an empty registry whose controllers share deps.
func NewRegistry(deps Deps, opts Options, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		deps:        deps,
		opts:        opts,
		logger:      logger,
		controllers: make(map[Key]*Controller),
	}
}

// Get returns the session's controller, creating and opening it on first
// use. The principal's current role replaces the one the controller was
// created with.
func (r *Registry) Get(ctx context.Context, sessionID string, p session.Principal) *Controller {
	key := Key{TenantID: p.TenantID, UserID: p.UserID, SessionID: sessionID}

	r.mu.Lock()
	ctl, ok := r.controllers[key]
	if !ok {
		ctl = NewController(p, r.deps, r.opts, r.logger)
		r.controllers[key] = ctl
		r.logger.Debug("view state created", "session_id", sessionID, "tenant_id", p.TenantID)
	}
	r.mu.Unlock()

	if ok {
		ctl.SetRole(p.Role)
	}
	ctl.Open(ctx)
	return ctl
}

// Drop forgets a session's controller and reports whether one existed.
func (r *Registry) Drop(sessionID string, p session.Principal) bool {
	key := Key{TenantID: p.TenantID, UserID: p.UserID, SessionID: sessionID}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.controllers[key]
	delete(r.controllers, key)
	return ok
}

// Len reports how many controllers are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}
