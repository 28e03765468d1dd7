package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/session"
	"github.com/rpggio/agencydesk/internal/repository"
)

// SessionRepository implements session.Repository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (
			id, tenant_id, user_id, role, status, created_at, last_activity, closed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		sess.ID,
		sess.TenantID,
		sess.UserID,
		sess.Role,
		sess.Status,
		sess.CreatedAt.UTC(),
		sess.LastActivity.UTC(),
		nullTime(sess.ClosedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, tenantID, id string) (*session.Session, error) {
	query := `
		SELECT id, tenant_id, user_id, role, status, created_at, last_activity, closed_at
		FROM sessions
		WHERE id = ? AND tenant_id = ?
	`

	var sess session.Session
	var closedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&sess.ID,
		&sess.TenantID,
		&sess.UserID,
		&sess.Role,
		&sess.Status,
		&sess.CreatedAt,
		&sess.LastActivity,
		&closedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	sess.ClosedAt = timePtr(closedAt)

	return &sess, nil
}

// Touch reactivates a session and records activity
func (r *SessionRepository) Touch(ctx context.Context, tenantID, id string, role session.Role, at time.Time) error {
	query := `
		UPDATE sessions
		SET status = ?, role = ?, last_activity = ?, closed_at = NULL
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, session.StatusActive, role, at.UTC(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return requireRow(result)
}

// Close marks a session as closed
func (r *SessionRepository) Close(ctx context.Context, tenantID, id string, at time.Time) error {
	query := `
		UPDATE sessions
		SET status = ?, closed_at = ?, last_activity = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, session.StatusClosed, at.UTC(), at.UTC(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return requireRow(result)
}

// ListActive returns a tenant's active sessions, most recently used first
func (r *SessionRepository) ListActive(ctx context.Context, tenantID string) ([]session.SessionInfo, error) {
	query := `
		SELECT id, user_id, role, created_at, last_activity
		FROM sessions
		WHERE tenant_id = ? AND status = 'active'
		ORDER BY last_activity DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.SessionInfo
	for rows.Next() {
		var info session.SessionInfo
		if err := rows.Scan(&info.SessionID, &info.UserID, &info.Role, &info.CreatedAt, &info.LastActivity); err != nil {
			return nil, fmt.Errorf("failed to scan session info: %w", err)
		}
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}
