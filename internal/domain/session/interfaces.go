package session

import (
	"context"
	"time"
)

// Repository provides persistence for sessions.
type Repository interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, tenantID, id string) (*Session, error)
	Touch(ctx context.Context, tenantID, id string, role Role, at time.Time) error
	Close(ctx context.Context, tenantID, id string, at time.Time) error
	ListActive(ctx context.Context, tenantID string) ([]SessionInfo, error)
}
