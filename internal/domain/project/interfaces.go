package project

import (
	"context"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/activity"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, tenantID string, proj *Project) error
	Get(ctx context.Context, tenantID, id string) (*Project, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Project, error)
	Update(ctx context.Context, tenantID string, proj *Project) error
	Delete(ctx context.Context, tenantID, id string) error
	SetArchived(ctx context.Context, tenantID, id string, archivedAt *time.Time) error
}

// ClientRepository provides persistence for clients.
type ClientRepository interface {
	Create(ctx context.Context, tenantID string, client *Client) error
	GetMany(ctx context.Context, tenantID string, ids []string) ([]Client, error)
}

// ActivityRepository records project mutations.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
