package savedview

import (
	"context"

	"github.com/rpggio/agencydesk/internal/domain/activity"
)

// Repository provides persistence for saved views.
type Repository interface {
	Create(ctx context.Context, view *SavedView) error
	Get(ctx context.Context, scope Scope, id string) (*SavedView, error)
	List(ctx context.Context, scope Scope) ([]SavedView, error)
	Delete(ctx context.Context, scope Scope, id string) error
}

// ActivityRepository records view changes.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
