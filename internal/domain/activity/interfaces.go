package activity

import "context"

// Repository stores the tenant's activity log. Entries are append-only.
type Repository interface {
	// Log assigns entry its ID.
	Log(ctx context.Context, tenantID string, entry *ActivityEntry) error
	// List returns matching entries newest first.
	List(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error)
}
