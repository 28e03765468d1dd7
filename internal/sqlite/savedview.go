package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rpggio/agencydesk/internal/domain/savedview"
	"github.com/rpggio/agencydesk/internal/repository"
)

// SavedViewRepository implements savedview.Repository for SQLite. Filters
// are stored as a JSON document.
type SavedViewRepository struct {
	db *DB
}

// NewSavedViewRepository creates a new SavedViewRepository
func NewSavedViewRepository(db *DB) *SavedViewRepository {
	return &SavedViewRepository{db: db}
}

// Create stores a saved view
func (r *SavedViewRepository) Create(ctx context.Context, view *savedview.SavedView) error {
	filters, err := json.Marshal(view.Filters)
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}
	query := `
		INSERT INTO saved_views (id, tenant_id, user_id, name, filters, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query, view.ID, view.TenantID, view.UserID, view.Name, string(filters), view.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create saved view: %w", err)
	}
	return nil
}

// Get retrieves one of the scope's views
func (r *SavedViewRepository) Get(ctx context.Context, scope savedview.Scope, id string) (*savedview.SavedView, error) {
	query := `
		SELECT id, tenant_id, user_id, name, filters, created_at
		FROM saved_views
		WHERE id = ? AND tenant_id = ? AND user_id = ?
	`
	view, err := scanView(r.db.QueryRowContext(ctx, query, id, scope.TenantID, scope.UserID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved view: %w", err)
	}
	return view, nil
}

// List returns the scope's views, oldest first
func (r *SavedViewRepository) List(ctx context.Context, scope savedview.Scope) ([]savedview.SavedView, error) {
	query := `
		SELECT id, tenant_id, user_id, name, filters, created_at
		FROM saved_views
		WHERE tenant_id = ? AND user_id = ?
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, scope.TenantID, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved views: %w", err)
	}
	defer rows.Close()

	views := []savedview.SavedView{}
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved view: %w", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved views: %w", err)
	}
	return views, nil
}

// Delete removes one of the scope's views
func (r *SavedViewRepository) Delete(ctx context.Context, scope savedview.Scope, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_views WHERE id = ? AND tenant_id = ? AND user_id = ?`,
		id, scope.TenantID, scope.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete saved view: %w", err)
	}
	return requireRow(result)
}

func scanView(row rowScanner) (*savedview.SavedView, error) {
	var view savedview.SavedView
	var filters string
	if err := row.Scan(&view.ID, &view.TenantID, &view.UserID, &view.Name, &filters, &view.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(filters), &view.Filters); err != nil {
		return nil, fmt.Errorf("failed to decode filters of view %s: %w", view.ID, err)
	}
	return &view, nil
}
