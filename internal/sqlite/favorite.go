package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/agencydesk/internal/repository"
)

// FavoriteRepository implements favorite.Repository for SQLite
type FavoriteRepository struct {
	db *DB
}

// NewFavoriteRepository creates a new FavoriteRepository
func NewFavoriteRepository(db *DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// List returns a user's favorite project ids
func (r *FavoriteRepository) List(ctx context.Context, tenantID, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id FROM favorites WHERE tenant_id = ? AND user_id = ? ORDER BY created_at, project_id`,
		tenantID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}
	return ids, nil
}

// Has reports whether a project is one of the user's favorites
func (r *FavoriteRepository) Has(ctx context.Context, tenantID, userID, projectID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE tenant_id = ? AND user_id = ? AND project_id = ?`,
		tenantID, userID, projectID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return n > 0, nil
}

// Add marks a project as a favorite. The project must belong to the
// tenant.
func (r *FavoriteRepository) Add(ctx context.Context, tenantID, userID, projectID string) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO favorites (tenant_id, user_id, project_id, created_at)
		SELECT ?, ?, id, ? FROM projects WHERE id = ? AND tenant_id = ?
	`, tenantID, userID, time.Now().UTC(), projectID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		has, err := r.Has(ctx, tenantID, userID, projectID)
		if err != nil {
			return err
		}
		if !has {
			return repository.ErrNotFound
		}
	}
	return nil
}

// Remove unmarks a favorite; removing a missing favorite is not an error
func (r *FavoriteRepository) Remove(ctx context.Context, tenantID, userID, projectID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE tenant_id = ? AND user_id = ? AND project_id = ?`,
		tenantID, userID, projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
