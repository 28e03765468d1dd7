package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/repository"
)

// ClientRepository implements project.ClientRepository for SQLite
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, tenantID string, client *project.Client) error {
	query := `
		INSERT INTO clients (id, tenant_id, name, company_name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, client.ID, tenantID, client.Name, client.CompanyName, client.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	client.TenantID = tenantID
	return nil
}

// GetMany resolves client ids; unknown ids are skipped
func (r *ClientRepository) GetMany(ctx context.Context, tenantID string, ids []string) ([]project.Client, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, tenantID)
	for _, id := range ids {
		args = append(args, id)
	}

	query := `
		SELECT id, tenant_id, name, company_name, created_at
		FROM clients
		WHERE tenant_id = ? AND id IN (` + placeholders(len(ids)) + `)
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	defer rows.Close()

	var clients []project.Client
	for rows.Next() {
		var c project.Client
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.CompanyName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	return clients, nil
}
