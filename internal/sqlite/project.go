package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, tenant_id, client_id, name, description, status, priority,
	progress, budget, actual_cost, currency, start_date, deadline,
	archived_at, created_at, updated_at`

// Create creates a new project with its tags
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkClient(ctx, tx, tenantID, proj.ClientID); err != nil {
		return err
	}

	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		proj.ID,
		tenantID,
		proj.ClientID,
		proj.Name,
		proj.Description,
		proj.Status,
		proj.Priority,
		proj.Progress,
		proj.Budget,
		proj.ActualCost,
		proj.Currency,
		nullTime(proj.StartDate),
		nullTime(proj.Deadline),
		nullTime(proj.ArchivedAt),
		proj.CreatedAt.UTC(),
		proj.UpdatedAt.UTC(),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return repository.ErrConflict
		case isForeignKeyViolation(err):
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	if err := replaceTags(ctx, tx, proj.ID, proj.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	proj.TenantID = tenantID
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND tenant_id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	tags, err := r.tags(ctx, `WHERE pt.project_id = ?`, id)
	if err != nil {
		return nil, err
	}
	proj.Tags = tags[proj.ID]
	return proj, nil
}

// List returns a tenant's projects, newest first
func (r *ProjectRepository) List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
	where := []string{"tenant_id = ?"}
	args := []any{tenantID}
	if !opts.IncludeArchived {
		where = append(where, "archived_at IS NULL")
	}
	if opts.ClientID != "" {
		where = append(where, "client_id = ?")
		args = append(args, opts.ClientID)
	}
	if len(opts.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(opts.Statuses))+")")
		for _, s := range opts.Statuses {
			args = append(args, s)
		}
	}

	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	rows.Close()

	// Tags are read after the project rows are closed; the pool has a
	// single connection.
	tags, err := r.tags(ctx, `JOIN projects p ON p.id = pt.project_id WHERE p.tenant_id = ?`, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Tags = tags[projects[i].ID]
	}
	return projects, nil
}

// Update replaces a project's fields and tags
func (r *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkClient(ctx, tx, tenantID, proj.ClientID); err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET client_id = ?, name = ?, description = ?, status = ?, priority = ?,
		    progress = ?, budget = ?, actual_cost = ?, currency = ?,
		    start_date = ?, deadline = ?, archived_at = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`
	result, err := tx.ExecContext(ctx, query,
		proj.ClientID,
		proj.Name,
		proj.Description,
		proj.Status,
		proj.Priority,
		proj.Progress,
		proj.Budget,
		proj.ActualCost,
		proj.Currency,
		nullTime(proj.StartDate),
		nullTime(proj.Deadline),
		nullTime(proj.ArchivedAt),
		proj.UpdatedAt.UTC(),
		proj.ID,
		tenantID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}

	if err := replaceTags(ctx, tx, proj.ID, proj.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a project. Its tags and favorites go with it.
func (r *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireRow(result)
}

// SetArchived archives a project at archivedAt, or restores it when
// archivedAt is nil
func (r *ProjectRepository) SetArchived(ctx context.Context, tenantID, id string, archivedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET archived_at = ?, updated_at = ? WHERE id = ? AND tenant_id = ?`,
		nullTime(archivedAt), time.Now().UTC(), id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to archive project: %w", err)
	}
	return requireRow(result)
}

func (r *ProjectRepository) tags(ctx context.Context, clause string, arg any) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT pt.project_id, pt.tag FROM project_tags pt `+clause+` ORDER BY pt.tag`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var projectID, tag string
		if err := rows.Scan(&projectID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags[projectID] = append(tags[projectID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var clientID sql.NullString
	var startDate, deadline, archivedAt sql.NullTime
	err := row.Scan(
		&proj.ID,
		&proj.TenantID,
		&clientID,
		&proj.Name,
		&proj.Description,
		&proj.Status,
		&proj.Priority,
		&proj.Progress,
		&proj.Budget,
		&proj.ActualCost,
		&proj.Currency,
		&startDate,
		&deadline,
		&archivedAt,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if clientID.Valid {
		proj.ClientID = &clientID.String
	}
	proj.StartDate = timePtr(startDate)
	proj.Deadline = timePtr(deadline)
	proj.ArchivedAt = timePtr(archivedAt)
	proj.CreatedAt = proj.CreatedAt.UTC()
	proj.UpdatedAt = proj.UpdatedAt.UTC()
	return &proj, nil
}

func checkClient(ctx context.Context, tx *sql.Tx, tenantID string, clientID *string) error {
	if clientID == nil {
		return nil
	}
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients WHERE id = ? AND tenant_id = ?`, *clientID, tenantID).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to check client: %w", err)
	}
	if n == 0 {
		return repository.ErrForeignKeyViolation
	}
	return nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, projectID string, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_tags WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO project_tags (project_id, tag) VALUES (?, ?)`, projectID, tag); err != nil {
			return fmt.Errorf("failed to add tag: %w", err)
		}
	}
	return nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
