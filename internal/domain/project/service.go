package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/repository"
)

// Service handles project and client operations.
type Service struct {
	repo       Repository
	clients    ClientRepository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new project service. activities may be nil.
func NewService(repo Repository, clients ClientRepository, activities ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		clients:    clients,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ActorID     string
	ClientID    *string
	Name        string
	Description string
	Status      Status
	Priority    Priority
	Progress    float64
	Budget      float64
	ActualCost  float64
	Currency    string
	StartDate   *time.Time
	Deadline    *time.Time
	Tags        []string
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	ActorID        string
	ID             string
	ClientID       *string
	Name           *string
	Description    *string
	Status         *Status
	Priority       *Priority
	Progress       *float64
	Budget         *float64
	ActualCost     *float64
	Currency       *string
	StartDate      *time.Time
	Deadline       *time.Time
	ClearStartDate bool
	ClearDeadline  bool
	Tags           *[]string
}

// CreateClientRequest defines client creation inputs.
type CreateClientRequest struct {
	Name        string
	CompanyName string
}

// Create validates and stores a new project.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Project, error) {
	status := req.Status
	if status == "" {
		status = StatusPlanning
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := s.now()
	proj := &Project{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		ClientID:    nonEmpty(req.ClientID),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		Progress:    req.Progress,
		Budget:      req.Budget,
		ActualCost:  req.ActualCost,
		Currency:    req.Currency,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := Validate(proj); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tenantID, proj); err != nil {
		return nil, s.storeError("creating project", err)
	}
	if err := s.attachClients(ctx, tenantID, []*Project{proj}); err != nil {
		return nil, err
	}

	s.logActivity(ctx, tenantID, req.ActorID, &proj.ID, activity.TypeProjectCreated,
		fmt.Sprintf("created project %q", proj.Name), nil)
	return proj, nil
}

// Get fetches a project by ID with its client resolved.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, s.storeError("getting project", err)
	}
	if err := s.attachClients(ctx, tenantID, []*Project{proj}); err != nil {
		return nil, err
	}
	return proj, nil
}

// List fetches the tenant's projects and resolves their clients in one
// batch.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Project, error) {
	projects, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	ptrs := make([]*Project, len(projects))
	for i := range projects {
		ptrs[i] = &projects[i]
	}
	if err := s.attachClients(ctx, tenantID, ptrs); err != nil {
		return nil, err
	}
	return projects, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, tenantID string, req UpdateRequest) (*Project, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	proj, err := s.repo.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, s.storeError("getting project", err)
	}
	before := proj.Status

	if req.ClientID != nil {
		proj.ClientID = nonEmpty(req.ClientID)
	}
	if req.Name != nil {
		proj.Name = *req.Name
	}
	if req.Description != nil {
		proj.Description = *req.Description
	}
	if req.Status != nil {
		proj.Status = *req.Status
	}
	if req.Priority != nil {
		proj.Priority = *req.Priority
	}
	if req.Progress != nil {
		proj.Progress = *req.Progress
	}
	if req.Budget != nil {
		proj.Budget = *req.Budget
	}
	if req.ActualCost != nil {
		proj.ActualCost = *req.ActualCost
	}
	if req.Currency != nil {
		proj.Currency = *req.Currency
	}
	switch {
	case req.ClearStartDate:
		proj.StartDate = nil
	case req.StartDate != nil:
		proj.StartDate = req.StartDate
	}
	switch {
	case req.ClearDeadline:
		proj.Deadline = nil
	case req.Deadline != nil:
		proj.Deadline = req.Deadline
	}
	if req.Tags != nil {
		proj.Tags = *req.Tags
	}

	if err := Validate(proj); err != nil {
		return nil, err
	}
	proj.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, tenantID, proj); err != nil {
		return nil, s.storeError("updating project", err)
	}
	if err := s.attachClients(ctx, tenantID, []*Project{proj}); err != nil {
		return nil, err
	}

	if proj.Status != before {
		s.logActivity(ctx, tenantID, req.ActorID, &proj.ID, activity.TypeStatusChanged,
			fmt.Sprintf("status %s -> %s", before, proj.Status), nil)
	} else {
		s.logActivity(ctx, tenantID, req.ActorID, &proj.ID, activity.TypeProjectUpdated,
			fmt.Sprintf("updated project %q", proj.Name), nil)
	}
	return proj, nil
}

// SetStatus moves a project to another status.
func (s *Service) SetStatus(ctx context.Context, tenantID, actorID, id string, status Status) (*Project, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.Update(ctx, tenantID, UpdateRequest{ActorID: actorID, ID: id, Status: &status})
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, tenantID, actorID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return s.storeError("deleting project", err)
	}
	s.logActivity(ctx, tenantID, actorID, &id, activity.TypeProjectDeleted,
		fmt.Sprintf("deleted project %s", id), nil)
	return nil
}

// Duplicate copies a project under a new id. The copy starts in planning
// with no progress, no incurred cost and is never archived.
func (s *Service) Duplicate(ctx context.Context, tenantID, actorID, id string) (*Project, error) {
	src, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, s.storeError("getting project", err)
	}

	now := s.now()
	dup := *src
	dup.ID = uuid.NewString()
	dup.Name = copyName(src.Name)
	dup.Status = StatusPlanning
	dup.Progress = 0
	dup.ActualCost = 0
	dup.ArchivedAt = nil
	dup.Client = nil
	dup.Tags = append([]string(nil), src.Tags...)
	dup.CreatedAt = now
	dup.UpdatedAt = now
	if !dup.Priority.Valid() {
		dup.Priority = PriorityMedium
	}
	if err := Validate(&dup); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tenantID, &dup); err != nil {
		return nil, s.storeError("duplicating project", err)
	}
	if err := s.attachClients(ctx, tenantID, []*Project{&dup}); err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, actorID, &dup.ID, activity.TypeProjectDuplicated,
		fmt.Sprintf("duplicated project %s", src.ID), map[string]string{"source_id": src.ID})
	return &dup, nil
}

// Archive hides a project from default views.
func (s *Service) Archive(ctx context.Context, tenantID, actorID, id string) error {
	now := s.now()
	if err := s.repo.SetArchived(ctx, tenantID, id, &now); err != nil {
		return s.storeError("archiving project", err)
	}
	s.logActivity(ctx, tenantID, actorID, &id, activity.TypeProjectArchived,
		fmt.Sprintf("archived project %s", id), nil)
	return nil
}

// Restore brings an archived project back.
func (s *Service) Restore(ctx context.Context, tenantID, actorID, id string) error {
	if err := s.repo.SetArchived(ctx, tenantID, id, nil); err != nil {
		return s.storeError("restoring project", err)
	}
	s.logActivity(ctx, tenantID, actorID, &id, activity.TypeProjectRestored,
		fmt.Sprintf("restored project %s", id), nil)
	return nil
}

// CreateClient stores a new client.
func (s *Service) CreateClient(ctx context.Context, tenantID string, req CreateClientRequest) (*Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	client := &Client{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Name:        name,
		CompanyName: strings.TrimSpace(req.CompanyName),
		CreatedAt:   s.now(),
	}
	if err := s.clients.Create(ctx, tenantID, client); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

// GetClients resolves client ids to clients. Unknown ids are skipped.
func (s *Service) GetClients(ctx context.Context, tenantID string, ids []string) ([]Client, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	clients, err := s.clients.GetMany(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching clients: %w", err)
	}
	return clients, nil
}

func (s *Service) attachClients(ctx context.Context, tenantID string, projects []*Project) error {
	if s.clients == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, p := range projects {
		if p.ClientID == nil {
			continue
		}
		if _, ok := seen[*p.ClientID]; !ok {
			seen[*p.ClientID] = struct{}{}
			ids = append(ids, *p.ClientID)
		}
	}
	clients, err := s.GetClients(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*Client, len(clients))
	for i := range clients {
		byID[clients[i].ID] = &clients[i]
	}
	for _, p := range projects {
		if p.ClientID != nil {
			p.Client = byID[*p.ClientID]
		}
	}
	return nil
}

func (s *Service) storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrProjectNotFound
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return ErrClientNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) logActivity(ctx context.Context, tenantID, actorID string, projectID *string, typ activity.ActivityType, summary string, details any) {
	if s.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ProjectID:    projectID,
		ActorID:      actorID,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now(),
	}
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			entry.Details = string(data)
		}
	}
	if err := s.activities.Log(ctx, tenantID, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", typ, "tenant_id", tenantID, "error", err)
	}
}

func copyName(name string) string {
	name = strings.TrimSpace(name) + " (Copy)"
	if runes := []rune(name); len(runes) > maxNameLength {
		return string(runes[:maxNameLength])
	}
	return name
}

func nonEmpty(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
