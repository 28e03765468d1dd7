package project

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusPlanning   Status = "planning"
	StatusActive     Status = "active"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var statusOrder = []Status{
	StatusPlanning,
	StatusActive,
	StatusInProgress,
	StatusOnHold,
	StatusCompleted,
	StatusCancelled,
}

// Statuses returns every known status in board order.
func Statuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s.Ordinal() < len(statusOrder)
}

// Ordinal returns the board position of s. Unknown values sort after every
// known status.
func (s Status) Ordinal() int {
	for i, known := range statusOrder {
		if s == known {
			return i
		}
	}
	return len(statusOrder)
}

// Closed reports whether no further work is expected on the project.
func (s Status) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, v)
	}
	return s, nil
}

// Priority ranks how urgent a project is.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityOrder = []Priority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityCritical,
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Ordinal() > 0
}

// Ordinal maps low..critical to 1..4. Unknown values rank 0, below low.
func (p Priority) Ordinal() int {
	for i, known := range priorityOrder {
		if p == known {
			return i + 1
		}
	}
	return 0
}

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, v)
	}
	return p, nil
}

// Client is the customer a project is billed to.
type Client struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Project is one unit of billable, trackable work.
type Project struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	ClientID    *string    `json:"client_id,omitempty"`
	Client      *Client    `json:"client,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Progress    float64    `json:"progress"`
	Budget      float64    `json:"budget"`
	ActualCost  float64    `json:"actual_cost"`
	Currency    string     `json:"currency"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Archived reports whether the project has been archived.
func (p Project) Archived() bool {
	return p.ArchivedAt != nil
}

// HasTag reports whether the project carries tag.
func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ListOptions narrows a store-side project fetch.
type ListOptions struct {
	Statuses        []Status
	ClientID        string
	IncludeArchived bool
}
