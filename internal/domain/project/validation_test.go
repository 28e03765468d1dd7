package project_test

import (
	"math"
	"strings"
	"testing"

	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestValidate_Normalizes(t *testing.T) {
	p := &project.Project{
		Name:     "  Launch  ",
		Status:   project.StatusActive,
		Priority: project.PriorityLow,
		Currency: " eur ",
		Tags:     []string{" b", "a", "", "b"},
	}
	require.NoError(t, project.Validate(p))
	require.Equal(t, "Launch", p.Name)
	require.Equal(t, "EUR", p.Currency)
	require.Equal(t, []string{"a", "b"}, p.Tags)
}

func TestValidate_Rejects(t *testing.T) {
	valid := func() *project.Project {
		return &project.Project{Name: "x", Status: project.StatusActive, Priority: project.PriorityLow}
	}
	tests := []struct {
		name string
		mut  func(*project.Project)
	}{
		{"long name", func(p *project.Project) { p.Name = strings.Repeat("n", 201) }},
		{"unknown priority", func(p *project.Project) { p.Priority = "urgent" }},
		{"NaN progress", func(p *project.Project) { p.Progress = math.NaN() }},
		{"infinite cost", func(p *project.Project) { p.ActualCost = math.Inf(1) }},
		{"numeric currency", func(p *project.Project) { p.Currency = "123" }},
		{"long tag", func(p *project.Project) { p.Tags = []string{strings.Repeat("t", 51)} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mut(p)
			require.ErrorIs(t, project.Validate(p), project.ErrInvalidInput)
		})
	}
}
