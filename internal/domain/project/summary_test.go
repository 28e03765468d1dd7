package project_test

import (
	"testing"

	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	projects := []project.Project{
		{ID: "1", Status: project.StatusActive, Progress: 50, Budget: 1000, ActualCost: 1200, Currency: "USD"},
		{ID: "2", Status: project.StatusActive, Progress: 20, Budget: 500, ActualCost: 100, Currency: "EUR",
			Deadline: daysFromNow(-3)},
		{ID: "3", Status: project.StatusCompleted, Progress: 100, Budget: 2000, ActualCost: 1500, Currency: "USD",
			Deadline: daysFromNow(-30)},
	}

	s := project.Summarize(projects, now)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ByStatus[project.StatusActive])
	assert.Equal(t, 1, s.ByStatus[project.StatusCompleted])
	assert.Equal(t, 1, s.ByHealth[project.HealthWarning])
	assert.Equal(t, 2, s.ByHealth[project.HealthHealthy])
	assert.Equal(t, 1, s.Overdue, "completed projects are never overdue")
	assert.InDelta(t, 56.67, s.AverageProgress, 0.01)

	require.Len(t, s.Totals, 2)
	assert.Equal(t, project.CurrencyTotal{Currency: "EUR", Budget: 500, ActualCost: 100, Variance: 400}, s.Totals[0])
	assert.Equal(t, project.CurrencyTotal{Currency: "USD", Budget: 3000, ActualCost: 2700, Variance: 300}, s.Totals[1])
}

func TestSummarize_Empty(t *testing.T) {
	s := project.Summarize(nil, now)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.AverageProgress)
	assert.Empty(t, s.Totals)
}

func TestKanbanColumns(t *testing.T) {
	projects := []project.Project{
		{ID: "a", Status: project.StatusCompleted},
		{ID: "b", Status: project.StatusPlanning},
		{ID: "c", Status: project.Status("legacy")},
		{ID: "d", Status: project.StatusPlanning},
	}

	columns := project.KanbanColumns(projects)
	require.Len(t, columns, len(project.Statuses())+1)

	for i, s := range project.Statuses() {
		assert.Equal(t, s, columns[i].Status)
	}
	assert.Equal(t, []string{"b", "d"}, ids(columns[0].Projects))
	assert.Equal(t, []string{"a"}, ids(columns[4].Projects))
	assert.Empty(t, columns[1].Projects)
	assert.Equal(t, project.Status("legacy"), columns[6].Status)
	assert.Equal(t, []string{"c"}, ids(columns[6].Projects))
}
