package project_test

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func daysFromNow(d int) *time.Time {
	t := now.AddDate(0, 0, d)
	return &t
}

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name   string
		p      project.Project
		score  int
		status project.HealthStatus
	}{
		{
			name:   "on budget, no dates",
			p:      project.Project{Status: project.StatusActive, Budget: 1000, ActualCost: 900, Progress: 50},
			score:  100,
			status: project.HealthHealthy,
		},
		{
			name:   "twenty percent over budget",
			p:      project.Project{Status: project.StatusActive, Priority: project.PriorityHigh, Budget: 1000, ActualCost: 1200, Progress: 50},
			score:  60,
			status: project.HealthWarning,
		},
		{
			name:   "budget penalty is capped",
			p:      project.Project{Status: project.StatusActive, Budget: 100, ActualCost: 10_000},
			score:  50,
			status: project.HealthWarning,
		},
		{
			name:   "zero budget ignores cost",
			p:      project.Project{Status: project.StatusActive, Budget: 0, ActualCost: 5000},
			score:  100,
			status: project.HealthHealthy,
		},
		{
			name:   "five days overdue",
			p:      project.Project{Status: project.StatusInProgress, Deadline: daysFromNow(-5)},
			score:  80,
			status: project.HealthHealthy,
		},
		{
			name:   "schedule penalty is capped",
			p:      project.Project{Status: project.StatusActive, Deadline: daysFromNow(-30)},
			score:  60,
			status: project.HealthWarning,
		},
		{
			name:   "deadline today is not overdue",
			p:      project.Project{Status: project.StatusActive, Deadline: daysFromNow(0)},
			score:  100,
			status: project.HealthHealthy,
		},
		{
			name:   "completed projects are never overdue",
			p:      project.Project{Status: project.StatusCompleted, Deadline: daysFromNow(-30), Progress: 100},
			score:  100,
			status: project.HealthHealthy,
		},
		{
			name:   "behind schedule halfway through",
			p:      project.Project{Status: project.StatusActive, StartDate: daysFromNow(-50), Deadline: daysFromNow(50), Progress: 15},
			score:  90,
			status: project.HealthHealthy,
		},
		{
			name:   "progress within tolerance",
			p:      project.Project{Status: project.StatusActive, StartDate: daysFromNow(-50), Deadline: daysFromNow(50), Progress: 40},
			score:  100,
			status: project.HealthHealthy,
		},
		{
			name: "every penalty at once floors at zero",
			p: project.Project{
				Status:     project.StatusActive,
				Budget:     1000,
				ActualCost: 1250,
				StartDate:  daysFromNow(-100),
				Deadline:   daysFromNow(-30),
			},
			score:  0,
			status: project.HealthCritical,
		},
		{
			name:   "non-finite numbers are neutral",
			p:      project.Project{Status: project.StatusActive, Budget: math.NaN(), ActualCost: math.Inf(1), Progress: math.NaN()},
			score:  100,
			status: project.HealthHealthy,
		},
		{
			name:   "progress above 100 is clamped",
			p:      project.Project{Status: project.StatusActive, StartDate: daysFromNow(-90), Deadline: daysFromNow(10), Progress: 250},
			score:  100,
			status: project.HealthHealthy,
		},
		{
			name:   "start date in the future",
			p:      project.Project{Status: project.StatusPlanning, StartDate: daysFromNow(10), Deadline: daysFromNow(40)},
			score:  100,
			status: project.HealthHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := project.CalculateHealthScore(tt.p, now)
			require.Equal(t, tt.score, got.Score)
			require.Equal(t, tt.status, got.Status)
		})
	}
}

func TestClassifyHealth(t *testing.T) {
	cases := map[int]project.HealthStatus{
		100: project.HealthHealthy,
		85:  project.HealthHealthy,
		70:  project.HealthHealthy,
		69:  project.HealthWarning,
		55:  project.HealthWarning,
		40:  project.HealthWarning,
		39:  project.HealthCritical,
		20:  project.HealthCritical,
		0:   project.HealthCritical,
	}
	for score, want := range cases {
		require.Equal(t, want, project.ClassifyHealth(score), "score %d", score)
	}
}

func TestCalculateHealthScore_Bounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	statuses := append(project.Statuses(), project.Status("mystery"))

	for i := 0; i < 2000; i++ {
		p := project.Project{
			Status:     statuses[rng.IntN(len(statuses))],
			Budget:     rng.Float64()*2000 - 200,
			ActualCost: rng.Float64() * 6000,
			Progress:   rng.Float64()*300 - 100,
		}
		if rng.IntN(2) == 0 {
			p.StartDate = daysFromNow(-rng.IntN(400))
		}
		if rng.IntN(2) == 0 {
			p.Deadline = daysFromNow(rng.IntN(400) - 200)
		}

		got := project.CalculateHealthScore(p, now)
		require.GreaterOrEqual(t, got.Score, 0)
		require.LessOrEqual(t, got.Score, 100)
		require.Equal(t, project.ClassifyHealth(got.Score), got.Status)
	}
}
