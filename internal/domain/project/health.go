package project

import (
	"math"
	"time"
)

// HealthStatus buckets a health score.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// HealthScore summarizes a project's budget and schedule risk.
type HealthScore struct {
	Score  int          `json:"score"`
	Status HealthStatus `json:"status"`
}

// Thresholds and penalty weights. These values are part of the scoring
// contract; changing any of them changes every reported score.
const (
	HealthyThreshold = 70
	WarningThreshold = 40

	budgetPenaltyWeight = 200.0
	maxBudgetPenalty    = 50.0

	overdueBasePenalty   = 10.0
	overduePerDayPenalty = 2.0
	maxSchedulePenalty   = 40.0

	stagnationTolerance  = 15.0
	maxStagnationPenalty = 20.0
)

// CalculateHealthScore scores p as of now. It never fails: missing or
// non-finite numbers and missing dates contribute no penalty.
func CalculateHealthScore(p Project, now time.Time) HealthScore {
	penalty := budgetPenalty(p) + schedulePenalty(p, now) + stagnationPenalty(p, now)
	score := int(math.Round(100 - penalty))
	score = max(0, min(100, score))
	return HealthScore{Score: score, Status: ClassifyHealth(score)}
}

// ClassifyHealth maps a score onto its bucket.
func ClassifyHealth(score int) HealthStatus {
	switch {
	case score >= HealthyThreshold:
		return HealthHealthy
	case score >= WarningThreshold:
		return HealthWarning
	default:
		return HealthCritical
	}
}

func budgetPenalty(p Project) float64 {
	budget := finite(p.Budget)
	actual := finite(p.ActualCost)
	if budget <= 0 || actual <= budget {
		return 0
	}
	overrun := (actual - budget) / budget
	return math.Min(maxBudgetPenalty, overrun*budgetPenaltyWeight)
}

func schedulePenalty(p Project, now time.Time) float64 {
	if p.Deadline == nil || p.Status.Closed() {
		return 0
	}
	overdue := daysBetween(*p.Deadline, now)
	if overdue <= 0 {
		return 0
	}
	return math.Min(maxSchedulePenalty, overdueBasePenalty+overduePerDayPenalty*float64(overdue))
}

func stagnationPenalty(p Project, now time.Time) float64 {
	if p.StartDate == nil || p.Deadline == nil || p.Status.Closed() {
		return 0
	}
	total := p.Deadline.Sub(*p.StartDate)
	elapsed := now.Sub(*p.StartDate)
	if total <= 0 || elapsed <= 0 {
		return 0
	}
	expected := math.Min(100, float64(elapsed)/float64(total)*100)
	gap := expected - clampProgress(p.Progress)
	if gap <= stagnationTolerance {
		return 0
	}
	return math.Min(maxStagnationPenalty, (gap-stagnationTolerance)/2)
}

func clampProgress(v float64) float64 {
	return math.Max(0, math.Min(100, finite(v)))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// daysBetween counts whole calendar days (UTC) from a to b.
func daysBetween(a, b time.Time) int {
	return int(dayOf(b).Sub(dayOf(a)).Hours() / 24)
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
