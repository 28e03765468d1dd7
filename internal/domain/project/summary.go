package project

import (
	"sort"
	"time"
)

// CurrencyTotal sums money fields for one currency.
type CurrencyTotal struct {
	Currency   string  `json:"currency"`
	Budget     float64 `json:"budget"`
	ActualCost float64 `json:"actual_cost"`
	Variance   float64 `json:"variance"`
}

// Summary aggregates a set of projects for the dashboard header.
type Summary struct {
	Total           int                  `json:"total"`
	ByStatus        map[Status]int       `json:"by_status"`
	ByHealth        map[HealthStatus]int `json:"by_health"`
	Overdue         int                  `json:"overdue"`
	AverageProgress float64              `json:"average_progress"`
	Totals          []CurrencyTotal      `json:"totals"`
}

// Summarize counts projects per status and health bucket, averages
// progress and totals money per currency. Amounts in different currencies
// are never added together.
func Summarize(projects []Project, now time.Time) Summary {
	s := Summary{
		Total:    len(projects),
		ByStatus: make(map[Status]int),
		ByHealth: make(map[HealthStatus]int),
	}
	totals := make(map[string]*CurrencyTotal)
	var progress float64

	for _, p := range projects {
		s.ByStatus[p.Status]++
		s.ByHealth[CalculateHealthScore(p, now).Status]++
		if p.Deadline != nil && !p.Status.Closed() && daysBetween(*p.Deadline, now) > 0 {
			s.Overdue++
		}
		progress += clampProgress(p.Progress)

		t, ok := totals[p.Currency]
		if !ok {
			t = &CurrencyTotal{Currency: p.Currency}
			totals[p.Currency] = t
		}
		t.Budget += finite(p.Budget)
		t.ActualCost += finite(p.ActualCost)
	}

	if len(projects) > 0 {
		s.AverageProgress = progress / float64(len(projects))
	}
	for _, t := range totals {
		t.Variance = t.Budget - t.ActualCost
		s.Totals = append(s.Totals, *t)
	}
	sort.Slice(s.Totals, func(i, j int) bool { return s.Totals[i].Currency < s.Totals[j].Currency })
	return s
}

// KanbanColumn is one status lane of the board.
type KanbanColumn struct {
	Status   Status    `json:"status"`
	Projects []Project `json:"projects"`
}

// KanbanColumns groups projects into one lane per known status, in board
// order, keeping each lane in input order. Projects with an unrecognized
// status get trailing lanes in first-seen order.
func KanbanColumns(projects []Project) []KanbanColumn {
	columns := make([]KanbanColumn, 0, len(statusOrder))
	index := make(map[Status]int, len(statusOrder))
	for _, s := range statusOrder {
		index[s] = len(columns)
		columns = append(columns, KanbanColumn{Status: s, Projects: []Project{}})
	}
	for _, p := range projects {
		i, ok := index[p.Status]
		if !ok {
			i = len(columns)
			index[p.Status] = i
			columns = append(columns, KanbanColumn{Status: p.Status, Projects: []Project{}})
		}
		columns[i].Projects = append(columns[i].Projects, p)
	}
	return columns
}
