package project

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey names the project field a view is ordered by.
type SortKey string

const (
	SortCreatedAt SortKey = "created_at"
	SortName      SortKey = "name"
	SortStatus    SortKey = "status"
	SortPriority  SortKey = "priority"
	SortBudget    SortKey = "budget"
	SortDeadline  SortKey = "deadline"
	SortProgress  SortKey = "progress"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

var sortKeys = []SortKey{
	SortCreatedAt, SortName, SortStatus, SortPriority, SortBudget, SortDeadline, SortProgress,
}

// SortKeys lists every supported sort key.
func SortKeys() []SortKey {
	return slices.Clone(sortKeys)
}

// ParseSortKey parses a sort key name.
func ParseSortKey(v string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(v)))
	if !slices.Contains(sortKeys, k) {
		return "", fmt.Errorf("%w: unknown sort key %q", ErrInvalidInput, v)
	}
	return k, nil
}

// ParseSortOrder parses "asc" or "desc".
func ParseSortOrder(v string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(v))); o {
	case SortAsc, SortDesc:
		return o, nil
	}
	return "", fmt.Errorf("%w: unknown sort order %q", ErrInvalidInput, v)
}

// ParseSort accepts a bare key ("deadline") or a combined token such as
// "priority_desc". A bare key sorts descending.
func ParseSort(token string) (SortKey, SortOrder, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if i := strings.LastIndex(token, "_"); i > 0 {
		if order, err := ParseSortOrder(token[i+1:]); err == nil {
			key, err := ParseSortKey(token[:i])
			if err != nil {
				return "", "", err
			}
			return key, order, nil
		}
	}
	key, err := ParseSortKey(token)
	if err != nil {
		return "", "", err
	}
	return key, SortDesc, nil
}

// SortProjects orders projects in place. The sort is stable: projects with
// equal keys keep their input order in both directions. Projects without a
// deadline always come last when sorting by deadline.
func SortProjects(projects []Project, key SortKey, order SortOrder) {
	compare := comparator(key)
	desc := order == SortDesc

	slices.SortStableFunc(projects, func(a, b Project) int {
		if key == SortDeadline {
			switch {
			case a.Deadline == nil && b.Deadline == nil:
				return 0
			case a.Deadline == nil:
				return 1
			case b.Deadline == nil:
				return -1
			}
		}
		c := compare(a, b)
		if desc {
			return -c
		}
		return c
	})
}

func comparator(key SortKey) func(a, b Project) int {
	switch key {
	case SortName:
		return func(a, b Project) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortStatus:
		return func(a, b Project) int { return cmp.Compare(a.Status.Ordinal(), b.Status.Ordinal()) }
	case SortPriority:
		return func(a, b Project) int { return cmp.Compare(a.Priority.Ordinal(), b.Priority.Ordinal()) }
	case SortBudget:
		return func(a, b Project) int { return cmp.Compare(finite(a.Budget), finite(b.Budget)) }
	case SortProgress:
		return func(a, b Project) int { return cmp.Compare(clampProgress(a.Progress), clampProgress(b.Progress)) }
	case SortDeadline:
		return func(a, b Project) int { return a.Deadline.Compare(*b.Deadline) }
	default:
		return func(a, b Project) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
