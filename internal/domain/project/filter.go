package project

import (
	"strconv"
	"strings"
	"time"
)

// MaxSearchLength bounds the search term, in runes.
const MaxSearchLength = 200

type statusFilterKind uint8

const (
	statusAll statusFilterKind = iota
	statusFavorites
	statusExact
)

// StatusFilter selects projects by status. It is one of All, Favorites (the
// caller's favorite set, ignoring status) or an exact status. The zero value
// is All.
type StatusFilter struct {
	kind   statusFilterKind
	status Status
}

// AnyStatus matches every status.
func AnyStatus() StatusFilter { return StatusFilter{} }

// FavoritesOnly matches projects in the favorite set.
func FavoritesOnly() StatusFilter { return StatusFilter{kind: statusFavorites} }

// StatusIs matches projects whose status equals s.
func StatusIs(s Status) StatusFilter { return StatusFilter{kind: statusExact, status: s} }

// IsAll reports whether the filter is a no-op.
func (f StatusFilter) IsAll() bool { return f.kind == statusAll }

// IsFavorites reports whether the filter selects the favorite set.
func (f StatusFilter) IsFavorites() bool { return f.kind == statusFavorites }

// Status returns the exact status, if the filter is one.
func (f StatusFilter) Status() (Status, bool) {
	return f.status, f.kind == statusExact
}

func (f StatusFilter) String() string {
	switch f.kind {
	case statusFavorites:
		return "favorites"
	case statusExact:
		return string(f.status)
	default:
		return "all"
	}
}

// ParseStatusFilter accepts "all" (or empty), "favorites" or a status name.
func ParseStatusFilter(v string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all":
		return AnyStatus(), nil
	case "favorites":
		return FavoritesOnly(), nil
	}
	s, err := ParseStatus(v)
	if err != nil {
		return StatusFilter{}, err
	}
	return StatusIs(s), nil
}

func (f StatusFilter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *StatusFilter) UnmarshalText(text []byte) error {
	parsed, err := ParseStatusFilter(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// PriorityFilter selects projects by exact priority. The zero value matches
// every priority.
type PriorityFilter struct {
	priority Priority
}

// AnyPriority matches every priority.
func AnyPriority() PriorityFilter { return PriorityFilter{} }

// PriorityIs matches projects whose priority equals p.
func PriorityIs(p Priority) PriorityFilter { return PriorityFilter{priority: p} }

// IsAll reports whether the filter is a no-op.
func (f PriorityFilter) IsAll() bool { return f.priority == "" }

// Priority returns the exact priority, if the filter is one.
func (f PriorityFilter) Priority() (Priority, bool) {
	return f.priority, f.priority != ""
}

func (f PriorityFilter) String() string {
	if f.priority == "" {
		return "all"
	}
	return string(f.priority)
}

// ParsePriorityFilter accepts "all" (or empty) or a priority name.
func ParsePriorityFilter(v string) (PriorityFilter, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all":
		return AnyPriority(), nil
	}
	p, err := ParsePriority(v)
	if err != nil {
		return PriorityFilter{}, err
	}
	return PriorityIs(p), nil
}

func (f PriorityFilter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *PriorityFilter) UnmarshalText(text []byte) error {
	parsed, err := ParsePriorityFilter(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// DateRange bounds a project's start date, inclusive on both ends and
// compared by calendar day. A nil bound is open.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsZero reports whether both bounds are open.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether t lies in the range. A missing date never lies
// in a bounded range.
func (r DateRange) Contains(t *time.Time) bool {
	if r.IsZero() {
		return true
	}
	if t == nil {
		return false
	}
	day := dayOf(*t)
	if r.From != nil && day.Before(dayOf(*r.From)) {
		return false
	}
	if r.To != nil && day.After(dayOf(*r.To)) {
		return false
	}
	return true
}

// Filters is the complete filter and sort state of a project view.
type Filters struct {
	Search       string         `json:"search,omitempty"`
	Status       StatusFilter   `json:"status"`
	Priority     PriorityFilter `json:"priority"`
	Tags         []string       `json:"tags,omitempty"`
	DateRange    DateRange      `json:"date_range"`
	ShowArchived bool           `json:"show_archived,omitempty"`
	SortBy       SortKey        `json:"sort_by"`
	SortOrder    SortOrder      `json:"sort_order"`
}

// DefaultFilters returns the "show everything, newest first" state.
func DefaultFilters() Filters {
	return Filters{
		Status:    AnyStatus(),
		Priority:  AnyPriority(),
		SortBy:    SortCreatedAt,
		SortOrder: SortDesc,
	}
}

// Normalize truncates the search term, canonicalizes tags and fills in the
// default sort.
func (f Filters) Normalize() Filters {
	f.Search = TruncateSearch(f.Search)
	f.Tags = canonicalTags(f.Tags)
	if f.SortBy == "" {
		f.SortBy = SortCreatedAt
	}
	if f.SortOrder == "" {
		f.SortOrder = SortDesc
	}
	return f
}

// Key is a canonical encoding of f: two filter states that select and order
// projects identically have the same key.
func (f Filters) Key() string {
	f = f.Normalize()
	var b strings.Builder
	b.WriteString(strconv.Quote(strings.ToLower(f.Search)))
	b.WriteString("|" + f.Status.String())
	b.WriteString("|" + f.Priority.String())
	b.WriteString("|" + strings.Join(f.Tags, "\x1f"))
	b.WriteString("|" + dayKey(f.DateRange.From) + ".." + dayKey(f.DateRange.To))
	b.WriteString("|" + strconv.FormatBool(f.ShowArchived))
	b.WriteString("|" + string(f.SortBy) + "_" + string(f.SortOrder))
	return b.String()
}

// Active reports whether any predicate stage would drop projects.
func (f Filters) Active() bool {
	f = f.Normalize()
	return f.Search != "" || !f.Status.IsAll() || !f.Priority.IsAll() ||
		len(f.Tags) > 0 || !f.DateRange.IsZero() || f.ShowArchived
}

// TruncateSearch trims s and cuts it to MaxSearchLength runes.
func TruncateSearch(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > MaxSearchLength {
		return strings.TrimSpace(string(runes[:MaxSearchLength]))
	}
	return s
}

// FavoriteSet is the caller's set of favorite project ids.
type FavoriteSet map[string]struct{}

// NewFavoriteSet builds a set from ids.
func NewFavoriteSet(ids ...string) FavoriteSet {
	set := make(FavoriteSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is a favorite.
func (s FavoriteSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

type predicate func(Project) bool

// ApplyFilters runs the predicate stages (archived, status, priority, tags,
// date range, search) left to right, keeping projects that pass all of
// them, then stable-sorts the survivors. The input slice is not modified.
func ApplyFilters(projects []Project, f Filters, favorites FavoriteSet) []Project {
	f = f.Normalize()
	stages := buildStages(f, favorites)

	out := make([]Project, 0, len(projects))
next:
	for _, p := range projects {
		for _, keep := range stages {
			if !keep(p) {
				continue next
			}
		}
		out = append(out, p)
	}
	SortProjects(out, f.SortBy, f.SortOrder)
	return out
}

func buildStages(f Filters, favorites FavoriteSet) []predicate {
	var stages []predicate

	if !f.ShowArchived {
		stages = append(stages, func(p Project) bool { return !p.Archived() })
	}

	switch {
	case f.Status.IsFavorites():
		stages = append(stages, func(p Project) bool { return favorites.Contains(p.ID) })
	case !f.Status.IsAll():
		want, _ := f.Status.Status()
		stages = append(stages, func(p Project) bool { return p.Status == want })
	}

	if want, ok := f.Priority.Priority(); ok {
		stages = append(stages, func(p Project) bool { return p.Priority == want })
	}

	if len(f.Tags) > 0 {
		selected := make(map[string]struct{}, len(f.Tags))
		for _, tag := range f.Tags {
			selected[tag] = struct{}{}
		}
		stages = append(stages, func(p Project) bool {
			for _, tag := range p.Tags {
				if _, ok := selected[tag]; ok {
					return true
				}
			}
			return false
		})
	}

	if !f.DateRange.IsZero() {
		r := f.DateRange
		stages = append(stages, func(p Project) bool { return r.Contains(p.StartDate) })
	}

	if f.Search != "" {
		term := strings.ToLower(f.Search)
		stages = append(stages, func(p Project) bool { return matchesSearch(p, term) })
	}

	return stages
}

func matchesSearch(p Project, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if p.Client == nil {
		return false
	}
	return strings.Contains(strings.ToLower(p.Client.Name), term) ||
		strings.Contains(strings.ToLower(p.Client.CompanyName), term)
}

func canonicalTags(tags []string) []string {
	out, err := NormalizeTags(tags)
	if err != nil {
		// Over-long tags can't match any stored tag; keep them so the
		// filter still selects nothing rather than everything.
		out = make([]string, 0, len(tags))
		for _, tag := range tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				out = append(out, tag)
			}
		}
	}
	return out
}

func dayKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return dayOf(*t).Format(time.DateOnly)
}
