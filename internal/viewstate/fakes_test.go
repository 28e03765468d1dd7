package viewstate_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/savedview"
)

type fakeProjects struct {
	mu          sync.Mutex
	projects    []project.Project
	listErr     error
	fail        map[string]error
	gate        chan struct{}
	started     chan string
	inFlight    int
	maxInFlight int
	lists       int
}

func newFakeProjects(projects ...project.Project) *fakeProjects {
	return &fakeProjects{projects: projects, fail: map[string]error{}}
}

func (f *fakeProjects) List(ctx context.Context, _ string, _ project.ListOptions) ([]project.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.projects), nil
}

func (f *fakeProjects) enter(id string) (func(), error) {
	f.mu.Lock()
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	gate, started, err := f.gate, f.started, f.fail[id]
	f.mu.Unlock()

	if started != nil {
		started <- id
	}
	if gate != nil {
		<-gate
	}
	return func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}, err
}

func (f *fakeProjects) SetStatus(_ context.Context, _, _, id string, status project.Status) (*project.Project, error) {
	done, err := f.enter(id)
	defer done()
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.projects {
		if f.projects[i].ID == id {
			f.projects[i].Status = status
			p := f.projects[i]
			return &p, nil
		}
	}
	return nil, project.ErrProjectNotFound
}

func (f *fakeProjects) Delete(_ context.Context, _, _, id string) error {
	done, err := f.enter(id)
	defer done()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.projects, func(p project.Project) bool { return p.ID == id })
	if i < 0 {
		return project.ErrProjectNotFound
	}
	f.projects = slices.Delete(f.projects, i, i+1)
	return nil
}

func (f *fakeProjects) setListErr(err error) {
	f.mu.Lock()
	f.listErr = err
	f.mu.Unlock()
}

func (f *fakeProjects) status(id string) project.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == id {
			return p.Status
		}
	}
	return ""
}

type fakeViews struct {
	mu    sync.Mutex
	views []savedview.SavedView
	next  int
}

func (f *fakeViews) Create(_ context.Context, scope savedview.Scope, name string, filters project.Filters) (*savedview.SavedView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	view := savedview.SavedView{
		ID:       fmt.Sprintf("v%d", f.next),
		TenantID: scope.TenantID,
		UserID:   scope.UserID,
		Name:     name,
		Filters:  savedview.Capture(filters),
	}
	f.views = append(f.views, view)
	return &view, nil
}

func (f *fakeViews) Get(_ context.Context, _ savedview.Scope, id string) (*savedview.SavedView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.views {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, savedview.ErrViewNotFound
}

func (f *fakeViews) List(_ context.Context, _ savedview.Scope) ([]savedview.SavedView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.views), nil
}

func (f *fakeViews) Delete(_ context.Context, _ savedview.Scope, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.views, func(v savedview.SavedView) bool { return v.ID == id })
	if i < 0 {
		return savedview.ErrViewNotFound
	}
	f.views = slices.Delete(f.views, i, i+1)
	return nil
}

type fakeFavorites struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (f *fakeFavorites) List(_ context.Context, _, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for id, on := range f.ids {
		if on {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeFavorites) Toggle(_ context.Context, _, _, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ids == nil {
		f.ids = map[string]bool{}
	}
	f.ids[id] = !f.ids[id]
	return f.ids[id], nil
}

type fakeActivity struct {
	mu      sync.Mutex
	entries []activity.ActivityEntry
}

func (f *fakeActivity) LogActivity(_ context.Context, _ string, entry *activity.ActivityEntry) error {
	f.mu.Lock()
	f.entries = append(f.entries, *entry)
	f.mu.Unlock()
	return nil
}

var created = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// seed builds n projects p01..pNN; every third is active, the rest are in
// planning. Later ids are newer.
func seed(n int) []project.Project {
	out := make([]project.Project, n)
	for i := range out {
		status := project.StatusPlanning
		if i%3 == 0 {
			status = project.StatusActive
		}
		out[i] = project.Project{
			ID:        fmt.Sprintf("p%02d", i+1),
			Name:      fmt.Sprintf("Project %02d", i+1),
			Status:    status,
			Priority:  project.PriorityMedium,
			Currency:  "USD",
			CreatedAt: created.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}
