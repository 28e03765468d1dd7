package project

import (
	"slices"
	"sync"
)

// Memo caches the most recent ApplyFilters result. Callers bump the
// generation numbers whenever the collection or favorite set is replaced;
// the cache is reused while both generations and the filter key match.
type Memo struct {
	mu     sync.Mutex
	valid  bool
	key    memoKey
	result []Project
	misses int
}

type memoKey struct {
	collection uint64
	favorites  uint64
	filters    string
}

// Apply returns the filtered, sorted view of projects, recomputing only on
// a key change. The returned slice is a copy owned by the caller.
func (m *Memo) Apply(collectionGen, favoritesGen uint64, projects []Project, f Filters, favorites FavoriteSet) []Project {
	key := memoKey{collection: collectionGen, favorites: favoritesGen, filters: f.Key()}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.valid || m.key != key {
		m.result = ApplyFilters(projects, f, favorites)
		m.key = key
		m.valid = true
		m.misses++
	}
	return slices.Clone(m.result)
}

// Invalidate drops the cached result.
func (m *Memo) Invalidate() {
	m.mu.Lock()
	m.valid = false
	m.result = nil
	m.mu.Unlock()
}

// Misses reports how many times Apply had to recompute.
func (m *Memo) Misses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.misses
}
