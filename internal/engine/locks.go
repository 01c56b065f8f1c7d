package engine

import (
	"slices"
	"sync"

	"github.com/roach88/critterkeep/internal/domain"
)

// lockTable hands out one mutex per account. Entries are never removed; the
// table grows with the number of accounts the process has touched.
type lockTable struct {
	mu    sync.Mutex
	locks map[domain.AccountID]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: map[domain.AccountID]*sync.Mutex{}}
}

func (t *lockTable) get(id domain.AccountID) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	return m
}

// lock acquires the mutexes of ids in lexicographic order, skipping
// duplicates and empty ids, and returns the release func.
func (t *lockTable) lock(ids ...domain.AccountID) func() {
	sorted := slices.DeleteFunc(slices.Clone(ids), func(id domain.AccountID) bool { return id == "" })
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		m := t.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
