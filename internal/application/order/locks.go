package order

import (
	"sort"
	"sync"
)

// keyedLocks serialises a critical section per entity id. The order service
// keeps one set keyed by product id, so two concurrent orders cannot both
// pass validation against the same stock, and one keyed by order id, so two
// concurrent cancellations cannot both restock the same order.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *keyedLocks) get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// acquire locks the given ids, deduplicated and in sorted order so
// overlapping holders never deadlock. The returned func releases them.
func (l *keyedLocks) acquire(ids []string) func() {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, id := range unique {
		m := l.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
