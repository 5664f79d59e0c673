package eventservice

import (
	"sync"

	"github.com/google/uuid"
)

// eventLocks serializes work per event id within one process. Entries are
// reference counted and removed once the last holder unlocks.
type eventLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*eventLock
}

type eventLock struct {
	sync.Mutex
	refs int
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[uuid.UUID]*eventLock)}
}

// lock blocks until the caller holds id and returns the matching unlock.
func (l *eventLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	el, ok := l.locks[id]
	if !ok {
		el = &eventLock{}
		l.locks[id] = el
	}
	el.refs++
	l.mu.Unlock()

	el.Lock()
	return func() {
		el.Unlock()
		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *eventLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
