package scheduler

import "sync"

// keyedLocks tracks which locale/placement pairs have a clear in flight.
// Acquisition never blocks: an overlapping tick for the same pair is
// skipped, while ticks for different pairs proceed independently.
type keyedLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{held: make(map[string]struct{})}
}

// TryAcquire claims the key, returning false when it is already held.
func (l *keyedLocks) TryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return false
	}
	l.held[key] = struct{}{}
	return true
}

// Release frees the key for the next tick.
func (l *keyedLocks) Release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
}
