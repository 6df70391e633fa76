package telemetry

import (
	"sync"
)

// Store is a single-slot cell holding the most recent snapshot. One producer
// overwrites it periodically; any number of readers copy it out. No history
// is retained, the freshest value always wins.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStore creates an empty Store. Latest returns the zero Snapshot until the
// first Set; callers must tolerate it.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the stored snapshot. The lock is held only for the assignment.
func (s *Store) Set(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Latest returns a copy of the most recent snapshot.
func (s *Store) Latest() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
