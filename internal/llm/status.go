package llm

import (
	"context"
	"sync"
	"time"
)

// Status records the last known reachability of one backend. It is written
// by the startup probe and the reconnect endpoint only. Request handling
// never consults it: every request attempts its backend call and reports the
// per-call error, so a stale snapshot can not reject live traffic.
type Status struct {
	mu        sync.RWMutex
	available bool
	err       string
	checkedAt time.Time
}

// Snapshot is a point-in-time copy of a backend's reachability.
type Snapshot struct {
	Available bool
	Err       string
	CheckedAt time.Time
}

// Update runs the backend's probe and records the outcome.
func (s *Status) Update(ctx context.Context, b Backend) bool {
	err := b.Probe(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkedAt = time.Now()
	if err != nil {
		s.available = false
		s.err = err.Error()
		return false
	}
	s.available = true
	s.err = ""
	return true
}

// MarkUnavailable records a failure reason without probing, for backends
// that could not even be constructed (missing credentials).
func (s *Status) MarkUnavailable(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = false
	s.err = reason
	s.checkedAt = time.Now()
}

// Load returns the current snapshot.
func (s *Status) Load() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Available: s.available, Err: s.err, CheckedAt: s.checkedAt}
}
