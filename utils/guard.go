package utils

import "sync"

// RunGuard gives pipeline runs mutual exclusion with skip semantics: a
// trigger that arrives while another run holds the guard is dropped, not
// queued.
type RunGuard struct {
	mu sync.Mutex
}

// TryAcquire takes the guard if it is free and reports whether it did.
func (g *RunGuard) TryAcquire() bool {
	return g.mu.TryLock()
}

// Release frees the guard for the next run.
func (g *RunGuard) Release() {
	g.mu.Unlock()
}
