// internal/httpserver/locks.go
//
// Striped per-session mutexes for serializing round actions.

package httpserver

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// stripedLocks serializes work per session without keeping one mutex per
// session alive forever. Distinct sessions may share a stripe.
type stripedLocks struct {
	stripes [lockStripes]sync.Mutex
}

func newStripedLocks() *stripedLocks { return &stripedLocks{} }

// lock acquires the stripe for key and returns its unlock func.
func (l *stripedLocks) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	mu := &l.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
