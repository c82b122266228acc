package pipeline

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
)

// Feed holds the currently loaded snapshot. Every fetch takes a sequence
// number from Begin before it starts; Commit only accepts a snapshot whose
// sequence is newer than the one already held, so the last issued request
// wins regardless of completion order.
type Feed struct {
	issued atomic.Uint64

	mu     sync.RWMutex
	latest domain.Snapshot
	has    bool
}

// NewFeed creates an empty Feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Begin issues the next sequence number.
func (f *Feed) Begin() uint64 {
	return f.issued.Add(1)
}

// Commit replaces the held snapshot if snap is newer. It reports whether the
// snapshot was accepted.
func (f *Feed) Commit(snap domain.Snapshot) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.has && snap.Seq <= f.latest.Seq {
		return false
	}
	f.latest = snap
	f.has = true
	return true
}

// Latest returns a copy of the held snapshot.
func (f *Feed) Latest() (domain.Snapshot, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.has {
		return domain.Snapshot{}, false
	}
	snap := f.latest
	snap.Alerts = slices.Clone(snap.Alerts)
	return snap, true
}
