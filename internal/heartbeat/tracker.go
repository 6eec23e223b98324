package heartbeat

import (
	"sync"
	"time"
)

// Tracker holds the most recently active file and the time of the last
// heartbeat that was actually sent with interval gating. A single instance
// is shared by all notification handlers.
type Tracker struct {
	mu       sync.Mutex
	active   string
	lastSent time.Time
}

// NewTracker starts the gating clock at now, so plain edits right after
// startup are suppressed until one interval has elapsed.
func NewTracker(now time.Time) *Tracker {
	return &Tracker{lastSent: now}
}

// NoteActive records path as the currently active file and reports whether
// this was a switch from a different file. The compare and the update are
// one critical section, so concurrent notifications cannot both observe a
// switch against the same previous file.
func (t *Tracker) NoteActive(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == path {
		return false
	}
	t.active = path
	return true
}

// LastSent returns the gating timestamp.
func (t *Tracker) LastSent() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSent
}

// MarkSent advances the gating timestamp. It never moves backwards, which
// keeps the timestamp monotonic when dispatches complete out of order.
func (t *Tracker) MarkSent(ts time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ts.After(t.lastSent) {
		t.lastSent = ts
	}
}
