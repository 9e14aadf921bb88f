// Package changes keeps the time of the latest recipe mutation, which clients
// poll to decide whether to refetch.
package changes

import (
	"sync/atomic"
	"time"
)

// Tracker is safe for concurrent use. The stored time never moves backwards.
type Tracker struct {
	last atomic.Int64 // unix nanoseconds
	now  func() time.Time
}

// NewTracker starts the tracker at the current time, like a freshly started
// process that has not seen any change yet.
func NewTracker() *Tracker {
	return newTracker(time.Now)
}

func newTracker(now func() time.Time) *Tracker {
	t := &Tracker{now: now}
	t.last.Store(now().UnixNano())
	return t
}

// Mark records a change at the current time.
func (t *Tracker) Mark() {
	t.MarkAt(t.now())
}

// MarkAt records a change at ts unless a later change is already recorded.
func (t *Tracker) MarkAt(ts time.Time) {
	n := ts.UnixNano()
	for {
		cur := t.last.Load()
		if n <= cur {
			return
		}
		if t.last.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Last returns the time of the latest recorded change.
func (t *Tracker) Last() time.Time {
	return time.Unix(0, t.last.Load())
}
