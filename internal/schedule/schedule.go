// Package schedule provides cancellable delayed actions for single-threaded callers.
package schedule

import (
	"sort"
	"time"
)

// Handle identifies a scheduled action. The zero Handle is never issued.
type Handle uint64

// Scheduler runs fn after d unless the action is cancelled first.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
	Cancel(h Handle)
}

// Pending describes an action that has been scheduled but not run.
type Pending struct {
	Handle Handle
	Delay  time.Duration
}

type entry struct {
	handle Handle
	due    time.Duration
	fn     func()
}

// Queue is a Scheduler driven by its owner. Tests move its virtual clock with
// Advance; an event loop fires actions by handle when its own timers wake up.
// Queue is not safe for concurrent use.
type Queue struct {
	now     time.Duration
	next    Handle
	entries map[Handle]*entry
	fresh   []Pending
}

// NewQueue returns an empty queue at virtual time 0.
func NewQueue() *Queue {
	return &Queue{entries: map[Handle]*entry{}}
}

// Schedule implements Scheduler.
func (q *Queue) Schedule(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	q.next++
	h := q.next
	q.entries[h] = &entry{handle: h, due: q.now + d, fn: fn}
	q.fresh = append(q.fresh, Pending{Handle: h, Delay: d})
	return h
}

// Cancel implements Scheduler. Unknown or already-run handles are ignored.
func (q *Queue) Cancel(h Handle) {
	delete(q.entries, h)
}

// Fire runs the action for h now if it is still pending.
func (q *Queue) Fire(h Handle) bool {
	e, ok := q.entries[h]
	if !ok {
		return false
	}
	delete(q.entries, h)
	if e.due > q.now {
		q.now = e.due
	}
	e.fn()
	return true
}

// Advance moves the virtual clock forward by d and runs every action that becomes
// due, in due order. Actions scheduled while advancing run too if they fall due
// inside the window.
func (q *Queue) Advance(d time.Duration) {
	target := q.now + d
	for {
		e := q.earliest()
		if e == nil || e.due > target {
			break
		}
		delete(q.entries, e.handle)
		q.now = e.due
		e.fn()
	}
	q.now = target
}

// TakeScheduled returns actions scheduled since the last call and forgets them.
// Entries may already have been cancelled; firing those is a no-op.
func (q *Queue) TakeScheduled() []Pending {
	out := q.fresh
	q.fresh = nil
	return out
}

// Pending reports whether h is still waiting to run.
func (q *Queue) Pending(h Handle) bool {
	_, ok := q.entries[h]
	return ok
}

// Len returns the number of pending actions.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Now returns the virtual clock.
func (q *Queue) Now() time.Duration {
	return q.now
}

func (q *Queue) earliest() *entry {
	if len(q.entries) == 0 {
		return nil
	}
	all := make([]*entry, 0, len(q.entries))
	for _, e := range q.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].due == all[j].due {
			return all[i].handle < all[j].handle
		}
		return all[i].due < all[j].due
	})
	return all[0]
}
