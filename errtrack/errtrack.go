package errtrack

import (
	"fmt"
	"sync"
	"time"
)

// HealthyThreshold is the total-error count at or above which a Tracker
// reports itself unhealthy.
const HealthyThreshold = 100

// Callback is invoked, in registration order, each time Record is
// called. A callback that panics is caught and counted rather than
// allowed to take down the producer calling Record.
type Callback func(kind string, err error)

// Tracker counts errors by kind and remembers the most recent one.
type Tracker struct {
	mu        sync.Mutex
	counts    map[string]uint64
	lastKind  string
	lastErr   error
	lastAt    time.Time
	total     uint64
	callbacks []Callback
	cbErrors  uint64
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{counts: make(map[string]uint64)}
}

// Record registers an error under kind (e.g. "write", "rotate", "flush")
// and invokes every registered callback in order.
func (t *Tracker) Record(kind string, err error) {
	t.mu.Lock()
	t.counts[kind]++
	t.total++
	t.lastKind = kind
	t.lastErr = err
	t.lastAt = time.Now()
	callbacks := append([]Callback(nil), t.callbacks...)
	t.mu.Unlock()

	for _, cb := range callbacks {
		t.runCallback(cb, kind, err)
	}
}

func (t *Tracker) runCallback(cb Callback, kind string, err error) {
	defer func() {
		if recover() != nil {
			t.mu.Lock()
			t.cbErrors++
			t.mu.Unlock()
		}
	}()
	cb(kind, err)
}

// AddCallback registers cb to run on every future Record call.
func (t *Tracker) AddCallback(cb Callback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callbacks = append(t.callbacks, cb)
}

// RemoveCallback removes the first occurrence of cb, compared by the
// code pointer that fmt's %p verb prints for a function value. Two
// closures created from the same function literal share that pointer,
// so they compare equal even when they capture different variables.
func (t *Tracker) RemoveCallback(cb Callback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.callbacks {
		if fmt.Sprintf("%p", t.callbacks[i]) == fmt.Sprintf("%p", cb) {
			t.callbacks = append(t.callbacks[:i], t.callbacks[i+1:]...)
			return
		}
	}
}

// IsHealthy reports whether total recorded errors remain below
// HealthyThreshold.
func (t *Tracker) IsHealthy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total < HealthyThreshold
}

// CallbackErrors returns the number of callback panics caught so far.
func (t *Tracker) CallbackErrors() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cbErrors
}

// Total returns the number of errors recorded across all kinds.
func (t *Tracker) Total() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// CountsByKind returns a snapshot copy of the per-kind counters.
func (t *Tracker) CountsByKind() map[string]uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]uint64, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Last returns the most recently recorded error, its kind, and when it was
// recorded. ok is false if no error has ever been recorded.
func (t *Tracker) Last() (kind string, err error, at time.Time, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastErr == nil {
		return "", nil, time.Time{}, false
	}
	return t.lastKind, t.lastErr, t.lastAt, true
}

// Reset clears all counters and the remembered last error.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts = make(map[string]uint64)
	t.total = 0
	t.cbErrors = 0
	t.lastKind = ""
	t.lastErr = nil
	t.lastAt = time.Time{}
}
