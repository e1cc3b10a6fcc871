package shutdown

import (
	"context"
	"sync"
	"time"
)

// Phase is one of the ShutdownManager's one-way states.
type Phase int

const (
	Running Phase = iota
	Flushing
	Cleaning
	Done
)

// String returns the human-readable phase name.
func (p Phase) String() string {
	switch p {
	case Running:
		return "RUNNING"
	case Flushing:
		return "FLUSHING"
	case Cleaning:
		return "CLEANING"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Result reports what happened during a Shutdown call.
type Result struct {
	FlushTimedOut   bool
	CleanupTimedOut bool
	// DroppedOnTimeout is the count the drain callback returned as still
	// unflushed. It is recorded only when drain returns before the flush
	// timeout is observed; when FlushTimedOut is set it is 0 and the
	// items left behind are not counted.
	DroppedOnTimeout int
	FlushErr         error
	CleanupErr       error
}

// Manager drives a single handler's RUNNING -> FLUSHING -> CLEANING ->
// DONE transition exactly once.
type Manager struct {
	mu    sync.Mutex
	phase Phase
	once  sync.Once
}

// New returns a Manager starting in the RUNNING phase.
func New() *Manager {
	return &Manager{phase: Running}
}

// Phase returns the manager's current phase.
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

func (m *Manager) setPhase(p Phase) {
	m.mu.Lock()
	m.phase = p
	m.mu.Unlock()
}

// Shutdown runs the two-phase termination sequence. drain is called
// first (bounded by flushTimeout) to synchronously write any remaining
// queued items to the sink; it returns how many items it could not
// flush before returning (0 on a clean drain) and reports an error from
// the drain I/O, if any. cleanup is called second (bounded by
// cleanupTimeout) to release resources (close file handles, cancel the
// writer via a coroutine.Manager, etc). Shutdown only runs once; later
// calls do nothing and return a zero Result immediately.
func (m *Manager) Shutdown(flushTimeout, cleanupTimeout time.Duration, drain func(ctx context.Context) (int, error), cleanup func(ctx context.Context) error) Result {
	var result Result
	m.once.Do(func() {
		m.setPhase(Flushing)
		m.runFlush(flushTimeout, drain, &result)

		m.setPhase(Cleaning)
		m.runCleanup(cleanupTimeout, cleanup, &result)

		m.setPhase(Done)
	})
	return result
}

func (m *Manager) runFlush(timeout time.Duration, drain func(ctx context.Context) (int, error), result *Result) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	var dropped int
	var err error
	go func() {
		dropped, err = drain(ctx)
		close(done)
	}()

	select {
	case <-done:
		result.DroppedOnTimeout = dropped
		result.FlushErr = err
	case <-ctx.Done():
		result.FlushTimedOut = true
	}
}

func (m *Manager) runCleanup(timeout time.Duration, cleanup func(ctx context.Context) error, result *Result) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	var err error
	go func() {
		err = cleanup(ctx)
		close(done)
	}()

	select {
	case <-done:
		result.CleanupErr = err
	case <-ctx.Done():
		result.CleanupTimedOut = true
	}
}

// ForceSync skips the async flush/cleanup timeouts entirely: it runs
// drain and cleanup inline, synchronously, and jumps straight to DONE.
// Intended for the synchronous close() API and destructor-equivalent
// paths where there is no async runtime available to bound waits on.
func (m *Manager) ForceSync(drain func(), cleanup func()) {
	m.once.Do(func() {
		m.setPhase(Flushing)
		if drain != nil {
			drain()
		}
		m.setPhase(Cleaning)
		if cleanup != nil {
			cleanup()
		}
		m.setPhase(Done)
	})
}
