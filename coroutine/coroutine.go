package coroutine

import (
	"context"
	"sync"
	"time"
)

// Manager tracks concurrently-spawned long-running goroutines and
// provides bounded-timeout cancellation for all of them at once.
type Manager struct {
	shutdownOnce sync.Once
	shutdownCh   chan struct{}

	mu     sync.Mutex
	nextID uint64
	tasks  map[uint64]context.CancelFunc
	wg     sync.WaitGroup
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{
		shutdownCh: make(chan struct{}),
		tasks:      make(map[uint64]context.CancelFunc),
	}
}

// ShutdownSignal returns a channel that is closed when Shutdown is first
// called, for writer loops that select on it directly alongside their
// own queue.Get wait, matching the spec's "shared shutdown event".
func (m *Manager) ShutdownSignal() <-chan struct{} {
	return m.shutdownCh
}

// Track registers a new long-running task derived from parent (or
// context.Background if parent is nil) and returns a context the task
// should observe for cancellation, plus a done func the task MUST call
// exactly once on exit to deregister itself.
func (m *Manager) Track(parent context.Context) (ctx context.Context, done func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.tasks[id] = cancel
	m.mu.Unlock()
	m.wg.Add(1)

	var once sync.Once
	done = func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.tasks, id)
			m.mu.Unlock()
			m.wg.Done()
		})
	}
	return ctx, done
}

// Count returns the number of currently tracked, not-yet-done tasks.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Shutdown signals the shared shutdown event, cancels every tracked
// task's context, and waits up to timeout for all of them to call their
// done func. It returns the number of tasks still outstanding when the
// timeout elapsed (0 if every task finished in time). The tracked set is
// cleared regardless of outcome, satisfying the invariant that no task
// is considered running from this Manager's point of view once Shutdown
// returns.
func (m *Manager) Shutdown(timeout time.Duration) int {
	m.shutdownOnce.Do(func() { close(m.shutdownCh) })

	m.mu.Lock()
	for _, cancel := range m.tasks {
		cancel()
	}
	m.mu.Unlock()

	allDone := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(allDone)
	}()

	select {
	case <-allDone:
		return 0
	case <-time.After(timeout):
		m.mu.Lock()
		unfinished := len(m.tasks)
		m.tasks = make(map[uint64]context.CancelFunc)
		m.mu.Unlock()
		return unfinished
	}
}
