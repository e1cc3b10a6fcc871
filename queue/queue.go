package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Policy defines how a BoundedQueue behaves when Put is called on a full
// queue and put_timeout has elapsed.
type Policy int

const (
	// DropOldest atomically removes the single oldest queued item and
	// enqueues the new one, incrementing Dropped. If the drop races a
	// concurrent consumer and the queue is observed empty, the new item
	// is enqueued normally instead.
	DropOldest Policy = iota
	// ErrorPolicy fails Put with ErrQueueFull instead of waiting.
	ErrorPolicy
	// Block waits until space is available, a shutdown is signalled, or
	// put_timeout elapses.
	Block
)

// String returns the human-readable policy name.
func (p Policy) String() string {
	switch p {
	case DropOldest:
		return "DropOldest"
	case ErrorPolicy:
		return "Error"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

var (
	// ErrQueueFull is returned by Put/PutNowait when the queue is at
	// capacity and the configured policy is ErrorPolicy, or when a
	// Block put times out.
	ErrQueueFull = errors.New("queue: full")
	// ErrQueueEmpty names the empty-queue condition. GetNowait does not
	// return it: it reports an empty queue through its bool result.
	ErrQueueEmpty = errors.New("queue: empty")
	// ErrClosed is returned by Put when the queue has been shut down.
	ErrClosed = errors.New("queue: closed")
)

// Stats is a point-in-time snapshot of a BoundedQueue's running counters.
type Stats struct {
	Capacity    int
	Size        int
	Enqueued    uint64
	Dequeued    uint64
	Dropped     uint64
	Timeouts    uint64
	Errors      uint64
	FullEvents  uint64
	UptimeStart time.Time
}

// BoundedQueue is a fixed-capacity, multi-producer single-consumer-assumed
// queue with a configurable overflow policy. Multiple producers may call
// Put/PutNowait concurrently; BoundedQueue does not enforce a single
// consumer but the overflow-policy accounting (in particular DropOldest's
// "remove exactly the oldest element") assumes one.
type BoundedQueue[T any] struct {
	ch       chan T
	shutdown chan struct{}
	once     sync.Once

	capacity int

	mu         sync.Mutex // guards policy/timeouts for Reconfigure
	policy     Policy
	putTimeout time.Duration
	getTimeout time.Duration

	enqueued   atomic.Uint64
	dequeued   atomic.Uint64
	dropped    atomic.Uint64
	timeouts   atomic.Uint64
	errors     atomic.Uint64
	fullEvents atomic.Uint64

	uptimeStart time.Time
}

// New creates a BoundedQueue with the given fixed capacity, overflow
// policy, and default put/get timeouts.
func New[T any](capacity int, policy Policy, putTimeout, getTimeout time.Duration) *BoundedQueue[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &BoundedQueue[T]{
		ch:          make(chan T, capacity),
		shutdown:    make(chan struct{}),
		capacity:    capacity,
		policy:      policy,
		putTimeout:  putTimeout,
		getTimeout:  getTimeout,
		uptimeStart: time.Now(),
	}
}

func (q *BoundedQueue[T]) snapshotPolicy() (Policy, time.Duration, time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.policy, q.putTimeout, q.getTimeout
}

// Reconfigure updates the policy and/or timeouts. Any nil argument leaves
// the corresponding setting unchanged. Changes apply only to operations
// started after Reconfigure returns.
func (q *BoundedQueue[T]) Reconfigure(policy *Policy, put, get *time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if policy != nil {
		q.policy = *policy
	}
	if put != nil {
		q.putTimeout = *put
	}
	if get != nil {
		q.getTimeout = *get
	}
}

// Put enqueues v, applying the configured overflow policy when the queue
// is full. ctx is consulted only for Block's wait (callers that don't
// need cancellation beyond the configured timeout may pass
// context.Background()).
func (q *BoundedQueue[T]) Put(ctx context.Context, v T) error {
	policy, putTimeout, _ := q.snapshotPolicy()

	select {
	case <-q.shutdown:
		return ErrClosed
	default:
	}

	select {
	case q.ch <- v:
		q.enqueued.Add(1)
		return nil
	case <-q.shutdown:
		return ErrClosed
	default:
	}

	q.fullEvents.Add(1)

	switch policy {
	case ErrorPolicy:
		q.errors.Add(1)
		return ErrQueueFull

	case DropOldest:
		select {
		case <-q.ch: // remove exactly the oldest element; an overflow
			// discard, not a consumer dequeue, so it does not count
			// against q.dequeued.
			q.dropped.Add(1)
			select {
			case q.ch <- v:
				// The call is accounted as a drop (a record was lost to
				// make room), not as a clean enqueue.
				return nil
			default:
				// Another producer raced us for the freed slot: this
				// call's own item is the one that is lost instead.
				q.dropped.Add(1)
				return nil
			}
		default:
			// Raced a concurrent consumer that drained the queue between
			// our first non-blocking send attempt and now: the queue is
			// no longer full, so this item is enqueued normally per spec.
			select {
			case q.ch <- v:
				q.enqueued.Add(1)
				return nil
			default:
				q.dropped.Add(1)
				return nil
			}
		}

	case Block:
		fallthrough
	default:
		timer := time.NewTimer(putTimeout)
		defer timer.Stop()
		select {
		case q.ch <- v:
			q.enqueued.Add(1)
			return nil
		case <-q.shutdown:
			return ErrClosed
		case <-ctx.Done():
			q.timeouts.Add(1)
			return ctx.Err()
		case <-timer.C:
			q.timeouts.Add(1)
			return ErrQueueFull
		}
	}
}

// PutNowait enqueues v without waiting, regardless of policy; it always
// fails fast with ErrQueueFull when the queue is at capacity (useful for
// synchronous-fallback draining where blocking would defeat the purpose).
func (q *BoundedQueue[T]) PutNowait(v T) error {
	select {
	case q.ch <- v:
		q.enqueued.Add(1)
		return nil
	default:
		q.fullEvents.Add(1)
		return ErrQueueFull
	}
}

// Get dequeues an item, waiting up to get_timeout. It returns (zero,
// false) on timeout so the caller's writer loop can re-check shutdown or
// cancellation between attempts, matching the spec's "Returns None on
// timeout" contract.
func (q *BoundedQueue[T]) Get(ctx context.Context) (T, bool) {
	_, _, getTimeout := q.snapshotPolicy()
	timer := time.NewTimer(getTimeout)
	defer timer.Stop()
	select {
	case v := <-q.ch:
		q.dequeued.Add(1)
		return v, true
	case <-ctx.Done():
		var zero T
		return zero, false
	case <-timer.C:
		var zero T
		return zero, false
	}
}

// GetNowait dequeues an item if one is immediately available.
func (q *BoundedQueue[T]) GetNowait() (T, bool) {
	select {
	case v := <-q.ch:
		q.dequeued.Add(1)
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Size returns the current number of queued items.
func (q *BoundedQueue[T]) Size() int { return len(q.ch) }

// IsEmpty reports whether the queue currently holds no items.
func (q *BoundedQueue[T]) IsEmpty() bool { return len(q.ch) == 0 }

// IsFull reports whether the queue is currently at capacity.
func (q *BoundedQueue[T]) IsFull() bool { return len(q.ch) >= q.capacity }

// Clear drains all currently-queued items without processing them. It
// does not increment Dropped: callers that need accounted drops should
// drain via GetNowait themselves and count explicitly.
func (q *BoundedQueue[T]) Clear() {
	for {
		select {
		case <-q.ch:
		default:
			return
		}
	}
}

// Shutdown signals Block-policy waiters to wake immediately with
// ErrClosed. Safe to call more than once.
func (q *BoundedQueue[T]) Shutdown() {
	q.once.Do(func() { close(q.shutdown) })
}

// Stats returns a snapshot of the queue's running counters.
func (q *BoundedQueue[T]) Stats() Stats {
	return Stats{
		Capacity:    q.capacity,
		Size:        q.Size(),
		Enqueued:    q.enqueued.Load(),
		Dequeued:    q.dequeued.Load(),
		Dropped:     q.dropped.Load(),
		Timeouts:    q.timeouts.Load(),
		Errors:      q.errors.Load(),
		FullEvents:  q.fullEvents.Load(),
		UptimeStart: q.uptimeStart,
	}
}
