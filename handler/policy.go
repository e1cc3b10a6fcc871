package handler

import (
	"time"

	"github.com/hydra-logger/hydra-logger/errtrack"
	"github.com/hydra-logger/hydra-logger/queue"
)

// OverflowPolicy defines how a handler's BoundedQueue behaves when full.
// It is a thin re-export of queue.Policy so callers configuring a handler
// never need to import the queue package directly.
type OverflowPolicy = queue.Policy

const (
	// DropOldest evicts the single oldest queued entry to make room.
	DropOldest = queue.DropOldest
	// ErrorPolicy fails the put with queue.ErrQueueFull.
	ErrorPolicy = queue.ErrorPolicy
	// Block waits for space, the handler's shutdown, or put_timeout.
	Block = queue.Block
)

// DefaultOverflowPolicy is the policy new handlers use when none is
// configured, matching the spec's documented default.
const DefaultOverflowPolicy = DropOldest

// Snapshot is a point-in-time view of a handler's observable state (the
// spec's HandlerStats): queue counters, sync-fallback count, per-kind
// error counts, current queue occupancy, writer liveness and uptime.
type Snapshot struct {
	Queue         queue.Stats
	SyncFallbacks uint64
	ErrorsByKind  map[string]uint64
	QueueSize     int
	WriterAlive   bool
	Uptime        time.Duration
}

// BuildSnapshot assembles a Snapshot from its constituent parts. Handlers
// call this from their Stats() method so the assembly logic lives in one
// place instead of being duplicated per handler type.
func BuildSnapshot(qs queue.Stats, syncFallbacks uint64, errs *errtrack.Tracker, queueSize int, writerAlive bool) Snapshot {
	return Snapshot{
		Queue:         qs,
		SyncFallbacks: syncFallbacks,
		ErrorsByKind:  errs.CountsByKind(),
		QueueSize:     queueSize,
		WriterAlive:   writerAlive,
		Uptime:        time.Since(qs.UptimeStart),
	}
}

// NewStoppedTimer returns a time.Timer that is already stopped and whose
// channel is drained, ready for Reset to be called on the first use —
// the same reusable-timer idiom the teacher's overflow Block path relies
// on to avoid allocating a fresh timer per call.
func NewStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return t
}
