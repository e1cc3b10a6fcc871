package compositehandler

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hydra-logger/hydra-logger/core"
	"github.com/hydra-logger/hydra-logger/errtrack"
	"github.com/hydra-logger/hydra-logger/handler"
)

// Config configures a CompositeHandler.
type Config struct {
	Children []handler.Handler
	Parallel bool
	FailFast bool
}

// childCounters holds per-child success/error counts, keyed by index
// since children needn't expose a stable name.
type childCounters struct {
	success atomic.Uint64
	errors  atomic.Uint64
}

// CompositeHandler fans an entry out to an ordered list of child
// handlers (the spec's CompositeHandler).
type CompositeHandler struct {
	children []handler.Handler
	parallel bool
	failFast bool

	counters []childCounters
	errs     *errtrack.Tracker
}

// New returns a CompositeHandler over cfg.Children.
func New(cfg Config) *CompositeHandler {
	return &CompositeHandler{
		children: cfg.Children,
		parallel: cfg.Parallel,
		failFast: cfg.FailFast,
		counters: make([]childCounters, len(cfg.Children)),
		errs:     errtrack.NewTracker(),
	}
}

// copyEntry returns an independent Entry for a child, since every child
// owns its own pooled Entry lifecycle and must not race with its
// siblings over a single shared pointer. The Fields are copied into the
// copy's own pooled slice, so no backing array is shared with the
// caller.
func copyEntry(src *core.Entry) *core.Entry {
	dst := core.GetEntry()
	dst.Time = src.Time
	dst.Level = src.Level
	dst.Message = src.Message
	dst.Caller = src.Caller
	dst.TraceID = src.TraceID
	dst.SpanID = src.SpanID
	dst.CorrelationID = src.CorrelationID
	if len(src.Fields) > 0 {
		dst.Fields = append(dst.Fields, src.Fields...)
	}
	return dst
}

// Handle implements handler.Handler. The Entry passed in remains owned
// by the caller; Handle never returns it to the pool, since it hands
// each child an independent copy instead of the original.
func (h *CompositeHandler) Handle(entry *core.Entry) error {
	if h.parallel {
		return h.handleParallel(entry)
	}
	return h.handleSequential(entry)
}

// handleParallel launches emission to every child concurrently via
// errgroup and waits for all to finish, regardless of fail_fast: in
// parallel mode fail_fast only affects sequential mode's early-abort
// behavior, never parallel mode's fan-out.
func (h *CompositeHandler) handleParallel(entry *core.Entry) error {
	var g errgroup.Group
	for i, child := range h.children {
		i, child := i, child
		g.Go(func() error {
			err := child.Handle(copyEntry(entry))
			if err != nil {
				h.counters[i].errors.Add(1)
				h.errs.Record("handler_emit", err)
			} else {
				h.counters[i].success.Add(1)
			}
			return nil // errors are isolated, never propagated
		})
	}
	_ = g.Wait()
	return nil
}

// handleSequential emits to each child in order; on a child error it
// continues unless fail_fast is set.
func (h *CompositeHandler) handleSequential(entry *core.Entry) error {
	for i, child := range h.children {
		err := child.Handle(copyEntry(entry))
		if err != nil {
			h.counters[i].errors.Add(1)
			h.errs.Record("handler_emit", err)
			if h.failFast {
				return nil
			}
			continue
		}
		h.counters[i].success.Add(1)
	}
	return nil
}

// Close recursively closes every child, gathering sub-failures without
// aborting the whole shutdown.
func (h *CompositeHandler) Close() error {
	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup
	wg.Add(len(h.children))
	for _, child := range h.children {
		child := child
		go func() {
			defer wg.Done()
			if err := child.Close(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return firstErr
}

// forceCloser is implemented by children with a synchronous,
// best-effort shutdown distinct from their graceful Close.
type forceCloser interface {
	ForceClose()
}

// ForceClose implements the spec's force_sync_shutdown for
// CompositeHandler: every child is force-closed when it supports that,
// and otherwise falls back to its graceful Close.
func (h *CompositeHandler) ForceClose() {
	var wg sync.WaitGroup
	wg.Add(len(h.children))
	for _, child := range h.children {
		child := child
		go func() {
			defer wg.Done()
			if fc, ok := child.(forceCloser); ok {
				fc.ForceClose()
			} else {
				child.Close()
			}
		}()
	}
	wg.Wait()
}

// ChildStats returns the success/error counts observed for the child at
// index i.
func (h *CompositeHandler) ChildStats(i int) (success, errors uint64) {
	if i < 0 || i >= len(h.counters) {
		return 0, 0
	}
	return h.counters[i].success.Load(), h.counters[i].errors.Load()
}

// Stats implements handler.StatsProvider, aggregating every child's
// Snapshot that exposes one.
func (h *CompositeHandler) Stats() handler.Snapshot {
	var agg handler.Snapshot
	agg.ErrorsByKind = h.errs.CountsByKind()
	for _, child := range h.children {
		if sp, ok := child.(handler.StatsProvider); ok {
			s := sp.Stats()
			agg.Queue.Enqueued += s.Queue.Enqueued
			agg.Queue.Dequeued += s.Queue.Dequeued
			agg.Queue.Dropped += s.Queue.Dropped
			agg.QueueSize += s.QueueSize
			agg.SyncFallbacks += s.SyncFallbacks
			if s.WriterAlive {
				agg.WriterAlive = true
			}
		}
	}
	return agg
}

// IsHealthy implements handler.HealthReporter: healthy only while every
// child reporting health is itself healthy.
func (h *CompositeHandler) IsHealthy() bool {
	for _, child := range h.children {
		if hr, ok := child.(handler.HealthReporter); ok && !hr.IsHealthy() {
			return false
		}
	}
	return true
}
