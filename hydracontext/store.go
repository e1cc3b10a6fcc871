package hydracontext

import (
	"context"
	"sync"
	"time"
)

type traceKey struct{}
type valuesKey struct{}

// Values is an immutable bag of task-local key/value pairs, the
// non-trace half of the spec's ContextStore.
type Values map[string]any

// Switcher observes every push/pop of Values or a trace for diagnostics
// only; it is never consulted for correctness.
type Switcher struct {
	mu          sync.Mutex
	switchCount uint64
	lastSwitch  time.Time
}

var defaultSwitcher = &Switcher{}

// DefaultSwitcher returns the package-level Switcher used by PushValues
// and StartTrace.
func DefaultSwitcher() *Switcher { return defaultSwitcher }

func (s *Switcher) record() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.switchCount++
	s.lastSwitch = time.Now()
}

// Stats returns the number of recorded switches and the time of the
// most recent one.
func (s *Switcher) Stats() (count uint64, last time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switchCount, s.lastSwitch
}

// PushValues derives a new context with kv merged over any values
// already present on ctx ("push" in the spec's terms). The caller
// restores the prior context simply by continuing to use the ctx
// reference they held before calling PushValues — Go's context tree
// makes that the natural "pop".
func PushValues(ctx context.Context, kv Values) context.Context {
	defaultSwitcher.record()
	merged := make(Values, len(kv))
	if existing, ok := ValuesFromContext(ctx); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	for k, v := range kv {
		merged[k] = v
	}
	return context.WithValue(ctx, valuesKey{}, merged)
}

// ValuesFromContext returns the Values installed on ctx, if any.
func ValuesFromContext(ctx context.Context) (Values, bool) {
	v, ok := ctx.Value(valuesKey{}).(Values)
	return v, ok
}

// Scoped runs fn with a context carrying kv pushed over ctx's existing
// values, guaranteeing the caller's own ctx is unaffected on any return
// path from fn, including a panic.
func Scoped(ctx context.Context, kv Values, fn func(ctx context.Context)) {
	fn(PushValues(ctx, kv))
}

// StartTrace installs a new TraceContext on ctx, generating traceID and
// correlationID when empty, and returns the derived context together
// with the TraceContext for direct span operations.
func StartTrace(ctx context.Context, traceID, correlationID string) (context.Context, *TraceContext) {
	defaultSwitcher.record()
	tc := NewTraceContext(traceID, correlationID)
	return context.WithValue(ctx, traceKey{}, tc), tc
}

// TraceFromContext returns the active TraceContext, if any.
func TraceFromContext(ctx context.Context) (*TraceContext, bool) {
	tc, ok := ctx.Value(traceKey{}).(*TraceContext)
	return tc, ok
}

// ClearTrace returns a context with no active TraceContext, discarding
// whatever trace was installed on ctx.
func ClearTrace(ctx context.Context) context.Context {
	defaultSwitcher.record()
	return context.WithValue(ctx, traceKey{}, (*TraceContext)(nil))
}

// WithSpan starts a span on ctx's active trace (if any) and runs fn,
// ending the span with StatusOK on normal return or StatusError if fn
// returns a non-nil error — a scoped-acquisition helper guaranteeing the
// span is always ended, including when fn panics.
func WithSpan(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	tc, ok := TraceFromContext(ctx)
	if !ok {
		return fn(ctx)
	}
	spanID := tc.StartSpan(name, nil)
	defer func() {
		if r := recover(); r != nil {
			tc.EndSpan(spanID, StatusError, nil)
			panic(r)
		}
	}()
	err := fn(ctx)
	if err != nil {
		tc.EndSpan(spanID, StatusError, err)
	} else {
		tc.EndSpan(spanID, StatusOK, nil)
	}
	return err
}
