package hydracontext

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Status is a span's terminal or in-flight state.
type Status int

const (
	StatusActive Status = iota
	StatusOK
	StatusError
)

// String returns the human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Span is a single unit of work within a TraceContext.
type Span struct {
	ID        string
	ParentID  string
	Name      string
	Metadata  map[string]any
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Status    Status
	Err       error
}

// TraceContext holds one trace's span stack and span registry. It is
// shared (via a pointer) across every context.Context derived while the
// trace is active, since span start/end mutate shared state rather than
// producing new immutable context values.
type TraceContext struct {
	TraceID       string
	CorrelationID string

	mu      sync.Mutex
	spans   map[string]*Span
	stack   []string // LIFO of active span IDs, not including current
	current string   // "" when no span is active
}

func newTraceID() string {
	var tid trace.TraceID
	_, _ = rand.Read(tid[:])
	return tid.String()
}

func newSpanID() string {
	var sid trace.SpanID
	_, _ = rand.Read(sid[:])
	return sid.String()
}

// NewTraceContext returns a TraceContext, generating traceID and
// correlationID when either is empty. TraceID/SpanID reuse OTel's ID
// shapes for interop with tracing backends; CorrelationID is a
// separate, backend-agnostic identifier and uses a plain UUID instead.
func NewTraceContext(traceID, correlationID string) *TraceContext {
	if traceID == "" {
		traceID = newTraceID()
	}
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return &TraceContext{
		TraceID:       traceID,
		CorrelationID: correlationID,
		spans:         make(map[string]*Span),
	}
}

// StartSpan pushes the current span onto the stack, creates a new child
// span marked active, installs it as current, and returns its id.
func (t *TraceContext) StartSpan(name string, metadata map[string]any) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := newSpanID()
	t.spans[id] = &Span{
		ID:        id,
		ParentID:  t.current,
		Name:      name,
		Metadata:  metadata,
		StartTime: time.Now(),
		Status:    StatusActive,
	}
	if t.current != "" {
		t.stack = append(t.stack, t.current)
	}
	t.current = id
	return id
}

// EndSpan marks spanID ended with status and err, recording end_time and
// duration. If spanID is the current span, the stack is popped to
// restore the parent as current. Ending an unknown span, or a span that
// has already ended, is a no-op that returns false.
func (t *TraceContext) EndSpan(spanID string, status Status, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	span, ok := t.spans[spanID]
	if !ok || span.Status != StatusActive {
		return false
	}

	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.Status = status
	span.Err = err

	if t.current == spanID {
		if n := len(t.stack); n > 0 {
			t.current = t.stack[n-1]
			t.stack = t.stack[:n-1]
		} else {
			t.current = ""
		}
	}
	return true
}

// CurrentSpanID returns the id of the active span, or "" if none.
func (t *TraceContext) CurrentSpanID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// StackDepth returns the number of active spans, the current one
// included, for tests asserting the stack returns to 0 at the end of a
// trace.
func (t *TraceContext) StackDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	depth := len(t.stack)
	if t.current != "" {
		depth++
	}
	return depth
}

// Span returns a copy of the span identified by id, if it exists.
func (t *TraceContext) Span(id string) (Span, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.spans[id]
	if !ok {
		return Span{}, false
	}
	return *s, true
}
