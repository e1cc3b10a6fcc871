// Package hydracontext implements task-local context storage and trace
// propagation on top of context.Context (the spec's ContextStore and
// trace manager).
//
// Go has no first-class per-goroutine storage, so "task-local" here
// means the conventional Go idiom: state lives in a context.Context
// value and flows explicitly through call parameters. push/pop from the
// spec becomes deriving a child context and later resuming use of the
// parent context the caller already holds — Go's context tree gives
// that restoration for free, so there is no separate pop operation to
// get wrong.
//
// Trace and span identifiers reuse go.opentelemetry.io/otel/trace's
// TraceID/SpanID byte-array shapes for interop with OTel-aware log
// processors, without adopting the OTel SDK's exporter pipeline: this
// package's span lifecycle (span_stack, status enum, correlation_id) is
// the spec's own model and does not map onto full OTel SDK semantics.
package hydracontext
