// Package memmon provides Monitor, a cached system-memory probe used by
// handlers for backpressure decisions (the spec's MemoryMonitor).
//
// Check results are cached for check_interval (default 5s) the same way
// core.CoarseNow caches time.Now: repeated calls within the interval
// reuse the last measurement instead of re-probing, since a syscall-level
// memory read on every log call would dominate the hot path. Unlike the
// coarse clock, Monitor's cache is a plain mutex-guarded struct rather
// than an atomic pointer: probes happen at most once per check_interval,
// so contention is not a concern.
package memmon
