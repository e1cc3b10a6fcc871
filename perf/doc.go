// Package perf provides Monitor, a per-operation timing sampler used to
// satisfy the logger's diagnostics surface (GetPerformanceMetrics,
// IsPerformanceHealthy).
//
// It is grounded on the original Python implementation's
// AsyncPerformanceMonitor: a bounded history of durations per named
// operation, summary statistics over that history, and a slow-operation
// alert trail that drives the health verdict. Unlike the original there
// is no package-level singleton — each Monitor is owned by the
// AsyncHydraLogger that created it, avoiding hidden global state.
package perf
