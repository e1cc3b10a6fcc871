// Package errtrack provides Tracker, a small concurrency-safe counter of
// handler errors grouped by kind (e.g. "write", "rotate", "serialize").
//
// It exists so every handler reports errors the same shape instead of each
// inventing its own ad-hoc error bookkeeping, the way the teacher's
// handler.Stats counted drops per level inline. Counts are kept in a
// mutex-guarded map rather than sync.Map: error events are rare relative
// to log throughput, so the mutex's simplicity outweighs sync.Map's
// lock-free reads here.
package errtrack
