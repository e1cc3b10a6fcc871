// Package shutdown implements the per-handler ShutdownManager state
// machine: RUNNING -> FLUSHING -> CLEANING -> DONE. Transitions are
// one-way. Each phase is bounded by its own timeout, and DONE is always
// eventually reached even when a phase times out.
package shutdown
