// Package queue provides BoundedQueue, a fixed-capacity MPSC queue used
// by every handler to buffer log entries between producers (the Logger's
// goroutines) and a single writer goroutine.
//
// The queue generalizes the overflow-policy/select idiom that the
// original handler implementations inlined independently (one copy per
// handler type): a non-blocking send that falls through to a
// policy-specific path when the channel is full. DropOldest races a
// concurrent consumer with a non-blocking receive-then-retry; Block
// waits on the channel send, a put-timeout timer, and the queue's own
// shutdown signal simultaneously, so a blocked producer is never stuck
// past Shutdown.
package queue
