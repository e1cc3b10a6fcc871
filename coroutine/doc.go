// Package coroutine tracks long-running goroutines (chiefly handler
// writer loops) so a ShutdownManager can cancel and await every tracked
// goroutine within a bounded timeout (the spec's CoroutineManager).
package coroutine
