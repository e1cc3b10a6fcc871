// Package filehandler provides FileHandler, which durably appends
// formatted log entries to a file. It only ever appends to the
// configured path; it does not rotate or truncate the file.
//
// FileHandler checks a memmon.Monitor before every entry: when memory
// is under pressure it writes synchronously and counts a sync fallback,
// the same backpressure valve the spec documents for every handler.
// Otherwise the entry is queued on a queue.BoundedQueue and a single
// writer goroutine drains it, the same shape the teacher's
// AsyncFileHandler used, generalized onto the shared queue package
// instead of an inlined channel/select per handler.
package filehandler
