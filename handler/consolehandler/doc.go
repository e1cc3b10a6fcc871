// Package consolehandler provides ConsoleHandler, which writes formatted
// log entries to stdout or stderr the same memory-aware, queue-backed
// way filehandler.FileHandler writes to a file.
//
// Color is applied per level when UseColors is set and the target
// stream is a terminal (detected with github.com/mattn/go-isatty); a
// failure to colorize degrades to the uncolored line rather than losing
// the record.
package consolehandler
