// Package handler provides the Handler interface and common types shared
// by all handler implementations.
//
// Handler implementations are organized in sub-packages for better
// modularity, testability, and separation of concerns:
//
//   - handler/consolehandler – console output, optionally colorized,
//     backed by a queue.BoundedQueue[*core.Entry] and a single writer
//     goroutine. Created via consolehandler.New.
//   - handler/filehandler – append-only file output (no rotation), backed
//     by the same queue/writer-goroutine shape. Created via
//     filehandler.New.
//   - handler/compositehandler – fan-out to multiple child handlers,
//     either sequentially or in parallel via errgroup, with optional
//     fail-fast semantics. Created via compositehandler.New.
//
// This package defines the shared interfaces and types used across all
// sub-packages:
//
//   - Handler, FastHandler, StatsProvider and HealthReporter interfaces.
//   - OverflowPolicy (DropOldest, ErrorPolicy, Block), a re-export of
//     queue.Policy.
//   - HandlerConfig and its File/Console/Composite variants.
//   - Snapshot, the HandlerStats surface exposed to package health.
package handler
