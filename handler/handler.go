package handler

import (
	"time"

	"github.com/hydra-logger/hydra-logger/core"
)

// Handler defines the interface for log handlers.
type Handler interface {
	// Handle processes a log entry. Implementations that are async
	// enqueue the entry and return immediately; implementations that
	// fall back to sync mode write before returning.
	Handle(entry *core.Entry) error

	// Close flushes any buffered entries, stops the writer goroutine,
	// and releases resources. Close is idempotent.
	Close() error
}

// FastHandler is implemented by handlers that can avoid an Entry
// round-trip through core.GetEntry/PutEntry for the common case of a
// single pre-formatted line. FileHandler and ConsoleHandler implement
// it; the logger and CompositeHandler always dispatch through Handle.
type FastHandler interface {
	Handler

	// HandleBytes writes a pre-formatted, newline-terminated line
	// directly, bypassing field formatting.
	HandleBytes(line []byte, level core.Level) error
}

// StatsProvider is implemented by handlers that expose the spec's
// HandlerStats surface for the health/metrics endpoint.
type StatsProvider interface {
	// Stats returns a point-in-time snapshot of the handler's counters.
	Stats() Snapshot
}

// HealthReporter is implemented by handlers whose health can be queried
// independently of producing a stats snapshot (cheaper; CompositeHandler
// uses it to aggregate its children's health).
type HealthReporter interface {
	IsHealthy() bool
}

// FileConfig configures a filehandler.FileHandler.
type FileConfig struct {
	Path               string
	MaxQueueSize       int
	MemoryThresholdPct float64
	OverflowPolicy     OverflowPolicy
	PutTimeout         time.Duration
	GetTimeout         time.Duration
}

// Stream identifies which OS stream a ConsoleConfig writes to.
type Stream int

const (
	StreamStdout Stream = iota
	StreamStderr
)

// ConsoleConfig configures a consolehandler.ConsoleHandler. UseColors is
// a *bool, not a bool, because the spec's documented default is true:
// nil means "unset, apply the default" where a plain bool's zero value
// could not be told apart from an explicit false.
type ConsoleConfig struct {
	Stream             Stream
	MaxQueueSize       int
	MemoryThresholdPct float64
	OverflowPolicy     OverflowPolicy
	UseColors          *bool
	PutTimeout         time.Duration
	GetTimeout         time.Duration
}

// CompositeConfig configures a compositehandler.CompositeHandler.
type CompositeConfig struct {
	Children []HandlerConfig
	Parallel bool
	FailFast bool
}

// ConfigKind discriminates which variant of HandlerConfig is populated.
type ConfigKind int

const (
	KindFile ConfigKind = iota
	KindConsole
	KindComposite
)

// HandlerConfig is a tagged union identifying a destination, mirroring
// the spec's HandlerConfig variants. Exactly one of File, Console, or
// Composite should be set, matching Kind.
type HandlerConfig struct {
	Kind      ConfigKind
	File      *FileConfig
	Console   *ConsoleConfig
	Composite *CompositeConfig
}

// Default timeouts and thresholds, matching the spec's documented
// defaults (§6 External Interfaces).
const (
	DefaultMaxQueueSize       = 1000
	DefaultMemoryThresholdPct = 70.0
	DefaultPutTimeout         = 100 * time.Millisecond
	DefaultGetTimeout         = time.Second
)

// WithDefaults returns a copy of c with zero-value fields replaced by
// the spec's documented defaults.
func (c FileConfig) WithDefaults() FileConfig {
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = DefaultMaxQueueSize
	}
	if c.MemoryThresholdPct <= 0 {
		c.MemoryThresholdPct = DefaultMemoryThresholdPct
	}
	if c.PutTimeout <= 0 {
		c.PutTimeout = DefaultPutTimeout
	}
	if c.GetTimeout <= 0 {
		c.GetTimeout = DefaultGetTimeout
	}
	return c
}

// WithDefaults returns a copy of c with zero-value fields replaced by
// the spec's documented defaults, including UseColors defaulting to true.
func (c ConsoleConfig) WithDefaults() ConsoleConfig {
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = DefaultMaxQueueSize
	}
	if c.MemoryThresholdPct <= 0 {
		c.MemoryThresholdPct = DefaultMemoryThresholdPct
	}
	if c.PutTimeout <= 0 {
		c.PutTimeout = DefaultPutTimeout
	}
	if c.GetTimeout <= 0 {
		c.GetTimeout = DefaultGetTimeout
	}
	if c.UseColors == nil {
		c.UseColors = &defaultUseColors
	}
	return c
}

var defaultUseColors = true
