package core

import (
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Level represents the severity level of a log entry
type Level int8

const (
	// DebugLevel for detailed debugging information
	DebugLevel Level = iota
	// InfoLevel for general informational messages (default)
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
	// CriticalLevel for severe conditions that do not, by themselves,
	// terminate the process (unlike FatalLevel/PanicLevel below).
	CriticalLevel
	// FatalLevel for fatal messages (causes os.Exit(1))
	FatalLevel
	// PanicLevel for panic messages (causes panic)
	PanicLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRITICAL"
	case FatalLevel:
		return "FATAL"
	case PanicLevel:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}

// Rank returns the severity as an integer in the 10..50 scale (DEBUG=10,
// INFO=20, WARNING=30, ERROR=40, CRITICAL=50), matching the numeric ranks
// external systems (dashboards, alert rules) are typically configured
// against. Critical, Fatal and Panic all rank as CRITICAL; Fatal/Panic
// additionally terminate the process, which Rank does not capture.
func (l Level) Rank() int {
	switch l {
	case DebugLevel:
		return 10
	case InfoLevel:
		return 20
	case WarnLevel:
		return 30
	case ErrorLevel:
		return 40
	case CriticalLevel, FatalLevel, PanicLevel:
		return 50
	default:
		return 0
	}
}

// Entry represents a log record with all its metadata. Entry is immutable
// once handed to a handler: no field is mutated after Handle/emit, and
// every handler that is given an Entry holds its own reference to it.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  []Field
	Caller  CallerInfo

	// TraceID, SpanID and CorrelationID carry trace identifiers (see
	// package hydracontext). AsyncHydraLogger's logging methods do not
	// set them, so they are empty strings unless the code that builds
	// the Entry fills them in.
	TraceID       string
	SpanID        string
	CorrelationID string
}

// CallerInfo contains information about the caller
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// entryPool is a pool of Entry objects to reduce allocations
var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{
			Fields: make([]Field, 0, 8), // Pre-allocate for 8 fields
		}
	},
}

// GetEntry retrieves an Entry from the pool
func GetEntry() *Entry {
	e := entryPool.Get().(*Entry)
	e.Time = time.Now()
	e.Fields = e.Fields[:0]
	e.Caller = CallerInfo{}
	e.TraceID = ""
	e.SpanID = ""
	e.CorrelationID = ""
	return e
}

// PutEntry returns an Entry to the pool
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	// Re-slice to zero length; GC handles reference cleanup
	e.Fields = e.Fields[:0]
	e.Message = ""
	e.Caller = CallerInfo{}
	e.TraceID = ""
	e.SpanID = ""
	e.CorrelationID = ""
	entryPool.Put(e)
}

// GetCaller retrieves caller information
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return CallerInfo{}
	}

	fn := runtime.FuncForPC(pc)
	var funcName string
	if fn != nil {
		funcName = fn.Name()
	}

	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}
