package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hydra-logger/hydra-logger/coroutine"
	"github.com/hydra-logger/hydra-logger/core"
	"github.com/hydra-logger/hydra-logger/errtrack"
	"github.com/hydra-logger/hydra-logger/handler"
	"github.com/hydra-logger/hydra-logger/health"
	"github.com/hydra-logger/hydra-logger/perf"
)

// osExit is a variable to allow overriding os.Exit in tests
var osExit = os.Exit

// DefaultCallerSkip matches the stack depth of the logger's methods
// (Debug/Info/..., also on Layer/With children) down to the user's call
// site. The package-level functions in default.go add one more frame, so
// for calls made through them the recorded caller is that function.
const DefaultCallerSkip = 3

// AsyncHydraLogger is the multi-handler dispatcher. It fans every log
// call out to every registered handler, isolating each handler's
// failures so one misbehaving sink never blocks or breaks the others.
type AsyncHydraLogger struct {
	mu            sync.RWMutex
	handlers      []handler.Handler
	level         core.Level
	fields        []core.Field
	includeCaller bool
	callerSkip    int

	coro      *coroutine.Manager
	errs      *errtrack.Tracker
	health    *health.Monitor
	perf      *perf.Monitor
	startedAt time.Time

	closeOnce sync.Once
	closed    bool
}

// Builder provides a fluent API for assembling an AsyncHydraLogger.
type Builder struct {
	handlers      []handler.Handler
	level         core.Level
	fields        []core.Field
	includeCaller bool
	callerSkip    int
}

// NewBuilder creates a new logger builder.
func NewBuilder() *Builder {
	return &Builder{
		level:      core.InfoLevel,
		callerSkip: DefaultCallerSkip,
	}
}

// WithHandler adds a handler to the logger under construction. May be
// called more than once to register several handlers.
func (b *Builder) WithHandler(h handler.Handler) *Builder {
	b.handlers = append(b.handlers, h)
	return b
}

// WithLevel sets the minimum level passed through to handlers.
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithFields adds default fields attached to every entry emitted by the
// built logger.
func (b *Builder) WithFields(fields ...core.Field) *Builder {
	b.fields = append(b.fields, fields...)
	return b
}

// WithCaller enables caller information capture.
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// Build constructs the AsyncHydraLogger and initializes it.
func (b *Builder) Build() *AsyncHydraLogger {
	l := &AsyncHydraLogger{
		level:         b.level,
		fields:        append([]core.Field(nil), b.fields...),
		includeCaller: b.includeCaller,
		callerSkip:    b.callerSkip,
		coro:          coroutine.New(),
		errs:          errtrack.NewTracker(),
		health:        health.New(time.Second),
		perf:          perf.New(),
	}
	for _, h := range b.handlers {
		l.AddHandler(h)
	}
	l.Initialize()
	return l
}

// initializer is implemented by handlers that need an explicit bring-up
// step beyond constructor-time setup.
type initializer interface {
	Initialize() error
}

// forceCloser is implemented by handlers with a synchronous,
// best-effort shutdown path distinct from the graceful Close.
type forceCloser interface {
	ForceClose()
}

// Initialize brings every registered handler up, in registration order.
// It is idempotent; calling it again is a no-op beyond re-running any
// handler's own idempotent Initialize.
func (l *AsyncHydraLogger) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.startedAt.IsZero() {
		l.startedAt = time.Now()
	}
	var firstErr error
	for _, h := range l.handlers {
		if init, ok := h.(initializer); ok {
			if err := init.Initialize(); err != nil {
				l.errs.Record("handler_init", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}

// AddHandler registers h, permitted at any time including post-
// initialize. If h exposes a health.Source, it is also registered with
// the logger's HealthMonitor.
func (l *AsyncHydraLogger) AddHandler(h handler.Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, h)
	if src, ok := h.(health.Source); ok {
		l.health.Register(src)
	}
}

// RemoveHandler unregisters h, permitted at any time.
func (l *AsyncHydraLogger) RemoveHandler(h handler.Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.handlers {
		if existing == h {
			l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
			break
		}
	}
	if src, ok := h.(health.Source); ok {
		l.health.Unregister(src)
	}
}

// GetHandlers returns a snapshot of the currently registered handlers.
func (l *AsyncHydraLogger) GetHandlers() []handler.Handler {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]handler.Handler, len(l.handlers))
	copy(out, l.handlers)
	return out
}

// GetHandlerCount returns the number of currently registered handlers.
func (l *AsyncHydraLogger) GetHandlerCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.handlers)
}

// With returns a new logger sharing this one's handlers but carrying
// additional default fields (immutable operation).
func (l *AsyncHydraLogger) With(fields ...core.Field) *AsyncHydraLogger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	newFields := make([]core.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)
	return &AsyncHydraLogger{
		handlers:      append([]handler.Handler(nil), l.handlers...),
		level:         l.level,
		fields:        newFields,
		includeCaller: l.includeCaller,
		callerSkip:    l.callerSkip,
		coro:          l.coro,
		errs:          l.errs,
		health:        l.health,
		perf:          l.perf,
		startedAt:     l.startedAt,
	}
}

// Layer returns a child logger tagging every entry with a "layer" field,
// the idiomatic-Go stand-in for the optional-arity layer_or_message
// dispatch of dynamically typed logging APIs: Go has no call-site way to
// distinguish a 1-arg from a 2-arg string call by type, so the layer is
// instead carried the same way any other scoped default field is,
// via With.
func (l *AsyncHydraLogger) Layer(name string) *AsyncHydraLogger {
	return l.With(core.Field{Key: "layer", Type: core.StringType, Str: name})
}

// copyEntryFor returns an independent Entry carrying the same payload
// as src, since each handler owns its own pooled Entry lifecycle and
// must not race its siblings over a shared pointer.
func copyEntryFor(src *core.Entry) *core.Entry {
	dst := core.GetEntry()
	dst.Time = src.Time
	dst.Level = src.Level
	dst.Message = src.Message
	dst.Caller = src.Caller
	dst.TraceID = src.TraceID
	dst.SpanID = src.SpanID
	dst.CorrelationID = src.CorrelationID
	if len(src.Fields) > 0 {
		dst.Fields = append(dst.Fields, src.Fields...)
	}
	return dst
}

// log builds the Entry and dispatches it to every handler, catching and
// recording per-handler panics/errors via the logger's own ErrorTracker
// — a handler failure is isolated and never reaches the caller.
func (l *AsyncHydraLogger) log(level core.Level, msg string, fields []core.Field) {
	if level < l.level {
		return
	}

	start := l.perf.Start("log")
	defer func() { l.perf.End("log", start) }()

	l.mu.RLock()
	handlers := l.handlers
	closed := l.closed
	l.mu.RUnlock()
	if closed || len(handlers) == 0 {
		return
	}

	entry := core.GetEntry()
	entry.Level = level
	entry.Message = msg
	if len(l.fields) > 0 {
		entry.Fields = append(entry.Fields, l.fields...)
	}
	if len(fields) > 0 {
		entry.Fields = append(entry.Fields, fields...)
	}
	if l.includeCaller {
		entry.Caller = core.GetCaller(l.callerSkip)
	}

	if len(handlers) == 1 {
		l.dispatch(handlers[0], entry)
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(handlers))
	for _, h := range handlers {
		h := h
		_, done := l.coro.Track(nil)
		go func() {
			defer wg.Done()
			defer done()
			l.dispatch(h, copyEntryFor(entry))
		}()
	}
	wg.Wait()
	core.PutEntry(entry)
}

// dispatch calls h.Handle(entry), recovering from and recording any
// panic so one misbehaving handler can never take down the caller or
// its siblings.
func (l *AsyncHydraLogger) dispatch(h handler.Handler, entry *core.Entry) {
	defer func() {
		if r := recover(); r != nil {
			l.errs.Record("handler_panic", fmt.Errorf("%v", r))
		}
	}()
	if err := h.Handle(entry); err != nil {
		l.errs.Record("handler_emit", err)
	}
}

// Debug logs a debug message.
func (l *AsyncHydraLogger) Debug(msg string, fields ...core.Field) { l.log(core.DebugLevel, msg, fields) }

// Info logs an info message.
func (l *AsyncHydraLogger) Info(msg string, fields ...core.Field) { l.log(core.InfoLevel, msg, fields) }

// Warn logs a warning message.
func (l *AsyncHydraLogger) Warn(msg string, fields ...core.Field) { l.log(core.WarnLevel, msg, fields) }

// Error logs an error message.
func (l *AsyncHydraLogger) Error(msg string, fields ...core.Field) { l.log(core.ErrorLevel, msg, fields) }

// Critical logs a severe-condition message without terminating the
// process, distinct from Fatal (exits) and Panic (panics).
func (l *AsyncHydraLogger) Critical(msg string, fields ...core.Field) {
	l.log(core.CriticalLevel, msg, fields)
}

// Fatal logs a fatal message then exits the process with status 1.
func (l *AsyncHydraLogger) Fatal(msg string, fields ...core.Field) {
	l.log(core.FatalLevel, msg, fields)
	osExit(1)
}

// Panic logs a panic message then panics with it.
func (l *AsyncHydraLogger) Panic(msg string, fields ...core.Field) {
	l.log(core.PanicLevel, msg, fields)
	panic(msg)
}

// Debugf logs a formatted debug message.
func (l *AsyncHydraLogger) Debugf(format string, args ...interface{}) {
	l.log(core.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Infof logs a formatted info message.
func (l *AsyncHydraLogger) Infof(format string, args ...interface{}) {
	l.log(core.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a formatted warning message.
func (l *AsyncHydraLogger) Warnf(format string, args ...interface{}) {
	l.log(core.WarnLevel, fmt.Sprintf(format, args...), nil)
}

// Errorf logs a formatted error message.
func (l *AsyncHydraLogger) Errorf(format string, args ...interface{}) {
	l.log(core.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Criticalf logs a formatted severe-condition message without
// terminating the process.
func (l *AsyncHydraLogger) Criticalf(format string, args ...interface{}) {
	l.log(core.CriticalLevel, fmt.Sprintf(format, args...), nil)
}

// Fatalf logs a formatted fatal message then exits the process.
func (l *AsyncHydraLogger) Fatalf(format string, args ...interface{}) {
	l.log(core.FatalLevel, fmt.Sprintf(format, args...), nil)
	osExit(1)
}

// Panicf logs a formatted panic message then panics with it.
func (l *AsyncHydraLogger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.log(core.PanicLevel, msg, nil)
	panic(msg)
}

// Close performs a graceful shutdown: every handler is closed via its
// own ShutdownManager, then the logger's own CoroutineManager is shut
// down. Only Close/aclose transitions the logger out of the usable
// state; handler failures before that point never do.
func (l *AsyncHydraLogger) Close() error {
	var result error
	l.closeOnce.Do(func() {
		l.mu.Lock()
		handlers := append([]handler.Handler(nil), l.handlers...)
		l.closed = true
		l.mu.Unlock()

		var mu sync.Mutex
		var wg sync.WaitGroup
		wg.Add(len(handlers))
		for _, h := range handlers {
			h := h
			go func() {
				defer wg.Done()
				if err := h.Close(); err != nil {
					mu.Lock()
					if result == nil {
						result = err
					}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		l.coro.Shutdown(2 * time.Second)
	})
	return result
}

// ForceSyncClose performs a best-effort synchronous shutdown, invoking
// each handler's ForceClose when available and otherwise falling back
// to its graceful Close.
func (l *AsyncHydraLogger) ForceSyncClose() {
	l.mu.Lock()
	handlers := append([]handler.Handler(nil), l.handlers...)
	l.closed = true
	l.mu.Unlock()

	for _, h := range handlers {
		if fc, ok := h.(forceCloser); ok {
			fc.ForceClose()
		} else {
			h.Close()
		}
	}
}
