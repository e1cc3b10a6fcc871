package consolehandler

import (
	"bytes"
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hydra-logger/hydra-logger/core"
	"github.com/hydra-logger/hydra-logger/coroutine"
	"github.com/hydra-logger/hydra-logger/errtrack"
	"github.com/hydra-logger/hydra-logger/formatter"
	"github.com/hydra-logger/hydra-logger/handler"
	"github.com/hydra-logger/hydra-logger/memmon"
	"github.com/hydra-logger/hydra-logger/queue"
	"github.com/hydra-logger/hydra-logger/shutdown"
)

// Timeouts matching the spec's documented defaults.
const (
	DefaultFlushTimeout   = 5 * time.Second
	DefaultCleanupTimeout = 2 * time.Second
)

// Config configures a ConsoleHandler.
type Config struct {
	handler.ConsoleConfig
	Formatter      formatter.Formatter
	FlushTimeout   time.Duration
	CleanupTimeout time.Duration
}

// ConsoleHandler writes formatted log entries to stdout or stderr (the
// spec's ConsoleHandler): as FileHandler, but the sink is a text stream
// and coloring may be applied per level.
type ConsoleHandler struct {
	stream    *os.File
	formatter formatter.Formatter
	useColor  bool

	mu      sync.Mutex
	syncBuf bytes.Buffer

	queue   *queue.BoundedQueue[*core.Entry]
	memMon  *memmon.Monitor
	errs    *errtrack.Tracker
	shut    *shutdown.Manager
	coro    *coroutine.Manager
	flush   time.Duration
	cleanup time.Duration

	syncFallbacks atomic.Uint64
	writerDone    func()
}

// New creates a ConsoleHandler writing to cfg.Stream and starts its
// writer goroutine.
func New(cfg Config) *ConsoleHandler {
	cc := cfg.ConsoleConfig.WithDefaults()
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = DefaultFlushTimeout
	}
	if cfg.CleanupTimeout <= 0 {
		cfg.CleanupTimeout = DefaultCleanupTimeout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}

	stream := os.Stderr
	if cc.Stream == handler.StreamStdout {
		stream = os.Stdout
	}

	h := &ConsoleHandler{
		stream:    stream,
		formatter: cfg.Formatter,
		useColor:  *cc.UseColors && supportsColor(stream),
		queue:     queue.New[*core.Entry](cc.MaxQueueSize, cc.OverflowPolicy, cc.PutTimeout, cc.GetTimeout),
		memMon:    memmon.New(cc.MemoryThresholdPct, 5*time.Second, nil),
		errs:      errtrack.NewTracker(),
		shut:      shutdown.New(),
		coro:      coroutine.New(),
		flush:     cfg.FlushTimeout,
		cleanup:   cfg.CleanupTimeout,
	}
	h.syncBuf.Grow(256)

	ctx, done := h.coro.Track(context.Background())
	h.writerDone = done
	go h.writerLoop(ctx)

	return h
}

func (h *ConsoleHandler) renderLine(entry *core.Entry) ([]byte, error) {
	if bf, ok := h.formatter.(formatter.BufferFormatter); ok {
		h.syncBuf.Reset()
		bf.FormatEntry(entry, &h.syncBuf)
		line := make([]byte, h.syncBuf.Len())
		copy(line, h.syncBuf.Bytes())
		return line, nil
	}
	return h.formatter.Format(entry)
}

// writeEntry formats entry and writes it to the console stream,
// colorizing the line when enabled. The actual stream write is a plain
// os.File.Write, which the OS already serializes at the fd level for
// writes under PIPE_BUF, so no additional write-level lock is needed
// beyond the one already guarding the shared format buffer.
func (h *ConsoleHandler) writeEntry(entry *core.Entry) error {
	h.mu.Lock()
	line, err := h.renderLine(entry)
	h.mu.Unlock()
	if err != nil {
		return err
	}
	if h.useColor {
		line = colorize(entry.Level, line)
	}
	_, err = h.stream.Write(line)
	return err
}

// Handle implements handler.Handler.
func (h *ConsoleHandler) Handle(entry *core.Entry) error {
	if !h.memMon.Check() {
		h.syncFallbacks.Add(1)
		err := h.writeEntry(entry)
		core.PutEntry(entry)
		if err != nil {
			h.errs.Record("console_write", err)
		}
		return err
	}

	if err := h.queue.Put(context.Background(), entry); err != nil {
		h.syncFallbacks.Add(1)
		h.errs.Record("queue_put", err)
		werr := h.writeEntry(entry)
		core.PutEntry(entry)
		if werr != nil {
			h.errs.Record("console_write", werr)
		}
		return werr
	}
	return nil
}

// HandleBytes implements handler.FastHandler.
func (h *ConsoleHandler) HandleBytes(line []byte, level core.Level) error {
	if h.useColor {
		line = colorize(level, line)
	}
	if _, err := h.stream.Write(line); err != nil {
		h.errs.Record("console_write", err)
		return err
	}
	return nil
}

func (h *ConsoleHandler) writerLoop(ctx context.Context) {
	defer h.writerDone()
	for {
		entry, ok := h.queue.Get(ctx)
		if !ok {
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}
		if err := h.writeEntry(entry); err != nil {
			h.errs.Record("console_write", err)
		}
		core.PutEntry(entry)
	}
}

func (h *ConsoleHandler) drain(ctx context.Context) (int, error) {
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			return h.queue.Size(), lastErr
		default:
		}
		entry, ok := h.queue.GetNowait()
		if !ok {
			return 0, lastErr
		}
		if err := h.writeEntry(entry); err != nil {
			lastErr = err
			h.errs.Record("console_write", err)
		}
		core.PutEntry(entry)
	}
}

func (h *ConsoleHandler) releaseResources(ctx context.Context) error {
	h.queue.Shutdown()
	h.coro.Shutdown(h.cleanup)
	return nil
}

// Close implements handler.Handler.
func (h *ConsoleHandler) Close() error {
	result := h.shut.Shutdown(h.flush, h.cleanup, h.drain, h.releaseResources)
	if result.FlushErr != nil {
		return result.FlushErr
	}
	return result.CleanupErr
}

// ForceClose implements the spec's force_sync_shutdown for ConsoleHandler.
func (h *ConsoleHandler) ForceClose() {
	h.shut.ForceSync(
		func() {
			for {
				entry, ok := h.queue.GetNowait()
				if !ok {
					return
				}
				h.writeEntry(entry)
				core.PutEntry(entry)
			}
		},
		func() { h.coro.Shutdown(h.cleanup) },
	)
}

// Stats implements handler.StatsProvider.
func (h *ConsoleHandler) Stats() handler.Snapshot {
	return handler.BuildSnapshot(h.queue.Stats(), h.syncFallbacks.Load(), h.errs, h.queue.Size(), h.coro.Count() > 0)
}

// IsHealthy implements handler.HealthReporter and health.Source.
func (h *ConsoleHandler) IsHealthy() bool { return h.memMon.Check() }

// Name implements health.Source.
func (h *ConsoleHandler) Name() string { return "console:" + h.stream.Name() }

// QueueSize implements health.Source.
func (h *ConsoleHandler) QueueSize() int { return h.queue.Size() }

// QueueCapacity implements health.Source.
func (h *ConsoleHandler) QueueCapacity() int { return h.queue.Stats().Capacity }

// ErrorCount implements health.Source.
func (h *ConsoleHandler) ErrorCount() uint64 { return h.errs.Total() }

// DroppedCount implements health.Source.
func (h *ConsoleHandler) DroppedCount() uint64 { return h.queue.Stats().Dropped }

// MemoryHealthy implements health.Source.
func (h *ConsoleHandler) MemoryHealthy() bool { return h.memMon.Check() }

// SetStreamForTest replaces h's output stream, letting other packages'
// tests capture what would otherwise go to stdout/stderr through a pipe.
func SetStreamForTest(h *ConsoleHandler, f *os.File) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stream = f
}
