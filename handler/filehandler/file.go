package filehandler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
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

// Timeouts matching the spec's documented defaults (§5 Timeouts).
const (
	DefaultFlushTimeout   = 5 * time.Second
	DefaultCleanupTimeout = 2 * time.Second
)

// Config configures a FileHandler. Log rotation/retention is an
// explicit spec non-goal (§1: "it does not perform log rotation or
// retention"), so unlike the teacher's fileBase this carries no
// rotation knobs — FileHandler only ever appends.
type Config struct {
	handler.FileConfig
	Formatter      formatter.Formatter
	FlushTimeout   time.Duration
	CleanupTimeout time.Duration
}

// FileHandler durably appends formatted log entries to a file (the
// spec's FileHandler).
type FileHandler struct {
	fileBase

	queue   *queue.BoundedQueue[*core.Entry]
	memMon  *memmon.Monitor
	errs    *errtrack.Tracker
	shut    *shutdown.Manager
	coro    *coroutine.Manager
	cleanup time.Duration
	flush   time.Duration

	syncFallbacks atomic.Uint64
	writerDone    func()
}

// New opens path (creating parent directories as needed) and starts the
// handler's writer goroutine.
func New(cfg Config) (*FileHandler, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("filehandler: path is required")
	}
	fc := cfg.FileConfig.WithDefaults()
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = DefaultFlushTimeout
	}
	if cfg.CleanupTimeout <= 0 {
		cfg.CleanupTimeout = DefaultCleanupTimeout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}

	if err := os.MkdirAll(filepath.Dir(fc.Path), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(fc.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	h := &FileHandler{
		queue:   queue.New[*core.Entry](fc.MaxQueueSize, fc.OverflowPolicy, fc.PutTimeout, fc.GetTimeout),
		memMon:  memmon.New(fc.MemoryThresholdPct, 5*time.Second, nil),
		errs:    errtrack.NewTracker(),
		shut:    shutdown.New(),
		coro:    coroutine.New(),
		flush:   cfg.FlushTimeout,
		cleanup: cfg.CleanupTimeout,
	}
	initFileBase(&h.fileBase, fc.Path, cfg.Formatter, file)

	ctx, done := h.coro.Track(context.Background())
	h.writerDone = done
	go h.writerLoop(ctx)

	return h, nil
}

// Handle implements handler.Handler. It checks the MemoryMonitor first;
// when unhealthy it writes synchronously and counts a sync fallback, the
// same as when the queue itself rejects the entry.
func (h *FileHandler) Handle(entry *core.Entry) error {
	if !h.memMon.Check() {
		h.syncFallbacks.Add(1)
		_, err := h.write(entry)
		core.PutEntry(entry)
		if err != nil {
			h.errs.Record("sync_write", err)
		}
		return err
	}

	if err := h.queue.Put(context.Background(), entry); err != nil {
		h.syncFallbacks.Add(1)
		h.errs.Record("queue_put", err)
		_, werr := h.write(entry)
		core.PutEntry(entry)
		if werr != nil {
			h.errs.Record("sync_write", werr)
		}
		return werr
	}
	return nil
}

// HandleBytes implements handler.FastHandler.
func (h *FileHandler) HandleBytes(line []byte, level core.Level) error {
	if !h.memMon.Check() {
		h.syncFallbacks.Add(1)
	}
	if err := h.writeLine(line); err != nil {
		h.errs.Record("sync_write", err)
		return err
	}
	return nil
}

func (h *FileHandler) writerLoop(ctx context.Context) {
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
		if _, err := h.write(entry); err != nil {
			h.errs.Record("writer", err)
		}
		core.PutEntry(entry)
	}
}

// drain writes every remaining queued entry synchronously, bounded by
// ctx's deadline. It returns how many entries it could not get to.
func (h *FileHandler) drain(ctx context.Context) (int, error) {
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
		if _, err := h.write(entry); err != nil {
			lastErr = err
			h.errs.Record("writer", err)
		}
		core.PutEntry(entry)
	}
}

func (h *FileHandler) releaseResources(ctx context.Context) error {
	h.queue.Shutdown()
	h.coro.Shutdown(h.cleanup)
	return h.closeFile()
}

// Close implements handler.Handler: it flushes the remaining queue,
// stops the writer goroutine, and closes the file, running the
// RUNNING->FLUSHING->CLEANING->DONE sequence exactly once.
func (h *FileHandler) Close() error {
	result := h.shut.Shutdown(h.flush, h.cleanup, h.drain, h.releaseResources)
	if result.FlushErr != nil {
		return result.FlushErr
	}
	return result.CleanupErr
}

// ForceClose implements the spec's force_sync_shutdown: it skips the
// async flush/cleanup timeouts and closes the file inline. Intended for
// destructor-equivalent and best-effort synchronous close paths.
func (h *FileHandler) ForceClose() {
	h.shut.ForceSync(
		func() {
			for {
				entry, ok := h.queue.GetNowait()
				if !ok {
					return
				}
				h.write(entry)
				core.PutEntry(entry)
			}
		},
		func() {
			h.coro.Shutdown(h.cleanup)
			h.closeFile()
		},
	)
}

// Stats implements handler.StatsProvider.
func (h *FileHandler) Stats() handler.Snapshot {
	return handler.BuildSnapshot(h.queue.Stats(), h.syncFallbacks.Load(), h.errs, h.queue.Size(), h.coro.Count() > 0)
}

// IsHealthy implements handler.HealthReporter and health.Source.
func (h *FileHandler) IsHealthy() bool { return h.memMon.Check() }

// Name implements health.Source.
func (h *FileHandler) Name() string { return "file:" + h.filename }

// QueueSize implements health.Source.
func (h *FileHandler) QueueSize() int { return h.queue.Size() }

// QueueCapacity implements health.Source.
func (h *FileHandler) QueueCapacity() int { return h.queue.Stats().Capacity }

// ErrorCount implements health.Source.
func (h *FileHandler) ErrorCount() uint64 { return h.errs.Total() }

// DroppedCount implements health.Source.
func (h *FileHandler) DroppedCount() uint64 { return h.queue.Stats().Dropped }

// MemoryHealthy implements health.Source.
func (h *FileHandler) MemoryHealthy() bool { return h.memMon.Check() }
