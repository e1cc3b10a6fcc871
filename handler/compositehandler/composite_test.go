package compositehandler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hydra-logger/hydra-logger/core"
	"github.com/hydra-logger/hydra-logger/handler"
	"github.com/hydra-logger/hydra-logger/handler/filehandler"
)

// failingHandler rejects its n-th call (1-indexed) and succeeds on every
// other call, letting tests exercise error isolation deterministically.
type failingHandler struct {
	mu       sync.Mutex
	failOn   int
	calls    int
	received []string
}

func (f *failingHandler) Handle(entry *core.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.received = append(f.received, entry.Message)
	core.PutEntry(entry)
	if f.calls == f.failOn {
		return errors.New("simulated sink rejection")
	}
	return nil
}

func (f *failingHandler) Close() error { return nil }

func (f *failingHandler) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func handleMessage(h handler.Handler, msg string) {
	e := core.GetEntry()
	e.Level = core.InfoLevel
	e.Message = msg
	h.Handle(e)
}

func TestCompositeHandler_Parallel_FileAndConsole(t *testing.T) {
	// S3: Composite(parallel=true, children=[File(A), Console(stderr)]),
	// 10 info calls, aclose().
	dir := t.TempDir()
	path := filepath.Join(dir, "composite.log")
	fh, err := filehandler.New(filehandler.Config{FileConfig: handler.FileConfig{
		Path:         path,
		MaxQueueSize: 100,
		PutTimeout:   50 * time.Millisecond,
		GetTimeout:   20 * time.Millisecond,
	}})
	if err != nil {
		t.Fatalf("filehandler.New() error = %v", err)
	}

	consoleSink := &failingHandler{failOn: 4} // fails on the 4th call, never suppresses siblings

	ch := New(Config{
		Children: []handler.Handler{fh, consoleSink},
		Parallel: true,
	})

	for i := 0; i < 10; i++ {
		handleMessage(ch, "composite message")
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	lines := strings.Count(string(data), "composite message")
	if lines != 10 {
		t.Errorf("file has %d matching lines, want 10", lines)
	}

	if got := consoleSink.callCount(); got != 10 {
		t.Errorf("console sink received %d calls, want 10", got)
	}

	fileSuccess, fileErrs := ch.ChildStats(0)
	if fileSuccess != 10 || fileErrs != 0 {
		t.Errorf("file child stats = (%d, %d), want (10, 0)", fileSuccess, fileErrs)
	}
	consoleSuccess, consoleErrs := ch.ChildStats(1)
	if consoleSuccess != 9 || consoleErrs != 1 {
		t.Errorf("console child stats = (%d, %d), want (9, 1)", consoleSuccess, consoleErrs)
	}
}

func TestCompositeHandler_Parallel_ChildFailureNeverSuppressesSiblings(t *testing.T) {
	// Property #6 (parallel mode): a mid-list failure must not stop the
	// other children from receiving every call.
	good1 := &failingHandler{failOn: -1}
	bad := &failingHandler{failOn: 1}
	good2 := &failingHandler{failOn: -1}

	ch := New(Config{
		Children: []handler.Handler{good1, bad, good2},
		Parallel: true,
	})
	for i := 0; i < 5; i++ {
		handleMessage(ch, "msg")
	}
	ch.Close()

	if got := good1.callCount(); got != 5 {
		t.Errorf("good1 received %d calls, want 5", got)
	}
	if got := good2.callCount(); got != 5 {
		t.Errorf("good2 received %d calls, want 5", got)
	}
	if got := bad.callCount(); got != 5 {
		t.Errorf("bad received %d calls, want 5", got)
	}

	_, badErrs := ch.ChildStats(1)
	if badErrs != 1 {
		t.Errorf("bad child error count = %d, want 1", badErrs)
	}
}

func TestCompositeHandler_Sequential_ContinuesPastFailureWithoutFailFast(t *testing.T) {
	// Property #6 (sequential mode, fail_fast=false): emission continues
	// to later siblings even after an earlier one errors.
	first := &failingHandler{failOn: 1}
	second := &failingHandler{failOn: -1}

	ch := New(Config{
		Children: []handler.Handler{first, second},
		Parallel: false,
		FailFast: false,
	})
	handleMessage(ch, "only message")
	ch.Close()

	if got := first.callCount(); got != 1 {
		t.Errorf("first received %d calls, want 1", got)
	}
	if got := second.callCount(); got != 1 {
		t.Errorf("second received %d calls, want 1 (must not be skipped)", got)
	}
}

func TestCompositeHandler_Sequential_FailFastAbortsRemaining(t *testing.T) {
	// fail_fast=true in sequential mode stops remaining children on error.
	first := &failingHandler{failOn: 1}
	second := &failingHandler{failOn: -1}

	ch := New(Config{
		Children: []handler.Handler{first, second},
		Parallel: false,
		FailFast: true,
	})
	handleMessage(ch, "only message")
	ch.Close()

	if got := first.callCount(); got != 1 {
		t.Errorf("first received %d calls, want 1", got)
	}
	if got := second.callCount(); got != 0 {
		t.Errorf("second received %d calls, want 0 (fail_fast should abort remaining)", got)
	}
}

func TestCompositeHandler_Close_GathersSubFailuresWithoutAborting(t *testing.T) {
	closeErr := errors.New("child close failed")
	c1 := &closingHandler{err: closeErr}
	c2 := &closingHandler{}

	ch := New(Config{Children: []handler.Handler{c1, c2}})
	if err := ch.Close(); err == nil {
		t.Fatal("Close() error = nil, want non-nil from c1")
	}
	if !c1.closed || !c2.closed {
		t.Errorf("closed = (%v, %v), want both true", c1.closed, c2.closed)
	}
}

type closingHandler struct {
	mu     sync.Mutex
	closed bool
	err    error
}

func (c *closingHandler) Handle(entry *core.Entry) error {
	core.PutEntry(entry)
	return nil
}

func (c *closingHandler) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.err
}

func TestCompositeHandler_Stats_AggregatesChildren(t *testing.T) {
	dir := t.TempDir()
	fh, err := filehandler.New(filehandler.Config{FileConfig: handler.FileConfig{
		Path:         filepath.Join(dir, "stats.log"),
		MaxQueueSize: 10,
		PutTimeout:   50 * time.Millisecond,
		GetTimeout:   20 * time.Millisecond,
	}})
	if err != nil {
		t.Fatalf("filehandler.New() error = %v", err)
	}
	defer fh.Close()

	ch := New(Config{Children: []handler.Handler{fh}})
	handleMessage(ch, "stat test")
	time.Sleep(20 * time.Millisecond)

	stats := ch.Stats()
	if !stats.WriterAlive {
		t.Error("Stats().WriterAlive = false, want true while child writer is running")
	}
}
