package consolehandler

import (
	"os"
	"testing"
	"time"

	"github.com/hydra-logger/hydra-logger/core"
	"github.com/hydra-logger/hydra-logger/handler"
)

func TestConsoleHandler_WritesToStream(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}

	cfg := Config{ConsoleConfig: handler.ConsoleConfig{
		MaxQueueSize: 10,
		PutTimeout:   50 * time.Millisecond,
		GetTimeout:   20 * time.Millisecond,
	}}
	ch := New(cfg)
	ch.stream = w

	entry := core.GetEntry()
	entry.Level = core.InfoLevel
	entry.Message = "hello console"
	if err := ch.Handle(entry); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	w.Close()

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	if n == 0 {
		t.Fatal("no output written to stream")
	}
}

func TestConsoleHandler_HandleBytes(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	ch := New(Config{})
	ch.stream = w
	ch.useColor = false

	if err := ch.HandleBytes([]byte("raw line\n"), core.InfoLevel); err != nil {
		t.Fatalf("HandleBytes() error = %v", err)
	}
	w.Close()

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	if string(buf[:n]) != "raw line\n" {
		t.Errorf("output = %q, want %q", buf[:n], "raw line\n")
	}
	ch.Close()
}

func TestConsoleHandler_CloseIsIdempotent(t *testing.T) {
	ch := New(Config{})
	if err := ch.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("second Close() error = %v, want nil", err)
	}
}
