package logger

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hydra-logger/hydra-logger/formatter"
	"github.com/hydra-logger/hydra-logger/handler"
	"github.com/hydra-logger/hydra-logger/handler/consolehandler"
)

// newPipeLogger builds a logger with a single console handler whose
// stream is replaced by a pipe, so tests can read back whatever the
// writer goroutine wrote after Close drains the queue.
func newPipeLogger(t *testing.T, level Level) (*AsyncHydraLogger, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	ch := consolehandler.New(consolehandler.Config{
		ConsoleConfig: handler.ConsoleConfig{
			MaxQueueSize: 100,
			PutTimeout:   50 * time.Millisecond,
			GetTimeout:   20 * time.Millisecond,
		},
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})
	consolehandler.SetStreamForTest(ch, w)

	l := NewBuilder().WithHandler(ch).WithLevel(level).Build()
	t.Cleanup(func() {
		l.Close()
		w.Close()
	})
	return l, r
}

func readAll(t *testing.T, r *os.File) string {
	t.Helper()
	// The write end stays open until cleanup (the console handler never
	// closes its stream), so read what is buffered until a short deadline
	// instead of waiting for EOF.
	if err := r.SetReadDeadline(time.Now().Add(100 * time.Millisecond)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return string(data)
}

func TestLogger_LevelGate(t *testing.T) {
	l, r := newPipeLogger(t, InfoLevel)

	l.Debug("debug message")
	l.Info("info message")
	l.Close()

	output := readAll(t, r)
	if strings.Contains(output, "debug message") {
		t.Error("debug message was logged when level is Info")
	}
	if !strings.Contains(output, "info message") {
		t.Errorf("expected 'info message' in output, got: %s", output)
	}
}

func TestLogger_With(t *testing.T) {
	l, r := newPipeLogger(t, InfoLevel)
	l = l.With(String("app", "test"))

	child := l.With(String("request_id", "123"))
	child.Info("test message")
	l.Close()

	output := readAll(t, r)
	if !strings.Contains(output, "app=test") {
		t.Errorf("expected 'app=test' in output, got: %s", output)
	}
	if !strings.Contains(output, "request_id=123") {
		t.Errorf("expected 'request_id=123' in output, got: %s", output)
	}
}

func TestLogger_ImmutableWith(t *testing.T) {
	l, r := newPipeLogger(t, InfoLevel)
	parent := l.With(String("parent", "value"))
	child := parent.With(String("child", "value"))

	parent.Info("parent message")
	child.Info("child message")
	parent.Close()

	output := readAll(t, r)
	if !strings.Contains(output, "parent message") || !strings.Contains(output, "parent=value") {
		t.Errorf("parent message missing its field, got: %s", output)
	}
	if !strings.Contains(output, "child message") || !strings.Contains(output, "child=value") {
		t.Errorf("child message missing its field, got: %s", output)
	}

	parentLineEnd := strings.Index(output, "parent message")
	if parentLineEnd >= 0 {
		lineEnd := strings.Index(output[parentLineEnd:], "\n")
		line := output[parentLineEnd : parentLineEnd+lineEnd]
		if strings.Contains(line, "child=value") {
			t.Error("parent's log line should not carry the child field")
		}
	}
}

func TestLogger_Fields(t *testing.T) {
	l, r := newPipeLogger(t, InfoLevel)
	l.Info("test",
		String("str", "value"),
		Int("int", 42),
		Bool("bool", true),
		Float64("float", 3.14),
	)
	l.Close()

	output := readAll(t, r)
	for _, want := range []string{"str=value", "int=42", "bool=true", "float=3.14"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestLogger_FormattedLogging(t *testing.T) {
	l, r := newPipeLogger(t, InfoLevel)
	l.Infof("User %s logged in with ID %d", "alice", 123)
	l.Close()

	output := readAll(t, r)
	if !strings.Contains(output, "User alice logged in with ID 123") {
		t.Errorf("expected formatted message in output, got: %s", output)
	}
}

func TestLogger_Fatal(t *testing.T) {
	l, r := newPipeLogger(t, DebugLevel)

	exitCode := -1
	origExit := osExit
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = origExit }()

	l.Fatal("fatal error", String("key", "value"))
	l.Close()

	if exitCode != 1 {
		t.Errorf("exit code = %d, want 1", exitCode)
	}
	output := readAll(t, r)
	if !strings.Contains(output, "fatal error") || !strings.Contains(output, "FATAL") {
		t.Errorf("expected fatal message in output, got: %s", output)
	}
}

func TestLogger_Panic(t *testing.T) {
	l, r := newPipeLogger(t, DebugLevel)

	defer func() {
		rec := recover()
		if rec != "panic message" {
			t.Errorf("recover() = %v, want %q", rec, "panic message")
		}
		l.Close()
		output := readAll(t, r)
		if !strings.Contains(output, "panic message") || !strings.Contains(output, "PANIC") {
			t.Errorf("expected panic message in output, got: %s", output)
		}
	}()

	l.Panic("panic message")
}

func TestLogger_Layer(t *testing.T) {
	l, r := newPipeLogger(t, InfoLevel)
	l.Layer("auth").Info("user logged in")
	l.Close()

	output := readAll(t, r)
	if !strings.Contains(output, "layer=auth") {
		t.Errorf("expected 'layer=auth' in output, got: %s", output)
	}
}

func TestLogger_AddRemoveHandler(t *testing.T) {
	l := NewBuilder().WithLevel(InfoLevel).Build()
	if l.GetHandlerCount() != 0 {
		t.Fatalf("GetHandlerCount() = %d, want 0", l.GetHandlerCount())
	}

	ch := consolehandler.New(consolehandler.Config{})
	l.AddHandler(ch)
	if l.GetHandlerCount() != 1 {
		t.Errorf("GetHandlerCount() = %d, want 1", l.GetHandlerCount())
	}

	l.RemoveHandler(ch)
	if l.GetHandlerCount() != 0 {
		t.Errorf("GetHandlerCount() = %d, want 0 after RemoveHandler", l.GetHandlerCount())
	}
	ch.Close()
	l.Close()
}

func TestLogger_CloseIsIdempotent(t *testing.T) {
	l, _ := newPipeLogger(t, InfoLevel)
	if err := l.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close() error = %v, want nil", err)
	}
}

func TestLogger_ForceSyncClose(t *testing.T) {
	l, r := newPipeLogger(t, InfoLevel)
	l.Info("before close")
	l.ForceSyncClose()

	output := readAll(t, r)
	if !strings.Contains(output, "before close") {
		t.Errorf("expected 'before close' in output, got: %s", output)
	}
}

func TestLogger_IsHealthy(t *testing.T) {
	l, _ := newPipeLogger(t, InfoLevel)
	if !l.IsHealthy() {
		t.Error("IsHealthy() = false for a freshly built logger, want true")
	}
	l.Close()
}

func TestParseLevel_FatalPanic(t *testing.T) {
	if ParseLevel("FATAL") != FatalLevel {
		t.Error("expected FatalLevel for 'FATAL'")
	}
	if ParseLevel("PANIC") != PanicLevel {
		t.Error("expected PanicLevel for 'PANIC'")
	}
}
