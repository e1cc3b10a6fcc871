package logger

import (
	"os"
	"testing"

	"github.com/hydra-logger/hydra-logger/formatter"
	"github.com/hydra-logger/hydra-logger/handler/consolehandler"
)

func newDiscardHandler(b *testing.B, f formatter.Formatter) *consolehandler.ConsoleHandler {
	b.Helper()
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		b.Fatalf("open %s: %v", os.DevNull, err)
	}
	b.Cleanup(func() { devNull.Close() })

	ch := consolehandler.New(consolehandler.Config{Formatter: f})
	consolehandler.SetStreamForTest(ch, devNull)
	return ch
}

// BenchmarkInfoNoFields benchmarks Info() with no fields using a discard writer.
func BenchmarkInfoNoFields(b *testing.B) {
	h := newDiscardHandler(b, formatter.NewTextFormatter(formatter.Config{}))
	defer h.Close()

	log := NewBuilder().WithHandler(h).WithLevel(InfoLevel).Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		log.Info("test message")
	}
}

// BenchmarkInfoWith2Fields benchmarks Info() with 2 string fields.
func BenchmarkInfoWith2Fields(b *testing.B) {
	h := newDiscardHandler(b, formatter.NewTextFormatter(formatter.Config{}))
	defer h.Close()

	log := NewBuilder().WithHandler(h).WithLevel(InfoLevel).Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		log.Info("test message", String("key1", "value1"), String("key2", "value2"))
	}
}

// BenchmarkFilteredDebug benchmarks Debug() when level is Info (filtered out).
func BenchmarkFilteredDebug(b *testing.B) {
	h := newDiscardHandler(b, formatter.NewTextFormatter(formatter.Config{}))
	defer h.Close()

	log := NewBuilder().WithHandler(h).WithLevel(InfoLevel).Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		log.Debug("debug message", String("key", "value"))
	}
}

// BenchmarkJSON benchmarks Info() with the JSON formatter.
func BenchmarkJSON(b *testing.B) {
	h := newDiscardHandler(b, formatter.NewJSONFormatter(formatter.Config{}))
	defer h.Close()

	log := NewBuilder().WithHandler(h).WithLevel(InfoLevel).Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		log.Info("test message", String("key1", "value1"), String("key2", "value2"))
	}
}

// BenchmarkCompositeParallel benchmarks Info() fanning out to two handlers.
func BenchmarkCompositeParallel(b *testing.B) {
	h1 := newDiscardHandler(b, formatter.NewTextFormatter(formatter.Config{}))
	h2 := newDiscardHandler(b, formatter.NewTextFormatter(formatter.Config{}))
	defer h1.Close()
	defer h2.Close()

	log := NewBuilder().WithHandler(h1).WithHandler(h2).WithLevel(InfoLevel).Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		log.Info("test message", String("key1", "value1"))
	}
}
