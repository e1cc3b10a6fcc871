package health

import (
	"testing"
	"time"
)

type fakeSource struct {
	name          string
	queueSize     int
	queueCapacity int
	errorCount    uint64
	droppedCount  uint64
	memoryHealthy bool
}

func (f *fakeSource) Name() string          { return f.name }
func (f *fakeSource) QueueSize() int        { return f.queueSize }
func (f *fakeSource) QueueCapacity() int    { return f.queueCapacity }
func (f *fakeSource) ErrorCount() uint64    { return f.errorCount }
func (f *fakeSource) DroppedCount() uint64  { return f.droppedCount }
func (f *fakeSource) MemoryHealthy() bool   { return f.memoryHealthy }

func withFakeSystemProbe(t *testing.T, stats SystemStats) {
	t.Helper()
	prev := systemProbe
	systemProbe = func() SystemStats { return stats }
	t.Cleanup(func() { systemProbe = prev })
}

func TestMonitor_HealthyWithNoSources(t *testing.T) {
	withFakeSystemProbe(t, SystemStats{Available: false})
	m := New(time.Millisecond)
	rep := m.Check()
	if !rep.IsHealthy {
		t.Error("IsHealthy = false with no sources and unavailable system probe, want true")
	}
}

func TestMonitor_UnhealthyWhenQueueFull(t *testing.T) {
	withFakeSystemProbe(t, SystemStats{Available: false})
	m := New(time.Millisecond)
	m.Register(&fakeSource{name: "file", queueSize: 100, queueCapacity: 100, memoryHealthy: true})

	rep := m.Check()
	if rep.IsHealthy {
		t.Error("IsHealthy = true with a full queue, want false")
	}
}

func TestMonitor_UnhealthyAboveErrorThreshold(t *testing.T) {
	withFakeSystemProbe(t, SystemStats{Available: false})
	m := New(time.Millisecond)
	m.Register(&fakeSource{name: "file", errorCount: DefaultErrorThreshold, memoryHealthy: true})

	rep := m.Check()
	if rep.IsHealthy {
		t.Error("IsHealthy = true at error threshold, want false")
	}
}

func TestMonitor_UnhealthyAboveDroppedThreshold(t *testing.T) {
	withFakeSystemProbe(t, SystemStats{Available: false})
	m := New(time.Millisecond)
	m.Register(&fakeSource{name: "file", droppedCount: DefaultDroppedThreshold, memoryHealthy: true})

	rep := m.Check()
	if rep.IsHealthy {
		t.Error("IsHealthy = true at dropped threshold, want false")
	}
}

func TestMonitor_UnhealthyAboveCriticalMemory(t *testing.T) {
	withFakeSystemProbe(t, SystemStats{Available: true, MemoryPercent: 95.0})
	m := New(time.Millisecond)
	rep := m.Check()
	if rep.IsHealthy {
		t.Error("IsHealthy = true above critical system memory, want false")
	}
}

func TestMonitor_CachesWithinInterval(t *testing.T) {
	calls := 0
	systemProbe = func() SystemStats { calls++; return SystemStats{Available: false} }
	t.Cleanup(func() { systemProbe = func() SystemStats { return SystemStats{Available: false} } })

	m := New(time.Hour)
	m.Check()
	m.Check()
	m.Check()

	if calls != 1 {
		t.Errorf("systemProbe called %d times, want 1 (cached within interval)", calls)
	}
}

func TestMonitor_Unregister(t *testing.T) {
	withFakeSystemProbe(t, SystemStats{Available: false})
	m := New(time.Millisecond)
	src := &fakeSource{name: "file", queueSize: 100, queueCapacity: 100, memoryHealthy: true}
	m.Register(src)
	m.Unregister(src)

	rep := m.Check()
	if len(rep.Handlers) != 0 {
		t.Errorf("len(Handlers) = %d after Unregister, want 0", len(rep.Handlers))
	}
	if !rep.IsHealthy {
		t.Error("IsHealthy = false after removing the unhealthy source, want true")
	}
}
