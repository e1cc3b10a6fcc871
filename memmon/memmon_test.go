package memmon

import (
	"testing"
	"time"
)

func withFakeProbe(t *testing.T, percent float64, ok bool) {
	t.Helper()
	prev := probe
	probe = func() (float64, bool) { return percent, ok }
	t.Cleanup(func() { probe = prev })
}

func TestMonitor_HealthyBelowThreshold(t *testing.T) {
	withFakeProbe(t, 10.0, true)
	m := New(70.0, time.Millisecond, nil)
	if !m.Check() {
		t.Error("Check() = false, want true (healthy)")
	}
}

func TestMonitor_UnhealthyAboveThreshold(t *testing.T) {
	withFakeProbe(t, 90.0, true)
	m := New(70.0, time.Millisecond, nil)
	if m.Check() {
		t.Error("Check() = true, want false (unhealthy)")
	}
}

func TestMonitor_HysteresisSingleWarning(t *testing.T) {
	withFakeProbe(t, 90.0, true)
	var warnings int
	m := New(70.0, time.Millisecond, func(float64) { warnings++ })

	m.Check()
	time.Sleep(2 * time.Millisecond)
	m.Check()
	time.Sleep(2 * time.Millisecond)
	m.Check()

	if warnings != 1 {
		t.Errorf("warnings = %d, want 1 (hysteresis suppresses repeats)", warnings)
	}
}

func TestMonitor_WarningRearmsAfterRecovery(t *testing.T) {
	var warnings int
	m := New(70.0, time.Millisecond, func(float64) { warnings++ })

	withFakeProbe(t, 90.0, true)
	m.Check()
	time.Sleep(2 * time.Millisecond)

	probe = func() (float64, bool) { return 10.0, true }
	m.Check()
	time.Sleep(2 * time.Millisecond)

	probe = func() (float64, bool) { return 90.0, true }
	m.Check()

	if warnings != 2 {
		t.Errorf("warnings = %d, want 2 (one per crossing)", warnings)
	}
}

func TestMonitor_CachesWithinInterval(t *testing.T) {
	calls := 0
	probe = func() (float64, bool) { calls++; return 10.0, true }
	t.Cleanup(func() { probe = func() (float64, bool) { return 0, false } })

	m := New(70.0, time.Hour, nil)
	m.Check()
	m.Check()
	m.Check()

	if calls != 1 {
		t.Errorf("probe called %d times, want 1 (cached within interval)", calls)
	}
}

func TestMonitor_FailsOpenOnProbeError(t *testing.T) {
	withFakeProbe(t, 0, false)
	m := New(70.0, time.Millisecond, nil)
	if !m.Check() {
		t.Error("Check() = false on probe failure, want true (fail-open)")
	}
	if m.Stats().ProbeErrors != 1 {
		t.Errorf("ProbeErrors = %d, want 1", m.Stats().ProbeErrors)
	}
}

func TestMonitor_TracksPeakPercent(t *testing.T) {
	m := New(70.0, time.Millisecond, nil)

	withFakeProbe(t, 50.0, true)
	m.Check()
	time.Sleep(2 * time.Millisecond)

	probe = func() (float64, bool) { return 30.0, true }
	m.Check()

	if got := m.Stats().PeakPercent; got != 50.0 {
		t.Errorf("PeakPercent = %v, want 50.0", got)
	}
}
