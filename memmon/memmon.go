package memmon

import (
	"sync"
	"time"

	"github.com/pbnjay/memory"
)

// Stats is a point-in-time snapshot of a Monitor's counters.
type Stats struct {
	CurrentPercent float64
	PeakPercent    float64
	ProbeCount     uint64
	WarningCount   uint64
	ProbeErrors    uint64
}

// Monitor is a cached system-memory probe with hysteresis warning
// behavior: once the measured percentage crosses MaxPercent, exactly one
// warning fires, and no further warning fires until the percentage falls
// back below the threshold.
type Monitor struct {
	maxPercent    float64
	checkInterval time.Duration
	onWarning     func(percent float64)

	mu             sync.Mutex
	lastCheck      time.Time
	lastResult     bool
	currentPercent float64
	peakPercent    float64
	probeCount     uint64
	warningCount   uint64
	probeErrors    uint64
	aboveThreshold bool
}

// New returns a Monitor that treats maxPercent (0, 100) as the unhealthy
// threshold and caches probe results for checkInterval. onWarning, if
// non-nil, is invoked (synchronously, under no lock) the first time a
// check crosses above maxPercent; it is not invoked again until a
// subsequent check observes the percentage back below the threshold.
func New(maxPercent float64, checkInterval time.Duration, onWarning func(percent float64)) *Monitor {
	if maxPercent <= 0 {
		maxPercent = 70.0
	}
	if checkInterval <= 0 {
		checkInterval = 5 * time.Second
	}
	return &Monitor{
		maxPercent:    maxPercent,
		checkInterval: checkInterval,
		onWarning:     onWarning,
	}
}

// probe reads live system memory usage as a percentage. Defined as a
// variable so tests can substitute a deterministic fake.
var probe = func() (percent float64, ok bool) {
	total := memory.TotalMemory()
	free := memory.FreeMemory()
	if total == 0 {
		return 0, false
	}
	used := total - free
	return float64(used) / float64(total) * 100.0, true
}

// Check reports whether memory usage is currently healthy (below
// maxPercent). Results are cached for checkInterval. A probe failure is
// treated as healthy (fail-open) and counted separately in Stats.
func (m *Monitor) Check() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if now.Sub(m.lastCheck) < m.checkInterval && !m.lastCheck.IsZero() {
		return m.lastResult
	}
	m.lastCheck = now

	percent, ok := probe()
	m.probeCount++
	if !ok {
		m.probeErrors++
		m.lastResult = true
		return true
	}

	m.currentPercent = percent
	if percent > m.peakPercent {
		m.peakPercent = percent
	}

	healthy := percent < m.maxPercent
	if !healthy && !m.aboveThreshold {
		m.aboveThreshold = true
		m.warningCount++
		if m.onWarning != nil {
			cb := m.onWarning
			m.mu.Unlock()
			cb(percent)
			m.mu.Lock()
		}
	} else if healthy {
		m.aboveThreshold = false
	}

	m.lastResult = healthy
	return healthy
}

// Stats returns a snapshot of the monitor's running counters.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		CurrentPercent: m.currentPercent,
		PeakPercent:    m.peakPercent,
		ProbeCount:     m.probeCount,
		WarningCount:   m.warningCount,
		ProbeErrors:    m.probeErrors,
	}
}
