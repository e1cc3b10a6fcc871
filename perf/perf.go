package perf

import (
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// Defaults matching the original AsyncPerformanceMonitor's constructor
// and alert_thresholds.
const (
	DefaultMaxHistory    = 1000
	DefaultSlowThreshold = time.Second

	alertWindow            = 5 * time.Minute
	maxRecentAlertsAllowed = 10
	recentSamplesKept      = 10
)

// Alert records a single slow-operation event.
type Alert struct {
	At        time.Time
	Operation string
	Duration  time.Duration
	Threshold time.Duration
}

// OperationStats summarizes one operation's recorded timing history.
type OperationStats struct {
	Count   uint64
	Total   time.Duration
	Average time.Duration
	Median  time.Duration
	Min     time.Duration
	Max     time.Duration
	StdDev  time.Duration
	Recent  []time.Duration
}

// Monitor times named operations and reports summary statistics and a
// health verdict, the Go port of the original's AsyncPerformanceMonitor.
// A Monitor is owned by a single AsyncHydraLogger rather than shared as
// a package-level global.
type Monitor struct {
	mu            sync.Mutex
	startedAt     time.Time
	maxHistory    int
	slowThreshold time.Duration
	timings       map[string][]time.Duration
	counters      map[string]uint64
	alerts        []Alert
}

// New returns a Monitor ready to record timing samples.
func New() *Monitor {
	return &Monitor{
		startedAt:     time.Now(),
		maxHistory:    DefaultMaxHistory,
		slowThreshold: DefaultSlowThreshold,
		timings:       make(map[string][]time.Duration),
		counters:      make(map[string]uint64),
	}
}

// Start begins timing operation, incrementing its call counter, and
// returns the start time to hand to End.
func (m *Monitor) Start(operation string) time.Time {
	m.mu.Lock()
	m.counters[operation]++
	m.mu.Unlock()
	return time.Now()
}

// End records the duration since start for operation, raising a
// slow-operation alert if it exceeds the configured threshold.
func (m *Monitor) End(operation string, start time.Time) time.Duration {
	d := time.Since(start)

	m.mu.Lock()
	hist := append(m.timings[operation], d)
	if len(hist) > m.maxHistory {
		hist = hist[len(hist)-m.maxHistory:]
	}
	m.timings[operation] = hist

	if d > m.slowThreshold {
		m.alerts = append(m.alerts, Alert{
			At:        time.Now(),
			Operation: operation,
			Duration:  d,
			Threshold: m.slowThreshold,
		})
	}
	m.mu.Unlock()

	return d
}

// Sample times fn as a single operation, for callers that prefer one
// call over a Start/End pair.
func (m *Monitor) Sample(operation string, fn func()) {
	start := m.Start(operation)
	fn()
	m.End(operation, start)
}

// Statistics returns per-operation timing summaries — the Go shape of
// get_async_statistics(). The slow-operation alert count is reported
// separately by AlertCount.
func (m *Monitor) Statistics() map[string]OperationStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	ops := make(map[string]OperationStats, len(m.timings))
	for op, durations := range m.timings {
		if len(durations) == 0 {
			continue
		}
		ops[op] = summarize(durations)
	}
	return ops
}

// Counters returns a snapshot copy of per-operation call counts.
func (m *Monitor) Counters() map[string]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]uint64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}

// AlertCount returns the total number of slow-operation alerts raised
// since the Monitor was created or last Reset.
func (m *Monitor) AlertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.alerts)
}

// Uptime returns how long this Monitor has been collecting samples.
func (m *Monitor) Uptime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startedAt)
}

// IsHealthy reports whether performance is healthy: unhealthy when more
// than maxRecentAlertsAllowed slow-operation alerts fired within the
// trailing alertWindow, matching is_performance_healthy()'s recent-
// alert check (the original's memory-snapshot half of that check has no
// equivalent here — see perf package doc and DESIGN.md: memmon/health
// already cover live memory probing).
func (m *Monitor) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-alertWindow)
	recent := 0
	for _, a := range m.alerts {
		if a.At.After(cutoff) {
			recent++
		}
	}
	return recent <= maxRecentAlertsAllowed
}

// Reset clears all recorded timings, counters, and alerts.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings = make(map[string][]time.Duration)
	m.counters = make(map[string]uint64)
	m.alerts = nil
	m.startedAt = time.Now()
}

func summarize(durations []time.Duration) OperationStats {
	data := make(stats.Float64Data, len(durations))
	var total time.Duration
	minD, maxD := durations[0], durations[0]
	for i, d := range durations {
		data[i] = float64(d)
		total += d
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}

	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	stddev, _ := stats.StandardDeviation(data)

	recent := durations
	if len(recent) > recentSamplesKept {
		recent = recent[len(recent)-recentSamplesKept:]
	}

	return OperationStats{
		Count:   uint64(len(durations)),
		Total:   total,
		Average: time.Duration(mean),
		Median:  time.Duration(median),
		Min:     minD,
		Max:     maxD,
		StdDev:  time.Duration(stddev),
		Recent:  append([]time.Duration(nil), recent...),
	}
}
