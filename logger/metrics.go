package logger

import "time"

// GetHealthStatus returns the spec's health/metrics surface: uptime,
// an overall is_healthy verdict, per-handler detail, and system metrics
// when available.
func (l *AsyncHydraLogger) GetHealthStatus() map[string]any {
	report := l.health.Check()

	handlers := make(map[string]any, len(report.Handlers))
	for _, hs := range report.Handlers {
		handlers[hs.Name] = map[string]any{
			"queue_size":     hs.QueueSize,
			"queue_capacity": hs.QueueCapacity,
			"error_count":    hs.ErrorCount,
			"dropped_count":  hs.DroppedCount,
			"memory_healthy": hs.MemoryHealthy,
		}
	}

	status := map[string]any{
		"uptime":     report.Uptime.Seconds(),
		"is_healthy": report.IsHealthy,
		"handlers":   handlers,
	}
	if report.System.Available {
		status["system"] = map[string]any{
			"cpu_percent":         report.System.CPUPercent,
			"memory_percent":      report.System.MemoryPercent,
			"process_memory_mb":   report.System.ProcessMemoryMB,
			"process_cpu_percent": report.System.ProcessCPUPercent,
		}
	}
	return status
}

// GetPerformanceMetrics returns the logger's own timing statistics —
// per-operation call counts, duration summaries, and slow-operation
// alert counts gathered by its perf.Monitor — plus the error tally,
// independent of any single handler's health.
func (l *AsyncHydraLogger) GetPerformanceMetrics() map[string]any {
	ops := make(map[string]any, 1)
	for op, st := range l.perf.Statistics() {
		ops[op] = map[string]any{
			"count":          st.Count,
			"total_seconds":  st.Total.Seconds(),
			"average_ms":     float64(st.Average.Microseconds()) / 1000,
			"median_ms":      float64(st.Median.Microseconds()) / 1000,
			"min_ms":         float64(st.Min.Microseconds()) / 1000,
			"max_ms":         float64(st.Max.Microseconds()) / 1000,
			"stddev_ms":      float64(st.StdDev.Microseconds()) / 1000,
			"recent_samples": len(st.Recent),
		}
	}

	status := map[string]any{
		"uptime_seconds": l.perf.Uptime().Seconds(),
		"operations":     ops,
		"counters":       l.perf.Counters(),
		"alert_count":    l.perf.AlertCount(),
		"total_errors":   l.errs.Total(),
		"errors_by_kind": l.errs.CountsByKind(),
	}
	if kind, err, at, ok := l.errs.Last(); ok {
		status["last_error"] = map[string]any{
			"kind":  kind,
			"error": err.Error(),
			"at":    at.Format(time.RFC3339Nano),
		}
	}
	return status
}

// IsHealthy reports the aggregate health verdict across every
// registered handler and system resource thresholds.
func (l *AsyncHydraLogger) IsHealthy() bool {
	return l.health.Check().IsHealthy
}

// IsPerformanceHealthy reports whether the logger's own recorded
// operation timings are within healthy bounds: few enough recent
// slow-operation alerts, per perf.Monitor.IsHealthy.
func (l *AsyncHydraLogger) IsPerformanceHealthy() bool {
	return l.perf.IsHealthy()
}
