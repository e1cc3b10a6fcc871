package health

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts a Monitor into a prometheus.Collector so Hydra-Logger's
// own health can be scraped alongside an application's other metrics.
type Collector struct {
	monitor *Monitor

	healthy       *prometheus.Desc
	uptime        *prometheus.Desc
	queueSize     *prometheus.Desc
	queueCapacity *prometheus.Desc
	errorCount    *prometheus.Desc
	droppedCount  *prometheus.Desc
}

// NewCollector wraps monitor for Prometheus registration.
func NewCollector(monitor *Monitor) *Collector {
	return &Collector{
		monitor: monitor,
		healthy: prometheus.NewDesc(
			"hydra_logger_healthy", "Whether the logger's aggregate health check currently passes.", nil, nil),
		uptime: prometheus.NewDesc(
			"hydra_logger_uptime_seconds", "Seconds since the HealthMonitor was created.", nil, nil),
		queueSize: prometheus.NewDesc(
			"hydra_logger_handler_queue_size", "Current number of entries queued for a handler.", []string{"handler"}, nil),
		queueCapacity: prometheus.NewDesc(
			"hydra_logger_handler_queue_capacity", "Configured capacity of a handler's queue.", []string{"handler"}, nil),
		errorCount: prometheus.NewDesc(
			"hydra_logger_handler_errors_total", "Errors recorded by a handler's ErrorTracker.", []string{"handler"}, nil),
		droppedCount: prometheus.NewDesc(
			"hydra_logger_handler_dropped_total", "Entries dropped by a handler's queue.", []string{"handler"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.healthy
	ch <- c.uptime
	ch <- c.queueSize
	ch <- c.queueCapacity
	ch <- c.errorCount
	ch <- c.droppedCount
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	report := c.monitor.Check()

	healthyVal := 0.0
	if report.IsHealthy {
		healthyVal = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.healthy, prometheus.GaugeValue, healthyVal)
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, report.Uptime.Seconds())

	for _, h := range report.Handlers {
		ch <- prometheus.MustNewConstMetric(c.queueSize, prometheus.GaugeValue, float64(h.QueueSize), h.Name)
		ch <- prometheus.MustNewConstMetric(c.queueCapacity, prometheus.GaugeValue, float64(h.QueueCapacity), h.Name)
		ch <- prometheus.MustNewConstMetric(c.errorCount, prometheus.CounterValue, float64(h.ErrorCount), h.Name)
		ch <- prometheus.MustNewConstMetric(c.droppedCount, prometheus.CounterValue, float64(h.DroppedCount), h.Name)
	}
}
