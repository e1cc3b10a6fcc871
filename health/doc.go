// Package health aggregates liveness, queue, memory, and error signals
// into a single status surface (the spec's HealthMonitor) and exposes it
// both as a plain Go struct and, via Collector, as a prometheus.Collector
// so an application can scrape Hydra-Logger's own health through the
// same /metrics endpoint it already runs.
package health
