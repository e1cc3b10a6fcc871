package health

import (
	"sync"
	"time"

	gopsutilcpu "github.com/shirou/gopsutil/v3/cpu"
	gopsutilmem "github.com/shirou/gopsutil/v3/mem"
	gopsutilprocess "github.com/shirou/gopsutil/v3/process"
)

// Source is implemented by anything Monitor can aggregate a health
// signal from — FileHandler and ConsoleHandler implement it.
type Source interface {
	Name() string
	QueueSize() int
	QueueCapacity() int
	ErrorCount() uint64
	DroppedCount() uint64
	MemoryHealthy() bool
}

// SystemStats carries the process/system-level metrics the spec's
// health surface documents as "when available".
type SystemStats struct {
	CPUPercent        float64
	MemoryPercent     float64
	ProcessMemoryMB   float64
	ProcessCPUPercent float64
	Available         bool
}

// CriticalMemoryPercent and CriticalCPUPercent are the hard ceilings
// beyond which the aggregate is considered unhealthy regardless of
// per-handler signals, matching the spec's documented defaults.
const (
	CriticalMemoryPercent   = 90.0
	CriticalCPUPercent      = 95.0
	DefaultErrorThreshold   = 100
	DefaultDroppedThreshold = 100
)

// HandlerStatus is the per-handler slice of the aggregated report.
type HandlerStatus struct {
	Name          string
	QueueSize     int
	QueueCapacity int
	ErrorCount    uint64
	DroppedCount  uint64
	MemoryHealthy bool
}

// Report is the spec's health/metrics surface: uptime, an overall
// is_healthy verdict, per-handler detail, and system metrics when the
// underlying probe succeeds.
type Report struct {
	Uptime    time.Duration
	IsHealthy bool
	Handlers  []HandlerStatus
	System    SystemStats
}

// Monitor aggregates Source signals and caches the resulting Report for
// check_interval (default 1s) so repeated health-endpoint scrapes don't
// re-walk every handler and re-probe the system on every call.
type Monitor struct {
	start            time.Time
	checkInterval    time.Duration
	errorThreshold   uint64
	droppedThreshold uint64

	mu      sync.Mutex
	sources []Source
	lastAt  time.Time
	lastRep Report
}

// New returns a Monitor whose uptime clock starts now.
func New(checkInterval time.Duration) *Monitor {
	if checkInterval <= 0 {
		checkInterval = time.Second
	}
	return &Monitor{
		start:            time.Now(),
		checkInterval:    checkInterval,
		errorThreshold:   DefaultErrorThreshold,
		droppedThreshold: DefaultDroppedThreshold,
	}
}

// Register adds a Source to be included in future Check calls.
func (m *Monitor) Register(s Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = append(m.sources, s)
}

// Unregister removes a previously registered Source, if present.
func (m *Monitor) Unregister(s Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.sources {
		if existing == s {
			m.sources = append(m.sources[:i], m.sources[i+1:]...)
			return
		}
	}
}

// systemProbe is overridable by tests; production code reads live
// system/process stats via gopsutil.
var systemProbe = func() SystemStats {
	cpuPercents, cpuErr := gopsutilcpu.Percent(0, false)
	vmem, memErr := gopsutilmem.VirtualMemory()
	proc, procErr := gopsutilprocess.NewProcess(int32(processPID()))

	if cpuErr != nil || memErr != nil || procErr != nil || len(cpuPercents) == 0 {
		return SystemStats{Available: false}
	}

	procMemInfo, memInfoErr := proc.MemoryInfo()
	procCPU, procCPUErr := proc.CPUPercent()
	if memInfoErr != nil || procCPUErr != nil {
		return SystemStats{
			CPUPercent:    cpuPercents[0],
			MemoryPercent: vmem.UsedPercent,
			Available:     true,
		}
	}

	return SystemStats{
		CPUPercent:        cpuPercents[0],
		MemoryPercent:     vmem.UsedPercent,
		ProcessMemoryMB:   float64(procMemInfo.RSS) / (1024 * 1024),
		ProcessCPUPercent: procCPU,
		Available:         true,
	}
}

// Check returns the cached Report, recomputing it if check_interval has
// elapsed since the last call.
func (m *Monitor) Check() Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if now.Sub(m.lastAt) < m.checkInterval && !m.lastAt.IsZero() {
		return m.lastRep
	}
	m.lastAt = now

	system := systemProbe()

	statuses := make([]HandlerStatus, 0, len(m.sources))
	healthy := true
	for _, s := range m.sources {
		st := HandlerStatus{
			Name:          s.Name(),
			QueueSize:     s.QueueSize(),
			QueueCapacity: s.QueueCapacity(),
			ErrorCount:    s.ErrorCount(),
			DroppedCount:  s.DroppedCount(),
			MemoryHealthy: s.MemoryHealthy(),
		}
		statuses = append(statuses, st)

		if st.ErrorCount >= m.errorThreshold {
			healthy = false
		}
		if st.DroppedCount >= m.droppedThreshold {
			healthy = false
		}
		if st.QueueCapacity > 0 && st.QueueSize >= st.QueueCapacity {
			healthy = false
		}
		if !st.MemoryHealthy {
			healthy = false
		}
	}

	if system.Available {
		if system.MemoryPercent >= CriticalMemoryPercent {
			healthy = false
		}
		if system.CPUPercent >= CriticalCPUPercent {
			healthy = false
		}
	}

	rep := Report{
		Uptime:    now.Sub(m.start),
		IsHealthy: healthy,
		Handlers:  statuses,
		System:    system,
	}
	m.lastRep = rep
	return rep
}
