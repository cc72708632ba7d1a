package kernel

import "sync/atomic"

// Metrics holds atomic counters for ambient observability. None of these
// gate or influence scheduling decisions; they exist purely so an embedder
// can answer "is this kernel healthy" without instrumenting every call site
// itself, the same ambient role eventloop.Metrics plays for the event loop.
type Metrics struct {
	contextSwitches   atomic.Uint64
	periodicReleases  atomic.Uint64
	ticksProcessed    atomic.Uint64
	servicesPublished atomic.Uint64
	tasksCreated      atomic.Uint64
	tasksTerminated   atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of Metrics, safe to read without
// further synchronization.
type MetricsSnapshot struct {
	ContextSwitches   uint64
	PeriodicReleases  uint64
	TicksProcessed    uint64
	ServicesPublished uint64
	TasksCreated      uint64
	TasksTerminated   uint64
}

// Snapshot returns a consistent-enough point-in-time copy of m. Individual
// fields may be read a few nanoseconds apart under concurrent updates; that
// is an acceptable tradeoff for a metrics surface, not a correctness issue.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ContextSwitches:   m.contextSwitches.Load(),
		PeriodicReleases:  m.periodicReleases.Load(),
		TicksProcessed:    m.ticksProcessed.Load(),
		ServicesPublished: m.servicesPublished.Load(),
		TasksCreated:      m.tasksCreated.Load(),
		TasksTerminated:   m.tasksTerminated.Load(),
	}
}
