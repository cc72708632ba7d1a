package kernel

import "context"

// Kernel is the whole scheduler: a fixed task pool, the containers that
// classify every task by readiness, and the single requestCh handshake
// point every trap and tick passes through. There is exactly one Kernel
// goroutine that ever mutates this struct's fields after New returns — the
// one running Run's loop — matching data model invariant 1's "exactly one
// RUNNING task" by construction: everything else either blocks on its own
// resumeCh or is plain data guarded by never being touched off that one
// goroutine.
type Kernel struct {
	cfg Config

	tasks  []taskDescriptor
	idle   *taskDescriptor
	nextID int

	freeList     queue
	systemQueue  queue
	rrQueue      queue
	periodicList list

	services     []Service
	serviceCount int

	current        *taskDescriptor
	ticksRemaining int32

	requestCh chan request
	clock     *clock

	metrics  Metrics
	fatalErr *FatalError
}

// New allocates a Kernel with a fixed pool of cfg.MaxTasks task descriptors
// (plus one reserved for idle) and cfg.MaxServices service descriptors, and
// wires them into their initial containers, mirroring the original's static
// arrays. After New, task creation allocates only a fresh resume channel per
// task (see createTask) and each task's goroutine on its first dispatch.
func New(cfg Config) *Kernel {
	cfg = cfg.normalized()

	k := &Kernel{
		cfg:          cfg,
		tasks:        make([]taskDescriptor, cfg.MaxTasks+1),
		services:     make([]Service, cfg.MaxServices),
		requestCh:    make(chan request),
		clock:        newClock(),
		freeList:     newQueue(containerFreeList),
		systemQueue:  newQueue(containerSystemQueue),
		rrQueue:      newQueue(containerRRQueue),
		periodicList: newList(containerPeriodicList),
	}

	for i := range k.tasks[:cfg.MaxTasks] {
		k.tasks[i].resumeCh = make(chan int16, 1)
		k.freeList.enqueue(&k.tasks[i])
	}

	k.idle = &k.tasks[cfg.MaxTasks]
	k.idle.resumeCh = make(chan int16, 1)
	k.idle.level = LevelIdle
	k.idle.state = StateReady

	return k
}

// Metrics returns the kernel's live counters.
func (k *Kernel) Metrics() MetricsSnapshot { return k.metrics.Snapshot() }

// Err returns the terminal FatalError once the kernel has halted, or nil
// while it is still running.
func (k *Kernel) Err() *FatalError { return k.fatalErr }

// Run starts the dispatch loop: appMain becomes the first SYSTEM task (the
// Go analogue of the original's single statically-declared entry task), the
// idle task spends its time draining wall-clock ticks, and Run blocks,
// context-switching between tasks, until a FatalError is raised or ctx is
// cancelled.
//
// There is no graceful-shutdown path beyond ctx cancellation stopping the
// clock and Run's own loop check — a task parked mid-trap inside requestCh
// or resumeCh is not itself cancellable, matching the original, which has
// no notion of stopping the kernel short of a fatal condition either.
func (k *Kernel) Run(ctx context.Context, appMain func(*TaskContext)) error {
	k.idle.entry = func(tc *TaskContext) {
		for tc.Tick(ctx) == nil {
		}
	}

	if id := k.createTask(createArgs{entry: appMain, level: LevelSystem}); id == 0 {
		return k.fatalErr
	}

	go k.clock.runClock(ctx, k.cfg.TickInterval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		k.pickNext()
		if k.fatalErr != nil {
			return k.fatalErr
		}

		req := k.dispatchTo(k.current)
		k.handleRequest(req)
		if k.fatalErr != nil {
			return k.fatalErr
		}
	}
}
