package kernel

// createTask implements kernel_create_task: allocate a descriptor from the
// free-list (or, for the reserved idle level, use the reserved slot),
// initialize it, and insert it into its level's container. It is shared by
// the pre-Run bootstrap path (Kernel.CreateSystem et al., called before Run
// starts the dispatch loop) and the reqCreate request path (handleRequest),
// since neither needs anything the other doesn't already provide.
//
// Returns the new task's id, or 0 on failure (free-list exhausted, or wcet >
// period) after raising the matching FatalError — the failure sentinel
// spec.md documents for create_system/create_rr/create_periodic, kept even
// though a panic would be more idiomatic Go, because "0 means failure" is a
// public contract this kernel promises to match exactly.
func (k *Kernel) createTask(args createArgs) int {
	if args.level == LevelPeriodic && args.wcet > args.period {
		k.raise(ErrWCETGreaterThanPeriod, 0)
		return 0
	}

	var t *taskDescriptor
	if args.level == LevelIdle {
		t = k.idle
	} else {
		t = k.freeList.dequeue()
		if t == nil {
			k.raise(ErrTooManyTasks, 0)
			return 0
		}
	}

	k.nextID++
	t.id = k.nextID
	t.entry = args.entry
	t.arg = args.arg
	t.level = args.level
	t.state = StateReady
	t.period = args.period
	t.wcet = args.wcet
	t.countdown = args.start
	t.pendingValue = 0
	t.started = false
	t.resumeCh = make(chan int16, 1)

	switch args.level {
	case LevelSystem:
		k.systemQueue.enqueue(t)
	case LevelPeriodic:
		k.periodicList.append(t)
	case LevelRR:
		k.rrQueue.enqueue(t)
	case LevelIdle:
		// idle is never queued; pickNext falls back to it explicitly.
	}

	k.metrics.tasksCreated.Add(1)
	k.logf(LevelInfo, t.id, "task created level=%s", args.level)
	return t.id
}

// terminateTask implements kernel_terminate_task: mark the descriptor dead,
// remove it from the periodic list if applicable, and return it to the
// free-list. The idle task is exempt (it is never terminated, per data
// model invariant 5).
func (k *Kernel) terminateTask(t *taskDescriptor) {
	if t == k.idle {
		return
	}
	t.state = StateDead
	if t.level == LevelPeriodic {
		k.periodicList.remove(t)
	}
	k.metrics.tasksTerminated.Add(1)
	k.logf(LevelInfo, t.id, "task terminated")
	k.freeList.enqueue(t)
}
