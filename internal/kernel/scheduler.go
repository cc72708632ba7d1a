package kernel

// This file implements C7 (scheduler policy): pickNext realizes
// kernel_dispatch plus kernel_find_periodic, and handleRequest realizes
// kernel_handle_request's switch over every requestKind.

// pickNext chooses the next task to run and assigns it to k.current. If the
// currently running task is still RUNNING (it was not preempted, terminated,
// or blocked by the last handled request), it keeps the CPU — the idle task
// is the one exception, since idle must always be re-evaluated in case
// something else became ready while it was consuming a tick.
//
// Priority order otherwise is: any ready SYSTEM task, else the one PERIODIC
// task (if any) whose countdown has reached zero, else any ready RR task,
// else idle.
func (k *Kernel) pickNext() {
	if k.current != nil && k.current.state == StateRunning && k.current != k.idle {
		return
	}

	if !k.systemQueue.empty() {
		t := k.systemQueue.dequeue()
		t.state = StateRunning
		k.current = t
		return
	}

	var found *taskDescriptor
	collision := false
	for t := k.periodicList.head; t != nil; t = t.next {
		if t.countdown <= 0 {
			if found != nil {
				collision = true
				break
			}
			found = t
		}
	}
	if collision {
		k.raise(ErrPeriodicCollision, 0)
		return
	}
	if found != nil {
		found.state = StateRunning
		found.countdown += found.period
		k.current = found
		k.ticksRemaining = found.wcet
		k.metrics.periodicReleases.Add(1)
		return
	}

	if !k.rrQueue.empty() {
		t := k.rrQueue.dequeue()
		t.state = StateRunning
		k.current = t
		return
	}

	k.idle.state = StateRunning
	k.current = k.idle
}

// handleRequest applies the effect of whatever trap req describes. It is
// only ever called from Run's loop, i.e. on the single kernel goroutine, so
// every container and task-state mutation here is race-free by construction.
func (k *Kernel) handleRequest(req request) {
	cur := req.task

	switch req.kind {
	case reqTimerExpired:
		k.clock.advance()
		k.metrics.ticksProcessed.Add(1)

		for t := k.periodicList.head; t != nil; t = t.next {
			t.countdown--
			// A release falling due while a different periodic is the one
			// running is a collision.
			if t.countdown <= 0 && t != cur && cur.level == LevelPeriodic {
				k.raise(ErrPeriodicCollision, 0)
				return
			}
		}

		collisions := 0
		for t := k.periodicList.head; t != nil; t = t.next {
			if t.countdown <= 0 {
				collisions++
			}
		}
		if collisions > 1 {
			k.raise(ErrPeriodicCollision, 0)
			return
		}

		// Every non-SYSTEM tick is charged against the slot budget; only a
		// PERIODIC task can overrun it.
		if cur.level != LevelSystem {
			k.ticksRemaining--
			if cur.level == LevelPeriodic && k.ticksRemaining <= 0 {
				k.raise(ErrPeriodicOverran, cur.id)
				return
			}
		}

		// Ticks only ever force a scheduling decision for RR tasks; SYSTEM
		// and PERIODIC tasks run to completion (their own yield/terminate,
		// or a WCET overrun) once dispatched.
		if cur.level == LevelRR {
			cur.state = StateReady
			k.rrQueue.enqueue(cur)
		}

	case reqCreate:
		id := k.createTask(req.create)
		cur.pendingValue = int16(id)
		if k.fatalErr != nil {
			return
		}
		if id != 0 {
			k.demoteForCreate(cur, req.create)
		}

	case reqTerminate:
		k.terminateTask(cur)

	case reqYield:
		cur.state = StateReady
		switch cur.level {
		case LevelSystem:
			k.systemQueue.enqueue(cur)
		case LevelRR:
			k.rrQueue.enqueue(cur)
		case LevelPeriodic:
			// Released early: stays un-queued. pickNext won't reselect it
			// until its countdown reaches zero again on a future tick.
		}

	case reqSubscribe:
		if cur.level == LevelPeriodic {
			k.raise(ErrPeriodicSubscribed, cur.id)
			return
		}
		cur.state = StateWaiting
		k.services[req.service].subscribers.enqueue(cur)

	case reqPublish:
		k.publishTo(cur, ServiceHandle(req.service), req.value)

	case reqAbort:
		k.raise(req.abortCode, cur.id)

	default:
		k.raise(ErrInternal, cur.id)
	}
}
