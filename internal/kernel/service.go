package kernel

// Service is a fixed-pool rendezvous object: Subscribe blocks the calling
// task until the next Publish, which delivers the same 16-bit value to
// every task currently subscribed and wakes them all. There is no
// buffering — a subscriber that arrives after a publish misses it, exactly
// as spec.md section 4.9 describes.
type Service struct {
	subscribers queue
}

// ServiceHandle is the stable handle ServiceInit returns.
type ServiceHandle int

// initService implements Service_Init for both the pre-Run bootstrap path
// and the (currently unused, but supported for symmetry) case of a task
// initializing a service for another task to discover via shared state.
// Unlike task creation, service initialization needs no kernel-state
// mutation beyond a monotonically growing pool index, so it is safe to call
// directly without trapping through requestCh — mirroring Service_Init in
// the original, which likewise never calls enter_kernel.
func (k *Kernel) initService() ServiceHandle {
	if k.serviceCount >= len(k.services) {
		k.raise(ErrTooManyServices, 0)
		return -1
	}
	h := ServiceHandle(k.serviceCount)
	k.services[h] = Service{subscribers: newQueue(containerServiceQueue)}
	k.serviceCount++
	return h
}

// publishTo implements Service_Publish's drain-and-wake half. It is called
// from handleRequest (reqPublish), i.e. always on the kernel goroutine, so
// mutating the subscriber queue and the woken tasks' ready queues is safe
// without further synchronization.
//
// The original drains subscribers and, only if it woke a SYSTEM task while
// the publisher itself isn't SYSTEM, makes a second call into the kernel
// (kernel_interrupt_task) so the publisher yields immediately to the new
// SYSTEM waiter. This kernel has no second call-stack boundary to spend on
// that — reqPublish is already a trap — so the interrupt is instead applied
// inline, to the same cur_task, within this same handler call, by
// applyInterrupt. The externally observable effect (scenario 5 in
// spec.md §8: the publisher does not run again until the woken SYSTEM
// waiter does) is identical.
func (k *Kernel) publishTo(cur *taskDescriptor, h ServiceHandle, value int16) {
	svc := &k.services[h]
	interrupt := false
	for {
		sub := svc.subscribers.dequeue()
		if sub == nil {
			break
		}
		if sub.state != StateWaiting {
			continue
		}
		sub.pendingValue = value
		sub.state = StateReady
		switch sub.level {
		case LevelSystem:
			if cur.level != LevelSystem {
				interrupt = true
			}
			k.systemQueue.pushFront(sub)
		case LevelRR:
			k.rrQueue.pushFront(sub)
		default:
			k.raise(ErrPeriodicFoundSubscribed, sub.id)
			return
		}
	}
	k.metrics.servicesPublished.Add(1)
	k.logf(LevelDebug, cur.id, "published to service %d", h)
	if interrupt {
		k.applyInterrupt(cur)
	}
}

// applyInterrupt implements the TASK_INTERRUPT request kind from spec.md
// section 4.7, exactly as os.c:350 does it: demote cur (if it is not
// SYSTEM) so the scheduler re-evaluates who should run next, pushing an RR
// cur onto the *front* of rrQueue — it just woke a higher-priority waiter
// and should run again as soon as that waiter yields the CPU, ahead of
// whatever RR tasks were already queued, not behind them.
func (k *Kernel) applyInterrupt(cur *taskDescriptor) {
	if cur.state != StateRunning || cur.level == LevelSystem {
		return
	}
	cur.state = StateReady
	if cur.level == LevelPeriodic {
		cur.countdown -= cur.period
		k.ticksRemaining++
	} else {
		k.rrQueue.pushFront(cur)
	}
}

// demoteForCreate implements the TASK_CREATE demotion rule from spec.md
// section 4.7 / os.c:304-325: unlike applyInterrupt's TASK_INTERRUPT case,
// creating a task does NOT demote cur in general — only in the two specific
// cases the original checks: the newcomer is SYSTEM and cur isn't, or cur is
// RR and the newcomer is a zero-start PERIODIC (released the instant it's
// created). Everything else (an RR task creating another RR or a delayed
// PERIODIC, a PERIODIC task creating anything, etc.) leaves cur running
// uninterrupted. When demotion does apply, cur goes to the *back* of
// rrQueue, via plain enqueue — os.c's TASK_CREATE branch uses the ordinary
// queueing call, not push_queue.
func (k *Kernel) demoteForCreate(cur *taskDescriptor, newcomer createArgs) {
	if cur.state != StateRunning || cur.level == LevelSystem {
		return
	}
	switch {
	case newcomer.level == LevelSystem:
	case cur.level == LevelRR && newcomer.level == LevelPeriodic && newcomer.start == 0:
	default:
		return
	}
	cur.state = StateReady
	if cur.level == LevelPeriodic {
		cur.countdown -= cur.period
		k.ticksRemaining++
	} else {
		k.rrQueue.enqueue(cur)
	}
}
