package kernel

import "context"

// This file is C8: every blocking or state-changing call a task's entry
// function can make, plus the Kernel-level equivalents used to bootstrap
// tasks before Run's dispatch loop exists to trap into.

// Yield implements task_yield: give up the remainder of the current slot
// voluntarily. SYSTEM and RR tasks rejoin the back of their own ready
// queue; a PERIODIC task instead simply waits for its next release.
func (tc *TaskContext) Yield() {
	tc.trap(request{kind: reqYield})
}

// Terminate implements task_terminate: end the task permanently and return
// its descriptor to the free pool. It never returns — the call that sends
// reqTerminate blocks on a resumeCh nothing will ever write to again, which
// is fine, since the goroutine driving it is about to fall off the end of
// runTask anyway.
func (tc *TaskContext) Terminate() {
	tc.trap(request{kind: reqTerminate})
}

// GetArg returns the int16 the task was created with. Unlike every other
// call in this file, it needs no trap: arg is immutable after createTask
// sets it, so reading it off the task's own descriptor from the task's own
// goroutine is race-free without going through requestCh.
func (tc *TaskContext) GetArg() int16 {
	return tc.desc.arg
}

// Tick implements the cooperative checkpoint this kernel substitutes for an
// asynchronous timer interrupt: it blocks until a wall-clock tick is
// pending, consumes exactly one, and traps into the kernel so that tick's
// effects (periodic countdown, WCET accounting, RR preemption) are applied
// on the kernel goroutine. Returns ctx.Err() if ctx is done before a tick
// arrives, without trapping.
//
// A task that never calls Tick never cedes the CPU to a timer-driven
// decision; periodic releases and RR preemption both depend on some task,
// somewhere, calling this regularly. The idle task's entire body is a Tick
// loop for exactly this reason — see Kernel.Run.
func (tc *TaskContext) Tick(ctx context.Context) error {
	if err := tc.k.clock.awaitTick(ctx); err != nil {
		return err
	}
	tc.trap(request{kind: reqTimerExpired})
	return nil
}

// Subscribe implements service_subscribe: block until the next Publish to
// h, then return the value it carried. A PERIODIC task may never call this
// (ErrPeriodicSubscribed, fatal) — periodic releases must stay time-driven,
// not rendezvous-driven.
//
// ctx is only checked before trapping in: if it is already done, Subscribe
// returns 0 without waiting. There is no per-call timeout once a task is
// parked waiting for a publish — cancelling ctx mid-wait tears down the
// whole kernel (see Kernel.Run), it does not give this one call a deadline.
func (tc *TaskContext) Subscribe(ctx context.Context, h ServiceHandle) int16 {
	select {
	case <-ctx.Done():
		return 0
	default:
	}
	return tc.trap(request{kind: reqSubscribe, service: int(h)})
}

// Publish implements service_publish: deliver value to every task currently
// subscribed to h and wake them all. If that wakes a SYSTEM task and the
// caller is not itself SYSTEM, the caller is demoted so the woken SYSTEM
// task runs next — see service.go's publishTo/applyInterrupt.
func (tc *TaskContext) Publish(h ServiceHandle, value int16) {
	tc.trap(request{kind: reqPublish, service: int(h), value: value})
}

// Abort implements task_abort: unconditionally halt the kernel with code,
// attributed to the calling task.
func (tc *TaskContext) Abort(code Code) {
	tc.trap(request{kind: reqAbort, abortCode: code})
}

// CreateSystem implements create_system, trapping into the kernel so the
// new task is admitted from the kernel goroutine. Returns the new task's
// id, or 0 if the task pool is exhausted.
func (tc *TaskContext) CreateSystem(entry func(*TaskContext), arg int16) int {
	return int(tc.trap(request{kind: reqCreate, create: createArgs{
		entry: entry, arg: arg, level: LevelSystem,
	}}))
}

// CreateRR implements create_rr.
func (tc *TaskContext) CreateRR(entry func(*TaskContext), arg int16) int {
	return int(tc.trap(request{kind: reqCreate, create: createArgs{
		entry: entry, arg: arg, level: LevelRR,
	}}))
}

// CreatePeriodic implements create_periodic: period and wcet are counts of
// ticks, and start is the countdown (ticks until first release). Fatal
// (ErrWCETGreaterThanPeriod) if wcet > period.
func (tc *TaskContext) CreatePeriodic(entry func(*TaskContext), arg int16, period, wcet, start int32) int {
	return int(tc.trap(request{kind: reqCreate, create: createArgs{
		entry: entry, arg: arg, level: LevelPeriodic,
		period: period, wcet: wcet, start: start,
	}}))
}

// ServiceInit implements service_init, callable from a task the same way
// the original calls it directly, with no enter_kernel — see
// service.go's initService doc comment.
func (tc *TaskContext) ServiceInit() ServiceHandle {
	return tc.k.initService()
}

// Now returns milliseconds since boot, wrapping at 2^16, reading the
// kernel's own clock rather than trapping, since the clock's millis field
// only ever changes inside handleRequest and this is a plain read.
func (tc *TaskContext) Now() uint16 {
	return tc.k.clock.now()
}

// The following are the Kernel-level equivalents used before Run starts the
// dispatch loop, to seed the initial task population — there is no trapping
// task goroutine yet to drive them through requestCh, so they call straight
// into the same helpers the trap handlers use. Calling these after Run has
// started is a race; use the TaskContext methods from inside a task instead.

// CreateSystem is the bootstrap-time equivalent of (*TaskContext).CreateSystem.
func (k *Kernel) CreateSystem(entry func(*TaskContext), arg int16) int {
	return k.createTask(createArgs{entry: entry, arg: arg, level: LevelSystem})
}

// CreateRR is the bootstrap-time equivalent of (*TaskContext).CreateRR.
func (k *Kernel) CreateRR(entry func(*TaskContext), arg int16) int {
	return k.createTask(createArgs{entry: entry, arg: arg, level: LevelRR})
}

// CreatePeriodic is the bootstrap-time equivalent of (*TaskContext).CreatePeriodic.
func (k *Kernel) CreatePeriodic(entry func(*TaskContext), arg int16, period, wcet, start int32) int {
	return k.createTask(createArgs{entry: entry, arg: arg, level: LevelPeriodic, period: period, wcet: wcet, start: start})
}

// ServiceInit is the bootstrap-time equivalent of (*TaskContext).ServiceInit.
func (k *Kernel) ServiceInit() ServiceHandle {
	return k.initService()
}

// Now is the bootstrap/external equivalent of (*TaskContext).Now.
func (k *Kernel) Now() uint16 {
	return k.clock.now()
}
