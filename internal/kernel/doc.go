// Package kernel implements a small pre-emptive real-time kernel for a
// single logical core. It multiplexes a fixed set of user tasks across one
// CPU token under three scheduling disciplines at once — strictly
// prioritized SYSTEM tasks, tick-triggered PERIODIC tasks with a declared
// worst-case execution time, and time-sliced round-robin RR tasks — plus a
// mandatory idle task, and exposes a Service primitive that lets tasks
// block waiting for a value a publisher delivers synchronously to every
// current subscriber.
//
// The kernel never runs more than one task's user code at a time: the
// dispatcher hands a single CPU token to exactly one task goroutine via a
// resume channel, and does not hand out another one until that task traps
// back in through a syscall (Yield, Terminate, Subscribe) or a cooperative
// tick checkpoint (Tick). This reproduces the full-served model of the
// original embedded source (enter_kernel/exit_kernel over a kernel stack)
// without requiring assembly or the ability to suspend an arbitrary running
// goroutine mid-instruction, which Go does not expose to library code.
package kernel
