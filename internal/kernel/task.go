package kernel

import "fmt"

// taskDescriptor is the kernel's record for one task, alive or dead. The
// fixed pool of these (see Kernel.tasks) is the only memory the scheduler
// ever touches for task bookkeeping — after New, the only per-task
// allocations are the fresh resumeCh createTask makes and the goroutine
// started on a task's first dispatch.
type taskDescriptor struct {
	id    int
	level Level
	state State

	entry func(*TaskContext)
	arg   int16

	// resumeCh is the Go analogue of a saved stack pointer: it is the one
	// thing that lets the kernel hand the CPU token back to exactly this
	// task. Its payload also doubles as the return value of whichever trap
	// this task is blocked in (a published value for Subscribe, a new id
	// for CreateX, 0 for everything else).
	resumeCh chan int16
	// pendingValue is written by the kernel before a dispatch that follows
	// a trap expecting a return value, and read by dispatchTo to fill
	// resumeCh.
	pendingValue int16

	// intrusive container links, reused across every container in the
	// kernel (free-list, ready queues, periodic list, service subscriber
	// queues) — see queue.go.
	next, prev *taskDescriptor
	container  container

	// PERIODIC-only fields; zero and unused otherwise.
	period    int32
	wcet      int32
	countdown int32

	// started guards the one-time goroutine spawn on first dispatch.
	started bool
}

// assertDetached panics if t is still linked into a container, catching a
// violation of data model invariant 2 during development. This is the Go
// stand-in for the "interrupts disabled, single-writer" assumption the
// original relies on implicitly: since every container mutation happens on
// the kernel goroutine alone, this should never fire in correct code.
func (t *taskDescriptor) assertDetached() {
	if t.container != containerNone {
		panic(fmt.Sprintf("kernel: task %d already in container %d (invariant 2 violated)", t.id, t.container))
	}
}

// TaskContext is the handle a task's entry function uses to call back into
// the kernel. It is the Go replacement for the implicit "current task"
// global the original addresses via cur_task: every syscall trampoline in
// syscalls.go is a method on this type, so a task can never accidentally
// operate on another task's state.
type TaskContext struct {
	k    *Kernel
	desc *taskDescriptor
}

// ID returns the task's stable identifier.
func (tc *TaskContext) ID() int { return tc.desc.id }

// Level returns the task's scheduling class.
func (tc *TaskContext) Level() Level { return tc.desc.level }
