package kernel

// This file implements C4 (context switch) in terms of Go channels instead
// of a register-file save/restore; the C6 dispatch loop that drives it is
// Kernel.Run in dispatcher.go. The mapping is direct:
//
//   kernel_to_task (exit_kernel)  -> dispatchTo: grant the CPU token to a
//                                    task by sending on its resumeCh, then
//                                    block receiving the task's next trap
//                                    on requestCh.
//   task_to_kernel (enter_kernel) -> trap: a task sends a request on
//                                    requestCh, then blocks on its own
//                                    resumeCh until the kernel grants it the
//                                    CPU token again.
//
// Both directions are synchronous handshakes, so at any instant at most one
// goroutine is past the handshake and running task-level code — the Go
// realization of "exactly one task has state RUNNING at any time the
// kernel is not executing" (data model invariant 1).

// dispatchTo grants the CPU token to t and blocks until t traps back in.
func (k *Kernel) dispatchTo(t *taskDescriptor) request {
	k.metrics.contextSwitches.Add(1)
	payload := t.pendingValue
	t.pendingValue = 0
	if !t.started {
		t.started = true
		go k.runTask(t)
	}
	t.resumeCh <- payload
	return <-k.requestCh
}

// runTask is the goroutine body backing one task descriptor. It blocks for
// its first grant (the Go analogue of a freshly built stack waiting to be
// resumed for the first time), runs the task's entry, and terminates the
// task if entry ever returns — the Go analogue of the terminator return
// address the original's stack builder places below the entry point.
func (k *Kernel) runTask(t *taskDescriptor) {
	<-t.resumeCh
	tc := &TaskContext{k: k, desc: t}
	t.entry(tc)
	tc.Terminate()
}

// trap is the shared implementation backing every blocking syscall
// trampoline in syscalls.go: it hands the kernel a request describing what
// the calling task wants, then blocks until the kernel grants the CPU token
// again. The returned value is only meaningful for traps that produce one
// (Subscribe's delivered value, CreateX's new id); everything else should
// ignore it.
func (tc *TaskContext) trap(req request) int16 {
	req.task = tc.desc
	tc.k.requestCh <- req
	return <-tc.desc.resumeCh
}
