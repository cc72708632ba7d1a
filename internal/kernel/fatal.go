package kernel

import (
	"fmt"
	"time"
)

// Reporter is the injectable effect the kernel drives when it halts,
// standing in for the original's report_fatal(code) — an opaque
// board-level signalling routine (an LED blink pattern on the real
// hardware) that this library deliberately does not implement, per
// spec.md's scope exclusions. Embedders supply one; cmd/demokernel's
// BlinkReporter is a concrete, terminal-only example.
type Reporter interface {
	Report(err *FatalError)
}

// LogReporter is the default Reporter: it only forwards to the configured
// Logger. A kernel with no Reporter configured still halts correctly; it
// just has no external signal besides the log and Run's return value.
type LogReporter struct {
	Logger Logger
}

// Report implements Reporter.
func (r *LogReporter) Report(err *FatalError) {
	if r.Logger == nil {
		return
	}
	r.Logger.Log(LogEntry{Level: LevelError, TaskID: err.Task, Message: err.Error()})
}

// raise records the kernel's terminal FatalError. It is idempotent: once a
// fatal condition is latched, later calls are ignored, since the dispatcher
// never asks the scheduler for another decision after the first fatal (the
// Go analogue of fatal()'s infinite signalling loop — there is no
// recoverable path back out).
func (k *Kernel) raise(code Code, taskID int) {
	if k.fatalErr != nil {
		return
	}
	err := &FatalError{Code: code, Task: taskID}
	k.fatalErr = err
	k.cfg.Reporter.Report(err)
}

func (k *Kernel) logf(level LogLevel, taskID int, format string, args ...any) {
	if !k.cfg.Logger.IsEnabled(level) {
		return
	}
	k.cfg.Logger.Log(LogEntry{Time: time.Now(), Level: level, TaskID: taskID, Message: fmt.Sprintf(format, args...)})
}
