package kernel

import "fmt"

// Code enumerates the kernel's complete fatal-error taxonomy. There is no
// recoverable error path in this kernel: every Code reaches fatal() exactly
// once, as a FatalError, and scheduling stops permanently.
type Code int8

const (
	// ErrWCETGreaterThanPeriod: a periodic was created with wcet > period.
	ErrWCETGreaterThanPeriod Code = iota + 1
	// ErrTooManyTasks: the free-list was empty on create.
	ErrTooManyTasks
	// ErrTooManyServices: the service pool was exhausted.
	ErrTooManyServices
	// ErrPeriodicOverran: ticksRemaining hit zero while a periodic was running.
	ErrPeriodicOverran
	// ErrPeriodicCollision: two periodics simultaneously had countdown <= 0.
	ErrPeriodicCollision
	// ErrPeriodicSubscribed: a periodic task called Subscribe.
	ErrPeriodicSubscribed
	// ErrPeriodicFoundSubscribed: a publish found a periodic task queued as a subscriber.
	ErrPeriodicFoundSubscribed
	// ErrUserAbort: the application called Abort.
	ErrUserAbort
	// ErrInternal: the dispatcher reached a case that should be unreachable.
	ErrInternal
)

// String implements fmt.Stringer.
func (c Code) String() string {
	switch c {
	case ErrWCETGreaterThanPeriod:
		return "wcet greater than period"
	case ErrTooManyTasks:
		return "too many tasks"
	case ErrTooManyServices:
		return "too many services"
	case ErrPeriodicOverran:
		return "periodic overran its wcet"
	case ErrPeriodicCollision:
		return "periodic collision"
	case ErrPeriodicSubscribed:
		return "periodic task subscribed to a service"
	case ErrPeriodicFoundSubscribed:
		return "periodic task found subscribed to a service"
	case ErrUserAbort:
		return "user called abort"
	case ErrInternal:
		return "internal kernel error"
	default:
		return "unknown error"
	}
}

// FatalError is the single error type this kernel ever produces. Once
// raised, the dispatcher stops scheduling any task and Run returns it.
type FatalError struct {
	Code Code
	// Task is the id of the task whose execution triggered the fault, if any
	// (0 for errors raised outside a task's context, e.g. table exhaustion
	// detected at a create call made before Run starts).
	Task int
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	if e.Task != 0 {
		return fmt.Sprintf("kernel: fatal: %s (task %d)", e.Code, e.Task)
	}
	return fmt.Sprintf("kernel: fatal: %s", e.Code)
}

// Is allows errors.Is(err, someCode) by matching on Code, via the sentinel
// values below wrapping a bare Code comparison.
func (e *FatalError) Is(target error) bool {
	other, ok := target.(*FatalError)
	return ok && other.Code == e.Code
}

// sentinel returns a taskless FatalError usable as an errors.Is target,
// e.g. errors.Is(err, kernel.ErrSentinel(kernel.ErrPeriodicOverran)).
func sentinel(code Code) *FatalError {
	return &FatalError{Code: code}
}

// ErrSentinel returns a comparison target for errors.Is that matches any
// FatalError with the given Code, regardless of which task raised it.
func ErrSentinel(code Code) error {
	return sentinel(code)
}
