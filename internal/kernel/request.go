package kernel

// requestKind enumerates the values kernel_request takes in the original
// source. reqInterrupt has no wire representation of its own: it is applied
// inline, by handleRequest, as a side effect of reqPublish — see
// service.go's doc comment for why the two-trap dance the AVR source uses
// collapses to one here.
type requestKind int8

const (
	reqNone requestKind = iota
	reqTimerExpired
	reqCreate
	reqTerminate
	reqYield
	reqSubscribe
	reqPublish
	reqAbort
)

// createArgs mirrors create_args_t.
type createArgs struct {
	entry  func(*TaskContext)
	arg    int16
	level  Level
	period int32
	wcet   int32
	start  int32
}

// request is the one-shot struct a trapping task (or the bootstrap path)
// hands the kernel describing what it wants.
type request struct {
	kind   requestKind
	task   *taskDescriptor
	create createArgs
	// service/value are used by reqSubscribe and reqPublish.
	service int
	value   int16
	// abortCode is used by reqAbort.
	abortCode Code
}
