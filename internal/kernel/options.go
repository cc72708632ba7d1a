package kernel

import "time"

// Config models optional configuration for New. A zero Config is valid and
// uses every documented default, mirroring the microbatch.BatcherConfig /
// catrate constructor idiom this kernel otherwise follows.
type Config struct {
	// MaxTasks is the size of the fixed task pool, excluding the reserved
	// idle slot. Must be > 0 if set.
	//
	// Defaults to 32, if 0.
	MaxTasks int

	// MaxServices is the size of the fixed service pool. Must be > 0 if set.
	//
	// Defaults to 8, if 0.
	MaxServices int

	// TickInterval is the wall-clock duration of one scheduler tick. Period,
	// wcet, and start are all expressed as a count of these ticks.
	//
	// Defaults to 10ms, if 0.
	TickInterval time.Duration

	// Logger receives structured log entries for scheduling activity and
	// fatal errors. Defaults to a no-op logger if nil.
	Logger Logger

	// Reporter receives the terminal FatalError when the kernel halts.
	// Defaults to a Reporter that only forwards to Logger, if nil.
	Reporter Reporter
}

// normalized returns a copy of cfg with every zero field replaced by its
// documented default. It panics if an explicitly provided field is invalid,
// the same "panic on bad config, not on bad input" split the teacher's
// constructors use (compare microbatch.NewBatcher, catrate's limiter
// constructors): configuration errors discoverable at construction time are
// programmer errors, not runtime data the kernel must tolerate.
func (cfg Config) normalized() Config {
	out := cfg
	if out.MaxTasks == 0 {
		out.MaxTasks = 32
	} else if out.MaxTasks < 0 {
		panic("kernel: Config.MaxTasks must be positive")
	}
	if out.MaxServices == 0 {
		out.MaxServices = 8
	} else if out.MaxServices < 0 {
		panic("kernel: Config.MaxServices must be positive")
	}
	if out.TickInterval == 0 {
		out.TickInterval = 10 * time.Millisecond
	} else if out.TickInterval < 0 {
		panic("kernel: Config.TickInterval must be positive")
	}
	if out.Logger == nil {
		out.Logger = noopLogger{}
	}
	if out.Reporter == nil {
		out.Reporter = &LogReporter{Logger: out.Logger}
	}
	return out
}
