package kernel

import (
	"context"
	"sync/atomic"
	"time"
)

// clock tracks the kernel's single source of time: a monotonic tick
// counter (the unit period/wcet/start are expressed in) and a millisecond
// counter that wraps at 2^16, matching the Now() contract in spec section 6.
//
// pendingTicks is incremented by a free-running wall-clock goroutine
// (runClock) and drained one at a time by whichever task next checks in via
// a Tick() call — see TaskContext.Tick. This keeps every tick's effect on
// scheduling state single-writer (applied only on the kernel goroutine,
// inside handleRequest), while letting wall-clock time, not busy-spinning,
// govern the pace at which ticks become available.
type clock struct {
	ticks        uint64
	millis       uint16
	pendingTicks atomic.Int64
	wake         chan struct{}
}

func newClock() *clock {
	return &clock{wake: make(chan struct{}, 1)}
}

// runClock posts one pending tick every interval until ctx is done. It never
// touches scheduling state directly.
func (c *clock) runClock(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pendingTicks.Add(1)
			select {
			case c.wake <- struct{}{}:
			default:
			}
		}
	}
}

// awaitTick blocks until at least one tick is pending (consuming one), or
// ctx is cancelled.
func (c *clock) awaitTick(ctx context.Context) error {
	for {
		if c.pendingTicks.Load() > 0 {
			c.pendingTicks.Add(-1)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wake:
		}
	}
}

// advance applies one tick's worth of monotonic time. Called only from the
// kernel goroutine.
func (c *clock) advance() {
	c.ticks++
	c.millis++ // wraps naturally at 2^16, matching spec's Now() contract
}

// now returns milliseconds since boot, wrapping at 2^16.
func (c *clock) now() uint16 {
	return c.millis
}
