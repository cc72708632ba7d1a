// Command demokernel wires up a small runnable kernel: one SYSTEM task, one
// RR producer/consumer pair rendezvousing on a service, and one PERIODIC
// task, all logging through a DefaultLogger so the scheduling decisions are
// visible on stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gomer3261/rios/internal/kernel"
)

// BlinkReporter stands in for the original's "blink the LED code+1 times"
// fatal signal: a board-agnostic terminal program has no LED, so it prints
// the same pulse count instead. It is deliberately this thin — anything
// fancier belongs to a real board support package, out of scope here.
type BlinkReporter struct{}

// Report implements kernel.Reporter.
func (BlinkReporter) Report(err *kernel.FatalError) {
	pulses := int(err.Code) + 1
	fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
	for i := 0; i < pulses; i++ {
		fmt.Fprint(os.Stderr, "*")
		time.Sleep(150 * time.Millisecond)
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := kernel.NewDefaultLogger(kernel.LevelInfo, os.Stdout)
	k := kernel.New(kernel.Config{
		MaxTasks:     8,
		MaxServices:  2,
		TickInterval: 20 * time.Millisecond,
		Logger:       logger,
		Reporter:     BlinkReporter{},
	})

	svc := k.ServiceInit()

	appMain := func(tc *kernel.TaskContext) {
		tc.CreateRR(producer(svc), 0)
		tc.CreateRR(consumer(svc), 0)
		tc.CreatePeriodic(heartbeat, 0, 50, 5, 10)

		for i := 0; i < 3; i++ {
			if err := tc.Tick(ctx); err != nil {
				return
			}
		}
		tc.Terminate()
	}

	if err := k.Run(ctx, appMain); err != nil {
		fmt.Fprintln(os.Stderr, "kernel halted:", err)
		os.Exit(1)
	}
}

func producer(svc kernel.ServiceHandle) func(*kernel.TaskContext) {
	return func(tc *kernel.TaskContext) {
		var n int16
		for {
			if err := tc.Tick(context.Background()); err != nil {
				return
			}
			n++
			tc.Publish(svc, n)
		}
	}
}

func consumer(svc kernel.ServiceHandle) func(*kernel.TaskContext) {
	return func(tc *kernel.TaskContext) {
		for {
			v := tc.Subscribe(context.Background(), svc)
			fmt.Printf("consumer: received %d at t=%dms\n", v, tc.Now())
		}
	}
}

func heartbeat(tc *kernel.TaskContext) {
	fmt.Printf("heartbeat: release at t=%dms\n", tc.Now())
	tc.Terminate()
}
