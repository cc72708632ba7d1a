package kernel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPeriodicOverrun(t *testing.T) {
	k := New(Config{MaxTasks: 2, TickInterval: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	appMain := func(tc *TaskContext) {
		tc.CreatePeriodic(func(ptc *TaskContext) {
			for {
				if err := ptc.Tick(ctx); err != nil {
					return
				}
			}
		}, 0, 5, 2, 0)
		tc.Terminate()
	}

	err := k.Run(ctx, appMain)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSentinel(ErrPeriodicOverran)), "got: %v", err)
}

func TestPeriodicCollision(t *testing.T) {
	k := New(Config{MaxTasks: 3, TickInterval: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	periodicNoop := func(ptc *TaskContext) {
		ptc.Terminate()
	}

	appMain := func(tc *TaskContext) {
		tc.CreatePeriodic(periodicNoop, 0, 10, 1, 0)
		tc.CreatePeriodic(periodicNoop, 0, 10, 1, 0)
		tc.Terminate()
	}

	err := k.Run(ctx, appMain)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSentinel(ErrPeriodicCollision)), "got: %v", err)
}

func TestPeriodicWCETGreaterThanPeriodIsFatalAtCreate(t *testing.T) {
	k := New(Config{MaxTasks: 2, TickInterval: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	appMain := func(tc *TaskContext) {
		// Fatal on the create trap: the kernel halts before this call ever
		// returns, so appMain's goroutine simply stays parked here.
		tc.CreatePeriodic(func(*TaskContext) {}, 0, 5, 10, 0)
	}

	err := k.Run(ctx, appMain)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSentinel(ErrWCETGreaterThanPeriod)), "got: %v", err)
}
