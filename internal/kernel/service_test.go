package kernel

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestServiceBroadcastSystemFirst covers section 4.9's broadcast semantics:
// every current subscriber gets the same published value, and a woken
// SYSTEM subscriber always runs before a woken RR one, regardless of
// subscribe order.
func TestServiceBroadcastSystemFirst(t *testing.T) {
	var mu sync.Mutex
	var log []string
	record := func(s string) {
		mu.Lock()
		log = append(log, s)
		mu.Unlock()
	}

	k := New(Config{MaxTasks: 5, TickInterval: time.Millisecond})
	svc := k.ServiceInit()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appMain := func(tc *TaskContext) {
		// Created in RR-then-SYSTEM order; SYSTEM still runs, and thus
		// subscribes, first, because level priority - not creation order -
		// decides dispatch order.
		tc.CreateRR(func(rtc *TaskContext) {
			v := rtc.Subscribe(ctx, svc)
			record(fmt.Sprintf("R:%d", v))
		}, 0)
		tc.CreateSystem(func(stc *TaskContext) {
			v := stc.Subscribe(ctx, svc)
			record(fmt.Sprintf("S:%d", v))
		}, 0)
		// A periodic publisher, released after one tick so both subscribers
		// above are already parked waiting by the time it runs.
		tc.CreatePeriodic(func(ptc *TaskContext) {
			ptc.Publish(svc, 42)
			ptc.Terminate()
		}, 0, 1000, 1, 1)
		tc.Terminate()
	}

	done := make(chan error, 1)
	go func() { done <- k.Run(ctx, appMain) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(log) >= 2
	}, time.Second, time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"S:42", "R:42"}, log)
}

// TestSubscribeAfterPublishMissesFirst covers the no-buffering edge case in
// section 4.9: a task that subscribes after a publish has already drained
// the subscriber queue simply never sees that value, but catches the next one.
func TestSubscribeAfterPublishMissesFirst(t *testing.T) {
	var mu sync.Mutex
	var log []int16
	record := func(v int16) {
		mu.Lock()
		log = append(log, v)
		mu.Unlock()
	}

	k := New(Config{MaxTasks: 4, TickInterval: time.Millisecond})
	svc := k.ServiceInit()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appMain := func(tc *TaskContext) {
		tc.CreateRR(func(ptc *TaskContext) {
			ptc.Publish(svc, 1) // nobody subscribed yet: this is lost
			require.NoError(t, ptc.Tick(context.Background()))
			ptc.Publish(svc, 2)
			ptc.Terminate()
		}, 0)
		tc.CreateRR(func(stc *TaskContext) {
			v := stc.Subscribe(ctx, svc)
			record(v)
			stc.Terminate()
		}, 0)
		tc.Terminate()
	}

	done := make(chan error, 1)
	go func() { done <- k.Run(ctx, appMain) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(log) >= 1
	}, time.Second, time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int16{2}, log)
}

// TestPublishDemotesPublisherToFrontOfRRQueue covers spec.md section 4.7's
// TASK_INTERRUPT case: an RR publisher that wakes a SYSTEM subscriber is
// demoted, but goes to the *front* of rrQueue, not the back — it should run
// again as soon as the SYSTEM waiter yields, ahead of an RR "spectator" task
// that was already queued, not behind it. Using a plain enqueue here instead
// of pushFront would let the spectator cut in front of the publisher.
func TestPublishDemotesPublisherToFrontOfRRQueue(t *testing.T) {
	var mu sync.Mutex
	var log []string
	record := func(s string) {
		mu.Lock()
		log = append(log, s)
		mu.Unlock()
	}

	k := New(Config{MaxTasks: 5})
	svc := k.ServiceInit()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appMain := func(tc *TaskContext) {
		tc.CreateSystem(func(stc *TaskContext) {
			v := stc.Subscribe(ctx, svc)
			record(fmt.Sprintf("S:%d", v))
			stc.Terminate()
		}, 0)
		tc.CreateRR(func(ptc *TaskContext) {
			ptc.Publish(svc, 7)
			record("P")
			ptc.Terminate()
		}, 0)
		tc.CreateRR(func(rtc *TaskContext) {
			record("spectator")
			rtc.Terminate()
		}, 0)
		tc.Terminate()
	}

	done := make(chan error, 1)
	go func() { done <- k.Run(ctx, appMain) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(log) >= 3
	}, time.Second, time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"S:7", "P", "spectator"}, log)
}

func TestPeriodicSubscribeIsFatal(t *testing.T) {
	k := New(Config{MaxTasks: 2, TickInterval: time.Millisecond})
	svc := k.ServiceInit()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	appMain := func(tc *TaskContext) {
		tc.CreatePeriodic(func(ptc *TaskContext) {
			ptc.Subscribe(ctx, svc)
		}, 0, 10, 1, 0)
		tc.Terminate()
	}

	err := k.Run(ctx, appMain)
	require.Error(t, err)

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	require.Equal(t, ErrPeriodicSubscribed, fatal.Code)
}
