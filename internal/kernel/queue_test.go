package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTasks(n int) []*taskDescriptor {
	tasks := make([]*taskDescriptor, n)
	for i := range tasks {
		tasks[i] = &taskDescriptor{id: i + 1}
	}
	return tasks
}

func TestQueueFIFOOrder(t *testing.T) {
	q := newQueue(containerRRQueue)
	tasks := newTestTasks(3)
	for _, task := range tasks {
		q.enqueue(task)
	}

	require.False(t, q.empty())
	require.Equal(t, 1, q.dequeue().id)
	require.Equal(t, 2, q.dequeue().id)
	require.Equal(t, 3, q.dequeue().id)
	require.True(t, q.empty())
	require.Nil(t, q.dequeue())
}

func TestQueuePushFrontTakesPriority(t *testing.T) {
	q := newQueue(containerSystemQueue)
	tasks := newTestTasks(2)
	q.enqueue(tasks[0])
	q.pushFront(tasks[1])

	require.Equal(t, 2, q.dequeue().id)
	require.Equal(t, 1, q.dequeue().id)
	require.True(t, q.empty(), "queue should be fully drained, not left with a dangling link")
	require.Nil(t, q.dequeue())
}

func TestQueueDequeueDetachesContainer(t *testing.T) {
	q := newQueue(containerFreeList)
	task := newTestTasks(1)[0]
	q.enqueue(task)
	require.Equal(t, containerFreeList, task.container)

	q.dequeue()
	require.Equal(t, containerNone, task.container)
}

func TestListAppendAndRemovePreservesOrder(t *testing.T) {
	l := newList(containerPeriodicList)
	tasks := newTestTasks(3)
	for _, task := range tasks {
		l.append(task)
	}

	l.remove(tasks[1])
	require.Equal(t, containerNone, tasks[1].container)

	var ids []int
	for t := l.head; t != nil; t = t.next {
		ids = append(ids, t.id)
	}
	require.Equal(t, []int{1, 3}, ids)
}

func TestListRemoveHeadAndTail(t *testing.T) {
	l := newList(containerPeriodicList)
	tasks := newTestTasks(2)
	l.append(tasks[0])
	l.append(tasks[1])

	l.remove(tasks[0])
	require.Equal(t, tasks[1], l.head)
	require.Equal(t, tasks[1], l.tail)

	l.remove(tasks[1])
	require.Nil(t, l.head)
	require.Nil(t, l.tail)
}

// TestAssertDetachedPanicsOnDoubleInsert covers data model invariant 2: a
// task descriptor must never be linked into two containers at once.
func TestAssertDetachedPanicsOnDoubleInsert(t *testing.T) {
	q1 := newQueue(containerRRQueue)
	q2 := newQueue(containerSystemQueue)
	task := newTestTasks(1)[0]

	q1.enqueue(task)
	require.Panics(t, func() {
		q2.enqueue(task)
	})
}
