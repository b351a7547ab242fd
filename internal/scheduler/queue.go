// Package scheduler is a queue of delayed tasks run by the event loop that
// owns it.
//
// Tasks are created through a Batch. Cancelling a batch is one operation: it
// flips a flag shared by every task of the batch, and the queue drops those
// tasks when they reach the front. A Queue is not safe for concurrent use.
package scheduler

import (
	"container/heap"
	"time"
)

type task struct {
	due   time.Time
	seq   uint64
	fn    func()
	batch *Batch
}

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(*task)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Queue orders tasks by due time, FIFO among equal due times.
type Queue struct {
	tasks taskHeap
	seq   uint64
	live  int
}

func NewQueue() *Queue {
	return &Queue{}
}

// NewBatch starts a batch whose delays are measured from now.
func (q *Queue) NewBatch(now time.Time) *Batch {
	return &Batch{queue: q, start: now}
}

// Len returns the number of tasks that will still run.
func (q *Queue) Len() int {
	return q.live
}

// Next returns the due time of the earliest live task.
func (q *Queue) Next() (time.Time, bool) {
	q.dropCancelled()
	if len(q.tasks) == 0 {
		return time.Time{}, false
	}
	return q.tasks[0].due, true
}

// RunDue runs every live task due at or before now, in due order, and
// returns how many ran. Tasks scheduled by a running task are eligible in
// the same call if they are already due.
func (q *Queue) RunDue(now time.Time) int {
	ran := 0
	for {
		q.dropCancelled()
		if len(q.tasks) == 0 || q.tasks[0].due.After(now) {
			return ran
		}
		t := heap.Pop(&q.tasks).(*task)
		q.live--
		t.batch.pending--
		ran++
		t.fn()
	}
}

func (q *Queue) push(t *task) {
	q.seq++
	t.seq = q.seq
	heap.Push(&q.tasks, t)
	q.live++
}

func (q *Queue) dropCancelled() {
	for len(q.tasks) > 0 && q.tasks[0].batch.cancelled {
		heap.Pop(&q.tasks)
	}
}

// Batch is a group of tasks that are cancelled together.
type Batch struct {
	queue     *Queue
	start     time.Time
	pending   int
	cancelled bool
}

// After schedules fn to run delay after the batch start. Scheduling on a
// cancelled or nil batch does nothing.
func (b *Batch) After(delay time.Duration, fn func()) {
	if b == nil || b.cancelled || fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	b.pending++
	b.queue.push(&task{due: b.start.Add(delay), fn: fn, batch: b})
}

// Cancel prevents every not yet run task of the batch from running. It is
// safe to call on a nil batch and more than once.
func (b *Batch) Cancel() {
	if b == nil || b.cancelled {
		return
	}
	b.cancelled = true
	b.queue.live -= b.pending
	b.pending = 0
}

// Pending returns the number of tasks of the batch that will still run.
func (b *Batch) Pending() int {
	if b == nil {
		return 0
	}
	return b.pending
}

// Cancelled reports whether Cancel was called.
func (b *Batch) Cancelled() bool {
	return b != nil && b.cancelled
}
