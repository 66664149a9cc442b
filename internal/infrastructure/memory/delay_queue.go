// Package memory holds the faucet's process-local state. The payout queue
// expires entries through a DelayQueue. The recent-activity tracker expires
// on its own TTL cache.
package memory

import (
	"container/heap"
	"sync"
	"time"
)

type delayedTask struct {
	key   string
	at    time.Time
	fn    func()
	index int
}

type taskHeap []*delayedTask

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].at.Before(h[j].at) }
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	task := x.(*delayedTask)
	task.index = len(*h)
	*h = append(*h, task)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	task.index = -1
	*h = old[:n-1]
	return task
}

// DelayQueue runs callbacks at a deadline, keyed so that a pending callback can
// be cancelled or replaced. Callbacks run one at a time on the queue's goroutine
// and must not block.
type DelayQueue struct {
	mu    sync.Mutex
	tasks taskHeap
	byKey map[string]*delayedTask
	now   func() time.Time

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewDelayQueue() *DelayQueue {
	q := &DelayQueue{
		byKey: make(map[string]*delayedTask),
		now:   time.Now,
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

// Schedule registers fn to run at the given time, replacing any task with the same key.
func (q *DelayQueue) Schedule(key string, at time.Time, fn func()) {
	q.mu.Lock()
	if existing, ok := q.byKey[key]; ok {
		heap.Remove(&q.tasks, existing.index)
	}
	task := &delayedTask{key: key, at: at, fn: fn}
	heap.Push(&q.tasks, task)
	q.byKey[key] = task
	q.mu.Unlock()

	q.signal()
}

// Cancel drops the pending task for key. It reports whether one was pending.
func (q *DelayQueue) Cancel(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.byKey[key]
	if !ok {
		return false
	}
	heap.Remove(&q.tasks, task.index)
	delete(q.byKey, key)
	return true
}

func (q *DelayQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close stops the queue. Pending tasks are discarded.
func (q *DelayQueue) Close() {
	q.once.Do(func() {
		close(q.stop)
	})
	<-q.done
}

func (q *DelayQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *DelayQueue) run() {
	defer close(q.done)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		due, wait := q.popDue()
		if due != nil {
			due.fn()
			continue
		}

		var timerC <-chan time.Time
		if wait > 0 {
			timer.Reset(wait)
			timerC = timer.C
		}

		select {
		case <-q.stop:
			return
		case <-q.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-timerC:
		}
	}
}

// popDue returns the earliest task if it is due, otherwise how long until it is.
// A zero wait with no task means the queue is empty.
func (q *DelayQueue) popDue() (*delayedTask, time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, 0
	}

	head := q.tasks[0]
	wait := head.at.Sub(q.now())
	if wait > 0 {
		return nil, wait
	}

	heap.Pop(&q.tasks)
	delete(q.byKey, head.key)
	return head, 0
}
