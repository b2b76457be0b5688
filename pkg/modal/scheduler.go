package modal

import "sync"

// Scheduler defers work to the next cooperative turn of the host's event loop
type Scheduler interface {
	Defer(task func())
}

// Queue is a Scheduler drained explicitly by the host loop.
//
// Tasks deferred while a drain is running are not run by that drain; they
// wait for the next one. This is what makes "next turn" mean something when
// an after-event listener itself opens or closes a panel.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	notify func()
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// OnSchedule registers fn to be called whenever the queue goes from empty
// to non-empty. Hosts use it to wake their loop.
func (q *Queue) OnSchedule(fn func()) {
	q.mu.Lock()
	q.notify = fn
	q.mu.Unlock()
}

// Defer appends a task
func (q *Queue) Defer(task func()) {
	q.mu.Lock()
	wasEmpty := len(q.tasks) == 0
	q.tasks = append(q.tasks, task)
	notify := q.notify
	q.mu.Unlock()

	if wasEmpty && notify != nil {
		notify()
	}
}

// Pending returns the number of queued tasks
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs the tasks that were queued when it was called and returns how many ran
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, task := range batch {
		task()
	}
	return len(batch)
}

// RunUntilIdle drains repeatedly until no tasks remain. Returns the total run.
func (q *Queue) RunUntilIdle() int {
	total := 0
	for {
		n := q.Drain()
		if n == 0 {
			return total
		}
		total += n
	}
}
