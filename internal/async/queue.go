package async

// Queue is the FIFO microtask queue (spec 4.7). The event loop drains
// it completely -- including jobs enqueued by jobs already running --
// before moving on to the next macrotask (a fired timer).
type Queue struct {
	jobs []func()
}

func NewQueue() *Queue { return &Queue{} }

// Enqueue appends a job to the end of the queue.
func (q *Queue) Enqueue(job func()) {
	q.jobs = append(q.jobs, job)
}

// Drain runs every queued job in FIFO order, including ones newly
// enqueued by a job while draining, until the queue is empty.
func (q *Queue) Drain() {
	for len(q.jobs) > 0 {
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		job()
	}
}

// Empty reports whether the queue currently has no pending jobs.
func (q *Queue) Empty() bool { return len(q.jobs) == 0 }
