// Package timer implements the host timer subsystem backing
// setTimeout/setInterval/clearTimeout/clearInterval: a background
// goroutine owning a min-heap of pending deadlines that feeds expired
// IDs back to the single-threaded event loop through a channel (spec
// 4.9, "Timer subsystem").
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// ID identifies a scheduled timer, returned to script as the value of
// setTimeout/setInterval so it can later be passed to clearTimeout.
type ID uint64

type entry struct {
	id       ID
	deadline time.Time
	repeat   time.Duration // 0 for one-shot (setTimeout)
	index    int
}

// pq is a container/heap min-heap ordered by deadline.
type pq []*entry

func (q pq) Len() int            { return len(q) }
func (q pq) Less(i, j int) bool  { return q[i].deadline.Before(q[j].deadline) }
func (q pq) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index, q[j].index = i, j }
func (q *pq) Push(x any)         { e := x.(*entry); e.index = len(*q); *q = append(*q, e) }
func (q *pq) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Wheel owns the timer goroutine. Fired feeds expired IDs back to the
// event loop, which is the only consumer permitted to touch script
// state -- the timer goroutine itself never calls back into the
// interpreter directly (spec 5, single-threaded execution model).
type Wheel struct {
	mu      sync.Mutex
	queue   pq
	entries map[ID]*entry
	nextID  ID

	Fired chan ID

	wake chan struct{}
	stop chan struct{}

	// minResolution floors every Schedule delay/repeat, the way
	// browsers clamp nested/background timers. Zero leaves delays
	// untouched.
	minResolution time.Duration
}

// New starts the timer goroutine. Close must be called to stop it.
func New() *Wheel {
	w := &Wheel{
		entries: make(map[ID]*entry),
		Fired:   make(chan ID, 64),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	go w.run()
	return w
}

// SetMinResolution floors every subsequent Schedule delay/repeat at d,
// configured by an embedder (cmd/ecmacore's --config) before any
// timers are armed.
func (w *Wheel) SetMinResolution(d time.Duration) {
	w.mu.Lock()
	w.minResolution = d
	w.mu.Unlock()
}

// Schedule arms a timer for delay (one-shot if repeat == 0, otherwise
// re-arming every repeat duration for setInterval) and returns its ID.
func (w *Wheel) Schedule(delay, repeat time.Duration) ID {
	w.mu.Lock()
	if w.minResolution > 0 {
		if delay < w.minResolution {
			delay = w.minResolution
		}
		if repeat > 0 && repeat < w.minResolution {
			repeat = w.minResolution
		}
	}
	w.nextID++
	id := w.nextID
	e := &entry{id: id, deadline: time.Now().Add(delay), repeat: repeat}
	w.entries[id] = e
	heap.Push(&w.queue, e)
	w.mu.Unlock()
	w.poke()
	return id
}

// Cancel removes a pending timer; a no-op if id is unknown or already
// fired, matching clearTimeout/clearInterval's tolerant semantics.
func (w *Wheel) Cancel(id ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[id]
	if !ok {
		return
	}
	delete(w.entries, id)
	heap.Remove(&w.queue, e.index)
}

// Pending reports whether any timer is still armed, used by the event
// loop to decide whether it must keep waiting for macrotasks versus
// exiting (spec 5, "the program exits once no timers and no pending
// microtasks/callbacks remain").
func (w *Wheel) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue) > 0
}

// Close stops the timer goroutine.
func (w *Wheel) Close() { close(w.stop) }

func (w *Wheel) poke() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Wheel) run() {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	for {
		w.mu.Lock()
		var wait time.Duration
		if len(w.queue) > 0 {
			wait = time.Until(w.queue[0].deadline)
			if wait < 0 {
				wait = 0
			}
		} else {
			wait = time.Hour
		}
		w.mu.Unlock()

		timer.Reset(wait)
		select {
		case <-w.stop:
			return
		case <-w.wake:
			continue
		case <-timer.C:
			w.fireExpired()
		}
	}
}

func (w *Wheel) fireExpired() {
	now := time.Now()
	w.mu.Lock()
	var expired []*entry
	for len(w.queue) > 0 && !w.queue[0].deadline.After(now) {
		e := heap.Pop(&w.queue).(*entry)
		expired = append(expired, e)
	}
	for _, e := range expired {
		if e.repeat > 0 {
			e.deadline = now.Add(e.repeat)
			heap.Push(&w.queue, e)
		} else {
			delete(w.entries, e.id)
		}
	}
	w.mu.Unlock()
	for _, e := range expired {
		w.Fired <- e.id
	}
}
