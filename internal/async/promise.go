// Package async implements the single-threaded Promise state machine and
// microtask queue (spec 3.6, 4.7), plus the generator/async-function
// trampoline (spec 3.7, 4.8). Everything here runs on the interpreter's
// one logical thread; Promises are intentionally unsynchronized, the
// way the teacher's ChainedPromise is safe for the engine's own single
// driving goroutine while it fans work out to a timer goroutine that
// only ever posts back through a channel (see internal/timer).
package async

import "github.com/ssrlive/ecmacore/internal/value"

// State is a Promise's lifecycle stage (spec 3.6). Transitions are
// one-way: Pending -> Fulfilled or Pending -> Rejected, never back.
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

type reaction struct {
	onFulfilled func(value.Value)
	onRejected  func(value.Value)
}

// Promise is the state machine backing the `Promise` built-in (spec 3.6).
// Settling a Promise enqueues its pending reactions as microtasks rather
// than invoking them synchronously, preserving the "reactions always run
// as a later microtask, never inline" invariant.
type Promise struct {
	state  State
	result value.Value

	reactions []reaction

	// handled tracks whether a rejection has ever had a handler attached,
	// for the unhandled-rejection diagnostic the host surface may report.
	handled bool

	Queue *Queue
}

// NewPromise creates a pending Promise driven by q.
func NewPromise(q *Queue) *Promise {
	return &Promise{state: Pending, Queue: q}
}

func (p *Promise) State() State       { return p.state }
func (p *Promise) Result() value.Value { return p.result }
func (p *Promise) IsHandled() bool    { return p.handled }

// Resolve settles p as fulfilled with v, unless v is itself a thenable,
// in which case p instead adopts v's eventual state (spec 3.6,
// "Promise Resolve Thenable Job"). isThenable is supplied by the caller
// (internal/interp) because detecting "thenable" requires invoking a
// user-defined `then` property, which only the evaluator can do.
func (p *Promise) Resolve(v value.Value, isThenable func(value.Value) (then func(resolve, reject func(value.Value)), ok bool)) {
	if p.state != Pending {
		return
	}
	if then, ok := isThenable(v); ok {
		p.Queue.Enqueue(func() {
			then(
				func(inner value.Value) { p.Resolve(inner, isThenable) },
				func(reason value.Value) { p.Reject(reason) },
			)
		})
		return
	}
	p.state = Fulfilled
	p.result = v
	p.fire()
}

// Reject settles p as rejected with reason.
func (p *Promise) Reject(reason value.Value) {
	if p.state != Pending {
		return
	}
	p.state = Rejected
	p.result = reason
	p.fire()
}

func (p *Promise) fire() {
	rs := p.reactions
	p.reactions = nil
	for _, r := range rs {
		r := r
		p.Queue.Enqueue(func() {
			if p.state == Fulfilled && r.onFulfilled != nil {
				r.onFulfilled(p.result)
			} else if p.state == Rejected && r.onRejected != nil {
				r.onRejected(p.result)
			}
		})
	}
}

// Then registers reaction callbacks, scheduling them as a microtask
// immediately if the Promise has already settled (spec 3.6, "Then").
func (p *Promise) Then(onFulfilled, onRejected func(value.Value)) {
	if onRejected != nil {
		p.handled = true
	}
	if p.state == Pending {
		p.reactions = append(p.reactions, reaction{onFulfilled, onRejected})
		return
	}
	r := reaction{onFulfilled, onRejected}
	p.Queue.Enqueue(func() {
		if p.state == Fulfilled && r.onFulfilled != nil {
			r.onFulfilled(p.result)
		} else if p.state == Rejected && r.onRejected != nil {
			r.onRejected(p.result)
		}
	})
}
