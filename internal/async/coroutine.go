package async

import "github.com/ssrlive/ecmacore/internal/value"

// ResumeKind is how a generator's next/throw/return resumes a
// suspended body (spec 3.7, "next/throw/return advances").
type ResumeKind int

const (
	ResumeNext ResumeKind = iota
	ResumeThrow
	ResumeReturn
)

type Resume struct {
	Kind  ResumeKind
	Value value.Value
}

type StepKind int

const (
	StepYield StepKind = iota
	StepDone
	StepError
)

type Step struct {
	Kind  StepKind
	Value value.Value
}

// YieldFunc is handed to a coroutine body. Calling it suspends
// execution, delivers v upstream as a StepYield, and blocks until the
// driver resumes with a next/throw/return request.
type YieldFunc func(v value.Value) Resume

// Coroutine runs a generator/async-function body on its own goroutine
// and rendezvous with the driver over unbuffered channels, so exactly
// one side is ever executing Go code at a time -- the pragmatic
// thread-per-suspension-point strategy the spec calls out as the
// simplest faithful implementation of "suspend/resume at every AST
// node" (spec 4.8, "Coroutine control flow").
type Coroutine struct {
	toBody   chan Resume
	fromBody chan Step
	finished bool
}

// NewCoroutine spawns body immediately, but body does not run any user
// code until the first Resume call arrives -- a generator's state
// starts at NotStarted, not Running (spec 3.7).
func NewCoroutine(body func(yield YieldFunc) (result value.Value, threw bool)) *Coroutine {
	c := &Coroutine{toBody: make(chan Resume), fromBody: make(chan Step)}
	yield := func(v value.Value) Resume {
		c.fromBody <- Step{Kind: StepYield, Value: v}
		return <-c.toBody
	}
	go func() {
		first := <-c.toBody
		switch first.Kind {
		case ResumeReturn:
			c.fromBody <- Step{Kind: StepDone, Value: first.Value}
			return
		case ResumeThrow:
			c.fromBody <- Step{Kind: StepError, Value: first.Value}
			return
		}
		result, threw := body(yield)
		if threw {
			c.fromBody <- Step{Kind: StepError, Value: result}
		} else {
			c.fromBody <- Step{Kind: StepDone, Value: result}
		}
	}()
	return c
}

// Resume advances the coroutine with r and blocks for its next step.
// Calling Resume after the coroutine has already finished returns an
// immediate StepDone(undefined), matching a generator's Completed
// state tolerating further next() calls as no-ops.
func (c *Coroutine) Resume(r Resume) Step {
	if c.finished {
		return Step{Kind: StepDone, Value: value.Undefined}
	}
	c.toBody <- r
	step := <-c.fromBody
	if step.Kind != StepYield {
		c.finished = true
	}
	return step
}

// Finished reports whether the coroutine has already produced its
// terminal step.
func (c *Coroutine) Finished() bool { return c.finished }
