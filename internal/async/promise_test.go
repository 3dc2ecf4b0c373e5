package async

import (
	"testing"

	"github.com/ssrlive/ecmacore/internal/value"
)

func notThenable(value.Value) (func(resolve, reject func(value.Value)), bool) {
	return nil, false
}

func TestResolveFulfillsAndFiresReactionAsMicrotask(t *testing.T) {
	q := NewQueue()
	p := NewPromise(q)

	var got value.Value
	p.Then(func(v value.Value) { got = v }, nil)

	p.Resolve(value.NewNumber(42), notThenable)
	if got != nil {
		t.Fatal("reaction must not run synchronously inside Resolve")
	}

	q.Drain()
	if got != value.NewNumber(42) {
		t.Errorf("got %v, want 42", got)
	}
	if p.State() != Fulfilled {
		t.Errorf("expected Fulfilled, got %v", p.State())
	}
}

func TestRejectFiresOnRejected(t *testing.T) {
	q := NewQueue()
	p := NewPromise(q)

	var reason value.Value
	p.Then(nil, func(v value.Value) { reason = v })
	p.Reject(value.NewString("boom"))
	q.Drain()

	if reason.String() != "boom" {
		t.Errorf("got %v, want \"boom\"", reason)
	}
	if !p.IsHandled() {
		t.Error("attaching an onRejected handler should mark the promise handled")
	}
}

func TestSettlingTwiceIsNoop(t *testing.T) {
	q := NewQueue()
	p := NewPromise(q)
	p.Resolve(value.NewNumber(1), notThenable)
	p.Resolve(value.NewNumber(2), notThenable)
	q.Drain()

	if p.Result() != value.NewNumber(1) {
		t.Errorf("second Resolve should be ignored, got %v", p.Result())
	}
}

func TestThenAfterSettlementStillSchedulesAsMicrotask(t *testing.T) {
	q := NewQueue()
	p := NewPromise(q)
	p.Resolve(value.NewNumber(7), notThenable)
	q.Drain()

	var got value.Value
	p.Then(func(v value.Value) { got = v }, nil)
	if got != nil {
		t.Fatal("Then on an already-settled promise must still defer to a microtask")
	}
	q.Drain()
	if got != value.NewNumber(7) {
		t.Errorf("got %v, want 7", got)
	}
}

func TestResolveAdoptsThenableState(t *testing.T) {
	q := NewQueue()
	p := NewPromise(q)

	isThenable := func(v value.Value) (func(resolve, reject func(value.Value)), bool) {
		if s, ok := v.(value.StringValue); !ok || s.String() != "ignored-thenable-marker" {
			return nil, false
		}
		return func(resolve, reject func(value.Value)) {
			resolve(value.NewNumber(99))
		}, true
	}
	p.Resolve(value.NewString("ignored-thenable-marker"), isThenable)
	q.Drain()

	if p.State() != Fulfilled || p.Result() != value.NewNumber(99) {
		t.Errorf("expected adopted fulfillment with 99, got state=%v result=%v", p.State(), p.Result())
	}
}
