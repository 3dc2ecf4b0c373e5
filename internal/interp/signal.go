package interp

import "github.com/ssrlive/ecmacore/internal/value"

// SignalKind is an abrupt completion's kind (spec 4.4.6, "Control
// flow"). A throw reaching a yield/await suspension point and a
// generator's injected .throw()/.return() are modeled the same way --
// both are just a Signal flowing up through ordinary evaluation.
type SignalKind int

const (
	SigNone SignalKind = iota
	SigBreak
	SigContinue
	SigReturn
	SigThrow
)

// Signal is the completion record threaded through every statement and
// expression evaluation call instead of Go's built-in control flow, so
// that try/finally can observe and override a pending completion
// exactly per spec (finally's own completion wins over a pending
// return/throw/break/continue from the try or catch block).
type Signal struct {
	Kind  SignalKind
	Value value.Value // meaningful for Return and Throw
	Label string      // meaningful for Break and Continue
}

func (s Signal) IsAbrupt() bool { return s.Kind != SigNone }

var none = Signal{Kind: SigNone}

func throwSignal(v value.Value) Signal { return Signal{Kind: SigThrow, Value: v} }
func returnSignal(v value.Value) Signal { return Signal{Kind: SigReturn, Value: v} }
