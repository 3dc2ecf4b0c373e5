// Package interp implements the tree-walking evaluator: coercions,
// operators, the call/construct protocol, control flow, classes,
// destructuring, iteration, and the generator/async-function
// trampoline built on internal/async (spec 4.4-4.8).
package interp

import (
	"fmt"
	"io"

	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/async"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/gc"
	"github.com/ssrlive/ecmacore/internal/timer"
	"github.com/ssrlive/ecmacore/internal/token"
	"github.com/ssrlive/ecmacore/internal/value"
)

// Interpreter holds everything one running program shares: the global
// scope and object, the well-known prototype registry that
// internal/builtins populates, the microtask queue and timer wheel
// that make up the event loop, and the bookkeeping needed for
// stack traces, `super`, and generator suspension.
type Interpreter struct {
	Global    *env.Environment
	GlobalObj *value.Object

	// Protos holds the built-in prototype objects keyed by name
	// ("Object", "Array", "Function", "String", "Error", "TypeError",
	// ...), installed by internal/builtins at startup and consulted by
	// literal evaluation (array/object literals, function creation,
	// thrown native errors) to wire up [[Prototype]] correctly.
	Protos map[string]*value.Object

	Out io.Writer

	Jobs   *async.Queue
	Timers *timer.Wheel

	// GC is the collector wrapper std.gc() forces a pass through
	// (spec 4.11); the object graph itself is reclaimed by Go's own
	// tracing collector, which handles the closure/environment cycles
	// spec.md describes without any extra bookkeeping here.
	GC *gc.Collector

	// yieldStack lets nested generator/async-function bodies each see
	// their own suspension point; only the top entry is live at any
	// instant since coroutines rendezvous strictly one-at-a-time.
	yieldStack []async.YieldFunc

	// homeStack/thisStack back `super` and `this` resolution across
	// nested calls (spec 4.4.5).
	homeStack []*value.Object
	thisStack []value.Value

	// ctorStack tracks the constructor currently running, so a derived
	// class's `super(...)` call can find its own class's field
	// initializers and run them right after the superclass constructor
	// returns (spec 4.2, "Derived class construction": fields
	// initialize after super(), not before).
	ctorStack []*ctorFrame

	callStack []errors.Frame

	// timerCallbacks maps a live timer.ID to the JS callback/args to
	// invoke when it fires, populated by internal/builtins'
	// setTimeout/setInterval.
	timerCallbacks map[timer.ID]timerCallback

	// Limits bounds runaway scripts; zero fields mean unbounded. Set by
	// an embedder (cmd/ecmacore's --config) before RunProgram.
	Limits Limits

	// loopIterations counts iterations across every loop statement
	// executed so far, checked against Limits.MaxLoopIterations.
	loopIterations uint64

	file string
	src  string
}

// Limits bounds engine resource use for untrusted scripts. The zero
// value is unbounded, matching the teacher's own default of never
// cutting off a running script.
type Limits struct {
	// MaxLoopIterations caps total loop-body executions across the
	// program's lifetime; exceeding it throws a RangeError rather than
	// letting a runaway `while(true)` hang the host. 0 disables the
	// check.
	MaxLoopIterations uint64

	// MinTimerResolutionMS floors setTimeout/setInterval delays, the
	// way browsers clamp nested timers; 0 leaves internal/timer's own
	// resolution untouched.
	MinTimerResolutionMS int
}

// tickLoop bumps the loop-iteration counter and throws once
// Limits.MaxLoopIterations is exceeded. Every loop-statement executor
// calls this once per pass, before running the loop body.
func (ip *Interpreter) tickLoop() (Signal, error) {
	if ip.Limits.MaxLoopIterations == 0 {
		return none, nil
	}
	ip.loopIterations++
	if ip.loopIterations > ip.Limits.MaxLoopIterations {
		return ip.throwErrorSig(errors.KindRange, "loop iteration limit exceeded (%d)", ip.Limits.MaxLoopIterations), nil
	}
	return none, nil
}

type timerCallback struct {
	fn        value.Value
	args      []value.Value
	repeating bool
}

// RegisterTimer records the callback internal/builtins should invoke
// when id fires.
func (ip *Interpreter) RegisterTimer(id timer.ID, fn value.Value, args []value.Value, repeating bool) {
	ip.timerCallbacks[id] = timerCallback{fn: fn, args: args, repeating: repeating}
}

// UnregisterTimer drops a callback registration (clearTimeout/clearInterval).
func (ip *Interpreter) UnregisterTimer(id timer.ID) {
	delete(ip.timerCallbacks, id)
}

// New creates an Interpreter with a fresh global scope. Built-ins are
// not installed here; call internal/builtins.Install(ip, host) afterward.
func New(out io.Writer, file, src string) *Interpreter {
	ip := &Interpreter{
		Global: env.NewGlobal(),
		Protos: make(map[string]*value.Object),
		Out:    out,
		Jobs:           async.NewQueue(),
		Timers:         timer.New(),
		GC:             gc.New(),
		timerCallbacks: make(map[timer.ID]timerCallback),
		file:           file,
		src:            src,
	}
	ip.GlobalObj = value.NewObject(nil)
	return ip
}

// Close releases the background timer goroutine.
func (ip *Interpreter) Close() { ip.Timers.Close() }

// RunProgram hoists declarations, executes the program body, then
// drains the event loop (microtasks, then timers, repeating until
// both are empty -- spec 5, "program lifetime").
func (ip *Interpreter) RunProgram(prog *ast.Program) error {
	ip.hoistProgram(prog)
	sig, err := ip.execStatements(ip.Global, prog.Body)
	if err != nil {
		return err
	}
	if sig.Kind == SigThrow {
		return ip.uncaught(sig.Value)
	}
	return ip.RunEventLoop()
}

// RunEventLoop drains microtasks, then waits for the next fired timer,
// repeating until nothing is pending. Returns the first uncaught
// exception thrown by a callback, if any.
func (ip *Interpreter) RunEventLoop() error {
	ip.Jobs.Drain()
	for ip.Timers.Pending() {
		id := <-ip.Timers.Fired
		sig, err := ip.fireTimer(id)
		if err != nil {
			return err
		}
		if sig.Kind == SigThrow {
			return ip.uncaught(sig.Value)
		}
		ip.Jobs.Drain()
	}
	return nil
}

func (ip *Interpreter) fireTimer(id timer.ID) (Signal, error) {
	cb, ok := ip.timerCallbacks[id]
	if !ok {
		return none, nil
	}
	if !cb.repeating {
		delete(ip.timerCallbacks, id)
	}
	_, sig, err := ip.Call(cb.fn, value.Undefined, cb.args)
	return sig, err
}

// uncaught formats a thrown value that reached the top of the program
// without being caught. Error-family objects print as "Name: message",
// the way an uncaught exception reads on a real console, rather than
// their generic "[object Error]" class tag.
func (ip *Interpreter) uncaught(v value.Value) error {
	if obj, ok := v.(*value.Object); ok {
		if d, _ := obj.GetOwn(value.StringKey("message")); d != nil {
			name := "Error"
			if nd, _ := obj.GetOwn(value.StringKey("name")); nd != nil {
				name = nd.Value.String()
			}
			return fmt.Errorf("uncaught exception: %s: %s", name, d.Value.String())
		}
	}
	return fmt.Errorf("uncaught exception: %s", value.Inspect(v))
}

func (ip *Interpreter) pushThis(v value.Value) { ip.thisStack = append(ip.thisStack, v) }
func (ip *Interpreter) popThis()               { ip.thisStack = ip.thisStack[:len(ip.thisStack)-1] }
func (ip *Interpreter) currentThis() value.Value {
	if len(ip.thisStack) == 0 {
		return value.Undefined
	}
	return ip.thisStack[len(ip.thisStack)-1]
}

type ctorFrame struct {
	cl   *Closure
	inst *value.Object
	done bool // field inits already run (set once, by base-class alloc or by super())
}

func (ip *Interpreter) pushCtor(cl *Closure, inst *value.Object) { ip.ctorStack = append(ip.ctorStack, &ctorFrame{cl: cl, inst: inst}) }
func (ip *Interpreter) popCtor()                                 { ip.ctorStack = ip.ctorStack[:len(ip.ctorStack)-1] }
func (ip *Interpreter) currentCtor() *ctorFrame {
	if len(ip.ctorStack) == 0 {
		return nil
	}
	return ip.ctorStack[len(ip.ctorStack)-1]
}

func (ip *Interpreter) pushHome(h *value.Object) { ip.homeStack = append(ip.homeStack, h) }
func (ip *Interpreter) popHome()                 { ip.homeStack = ip.homeStack[:len(ip.homeStack)-1] }
func (ip *Interpreter) currentHome() *value.Object {
	if len(ip.homeStack) == 0 {
		return nil
	}
	return ip.homeStack[len(ip.homeStack)-1]
}

// throwError constructs and returns a SigThrow Signal for a native error of
// the given kind, shaped like `new TypeError(msg)` (spec 4.4.7).
func (ip *Interpreter) throwError(pos token.Position, kind errors.Kind, format string, args ...any) Signal {
	msg := fmt.Sprintf(format, args...)
	return throwSignal(ip.makeError(kind, msg, pos))
}

// makeError builds a thrown Error-family object. internal/builtins
// overwrites Protos[string(kind)] with the full constructed prototype;
// until installed, errors still carry name/message so the engine can
// run and report diagnostics before builtins wiring exists (e.g. in
// unit tests that exercise interp in isolation).
func (ip *Interpreter) makeError(kind errors.Kind, msg string, pos token.Position) value.Value {
	proto := ip.Protos[string(kind)]
	if proto == nil {
		proto = ip.Protos["Error"]
	}
	obj := value.NewObject(proto)
	obj.Class = "Error"
	obj.DefineData(value.StringKey("name"), value.NewString(string(kind)))
	obj.DefineData(value.StringKey("message"), value.NewString(msg))
	obj.DefineData(value.StringKey("stack"), value.NewString(fmt.Sprintf("%s: %s\n    at %s", kind, msg, pos)))
	return obj
}
