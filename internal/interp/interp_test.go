package interp

import (
	"io"
	"testing"

	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/value"
)

// runExpr evaluates src (a full statement list ending in `var result =
// <expr>;`) against a bare Interpreter with no built-ins installed, and
// returns the resulting value's String() form. Useful for exercising
// core evaluator semantics (coercions, operators, closures, control
// flow) without pulling in internal/builtins.
func runExpr(t *testing.T, src string) string {
	t.Helper()
	ip := New(io.Discard, "<test>", src)
	defer ip.Close()

	_, sig, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource error: %v", err)
	}
	if sig.IsAbrupt() {
		t.Fatalf("EvalSource threw: %s", value.Inspect(sig.Value))
	}
	v, errKind := ip.Global.Get("result")
	if errKind != env.ErrNone {
		t.Fatalf("result not bound (errKind=%v)", errKind)
	}
	return v.String()
}

func TestArithmeticCoercion(t *testing.T) {
	cases := map[string]string{
		"var result = 1 + 2;":          "3",
		`var result = "1" + 2;`:        "12",
		`var result = "3" * "2";`:      "6",
		"var result = 1 + true;":       "2",
		"var result = 10 % 3;":         "1",
		"var result = 2 ** 10;":        "1024",
	}
	for src, want := range cases {
		got := runExpr(t, src)
		if got != want {
			t.Errorf("%s => %q, want %q", src, got, want)
		}
	}
}

func TestStrictVsLooseEquality(t *testing.T) {
	cases := map[string]string{
		`var result = (1 == "1");`:        "true",
		`var result = (1 === "1");`:       "false",
		"var result = (null == undefined);": "true",
		"var result = (null === undefined);": "false",
		"var result = (NaN === NaN);":       "false",
	}
	for src, want := range cases {
		got := runExpr(t, src)
		if got != want {
			t.Errorf("%s => %q, want %q", src, got, want)
		}
	}
}

func TestTypeofOperator(t *testing.T) {
	cases := map[string]string{
		"var result = typeof 1;":         "number",
		`var result = typeof "s";`:       "string",
		"var result = typeof true;":      "boolean",
		"var result = typeof undefined;": "undefined",
		"var result = typeof function(){};": "function",
		"var result = typeof notDeclared;": "undefined",
	}
	for src, want := range cases {
		got := runExpr(t, src)
		if got != want {
			t.Errorf("%s => %q, want %q", src, got, want)
		}
	}
}

func TestClosuresCaptureByReference(t *testing.T) {
	got := runExpr(t, `
		function makeCounter() {
			let n = 0;
			return function() { return ++n; };
		}
		const counter = makeCounter();
		counter(); counter();
		var result = counter();
	`)
	if got != "3" {
		t.Errorf("got %q, want \"3\"", got)
	}
}

func TestTryCatchFinallyOrdering(t *testing.T) {
	got := runExpr(t, `
		var log = "";
		function run() {
			try {
				log += "t";
				throw "boom";
			} catch (e) {
				log += "c";
			} finally {
				log += "f";
			}
		}
		run();
		var result = log;
	`)
	if got != "tcf" {
		t.Errorf("got %q, want \"tcf\"", got)
	}
}

func TestDestructuringAssignment(t *testing.T) {
	got := runExpr(t, `
		const [a, , b] = [1, 2, 3];
		const {x, y: renamed} = {x: 10, y: 20};
		var result = a + b + x + renamed;
	`)
	if got != "36" {
		t.Errorf("got %q, want \"36\"", got)
	}
}

func TestLoopIterationCapThrowsRangeError(t *testing.T) {
	ip := New(io.Discard, "<test>", "")
	ip.Limits = Limits{MaxLoopIterations: 5}
	defer ip.Close()

	_, sig, err := ip.EvalSource("var n = 0; for (;;) { n++; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Kind != SigThrow {
		t.Fatalf("expected an abrupt throw, got %v", sig.Kind)
	}
	obj, ok := sig.Value.(*value.Object)
	if !ok {
		t.Fatalf("expected thrown value to be an Error object, got %T", sig.Value)
	}
	msg, _ := obj.GetOwn(value.StringKey("message"))
	if msg == nil || msg.Value.String() != "loop iteration limit exceeded (5)" {
		t.Errorf("unexpected thrown message: %v", msg)
	}
}

func TestOptionalChainingShortCircuitsWholeChain(t *testing.T) {
	cases := map[string]string{
		// a nullish `a?.b` short-circuits the trailing `.c` too, instead
		// of the chain's `.c` throwing on the intermediate `undefined`.
		"var a = undefined; var result = a?.b.c;": "undefined",
		"var a = null; var result = a?.b.c;":      "undefined",
		// short-circuit propagates through a call link in the chain.
		"var a = undefined; var result = a?.b().c;": "undefined",
		"var a = undefined; var result = a?.b.c();": "undefined",
		// a non-nullish base still evaluates the rest of the chain.
		"var a = {b: {c: 5}}; var result = a?.b.c;": "5",
		"var a = {b: function(){return {c: 7};}}; var result = a?.b().c;": "7",
		// optional call on a nullish callee short-circuits, non-nullish
		// callee still gets invoked.
		"var a = undefined; var result = a?.();":                         "undefined",
		"var a = function(){return 9;}; var result = a?.();":             "9",
	}
	for src, want := range cases {
		got := runExpr(t, src)
		if got != want {
			t.Errorf("%s: got %q, want %q", src, got, want)
		}
	}
}

func TestOptionalChainingStillThrowsOnRealUndefinedAccess(t *testing.T) {
	ip := New(io.Discard, "<test>", "")
	defer ip.Close()

	// `a.b` is a literal `undefined`, not a short-circuited chain, so
	// accessing `.c` off it (without its own `?.`) must still throw.
	_, sig, err := ip.EvalSource("var a = {b: undefined}; var result = a.b.c;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Kind != SigThrow {
		t.Fatalf("expected a throw, got %v", sig.Kind)
	}
}

func TestClassFieldsAndInheritanceWithoutBuiltins(t *testing.T) {
	got := runExpr(t, `
		class Base {
			constructor(v) { this.v = v; }
			get double() { return this.v * 2; }
		}
		class Derived extends Base {
			bonus = 0;
			constructor(v) { super(v + 1); }
		}
		const d = new Derived(4);
		var result = d.double + d.bonus;
	`)
	if got != "10" {
		t.Errorf("got %q, want \"10\"", got)
	}
}
