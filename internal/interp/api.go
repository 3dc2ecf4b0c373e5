package interp

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/async"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/parser"
	"github.com/ssrlive/ecmacore/internal/token"
	"github.com/ssrlive/ecmacore/internal/value"
)

// This file is the public surface internal/builtins (and internal/engine)
// consume: thin exported wrappers around the unexported evaluator
// internals, so library code never has to duplicate Get/Set/ToNumber/
// ToString/iterator-protocol logic that the evaluator itself already
// implements (spec 4.5, 4.6, 3.3).

// GetProperty implements the Get abstract operation (spec 4.5).
func (ip *Interpreter) GetProperty(base value.Value, key value.PropertyKey) (value.Value, Signal, error) {
	return ip.getProperty(base, key)
}

// SetProperty implements the Set abstract operation (spec 4.5).
func (ip *Interpreter) SetProperty(base value.Value, key value.PropertyKey, v value.Value) (Signal, error) {
	return ip.setProperty(base, key, v)
}

// ToPropertyKey implements ToPropertyKey (spec 3.3).
func (ip *Interpreter) ToPropertyKey(v value.Value) value.PropertyKey { return ip.toPropertyKey(v) }

// ToNumberValue implements ToNumber (spec 3.3).
func (ip *Interpreter) ToNumberValue(v value.Value) (float64, Signal, error) { return ip.toNumberValue(v) }

// ToStringValue implements ToString (spec 3.3).
func (ip *Interpreter) ToStringValue(v value.Value) (string, Signal, error) { return ip.toStringValue(v) }

// ToPrimitiveValue implements ToPrimitive (spec 3.3).
func (ip *Interpreter) ToPrimitiveValue(v value.Value, hint string) (value.Value, Signal, error) {
	return ip.toPrimitive(v, hint)
}

// LooseEquals implements the `==` abstract equality comparison (spec 3.3).
func (ip *Interpreter) LooseEquals(l, r value.Value) (bool, Signal, error) { return ip.looseEquals(l, r) }

// MakeArray builds a dense Array instance from elems (spec 3.2).
func (ip *Interpreter) MakeArray(elems []value.Value) *value.Object { return ip.makeArray(elems) }

// GetIterator implements GetIterator (spec 4.6).
func (ip *Interpreter) GetIterator(v value.Value) (*value.Object, Signal, error) {
	iter, thr := ip.getIterator(v)
	if thr != nil {
		return nil, throwSignal(thr.Value), nil
	}
	return iter, none, nil
}

// IteratorStep calls iterator.next() and unpacks {value, done} (spec 4.6).
func (ip *Interpreter) IteratorStep(iter *value.Object) (value.Value, bool, Signal, error) {
	v, done, thr := ip.iteratorStep(iter)
	if thr != nil {
		return nil, false, throwSignal(thr.Value), nil
	}
	return v, done, none, nil
}

// IteratorClose calls iterator.return() if present (spec 4.6).
func (ip *Interpreter) IteratorClose(iter *value.Object) { ip.iteratorClose(iter) }

// IterableToSlice drains an iterable fully into a Go slice (spec 4.6).
func (ip *Interpreter) IterableToSlice(v value.Value) ([]value.Value, Signal, error) {
	out, thr := ip.iterableToSlice(ip.Global, v)
	if thr != nil {
		return nil, throwSignal(thr.Value), nil
	}
	return out, none, nil
}

// NewError builds a thrown Error-family object of the given kind (spec 7).
func (ip *Interpreter) NewError(kind errors.Kind, msg string) value.Value {
	return ip.makeError(kind, msg, token.Position{})
}

// ThrowTypeError is a convenience for the most common native-function
// argument-validation failure.
func (ip *Interpreter) ThrowTypeError(format string, args ...any) Signal {
	return ip.throwErrorSig(errors.KindType, format, args...)
}

// ThrowRangeError mirrors ThrowTypeError for RangeError.
func (ip *Interpreter) ThrowRangeError(format string, args ...any) Signal {
	return ip.throwErrorSig(errors.KindRange, format, args...)
}

// Construct implements the [[Construct]] internal method driving `new`
// (spec 4.4.4): allocating an instance, running field initializers and
// the constructor body in the right order for base vs. derived classes.
func (ip *Interpreter) Construct(ctor *value.Object, args []value.Value) (value.Value, Signal, error) {
	cl, ok := AsClosure(ctor)
	if !ok {
		return nil, ip.ThrowTypeError("%s is not a constructor", value.Inspect(ctor)), nil
	}
	return ip.construct(cl, ctor, args)
}

// NewBlockScope exposes a fresh child scope, for builtins (Function
// constructor, eval) that need to run code against an isolated scope.
func NewBlockScope(parent *env.Environment) *env.Environment { return env.NewBlockScope(parent) }

// MakePromise wraps p as the user-visible Promise instance (spec 3.6).
func (ip *Interpreter) MakePromise(p *async.Promise) *value.Object { return ip.makePromiseObject(p) }

// IsThenableFunc returns the IsThenable predicate the async package
// needs to detect user-defined thenables while resolving a Promise.
func (ip *Interpreter) IsThenableFunc() func(value.Value) (func(resolve, reject func(value.Value)), bool) {
	return ip.isThenable
}

// ToPromiseValue coerces any awaited/combined value into an *async.Promise.
func (ip *Interpreter) ToPromiseValue(v value.Value) *async.Promise { return ip.toPromise(v) }

// MakeRegExp compiles pattern/flags into a RegExp instance (spec 4.10).
func (ip *Interpreter) MakeRegExp(pattern, flags string) *value.Object {
	return ip.makeRegExp(pattern, flags)
}

// NewErrorSignal throws an error of an arbitrary named kind, for builtins
// (decodeURI/decodeURIComponent's URIError) that don't have a dedicated
// ThrowXxxError convenience.
func (ip *Interpreter) NewErrorSignal(kind string, format string, args ...any) Signal {
	return ip.throwErrorSig(errors.Kind(kind), format, args...)
}

// EvalSource implements the direct-eval built-in (spec 6.5, "eval"):
// parses src as a program and runs it against the global scope, returning
// the value of the program's last statement when that statement is an
// expression statement (undefined otherwise). Indirect eval / strict-mode
// scoping distinctions are not modeled; every eval call runs in the
// global environment.
func (ip *Interpreter) EvalSource(src string) (value.Value, Signal, error) {
	p := parser.New(src, "<eval>")
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, ip.ThrowSyntaxError("%v", err), nil
	}
	ip.hoistProgram(prog)
	body := prog.Body
	var last *ast.ExpressionStatement
	if n := len(body); n > 0 {
		if es, ok := body[n-1].(*ast.ExpressionStatement); ok {
			last, body = es, body[:n-1]
		}
	}
	sig, err := ip.execStatements(ip.Global, body)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	if last != nil {
		return ip.evalExpr(ip.Global, last.Expr)
	}
	return value.Undefined, none, nil
}

// ThrowSyntaxError mirrors ThrowTypeError for SyntaxError.
func (ip *Interpreter) ThrowSyntaxError(format string, args ...any) Signal {
	return ip.throwErrorSig(errors.KindSyntax, format, args...)
}
