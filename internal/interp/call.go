package interp

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/token"
	"github.com/ssrlive/ecmacore/internal/value"
)

// NativeFunc is the shape of a built-in function body (spec 4.10): it
// receives the bound `this`, the call arguments, and returns a result
// or an abrupt Signal (almost always SigThrow for natives).
type NativeFunc func(ip *Interpreter, this value.Value, args []value.Value) (value.Value, Signal, error)

// Closure is the interp-level payload stored opaquely in
// value.Object.Callable; internal/value never looks inside it, keeping
// the value package free of a dependency on interp.
type Closure struct {
	Params      []ast.Param
	Body        ast.Node // *ast.BlockStatement, or an Expression for an arrow's expression body
	ExprBody    bool
	Env         *env.Environment
	Name        string
	IsArrow     bool
	IsAsync     bool
	IsGenerator bool

	// BoundThis/HasBoundThis capture an arrow function's lexical this,
	// or a Function.prototype.bind-produced bound function's fixed
	// this (spec 4.4.5).
	BoundThis    value.Value
	HasBoundThis bool
	HomeObject   *value.Object

	Native NativeFunc

	// FieldInits are run, in source order, on a freshly allocated
	// instance right after the superclass constructor (or allocation,
	// for a base class) completes, before the constructor body runs
	// (spec 4.2, "Class bodies").
	FieldInits []fieldInit

	// IsDerivedCtor marks a constructor whose class has an `extends`
	// clause: its field initializers must wait for `super(...)` to run
	// (spec 4.2), rather than firing at allocation time like a base
	// class's.
	IsDerivedCtor bool
}

type fieldInit struct {
	Key      ast.Expression
	Computed bool
	IsStatic bool
	Value    ast.Expression
	Env      *env.Environment
}

// AsClosure type-asserts an Object's Callable slot back to *Closure;
// ok is false for non-function objects or foreign Callable payloads.
func AsClosure(o *value.Object) (*Closure, bool) {
	if o == nil || o.Callable == nil {
		return nil, false
	}
	c, ok := o.Callable.(*Closure)
	return c, ok
}

// makeClosure builds a *Closure and wraps it in a callable Object with
// the standard .length/.name/.prototype scaffolding (spec 4.2, "Function
// objects").
func (ip *Interpreter) makeClosure(params []ast.Param, body ast.Node, isArrow, isAsync, isGenerator bool, closureEnv *env.Environment, name string) value.Value {
	cl := &Closure{
		Params: params, Body: body, Env: closureEnv, Name: name,
		IsArrow: isArrow, IsAsync: isAsync, IsGenerator: isGenerator,
	}
	if bs, ok := body.(ast.Expression); ok {
		cl.ExprBody = true
		cl.Body = bs
	}
	if isArrow {
		cl.BoundThis = ip.currentThis()
		cl.HasBoundThis = true
		cl.HomeObject = ip.currentHome()
	}
	return ip.wrapClosure(cl)
}

func (ip *Interpreter) wrapClosure(cl *Closure) *value.Object {
	fn := value.NewObject(ip.Protos["Function"])
	fn.Class = "Function"
	fn.Callable = cl
	fn.DefineHidden(value.StringKey("name"), value.NewString(cl.Name))
	fn.DefineHidden(value.StringKey("length"), value.NewNumber(float64(countNonRestNonDefault(cl.Params))))
	if !cl.IsArrow && cl.Native == nil {
		proto := value.NewObject(ip.Protos["Object"])
		proto.DefineHidden(value.StringKey("constructor"), fn)
		fn.DefineHidden(value.StringKey("prototype"), proto)
	}
	return fn
}

func countNonRestNonDefault(params []ast.Param) int {
	n := 0
	for _, p := range params {
		if p.Rest || p.Default != nil {
			break
		}
		n++
	}
	return n
}

// NewNativeFunction wraps a Go function as a callable JS function
// object, used throughout internal/builtins.
func (ip *Interpreter) NewNativeFunction(name string, length int, fn NativeFunc) *value.Object {
	cl := &Closure{Name: name, Native: fn}
	obj := ip.wrapClosure(cl)
	obj.DefineHidden(value.StringKey("length"), value.NewNumber(float64(length)))
	return obj
}

// Call invokes callee with the given this/args (spec 4.4.4, "Call").
func (ip *Interpreter) Call(callee value.Value, this value.Value, args []value.Value) (value.Value, Signal, error) {
	obj, ok := callee.(*value.Object)
	if !ok {
		return nil, ip.throwErrorSig(errors.KindType, "%s is not a function", value.Inspect(callee)), nil
	}
	cl, ok := AsClosure(obj)
	if !ok {
		return nil, ip.throwErrorSig(errors.KindType, "%s is not a function", obj.Class), nil
	}
	if cl.Native != nil {
		return cl.Native(ip, this, args)
	}
	if cl.HasBoundThis {
		this = cl.BoundThis
	}
	return ip.invokeClosure(cl, this, args, nil)
}

// throwErrorSig is Call's convenience wrapper around throwError using a
// zero position; callers that have a real position should prefer
// ip.throwError directly.
func (ip *Interpreter) throwErrorSig(kind errors.Kind, format string, args ...any) Signal {
	return ip.throwError(token.Position{}, kind, format, args...)
}

// invokeClosure runs an ordinary (non-generator, non-async) or, for
// generator/async functions, the *driving* call that produces the
// generator/promise object rather than running the body inline.
func (ip *Interpreter) invokeClosure(cl *Closure, this value.Value, args []value.Value, newTarget *value.Object) (value.Value, Signal, error) {
	if cl.IsGenerator {
		return ip.makeGeneratorObject(cl, this, args), none, nil
	}
	if cl.IsAsync {
		return ip.runAsyncFunction(cl, this, args), none, nil
	}
	return ip.runFunctionBody(cl, this, args)
}

// runFunctionBody executes an ordinary function/arrow body to
// completion, translating a Return completion into its value and a
// falling-off-the-end completion into `undefined`.
func (ip *Interpreter) runFunctionBody(cl *Closure, this value.Value, args []value.Value) (value.Value, Signal, error) {
	scope := env.NewFunctionScope(cl.Env)
	if err := ip.bindParams(scope, cl.Params, args); err != nil {
		return nil, throwSignal(err.Value), nil
	}
	if !cl.IsArrow {
		ip.pushThis(this)
		defer ip.popThis()
		ip.pushHome(cl.HomeObject)
		defer ip.popHome()
		scope.DeclareVar("arguments")
		scope.InitializeLexical("arguments", ip.makeArgumentsObject(args))
	}

	if cl.ExprBody {
		v, sig, err := ip.evalExpr(scope, cl.Body.(ast.Expression))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return v, none, nil
	}

	body := cl.Body.(*ast.BlockStatement)
	ip.hoistVars(scope, body.Body)
	ip.hoistBlockLexicals(scope, body.Body)
	sig, err := ip.execStatements(scope, body.Body)
	if err != nil {
		return nil, none, err
	}
	switch sig.Kind {
	case SigReturn:
		return sig.Value, none, nil
	case SigThrow:
		return nil, sig, nil
	default:
		return value.Undefined, none, nil
	}
}

func (ip *Interpreter) makeArgumentsObject(args []value.Value) *value.Object {
	obj := value.NewObject(ip.Protos["Object"])
	obj.Class = "Arguments"
	for i, a := range args {
		obj.DefineData(value.StringKey(itoa(i)), a)
	}
	obj.DefineHidden(value.StringKey("length"), value.NewNumber(float64(len(args))))
	return obj
}

// bindParams binds the closure's parameter list against args into
// scope, applying defaults and gathering a trailing rest parameter
// (spec 4.3, "Destructuring").
func (ip *Interpreter) bindParams(scope *env.Environment, params []ast.Param, args []value.Value) *errThrow {
	for i, p := range params {
		if p.Rest {
			var rest []value.Value
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			if err := ip.bindPattern(scope, p.Pattern, ip.makeArray(rest), env.Var, true); err != nil {
				return err
			}
			break
		}
		var v value.Value = value.Undefined
		if i < len(args) {
			v = args[i]
		}
		if _, isUndef := v.(value.UndefinedValue); isUndef && p.Default != nil {
			dv, sig, err := ip.evalExpr(scope, p.Default)
			if err != nil {
				return &errThrow{Value: value.NewString(err.Error())}
			}
			if sig.Kind == SigThrow {
				return &errThrow{Value: sig.Value}
			}
			v = dv
		}
		if err := ip.bindPattern(scope, p.Pattern, v, env.Var, true); err != nil {
			return err
		}
	}
	return nil
}

// errThrow is a tiny internal carrier so bindParams (which runs before
// any Signal-returning context exists) can surface a thrown value.
type errThrow struct{ Value value.Value }

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
