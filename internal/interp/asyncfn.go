package interp

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/async"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/value"
)

// makePromiseObject wraps an *async.Promise as the user-visible
// `Promise` instance; internal/builtins installs Promise.prototype's
// then/catch/finally, which read the same Internal["promise"] slot.
func (ip *Interpreter) makePromiseObject(p *async.Promise) *value.Object {
	obj := value.NewObject(ip.Protos["Promise"])
	obj.Class = "Promise"
	if obj.Internal == nil {
		obj.Internal = map[string]any{}
	}
	obj.Internal["promise"] = p
	return obj
}

// isThenable implements IsThenable (spec 3.6): an object is thenable
// if it has a callable `.then`. Returns a `then` invoker that drives
// the user's then method with native resolve/reject callback
// functions, used by Promise.Resolve's thenable-adoption path.
func (ip *Interpreter) isThenable(v value.Value) (func(resolve, reject func(value.Value)), bool) {
	obj, ok := v.(*value.Object)
	if !ok {
		return nil, false
	}
	thenV, sig, err := ip.getProperty(obj, value.StringKey("then"))
	if err != nil || sig.IsAbrupt() {
		return nil, false
	}
	thenFn, ok := thenV.(*value.Object)
	if !ok {
		return nil, false
	}
	if _, isFn := AsClosure(thenFn); !isFn {
		return nil, false
	}
	return func(resolve, reject func(value.Value)) {
		resolveFn := ip.NewNativeFunction("", 1, func(ip *Interpreter, this value.Value, args []value.Value) (value.Value, Signal, error) {
			resolve(firstArg(args))
			return value.Undefined, none, nil
		})
		rejectFn := ip.NewNativeFunction("", 1, func(ip *Interpreter, this value.Value, args []value.Value) (value.Value, Signal, error) {
			reject(firstArg(args))
			return value.Undefined, none, nil
		})
		ip.Call(thenFn, obj, []value.Value{resolveFn, rejectFn})
	}, true
}

// toPromise coerces any awaited value into an *async.Promise: an
// existing engine Promise is reused directly, everything else
// (including a foreign thenable) is wrapped via Promise.resolve
// semantics (spec 4.8, "Await").
func (ip *Interpreter) toPromise(v value.Value) *async.Promise {
	if obj, ok := v.(*value.Object); ok {
		if p, ok := obj.Internal["promise"].(*async.Promise); ok {
			return p
		}
	}
	p := async.NewPromise(ip.Jobs)
	p.Resolve(v, ip.isThenable)
	return p
}

// runAsyncFunction drives cl's body on a Coroutine, treating every
// suspension point (an `await`) as "wait for this value's promise to
// settle, then resume with its fulfillment value or throw its
// rejection reason" (spec 4.8, "Async functions").
func (ip *Interpreter) runAsyncFunction(cl *Closure, this value.Value, args []value.Value) value.Value {
	p := async.NewPromise(ip.Jobs)
	promiseObj := ip.makePromiseObject(p)
	scope := env.NewFunctionScope(cl.Env)

	co := async.NewCoroutine(func(yield async.YieldFunc) (value.Value, bool) {
		ip.yieldStack = append(ip.yieldStack, yield)
		defer func() { ip.yieldStack = ip.yieldStack[:len(ip.yieldStack)-1] }()
		if !cl.IsArrow {
			ip.pushThis(this)
			defer ip.popThis()
			ip.pushHome(cl.HomeObject)
			defer ip.popHome()
			scope.DeclareVar("arguments")
			scope.InitializeLexical("arguments", ip.makeArgumentsObject(args))
		}

		if thr := ip.bindParams(scope, cl.Params, args); thr != nil {
			return thr.Value, true
		}

		if cl.ExprBody {
			v, sig, err := ip.evalExpr(scope, cl.Body.(ast.Expression))
			if err != nil {
				return value.NewString(err.Error()), true
			}
			if sig.Kind == SigThrow {
				return sig.Value, true
			}
			return v, false
		}

		body := cl.Body.(*ast.BlockStatement)
		ip.hoistVars(scope, body.Body)
		ip.hoistBlockLexicals(scope, body.Body)
		sig, err := ip.execStatements(scope, body.Body)
		if err != nil {
			return value.NewString(err.Error()), true
		}
		switch sig.Kind {
		case SigReturn:
			return sig.Value, false
		case SigThrow:
			return sig.Value, true
		default:
			return value.Undefined, false
		}
	})

	var drive func(r async.Resume)
	drive = func(r async.Resume) {
		step := co.Resume(r)
		switch step.Kind {
		case async.StepDone:
			p.Resolve(step.Value, ip.isThenable)
		case async.StepError:
			p.Reject(step.Value)
		case async.StepYield:
			awaited := ip.toPromise(step.Value)
			awaited.Then(
				func(v value.Value) { drive(async.Resume{Kind: async.ResumeNext, Value: v}) },
				func(reason value.Value) { drive(async.Resume{Kind: async.ResumeThrow, Value: reason}) },
			)
		}
	}
	drive(async.Resume{Kind: async.ResumeNext})

	return promiseObj
}
