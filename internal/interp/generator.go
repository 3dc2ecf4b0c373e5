package interp

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/async"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/value"
)

// makeGeneratorObject builds a generator instance wrapping an
// async.Coroutine that runs cl's body (spec 3.7, 4.8). Parameter
// binding and hoisting are deferred until the body actually starts
// running on the first next() call, matching a generator's NotStarted
// state tolerating a throwing default parameter only once it's driven.
func (ip *Interpreter) makeGeneratorObject(cl *Closure, this value.Value, args []value.Value) *value.Object {
	scope := env.NewFunctionScope(cl.Env)

	co := async.NewCoroutine(func(yield async.YieldFunc) (value.Value, bool) {
		ip.yieldStack = append(ip.yieldStack, yield)
		defer func() { ip.yieldStack = ip.yieldStack[:len(ip.yieldStack)-1] }()
		ip.pushThis(this)
		defer ip.popThis()
		ip.pushHome(cl.HomeObject)
		defer ip.popHome()

		if thr := ip.bindParams(scope, cl.Params, args); thr != nil {
			return thr.Value, true
		}
		scope.DeclareVar("arguments")
		scope.InitializeLexical("arguments", ip.makeArgumentsObject(args))

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

	obj := value.NewObject(ip.Protos["Generator"])
	obj.Class = "Generator"
	if obj.Internal == nil {
		obj.Internal = map[string]any{}
	}
	obj.Internal["coroutine"] = co

	obj.DefineHidden(value.StringKey("next"), ip.NewNativeFunction("next", 1, func(ip *Interpreter, this value.Value, args []value.Value) (value.Value, Signal, error) {
		return ip.driveCoroutine(co, async.Resume{Kind: async.ResumeNext, Value: firstArg(args)})
	}))
	obj.DefineHidden(value.StringKey("throw"), ip.NewNativeFunction("throw", 1, func(ip *Interpreter, this value.Value, args []value.Value) (value.Value, Signal, error) {
		return ip.driveCoroutine(co, async.Resume{Kind: async.ResumeThrow, Value: firstArg(args)})
	}))
	obj.DefineHidden(value.StringKey("return"), ip.NewNativeFunction("return", 1, func(ip *Interpreter, this value.Value, args []value.Value) (value.Value, Signal, error) {
		return ip.driveCoroutine(co, async.Resume{Kind: async.ResumeReturn, Value: firstArg(args)})
	}))
	obj.DefineHidden(value.SymbolKey(value.SymIterator), ip.NewNativeFunction("[Symbol.iterator]", 0, func(ip *Interpreter, this value.Value, args []value.Value) (value.Value, Signal, error) {
		return this, none, nil
	}))
	return obj
}

func firstArg(args []value.Value) value.Value {
	if len(args) == 0 {
		return value.Undefined
	}
	return args[0]
}

// driveCoroutine advances co and packages the result as the
// {value, done} iterator-result object next/throw/return must return,
// translating a StepError into a thrown Signal (spec 3.7).
func (ip *Interpreter) driveCoroutine(co *async.Coroutine, r async.Resume) (value.Value, Signal, error) {
	step := co.Resume(r)
	switch step.Kind {
	case async.StepYield:
		return ip.makeIterResult(step.Value, false), none, nil
	case async.StepDone:
		return ip.makeIterResult(step.Value, true), none, nil
	case async.StepError:
		return nil, throwSignal(step.Value), nil
	}
	return value.Undefined, none, nil
}

func (ip *Interpreter) makeIterResult(v value.Value, done bool) *value.Object {
	obj := value.NewObject(ip.Protos["Object"])
	obj.DefineData(value.StringKey("value"), v)
	obj.DefineData(value.StringKey("done"), value.NewBoolean(done))
	return obj
}
