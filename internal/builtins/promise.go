package builtins

import (
	"github.com/ssrlive/ecmacore/internal/async"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installPromise(ip *interp.Interpreter) {
	proto := ip.Protos["Promise"]

	ctor := newConstructor(ip, "Promise", 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		executor, ok := arg(args, 0).(*value.Object)
		if !ok || executor.Callable == nil {
			return nil, ip.ThrowTypeError("Promise resolver is not a function"), nil
		}
		p := async.NewPromise(ip.Jobs)
		obj := ip.MakePromise(p)
		resolve := ip.NewNativeFunction("", 1, func(ip *interp.Interpreter, _ value.Value, a []value.Value) (value.Value, interp.Signal, error) {
			p.Resolve(arg(a, 0), ip.IsThenableFunc())
			return value.Undefined, interp.Signal{}, nil
		})
		reject := ip.NewNativeFunction("", 1, func(ip *interp.Interpreter, _ value.Value, a []value.Value) (value.Value, interp.Signal, error) {
			p.Reject(arg(a, 0))
			return value.Undefined, interp.Signal{}, nil
		})
		_, sig, err := ip.Call(executor, value.Undefined, []value.Value{resolve, reject})
		if err != nil || sig.IsAbrupt() {
			if sig.Kind == interp.SigThrow {
				p.Reject(sig.Value)
				return obj, interp.Signal{}, nil
			}
			return nil, sig, err
		}
		return obj, interp.Signal{}, nil
	})
	defineGlobal(ip, "Promise", ctor)

	staticMethod(ip, ctor, "resolve", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		v := arg(args, 0)
		if obj, ok := v.(*value.Object); ok {
			if _, ok := obj.Internal["promise"].(*async.Promise); ok {
				return obj, interp.Signal{}, nil
			}
		}
		p := async.NewPromise(ip.Jobs)
		p.Resolve(v, ip.IsThenableFunc())
		return ip.MakePromise(p), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "reject", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		p := async.NewPromise(ip.Jobs)
		p.Reject(arg(args, 0))
		return ip.MakePromise(p), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "all", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return promiseCombinator(ip, args, combinatorAll)
	})
	staticMethod(ip, ctor, "allSettled", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return promiseCombinator(ip, args, combinatorAllSettled)
	})
	staticMethod(ip, ctor, "race", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return promiseCombinator(ip, args, combinatorRace)
	})
	staticMethod(ip, ctor, "any", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return promiseCombinator(ip, args, combinatorAny)
	})

	method(ip, proto, "then", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return promiseThen(ip, this, arg(args, 0), arg(args, 1))
	})
	method(ip, proto, "catch", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return promiseThen(ip, this, value.Undefined, arg(args, 0))
	})
	method(ip, proto, "finally", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		onFinally, ok := arg(args, 0).(*value.Object)
		wrap := func(passthrough bool) *value.Object {
			return ip.NewNativeFunction("", 1, func(ip *interp.Interpreter, _ value.Value, a []value.Value) (value.Value, interp.Signal, error) {
				if ok && onFinally.Callable != nil {
					_, sig, err := ip.Call(onFinally, value.Undefined, nil)
					if err != nil || sig.IsAbrupt() {
						return nil, sig, err
					}
				}
				if passthrough {
					return arg(a, 0), interp.Signal{}, nil
				}
				return nil, interp.Signal{Kind: interp.SigThrow, Value: arg(a, 0)}, nil
			})
		}
		return promiseThen(ip, this, wrap(true), wrap(false))
	})
}

func promiseThen(ip *interp.Interpreter, this value.Value, onFulfilled, onRejected value.Value) (value.Value, interp.Signal, error) {
	obj, ok := thisObject(this)
	if !ok {
		return nil, ip.ThrowTypeError("Promise.prototype.then called on non-object"), nil
	}
	p, ok := obj.Internal["promise"].(*async.Promise)
	if !ok {
		return nil, ip.ThrowTypeError("Promise.prototype.then called on incompatible receiver"), nil
	}
	result := async.NewPromise(ip.Jobs)
	fulfillFn, _ := onFulfilled.(*value.Object)
	rejectFn, _ := onRejected.(*value.Object)
	isThenable := ip.IsThenableFunc()
	p.Then(
		func(v value.Value) {
			if fulfillFn != nil && fulfillFn.Callable != nil {
				r, sig, err := ip.Call(fulfillFn, value.Undefined, []value.Value{v})
				if err != nil {
					result.Reject(value.NewString(err.Error()))
					return
				}
				if sig.Kind == interp.SigThrow {
					result.Reject(sig.Value)
					return
				}
				result.Resolve(r, isThenable)
				return
			}
			result.Resolve(v, isThenable)
		},
		func(reason value.Value) {
			if rejectFn != nil && rejectFn.Callable != nil {
				r, sig, err := ip.Call(rejectFn, value.Undefined, []value.Value{reason})
				if err != nil {
					result.Reject(value.NewString(err.Error()))
					return
				}
				if sig.Kind == interp.SigThrow {
					result.Reject(sig.Value)
					return
				}
				result.Resolve(r, isThenable)
				return
			}
			result.Reject(reason)
		},
	)
	return ip.MakePromise(result), interp.Signal{}, nil
}

type combinatorKind int

const (
	combinatorAll combinatorKind = iota
	combinatorAllSettled
	combinatorRace
	combinatorAny
)

func promiseCombinator(ip *interp.Interpreter, args []value.Value, kind combinatorKind) (value.Value, interp.Signal, error) {
	items, sig, err := ip.IterableToSlice(arg(args, 0))
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	result := async.NewPromise(ip.Jobs)
	isThenable := ip.IsThenableFunc()

	if kind == combinatorRace {
		for _, it := range items {
			ip.ToPromiseValue(it).Then(
				func(v value.Value) { result.Resolve(v, isThenable) },
				func(r value.Value) { result.Reject(r) },
			)
		}
		return ip.MakePromise(result), interp.Signal{}, nil
	}

	n := len(items)
	if n == 0 {
		switch kind {
		case combinatorAny:
			result.Reject(ip.NewError(errors.KindAggregate, "All promises were rejected"))
		default:
			result.Resolve(ip.MakeArray(nil), isThenable)
		}
		return ip.MakePromise(result), interp.Signal{}, nil
	}

	values := make([]value.Value, n)
	remaining := n
	rejections := make([]value.Value, n)
	rejectedCount := 0
	settled := false

	for i := range items {
		idx := i
		p := ip.ToPromiseValue(items[idx])
		p.Then(
			func(v value.Value) {
				if settled {
					return
				}
				switch kind {
				case combinatorAll:
					values[idx] = v
					remaining--
					if remaining == 0 {
						settled = true
						result.Resolve(ip.MakeArray(values), isThenable)
					}
				case combinatorAllSettled:
					values[idx] = settledResult(ip, true, v)
					remaining--
					if remaining == 0 {
						settled = true
						result.Resolve(ip.MakeArray(values), isThenable)
					}
				case combinatorAny:
					settled = true
					result.Resolve(v, isThenable)
				}
			},
			func(reason value.Value) {
				if settled {
					return
				}
				switch kind {
				case combinatorAll:
					settled = true
					result.Reject(reason)
				case combinatorAllSettled:
					values[idx] = settledResult(ip, false, reason)
					remaining--
					if remaining == 0 {
						settled = true
						result.Resolve(ip.MakeArray(values), isThenable)
					}
				case combinatorAny:
					rejections[idx] = reason
					rejectedCount++
					if rejectedCount == n {
						settled = true
						result.Reject(ip.MakeArray(rejections))
					}
				}
			},
		)
	}
	return ip.MakePromise(result), interp.Signal{}, nil
}

func settledResult(ip *interp.Interpreter, fulfilled bool, v value.Value) *value.Object {
	obj := value.NewObject(ip.Protos["Object"])
	if fulfilled {
		obj.DefineData(value.StringKey("status"), value.NewString("fulfilled"))
		obj.DefineData(value.StringKey("value"), v)
	} else {
		obj.DefineData(value.StringKey("status"), value.NewString("rejected"))
		obj.DefineData(value.StringKey("reason"), v)
	}
	return obj
}
