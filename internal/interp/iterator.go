package interp

import (
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/token"
	"github.com/ssrlive/ecmacore/internal/value"
)

// iterableToSlice drains an iterable fully into a Go slice, for
// destructuring and spread contexts that need every element up front
// (spec 4.6, "iterator protocol").
func (ip *Interpreter) iterableToSlice(scope *env.Environment, v value.Value) ([]value.Value, *errThrow) {
	if arr, ok := v.(*value.Object); ok && arr.Class == "Array" {
		return ArrayElements(arr), nil
	}
	if s, ok := v.(value.StringValue); ok {
		return stringCodePoints(s), nil
	}
	iter, thr := ip.getIterator(v)
	if thr != nil {
		return nil, thr
	}
	var out []value.Value
	for {
		item, done, thr := ip.iteratorStep(iter)
		if thr != nil {
			return nil, thr
		}
		if done {
			return out, nil
		}
		out = append(out, item)
	}
}

// stringCodePoints splits a StringValue into one-element StringValues
// per Unicode code point (surrogate pairs combined), matching string
// iteration semantics (spec 4.6).
func stringCodePoints(s value.StringValue) []value.Value {
	var out []value.Value
	units := s.Units
	for i := 0; i < len(units); {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF {
			out = append(out, value.StringValue{Units: units[i : i+2]})
			i += 2
			continue
		}
		out = append(out, value.StringValue{Units: units[i : i+1]})
		i++
	}
	return out
}

// getIterator implements GetIterator: look up Symbol.iterator, call
// it, and require the result to be an object (spec 4.6).
func (ip *Interpreter) getIterator(v value.Value) (*value.Object, *errThrow) {
	method, sig, err := ip.getProperty(v, value.SymbolKey(value.SymIterator))
	if err != nil || sig.IsAbrupt() {
		return nil, toErrThrow(sig, err)
	}
	fn, ok := method.(*value.Object)
	if !ok {
		return nil, &errThrow{Value: ip.makeError(errors.KindType, value.Inspect(v)+" is not iterable", zeroPos)}
	}
	r, sig, err := ip.Call(fn, v, nil)
	if err != nil || sig.IsAbrupt() {
		return nil, toErrThrow(sig, err)
	}
	iterObj, ok := r.(*value.Object)
	if !ok {
		return nil, &errThrow{Value: ip.makeError(errors.KindType, "Result of the Symbol.iterator method is not an object", zeroPos)}
	}
	return iterObj, nil
}

// iteratorStep calls iterator.next() and unpacks {value, done}.
func (ip *Interpreter) iteratorStep(iter *value.Object) (value.Value, bool, *errThrow) {
	next, sig, err := ip.getProperty(iter, value.StringKey("next"))
	if err != nil || sig.IsAbrupt() {
		return nil, false, toErrThrow(sig, err)
	}
	nextFn, ok := next.(*value.Object)
	if !ok {
		return nil, false, &errThrow{Value: ip.makeError(errors.KindType, "iterator.next is not a function", zeroPos)}
	}
	result, sig, err := ip.Call(nextFn, iter, nil)
	if err != nil || sig.IsAbrupt() {
		return nil, false, toErrThrow(sig, err)
	}
	resObj, ok := result.(*value.Object)
	if !ok {
		return nil, false, &errThrow{Value: ip.makeError(errors.KindType, "Iterator result is not an object", zeroPos)}
	}
	doneV, sig, err := ip.getProperty(resObj, value.StringKey("done"))
	if err != nil || sig.IsAbrupt() {
		return nil, false, toErrThrow(sig, err)
	}
	valV, sig, err := ip.getProperty(resObj, value.StringKey("value"))
	if err != nil || sig.IsAbrupt() {
		return nil, false, toErrThrow(sig, err)
	}
	return valV, value.ToBoolean(doneV), nil
}

// iteratorClose calls iterator.return() if present, used for early
// exit from a for-of loop (break/return/throw mid-iteration).
func (ip *Interpreter) iteratorClose(iter *value.Object) {
	ret, sig, err := ip.getProperty(iter, value.StringKey("return"))
	if err != nil || sig.IsAbrupt() {
		return
	}
	retFn, ok := ret.(*value.Object)
	if !ok {
		return
	}
	ip.Call(retFn, iter, nil)
}

func toErrThrow(sig Signal, err error) *errThrow {
	if sig.Kind == SigThrow {
		return &errThrow{Value: sig.Value}
	}
	if err != nil {
		return &errThrow{Value: value.NewString(err.Error())}
	}
	return &errThrow{Value: value.Undefined}
}

var zeroPos = token.Position{}
