package builtins

import (
	"sort"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installArray(ip *interp.Interpreter) {
	proto := ip.Protos["Array"]
	proto.Class = "Array"
	proto.DefineOwn(value.StringKey("length"), &value.PropertyDescriptor{Value: value.NewNumber(0), Writable: true})

	ctor := newConstructor(ip, "Array", 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if len(args) == 1 {
			if n, ok := args[0].(value.Number); ok {
				return ip.MakeArray(make([]value.Value, int(float64(n)))), interp.Signal{}, nil
			}
		}
		return ip.MakeArray(append([]value.Value{}, args...)), interp.Signal{}, nil
	})
	defineGlobal(ip, "Array", ctor)

	staticMethod(ip, ctor, "isArray", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := arg(args, 0).(*value.Object)
		return value.NewBoolean(ok && obj.Class == "Array"), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "of", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return ip.MakeArray(append([]value.Value{}, args...)), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "from", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		src := arg(args, 0)
		mapFn, _ := arg(args, 1).(*value.Object)
		var elems []value.Value
		if obj, ok := src.(*value.Object); ok && obj.Class != "Array" {
			if _, hasIter := obj.GetOwn(value.SymbolKey(value.SymIterator)); !hasIter {
				elems = arrayLikeToSlice(ip, obj)
			}
		}
		if elems == nil {
			slice, sig, err := ip.IterableToSlice(src)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			elems = slice
		}
		if mapFn != nil {
			for i, v := range elems {
				mapped, sig, err := ip.Call(mapFn, value.Undefined, []value.Value{v, value.NewNumber(float64(i))})
				if err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
				elems[i] = mapped
			}
		}
		return ip.MakeArray(elems), interp.Signal{}, nil
	})

	method(ip, proto, "push", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return nil, ip.ThrowTypeError("Array.prototype.push called on non-object"), nil
		}
		for _, a := range args {
			interp.ArrayPush(obj, a)
		}
		return value.NewNumber(float64(interp.ArrayLength(obj))), interp.Signal{}, nil
	})

	method(ip, proto, "pop", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return nil, ip.ThrowTypeError("Array.prototype.pop called on non-object"), nil
		}
		elems := interp.ArrayElements(obj)
		n := len(elems)
		if n == 0 {
			return value.Undefined, interp.Signal{}, nil
		}
		last := elems[n-1]
		setArrayElements(ip, obj, elems[:n-1])
		return last, interp.Signal{}, nil
	})

	method(ip, proto, "shift", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return nil, ip.ThrowTypeError("Array.prototype.shift called on non-object"), nil
		}
		elems := interp.ArrayElements(obj)
		if len(elems) == 0 {
			return value.Undefined, interp.Signal{}, nil
		}
		first := elems[0]
		setArrayElements(ip, obj, elems[1:])
		return first, interp.Signal{}, nil
	})

	method(ip, proto, "unshift", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return nil, ip.ThrowTypeError("Array.prototype.unshift called on non-object"), nil
		}
		elems := append(append([]value.Value{}, args...), interp.ArrayElements(obj)...)
		setArrayElements(ip, obj, elems)
		return value.NewNumber(float64(len(elems))), interp.Signal{}, nil
	})

	method(ip, proto, "slice", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return ip.MakeArray(nil), interp.Signal{}, nil
		}
		elems := interp.ArrayElements(obj)
		start, end := sliceRange(ip, args, len(elems))
		if start >= end {
			return ip.MakeArray(nil), interp.Signal{}, nil
		}
		return ip.MakeArray(append([]value.Value{}, elems[start:end]...)), interp.Signal{}, nil
	})

	method(ip, proto, "splice", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return ip.MakeArray(nil), interp.Signal{}, nil
		}
		elems := interp.ArrayElements(obj)
		n := len(elems)
		start := normalizeIndex(intArg(ip, args, 0, 0), n)
		deleteCount := n - start
		if len(args) > 1 {
			dc, _, _ := toNum(ip, args[1])
			deleteCount = clampInt(int(dc), 0, n-start)
		}
		removed := append([]value.Value{}, elems[start:start+deleteCount]...)
		var inserted []value.Value
		if len(args) > 2 {
			inserted = args[2:]
		}
		result := append([]value.Value{}, elems[:start]...)
		result = append(result, inserted...)
		result = append(result, elems[start+deleteCount:]...)
		setArrayElements(ip, obj, result)
		return ip.MakeArray(removed), interp.Signal{}, nil
	})

	method(ip, proto, "concat", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		var out []value.Value
		if ok {
			out = append(out, interp.ArrayElements(obj)...)
		}
		for _, a := range args {
			if ao, ok := a.(*value.Object); ok && ao.Class == "Array" {
				out = append(out, interp.ArrayElements(ao)...)
			} else {
				out = append(out, a)
			}
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})

	method(ip, proto, "join", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.NewString(""), interp.Signal{}, nil
		}
		sep := ","
		if s := arg(args, 0); !value.IsNullish(s) {
			str, sig, err := toStr(ip, s)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			sep = str
		}
		elems := interp.ArrayElements(obj)
		parts := make([]string, len(elems))
		for i, e := range elems {
			if value.IsNullish(e) {
				parts[i] = ""
				continue
			}
			s, sig, err := toStr(ip, e)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			parts[i] = s
		}
		return value.NewString(joinStrings(parts, sep)), interp.Signal{}, nil
	})

	method(ip, proto, "reverse", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return this, interp.Signal{}, nil
		}
		elems := interp.ArrayElements(obj)
		for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
			elems[i], elems[j] = elems[j], elems[i]
		}
		setArrayElements(ip, obj, elems)
		return obj, interp.Signal{}, nil
	})

	method(ip, proto, "indexOf", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.NewNumber(-1), interp.Signal{}, nil
		}
		target := arg(args, 0)
		for i, e := range interp.ArrayElements(obj) {
			if value.StrictEquals(e, target) {
				return value.NewNumber(float64(i)), interp.Signal{}, nil
			}
		}
		return value.NewNumber(-1), interp.Signal{}, nil
	})

	method(ip, proto, "lastIndexOf", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.NewNumber(-1), interp.Signal{}, nil
		}
		target := arg(args, 0)
		elems := interp.ArrayElements(obj)
		for i := len(elems) - 1; i >= 0; i-- {
			if value.StrictEquals(elems[i], target) {
				return value.NewNumber(float64(i)), interp.Signal{}, nil
			}
		}
		return value.NewNumber(-1), interp.Signal{}, nil
	})

	method(ip, proto, "includes", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		target := arg(args, 0)
		for _, e := range interp.ArrayElements(obj) {
			if value.SameValueZero(e, target) {
				return value.NewBoolean(true), interp.Signal{}, nil
			}
		}
		return value.NewBoolean(false), interp.Signal{}, nil
	})

	method(ip, proto, "forEach", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		fn, fnOk := arg(args, 0).(*value.Object)
		if !ok || !fnOk {
			return nil, ip.ThrowTypeError("callback is not a function"), nil
		}
		thisArg := arg(args, 1)
		for i, e := range interp.ArrayElements(obj) {
			_, sig, err := ip.Call(fn, thisArg, []value.Value{e, value.NewNumber(float64(i)), obj})
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
		}
		return value.Undefined, interp.Signal{}, nil
	})

	method(ip, proto, "map", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		fn, fnOk := arg(args, 0).(*value.Object)
		if !ok || !fnOk {
			return nil, ip.ThrowTypeError("callback is not a function"), nil
		}
		thisArg := arg(args, 1)
		elems := interp.ArrayElements(obj)
		out := make([]value.Value, len(elems))
		for i, e := range elems {
			v, sig, err := ip.Call(fn, thisArg, []value.Value{e, value.NewNumber(float64(i)), obj})
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			out[i] = v
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})

	method(ip, proto, "filter", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		fn, fnOk := arg(args, 0).(*value.Object)
		if !ok || !fnOk {
			return nil, ip.ThrowTypeError("callback is not a function"), nil
		}
		thisArg := arg(args, 1)
		var out []value.Value
		for i, e := range interp.ArrayElements(obj) {
			v, sig, err := ip.Call(fn, thisArg, []value.Value{e, value.NewNumber(float64(i)), obj})
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			if value.ToBoolean(v) {
				out = append(out, e)
			}
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})

	method(ip, proto, "reduce", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return arrayReduce(ip, this, args, false)
	})
	method(ip, proto, "reduceRight", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return arrayReduce(ip, this, args, true)
	})

	method(ip, proto, "find", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		v, _, sig, err := arrayFind(ip, this, args)
		return v, sig, err
	})
	method(ip, proto, "findIndex", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		_, idx, sig, err := arrayFind(ip, this, args)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(float64(idx)), interp.Signal{}, nil
	})

	method(ip, proto, "some", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return arraySomeEvery(ip, this, args, true)
	})
	method(ip, proto, "every", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return arraySomeEvery(ip, this, args, false)
	})

	method(ip, proto, "flat", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return ip.MakeArray(nil), interp.Signal{}, nil
		}
		depth := 1
		if len(args) > 0 {
			d, _, _ := toNum(ip, args[0])
			depth = int(d)
		}
		return ip.MakeArray(flatten(interp.ArrayElements(obj), depth)), interp.Signal{}, nil
	})

	method(ip, proto, "sort", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return this, interp.Signal{}, nil
		}
		cmp, _ := arg(args, 0).(*value.Object)
		elems := interp.ArrayElements(obj)
		var sortErr error
		var sortSig interp.Signal
		sort.SliceStable(elems, func(i, j int) bool {
			if sortErr != nil || sortSig.IsAbrupt() {
				return false
			}
			if value.IsNullish(elems[i]) {
				return false
			}
			if value.IsNullish(elems[j]) {
				return true
			}
			if cmp != nil {
				r, sig, err := ip.Call(cmp, value.Undefined, []value.Value{elems[i], elems[j]})
				if err != nil || sig.IsAbrupt() {
					sortErr, sortSig = err, sig
					return false
				}
				n, _, _ := toNum(ip, r)
				return n < 0
			}
			si, _, _ := toStr(ip, elems[i])
			sj, _, _ := toStr(ip, elems[j])
			return si < sj
		})
		if sortErr != nil || sortSig.IsAbrupt() {
			return nil, sortSig, sortErr
		}
		setArrayElements(ip, obj, elems)
		return obj, interp.Signal{}, nil
	})

	method(ip, proto, "fill", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return this, interp.Signal{}, nil
		}
		elems := interp.ArrayElements(obj)
		fillVal := arg(args, 0)
		start, end := sliceRangeFrom(ip, args, 1, len(elems))
		for i := start; i < end; i++ {
			elems[i] = fillVal
		}
		setArrayElements(ip, obj, elems)
		return obj, interp.Signal{}, nil
	})

	method(ip, proto, "flatMap", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		fn, fnOk := arg(args, 0).(*value.Object)
		if !ok || !fnOk {
			return nil, ip.ThrowTypeError("callback is not a function"), nil
		}
		var out []value.Value
		for i, e := range interp.ArrayElements(obj) {
			v, sig, err := ip.Call(fn, value.Undefined, []value.Value{e, value.NewNumber(float64(i)), obj})
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			if ao, ok := v.(*value.Object); ok && ao.Class == "Array" {
				out = append(out, interp.ArrayElements(ao)...)
			} else {
				out = append(out, v)
			}
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})

	method(ip, proto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		joinFn, _, _ := ip.GetProperty(this, value.StringKey("join"))
		if fn, ok := joinFn.(*value.Object); ok {
			return ip.Call(fn, this, nil)
		}
		return value.NewString(""), interp.Signal{}, nil
	})

	getter(ip, proto, "length", func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.NewNumber(0), interp.Signal{}, nil
		}
		return value.NewNumber(float64(interp.ArrayLength(obj))), interp.Signal{}, nil
	})
}

func setArrayElements(ip *interp.Interpreter, obj *value.Object, elems []value.Value) {
	for _, k := range obj.OwnKeys() {
		if !k.IsSymbol() && k.Str != "length" {
			obj.DeleteOwn(k)
		}
	}
	for i, e := range elems {
		obj.DefineData(value.StringKey(itoaIndex(i)), e)
	}
	obj.DefineOwn(value.StringKey("length"), &value.PropertyDescriptor{Value: value.NewNumber(float64(len(elems))), Writable: true})
}

func arrayReduce(ip *interp.Interpreter, this value.Value, args []value.Value, right bool) (value.Value, interp.Signal, error) {
	obj, ok := thisObject(this)
	fn, fnOk := arg(args, 0).(*value.Object)
	if !ok || !fnOk {
		return nil, ip.ThrowTypeError("callback is not a function"), nil
	}
	elems := interp.ArrayElements(obj)
	if right {
		elems = append([]value.Value{}, elems...)
		for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
			elems[i], elems[j] = elems[j], elems[i]
		}
	}
	var acc value.Value
	start := 0
	if len(args) > 1 {
		acc = args[1]
	} else if len(elems) > 0 {
		acc = elems[0]
		start = 1
	} else {
		return nil, ip.ThrowTypeError("Reduce of empty array with no initial value"), nil
	}
	for i := start; i < len(elems); i++ {
		idx := i
		if right {
			idx = len(elems) - 1 - i
		}
		v, sig, err := ip.Call(fn, value.Undefined, []value.Value{acc, elems[i], value.NewNumber(float64(idx)), obj})
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		acc = v
	}
	return acc, interp.Signal{}, nil
}

func arrayFind(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, int, interp.Signal, error) {
	obj, ok := thisObject(this)
	fn, fnOk := arg(args, 0).(*value.Object)
	if !ok || !fnOk {
		return nil, -1, ip.ThrowTypeError("callback is not a function"), nil
	}
	for i, e := range interp.ArrayElements(obj) {
		v, sig, err := ip.Call(fn, value.Undefined, []value.Value{e, value.NewNumber(float64(i)), obj})
		if err != nil || sig.IsAbrupt() {
			return nil, -1, sig, err
		}
		if value.ToBoolean(v) {
			return e, i, interp.Signal{}, nil
		}
	}
	return value.Undefined, -1, interp.Signal{}, nil
}

func arraySomeEvery(ip *interp.Interpreter, this value.Value, args []value.Value, isSome bool) (value.Value, interp.Signal, error) {
	obj, ok := thisObject(this)
	fn, fnOk := arg(args, 0).(*value.Object)
	if !ok || !fnOk {
		return nil, ip.ThrowTypeError("callback is not a function"), nil
	}
	for i, e := range interp.ArrayElements(obj) {
		v, sig, err := ip.Call(fn, value.Undefined, []value.Value{e, value.NewNumber(float64(i)), obj})
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if value.ToBoolean(v) == isSome {
			return value.NewBoolean(isSome), interp.Signal{}, nil
		}
	}
	return value.NewBoolean(!isSome), interp.Signal{}, nil
}

func flatten(elems []value.Value, depth int) []value.Value {
	if depth <= 0 {
		return append([]value.Value{}, elems...)
	}
	var out []value.Value
	for _, e := range elems {
		if ao, ok := e.(*value.Object); ok && ao.Class == "Array" {
			out = append(out, flatten(interp.ArrayElements(ao), depth-1)...)
		} else {
			out = append(out, e)
		}
	}
	return out
}

func sliceRange(ip *interp.Interpreter, args []value.Value, length int) (int, int) {
	start := normalizeIndex(intArg(ip, args, 0, 0), length)
	end := length
	if len(args) > 1 && !value.IsNullish(args[1]) {
		end = normalizeIndex(intArg(ip, args, 1, length), length)
	}
	return start, end
}

func sliceRangeFrom(ip *interp.Interpreter, args []value.Value, offset, length int) (int, int) {
	start := 0
	if len(args) > offset {
		n, _, _ := toNum(ip, args[offset])
		start = normalizeIndex(int(n), length)
	}
	end := length
	if len(args) > offset+1 {
		n, _, _ := toNum(ip, args[offset+1])
		end = normalizeIndex(int(n), length)
	}
	return start, end
}

func intArg(ip *interp.Interpreter, args []value.Value, i, def int) int {
	if i >= len(args) || value.IsNullish(args[i]) {
		return def
	}
	n, _, _ := toNum(ip, args[i])
	return int(n)
}

func normalizeIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	return clampInt(i, 0, length)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func joinStrings(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

