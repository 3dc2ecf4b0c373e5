package builtins

import (
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installObject(ip *interp.Interpreter, proto *value.Object) {
	ctor := newConstructor(ip, "Object", 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		v := arg(args, 0)
		if value.IsNullish(v) {
			return value.NewObject(proto), interp.Signal{}, nil
		}
		if obj, ok := v.(*value.Object); ok {
			return obj, interp.Signal{}, nil
		}
		return v, interp.Signal{}, nil
	})
	defineGlobal(ip, "Object", ctor)

	method(ip, proto, "hasOwnProperty", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, isObj := thisObject(this)
		if !isObj {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		key := ip.ToPropertyKey(arg(args, 0))
		_, has := obj.GetOwn(key)
		return value.NewBoolean(has), interp.Signal{}, nil
	})

	method(ip, proto, "isPrototypeOf", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, isObj := thisObject(this)
		other, isOther := arg(args, 0).(*value.Object)
		if !isObj || !isOther {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		for cur := other.Proto; cur != nil; cur = cur.Proto {
			if cur == obj {
				return value.NewBoolean(true), interp.Signal{}, nil
			}
		}
		return value.NewBoolean(false), interp.Signal{}, nil
	})

	method(ip, proto, "propertyIsEnumerable", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, isObj := thisObject(this)
		if !isObj {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		d, has := obj.GetOwn(ip.ToPropertyKey(arg(args, 0)))
		return value.NewBoolean(has && d.Enumerable), interp.Signal{}, nil
	})

	method(ip, proto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if obj, isObj := thisObject(this); isObj {
			tag, sig, err := ip.GetProperty(obj, value.SymbolKey(value.SymToStringTag))
			if err == nil && !sig.IsAbrupt() {
				if s, ok := tag.(value.StringValue); ok {
					return value.NewString("[object " + s.String() + "]"), interp.Signal{}, nil
				}
			}
			return value.NewString("[object " + obj.Class + "]"), interp.Signal{}, nil
		}
		return value.NewString("[object Object]"), interp.Signal{}, nil
	})

	method(ip, proto, "valueOf", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return this, interp.Signal{}, nil
	})

	// Static methods.
	staticMethod(ip, ctor, "keys", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return ip.MakeArray(enumerableOwnKeys(arg(args, 0), false, false)), interp.Signal{}, nil
	})
	staticMethod(ip, ctor, "values", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return ip.MakeArray(enumerableOwnKeys(arg(args, 0), true, false)), interp.Signal{}, nil
	})
	staticMethod(ip, ctor, "entries", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return ip.MakeArray(enumerableOwnKeys(arg(args, 0), true, true)), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "assign", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Object.assign target must be an object"), nil
		}
		for _, src := range args[1:] {
			so, ok := src.(*value.Object)
			if !ok {
				continue
			}
			for _, k := range so.OwnKeys() {
				d, _ := so.GetOwn(k)
				if !d.Enumerable {
					continue
				}
				v, sig, err := ip.GetProperty(so, k)
				if err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
				if sig, err := ip.SetProperty(target, k, v); err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
			}
		}
		return target, interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "freeze", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if obj, ok := arg(args, 0).(*value.Object); ok {
			obj.Extensible = false
			for _, k := range obj.OwnKeys() {
				d, _ := obj.GetOwn(k)
				d.Writable = false
				d.Configurable = false
			}
		}
		return arg(args, 0), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "isFrozen", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return value.NewBoolean(true), interp.Signal{}, nil
		}
		if obj.Extensible {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		for _, k := range obj.OwnKeys() {
			d, _ := obj.GetOwn(k)
			if d.Writable || d.Configurable {
				return value.NewBoolean(false), interp.Signal{}, nil
			}
		}
		return value.NewBoolean(true), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "seal", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if obj, ok := arg(args, 0).(*value.Object); ok {
			obj.Extensible = false
			for _, k := range obj.OwnKeys() {
				d, _ := obj.GetOwn(k)
				d.Configurable = false
			}
		}
		return arg(args, 0), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "preventExtensions", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if obj, ok := arg(args, 0).(*value.Object); ok {
			obj.Extensible = false
		}
		return arg(args, 0), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "isExtensible", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := arg(args, 0).(*value.Object)
		return value.NewBoolean(ok && obj.Extensible), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "create", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		var p *value.Object
		switch v := arg(args, 0).(type) {
		case *value.Object:
			p = v
		case value.NullValue:
			p = nil
		default:
			return nil, ip.ThrowTypeError("Object prototype may only be an Object or null"), nil
		}
		obj := value.NewObject(p)
		if props, ok := arg(args, 1).(*value.Object); ok {
			for _, k := range props.OwnKeys() {
				d, _ := props.GetOwn(k)
				descObj, ok := d.Value.(*value.Object)
				if !ok {
					continue
				}
				applyDescriptor(ip, obj, k, descObj)
			}
		}
		return obj, interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "getPrototypeOf", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok || obj.Proto == nil {
			return value.Null, interp.Signal{}, nil
		}
		return obj.Proto, interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "setPrototypeOf", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return arg(args, 0), interp.Signal{}, nil
		}
		switch p := arg(args, 1).(type) {
		case *value.Object:
			obj.Proto = p
		case value.NullValue:
			obj.Proto = nil
		}
		return obj, interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "defineProperty", 3, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Object.defineProperty called on non-object"), nil
		}
		descObj, ok := arg(args, 2).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Property description must be an object"), nil
		}
		applyDescriptor(ip, obj, ip.ToPropertyKey(arg(args, 1)), descObj)
		return obj, interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "defineProperties", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Object.defineProperties called on non-object"), nil
		}
		props, ok := arg(args, 1).(*value.Object)
		if !ok {
			return obj, interp.Signal{}, nil
		}
		for _, k := range props.OwnKeys() {
			d, _ := props.GetOwn(k)
			if descObj, ok := d.Value.(*value.Object); ok {
				applyDescriptor(ip, obj, k, descObj)
			}
		}
		return obj, interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "getOwnPropertyNames", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return ip.MakeArray(nil), interp.Signal{}, nil
		}
		var out []value.Value
		for _, k := range obj.OwnKeys() {
			if !k.IsSymbol() {
				out = append(out, value.NewString(k.Str))
			}
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "getOwnPropertyDescriptor", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := arg(args, 0).(*value.Object)
		if !ok {
			return value.Undefined, interp.Signal{}, nil
		}
		d, has := obj.GetOwn(ip.ToPropertyKey(arg(args, 1)))
		if !has {
			return value.Undefined, interp.Signal{}, nil
		}
		return descriptorToObject(ip, d), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "fromEntries", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		items, sig, err := ip.IterableToSlice(arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		obj := value.NewObject(proto)
		for _, item := range items {
			pair, sig, err := ip.IterableToSlice(item)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			if len(pair) < 2 {
				continue
			}
			obj.DefineData(ip.ToPropertyKey(pair[0]), pair[1])
		}
		return obj, interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "is", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return value.NewBoolean(value.SameValueZero(arg(args, 0), arg(args, 1))), interp.Signal{}, nil
	})
}

func enumerableOwnKeys(v value.Value, wantValues, wantPairs bool) []value.Value {
	obj, ok := v.(*value.Object)
	if !ok {
		return nil
	}
	var out []value.Value
	for _, k := range obj.OwnKeys() {
		if k.IsSymbol() {
			continue
		}
		d, _ := obj.GetOwn(k)
		if !d.Enumerable {
			continue
		}
		switch {
		case wantPairs:
			out = append(out, value.NewObject(nil)) // placeholder, replaced below
		case wantValues:
			out = append(out, d.Value)
		default:
			out = append(out, value.NewString(k.Str))
		}
	}
	if !wantPairs {
		return out
	}
	out = out[:0]
	for _, k := range obj.OwnKeys() {
		if k.IsSymbol() {
			continue
		}
		d, _ := obj.GetOwn(k)
		if !d.Enumerable {
			continue
		}
		pair := value.NewObject(nil)
		pair.Class = "Array"
		pair.DefineData(value.StringKey("0"), value.NewString(k.Str))
		pair.DefineData(value.StringKey("1"), d.Value)
		pair.DefineOwn(value.StringKey("length"), &value.PropertyDescriptor{Value: value.NewNumber(2), Writable: true})
		out = append(out, pair)
	}
	return out
}

func applyDescriptor(ip *interp.Interpreter, obj *value.Object, key value.PropertyKey, descObj *value.Object) {
	existing, has := obj.GetOwn(key)
	desc := &value.PropertyDescriptor{}
	if has {
		*desc = *existing
	}
	if d, ok := descObj.GetOwn(value.StringKey("value")); ok {
		desc.Value = d.Value
		desc.IsAccessor = false
	}
	if d, ok := descObj.GetOwn(value.StringKey("get")); ok {
		desc.Get, _ = d.Value.(*value.Object)
		desc.IsAccessor = true
	}
	if d, ok := descObj.GetOwn(value.StringKey("set")); ok {
		desc.Set, _ = d.Value.(*value.Object)
		desc.IsAccessor = true
	}
	if d, ok := descObj.GetOwn(value.StringKey("writable")); ok {
		desc.Writable = value.ToBoolean(d.Value)
	}
	if d, ok := descObj.GetOwn(value.StringKey("enumerable")); ok {
		desc.Enumerable = value.ToBoolean(d.Value)
	}
	if d, ok := descObj.GetOwn(value.StringKey("configurable")); ok {
		desc.Configurable = value.ToBoolean(d.Value)
	}
	obj.DefineOwn(key, desc)
}

func descriptorToObject(ip *interp.Interpreter, d *value.PropertyDescriptor) *value.Object {
	out := value.NewObject(ip.Protos["Object"])
	if d.IsAccessor {
		if d.Get != nil {
			out.DefineData(value.StringKey("get"), d.Get)
		} else {
			out.DefineData(value.StringKey("get"), value.Undefined)
		}
		if d.Set != nil {
			out.DefineData(value.StringKey("set"), d.Set)
		} else {
			out.DefineData(value.StringKey("set"), value.Undefined)
		}
	} else {
		out.DefineData(value.StringKey("value"), d.Value)
		out.DefineData(value.StringKey("writable"), value.NewBoolean(d.Writable))
	}
	out.DefineData(value.StringKey("enumerable"), value.NewBoolean(d.Enumerable))
	out.DefineData(value.StringKey("configurable"), value.NewBoolean(d.Configurable))
	return out
}
