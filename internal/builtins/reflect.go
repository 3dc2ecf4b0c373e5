package builtins

import (
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

// installReflect wires the Reflect namespace object (supplemented
// feature: a subset of ES2015 Reflect covering the operations the
// Proxy traps mirror).
func installReflect(ip *interp.Interpreter) {
	r := value.NewObject(ip.Protos["Object"])

	def := func(name string, length int, fn interp.NativeFunc) {
		r.DefineHidden(value.StringKey(name), ip.NewNativeFunction(name, length, fn))
	}

	def("apply", 3, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.apply called on non-object"), nil
		}
		argList, sig, err := ip.IterableToSlice(arg(args, 2))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return ip.Call(target, arg(args, 1), argList)
	})

	def("construct", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.construct called on non-object"), nil
		}
		argList, sig, err := ip.IterableToSlice(arg(args, 1))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return ip.Construct(target, argList)
	})

	def("get", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.get called on non-object"), nil
		}
		key := ip.ToPropertyKey(arg(args, 1))
		v, sig, err := ip.GetProperty(target, key)
		return v, sig, err
	})

	def("set", 3, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.set called on non-object"), nil
		}
		key := ip.ToPropertyKey(arg(args, 1))
		sig, err := ip.SetProperty(target, key, arg(args, 2))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewBoolean(true), interp.Signal{}, nil
	})

	def("has", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.has called on non-object"), nil
		}
		key := ip.ToPropertyKey(arg(args, 1))
		return value.NewBoolean(target.HasProperty(key)), interp.Signal{}, nil
	})

	def("deleteProperty", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.deleteProperty called on non-object"), nil
		}
		key := ip.ToPropertyKey(arg(args, 1))
		return value.NewBoolean(target.DeleteOwn(key)), interp.Signal{}, nil
	})

	def("ownKeys", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.ownKeys called on non-object"), nil
		}
		keys := target.OwnKeys()
		out := make([]value.Value, 0, len(keys))
		for _, k := range keys {
			if k.IsSymbol() {
				out = append(out, k.Sym)
			} else {
				out = append(out, value.NewString(k.Str))
			}
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})

	def("getPrototypeOf", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.getPrototypeOf called on non-object"), nil
		}
		if target.Proto == nil {
			return value.Null, interp.Signal{}, nil
		}
		return target.Proto, interp.Signal{}, nil
	})

	def("setPrototypeOf", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.setPrototypeOf called on non-object"), nil
		}
		if p, ok := arg(args, 1).(*value.Object); ok {
			target.Proto = p
		} else {
			target.Proto = nil
		}
		return value.NewBoolean(true), interp.Signal{}, nil
	})

	def("isExtensible", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.isExtensible called on non-object"), nil
		}
		return value.NewBoolean(target.Extensible), interp.Signal{}, nil
	})

	def("preventExtensions", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Reflect.preventExtensions called on non-object"), nil
		}
		target.Extensible = false
		return value.NewBoolean(true), interp.Signal{}, nil
	})

	def("defineProperty", 3, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		descObj, descOk := arg(args, 2).(*value.Object)
		if !ok || !descOk {
			return nil, ip.ThrowTypeError("Reflect.defineProperty called on non-object"), nil
		}
		key := ip.ToPropertyKey(arg(args, 1))
		applyDescriptor(ip, target, key, descObj)
		return value.NewBoolean(true), interp.Signal{}, nil
	})

	defineGlobal(ip, "Reflect", r)
}
