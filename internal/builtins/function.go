package builtins

import (
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installFunction(ip *interp.Interpreter, proto *value.Object) {
	ctor := newConstructor(ip, "Function", 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return nil, ip.ThrowTypeError("the Function constructor is not supported"), nil
	})
	defineGlobal(ip, "Function", ctor)

	method(ip, proto, "call", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		thisArg := arg(args, 0)
		var rest []value.Value
		if len(args) > 1 {
			rest = args[1:]
		}
		v, sig, err := ip.Call(this, thisArg, rest)
		return v, sig, err
	})

	method(ip, proto, "apply", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		thisArg := arg(args, 0)
		var rest []value.Value
		if arr := arg(args, 1); !value.IsNullish(arr) {
			slice, sig, err := ip.IterableToSlice(arr)
			if err != nil || sig.IsAbrupt() {
				if obj, ok := arr.(*value.Object); ok {
					rest = arrayLikeToSlice(ip, obj)
				} else {
					return nil, sig, err
				}
			} else {
				rest = slice
			}
		}
		return ip.Call(this, thisArg, rest)
	})

	method(ip, proto, "bind", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		callee, ok := this.(*value.Object)
		if !ok {
			return nil, ip.ThrowTypeError("Function.prototype.bind called on non-function"), nil
		}
		thisArg := arg(args, 0)
		var bound []value.Value
		if len(args) > 1 {
			bound = append(bound, args[1:]...)
		}
		name := "bound"
		if n, ok := callee.GetOwn(value.StringKey("name")); ok {
			if s, ok := n.Value.(value.StringValue); ok {
				name = "bound " + s.String()
			}
		}
		fn := ip.NewNativeFunction(name, 0, func(ip *interp.Interpreter, _ value.Value, callArgs []value.Value) (value.Value, interp.Signal, error) {
			all := append(append([]value.Value{}, bound...), callArgs...)
			return ip.Call(callee, thisArg, all)
		})
		return fn, interp.Signal{}, nil
	})

	method(ip, proto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		name := "anonymous"
		if obj, ok := this.(*value.Object); ok {
			if n, ok := obj.GetOwn(value.StringKey("name")); ok {
				if s, ok := n.Value.(value.StringValue); ok && s.String() != "" {
					name = s.String()
				}
			}
		}
		return value.NewString("function " + name + "() { [native code] }"), interp.Signal{}, nil
	})
}

func arrayLikeToSlice(ip *interp.Interpreter, obj *value.Object) []value.Value {
	lenVal, sig, err := ip.GetProperty(obj, value.StringKey("length"))
	if err != nil || sig.IsAbrupt() {
		return nil
	}
	n, sig, err := ip.ToNumberValue(lenVal)
	if err != nil || sig.IsAbrupt() {
		return nil
	}
	out := make([]value.Value, 0, int(n))
	for i := 0; i < int(n); i++ {
		v, sig, err := ip.GetProperty(obj, value.StringKey(itoaIndex(i)))
		if err != nil || sig.IsAbrupt() {
			v = value.Undefined
		}
		out = append(out, v)
	}
	return out
}

func itoaIndex(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}
