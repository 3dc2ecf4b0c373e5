package builtins

import (
	"fmt"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

var nativeErrorNames = []string{
	"TypeError", "RangeError", "SyntaxError", "ReferenceError",
	"EvalError", "URIError", "AggregateError",
}

func installErrors(ip *interp.Interpreter) {
	errorProto := ip.Protos["Error"]
	errorProto.Class = "Error"
	errorProto.DefineData(value.StringKey("name"), value.NewString("Error"))
	errorProto.DefineData(value.StringKey("message"), value.NewString(""))

	errorCtor := newConstructor(ip, "Error", 1, errorProto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return makeErrorInstance(ip, errorProto, "Error", args)
	})
	defineGlobal(ip, "Error", errorCtor)
	installErrorProtoMethods(ip, errorProto)

	for _, name := range nativeErrorNames {
		proto := ip.Protos[name]
		proto.Proto = errorProto
		proto.Class = "Error"
		proto.DefineData(value.StringKey("name"), value.NewString(name))
		proto.DefineData(value.StringKey("message"), value.NewString(""))
		n := name
		ctor := newConstructor(ip, n, 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
			return makeErrorInstance(ip, proto, n, args)
		})
		ctor.Proto = errorCtor
		defineGlobal(ip, n, ctor)
	}
}

func installErrorProtoMethods(ip *interp.Interpreter, errorProto *value.Object) {
	method(ip, errorProto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.NewString("Error"), interp.Signal{}, nil
		}
		name := "Error"
		if n, sig, err := ip.GetProperty(obj, value.StringKey("name")); err == nil && !sig.IsAbrupt() {
			if s, ok := n.(value.StringValue); ok {
				name = s.String()
			}
		}
		msg, sig, err := ip.GetProperty(obj, value.StringKey("message"))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		msgStr, _ := msg.(value.StringValue)
		if msgStr.Len() == 0 {
			return value.NewString(name), interp.Signal{}, nil
		}
		return value.NewString(fmt.Sprintf("%s: %s", name, msgStr.String())), interp.Signal{}, nil
	})
}

func makeErrorInstance(ip *interp.Interpreter, proto *value.Object, name string, args []value.Value) (value.Value, interp.Signal, error) {
	obj := value.NewObject(proto)
	obj.Class = "Error"
	if len(args) > 0 && !value.IsNullish(args[0]) {
		msg, sig, err := toStr(ip, args[0])
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		obj.DefineData(value.StringKey("message"), value.NewString(msg))
	}
	if len(args) > 1 {
		if opts, ok := args[1].(*value.Object); ok {
			if cause, has := opts.GetOwn(value.StringKey("cause")); has {
				obj.DefineData(value.StringKey("cause"), cause.Value)
			}
		}
	}
	obj.DefineData(value.StringKey("stack"), value.NewString(fmt.Sprintf("%s: %s\n    at <native>", name, errMessageOf(obj))))
	return obj, interp.Signal{}, nil
}

func errMessageOf(obj *value.Object) string {
	if d, ok := obj.GetOwn(value.StringKey("message")); ok {
		if s, ok := d.Value.(value.StringValue); ok {
			return s.String()
		}
	}
	return ""
}
