// Package builtins installs the conventional library surface onto a
// fresh *interp.Interpreter: every prototype object named in spec.md
// §6.5 plus the host shims §6.3 describes (spec 4.10, "Built-in
// dispatcher"). Each native method is registered as a small sentinel
// function object exactly the way the spec's dispatcher describes:
// Install wires the tag onto the right prototype/constructor, and the
// handler in this package is the Go code that tag routes to.
package builtins

import (
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func arg(args []value.Value, i int) value.Value {
	if i < 0 || i >= len(args) {
		return value.Undefined
	}
	return args[i]
}

func method(ip *interp.Interpreter, proto *value.Object, name string, length int, fn interp.NativeFunc) {
	proto.DefineHidden(value.StringKey(name), ip.NewNativeFunction(name, length, fn))
}

func staticMethod(ip *interp.Interpreter, ctor *value.Object, name string, length int, fn interp.NativeFunc) {
	ctor.DefineHidden(value.StringKey(name), ip.NewNativeFunction(name, length, fn))
}

func getter(ip *interp.Interpreter, proto *value.Object, name string, fn interp.NativeFunc) {
	proto.DefineOwn(value.StringKey(name), &value.PropertyDescriptor{
		IsAccessor: true, Configurable: true,
		Get: ip.NewNativeFunction("get "+name, 0, fn),
	})
}

func thisObject(this value.Value) (*value.Object, bool) {
	obj, ok := this.(*value.Object)
	return obj, ok
}

func toStr(ip *interp.Interpreter, v value.Value) (string, interp.Signal, error) {
	return ip.ToStringValue(v)
}

func toNum(ip *interp.Interpreter, v value.Value) (float64, interp.Signal, error) {
	return ip.ToNumberValue(v)
}

// newConstructor builds a constructor function object: calling it as a
// function or with `new` both run body, matching how most of spec.md's
// §6.5 constructors (Array, String wrapper objects, Error, Map, Set,
// ...) behave when called without `new` -- ordinary factory semantics,
// not ES2015's strict "must be constructed" rule for classes.
func newConstructor(ip *interp.Interpreter, name string, length int, proto *value.Object, body interp.NativeFunc) *value.Object {
	ctor := ip.NewNativeFunction(name, length, body)
	ctor.DefineHidden(value.StringKey("prototype"), proto)
	proto.DefineHidden(value.StringKey("constructor"), ctor)
	return ctor
}
