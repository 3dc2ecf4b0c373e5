package builtins

import (
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

// Install populates ip.Protos and ip.Global with the full built-in
// surface spec.md §6.5 lists, plus the host shims §6.3 describes. It is
// the only exported entry point; internal/engine calls it once per
// Interpreter right after interp.New.
func Install(ip *interp.Interpreter, host HostEnv) {
	objectProto := value.NewObject(nil)
	ip.Protos["Object"] = objectProto

	functionProto := value.NewObject(objectProto)
	functionProto.Class = "Function"
	ip.Protos["Function"] = functionProto

	for _, name := range []string{
		"Array", "String", "Number", "Boolean", "BigInt", "Symbol",
		"Date", "RegExp", "Map", "Set", "WeakMap", "WeakSet", "Promise",
		"Generator", "ArrayBuffer", "DataView",
		"Int8Array", "Uint8Array", "Uint8ClampedArray", "Int16Array", "Uint16Array",
		"Int32Array", "Uint32Array", "Float32Array", "Float64Array",
		"BigInt64Array", "BigUint64Array",
		"Error", "TypeError", "RangeError", "SyntaxError", "ReferenceError",
		"EvalError", "URIError", "AggregateError",
	} {
		p := value.NewObject(objectProto)
		ip.Protos[name] = p
	}

	installObject(ip, objectProto)
	installFunction(ip, functionProto)
	installArray(ip)
	installString(ip)
	installNumber(ip)
	installBoolean(ip)
	installBigInt(ip)
	installSymbol(ip)
	installMath(ip)
	installJSON(ip)
	installErrors(ip)
	installMapSet(ip)
	installWeakMapSet(ip)
	installPromise(ip)
	installRegExp(ip)
	installDate(ip)
	installTypedArrays(ip)
	installReflect(ip)
	installProxy(ip)
	installConsole(ip)
	installGlobals(ip)
	installTimers(ip)
	installHost(ip, host)
}

func defineGlobal(ip *interp.Interpreter, name string, v value.Value) {
	ip.Global.DeclareVar(name)
	ip.Global.InitializeLexical(name, v)
	ip.GlobalObj.DefineData(value.StringKey(name), v)
}
