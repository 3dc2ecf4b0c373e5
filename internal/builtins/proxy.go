package builtins

import (
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

// installProxy wires the Proxy constructor plus a revocable() static
// (supplemented feature). Trap dispatch itself lives in internal/interp
// (propaccess.go, operators.go, expr.go) since get/set/has/delete all
// flow through the core evaluator's property-access paths; this file
// only builds the exotic object and marks it revoked. The revoked-handler
// TypeError is raised by interp's checkProxyRevoked.
func installProxy(ip *interp.Interpreter) {
	ctor := ip.NewNativeFunction("Proxy", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		handler, hok := arg(args, 1).(*value.Object)
		if !ok || !hok {
			return nil, ip.ThrowTypeError("Cannot create proxy with a non-object as target or handler"), nil
		}
		return newProxy(ip, target, handler), interp.Signal{}, nil
	})
	defineGlobal(ip, "Proxy", ctor)

	staticMethod(ip, ctor, "revocable", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		target, ok := arg(args, 0).(*value.Object)
		handler, hok := arg(args, 1).(*value.Object)
		if !ok || !hok {
			return nil, ip.ThrowTypeError("Cannot create proxy with a non-object as target or handler"), nil
		}
		p := newProxy(ip, target, handler)
		revoke := ip.NewNativeFunction("", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
			p.Internal["revoked"] = true
			return value.Undefined, interp.Signal{}, nil
		})
		result := value.NewObject(ip.Protos["Object"])
		result.DefineData(value.StringKey("proxy"), p)
		result.DefineData(value.StringKey("revoke"), revoke)
		return result, interp.Signal{}, nil
	})
}

func newProxy(ip *interp.Interpreter, target, handler *value.Object) *value.Object {
	p := value.NewObject(target.Proto)
	p.Class = "Proxy"
	p.Internal = map[string]any{"target": target, "handler": handler, "revoked": false}
	if target.Callable != nil {
		p.Callable = target.Callable
		p.Construct = target.Construct
	}
	return p
}
