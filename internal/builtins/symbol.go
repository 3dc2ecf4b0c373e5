package builtins

import (
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installSymbol(ip *interp.Interpreter) {
	proto := ip.Protos["Symbol"]

	ctor := newConstructor(ip, "Symbol", 0, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		desc := ""
		if len(args) > 0 && !value.IsNullish(args[0]) {
			s, sig, err := toStr(ip, args[0])
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			desc = s
		}
		return value.NewSymbol(desc), interp.Signal{}, nil
	})
	defineGlobal(ip, "Symbol", ctor)

	ctor.DefineHidden(value.StringKey("iterator"), value.SymIterator)
	ctor.DefineHidden(value.StringKey("asyncIterator"), value.SymAsyncIterator)
	ctor.DefineHidden(value.StringKey("toPrimitive"), value.SymToPrimitive)
	ctor.DefineHidden(value.StringKey("toStringTag"), value.SymToStringTag)
	ctor.DefineHidden(value.StringKey("hasInstance"), value.SymHasInstance)
	ctor.DefineHidden(value.StringKey("unscopables"), value.SymUnscopables)

	staticMethod(ip, ctor, "for", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		key, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.SymbolFor(key), interp.Signal{}, nil
	})

	staticMethod(ip, ctor, "keyFor", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		sym, ok := arg(args, 0).(*value.Symbol)
		if !ok {
			return nil, ip.ThrowTypeError("Symbol.keyFor requires a symbol"), nil
		}
		key, found := value.SymbolKeyFor(sym)
		if !found {
			return value.Undefined, interp.Signal{}, nil
		}
		return value.NewString(key), interp.Signal{}, nil
	})

	method(ip, proto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		sym, ok := this.(*value.Symbol)
		if !ok {
			return nil, ip.ThrowTypeError("Symbol.prototype.toString called on incompatible receiver"), nil
		}
		return value.NewString(sym.String()), interp.Signal{}, nil
	})

	getter(ip, proto, "description", func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		sym, ok := this.(*value.Symbol)
		if !ok {
			return value.Undefined, interp.Signal{}, nil
		}
		return value.NewString(sym.Desc), interp.Signal{}, nil
	})
}
