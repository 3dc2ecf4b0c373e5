package builtins

import (
	"math"
	"strconv"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installNumber(ip *interp.Interpreter) {
	proto := ip.Protos["Number"]

	ctor := newConstructor(ip, "Number", 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if len(args) == 0 {
			return value.NewNumber(0), interp.Signal{}, nil
		}
		n, sig, err := toNum(ip, args[0])
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(n), interp.Signal{}, nil
	})
	defineGlobal(ip, "Number", ctor)

	ctor.DefineHidden(value.StringKey("MAX_SAFE_INTEGER"), value.NewNumber(9007199254740991))
	ctor.DefineHidden(value.StringKey("MIN_SAFE_INTEGER"), value.NewNumber(-9007199254740991))
	ctor.DefineHidden(value.StringKey("MAX_VALUE"), value.NewNumber(math.MaxFloat64))
	ctor.DefineHidden(value.StringKey("MIN_VALUE"), value.NewNumber(5e-324))
	ctor.DefineHidden(value.StringKey("EPSILON"), value.NewNumber(2.220446049250313e-16))
	ctor.DefineHidden(value.StringKey("POSITIVE_INFINITY"), value.NewNumber(math.Inf(1)))
	ctor.DefineHidden(value.StringKey("NEGATIVE_INFINITY"), value.NewNumber(math.Inf(-1)))
	ctor.DefineHidden(value.StringKey("NaN"), value.NewNumber(nan()))

	staticMethod(ip, ctor, "isInteger", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, ok := arg(args, 0).(value.Number)
		return value.NewBoolean(ok && float64(n) == math.Trunc(float64(n)) && !math.IsInf(float64(n), 0)), interp.Signal{}, nil
	})
	staticMethod(ip, ctor, "isFinite", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, ok := arg(args, 0).(value.Number)
		return value.NewBoolean(ok && !math.IsInf(float64(n), 0) && float64(n) == float64(n)), interp.Signal{}, nil
	})
	staticMethod(ip, ctor, "isNaN", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, ok := arg(args, 0).(value.Number)
		return value.NewBoolean(ok && float64(n) != float64(n)), interp.Signal{}, nil
	})
	staticMethod(ip, ctor, "isSafeInteger", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, ok := arg(args, 0).(value.Number)
		f := float64(n)
		return value.NewBoolean(ok && f == math.Trunc(f) && math.Abs(f) <= 9007199254740991), interp.Signal{}, nil
	})
	staticMethod(ip, ctor, "parseFloat", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return globalParseFloat(ip, args)
	})
	staticMethod(ip, ctor, "parseInt", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return globalParseInt(ip, args)
	})

	method(ip, proto, "toString", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, sig, err := asNumberValue(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		radix := 10
		if len(args) > 0 && !value.IsNullish(args[0]) {
			r, _, _ := toNum(ip, args[0])
			radix = int(r)
		}
		if radix == 10 {
			return value.NewString(value.Number(n).String()), interp.Signal{}, nil
		}
		return value.NewString(strconv.FormatInt(int64(n), radix)), interp.Signal{}, nil
	})

	method(ip, proto, "valueOf", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, sig, err := asNumberValue(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(n), interp.Signal{}, nil
	})

	method(ip, proto, "toFixed", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, sig, err := asNumberValue(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		digits := intArg(ip, args, 0, 0)
		return value.NewString(strconv.FormatFloat(n, 'f', digits, 64)), interp.Signal{}, nil
	})

	method(ip, proto, "toPrecision", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, sig, err := asNumberValue(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if len(args) == 0 || value.IsNullish(args[0]) {
			return value.NewString(value.Number(n).String()), interp.Signal{}, nil
		}
		prec := intArg(ip, args, 0, 6)
		return value.NewString(strconv.FormatFloat(n, 'g', prec, 64)), interp.Signal{}, nil
	})
}

func asNumberValue(ip *interp.Interpreter, this value.Value) (float64, interp.Signal, error) {
	if n, ok := this.(value.Number); ok {
		return float64(n), interp.Signal{}, nil
	}
	if obj, ok := this.(*value.Object); ok {
		if n, ok := obj.Internal["primitive"].(value.Number); ok {
			return float64(n), interp.Signal{}, nil
		}
	}
	return 0, ip.ThrowTypeError("Number.prototype method called on incompatible receiver"), nil
}

func installBoolean(ip *interp.Interpreter) {
	proto := ip.Protos["Boolean"]
	ctor := newConstructor(ip, "Boolean", 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return value.NewBoolean(value.ToBoolean(arg(args, 0))), interp.Signal{}, nil
	})
	defineGlobal(ip, "Boolean", ctor)

	method(ip, proto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		b, ok := this.(value.Boolean)
		if !ok {
			if obj, isObj := this.(*value.Object); isObj {
				b, _ = obj.Internal["primitive"].(value.Boolean)
			}
		}
		return value.NewString(b.String()), interp.Signal{}, nil
	})
	method(ip, proto, "valueOf", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if b, ok := this.(value.Boolean); ok {
			return b, interp.Signal{}, nil
		}
		if obj, ok := this.(*value.Object); ok {
			if b, ok := obj.Internal["primitive"].(value.Boolean); ok {
				return b, interp.Signal{}, nil
			}
		}
		return value.NewBoolean(false), interp.Signal{}, nil
	})
}

func installBigInt(ip *interp.Interpreter) {
	proto := ip.Protos["BigInt"]
	ctor := newConstructor(ip, "BigInt", 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		switch v := arg(args, 0).(type) {
		case *value.BigInt:
			return v, interp.Signal{}, nil
		case value.Number:
			return value.BigIntFromInt64(int64(v)), interp.Signal{}, nil
		case value.StringValue:
			b, ok := value.BigIntFromString(v.String())
			if !ok {
				return nil, ip.ThrowTypeError("Cannot convert %s to a BigInt", v.String()), nil
			}
			return b, interp.Signal{}, nil
		default:
			return nil, ip.ThrowTypeError("Cannot convert value to a BigInt"), nil
		}
	})
	defineGlobal(ip, "BigInt", ctor)

	staticMethod(ip, ctor, "asIntN", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		bits, _, _ := toNum(ip, arg(args, 0))
		b, ok := arg(args, 1).(*value.BigInt)
		if !ok {
			return nil, ip.ThrowTypeError("BigInt.asIntN requires a BigInt"), nil
		}
		return value.AsIntN(int(bits), b), interp.Signal{}, nil
	})
	staticMethod(ip, ctor, "asUintN", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		bits, _, _ := toNum(ip, arg(args, 0))
		b, ok := arg(args, 1).(*value.BigInt)
		if !ok {
			return nil, ip.ThrowTypeError("BigInt.asUintN requires a BigInt"), nil
		}
		return value.AsUintN(int(bits), b), interp.Signal{}, nil
	})

	method(ip, proto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		b, ok := this.(*value.BigInt)
		if !ok {
			return nil, ip.ThrowTypeError("BigInt.prototype.toString called on incompatible receiver"), nil
		}
		return value.NewString(b.String()), interp.Signal{}, nil
	})
	method(ip, proto, "valueOf", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return this, interp.Signal{}, nil
	})
}
