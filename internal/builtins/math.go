package builtins

import (
	"math"
	"math/rand"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installMath(ip *interp.Interpreter) {
	m := value.NewObject(ip.Protos["Object"])
	m.DefineHidden(value.StringKey("E"), value.NewNumber(math.E))
	m.DefineHidden(value.StringKey("PI"), value.NewNumber(math.Pi))
	m.DefineHidden(value.StringKey("LN2"), value.NewNumber(math.Ln2))
	m.DefineHidden(value.StringKey("LN10"), value.NewNumber(math.Log(10)))
	m.DefineHidden(value.StringKey("LOG2E"), value.NewNumber(1/math.Ln2))
	m.DefineHidden(value.StringKey("LOG10E"), value.NewNumber(1/math.Log(10)))
	m.DefineHidden(value.StringKey("SQRT2"), value.NewNumber(math.Sqrt2))
	m.DefineHidden(value.StringKey("SQRT1_2"), value.NewNumber(math.Sqrt(0.5)))

	unary := func(name string, fn func(float64) float64) {
		m.DefineHidden(value.StringKey(name), ip.NewNativeFunction(name, 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
			n, sig, err := toNum(ip, arg(args, 0))
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			return value.NewNumber(fn(n)), interp.Signal{}, nil
		}))
	}

	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("sinh", math.Sinh)
	unary("cosh", math.Cosh)
	unary("tanh", math.Tanh)
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("exp", math.Exp)
	unary("sign", func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return f
		}
	})
	unary("round", func(f float64) float64 { return math.Floor(f + 0.5) })

	m.DefineHidden(value.StringKey("pow"), ip.NewNativeFunction("pow", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		base, sig, err := toNum(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		exp, sig, err := toNum(ip, arg(args, 1))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(math.Pow(base, exp)), interp.Signal{}, nil
	}))

	m.DefineHidden(value.StringKey("atan2"), ip.NewNativeFunction("atan2", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		y, sig, err := toNum(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		x, sig, err := toNum(ip, arg(args, 1))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(math.Atan2(y, x)), interp.Signal{}, nil
	}))

	m.DefineHidden(value.StringKey("hypot"), ip.NewNativeFunction("hypot", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		sum := 0.0
		for _, a := range args {
			n, sig, err := toNum(ip, a)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			sum += n * n
		}
		return value.NewNumber(math.Sqrt(sum)), interp.Signal{}, nil
	}))

	m.DefineHidden(value.StringKey("max"), ip.NewNativeFunction("max", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return mathMinMax(ip, args, true)
	}))
	m.DefineHidden(value.StringKey("min"), ip.NewNativeFunction("min", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return mathMinMax(ip, args, false)
	}))

	m.DefineHidden(value.StringKey("random"), ip.NewNativeFunction("random", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return value.NewNumber(rand.Float64()), interp.Signal{}, nil
	}))

	defineGlobal(ip, "Math", m)
}

func mathMinMax(ip *interp.Interpreter, args []value.Value, wantMax bool) (value.Value, interp.Signal, error) {
	if len(args) == 0 {
		if wantMax {
			return value.NewNumber(math.Inf(-1)), interp.Signal{}, nil
		}
		return value.NewNumber(math.Inf(1)), interp.Signal{}, nil
	}
	best, sig, err := toNum(ip, args[0])
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	for _, a := range args[1:] {
		n, sig, err := toNum(ip, a)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if n != n {
			return value.NewNumber(nan()), interp.Signal{}, nil
		}
		if (wantMax && n > best) || (!wantMax && n < best) {
			best = n
		}
	}
	return value.NewNumber(best), interp.Signal{}, nil
}
