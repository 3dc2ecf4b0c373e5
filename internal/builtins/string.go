package builtins

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installString(ip *interp.Interpreter) {
	proto := ip.Protos["String"]
	proto.Class = "String"

	ctor := newConstructor(ip, "String", 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if len(args) == 0 {
			return value.NewString(""), interp.Signal{}, nil
		}
		s, sig, err := toStr(ip, args[0])
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(s), interp.Signal{}, nil
	})
	defineGlobal(ip, "String", ctor)

	staticMethod(ip, ctor, "fromCharCode", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		units := make([]uint16, len(args))
		for i, a := range args {
			n, sig, err := toNum(ip, a)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			units[i] = uint16(int64(n))
		}
		return value.StringValue{Units: units}, interp.Signal{}, nil
	})

	method(ip, proto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return asStringValue(ip, this)
	})
	method(ip, proto, "valueOf", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return asStringValue(ip, this)
	})

	getter(ip, proto, "length", func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := asStringValue(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(float64(s.(value.StringValue).Len())), interp.Signal{}, nil
	})

	method(ip, proto, "charAt", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := stringUnits(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		i := intArg(ip, args, 0, 0)
		if i < 0 || i >= len(s) {
			return value.NewString(""), interp.Signal{}, nil
		}
		return value.StringValue{Units: s[i : i+1]}, interp.Signal{}, nil
	})

	method(ip, proto, "charCodeAt", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := stringUnits(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		i := intArg(ip, args, 0, 0)
		if i < 0 || i >= len(s) {
			return value.NewNumber(nan()), interp.Signal{}, nil
		}
		return value.NewNumber(float64(s[i])), interp.Signal{}, nil
	})

	method(ip, proto, "codePointAt", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := stringUnits(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		i := intArg(ip, args, 0, 0)
		if i < 0 || i >= len(s) {
			return value.Undefined, interp.Signal{}, nil
		}
		first := s[i]
		if first >= 0xD800 && first <= 0xDBFF && i+1 < len(s) {
			second := s[i+1]
			if second >= 0xDC00 && second <= 0xDFFF {
				cp := (uint32(first)-0xD800)*0x400 + (uint32(second) - 0xDC00) + 0x10000
				return value.NewNumber(float64(cp)), interp.Signal{}, nil
			}
		}
		return value.NewNumber(float64(first)), interp.Signal{}, nil
	})

	method(ip, proto, "indexOf", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, search, sig, err := stringAndSearch(ip, this, args)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(float64(strings.Index(s, search))), interp.Signal{}, nil
	})

	method(ip, proto, "lastIndexOf", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, search, sig, err := stringAndSearch(ip, this, args)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(float64(strings.LastIndex(s, search))), interp.Signal{}, nil
	})

	method(ip, proto, "includes", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, search, sig, err := stringAndSearch(ip, this, args)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewBoolean(strings.Contains(s, search)), interp.Signal{}, nil
	})

	method(ip, proto, "startsWith", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, search, sig, err := stringAndSearch(ip, this, args)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewBoolean(strings.HasPrefix(s, search)), interp.Signal{}, nil
	})

	method(ip, proto, "endsWith", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, search, sig, err := stringAndSearch(ip, this, args)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewBoolean(strings.HasSuffix(s, search)), interp.Signal{}, nil
	})

	method(ip, proto, "slice", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := stringUnits(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		start, end := sliceRange(ip, args, len(s))
		if start >= end {
			return value.NewString(""), interp.Signal{}, nil
		}
		return value.StringValue{Units: append([]uint16{}, s[start:end]...)}, interp.Signal{}, nil
	})

	method(ip, proto, "substring", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := stringUnits(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		n := len(s)
		start := clampInt(intArg(ip, args, 0, 0), 0, n)
		end := clampInt(intArg(ip, args, 1, n), 0, n)
		if start > end {
			start, end = end, start
		}
		return value.StringValue{Units: append([]uint16{}, s[start:end]...)}, interp.Signal{}, nil
	})

	method(ip, proto, "toUpperCase", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(cases.Upper(language.Und).String(s)), interp.Signal{}, nil
	})
	method(ip, proto, "toLowerCase", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(cases.Lower(language.Und).String(s)), interp.Signal{}, nil
	})

	method(ip, proto, "trim", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(strings.TrimSpace(s)), interp.Signal{}, nil
	})
	method(ip, proto, "trimStart", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(strings.TrimLeft(s, " \t\n\r\v\f")), interp.Signal{}, nil
	})
	method(ip, proto, "trimEnd", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(strings.TrimRight(s, " \t\n\r\v\f")), interp.Signal{}, nil
	})

	method(ip, proto, "split", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if value.IsNullish(arg(args, 0)) {
			return ip.MakeArray([]value.Value{value.NewString(s)}), interp.Signal{}, nil
		}
		sep, sig, err := toStr(ip, args[0])
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.NewString(p)
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})

	method(ip, proto, "repeat", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		n, sig, err := toNum(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if n < 0 {
			return nil, ip.ThrowRangeError("Invalid count value"), nil
		}
		return value.NewString(strings.Repeat(s, int(n))), interp.Signal{}, nil
	})

	method(ip, proto, "padStart", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return stringPad(ip, this, args, true)
	})
	method(ip, proto, "padEnd", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return stringPad(ip, this, args, false)
	})

	method(ip, proto, "concat", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		var b strings.Builder
		b.WriteString(s)
		for _, a := range args {
			as, sig, err := toStr(ip, a)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			b.WriteString(as)
		}
		return value.NewString(b.String()), interp.Signal{}, nil
	})

	method(ip, proto, "replace", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return stringReplace(ip, this, args, false)
	})
	method(ip, proto, "replaceAll", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return stringReplace(ip, this, args, true)
	})

	method(ip, proto, "at", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := stringUnits(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		i := intArg(ip, args, 0, 0)
		if i < 0 {
			i += len(s)
		}
		if i < 0 || i >= len(s) {
			return value.Undefined, interp.Signal{}, nil
		}
		return value.StringValue{Units: s[i : i+1]}, interp.Signal{}, nil
	})

	method(ip, proto, "localeCompare", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, this)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		other, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(float64(strings.Compare(s, other))), interp.Signal{}, nil
	})
}

func asStringValue(ip *interp.Interpreter, this value.Value) (value.Value, interp.Signal, error) {
	if s, ok := this.(value.StringValue); ok {
		return s, interp.Signal{}, nil
	}
	if obj, ok := this.(*value.Object); ok {
		if prim, ok := obj.Internal["primitive"].(value.StringValue); ok {
			return prim, interp.Signal{}, nil
		}
	}
	return nil, ip.ThrowTypeError("String.prototype method called on incompatible receiver"), nil
}

func stringUnits(ip *interp.Interpreter, this value.Value) ([]uint16, interp.Signal, error) {
	v, sig, err := asStringValue(ip, this)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	return v.(value.StringValue).Units, interp.Signal{}, nil
}

func stringAndSearch(ip *interp.Interpreter, this value.Value, args []value.Value) (string, string, interp.Signal, error) {
	s, sig, err := toStr(ip, this)
	if err != nil || sig.IsAbrupt() {
		return "", "", sig, err
	}
	search, sig, err := toStr(ip, arg(args, 0))
	if err != nil || sig.IsAbrupt() {
		return "", "", sig, err
	}
	return s, search, interp.Signal{}, nil
}

func stringPad(ip *interp.Interpreter, this value.Value, args []value.Value, start bool) (value.Value, interp.Signal, error) {
	s, sig, err := toStr(ip, this)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	target, sig, err := toNum(ip, arg(args, 0))
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	pad := " "
	if len(args) > 1 && !value.IsNullish(args[1]) {
		pad, sig, err = toStr(ip, args[1])
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
	}
	need := int(target) - len([]rune(s))
	if need <= 0 || pad == "" {
		return value.NewString(s), interp.Signal{}, nil
	}
	var b strings.Builder
	for b.Len() < need {
		b.WriteString(pad)
	}
	fill := string([]rune(b.String())[:need])
	if start {
		return value.NewString(fill + s), interp.Signal{}, nil
	}
	return value.NewString(s + fill), interp.Signal{}, nil
}

func stringReplace(ip *interp.Interpreter, this value.Value, args []value.Value, all bool) (value.Value, interp.Signal, error) {
	s, sig, err := toStr(ip, this)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	pattern, sig, err := toStr(ip, arg(args, 0))
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	replacement := arg(args, 1)
	if fn, ok := replacement.(*value.Object); ok && fn.Callable != nil {
		idx := strings.Index(s, pattern)
		if idx < 0 {
			return value.NewString(s), interp.Signal{}, nil
		}
		count := 1
		if all {
			count = -1
		}
		var b strings.Builder
		rest := s
		for n := 0; (all || n == 0) && count != 0; n++ {
			i := strings.Index(rest, pattern)
			if i < 0 {
				break
			}
			b.WriteString(rest[:i])
			r, sig, err := ip.Call(fn, value.Undefined, []value.Value{value.NewString(pattern), value.NewNumber(float64(len(s) - len(rest) + i)), value.NewString(s)})
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			rs, sig, err := toStr(ip, r)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			b.WriteString(rs)
			rest = rest[i+len(pattern):]
			if !all {
				count--
			}
		}
		b.WriteString(rest)
		return value.NewString(b.String()), interp.Signal{}, nil
	}
	rs, sig, err := toStr(ip, replacement)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	if all {
		return value.NewString(strings.ReplaceAll(s, pattern, rs)), interp.Signal{}, nil
	}
	return value.NewString(strings.Replace(s, pattern, rs, 1)), interp.Signal{}, nil
}

func nan() float64 {
	var zero float64
	return zero / zero
}
