package builtins

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installGlobals(ip *interp.Interpreter) {
	defineGlobal(ip, "undefined", value.Undefined)
	defineGlobal(ip, "NaN", value.NewNumber(nan()))
	defineGlobal(ip, "Infinity", value.NewNumber(math.Inf(1)))
	defineGlobal(ip, "globalThis", ip.GlobalObj)

	defineGlobal(ip, "parseInt", ip.NewNativeFunction("parseInt", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return globalParseInt(ip, args)
	}))
	defineGlobal(ip, "parseFloat", ip.NewNativeFunction("parseFloat", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return globalParseFloat(ip, args)
	}))
	defineGlobal(ip, "isNaN", ip.NewNativeFunction("isNaN", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, sig, err := toNum(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewBoolean(n != n), interp.Signal{}, nil
	}))
	defineGlobal(ip, "isFinite", ip.NewNativeFunction("isFinite", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, sig, err := toNum(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewBoolean(!math.IsInf(n, 0) && n == n), interp.Signal{}, nil
	}))

	defineGlobal(ip, "encodeURIComponent", ip.NewNativeFunction("encodeURIComponent", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(url.QueryEscape(s)), interp.Signal{}, nil
	}))
	defineGlobal(ip, "decodeURIComponent", ip.NewNativeFunction("decodeURIComponent", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		decoded, derr := url.QueryUnescape(s)
		if derr != nil {
			return nil, ip.NewErrorSignal("URIError", "URI malformed"), nil
		}
		return value.NewString(decoded), interp.Signal{}, nil
	}))
	defineGlobal(ip, "encodeURI", ip.NewNativeFunction("encodeURI", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(encodeURIKeepReserved(s)), interp.Signal{}, nil
	}))
	defineGlobal(ip, "decodeURI", ip.NewNativeFunction("decodeURI", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		decoded, derr := url.QueryUnescape(strings.ReplaceAll(s, "+", "%2B"))
		if derr != nil {
			return nil, ip.NewErrorSignal("URIError", "URI malformed"), nil
		}
		return value.NewString(decoded), interp.Signal{}, nil
	}))

	defineGlobal(ip, "eval", ip.NewNativeFunction("eval", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		src, ok := arg(args, 0).(value.StringValue)
		if !ok {
			return arg(args, 0), interp.Signal{}, nil
		}
		return ip.EvalSource(src.String())
	}))
}

const uriReserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'();/?:@&=+$,#"

func encodeURIKeepReserved(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(uriReserved, r) {
			b.WriteRune(r)
		} else {
			escaped := url.QueryEscape(string(r))
			b.WriteString(strings.ReplaceAll(escaped, "+", "%20"))
		}
	}
	return b.String()
}

func globalParseInt(ip *interp.Interpreter, args []value.Value) (value.Value, interp.Signal, error) {
	s, sig, err := toStr(ip, arg(args, 0))
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	s = strings.TrimSpace(s)
	radix := 10
	if len(args) > 1 && !value.IsNullish(args[1]) {
		r, sig, err := toNum(ip, args[1])
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if r != 0 {
			radix = int(r)
		}
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if (radix == 16 || radix == 10) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s = s[2:]
		radix = 16
	}
	end := 0
	for end < len(s) && isDigitForRadix(s[end], radix) {
		end++
	}
	if end == 0 {
		return value.NewNumber(nan()), interp.Signal{}, nil
	}
	n, perr := strconv.ParseInt(s[:end], radix, 64)
	if perr != nil {
		f, ferr := strconv.ParseFloat(s[:end], 64)
		if ferr != nil {
			return value.NewNumber(nan()), interp.Signal{}, nil
		}
		if neg {
			f = -f
		}
		return value.NewNumber(f), interp.Signal{}, nil
	}
	if neg {
		n = -n
	}
	return value.NewNumber(float64(n)), interp.Signal{}, nil
}

func isDigitForRadix(c byte, radix int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < radix
}

func globalParseFloat(ip *interp.Interpreter, args []value.Value) (value.Value, interp.Signal, error) {
	s, sig, err := toStr(ip, arg(args, 0))
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	s = strings.TrimSpace(s)
	end := 0
	seenDot, seenExp, seenDigit := false, false, false
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		case (c == '+' || c == '-') && (end == 0 || s[end-1] == 'e' || s[end-1] == 'E'):
		default:
			goto done
		}
		end++
	}
done:
	if end == 0 || !seenDigit {
		if strings.HasPrefix(s, "Infinity") || strings.HasPrefix(s, "+Infinity") {
			return value.NewNumber(math.Inf(1)), interp.Signal{}, nil
		}
		if strings.HasPrefix(s, "-Infinity") {
			return value.NewNumber(math.Inf(-1)), interp.Signal{}, nil
		}
		return value.NewNumber(nan()), interp.Signal{}, nil
	}
	f, perr := strconv.ParseFloat(s[:end], 64)
	if perr != nil {
		return value.NewNumber(nan()), interp.Signal{}, nil
	}
	return value.NewNumber(f), interp.Signal{}, nil
}
