package value

import (
	"math"
	"strconv"
	"strings"
)

// ToBoolean implements the abstract ToBoolean operation (spec 4.4.2).
// Objects are always truthy; this function never needs to call back
// into user code, unlike ToNumber/ToString/ToPrimitive for objects.
func ToBoolean(v Value) bool {
	switch t := v.(type) {
	case UndefinedValue, NullValue:
		return false
	case Boolean:
		return bool(t)
	case Number:
		f := float64(t)
		return f != 0 && f == f // false for 0, -0, NaN
	case StringValue:
		return t.Len() > 0
	case *BigInt:
		return t.V.Sign() != 0
	default:
		return true // Symbol, Object
	}
}

// ToNumberPrimitive implements ToNumber for every variant that does not
// require invoking user code (everything except Object, whose ToNumber
// first needs ToPrimitive via valueOf/Symbol.toPrimitive -- that step
// lives in internal/interp, which has the call machinery).
func ToNumberPrimitive(v Value) (float64, bool) {
	switch t := v.(type) {
	case UndefinedValue:
		return math.NaN(), true
	case NullValue:
		return 0, true
	case Boolean:
		if t {
			return 1, true
		}
		return 0, true
	case Number:
		return float64(t), true
	case StringValue:
		return stringToNumber(t.String()), true
	default:
		return 0, false
	}
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if s == "Infinity" || s == "+Infinity" {
		return math.Inf(1)
	}
	if s == "-Infinity" {
		return math.Inf(-1)
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O") {
		n, err := strconv.ParseUint(s[2:], 8, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		n, err := strconv.ParseUint(s[2:], 2, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToInt32 implements ToInt32 (spec 4.4.2) for a plain float64 already
// produced by ToNumber.
func ToInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	u := uint32(int64(math.Trunc(f)))
	return int32(u)
}

// ToUint32 implements ToUint32.
func ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(f)))
}

// NumberToStringRadix formats a float in the given radix (2-36), used
// by Number.prototype.toString(radix).
func NumberToStringRadix(f float64, radix int) string {
	if radix == 10 {
		return Number(f).String()
	}
	neg := f < 0
	if neg {
		f = -f
	}
	ip := math.Trunc(f)
	frac := f - ip
	s := strconv.FormatInt(int64(ip), radix)
	if frac > 0 {
		var b strings.Builder
		b.WriteString(s)
		b.WriteByte('.')
		for i := 0; i < 20 && frac > 0; i++ {
			frac *= float64(radix)
			d := int(math.Trunc(frac))
			b.WriteByte("0123456789abcdefghijklmnopqrstuvwxyz"[d])
			frac -= math.Trunc(frac)
		}
		s = b.String()
	}
	if neg {
		s = "-" + s
	}
	return s
}
