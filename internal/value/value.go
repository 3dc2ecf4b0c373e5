// Package value implements the tagged value and heap-object model: the
// primitive variants, property descriptors, and the Object that backs
// every non-primitive ECMAScript value (spec 3.1-3.3, 4.5).
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Value is implemented by every runtime value variant. Concrete types
// are not pointers except Object and Symbol, which carry identity.
type Value interface {
	// TypeTag names the internal variant ("undefined", "null",
	// "boolean", "number", "bigint", "string", "symbol", "object").
	// It is distinct from the user-visible `typeof` result, which
	// additionally folds callable objects into "function" (TypeOf).
	TypeTag() string
	String() string
}

// Undefined is the singleton `undefined` value.
type UndefinedValue struct{}

func (UndefinedValue) TypeTag() string { return "undefined" }
func (UndefinedValue) String() string { return "undefined" }

// Null is the singleton `null` value.
type NullValue struct{}

func (NullValue) TypeTag() string { return "null" }
func (NullValue) String() string  { return "null" }

var (
	Undefined Value = UndefinedValue{}
	Null      Value = NullValue{}
)

// Boolean wraps a bool.
type Boolean bool

func (Boolean) TypeTag() string { return "boolean" }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number wraps an IEEE-754 double, including NaN and ±Infinity (spec 3.1).
type Number float64

func (Number) TypeTag() string { return "number" }
func (n Number) String() string {
	f := float64(n)
	switch {
	case f != f:
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String is stored as a sequence of UTF-16 code units: strings are
// observable via indexing, .length, charCodeAt and surrogate-pair
// iteration, which a plain Go (UTF-8) string cannot express faithfully
// (spec 3.1).
type StringValue struct {
	Units []uint16
}

func (StringValue) TypeTag() string { return "string" }
func (s StringValue) String() string {
	return Utf16ToUTF8(s.Units)
}

// Len returns the string's UTF-16 length (its observable `.length`).
func (s StringValue) Len() int { return len(s.Units) }

// Str constructs a StringValue from a Go (UTF-8) string.
func Str(s string) StringValue {
	return StringValue{Units: UTF8ToUtf16(s)}
}

// NewBoolean constructs a Boolean.
func NewBoolean(b bool) Value { return Boolean(b) }

// NewNumber constructs a Number.
func NewNumber(f float64) Value { return Number(f) }

// NewString constructs a StringValue from a Go string.
func NewString(s string) Value { return Str(s) }

// TypeOf implements the user-visible `typeof` operator (spec 3.3),
// which differs from TypeTag only in folding callable objects into
// "function".
func TypeOf(v Value) string {
	switch t := v.(type) {
	case UndefinedValue:
		return "undefined"
	case NullValue:
		return "object"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case *BigInt:
		return "bigint"
	case StringValue:
		return "string"
	case *Symbol:
		return "symbol"
	case *Object:
		if t.Callable != nil {
			return "function"
		}
		return "object"
	default:
		return "object"
	}
}

// IsNullish reports whether v is `null` or `undefined` (used by the
// optional-chaining and `??` operators, spec 4.4.2-4.4.3).
func IsNullish(v Value) bool {
	switch v.(type) {
	case UndefinedValue, NullValue:
		return true
	default:
		return false
	}
}

// SameValueZero implements the comparison used by Map/Set/includes:
// like strict equality except NaN equals NaN.
func SameValueZero(a, b Value) bool {
	na, aok := a.(Number)
	nb, bok := b.(Number)
	if aok && bok {
		if na != na && nb != nb {
			return true // both NaN
		}
		return na == nb
	}
	return StrictEquals(a, b)
}

// StrictEquals implements `===` (spec 3.3): same type, then per-type
// comparison; objects/symbols compare by identity.
func StrictEquals(a, b Value) bool {
	if TypeTagEqualish(a, b) {
		switch av := a.(type) {
		case UndefinedValue, NullValue:
			return true
		case Boolean:
			return av == b.(Boolean)
		case Number:
			return av == b.(Number)
		case StringValue:
			bv := b.(StringValue)
			if len(av.Units) != len(bv.Units) {
				return false
			}
			for i := range av.Units {
				if av.Units[i] != bv.Units[i] {
					return false
				}
			}
			return true
		case *BigInt:
			bv, ok := b.(*BigInt)
			return ok && av.V.Cmp(bv.V) == 0
		case *Symbol:
			return av == b.(*Symbol)
		case *Object:
			return av == b.(*Object)
		}
	}
	return false
}

// TypeTagEqualish reports whether a and b carry the same underlying Go
// type (a cheap proxy for "same TypeTag" used before per-type compares).
func TypeTagEqualish(a, b Value) bool {
	switch a.(type) {
	case UndefinedValue:
		_, ok := b.(UndefinedValue)
		return ok
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	case Boolean:
		_, ok := b.(Boolean)
		return ok
	case Number:
		_, ok := b.(Number)
		return ok
	case StringValue:
		_, ok := b.(StringValue)
		return ok
	case *BigInt:
		_, ok := b.(*BigInt)
		return ok
	case *Symbol:
		_, ok := b.(*Symbol)
		return ok
	case *Object:
		_, ok := b.(*Object)
		return ok
	default:
		return false
	}
}

// Inspect produces a short debug string, used by panics and internal
// tracing rather than user-visible ToString.
func Inspect(v Value) string {
	if v == nil {
		return "<nil value>"
	}
	return fmt.Sprintf("%s(%s)", v.TypeTag(), v.String())
}
