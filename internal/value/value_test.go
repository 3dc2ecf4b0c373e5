package value

import (
	"math"
	"testing"
)

func TestTypeTagAndTypeOf(t *testing.T) {
	obj := NewObject(nil)
	fn := NewObject(nil)
	fn.Callable = func(this Value, args []Value) (Value, error) { return Undefined, nil }

	tests := []struct {
		v       Value
		typeTag string
		typeOf  string
	}{
		{Undefined, "undefined", "undefined"},
		{Null, "null", "object"},
		{NewBoolean(true), "boolean", "boolean"},
		{NewNumber(1), "number", "number"},
		{NewString("x"), "string", "string"},
		{obj, "object", "object"},
		{fn, "object", "function"},
	}
	for _, tt := range tests {
		if got := tt.v.TypeTag(); got != tt.typeTag {
			t.Errorf("TypeTag() = %q, want %q", got, tt.typeTag)
		}
		if got := TypeOf(tt.v); got != tt.typeOf {
			t.Errorf("TypeOf() = %q, want %q", got, tt.typeOf)
		}
	}
}

func TestNumberStringFormatsSpecials(t *testing.T) {
	tests := []struct {
		n    Number
		want string
	}{
		{Number(3), "3"},
		{Number(3.5), "3.5"},
		{Number(0), "0"},
		{Number(nan()), "NaN"},
		{Number(math.Inf(1)), "Infinity"},
		{Number(math.Inf(-1)), "-Infinity"},
	}
	for _, tt := range tests {
		if got := tt.n.String(); got != tt.want {
			t.Errorf("Number(%v).String() = %q, want %q", float64(tt.n), got, tt.want)
		}
	}
}

func TestStrictEqualsByType(t *testing.T) {
	if !StrictEquals(NewNumber(1), NewNumber(1)) {
		t.Error("1 === 1 should be true")
	}
	if StrictEquals(NewNumber(1), NewString("1")) {
		t.Error("1 === \"1\" should be false (different types)")
	}
	if StrictEquals(NewObject(nil), NewObject(nil)) {
		t.Error("distinct objects should not be strictly equal")
	}
	o := NewObject(nil)
	if !StrictEquals(o, o) {
		t.Error("an object should be strictly equal to itself")
	}
}

func TestSameValueZeroTreatsNaNAsEqual(t *testing.T) {
	nan := NewNumber(nan())
	if !SameValueZero(nan, nan) {
		t.Error("NaN should SameValueZero-equal itself")
	}
	if StrictEquals(nan, nan) {
		t.Error("NaN should not strict-equal itself")
	}
}

func TestIsNullish(t *testing.T) {
	if !IsNullish(Undefined) || !IsNullish(Null) {
		t.Error("undefined and null should be nullish")
	}
	if IsNullish(NewNumber(0)) || IsNullish(NewString("")) {
		t.Error("0 and \"\" should not be nullish")
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
