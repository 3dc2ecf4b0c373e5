package interp

import "github.com/ssrlive/ecmacore/internal/value"

// makeArray builds a dense Array instance from elems (spec 3.2, exotic
// Array objects: indices are ordinary own properties, `length` is kept
// in sync specially).
func (ip *Interpreter) makeArray(elems []value.Value) *value.Object {
	arr := value.NewObject(ip.Protos["Array"])
	arr.Class = "Array"
	for i, el := range elems {
		arr.DefineData(value.StringKey(itoa(i)), el)
	}
	arr.DefineOwn(value.StringKey("length"), &value.PropertyDescriptor{
		Value: value.NewNumber(float64(len(elems))), Writable: true,
	})
	return arr
}

// ArrayLength reads an Array's current length property.
func ArrayLength(arr *value.Object) int {
	d, ok := arr.GetOwn(value.StringKey("length"))
	if !ok {
		return 0
	}
	n, _ := value.ToNumberPrimitive(d.Value)
	return int(n)
}

// ArrayElements materializes an Array's dense elements 0..length-1,
// substituting `undefined` for any hole.
func ArrayElements(arr *value.Object) []value.Value {
	n := ArrayLength(arr)
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		d, ok := arr.GetOwn(value.StringKey(itoa(i)))
		if ok {
			out[i] = d.Value
		} else {
			out[i] = value.Undefined
		}
	}
	return out
}

// ArrayPush appends v, growing length, for built-ins and spread/rest
// construction.
func ArrayPush(arr *value.Object, v value.Value) {
	n := ArrayLength(arr)
	arr.DefineData(value.StringKey(itoa(n)), v)
	setArrayLength(arr, n+1)
}

func setArrayLength(arr *value.Object, n int) {
	d, ok := arr.GetOwn(value.StringKey("length"))
	if !ok {
		arr.DefineOwn(value.StringKey("length"), &value.PropertyDescriptor{Value: value.NewNumber(float64(n)), Writable: true})
		return
	}
	d.Value = value.NewNumber(float64(n))
}

// arrayIndexSet applies exotic Array [[Set]] index-growth semantics:
// writing past the end bumps length; writing to "length" truncates
// trailing elements (spec 3.2, "Array exotic objects").
func (ip *Interpreter) arrayIndexSet(arr *value.Object, key value.PropertyKey, v value.Value) bool {
	if key.IsSymbol() {
		return false
	}
	if key.Str == "length" {
		newLen, _ := value.ToNumberPrimitive(v)
		n := int(newLen)
		old := ArrayLength(arr)
		for i := n; i < old; i++ {
			arr.DeleteOwn(value.StringKey(itoa(i)))
		}
		setArrayLength(arr, n)
		return true
	}
	if idx, ok := parseIndex(key.Str); ok {
		arr.DefineData(key, v)
		if idx >= ArrayLength(arr) {
			setArrayLength(arr, idx+1)
		}
		return true
	}
	return false
}
