package value

import (
	"sort"
	"strconv"
)

// PropertyKey is either a string or a symbol key (spec 3.2, "Property
// keys"). The zero value is the empty string key.
type PropertyKey struct {
	Str string
	Sym *Symbol
}

func StringKey(s string) PropertyKey { return PropertyKey{Str: s} }
func SymbolKey(s *Symbol) PropertyKey { return PropertyKey{Sym: s} }

func (k PropertyKey) IsSymbol() bool { return k.Sym != nil }

func (k PropertyKey) String() string {
	if k.Sym != nil {
		return k.Sym.String()
	}
	return k.Str
}

// PropertyDescriptor is either a data property (Value/Writable) or an
// accessor property (Get/Set), per spec 4.5, "Property descriptors".
// IsAccessor is left consistent by the Define* helpers below, not by callers
// mutating the struct directly.
type PropertyDescriptor struct {
	Value Value

	Get *Object
	Set *Object

	Writable     bool
	Enumerable   bool
	Configurable bool
	IsAccessor   bool
}

// Object is the heap-allocated backing for every non-primitive value:
// plain objects, arrays, functions, errors, and every built-in exotic
// object (Map, Set, Promise, RegExp, ...) layer their own state in
// Internal, keyed by a package-private tag (spec 3.2, 4.5).
type Object struct {
	Proto      *Object
	Extensible bool

	// Class is the [[NativeName]] / toStringTag-ish internal class,
	// e.g. "Object", "Array", "Function", "Error", "Promise".
	Class string

	// keys preserves insertion order; integer-index keys are sorted
	// ahead of the rest on enumeration per spec 4.5 ("integer index
	// ordering").
	keys  []PropertyKey
	props map[PropertyKey]*PropertyDescriptor

	// Callable is non-nil for function objects; it holds interp-level
	// closure state opaquely (internal/interp defines the concrete type
	// and type-asserts it back out, keeping value free of an import
	// cycle on interp).
	Callable any

	// Construct, if non-nil alongside Callable, marks this function as
	// usable with `new`.
	Construct any

	// HomeObject anchors `super` property lookups for methods (spec
	// 4.4.5, "this/super resolution").
	HomeObject *Object

	// Internal carries exotic-object state: array length/elements,
	// Map/Set backing store, Promise state machine, RegExp compiled
	// pattern, ArrayBuffer bytes, etc. Each built-in owns a single key
	// in this map and type-asserts its own payload type.
	Internal map[string]any
}

// NewObject allocates a plain, extensible object with the given
// prototype (pass nil for %Object.prototype%-less "null-prototype"
// objects such as Object.create(null) results).
func NewObject(proto *Object) *Object {
	return &Object{
		Proto:      proto,
		Extensible: true,
		Class:      "Object",
		props:      make(map[PropertyKey]*PropertyDescriptor),
	}
}

func (*Object) TypeTag() string { return "object" }
func (o *Object) String() string {
	if o.Class != "" {
		return "[object " + o.Class + "]"
	}
	return "[object Object]"
}

// GetOwn returns the object's own property descriptor for key, or
// (nil, false) if it has none.
func (o *Object) GetOwn(key PropertyKey) (*PropertyDescriptor, bool) {
	d, ok := o.props[key]
	return d, ok
}

// DefineOwn installs or replaces an own property descriptor, appending
// key to the enumeration order on first definition.
func (o *Object) DefineOwn(key PropertyKey, desc *PropertyDescriptor) {
	if _, exists := o.props[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.props[key] = desc
}

// DeleteOwn removes an own property. It returns false only for an
// existing non-configurable property, which refuses deletion (spec
// 4.5); a missing key returns true.
func (o *Object) DeleteOwn(key PropertyKey) bool {
	d, ok := o.props[key]
	if !ok {
		return true
	}
	if !d.Configurable {
		return false
	}
	delete(o.props, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// OwnKeys returns own property keys in spec-ordinal-properties order:
// integer-index string keys ascending, then remaining string keys in
// insertion order, then symbol keys in insertion order (spec 4.5,
// "OwnPropertyKeys").
func (o *Object) OwnKeys() []PropertyKey {
	var ints []PropertyKey
	var strs []PropertyKey
	var syms []PropertyKey
	for _, k := range o.keys {
		switch {
		case k.IsSymbol():
			syms = append(syms, k)
		case isArrayIndexKey(k.Str):
			ints = append(ints, k)
		default:
			strs = append(strs, k)
		}
	}
	sortByIndex(ints)
	out := make([]PropertyKey, 0, len(ints)+len(strs)+len(syms))
	out = append(out, ints...)
	out = append(out, strs...)
	out = append(out, syms...)
	return out
}

func isArrayIndexKey(s string) bool {
	if s == "" {
		return false
	}
	if s == "0" {
		return true
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) <= 10
}

func sortByIndex(keys []PropertyKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.ParseUint(keys[i].Str, 10, 64)
		b, _ := strconv.ParseUint(keys[j].Str, 10, 64)
		return a < b
	})
}

// Lookup walks the prototype chain looking up key, returning the found
// descriptor and the object that owns it (nil, nil if unset anywhere).
func (o *Object) Lookup(key PropertyKey) (*PropertyDescriptor, *Object) {
	for cur := o; cur != nil; cur = cur.Proto {
		if d, ok := cur.GetOwn(key); ok {
			return d, cur
		}
	}
	return nil, nil
}

// HasProperty reports whether key resolves anywhere on the prototype
// chain (spec 4.4.2, `in` operator).
func (o *Object) HasProperty(key PropertyKey) bool {
	d, _ := o.Lookup(key)
	return d != nil
}

// DefineData is a convenience for installing a plain writable,
// enumerable, configurable data property -- the default shape for
// properties created by ordinary assignment.
func (o *Object) DefineData(key PropertyKey, v Value) {
	o.DefineOwn(key, &PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
}

// DefineHidden installs a non-enumerable data property, the shape used
// for built-in methods and internal bookkeeping fields.
func (o *Object) DefineHidden(key PropertyKey, v Value) {
	o.DefineOwn(key, &PropertyDescriptor{Value: v, Writable: true, Enumerable: false, Configurable: true})
}
