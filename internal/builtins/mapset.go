package builtins

import (
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

// mapEntry preserves insertion order the way spec.md's Map/Set
// iteration order requires; map[value.Value] can't key by SameValueZero
// directly since *Object/*Symbol compare by identity already but
// primitive values need normalized keys, so entries are scanned
// linearly -- adequate for the scripts this engine targets, and mirrors
// the teacher's preference for simple slice-backed collections over a
// hand-rolled hash table.
type mapEntry struct {
	key   value.Value
	value value.Value
}

func installMapSet(ip *interp.Interpreter) {
	mapProto := ip.Protos["Map"]
	ctor := newConstructor(ip, "Map", 0, mapProto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj := value.NewObject(mapProto)
		obj.Class = "Map"
		obj.Internal = map[string]any{"entries": &[]mapEntry{}}
		if len(args) > 0 && !value.IsNullish(args[0]) {
			items, sig, err := ip.IterableToSlice(args[0])
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			entries := obj.Internal["entries"].(*[]mapEntry)
			for _, item := range items {
				pair, sig, err := ip.IterableToSlice(item)
				if err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
				if len(pair) < 2 {
					continue
				}
				*entries = append(*entries, mapEntry{pair[0], pair[1]})
			}
		}
		return obj, interp.Signal{}, nil
	})
	defineGlobal(ip, "Map", ctor)

	method(ip, mapProto, "get", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, ok := mapEntriesOf(this)
		if !ok {
			return nil, ip.ThrowTypeError("Map.prototype.get called on incompatible receiver"), nil
		}
		for _, e := range *entries {
			if value.SameValueZero(e.key, arg(args, 0)) {
				return e.value, interp.Signal{}, nil
			}
		}
		return value.Undefined, interp.Signal{}, nil
	})

	method(ip, mapProto, "set", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, ok := mapEntriesOf(this)
		if !ok {
			return nil, ip.ThrowTypeError("Map.prototype.set called on incompatible receiver"), nil
		}
		key, val := arg(args, 0), arg(args, 1)
		for i, e := range *entries {
			if value.SameValueZero(e.key, key) {
				(*entries)[i].value = val
				return this, interp.Signal{}, nil
			}
		}
		*entries = append(*entries, mapEntry{key, val})
		return this, interp.Signal{}, nil
	})

	method(ip, mapProto, "has", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, ok := mapEntriesOf(this)
		if !ok {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		for _, e := range *entries {
			if value.SameValueZero(e.key, arg(args, 0)) {
				return value.NewBoolean(true), interp.Signal{}, nil
			}
		}
		return value.NewBoolean(false), interp.Signal{}, nil
	})

	method(ip, mapProto, "delete", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, ok := mapEntriesOf(this)
		if !ok {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		for i, e := range *entries {
			if value.SameValueZero(e.key, arg(args, 0)) {
				*entries = append((*entries)[:i], (*entries)[i+1:]...)
				return value.NewBoolean(true), interp.Signal{}, nil
			}
		}
		return value.NewBoolean(false), interp.Signal{}, nil
	})

	method(ip, mapProto, "clear", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if entries, ok := mapEntriesOf(this); ok {
			*entries = nil
		}
		return value.Undefined, interp.Signal{}, nil
	})

	method(ip, mapProto, "forEach", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, ok := mapEntriesOf(this)
		fn, fnOk := arg(args, 0).(*value.Object)
		if !ok || !fnOk {
			return nil, ip.ThrowTypeError("callback is not a function"), nil
		}
		for _, e := range *entries {
			_, sig, err := ip.Call(fn, value.Undefined, []value.Value{e.value, e.key, this})
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
		}
		return value.Undefined, interp.Signal{}, nil
	})

	getter(ip, mapProto, "size", func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, ok := mapEntriesOf(this)
		if !ok {
			return value.NewNumber(0), interp.Signal{}, nil
		}
		return value.NewNumber(float64(len(*entries))), interp.Signal{}, nil
	})

	method(ip, mapProto, "keys", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, _ := mapEntriesOf(this)
		var out []value.Value
		for _, e := range derefEntries(entries) {
			out = append(out, e.key)
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})
	method(ip, mapProto, "values", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, _ := mapEntriesOf(this)
		var out []value.Value
		for _, e := range derefEntries(entries) {
			out = append(out, e.value)
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})
	method(ip, mapProto, "entries", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, _ := mapEntriesOf(this)
		var out []value.Value
		for _, e := range derefEntries(entries) {
			out = append(out, ip.MakeArray([]value.Value{e.key, e.value}))
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})

	// --- Set ---
	setProto := ip.Protos["Set"]
	setCtor := newConstructor(ip, "Set", 0, setProto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj := value.NewObject(setProto)
		obj.Class = "Set"
		items := &[]value.Value{}
		obj.Internal = map[string]any{"items": items}
		if len(args) > 0 && !value.IsNullish(args[0]) {
			vals, sig, err := ip.IterableToSlice(args[0])
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			for _, v := range vals {
				if !containsSameValueZero(*items, v) {
					*items = append(*items, v)
				}
			}
		}
		return obj, interp.Signal{}, nil
	})
	defineGlobal(ip, "Set", setCtor)

	method(ip, setProto, "add", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		items, ok := setItemsOf(this)
		if !ok {
			return nil, ip.ThrowTypeError("Set.prototype.add called on incompatible receiver"), nil
		}
		v := arg(args, 0)
		if !containsSameValueZero(*items, v) {
			*items = append(*items, v)
		}
		return this, interp.Signal{}, nil
	})

	method(ip, setProto, "has", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		items, ok := setItemsOf(this)
		if !ok {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		return value.NewBoolean(containsSameValueZero(*items, arg(args, 0))), interp.Signal{}, nil
	})

	method(ip, setProto, "delete", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		items, ok := setItemsOf(this)
		if !ok {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		for i, v := range *items {
			if value.SameValueZero(v, arg(args, 0)) {
				*items = append((*items)[:i], (*items)[i+1:]...)
				return value.NewBoolean(true), interp.Signal{}, nil
			}
		}
		return value.NewBoolean(false), interp.Signal{}, nil
	})

	method(ip, setProto, "clear", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if items, ok := setItemsOf(this); ok {
			*items = nil
		}
		return value.Undefined, interp.Signal{}, nil
	})

	method(ip, setProto, "forEach", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		items, ok := setItemsOf(this)
		fn, fnOk := arg(args, 0).(*value.Object)
		if !ok || !fnOk {
			return nil, ip.ThrowTypeError("callback is not a function"), nil
		}
		for _, v := range *items {
			_, sig, err := ip.Call(fn, value.Undefined, []value.Value{v, v, this})
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
		}
		return value.Undefined, interp.Signal{}, nil
	})

	getter(ip, setProto, "size", func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		items, ok := setItemsOf(this)
		if !ok {
			return value.NewNumber(0), interp.Signal{}, nil
		}
		return value.NewNumber(float64(len(*items))), interp.Signal{}, nil
	})

	method(ip, setProto, "values", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		items, _ := setItemsOf(this)
		return ip.MakeArray(append([]value.Value{}, derefItems(items)...)), interp.Signal{}, nil
	})
}

func mapEntriesOf(v value.Value) (*[]mapEntry, bool) {
	obj, ok := v.(*value.Object)
	if !ok || obj.Internal == nil {
		return nil, false
	}
	entries, ok := obj.Internal["entries"].(*[]mapEntry)
	return entries, ok
}

func derefEntries(e *[]mapEntry) []mapEntry {
	if e == nil {
		return nil
	}
	return *e
}

func setItemsOf(v value.Value) (*[]value.Value, bool) {
	obj, ok := v.(*value.Object)
	if !ok || obj.Internal == nil {
		return nil, false
	}
	items, ok := obj.Internal["items"].(*[]value.Value)
	return items, ok
}

func derefItems(items *[]value.Value) []value.Value {
	if items == nil {
		return nil
	}
	return *items
}

func containsSameValueZero(items []value.Value, v value.Value) bool {
	for _, e := range items {
		if value.SameValueZero(e, v) {
			return true
		}
	}
	return false
}
