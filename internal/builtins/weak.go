package builtins

import (
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

// installWeakMapSet implements WeakMap/WeakSet with strong references:
// Go has no weak-pointer primitive in the standard runtime, so entries
// are never reclaimed ahead of the collection itself. Every other
// observable behavior (object-only keys, no .size, no iteration) matches
// the real WeakMap/WeakSet contract.
func installWeakMapSet(ip *interp.Interpreter) {
	wmProto := ip.Protos["WeakMap"]
	wmCtor := newConstructor(ip, "WeakMap", 0, wmProto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj := value.NewObject(wmProto)
		obj.Class = "WeakMap"
		entries := &[]mapEntry{}
		obj.Internal = map[string]any{"entries": entries}
		if len(args) > 0 && !value.IsNullish(args[0]) {
			items, sig, err := ip.IterableToSlice(args[0])
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			for _, item := range items {
				pair, sig, err := ip.IterableToSlice(item)
				if err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
				if len(pair) < 2 {
					continue
				}
				if _, ok := pair[0].(*value.Object); !ok {
					return nil, ip.ThrowTypeError("Invalid value used as WeakMap key"), nil
				}
				*entries = append(*entries, mapEntry{pair[0], pair[1]})
			}
		}
		return obj, interp.Signal{}, nil
	})
	defineGlobal(ip, "WeakMap", wmCtor)

	method(ip, wmProto, "get", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, ok := mapEntriesOf(this)
		if !ok {
			return nil, ip.ThrowTypeError("WeakMap.prototype.get called on incompatible receiver"), nil
		}
		for _, e := range *entries {
			if e.key == arg(args, 0) {
				return e.value, interp.Signal{}, nil
			}
		}
		return value.Undefined, interp.Signal{}, nil
	})

	method(ip, wmProto, "set", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, ok := mapEntriesOf(this)
		if !ok {
			return nil, ip.ThrowTypeError("WeakMap.prototype.set called on incompatible receiver"), nil
		}
		key := arg(args, 0)
		if _, isObj := key.(*value.Object); !isObj {
			return nil, ip.ThrowTypeError("Invalid value used as WeakMap key"), nil
		}
		val := arg(args, 1)
		for i, e := range *entries {
			if e.key == key {
				(*entries)[i].value = val
				return this, interp.Signal{}, nil
			}
		}
		*entries = append(*entries, mapEntry{key, val})
		return this, interp.Signal{}, nil
	})

	method(ip, wmProto, "has", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, ok := mapEntriesOf(this)
		if !ok {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		for _, e := range *entries {
			if e.key == arg(args, 0) {
				return value.NewBoolean(true), interp.Signal{}, nil
			}
		}
		return value.NewBoolean(false), interp.Signal{}, nil
	})

	method(ip, wmProto, "delete", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		entries, ok := mapEntriesOf(this)
		if !ok {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		for i, e := range *entries {
			if e.key == arg(args, 0) {
				*entries = append((*entries)[:i], (*entries)[i+1:]...)
				return value.NewBoolean(true), interp.Signal{}, nil
			}
		}
		return value.NewBoolean(false), interp.Signal{}, nil
	})

	wsProto := ip.Protos["WeakSet"]
	wsCtor := newConstructor(ip, "WeakSet", 0, wsProto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj := value.NewObject(wsProto)
		obj.Class = "WeakSet"
		items := &[]value.Value{}
		obj.Internal = map[string]any{"items": items}
		if len(args) > 0 && !value.IsNullish(args[0]) {
			vals, sig, err := ip.IterableToSlice(args[0])
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			for _, v := range vals {
				if _, ok := v.(*value.Object); !ok {
					return nil, ip.ThrowTypeError("Invalid value used in WeakSet"), nil
				}
				*items = append(*items, v)
			}
		}
		return obj, interp.Signal{}, nil
	})
	defineGlobal(ip, "WeakSet", wsCtor)

	method(ip, wsProto, "add", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		items, ok := setItemsOf(this)
		if !ok {
			return nil, ip.ThrowTypeError("WeakSet.prototype.add called on incompatible receiver"), nil
		}
		v := arg(args, 0)
		if _, isObj := v.(*value.Object); !isObj {
			return nil, ip.ThrowTypeError("Invalid value used in WeakSet"), nil
		}
		for _, e := range *items {
			if e == v {
				return this, interp.Signal{}, nil
			}
		}
		*items = append(*items, v)
		return this, interp.Signal{}, nil
	})

	method(ip, wsProto, "has", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		items, ok := setItemsOf(this)
		if !ok {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		for _, e := range *items {
			if e == arg(args, 0) {
				return value.NewBoolean(true), interp.Signal{}, nil
			}
		}
		return value.NewBoolean(false), interp.Signal{}, nil
	})

	method(ip, wsProto, "delete", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		items, ok := setItemsOf(this)
		if !ok {
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		for i, e := range *items {
			if e == arg(args, 0) {
				*items = append((*items)[:i], (*items)[i+1:]...)
				return value.NewBoolean(true), interp.Signal{}, nil
			}
		}
		return value.NewBoolean(false), interp.Signal{}, nil
	})
}
