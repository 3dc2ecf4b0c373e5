package interp

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/value"
)

// propertyKeyOf evaluates a property-key expression: a computed key is
// evaluated and converted via ToPropertyKey, a non-computed Identifier
// is used literally by name, and a non-computed literal is used by its
// value (spec 4.5, "property keys").
func (ip *Interpreter) propertyKeyOf(scope *env.Environment, keyExpr ast.Expression, computed bool) (value.PropertyKey, *errThrow) {
	if !computed {
		switch k := keyExpr.(type) {
		case *ast.Identifier:
			return value.StringKey(k.Name), nil
		case *ast.StringLiteral:
			return value.StringKey(k.Value), nil
		case *ast.NumberLiteral:
			return value.StringKey(value.Number(k.Value).String()), nil
		}
	}
	v, sig, err := ip.evalExpr(scope, keyExpr)
	if err != nil {
		return value.PropertyKey{}, &errThrow{Value: value.NewString(err.Error())}
	}
	if sig.Kind == SigThrow {
		return value.PropertyKey{}, &errThrow{Value: sig.Value}
	}
	return ip.toPropertyKey(v), nil
}

// toPropertyKey implements ToPropertyKey (spec 3.3): symbols pass
// through as symbol keys, everything else stringifies.
func (ip *Interpreter) toPropertyKey(v value.Value) value.PropertyKey {
	if sym, ok := v.(*value.Symbol); ok {
		return value.SymbolKey(sym)
	}
	s, _, _ := ip.toStringValue(v)
	return value.StringKey(s)
}

// getProperty implements the Get abstract operation, including
// prototype-chain walking and accessor invocation (spec 4.5).
func (ip *Interpreter) getProperty(base value.Value, key value.PropertyKey) (value.Value, Signal, error) {
	switch b := base.(type) {
	case value.UndefinedValue, value.NullValue:
		return nil, ip.throwErrorSig(errors.KindType, "Cannot read properties of %s (reading '%s')", base.String(), key.String()), nil
	case value.StringValue:
		return ip.getStringProperty(b, key)
	case *value.Object:
		return ip.getObjectProperty(b, key)
	default:
		// Boolean, Number, BigInt, Symbol: box against their prototype.
		proto := ip.primitiveProto(base)
		if proto == nil {
			return value.Undefined, none, nil
		}
		return ip.getObjectPropertyWithReceiver(proto, key, base)
	}
}

func (ip *Interpreter) primitiveProto(v value.Value) *value.Object {
	switch v.(type) {
	case value.Boolean:
		return ip.Protos["Boolean"]
	case value.Number:
		return ip.Protos["Number"]
	case *value.BigInt:
		return ip.Protos["BigInt"]
	case *value.Symbol:
		return ip.Protos["Symbol"]
	}
	return nil
}

func (ip *Interpreter) getStringProperty(s value.StringValue, key value.PropertyKey) (value.Value, Signal, error) {
	if !key.IsSymbol() {
		if key.Str == "length" {
			return value.NewNumber(float64(s.Len())), none, nil
		}
		if idx, ok := parseIndex(key.Str); ok {
			if idx >= 0 && idx < len(s.Units) {
				return value.StringValue{Units: s.Units[idx : idx+1]}, none, nil
			}
			return value.Undefined, none, nil
		}
	}
	return ip.getObjectPropertyWithReceiver(ip.Protos["String"], key, s)
}

func (ip *Interpreter) getObjectProperty(obj *value.Object, key value.PropertyKey) (value.Value, Signal, error) {
	if target, handler, ok := ip.proxyParts(obj); ok {
		if sig, thrown := ip.checkProxyRevoked(obj, "get"); thrown {
			return nil, sig, nil
		}
		if trap, ok := ip.proxyTrap(handler, "get"); ok {
			return ip.Call(trap, handler, []value.Value{target, ip.proxyKeyValue(key), obj})
		}
		return ip.getObjectProperty(target, key)
	}
	return ip.getObjectPropertyWithReceiver(obj, key, obj)
}

// checkProxyRevoked enforces the revoked-proxy TypeError invariant
// (spec 3.2): every trap dispatch on a revoked Proxy throws instead of
// silently falling through to the target.
func (ip *Interpreter) checkProxyRevoked(obj *value.Object, op string) (Signal, bool) {
	if revoked, _ := obj.Internal["revoked"].(bool); revoked {
		return ip.throwErrorSig(errors.KindType, "Cannot perform '%s' on a proxy that has been revoked", op), true
	}
	return none, false
}

// proxyParts reports whether obj is a Proxy exotic object (spec
// "Supplemented Features", Proxy), returning its target and handler.
func (ip *Interpreter) proxyParts(obj *value.Object) (*value.Object, *value.Object, bool) {
	if obj == nil || obj.Class != "Proxy" || obj.Internal == nil {
		return nil, nil, false
	}
	target, _ := obj.Internal["target"].(*value.Object)
	handler, _ := obj.Internal["handler"].(*value.Object)
	if target == nil || handler == nil {
		return nil, nil, false
	}
	return target, handler, true
}

func (ip *Interpreter) proxyTrap(handler *value.Object, name string) (*value.Object, bool) {
	v, _, _ := ip.getObjectProperty(handler, value.StringKey(name))
	fn, ok := v.(*value.Object)
	if !ok {
		return nil, false
	}
	if _, isFn := AsClosure(fn); !isFn {
		return nil, false
	}
	return fn, true
}

func (ip *Interpreter) proxyKeyValue(key value.PropertyKey) value.Value {
	if key.IsSymbol() {
		return key.Sym
	}
	return value.NewString(key.Str)
}

func (ip *Interpreter) getObjectPropertyWithReceiver(obj *value.Object, key value.PropertyKey, receiver value.Value) (value.Value, Signal, error) {
	if obj == nil {
		return value.Undefined, none, nil
	}
	d, owner := obj.Lookup(key)
	if d == nil {
		return value.Undefined, none, nil
	}
	if d.IsAccessor {
		if d.Get == nil {
			return value.Undefined, none, nil
		}
		return ip.Call(d.Get, receiver, nil)
	}
	_ = owner
	return d.Value, none, nil
}

// setProperty implements the Set abstract operation: own-property
// write, or delegating to an inherited accessor's setter (spec 4.5).
func (ip *Interpreter) setProperty(base value.Value, key value.PropertyKey, v value.Value) (Signal, error) {
	obj, ok := base.(*value.Object)
	if !ok {
		if value.IsNullish(base) {
			return ip.throwErrorSig(errors.KindType, "Cannot set properties of %s (setting '%s')", base.String(), key.String()), nil
		}
		return none, nil // writes to primitive boxes are silently dropped (non-strict semantics)
	}
	if target, handler, ok := ip.proxyParts(obj); ok {
		if sig, thrown := ip.checkProxyRevoked(obj, "set"); thrown {
			return sig, nil
		}
		if trap, ok := ip.proxyTrap(handler, "set"); ok {
			_, sig, err := ip.Call(trap, handler, []value.Value{target, ip.proxyKeyValue(key), v, obj})
			return sig, err
		}
		return ip.setProperty(target, key, v)
	}
	if obj.Class == "Array" && (key.Str == "length" || isArrayIndexStr(key)) {
		ip.arrayIndexSet(obj, key, v)
		return none, nil
	}
	if own, ok := obj.GetOwn(key); ok {
		if own.IsAccessor {
			if own.Set == nil {
				return none, nil
			}
			_, sig, err := ip.Call(own.Set, base, []value.Value{v})
			return sig, err
		}
		if !own.Writable {
			return none, nil
		}
		own.Value = v
		return none, nil
	}
	if d, _ := obj.Lookup(key); d != nil && d.IsAccessor {
		if d.Set == nil {
			return none, nil
		}
		_, sig, err := ip.Call(d.Set, base, []value.Value{v})
		return sig, err
	}
	if !obj.Extensible {
		return none, nil
	}
	obj.DefineData(key, v)
	return none, nil
}

// assignMember evaluates and assigns to a MemberExpression target
// (used by both `=`/compound assignment and destructuring into member
// targets).
func (ip *Interpreter) assignMember(scope *env.Environment, m *ast.MemberExpression, v value.Value) (Signal, error) {
	base, sig, err := ip.evalExpr(scope, m.Object)
	if err != nil || sig.IsAbrupt() {
		return sig, err
	}
	key, thr := ip.propertyKeyOf(scope, m.Property, m.Computed)
	if thr != nil {
		return Signal{Kind: SigThrow, Value: thr.Value}, nil
	}
	return ip.setProperty(base, key, v)
}

func isArrayIndexStr(key value.PropertyKey) bool {
	if key.IsSymbol() {
		return false
	}
	_, ok := parseIndex(key.Str)
	return ok
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
