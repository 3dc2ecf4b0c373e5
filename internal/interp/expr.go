package interp

import (
	"math/big"

	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/async"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/value"
)

// evalExpr evaluates a single expression node (spec 4.4, "Expression
// evaluation"). Most cases return (result, none, nil); SigThrow
// propagates a pending exception up through enclosing expressions
// without panicking.
func (ip *Interpreter) evalExpr(scope *env.Environment, e ast.Expression) (value.Value, Signal, error) {
	switch n := e.(type) {
	case *ast.NumberLiteral:
		return value.NewNumber(n.Value), none, nil

	case *ast.BigIntLiteral:
		b, ok := value.BigIntFromString(n.Raw)
		if !ok {
			return nil, ip.throwError(n.Position, errors.KindSyntax, "Invalid BigInt literal %q", n.Raw), nil
		}
		return b, none, nil

	case *ast.StringLiteral:
		return value.NewString(n.Value), none, nil

	case *ast.BooleanLiteral:
		return value.NewBoolean(n.Value), none, nil

	case *ast.NullLiteral:
		return value.Null, none, nil

	case *ast.UndefinedLiteral:
		return value.Undefined, none, nil

	case *ast.RegexLiteral:
		return ip.makeRegExp(n.Pattern, n.Flags), none, nil

	case *ast.TemplateLiteral:
		return ip.evalTemplate(scope, n)

	case *ast.Identifier:
		v, errKind := scope.Get(n.Name)
		switch errKind {
		case env.ErrNone:
			return v, none, nil
		case env.ErrTDZ:
			return nil, ip.throwError(n.Position, errors.KindReference, "Cannot access '%s' before initialization", n.Name), nil
		default:
			return nil, ip.throwError(n.Position, errors.KindReference, "%s is not defined", n.Name), nil
		}

	case *ast.ThisExpression:
		return ip.currentThis(), none, nil

	case *ast.SuperExpression:
		// Bare `super` only appears as the callee of a call expression
		// or the object of a member access; both are special-cased in
		// their respective evaluators, not here.
		return value.Undefined, none, nil

	case *ast.ArrayLiteral:
		return ip.evalArrayLiteral(scope, n)

	case *ast.ObjectLiteral:
		return ip.evalObjectLiteral(scope, n)

	case *ast.UnaryExpression:
		return ip.evalUnaryExpr(scope, n)

	case *ast.UpdateExpression:
		return ip.evalUpdateExpr(scope, n)

	case *ast.BinaryExpression:
		l, sig, err := ip.evalExpr(scope, n.Left)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		r, sig, err := ip.evalExpr(scope, n.Right)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return ip.evalBinary(n.Operator, l, r)

	case *ast.LogicalExpression:
		return ip.evalLogical(scope, n)

	case *ast.ConditionalExpression:
		t, sig, err := ip.evalExpr(scope, n.Test)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if value.ToBoolean(t) {
			return ip.evalExpr(scope, n.Consequent)
		}
		return ip.evalExpr(scope, n.Alternate)

	case *ast.SequenceExpression:
		var v value.Value = value.Undefined
		for _, sub := range n.Expressions {
			sv, sig, err := ip.evalExpr(scope, sub)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			v = sv
		}
		return v, none, nil

	case *ast.AssignmentExpression:
		return ip.evalAssignment(scope, n)

	case *ast.MemberExpression:
		v, _, _, sig, err := ip.evalMember(scope, n)
		return v, sig, err

	case *ast.CallExpression:
		v, _, sig, err := ip.evalCall(scope, n)
		return v, sig, err

	case *ast.NewExpression:
		return ip.evalNew(scope, n)

	case *ast.ArrowFunctionExpression:
		return ip.makeClosure(n.Params, n.Body, true, n.Async, false, scope, ""), none, nil

	case *ast.FunctionExpression:
		fnScope := scope
		if n.Name != "" {
			fnScope = env.NewBlockScope(scope)
		}
		fn := ip.makeClosure(n.Params, n.Body, false, n.Async, n.Generator, fnScope, n.Name)
		if n.Name != "" {
			fnScope.DeclareLexical(n.Name, env.Const)
			fnScope.InitializeLexical(n.Name, fn)
		}
		return fn, none, nil

	case *ast.ClassExpression:
		return ip.evalClass(scope, n.Name, n.SuperClass, n.Body)

	case *ast.YieldExpression:
		return ip.evalYield(scope, n)

	case *ast.AwaitExpression:
		v, sig, err := ip.evalExpr(scope, n.Argument)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return ip.doSuspend(v)

	case *ast.SpreadElement:
		// Only reached if a spread element escapes its array/object/call
		// context, which the parser should never produce.
		return ip.evalExpr(scope, n.Argument)
	}
	return value.Undefined, none, nil
}

func (ip *Interpreter) evalArrayLiteral(scope *env.Environment, n *ast.ArrayLiteral) (value.Value, Signal, error) {
	var elems []value.Value
	for _, el := range n.Elements {
		if el == nil {
			elems = append(elems, value.Undefined)
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			sv, sig, err := ip.evalExpr(scope, spread.Argument)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			items, thr := ip.iterableToSlice(scope, sv)
			if thr != nil {
				return nil, throwSignal(thr.Value), nil
			}
			elems = append(elems, items...)
			continue
		}
		v, sig, err := ip.evalExpr(scope, el)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		elems = append(elems, v)
	}
	return ip.makeArray(elems), none, nil
}

func (ip *Interpreter) evalObjectLiteral(scope *env.Environment, n *ast.ObjectLiteral) (value.Value, Signal, error) {
	obj := value.NewObject(ip.Protos["Object"])
	for _, prop := range n.Properties {
		if prop.Kind == ast.PropSpread {
			sv, sig, err := ip.evalExpr(scope, prop.Value)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			if src, ok := sv.(*value.Object); ok {
				for _, k := range src.OwnKeys() {
					d, _ := src.GetOwn(k)
					if d != nil && d.Enumerable {
						v, sig, err := ip.getObjectPropertyWithReceiver(src, k, src)
						if err != nil || sig.IsAbrupt() {
							return nil, sig, err
						}
						obj.DefineData(k, v)
					}
				}
			}
			continue
		}
		key, thr := ip.propertyKeyOf(scope, prop.Key, prop.Computed)
		if thr != nil {
			return nil, throwSignal(thr.Value), nil
		}
		switch prop.Kind {
		case ast.PropGet, ast.PropSet:
			fnExpr := prop.Value.(*ast.FunctionExpression)
			fn := ip.makeClosure(fnExpr.Params, fnExpr.Body, false, false, false, scope, "")
			fnObj := fn.(*value.Object)
			if cl, ok := AsClosure(fnObj); ok {
				cl.HomeObject = obj
			}
			existing, _ := obj.GetOwn(key)
			desc := &value.PropertyDescriptor{IsAccessor: true, Enumerable: true, Configurable: true}
			if existing != nil && existing.IsAccessor {
				desc.Get, desc.Set = existing.Get, existing.Set
			}
			if prop.Kind == ast.PropGet {
				desc.Get = fnObj
			} else {
				desc.Set = fnObj
			}
			obj.DefineOwn(key, desc)
		default:
			var v value.Value
			var sig Signal
			var err error
			if fnExpr, ok := prop.Value.(*ast.FunctionExpression); ok && prop.Kind == ast.PropMethod {
				fn := ip.makeClosure(fnExpr.Params, fnExpr.Body, false, fnExpr.Async, fnExpr.Generator, scope, keyDisplayName(key))
				if cl, ok := AsClosure(fn.(*value.Object)); ok {
					cl.HomeObject = obj
				}
				v = fn
			} else {
				v, sig, err = ip.evalExpr(scope, prop.Value)
				if err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
				if ident, ok := prop.Key.(*ast.Identifier); ok && !prop.Computed {
					nameFunction(v, ident.Name)
				}
			}
			obj.DefineData(key, v)
		}
	}
	return obj, none, nil
}

func keyDisplayName(key value.PropertyKey) string {
	if key.IsSymbol() {
		return "[" + key.Sym.Desc + "]"
	}
	return key.Str
}

func (ip *Interpreter) evalTemplate(scope *env.Environment, n *ast.TemplateLiteral) (value.Value, Signal, error) {
	out := n.Quasis[0]
	for i, expr := range n.Expressions {
		v, sig, err := ip.evalExpr(scope, expr)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		s, sig, err := ip.toStringValue(v)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		out += s + n.Quasis[i+1]
	}
	return value.NewString(out), none, nil
}

func (ip *Interpreter) evalUnaryExpr(scope *env.Environment, n *ast.UnaryExpression) (value.Value, Signal, error) {
	if n.Operator == "typeof" {
		if ident, ok := n.Argument.(*ast.Identifier); ok && !scope.HasBinding(ident.Name) {
			return ip.evalUnary("typeof", value.Undefined, true)
		}
	}
	if n.Operator == "delete" {
		if m, ok := n.Argument.(*ast.MemberExpression); ok {
			base, sig, err := ip.evalExpr(scope, m.Object)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			key, thr := ip.propertyKeyOf(scope, m.Property, m.Computed)
			if thr != nil {
				return nil, throwSignal(thr.Value), nil
			}
			if obj, ok := base.(*value.Object); ok {
				if target, handler, ok := ip.proxyParts(obj); ok {
					if sig, thrown := ip.checkProxyRevoked(obj, "deleteProperty"); thrown {
						return nil, sig, nil
					}
					if trap, ok := ip.proxyTrap(handler, "deleteProperty"); ok {
						res, sig, err := ip.Call(trap, handler, []value.Value{target, ip.proxyKeyValue(key)})
						if err != nil || sig.IsAbrupt() {
							return nil, sig, err
						}
						return value.NewBoolean(value.ToBoolean(res)), none, nil
					}
					return value.NewBoolean(target.DeleteOwn(key)), none, nil
				}
				return value.NewBoolean(obj.DeleteOwn(key)), none, nil
			}
		}
		return value.NewBoolean(true), none, nil
	}
	v, sig, err := ip.evalExpr(scope, n.Argument)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	return ip.evalUnary(n.Operator, v, false)
}

func (ip *Interpreter) evalUpdateExpr(scope *env.Environment, n *ast.UpdateExpression) (value.Value, Signal, error) {
	old, sig, err := ip.evalExpr(scope, n.Argument)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	var newVal value.Value
	var oldNum value.Value
	if b, ok := old.(*value.BigInt); ok {
		delta := big.NewInt(1)
		if n.Operator == "--" {
			delta = big.NewInt(-1)
		}
		newVal = value.NewBigInt(new(big.Int).Add(b.V, delta))
		oldNum = b
	} else {
		f, sig, err := ip.toNumberValue(old)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		oldNum = value.NewNumber(f)
		if n.Operator == "++" {
			newVal = value.NewNumber(f + 1)
		} else {
			newVal = value.NewNumber(f - 1)
		}
	}
	sig, err = ip.assignTo(scope, n.Argument, newVal)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	if n.Prefix {
		return newVal, none, nil
	}
	return oldNum, none, nil
}

func (ip *Interpreter) evalLogical(scope *env.Environment, n *ast.LogicalExpression) (value.Value, Signal, error) {
	l, sig, err := ip.evalExpr(scope, n.Left)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	switch n.Operator {
	case "&&":
		if !value.ToBoolean(l) {
			return l, none, nil
		}
	case "||":
		if value.ToBoolean(l) {
			return l, none, nil
		}
	case "??":
		if !value.IsNullish(l) {
			return l, none, nil
		}
	}
	return ip.evalExpr(scope, n.Right)
}

// assignTo assigns v to an arbitrary assignment-target expression:
// a plain identifier, a member expression, or (for destructuring
// assignment) an array/object literal reinterpreted as a pattern.
func (ip *Interpreter) assignTo(scope *env.Environment, target ast.Expression, v value.Value) (Signal, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		if errKind := scope.Set(t.Name, v); errKind == env.ErrConstAssign {
			return ip.throwError(t.Position, errors.KindType, "Assignment to constant variable."), nil
		} else if errKind == env.ErrNotDefined {
			scope.VarScope().DeclareVar(t.Name)
			scope.Set(t.Name, v)
		}
		return none, nil
	case *ast.MemberExpression:
		return ip.assignMember(scope, t, v)
	default:
		pat, perr := exprToPattern(target)
		if perr != nil {
			return ip.throwError(target.Pos(), errors.KindSyntax, "Invalid assignment target"), nil
		}
		if thr := ip.assignPattern(scope, pat, v); thr != nil {
			return throwSignal(thr.Value), nil
		}
		return none, nil
	}
}

func (ip *Interpreter) evalAssignment(scope *env.Environment, n *ast.AssignmentExpression) (value.Value, Signal, error) {
	if n.Operator == "=" {
		v, sig, err := ip.evalExpr(scope, n.Value)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if ident, ok := n.Target.(*ast.Identifier); ok {
			nameFunction(v, ident.Name)
		}
		sig, err = ip.assignTo(scope, n.Target, v)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return v, none, nil
	}

	if n.Operator == "&&=" || n.Operator == "||=" || n.Operator == "??=" {
		cur, sig, err := ip.evalExpr(scope, n.Target)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		switch n.Operator {
		case "&&=":
			if !value.ToBoolean(cur) {
				return cur, none, nil
			}
		case "||=":
			if value.ToBoolean(cur) {
				return cur, none, nil
			}
		case "??=":
			if !value.IsNullish(cur) {
				return cur, none, nil
			}
		}
		v, sig, err := ip.evalExpr(scope, n.Value)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		sig, err = ip.assignTo(scope, n.Target, v)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return v, none, nil
	}

	cur, sig, err := ip.evalExpr(scope, n.Target)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	rhs, sig, err := ip.evalExpr(scope, n.Value)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	op := n.Operator[:len(n.Operator)-1] // "+=" -> "+"
	result, sig, err := ip.evalBinary(op, cur, rhs)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	sig, err = ip.assignTo(scope, n.Target, result)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	return result, none, nil
}

// evalMember evaluates a MemberExpression, including its participation
// in an optional chain (spec 4.4.3): the returned bool reports whether
// the chain short-circuited at or before this link, in which case the
// value is Undefined and the rest of the enclosing chain (further
// `.`/`?.`/call links threaded through evalChainBase) must skip its own
// work rather than dereferencing that Undefined as if it were a real
// value.
func (ip *Interpreter) evalMember(scope *env.Environment, n *ast.MemberExpression) (value.Value, value.Value, bool, Signal, error) {
	if sup, ok := n.Object.(*ast.SuperExpression); ok {
		_ = sup
		home := ip.currentHome()
		var proto *value.Object
		if home != nil {
			proto = home.Proto
		}
		key, thr := ip.propertyKeyOf(scope, n.Property, n.Computed)
		if thr != nil {
			return nil, nil, false, throwSignal(thr.Value), nil
		}
		this := ip.currentThis()
		v, sig, err := ip.getObjectPropertyWithReceiver(proto, key, this)
		return v, this, false, sig, err
	}
	base, shortCircuited, sig, err := ip.evalChainBase(scope, n.Object)
	if err != nil || sig.IsAbrupt() {
		return nil, nil, false, sig, err
	}
	if shortCircuited {
		return value.Undefined, nil, true, none, nil
	}
	if n.Optional && value.IsNullish(base) {
		return value.Undefined, nil, true, none, nil
	}
	key, thr := ip.propertyKeyOf(scope, n.Property, n.Computed)
	if thr != nil {
		return nil, nil, false, throwSignal(thr.Value), nil
	}
	v, sig, err := ip.getProperty(base, key)
	return v, base, false, sig, err
}

// evalChainBase evaluates the Object/Callee position of a member or
// call expression, staying chain-aware when that position is itself a
// MemberExpression or CallExpression so a short-circuit anywhere in an
// optional chain (`a?.b.c`, `a?.b().c`, `a?.b.c()`) propagates all the
// way to the end of the chain instead of being mistaken for a real
// `undefined` that the rest of the chain would try to dereference.
func (ip *Interpreter) evalChainBase(scope *env.Environment, e ast.Expression) (value.Value, bool, Signal, error) {
	switch n := e.(type) {
	case *ast.MemberExpression:
		v, _, shortCircuited, sig, err := ip.evalMember(scope, n)
		return v, shortCircuited, sig, err
	case *ast.CallExpression:
		return ip.evalCall(scope, n)
	default:
		v, sig, err := ip.evalExpr(scope, e)
		return v, false, sig, err
	}
}

func (ip *Interpreter) doSuspend(v value.Value) (value.Value, Signal, error) {
	if len(ip.yieldStack) == 0 {
		return v, none, nil
	}
	yield := ip.yieldStack[len(ip.yieldStack)-1]
	r := yield(v)
	switch r.Kind {
	case async.ResumeNext:
		return r.Value, none, nil
	case async.ResumeThrow:
		return nil, throwSignal(r.Value), nil
	case async.ResumeReturn:
		return nil, returnSignal(r.Value), nil
	}
	return value.Undefined, none, nil
}

func (ip *Interpreter) evalYield(scope *env.Environment, n *ast.YieldExpression) (value.Value, Signal, error) {
	var v value.Value = value.Undefined
	if n.Argument != nil {
		av, sig, err := ip.evalExpr(scope, n.Argument)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		v = av
	}
	if !n.Delegate {
		return ip.doSuspend(v)
	}
	iter, thr := ip.getIterator(v)
	if thr != nil {
		return nil, throwSignal(thr.Value), nil
	}
	for {
		item, done, thr := ip.iteratorStep(iter)
		if thr != nil {
			return nil, throwSignal(thr.Value), nil
		}
		if done {
			return item, none, nil
		}
		_, sig, err := ip.doSuspend(item)
		if err != nil {
			return nil, none, err
		}
		if sig.Kind == SigThrow {
			ip.iteratorClose(iter)
			return nil, sig, nil
		}
		if sig.Kind == SigReturn {
			ip.iteratorClose(iter)
			return nil, sig, nil
		}
	}
}

// exprToPattern reinterprets an expression as a destructuring-assignment
// target, mirroring the parser's own exprToPattern used for for-of/in
// heads; needed here because plain `[a, b] = arr` assignment expressions
// keep their Target as a literal expression rather than a Pattern.
func exprToPattern(expr ast.Expression) (ast.Pattern, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return &ast.IdentifierPattern{Base: e.Base, Name: e.Name}, nil
	case *ast.MemberExpression:
		return &ast.MemberPattern{Base: e.Base, Expr: e}, nil
	case *ast.ArrayLiteral:
		var elems []ast.Pattern
		for _, el := range e.Elements {
			if el == nil {
				elems = append(elems, &ast.ElisionPattern{})
				continue
			}
			if spread, ok := el.(*ast.SpreadElement); ok {
				inner, err := exprToPattern(spread.Argument)
				if err != nil {
					return nil, err
				}
				elems = append(elems, &ast.RestPattern{Base: spread.Base, Argument: inner})
				continue
			}
			pat, err := exprToPattern(el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, pat)
		}
		return &ast.ArrayPattern{Base: e.Base, Elements: elems}, nil
	case *ast.ObjectLiteral:
		var props []ast.ObjectPatternProperty
		var rest *ast.RestPattern
		for _, prop := range e.Properties {
			if prop.Kind == ast.PropSpread {
				inner, err := exprToPattern(prop.Value)
				if err != nil {
					return nil, err
				}
				rest = &ast.RestPattern{Argument: inner}
				continue
			}
			val, err := exprToPattern(prop.Value)
			if err != nil {
				return nil, err
			}
			props = append(props, ast.ObjectPatternProperty{Key: prop.Key, Value: val, Computed: prop.Computed, Shorthand: prop.Shorthand})
		}
		return &ast.ObjectPattern{Base: e.Base, Properties: props, Rest: rest}, nil
	case *ast.AssignmentExpression:
		target, err := exprToPattern(e.Target)
		if err != nil {
			return nil, err
		}
		return &ast.AssignmentPattern{Base: e.Base, Target: target, Default: e.Value}, nil
	}
	return nil, errors.New(errors.KindSyntax, expr.Pos(), "Invalid destructuring assignment target")
}
