package interp

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/value"
)

// evalArgs evaluates a call/new argument list, expanding any spread
// elements (spec 4.4.4, "Argument list evaluation").
func (ip *Interpreter) evalArgs(scope *env.Environment, argExprs []ast.Expression) ([]value.Value, Signal, error) {
	var args []value.Value
	for _, a := range argExprs {
		if spread, ok := a.(*ast.SpreadElement); ok {
			sv, sig, err := ip.evalExpr(scope, spread.Argument)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			items, thr := ip.iterableToSlice(scope, sv)
			if thr != nil {
				return nil, throwSignal(thr.Value), nil
			}
			args = append(args, items...)
			continue
		}
		v, sig, err := ip.evalExpr(scope, a)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		args = append(args, v)
	}
	return args, none, nil
}

// evalCall implements CallExpression evaluation: ordinary calls,
// method calls (resolving `this` from the callee's member base),
// `super(...)` constructor calls, and optional-call short-circuiting
// (spec 4.4.4). The returned bool reports whether an optional chain
// short-circuited at or before this call, for evalChainBase to
// propagate to whatever member/call link encloses it.
func (ip *Interpreter) evalCall(scope *env.Environment, n *ast.CallExpression) (value.Value, bool, Signal, error) {
	if _, ok := n.Callee.(*ast.SuperExpression); ok {
		v, sig, err := ip.evalSuperCall(scope, n)
		return v, false, sig, err
	}

	var callee value.Value
	var this value.Value = value.Undefined
	if m, ok := n.Callee.(*ast.MemberExpression); ok {
		v, base, shortCircuited, sig, err := ip.evalMember(scope, m)
		if err != nil || sig.IsAbrupt() {
			return nil, false, sig, err
		}
		if shortCircuited {
			return value.Undefined, true, none, nil
		}
		callee = v
		this = base
	} else {
		v, shortCircuited, sig, err := ip.evalChainBase(scope, n.Callee)
		if err != nil || sig.IsAbrupt() {
			return nil, false, sig, err
		}
		if shortCircuited {
			return value.Undefined, true, none, nil
		}
		callee = v
	}

	if n.Optional && value.IsNullish(callee) {
		return value.Undefined, true, none, nil
	}

	args, sig, err := ip.evalArgs(scope, n.Args)
	if err != nil || sig.IsAbrupt() {
		return nil, false, sig, err
	}

	fnObj, ok := callee.(*value.Object)
	if !ok {
		return nil, false, ip.throwError(n.Position, errors.KindType, "%s is not a function", exprDisplay(n.Callee)), nil
	}
	if _, isFn := AsClosure(fnObj); !isFn {
		return nil, false, ip.throwError(n.Position, errors.KindType, "%s is not a function", exprDisplay(n.Callee)), nil
	}
	v, sig, err := ip.Call(fnObj, this, args)
	return v, false, sig, err
}

func exprDisplay(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.MemberExpression:
		if id, ok := n.Property.(*ast.Identifier); ok && !n.Computed {
			return exprDisplay(n.Object) + "." + id.Name
		}
	}
	return "expression"
}

// evalSuperCall implements `super(...)` inside a derived class
// constructor: invokes the superclass constructor against the current
// (already-allocated) `this`, then runs this class's own field
// initializers (spec 4.2, "Derived class construction").
func (ip *Interpreter) evalSuperCall(scope *env.Environment, n *ast.CallExpression) (value.Value, Signal, error) {
	home := ip.currentHome()
	this := ip.currentThis()
	if home == nil || home.Proto == nil {
		return nil, ip.throwError(n.Position, errors.KindSyntax, "'super' keyword is only valid inside a derived class constructor"), nil
	}
	superCtorV, ok := home.Proto.GetOwn(value.StringKey("constructor"))
	var superCtor *value.Object
	if ok {
		superCtor, _ = superCtorV.Value.(*value.Object)
	}
	if superCtor == nil {
		// Fall back to walking the prototype's own [[Prototype]] chain
		// for the constructor registered on the super-prototype itself.
		if d, _ := home.Proto.Lookup(value.StringKey("constructor")); d != nil {
			superCtor, _ = d.Value.(*value.Object)
		}
	}
	args, sig, err := ip.evalArgs(scope, n.Args)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	if superCtor == nil {
		return value.Undefined, none, nil
	}
	cl, ok := AsClosure(superCtor)
	if !ok {
		return nil, ip.throwError(n.Position, errors.KindType, "Super constructor is not a function"), nil
	}
	if cl.Native != nil {
		_, sig, err := cl.Native(ip, this, args)
		if err != nil || sig.IsAbrupt() {
			return value.Undefined, sig, err
		}
	} else {
		_, sig, err = ip.invokeClosure(cl, this, args, nil)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
	}
	// Field initializers for *this* derived class run right after the
	// superclass constructor returns, before the rest of this
	// constructor's own body (spec 4.2).
	if frame := ip.currentCtor(); frame != nil && !frame.done {
		frame.done = true
		if inst, ok := this.(*value.Object); ok {
			if sig, err := ip.runFieldInits(frame.cl, inst); err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
		}
	}
	return value.Undefined, none, nil
}

// evalNew implements `new Callee(...)` (spec 4.4.4, "Construct"):
// allocates a fresh object linked to Callee.prototype, runs field
// initializers, invokes the constructor body with that object as
// `this`, and substitutes the constructor's own return value only if
// it returned an object.
func (ip *Interpreter) evalNew(scope *env.Environment, n *ast.NewExpression) (value.Value, Signal, error) {
	calleeV, sig, err := ip.evalExpr(scope, n.Callee)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	ctor, ok := calleeV.(*value.Object)
	if !ok {
		return nil, ip.throwError(n.Position, errors.KindType, "%s is not a constructor", exprDisplay(n.Callee)), nil
	}
	cl, ok := AsClosure(ctor)
	if !ok {
		return nil, ip.throwError(n.Position, errors.KindType, "%s is not a constructor", exprDisplay(n.Callee)), nil
	}
	args, sig, err := ip.evalArgs(scope, n.Args)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	return ip.construct(cl, ctor, args)
}

// construct runs the shared object-allocation + field-init + body
// protocol used by both `new` and (indirectly) class constructors.
func (ip *Interpreter) construct(cl *Closure, ctor *value.Object, args []value.Value) (value.Value, Signal, error) {
	if cl.Native != nil {
		return cl.Native(ip, nil, args)
	}
	protoV, ok := ctor.GetOwn(value.StringKey("prototype"))
	var proto *value.Object
	if ok {
		proto, _ = protoV.Value.(*value.Object)
	}
	if proto == nil {
		proto = ip.Protos["Object"]
	}
	inst := value.NewObject(proto)

	if !cl.IsDerivedCtor && len(cl.FieldInits) > 0 {
		if sig, err := ip.runFieldInits(cl, inst); err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
	}

	ip.pushCtor(cl, inst)
	v, sig, err := ip.invokeClosure(cl, inst, args, ctor)
	ip.popCtor()
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	if obj, ok := v.(*value.Object); ok {
		return obj, none, nil
	}
	return inst, none, nil
}

func (ip *Interpreter) runFieldInits(cl *Closure, inst *value.Object) (Signal, error) {
	for _, f := range cl.FieldInits {
		key, thr := ip.propertyKeyOf(f.Env, f.Key, f.Computed)
		if thr != nil {
			return throwSignal(thr.Value), nil
		}
		var v value.Value = value.Undefined
		if f.Value != nil {
			ip.pushThis(inst)
			ip.pushHome(inst)
			fv, sig, err := ip.evalExpr(f.Env, f.Value)
			ip.popHome()
			ip.popThis()
			if err != nil || sig.IsAbrupt() {
				return sig, err
			}
			v = fv
		}
		inst.DefineData(key, v)
	}
	return none, nil
}
