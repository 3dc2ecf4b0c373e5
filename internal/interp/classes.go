package interp

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/value"
)

// evalClass builds a class's constructor function and prototype object
// from a ClassDeclaration/ClassExpression body (spec 4.2, "Class
// bodies"): superclass linkage, the constructor (explicit or
// synthesized default), instance/static field initializers, and
// getter/setter/method installation. Private (#name) members are kept
// as ordinary string-keyed properties under a mangled key, a pragmatic
// simplification rather than true hard-privacy.
func (ip *Interpreter) evalClass(scope *env.Environment, name string, superExpr ast.Expression, body ast.ClassBody) (value.Value, Signal, error) {
	classScope := scope
	if name != "" {
		classScope = env.NewBlockScope(scope)
	}

	var superCtor *value.Object
	var superProto *value.Object
	isDerived := superExpr != nil
	if isDerived {
		sv, sig, err := ip.evalExpr(classScope, superExpr)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if _, isNull := sv.(value.NullValue); isNull {
			superCtor, superProto = nil, nil
		} else {
			sc, ok := sv.(*value.Object)
			if !ok {
				return nil, ip.throwError(superExpr.Pos(), errors.KindType, "Class extends value is not a constructor"), nil
			}
			superCtor = sc
			if pv, ok := sc.GetOwn(value.StringKey("prototype")); ok {
				superProto, _ = pv.Value.(*value.Object)
			}
		}
	}

	proto := value.NewObject(ip.Protos["Object"])
	if isDerived {
		proto.Proto = superProto
	}

	var ctorMember *ast.ClassMember
	var fieldInits []fieldInit
	var staticFieldInits []fieldInit
	var methods []ast.ClassMember

	for i := range body.Members {
		m := &body.Members[i]
		if m.Kind == ast.MethodConstructor && !m.IsField {
			ctorMember = m
			continue
		}
		if m.IsField {
			fi := fieldInit{Key: m.Key, Computed: m.Computed, IsStatic: m.Static, Value: m.Value, Env: classScope}
			if m.Static {
				staticFieldInits = append(staticFieldInits, fi)
			} else {
				fieldInits = append(fieldInits, fi)
			}
			continue
		}
		methods = append(methods, *m)
	}

	var ctorParams []ast.Param
	var ctorBody ast.Node = &ast.BlockStatement{}
	if ctorMember != nil {
		if fn, ok := ctorMember.Value.(*ast.FunctionExpression); ok {
			ctorParams = fn.Params
			ctorBody = fn.Body
		}
	} else if isDerived {
		// Default derived constructor: constructor(...args) { super(...args); }
		restName := "args"
		ctorParams = []ast.Param{{Pattern: &ast.IdentifierPattern{Name: restName}, Rest: true}}
		ctorBody = &ast.BlockStatement{Body: []ast.Statement{
			&ast.ExpressionStatement{Expr: &ast.CallExpression{
				Callee: &ast.SuperExpression{},
				Args:   []ast.Expression{&ast.SpreadElement{Argument: &ast.Identifier{Name: restName}}},
			}},
		}}
	}

	ctorVal := ip.makeClosure(ctorParams, ctorBody, false, false, false, classScope, name)
	ctorObj := ctorVal.(*value.Object)
	if superCtor != nil {
		ctorObj.Proto = superCtor
	}
	cl, _ := AsClosure(ctorObj)
	cl.IsDerivedCtor = isDerived
	cl.FieldInits = fieldInits
	cl.HomeObject = proto

	proto.DefineHidden(value.StringKey("constructor"), ctorObj)
	ctorObj.DefineHidden(value.StringKey("prototype"), proto)

	for _, m := range methods {
		key, thr := ip.propertyKeyOf(classScope, m.Key, m.Computed)
		if thr != nil {
			return nil, throwSignal(thr.Value), nil
		}
		if m.IsPrivate {
			key = value.StringKey("#" + key.Str)
		}
		target := proto
		if m.Static {
			target = ctorObj
		}
		fnExpr, _ := m.Value.(*ast.FunctionExpression)
		if fnExpr == nil {
			continue
		}
		fn := ip.makeClosure(fnExpr.Params, fnExpr.Body, false, fnExpr.Async, fnExpr.Generator, classScope, keyDisplayName(key))
		fnObj := fn.(*value.Object)
		if mc, ok := AsClosure(fnObj); ok {
			mc.HomeObject = target
		}
		switch m.Kind {
		case ast.MethodGet, ast.MethodSet:
			existing, _ := target.GetOwn(key)
			desc := &value.PropertyDescriptor{IsAccessor: true, Configurable: true}
			if existing != nil && existing.IsAccessor {
				desc.Get, desc.Set = existing.Get, existing.Set
			}
			if m.Kind == ast.MethodGet {
				desc.Get = fnObj
			} else {
				desc.Set = fnObj
			}
			target.DefineOwn(key, desc)
		default:
			target.DefineHidden(key, fnObj)
		}
	}

	if len(staticFieldInits) > 0 {
		if sig, err := ip.runFieldInits(&Closure{FieldInits: staticFieldInits}, ctorObj); err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
	}

	if name != "" {
		classScope.DeclareLexical(name, env.Const)
		classScope.InitializeLexical(name, ctorObj)
	}

	return ctorObj, none, nil
}
