package interp

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/token"
	"github.com/ssrlive/ecmacore/internal/value"
)

// bindPattern declares (or, for parameters, just initializes) every
// name in pat against v in scope, per spec 4.3 ("Destructuring
// binder"). define controls whether names are freshly declared
// (param/var/let/const context) versus looked up as already-declared
// (destructuring assignment via assignPattern passes false; declaration
// sites pass true).
func (ip *Interpreter) bindPattern(scope *env.Environment, pat ast.Pattern, v value.Value, kind env.Kind, define bool) *errThrow {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		if define {
			declareAndInit(scope, p.Name, kind, v)
		} else {
			scope.Set(p.Name, v)
		}
		return nil

	case *ast.AssignmentPattern:
		if _, isUndef := v.(value.UndefinedValue); isUndef {
			dv, sig, err := ip.evalExpr(scope, p.Default)
			if err != nil {
				return &errThrow{Value: value.NewString(err.Error())}
			}
			if sig.Kind == SigThrow {
				return &errThrow{Value: sig.Value}
			}
			v = dv
		}
		return ip.bindPattern(scope, p.Target, v, kind, define)

	case *ast.ArrayPattern:
		items, thr := ip.iterableToSlice(scope, v)
		if thr != nil {
			return thr
		}
		for i, el := range p.Elements {
			if el == nil {
				continue
			}
			if rest, ok := el.(*ast.RestPattern); ok {
				var tail []value.Value
				if i < len(items) {
					tail = items[i:]
				}
				if err := ip.bindPattern(scope, rest.Argument, ip.makeArray(tail), kind, define); err != nil {
					return err
				}
				break
			}
			var ev value.Value = value.Undefined
			if i < len(items) {
				ev = items[i]
			}
			if err := ip.bindPattern(scope, el, ev, kind, define); err != nil {
				return err
			}
		}
		return nil

	case *ast.ObjectPattern:
		if value.IsNullish(v) {
			msg := "Cannot destructure property '" + firstPropertyName(p) + "' as it is " + value.Inspect(v) + "."
			return &errThrow{Value: ip.makeError(errors.KindType, msg, token.Position{})}
		}
		seen := map[string]bool{}
		for _, prop := range p.Properties {
			key, thr := ip.propertyKeyOf(scope, prop.Key, prop.Computed)
			if thr != nil {
				return thr
			}
			seen[key.String()] = true
			pv, sig, err := ip.getProperty(v, key)
			if err != nil {
				return &errThrow{Value: value.NewString(err.Error())}
			}
			if sig.Kind == SigThrow {
				return &errThrow{Value: sig.Value}
			}
			if err := ip.bindPattern(scope, prop.Value, pv, kind, define); err != nil {
				return err
			}
		}
		if p.Rest != nil {
			restObj := value.NewObject(ip.Protos["Object"])
			if obj, ok := v.(*value.Object); ok {
				for _, k := range obj.OwnKeys() {
					if seen[k.String()] {
						continue
					}
					d, _ := obj.GetOwn(k)
					if d != nil && d.Enumerable {
						restObj.DefineData(k, d.Value)
					}
				}
			}
			if err := ip.bindPattern(scope, p.Rest.Argument, restObj, kind, define); err != nil {
				return err
			}
		}
		return nil

	case *ast.RestPattern:
		return ip.bindPattern(scope, p.Argument, v, kind, define)

	case *ast.ElisionPattern:
		return nil

	case *ast.MemberPattern:
		sig, err := ip.assignMember(scope, p.Expr, v)
		if err != nil {
			return &errThrow{Value: value.NewString(err.Error())}
		}
		if sig.Kind == SigThrow {
			return &errThrow{Value: sig.Value}
		}
		return nil
	}
	return nil
}

// firstPropertyName names the first property an object pattern would
// read, for the nullish-source TypeError (spec 8.4): read syntactically
// off the pattern, never evaluated against the (already known nullish)
// source value. Falls back to "value" when the pattern names nothing
// (an empty `{}` with only a rest element, or a computed first key
// whose name can't be known without evaluating it).
func firstPropertyName(p *ast.ObjectPattern) string {
	if len(p.Properties) == 0 {
		return "value"
	}
	key := p.Properties[0].Key
	if p.Properties[0].Computed {
		return "value"
	}
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.StringLiteral:
		return k.Value
	}
	return "value"
}

func declareAndInit(scope *env.Environment, name string, kind env.Kind, v value.Value) {
	switch kind {
	case env.Var:
		scope.DeclareVar(name)
		scope.Set(name, v)
	default:
		if !scope.HasOwn(name) {
			scope.DeclareLexical(name, kind)
		}
		scope.InitializeLexical(name, v)
	}
}

// assignPattern is like bindPattern but for `=` destructuring into
// already-existing bindings or arbitrary assignment targets
// (identifiers, member expressions), used by the assignment-expression
// evaluator rather than a var/let/const declaration.
func (ip *Interpreter) assignPattern(scope *env.Environment, pat ast.Pattern, v value.Value) *errThrow {
	return ip.bindPattern(scope, pat, v, env.Var, false)
}
