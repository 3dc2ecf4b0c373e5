package interp

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/env"
	"github.com/ssrlive/ecmacore/internal/value"
)

// execStatements runs stmts in order, stopping at the first abrupt
// completion (spec 4.4.6).
func (ip *Interpreter) execStatements(scope *env.Environment, stmts []ast.Statement) (Signal, error) {
	for _, s := range stmts {
		sig, err := ip.execStatement(scope, s)
		if err != nil || sig.IsAbrupt() {
			return sig, err
		}
	}
	return none, nil
}

func (ip *Interpreter) execStatement(scope *env.Environment, s ast.Statement) (Signal, error) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		_, sig, err := ip.evalExpr(scope, n.Expr)
		return sig, err

	case *ast.EmptyStatement:
		return none, nil

	case *ast.VarDeclaration:
		return ip.execVarDecl(scope, n)

	case *ast.FunctionDeclaration:
		return none, nil // already hoisted

	case *ast.ClassDeclaration:
		return ip.execClassDeclaration(scope, n)

	case *ast.BlockStatement:
		block := env.NewBlockScope(scope)
		ip.hoistBlockLexicals(block, n.Body)
		return ip.execStatements(block, n.Body)

	case *ast.IfStatement:
		return ip.execIf(scope, n)

	case *ast.WhileStatement:
		return ip.execWhile(scope, n, "")

	case *ast.DoWhileStatement:
		return ip.execDoWhile(scope, n, "")

	case *ast.ForStatement:
		return ip.execFor(scope, n, "")

	case *ast.ForInStatement:
		return ip.execForIn(scope, n, "")

	case *ast.ForOfStatement:
		return ip.execForOf(scope, n, "")

	case *ast.SwitchStatement:
		return ip.execSwitch(scope, n)

	case *ast.TryStatement:
		return ip.execTry(scope, n)

	case *ast.ThrowStatement:
		v, sig, err := ip.evalExpr(scope, n.Argument)
		if err != nil || sig.IsAbrupt() {
			return sig, err
		}
		return throwSignal(v), nil

	case *ast.ReturnStatement:
		if n.Argument == nil {
			return returnSignal(value.Undefined), nil
		}
		v, sig, err := ip.evalExpr(scope, n.Argument)
		if err != nil || sig.IsAbrupt() {
			return sig, err
		}
		return returnSignal(v), nil

	case *ast.BreakStatement:
		return Signal{Kind: SigBreak, Label: n.Label}, nil

	case *ast.ContinueStatement:
		return Signal{Kind: SigContinue, Label: n.Label}, nil

	case *ast.LabeledStatement:
		return ip.execLabeled(scope, n)
	}
	return none, nil
}

func (ip *Interpreter) execVarDecl(scope *env.Environment, n *ast.VarDeclaration) (Signal, error) {
	kind := env.Var
	switch n.Kind {
	case ast.KindLet:
		kind = env.Let
	case ast.KindConst:
		kind = env.Const
	}
	for _, d := range n.Declarations {
		var v value.Value = value.Undefined
		if d.Init != nil {
			dv, sig, err := ip.evalExpr(scope, d.Init)
			if err != nil || sig.IsAbrupt() {
				return sig, err
			}
			v = dv
			if ident, ok := d.Target.(*ast.IdentifierPattern); ok {
				nameFunction(v, ident.Name)
			}
		}
		if n.Kind == ast.KindVar {
			if thr := ip.bindPattern(scope, d.Target, v, env.Var, true); thr != nil {
				return throwSignal(thr.Value), nil
			}
		} else {
			if thr := ip.bindPattern(scope, d.Target, v, kind, true); thr != nil {
				return throwSignal(thr.Value), nil
			}
		}
	}
	return none, nil
}

// nameFunction assigns an anonymous function/class expression's
// display name from its binding identifier (spec 4.2, "anonymous
// function name inference"), a cosmetic but observable (.name, stack
// traces) ECMAScript behavior.
func nameFunction(v value.Value, name string) {
	obj, ok := v.(*value.Object)
	if !ok {
		return
	}
	cl, ok := AsClosure(obj)
	if !ok || cl.Name != "" {
		return
	}
	cl.Name = name
	obj.DefineHidden(value.StringKey("name"), value.NewString(name))
}

func (ip *Interpreter) execIf(scope *env.Environment, n *ast.IfStatement) (Signal, error) {
	t, sig, err := ip.evalExpr(scope, n.Test)
	if err != nil || sig.IsAbrupt() {
		return sig, err
	}
	if value.ToBoolean(t) {
		return ip.execStatement(scope, n.Consequent)
	}
	if n.Alternate != nil {
		return ip.execStatement(scope, n.Alternate)
	}
	return none, nil
}

// loopBodyResult interprets a loop body's completion against an
// optional enclosing label: SigBreak/SigContinue targeting this loop
// (unlabeled or matching label) are absorbed; anything else propagates.
func loopBodyResult(sig Signal, label string) (brk bool, propagate Signal) {
	switch sig.Kind {
	case SigBreak:
		if sig.Label == "" || sig.Label == label {
			return true, none
		}
		return true, sig
	case SigContinue:
		if sig.Label == "" || sig.Label == label {
			return false, none
		}
		return true, sig
	default:
		return false, sig
	}
}

func (ip *Interpreter) execWhile(scope *env.Environment, n *ast.WhileStatement, label string) (Signal, error) {
	for {
		t, sig, err := ip.evalExpr(scope, n.Test)
		if err != nil || sig.IsAbrupt() {
			return sig, err
		}
		if !value.ToBoolean(t) {
			return none, nil
		}
		if sig, err := ip.tickLoop(); err != nil || sig.IsAbrupt() {
			return sig, err
		}
		bsig, err := ip.execStatement(scope, n.Body)
		if err != nil {
			return none, err
		}
		brk, prop := loopBodyResult(bsig, label)
		if prop.IsAbrupt() {
			return prop, nil
		}
		if brk {
			return none, nil
		}
	}
}

func (ip *Interpreter) execDoWhile(scope *env.Environment, n *ast.DoWhileStatement, label string) (Signal, error) {
	for {
		if sig, err := ip.tickLoop(); err != nil || sig.IsAbrupt() {
			return sig, err
		}
		bsig, err := ip.execStatement(scope, n.Body)
		if err != nil {
			return none, err
		}
		brk, prop := loopBodyResult(bsig, label)
		if prop.IsAbrupt() {
			return prop, nil
		}
		if brk {
			return none, nil
		}
		t, sig, err := ip.evalExpr(scope, n.Test)
		if err != nil || sig.IsAbrupt() {
			return sig, err
		}
		if !value.ToBoolean(t) {
			return none, nil
		}
	}
}

func (ip *Interpreter) execFor(scope *env.Environment, n *ast.ForStatement, label string) (Signal, error) {
	loopScope := env.NewBlockScope(scope)
	var perIterNames []string
	if n.Init != nil {
		switch init := n.Init.(type) {
		case *ast.VarDeclaration:
			ip.hoistBlockLexicals(loopScope, []ast.Statement{init})
			if sig, err := ip.execVarDecl(loopScope, init); err != nil || sig.IsAbrupt() {
				return sig, err
			}
			if init.Kind != ast.KindVar {
				for _, d := range init.Declarations {
					perIterNames = append(perIterNames, patternNames(d.Target)...)
				}
			}
		case ast.Expression:
			if _, sig, err := ip.evalExpr(loopScope, init); err != nil || sig.IsAbrupt() {
				return sig, err
			}
		}
	}
	// Per-iteration `let` bindings (spec 4.3): each pass gets its own
	// copy of the loop-head bindings so closures created in the body
	// capture that iteration's values, not the final one.
	cur := loopScope
	for {
		if n.Test != nil {
			t, sig, err := ip.evalExpr(cur, n.Test)
			if err != nil || sig.IsAbrupt() {
				return sig, err
			}
			if !value.ToBoolean(t) {
				return none, nil
			}
		}
		if sig, err := ip.tickLoop(); err != nil || sig.IsAbrupt() {
			return sig, err
		}
		iter := env.NewBlockScope(scope)
		for _, name := range perIterNames {
			if v, ok := cur.GetOwn(name); ok {
				iter.DeclareLexical(name, env.Let)
				iter.InitializeLexical(name, v)
			}
		}
		bsig, err := ip.execStatement(iter, n.Body)
		if err != nil {
			return none, err
		}
		brk, prop := loopBodyResult(bsig, label)
		if prop.IsAbrupt() {
			return prop, nil
		}
		if brk {
			return none, nil
		}
		cur = iter
		if n.Update != nil {
			if _, sig, err := ip.evalExpr(cur, n.Update); err != nil || sig.IsAbrupt() {
				return sig, err
			}
		}
	}
}

func (ip *Interpreter) execForIn(scope *env.Environment, n *ast.ForInStatement, label string) (Signal, error) {
	right, sig, err := ip.evalExpr(scope, n.Right)
	if err != nil || sig.IsAbrupt() {
		return sig, err
	}
	obj, ok := right.(*value.Object)
	if !ok || value.IsNullish(right) {
		return none, nil
	}
	var keys []string
	seen := map[string]bool{}
	for cur := obj; cur != nil; cur = cur.Proto {
		for _, k := range cur.OwnKeys() {
			if k.IsSymbol() || seen[k.Str] {
				continue
			}
			seen[k.Str] = true
			if d, _ := cur.GetOwn(k); d != nil && d.Enumerable {
				keys = append(keys, k.Str)
			}
		}
	}
	for _, k := range keys {
		if sig, err := ip.tickLoop(); err != nil || sig.IsAbrupt() {
			return sig, err
		}
		iter := env.NewBlockScope(scope)
		if thr := ip.bindForHead(iter, n.Left, n.IsDecl, n.DeclKind, value.NewString(k)); thr != nil {
			return throwSignal(thr.Value), nil
		}
		bsig, err := ip.execStatement(iter, n.Body)
		if err != nil {
			return none, err
		}
		brk, prop := loopBodyResult(bsig, label)
		if prop.IsAbrupt() {
			return prop, nil
		}
		if brk {
			return none, nil
		}
	}
	return none, nil
}

func (ip *Interpreter) execForOf(scope *env.Environment, n *ast.ForOfStatement, label string) (Signal, error) {
	right, sig, err := ip.evalExpr(scope, n.Right)
	if err != nil || sig.IsAbrupt() {
		return sig, err
	}
	if arr, ok := right.(*value.Object); ok && arr.Class == "Array" {
		for _, el := range ArrayElements(arr) {
			if sig, err := ip.tickLoop(); err != nil || sig.IsAbrupt() {
				return sig, err
			}
			iter := env.NewBlockScope(scope)
			if thr := ip.bindForHead(iter, n.Left, n.IsDecl, n.DeclKind, el); thr != nil {
				return throwSignal(thr.Value), nil
			}
			bsig, err := ip.execStatement(iter, n.Body)
			if err != nil {
				return none, err
			}
			brk, prop := loopBodyResult(bsig, label)
			if prop.IsAbrupt() {
				return prop, nil
			}
			if brk {
				return none, nil
			}
		}
		return none, nil
	}
	if s, ok := right.(value.StringValue); ok {
		for _, cp := range stringCodePoints(s) {
			if sig, err := ip.tickLoop(); err != nil || sig.IsAbrupt() {
				return sig, err
			}
			iter := env.NewBlockScope(scope)
			if thr := ip.bindForHead(iter, n.Left, n.IsDecl, n.DeclKind, cp); thr != nil {
				return throwSignal(thr.Value), nil
			}
			bsig, err := ip.execStatement(iter, n.Body)
			if err != nil {
				return none, err
			}
			brk, prop := loopBodyResult(bsig, label)
			if prop.IsAbrupt() {
				return prop, nil
			}
			if brk {
				return none, nil
			}
		}
		return none, nil
	}
	iterObj, thr := ip.getIterator(right)
	if thr != nil {
		return throwSignal(thr.Value), nil
	}
	for {
		item, done, thr := ip.iteratorStep(iterObj)
		if thr != nil {
			return throwSignal(thr.Value), nil
		}
		if done {
			return none, nil
		}
		if sig, err := ip.tickLoop(); err != nil || sig.IsAbrupt() {
			ip.iteratorClose(iterObj)
			return sig, err
		}
		iter := env.NewBlockScope(scope)
		if thr := ip.bindForHead(iter, n.Left, n.IsDecl, n.DeclKind, item); thr != nil {
			ip.iteratorClose(iterObj)
			return throwSignal(thr.Value), nil
		}
		bsig, err := ip.execStatement(iter, n.Body)
		if err != nil {
			return none, err
		}
		brk, prop := loopBodyResult(bsig, label)
		if prop.IsAbrupt() {
			ip.iteratorClose(iterObj)
			return prop, nil
		}
		if brk {
			ip.iteratorClose(iterObj)
			return none, nil
		}
	}
}

func (ip *Interpreter) bindForHead(scope *env.Environment, left ast.Node, isDecl bool, declKind ast.VarKind, v value.Value) *errThrow {
	if isDecl {
		var pat ast.Pattern
		if vd, ok := left.(*ast.VarDeclaration); ok && len(vd.Declarations) > 0 {
			pat = vd.Declarations[0].Target
		} else if p, ok := left.(ast.Pattern); ok {
			pat = p
		}
		kind := env.Let
		switch declKind {
		case ast.KindVar:
			kind = env.Var
		case ast.KindConst:
			kind = env.Const
		}
		return ip.bindPattern(scope, pat, v, kind, true)
	}
	if pat, ok := left.(ast.Pattern); ok {
		return ip.assignPattern(scope, pat, v)
	}
	return nil
}

func (ip *Interpreter) execSwitch(scope *env.Environment, n *ast.SwitchStatement) (Signal, error) {
	disc, sig, err := ip.evalExpr(scope, n.Discriminant)
	if err != nil || sig.IsAbrupt() {
		return sig, err
	}
	block := env.NewBlockScope(scope)
	for _, c := range n.Cases {
		ip.hoistBlockLexicals(block, c.Body)
	}
	matched := -1
	for i, c := range n.Cases {
		if c.Test == nil {
			continue
		}
		tv, sig, err := ip.evalExpr(block, c.Test)
		if err != nil || sig.IsAbrupt() {
			return sig, err
		}
		if value.StrictEquals(disc, tv) {
			matched = i
			break
		}
	}
	if matched == -1 {
		for i, c := range n.Cases {
			if c.Test == nil {
				matched = i
				break
			}
		}
	}
	if matched == -1 {
		return none, nil
	}
	for i := matched; i < len(n.Cases); i++ {
		sig, err := ip.execStatements(block, n.Cases[i].Body)
		if err != nil {
			return none, err
		}
		if sig.Kind == SigBreak && sig.Label == "" {
			return none, nil
		}
		if sig.IsAbrupt() {
			return sig, nil
		}
	}
	return none, nil
}

func (ip *Interpreter) execTry(scope *env.Environment, n *ast.TryStatement) (Signal, error) {
	block := env.NewBlockScope(scope)
	ip.hoistBlockLexicals(block, n.Block.Body)
	sig, err := ip.execStatements(block, n.Block.Body)
	if err != nil {
		return none, err
	}

	if sig.Kind == SigThrow && n.Handler != nil {
		catchScope := env.NewBlockScope(scope)
		if n.Handler.Param != nil {
			if thr := ip.bindPattern(catchScope, n.Handler.Param, sig.Value, env.Let, true); thr != nil {
				sig = throwSignal(thr.Value)
			} else {
				ip.hoistBlockLexicals(catchScope, n.Handler.Body.Body)
				sig, err = ip.execStatements(catchScope, n.Handler.Body.Body)
				if err != nil {
					return none, err
				}
			}
		} else {
			ip.hoistBlockLexicals(catchScope, n.Handler.Body.Body)
			sig, err = ip.execStatements(catchScope, n.Handler.Body.Body)
			if err != nil {
				return none, err
			}
		}
	}

	if n.Finally != nil {
		finScope := env.NewBlockScope(scope)
		ip.hoistBlockLexicals(finScope, n.Finally.Body)
		fsig, err := ip.execStatements(finScope, n.Finally.Body)
		if err != nil {
			return none, err
		}
		// A completion produced by `finally` overrides whatever the
		// try/catch block was about to propagate (spec 4.4.6).
		if fsig.IsAbrupt() {
			return fsig, nil
		}
	}
	return sig, nil
}

func (ip *Interpreter) execLabeled(scope *env.Environment, n *ast.LabeledStatement) (Signal, error) {
	var sig Signal
	var err error
	switch body := n.Body.(type) {
	case *ast.WhileStatement:
		sig, err = ip.execWhile(scope, body, n.Label)
	case *ast.DoWhileStatement:
		sig, err = ip.execDoWhile(scope, body, n.Label)
	case *ast.ForStatement:
		sig, err = ip.execFor(scope, body, n.Label)
	case *ast.ForInStatement:
		sig, err = ip.execForIn(scope, body, n.Label)
	case *ast.ForOfStatement:
		sig, err = ip.execForOf(scope, body, n.Label)
	default:
		sig, err = ip.execStatement(scope, n.Body)
		if sig.Kind == SigBreak && sig.Label == n.Label {
			sig = none
		}
	}
	return sig, err
}

func (ip *Interpreter) execClassDeclaration(scope *env.Environment, n *ast.ClassDeclaration) (Signal, error) {
	cls, sig, err := ip.evalClass(scope, n.Name, n.SuperClass, n.Body)
	if err != nil || sig.IsAbrupt() {
		return sig, err
	}
	scope.InitializeLexical(n.Name, cls)
	return none, nil
}
