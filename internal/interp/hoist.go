package interp

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/env"
)

// hoistProgram performs var/function hoisting for the top-level
// program body (spec 4.3, "hoisting").
func (ip *Interpreter) hoistProgram(prog *ast.Program) {
	ip.hoistVars(ip.Global, prog.Body)
	ip.hoistBlockLexicals(ip.Global, prog.Body)
}

// hoistVars walks stmts recursively (descending into blocks, loops,
// if/else, try/catch/finally, switch, labeled statements -- anything
// that doesn't introduce a new function scope) declaring every `var`
// name into e's nearest function/global scope, per spec 4.3's
// "var hoists past blocks to the enclosing function" rule.
func (ip *Interpreter) hoistVars(e *env.Environment, stmts []ast.Statement) {
	for _, s := range stmts {
		ip.hoistVarsStmt(e, s)
	}
}

func (ip *Interpreter) hoistVarsStmt(e *env.Environment, s ast.Statement) {
	switch n := s.(type) {
	case *ast.VarDeclaration:
		if n.Kind == ast.KindVar {
			for _, d := range n.Declarations {
				for _, name := range patternNames(d.Target) {
					e.DeclareVar(name)
				}
			}
		}
	case *ast.BlockStatement:
		ip.hoistVars(e, n.Body)
	case *ast.IfStatement:
		ip.hoistVarsStmt(e, n.Consequent)
		if n.Alternate != nil {
			ip.hoistVarsStmt(e, n.Alternate)
		}
	case *ast.ForStatement:
		if vd, ok := n.Init.(*ast.VarDeclaration); ok {
			ip.hoistVarsStmt(e, vd)
		}
		ip.hoistVarsStmt(e, n.Body)
	case *ast.ForInStatement:
		if n.IsDecl && n.DeclKind == ast.KindVar {
			if pat, ok := n.Left.(ast.Pattern); ok {
				for _, name := range patternNames(pat) {
					e.DeclareVar(name)
				}
			}
		}
		ip.hoistVarsStmt(e, n.Body)
	case *ast.ForOfStatement:
		if n.IsDecl && n.DeclKind == ast.KindVar {
			if pat, ok := n.Left.(ast.Pattern); ok {
				for _, name := range patternNames(pat) {
					e.DeclareVar(name)
				}
			}
		}
		ip.hoistVarsStmt(e, n.Body)
	case *ast.WhileStatement:
		ip.hoistVarsStmt(e, n.Body)
	case *ast.DoWhileStatement:
		ip.hoistVarsStmt(e, n.Body)
	case *ast.TryStatement:
		ip.hoistVars(e, n.Block.Body)
		if n.Handler != nil {
			ip.hoistVars(e, n.Handler.Body.Body)
		}
		if n.Finally != nil {
			ip.hoistVars(e, n.Finally.Body)
		}
	case *ast.SwitchStatement:
		for _, c := range n.Cases {
			ip.hoistVars(e, c.Body)
		}
	case *ast.LabeledStatement:
		ip.hoistVarsStmt(e, n.Body)
	case *ast.FunctionDeclaration:
		e.DeclareVar(n.Name)
	}
}

// hoistBlockLexicals declares (but does not initialize) this exact
// block's own let/const/class bindings, and declares+initializes its
// function declarations immediately, matching `var`-like eager
// initialization for function hoisting (spec 4.3).
func (ip *Interpreter) hoistBlockLexicals(e *env.Environment, stmts []ast.Statement) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.VarDeclaration:
			if n.Kind != ast.KindVar {
				kind := env.Let
				if n.Kind == ast.KindConst {
					kind = env.Const
				}
				for _, d := range n.Declarations {
					for _, name := range patternNames(d.Target) {
						e.DeclareLexical(name, kind)
					}
				}
			}
		case *ast.ClassDeclaration:
			e.DeclareLexical(n.Name, env.Let)
		case *ast.FunctionDeclaration:
			e.DeclareLexical(n.Name, env.Let)
			fn := ip.makeClosure(n.Params, n.Body, false, n.Async, n.Generator, e, n.Name)
			e.InitializeLexical(n.Name, fn)
		}
	}
}

// patternNames collects every identifier name bound by pat, used by
// hoisting and by destructuring declaration handling.
func patternNames(pat ast.Pattern) []string {
	var out []string
	collectPatternNames(pat, &out)
	return out
}

func collectPatternNames(pat ast.Pattern, out *[]string) {
	switch p := pat.(type) {
	case nil:
	case *ast.IdentifierPattern:
		*out = append(*out, p.Name)
	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			if el != nil {
				collectPatternNames(el, out)
			}
		}
	case *ast.ObjectPattern:
		for _, prop := range p.Properties {
			collectPatternNames(prop.Value, out)
		}
		if p.Rest != nil {
			collectPatternNames(p.Rest.Argument, out)
		}
	case *ast.RestPattern:
		collectPatternNames(p.Argument, out)
	case *ast.AssignmentPattern:
		collectPatternNames(p.Target, out)
	case *ast.MemberPattern:
		// Assignment target, not a declaration target; binds nothing.
	case *ast.ElisionPattern:
	}
}
