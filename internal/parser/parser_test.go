package parser

import (
	"testing"

	"github.com/ssrlive/ecmacore/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(src, "<test>")
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", src, err)
	}
	return prog
}

func TestParseVarDeclaration(t *testing.T) {
	prog := mustParse(t, "let x = 1 + 2;")
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VarDeclaration)
	if !ok {
		t.Fatalf("expected *ast.VarDeclaration, got %T", prog.Body[0])
	}
	if decl.Kind != ast.KindLet {
		t.Errorf("expected KindLet, got %v", decl.Kind)
	}
	if len(decl.Declarations) != 1 {
		t.Fatalf("expected 1 declarator, got %d", len(decl.Declarations))
	}
	ident, ok := decl.Declarations[0].Target.(*ast.IdentifierPattern)
	if !ok {
		t.Fatalf("expected *ast.IdentifierPattern target, got %T", decl.Declarations[0].Target)
	}
	if ident.Name != "x" {
		t.Errorf("expected identifier 'x', got %q", ident.Name)
	}
	bin, ok := decl.Declarations[0].Init.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpression init, got %T", decl.Declarations[0].Init)
	}
	if bin.Operator != "+" {
		t.Errorf("expected '+' operator, got %q", bin.Operator)
	}
}

func TestParseIfStatement(t *testing.T) {
	prog := mustParse(t, "if (x) { y(); } else { z(); }")
	ifs, ok := prog.Body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", prog.Body[0])
	}
	if ifs.Alternate == nil {
		t.Error("expected non-nil Alternate")
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	prog := mustParse(t, "function add(a, b) { return a + b; }")
	fn, ok := prog.Body[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclaration, got %T", prog.Body[0])
	}
	if fn.Name != "add" {
		t.Errorf("expected function named 'add', got %q", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Errorf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestParseArrowFunctionBacktracking(t *testing.T) {
	// (x) is first parsed as a parenthesized expression candidate; the
	// parser must backtrack to an arrow function once it sees '=>'.
	prog := mustParse(t, "const f = (x) => x + 1;")
	decl := prog.Body[0].(*ast.VarDeclaration)
	_, ok := decl.Declarations[0].Init.(*ast.ArrowFunctionExpression)
	if !ok {
		t.Fatalf("expected *ast.ArrowFunctionExpression, got %T", decl.Declarations[0].Init)
	}
}

func TestParseForLoop(t *testing.T) {
	prog := mustParse(t, "for (let i = 0; i < 10; i++) { sum += i; }")
	forStmt, ok := prog.Body[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected *ast.ForStatement, got %T", prog.Body[0])
	}
	if forStmt.Test == nil || forStmt.Update == nil {
		t.Error("expected non-nil Test and Update clauses")
	}
}

func TestParseClassDeclaration(t *testing.T) {
	prog := mustParse(t, "class Point { constructor(x) { this.x = x; } }")
	cls, ok := prog.Body[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ClassDeclaration, got %T", prog.Body[0])
	}
	if cls.Name != "Point" {
		t.Errorf("expected class named 'Point', got %q", cls.Name)
	}
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	p := New("let = ;", "<test>")
	if _, err := p.ParseProgram(); err == nil {
		t.Error("expected a parse error for malformed declaration")
	}
}

func TestASIInsertsImplicitSemicolon(t *testing.T) {
	prog := mustParse(t, "let a = 1\nlet b = 2")
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 statements via ASI, got %d", len(prog.Body))
	}
}
