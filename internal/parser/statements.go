package parser

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/token"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Type {
	case token.LBrace:
		return p.parseBlockStatement()
	case token.Var, token.Let, token.Const:
		return p.parseVarStatement()
	case token.Function:
		return p.parseFunctionDeclaration(false)
	case token.Async:
		if p.peek.Type == token.Function && !p.peek.NewlineBefore {
			return p.parseFunctionDeclaration(true)
		}
		return p.parseExpressionStatement()
	case token.Class:
		return p.parseClassDeclaration()
	case token.If:
		return p.parseIfStatement()
	case token.For:
		return p.parseForStatement()
	case token.While:
		return p.parseWhileStatement()
	case token.Do:
		return p.parseDoWhileStatement()
	case token.Switch:
		return p.parseSwitchStatement()
	case token.Try:
		return p.parseTryStatement()
	case token.Throw:
		return p.parseThrowStatement()
	case token.Return:
		return p.parseReturnStatement()
	case token.Break:
		return p.parseBreakStatement()
	case token.Continue:
		return p.parseContinueStatement()
	case token.Semicolon:
		pos := p.cur.Pos
		p.next()
		return &ast.EmptyStatement{Base: ast.At(pos)}, nil
	default:
		if p.cur.Type == token.Ident && p.peek.Type == token.Colon {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() (*ast.BlockStatement, error) {
	pos := p.cur.Pos
	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return nil, err
	}
	var body []ast.Statement
	for p.cur.Type != token.RBrace && p.cur.Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.BlockStatement{Base: ast.At(pos), Body: body}, nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Base: ast.At(pos), Expr: expr}, nil
}

func varKindOf(t token.Type) ast.VarKind {
	switch t {
	case token.Let:
		return ast.KindLet
	case token.Const:
		return ast.KindConst
	default:
		return ast.KindVar
	}
}

func (p *Parser) parseVarStatement() (ast.Statement, error) {
	decl, err := p.parseVarDeclaration()
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseVarDeclaration parses `var|let|const binding [= init] (, ...)*`
// without consuming the trailing semicolon, so for/for-in/for-of heads
// can reuse it.
func (p *Parser) parseVarDeclaration() (*ast.VarDeclaration, error) {
	pos := p.cur.Pos
	kind := varKindOf(p.cur.Type)
	p.next()
	var decls []ast.VarDeclarator
	for {
		target, err := p.parseBindingTarget()
		if err != nil {
			return nil, err
		}
		var init ast.Expression
		if p.cur.Type == token.Assign {
			p.next()
			init, err = p.parseAssignment()
			if err != nil {
				return nil, err
			}
		}
		decls = append(decls, ast.VarDeclarator{Target: target, Init: init})
		if p.cur.Type == token.Comma {
			p.next()
			continue
		}
		break
	}
	return &ast.VarDeclaration{Base: ast.At(pos), Kind: kind, Declarations: decls}, nil
}

func (p *Parser) parseFunctionDeclaration(async bool) (ast.Statement, error) {
	pos := p.cur.Pos
	if async {
		p.next() // consume 'async'
	}
	p.next() // consume 'function'
	generator := false
	if p.cur.Type == token.Star {
		generator = true
		p.next()
	}
	name, err := p.expect(token.Ident, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{
		Base: ast.At(pos), Name: name.Literal, Params: params, Body: body, Generator: generator, Async: async,
	}, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next()
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	cons, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var alt ast.Statement
	if p.cur.Type == token.Else {
		p.next()
		alt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStatement{Base: ast.At(pos), Test: test, Consequent: cons, Alternate: alt}, nil
}

func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next()
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	p.inLoop++
	body, err := p.parseStatement()
	p.inLoop--
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Base: ast.At(pos), Test: test, Body: body}, nil
}

func (p *Parser) parseDoWhileStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next()
	p.inLoop++
	body, err := p.parseStatement()
	p.inLoop--
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.While, "'while'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	// ASI: the semicolon after do-while is optional even without a
	// preceding newline.
	if p.cur.Type == token.Semicolon {
		p.next()
	}
	return &ast.DoWhileStatement{Base: ast.At(pos), Body: body, Test: test}, nil
}

// parseForStatement disambiguates plain for, for-in, and for-of by
// parsing the head generically then inspecting what follows it (spec
// 4.3, "for-in and for-of").
func (p *Parser) parseForStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next()
	await := false
	if p.cur.Type == token.Await {
		await = true
		p.next()
	}
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, err
	}

	var left ast.Node
	isDecl := false
	declKind := ast.KindVar

	p.noIn = true
	if p.cur.Type == token.Var || p.cur.Type == token.Let || p.cur.Type == token.Const {
		isDecl = true
		declKind = varKindOf(p.cur.Type)
		p.next()
		target, err := p.parseBindingTarget()
		if err != nil {
			p.noIn = false
			return nil, err
		}
		if p.cur.Type == token.In || p.cur.Type == token.Of {
			p.noIn = false
			return p.finishForInOf(pos, target, isDecl, declKind, await)
		}
		var init ast.Expression
		if p.cur.Type == token.Assign {
			p.next()
			init, err = p.parseAssignment()
			if err != nil {
				p.noIn = false
				return nil, err
			}
		}
		decls := []ast.VarDeclarator{{Target: target, Init: init}}
		for p.cur.Type == token.Comma {
			p.next()
			t2, err := p.parseBindingTarget()
			if err != nil {
				p.noIn = false
				return nil, err
			}
			var i2 ast.Expression
			if p.cur.Type == token.Assign {
				p.next()
				i2, err = p.parseAssignment()
				if err != nil {
					p.noIn = false
					return nil, err
				}
			}
			decls = append(decls, ast.VarDeclarator{Target: t2, Init: i2})
		}
		left = &ast.VarDeclaration{Base: ast.At(pos), Kind: declKind, Declarations: decls}
	} else if p.cur.Type != token.Semicolon {
		expr, err := p.parseExpression()
		if err != nil {
			p.noIn = false
			return nil, err
		}
		if p.cur.Type == token.In || p.cur.Type == token.Of {
			p.noIn = false
			target, err := exprToPattern(expr)
			if err != nil {
				return nil, err
			}
			return p.finishForInOf(pos, target, false, declKind, await)
		}
		left = &ast.ExpressionStatement{Base: ast.At(pos), Expr: expr}
	}
	p.noIn = false

	if _, err := p.expect(token.Semicolon, "';'"); err != nil {
		return nil, err
	}
	var test ast.Expression
	if p.cur.Type != token.Semicolon {
		var err error
		test, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon, "';'"); err != nil {
		return nil, err
	}
	var update ast.Expression
	if p.cur.Type != token.RParen {
		var err error
		update, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	p.inLoop++
	body, err := p.parseStatement()
	p.inLoop--
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{Base: ast.At(pos), Init: left, Test: test, Update: update, Body: body}, nil
}

func (p *Parser) finishForInOf(pos token.Position, target ast.Pattern, isDecl bool, declKind ast.VarKind, await bool) (ast.Statement, error) {
	isOf := p.cur.Type == token.Of
	p.next()
	right, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	p.inLoop++
	body, err := p.parseStatement()
	p.inLoop--
	if err != nil {
		return nil, err
	}
	var left ast.Node = target
	if isDecl {
		left = &ast.VarDeclaration{Base: ast.At(pos), Kind: declKind, Declarations: []ast.VarDeclarator{{Target: target}}}
	}
	if isOf {
		return &ast.ForOfStatement{Base: ast.At(pos), Left: left, Right: right, Body: body, DeclKind: declKind, IsDecl: isDecl, Await: await}, nil
	}
	return &ast.ForInStatement{Base: ast.At(pos), Left: left, Right: right, Body: body, DeclKind: declKind, IsDecl: isDecl}, nil
}

// exprToPattern reinterprets an already-parsed expression as an
// assignment target, needed for `for (x of y)` / `for ([a,b] of y)`
// where the head was parsed as an expression before the `of`/`in`
// keyword was seen.
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
	default:
		return nil, &invalidPatternError{}
	}
}

type invalidPatternError struct{}

func (*invalidPatternError) Error() string { return "Invalid destructuring assignment target" }

func (p *Parser) parseSwitchStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next()
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	disc, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return nil, err
	}
	p.inSwitch++
	defer func() { p.inSwitch-- }()
	var cases []ast.SwitchCase
	for p.cur.Type != token.RBrace {
		var test ast.Expression
		if p.cur.Type == token.Case {
			p.next()
			test, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		} else if _, err := p.expect(token.Default, "'case' or 'default'"); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon, "':'"); err != nil {
			return nil, err
		}
		var body []ast.Statement
		for p.cur.Type != token.Case && p.cur.Type != token.Default && p.cur.Type != token.RBrace {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			body = append(body, stmt)
		}
		cases = append(cases, ast.SwitchCase{Test: test, Body: body})
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.SwitchStatement{Base: ast.At(pos), Discriminant: disc, Cases: cases}, nil
}

func (p *Parser) parseTryStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next()
	block, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	var handler *ast.CatchClause
	if p.cur.Type == token.Catch {
		p.next()
		var param ast.Pattern
		if p.cur.Type == token.LParen {
			p.next()
			param, err = p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RParen, "')'"); err != nil {
				return nil, err
			}
		}
		body, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		handler = &ast.CatchClause{Param: param, Body: body}
	}
	var fin *ast.BlockStatement
	if p.cur.Type == token.Finally {
		p.next()
		fin, err = p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
	}
	if handler == nil && fin == nil {
		return nil, p.fail(pos, "Missing catch or finally after try")
	}
	return &ast.TryStatement{Base: ast.At(pos), Block: block, Handler: handler, Finally: fin}, nil
}

func (p *Parser) parseThrowStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next()
	if p.cur.NewlineBefore {
		return nil, p.fail(pos, "Illegal newline after 'throw'")
	}
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.ThrowStatement{Base: ast.At(pos), Argument: arg}, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next()
	var arg ast.Expression
	if !p.cur.NewlineBefore && p.cur.Type != token.Semicolon && p.cur.Type != token.RBrace && p.cur.Type != token.EOF {
		var err error
		arg, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Base: ast.At(pos), Argument: arg}, nil
}

func (p *Parser) parseBreakStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next()
	label := ""
	if !p.cur.NewlineBefore && p.cur.Type == token.Ident {
		label = p.cur.Literal
		p.next()
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.BreakStatement{Base: ast.At(pos), Label: label}, nil
}

func (p *Parser) parseContinueStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next()
	label := ""
	if !p.cur.NewlineBefore && p.cur.Type == token.Ident {
		label = p.cur.Literal
		p.next()
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.ContinueStatement{Base: ast.At(pos), Label: label}, nil
}

func (p *Parser) parseLabeledStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	label := p.cur.Literal
	p.next() // ident
	p.next() // colon
	p.labels = append(p.labels, label)
	body, err := p.parseStatement()
	p.labels = p.labels[:len(p.labels)-1]
	if err != nil {
		return nil, err
	}
	return &ast.LabeledStatement{Base: ast.At(pos), Label: label, Body: body}, nil
}
