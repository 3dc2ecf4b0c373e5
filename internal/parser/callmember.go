package parser

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/token"
)

// parseCallOrMember parses the `new`, member-access, and call-expression
// chain, including optional chaining (spec 4.4.3).
func (p *Parser) parseCallOrMember() (ast.Expression, error) {
	var expr ast.Expression
	var err error
	if p.cur.Type == token.New {
		expr, err = p.parseNewExpression()
	} else {
		expr, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	return p.parseMemberCallTail(expr)
}

func (p *Parser) parseNewExpression() (ast.Expression, error) {
	pos := p.cur.Pos
	p.next() // consume 'new'

	if p.cur.Type == token.Dot {
		p.next()
		if p.cur.Type != token.Ident || p.cur.Literal != "target" {
			return nil, p.fail(p.cur.Pos, "Expected 'target' after 'new.'")
		}
		p.next()
		return &ast.Identifier{Base: ast.At(pos), Name: "new.target"}, nil
	}

	var callee ast.Expression
	var err error
	if p.cur.Type == token.New {
		callee, err = p.parseNewExpression()
	} else {
		callee, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	callee, err = p.parseMemberTailNoCall(callee)
	if err != nil {
		return nil, err
	}
	var args []ast.Expression
	if p.cur.Type == token.LParen {
		args, err = p.parseArguments()
		if err != nil {
			return nil, err
		}
	}
	return &ast.NewExpression{Base: ast.At(pos), Callee: callee, Args: args}, nil
}

// parseMemberTailNoCall handles `.` and `[...]` only, used while resolving
// a `new` callee, where a trailing `(...)` belongs to the NewExpression
// itself rather than to the callee chain.
func (p *Parser) parseMemberTailNoCall(expr ast.Expression) (ast.Expression, error) {
	for {
		switch p.cur.Type {
		case token.Dot:
			pos := p.cur.Pos
			p.next()
			if p.cur.Type != token.Ident && !p.cur.Type.IsKeyword() {
				return nil, p.fail(p.cur.Pos, "Expected property name after '.', got %q", p.cur.Literal)
			}
			name := p.cur.Literal
			p.next()
			expr = &ast.MemberExpression{Base: ast.At(pos), Object: expr, Property: &ast.Identifier{Base: ast.At(pos), Name: name}}
		case token.LBracket:
			pos := p.cur.Pos
			p.next()
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket, "']'"); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Base: ast.At(pos), Object: expr, Property: prop, Computed: true}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseMemberCallTail(expr ast.Expression) (ast.Expression, error) {
	for {
		switch p.cur.Type {
		case token.Dot:
			pos := p.cur.Pos
			p.next()
			if p.cur.Type != token.Ident && !p.cur.Type.IsKeyword() {
				return nil, p.fail(p.cur.Pos, "Expected property name after '.', got %q", p.cur.Literal)
			}
			name := p.cur.Literal
			p.next()
			expr = &ast.MemberExpression{Base: ast.At(pos), Object: expr, Property: &ast.Identifier{Base: ast.At(pos), Name: name}}
		case token.QuestionDot:
			pos := p.cur.Pos
			p.next()
			switch p.cur.Type {
			case token.LParen:
				args, err := p.parseArguments()
				if err != nil {
					return nil, err
				}
				expr = &ast.CallExpression{Base: ast.At(pos), Callee: expr, Args: args, Optional: true}
			case token.LBracket:
				p.next()
				prop, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.RBracket, "']'"); err != nil {
					return nil, err
				}
				expr = &ast.MemberExpression{Base: ast.At(pos), Object: expr, Property: prop, Computed: true, Optional: true}
			default:
				if p.cur.Type != token.Ident && !p.cur.Type.IsKeyword() {
					return nil, p.fail(p.cur.Pos, "Expected property name after '?.', got %q", p.cur.Literal)
				}
				name := p.cur.Literal
				p.next()
				expr = &ast.MemberExpression{Base: ast.At(pos), Object: expr, Property: &ast.Identifier{Base: ast.At(pos), Name: name}, Optional: true}
			}
		case token.LBracket:
			pos := p.cur.Pos
			p.next()
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket, "']'"); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Base: ast.At(pos), Object: expr, Property: prop, Computed: true}
		case token.LParen:
			pos := p.cur.Pos
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpression{Base: ast.At(pos), Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArguments() ([]ast.Expression, error) {
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for p.cur.Type != token.RParen {
		if p.cur.Type == token.DotDotDot {
			pos := p.cur.Pos
			p.next()
			arg, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			args = append(args, &ast.SpreadElement{Base: ast.At(pos), Argument: arg})
		} else {
			arg, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if p.cur.Type == token.Comma {
			p.next()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}
