package parser

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/token"
)

// tryParseArrow speculatively parses an arrow function, backtracking to
// the saved position on failure so the caller can fall through to the
// ordinary conditional-expression path (spec 4.2, arrow functions are
// the one place this grammar needs unbounded lookahead).
func (p *Parser) tryParseArrow() (ast.Expression, bool, error) {
	if p.cur.Type != token.Ident && p.cur.Type != token.LParen && p.cur.Type != token.Async &&
		p.cur.Type != token.Of && p.cur.Type != token.Get && p.cur.Type != token.Set && p.cur.Type != token.Static {
		return nil, false, nil
	}

	snap := p.save()
	async := false
	if p.cur.Type == token.Async && !p.peek.NewlineBefore && (p.peek.Type == token.Ident || p.peek.Type == token.LParen) {
		async = true
		p.next()
	}

	if p.cur.Type == token.Ident || p.cur.Type == token.Of || p.cur.Type == token.Get ||
		p.cur.Type == token.Set || p.cur.Type == token.Static {
		if p.peek.Type == token.Arrow && !p.peek.NewlineBefore {
			pos := p.cur.Pos
			name := p.cur.Literal
			p.next() // consume identifier, cur is now =>
			p.next() // consume =>
			body, exprBody, err := p.parseArrowBody()
			if err != nil {
				return nil, false, err
			}
			param := ast.Param{Pattern: &ast.IdentifierPattern{Base: ast.At(pos), Name: name}}
			return &ast.ArrowFunctionExpression{
				Base: ast.At(pos), Params: []ast.Param{param}, Body: body, Async: async, ExprBody: exprBody,
			}, true, nil
		}
		p.restore(snap)
		return nil, false, nil
	}

	if p.cur.Type == token.LParen {
		pos := p.cur.Pos
		params, perr := p.parseParams()
		if perr == nil && p.cur.Type == token.Arrow && !p.cur.NewlineBefore {
			p.next() // consume =>
			body, exprBody, err := p.parseArrowBody()
			if err != nil {
				return nil, false, err
			}
			return &ast.ArrowFunctionExpression{
				Base: ast.At(pos), Params: params, Body: body, Async: async, ExprBody: exprBody,
			}, true, nil
		}
		p.restore(snap)
		return nil, false, nil
	}

	p.restore(snap)
	return nil, false, nil
}

func (p *Parser) parseArrowBody() (ast.Node, bool, error) {
	if p.cur.Type == token.LBrace {
		block, err := p.parseBlockStatement()
		if err != nil {
			return nil, false, err
		}
		return block, false, nil
	}
	expr, err := p.parseAssignment()
	if err != nil {
		return nil, false, err
	}
	return expr, true, nil
}
