package parser

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/token"
)

// parseBindingTarget parses a destructuring binding target: an
// identifier, an array pattern, or an object pattern (spec 4.2,
// "Destructuring patterns appear in: variable declarations, function
// parameters, assignment targets").
func (p *Parser) parseBindingTarget() (ast.Pattern, error) {
	switch p.cur.Type {
	case token.Ident, token.Async, token.Of, token.Get, token.Set, token.Static, token.Yield, token.Await:
		name := p.cur.Literal
		pos := p.cur.Pos
		p.next()
		return &ast.IdentifierPattern{Base: ast.At(pos), Name: name}, nil
	case token.LBracket:
		return p.parseArrayPattern()
	case token.LBrace:
		return p.parseObjectPattern()
	default:
		return nil, p.fail(p.cur.Pos, "Invalid destructuring target, got %q", p.cur.Literal)
	}
}

func (p *Parser) parseArrayPattern() (ast.Pattern, error) {
	pos := p.cur.Pos
	p.next() // [
	var elems []ast.Pattern
	for p.cur.Type != token.RBracket {
		if p.cur.Type == token.Comma {
			elems = append(elems, &ast.ElisionPattern{Base: ast.At(p.cur.Pos)})
			p.next()
			continue
		}
		if p.cur.Type == token.DotDotDot {
			restPos := p.cur.Pos
			p.next()
			target, err := p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			elems = append(elems, &ast.RestPattern{Base: ast.At(restPos), Argument: target})
		} else {
			target, err := p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			if p.cur.Type == token.Assign {
				p.next()
				def, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				target = &ast.AssignmentPattern{Base: ast.At(p.cur.Pos), Target: target, Default: def}
			}
			elems = append(elems, target)
		}
		if p.cur.Type == token.Comma {
			p.next()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RBracket, "']'"); err != nil {
		return nil, err
	}
	return &ast.ArrayPattern{Base: ast.At(pos), Elements: elems}, nil
}

func (p *Parser) parseObjectPattern() (ast.Pattern, error) {
	pos := p.cur.Pos
	p.next() // {
	var props []ast.ObjectPatternProperty
	var rest *ast.RestPattern
	for p.cur.Type != token.RBrace {
		if p.cur.Type == token.DotDotDot {
			restPos := p.cur.Pos
			p.next()
			target, err := p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			rest = &ast.RestPattern{Base: ast.At(restPos), Argument: target}
			break
		}

		computed := false
		var key ast.Expression
		if p.cur.Type == token.LBracket {
			computed = true
			p.next()
			k, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			key = k
			if _, err := p.expect(token.RBracket, "']'"); err != nil {
				return nil, err
			}
		} else if p.cur.Type == token.String {
			key = &ast.StringLiteral{Base: ast.At(p.cur.Pos), Value: p.cur.Literal}
			p.next()
		} else if p.cur.Type == token.Number {
			key = &ast.StringLiteral{Base: ast.At(p.cur.Pos), Value: p.cur.Literal}
			p.next()
		} else {
			key = &ast.Identifier{Base: ast.At(p.cur.Pos), Name: p.cur.Literal}
			p.next()
		}

		var value ast.Pattern
		shorthand := false
		if p.cur.Type == token.Colon {
			p.next()
			v, err := p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			value = v
		} else {
			shorthand = true
			if ident, ok := key.(*ast.Identifier); ok {
				value = &ast.IdentifierPattern{Base: ident.Base, Name: ident.Name}
			} else {
				return nil, p.fail(p.cur.Pos, "Invalid shorthand property in destructuring pattern")
			}
		}
		if p.cur.Type == token.Assign {
			p.next()
			def, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			value = &ast.AssignmentPattern{Base: ast.At(p.cur.Pos), Target: value, Default: def}
		}

		props = append(props, ast.ObjectPatternProperty{Key: key, Value: value, Computed: computed, Shorthand: shorthand})
		if p.cur.Type == token.Comma {
			p.next()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.ObjectPattern{Base: ast.At(pos), Properties: props, Rest: rest}, nil
}

// parseParams parses a parenthesized parameter list for a function,
// method, or arrow function.
func (p *Parser) parseParams() ([]ast.Param, error) {
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	var params []ast.Param
	for p.cur.Type != token.RParen {
		var param ast.Param
		if p.cur.Type == token.DotDotDot {
			p.next()
			target, err := p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			param = ast.Param{Pattern: target, Rest: true}
		} else {
			target, err := p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			param = ast.Param{Pattern: target}
			if p.cur.Type == token.Assign {
				p.next()
				def, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				param.Default = def
			}
		}
		params = append(params, param)
		if p.cur.Type == token.Comma {
			p.next()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}
