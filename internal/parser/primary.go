package parser

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/token"
)

func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch p.cur.Type {
	case token.Number:
		pos, raw := p.cur.Pos, p.cur.Literal
		val, err := parseNumberLiteral(raw)
		if err != nil {
			return nil, p.fail(pos, "Invalid number literal %q", raw)
		}
		p.next()
		return &ast.NumberLiteral{Base: ast.At(pos), Value: val, Raw: raw}, nil
	case token.BigIntLiteral:
		pos, raw := p.cur.Pos, p.cur.Literal
		p.next()
		return &ast.BigIntLiteral{Base: ast.At(pos), Raw: raw}, nil
	case token.String:
		pos, val := p.cur.Pos, p.cur.Literal
		p.next()
		return &ast.StringLiteral{Base: ast.At(pos), Value: val}, nil
	case token.True, token.False:
		pos, val := p.cur.Pos, p.cur.Type == token.True
		p.next()
		return &ast.BooleanLiteral{Base: ast.At(pos), Value: val}, nil
	case token.Null:
		pos := p.cur.Pos
		p.next()
		return &ast.NullLiteral{Base: ast.At(pos)}, nil
	case token.Undefined:
		pos := p.cur.Pos
		p.next()
		return &ast.UndefinedLiteral{Base: ast.At(pos)}, nil
	case token.Regex:
		pos := p.cur.Pos
		pattern, flags := splitRegex(p.cur.Literal)
		p.next()
		return &ast.RegexLiteral{Base: ast.At(pos), Pattern: pattern, Flags: flags}, nil
	case token.This:
		pos := p.cur.Pos
		p.next()
		return &ast.ThisExpression{Base: ast.At(pos)}, nil
	case token.Super:
		pos := p.cur.Pos
		p.next()
		return &ast.SuperExpression{Base: ast.At(pos)}, nil
	case token.Ident, token.Of, token.Get, token.Set, token.Static, token.Yield, token.Await:
		pos, name := p.cur.Pos, p.cur.Literal
		p.next()
		return &ast.Identifier{Base: ast.At(pos), Name: name}, nil
	case token.Async:
		if p.peek.Type == token.Function && !p.peek.NewlineBefore {
			return p.parseFunctionExpression(true)
		}
		pos, name := p.cur.Pos, p.cur.Literal
		p.next()
		return &ast.Identifier{Base: ast.At(pos), Name: name}, nil
	case token.Function:
		return p.parseFunctionExpression(false)
	case token.Class:
		return p.parseClassExpression()
	case token.TemplateString, token.TemplateHead:
		return p.parseTemplateLiteral()
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LBrace:
		return p.parseObjectLiteral()
	case token.LParen:
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.fail(p.cur.Pos, "Unexpected token %q", p.cur.Literal)
	}
}

// splitRegex separates a Regex token's literal, which the lexer emits as
// the pattern and the flags joined by a NUL byte, into its two parts.
func splitRegex(lit string) (string, string) {
	for i := len(lit) - 1; i >= 0; i-- {
		if lit[i] == 0 {
			return lit[:i], lit[i+1:]
		}
	}
	return lit, ""
}

func (p *Parser) parseTemplateLiteral() (ast.Expression, error) {
	pos := p.cur.Pos
	if p.cur.Type == token.TemplateString {
		quasi := p.cur.Literal
		p.next()
		return &ast.TemplateLiteral{Base: ast.At(pos), Quasis: []string{quasi}}, nil
	}
	var quasis []string
	var exprs []ast.Expression
	quasis = append(quasis, p.cur.Literal)
	p.next() // consume TemplateHead
	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if p.cur.Type != token.TemplateMiddle && p.cur.Type != token.TemplateTail {
			return nil, p.fail(p.cur.Pos, "Expected template continuation")
		}
		quasis = append(quasis, p.cur.Literal)
		done := p.cur.Type == token.TemplateTail
		p.next()
		if done {
			break
		}
	}
	return &ast.TemplateLiteral{Base: ast.At(pos), Quasis: quasis, Expressions: exprs}, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	pos := p.cur.Pos
	p.next() // [
	var elems []ast.Expression
	for p.cur.Type != token.RBracket {
		if p.cur.Type == token.Comma {
			elems = append(elems, nil)
			p.next()
			continue
		}
		if p.cur.Type == token.DotDotDot {
			spos := p.cur.Pos
			p.next()
			arg, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			elems = append(elems, &ast.SpreadElement{Base: ast.At(spos), Argument: arg})
		} else {
			e, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
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
	return &ast.ArrayLiteral{Base: ast.At(pos), Elements: elems}, nil
}

func (p *Parser) parseObjectLiteral() (ast.Expression, error) {
	pos := p.cur.Pos
	p.next() // {
	var props []ast.ObjectProperty
	for p.cur.Type != token.RBrace {
		prop, err := p.parseObjectProperty()
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
		if p.cur.Type == token.Comma {
			p.next()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.ObjectLiteral{Base: ast.At(pos), Properties: props}, nil
}

func (p *Parser) parseObjectProperty() (ast.ObjectProperty, error) {
	if p.cur.Type == token.DotDotDot {
		p.next()
		arg, err := p.parseAssignment()
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		return ast.ObjectProperty{Value: arg, Kind: ast.PropSpread}, nil
	}

	async, generator := false, false
	if p.cur.Type == token.Async && p.peek.Type != token.Colon && p.peek.Type != token.LParen &&
		p.peek.Type != token.Comma && p.peek.Type != token.RBrace && !p.peek.NewlineBefore {
		async = true
		p.next()
	}
	if p.cur.Type == token.Star {
		generator = true
		p.next()
	}

	if (p.cur.Type == token.Get || p.cur.Type == token.Set) && !async && !generator &&
		p.peek.Type != token.Colon && p.peek.Type != token.LParen && p.peek.Type != token.Comma && p.peek.Type != token.RBrace {
		kind := ast.PropGet
		if p.cur.Type == token.Set {
			kind = ast.PropSet
		}
		p.next()
		key, computed, err := p.parsePropertyKey()
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		fn, err := p.parseMethodBody(false, false)
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		return ast.ObjectProperty{Key: key, Value: fn, Computed: computed, Kind: kind}, nil
	}

	key, computed, err := p.parsePropertyKey()
	if err != nil {
		return ast.ObjectProperty{}, err
	}

	switch {
	case p.cur.Type == token.LParen:
		fn, err := p.parseMethodBody(generator, async)
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		return ast.ObjectProperty{Key: key, Value: fn, Computed: computed, Kind: ast.PropMethod}, nil
	case p.cur.Type == token.Colon:
		p.next()
		val, err := p.parseAssignment()
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		return ast.ObjectProperty{Key: key, Value: val, Computed: computed, Kind: ast.PropData}, nil
	case p.cur.Type == token.Assign:
		// Shorthand with default, valid only inside a destructuring context
		// reparsed from an object literal; kept as a data property here.
		ident, ok := key.(*ast.Identifier)
		if !ok {
			return ast.ObjectProperty{}, p.fail(p.cur.Pos, "Invalid shorthand property default")
		}
		pos := p.cur.Pos
		p.next()
		def, err := p.parseAssignment()
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		return ast.ObjectProperty{
			Key: key, Computed: computed, Shorthand: true, Kind: ast.PropData,
			Value: &ast.AssignmentExpression{Base: ast.At(pos), Operator: "=", Target: ident, Value: def},
		}, nil
	default:
		ident, ok := key.(*ast.Identifier)
		if !ok {
			return ast.ObjectProperty{}, p.fail(p.cur.Pos, "Invalid shorthand property")
		}
		return ast.ObjectProperty{Key: key, Value: ident, Computed: computed, Shorthand: true, Kind: ast.PropData}, nil
	}
}

func (p *Parser) parsePropertyKey() (ast.Expression, bool, error) {
	switch p.cur.Type {
	case token.LBracket:
		p.next()
		e, err := p.parseAssignment()
		if err != nil {
			return nil, false, err
		}
		if _, err := p.expect(token.RBracket, "']'"); err != nil {
			return nil, false, err
		}
		return e, true, nil
	case token.String:
		pos, val := p.cur.Pos, p.cur.Literal
		p.next()
		return &ast.StringLiteral{Base: ast.At(pos), Value: val}, false, nil
	case token.Number:
		pos, raw := p.cur.Pos, p.cur.Literal
		val, _ := parseNumberLiteral(raw)
		p.next()
		return &ast.NumberLiteral{Base: ast.At(pos), Value: val, Raw: raw}, false, nil
	default:
		pos, name := p.cur.Pos, p.cur.Literal
		p.next()
		return &ast.Identifier{Base: ast.At(pos), Name: name}, false, nil
	}
}

// parseMethodBody parses the `(params) { body }` tail of a method,
// getter/setter, or object/class method shorthand into a FunctionExpression.
func (p *Parser) parseMethodBody(generator, async bool) (ast.Expression, error) {
	pos := p.cur.Pos
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpression{Base: ast.At(pos), Params: params, Body: body, Generator: generator, Async: async}, nil
}

func (p *Parser) parseFunctionExpression(async bool) (ast.Expression, error) {
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
	name := ""
	if p.cur.Type == token.Ident {
		name = p.cur.Literal
		p.next()
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpression{
		Base: ast.At(pos), Name: name, Params: params, Body: body, Generator: generator, Async: async,
	}, nil
}
