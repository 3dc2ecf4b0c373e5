package parser

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/token"
)

func (p *Parser) parseClassDeclaration() (ast.Statement, error) {
	pos := p.cur.Pos
	p.next() // consume 'class'
	name := ""
	if p.cur.Type == token.Ident {
		name = p.cur.Literal
		p.next()
	}
	super, body, err := p.parseClassTail()
	if err != nil {
		return nil, err
	}
	return &ast.ClassDeclaration{Base: ast.At(pos), Name: name, SuperClass: super, Body: body}, nil
}

func (p *Parser) parseClassExpression() (ast.Expression, error) {
	pos := p.cur.Pos
	p.next() // consume 'class'
	name := ""
	if p.cur.Type == token.Ident {
		name = p.cur.Literal
		p.next()
	}
	super, body, err := p.parseClassTail()
	if err != nil {
		return nil, err
	}
	return &ast.ClassExpression{Base: ast.At(pos), Name: name, SuperClass: super, Body: body}, nil
}

func (p *Parser) parseClassTail() (ast.Expression, ast.ClassBody, error) {
	var super ast.Expression
	if p.cur.Type == token.Extends {
		p.next()
		s, err := p.parseCallOrMember()
		if err != nil {
			return nil, ast.ClassBody{}, err
		}
		super = s
	}
	body, err := p.parseClassBody()
	if err != nil {
		return nil, ast.ClassBody{}, err
	}
	return super, body, nil
}

func (p *Parser) parseClassBody() (ast.ClassBody, error) {
	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return ast.ClassBody{}, err
	}
	var members []ast.ClassMember
	for p.cur.Type != token.RBrace {
		if p.cur.Type == token.Semicolon {
			p.next()
			continue
		}
		member, err := p.parseClassMember()
		if err != nil {
			return ast.ClassBody{}, err
		}
		members = append(members, member)
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return ast.ClassBody{}, err
	}
	return ast.ClassBody{Members: members}, nil
}

// isModifierBoundary reports whether the token following a contextual
// keyword (static/async/get/set) indicates that keyword was really the
// member name, not a modifier.
func isModifierBoundary(t token.Type) bool {
	switch t {
	case token.LParen, token.Assign, token.Semicolon, token.RBrace:
		return true
	default:
		return false
	}
}

func (p *Parser) parseClassMember() (ast.ClassMember, error) {
	static := false
	if p.cur.Type == token.Static && !isModifierBoundary(p.peek.Type) {
		static = true
		p.next()
	}

	async, generator := false, false
	if p.cur.Type == token.Async && !isModifierBoundary(p.peek.Type) && !p.peek.NewlineBefore {
		async = true
		p.next()
	}
	if p.cur.Type == token.Star {
		generator = true
		p.next()
	}

	kind := ast.MethodNormal
	if (p.cur.Type == token.Get || p.cur.Type == token.Set) && !isModifierBoundary(p.peek.Type) {
		if p.cur.Type == token.Get {
			kind = ast.MethodGet
		} else {
			kind = ast.MethodSet
		}
		p.next()
	}

	isPrivate := false
	var key ast.Expression
	var computed bool
	var err error
	if p.cur.Type == token.PrivateName {
		isPrivate = true
		key = &ast.Identifier{Base: ast.At(p.cur.Pos), Name: p.cur.Literal}
		p.next()
	} else {
		key, computed, err = p.parsePropertyKey()
		if err != nil {
			return ast.ClassMember{}, err
		}
	}

	if p.cur.Type == token.LParen {
		if !static && kind == ast.MethodNormal && !generator && !async {
			if ident, ok := key.(*ast.Identifier); ok && ident.Name == "constructor" {
				kind = ast.MethodConstructor
			}
		}
		fn, err := p.parseMethodBody(generator, async)
		if err != nil {
			return ast.ClassMember{}, err
		}
		return ast.ClassMember{
			Key: key, Computed: computed, Static: static, IsPrivate: isPrivate,
			Kind: kind, Value: fn, Generator: generator, Async: async,
		}, nil
	}

	var val ast.Expression
	if p.cur.Type == token.Assign {
		p.next()
		val, err = p.parseAssignment()
		if err != nil {
			return ast.ClassMember{}, err
		}
	}
	if err := p.consumeSemicolon(); err != nil {
		return ast.ClassMember{}, err
	}
	return ast.ClassMember{
		Key: key, Computed: computed, Static: static, IsPrivate: isPrivate, IsField: true, Value: val,
	}, nil
}
