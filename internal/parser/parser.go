// Package parser implements a recursive-descent, operator-precedence
// parser that turns a internal/lexer token stream into an internal/ast
// tree (spec 4.2).
package parser

import (
	"fmt"

	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/lexer"
	"github.com/ssrlive/ecmacore/internal/token"
)

// Parser consumes tokens from a Lexer and builds an AST. It keeps a
// two-token lookahead window (cur, peek) which is enough for this
// grammar's conflicts (arrow-function vs parenthesized expression is
// resolved by backtracking, see arrow.go).
type Parser struct {
	lex  *lexer.Lexer
	src  string
	file string

	cur  token.Token
	peek token.Token

	inFunction bool
	inLoop     int
	inSwitch   int
	labels     []string

	// noIn suppresses the `in` relational operator while parsing a
	// for-statement head, where `in` instead introduces a for-in loop
	// (spec 4.3, "for-in and for-of").
	noIn bool

	// lexErr captures a lexical error discovered while buffering
	// lookahead so it surfaces once the parser actually reaches it.
	lexErr error
}

func New(src, file string) *Parser {
	p := &Parser{lex: lexer.New(src, file), src: src, file: file}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	tok, err := p.lex.Next()
	if err != nil {
		// Surface lexer errors lazily at the point they're consumed so
		// the parser's own position context still applies.
		p.lexErr = err
	}
	p.peek = tok
}

func (p *Parser) fail(pos token.Position, format string, args ...any) error {
	return &errors.ParseError{CompilerError: errors.NewCompilerError(pos, fmt.Sprintf(format, args...), p.src, p.file)}
}

// ParseProgram parses the entire token stream into a Program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	prog := &ast.Program{}
	for p.cur.Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, stmt)
		if p.lexErr != nil {
			return nil, p.lexErr
		}
	}
	return prog, nil
}

func (p *Parser) expect(t token.Type, what string) (token.Token, error) {
	if p.cur.Type != t {
		return token.Token{}, p.fail(p.cur.Pos, "Expected %s, got %q", what, p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

func (p *Parser) at(t token.Type) bool { return p.cur.Type == t }

// consumeSemicolon applies ASI: an explicit `;`, a `}` (end of block), a
// LineTerminator before the next token, or end-of-input all terminate a
// statement (spec 4.2, "ASI").
func (p *Parser) consumeSemicolon() error {
	if p.cur.Type == token.Semicolon {
		p.next()
		return nil
	}
	if p.cur.Type == token.RBrace || p.cur.Type == token.EOF || p.cur.NewlineBefore {
		return nil
	}
	return p.fail(p.cur.Pos, "Expected semicolon, got %q", p.cur.Literal)
}
