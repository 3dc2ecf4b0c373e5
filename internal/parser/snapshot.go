package parser

import (
	"github.com/ssrlive/ecmacore/internal/lexer"
	"github.com/ssrlive/ecmacore/internal/token"
)

// snapshot captures enough parser state to backtrack a failed
// speculative parse, used only to resolve the arrow-function-vs-
// parenthesized-expression ambiguity (spec 4.2).
type snapshot struct {
	lex    lexer.Snapshot
	cur    token.Token
	peek   token.Token
	lexErr error
}

func (p *Parser) save() snapshot {
	return snapshot{lex: p.lex.Save(), cur: p.cur, peek: p.peek, lexErr: p.lexErr}
}

func (p *Parser) restore(s snapshot) {
	p.lex.Restore(s.lex)
	p.cur, p.peek, p.lexErr = s.cur, s.peek, s.lexErr
}
