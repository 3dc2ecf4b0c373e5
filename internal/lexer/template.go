package lexer

import (
	"strings"

	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/token"
)

// scanTemplate scans a chunk of a template literal. first is true when
// invoked from the opening backtick; false when resuming after a `}`
// that closed a `${...}` hole. It emits TemplateHead/TemplateString on
// encountering `${`/closing-backtick respectively, or TemplateMiddle/
// TemplateTail when resuming.
func (l *Lexer) scanTemplate(pos token.Position, nl bool, first bool) (token.Token, error) {
	if first {
		l.advance() // consume opening backtick
	}
	var sb strings.Builder
	for {
		if l.ch == -1 {
			return token.Token{}, l.fail(pos, errors.MsgUnterminatedTemplate)
		}
		if l.ch == '`' {
			l.advance()
			if first {
				return l.emit(token.TemplateString, sb.String(), pos, nl), nil
			}
			return l.emit(token.TemplateTail, sb.String(), pos, nl), nil
		}
		if l.ch == '$' && l.peekByte() == '{' {
			l.advance()
			l.advance()
			l.templateDepth = append(l.templateDepth, l.braceDepth)
			if first {
				return l.emit(token.TemplateHead, sb.String(), pos, nl), nil
			}
			return l.emit(token.TemplateMiddle, sb.String(), pos, nl), nil
		}
		if l.ch == '\\' {
			l.advance()
			if err := l.scanEscape(&sb, pos); err != nil {
				return token.Token{}, err
			}
			continue
		}
		sb.WriteRune(l.ch)
		l.advance()
	}
}
