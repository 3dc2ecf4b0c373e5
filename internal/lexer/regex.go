package lexer

import (
	"strings"

	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/token"
)

// scanRegex scans /pattern/flags once regexAllowed has determined a `/`
// begins a regex rather than division (spec 4.1).
func (l *Lexer) scanRegex(pos token.Position, nl bool) (token.Token, error) {
	l.advance() // consume opening /
	var sb strings.Builder
	inClass := false
	for {
		if l.ch == -1 || isLineTerminator(l.ch) {
			return token.Token{}, l.fail(pos, "Unterminated regular expression literal")
		}
		if l.ch == '\\' {
			sb.WriteRune(l.ch)
			l.advance()
			sb.WriteRune(l.ch)
			l.advance()
			continue
		}
		if l.ch == '[' {
			inClass = true
		} else if l.ch == ']' {
			inClass = false
		} else if l.ch == '/' && !inClass {
			l.advance()
			break
		}
		sb.WriteRune(l.ch)
		l.advance()
	}
	var flags strings.Builder
	for isIDPart(l.ch) {
		flags.WriteRune(l.ch)
		l.advance()
	}
	return l.emit(token.Regex, sb.String()+"\x00"+flags.String(), pos, nl), nil
}
