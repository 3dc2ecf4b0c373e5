package lexer

import (
	"strings"
	"unicode"

	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/token"
)

// scanNumber handles decimal (with exponent), 0x/0o/0b radix forms, and
// a trailing `n` BigInt suffix (spec 4.1, "Numeric literals").
func (l *Lexer) scanNumber(pos token.Position, nl bool) (token.Token, error) {
	var sb strings.Builder
	isBigInt := false
	isFloat := false

	if l.ch == '0' && (l.peekByte() == 'x' || l.peekByte() == 'X') {
		sb.WriteRune(l.ch)
		l.advance()
		sb.WriteRune(l.ch)
		l.advance()
		for isHexDigit(l.ch) || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.advance()
		}
	} else if l.ch == '0' && (l.peekByte() == 'o' || l.peekByte() == 'O') {
		sb.WriteRune(l.ch)
		l.advance()
		sb.WriteRune(l.ch)
		l.advance()
		for (l.ch >= '0' && l.ch <= '7') || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.advance()
		}
	} else if l.ch == '0' && (l.peekByte() == 'b' || l.peekByte() == 'B') {
		sb.WriteRune(l.ch)
		l.advance()
		sb.WriteRune(l.ch)
		l.advance()
		for l.ch == '0' || l.ch == '1' || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.advance()
		}
	} else {
		for unicode.IsDigit(l.ch) || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.advance()
		}
		if l.ch == '.' {
			isFloat = true
			sb.WriteRune(l.ch)
			l.advance()
			for unicode.IsDigit(l.ch) || l.ch == '_' {
				sb.WriteRune(l.ch)
				l.advance()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			isFloat = true
			sb.WriteRune(l.ch)
			l.advance()
			if l.ch == '+' || l.ch == '-' {
				sb.WriteRune(l.ch)
				l.advance()
			}
			for unicode.IsDigit(l.ch) {
				sb.WriteRune(l.ch)
				l.advance()
			}
		}
	}

	if l.ch == 'n' {
		if isFloat {
			return token.Token{}, l.fail(pos, errors.MsgInvalidBigIntSyntax)
		}
		isBigInt = true
		l.advance()
	}

	if isBigInt {
		return l.emit(token.BigIntLiteral, sb.String(), pos, nl), nil
	}
	return l.emit(token.Number, sb.String(), pos, nl), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
