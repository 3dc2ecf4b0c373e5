package lexer

import "github.com/ssrlive/ecmacore/internal/token"

// scanPunctuator scans operators and punctuation, preferring the
// longest match (e.g. `>>>=` over `>>=` over `>>` over `>`).
func (l *Lexer) scanPunctuator(pos token.Position, nl bool) (token.Token, error) {
	ch := l.ch
	l.advance()

	two := func(next rune) bool {
		if l.ch == next {
			l.advance()
			return true
		}
		return false
	}

	switch ch {
	case '(':
		return l.emit(token.LParen, "(", pos, nl), nil
	case ')':
		return l.emit(token.RParen, ")", pos, nl), nil
	case '{':
		l.braceDepth++
		return l.emit(token.LBrace, "{", pos, nl), nil
	case '}':
		l.braceDepth--
		return l.emit(token.RBrace, "}", pos, nl), nil
	case '[':
		return l.emit(token.LBracket, "[", pos, nl), nil
	case ']':
		return l.emit(token.RBracket, "]", pos, nl), nil
	case ';':
		return l.emit(token.Semicolon, ";", pos, nl), nil
	case ',':
		return l.emit(token.Comma, ",", pos, nl), nil
	case ':':
		return l.emit(token.Colon, ":", pos, nl), nil
	case '~':
		return l.emit(token.Tilde, "~", pos, nl), nil
	case '.':
		if l.ch == '.' && l.peekByte() == '.' {
			l.advance()
			l.advance()
			return l.emit(token.DotDotDot, "...", pos, nl), nil
		}
		return l.emit(token.Dot, ".", pos, nl), nil
	case '?':
		if l.ch == '.' {
			l.advance()
			return l.emit(token.QuestionDot, "?.", pos, nl), nil
		}
		if l.ch == '?' {
			l.advance()
			if two('=') {
				return l.emit(token.QQAssign, "??=", pos, nl), nil
			}
			return l.emit(token.QuestionQuestion, "??", pos, nl), nil
		}
		return l.emit(token.QuestionMark, "?", pos, nl), nil
	case '=':
		if l.ch == '=' {
			l.advance()
			if two('=') {
				return l.emit(token.StrictEq, "===", pos, nl), nil
			}
			return l.emit(token.Eq, "==", pos, nl), nil
		}
		if l.ch == '>' {
			l.advance()
			return l.emit(token.Arrow, "=>", pos, nl), nil
		}
		return l.emit(token.Assign, "=", pos, nl), nil
	case '!':
		if l.ch == '=' {
			l.advance()
			if two('=') {
				return l.emit(token.StrictNotEq, "!==", pos, nl), nil
			}
			return l.emit(token.NotEq, "!=", pos, nl), nil
		}
		return l.emit(token.Bang, "!", pos, nl), nil
	case '+':
		if two('+') {
			return l.emit(token.Increment, "++", pos, nl), nil
		}
		if two('=') {
			return l.emit(token.PlusAssign, "+=", pos, nl), nil
		}
		return l.emit(token.Plus, "+", pos, nl), nil
	case '-':
		if two('-') {
			return l.emit(token.Decrement, "--", pos, nl), nil
		}
		if two('=') {
			return l.emit(token.MinusAssign, "-=", pos, nl), nil
		}
		return l.emit(token.Minus, "-", pos, nl), nil
	case '*':
		if l.ch == '*' {
			l.advance()
			if two('=') {
				return l.emit(token.StarStarAssign, "**=", pos, nl), nil
			}
			return l.emit(token.StarStar, "**", pos, nl), nil
		}
		if two('=') {
			return l.emit(token.StarAssign, "*=", pos, nl), nil
		}
		return l.emit(token.Star, "*", pos, nl), nil
	case '/':
		if two('=') {
			return l.emit(token.SlashAssign, "/=", pos, nl), nil
		}
		return l.emit(token.Slash, "/", pos, nl), nil
	case '%':
		if two('=') {
			return l.emit(token.PercentAssign, "%=", pos, nl), nil
		}
		return l.emit(token.Percent, "%", pos, nl), nil
	case '<':
		if l.ch == '<' {
			l.advance()
			if two('=') {
				return l.emit(token.ShlAssign, "<<=", pos, nl), nil
			}
			return l.emit(token.Shl, "<<", pos, nl), nil
		}
		if two('=') {
			return l.emit(token.LtEq, "<=", pos, nl), nil
		}
		return l.emit(token.Lt, "<", pos, nl), nil
	case '>':
		if l.ch == '>' {
			l.advance()
			if l.ch == '>' {
				l.advance()
				if two('=') {
					return l.emit(token.UShrAssign, ">>>=", pos, nl), nil
				}
				return l.emit(token.UShr, ">>>", pos, nl), nil
			}
			if two('=') {
				return l.emit(token.ShrAssign, ">>=", pos, nl), nil
			}
			return l.emit(token.Shr, ">>", pos, nl), nil
		}
		if two('=') {
			return l.emit(token.GtEq, ">=", pos, nl), nil
		}
		return l.emit(token.Gt, ">", pos, nl), nil
	case '&':
		if l.ch == '&' {
			l.advance()
			if two('=') {
				return l.emit(token.AndAssign, "&&=", pos, nl), nil
			}
			return l.emit(token.And, "&&", pos, nl), nil
		}
		if two('=') {
			return l.emit(token.AmpAssign, "&=", pos, nl), nil
		}
		return l.emit(token.Amp, "&", pos, nl), nil
	case '|':
		if l.ch == '|' {
			l.advance()
			if two('=') {
				return l.emit(token.OrAssign, "||=", pos, nl), nil
			}
			return l.emit(token.Or, "||", pos, nl), nil
		}
		if two('=') {
			return l.emit(token.PipeAssign, "|=", pos, nl), nil
		}
		return l.emit(token.Pipe, "|", pos, nl), nil
	case '^':
		if two('=') {
			return l.emit(token.CaretAssign, "^=", pos, nl), nil
		}
		return l.emit(token.Caret, "^", pos, nl), nil
	}

	return token.Token{}, l.fail(pos, "Unexpected character '%c'", ch)
}
