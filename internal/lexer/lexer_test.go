package lexer

import (
	"testing"

	"github.com/ssrlive/ecmacore/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src, "<test>")
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "let x = foo;")
	want := []token.Type{token.Let, token.Ident, token.Assign, token.Ident, token.Semicolon, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestScanNumbers(t *testing.T) {
	toks := scanAll(t, "42 3.14 0x1F")
	for i, lit := range []string{"42", "3.14", "0x1F"} {
		if toks[i].Type != token.Number {
			t.Fatalf("token %d: got type %v, want Number", i, toks[i].Type)
		}
		if toks[i].Literal != lit {
			t.Errorf("token %d: got literal %q, want %q", i, toks[i].Literal, lit)
		}
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks := scanAll(t, `"hello" 'world'`)
	if toks[0].Type != token.String || toks[1].Type != token.String {
		t.Fatalf("expected two String tokens, got %v, %v", toks[0].Type, toks[1].Type)
	}
}

func TestRegexVsDivisionDisambiguation(t *testing.T) {
	// After an identifier, '/' starts division.
	toks := scanAll(t, "a / b")
	if toks[1].Type != token.Slash {
		t.Errorf("expected Slash after identifier, got %v", toks[1].Type)
	}

	// After '(', '/' starts a regex literal.
	toks = scanAll(t, "(/ab+c/)")
	if toks[1].Type != token.Regex {
		t.Errorf("expected Regex after '(', got %v", toks[1].Type)
	}
}

func TestSkipsCommentsAndWhitespace(t *testing.T) {
	toks := scanAll(t, "// line comment\n/* block */ let   x;")
	want := []token.Type{token.Let, token.Ident, token.Semicolon, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
}

func TestNewlineBeforeTracksASI(t *testing.T) {
	toks := scanAll(t, "a\nb")
	if toks[0].NewlineBefore {
		t.Error("first token should not report a preceding newline")
	}
	if !toks[1].NewlineBefore {
		t.Error("second token should report a preceding newline")
	}
}

func TestIllegalCharacterReturnsError(t *testing.T) {
	l := New("#", "<test>")
	if _, err := l.Next(); err == nil {
		t.Error("expected an error scanning a lone '#'")
	}
}
