package token

import "testing"

func TestLookupClassifiesKeywords(t *testing.T) {
	tests := []struct {
		ident string
		want  Type
	}{
		{"let", Let},
		{"const", Const},
		{"function", Function},
		{"instanceof", Instanceof},
		{"undefined", Undefined},
		{"foo", Ident},
		{"Let", Ident}, // keywords are case-sensitive
	}
	for _, tt := range tests {
		if got := Lookup(tt.ident); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.ident, got, tt.want)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	if !Var.IsKeyword() {
		t.Error("Var should be a keyword")
	}
	if !Undefined.IsKeyword() {
		t.Error("Undefined should be a keyword")
	}
	if Ident.IsKeyword() {
		t.Error("Ident should not be a keyword")
	}
	if Plus.IsKeyword() {
		t.Error("Plus should not be a keyword")
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Line: 3, Column: 7, Offset: 42}
	if got, want := p.String(), "3:7"; got != want {
		t.Errorf("Position.String() = %q, want %q", got, want)
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Type: Ident, Literal: "x", Pos: Position{Line: 1, Column: 1}}
	got := tok.String()
	if got == "" {
		t.Error("Token.String() returned empty string")
	}
}
