package scanner_test

import (
	"testing"

	"github.com/mna/dynac/lang/scanner"
	"github.com/mna/dynac/lang/token"
)

func scanAll(src string) []scanner.Tok {
	var s scanner.Scanner
	s.Init(src)
	var toks []scanner.Tok
	for {
		tok := s.ScanToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []scanner.Tok) []token.Token {
	ks := make([]token.Token, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll("(){};,.+-*/! != = == < <= > >=")
	want := []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.SEMI,
		token.COMMA, token.DOT, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.BANG, token.BANG_EQ, token.EQ, token.EQ_EQ, token.LT, token.LE,
		token.GT, token.GE, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll("var x = fn and orb")
	want := []token.Token{token.VAR, token.IDENT, token.EQ, token.FN, token.AND, token.IDENT, token.EOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[1].Lexeme != "x" {
		t.Errorf("lexeme = %q, want %q", toks[1].Lexeme, "x")
	}
	if toks[5].Lexeme != "orb" {
		t.Errorf("lexeme = %q, want %q", toks[5].Lexeme, "orb")
	}
}

func TestScanNumber(t *testing.T) {
	toks := scanAll("123 4.5 6.")
	if toks[0].Lexeme != "123" || toks[0].Kind != token.NUMBER {
		t.Errorf("got %+v", toks[0])
	}
	if toks[1].Lexeme != "4.5" || toks[1].Kind != token.NUMBER {
		t.Errorf("got %+v", toks[1])
	}
	// "6." has no fractional digit after the dot, so the dot is not consumed.
	if toks[2].Lexeme != "6" || toks[2].Kind != token.NUMBER {
		t.Errorf("got %+v", toks[2])
	}
	if toks[3].Kind != token.DOT {
		t.Errorf("got %+v", toks[3])
	}
}

func TestScanString(t *testing.T) {
	toks := scanAll(`"hello world"`)
	if toks[0].Kind != token.STRING || toks[0].Lexeme != `"hello world"` {
		t.Errorf("got %+v", toks[0])
	}
}

func TestScanMultilineString(t *testing.T) {
	toks := scanAll("\"a\nb\" x")
	if toks[0].Kind != token.STRING {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Line != 2 {
		t.Errorf("line = %d, want 2", toks[1].Line)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(`"unterminated`)
	if toks[0].Kind != token.ILLEGAL {
		t.Errorf("got %+v, want ILLEGAL", toks[0])
	}
}

func TestScanCommentsAndWhitespace(t *testing.T) {
	toks := scanAll("// a comment\nvar x;\n// trailing")
	want := []token.Token{token.VAR, token.IDENT, token.SEMI, token.EOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[0].Line != 2 {
		t.Errorf("line = %d, want 2", toks[0].Line)
	}
}

func TestScanUnexpectedCharacter(t *testing.T) {
	toks := scanAll("@")
	if toks[0].Kind != token.ILLEGAL {
		t.Errorf("got %+v, want ILLEGAL", toks[0])
	}
}
