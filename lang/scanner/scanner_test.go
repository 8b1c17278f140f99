package scanner

import (
	"testing"

	"github.com/jonkgrimes/rlox/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []Tok {
	t.Helper()
	f := &token.File{Name: "test"}
	s := New(f, src)
	var toks []Tok
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	require.NoError(t, s.Errors().Err())
	return toks
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, "(){},.-+;*/ ! != = == < <= > >=")
	want := []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.COMMA,
		token.DOT, token.MINUS, token.PLUS, token.SEMI, token.STAR, token.SLASH,
		token.BANG, token.BANG_EQ, token.EQ, token.EQ_EQ, token.LT, token.LT_EQ,
		token.GT, token.GT_EQ, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "var x = 1; fun foo(n) { if (n) print n; else while (true) nil; }")
	kinds := make([]token.Token, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Contains(t, kinds, token.VAR)
	assert.Contains(t, kinds, token.FUN)
	assert.Contains(t, kinds, token.IF)
	assert.Contains(t, kinds, token.PRINT)
	assert.Contains(t, kinds, token.ELSE)
	assert.Contains(t, kinds, token.WHILE)
	assert.Contains(t, kinds, token.TRUE)
	assert.Contains(t, kinds, token.NIL)
	assert.Contains(t, kinds, token.IDENT)
}

func TestScanNumbersAndStrings(t *testing.T) {
	toks := scanAll(t, `123 4.5 "hello world"`)
	require.Len(t, toks, 4)
	assert.Equal(t, token.NUMBER, toks[0].Kind)
	assert.Equal(t, "123", toks[0].Lexeme)
	assert.Equal(t, token.NUMBER, toks[1].Kind)
	assert.Equal(t, "4.5", toks[1].Lexeme)
	assert.Equal(t, token.STRING, toks[2].Kind)
	assert.Equal(t, "hello world", toks[2].Lexeme)
}

func TestScanLineCounting(t *testing.T) {
	toks := scanAll(t, "var a = 1;\nvar b = 2;\n")
	var secondVarLine int
	seen := 0
	for _, tk := range toks {
		if tk.Kind == token.VAR {
			seen++
			if seen == 2 {
				secondVarLine = tk.Pos.Line()
			}
		}
	}
	assert.Equal(t, 2, secondVarLine)
}

func TestScanCommentsAreSkipped(t *testing.T) {
	toks := scanAll(t, "// a comment\nvar x = 1; // trailing\n")
	assert.Equal(t, token.VAR, toks[0].Kind)
}

func TestScanUnterminatedStringIsError(t *testing.T) {
	f := &token.File{Name: "test"}
	s := New(f, `"abc`)
	tok := s.Scan()
	assert.Equal(t, token.ILLEGAL, tok.Kind)
	assert.Error(t, s.Errors().Err())
}
