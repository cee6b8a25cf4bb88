package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydah/parselly/lexer"
	"github.com/ydah/parselly/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lexer.New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestLexer_Punctuation(t *testing.T) {
	var tests = []struct {
		s   string
		tok token.Token
	}{
		{s: `>`, tok: token.Token{Kind: token.CHILD, Lexeme: ">"}},
		{s: `+`, tok: token.Token{Kind: token.ADJACENT, Lexeme: "+"}},
		{s: `~`, tok: token.Token{Kind: token.SIBLING, Lexeme: "~"}},
		{s: `~=`, tok: token.Token{Kind: token.INCLUDES, Lexeme: "~="}},
		{s: `|=`, tok: token.Token{Kind: token.DASHMATCH, Lexeme: "|="}},
		{s: `^=`, tok: token.Token{Kind: token.PREFIXMATCH, Lexeme: "^="}},
		{s: `$=`, tok: token.Token{Kind: token.SUFFIXMATCH, Lexeme: "$="}},
		{s: `*=`, tok: token.Token{Kind: token.SUBSTRINGMATCH, Lexeme: "*="}},
		{s: `*`, tok: token.Token{Kind: token.STAR, Lexeme: "*"}},
		{s: `[`, tok: token.Token{Kind: token.LBRACKET, Lexeme: "["}},
		{s: `]`, tok: token.Token{Kind: token.RBRACKET, Lexeme: "]"}},
		{s: `(`, tok: token.Token{Kind: token.LPAREN, Lexeme: "("}},
		{s: `)`, tok: token.Token{Kind: token.RPAREN, Lexeme: ")"}},
		{s: `:`, tok: token.Token{Kind: token.COLON, Lexeme: ":"}},
		{s: `,`, tok: token.Token{Kind: token.COMMA, Lexeme: ","}},
		{s: `.`, tok: token.Token{Kind: token.DOT, Lexeme: "."}},
		{s: `#`, tok: token.Token{Kind: token.HASH, Lexeme: "#"}},
		{s: `=`, tok: token.Token{Kind: token.EQUAL, Lexeme: "="}},
	}
	for _, tt := range tests {
		toks := scanAll(t, tt.s)
		require.Len(t, toks, 2)
		assert.Equal(t, tt.tok.Kind, toks[0].Kind, tt.s)
		assert.Equal(t, tt.tok.Lexeme, toks[0].Lexeme, tt.s)
		assert.Equal(t, token.EOF, toks[1].Kind, tt.s)
	}
}

func TestLexer_Ident(t *testing.T) {
	var tests = []struct {
		s   string
		lex string
	}{
		{s: `div`, lex: `div`},
		{s: `foo-bar`, lex: `foo-bar`},
		{s: `-moz-foo`, lex: `-moz-foo`},
		{s: `--custom-prop`, lex: `--custom-prop`},
		{s: `_private`, lex: `_private`},
		{s: `hover\:bg-blue-500`, lex: `hover:bg-blue-500`},
	}
	for _, tt := range tests {
		toks := scanAll(t, tt.s)
		require.Len(t, toks, 2)
		assert.Equal(t, token.IDENT, toks[0].Kind, tt.s)
		assert.Equal(t, tt.lex, toks[0].Lexeme, tt.s)
	}
}

func TestLexer_HyphenIsNotASignedNumber(t *testing.T) {
	toks := scanAll(t, `-2`)
	require.Len(t, toks, 3)
	assert.Equal(t, token.MINUS, toks[0].Kind)
	assert.Equal(t, token.NUMBER, toks[1].Kind)
	assert.Equal(t, "2", toks[1].Lexeme)
}

func TestLexer_AnPlusBFusesIntoOneIdent(t *testing.T) {
	toks := scanAll(t, `n-2`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.IDENT, toks[0].Kind)
	assert.Equal(t, "n-2", toks[0].Lexeme)
}

func TestLexer_Number(t *testing.T) {
	var tests = []struct {
		s   string
		lex string
	}{
		{s: `2`, lex: `2`},
		{s: `2.5`, lex: `2.5`},
		{s: `100`, lex: `100`},
	}
	for _, tt := range tests {
		toks := scanAll(t, tt.s)
		require.Len(t, toks, 2)
		assert.Equal(t, token.NUMBER, toks[0].Kind, tt.s)
		assert.Equal(t, tt.lex, toks[0].Lexeme, tt.s)
	}
}

func TestLexer_String(t *testing.T) {
	var tests = []struct {
		s   string
		lex string
	}{
		{s: `"text"`, lex: `text`},
		{s: `'text'`, lex: `text`},
		{s: `""`, lex: ``},
		{s: `"a\"b"`, lex: `a\"b`}, // escapes are preserved, not unescaped
	}
	for _, tt := range tests {
		toks := scanAll(t, tt.s)
		require.Len(t, toks, 2)
		assert.Equal(t, token.STRING, toks[0].Kind, tt.s)
		assert.Equal(t, tt.lex, toks[0].Lexeme, tt.s)
	}
}

func TestLexer_UnterminatedStringIsALexError(t *testing.T) {
	l := lexer.New(`"unterminated`)
	_, err := l.Next()
	require.Error(t, err)
	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
}

func TestLexer_UnknownCharacterIsALexError(t *testing.T) {
	l := lexer.New(`@`)
	_, err := l.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1:1")
}

func TestLexer_Whitespace(t *testing.T) {
	toks := scanAll(t, "div\n  > p")
	require.Len(t, toks, 4)
	assert.Equal(t, token.IDENT, toks[0].Kind)
	assert.Equal(t, token.Pos{Line: 1, Column: 1}, toks[0].Pos)
	assert.Equal(t, token.CHILD, toks[1].Kind)
	assert.Equal(t, token.Pos{Line: 2, Column: 3}, toks[1].Pos)
	assert.Equal(t, token.IDENT, toks[2].Kind)
}

func TestLexer_Position(t *testing.T) {
	toks := scanAll(t, `div.foo`)
	assert.Equal(t, token.Pos{Line: 1, Column: 1}, toks[0].Pos)
	assert.Equal(t, token.Pos{Line: 1, Column: 4}, toks[1].Pos)
	assert.Equal(t, token.Pos{Line: 1, Column: 5}, toks[2].Pos)
}
