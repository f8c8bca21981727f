package paxel

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer tokenizes PAXEL source using a participle/v2 stateful lexer —
// the same lexing technique used elsewhere in this ecosystem for small
// tag/expression grammars. Only tokenizing is delegated to participle; the
// Pratt climb in parser.go is hand-written so the precedence table stays
// directly auditable rather than inferred from grammar struct tags.
var exprLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Keyword", Pattern: `\b(then|else|true|false)\b`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Number", Pattern: `\d+(\.\d+)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Range", Pattern: `\.\.`},
		{Name: "Op", Pattern: `(&&|\|\||==|!=|<=|>=|::|[+\-*/%^<>=!.])`},
		{Name: "Punct", Pattern: `[(){}\[\],:]`},
	},
})

// Token is a single lexed PAXEL token.
type Token struct {
	Kind  string
	Value string
	Pos   lexer.Position
}

// Tokenize lexes src into a flat token slice, eliding whitespace.
func Tokenize(src string) ([]Token, error) {
	lex, err := exprLexer.LexString("", src)
	if err != nil {
		return nil, &ParseError{Kind: "lex", Span: err.Error()}
	}
	symbols := exprLexer.Symbols()
	names := make(map[rune]string, len(symbols))
	for name, t := range symbols {
		names[t] = name
	}

	var out []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, &ParseError{Kind: "lex", Span: err.Error()}
		}
		if tok.EOF() {
			break
		}
		kind := names[tok.Type]
		if kind == "Whitespace" {
			continue
		}
		out = append(out, Token{Kind: kind, Value: tok.Value, Pos: tok.Pos})
	}
	return out, nil
}
