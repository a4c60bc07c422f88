package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
	"gitlab.com/tozd/go/errors"
)

var (
	// LexerRules lists the lexical rules in priority order. Rule names are
	// the Kind names so the participle token types map back onto kinds.
	LexerRules = []lexer.SimpleRule{
		{Name: "BlockComment", Pattern: `/\*[\s\S]*?\*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Newline", Pattern: `\r?\n`},
		{Name: "Whitespace", Pattern: `[ \t\r\f]+`},
		{Name: "StringLiteral", Pattern: `"(?:\\.|[^"\\\n])*"`},
		{Name: "IntLiteral", Pattern: `[0-9]+`},
		{Name: "NotIn", Pattern: `!in\b`},
		{Name: "NotIs", Pattern: `!is\b`},
		{Name: "SafeAs", Pattern: `as\?`},
		{Name: "Identifier", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "RangeEq", Pattern: `\.\.=`},
		{Name: "Range", Pattern: `\.\.`},
		{Name: "SafeDot", Pattern: `\?\.`},
		{Name: "Elvis", Pattern: `\?:`},
		{Name: "UnsafeCast", Pattern: `!!`},
		{Name: "NotEq", Pattern: `!=`},
		{Name: "EqEq", Pattern: `==`},
		{Name: "GreaterEq", Pattern: `>=`},
		{Name: "LessEq", Pattern: `<=`},
		{Name: "AndAnd", Pattern: `&&`},
		{Name: "OrOr", Pattern: `\|\|`},
		{Name: "Arrow", Pattern: `->`},
		{Name: "Reference", Pattern: `::`},
		{Name: "Colon", Pattern: `:`},
		{Name: "Dot", Pattern: `\.`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Semicolon", Pattern: `;`},
		{Name: "LeftBrace", Pattern: `\{`},
		{Name: "RightBrace", Pattern: `\}`},
		{Name: "LeftParen", Pattern: `\(`},
		{Name: "RightParen", Pattern: `\)`},
		{Name: "LeftSquare", Pattern: `\[`},
		{Name: "RightSquare", Pattern: `\]`},
		{Name: "LeftAngle", Pattern: `<`},
		{Name: "RightAngle", Pattern: `>`},
		{Name: "Eq", Pattern: `=`},
		{Name: "Plus", Pattern: `\+`},
		{Name: "Minus", Pattern: `-`},
		{Name: "Multiply", Pattern: `\*`},
		{Name: "Divide", Pattern: `/`},
		{Name: "Modulo", Pattern: `%`},
		{Name: "And", Pattern: `&`},
		{Name: "Or", Pattern: `\|`},
		{Name: "Not", Pattern: `!`},
		{Name: "Nullable", Pattern: `\?`},
		// anything else is a recognition error, one character at a time
		{Name: "Error", Pattern: `[\s\S]`},
	}

	// YurinLexer is the participle lexer definition for Yurin source.
	YurinLexer = lexer.MustSimple(LexerRules)

	symbolKinds = func() map[lexer.TokenType]Kind {
		out := make(map[lexer.TokenType]Kind, len(LexerRules))
		syms := YurinLexer.Symbols()
		for _, k := range Kinds() {
			if t, ok := syms[k.String()]; ok {
				out[t] = k
			}
		}
		return out
	}()
)

// Lex splits source into tokens, trivia included. The result always ends
// with a zero-width KindEOF token at len(source). Characters that no rule
// recognises become KindError tokens; they are not reported here, the
// parser reports them to its listeners.
func Lex(source string) ([]Token, error) {
	lex, err := YurinLexer.LexString("", source)
	if err != nil {
		return nil, errors.Errorf("creating lexer: %w", err)
	}

	tokens := make([]Token, 0, len(source)/3+1)
	line, lineStart := 1, 0

	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, errors.Errorf("lexing line %d: %w", line, err)
		}
		if tok.EOF() {
			break
		}

		kind, ok := symbolKinds[tok.Type]
		if !ok {
			return nil, errors.Errorf("lexer produced unknown token type %d for %q", tok.Type, tok.Value)
		}
		if kind == KindIdentifier {
			if kw, ok := keywords[tok.Value]; ok {
				kind = kw
			}
		}

		start := tok.Pos.Offset
		tokens = append(tokens, Token{
			Kind:   kind,
			Text:   tok.Value,
			Start:  start,
			End:    start + len(tok.Value),
			Line:   line,
			Column: start - lineStart,
		})

		for i := 0; i < len(tok.Value); i++ {
			if tok.Value[i] == '\n' {
				line++
				lineStart = start + i + 1
			}
		}
	}

	tokens = append(tokens, Token{
		Kind:   KindEOF,
		Start:  len(source),
		End:    len(source),
		Line:   line,
		Column: len(source) - lineStart,
	})

	return tokens, nil
}
