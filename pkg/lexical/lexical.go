// Package lexical classifies the flat token stream into highlight spans.
//
// Classification is a pure function of a token: the kind picks a category
// through a static table and the active theme turns the category into a
// style. Identifiers carry no lexical style; later passes style them.
package lexical

import (
	"iter"
	"strings"
	"unicode"

	"github.com/walteh/yurinview/pkg/grammar"
	"github.com/walteh/yurinview/pkg/style"
)

var table = map[grammar.Kind]style.Category{
	grammar.KindLineComment:   style.CategoryLineComment,
	grammar.KindBlockComment:  style.CategoryBlockComment,
	grammar.KindStringLiteral: style.CategoryStringLiteral,
	grammar.KindIntLiteral:    style.CategoryNumberLiteral,

	grammar.KindColon:       style.CategoryColon,
	grammar.KindDot:         style.CategoryDot,
	grammar.KindSafeDot:     style.CategorySafeDot,
	grammar.KindComma:       style.CategoryComma,
	grammar.KindLeftBrace:   style.CategoryBracket,
	grammar.KindRightBrace:  style.CategoryBracket,
	grammar.KindLeftParen:   style.CategoryParen,
	grammar.KindRightParen:  style.CategoryParen,
	grammar.KindLeftSquare:  style.CategorySquare,
	grammar.KindRightSquare: style.CategorySquare,

	grammar.KindLeftAngle:  style.CategoryOperator,
	grammar.KindRightAngle: style.CategoryOperator,
	grammar.KindEq:         style.CategoryOperator,
	grammar.KindNotEq:      style.CategoryOperator,
	grammar.KindEqEq:       style.CategoryOperator,
	grammar.KindGreaterEq:  style.CategoryOperator,
	grammar.KindLessEq:     style.CategoryOperator,
	grammar.KindPlus:       style.CategoryOperator,
	grammar.KindMinus:      style.CategoryOperator,
	grammar.KindMultiply:   style.CategoryOperator,
	grammar.KindDivide:     style.CategoryOperator,
	grammar.KindModulo:     style.CategoryOperator,
	grammar.KindAnd:        style.CategoryOperator,
	grammar.KindOr:         style.CategoryOperator,
	grammar.KindAndAnd:     style.CategoryOperator,
	grammar.KindOrOr:       style.CategoryOperator,
	grammar.KindNot:        style.CategoryOperator,
	grammar.KindElvis:      style.CategoryOperator,
	grammar.KindRange:      style.CategoryOperator,
	grammar.KindRangeEq:    style.CategoryOperator,

	grammar.KindArrow:      style.CategoryArrow,
	grammar.KindNullable:   style.CategoryNullableMarker,
	grammar.KindUnsafeCast: style.CategoryUnsafeCast,
	grammar.KindReference:  style.CategoryReference,
}

// Unstyled lists the significant kinds that deliberately have no lexical
// category.
var Unstyled = map[grammar.Kind]bool{
	grammar.KindIdentifier: true,
	grammar.KindSemicolon:  true,
	grammar.KindError:      true,
}

// CategoryOf returns the lexical category of a token kind. Every keyword is
// a keyword; whitespace, newlines, end of input and the Unstyled kinds have
// none.
func CategoryOf(kind grammar.Kind) (style.Category, bool) {
	if kind.IsKeyword() {
		return style.CategoryKeyword, true
	}
	c, ok := table[kind]
	return c, ok
}

// Classify returns the highlight for a single token. The span is narrowed
// to the token's trimmed text so whitespace inside a token (a comment's
// trailing space, say) is never styled.
func Classify(tok grammar.Token, theme style.Theme) (style.Highlight, bool) {
	switch tok.Kind {
	case grammar.KindEOF, grammar.KindWhitespace, grammar.KindNewline:
		return style.Highlight{}, false
	}

	cat, ok := CategoryOf(tok.Kind)
	if !ok {
		return style.Highlight{}, false
	}

	leading := len(tok.Text) - len(strings.TrimLeftFunc(tok.Text, unicode.IsSpace))
	trailing := len(tok.Text) - len(strings.TrimRightFunc(tok.Text, unicode.IsSpace))

	return theme.Highlight(tok.Start+leading, tok.End-trailing, cat)
}

// Highlights lazily classifies a token stream. The sequence can be ranged
// over any number of times and yields the same spans each time.
func Highlights(tokens []grammar.Token, theme style.Theme) iter.Seq[style.Highlight] {
	return func(yield func(style.Highlight) bool) {
		for _, tok := range tokens {
			h, ok := Classify(tok, theme)
			if !ok {
				continue
			}
			if !yield(h) {
				return
			}
		}
	}
}
