package style

import (
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// Category names the role a span of text plays.
type Category int

const (
	CategoryNone Category = iota

	CategoryKeyword
	CategoryStringLiteral
	CategoryNumberLiteral
	CategoryLineComment
	CategoryBlockComment

	CategoryColon
	CategoryDot
	CategorySafeDot
	CategoryComma
	CategoryBracket
	CategoryParen
	CategorySquare
	CategoryOperator
	CategoryArrow
	CategoryNullableMarker
	CategoryUnsafeCast
	CategoryReference

	CategoryDataDeclaration
	CategoryTraitDeclaration
	CategoryEffectDeclaration
	CategoryFunctionDeclaration
	CategoryFunctionCall
	CategoryPropertyDeclaration
	CategoryNamedValueArgument
	CategoryTypeParameter
	CategoryParameter

	CategoryError

	categoryCount
)

var categoryNames = [categoryCount]string{
	CategoryNone:                "none",
	CategoryKeyword:             "keyword",
	CategoryStringLiteral:       "string-literal",
	CategoryNumberLiteral:       "number-literal",
	CategoryLineComment:         "line-comment",
	CategoryBlockComment:        "block-comment",
	CategoryColon:               "colon",
	CategoryDot:                 "dot",
	CategorySafeDot:             "safe-dot",
	CategoryComma:               "comma",
	CategoryBracket:             "bracket",
	CategoryParen:               "paren",
	CategorySquare:              "square",
	CategoryOperator:            "operator",
	CategoryArrow:               "arrow",
	CategoryNullableMarker:      "nullable-marker",
	CategoryUnsafeCast:          "unsafe-cast",
	CategoryReference:           "reference",
	CategoryDataDeclaration:     "data-declaration",
	CategoryTraitDeclaration:    "trait-declaration",
	CategoryEffectDeclaration:   "effect-declaration",
	CategoryFunctionDeclaration: "function-declaration",
	CategoryFunctionCall:        "function-call",
	CategoryPropertyDeclaration: "property-declaration",
	CategoryNamedValueArgument:  "named-value-argument",
	CategoryTypeParameter:       "type-parameter",
	CategoryParameter:           "parameter",
	CategoryError:               "error",
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return "unknown"
	}
	return categoryNames[c]
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Categories returns every styleable category.
func Categories() []Category {
	out := make([]Category, 0, categoryCount-1)
	for c := CategoryNone + 1; c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory looks a category up by its String name.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if c.String() == name {
			return c, nil
		}
	}
	return CategoryNone, errors.Errorf("unknown category %q", name)
}

// Theme maps categories to styles. A category missing from the theme has
// the zero style and produces no highlights.
type Theme map[Category]Style

func (t Theme) Style(c Category) Style {
	return t[c]
}

// Highlight styles [start, end) as c. It reports false for an empty range
// or a category the theme leaves unstyled.
func (t Theme) Highlight(start, end int, c Category) (Highlight, bool) {
	if end <= start {
		return Highlight{}, false
	}
	s := t.Style(c)
	if s.IsZero() {
		return Highlight{}, false
	}
	return Highlight{Start: start, End: end, Category: c, Style: s}, true
}

// Clone returns a copy that can be modified independently.
func (t Theme) Clone() Theme {
	out := make(Theme, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

const (
	punctuation = Color(0xFFA6B2C0)
	operator    = Color(0xFF61AFEF)
)

// DefaultTheme returns the One Dark inspired palette the viewer ships with.
func DefaultTheme() Theme {
	return Theme{
		CategoryKeyword:       {Color: 0xFFC679DD, Italic: true},
		CategoryStringLiteral: {Color: 0xFF98C379},
		CategoryNumberLiteral: {Color: 0xFFD19A66},
		CategoryLineComment:   {Color: 0xFF59626F, Italic: true},
		CategoryBlockComment:  {Color: 0xFF59626F, Italic: true},

		CategorySquare:  {Color: punctuation},
		CategoryParen:   {Color: punctuation},
		CategoryBracket: {Color: punctuation},
		CategoryDot:     {Color: punctuation},
		CategoryComma:   {Color: punctuation},
		CategorySafeDot: {Color: punctuation},

		CategoryColon:          {Color: operator},
		CategoryOperator:       {Color: operator},
		CategoryNullableMarker: {Color: operator},
		CategoryReference:      {Color: operator},
		CategoryArrow:          {Color: operator},
		CategoryUnsafeCast:     {Color: operator},

		CategoryDataDeclaration:     {Color: 0xFFE5C17C},
		CategoryTraitDeclaration:    {Color: 0xFF98C379},
		CategoryEffectDeclaration:   {Color: 0xFF4EC9B0},
		CategoryFunctionDeclaration: {Color: 0xFF61AEEF},
		CategoryFunctionCall:        {Color: 0xFF61AEEF},
		CategoryPropertyDeclaration: {Color: 0xFFE06C75},
		CategoryNamedValueArgument:  {Color: 0xFFD19A66},
		CategoryTypeParameter:       {Color: 0xFFE5C17C, Italic: true},
		CategoryParameter:           {Color: 0xFFABB2BF, Italic: true},

		CategoryError: {Underline: 0xFFFF0000},
	}
}
