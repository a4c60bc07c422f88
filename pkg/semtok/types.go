/*
Token Types and Modifiers:
------------------------
This file defines the LSP token legend and how highlight categories map
onto it.

	+-------------------+     +-------------+     +-----------+
	| style.Category    | --> | TokenType   | --> | Legend    |
	+-------------------+     +-------------+     +-----------+
	 keyword                   keyword             index into
	 data-declaration          class               tokenTypes
	 function-declaration      function + declaration
	 colon, dot, arrow ...     operator

Categories with no LSP counterpart (error) are left to diagnostics.
*/
package semtok

import (
	"github.com/walteh/yurinview/pkg/style"
)

// TokenType is an index into Legend.TokenTypes.
type TokenType = uint32

const (
	TokenTypeKeyword TokenType = iota
	TokenTypeString
	TokenTypeNumber
	TokenTypeComment
	TokenTypeOperator
	TokenTypeClass
	TokenTypeInterface
	TokenTypeType
	TokenTypeFunction
	TokenTypeProperty
	TokenTypeParameter
	TokenTypeTypeParameter
)

// TokenModifier is a bit index into Legend.TokenModifiers.
type TokenModifier = uint32

const (
	ModifierDeclaration TokenModifier = iota
)

// Legend is the semantic token legend a server announces to its client.
type Legend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

// DefaultLegend returns the legend matching the TokenType and TokenModifier
// constants.
func DefaultLegend() Legend {
	return Legend{
		TokenTypes: []string{
			"keyword",
			"string",
			"number",
			"comment",
			"operator",
			"class",
			"interface",
			"type",
			"function",
			"property",
			"parameter",
			"typeParameter",
		},
		TokenModifiers: []string{
			"declaration",
		},
	}
}

type mapping struct {
	typ       TokenType
	modifiers []TokenModifier
}

var categoryTypes = map[style.Category]mapping{
	style.CategoryKeyword:             {typ: TokenTypeKeyword},
	style.CategoryStringLiteral:       {typ: TokenTypeString},
	style.CategoryNumberLiteral:       {typ: TokenTypeNumber},
	style.CategoryLineComment:         {typ: TokenTypeComment},
	style.CategoryBlockComment:        {typ: TokenTypeComment},
	style.CategoryColon:               {typ: TokenTypeOperator},
	style.CategoryDot:                 {typ: TokenTypeOperator},
	style.CategorySafeDot:             {typ: TokenTypeOperator},
	style.CategoryComma:               {typ: TokenTypeOperator},
	style.CategoryBracket:             {typ: TokenTypeOperator},
	style.CategoryParen:               {typ: TokenTypeOperator},
	style.CategorySquare:              {typ: TokenTypeOperator},
	style.CategoryOperator:            {typ: TokenTypeOperator},
	style.CategoryArrow:               {typ: TokenTypeOperator},
	style.CategoryNullableMarker:      {typ: TokenTypeOperator},
	style.CategoryUnsafeCast:          {typ: TokenTypeOperator},
	style.CategoryReference:           {typ: TokenTypeOperator},
	style.CategoryDataDeclaration:     {typ: TokenTypeClass},
	style.CategoryTraitDeclaration:    {typ: TokenTypeInterface},
	style.CategoryEffectDeclaration:   {typ: TokenTypeType},
	style.CategoryFunctionDeclaration: {typ: TokenTypeFunction, modifiers: []TokenModifier{ModifierDeclaration}},
	style.CategoryFunctionCall:        {typ: TokenTypeFunction},
	style.CategoryPropertyDeclaration: {typ: TokenTypeProperty},
	style.CategoryNamedValueArgument:  {typ: TokenTypeParameter},
	style.CategoryTypeParameter:       {typ: TokenTypeTypeParameter},
	style.CategoryParameter:           {typ: TokenTypeParameter},
}

// TypeOf returns the token type and modifiers a category is reported as.
func TypeOf(c style.Category) (TokenType, []TokenModifier, bool) {
	m, ok := categoryTypes[c]
	return m.typ, m.modifiers, ok
}

// Token represents a semantic token with its position and modifiers. Line
// is 0-based; Start and Length count UTF-16 code units.
type Token struct {
	Type      TokenType
	Modifiers []TokenModifier
	Line      uint32
	Start     uint32
	Length    uint32
}

// SemanticTokens is the LSP wire form of a token list.
type SemanticTokens struct {
	Data []uint32 `json:"data"`
}
