// Package grammar lexes and parses Yurin source into a token stream and an
// abstract syntax tree.
//
// The parser never gives up on malformed input: syntax errors are reported
// to the registered ErrorListener values and the parser keeps going, so the
// returned tree always covers every declaration it could recover.
package grammar

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	KindEOF Kind = iota
	KindWhitespace
	KindNewline
	KindLineComment
	KindBlockComment
	KindIdentifier
	KindStringLiteral
	KindIntLiteral
	KindError

	// keywords
	KindPackage
	KindImport
	KindData
	KindTrait
	KindTypealias
	KindImpl
	KindFun
	KindVar
	KindVal
	KindRef
	KindGet
	KindSet
	KindThis
	KindEffect
	KindOpen
	KindSealed
	KindAbstract
	KindOperator
	KindSingleton
	KindExist
	KindPrivate
	KindInternal
	KindRestricted
	KindPublic
	KindNothing
	KindDynamic
	KindIn
	KindNotIn
	KindIs
	KindNotIs
	KindAs
	KindSafeAs
	KindIf
	KindElse
	KindMatch
	KindReturn
	KindBreak
	KindContinue

	// punctuation and operators
	KindColon
	KindDot
	KindSafeDot
	KindComma
	KindSemicolon
	KindLeftBrace
	KindRightBrace
	KindLeftParen
	KindRightParen
	KindLeftSquare
	KindRightSquare
	KindLeftAngle
	KindRightAngle
	KindEq
	KindNotEq
	KindEqEq
	KindGreaterEq
	KindLessEq
	KindPlus
	KindMinus
	KindMultiply
	KindDivide
	KindModulo
	KindAnd
	KindOr
	KindAndAnd
	KindOrOr
	KindNot
	KindElvis
	KindRange
	KindRangeEq
	KindArrow
	KindNullable
	KindUnsafeCast
	KindReference

	kindCount
)

var kindNames = [kindCount]string{
	KindEOF:           "EOF",
	KindWhitespace:    "Whitespace",
	KindNewline:       "Newline",
	KindLineComment:   "LineComment",
	KindBlockComment:  "BlockComment",
	KindIdentifier:    "Identifier",
	KindStringLiteral: "StringLiteral",
	KindIntLiteral:    "IntLiteral",
	KindError:         "Error",
	KindPackage:       "Package",
	KindImport:        "Import",
	KindData:          "Data",
	KindTrait:         "Trait",
	KindTypealias:     "Typealias",
	KindImpl:          "Impl",
	KindFun:           "Fun",
	KindVar:           "Var",
	KindVal:           "Val",
	KindRef:           "Ref",
	KindGet:           "Get",
	KindSet:           "Set",
	KindThis:          "This",
	KindEffect:        "Effect",
	KindOpen:          "Open",
	KindSealed:        "Sealed",
	KindAbstract:      "Abstract",
	KindOperator:      "Operator",
	KindSingleton:     "Singleton",
	KindExist:         "Exist",
	KindPrivate:       "Private",
	KindInternal:      "Internal",
	KindRestricted:    "Restricted",
	KindPublic:        "Public",
	KindNothing:       "Nothing",
	KindDynamic:       "Dynamic",
	KindIn:            "In",
	KindNotIn:         "NotIn",
	KindIs:            "Is",
	KindNotIs:         "NotIs",
	KindAs:            "As",
	KindSafeAs:        "SafeAs",
	KindIf:            "If",
	KindElse:          "Else",
	KindMatch:         "Match",
	KindReturn:        "Return",
	KindBreak:         "Break",
	KindContinue:      "Continue",
	KindColon:         "Colon",
	KindDot:           "Dot",
	KindSafeDot:       "SafeDot",
	KindComma:         "Comma",
	KindSemicolon:     "Semicolon",
	KindLeftBrace:     "LeftBrace",
	KindRightBrace:    "RightBrace",
	KindLeftParen:     "LeftParen",
	KindRightParen:    "RightParen",
	KindLeftSquare:    "LeftSquare",
	KindRightSquare:   "RightSquare",
	KindLeftAngle:     "LeftAngle",
	KindRightAngle:    "RightAngle",
	KindEq:            "Eq",
	KindNotEq:         "NotEq",
	KindEqEq:          "EqEq",
	KindGreaterEq:     "GreaterEq",
	KindLessEq:        "LessEq",
	KindPlus:          "Plus",
	KindMinus:         "Minus",
	KindMultiply:      "Multiply",
	KindDivide:        "Divide",
	KindModulo:        "Modulo",
	KindAnd:           "And",
	KindOr:            "Or",
	KindAndAnd:        "AndAnd",
	KindOrOr:          "OrOr",
	KindNot:           "Not",
	KindElvis:         "Elvis",
	KindRange:         "Range",
	KindRangeEq:       "RangeEq",
	KindArrow:         "Arrow",
	KindNullable:      "Nullable",
	KindUnsafeCast:    "UnsafeCast",
	KindReference:     "Reference",
}

// keywords maps reserved words to their kinds. Operator-like keywords that
// contain punctuation (!in, !is, as?) are matched by dedicated lexer rules.
var keywords = map[string]Kind{
	"package":    KindPackage,
	"import":     KindImport,
	"data":       KindData,
	"trait":      KindTrait,
	"typealias":  KindTypealias,
	"impl":       KindImpl,
	"fun":        KindFun,
	"var":        KindVar,
	"val":        KindVal,
	"ref":        KindRef,
	"get":        KindGet,
	"set":        KindSet,
	"this":       KindThis,
	"effect":     KindEffect,
	"open":       KindOpen,
	"sealed":     KindSealed,
	"abstract":   KindAbstract,
	"operator":   KindOperator,
	"singleton":  KindSingleton,
	"exist":      KindExist,
	"private":    KindPrivate,
	"internal":   KindInternal,
	"restricted": KindRestricted,
	"public":     KindPublic,
	"Nothing":    KindNothing,
	"dynamic":    KindDynamic,
	"in":         KindIn,
	"is":         KindIs,
	"as":         KindAs,
	"if":         KindIf,
	"else":       KindElse,
	"match":      KindMatch,
	"return":     KindReturn,
	"break":      KindBreak,
	"continue":   KindContinue,
}

// Kinds returns every token kind, in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := KindEOF; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KindPackage && k <= KindContinue
}

// IsModifier reports whether k may appear in a declaration's modifier list.
func (k Kind) IsModifier() bool {
	switch k {
	case KindOpen, KindSealed, KindAbstract, KindOperator, KindSingleton, KindImpl,
		KindPublic, KindRestricted, KindInternal, KindPrivate:
		return true
	}
	return false
}

// IsTrivia reports whether the parser skips tokens of kind k.
func (k Kind) IsTrivia() bool {
	switch k {
	case KindWhitespace, KindNewline, KindLineComment, KindBlockComment:
		return true
	}
	return false
}

// Token is a lexeme with its byte span and position. Line is 1-based and
// Column is the 0-based byte offset from the start of the line.
type Token struct {
	Kind   Kind
	Text   string
	Start  int
	End    int
	Line   int
	Column int
}

// display renders the token the way error messages quote it.
func (t Token) display() string {
	if t.Kind == KindEOF {
		return "'<EOF>'"
	}
	return fmt.Sprintf("'%s'", t.Text)
}

var literalKinds = map[Kind]string{}

func init() {
	for text, kind := range keywords {
		literalKinds[kind] = text
	}
	for text, kind := range map[string]Kind{
		"!in": KindNotIn, "!is": KindNotIs, "as?": KindSafeAs,
		":": KindColon, ".": KindDot, "?.": KindSafeDot, ",": KindComma, ";": KindSemicolon,
		"{": KindLeftBrace, "}": KindRightBrace, "(": KindLeftParen, ")": KindRightParen,
		"[": KindLeftSquare, "]": KindRightSquare, "<": KindLeftAngle, ">": KindRightAngle,
		"=": KindEq, "!=": KindNotEq, "==": KindEqEq, ">=": KindGreaterEq, "<=": KindLessEq,
		"+": KindPlus, "-": KindMinus, "*": KindMultiply, "/": KindDivide, "%": KindModulo,
		"&": KindAnd, "|": KindOr, "&&": KindAndAnd, "||": KindOrOr, "!": KindNot,
		"?:": KindElvis, "..": KindRange, "..=": KindRangeEq, "->": KindArrow,
		"?": KindNullable, "!!": KindUnsafeCast, "::": KindReference,
	} {
		literalKinds[kind] = text
	}
}

// expectation renders a kind for "expecting ..." messages.
func (k Kind) expectation() string {
	if lit, ok := literalKinds[k]; ok {
		return "'" + lit + "'"
	}
	if k == KindEOF {
		return "<EOF>"
	}
	return k.String()
}
