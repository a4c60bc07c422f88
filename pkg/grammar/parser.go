package grammar

import (
	"fmt"
	"slices"

	"gitlab.com/tozd/go/errors"
)

// ErrorListener receives syntax errors. Line is 1-based, column is the
// 0-based byte column. offending is the token the error was detected at.
type ErrorListener interface {
	SyntaxError(line, column int, msg string, offending *Token)
}

// ErrorListenerFunc adapts a function to ErrorListener.
type ErrorListenerFunc func(line, column int, msg string, offending *Token)

func (f ErrorListenerFunc) SyntaxError(line, column int, msg string, offending *Token) {
	f(line, column, msg, offending)
}

type ParserOption func(*Parser)

// WithErrorListener registers l to receive syntax errors. Listeners are
// called in registration order.
func WithErrorListener(l ErrorListener) ParserOption {
	return func(p *Parser) {
		p.listeners = append(p.listeners, l)
	}
}

// Parser is a recursive-descent parser over the significant tokens of a
// source unit. A Parser is single use.
type Parser struct {
	tokens    []Token
	newline   []bool // newline[i] reports a line break before tokens[i]
	lexErrors []Token
	listeners []ErrorListener

	pos        int
	nlIgnore   int
	recovering bool
}

// NewParser prepares tokens, as produced by Lex, for parsing.
func NewParser(tokens []Token, opts ...ParserOption) *Parser {
	p := &Parser{
		tokens:  make([]Token, 0, len(tokens)/2+1),
		newline: make([]bool, 0, len(tokens)/2+1),
	}
	for _, opt := range opts {
		opt(p)
	}

	sawNewline := false
	for _, t := range tokens {
		switch t.Kind {
		case KindNewline:
			sawNewline = true
		case KindWhitespace, KindLineComment:
		case KindBlockComment:
			for i := 0; i < len(t.Text); i++ {
				if t.Text[i] == '\n' {
					sawNewline = true
					break
				}
			}
		case KindError:
			p.lexErrors = append(p.lexErrors, t)
		default:
			p.tokens = append(p.tokens, t)
			p.newline = append(p.newline, sawNewline)
			sawNewline = false
		}
	}

	if n := len(p.tokens); n == 0 || p.tokens[n-1].Kind != KindEOF {
		eof := Token{Kind: KindEOF, Line: 1}
		if n > 0 {
			last := p.tokens[n-1]
			eof.Start, eof.End = last.End, last.End
			eof.Line, eof.Column = last.Line, last.Column+len(last.Text)
		}
		p.tokens = append(p.tokens, eof)
		p.newline = append(p.newline, sawNewline)
	}

	return p
}

// Parse lexes and parses source in one step.
func Parse(source string, opts ...ParserOption) (*File, []Token, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, nil, errors.Errorf("lexing: %w", err)
	}
	return NewParser(tokens, opts...).ParseFile(), tokens, nil
}

// ParseFile parses a whole source unit. It never fails: syntax errors go
// to the listeners and the returned tree holds whatever was recovered.
func (p *Parser) ParseFile() *File {
	for _, t := range p.lexErrors {
		p.report(t, fmt.Sprintf("token recognition error at: '%s'", t.Text))
	}

	f := &File{}
	if p.at(KindPackage) {
		f.Package = &PackageHeader{Keyword: p.advance(), Name: p.parseDottedName()}
	}
	for p.at(KindImport) {
		f.Imports = append(f.Imports, p.parseImportHeader())
	}

	for !p.at(KindEOF) {
		start := p.pos
		if d := p.parseDeclaration(); d != nil {
			f.Declarations = append(f.Declarations, d)
		}
		if p.pos == start {
			p.recoverTo(expectingDeclaration, p.atDeclarationStart)
		}
	}
	return f
}

const (
	expectingDeclaration = "{<EOF>, 'data', 'trait', 'typealias', 'effect', 'impl', 'fun', 'val', 'var'}"
	expectingMember      = "{'}', 'data', 'trait', 'typealias', 'effect', 'impl', 'fun', 'val', 'var'}"
	expectingType        = "{'(', 'Nothing', 'dynamic', 'exist', Identifier}"
)

// -----------------------------------------------------------------------------
// token helpers

func (p *Parser) cur() Token { return p.tokens[p.pos] }

func (p *Parser) peek(n int) Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) at(k Kind) bool { return p.tokens[p.pos].Kind == k }

// atNewline reports a significant line break before the current token.
func (p *Parser) atNewline() bool { return p.nlIgnore == 0 && p.newline[p.pos] }

// advance consumes the current token as a successful match.
func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if t.Kind != KindEOF {
		p.pos++
	}
	p.recovering = false
	return t
}

// skip consumes the current token during error recovery.
func (p *Parser) skip() {
	if !p.at(KindEOF) {
		p.pos++
	}
}

func (p *Parser) accept(k Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k Kind) (Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errorAt(p.cur(), fmt.Sprintf("mismatched input %s expecting %s", p.cur().display(), k.expectation()))
	return Token{}, false
}

func (p *Parser) expectIdentifier() *Identifier {
	tok, ok := p.expect(KindIdentifier)
	if !ok {
		return nil
	}
	return &Identifier{Token: tok}
}

func (p *Parser) report(t Token, msg string) {
	for _, l := range p.listeners {
		tok := t
		l.SyntaxError(t.Line, t.Column, msg, &tok)
	}
}

// errorAt reports msg unless the parser is already recovering from an
// earlier error that no token has been matched since.
func (p *Parser) errorAt(t Token, msg string) {
	if p.recovering {
		return
	}
	p.recovering = true
	p.report(t, msg)
}

// recoverTo reports the current token as extraneous and skips at least one
// token, then everything up to the first token satisfying stop.
func (p *Parser) recoverTo(expecting string, stop func() bool) {
	p.errorAt(p.cur(), fmt.Sprintf("extraneous input %s expecting %s", p.cur().display(), expecting))
	p.skip()
	for !p.at(KindEOF) && !stop() {
		p.skip()
	}
}

func isDeclarationKeyword(k Kind) bool {
	switch k {
	case KindData, KindTrait, KindTypealias, KindEffect, KindFun, KindVal, KindVar, KindRef:
		return true
	}
	return false
}

func (p *Parser) atDeclarationStart() bool {
	k := p.cur().Kind
	return k.IsModifier() || isDeclarationKeyword(k)
}

// -----------------------------------------------------------------------------
// headers

func (p *Parser) parseDottedName() *DottedName {
	first := p.expectIdentifier()
	if first == nil {
		return nil
	}
	name := &DottedName{Parts: []*Identifier{first}}
	for p.at(KindDot) && p.peek(1).Kind == KindIdentifier {
		p.advance()
		name.Parts = append(name.Parts, &Identifier{Token: p.advance()})
	}
	return name
}

func (p *Parser) parseImportHeader() *ImportHeader {
	h := &ImportHeader{Keyword: p.advance()}
	h.Name = p.parseDottedName()
	switch {
	case p.at(KindDot) && p.peek(1).Kind == KindMultiply:
		p.advance()
		p.advance()
		h.Wildcard = true
	case p.at(KindAs):
		p.advance()
		h.Alias = p.expectIdentifier()
	}
	return h
}

// -----------------------------------------------------------------------------
// declarations

func (p *Parser) parseModifiers() []*Modifier {
	var mods []*Modifier
	for p.cur().Kind.IsModifier() {
		if p.at(KindImpl) {
			next := p.peek(1).Kind
			if !next.IsModifier() && !isDeclarationKeyword(next) {
				// impl Type : Trait
				break
			}
		}
		mods = append(mods, &Modifier{Token: p.advance()})
	}
	return mods
}

// parseDeclaration returns nil without consuming anything when the current
// token cannot start a declaration.
func (p *Parser) parseDeclaration() Declaration {
	from := p.cur()
	mods := p.parseModifiers()

	switch p.cur().Kind {
	case KindData:
		return p.parseData(mods, nil)
	case KindVal, KindRef:
		if p.peek(1).Kind == KindData {
			flavor := p.advance()
			return p.parseData(mods, &flavor)
		}
		if p.at(KindVal) {
			return p.parseProperty(mods)
		}
		p.advance()
		p.errorAt(p.cur(), fmt.Sprintf("mismatched input %s expecting 'data'", p.cur().display()))
		return &BadDeclaration{From: from, To: p.cur()}
	case KindVar:
		return p.parseProperty(mods)
	case KindTrait:
		return p.parseTrait(mods)
	case KindTypealias:
		return p.parseTypealias(mods)
	case KindEffect:
		return p.parseEffect(mods)
	case KindImpl:
		return p.parseImpl(mods)
	case KindFun:
		return p.parseFunction(mods)
	}

	if len(mods) > 0 {
		p.errorAt(p.cur(), fmt.Sprintf("mismatched input %s expecting %s", p.cur().display(), expectingDeclaration))
		return &BadDeclaration{From: from, To: p.cur()}
	}
	return nil
}

func (p *Parser) parseData(mods []*Modifier, flavor *Token) *DataDeclaration {
	d := &DataDeclaration{Modifiers: mods, Flavor: flavor, Keyword: p.advance()}
	d.Name = p.expectIdentifier()
	if p.at(KindLeftAngle) {
		d.TypeParameters = p.parseTypeParameters()
	}
	if p.at(KindLeftParen) {
		d.ValueParameters = p.parseValueParameters()
	}
	if p.accept(KindColon) {
		d.Bindings = p.parseTypeList()
	}
	if p.at(KindLeftBrace) {
		d.Body = p.parseTypeBody()
	}
	return d
}

func (p *Parser) parseTrait(mods []*Modifier) *TraitDeclaration {
	d := &TraitDeclaration{Modifiers: mods, Keyword: p.advance()}
	d.Name = p.expectIdentifier()
	if p.at(KindLeftAngle) {
		d.TypeParameters = p.parseTypeParameters()
	}
	if p.accept(KindColon) {
		d.Inherits = p.parseTypeList()
	}
	if p.at(KindLeftBrace) {
		d.Body = p.parseTypeBody()
	}
	return d
}

func (p *Parser) parseTypealias(mods []*Modifier) *TypealiasDeclaration {
	d := &TypealiasDeclaration{Modifiers: mods, Keyword: p.advance()}
	d.Name = p.expectIdentifier()
	if p.at(KindLeftAngle) {
		d.TypeParameters = p.parseTypeParameters()
	}
	if _, ok := p.expect(KindEq); ok {
		d.Type = p.parseType()
	}
	return d
}

func (p *Parser) parseEffect(mods []*Modifier) *EffectDeclaration {
	d := &EffectDeclaration{Modifiers: mods, Keyword: p.advance()}
	d.Name = p.expectIdentifier()
	if p.at(KindLeftAngle) {
		d.TypeParameters = p.parseTypeParameters()
	}
	return d
}

func (p *Parser) parseImpl(mods []*Modifier) *ImplDeclaration {
	d := &ImplDeclaration{Modifiers: mods, Keyword: p.advance()}
	d.DataType = p.parseType()
	if _, ok := p.expect(KindColon); ok {
		d.TraitType = p.parseType()
	}
	if p.at(KindLeftBrace) {
		d.Body = p.parseTypeBody()
	}
	return d
}

func (p *Parser) parseFunction(mods []*Modifier) *FunctionDeclaration {
	d := &FunctionDeclaration{Modifiers: mods, Keyword: p.advance()}
	if p.at(KindLeftAngle) {
		d.TypeParameters = p.parseTypeParameters()
	}
	d.Receiver, d.Name = p.parseReceiverAndName()
	if p.at(KindLeftParen) {
		d.ValueParameters = p.parseValueParameters()
	} else {
		p.errorAt(p.cur(), fmt.Sprintf("mismatched input %s expecting '('", p.cur().display()))
	}
	if p.accept(KindColon) {
		d.ReturnType = p.parseType()
	}
	if p.accept(KindDivide) {
		d.Effects = p.parseTypeList()
	}
	switch {
	case p.at(KindLeftBrace):
		d.Body = p.parseBlock()
	case p.at(KindEq):
		p.advance()
		d.ExprBody = p.parseExpression()
	}
	return d
}

func (p *Parser) parseProperty(mods []*Modifier) *PropertyDeclaration {
	d := &PropertyDeclaration{Modifiers: mods, Keyword: p.advance()}
	if p.at(KindLeftAngle) {
		d.TypeParameters = p.parseTypeParameters()
	}
	d.Receiver, d.Name = p.parseReceiverAndName()
	if p.accept(KindColon) {
		d.Type = p.parseType()
	}
	if p.accept(KindDivide) {
		d.Effects = p.parseTypeList()
	}
	if p.accept(KindEq) {
		d.Initializer = p.parseExpression()
	}
	for p.at(KindGet) || p.at(KindSet) {
		d.Accessors = append(d.Accessors, p.parseAccessor())
	}
	return d
}

func (p *Parser) parseAccessor() *Accessor {
	a := &Accessor{Keyword: p.advance()}
	if p.at(KindLeftParen) {
		p.advance()
		if a.Keyword.Kind == KindSet && p.at(KindIdentifier) {
			a.Parameter = &Identifier{Token: p.advance()}
		}
		p.expect(KindRightParen)
	}
	switch {
	case p.at(KindLeftBrace):
		a.Body = p.parseBlock()
	case p.at(KindEq):
		p.advance()
		a.ExprBody = p.parseExpression()
	}
	return a
}

// parseReceiverAndName splits Recv.name into a receiver type and the
// declared name. Either may be nil after an error.
func (p *Parser) parseReceiverAndName() (TypeNode, *Identifier) {
	switch p.cur().Kind {
	case KindLeftParen, KindExist, KindNothing, KindDynamic:
		recv := p.parseType()
		if !p.accept(KindDot) && !p.accept(KindSafeDot) {
			p.expect(KindDot)
			return recv, nil
		}
		return recv, p.expectIdentifier()
	}

	first := p.expectIdentifier()
	if first == nil {
		return nil, nil
	}
	parts := []*Identifier{first}

loop:
	for {
		switch {
		case p.at(KindDot) && p.peek(1).Kind == KindIdentifier:
			p.advance()
			parts = append(parts, &Identifier{Token: p.advance()})
		case p.at(KindLeftAngle):
			recv := &RegularType{Name: &TypeIdentifier{Parts: parts}, Arguments: p.parseTypeArguments()}
			switch {
			case p.accept(KindSafeDot):
				recv.Nullable = true
			case p.accept(KindNullable):
				recv.Nullable = true
				p.expect(KindDot)
			default:
				p.expect(KindDot)
			}
			return recv, p.expectIdentifier()
		case p.at(KindSafeDot) && p.peek(1).Kind == KindIdentifier:
			p.advance()
			recv := &RegularType{Name: &TypeIdentifier{Parts: parts}, Nullable: true}
			return recv, &Identifier{Token: p.advance()}
		default:
			break loop
		}
	}

	name := parts[len(parts)-1]
	if len(parts) == 1 {
		return nil, name
	}
	return &RegularType{Name: &TypeIdentifier{Parts: parts[:len(parts)-1]}}, name
}

func (p *Parser) parseTypeBody() *TypeBody {
	p.advance()
	saved := p.nlIgnore
	p.nlIgnore = 0
	defer func() { p.nlIgnore = saved }()

	body := &TypeBody{}
	for !p.at(KindRightBrace) && !p.at(KindEOF) {
		if p.accept(KindSemicolon) {
			continue
		}
		start := p.pos
		if d := p.parseDeclaration(); d != nil {
			body.Members = append(body.Members, d)
		}
		if p.pos == start {
			p.recoverTo(expectingMember, func() bool {
				return p.at(KindRightBrace) || p.atDeclarationStart()
			})
		}
	}
	p.expect(KindRightBrace)
	return body
}

func (p *Parser) parseTypeParameters() *TypeParameterList {
	p.advance()
	p.nlIgnore++
	defer func() { p.nlIgnore-- }()

	list := &TypeParameterList{}
	for !p.at(KindRightAngle) && !p.at(KindEOF) {
		name := p.expectIdentifier()
		if name == nil {
			break
		}
		list.Parameters = append(list.Parameters, &TypeParameter{Name: name})
		if !p.accept(KindComma) {
			break
		}
	}
	p.expect(KindRightAngle)
	return list
}

func (p *Parser) parseValueParameters() *ValueParameterList {
	p.advance()
	p.nlIgnore++
	defer func() { p.nlIgnore-- }()

	list := &ValueParameterList{}
	for !p.at(KindRightParen) && !p.at(KindEOF) {
		if !p.at(KindIdentifier) {
			p.errorAt(p.cur(), fmt.Sprintf("mismatched input %s expecting {')', Identifier}", p.cur().display()))
			for !p.at(KindEOF) && !p.at(KindRightParen) && !p.at(KindComma) && !p.at(KindLeftBrace) && !p.atDeclarationStart() {
				p.skip()
			}
			if p.at(KindComma) {
				p.skip()
				continue
			}
			break
		}
		param := &ValueParameter{Name: &Identifier{Token: p.advance()}}
		if _, ok := p.expect(KindColon); ok {
			param.Type = p.parseType()
		}
		if p.accept(KindEq) {
			param.Default = p.parseExpression()
		}
		list.Parameters = append(list.Parameters, param)
		if !p.accept(KindComma) {
			break
		}
	}
	p.expect(KindRightParen)
	return list
}

// -----------------------------------------------------------------------------
// types

// parseType returns nil after reporting an error if no type starts here.
func (p *Parser) parseType() TypeNode {
	switch p.cur().Kind {
	case KindLeftParen:
		p.advance()
		p.nlIgnore++
		inner := p.parseType()
		p.nlIgnore--
		p.expect(KindRightParen)
		if inner == nil {
			return nil
		}
		return &ParenthesizedType{Inner: inner}
	case KindNothing:
		return &NothingType{Token: p.advance()}
	case KindDynamic:
		return &DynamicType{Token: p.advance()}
	case KindExist, KindIdentifier:
		t := &RegularType{Existential: p.accept(KindExist)}
		t.Name = p.parseTypeIdentifier()
		if t.Name == nil {
			return nil
		}
		if p.at(KindLeftAngle) && !p.atNewline() {
			t.Arguments = p.parseTypeArguments()
		}
		if p.at(KindNullable) && !p.atNewline() {
			p.advance()
			t.Nullable = true
		}
		return t
	}
	p.errorAt(p.cur(), fmt.Sprintf("mismatched input %s expecting %s", p.cur().display(), expectingType))
	return nil
}

func (p *Parser) parseTypeIdentifier() *TypeIdentifier {
	first := p.expectIdentifier()
	if first == nil {
		return nil
	}
	ti := &TypeIdentifier{Parts: []*Identifier{first}}
	for p.at(KindDot) && p.peek(1).Kind == KindIdentifier {
		p.advance()
		ti.Parts = append(ti.Parts, &Identifier{Token: p.advance()})
	}
	return ti
}

func (p *Parser) parseTypeArguments() []TypeNode {
	p.advance()
	p.nlIgnore++
	defer func() { p.nlIgnore-- }()

	var args []TypeNode
	for !p.at(KindRightAngle) && !p.at(KindEOF) {
		t := p.parseType()
		if t == nil {
			break
		}
		args = append(args, t)
		if !p.accept(KindComma) {
			break
		}
	}
	p.expect(KindRightAngle)
	return args
}

func (p *Parser) parseTypeList() []TypeNode {
	var out []TypeNode
	for {
		t := p.parseType()
		if t == nil {
			return out
		}
		out = append(out, t)
		if !p.accept(KindComma) {
			return out
		}
	}
}

// -----------------------------------------------------------------------------
// statements

func (p *Parser) parseBlock() *Block {
	p.advance()
	saved := p.nlIgnore
	p.nlIgnore = 0
	defer func() { p.nlIgnore = saved }()

	atStatementEnd := func() bool {
		return p.at(KindRightBrace) || p.at(KindSemicolon) || p.newline[p.pos]
	}

	b := &Block{}
	for !p.at(KindRightBrace) && !p.at(KindEOF) {
		if p.accept(KindSemicolon) {
			continue
		}
		start := p.pos
		if s := p.parseStatement(); s != nil {
			b.Statements = append(b.Statements, s)
		}
		if p.pos == start {
			p.recoverTo("{<NL>, ';', '}'}", atStatementEnd)
			continue
		}
		if !p.at(KindEOF) && !atStatementEnd() {
			p.recoverTo("{<NL>, ';', '}'}", atStatementEnd)
		}
	}
	p.expect(KindRightBrace)
	return b
}

func (p *Parser) parseStatement() Statement {
	switch k := p.cur().Kind; {
	case (k == KindVal || k == KindVar) && p.peek(1).Kind != KindData && p.peek(1).Kind != KindLeftAngle:
		return p.parseVariableStatement()
	case p.atDeclarationStart():
		if d := p.parseDeclaration(); d != nil {
			return &DeclarationStatement{Declaration: d}
		}
		return nil
	}

	start := p.pos
	expr := p.parseExpression()
	if p.pos == start {
		return nil
	}
	if p.at(KindEq) && !p.atNewline() {
		p.advance()
		return &AssignmentStatement{Target: expr, Value: p.parseExpression()}
	}
	return &ExpressionStatement{Expr: expr}
}

func (p *Parser) parseVariableStatement() *VariableStatement {
	s := &VariableStatement{Keyword: p.advance()}
	s.Name = p.expectIdentifier()
	if p.accept(KindColon) {
		s.Type = p.parseType()
	}
	if p.accept(KindEq) {
		s.Initializer = p.parseExpression()
	}
	return s
}

// -----------------------------------------------------------------------------
// expressions

// continues returns the current token if it is one of kinds and may extend
// the expression parsed so far. Only a few operators continue an expression
// across a line break.
func (p *Parser) continues(kinds ...Kind) (Token, bool) {
	t := p.cur()
	if !slices.Contains(kinds, t.Kind) {
		return t, false
	}
	if p.atNewline() {
		switch t.Kind {
		case KindDot, KindSafeDot, KindElvis, KindAndAnd, KindOrOr:
		default:
			return t, false
		}
	}
	return t, true
}

func (p *Parser) parseExpression() Expr { return p.parseDisjunction() }

func (p *Parser) parseBinary(next func() Expr, kinds ...Kind) Expr {
	left := next()
	for {
		op, ok := p.continues(kinds...)
		if !ok {
			return left
		}
		p.advance()
		left = &BinaryExpr{Left: left, Operator: op, Right: next()}
	}
}

func (p *Parser) parseDisjunction() Expr { return p.parseBinary(p.parseConjunction, KindOrOr) }

func (p *Parser) parseConjunction() Expr { return p.parseBinary(p.parseEquality, KindAndAnd) }

func (p *Parser) parseEquality() Expr {
	return p.parseBinary(p.parseComparison, KindEqEq, KindNotEq)
}

func (p *Parser) parseComparison() Expr {
	return p.parseBinary(p.parseTypeCheck, KindLeftAngle, KindRightAngle, KindLessEq, KindGreaterEq)
}

func (p *Parser) parseTypeCheck() Expr {
	left := p.parseElvis()
	for {
		op, ok := p.continues(KindIs, KindNotIs, KindIn, KindNotIn)
		if !ok {
			return left
		}
		p.advance()
		if op.Kind == KindIs || op.Kind == KindNotIs {
			left = &TypeTestExpr{Left: left, Operator: op, Type: p.parseType()}
			continue
		}
		left = &BinaryExpr{Left: left, Operator: op, Right: p.parseElvis()}
	}
}

func (p *Parser) parseElvis() Expr { return p.parseBinary(p.parseInfixCall, KindElvis) }

func (p *Parser) parseInfixCall() Expr {
	left := p.parseRange()
	for p.at(KindIdentifier) && !p.atNewline() {
		fn := &Identifier{Token: p.advance()}
		left = &InfixFunctionCall{Left: left, Function: fn, Right: p.parseRange()}
	}
	return left
}

func (p *Parser) parseRange() Expr { return p.parseBinary(p.parseAdditive, KindRange, KindRangeEq) }

func (p *Parser) parseAdditive() Expr {
	return p.parseBinary(p.parseMultiplicative, KindPlus, KindMinus, KindOr)
}

func (p *Parser) parseMultiplicative() Expr {
	return p.parseBinary(p.parseCast, KindMultiply, KindDivide, KindModulo, KindAnd)
}

func (p *Parser) parseCast() Expr {
	left := p.parsePrefix()
	for {
		op, ok := p.continues(KindAs, KindSafeAs)
		if !ok {
			return left
		}
		p.advance()
		left = &CastExpr{Left: left, Operator: op, Type: p.parseType()}
	}
}

func (p *Parser) parsePrefix() Expr {
	switch p.cur().Kind {
	case KindMinus, KindPlus, KindNot:
		op := p.advance()
		return &PrefixExpr{Operator: op, Operand: p.parsePrefix()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() Expr {
	e := p.parsePrimary()
	for {
		switch {
		case p.at(KindLeftParen) && !p.atNewline():
			e = &CallExpr{Callee: e, Arguments: p.parseValueArguments()}
		case p.at(KindLeftSquare) && !p.atNewline():
			e = p.parseIndex(e)
		case (p.at(KindDot) || p.at(KindSafeDot)) && p.peek(1).Kind == KindIdentifier:
			op := p.advance()
			e = &NavigationExpr{Target: e, Operator: op, Name: &Identifier{Token: p.advance()}}
		case p.at(KindUnsafeCast) && !p.atNewline():
			e = &PostfixExpr{Operand: e, Operator: p.advance()}
		default:
			return e
		}
	}
}

func (p *Parser) parseValueArguments() *ValueArgumentList {
	p.advance()
	p.nlIgnore++

	list := &ValueArgumentList{}
	for !p.at(KindRightParen) && !p.at(KindEOF) {
		start := p.pos
		arg := &ValueArgument{}
		if p.at(KindIdentifier) && p.peek(1).Kind == KindEq {
			arg.Name = &Identifier{Token: p.advance()}
			p.advance()
		}
		arg.Value = p.parseExpression()
		if p.pos == start {
			break
		}
		list.Arguments = append(list.Arguments, arg)
		if !p.accept(KindComma) {
			break
		}
	}

	p.nlIgnore--
	p.expect(KindRightParen)
	return list
}

func (p *Parser) parseIndex(target Expr) *IndexExpr {
	p.advance()
	p.nlIgnore++

	e := &IndexExpr{Target: target}
	for !p.at(KindRightSquare) && !p.at(KindEOF) {
		start := p.pos
		idx := p.parseExpression()
		if p.pos == start {
			break
		}
		e.Indices = append(e.Indices, idx)
		if !p.accept(KindComma) {
			break
		}
	}

	p.nlIgnore--
	p.expect(KindRightSquare)
	return e
}

func canStartExpression(k Kind) bool {
	switch k {
	case KindIntLiteral, KindStringLiteral, KindThis, KindIdentifier, KindLeftParen, KindIf, KindMatch,
		KindReturn, KindBreak, KindContinue, KindReference, KindMinus, KindPlus, KindNot:
		return true
	}
	return false
}

// parsePrimary reports an error and returns a *BadExpr without consuming
// anything when no expression starts at the current token.
func (p *Parser) parsePrimary() Expr {
	t := p.cur()
	switch t.Kind {
	case KindIntLiteral, KindStringLiteral:
		return &LiteralExpr{Token: p.advance()}
	case KindThis:
		return &ThisExpr{Token: p.advance()}
	case KindIdentifier:
		return &NameExpr{Name: p.parseTypeIdentifier()}
	case KindLeftParen:
		p.advance()
		p.nlIgnore++
		inner := p.parseExpression()
		p.nlIgnore--
		p.expect(KindRightParen)
		return &ParenExpr{Inner: inner}
	case KindIf:
		return p.parseIf()
	case KindMatch:
		return p.parseMatch()
	case KindReturn, KindBreak, KindContinue:
		j := &JumpExpr{Keyword: p.advance()}
		if t.Kind == KindReturn && !p.atNewline() && canStartExpression(p.cur().Kind) {
			j.Value = p.parseExpression()
		}
		return j
	case KindReference:
		return &ReferenceExpr{Operator: p.advance(), Name: p.expectIdentifier()}
	}
	p.errorAt(t, fmt.Sprintf("no viable alternative at input %s", t.display()))
	return &BadExpr{At: t}
}

// parseControlBody parses an if branch or match arm: a block or a single
// expression.
func (p *Parser) parseControlBody() Node {
	if p.at(KindLeftBrace) {
		return p.parseBlock()
	}
	return p.parseExpression()
}

func (p *Parser) parseIf() *IfExpr {
	p.advance()
	e := &IfExpr{}
	if _, ok := p.expect(KindLeftParen); ok {
		p.nlIgnore++
		e.Condition = p.parseExpression()
		p.nlIgnore--
		p.expect(KindRightParen)
	}
	e.Then = p.parseControlBody()
	// an else on a new line followed by an arrow is a match arm
	if p.at(KindElse) && !(p.atNewline() && p.peek(1).Kind == KindArrow) {
		p.advance()
		e.Else = p.parseControlBody()
	}
	return e
}

func (p *Parser) parseMatch() *MatchExpr {
	p.advance()
	m := &MatchExpr{}
	if p.accept(KindLeftParen) {
		p.nlIgnore++
		m.Subject = p.parseExpression()
		p.nlIgnore--
		p.expect(KindRightParen)
	}
	if _, ok := p.expect(KindLeftBrace); !ok {
		return m
	}

	saved := p.nlIgnore
	p.nlIgnore = 0
	defer func() { p.nlIgnore = saved }()

	for !p.at(KindRightBrace) && !p.at(KindEOF) {
		if p.accept(KindSemicolon) {
			continue
		}
		start := p.pos
		if c := p.parseMatchCase(); c != nil {
			m.Cases = append(m.Cases, c)
		}
		if p.pos == start {
			p.recoverTo("{'else', '}', 'is', 'in'}", func() bool {
				return p.at(KindRightBrace) || p.newline[p.pos]
			})
		}
	}
	p.expect(KindRightBrace)
	return m
}

func (p *Parser) parseMatchCase() *MatchCase {
	c := &MatchCase{}
	if p.accept(KindElse) {
		c.Else = true
	} else {
		for {
			cond := p.parseMatchCondition()
			if cond == nil {
				if len(c.Conditions) == 0 {
					return nil
				}
				break
			}
			c.Conditions = append(c.Conditions, cond)
			if !p.accept(KindComma) {
				break
			}
		}
	}
	if _, ok := p.expect(KindArrow); !ok {
		return c
	}
	c.Body = p.parseControlBody()
	return c
}

func (p *Parser) parseMatchCondition() Node {
	switch p.cur().Kind {
	case KindIs, KindNotIs:
		op := p.advance()
		return &IsCondition{Operator: op, Type: p.parseType()}
	case KindIn, KindNotIn:
		op := p.advance()
		return &InCondition{Operator: op, Value: p.parseExpression()}
	}
	start := p.pos
	e := p.parseExpression()
	if p.pos == start {
		return nil
	}
	return e
}
