package grammar

// Node is implemented by every syntax tree node. Children returns the
// direct child nodes in source order; absent optional children are omitted.
type Node interface {
	Children() []Node
}

// Declaration is a top-level or member declaration.
type Declaration interface {
	Node
	declarationNode()
}

// TypeNode is a written type.
type TypeNode interface {
	Node
	typeNode()
}

// Statement appears inside a block.
type Statement interface {
	Node
	statementNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// children filters out nil interfaces and typed nil pointers.
func children(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || isNilNode(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Identifier:
		return v == nil
	case *DottedName:
		return v == nil
	case *TypeIdentifier:
		return v == nil
	case *PackageHeader:
		return v == nil
	case *TypeParameterList:
		return v == nil
	case *ValueParameterList:
		return v == nil
	case *TypeBody:
		return v == nil
	case *Block:
		return v == nil
	case *ValueArgumentList:
		return v == nil
	}
	return false
}

// -----------------------------------------------------------------------------
// file structure

// File is the root of a parsed source unit.
type File struct {
	Package      *PackageHeader
	Imports      []*ImportHeader
	Declarations []Declaration
}

func (f *File) Children() []Node {
	out := children(f.Package)
	for _, imp := range f.Imports {
		out = append(out, imp)
	}
	for _, d := range f.Declarations {
		out = append(out, d)
	}
	return out
}

// PackageParts returns the header's dotted name, or nil without a header.
func (f *File) PackageParts() []string {
	if f.Package == nil || f.Package.Name == nil {
		return nil
	}
	return f.Package.Name.Strings()
}

type PackageHeader struct {
	Keyword Token
	Name    *DottedName
}

func (h *PackageHeader) Children() []Node { return children(h.Name) }

type ImportHeader struct {
	Keyword  Token
	Name     *DottedName
	Wildcard bool
	Alias    *Identifier
}

func (h *ImportHeader) Children() []Node { return children(h.Name, h.Alias) }

// Identifier is a single name occurrence.
type Identifier struct {
	Token Token
}

func (i *Identifier) Children() []Node { return nil }

// Name returns the identifier text.
func (i *Identifier) Name() string { return i.Token.Text }

// DottedName is a package or import path.
type DottedName struct {
	Parts []*Identifier
}

func (d *DottedName) Children() []Node { return identNodes(d.Parts) }

func (d *DottedName) Strings() []string { return identStrings(d.Parts) }

// TypeIdentifier is a dotted reference to a declaration, written either in
// a type position or as an expression.
type TypeIdentifier struct {
	Parts []*Identifier
}

func (t *TypeIdentifier) Children() []Node { return identNodes(t.Parts) }

func (t *TypeIdentifier) Strings() []string { return identStrings(t.Parts) }

func identNodes(ids []*Identifier) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}

func identStrings(ids []*Identifier) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Name())
	}
	return out
}

// Modifier is a single modifier keyword preceding a declaration.
type Modifier struct {
	Token Token
}

func (m *Modifier) Children() []Node { return nil }

// -----------------------------------------------------------------------------
// declarations

type DataDeclaration struct {
	Modifiers       []*Modifier
	Flavor          *Token // val or ref, nil when absent
	Keyword         Token
	Name            *Identifier
	TypeParameters  *TypeParameterList
	ValueParameters *ValueParameterList
	Bindings        []TypeNode
	Body            *TypeBody
}

func (d *DataDeclaration) Children() []Node {
	out := modifierNodes(d.Modifiers)
	out = append(out, children(d.Name, d.TypeParameters, d.ValueParameters)...)
	out = append(out, typeNodes(d.Bindings)...)
	return append(out, children(d.Body)...)
}

type TraitDeclaration struct {
	Modifiers      []*Modifier
	Keyword        Token
	Name           *Identifier
	TypeParameters *TypeParameterList
	Inherits       []TypeNode
	Body           *TypeBody
}

func (d *TraitDeclaration) Children() []Node {
	out := modifierNodes(d.Modifiers)
	out = append(out, children(d.Name, d.TypeParameters)...)
	out = append(out, typeNodes(d.Inherits)...)
	return append(out, children(d.Body)...)
}

type TypealiasDeclaration struct {
	Modifiers      []*Modifier
	Keyword        Token
	Name           *Identifier
	TypeParameters *TypeParameterList
	Type           TypeNode
}

func (d *TypealiasDeclaration) Children() []Node {
	out := modifierNodes(d.Modifiers)
	return append(out, children(d.Name, d.TypeParameters, d.Type)...)
}

type EffectDeclaration struct {
	Modifiers      []*Modifier
	Keyword        Token
	Name           *Identifier
	TypeParameters *TypeParameterList
}

func (d *EffectDeclaration) Children() []Node {
	out := modifierNodes(d.Modifiers)
	return append(out, children(d.Name, d.TypeParameters)...)
}

type ImplDeclaration struct {
	Modifiers []*Modifier
	Keyword   Token
	DataType  TypeNode
	TraitType TypeNode
	Body      *TypeBody
}

func (d *ImplDeclaration) Children() []Node {
	out := modifierNodes(d.Modifiers)
	return append(out, children(d.DataType, d.TraitType, d.Body)...)
}

type FunctionDeclaration struct {
	Modifiers       []*Modifier
	Keyword         Token
	TypeParameters  *TypeParameterList
	Receiver        TypeNode
	Name            *Identifier
	ValueParameters *ValueParameterList
	ReturnType      TypeNode
	Effects         []TypeNode
	Body            *Block
	ExprBody        Expr
}

func (d *FunctionDeclaration) Children() []Node {
	out := modifierNodes(d.Modifiers)
	out = append(out, children(d.TypeParameters, d.Receiver, d.Name, d.ValueParameters, d.ReturnType)...)
	out = append(out, typeNodes(d.Effects)...)
	return append(out, children(d.Body, d.ExprBody)...)
}

type PropertyDeclaration struct {
	Modifiers      []*Modifier
	Keyword        Token // val or var
	TypeParameters *TypeParameterList
	Receiver       TypeNode
	Name           *Identifier
	Type           TypeNode
	Effects        []TypeNode
	Initializer    Expr
	Accessors      []*Accessor
}

func (d *PropertyDeclaration) Children() []Node {
	out := modifierNodes(d.Modifiers)
	out = append(out, children(d.TypeParameters, d.Receiver, d.Name, d.Type)...)
	out = append(out, typeNodes(d.Effects)...)
	out = append(out, children(d.Initializer)...)
	for _, a := range d.Accessors {
		out = append(out, a)
	}
	return out
}

// Accessor is a property getter or setter.
type Accessor struct {
	Keyword   Token // get or set
	Parameter *Identifier
	Body      *Block
	ExprBody  Expr
}

func (a *Accessor) Children() []Node { return children(a.Parameter, a.Body, a.ExprBody) }

// BadDeclaration marks a declaration the parser could not recover into a
// well-formed node. It has already been reported as a syntax error.
type BadDeclaration struct {
	From, To Token
}

func (d *BadDeclaration) Children() []Node { return nil }

func (*DataDeclaration) declarationNode()      {}
func (*TraitDeclaration) declarationNode()     {}
func (*TypealiasDeclaration) declarationNode() {}
func (*EffectDeclaration) declarationNode()    {}
func (*ImplDeclaration) declarationNode()      {}
func (*FunctionDeclaration) declarationNode()  {}
func (*PropertyDeclaration) declarationNode()  {}
func (*BadDeclaration) declarationNode()       {}

type TypeBody struct {
	Members []Declaration
}

func (b *TypeBody) Children() []Node {
	out := make([]Node, 0, len(b.Members))
	for _, m := range b.Members {
		out = append(out, m)
	}
	return out
}

type TypeParameterList struct {
	Parameters []*TypeParameter
}

func (l *TypeParameterList) Children() []Node {
	out := make([]Node, 0, len(l.Parameters))
	for _, p := range l.Parameters {
		out = append(out, p)
	}
	return out
}

type TypeParameter struct {
	Name *Identifier
}

func (p *TypeParameter) Children() []Node { return children(p.Name) }

type ValueParameterList struct {
	Parameters []*ValueParameter
}

func (l *ValueParameterList) Children() []Node {
	out := make([]Node, 0, len(l.Parameters))
	for _, p := range l.Parameters {
		out = append(out, p)
	}
	return out
}

type ValueParameter struct {
	Name    *Identifier
	Type    TypeNode
	Default Expr
}

func (p *ValueParameter) Children() []Node { return children(p.Name, p.Type, p.Default) }

func modifierNodes(mods []*Modifier) []Node {
	out := make([]Node, 0, len(mods)+8)
	for _, m := range mods {
		out = append(out, m)
	}
	return out
}

func typeNodes(types []TypeNode) []Node {
	out := make([]Node, 0, len(types))
	for _, t := range types {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// types

type ParenthesizedType struct {
	Inner TypeNode
}

func (t *ParenthesizedType) Children() []Node { return children(t.Inner) }

type NothingType struct {
	Token Token
}

func (t *NothingType) Children() []Node { return nil }

type DynamicType struct {
	Token Token
}

func (t *DynamicType) Children() []Node { return nil }

type RegularType struct {
	Existential bool
	Name        *TypeIdentifier
	Arguments   []TypeNode
	Nullable    bool
}

func (t *RegularType) Children() []Node {
	return append(children(t.Name), typeNodes(t.Arguments)...)
}

func (*ParenthesizedType) typeNode() {}
func (*NothingType) typeNode()       {}
func (*DynamicType) typeNode()       {}
func (*RegularType) typeNode()       {}

// -----------------------------------------------------------------------------
// statements

type Block struct {
	Statements []Statement
}

func (b *Block) Children() []Node {
	out := make([]Node, 0, len(b.Statements))
	for _, s := range b.Statements {
		out = append(out, s)
	}
	return out
}

// DeclarationStatement is a declaration nested in a block.
type DeclarationStatement struct {
	Declaration Declaration
}

func (s *DeclarationStatement) Children() []Node { return children(s.Declaration) }

// VariableStatement is a local val or var.
type VariableStatement struct {
	Keyword     Token
	Name        *Identifier
	Type        TypeNode
	Initializer Expr
}

func (s *VariableStatement) Children() []Node { return children(s.Name, s.Type, s.Initializer) }

type AssignmentStatement struct {
	Target Expr
	Value  Expr
}

func (s *AssignmentStatement) Children() []Node { return children(s.Target, s.Value) }

type ExpressionStatement struct {
	Expr Expr
}

func (s *ExpressionStatement) Children() []Node { return children(s.Expr) }

func (*DeclarationStatement) statementNode() {}
func (*VariableStatement) statementNode()    {}
func (*AssignmentStatement) statementNode()  {}
func (*ExpressionStatement) statementNode()  {}

// -----------------------------------------------------------------------------
// expressions

type LiteralExpr struct {
	Token Token
}

func (e *LiteralExpr) Children() []Node { return nil }

type ThisExpr struct {
	Token Token
}

func (e *ThisExpr) Children() []Node { return nil }

// NameExpr is a dotted name used as a value, e.g. Foo.bar in Foo.bar().
type NameExpr struct {
	Name *TypeIdentifier
}

func (e *NameExpr) Children() []Node { return children(e.Name) }

type ParenExpr struct {
	Inner Expr
}

func (e *ParenExpr) Children() []Node { return children(e.Inner) }

// IfExpr branches hold either a *Block or an Expr.
type IfExpr struct {
	Condition Expr
	Then      Node
	Else      Node
}

func (e *IfExpr) Children() []Node { return children(e.Condition, e.Then, e.Else) }

type MatchExpr struct {
	Subject Expr
	Cases   []*MatchCase
}

func (e *MatchExpr) Children() []Node {
	out := children(e.Subject)
	for _, c := range e.Cases {
		out = append(out, c)
	}
	return out
}

// MatchCase is one arm of a match. Conditions are Expr, *IsCondition or
// *InCondition values; an else arm has none.
type MatchCase struct {
	Else       bool
	Conditions []Node
	Body       Node
}

func (c *MatchCase) Children() []Node {
	return append(children(c.Conditions...), children(c.Body)...)
}

type IsCondition struct {
	Operator Token // is or !is
	Type     TypeNode
}

func (c *IsCondition) Children() []Node { return children(c.Type) }

type InCondition struct {
	Operator Token // in or !in
	Value    Expr
}

func (c *InCondition) Children() []Node { return children(c.Value) }

// JumpExpr is return, break or continue.
type JumpExpr struct {
	Keyword Token
	Value   Expr
}

func (e *JumpExpr) Children() []Node { return children(e.Value) }

// ReferenceExpr is a callable reference, ::name.
type ReferenceExpr struct {
	Operator Token
	Name     *Identifier
}

func (e *ReferenceExpr) Children() []Node { return children(e.Name) }

type PrefixExpr struct {
	Operator Token
	Operand  Expr
}

func (e *PrefixExpr) Children() []Node { return children(e.Operand) }

type BinaryExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

func (e *BinaryExpr) Children() []Node { return children(e.Left, e.Right) }

// TypeTestExpr is x is T or x !is T.
type TypeTestExpr struct {
	Left     Expr
	Operator Token
	Type     TypeNode
}

func (e *TypeTestExpr) Children() []Node { return children(e.Left, e.Type) }

// CastExpr is x as T or x as? T.
type CastExpr struct {
	Left     Expr
	Operator Token
	Type     TypeNode
}

func (e *CastExpr) Children() []Node { return children(e.Left, e.Type) }

// InfixFunctionCall is a call written as left name right.
type InfixFunctionCall struct {
	Left     Expr
	Function *Identifier
	Right    Expr
}

func (e *InfixFunctionCall) Children() []Node { return children(e.Left, e.Function, e.Right) }

type CallExpr struct {
	Callee    Expr
	Arguments *ValueArgumentList
}

func (e *CallExpr) Children() []Node { return children(e.Callee, e.Arguments) }

type ValueArgumentList struct {
	Arguments []*ValueArgument
}

func (l *ValueArgumentList) Children() []Node {
	out := make([]Node, 0, len(l.Arguments))
	for _, a := range l.Arguments {
		out = append(out, a)
	}
	return out
}

// ValueArgument is a call argument; Name is set for name = value arguments.
type ValueArgument struct {
	Name  *Identifier
	Value Expr
}

func (a *ValueArgument) Children() []Node { return children(a.Name, a.Value) }

type IndexExpr struct {
	Target  Expr
	Indices []Expr
}

func (e *IndexExpr) Children() []Node {
	out := children(e.Target)
	for _, i := range e.Indices {
		out = append(out, children(i)...)
	}
	return out
}

// NavigationExpr is target.name or target?.name where target is not a
// plain dotted name.
type NavigationExpr struct {
	Target   Expr
	Operator Token
	Name     *Identifier
}

func (e *NavigationExpr) Children() []Node { return children(e.Target, e.Name) }

// PostfixExpr is x!!.
type PostfixExpr struct {
	Operand  Expr
	Operator Token
}

func (e *PostfixExpr) Children() []Node { return children(e.Operand) }

// BadExpr marks an expression that failed to parse.
type BadExpr struct {
	At Token
}

func (e *BadExpr) Children() []Node { return nil }

func (*LiteralExpr) exprNode()       {}
func (*ThisExpr) exprNode()          {}
func (*NameExpr) exprNode()          {}
func (*ParenExpr) exprNode()         {}
func (*IfExpr) exprNode()            {}
func (*MatchExpr) exprNode()         {}
func (*JumpExpr) exprNode()          {}
func (*ReferenceExpr) exprNode()     {}
func (*PrefixExpr) exprNode()        {}
func (*BinaryExpr) exprNode()        {}
func (*TypeTestExpr) exprNode()      {}
func (*CastExpr) exprNode()          {}
func (*InfixFunctionCall) exprNode() {}
func (*CallExpr) exprNode()          {}
func (*IndexExpr) exprNode()         {}
func (*NavigationExpr) exprNode()    {}
func (*PostfixExpr) exprNode()       {}
func (*BadExpr) exprNode()           {}

// Walk calls fn for n and then, if fn returns true, for each child in
// depth-first order.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || isNilNode(n) {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}
