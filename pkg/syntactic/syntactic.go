/*
Package syntactic tags declaration sites and call syntax from the shape of
the syntax tree alone:

	Node                     Styled token          Category
	----                     ------------          --------
	data / typealias         declared name         data-declaration
	trait                    declared name         trait-declaration
	effect                   declared name         effect-declaration
	fun                      declared name         function-declaration
	val / var (member)       declared name         property-declaration
	value parameter          parameter name        property-declaration
	val / var (local)        variable name         property-declaration
	name = value argument    argument name         named-value-argument
	a to b                   infix function name   function-call

Every other node is visited for its children and styles nothing. The pass
never looks at the skeleton or the scope tree.
*/
package syntactic

import (
	"github.com/walteh/yurinview/pkg/grammar"
	"github.com/walteh/yurinview/pkg/style"
)

// Highlight walks file and returns the declaration-site and call-syntax
// highlights in tree order.
func Highlight(file *grammar.File, theme style.Theme) []style.Highlight {
	if file == nil {
		return nil
	}
	v := &visitor{theme: theme}
	v.visitNode(file)
	return v.out
}

type visitor struct {
	theme style.Theme
	out   []style.Highlight
}

func (v *visitor) visitNode(n grammar.Node) {
	switch n := n.(type) {
	case *grammar.DataDeclaration:
		v.visitDeclaration(n, n.Name, style.CategoryDataDeclaration)
	case *grammar.TraitDeclaration:
		v.visitDeclaration(n, n.Name, style.CategoryTraitDeclaration)
	case *grammar.TypealiasDeclaration:
		v.visitDeclaration(n, n.Name, style.CategoryDataDeclaration)
	case *grammar.EffectDeclaration:
		v.visitDeclaration(n, n.Name, style.CategoryEffectDeclaration)
	case *grammar.FunctionDeclaration:
		v.visitDeclaration(n, n.Name, style.CategoryFunctionDeclaration)
	case *grammar.PropertyDeclaration:
		v.visitDeclaration(n, n.Name, style.CategoryPropertyDeclaration)
	case *grammar.ValueParameter:
		v.visitDeclaration(n, n.Name, style.CategoryPropertyDeclaration)
	case *grammar.VariableStatement:
		v.visitDeclaration(n, n.Name, style.CategoryPropertyDeclaration)
	case *grammar.ValueArgument:
		v.visitValueArgument(n)
	case *grammar.InfixFunctionCall:
		v.visitInfixCall(n)
	default:
		v.visitChildren(n)
	}
}

func (v *visitor) visitChildren(n grammar.Node) {
	for _, c := range n.Children() {
		v.visitNode(c)
	}
}

// visitDeclaration styles the declared name and visits every other child
// unchanged.
func (v *visitor) visitDeclaration(n grammar.Node, name *grammar.Identifier, cat style.Category) {
	for _, c := range n.Children() {
		if id, ok := c.(*grammar.Identifier); ok && id == name {
			v.identifier(id, cat)
			continue
		}
		v.visitNode(c)
	}
}

func (v *visitor) visitValueArgument(n *grammar.ValueArgument) {
	if n.Name != nil {
		v.identifier(n.Name, style.CategoryNamedValueArgument)
	}
	if n.Value != nil {
		v.visitNode(n.Value)
	}
}

func (v *visitor) visitInfixCall(n *grammar.InfixFunctionCall) {
	if n.Left != nil {
		v.visitNode(n.Left)
	}
	if n.Right != nil {
		v.visitNode(n.Right)
	}
	if n.Function != nil {
		v.identifier(n.Function, style.CategoryFunctionCall)
	}
}

func (v *visitor) identifier(id *grammar.Identifier, cat style.Category) {
	if h, ok := v.theme.Highlight(id.Token.Start, id.Token.End, cat); ok {
		v.out = append(v.out, h)
	}
}
