package scope

import (
	"github.com/walteh/yurinview/pkg/grammar"
	"github.com/walteh/yurinview/pkg/skeleton"
)

// Binding ties one identifier occurrence to the symbol it names.
type Binding struct {
	Token  grammar.Token
	Symbol skeleton.Symbol
}

// Bind resolves every dotted identifier reference in file.
//
// The first segment is looked up through the scope chain of the innermost
// enclosing declaration that introduced a scope. When the chain has no such
// name, the reference is resolved against the package the way the semantic
// resolver does it: package-qualified first, then from the top-level
// declarations. Later segments are members of the previous match. Parameters
// have no members, so a parameter ends the chain. The first segment that
// misses ends the reference; earlier segments stay bound.
func Bind(file *grammar.File, pkg *skeleton.Package, index *skeleton.Index, tree *Tree) []Binding {
	if file == nil {
		return nil
	}
	b := &binder{pkg: pkg, index: index, tree: tree}
	b.node(file, tree.Root)
	return b.out
}

type binder struct {
	pkg   *skeleton.Package
	index *skeleton.Index
	tree  *Tree
	out   []Binding
}

func (b *binder) node(n grammar.Node, s *Scope) {
	switch n := n.(type) {
	case *grammar.TypeIdentifier:
		b.reference(n, s)
		return
	case grammar.Declaration:
		if sym, ok := b.index.Declaration(n); ok {
			if inner, ok := b.tree.ScopeOf(sym); ok {
				s = inner
			}
		}
	}
	for _, c := range n.Children() {
		b.node(c, s)
	}
}

func (b *binder) reference(ref *grammar.TypeIdentifier, s *Scope) {
	if len(ref.Parts) == 0 {
		return
	}
	segments := ref.Strings()

	sym, _, ok := s.Lookup(segments[0])
	if !ok {
		matches := b.pkg.ResolveQualified(segments)
		if len(matches) == 0 {
			matches = b.pkg.ResolveLocal(segments)
		}
		b.bindMatches(ref, matches)
		return
	}

	b.out = append(b.out, Binding{Token: ref.Parts[0].Token, Symbol: sym})
	if d, ok := sym.(skeleton.Declaration); ok {
		b.bindMatches(ref, skeleton.Continue(d, segments, 1))
	}
}

func (b *binder) bindMatches(ref *grammar.TypeIdentifier, matches []skeleton.Match) {
	for _, m := range matches {
		b.out = append(b.out, Binding{Token: ref.Parts[m.Segment].Token, Symbol: m.Declaration})
	}
}
