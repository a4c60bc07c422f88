// Package scope builds the lexical scope tree of a declaration skeleton and
// binds identifier occurrences in the syntax tree to the symbols they name.
package scope

import (
	"sort"

	"github.com/walteh/yurinview/pkg/skeleton"
)

// Scope maps names to symbols. Lookups that miss walk up to the parent.
type Scope struct {
	symbols  map[string]skeleton.Symbol
	parent   *Scope
	owner    skeleton.Declaration
	children []*Scope
}

func newScope(parent *Scope, owner skeleton.Declaration) *Scope {
	s := &Scope{symbols: map[string]skeleton.Symbol{}, parent: parent, owner: owner}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Declare binds name in this scope. A later declaration of the same name
// replaces the earlier one.
func (s *Scope) Declare(name string, sym skeleton.Symbol) {
	s.symbols[name] = sym
}

// Local looks name up in this scope only.
func (s *Scope) Local(name string) (skeleton.Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Lookup searches this scope and then each ancestor; the nearest
// declaration wins. The scope that held the name is returned too.
func (s *Scope) Lookup(name string) (skeleton.Symbol, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, cur, true
		}
	}
	return nil, nil, false
}

func (s *Scope) Parent() *Scope { return s.parent }

// Owner returns the declaration that introduced the scope, nil for the root.
func (s *Scope) Owner() skeleton.Declaration { return s.owner }

func (s *Scope) Children() []*Scope { return s.children }

// Names returns the names declared directly in this scope, sorted.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.symbols))
	for n := range s.symbols {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Tree is the scope tree of one package.
type Tree struct {
	Root   *Scope
	scopes map[skeleton.Declaration]*Scope
}

// ScopeOf returns the scope a declaration introduced. Only data, trait,
// typealias and function declarations introduce scopes.
func (t *Tree) ScopeOf(d skeleton.Declaration) (*Scope, bool) {
	s, ok := t.scopes[d]
	return s, ok
}

// Len returns the number of scopes, the root included.
func (t *Tree) Len() int {
	return len(t.scopes) + 1
}

// Build creates the scope tree of pkg. The root scope holds the top-level
// declarations. Data, trait, typealias and function declarations each get
// a child scope holding their type parameters; data and trait scopes also
// hold their members, and function scopes (and data primary constructors)
// their value parameters.
func Build(pkg *skeleton.Package) *Tree {
	b := &builder{tree: &Tree{scopes: map[skeleton.Declaration]*Scope{}}}
	b.tree.Root = newScope(nil, nil)
	b.current = b.tree.Root

	b.declareAll(pkg.Declarations)
	b.visitAll(pkg.Declarations)

	if b.current != b.tree.Root {
		panic("scope: unbalanced scope stack")
	}
	return b.tree
}

type builder struct {
	tree    *Tree
	current *Scope
}

func (b *builder) enter(owner skeleton.Declaration) {
	b.current = newScope(b.current, owner)
	b.tree.scopes[owner] = b.current
}

func (b *builder) exit() {
	if b.current.parent == nil {
		panic("scope: exit below the root scope")
	}
	b.current = b.current.parent
}

func (b *builder) declare(d skeleton.Declaration) {
	if name, ok := skeleton.NameOf(d); ok {
		b.current.Declare(name, d)
	}
}

func (b *builder) declareAll(decls []skeleton.Declaration) {
	for _, d := range decls {
		b.declare(d)
	}
}

func (b *builder) declareTypeParameters(params []*skeleton.TypeParameter) {
	for _, p := range params {
		b.current.Declare(p.Name, p)
	}
}

func (b *builder) declareValueParameters(params []*skeleton.ValueParameter) {
	for _, p := range params {
		b.current.Declare(p.Name, p)
	}
}

func (b *builder) visitAll(decls []skeleton.Declaration) {
	for _, d := range decls {
		b.visit(d)
	}
}

func (b *builder) visit(d skeleton.Declaration) {
	switch d := d.(type) {
	case *skeleton.Data:
		b.enter(d)
		b.declareTypeParameters(d.TypeParameters)
		b.declareAll(d.Members)
		b.visitAll(d.Members)
		b.declareValueParameters(d.ValueParameters)
		b.exit()
	case *skeleton.Trait:
		b.enter(d)
		b.declareTypeParameters(d.TypeParameters)
		b.declareAll(d.Members)
		b.visitAll(d.Members)
		b.exit()
	case *skeleton.Typealias:
		b.enter(d)
		b.declareTypeParameters(d.TypeParameters)
		b.exit()
	case *skeleton.Function:
		b.enter(d)
		b.declareTypeParameters(d.TypeParameters)
		b.declareValueParameters(d.ValueParameters)
		b.exit()
	case *skeleton.Impl:
		b.visitAll(d.Members)
	}
}
