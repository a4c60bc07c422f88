// Package skeleton extracts the declaration skeleton of a parsed source
// unit: a tree of lightweight symbols mirroring the declaration nesting of
// the source, used as the symbol table by the resolver.
//
// The builder performs no name resolution. It only fails when the tree
// contains something its static tables do not know, which means the engine
// and the grammar are out of sync:
//
//	ErrInternal
//	├── ErrUnknownModifier   modifier token with no Modifier counterpart
//	└── ErrUnexpectedNode    AST node kind the builder has no case for
//
// Declarations the parser could only partially recover (no name, a
// typealias without a type, ...) are left out of the skeleton because the
// parser has already reported them.
package skeleton

import (
	"github.com/walteh/yurinview/pkg/grammar"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrInternal        = errors.Base("internal error")
	ErrUnknownModifier = errors.BaseWrap(ErrInternal, "unknown modifier")
	ErrUnexpectedNode  = errors.BaseWrap(ErrInternal, "unexpected node")
)

// Index maps AST nodes to the symbols built from them.
type Index struct {
	declarations    map[grammar.Declaration]Declaration
	typeParameters  map[*grammar.TypeParameter]*TypeParameter
	valueParameters map[*grammar.ValueParameter]*ValueParameter
}

func newIndex() *Index {
	return &Index{
		declarations:    map[grammar.Declaration]Declaration{},
		typeParameters:  map[*grammar.TypeParameter]*TypeParameter{},
		valueParameters: map[*grammar.ValueParameter]*ValueParameter{},
	}
}

// Declaration returns the symbol built for an AST declaration.
func (x *Index) Declaration(n grammar.Declaration) (Declaration, bool) {
	d, ok := x.declarations[n]
	return d, ok
}

func (x *Index) TypeParameter(n *grammar.TypeParameter) (*TypeParameter, bool) {
	p, ok := x.typeParameters[n]
	return p, ok
}

func (x *Index) ValueParameter(n *grammar.ValueParameter) (*ValueParameter, bool) {
	p, ok := x.valueParameters[n]
	return p, ok
}

// Len returns the number of indexed declarations.
func (x *Index) Len() int {
	return len(x.declarations)
}

// Build returns the skeleton of file.
func Build(file *grammar.File) (*Package, error) {
	pkg, _, err := BuildIndexed(file)
	return pkg, err
}

// BuildIndexed returns the skeleton of file together with the index from
// AST nodes to symbols.
func BuildIndexed(file *grammar.File) (*Package, *Index, error) {
	b := &builder{index: newIndex()}
	if file == nil {
		return &Package{}, b.index, nil
	}

	decls, err := b.declarations(file.Declarations)
	if err != nil {
		return nil, nil, err
	}

	return &Package{
		NameParts:    file.PackageParts(),
		Declarations: decls,
	}, b.index, nil
}

type builder struct {
	index *Index
}

func (b *builder) declarations(nodes []grammar.Declaration) ([]Declaration, error) {
	out := make([]Declaration, 0, len(nodes))
	for _, n := range nodes {
		d, err := b.declaration(n)
		if err != nil {
			return nil, err
		}
		if d != nil {
			b.index.declarations[n] = d
			out = append(out, d)
		}
	}
	return out, nil
}

func (b *builder) declaration(n grammar.Declaration) (Declaration, error) {
	switch n := n.(type) {
	case *grammar.BadDeclaration:
		return nil, nil
	case *grammar.DataDeclaration:
		return b.data(n)
	case *grammar.TraitDeclaration:
		return b.trait(n)
	case *grammar.TypealiasDeclaration:
		return b.typealias(n)
	case *grammar.EffectDeclaration:
		return b.effect(n)
	case *grammar.ImplDeclaration:
		return b.impl(n)
	case *grammar.FunctionDeclaration:
		return b.function(n)
	case *grammar.PropertyDeclaration:
		return b.property(n)
	}
	return nil, errors.Errorf("%w: declaration %T", ErrUnexpectedNode, n)
}

func (b *builder) data(n *grammar.DataDeclaration) (Declaration, error) {
	if n.Name == nil {
		return nil, nil
	}
	mods, err := modifiers(n.Modifiers)
	if err != nil {
		return nil, err
	}
	flavor := FlavorNone
	if n.Flavor != nil {
		switch n.Flavor.Kind {
		case grammar.KindVal:
			flavor = FlavorValue
		case grammar.KindRef:
			flavor = FlavorReference
		}
	}
	params, err := b.valueParameters(n.ValueParameters)
	if err != nil {
		return nil, err
	}
	bindings, err := typeReferences(n.Bindings)
	if err != nil {
		return nil, err
	}
	members, err := b.body(n.Body)
	if err != nil {
		return nil, err
	}
	return &Data{
		Modifiers:       mods,
		Flavor:          flavor,
		Name:            n.Name.Name(),
		TypeParameters:  b.typeParameters(n.TypeParameters),
		ValueParameters: params,
		Bindings:        bindings,
		Members:         members,
	}, nil
}

func (b *builder) trait(n *grammar.TraitDeclaration) (Declaration, error) {
	if n.Name == nil {
		return nil, nil
	}
	mods, err := modifiers(n.Modifiers)
	if err != nil {
		return nil, err
	}
	inherits, err := typeReferences(n.Inherits)
	if err != nil {
		return nil, err
	}
	members, err := b.body(n.Body)
	if err != nil {
		return nil, err
	}
	return &Trait{
		Modifiers:      mods,
		Name:           n.Name.Name(),
		TypeParameters: b.typeParameters(n.TypeParameters),
		Inherits:       inherits,
		Members:        members,
	}, nil
}

func (b *builder) typealias(n *grammar.TypealiasDeclaration) (Declaration, error) {
	if n.Name == nil || n.Type == nil {
		return nil, nil
	}
	mods, err := modifiers(n.Modifiers)
	if err != nil {
		return nil, err
	}
	expanded, err := typeReference(n.Type)
	if err != nil {
		return nil, err
	}
	return &Typealias{
		Modifiers:      mods,
		Name:           n.Name.Name(),
		TypeParameters: b.typeParameters(n.TypeParameters),
		Expanded:       expanded,
	}, nil
}

func (b *builder) effect(n *grammar.EffectDeclaration) (Declaration, error) {
	if n.Name == nil {
		return nil, nil
	}
	mods, err := modifiers(n.Modifiers)
	if err != nil {
		return nil, err
	}
	return &Effect{
		Modifiers:      mods,
		Name:           n.Name.Name(),
		TypeParameters: b.typeParameters(n.TypeParameters),
	}, nil
}

func (b *builder) impl(n *grammar.ImplDeclaration) (Declaration, error) {
	if n.DataType == nil || n.TraitType == nil {
		return nil, nil
	}
	mods, err := modifiers(n.Modifiers)
	if err != nil {
		return nil, err
	}
	dataType, err := typeReference(n.DataType)
	if err != nil {
		return nil, err
	}
	traitType, err := typeReference(n.TraitType)
	if err != nil {
		return nil, err
	}
	members, err := b.body(n.Body)
	if err != nil {
		return nil, err
	}
	return &Impl{
		Modifiers: mods,
		DataType:  dataType,
		TraitType: traitType,
		Members:   members,
	}, nil
}

func (b *builder) function(n *grammar.FunctionDeclaration) (Declaration, error) {
	if n.Name == nil {
		return nil, nil
	}
	mods, err := modifiers(n.Modifiers)
	if err != nil {
		return nil, err
	}
	receiver, err := typeReference(n.Receiver)
	if err != nil {
		return nil, err
	}
	params, err := b.valueParameters(n.ValueParameters)
	if err != nil {
		return nil, err
	}
	ret, err := typeReference(n.ReturnType)
	if err != nil {
		return nil, err
	}
	effects, err := typeReferences(n.Effects)
	if err != nil {
		return nil, err
	}
	return &Function{
		Modifiers:       mods,
		Receiver:        receiver,
		Name:            n.Name.Name(),
		TypeParameters:  b.typeParameters(n.TypeParameters),
		ValueParameters: params,
		Return:          ret,
		Effects:         effects,
	}, nil
}

func (b *builder) property(n *grammar.PropertyDeclaration) (Declaration, error) {
	if n.Name == nil {
		return nil, nil
	}
	mods, err := modifiers(n.Modifiers)
	if err != nil {
		return nil, err
	}
	receiver, err := typeReference(n.Receiver)
	if err != nil {
		return nil, err
	}
	ret, err := typeReference(n.Type)
	if err != nil {
		return nil, err
	}
	effects, err := typeReferences(n.Effects)
	if err != nil {
		return nil, err
	}
	return &Property{
		Modifiers:      mods,
		Mutable:        n.Keyword.Kind == grammar.KindVar,
		Receiver:       receiver,
		Name:           n.Name.Name(),
		TypeParameters: b.typeParameters(n.TypeParameters),
		Return:         ret,
		Effects:        effects,
	}, nil
}

func (b *builder) body(n *grammar.TypeBody) ([]Declaration, error) {
	if n == nil {
		return nil, nil
	}
	return b.declarations(n.Members)
}

func (b *builder) typeParameters(n *grammar.TypeParameterList) []*TypeParameter {
	if n == nil {
		return nil
	}
	out := make([]*TypeParameter, 0, len(n.Parameters))
	for _, p := range n.Parameters {
		if p.Name == nil {
			continue
		}
		sym := &TypeParameter{Name: p.Name.Name()}
		b.index.typeParameters[p] = sym
		out = append(out, sym)
	}
	return out
}

// valueParameters skips parameters the parser recovered without a name or
// a type.
func (b *builder) valueParameters(n *grammar.ValueParameterList) ([]*ValueParameter, error) {
	if n == nil {
		return nil, nil
	}
	out := make([]*ValueParameter, 0, len(n.Parameters))
	for _, p := range n.Parameters {
		if p.Name == nil || p.Type == nil {
			continue
		}
		typ, err := typeReference(p.Type)
		if err != nil {
			return nil, err
		}
		sym := &ValueParameter{Name: p.Name.Name(), Type: typ}
		b.index.valueParameters[p] = sym
		out = append(out, sym)
	}
	return out, nil
}

func modifiers(nodes []*grammar.Modifier) (Modifiers, error) {
	out := make(Modifiers, 0, len(nodes))
	for _, n := range nodes {
		m, err := modifierOf(n.Token)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

var modifierKinds = map[grammar.Kind]Modifier{
	grammar.KindOpen:       ModifierOpen,
	grammar.KindSealed:     ModifierSealed,
	grammar.KindAbstract:   ModifierAbstract,
	grammar.KindOperator:   ModifierOperator,
	grammar.KindSingleton:  ModifierSingleton,
	grammar.KindImpl:       ModifierImpl,
	grammar.KindPublic:     ModifierPublic,
	grammar.KindRestricted: ModifierRestricted,
	grammar.KindInternal:   ModifierInternal,
	grammar.KindPrivate:    ModifierPrivate,
}

func modifierOf(tok grammar.Token) (Modifier, error) {
	m, ok := modifierKinds[tok.Kind]
	if !ok {
		return 0, errors.Errorf("%w: %s %q at %d:%d", ErrUnknownModifier, tok.Kind, tok.Text, tok.Line, tok.Column)
	}
	return m, nil
}

// typeReference returns nil for an absent type.
func typeReference(n grammar.TypeNode) (TypeReference, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil
	case *grammar.ParenthesizedType:
		return typeReference(n.Inner)
	case *grammar.NothingType:
		return Nothing, nil
	case *grammar.DynamicType:
		return Dynamic, nil
	case *grammar.RegularType:
		if n.Name == nil {
			return nil, nil
		}
		args, err := typeReferences(n.Arguments)
		if err != nil {
			return nil, err
		}
		return &RegularType{
			Existential: n.Existential,
			Segments:    n.Name.Strings(),
			Arguments:   args,
			Nullable:    n.Nullable,
		}, nil
	}
	return nil, errors.Errorf("%w: type %T", ErrUnexpectedNode, n)
}

func typeReferences(nodes []grammar.TypeNode) ([]TypeReference, error) {
	out := make([]TypeReference, 0, len(nodes))
	for _, n := range nodes {
		t, err := typeReference(n)
		if err != nil {
			return nil, err
		}
		if t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}
