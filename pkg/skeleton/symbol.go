package skeleton

import (
	"slices"
	"strings"
)

// Symbol is implemented by every node of the skeleton: *Package, the
// Declaration variants, the TypeReference variants, *TypeParameter and
// *ValueParameter.
type Symbol interface {
	symbol()
}

// Declaration is one of *Data, *Trait, *Typealias, *Effect, *Impl,
// *Function or *Property.
type Declaration interface {
	Symbol
	Has(m Modifier) bool
	declaration()
}

// TypeReference is one of *RegularType, DynamicType or NothingType.
type TypeReference interface {
	Symbol
	typeReference()
}

// Modifier is a declaration modifier.
type Modifier int

const (
	ModifierOpen Modifier = iota
	ModifierSealed
	ModifierAbstract
	ModifierOperator
	ModifierSingleton
	ModifierImpl
	ModifierPublic
	ModifierRestricted
	ModifierInternal
	ModifierPrivate
)

var modifierNames = [...]string{
	ModifierOpen:       "Open",
	ModifierSealed:     "Sealed",
	ModifierAbstract:   "Abstract",
	ModifierOperator:   "Operator",
	ModifierSingleton:  "Singleton",
	ModifierImpl:       "Impl",
	ModifierPublic:     "Public",
	ModifierRestricted: "Restricted",
	ModifierInternal:   "Internal",
	ModifierPrivate:    "Private",
}

func (m Modifier) String() string {
	if m < 0 || int(m) >= len(modifierNames) {
		return "Modifier(?)"
	}
	return modifierNames[m]
}

// Modifiers is the modifier list every declaration carries, in source
// order.
type Modifiers []Modifier

func (m Modifiers) Has(mod Modifier) bool {
	return slices.Contains(m, mod)
}

// Flavor distinguishes val data from ref data.
type Flavor int

const (
	FlavorNone Flavor = iota
	FlavorValue
	FlavorReference
)

func (f Flavor) String() string {
	switch f {
	case FlavorValue:
		return "Value"
	case FlavorReference:
		return "Reference"
	}
	return "None"
}

// Package is the root of a skeleton, one per source unit.
type Package struct {
	NameParts    []string
	Declarations []Declaration
}

// Lookup returns the top-level declaration with the given name.
func (p *Package) Lookup(name string) (Declaration, bool) {
	return findNamed(p.Declarations, name)
}

// Qualifies reports whether parts equals the package name.
func (p *Package) Qualifies(parts []string) bool {
	return slices.Equal(p.NameParts, parts)
}

func (p *Package) String() string {
	return strings.Join(p.NameParts, ".")
}

type Data struct {
	Modifiers
	Flavor          Flavor
	Name            string
	TypeParameters  []*TypeParameter
	ValueParameters []*ValueParameter
	Bindings        []TypeReference
	Members         []Declaration
}

type Trait struct {
	Modifiers
	Name           string
	TypeParameters []*TypeParameter
	Inherits       []TypeReference
	Members        []Declaration
}

type Typealias struct {
	Modifiers
	Name           string
	TypeParameters []*TypeParameter
	Expanded       TypeReference
}

type Effect struct {
	Modifiers
	Name           string
	TypeParameters []*TypeParameter
}

// Impl attaches members of a trait to a data type. It has no name and can
// never be the target of a reference.
type Impl struct {
	Modifiers
	DataType  TypeReference
	TraitType TypeReference
	Members   []Declaration
}

type Function struct {
	Modifiers
	Receiver        TypeReference // nil when absent
	Name            string
	TypeParameters  []*TypeParameter
	ValueParameters []*ValueParameter
	Return          TypeReference // nil when absent
	Effects         []TypeReference
}

type Property struct {
	Modifiers
	Mutable        bool
	Receiver       TypeReference
	Name           string
	TypeParameters []*TypeParameter
	Return         TypeReference
	Effects        []TypeReference
}

// RegularType is a written type such as exist a.b.Foo<T>?.
type RegularType struct {
	Existential bool
	Segments    []string
	Arguments   []TypeReference
	Nullable    bool
}

func (t *RegularType) String() string {
	var sb strings.Builder
	if t.Existential {
		sb.WriteString("exist ")
	}
	sb.WriteString(strings.Join(t.Segments, "."))
	if len(t.Arguments) > 0 {
		sb.WriteString("<")
		for i, a := range t.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(typeString(a))
		}
		sb.WriteString(">")
	}
	if t.Nullable {
		sb.WriteString("?")
	}
	return sb.String()
}

type DynamicType struct{}

type NothingType struct{}

var (
	Dynamic TypeReference = DynamicType{}
	Nothing TypeReference = NothingType{}
)

func (DynamicType) String() string { return "dynamic" }
func (NothingType) String() string { return "Nothing" }

func typeString(t TypeReference) string {
	switch t := t.(type) {
	case *RegularType:
		return t.String()
	case DynamicType:
		return t.String()
	case NothingType:
		return t.String()
	}
	return "<none>"
}

type TypeParameter struct {
	Name string
}

type ValueParameter struct {
	Name string
	Type TypeReference
}

func (*Package) symbol()        {}
func (*Data) symbol()           {}
func (*Trait) symbol()          {}
func (*Typealias) symbol()      {}
func (*Effect) symbol()         {}
func (*Impl) symbol()           {}
func (*Function) symbol()       {}
func (*Property) symbol()       {}
func (*RegularType) symbol()    {}
func (DynamicType) symbol()     {}
func (NothingType) symbol()     {}
func (*TypeParameter) symbol()  {}
func (*ValueParameter) symbol() {}

func (*Data) declaration()      {}
func (*Trait) declaration()     {}
func (*Typealias) declaration() {}
func (*Effect) declaration()    {}
func (*Impl) declaration()      {}
func (*Function) declaration()  {}
func (*Property) declaration()  {}

func (*RegularType) typeReference() {}
func (DynamicType) typeReference()  {}
func (NothingType) typeReference()  {}

// NameOf returns the declared name of a declaration. Impl has none.
func NameOf(d Declaration) (string, bool) {
	switch d := d.(type) {
	case *Data:
		return d.Name, true
	case *Trait:
		return d.Name, true
	case *Typealias:
		return d.Name, true
	case *Effect:
		return d.Name, true
	case *Function:
		return d.Name, true
	case *Property:
		return d.Name, true
	}
	return "", false
}

// MembersOf returns the member declarations of a Data, Trait or Impl.
func MembersOf(d Declaration) []Declaration {
	switch d := d.(type) {
	case *Data:
		return d.Members
	case *Trait:
		return d.Members
	case *Impl:
		return d.Members
	}
	return nil
}

// TypeParametersOf returns the generic parameters of a declaration.
func TypeParametersOf(d Declaration) []*TypeParameter {
	switch d := d.(type) {
	case *Data:
		return d.TypeParameters
	case *Trait:
		return d.TypeParameters
	case *Typealias:
		return d.TypeParameters
	case *Effect:
		return d.TypeParameters
	case *Function:
		return d.TypeParameters
	case *Property:
		return d.TypeParameters
	}
	return nil
}

// FindMember returns the member of container named name. Members of a
// function or property kind are only addressable through a singleton
// container; for any other container the second result is false.
func FindMember(container Declaration, name string) (Declaration, bool) {
	switch container.(type) {
	case *Data, *Trait:
	default:
		return nil, false
	}
	m, ok := findNamed(MembersOf(container), name)
	if !ok {
		return nil, false
	}
	switch m.(type) {
	case *Function, *Property:
		if !container.Has(ModifierSingleton) {
			return nil, false
		}
	}
	return m, true
}

func findNamed(decls []Declaration, name string) (Declaration, bool) {
	for _, d := range decls {
		if n, ok := NameOf(d); ok && n == name {
			return d, true
		}
	}
	return nil, false
}
