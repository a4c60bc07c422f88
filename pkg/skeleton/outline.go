package skeleton

import "strings"

// TypeKind says whether an outline entry names a data-like type (data or
// typealias) or a trait.
type TypeKind int

const (
	TypeKindData TypeKind = iota
	TypeKindTrait
)

func (k TypeKind) String() string {
	if k == TypeKindTrait {
		return "trait"
	}
	return "data"
}

// QualifiedType is a type declared somewhere in a package, named by its
// dotted path from the package root, e.g. Outer.Inner.
type QualifiedType struct {
	Package string   `json:"package"`
	Name    string   `json:"name"`
	Kind    TypeKind `json:"-"`
}

func (q QualifiedType) String() string {
	if q.Package == "" {
		return q.Name
	}
	return q.Package + "." + q.Name
}

// Outline lists every data, typealias and trait declaration of pkg in
// declaration order, with nested types qualified by their enclosing types.
// Members of an impl are listed under the enclosing path, impls have no
// name of their own.
func Outline(pkg *Package) []QualifiedType {
	o := &outliner{pkg: strings.Join(pkg.NameParts, ".")}
	o.walk(pkg.Declarations)
	return o.out
}

type outliner struct {
	pkg    string
	prefix []string
	out    []QualifiedType
}

func (o *outliner) walk(decls []Declaration) {
	for _, d := range decls {
		switch d := d.(type) {
		case *Data:
			o.enter(d.Name, TypeKindData, d.Members)
		case *Typealias:
			o.enter(d.Name, TypeKindData, nil)
		case *Trait:
			o.enter(d.Name, TypeKindTrait, d.Members)
		case *Impl:
			o.walk(d.Members)
		}
	}
}

func (o *outliner) enter(name string, kind TypeKind, members []Declaration) {
	o.prefix = append(o.prefix, name)
	o.out = append(o.out, QualifiedType{
		Package: o.pkg,
		Name:    strings.Join(o.prefix, "."),
		Kind:    kind,
	})
	o.walk(members)
	o.prefix = o.prefix[:len(o.prefix)-1]
}
