package skeleton

import (
	"fmt"
	"strings"
)

// Dump renders a symbol and everything it owns as an indented, multi-line
// tree:
//
//	Data(
//	  modifiers = [
//	    Singleton
//	  ]
//	  flavor = None
//	  name = Foo
//	  ...
//	)
func Dump(sym Symbol) string {
	switch s := sym.(type) {
	case nil:
		return "<none>"
	case *Package:
		return record("Package",
			field{"nameParts", list(s.NameParts, func(p string) string { return p })},
			field{"declarations", list(s.Declarations, dumpDeclaration)},
		)
	case Declaration:
		return dumpDeclaration(s)
	case TypeReference:
		return dumpType(s)
	case *TypeParameter:
		return record("TypeParameter", field{"name", s.Name})
	case *ValueParameter:
		return record("ValueParameter",
			field{"name", s.Name},
			field{"type", dumpType(s.Type)},
		)
	}
	return fmt.Sprintf("%T", sym)
}

func dumpDeclaration(d Declaration) string {
	switch d := d.(type) {
	case *Data:
		return record("Data",
			field{"modifiers", dumpModifiers(d.Modifiers)},
			field{"flavor", d.Flavor.String()},
			field{"name", d.Name},
			field{"typeParameters", list(d.TypeParameters, dumpTypeParameter)},
			field{"valueParameters", list(d.ValueParameters, dumpValueParameter)},
			field{"bindings", list(d.Bindings, dumpType)},
			field{"members", list(d.Members, dumpDeclaration)},
		)
	case *Trait:
		return record("Trait",
			field{"modifiers", dumpModifiers(d.Modifiers)},
			field{"name", d.Name},
			field{"typeParameters", list(d.TypeParameters, dumpTypeParameter)},
			field{"inherits", list(d.Inherits, dumpType)},
			field{"members", list(d.Members, dumpDeclaration)},
		)
	case *Typealias:
		return record("Typealias",
			field{"modifiers", dumpModifiers(d.Modifiers)},
			field{"name", d.Name},
			field{"typeParameters", list(d.TypeParameters, dumpTypeParameter)},
			field{"expanded", dumpType(d.Expanded)},
		)
	case *Effect:
		return record("Effect",
			field{"modifiers", dumpModifiers(d.Modifiers)},
			field{"name", d.Name},
			field{"typeParameters", list(d.TypeParameters, dumpTypeParameter)},
		)
	case *Impl:
		return record("Impl",
			field{"modifiers", dumpModifiers(d.Modifiers)},
			field{"dataType", dumpType(d.DataType)},
			field{"traitType", dumpType(d.TraitType)},
			field{"members", list(d.Members, dumpDeclaration)},
		)
	case *Function:
		return record("Function",
			field{"modifiers", dumpModifiers(d.Modifiers)},
			field{"receiver", dumpType(d.Receiver)},
			field{"name", d.Name},
			field{"typeParameters", list(d.TypeParameters, dumpTypeParameter)},
			field{"valueParameters", list(d.ValueParameters, dumpValueParameter)},
			field{"return", dumpType(d.Return)},
			field{"effects", list(d.Effects, dumpType)},
		)
	case *Property:
		return record("Property",
			field{"modifiers", dumpModifiers(d.Modifiers)},
			field{"mutable", fmt.Sprint(d.Mutable)},
			field{"receiver", dumpType(d.Receiver)},
			field{"name", d.Name},
			field{"typeParameters", list(d.TypeParameters, dumpTypeParameter)},
			field{"return", dumpType(d.Return)},
			field{"effects", list(d.Effects, dumpType)},
		)
	}
	return fmt.Sprintf("%T", d)
}

func dumpType(t TypeReference) string {
	switch t := t.(type) {
	case nil:
		return "<none>"
	case DynamicType:
		return "Type.Dynamic"
	case NothingType:
		return "Type.Nothing"
	case *RegularType:
		return record("Type.Regular",
			field{"existential", fmt.Sprint(t.Existential)},
			field{"segments", list(t.Segments, func(s string) string { return s })},
			field{"arguments", list(t.Arguments, dumpType)},
			field{"nullable", fmt.Sprint(t.Nullable)},
		)
	}
	return fmt.Sprintf("%T", t)
}

func dumpModifiers(m Modifiers) string {
	return list(m, Modifier.String)
}

func dumpTypeParameter(p *TypeParameter) string { return Dump(p) }

func dumpValueParameter(p *ValueParameter) string { return Dump(p) }

type field struct {
	name  string
	value string
}

func record(name string, fields ...field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, f.name+" = "+f.value)
	}
	return name + "(\n" + indent(strings.Join(lines, "\n")) + "\n)"
}

func list[T any](items []T, render func(T) string) string {
	if len(items) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, render(it))
	}
	return "[\n" + indent(strings.Join(parts, "\n")) + "\n]"
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
