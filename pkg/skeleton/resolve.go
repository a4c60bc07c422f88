package skeleton

// Match is one segment of a dotted reference that resolved to a
// declaration. Segment indexes the reference's segments.
type Match struct {
	Segment     int
	Declaration Declaration
}

// ResolveQualified resolves a reference written with the package name in
// front, e.g. a.b.Foo.bar inside package a.b. The package segments are
// consumed without producing matches. A package without a name never
// matches.
func (p *Package) ResolveQualified(segments []string) []Match {
	if len(p.NameParts) == 0 || len(segments) < len(p.NameParts) {
		return nil
	}
	for i, part := range p.NameParts {
		if segments[i] != part {
			return nil
		}
	}
	return p.resolveFrom(segments, len(p.NameParts))
}

// ResolveLocal resolves a reference starting at the package's top-level
// declarations.
func (p *Package) ResolveLocal(segments []string) []Match {
	return p.resolveFrom(segments, 0)
}

// resolveFrom matches segments[start:] one at a time and stops at the first
// miss. Matches made before the miss are kept.
func (p *Package) resolveFrom(segments []string, start int) []Match {
	if start >= len(segments) {
		return nil
	}
	d, ok := p.Lookup(segments[start])
	if !ok {
		return nil
	}
	return append([]Match{{Segment: start, Declaration: d}}, Continue(d, segments, start+1)...)
}

// Continue resolves segments[start:] as members of container, applying the
// same member rules as a package walk.
func Continue(container Declaration, segments []string, start int) []Match {
	var out []Match
	for i := start; i < len(segments); i++ {
		d, ok := FindMember(container, segments[i])
		if !ok {
			return out
		}
		out = append(out, Match{Segment: i, Declaration: d})
		container = d
	}
	return out
}
