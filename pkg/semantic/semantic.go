// Package semantic highlights references: every dotted identifier chain in
// the syntax tree is matched against the declaration skeleton, and each
// segment that names a declaration is styled by the declaration's kind.
//
// Resolution is best effort. A segment that does not match ends the chain
// quietly; segments matched before it keep their highlights.
package semantic

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/yurinview/pkg/grammar"
	"github.com/walteh/yurinview/pkg/skeleton"
	"github.com/walteh/yurinview/pkg/style"
)

// CategoryOf returns the reference category of a declaration. Impl
// declarations have none.
func CategoryOf(d skeleton.Declaration) (style.Category, bool) {
	switch d.(type) {
	case *skeleton.Data, *skeleton.Typealias:
		return style.CategoryDataDeclaration, true
	case *skeleton.Trait:
		return style.CategoryTraitDeclaration, true
	case *skeleton.Effect:
		return style.CategoryEffectDeclaration, true
	case *skeleton.Function:
		return style.CategoryFunctionCall, true
	case *skeleton.Property:
		return style.CategoryPropertyDeclaration, true
	}
	return style.CategoryNone, false
}

// Resolve returns the reference highlights of file. Each reference is
// attempted twice: once written package-qualified, and, when pkg was built
// for the package file declares, once from the package's top-level
// declarations. Both attempts contribute highlights.
func Resolve(ctx context.Context, file *grammar.File, pkg *skeleton.Package, theme style.Theme) []style.Highlight {
	if file == nil || pkg == nil {
		return nil
	}
	r := &resolver{
		ctx:   ctx,
		pkg:   pkg,
		local: pkg.Qualifies(file.PackageParts()),
		theme: theme,
	}
	grammar.Walk(file, r.visit)
	return r.out
}

type resolver struct {
	ctx   context.Context
	pkg   *skeleton.Package
	local bool
	theme style.Theme
	out   []style.Highlight
}

func (r *resolver) visit(n grammar.Node) bool {
	ref, ok := n.(*grammar.TypeIdentifier)
	if !ok {
		return true
	}
	if len(ref.Parts) == 0 {
		return false
	}

	segments := ref.Strings()
	var local []skeleton.Match
	if r.local {
		local = r.pkg.ResolveLocal(segments)
		r.emit(ref, local)
	}
	qualified := r.pkg.ResolveQualified(segments)
	r.emit(ref, qualified)

	if reached := max(reach(local), reach(qualified)); reached < len(segments) {
		zerolog.Ctx(r.ctx).Trace().
			Str("reference", strings.Join(segments, ".")).
			Int("resolved", reached).
			Int("line", ref.Parts[0].Token.Line).
			Msg("reference not fully resolved")
	}
	return false
}

// reach returns how many leading segments a resolution attempt covered.
func reach(matches []skeleton.Match) int {
	if len(matches) == 0 {
		return 0
	}
	return matches[len(matches)-1].Segment + 1
}

func (r *resolver) emit(ref *grammar.TypeIdentifier, matches []skeleton.Match) {
	for _, m := range matches {
		cat, ok := CategoryOf(m.Declaration)
		if !ok {
			return
		}
		tok := ref.Parts[m.Segment].Token
		if h, ok := r.theme.Highlight(tok.Start, tok.End, cat); ok {
			r.out = append(r.out, h)
		}
	}
}
