/*
Package highlight runs every analysis pass over one source text and
composes their output.

	source --> grammar.Parse --+--> tokens -------------------> lexical
	                           |
	                           +--> diagnostics --------------> error spans
	                           |
	                           +--> file --+--> syntactic
	                                       |
	                                       +--> skeleton --+--> semantic
	                                                       |
	                                                       +--> scopes --> bindings

	output = lexical + syntactic + semantic + bindings + error spans

Syntax errors never fail a call; they come back as diagnostics and as
error spans. The error return is reserved for internal failures and for a
context that was cancelled between passes.
*/
package highlight

import (
	"context"
	"crypto/sha256"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/yurinview/pkg/diagnostic"
	"github.com/walteh/yurinview/pkg/grammar"
	"github.com/walteh/yurinview/pkg/lexical"
	"github.com/walteh/yurinview/pkg/scope"
	"github.com/walteh/yurinview/pkg/semantic"
	"github.com/walteh/yurinview/pkg/skeleton"
	"github.com/walteh/yurinview/pkg/style"
	"github.com/walteh/yurinview/pkg/syntactic"
)

// Analysis is everything the passes derive from one source text apart from
// highlights. It is read-only once returned and may be shared between
// calls through the engine cache.
type Analysis struct {
	Source      string
	Tokens      []grammar.Token
	File        *grammar.File
	Diagnostics []diagnostic.Diagnostic
	Skeleton    *skeleton.Package
	Index       *skeleton.Index
	Scopes      *scope.Tree
	Bindings    []scope.Binding
	Outline     []skeleton.QualifiedType

	collector *diagnostic.Collector
}

type digest = [sha256.Size]byte

// Engine highlights Yurin source with one theme. An Engine is safe for
// concurrent use.
type Engine struct {
	theme style.Theme
	cache *lru.Cache[digest, *Analysis]
}

type Option func(*Engine)

// WithTheme sets the theme highlights are styled with.
func WithTheme(theme style.Theme) Option {
	return func(e *Engine) {
		e.theme = theme.Clone()
	}
}

// WithCache keeps the analyses of the size most recently seen sources. A
// size of zero or less disables caching.
func WithCache(size int) Option {
	return func(e *Engine) {
		if size <= 0 {
			e.cache = nil
			return
		}
		c, err := lru.New[digest, *Analysis](size)
		if err != nil {
			return
		}
		e.cache = c
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{theme: style.DefaultTheme()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Theme() style.Theme {
	return e.theme
}

func checkpoint(ctx context.Context, next string) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("abandoned before %s: %w", next, err)
	}
	return nil
}

// GetErrors lexes and parses source and returns its syntax errors in the
// order the grammar reported them.
func (e *Engine) GetErrors(ctx context.Context, source string) ([]diagnostic.Diagnostic, error) {
	if a, ok := e.cached(source); ok {
		return slices.Clone(a.Diagnostics), nil
	}
	if err := checkpoint(ctx, "parsing"); err != nil {
		return nil, err
	}

	collector := diagnostic.NewCollector(source)
	if _, _, err := grammar.Parse(source, grammar.WithErrorListener(collector)); err != nil {
		return nil, errors.Errorf("parsing: %w", err)
	}
	return collector.Diagnostics(), nil
}

// Analyze runs every pass that does not depend on the theme.
func (e *Engine) Analyze(ctx context.Context, source string) (*Analysis, error) {
	logger := zerolog.Ctx(ctx)

	if a, ok := e.cached(source); ok {
		logger.Debug().Int("bytes", len(source)).Msg("analysis cache hit")
		return a, nil
	}
	if err := checkpoint(ctx, "parsing"); err != nil {
		return nil, err
	}

	collector := diagnostic.NewCollector(source)
	file, tokens, err := grammar.Parse(source, grammar.WithErrorListener(collector))
	if err != nil {
		return nil, errors.Errorf("parsing: %w", err)
	}

	if err := checkpoint(ctx, "skeleton"); err != nil {
		return nil, err
	}
	pkg, index, err := skeleton.BuildIndexed(file)
	if err != nil {
		return nil, errors.Errorf("building skeleton: %w", err)
	}

	if err := checkpoint(ctx, "scopes"); err != nil {
		return nil, err
	}
	tree := scope.Build(pkg)

	a := &Analysis{
		Source:      source,
		Tokens:      tokens,
		File:        file,
		Diagnostics: collector.Diagnostics(),
		Skeleton:    pkg,
		Index:       index,
		Scopes:      tree,
		Bindings:    scope.Bind(file, pkg, index, tree),
		Outline:     skeleton.Outline(pkg),
		collector:   collector,
	}

	logger.Debug().
		Int("tokens", len(a.Tokens)).
		Int("declarations", len(pkg.Declarations)).
		Int("scopes", tree.Len()).
		Int("bindings", len(a.Bindings)).
		Int("diagnostics", len(a.Diagnostics)).
		Msg("analyzed source")

	if e.cache != nil {
		e.cache.Add(sha256.Sum256([]byte(source)), a)
	}
	return a, nil
}

func (e *Engine) cached(source string) (*Analysis, bool) {
	if e.cache == nil {
		return nil, false
	}
	a, ok := e.cache.Get(sha256.Sum256([]byte(source)))
	if !ok || a.Source != source {
		return nil, false
	}
	return a, true
}

// Highlight returns the highlight spans of source followed by its syntax
// errors. Spans come in pass order: lexical, syntactic, semantic, bindings,
// then error underlines. Spans may overlap.
func (e *Engine) Highlight(ctx context.Context, source string) ([]style.Highlight, []diagnostic.Diagnostic, error) {
	a, err := e.Analyze(ctx, source)
	if err != nil {
		return nil, nil, err
	}

	out := slices.Collect(lexical.Highlights(a.Tokens, e.theme))

	if err := checkpoint(ctx, "syntax pass"); err != nil {
		return nil, nil, err
	}
	out = append(out, syntactic.Highlight(a.File, e.theme)...)

	if err := checkpoint(ctx, "semantic pass"); err != nil {
		return nil, nil, err
	}
	out = append(out, semantic.Resolve(ctx, a.File, a.Skeleton, e.theme)...)
	out = append(out, BindingHighlights(a.Bindings, e.theme)...)

	out = append(out, a.collector.Highlights(e.theme)...)

	return out, slices.Clone(a.Diagnostics), nil
}

// BindingHighlights styles references bound to type parameters and value
// parameters. References to declarations are left to the semantic pass.
func BindingHighlights(bindings []scope.Binding, theme style.Theme) []style.Highlight {
	var out []style.Highlight
	for _, b := range bindings {
		var cat style.Category
		switch b.Symbol.(type) {
		case *skeleton.TypeParameter:
			cat = style.CategoryTypeParameter
		case *skeleton.ValueParameter:
			cat = style.CategoryParameter
		default:
			continue
		}
		if h, ok := theme.Highlight(b.Token.Start, b.Token.End, cat); ok {
			out = append(out, h)
		}
	}
	return out
}

var defaultEngine = NewEngine()

// Highlight runs Engine.Highlight with the default theme and no cache.
func Highlight(ctx context.Context, source string) ([]style.Highlight, []diagnostic.Diagnostic, error) {
	return defaultEngine.Highlight(ctx, source)
}

// GetErrors runs Engine.GetErrors on the default engine.
func GetErrors(ctx context.Context, source string) ([]diagnostic.Diagnostic, error) {
	return defaultEngine.GetErrors(ctx, source)
}

// Analyze runs Engine.Analyze on the default engine.
func Analyze(ctx context.Context, source string) (*Analysis, error) {
	return defaultEngine.Analyze(ctx, source)
}
