package highlight_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/yurinview/pkg/grammar"
	"github.com/walteh/yurinview/pkg/highlight"
	"github.com/walteh/yurinview/pkg/position"
	"github.com/walteh/yurinview/pkg/style"
)

var sources = []string{
	"",
	"   \n\t",
	"package a.b\ndata Foo { fun bar(): Int }",
	"singleton data Foo { fun bar(): Int }\nval x = Foo.bar()",
	"data Foo(",
	"data Foo(\n  ",
	"} $ data",
	"/* never closed",
	"val s = \"é\" // note\n",
	"data Box<T>(item: T) { fun take(): T = item }",
	"fun f(a: Int) {\n  val b = a to a\n  b!!\n}",
	"package p\nimport q.*\nsealed trait Show<A> : Base { fun show(a: A): String }\nimpl Int : Show<Int>",
	"val x: exist a.Map<K, dynamic>? = (y as? Nothing) ?: z",
}

// categoriesAt returns the categories of every span covering exactly
// [start, end), in output order.
func categoriesAt(hs []style.Highlight, start, end int) []style.Category {
	var out []style.Category
	for _, h := range hs {
		if h.Start == start && h.End == end {
			out = append(out, h.Category)
		}
	}
	return out
}

func at(t *testing.T, hs []style.Highlight, source, text string, nth int) []style.Category {
	t.Helper()
	offset := -1
	for i := 0; i <= nth; i++ {
		next := strings.Index(source[offset+1:], text)
		require.GreaterOrEqual(t, next, 0, "occurrence %d of %q", i, text)
		offset += next + 1
	}
	return categoriesAt(hs, offset, offset+len(text))
}

func TestSpansStayInsideTheSource(t *testing.T) {
	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			hs, _, err := highlight.Highlight(context.Background(), source)
			require.NoError(t, err)
			for _, h := range hs {
				assert.GreaterOrEqual(t, h.Start, 0, h.String())
				assert.Less(t, h.Start, h.End, h.String())
				assert.LessOrEqual(t, h.End, len(source), h.String())
			}
		})
	}
}

func TestHighlightIsDeterministic(t *testing.T) {
	cached := highlight.NewEngine(highlight.WithCache(8))
	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			first, firstDiags, err := highlight.Highlight(context.Background(), source)
			require.NoError(t, err)
			second, secondDiags, err := highlight.Highlight(context.Background(), source)
			require.NoError(t, err)
			assert.Equal(t, first, second)
			assert.Equal(t, firstDiags, secondDiags)

			for range 2 {
				hs, diags, err := cached.Highlight(context.Background(), source)
				require.NoError(t, err)
				assert.Equal(t, first, hs)
				assert.Equal(t, firstDiags, diags)
			}
		})
	}
}

func TestNoSpanForWhitespaceOrEndOfInput(t *testing.T) {
	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			tokens, err := grammar.Lex(source)
			require.NoError(t, err)
			hs, _, err := highlight.Highlight(context.Background(), source)
			require.NoError(t, err)

			for _, h := range hs {
				assert.NotEmpty(t, strings.TrimSpace(source[h.Start:h.End]), h.String())
			}
			for _, tok := range tokens {
				switch tok.Kind {
				case grammar.KindWhitespace, grammar.KindNewline, grammar.KindEOF:
					for _, h := range hs {
						assert.False(t, h.Start == tok.Start && h.End == tok.End, "span %s covers %s token", h, tok.Kind)
					}
				}
			}
		})
	}
}

func TestQualifiedReferences(t *testing.T) {
	t.Run("leading segments naming the package are skipped", func(t *testing.T) {
		source := "package a.b\ndata Foo\nval x: a.b.Foo"
		hs, _, err := highlight.Highlight(context.Background(), source)
		require.NoError(t, err)

		assert.Equal(t, []style.Category{style.CategoryDataDeclaration}, at(t, hs, source, "Foo", 1))
		assert.Empty(t, categoriesAt(hs, strings.LastIndex(source, "a.b"), strings.LastIndex(source, "a.b")+1))
	})

	t.Run("same text in another package does not match", func(t *testing.T) {
		source := "package c\ndata Foo\nval x: a.b.Foo"
		hs, _, err := highlight.Highlight(context.Background(), source)
		require.NoError(t, err)

		assert.Empty(t, at(t, hs, source, "Foo", 1))
	})

	t.Run("unqualified fallback in the same package", func(t *testing.T) {
		source := "package c\ndata Foo\nval x: Foo"
		hs, _, err := highlight.Highlight(context.Background(), source)
		require.NoError(t, err)

		assert.Equal(t, []style.Category{style.CategoryDataDeclaration}, at(t, hs, source, "Foo", 1))
	})
}

func TestPackageDeclarationExample(t *testing.T) {
	source := "package a.b\ndata Foo { fun bar(): Int }"
	hs, _, err := highlight.Highlight(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, []style.Category{style.CategoryKeyword}, at(t, hs, source, "package", 0))
	assert.Empty(t, categoriesAt(hs, 8, 9), "a")
	assert.Equal(t, []style.Category{style.CategoryDot}, categoriesAt(hs, 9, 10))
	assert.Empty(t, categoriesAt(hs, 10, 11), "b")
	assert.Equal(t, []style.Category{style.CategoryKeyword}, at(t, hs, source, "data", 0))
	assert.Equal(t, []style.Category{style.CategoryDataDeclaration}, at(t, hs, source, "Foo", 0))
	assert.Equal(t, []style.Category{style.CategoryKeyword}, at(t, hs, source, "fun", 0))
	assert.Equal(t, []style.Category{style.CategoryFunctionDeclaration}, at(t, hs, source, "bar", 0))
	assert.Empty(t, at(t, hs, source, "Int", 0))
}

func TestSingletonMemberExample(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []style.Category
	}{
		{
			name:   "singleton member resolves",
			source: "singleton data Foo { fun bar(): Int }\nval x = Foo.bar()",
			want:   []style.Category{style.CategoryFunctionCall},
		},
		{
			name:   "non singleton member does not",
			source: "data Foo { fun bar(): Int }\nval x = Foo.bar()",
		},
		{
			name:   "non singleton trait member does not",
			source: "trait Foo { fun bar(): Int }\nval x = Foo.bar()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs, _, err := highlight.Highlight(context.Background(), tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, at(t, hs, tt.source, "bar", 1))
			assert.NotEmpty(t, at(t, hs, tt.source, "Foo", 1), "the container keeps its highlight")
		})
	}
}

func TestMalformedSourceExample(t *testing.T) {
	source := "data Foo("

	diags, err := highlight.GetErrors(context.Background(), source)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	offset := position.NewIndex(source).Offset(diags[0].Line, diags[0].Column)
	assert.LessOrEqual(t, offset, len(source))
	assert.Equal(t, diags[0].Start, offset)

	hs, hdiags, err := highlight.Highlight(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, diags, hdiags)
	assert.Contains(t, at(t, hs, source, "data", 0), style.CategoryKeyword)
	assert.Contains(t, at(t, hs, source, "(", 0), style.CategoryParen)
	assert.Contains(t, at(t, hs, source, "(", 0), style.CategoryError)
}

func TestBindingHighlights(t *testing.T) {
	source := "data Box<T>(item: T) { fun take(): T = item }"
	hs, diags, err := highlight.Highlight(context.Background(), source)
	require.NoError(t, err)
	require.Empty(t, diags)

	assert.Empty(t, at(t, hs, source, "T", 0), "declared name")
	assert.Equal(t, []style.Category{style.CategoryTypeParameter}, at(t, hs, source, "T", 1))
	assert.Equal(t, []style.Category{style.CategoryTypeParameter}, at(t, hs, source, "T", 2))
	assert.Equal(t, []style.Category{style.CategoryPropertyDeclaration}, at(t, hs, source, "item", 0))
	assert.Equal(t, []style.Category{style.CategoryParameter}, at(t, hs, source, "item", 1))
}

func TestPassOrder(t *testing.T) {
	source := "data Foo\nval x: Foo\nval y = ("
	hs, _, err := highlight.Highlight(context.Background(), source)
	require.NoError(t, err)
	require.NotEmpty(t, hs)

	rank := map[style.Category]int{
		style.CategoryKeyword:             0,
		style.CategoryColon:               0,
		style.CategoryOperator:            0,
		style.CategoryPropertyDeclaration: 1,
		style.CategoryError:               3,
	}
	last := 0
	for _, h := range hs {
		r, ok := rank[h.Category]
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, r, last, h.String())
		last = r
	}
	assert.Equal(t, style.CategoryError, hs[len(hs)-1].Category)
}

func TestEngineWithTheme(t *testing.T) {
	e := highlight.NewEngine(highlight.WithTheme(style.Theme{}))
	hs, diags, err := e.Highlight(context.Background(), "data Foo(")
	require.NoError(t, err)
	assert.Empty(t, hs)
	assert.Len(t, diags, 1)
}

func TestEngineCache(t *testing.T) {
	source := "data Foo\nval x: Foo"

	cached := highlight.NewEngine(highlight.WithCache(2))
	first, err := cached.Analyze(context.Background(), source)
	require.NoError(t, err)
	second, err := cached.Analyze(context.Background(), source)
	require.NoError(t, err)
	assert.Same(t, first, second)

	plain := highlight.NewEngine(highlight.WithCache(0))
	first, err = plain.Analyze(context.Background(), source)
	require.NoError(t, err)
	second, err = plain.Analyze(context.Background(), source)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Outline, second.Outline)
}

func TestAnalyze(t *testing.T) {
	source := "package p\ndata Outer { data Inner }\nval x: Outer.Inner"
	a, err := highlight.Analyze(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, []string{"p"}, a.Skeleton.NameParts)
	assert.Len(t, a.Skeleton.Declarations, 2)
	assert.Empty(t, a.Diagnostics)
	assert.Equal(t, grammar.KindEOF, a.Tokens[len(a.Tokens)-1].Kind)
	require.Len(t, a.Outline, 2)
	assert.Equal(t, "p.Outer", a.Outline[0].String())
	assert.Equal(t, "p.Outer.Inner", a.Outline[1].String())

	var bound []string
	for _, b := range a.Bindings {
		bound = append(bound, b.Token.Text)
	}
	assert.Equal(t, []string{"Outer", "Inner"}, bound)
	assert.Equal(t, 3, a.Scopes.Len())
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := highlight.Highlight(ctx, "data Foo")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = highlight.GetErrors(ctx, "data Foo")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeLogs(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())

	e := highlight.NewEngine(highlight.WithCache(1))
	_, err := e.Analyze(ctx, "data Foo")
	require.NoError(t, err)
	_, err = e.Analyze(ctx, "data Foo")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"message":"analyzed source"`)
	assert.Contains(t, buf.String(), `"declarations":1`)
	assert.Contains(t, buf.String(), `"message":"analysis cache hit"`)
}
