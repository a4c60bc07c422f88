package style_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/yurinview/pkg/style"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    style.Color
		wantErr bool
	}{
		{name: "rgb is opaque", input: "#C679DD", want: 0xFFC679DD},
		{name: "argb", input: "#80FF0000", want: 0x80FF0000},
		{name: "lowercase without hash", input: "e5c17c", want: 0xFFE5C17C},
		{name: "too short", input: "#FFF", wantErr: true},
		{name: "not hex", input: "#GGGGGG", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := style.ParseColor(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "#C679DD", style.Color(0xFFC679DD).String())
	assert.Equal(t, "#80FF0000", style.Color(0x80FF0000).String())

	r, g, b := style.Color(0xFF112233).RGB()
	assert.Equal(t, []uint8{0x11, 0x22, 0x33}, []uint8{r, g, b})
}

func TestStyleIsZero(t *testing.T) {
	assert.True(t, style.Style{}.IsZero())
	assert.False(t, style.Style{Italic: true}.IsZero())
	assert.False(t, style.Style{Underline: 0xFFFF0000}.IsZero())
}

func TestCategoryNamesRoundTrip(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range style.Categories() {
		name := c.String()
		assert.NotEqual(t, "unknown", name)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true

		got, err := style.ParseCategory(name)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestDefaultThemeStylesEveryCategory(t *testing.T) {
	theme := style.DefaultTheme()
	for _, c := range style.Categories() {
		assert.False(t, theme.Style(c).IsZero(), "category %s has no style", c)
	}
}

func TestThemeHighlight(t *testing.T) {
	theme := style.Theme{style.CategoryKeyword: {Color: 0xFFC679DD}}

	h, ok := theme.Highlight(2, 5, style.CategoryKeyword)
	require.True(t, ok)
	assert.Equal(t, style.Highlight{Start: 2, End: 5, Category: style.CategoryKeyword, Style: style.Style{Color: 0xFFC679DD}}, h)

	_, ok = theme.Highlight(5, 5, style.CategoryKeyword)
	assert.False(t, ok, "empty range")

	_, ok = theme.Highlight(2, 5, style.CategoryComma)
	assert.False(t, ok, "unstyled category")
}

func TestLoadTheme(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		content    string
		check      func(t *testing.T, theme style.Theme)
		wantErrMsg string
	}{
		{
			name: "hcl overrides a category",
			path: "theme.hcl",
			content: `
style "keyword" {
  color = "#FF0000"
  bold  = true
}
`,
			check: func(t *testing.T, theme style.Theme) {
				assert.Equal(t, style.Style{Color: 0xFFFF0000, Bold: true}, theme.Style(style.CategoryKeyword))
				assert.Equal(t, style.DefaultTheme().Style(style.CategoryComma), theme.Style(style.CategoryComma))
			},
		},
		{
			name: "hcl can reference default colors",
			path: "theme.hcl",
			content: `
style "function-call" {
  color = default.data_declaration
}
`,
			check: func(t *testing.T, theme style.Theme) {
				assert.Equal(t, style.DefaultTheme().Style(style.CategoryDataDeclaration).Color, theme.Style(style.CategoryFunctionCall).Color)
			},
		},
		{
			name: "yaml without inheritance",
			path: "theme.yaml",
			content: `
inherit: false
styles:
  - name: error
    underline: "#00FF00"
`,
			check: func(t *testing.T, theme style.Theme) {
				assert.Len(t, theme, 1)
				assert.Equal(t, style.Style{Underline: 0xFF00FF00}, theme.Style(style.CategoryError))
			},
		},
		{
			name: "toml",
			path: "theme.toml",
			content: `
[[styles]]
name = "string-literal"
color = "#123456"
italic = true
`,
			check: func(t *testing.T, theme style.Theme) {
				assert.Equal(t, style.Style{Color: 0xFF123456, Italic: true}, theme.Style(style.CategoryStringLiteral))
			},
		},
		{
			name: "unknown category suggests the closest",
			path: "theme.yml",
			content: `
styles:
  - name: keywrod
    color: "#FFFFFF"
`,
			wantErrMsg: `did you mean "keyword"?`,
		},
		{
			name: "unknown yaml field",
			path: "theme.yaml",
			content: `
styles:
  - name: keyword
    colour: "#FFFFFF"
`,
			wantErrMsg: "parsing YAML",
		},
		{
			name: "bad color",
			path: "theme.toml",
			content: `
[[styles]]
name = "keyword"
color = "red"
`,
			wantErrMsg: "invalid color",
		},
		{
			name:       "unsupported extension",
			path:       "theme.json",
			content:    `{}`,
			wantErrMsg: "unsupported theme format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.path, []byte(tt.content), 0o644))

			theme, err := style.LoadTheme(context.Background(), fs, tt.path)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			tt.check(t, theme)
		})
	}
}

func TestLoadThemeMissingFile(t *testing.T) {
	_, err := style.LoadTheme(context.Background(), afero.NewMemMapFs(), "nope.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading theme file")
}
