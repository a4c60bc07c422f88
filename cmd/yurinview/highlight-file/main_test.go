package highlight_file

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.yu", []byte("data Foo {\n  fun bar(): Int\n}\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/bad.yu", []byte("data Foo("), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/themes/plain.yaml", []byte("inherit: false\nstyles:\n  - name: keyword\n    bold: true\n"), 0o644))
	return fs
}

func TestHighlightANSI(t *testing.T) {
	fs := setup(t)

	tests := []struct {
		name    string
		handler Handler
		check   func(t *testing.T, out string)
	}{
		{
			name:    "never colored output is the source",
			handler: Handler{fs: fs, format: "ansi", color: "never"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, "data Foo {\n  fun bar(): Int\n}\n", out)
			},
		},
		{
			name:    "always colored output carries escapes",
			handler: Handler{fs: fs, format: "ansi", color: "always"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "\x1b[")
				assert.Contains(t, out, "Foo")
			},
		},
		{
			name:    "theme file replaces the default theme",
			handler: Handler{fs: fs, format: "ansi", color: "always", theme: "/themes/plain.yaml"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "\x1b[1mdata\x1b[")
				assert.NotContains(t, out, "38;2;")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.handler.Run(context.Background(), &buf, []string{"/src/a.yu"}))
			tt.check(t, buf.String())
		})
	}
}

func TestHighlightJSON(t *testing.T) {
	fs := setup(t)
	me := &Handler{fs: fs, format: "json", color: "never"}

	var buf bytes.Buffer
	require.NoError(t, me.Run(context.Background(), &buf, []string{"/src/bad.yu"}))

	var got struct {
		File       string `json:"file"`
		Highlights []struct {
			Start    int    `json:"start"`
			End      int    `json:"end"`
			Category string `json:"category"`
		} `json:"highlights"`
		Diagnostics []struct {
			Message string `json:"message"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "/src/bad.yu", got.File)
	require.NotEmpty(t, got.Highlights)
	assert.Equal(t, "keyword", got.Highlights[0].Category)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, "mismatched input '<EOF>' expecting ')'", got.Diagnostics[0].Message)
}

func TestHighlightErrors(t *testing.T) {
	fs := setup(t)

	tests := []struct {
		name    string
		handler Handler
		files   []string
	}{
		{name: "missing file", handler: Handler{fs: fs, format: "ansi", color: "never"}, files: []string{"/src/none.yu"}},
		{name: "bad format", handler: Handler{fs: fs, format: "html", color: "never"}, files: []string{"/src/a.yu"}},
		{name: "bad color", handler: Handler{fs: fs, format: "ansi", color: "maybe"}, files: []string{"/src/a.yu"}},
		{name: "missing theme", handler: Handler{fs: fs, format: "ansi", color: "never", theme: "/themes/none.hcl"}, files: []string{"/src/a.yu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Error(t, tt.handler.Run(context.Background(), &buf, tt.files))
		})
	}
}
