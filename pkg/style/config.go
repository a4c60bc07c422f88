package style

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// ThemeFile is the on-disk theme format. The same structure is read from
// HCL, YAML and TOML:
//
//	style "keyword" {            styles:                 [[styles]]
//	  color  = "#C679DD"           - name: keyword       name = "keyword"
//	  italic = true                  color: "#C679DD"    color = "#C679DD"
//	}                                italic: true        italic = true
type ThemeFile struct {
	// Inherit starts from the default theme when true (the default) or
	// from an empty theme when false.
	Inherit *bool         `hcl:"inherit,optional" yaml:"inherit,omitempty" toml:"inherit,omitempty"`
	Styles  []*StyleEntry `hcl:"style,block" yaml:"styles" toml:"styles"`
}

type StyleEntry struct {
	Name      string `hcl:"name,label" yaml:"name" toml:"name"`
	Color     string `hcl:"color,optional" yaml:"color,omitempty" toml:"color,omitempty"`
	Bold      bool   `hcl:"bold,optional" yaml:"bold,omitempty" toml:"bold,omitempty"`
	Italic    bool   `hcl:"italic,optional" yaml:"italic,omitempty" toml:"italic,omitempty"`
	Underline string `hcl:"underline,optional" yaml:"underline,omitempty" toml:"underline,omitempty"`
}

// LoadTheme reads a theme file from fs. The format is chosen by extension:
// .hcl, .yaml/.yml or .toml.
func LoadTheme(ctx context.Context, fs afero.Fs, path string) (Theme, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading theme file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(data)).Msg("loading theme")

	file, err := DecodeThemeFile(path, data)
	if err != nil {
		return nil, err
	}
	return file.Theme()
}

// DecodeThemeFile parses theme data, using name's extension to pick the
// format.
func DecodeThemeFile(name string, data []byte) (*ThemeFile, error) {
	var file ThemeFile

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&file); err != nil {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&file); err != nil {
			return nil, errors.Errorf("parsing TOML: %w", err)
		}
	case ".hcl":
		parser := hclparse.NewParser()
		hclFile, diags := parser.ParseHCL(data, name)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}
		evalCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"default": defaultColorsValue(),
			},
		}
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &file)
		if diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	default:
		return nil, errors.Errorf("unsupported theme format %q: want .hcl, .yaml, .yml or .toml", filepath.Ext(name))
	}

	return &file, nil
}

// defaultColorsValue exposes the default palette to HCL theme files, so an
// entry can write color = default.keyword.
func defaultColorsValue() cty.Value {
	vals := map[string]cty.Value{}
	for c, s := range DefaultTheme() {
		if s.Color.IsSet() {
			vals[strings.ReplaceAll(c.String(), "-", "_")] = cty.StringVal(s.Color.String())
		}
	}
	return cty.ObjectVal(vals)
}

// Theme converts the file into a Theme. Every entry replaces the style of
// its category.
func (f *ThemeFile) Theme() (Theme, error) {
	theme := Theme{}
	if f.Inherit == nil || *f.Inherit {
		theme = DefaultTheme()
	}

	for _, entry := range f.Styles {
		cat, err := ParseCategory(entry.Name)
		if err != nil {
			if s := suggestCategory(entry.Name); s != "" {
				return nil, errors.Errorf("theme style %q: %w (did you mean %q?)", entry.Name, err, s)
			}
			return nil, errors.Errorf("theme style %q: %w", entry.Name, err)
		}

		st := Style{Bold: entry.Bold, Italic: entry.Italic}
		if entry.Color != "" {
			if st.Color, err = ParseColor(entry.Color); err != nil {
				return nil, errors.Errorf("theme style %q: %w", entry.Name, err)
			}
		}
		if entry.Underline != "" {
			if st.Underline, err = ParseColor(entry.Underline); err != nil {
				return nil, errors.Errorf("theme style %q: %w", entry.Name, err)
			}
		}
		theme[cat] = st
	}

	return theme, nil
}

// suggestCategory returns the closest category name, or "" if nothing is
// within a few edits.
func suggestCategory(name string) string {
	best, bestDist := "", 4
	for _, c := range Categories() {
		if d := levenshtein.ComputeDistance(name, c.String()); d < bestDist {
			best, bestDist = c.String(), d
		}
	}
	return best
}
