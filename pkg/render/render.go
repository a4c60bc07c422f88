// Package render paints highlighted source for a terminal.
package render

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/term"

	"github.com/walteh/yurinview/pkg/style"
)

// ColorMode selects when output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", errors.Errorf("unknown color mode %q (want auto, always or never)", s)
}

// Enabled reports whether output written to w should be colored. In auto
// mode only terminals get color.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Paint returns the style of every byte of source with hs layered in order.
// A later span replaces the color of an earlier one and adds its bold,
// italic and underline.
func Paint(source string, hs []style.Highlight) []style.Style {
	painted := make([]style.Style, len(source))
	for _, h := range hs {
		start, end := max(h.Start, 0), min(h.End, len(source))
		for i := start; i < end; i++ {
			p := &painted[i]
			if h.Style.Color.IsSet() {
				p.Color = h.Style.Color
			}
			p.Bold = p.Bold || h.Style.Bold
			p.Italic = p.Italic || h.Style.Italic
			if h.Style.Underline.IsSet() {
				p.Underline = h.Style.Underline
			}
		}
	}
	return painted
}

// ANSI writes source to w with hs painted as 24-bit terminal escapes. With
// colorize false the source is written unchanged.
func ANSI(w io.Writer, source string, hs []style.Highlight, colorize bool) error {
	if !colorize {
		_, err := io.WriteString(w, source)
		return err
	}

	painted := Paint(source, hs)
	for start := 0; start < len(source); {
		end := start + 1
		for end < len(source) && painted[end] == painted[start] {
			end++
		}
		if _, err := io.WriteString(w, paint(painted[start], source[start:end])); err != nil {
			return errors.Errorf("writing: %w", err)
		}
		start = end
	}
	return nil
}

func paint(s style.Style, text string) string {
	if s.IsZero() {
		return text
	}
	c := color.New()
	if s.Color.IsSet() {
		r, g, b := s.Color.RGB()
		c.AddRGB(int(r), int(g), int(b))
	}
	if s.Bold {
		c.Add(color.Bold)
	}
	if s.Italic {
		c.Add(color.Italic)
	}
	if s.Underline.IsSet() {
		c.Add(color.Underline)
	}
	c.EnableColor()

	// escapes do not survive line breaks in every terminal
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		if body != "" {
			b.WriteString(c.Sprint(body))
		}
		if len(body) < len(line) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
