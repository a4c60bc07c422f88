// Package style holds the highlighting data model: colors, styles, the
// semantic categories every pass classifies text into, and themes that map
// categories to styles.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Color is a 32-bit ARGB color. The zero Color means "unset".
type Color uint32

func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// RGB returns the red, green and blue channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) IsSet() bool { return c != 0 }

func (c Color) String() string {
	if c.Alpha() == 0xFF {
		return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
	}
	return fmt.Sprintf("#%08X", uint32(c))
}

// ParseColor accepts #RRGGBB (fully opaque) or #AARRGGBB.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		hex = "FF" + hex
	case 8:
	default:
		return 0, errors.Errorf("invalid color %q: want #RRGGBB or #AARRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, errors.Errorf("invalid color %q: %w", s, err)
	}
	return Color(v), nil
}

// Style is how a span of text is drawn.
type Style struct {
	Color     Color
	Bold      bool
	Italic    bool
	Underline Color
}

// IsZero reports a style that changes nothing. Zero styles are never
// emitted as highlights.
func (s Style) IsZero() bool {
	return !s.Color.IsSet() && !s.Bold && !s.Italic && !s.Underline.IsSet()
}

// Highlight is a styled half-open byte range [Start, End) of the source.
type Highlight struct {
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Category Category `json:"category"`
	Style    Style    `json:"-"`
}

func (h Highlight) Len() int { return h.End - h.Start }

func (h Highlight) String() string {
	return fmt.Sprintf("%s[%d:%d]", h.Category, h.Start, h.End)
}
