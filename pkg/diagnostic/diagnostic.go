// Package diagnostic collects the syntax errors the grammar reports and
// formats them for people and for editors.
package diagnostic

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/walteh/yurinview/pkg/grammar"
	"github.com/walteh/yurinview/pkg/position"
	"github.com/walteh/yurinview/pkg/style"
)

// Diagnostic represents a single diagnostic message. Start and End are byte
// offsets into the source; Line is 1-based and Column is the 0-based byte
// column the grammar reported.
type Diagnostic struct {
	Start    int                `json:"start"`
	End      int                `json:"end"`
	Line     int                `json:"line"`
	Column   int                `json:"column"`
	Message  string             `json:"message"`
	Severity DiagnosticSeverity `json:"severity"`
}

// DiagnosticSeverity represents the severity level of a diagnostic
type DiagnosticSeverity string

const (
	Error   DiagnosticSeverity = "error"
	Warning DiagnosticSeverity = "warning"
	Info    DiagnosticSeverity = "info"
	Hint    DiagnosticSeverity = "hint"
)

// Collector is a grammar.ErrorListener that turns reported syntax errors
// into diagnostics, in report order.
type Collector struct {
	source    string
	index     *position.Index
	sourceLen int
	diags     []Diagnostic
}

var _ grammar.ErrorListener = (*Collector)(nil)

func NewCollector(source string) *Collector {
	return &Collector{source: source, index: position.NewIndex(source), sourceLen: len(source)}
}

// SyntaxError implements grammar.ErrorListener. The start offset is the
// start of the reported line plus the column. The end offset is the end of
// the offending token, or start+1 when there is no token or the token ends
// at or before start.
func (c *Collector) SyntaxError(line, column int, msg string, offending *grammar.Token) {
	start := c.index.Offset(line, column)
	end := start + 1
	if offending != nil && offending.End > start {
		end = offending.End
	}
	c.diags = append(c.diags, Diagnostic{
		Start:    start,
		End:      end,
		Line:     line,
		Column:   column,
		Message:  msg,
		Severity: Error,
	})
}

// Diagnostics returns a copy of the collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

func (c *Collector) Len() int {
	return len(c.diags)
}

// Highlights returns one error span per diagnostic, clamped into the source.
// An error reported at end of input underlines the last character that is
// not whitespace; a source with no such character has nothing to underline.
func (c *Collector) Highlights(theme style.Theme) []style.Highlight {
	if c.sourceLen == 0 {
		return nil
	}
	out := make([]style.Highlight, 0, len(c.diags))
	for _, d := range c.diags {
		start, end := max(d.Start, 0), d.End
		if start >= c.sourceLen {
			trimmed := strings.TrimRightFunc(c.source, unicode.IsSpace)
			if trimmed == "" {
				continue
			}
			_, size := utf8.DecodeLastRuneInString(trimmed)
			start, end = len(trimmed)-size, len(trimmed)
		}
		end = min(max(end, start+1), c.sourceLen)
		if h, ok := theme.Highlight(start, end, style.CategoryError); ok {
			out = append(out, h)
		}
	}
	return out
}
