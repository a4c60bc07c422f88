package diagnostic

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/yurinview/pkg/position"
)

// DefaultTabWidth is used when no .editorconfig sets a tab width.
const DefaultTabWidth = 4

// Diagnostics is the diagnostics of one source file together with the text
// their offsets point into.
type Diagnostics struct {
	Filename string
	Source   string
	Errors   []Diagnostic
}

// Report returns the collected diagnostics of source, labelled with filename.
func (c *Collector) Report(filename string) *Diagnostics {
	return &Diagnostics{Filename: filename, Source: c.source, Errors: c.Diagnostics()}
}

// Formatter formats diagnostics into different output formats
type Formatter interface {
	// Format formats diagnostics into a specific output format
	Format(diagnostics *Diagnostics) ([]byte, error)
}

var (
	_ Formatter = (*VSCodeFormatter)(nil)
	_ Formatter = (*TextFormatter)(nil)
)

// VSCodeFormatter formats diagnostics into VSCode-compatible format
type VSCodeFormatter struct{}

// NewVSCodeFormatter creates a new VSCodeFormatter
func NewVSCodeFormatter() *VSCodeFormatter {
	return &VSCodeFormatter{}
}

type vscodePosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type vscodeRange struct {
	Start vscodePosition `json:"start"`
	End   vscodePosition `json:"end"`
}

type vscodeDiagnostic struct {
	Severity int         `json:"severity"`
	Message  string      `json:"message"`
	Range    vscodeRange `json:"range"`
}

// Format implements Formatter. Ranges are 0-based lines and byte
// characters; an end past the source is clamped to its end.
func (f *VSCodeFormatter) Format(diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	index := position.NewIndex(diagnostics.Source)
	result := make([]vscodeDiagnostic, 0, len(diagnostics.Errors))
	for _, d := range diagnostics.Errors {
		span := index.Span(d.Start, d.End)
		result = append(result, vscodeDiagnostic{
			Severity: vscodeSeverity(d.Severity),
			Message:  d.Message,
			Range: vscodeRange{
				Start: vscodePosition{Line: span.Start.Line, Character: span.Start.Character},
				End:   vscodePosition{Line: span.End.Line, Character: span.End.Character},
			},
		})
	}

	return json.Marshal(result)
}

func vscodeSeverity(s DiagnosticSeverity) int {
	switch s {
	case Warning:
		return 2
	case Info:
		return 3
	case Hint:
		return 4
	default:
		return 1
	}
}

// TextFormatter renders diagnostics for a terminal:
//
//	file.yu:3:9: mismatched input '}'
//	    val x = }
//	            ^
//
// The caret is placed by grapheme cluster with tabs expanded to TabWidth.
type TextFormatter struct {
	TabWidth int
	Color    bool
}

// NewTextFormatter returns a TextFormatter using the tab width .editorconfig
// sets for filename.
func NewTextFormatter(filename string, useColor bool) *TextFormatter {
	return &TextFormatter{TabWidth: TabWidthFor(filename), Color: useColor}
}

// Format implements Formatter. The location is the 1-based line and the
// 1-based byte column the grammar reported.
func (f *TextFormatter) Format(diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	tab := f.TabWidth
	if tab <= 0 {
		tab = DefaultTabWidth
	}
	loc := color.New(color.Bold)
	caret := color.New(color.FgRed, color.Bold)
	if f.Color {
		loc.EnableColor()
		caret.EnableColor()
	} else {
		loc.DisableColor()
		caret.DisableColor()
	}

	index := position.NewIndex(diagnostics.Source)
	var buf bytes.Buffer
	for _, d := range diagnostics.Errors {
		line, _ := index.LineColumn(d.Start)
		lineStart, lineEnd := index.LineBounds(line)
		text := diagnostics.Source[lineStart:lineEnd]

		start := min(max(d.Start-lineStart, 0), len(text))
		end := min(max(d.End-lineStart, start), len(text))
		lead := displayWidth(text[:start], tab, 0)
		width := max(displayWidth(text[start:end], tab, lead)-lead, 1)

		fmt.Fprintf(&buf, "%s %s\n", loc.Sprintf("%s:%d:%d:", diagnostics.Filename, d.Line, d.Column+1), d.Message)
		buf.WriteString(expandTabs(text, tab))
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(" ", lead))
		buf.WriteString(caret.Sprint(strings.Repeat("^", width)))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// graphemes calls fn with each grapheme cluster of s.
func graphemes(s string, fn func(g string)) {
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Split(textseg.ScanGraphemeClusters)
	for sc.Scan() {
		fn(sc.Text())
	}
}

// displayWidth returns the display column reached after s when s starts at
// column col.
func displayWidth(s string, tab, col int) int {
	graphemes(s, func(g string) {
		if g == "\t" {
			col += tab - col%tab
			return
		}
		col++
	})
	return col
}

func expandTabs(s string, tab int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	graphemes(s, func(g string) {
		if g == "\t" {
			n := tab - col%tab
			b.WriteString(strings.Repeat(" ", n))
			col += n
			return
		}
		b.WriteString(g)
		col++
	})
	return b.String()
}

// TabWidthFor returns the tab width .editorconfig files set for filename,
// falling back to a numeric indent_size and then DefaultTabWidth.
func TabWidthFor(filename string) int {
	if filename == "" {
		return DefaultTabWidth
	}
	def, err := editorconfig.GetDefinitionForFilename(filename)
	if err != nil || def == nil {
		return DefaultTabWidth
	}
	if def.TabWidth > 0 {
		return def.TabWidth
	}
	if n, err := strconv.Atoi(def.IndentSize); err == nil && n > 0 {
		return n
	}
	return DefaultTabWidth
}
