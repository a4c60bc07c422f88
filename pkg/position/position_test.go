package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/yurinview/pkg/position"
)

func TestOffset(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		line, col  int
		wantOffset int
	}{
		{
			name:       "empty text",
			text:       "",
			line:       1,
			col:        0,
			wantOffset: 0,
		},
		{
			name:       "single line, middle position",
			text:       "Hello, World!",
			line:       1,
			col:        7,
			wantOffset: 7,
		},
		{
			name:       "multiple lines, second line",
			text:       "Hello\nWorld\nTest zzz",
			line:       2,
			col:        2,
			wantOffset: 8,
		},
		{
			name:       "end of text",
			text:       "data Foo(",
			line:       1,
			col:        9,
			wantOffset: 9,
		},
		{
			name:       "after trailing newline",
			text:       "a\n",
			line:       2,
			col:        0,
			wantOffset: 2,
		},
		{
			name:       "column past the end clamps",
			text:       "abc",
			line:       1,
			col:        10,
			wantOffset: 3,
		},
		{
			name:       "line past the end clamps to the last line",
			text:       "abc\nde",
			line:       7,
			col:        1,
			wantOffset: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := position.NewIndex(tt.text)
			assert.Equal(t, tt.wantOffset, idx.Offset(tt.line, tt.col))
		})
	}
}

func TestLineColumn(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{
			name:     "empty text",
			text:     "",
			offset:   0,
			wantLine: 1,
			wantCol:  0,
		},
		{
			name:     "multiple lines, first line",
			text:     "Hello\nWorld\nTest",
			offset:   3,
			wantLine: 1,
			wantCol:  3,
		},
		{
			name:     "newline belongs to its line",
			text:     "Hello\nWorld",
			offset:   5,
			wantLine: 1,
			wantCol:  5,
		},
		{
			name:     "start of a line",
			text:     "Hello\nWorld",
			offset:   6,
			wantLine: 2,
			wantCol:  0,
		},
		{
			name:     "multiple lines with varying lengths",
			text:     "Hello, World!\nThis is a test\nShort\nLonger line here zzz",
			offset:   16,
			wantLine: 2,
			wantCol:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := position.NewIndex(tt.text)
			line, col := idx.LineColumn(tt.offset)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantCol, col)
			assert.Equal(t, tt.offset, idx.Offset(line, col), "round trip")
		})
	}
}

func TestLineBounds(t *testing.T) {
	idx := position.NewIndex("ab\ncde\n")
	assert.Equal(t, 3, idx.Lines())

	start, end := idx.LineBounds(2)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)

	start, end = idx.LineBounds(3)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)
}

func TestSpan(t *testing.T) {
	idx := position.NewIndex("data Foo\n  fun bar")

	assert.Equal(t, position.Range{
		Start: position.Place{Line: 1, Character: 6},
		End:   position.Place{Line: 1, Character: 9},
	}, idx.Span(15, 18))

	assert.Equal(t, position.Range{
		Start: position.Place{Line: 0, Character: 5},
		End:   position.Place{Line: 0, Character: 5},
	}, idx.Span(5, 2), "an inverted range collapses to its start")
}
