package position

import "sort"

// Place is a 0-based line and character pair, as editors address text.
type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

// Index maps between byte offsets and line/column positions of one source
// text. Lines are 1-based and columns are 0-based byte offsets from the
// start of the line, the convention the grammar reports errors in.
type Index struct {
	lineStarts []int
	size       int
}

func NewIndex(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{lineStarts: starts, size: len(text)}
}

// Lines returns the number of lines; a trailing newline starts an empty line.
func (x *Index) Lines() int {
	return len(x.lineStarts)
}

// Offset converts a 1-based line and 0-based column to a byte offset by
// adding the column to the start of the line. Out of range lines clamp to
// the first or last line; the result is clamped to [0, len(text)].
func (x *Index) Offset(line, column int) int {
	switch {
	case line < 1:
		line = 1
	case line > len(x.lineStarts):
		line = len(x.lineStarts)
	}
	return min(max(x.lineStarts[line-1]+column, 0), x.size)
}

// LineColumn converts a byte offset to a 1-based line and 0-based column.
func (x *Index) LineColumn(offset int) (line, column int) {
	offset = min(max(offset, 0), x.size)
	i := sort.Search(len(x.lineStarts), func(i int) bool { return x.lineStarts[i] > offset }) - 1
	return i + 1, offset - x.lineStarts[i]
}

// LineBounds returns the byte range of a 1-based line, excluding its
// newline.
func (x *Index) LineBounds(line int) (start, end int) {
	if line < 1 || line > len(x.lineStarts) {
		return x.size, x.size
	}
	start = x.lineStarts[line-1]
	if line < len(x.lineStarts) {
		end = x.lineStarts[line] - 1
	} else {
		end = x.size
	}
	return start, end
}

// Place returns the 0-based editor place of a byte offset.
func (x *Index) Place(offset int) Place {
	line, col := x.LineColumn(offset)
	return Place{Line: line - 1, Character: col}
}

// Span returns the 0-based editor range of the byte range [start, end).
func (x *Index) Span(start, end int) Range {
	return Range{Start: x.Place(start), End: x.Place(max(end, start))}
}
