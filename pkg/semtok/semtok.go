/*
Package semtok turns highlight spans into LSP semantic tokens.

Core Functions:
-------------

	       Input
	         |
	         v
	  +------------+
	  | Highlights |   (lexical, syntactic, semantic, binding)
	  +------------+
	         |
	  Map & Flatten     later spans replace earlier overlapping ones
	         |
	         v
	  +------------+
	  | Tokens     |   one per line segment
	  +------------+
	         |
	  Delta Encode
	         |
	         v
	  +------------+
	  | []uint32   |
	  +------------+
*/
package semtok

import (
	"context"
	"slices"
	"sort"
	"unicode/utf16"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/yurinview/pkg/diagnostic"
	"github.com/walteh/yurinview/pkg/position"
	"github.com/walteh/yurinview/pkg/style"
)

// Highlighter produces the highlight spans of a source text.
type Highlighter interface {
	Highlight(ctx context.Context, source string) ([]style.Highlight, []diagnostic.Diagnostic, error)
}

// GetTokensForText returns the encoded semantic tokens of source.
//
//	Example:
//	   tokens, err := GetTokensForText(ctx, engine, "data Foo")
//	   if err != nil {
//	       return err
//	   }
//	   // tokens.Data = [0 0 4 0 0  0 5 3 5 0]
func GetTokensForText(ctx context.Context, h Highlighter, source string) (*SemanticTokens, error) {
	hs, _, err := h.Highlight(ctx, source)
	if err != nil {
		return nil, errors.Errorf("highlighting: %w", err)
	}
	return TokensToLSP(FromHighlights(source, hs)), nil
}

// GetTokensForRange returns the encoded semantic tokens of source that
// start on a line inside rng. Lines are 0-based and inclusive.
func GetTokensForRange(ctx context.Context, h Highlighter, source string, rng position.Range) (*SemanticTokens, error) {
	hs, _, err := h.Highlight(ctx, source)
	if err != nil {
		return nil, errors.Errorf("highlighting: %w", err)
	}
	var kept []Token
	for _, t := range FromHighlights(source, hs) {
		if int(t.Line) >= rng.Start.Line && int(t.Line) <= rng.End.Line {
			kept = append(kept, t)
		}
	}
	return TokensToLSP(kept), nil
}

type span struct {
	start, end int
	order      int
	mapping    mapping
}

// FromHighlights converts highlight spans to tokens. Spans whose category
// has no token type are dropped. Tokens may not overlap, so when two spans
// overlap the one that came later in hs wins and the other is dropped whole.
// Spans crossing a newline are split into one token per line.
func FromHighlights(source string, hs []style.Highlight) []Token {
	spans := make([]span, 0, len(hs))
	for i, h := range hs {
		m, ok := categoryTypes[h.Category]
		if !ok || h.Start >= h.End {
			continue
		}
		spans = append(spans, span{start: h.Start, end: h.End, order: i, mapping: m})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var kept []span
	for _, s := range spans {
		n := len(kept)
		for n > 0 && s.start < kept[n-1].end {
			n--
		}
		if slices.ContainsFunc(kept[n:], func(k span) bool { return k.order > s.order }) {
			continue
		}
		kept = append(kept[:n], s)
	}

	index := position.NewIndex(source)
	var tokens []Token
	for _, s := range kept {
		line, _ := index.LineColumn(s.start)
		for ; line <= index.Lines(); line++ {
			ls, le := index.LineBounds(line)
			if ls >= s.end {
				break
			}
			from, to := max(s.start, ls), min(s.end, le)
			if to <= from {
				continue
			}
			tokens = append(tokens, Token{
				Type:      s.mapping.typ,
				Modifiers: s.mapping.modifiers,
				Line:      uint32(line - 1),
				Start:     utf16Len(source[ls:from]),
				Length:    utf16Len(source[from:to]),
			})
		}
	}
	return tokens
}

func utf16Len(s string) uint32 {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return uint32(n)
}

// TokensToLSP converts internal tokens to LSP semantic tokens
func TokensToLSP(tokens []Token) *SemanticTokens {
	if len(tokens) == 0 {
		return &SemanticTokens{
			Data: []uint32{},
		}
	}

	// Sort tokens by line and start position
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].Start < tokens[j].Start
	})

	// Convert to LSP format (relative line/character positions)
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.Start
		if deltaLine == 0 {
			deltaStart = token.Start - prevStart
		}

		var modifiers uint32
		for _, mod := range token.Modifiers {
			modifiers |= 1 << mod
		}

		data = append(data, deltaLine, deltaStart, token.Length, token.Type, modifiers)

		prevLine = token.Line
		prevStart = token.Start
	}

	return &SemanticTokens{
		Data: data,
	}
}
