// Package diag renders source excerpts with caret annotations. It is the
// shared backend for every user-facing error description: callers hand it
// the full document and one or more highlighted spans, and get back a
// numbered listing with arrows pointing at the offending characters.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Doctave/docapella-sub001/ast"
)

// Highlight is one annotated span inside a document.
type Highlight struct {
	Pos     ast.Position
	Message string
}

// contextLines is how many unannotated lines are shown around each
// highlighted line.
const contextLines = 1

// windowMergeGap is the maximum number of lines between two windows that
// still collapses them into one.
const windowMergeGap = 2

// Render produces the annotated listing for the given document. Rows and
// columns in the highlights are 1-based and refer to source as given.
// Highlights are rendered in line order regardless of input order.
func Render(source string, highlights []Highlight) string {
	if len(highlights) == 0 {
		return ""
	}

	lines := strings.Split(source, "\n")

	hs := make([]Highlight, len(highlights))
	copy(hs, highlights)
	sort.SliceStable(hs, func(i, j int) bool {
		if hs[i].Pos.Start.Row != hs[j].Pos.Start.Row {
			return hs[i].Pos.Start.Row < hs[j].Pos.Start.Row
		}
		return hs[i].Pos.Start.Col < hs[j].Pos.Start.Col
	})

	windows := buildWindows(hs, len(lines))

	var b strings.Builder
	for wi, w := range windows {
		if wi > 0 {
			b.WriteString("      ⋯\n")
		}
		for row := w.first; row <= w.last; row++ {
			line := ""
			if row-1 < len(lines) {
				line = lines[row-1]
			}
			fmt.Fprintf(&b, "%5d │ %s\n", row, line)
			for _, h := range hs {
				if h.Pos.Start.Row == row {
					writeAnnotation(&b, h)
				}
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

type window struct {
	first, last int
}

func buildWindows(hs []Highlight, lineCount int) []window {
	var out []window
	for _, h := range hs {
		first := h.Pos.Start.Row - contextLines
		if first < 1 {
			first = 1
		}
		last := h.Pos.Start.Row + contextLines
		if last > lineCount {
			last = lineCount
		}
		if n := len(out); n > 0 && first <= out[n-1].last+windowMergeGap {
			if last > out[n-1].last {
				out[n-1].last = last
			}
			continue
		}
		out = append(out, window{first: first, last: last})
	}
	return out
}

func writeAnnotation(b *strings.Builder, h Highlight) {
	col := h.Pos.Start.Col
	if col < 1 {
		col = 1
	}
	width := 1
	if h.Pos.End.Row == h.Pos.Start.Row && h.Pos.End.Col > h.Pos.Start.Col {
		width = h.Pos.End.Col - h.Pos.Start.Col
	}

	pad := strings.Repeat(" ", col-1)
	fmt.Fprintf(b, "      │ %s%s\n", pad, strings.Repeat("▲", width))
	if h.Message != "" {
		fmt.Fprintf(b, "      │ %s└─ %s\n", pad, h.Message)
	}
}

// RenderAt is a convenience for the common single-highlight case.
func RenderAt(source string, pos ast.Position, message string) string {
	return Render(source, []Highlight{{Pos: pos, Message: message}})
}
