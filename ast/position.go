package ast

import "unicode/utf8"

// Point is a single location in a source file.
type Point struct {
	// Row is the line number, 1-indexed.
	Row int `json:"row"`
	// Col is the column number, 1-indexed, counted in characters.
	Col int `json:"col"`
	// Offset is the byte offset into the original top-level source, 0-indexed.
	Offset int `json:"byte_offset"`
}

// Position is a span between two points in a source file. Every tree node
// owns one. Positions always refer to the original document's coordinates,
// even when the node came out of a re-parsed sub-range or an inlined
// component template.
type Position struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// IsPoint reports whether the position is a single point rather than a span.
func (p Position) IsPoint() bool { return p.Start == p.End }

// IsSpan reports whether the position covers a non-empty range.
func (p Position) IsSpan() bool { return p.Start != p.End }

// BumpByByteOffset shifts both ends of the position forward by base bytes and
// recomputes rows and columns against input, which must be the full document
// the shifted offsets refer to.
func (p *Position) BumpByByteOffset(base int, input string) {
	p.Start.BumpByByteOffset(base, input)
	p.End.BumpByByteOffset(base, input)
}

// BumpByLineAndByteOffset shifts the position by a precomputed line count and
// byte count, without rescanning any source. Used when a document body was
// parsed with its frontmatter stripped.
func (p *Position) BumpByLineAndByteOffset(lines, bytes int) {
	p.Start.Row += lines
	p.End.Row += lines
	p.Start.Offset += bytes
	p.End.Offset += bytes
}

// BumpByByteOffset moves the point forward by base bytes and recomputes the
// row and column by scanning input up to the new offset.
//
// The point may have been computed against a sub-slice of a larger document:
//
//	"foo\n  bar"        (sub-slice, point at "bar")
//	"fizz\n\nfoo\n  bar" (full document)
//
// base is the byte offset at which the sub-slice begins inside input. The
// scan iterates runes so that multi-byte characters never advance the column
// by more than one.
func (p *Point) BumpByByteOffset(base int, input string) {
	p.Offset += base

	p.Row = 1
	p.Col = 1
	for i, r := range input {
		if i >= p.Offset {
			break
		}
		if r == '\n' {
			p.Row++
			p.Col = 1
		} else {
			p.Col++
		}
	}
}

// OffsetForRowCol computes the byte offset of a 1-based row/column pair in
// input. Columns are counted in characters. Returns len(input) when the
// location lies past the end of the document.
func OffsetForRowCol(input string, row, col int) int {
	r, c := 1, 1
	for i, ch := range input {
		if r == row && c == col {
			return i
		}
		if ch == '\n' {
			r++
			c = 1
		} else {
			c++
		}
	}
	return len(input)
}

// LineIndex is a precomputed table of line-start byte offsets for one source
// string. It exists so that sub-range arithmetic never has to slice at a
// guessed byte index: every offset handed out is the start of a line, which
// is always a character boundary.
type LineIndex struct {
	src    string
	starts []int
}

// NewLineIndex scans src once and records the byte offset of the start of
// every line.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// LineStart returns the byte offset of the start of the 1-based line number.
// Out-of-range lines clamp to the end of the source.
func (ix *LineIndex) LineStart(line int) int {
	if line <= 1 {
		return 0
	}
	if line > len(ix.starts) {
		return len(ix.src)
	}
	return ix.starts[line-1]
}

// LineCount returns the number of lines in the source.
func (ix *LineIndex) LineCount() int { return len(ix.starts) }

// LinesBefore returns how many complete lines precede the given byte offset.
func (ix *LineIndex) LinesBefore(offset int) int {
	n := 0
	for _, s := range ix.starts[1:] {
		if s > offset {
			break
		}
		n++
	}
	return n
}

// PointAt converts a byte offset into a full Point with row and column
// derived from the index. The column is counted in characters from the start
// of the line.
func (ix *LineIndex) PointAt(offset int) Point {
	if offset > len(ix.src) {
		offset = len(ix.src)
	}
	row := 1
	lineStart := 0
	for i, s := range ix.starts {
		if s > offset {
			break
		}
		row = i + 1
		lineStart = s
	}
	col := 1
	for i := lineStart; i < offset && i < len(ix.src); {
		_, size := utf8.DecodeRuneInString(ix.src[i:])
		i += size
		col++
	}
	return Point{Row: row, Col: col, Offset: offset}
}
