package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpByByteOffset(t *testing.T) {
	full := "fizz\n\nfoo\n  bar"
	// "bar" inside the sub-slice "foo\n  bar" starts at offset 6 with
	// row 2 col 3.
	p := Point{Row: 2, Col: 3, Offset: 6}
	p.BumpByByteOffset(6, full)

	assert.Equal(t, 12, p.Offset)
	assert.Equal(t, 4, p.Row)
	assert.Equal(t, 3, p.Col)
}

func TestBumpByByteOffsetMultibyte(t *testing.T) {
	full := "héllo\nworld"
	p := Point{Row: 1, Col: 1, Offset: 0}
	p.BumpByByteOffset(7, full) // byte offset of 'w'

	assert.Equal(t, 2, p.Row)
	assert.Equal(t, 1, p.Col)
}

func TestBumpPositionByLineAndByteOffset(t *testing.T) {
	pos := Position{
		Start: Point{Row: 1, Col: 1, Offset: 0},
		End:   Point{Row: 1, Col: 6, Offset: 5},
	}
	pos.BumpByLineAndByteOffset(4, 32)

	assert.Equal(t, 5, pos.Start.Row)
	assert.Equal(t, 32, pos.Start.Offset)
	assert.Equal(t, 5, pos.End.Row)
	assert.Equal(t, 37, pos.End.Offset)
	// Columns are untouched.
	assert.Equal(t, 1, pos.Start.Col)
	assert.Equal(t, 6, pos.End.Col)
}

func TestIsPointAndIsSpan(t *testing.T) {
	p := Point{Row: 1, Col: 2, Offset: 1}
	assert.True(t, Position{Start: p, End: p}.IsPoint())
	assert.False(t, Position{Start: p, End: p}.IsSpan())

	q := Point{Row: 1, Col: 3, Offset: 2}
	assert.True(t, Position{Start: p, End: q}.IsSpan())
}

func TestLineIndex(t *testing.T) {
	ix := NewLineIndex("one\ntwo\n\nfour")

	require.Equal(t, 4, ix.LineCount())
	assert.Equal(t, 0, ix.LineStart(1))
	assert.Equal(t, 4, ix.LineStart(2))
	assert.Equal(t, 8, ix.LineStart(3))
	assert.Equal(t, 9, ix.LineStart(4))
	// Past the end clamps.
	assert.Equal(t, 13, ix.LineStart(9))

	p := ix.PointAt(5)
	assert.Equal(t, Point{Row: 2, Col: 2, Offset: 5}, p)
}

func TestOffsetForRowCol(t *testing.T) {
	src := "abc\ndef"
	assert.Equal(t, 0, OffsetForRowCol(src, 1, 1))
	assert.Equal(t, 4, OffsetForRowCol(src, 2, 1))
	assert.Equal(t, 6, OffsetForRowCol(src, 2, 3))
	assert.Equal(t, len(src), OffsetForRowCol(src, 9, 9))
}
