package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Doctave/docapella-sub001/ast"
)

func span(row, col, endCol int) ast.Position {
	return ast.Position{
		Start: ast.Point{Row: row, Col: col},
		End:   ast.Point{Row: row, Col: endCol},
	}
}

func TestRenderSingleHighlight(t *testing.T) {
	src := "alpha\nbravo oops here\ncharlie"

	got := RenderAt(src, span(2, 7, 11), "unexpected token")

	want := "" +
		"    1 │ alpha\n" +
		"    2 │ bravo oops here\n" +
		"      │       ▲▲▲▲\n" +
		"      │       └─ unexpected token\n" +
		"    3 │ charlie"
	assert.Equal(t, want, got)
}

func TestRenderMergesNearbyWindows(t *testing.T) {
	src := "l1\nl2\nl3\nl4\nl5"

	got := Render(src, []Highlight{
		{Pos: span(2, 1, 2), Message: "first"},
		{Pos: span(4, 1, 2), Message: "second"},
	})

	// Windows around lines 2 and 4 overlap, so every line from 1 to 5
	// appears exactly once and no separator is printed.
	assert.NotContains(t, got, "⋯")
	assert.Contains(t, got, "    1 │ l1")
	assert.Contains(t, got, "    5 │ l5")
	assert.Contains(t, got, "└─ first")
	assert.Contains(t, got, "└─ second")
}

func TestRenderSeparatesDistantWindows(t *testing.T) {
	lines := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		lines = append(lines, "line")
	}
	src := ""
	for i, l := range lines {
		if i > 0 {
			src += "\n"
		}
		src += l
	}

	got := Render(src, []Highlight{
		{Pos: span(2, 1, 2), Message: "early"},
		{Pos: span(18, 1, 2), Message: "late"},
	})

	assert.Contains(t, got, "⋯")
	assert.NotContains(t, got, "   10 │")
}

func TestRenderNoHighlights(t *testing.T) {
	assert.Equal(t, "", Render("anything", nil))
}

func TestRenderPointHighlight(t *testing.T) {
	got := RenderAt("ab", span(1, 2, 2), "here")

	want := "" +
		"    1 │ ab\n" +
		"      │  ▲\n" +
		"      │  └─ here"
	assert.Equal(t, want, got)
}
