package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doctave/docapella-sub001/ast"
)

func strPtr(s string) *string { return &s }

func condNode(op Operation, expr *string) *Node {
	inner := &Node{Kind: KindComponent, Name: "Fragment"}
	return inner.WrapWithConditional(op, expr)
}

func textNode(v string) *Node {
	return &Node{Kind: KindText, Value: v}
}

func TestFoldMergesChain(t *testing.T) {
	children := []*Node{
		condNode(OpIf, strPtr("a")),
		textNode("\n"),
		condNode(OpElseIf, strPtr("b")),
		textNode("\n"),
		condNode(OpElse, nil),
	}

	out, err := FoldConditionals(children)
	require.Nil(t, err)
	require.Len(t, out, 1)

	chain := out[0]
	require.Equal(t, KindConditional, chain.Kind)
	assert.Equal(t, OpIf, chain.Cond.Op)

	second := chain.Cond.False
	require.Equal(t, KindConditional, second.Kind)
	assert.Equal(t, OpElseIf, second.Cond.Op)

	third := second.Cond.False
	require.Equal(t, KindConditional, third.Kind)
	assert.Equal(t, OpElse, third.Cond.Op)
	assert.Equal(t, KindNoop, third.Cond.False.Kind)
}

func TestFoldNewIfStartsNewChain(t *testing.T) {
	children := []*Node{
		condNode(OpIf, strPtr("a")),
		condNode(OpIf, strPtr("b")),
	}

	out, err := FoldConditionals(children)
	require.Nil(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, KindNoop, out[0].Cond.False.Kind)
	assert.Equal(t, KindNoop, out[1].Cond.False.Kind)
}

func TestFoldKeepsNonConditionalSiblings(t *testing.T) {
	children := []*Node{
		condNode(OpIf, strPtr("a")),
		textNode("\n"),
		textNode("hello"),
	}

	out, err := FoldConditionals(children)
	require.Nil(t, err)
	// Trailing siblings after the chain survive in order.
	require.Len(t, out, 3)
	assert.Equal(t, KindConditional, out[0].Kind)
	assert.Equal(t, "\n", out[1].Value)
	assert.Equal(t, "hello", out[2].Value)
}

func TestFoldRejectsContentBetweenLinks(t *testing.T) {
	children := []*Node{
		condNode(OpIf, strPtr("a")),
		textNode("something in between"),
		condNode(OpElse, nil),
	}

	_, err := FoldConditionals(children)
	require.NotNil(t, err)
	assert.Equal(t, FoldInvalidInBetweenChain, err.Kind)
	assert.Equal(t, "Conditionals can't have anything in between", err.Error())
}

func TestFoldInBetweenHighlightCountsCharacters(t *testing.T) {
	between := textNode("héllö tëxt")
	between.Pos = ast.Position{
		Start: ast.Point{Row: 1, Col: 1, Offset: 0},
		End:   ast.Point{Row: 1, Col: 11, Offset: 13},
	}
	children := []*Node{
		condNode(OpIf, strPtr("a")),
		between,
		condNode(OpElse, nil),
	}

	_, err := FoldConditionals(children)
	require.NotNil(t, err)

	hs := err.Highlights("")
	require.Len(t, hs, 1)
	// 10 characters, not the 13 bytes of the UTF-8 text.
	assert.Equal(t, 11, hs[0].Pos.End.Col)
}

func TestFoldRejectsChainNotStartingWithIf(t *testing.T) {
	_, err := FoldConditionals([]*Node{condNode(OpElseIf, strPtr("a"))})
	require.NotNil(t, err)
	assert.Equal(t, FoldInvalidStart, err.Kind)
}

func TestFoldRejectsIfWithoutValue(t *testing.T) {
	_, err := FoldConditionals([]*Node{condNode(OpIf, nil)})
	require.NotNil(t, err)
	assert.Equal(t, FoldInvalidOpShouldHaveValue, err.Kind)
}

func TestFoldRejectsElseWithValue(t *testing.T) {
	children := []*Node{
		condNode(OpIf, strPtr("a")),
		condNode(OpElse, strPtr("b")),
	}

	_, err := FoldConditionals(children)
	require.NotNil(t, err)
	assert.Equal(t, FoldInvalidOpShouldNotHaveValue, err.Kind)
}

func TestFoldRejectsBranchAfterElse(t *testing.T) {
	children := []*Node{
		condNode(OpIf, strPtr("a")),
		condNode(OpElse, nil),
		condNode(OpElseIf, strPtr("b")),
	}

	_, err := FoldConditionals(children)
	require.NotNil(t, err)
	assert.Equal(t, FoldInvalidChain, err.Kind)
	assert.Contains(t, err.Error(), `"else"`)
	assert.Contains(t, err.Error(), `"elseif"`)
}

func TestParseOperation(t *testing.T) {
	op, ok := ParseOperation("if")
	assert.True(t, ok)
	assert.Equal(t, OpIf, op)

	_, ok = ParseOperation("unless")
	assert.False(t, ok)
}

func TestFoldErrorHighlights(t *testing.T) {
	src := `<Fragment elseif={x}>a</Fragment>`
	inner := &Node{
		Kind: KindComponent,
		Name: "Fragment",
		Pos: ast.Position{
			Start: ast.Point{Row: 1, Col: 1, Offset: 0},
			End:   ast.Point{Row: 1, Col: len(src) + 1, Offset: len(src)},
		},
	}
	wrapped := inner.WrapWithConditional(OpElseIf, strPtr("x"))

	_, ferr := FoldConditionals([]*Node{wrapped})
	require.NotNil(t, ferr)

	hs := ferr.Highlights(src)
	require.Len(t, hs, 1)
	// Points at the "elseif" keyword, column 11.
	assert.Equal(t, 11, hs[0].Pos.Start.Col)
	assert.Contains(t, hs[0].Message, `"if"`)
}
