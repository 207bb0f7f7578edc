package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doctave/docapella-sub001/ast"
)

func TestPrimitiveKind(t *testing.T) {
	for name, want := range map[string]Kind{
		"Tabs":          KindTabs,
		"Tab":           KindTab,
		"Steps":         KindSteps,
		"Step":          KindStep,
		"CodeSelect":    KindCodeSelect,
		"Flex":          KindFlex,
		"Box":           KindBox,
		"Grid":          KindGrid,
		"Slot":          KindSlot,
		"OpenAPISchema": KindOpenAPISchema,
	} {
		got, ok := PrimitiveKind(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := PrimitiveKind("Card")
	assert.False(t, ok)
	_, ok = PrimitiveKind("div")
	assert.False(t, ok)
}

func TestNewPrimitiveNodeScreensAttributes(t *testing.T) {
	attrs := []ast.Attribute{ast.Literal("title", "First"), ast.Literal("color", "red")}

	_, err := NewPrimitiveNode(KindTab, attrs, ast.Position{})
	require.NotNil(t, err)
	assert.Equal(t, "color", err.Key)
	assert.Equal(t, `Unexpected attribute "color"`, err.Error())
}

func TestNewPrimitiveNodeAllowsConditionals(t *testing.T) {
	attrs := []ast.Attribute{ast.Expr("if", "x > 1"), ast.Literal("title", "First")}

	n, err := NewPrimitiveNode(KindTab, attrs, ast.Position{})
	require.Nil(t, err)
	require.NotNil(t, n.PrimTitle)
	assert.Equal(t, "First", n.PrimTitle.Text)
}

func TestNewPrimitiveNodeFlexPayload(t *testing.T) {
	attrs := []ast.Attribute{
		ast.Literal("align", "center"),
		ast.Literal("dir", "column"),
		ast.Literal("gap", "2"),
	}

	n, err := NewPrimitiveNode(KindFlex, attrs, ast.Position{})
	require.Nil(t, err)
	require.NotNil(t, n.Flex)
	assert.Equal(t, "center", n.Flex.Align.Text)
	assert.Equal(t, "column", n.Flex.Direction.Text)
	assert.Equal(t, "2", n.Flex.Gap.Text)
	assert.Nil(t, n.Flex.Justify)
}

func TestBalanceTable(t *testing.T) {
	alignment := []ast.TableAlignment{ast.AlignLeft, ast.AlignNone, ast.AlignRight}
	short := &Node{Kind: KindTableRow, Children: []*Node{{Kind: KindTableCell}}}
	long := &Node{Kind: KindTableRow, Children: []*Node{
		{Kind: KindTableCell}, {Kind: KindTableCell}, {Kind: KindTableCell}, {Kind: KindTableCell},
	}}

	BalanceTable(alignment, []*Node{short, long})

	assert.Len(t, short.Children, 3)
	assert.Len(t, long.Children, 3)
}

func TestInnerText(t *testing.T) {
	root := &Node{Kind: KindRoot, Children: []*Node{
		{Kind: KindHeading, Level: 1, Children: []*Node{
			{Kind: KindText, Value: "Foo "},
			{Kind: KindStrong, Children: []*Node{{Kind: KindText, Value: "bar"}}},
			{Kind: KindInlineCode, Value: "fizz"},
		}},
	}}

	assert.Equal(t, "Foo bar fizz", root.InnerText())
}

func TestDescendantsOrder(t *testing.T) {
	root := &Node{Kind: KindRoot, Children: []*Node{
		{Kind: KindParagraph, Children: []*Node{{Kind: KindText, Value: "a"}}},
		{Kind: KindThematicBreak},
	}}

	kinds := []Kind{}
	for _, n := range root.Descendants() {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []Kind{KindRoot, KindParagraph, KindText, KindThematicBreak}, kinds)
}
