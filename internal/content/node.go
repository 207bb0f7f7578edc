// Package content defines the pre-interpretation document tree: the shape
// markdown takes after tokenizing but before expressions are evaluated,
// components expanded or conditionals resolved. The interpreter walks this
// tree to produce the renderable one.
package content

import (
	"strings"

	"github.com/Doctave/docapella-sub001/ast"
)

// Kind identifies what a content Node represents.
type Kind string

const (
	KindRoot          Kind = "root"
	KindBlockquote    Kind = "blockquote"
	KindThematicBreak Kind = "thematic_break"
	KindBreak         Kind = "break"
	KindStrong        Kind = "strong"
	KindEmphasis      Kind = "emphasis"
	KindDelete        Kind = "delete"
	KindMath          Kind = "math"
	KindInlineMath    Kind = "inline_math"
	KindLink          Kind = "link"
	KindLinkRef       Kind = "link_reference"
	KindImage         Kind = "image"
	KindImageRef      Kind = "image_reference"
	KindDefinition    Kind = "definition"
	KindList          Kind = "list"
	KindListItem      Kind = "list_item"
	KindCode          Kind = "code"
	KindInlineCode    Kind = "inline_code"
	KindText          Kind = "text"
	KindHeading       Kind = "heading"
	KindParagraph     Kind = "paragraph"
	KindComponent     Kind = "component"
	KindHTMLBlock     Kind = "html_block"
	KindHTMLTag       Kind = "html_tag"
	KindExpression    Kind = "expression"
	KindExprBlock     Kind = "expression_block"
	KindTableCell     Kind = "table_cell"
	KindTableRow      Kind = "table_row"
	KindTable         Kind = "table"

	// Control flow.
	KindConditional Kind = "conditional"
	KindNoop        Kind = "noop"

	// Layout and content primitives.
	KindTabs          Kind = "tabs"
	KindTab           Kind = "tab"
	KindSteps         Kind = "steps"
	KindStep          Kind = "step"
	KindCodeSelect    Kind = "code_select"
	KindFlex          Kind = "flex"
	KindBox           Kind = "box"
	KindGrid          Kind = "grid"
	KindSlot          Kind = "slot"
	KindOpenAPISchema Kind = "openapi_schema"
)

// ReferenceKind is how a link or image reference was written.
type ReferenceKind string

const (
	RefShortcut  ReferenceKind = "shortcut"
	RefCollapsed ReferenceKind = "collapsed"
	RefFull      ReferenceKind = "full"
)

// Node is one element of the content tree.
type Node struct {
	Kind     Kind
	Pos      ast.Position
	Children []*Node

	// Scalar payloads. Meaning depends on Kind.
	Value      string  // Text, InlineCode, Code, Math, InlineMath, HTMLTag, Expression, ExprBlock
	URL        string  // Link, Image, Definition
	Title      *string // Link, Image, Definition
	Alt        string  // Image, ImageRef
	Identifier string  // LinkRef, ImageRef, Definition
	Label      *string // LinkRef, ImageRef, Definition
	RefKind    ReferenceKind
	Level      int // Heading
	Ordered    bool
	Start      *int
	Spread     bool
	Checked    *bool
	Language   *string // Code
	Meta       *string // Code, Math
	Alignment  []ast.TableAlignment

	Name       string          // Component, HTMLBlock
	Attributes []ast.Attribute // Component, HTMLBlock

	Cond *Conditional // Conditional

	// Primitive attribute payloads, still unevaluated.
	PrimTitle *ast.AttributeValue // Tab, Step, CodeSelect
	Flex      *FlexAttrs
	Box       *BoxAttrs
	Grid      *GridAttrs
	OpenAPI   *OpenAPIAttrs
}

// FlexAttrs are the raw attributes of a Flex element.
type FlexAttrs struct {
	Align     *ast.AttributeValue
	Justify   *ast.AttributeValue
	Direction *ast.AttributeValue
	Wrap      *ast.AttributeValue
	Gap       *ast.AttributeValue
	Padding   *ast.AttributeValue
	Height    *ast.AttributeValue
	Class     *ast.AttributeValue
}

// BoxAttrs are the raw attributes of a Box element.
type BoxAttrs struct {
	Padding  *ast.AttributeValue
	Class    *ast.AttributeValue
	MaxWidth *ast.AttributeValue
	Height   *ast.AttributeValue
}

// GridAttrs are the raw attributes of a Grid element.
type GridAttrs struct {
	Cols *ast.AttributeValue
	Gap  *ast.AttributeValue
}

// OpenAPIAttrs are the raw attributes of an OpenAPISchema element.
type OpenAPIAttrs struct {
	Path     *ast.AttributeValue
	Title    *ast.AttributeValue
	Expanded *ast.AttributeValue
}

// NewNode returns a node of the given kind with a position.
func NewNode(kind Kind, pos ast.Position) *Node {
	return &Node{Kind: kind, Pos: pos}
}

// InnerText collects the trimmed text, code and inline code under the
// node, joined by single spaces.
func (n *Node) InnerText() string {
	var out []string
	var walk func(*Node)
	walk = func(c *Node) {
		switch c.Kind {
		case KindText, KindCode, KindInlineCode:
			if v := strings.TrimSpace(c.Value); v != "" {
				out = append(out, v)
			}
		}
		for _, ch := range c.Children {
			walk(ch)
		}
	}
	walk(n)
	return strings.Join(out, " ")
}

// Descendants returns the node and everything under it, depth-first.
func (n *Node) Descendants() []*Node {
	var out []*Node
	stack := []*Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, top)
		for i := len(top.Children) - 1; i >= 0; i-- {
			stack = append(stack, top.Children[i])
		}
	}
	return out
}

// IsWhitespaceOrLinebreak reports whether the node is a text node the MDX
// tokenizer emits between adjacent elements: a single newline or space.
func (n *Node) IsWhitespaceOrLinebreak() bool {
	return n.Kind == KindText && (n.Value == "\n" || n.Value == " ")
}

// IsConditional reports whether the node is a conditional wrapper.
func (n *Node) IsConditional() bool {
	return n.Kind == KindConditional
}

// IsStartOfSequence reports whether the node begins a new conditional
// chain.
func (n *Node) IsStartOfSequence() bool {
	return n.Kind == KindConditional && n.Cond != nil && n.Cond.Op == OpIf
}

// IsPrimitive reports whether the node is one of the built-in layout or
// content elements.
func (n *Node) IsPrimitive() bool {
	switch n.Kind {
	case KindTabs, KindTab, KindSteps, KindStep, KindCodeSelect,
		KindFlex, KindBox, KindGrid, KindSlot, KindOpenAPISchema:
		return true
	}
	return false
}

// WrapWithConditional moves the node into the true branch of a new
// conditional node at the same position. The false branch starts as a
// Noop and gets filled in when chains are folded.
func (n *Node) WrapWithConditional(op Operation, condExpr *string) *Node {
	return &Node{
		Kind: KindConditional,
		Pos:  n.Pos,
		Cond: &Conditional{
			Op:       op,
			CondExpr: condExpr,
			True:     n,
			False:    &Node{Kind: KindNoop},
		},
	}
}

// BalanceTable pads or truncates every row to the table's alignment
// width, so downstream passes can index cells by column.
func BalanceTable(alignment []ast.TableAlignment, rows []*Node) {
	for _, row := range rows {
		for len(row.Children) < len(alignment) {
			row.Children = append(row.Children, &Node{Kind: KindTableCell, Pos: row.Pos})
		}
		if len(row.Children) > len(alignment) {
			row.Children = row.Children[:len(alignment)]
		}
	}
}
