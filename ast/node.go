// Package ast defines the renderable document tree produced by compiling a
// markdown source file. Every node carries a Position pointing back into the
// original document, and the tree contains no unevaluated constructs: by the
// time a Node exists, expressions have been evaluated, components expanded
// and conditionals resolved.
package ast

import "strings"

// Kind identifies what a Node represents. A single flat node struct with a
// kind tag keeps traversal and serialization uniform; the payload fields a
// given kind uses are documented on the kind constant.
type Kind string

const (
	// KindRoot is the document root. Children only.
	KindRoot Kind = "root"
	// KindHeading uses Level and Slug.
	KindHeading Kind = "heading"
	// KindParagraph holds inline children.
	KindParagraph Kind = "paragraph"
	// KindText uses Value.
	KindText Kind = "text"
	// KindStrong holds inline children.
	KindStrong Kind = "strong"
	// KindEmphasis holds inline children.
	KindEmphasis Kind = "emphasis"
	// KindDelete holds inline children.
	KindDelete Kind = "delete"
	// KindBreak is a hard line break.
	KindBreak Kind = "break"
	// KindInlineCode uses Value.
	KindInlineCode Kind = "inline_code"
	// KindCode is a fenced code block. Uses Value, Language, Title, Label,
	// Raw and ShowWhitespace.
	KindCode Kind = "code"
	// KindMath is a math block. Uses Value and DisplayMode.
	KindMath Kind = "math"
	// KindInlineMath uses Value.
	KindInlineMath Kind = "inline_math"
	// KindLink uses URL and Title, with inline children as the label.
	KindLink Kind = "link"
	// KindImage uses URL, Title and Alt.
	KindImage Kind = "image"
	// KindList uses Ordered, Start and Spread.
	KindList Kind = "list"
	// KindListItem uses Checked and Spread.
	KindListItem Kind = "list_item"
	// KindTable uses Alignment; children are table rows.
	KindTable Kind = "table"
	// KindTableRow holds table cells.
	KindTableRow Kind = "table_row"
	// KindTableCell holds inline children.
	KindTableCell Kind = "table_cell"
	// KindBlockquote holds block children.
	KindBlockquote Kind = "blockquote"
	// KindThematicBreak is a horizontal rule.
	KindThematicBreak Kind = "thematic_break"
	// KindHTMLBlock is a sanitized HTML element. Uses Name and Attributes,
	// with parsed children.
	KindHTMLBlock Kind = "html_block"
	// KindHTMLTag is a run of raw HTML emitted in GitHub-flavored mode.
	// Uses Value.
	KindHTMLTag Kind = "html_tag"
	// KindFootnoteReference uses Label.
	KindFootnoteReference Kind = "footnote_reference"
	// KindFootnoteDefinition uses Label; children are the note body.
	KindFootnoteDefinition Kind = "footnote_definition"

	// KindTabs groups KindTab children.
	KindTabs Kind = "tabs"
	// KindTab uses Tab.
	KindTab Kind = "tab"
	// KindSteps groups KindStep children.
	KindSteps Kind = "steps"
	// KindStep uses Step.
	KindStep Kind = "step"
	// KindCodeSelect groups KindCode children under a selector. Uses Title.
	KindCodeSelect Kind = "code_select"
	// KindFlex uses Flex.
	KindFlex Kind = "flex"
	// KindBox uses Box.
	KindBox Kind = "box"
	// KindGrid uses Grid.
	KindGrid Kind = "grid"
	// KindOpenAPISchema uses OpenAPISchema.
	KindOpenAPISchema Kind = "openapi_schema"
)

// Node is one element of the renderable tree.
type Node struct {
	Kind     Kind     `json:"kind"`
	Pos      Position `json:"position"`
	Children []*Node  `json:"children,omitempty"`

	// Inline payloads. Which fields are meaningful depends on Kind.
	Value          string           `json:"value,omitempty"`
	URL            string           `json:"url,omitempty"`
	Title          string           `json:"title,omitempty"`
	Alt            string           `json:"alt,omitempty"`
	Level          int              `json:"level,omitempty"`
	Slug           string           `json:"slug,omitempty"`
	Ordered        bool             `json:"ordered,omitempty"`
	Start          *int             `json:"start,omitempty"`
	Spread         bool             `json:"spread,omitempty"`
	Checked        *bool            `json:"checked,omitempty"`
	Language       string           `json:"language,omitempty"`
	Label          string           `json:"label,omitempty"`
	Raw            bool             `json:"raw,omitempty"`
	ShowWhitespace bool             `json:"show_whitespace,omitempty"`
	DisplayMode    bool             `json:"display_mode,omitempty"`
	Name           string           `json:"name,omitempty"`
	Attributes     []Attribute      `json:"attributes,omitempty"`
	Alignment      []TableAlignment `json:"alignment,omitempty"`

	// Layout payloads for primitive components.
	Tab           *Tab           `json:"tab,omitempty"`
	Step          *Step          `json:"step,omitempty"`
	Flex          *Flex          `json:"flex,omitempty"`
	Box           *Box           `json:"box,omitempty"`
	Grid          *Grid          `json:"grid,omitempty"`
	OpenAPISchema *OpenAPISchema `json:"openapi_schema,omitempty"`
}

// Tab is the payload of a KindTab node.
type Tab struct {
	Title string `json:"title"`
}

// Step is the payload of a KindStep node.
type Step struct {
	Title string `json:"title"`
}

// Flex is the payload of a KindFlex node. Zero-valued enum fields were
// already defaulted during interpretation.
type Flex struct {
	Justify   string `json:"justify"`
	Align     string `json:"align"`
	Direction string `json:"direction"`
	Wrap      string `json:"wrap"`
	Gap       *int   `json:"gap,omitempty"`
	Pad       *int   `json:"pad,omitempty"`
	Height    string `json:"height,omitempty"`
	Class     string `json:"class,omitempty"`
}

// Box is the payload of a KindBox node.
type Box struct {
	MaxWidth string `json:"max_width"`
	Pad      int    `json:"pad"`
	Height   string `json:"height"`
	Class    string `json:"class,omitempty"`
}

// Grid is the payload of a KindGrid node.
type Grid struct {
	Columns int  `json:"columns"`
	Gap     *int `json:"gap,omitempty"`
}

// OpenAPISchema is the payload of a KindOpenAPISchema node.
type OpenAPISchema struct {
	Title    string `json:"title,omitempty"`
	Path     string `json:"openapi_path"`
	Expanded bool   `json:"expanded"`
}

// NewNode returns a node of the given kind with a position.
func NewNode(kind Kind, pos Position) *Node {
	return &Node{Kind: kind, Pos: pos}
}

// Append adds children to the node and returns it.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Walk visits the node and all its descendants depth-first, in document
// order. Returning false from visit stops descent into that node's children
// but continues with its siblings.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// Descendants returns the node and every node under it in document order.
func Descendants(n *Node) []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		out = append(out, c)
		return true
	})
	return out
}

// InnerText flattens the textual content under a node: text and inline code
// values carry through, explicit breaks and paragraph boundaries become a
// single space, code block bodies contribute their value after a space. The
// result is trimmed of surrounding whitespace.
func InnerText(n *Node) string {
	var b []byte
	var walk func(*Node)
	walk = func(c *Node) {
		switch c.Kind {
		case KindText, KindInlineCode:
			b = append(b, c.Value...)
		case KindBreak:
			b = append(b, ' ')
		case KindCode:
			b = append(b, ' ')
			b = append(b, c.Value...)
		case KindParagraph:
			for _, ch := range c.Children {
				walk(ch)
			}
			b = append(b, ' ')
			return
		}
		for _, ch := range c.Children {
			walk(ch)
		}
	}
	walk(n)
	return strings.TrimSpace(string(b))
}
