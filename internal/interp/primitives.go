package interp

import (
	"fmt"
	"strings"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/content"
)

// tabs renders a Tabs container. Every meaningful child must be a Tab;
// whitespace between tabs is dropped.
func (in *Interpreter) tabs(n *content.Node) (*ast.Node, *docapella.Error) {
	children, err := in.renderGroupChildren(n)
	if err != nil {
		return nil, err
	}
	node := ast.NewNode(ast.KindTabs, n.Pos)
	for _, c := range children {
		if isInterTagWhitespace(c) {
			continue
		}
		if c.Kind != ast.KindTab {
			return nil, docapella.NewError(docapella.CodeInvalidTabs, "Error in tabs").
				WithExcerpt(in.source, c.Pos, "Invalid tab node")
		}
		node.Append(c)
	}
	return node, nil
}

func (in *Interpreter) tab(n *content.Node) (*ast.Node, *docapella.Error) {
	if n.PrimTitle == nil {
		return nil, docapella.NewError(docapella.CodeInvalidComponent, "Error in tab").
			WithExcerpt(in.source, n.Pos, "Missing title")
	}
	title, err := in.evaluateOptionValue(n.PrimTitle, n.Pos)
	if err != nil {
		return nil, err
	}
	children, cerr := in.renderChildren(n.Children)
	if cerr != nil {
		return nil, cerr
	}
	node := ast.NewNode(ast.KindTab, n.Pos).Append(children...)
	node.Tab = &ast.Tab{Title: title}
	return node, nil
}

// steps mirrors tabs with Step children.
func (in *Interpreter) steps(n *content.Node) (*ast.Node, *docapella.Error) {
	children, err := in.renderGroupChildren(n)
	if err != nil {
		return nil, err
	}
	node := ast.NewNode(ast.KindSteps, n.Pos)
	for _, c := range children {
		if isInterTagWhitespace(c) {
			continue
		}
		if c.Kind != ast.KindStep {
			return nil, docapella.NewError(docapella.CodeInvalidSteps, "Error in steps").
				WithExcerpt(in.source, c.Pos, "Invalid step node")
		}
		node.Append(c)
	}
	return node, nil
}

func (in *Interpreter) step(n *content.Node) (*ast.Node, *docapella.Error) {
	if n.PrimTitle == nil {
		return nil, docapella.NewError(docapella.CodeInvalidSteps, "Error in step").
			WithExcerpt(in.source, n.Pos, "Missing title")
	}
	title, err := in.evaluateOptionValue(n.PrimTitle, n.Pos)
	if err != nil {
		return nil, err
	}
	children, cerr := in.renderChildren(n.Children)
	if cerr != nil {
		return nil, cerr
	}
	node := ast.NewNode(ast.KindStep, n.Pos).Append(children...)
	node.Step = &ast.Step{Title: title}
	return node, nil
}

// codeSelect renders a CodeSelect: a group of code blocks picked between
// by label. A lone child collapses back into a plain code block.
func (in *Interpreter) codeSelect(n *content.Node) (*ast.Node, *docapella.Error) {
	title := ""
	if n.PrimTitle != nil {
		var err *docapella.Error
		title, err = in.evaluateOptionValue(n.PrimTitle, n.Pos)
		if err != nil {
			return nil, err
		}
	}

	children, err := in.renderGroupChildren(n)
	if err != nil {
		return nil, err
	}

	blocks := make([]*ast.Node, 0, len(children))
	for _, c := range children {
		if isInterTagWhitespace(c) {
			continue
		}
		if c.Kind != ast.KindCode {
			return nil, docapella.NewError(docapella.CodeInvalidComponent, "Error in code tabs").
				WithExcerpt(in.source, c.Pos, "Expected a code block")
		}
		blocks = append(blocks, c)
	}

	seen := map[string]struct{}{}
	for _, c := range blocks {
		if c.Title == "" {
			c.Title = title
		}
		switch {
		case strings.Contains(c.Language, "="):
			return nil, docapella.NewError(docapella.CodeInvalidComponent, "Error in code tabs").
				WithExcerpt(in.source, c.Pos, "Add language to use code attributes")
		case c.Title == "":
			return nil, docapella.NewError(docapella.CodeInvalidComponent, "Error in code tabs").
				WithExcerpt(in.source, c.Pos, "Missing title")
		case c.Label == "":
			return nil, docapella.NewError(docapella.CodeInvalidComponent, "Error in code tabs").
				WithExcerpt(in.source, c.Pos, "Add either a language or label for the code block.")
		}
		if _, dup := seen[c.Label]; dup {
			return nil, docapella.NewError(docapella.CodeInvalidComponent, "Error in code tabs").
				WithExcerpt(in.source, c.Pos, "Labels must be unique")
		}
		seen[c.Label] = struct{}{}
	}

	if len(blocks) == 1 {
		return blocks[0], nil
	}
	node := ast.NewNode(ast.KindCodeSelect, n.Pos).Append(blocks...)
	node.Title = title
	return node, nil
}

func (in *Interpreter) flex(n *content.Node) (*ast.Node, *docapella.Error) {
	fail := func(label string) *docapella.Error {
		return docapella.NewError(docapella.CodeInvalidComponent, "Error in flex").
			WithExcerpt(in.source, n.Pos, label)
	}

	f := &ast.Flex{Justify: "start", Align: "start", Direction: "row", Wrap: "nowrap", Height: "auto"}
	gap, pad := 0, 0

	if v, err := in.optionalEnum(n.Flex.Justify, n.Pos, "justify",
		"start", "center", "end", "between"); err != nil {
		return nil, err
	} else if v != "" {
		f.Justify = v
	}
	if v, err := in.optionalEnum(n.Flex.Align, n.Pos, "align",
		"start", "center", "end", "baseline", "stretch"); err != nil {
		return nil, err
	} else if v != "" {
		f.Align = v
	}
	if v, err := in.optionalEnum(n.Flex.Direction, n.Pos, "dir",
		"row", "column", "row-reverse", "column-reverse"); err != nil {
		return nil, err
	} else if v != "" {
		f.Direction = v
	}
	if v, err := in.optionalEnum(n.Flex.Wrap, n.Pos, "wrap",
		"wrap", "nowrap", "wrap-reverse"); err != nil {
		return nil, err
	} else if v != "" {
		f.Wrap = v
	}
	if n.Flex.Gap != nil {
		text, err := in.evaluateOptionValue(n.Flex.Gap, n.Pos)
		if err != nil {
			return nil, err
		}
		v, ok := intInRange(text, 0, 6)
		if !ok {
			return nil, fail("Invalid gap. Expected a number between 0 and 5.")
		}
		gap = v
	}
	if n.Flex.Padding != nil {
		text, err := in.evaluateOptionValue(n.Flex.Padding, n.Pos)
		if err != nil {
			return nil, err
		}
		v, ok := intInRange(text, 0, 6)
		if !ok {
			return nil, fail("Invalid pad. Expected a number between 0 and 5.")
		}
		pad = v
	}
	if v, err := in.optionalEnum(n.Flex.Height, n.Pos, "height", "auto", "full"); err != nil {
		return nil, err
	} else if v != "" {
		f.Height = v
	}
	if n.Flex.Class != nil {
		v, err := in.evaluateOptionValue(n.Flex.Class, n.Pos)
		if err != nil {
			return nil, err
		}
		f.Class = v
	}
	f.Gap = &gap
	f.Pad = &pad

	children, err := in.renderChildren(n.Children)
	if err != nil {
		return nil, err
	}
	node := ast.NewNode(ast.KindFlex, n.Pos).Append(children...)
	node.Flex = f
	return node, nil
}

func (in *Interpreter) box(n *content.Node) (*ast.Node, *docapella.Error) {
	b := &ast.Box{MaxWidth: "full", Height: "auto"}

	if v, err := in.optionalEnum(n.Box.MaxWidth, n.Pos, "max_width",
		"sm", "md", "lg", "xl", "full"); err != nil {
		return nil, err
	} else if v != "" {
		b.MaxWidth = v
	}
	if n.Box.Padding != nil {
		text, err := in.evaluateOptionValue(n.Box.Padding, n.Pos)
		if err != nil {
			return nil, err
		}
		v, ok := intInRange(text, 0, 6)
		if !ok {
			return nil, docapella.NewError(docapella.CodeInvalidComponent, "Error in box").
				WithExcerpt(in.source, n.Pos, "Invalid pad. Expected a number between 0 and 5.")
		}
		b.Pad = v
	}
	if v, err := in.optionalEnum(n.Box.Height, n.Pos, "height", "auto", "full"); err != nil {
		return nil, err
	} else if v != "" {
		b.Height = v
	}
	if n.Box.Class != nil {
		v, err := in.evaluateOptionValue(n.Box.Class, n.Pos)
		if err != nil {
			return nil, err
		}
		b.Class = v
	}

	children, err := in.renderChildren(n.Children)
	if err != nil {
		return nil, err
	}
	node := ast.NewNode(ast.KindBox, n.Pos).Append(children...)
	node.Box = b
	return node, nil
}

func (in *Interpreter) grid(n *content.Node) (*ast.Node, *docapella.Error) {
	g := &ast.Grid{Columns: 2}
	gap := 1

	if n.Grid.Cols != nil {
		text, err := in.evaluateOptionValue(n.Grid.Cols, n.Pos)
		if err != nil {
			return nil, err
		}
		v, ok := intInRange(text, 1, 5)
		if !ok {
			return nil, docapella.NewError(docapella.CodeInvalidComponent, "Error in grid").
				WithExcerpt(in.source, n.Pos, "Invalid cols. Expected a number between 1 and 4.")
		}
		g.Columns = v
	}
	if n.Grid.Gap != nil {
		text, err := in.evaluateOptionValue(n.Grid.Gap, n.Pos)
		if err != nil {
			return nil, err
		}
		v, ok := intInRange(text, 1, 6)
		if !ok {
			return nil, docapella.NewError(docapella.CodeInvalidComponent, "Error in grid").
				WithExcerpt(in.source, n.Pos, "Invalid gap. Expected a number between 1 and 5.")
		}
		gap = v
	}
	g.Gap = &gap

	children, err := in.renderChildren(n.Children)
	if err != nil {
		return nil, err
	}
	node := ast.NewNode(ast.KindGrid, n.Pos).Append(children...)
	node.Grid = g
	return node, nil
}

func (in *Interpreter) openAPISchema(n *content.Node) (*ast.Node, *docapella.Error) {
	schema := &ast.OpenAPISchema{Expanded: true}

	if n.OpenAPI.Path == nil {
		return nil, docapella.NewError(docapella.CodeInvalidOpenAPISchema, "Error in openapi schema").
			WithExcerpt(in.source, n.Pos, "Missing openapi_path")
	}
	path, err := in.evaluateOptionValue(n.OpenAPI.Path, n.Pos)
	if err != nil {
		return nil, err
	}
	schema.Path = path

	if n.OpenAPI.Title != nil {
		title, err := in.evaluateOptionValue(n.OpenAPI.Title, n.Pos)
		if err != nil {
			return nil, err
		}
		schema.Title = title
	}
	if n.OpenAPI.Expanded != nil {
		val, err := in.evaluateAttributeValue(n.OpenAPI.Expanded, n.Pos)
		if err != nil {
			return nil, err
		}
		schema.Expanded = parseBoolValue(val, true)
	}

	node := ast.NewNode(ast.KindOpenAPISchema, n.Pos)
	node.OpenAPISchema = schema
	return node, nil
}

// optionalEnum evaluates an optional attribute and checks it against the
// accepted values. An unset attribute returns "".
func (in *Interpreter) optionalEnum(v *ast.AttributeValue, pos ast.Position, name string, accepted ...string) (string, *docapella.Error) {
	if v == nil {
		return "", nil
	}
	text, err := in.evaluateOptionValue(v, pos)
	if err != nil {
		return "", err
	}
	for _, a := range accepted {
		if text == a {
			return text, nil
		}
	}
	return "", docapella.NewError(docapella.CodeInvalidComponent, fmt.Sprintf("Error in %s", enumOwner(name))).
		WithExcerpt(in.source, pos, fmt.Sprintf("Invalid %s. Expected one of %s.", name, enumList(accepted)))
}

// enumOwner maps an attribute name to the element its error message names.
func enumOwner(attr string) string {
	switch attr {
	case "max_width":
		return "box"
	default:
		return "flex"
	}
}

func enumList(accepted []string) string {
	quoted := make([]string, len(accepted))
	for i, a := range accepted {
		quoted[i] = "`" + a + "`"
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// renderGroupChildren renders the children of a grouping element,
// unwrapping the single paragraph or root markdown often wraps them in.
func (in *Interpreter) renderGroupChildren(n *content.Node) ([]*ast.Node, *docapella.Error) {
	children, err := in.renderChildren(n.Children)
	if err != nil {
		return nil, err
	}
	if len(children) == 1 && (children[0].Kind == ast.KindParagraph || children[0].Kind == ast.KindRoot) {
		children = children[0].Children
	}
	return children, nil
}

// isInterTagWhitespace reports whether a rendered node is the whitespace
// the tokenizer keeps between adjacent elements.
func isInterTagWhitespace(n *ast.Node) bool {
	return n.Kind == ast.KindText && (n.Value == "\n" || n.Value == " ")
}
