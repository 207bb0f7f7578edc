// Package interp evaluates a content tree into the renderable document
// tree: expressions are evaluated against the page environment, components
// expanded, conditionals resolved, primitive elements validated and HTML
// sanitized. Interpretation is fail-fast; the first error aborts the walk.
package interp

import (
	"strconv"
	"strings"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/content"
	"github.com/Doctave/docapella-sub001/internal/expr"
)

// maxComponentDepth bounds component nesting before a recursive call is
// assumed.
const maxComponentDepth = 50

// Interpreter walks one document. Component expansion spawns a child
// interpreter per invocation with the component body as its source.
type Interpreter struct {
	ctx    *docapella.RenderContext
	source string

	env           *expr.Env
	slotInjection []*ast.Node
	stackDepth    int

	definitions map[string]definition
	anchors     *anchorizer
}

// definition is a collected link reference definition ([id]: url "title").
type definition struct {
	url   string
	title *string
}

// New returns an interpreter for one document. source is the text the
// content tree was parsed from and is only used for error excerpts.
func New(ctx *docapella.RenderContext, source string) *Interpreter {
	if ctx == nil {
		ctx = docapella.NewRenderContext()
	}
	env := expr.NewEnv()
	prefs := map[string]expr.Value{}
	if ctx.Options != nil {
		for k, v := range ctx.Options.UserPreferences {
			prefs[k] = expr.StringValue(v)
		}
	}
	env.AddGlobal("user_preferences", expr.ObjectValue(prefs))

	return &Interpreter{
		ctx:     ctx,
		source:  source,
		env:     env,
		anchors: newAnchorizer(),
	}
}

// Interpret evaluates the content tree and returns the renderable root.
func (in *Interpreter) Interpret(root *content.Node) (*ast.Node, *docapella.Error) {
	in.definitions = collectDefinitions(root)
	return in.walk(root)
}

// collectDefinitions gathers reference definitions in a pre-pass so that
// references earlier in the document resolve too.
func collectDefinitions(root *content.Node) map[string]definition {
	defs := map[string]definition{}
	for _, n := range root.Descendants() {
		if n.Kind == content.KindDefinition {
			defs[strings.ToLower(n.Identifier)] = definition{url: n.URL, title: n.Title}
		}
	}
	return defs
}

// walk evaluates one node. A nil result with a nil error means the node
// produced no output and is dropped from its parent.
func (in *Interpreter) walk(n *content.Node) (*ast.Node, *docapella.Error) {
	switch n.Kind {
	case content.KindNoop, content.KindDefinition:
		return nil, nil

	case content.KindRoot:
		return in.container(ast.KindRoot, n)

	case content.KindParagraph:
		children, err := in.renderChildren(n.Children)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, nil
		}
		return ast.NewNode(ast.KindParagraph, n.Pos).Append(children...), nil

	case content.KindHeading:
		children, err := in.renderChildren(n.Children)
		if err != nil {
			return nil, err
		}
		node := ast.NewNode(ast.KindHeading, n.Pos).Append(children...)
		node.Level = n.Level
		node.Slug = in.anchors.anchorize(ast.InnerText(node))
		return node, nil

	case content.KindText:
		node := ast.NewNode(ast.KindText, n.Pos)
		node.Value = n.Value
		return node, nil

	case content.KindStrong:
		return in.container(ast.KindStrong, n)
	case content.KindEmphasis:
		return in.container(ast.KindEmphasis, n)
	case content.KindDelete:
		return in.container(ast.KindDelete, n)
	case content.KindBlockquote:
		return in.container(ast.KindBlockquote, n)
	case content.KindTableRow:
		return in.container(ast.KindTableRow, n)
	case content.KindTableCell:
		return in.container(ast.KindTableCell, n)

	case content.KindBreak:
		return ast.NewNode(ast.KindBreak, n.Pos), nil
	case content.KindThematicBreak:
		return ast.NewNode(ast.KindThematicBreak, n.Pos), nil

	case content.KindInlineCode:
		node := ast.NewNode(ast.KindInlineCode, n.Pos)
		node.Value = n.Value
		return node, nil

	case content.KindCode:
		return in.codeBlock(n)

	case content.KindMath:
		node := ast.NewNode(ast.KindMath, n.Pos)
		node.Value = n.Value
		if n.Meta != nil {
			meta := parseMetaAttributes(*n.Meta)
			node.DisplayMode = meta["display_mode"] == "true"
		}
		return node, nil

	case content.KindInlineMath:
		node := ast.NewNode(ast.KindInlineMath, n.Pos)
		node.Value = n.Value
		return node, nil

	case content.KindLink:
		children, err := in.renderChildren(n.Children)
		if err != nil {
			return nil, err
		}
		node := ast.NewNode(ast.KindLink, n.Pos).Append(children...)
		node.URL = n.URL
		if n.Title != nil {
			node.Title = *n.Title
		}
		return node, nil

	case content.KindImage:
		node := ast.NewNode(ast.KindImage, n.Pos)
		node.URL = n.URL
		node.Alt = n.Alt
		if n.Title != nil {
			node.Title = *n.Title
		}
		return node, nil

	case content.KindLinkRef:
		children, err := in.renderChildren(n.Children)
		if err != nil {
			return nil, err
		}
		node := ast.NewNode(ast.KindLink, n.Pos).Append(children...)
		if def, ok := in.definitions[strings.ToLower(n.Identifier)]; ok {
			node.URL = def.url
			if def.title != nil {
				node.Title = *def.title
			}
		}
		return node, nil

	case content.KindImageRef:
		node := ast.NewNode(ast.KindImage, n.Pos)
		node.Alt = n.Alt
		if def, ok := in.definitions[strings.ToLower(n.Identifier)]; ok {
			node.URL = def.url
			if def.title != nil {
				node.Title = *def.title
			}
		}
		return node, nil

	case content.KindList:
		children, err := in.renderChildren(n.Children)
		if err != nil {
			return nil, err
		}
		node := ast.NewNode(ast.KindList, n.Pos).Append(children...)
		node.Ordered = n.Ordered
		node.Start = n.Start
		node.Spread = n.Spread
		return node, nil

	case content.KindListItem:
		children, err := in.renderChildren(n.Children)
		if err != nil {
			return nil, err
		}
		node := ast.NewNode(ast.KindListItem, n.Pos).Append(children...)
		node.Checked = n.Checked
		node.Spread = n.Spread
		return node, nil

	case content.KindTable:
		children, err := in.renderChildren(n.Children)
		if err != nil {
			return nil, err
		}
		node := ast.NewNode(ast.KindTable, n.Pos).Append(children...)
		node.Alignment = n.Alignment
		return node, nil

	case content.KindHTMLTag:
		node := ast.NewNode(ast.KindHTMLTag, n.Pos)
		node.Value = n.Value
		return node, nil

	case content.KindHTMLBlock:
		return in.htmlBlock(n)

	case content.KindExpression:
		return in.expression(n)

	case content.KindExprBlock:
		text, err := in.expression(n)
		if err != nil {
			return nil, err
		}
		return ast.NewNode(ast.KindParagraph, n.Pos).Append(text), nil

	case content.KindConditional:
		return in.conditional(n)

	case content.KindComponent:
		return in.component(n)

	case content.KindSlot:
		return in.slot(n)

	case content.KindTabs:
		return in.tabs(n)
	case content.KindTab:
		return in.tab(n)
	case content.KindSteps:
		return in.steps(n)
	case content.KindStep:
		return in.step(n)
	case content.KindCodeSelect:
		return in.codeSelect(n)
	case content.KindFlex:
		return in.flex(n)
	case content.KindBox:
		return in.box(n)
	case content.KindGrid:
		return in.grid(n)
	case content.KindOpenAPISchema:
		return in.openAPISchema(n)
	}

	// Unknown kinds pass their children through so a parser addition
	// degrades to dropped markup instead of lost content.
	return in.container(ast.KindRoot, n)
}

// container renders a node whose output is just its rendered children.
func (in *Interpreter) container(kind ast.Kind, n *content.Node) (*ast.Node, *docapella.Error) {
	children, err := in.renderChildren(n.Children)
	if err != nil {
		return nil, err
	}
	return ast.NewNode(kind, n.Pos).Append(children...), nil
}

// renderChildren walks a sibling list, dropping nodes that produced no
// output.
func (in *Interpreter) renderChildren(children []*content.Node) ([]*ast.Node, *docapella.Error) {
	out := make([]*ast.Node, 0, len(children))
	for _, c := range children {
		node, err := in.walk(c)
		if err != nil {
			return nil, err
		}
		if node != nil {
			out = append(out, node)
		}
	}
	return out, nil
}

// expression evaluates an inline or block expression into a text node.
func (in *Interpreter) expression(n *content.Node) (*ast.Node, *docapella.Error) {
	val, everr := expr.EvalString(n.Value, in.env)
	if everr != nil {
		return nil, docapella.NewError(docapella.CodeInvalidExpression, "Error in expression").
			WithExcerpt(in.source, n.Pos, everr.Message)
	}
	node := ast.NewNode(ast.KindText, n.Pos)
	node.Value = val.String()
	return node, nil
}

// conditional evaluates the condition and walks the matching branch. A
// bare else carries no expression and is always truthy.
func (in *Interpreter) conditional(n *content.Node) (*ast.Node, *docapella.Error) {
	condText := "True"
	if n.Cond.CondExpr != nil {
		condText = *n.Cond.CondExpr
	}
	val, everr := expr.EvalString(condText, in.env)
	if everr != nil {
		return nil, docapella.NewError(docapella.CodeInvalidExpression, "Error in expression").
			WithExcerpt(in.source, n.Pos, everr.Message)
	}
	if val.Truthy() {
		return in.walk(n.Cond.True)
	}
	return in.walk(n.Cond.False)
}

// codeBlock renders a fenced code block. Presentation attributes ride in
// the fence meta string: title, label, raw and show-whitespace.
func (in *Interpreter) codeBlock(n *content.Node) (*ast.Node, *docapella.Error) {
	node := ast.NewNode(ast.KindCode, n.Pos)
	node.Value = n.Value
	if n.Language != nil {
		node.Language = *n.Language
	}

	meta := map[string]string{}
	if n.Meta != nil {
		meta = parseMetaAttributes(*n.Meta)
	}
	node.Title = meta["title"]
	if label, ok := meta["label"]; ok {
		node.Label = label
	} else {
		node.Label = capitalize(node.Language)
	}
	node.Raw = meta["raw"] == "true"
	node.ShowWhitespace = meta["show-whitespace"] == "true"
	return node, nil
}

// parseMetaAttributes reads key="value" pairs from a code fence meta
// string. Bare keys read as "true"; malformed input yields what was
// parseable up to that point.
func parseMetaAttributes(meta string) map[string]string {
	out := map[string]string{}
	i := 0
	for i < len(meta) {
		for i < len(meta) && (meta[i] == ' ' || meta[i] == '\t') {
			i++
		}
		start := i
		for i < len(meta) && meta[i] != '=' && meta[i] != ' ' && meta[i] != '\t' {
			i++
		}
		if start == i {
			break
		}
		key := meta[start:i]
		if i >= len(meta) || meta[i] != '=' {
			out[key] = "true"
			continue
		}
		i++ // '='
		if i < len(meta) && (meta[i] == '"' || meta[i] == '\'') {
			quote := meta[i]
			i++
			vstart := i
			for i < len(meta) && meta[i] != quote {
				i++
			}
			if i >= len(meta) {
				break
			}
			out[key] = meta[vstart:i]
			i++
		} else {
			vstart := i
			for i < len(meta) && meta[i] != ' ' && meta[i] != '\t' {
				i++
			}
			out[key] = meta[vstart:i]
		}
	}
	return out
}

// capitalize upper-cases the first rune, used for the default code block
// label derived from the language.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// parseBoolValue reads an expression value the way boolean-ish attributes
// do: booleans pass through, strings parse, anything else defaults.
func parseBoolValue(v expr.Value, fallback bool) bool {
	switch v.Kind {
	case expr.KindBool:
		return v.Bool
	case expr.KindString:
		if b, err := strconv.ParseBool(v.Str); err == nil {
			return b
		}
		return fallback
	default:
		return fallback
	}
}
