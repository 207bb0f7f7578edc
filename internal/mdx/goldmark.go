package mdx

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/content"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.TaskList),
)

// parseMarkdown runs goldmark over src[start:end] and converts the
// result into content nodes, with positions translated back into
// full-document coordinates.
func (t *tokenizer) parseMarkdown(start, end int) []*content.Node {
	body := []byte(t.src[start:end])
	pctx := parser.NewContext()
	doc := markdownEngine.Parser().Parse(text.NewReader(body), parser.WithContext(pctx))

	c := &converter{t: t, src: body, base: start}
	nodes := c.blocks(doc)

	// reference definitions live in the parse context, not in the tree
	for _, ref := range pctx.References() {
		d := content.NewNode(content.KindDefinition, t.spanPos(start, start))
		d.Identifier = strings.ToLower(string(ref.Label()))
		label := string(ref.Label())
		d.Label = &label
		d.URL = string(ref.Destination())
		if title := string(ref.Title()); title != "" {
			d.Title = &title
		}
		nodes = append(nodes, d)
	}
	return nodes
}

type converter struct {
	t    *tokenizer
	src  []byte
	base int
}

func (c *converter) pos(start, stop int) ast.Position {
	return c.t.spanPos(c.base+start, c.base+stop)
}

// nodeSpan finds the byte range a goldmark node covers, walking into
// children for container nodes that carry no lines of their own.
func (c *converter) nodeSpan(gn gmast.Node) (int, int, bool) {
	start, stop := -1, -1
	add := func(s, e int) {
		if start < 0 || s < start {
			start = s
		}
		if e > stop {
			stop = e
		}
	}
	var walk func(gmast.Node)
	walk = func(gn gmast.Node) {
		if gn.Type() == gmast.TypeBlock {
			if lines := gn.Lines(); lines != nil && lines.Len() > 0 {
				add(lines.At(0).Start, lines.At(lines.Len()-1).Stop)
			}
		}
		switch n := gn.(type) {
		case *gmast.Text:
			add(n.Segment.Start, n.Segment.Stop)
		case *gmast.RawHTML:
			if n.Segments.Len() > 0 {
				add(n.Segments.At(0).Start, n.Segments.At(n.Segments.Len()-1).Stop)
			}
		}
		for ch := gn.FirstChild(); ch != nil; ch = ch.NextSibling() {
			walk(ch)
		}
	}
	walk(gn)
	return start, stop, start >= 0
}

func (c *converter) nodePos(gn gmast.Node) ast.Position {
	if s, e, ok := c.nodeSpan(gn); ok {
		return c.pos(s, e)
	}
	return c.pos(0, len(c.src))
}

func (c *converter) blocks(parent gmast.Node) []*content.Node {
	var out []*content.Node
	for ch := parent.FirstChild(); ch != nil; ch = ch.NextSibling() {
		out = append(out, c.block(ch)...)
	}
	return out
}

func (c *converter) block(gn gmast.Node) []*content.Node {
	switch n := gn.(type) {
	case *gmast.Heading:
		h := content.NewNode(content.KindHeading, c.nodePos(gn))
		h.Level = n.Level
		h.Children = c.inlines(gn)
		return []*content.Node{h}
	case *gmast.Paragraph:
		return c.paragraph(gn)
	case *gmast.TextBlock:
		return c.paragraph(gn)
	case *gmast.Blockquote:
		b := content.NewNode(content.KindBlockquote, c.nodePos(gn))
		b.Children = c.blocks(gn)
		return []*content.Node{b}
	case *gmast.List:
		l := content.NewNode(content.KindList, c.nodePos(gn))
		l.Ordered = n.IsOrdered()
		if n.IsOrdered() {
			start := n.Start
			l.Start = &start
		}
		l.Spread = !n.IsTight
		for item := gn.FirstChild(); item != nil; item = item.NextSibling() {
			l.Children = append(l.Children, c.listItem(item, !n.IsTight))
		}
		return []*content.Node{l}
	case *gmast.FencedCodeBlock:
		return []*content.Node{c.fencedCode(n)}
	case *gmast.CodeBlock:
		code := content.NewNode(content.KindCode, c.nodePos(gn))
		code.Value = strings.TrimSuffix(c.linesValue(gn), "\n")
		return []*content.Node{code}
	case *gmast.ThematicBreak:
		return []*content.Node{content.NewNode(content.KindThematicBreak, c.nodePos(gn))}
	case *gmast.HTMLBlock:
		return c.htmlBlock(n)
	case *extast.Table:
		return []*content.Node{c.table(n)}
	default:
		return nil
	}
}

func (c *converter) listItem(gn gmast.Node, spread bool) *content.Node {
	li := content.NewNode(content.KindListItem, c.nodePos(gn))
	li.Spread = spread
	if fc := gn.FirstChild(); fc != nil {
		if cb, ok := fc.FirstChild().(*extast.TaskCheckBox); ok {
			checked := cb.IsChecked
			li.Checked = &checked
		}
	}
	li.Children = c.blocks(gn)
	return li
}

func (c *converter) fencedCode(n *gmast.FencedCodeBlock) *content.Node {
	code := content.NewNode(content.KindCode, c.nodePos(n))
	code.Value = strings.TrimSuffix(c.linesValue(n), "\n")
	if n.Info != nil {
		info := string(n.Info.Segment.Value(c.src))
		lang := string(n.Language(c.src))
		if lang != "" {
			code.Language = &lang
		}
		if meta := strings.TrimSpace(strings.TrimPrefix(info, lang)); meta != "" {
			code.Meta = &meta
		}
	}
	return code
}

func (c *converter) table(n *extast.Table) *content.Node {
	tbl := content.NewNode(content.KindTable, c.nodePos(n))
	for _, a := range n.Alignments {
		tbl.Alignment = append(tbl.Alignment, tableAlignment(a))
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		tr := content.NewNode(content.KindTableRow, c.nodePos(row))
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			tc := content.NewNode(content.KindTableCell, c.nodePos(cell))
			tc.Children = c.inlines(cell)
			tr.Children = append(tr.Children, tc)
		}
		tbl.Children = append(tbl.Children, tr)
	}
	content.BalanceTable(tbl.Alignment, tbl.Children)
	return tbl
}

func tableAlignment(a extast.Alignment) ast.TableAlignment {
	switch a {
	case extast.AlignLeft:
		return ast.AlignLeft
	case extast.AlignRight:
		return ast.AlignRight
	case extast.AlignCenter:
		return ast.AlignCenter
	}
	return ast.AlignNone
}

// paragraph converts a paragraph or text block. A `$$ … $$` paragraph
// becomes display math. A paragraph whose children are nothing but
// elements and whitespace dissolves into its children, so components
// written on their own line are flow content rather than inline.
func (c *converter) paragraph(gn gmast.Node) []*content.Node {
	if m := c.mathBlock(gn); m != nil {
		return []*content.Node{m}
	}
	children := c.inlines(gn)
	if c.t.mdx && allEmbedded(children) {
		return children
	}
	p := content.NewNode(content.KindParagraph, c.nodePos(gn))
	p.Children = children
	return []*content.Node{p}
}

func allEmbedded(nodes []*content.Node) bool {
	embedded := false
	for _, n := range nodes {
		switch {
		case n.IsWhitespaceOrLinebreak():
		case n.Kind == content.KindComponent || n.Kind == content.KindHTMLBlock ||
			n.Kind == content.KindConditional || n.IsPrimitive():
			embedded = true
		default:
			return false
		}
	}
	return embedded
}

func (c *converter) mathBlock(gn gmast.Node) *content.Node {
	lines := gn.Lines()
	if lines == nil || lines.Len() == 0 {
		return nil
	}
	raw := strings.TrimSpace(c.linesValue(gn))
	if len(raw) < 5 || !strings.HasPrefix(raw, "$$") || !strings.HasSuffix(raw, "$$") {
		return nil
	}
	inner := strings.TrimSpace(raw[2 : len(raw)-2])
	if inner == "" {
		return nil
	}
	m := content.NewNode(content.KindMath, c.nodePos(gn))
	m.Value = inner
	return m
}

func (c *converter) htmlBlock(n *gmast.HTMLBlock) []*content.Node {
	s, e, ok := c.nodeSpan(n)
	raw := c.linesValue(n)
	if n.HasClosure() {
		raw += string(n.ClosureLine.Value(c.src))
		if n.ClosureLine.Stop > e {
			e = n.ClosureLine.Stop
		}
	}
	if c.t.mdx && ok {
		// a raw HTML block that goldmark swallowed whole; re-run the
		// element builder over its span
		from, to := c.t.eventsIn(c.base+s, c.base+e)
		if from < to && eventsNestWithin(c.t.events, from, to) {
			return c.t.buildRegion(c.base+s, c.base+e, from, to, true)
		}
	}
	h := content.NewNode(content.KindHTMLTag, c.nodePos(n))
	h.Value = strings.TrimSuffix(raw, "\n")
	return []*content.Node{h}
}

func eventsNestWithin(events []event, from, to int) bool {
	for i := from; i < to; i++ {
		if m := events[i].match; m >= 0 && (m < from || m >= to) {
			return false
		}
	}
	return true
}

func (c *converter) linesValue(gn gmast.Node) string {
	var b strings.Builder
	lines := gn.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}
