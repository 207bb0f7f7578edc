package mdx

import (
	"fmt"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/Doctave/docapella-sub001/internal/content"
)

// inlines converts a goldmark node's inline children, stitching raw
// HTML back into element nodes and splitting text around embedded
// expressions, then folds any conditional chains the stitching exposed.
func (c *converter) inlines(parent gmast.Node) []*content.Node {
	nodes, _ := c.convertSiblings(parent.FirstChild(), -1)
	return c.t.foldChildren(nodes)
}

// convertSiblings converts an inline sibling chain. When stopAt is a
// valid offset, conversion stops at the raw HTML tag starting there and
// returns it, so an element opener can find its closing tag.
func (c *converter) convertSiblings(first gmast.Node, stopAt int) ([]*content.Node, gmast.Node) {
	var out []*content.Node
	for gn := first; gn != nil; {
		if rh, ok := gn.(*gmast.RawHTML); ok && stopAt >= 0 && rh.Segments.Len() > 0 &&
			c.base+rh.Segments.At(0).Start == stopAt {
			return out, gn
		}
		gn = c.inline(gn, &out)
	}
	return out, nil
}

// inline converts one inline node and returns the next sibling to
// continue from; raw HTML openers consume their whole element.
func (c *converter) inline(gn gmast.Node, out *[]*content.Node) gmast.Node {
	next := gn.NextSibling()
	switch n := gn.(type) {
	case *gmast.Text:
		*out = append(*out, c.textNodes(n)...)
	case *gmast.String:
		s := content.NewNode(content.KindText, c.nodePos(gn))
		s.Value = string(n.Value)
		*out = append(*out, s)
	case *gmast.CodeSpan:
		ic := content.NewNode(content.KindInlineCode, c.nodePos(gn))
		ic.Value = c.codeSpanValue(n)
		*out = append(*out, ic)
	case *gmast.Emphasis:
		kind := content.KindEmphasis
		if n.Level == 2 {
			kind = content.KindStrong
		}
		e := content.NewNode(kind, c.nodePos(gn))
		e.Children = c.inlines(gn)
		*out = append(*out, e)
	case *extast.Strikethrough:
		d := content.NewNode(content.KindDelete, c.nodePos(gn))
		d.Children = c.inlines(gn)
		*out = append(*out, d)
	case *gmast.Link:
		l := content.NewNode(content.KindLink, c.nodePos(gn))
		l.URL = string(n.Destination)
		if title := string(n.Title); title != "" {
			l.Title = &title
		}
		l.Children = c.inlines(gn)
		*out = append(*out, l)
	case *gmast.AutoLink:
		*out = append(*out, c.autoLink(n))
	case *gmast.Image:
		img := content.NewNode(content.KindImage, c.nodePos(gn))
		img.URL = string(n.Destination)
		if title := string(n.Title); title != "" {
			img.Title = &title
		}
		alt := content.NewNode(content.KindRoot, img.Pos)
		alt.Children = c.inlines(gn)
		img.Alt = alt.InnerText()
		*out = append(*out, img)
	case *extast.TaskCheckBox:
		// recorded on the enclosing list item
	case *gmast.RawHTML:
		return c.rawHTML(n, next, out)
	}
	return next
}

func (c *converter) codeSpanValue(n *gmast.CodeSpan) string {
	var b strings.Builder
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if t, ok := ch.(*gmast.Text); ok {
			b.Write(t.Segment.Value(c.src))
		}
	}
	return b.String()
}

func (c *converter) autoLink(n *gmast.AutoLink) *content.Node {
	url := string(n.URL(c.src))
	label := string(n.Label(c.src))
	if n.AutoLinkType == gmast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
		url = "mailto:" + url
	}
	l := content.NewNode(content.KindLink, c.nodePos(n))
	l.URL = url
	txt := content.NewNode(content.KindText, l.Pos)
	txt.Value = label
	l.Children = []*content.Node{txt}
	return l
}

// rawHTML stitches a raw HTML inline back into an element node using
// the scanner's events. An opener collects the siblings up to its
// matching close tag as children.
func (c *converter) rawHTML(n *gmast.RawHTML, next gmast.Node, out *[]*content.Node) gmast.Node {
	if n.Segments.Len() == 0 {
		return next
	}
	absStart := c.base + n.Segments.At(0).Start
	if !c.t.mdx {
		h := content.NewNode(content.KindHTMLTag, c.nodePos(n))
		h.Value = c.segmentsValue(n)
		*out = append(*out, h)
		return next
	}
	evIdx, ok := c.t.eventAt[absStart]
	if !ok {
		// not scanned as an element (doctype and similar); keep verbatim
		h := content.NewNode(content.KindHTMLTag, c.nodePos(n))
		h.Value = c.segmentsValue(n)
		*out = append(*out, h)
		return next
	}
	ev := c.t.events[evIdx]
	switch ev.kind {
	case evComment:
		return next
	case evSelfClose:
		if node := c.t.elementNode(ev.tag, nil, ev.end); node != nil {
			*out = append(*out, node)
		}
		return next
	case evClose:
		c.t.failParse(ev.start, fmt.Sprintf("Unexpected closing tag `</%s>`", ev.tag.Name))
		return next
	case evOpen:
		closeEv := c.t.events[ev.match]
		children, closeNode := c.convertSiblings(next, closeEv.start)
		if closeNode == nil {
			c.t.failParse(ev.start, fmt.Sprintf("Expected a closing tag for `<%s>`", ev.tag.Name))
			return nil
		}
		children = c.t.foldChildren(children)
		if node := c.t.elementNode(ev.tag, children, closeEv.end); node != nil {
			*out = append(*out, node)
		}
		return closeNode.NextSibling()
	}
	return next
}

func (c *converter) segmentsValue(n *gmast.RawHTML) string {
	var b strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}

// textNodes converts one goldmark text node, splitting out embedded
// expressions and inline math, and materializing line endings so that
// downstream passes can see the whitespace between stitched elements.
func (c *converter) textNodes(n *gmast.Text) []*content.Node {
	seg := n.Segment
	var out []*content.Node
	if c.t.mdx {
		out = c.splitText(seg.Start, seg.Stop)
	} else {
		out = c.textChunk(c.base+seg.Start, c.base+seg.Stop)
	}
	if n.SoftLineBreak() {
		if len(out) > 0 && out[len(out)-1].Kind == content.KindText {
			out[len(out)-1].Value += "\n"
		} else {
			nl := content.NewNode(content.KindText, c.pos(seg.Stop, seg.Stop))
			nl.Value = "\n"
			out = append(out, nl)
		}
	}
	// whitespace between sibling elements normalizes to a single
	// separator so conditional folding can skip over it
	if len(out) == 1 && out[0].Kind == content.KindText && out[0].Value != "" && strings.TrimSpace(out[0].Value) == "" {
		if strings.Contains(out[0].Value, "\n") {
			out[0].Value = "\n"
		} else {
			out[0].Value = " "
		}
	}
	if n.HardLineBreak() {
		out = append(out, content.NewNode(content.KindBreak, c.pos(seg.Stop, seg.Stop)))
	}
	return out
}

// splitText cuts a text segment around the expression groups the
// scanner found inside it. Offsets are run-relative.
func (c *converter) splitText(start, stop int) []*content.Node {
	absStart, absEnd := c.base+start, c.base+stop
	var out []*content.Node
	cur := absStart
	from, to := c.t.eventsIn(absStart, absEnd)
	for i := from; i < to; i++ {
		ev := c.t.events[i]
		if ev.kind != evExpr || ev.end > absEnd {
			continue
		}
		out = append(out, c.textChunk(cur, ev.start)...)
		e := content.NewNode(content.KindExpression, c.t.spanPos(ev.start, ev.end))
		e.Value = c.t.src[ev.start+1 : ev.end-1]
		out = append(out, e)
		cur = ev.end
	}
	out = append(out, c.textChunk(cur, absEnd)...)
	return out
}

// textChunk emits plain text, carving out `$…$` inline math spans.
// Offsets are absolute.
func (c *converter) textChunk(start, end int) []*content.Node {
	if start >= end {
		return nil
	}
	text := c.t.src[start:end]
	var out []*content.Node
	cur := 0
	for {
		ms, me := inlineMathSpan(text[cur:])
		if ms < 0 {
			break
		}
		if ms > 0 {
			t := content.NewNode(content.KindText, c.t.spanPos(start+cur, start+cur+ms))
			t.Value = text[cur : cur+ms]
			out = append(out, t)
		}
		m := content.NewNode(content.KindInlineMath, c.t.spanPos(start+cur+ms, start+cur+me))
		m.Value = text[cur+ms+1 : cur+me-1]
		out = append(out, m)
		cur += me
	}
	if cur < len(text) {
		t := content.NewNode(content.KindText, c.t.spanPos(start+cur, end))
		t.Value = text[cur:]
		out = append(out, t)
	}
	return out
}

// inlineMathSpan finds a `$…$` span: the opening dollar must not be
// followed by whitespace and the closing one must not be preceded by it.
// Returns start and one-past-end indexes, or -1 when there is none.
func inlineMathSpan(s string) (int, int) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '$':
			if i+1 >= len(s) || s[i+1] == ' ' || s[i+1] == '$' {
				continue
			}
			for j := i + 2; j < len(s); j++ {
				if s[j] == '$' && s[j-1] != ' ' && s[j-1] != '\\' {
					return i, j + 1
				}
			}
			return -1, -1
		}
	}
	return -1, -1
}
