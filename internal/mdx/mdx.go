// Package mdx turns raw document text into a content tree: plain
// markdown parsed by goldmark, stitched together with the component
// dialect's elements, expressions and conditional chains.
package mdx

import (
	"fmt"
	"sort"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/content"
	"github.com/Doctave/docapella-sub001/internal/diag"
)

// ParseError is a tokenizer failure: the document could not be scanned
// into a tree at all. Point is in coordinates of the tokenized slice.
// Recoverable by the fault-tolerant parser, unlike a *docapella.Error
// from conditional folding or attribute screening.
type ParseError struct {
	Point   ast.Point
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Point.Row, e.Point.Col, e.Message)
}

// Tokenize parses a document in the full component dialect into a
// content tree. The returned error is either a *ParseError or a
// *docapella.Error.
func Tokenize(src string) (*content.Node, error) {
	t := &tokenizer{src: src, index: ast.NewLineIndex(src), mdx: true}
	events, perr := t.scan()
	if perr != nil {
		return nil, perr
	}
	t.events = events
	t.eventAt = make(map[int]int, len(events))
	for i, ev := range events {
		t.eventAt[ev.start] = i
	}
	root := content.NewNode(content.KindRoot, t.spanPos(0, len(src)))
	root.Children = t.buildRegion(0, len(src), 0, len(events), false)
	if t.perr != nil {
		return nil, t.perr
	}
	if t.derr != nil {
		return nil, t.derr
	}
	return root, nil
}

// TokenizeGFM parses plain GFM markdown. No elements, expressions or
// conditionals are recognized; raw HTML is kept verbatim as HTMLTag
// nodes.
func TokenizeGFM(src string) (*content.Node, error) {
	t := &tokenizer{src: src, index: ast.NewLineIndex(src), mdx: false}
	root := content.NewNode(content.KindRoot, t.spanPos(0, len(src)))
	root.Children = t.parseMarkdown(0, len(src))
	if t.perr != nil {
		return nil, t.perr
	}
	if t.derr != nil {
		return nil, t.derr
	}
	return root, nil
}

type tokenizer struct {
	src     string
	index   *ast.LineIndex
	mdx     bool
	events  []event
	eventAt map[int]int // construct start offset -> index into events

	// first error wins; later ones are discarded
	perr *ParseError
	derr *docapella.Error
}

func (t *tokenizer) spanPos(start, end int) ast.Position {
	return ast.Position{Start: t.index.PointAt(start), End: t.index.PointAt(end)}
}

func (t *tokenizer) parseErrorAt(off int, msg string) *ParseError {
	return &ParseError{Point: t.index.PointAt(off), Message: msg}
}

func (t *tokenizer) failParse(off int, msg string) {
	if t.perr == nil {
		t.perr = t.parseErrorAt(off, msg)
	}
}

// buildRegion converts src[start:end] into a sibling list. Elements and
// expression groups at column zero are built directly; the markdown text
// between them is handed to goldmark, with any remaining inline
// constructs stitched in during conversion. evFrom/evTo bound the
// scanner events belonging to the region.
func (t *tokenizer) buildRegion(start, end, evFrom, evTo int, forceFlow bool) []*content.Node {
	var nodes []*content.Node
	cur := start
	i := evFrom
	for i < evTo {
		ev := t.events[i]
		if ev.start >= end {
			break
		}
		if !forceFlow && !atColumnZero(t.src, ev.start) {
			// stays inside the surrounding markdown run
			if ev.match > i {
				i = ev.match + 1
			} else {
				i++
			}
			continue
		}
		nodes = append(nodes, t.markdownRun(cur, ev.start)...)
		switch ev.kind {
		case evComment:
			cur = ev.end
			i++
		case evExpr:
			n := content.NewNode(content.KindExprBlock, t.spanPos(ev.start, ev.end))
			n.Value = t.src[ev.start+1 : ev.end-1]
			nodes = append(nodes, n)
			cur = ev.end
			i++
		case evSelfClose:
			if n := t.elementNode(ev.tag, nil, ev.end); n != nil {
				nodes = append(nodes, n)
			}
			cur = ev.end
			i++
		case evOpen:
			closeEv := t.events[ev.match]
			children := t.buildRegion(ev.end, closeEv.start, i+1, ev.match, false)
			if n := t.elementNode(ev.tag, children, closeEv.end); n != nil {
				nodes = append(nodes, n)
			}
			cur = closeEv.end
			i = ev.match + 1
		case evClose:
			// opener was consumed inside a markdown run
			cur = ev.end
			i++
		}
	}
	nodes = append(nodes, t.markdownRun(cur, end)...)
	return t.foldChildren(nodes)
}

// elementNode builds the content node for one element: a built-in for a
// recognized capitalized name, a component invocation for any other
// capitalized name, and a raw HTML element otherwise. An if/elseif/else
// attribute wraps the result in a conditional branch.
func (t *tokenizer) elementNode(tg tag, children []*content.Node, endOff int) *content.Node {
	pos := t.spanPos(tg.Start, endOff)
	var node *content.Node
	switch {
	case tg.Name[0] >= 'a' && tg.Name[0] <= 'z':
		node = content.NewNode(content.KindHTMLBlock, pos)
		node.Name = tg.Name
		node.Attributes = tg.Attrs
		node.Children = children
	default:
		if kind, ok := content.PrimitiveKind(tg.Name); ok {
			p, aerr := content.NewPrimitiveNode(kind, tg.Attrs, pos)
			if aerr != nil {
				t.attributeError(aerr, tg)
				return nil
			}
			p.Children = children
			node = p
		} else {
			node = content.NewNode(content.KindComponent, pos)
			node.Name = tg.Name
			node.Attributes = tg.Attrs
			node.Children = children
		}
	}
	for _, a := range tg.Attrs {
		if op, ok := content.ParseOperation(a.Key); ok {
			var cond *string
			if a.Value != nil {
				text := a.Value.Text
				cond = &text
			}
			return node.WrapWithConditional(op, cond)
		}
	}
	return node
}

func (t *tokenizer) attributeError(aerr *content.UnexpectedAttributeError, tg tag) {
	if t.derr != nil {
		return
	}
	t.derr = docapella.NewError(docapella.CodeInvalidComponent, aerr.Error()).
		WithPosition(aerr.Pos).
		WithDescription(diag.RenderAt(t.src, aerr.Pos, fmt.Sprintf("`<%s>` does not accept this attribute", tg.Name)))
}

// foldChildren merges sibling if/elseif/else branches into single
// conditional nodes. Every sibling list goes through it, so chains fold
// at any nesting depth.
func (t *tokenizer) foldChildren(nodes []*content.Node) []*content.Node {
	kept := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			kept = append(kept, n)
		}
	}
	folded, ferr := content.FoldConditionals(kept)
	if ferr != nil {
		if t.derr == nil {
			t.derr = docapella.NewError(docapella.CodeInvalidConditional, "Error in condition").
				WithPosition(ferr.Position()).
				WithDescription(diag.Render(t.src, ferr.Highlights(t.src)))
		}
		return kept
	}
	return folded
}

// markdownRun parses src[start:end] as plain markdown. A run that is
// nothing but whitespace produces no nodes: it is the gap between two
// flow elements.
func (t *tokenizer) markdownRun(start, end int) []*content.Node {
	if start >= end {
		return nil
	}
	if isBlank(t.src[start:end]) {
		return nil
	}
	return t.parseMarkdown(start, end)
}

// eventsIn returns the half-open range of scanner events whose start
// offset falls inside [start, end).
func (t *tokenizer) eventsIn(start, end int) (int, int) {
	from := sort.Search(len(t.events), func(i int) bool { return t.events[i].start >= start })
	to := sort.Search(len(t.events), func(i int) bool { return t.events[i].start >= end })
	return from, to
}

func atColumnZero(src string, off int) bool {
	return off == 0 || src[off-1] == '\n'
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}
