package mdx

import (
	"errors"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/content"
	"github.com/Doctave/docapella-sub001/internal/diag"
)

// maxRecoverDepth bounds the bisection recursion. Exceeding it aborts
// the whole parse rather than just the sub-range; it is a safety valve
// against pathological inputs, not a normal code path.
const maxRecoverDepth = 64

// TokenizeFaultTolerant parses as much of a document as possible.
// Any positioned failure — tokenizer, folding or attribute — is
// confined to the line it occurs on: the ranges before and after that
// line are re-parsed independently and stitched back into one root,
// and every recovered error is reported in coordinates of the full
// document.
func TokenizeFaultTolerant(src string) (*content.Node, []*docapella.Error) {
	root, errs, ok := recoverParse(src, 0, len(src), 0)
	if !ok {
		return nil, []*docapella.Error{
			docapella.NewError(docapella.CodeInvalidTemplate, "Could not parse document").
				WithDescription("The document required too many rounds of error recovery."),
		}
	}
	return root, errs
}

func recoverParse(full string, start, end, depth int) (*content.Node, []*docapella.Error, bool) {
	if depth > maxRecoverDepth {
		return nil, nil, false
	}
	slice := full[start:end]
	node, err := Tokenize(slice)
	if err == nil {
		shiftTree(node, start, full)
		return node, nil, true
	}

	row, recovered := recoveredError(err, start, full)
	if row == 0 {
		// nothing to cut on, drop the slice entirely
		return emptyRoot(start, end, full), []*docapella.Error{recovered}, true
	}

	// cut the failing line out and parse both sides
	index := ast.NewLineIndex(slice)
	lineStart := start + index.LineStart(row)
	lineEnd := end
	if row < index.LineCount() {
		lineEnd = start + index.LineStart(row+1)
	}

	left, leftErrs, ok := recoverParse(full, start, lineStart, depth+1)
	if !ok {
		return nil, nil, false
	}
	right, rightErrs, ok := recoverParse(full, lineEnd, end, depth+1)
	if !ok {
		return nil, nil, false
	}

	root := emptyRoot(start, end, full)
	root.Children = append(append([]*content.Node{}, left.Children...), right.Children...)

	errs := []*docapella.Error{recovered}
	errs = append(errs, leftErrs...)
	errs = append(errs, rightErrs...)
	return root, errs, true
}

// recoveredError converts a sub-range failure into a user-facing error
// in full-document coordinates and reports the slice-local row the
// failure sits on. Row 0 means the error carries no position.
func recoveredError(err error, start int, full string) (int, *docapella.Error) {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Point.Row, parseErrorToError(perr, start, full)
	}
	derr := err.(*docapella.Error)
	if derr.Position == nil {
		return 0, derr
	}
	row := derr.Position.Start.Row
	derr.Position.BumpByByteOffset(start, full)
	return row, derr
}

func emptyRoot(start, end int, full string) *content.Node {
	root := content.NewNode(content.KindRoot, ast.Position{})
	root.Pos.Start.Offset = start
	root.Pos.End.Offset = end
	root.Pos.BumpByByteOffset(0, full)
	return root
}

// parseErrorToError converts a tokenizer failure on a sub-range into a
// user-facing error positioned in the full document.
func parseErrorToError(perr *ParseError, start int, full string) *docapella.Error {
	point := perr.Point
	point.BumpByByteOffset(start, full)
	pos := ast.Position{Start: point, End: point}
	return docapella.NewError(docapella.CodeInvalidTemplate, perr.Message).
		WithPosition(pos).
		WithDescription(diag.RenderAt(full, pos, perr.Message))
}

// shiftTree moves a sub-range parse's positions into full-document
// coordinates.
func shiftTree(n *content.Node, base int, full string) {
	if base == 0 {
		return
	}
	var walk func(*content.Node)
	walk = func(n *content.Node) {
		if n == nil {
			return
		}
		n.Pos.BumpByByteOffset(base, full)
		if n.Cond != nil {
			walk(n.Cond.True)
			walk(n.Cond.False)
		}
		for _, ch := range n.Children {
			walk(ch)
		}
	}
	walk(n)
}
