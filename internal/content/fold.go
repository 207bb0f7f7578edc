package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/diag"
)

// Operation is a conditional attribute on an element: if, elseif or else.
type Operation string

const (
	OpIf     Operation = "if"
	OpElseIf Operation = "elseif"
	OpElse   Operation = "else"
)

// ParseOperation recognizes a conditional attribute key.
func ParseOperation(s string) (Operation, bool) {
	switch s {
	case "if":
		return OpIf, true
	case "elseif":
		return OpElseIf, true
	case "else":
		return OpElse, true
	}
	return "", false
}

// Conditional is a branch in an if/elseif/else chain. True holds the
// element the condition guards; False is the next branch in the chain, or
// a Noop node at the chain's end.
type Conditional struct {
	Op       Operation
	CondExpr *string
	True     *Node
	False    *Node
}

// Push appends a branch to the end of the chain. A chain that already
// ended in a non-conditional branch absorbs nothing; Verify reports the
// broken chain afterwards.
func (c *Conditional) Push(branch *Node) {
	switch c.False.Kind {
	case KindNoop:
		c.False = branch
	case KindConditional:
		c.False.Cond.Push(branch)
	}
}

// Verify checks a whole chain recursively: it must start with an if,
// if/elseif branches need a condition value, an else must not have one,
// and nothing may follow an else.
func (c *Conditional) Verify(parent *Node) *FoldError {
	current := c.True
	next := c.False

	if parent == nil && c.Op != OpIf {
		return &FoldError{Kind: FoldInvalidStart, Cond: c, Pos: current.Pos}
	}

	switch {
	case (c.Op == OpIf || c.Op == OpElseIf) && c.CondExpr == nil:
		return &FoldError{Kind: FoldInvalidOpShouldHaveValue, Cond: c, Pos: current.Pos}
	case c.Op == OpElse && c.CondExpr != nil:
		return &FoldError{Kind: FoldInvalidOpShouldNotHaveValue, Cond: c, Pos: current.Pos}
	}

	if next.Kind == KindConditional {
		if c.Op == OpElse {
			return &FoldError{Kind: FoldInvalidChain, Cond: c, Next: next.Cond, Pos: next.Pos}
		}
		return next.Cond.Verify(current)
	}
	return nil
}

// FoldConditionals merges adjacent conditional siblings into chains. The
// MDX tokenizer leaves a text node holding a newline or space between
// adjacent elements; those are tolerated between chain links. Anything
// else between two links is an error. A new `if` always begins a new
// chain.
func FoldConditionals(children []*Node) ([]*Node, *FoldError) {
	var out []*Node

	i := 0
	for i < len(children) {
		current := children[i]
		i++

		var inBetween []*Node
		if current.Kind == KindConditional {
			cond := current.Cond

			// Consume siblings until the start of a new chain, pushing
			// conditionals onto this one and holding everything else
			// aside.
			for i < len(children) && !children[i].IsStartOfSequence() {
				next := children[i]
				i++

				if next.IsConditional() {
					cond.Push(next)

					for _, n := range inBetween {
						if !n.IsWhitespaceOrLinebreak() {
							return nil, &FoldError{Kind: FoldInvalidInBetweenChain, Node: n, Pos: n.Pos}
						}
					}
					inBetween = nil
				} else {
					inBetween = append(inBetween, next)
				}
			}

			if err := cond.Verify(nil); err != nil {
				return nil, err
			}
		}

		out = append(out, current)
		out = append(out, inBetween...)
	}

	return out, nil
}

// FoldErrorKind distinguishes the ways a conditional chain can be
// malformed.
type FoldErrorKind int

const (
	FoldInvalidStart FoldErrorKind = iota
	FoldInvalidChain
	FoldInvalidOpShouldHaveValue
	FoldInvalidOpShouldNotHaveValue
	FoldInvalidInBetweenChain
)

// FoldError is a malformed conditional chain.
type FoldError struct {
	Kind FoldErrorKind
	Cond *Conditional
	Next *Conditional // set for FoldInvalidChain
	Node *Node        // set for FoldInvalidInBetweenChain
	Pos  ast.Position
}

func (e *FoldError) Error() string {
	switch e.Kind {
	case FoldInvalidStart:
		return `Conditional should start with an "if"`
	case FoldInvalidChain:
		return fmt.Sprintf("Conditional %q can't be followed by an %q", e.Cond.Op, e.Next.Op)
	case FoldInvalidOpShouldHaveValue:
		return fmt.Sprintf("Conditional %q must have a value", e.Cond.Op)
	case FoldInvalidOpShouldNotHaveValue:
		return fmt.Sprintf("Conditional %q must not have a value", e.Cond.Op)
	case FoldInvalidInBetweenChain:
		return "Conditionals can't have anything in between"
	}
	return "invalid conditional"
}

// Position returns where the error points in the source.
func (e *FoldError) Position() ast.Position {
	return e.Pos
}

// Highlights computes the caret annotations for the error against the
// original source. Each highlight points at the offending operation
// keyword inside its element's opening tag.
func (e *FoldError) Highlights(src string) []diag.Highlight {
	switch e.Kind {
	case FoldInvalidChain:
		return []diag.Highlight{
			opHighlight(src, e.Cond.True, e.Cond.Op, 0, fmt.Sprintf("This %q", e.Cond.Op)),
			opHighlight(src, e.Next.True, e.Next.Op, 0, fmt.Sprintf("can't be followed by %q", e.Next.Op)),
		}
	case FoldInvalidStart:
		return []diag.Highlight{
			opHighlight(src, e.Cond.True, e.Cond.Op, 0, fmt.Sprintf("Replace %q with \"if\"", e.Cond.Op)),
		}
	case FoldInvalidOpShouldHaveValue:
		return []diag.Highlight{
			opHighlight(src, e.Cond.True, e.Cond.Op, 0, fmt.Sprintf(`%s={"some_value_here"}`, e.Cond.Op)),
		}
	case FoldInvalidOpShouldNotHaveValue:
		// Point past `op={` at the value itself.
		return []diag.Highlight{
			opHighlight(src, e.Cond.True, e.Cond.Op, len(e.Cond.Op)+2, fmt.Sprintf("Remove the value for %q", e.Cond.Op)),
		}
	case FoldInvalidInBetweenChain:
		start := e.Node.Pos.Start
		if e.Node.Kind == KindText {
			// Multi-line text gets pointed at its first non-empty row.
			indent := 0
			for _, r := range e.Node.Value {
				if r != '\n' {
					break
				}
				indent++
			}
			if indent > 0 {
				return []diag.Highlight{{
					Pos: ast.Position{
						Start: ast.Point{Row: start.Row + indent, Col: 1},
						End:   ast.Point{Row: start.Row + indent, Col: 2},
					},
					Message: "Remove this row",
				}}
			}
			return []diag.Highlight{{
				Pos: ast.Position{
					Start: start,
					// columns are characters, not bytes
					End: ast.Point{Row: start.Row, Col: start.Col + utf8.RuneCountInString(e.Node.Value)},
				},
				Message: "Remove this value",
			}}
		}
		return []diag.Highlight{{
			Pos:     ast.Position{Start: start, End: ast.Point{Row: start.Row, Col: start.Col + 1}},
			Message: "Remove this value",
		}}
	}
	return nil
}

// opHighlight locates the operation keyword inside the element's source
// span and returns a one-character highlight on it.
func opHighlight(src string, node *Node, op Operation, extraCols int, msg string) diag.Highlight {
	start := node.Pos.Start
	col := start.Col

	if start.Offset < len(src) {
		end := node.Pos.End.Offset
		if end > len(src) {
			end = len(src)
		}
		if idx := strings.Index(src[start.Offset:end], string(op)); idx >= 0 {
			col = start.Col + idx
		}
	}
	col += extraCols

	return diag.Highlight{
		Pos: ast.Position{
			Start: ast.Point{Row: start.Row, Col: col},
			End:   ast.Point{Row: start.Row, Col: col + 1},
		},
		Message: msg,
	}
}
