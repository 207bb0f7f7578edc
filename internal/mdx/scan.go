package mdx

import (
	"fmt"
	"strings"

	"github.com/Doctave/docapella-sub001/ast"
)

// voidElements complete without a closing tag even when written without
// a trailing slash.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

type eventKind int

const (
	evOpen eventKind = iota
	evClose
	evSelfClose
	evExpr
	evComment
)

// event is one angle-bracket or brace construct found by the scanner,
// in document order.
type event struct {
	kind  eventKind
	tag   tag
	start int
	end   int
	match int // evOpen/evClose: index of the partner event, else -1
}

// tag is a parsed element tag: `<Name attr="x">`, `</Name>` or `<Name />`.
type tag struct {
	Name        string
	Attrs       []ast.Attribute
	Closing     bool
	SelfClosing bool
	Start, End  int
}

// scan walks the whole source outside code spans, fences and math
// blocks, recording every element tag, expression group and comment. It
// is also the balance check: a stray or unclosed tag fails the scan with
// a positioned error, before any markdown parsing happens.
func (t *tokenizer) scan() ([]event, *ParseError) {
	src := t.src
	var events []event
	var stack []int
	i := 0
	for i < len(src) {
		switch c := src[i]; {
		case c == '\\':
			i += 2
		case c == '`' || (c == '~' && atLineStart(src, i)):
			i = skipCode(src, i)
		case c == '$' && atLineStart(src, i) && strings.HasPrefix(src[i:], "$$"):
			i = skipMathBlock(src, i)
		case c == '{':
			end, ok := skipBraces(src, i)
			if !ok {
				return nil, t.parseErrorAt(i, "Unexpected end of file in expression")
			}
			events = append(events, event{kind: evExpr, start: i, end: end, match: -1})
			i = end
		case c == '<':
			tg, res := scanTag(src, i)
			switch res {
			case notATag:
				i++
				continue
			case aComment:
				events = append(events, event{kind: evComment, start: tg.Start, end: tg.End, match: -1})
			case malformedTag:
				return nil, t.parseErrorAt(i, fmt.Sprintf("Could not parse `<%s>` element", tg.Name))
			case aTag:
				switch {
				case tg.Closing:
					if len(stack) == 0 {
						return nil, t.parseErrorAt(i, fmt.Sprintf("Unexpected closing tag `</%s>`", tg.Name))
					}
					openIdx := stack[len(stack)-1]
					if open := events[openIdx].tag.Name; open != tg.Name {
						return nil, t.parseErrorAt(i, fmt.Sprintf("Unexpected closing tag `</%s>`, expected `</%s>`", tg.Name, open))
					}
					stack = stack[:len(stack)-1]
					events = append(events, event{kind: evClose, tag: tg, start: tg.Start, end: tg.End, match: openIdx})
					events[openIdx].match = len(events) - 1
				case tg.SelfClosing || voidElements[tg.Name]:
					events = append(events, event{kind: evSelfClose, tag: tg, start: tg.Start, end: tg.End, match: -1})
				default:
					events = append(events, event{kind: evOpen, tag: tg, start: tg.Start, end: tg.End, match: -1})
					stack = append(stack, len(events)-1)
				}
			}
			i = tg.End
		default:
			i++
		}
	}
	if len(stack) > 0 {
		open := events[stack[len(stack)-1]]
		return nil, t.parseErrorAt(open.start, fmt.Sprintf("Expected a closing tag for `<%s>`", open.tag.Name))
	}
	return events, nil
}

type tagScanResult int

const (
	notATag tagScanResult = iota
	aTag
	aComment
	malformedTag
)

// scanTag reads one angle-bracket construct starting at src[i] == '<'.
// Autolinks (`<https://…>`, `<user@host>`) and lone `<` characters are
// reported as notATag and left to the markdown parser.
func scanTag(src string, i int) (tag, tagScanResult) {
	tg := tag{Start: i}
	if strings.HasPrefix(src[i:], "<!--") {
		if e := strings.Index(src[i:], "-->"); e >= 0 {
			tg.End = i + e + 3
		} else {
			tg.End = len(src)
		}
		return tg, aComment
	}
	j := i + 1
	if j < len(src) && src[j] == '/' {
		tg.Closing = true
		j++
	}
	name, k := scanName(src, j)
	if name == "" {
		return tg, notATag
	}
	if k < len(src) && (src[k] == ':' || src[k] == '@') {
		return tg, notATag
	}
	tg.Name = name
	j = k
	if tg.Closing {
		j = skipSpace(src, j)
		if j < len(src) && src[j] == '>' {
			tg.End = j + 1
			return tg, aTag
		}
		tg.End = j
		return tg, malformedTag
	}
	for {
		j = skipSpace(src, j)
		if j >= len(src) {
			tg.End = j
			return tg, malformedTag
		}
		switch src[j] {
		case '>':
			tg.End = j + 1
			return tg, aTag
		case '/':
			if j+1 < len(src) && src[j+1] == '>' {
				tg.SelfClosing = true
				tg.End = j + 2
				return tg, aTag
			}
			tg.End = j
			return tg, malformedTag
		}
		key, afterKey := scanName(src, j)
		if key == "" {
			tg.End = j
			return tg, malformedTag
		}
		j = skipSpace(src, afterKey)
		if j >= len(src) || src[j] != '=' {
			tg.Attrs = append(tg.Attrs, ast.Bare(key))
			continue
		}
		j = skipSpace(src, j+1)
		if j >= len(src) {
			tg.End = j
			return tg, malformedTag
		}
		switch src[j] {
		case '"', '\'':
			q := src[j]
			e := strings.IndexByte(src[j+1:], q)
			if e < 0 {
				tg.End = j
				return tg, malformedTag
			}
			tg.Attrs = append(tg.Attrs, ast.Literal(key, src[j+1:j+1+e]))
			j = j + 2 + e
		case '{':
			e, ok := skipBraces(src, j)
			if !ok {
				tg.End = j
				return tg, malformedTag
			}
			tg.Attrs = append(tg.Attrs, ast.Expr(key, src[j+1:e-1]))
			j = e
		default:
			tg.End = j
			return tg, malformedTag
		}
	}
}

// scanName reads an element or attribute name: a letter or underscore
// followed by letters, digits, `.`, `_` or `-`.
func scanName(src string, i int) (string, int) {
	if i >= len(src) || !isNameStart(src[i]) {
		return "", i
	}
	j := i + 1
	for j < len(src) && isNameChar(src[j]) {
		j++
	}
	return src[i:j], j
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c == '.' || c == '-' || (c >= '0' && c <= '9')
}

// skipSpace advances past spaces, tabs and newlines; tags may span lines.
func skipSpace(src string, i int) int {
	for i < len(src) {
		switch src[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return i
		}
	}
	return i
}

// skipBraces advances past a balanced `{…}` group, honoring string
// literals so `{"}"}` scans correctly. Returns the offset one past the
// closing brace.
func skipBraces(src string, i int) (int, bool) {
	depth := 0
	for j := i; j < len(src); j++ {
		switch src[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1, true
			}
		case '"', '\'':
			q := src[j]
			j++
			for j < len(src) && src[j] != q {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				return 0, false
			}
		}
	}
	return 0, false
}

// skipCode advances past a backtick or tilde construct: a fenced code
// block when the run sits at the start of a line, otherwise an inline
// code span.
func skipCode(src string, i int) int {
	marker := src[i]
	n := runLen(src, i, marker)
	if n >= 3 && atLineStart(src, i) {
		j := i + n
		for {
			nl := strings.IndexByte(src[j:], '\n')
			if nl < 0 {
				return len(src)
			}
			j += nl + 1
			k := j
			for k < len(src) && src[k] == ' ' {
				k++
			}
			if m := runLen(src, k, marker); m >= n {
				if e := strings.IndexByte(src[k+m:], '\n'); e >= 0 {
					return k + m + e + 1
				}
				return len(src)
			}
		}
	}
	if marker == '~' {
		return i + n
	}
	// inline code span closes on a run of exactly the same length
	j := i + n
	for j < len(src) {
		if src[j] != '`' {
			j++
			continue
		}
		m := runLen(src, j, '`')
		if m == n {
			return j + m
		}
		j += m
	}
	return i + n
}

// skipMathBlock advances past a `$$ … $$` display-math block so TeX
// braces and comparisons inside it are not scanned as expressions.
func skipMathBlock(src string, i int) int {
	if e := strings.Index(src[i+2:], "$$"); e >= 0 {
		return i + 2 + e + 2
	}
	return i + 2
}

func runLen(src string, i int, marker byte) int {
	n := 0
	for i+n < len(src) && src[i+n] == marker {
		n++
	}
	return n
}

func atLineStart(src string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch src[j] {
		case ' ', '\t':
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}
