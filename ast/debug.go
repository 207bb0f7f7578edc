package ast

import (
	"fmt"
	"strings"
)

// DebugString renders the tree as an indented outline. Meant for test
// assertions and troubleshooting, not for end users.
func DebugString(n *Node) string {
	var b strings.Builder
	writeDebug(&b, n, 0)
	return b.String()
}

func writeDebug(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(string(n.Kind))
	if detail := debugDetail(n); detail != "" {
		b.WriteString(" ")
		b.WriteString(detail)
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		writeDebug(b, c, depth+1)
	}
}

func debugDetail(n *Node) string {
	switch n.Kind {
	case KindText, KindInlineCode, KindHTMLTag:
		return fmt.Sprintf("%q", n.Value)
	case KindHeading:
		return fmt.Sprintf("level=%d slug=%q", n.Level, n.Slug)
	case KindLink:
		return fmt.Sprintf("url=%q", n.URL)
	case KindImage:
		return fmt.Sprintf("url=%q alt=%q", n.URL, n.Alt)
	case KindCode:
		return fmt.Sprintf("lang=%q %q", n.Language, n.Value)
	case KindHTMLBlock:
		parts := make([]string, 0, len(n.Attributes))
		for _, a := range n.Attributes {
			if a.Value == nil {
				parts = append(parts, a.Key)
			} else {
				parts = append(parts, fmt.Sprintf("%s=%q", a.Key, a.Value.Text))
			}
		}
		if len(parts) == 0 {
			return fmt.Sprintf("<%s>", n.Name)
		}
		return fmt.Sprintf("<%s %s>", n.Name, strings.Join(parts, " "))
	case KindTab:
		if n.Tab != nil {
			return fmt.Sprintf("title=%q", n.Tab.Title)
		}
	case KindStep:
		if n.Step != nil {
			return fmt.Sprintf("title=%q", n.Step.Title)
		}
	case KindList:
		if n.Ordered {
			return "ordered"
		}
	}
	return ""
}
