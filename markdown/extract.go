package markdown

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/links"
)

// OutgoingLink is one internal link found in a document: the URL as
// written, and the absolute URI it resolves to for the page being
// compiled.
type OutgoingLink struct {
	URI         string `json:"uri"`
	ExpandedURI string `json:"expanded_uri"`
}

// ExtractLinks returns the internal page links a document points at.
// Anchor elements carrying a download attribute are asset references and
// skipped here; ExtractAssetLinks picks them up.
func ExtractLinks(input string, ctx *docapella.RenderContext) ([]OutgoingLink, *docapella.Error) {
	ctx = ensureContext(ctx)
	root, err := parseUnexpanded(input, ctx)
	if err != nil {
		return nil, err
	}

	var out []OutgoingLink
	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindLink:
			if link, ok := expandInternal(n.URL, ctx); ok {
				out = append(out, link)
			}
		case ast.KindHTMLBlock:
			if hasAttribute(n, "download") {
				return true
			}
			for _, href := range literalAttributes(n, "href") {
				if link, ok := expandInternal(href, ctx); ok {
					out = append(out, link)
				}
			}
		case ast.KindHTMLTag:
			for _, href := range rawHTMLAttributes(n.Value, "a", "href") {
				if link, ok := expandInternal(href, ctx); ok {
					out = append(out, link)
				}
			}
		}
		return true
	})
	return out, nil
}

// ExtractAssetLinks returns the internal asset references in a document:
// image sources and download-attributed anchors.
func ExtractAssetLinks(input string, ctx *docapella.RenderContext) ([]OutgoingLink, *docapella.Error) {
	ctx = ensureContext(ctx)
	root, err := parseUnexpanded(input, ctx)
	if err != nil {
		return nil, err
	}

	var out []OutgoingLink
	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindImage:
			if link, ok := expandAsset(n.URL, ctx); ok {
				out = append(out, link)
			}
		case ast.KindHTMLBlock:
			if !hasAttribute(n, "download") {
				return true
			}
			for _, href := range literalAttributes(n, "href") {
				if link, ok := expandAsset(href, ctx); ok {
					out = append(out, link)
				}
			}
		case ast.KindHTMLTag:
			for _, src := range rawHTMLAttributes(n.Value, "img", "src") {
				if link, ok := expandAsset(src, ctx); ok {
					out = append(out, link)
				}
			}
		}
		return true
	})
	return out, nil
}

// ExtractExternalLinks returns the deduplicated external URLs a document
// references, sorted.
func ExtractExternalLinks(input string, ctx *docapella.RenderContext) ([]string, *docapella.Error) {
	ctx = ensureContext(ctx)
	root, err := ToASTMDX(input, ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	ast.Walk(root, func(n *ast.Node) bool {
		if n.Kind != ast.KindLink {
			return true
		}
		if u, perr := url.Parse(n.URL); perr == nil && u.Scheme != "" {
			seen[n.URL] = struct{}{}
		}
		return true
	})

	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Strings(out)
	return out, nil
}

// parseUnexpanded compiles with the relative URL base disabled, so
// extracted URIs come out exactly as written; expansion is applied per
// link against the real context afterwards.
func parseUnexpanded(input string, ctx *docapella.RenderContext) (*ast.Node, *docapella.Error) {
	unexpanded := *ctx
	unexpanded.RelativeURLBase = nil
	return ToASTMDX(input, &unexpanded)
}

func expandInternal(raw string, ctx *docapella.RenderContext) (OutgoingLink, bool) {
	withoutFragment, _, _ := strings.Cut(raw, "#")
	expanded, ok := links.ExpandLocalLink(withoutFragment, ctx)
	if !ok {
		return OutgoingLink{}, false
	}
	return OutgoingLink{URI: withoutFragment, ExpandedURI: expanded}, true
}

func expandAsset(raw string, ctx *docapella.RenderContext) (OutgoingLink, bool) {
	expanded, ok := links.ExpandLocalLink(raw, ctx)
	if !ok {
		return OutgoingLink{}, false
	}
	return OutgoingLink{URI: raw, ExpandedURI: expanded}, true
}

func hasAttribute(n *ast.Node, key string) bool {
	return ast.FindAttribute(n.Attributes, key) != nil
}

func literalAttributes(n *ast.Node, key string) []string {
	var out []string
	for _, a := range n.Attributes {
		if a.Key == key && a.Value != nil && a.Value.Kind == ast.AttributeLiteral {
			out = append(out, a.Value.Text)
		}
	}
	return out
}

// rawHTMLAttributes scans a raw HTML run for attribute values on a given
// element. GitHub-flavored parses keep inline HTML as opaque strings, so
// link extraction has to tokenize them separately.
func rawHTMLAttributes(fragment, element, key string) []string {
	var out []string
	tok := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			return out
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		t := tok.Token()
		if t.Data != element {
			continue
		}
		for _, a := range t.Attr {
			if a.Key == key && a.Val != "" {
				out = append(out, a.Val)
			}
		}
	}
}
