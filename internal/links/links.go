// Package links rewrites URLs inside a rendered document tree: relative
// links are expanded against the page's URI base, internal links are
// converted between web and filesystem form, and the configured rewrite
// table, prefixes and image cache busting are applied. External URLs pass
// through untouched.
package links

import (
	"net/url"
	"strconv"
	"strings"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
)

// RewriteTree applies the context's URL transforms to every link, image
// and raw HTML element in the tree, in place.
func RewriteTree(root *ast.Node, ctx *docapella.RenderContext) {
	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindLink:
			if !strings.HasPrefix(n.URL, "#") {
				n.URL = ToFinalLink(n.URL, ctx)
			}
		case ast.KindImage:
			n.URL = RewriteImageSrc(n.URL, ctx)
		case ast.KindHTMLBlock:
			rewriteHTMLAttributes(n, ctx)
		}
		return true
	})
}

func rewriteHTMLAttributes(n *ast.Node, ctx *docapella.RenderContext) {
	for i := range n.Attributes {
		attr := &n.Attributes[i]
		if attr.Value == nil || attr.Value.Kind != ast.AttributeLiteral {
			continue
		}
		switch {
		case attr.Key == "href":
			if strings.HasPrefix(attr.Value.Text, "#") {
				continue
			}
			attr.Value.Text = ToFinalLink(attr.Value.Text, ctx)
		case n.Name == "img" && attr.Key == "src":
			attr.Value.Text = RewriteImageSrc(attr.Value.Text, ctx)
		}
	}
}

// ToFinalLink expands, webbifies or fsifies, and rewrites one URL. The
// fragment is detached first and re-attached after, so transforms only
// ever see the path.
func ToFinalLink(raw string, ctx *docapella.RenderContext) string {
	link, fragment, hasFragment := strings.Cut(raw, "#")

	if ctx.ShouldExpandRelativeURIs() {
		if expanded, ok := ExpandLocalLink(link, ctx); ok {
			link = expanded
		}
	}

	opts := ctx.Options
	if opts.WebbifyInternalURLs && !opts.FsifyInternalURLs {
		link = WebbifyURL(link)
	}
	if opts.FsifyInternalURLs && !opts.WebbifyInternalURLs {
		link = fsify(link, ctx)
	}
	if len(opts.LinkRewrites) > 0 || opts.PrefixAssetURLs != "" || opts.PrefixLinkURLs != "" {
		link = rewriteLink(link, ctx)
	}

	if hasFragment {
		return link + "#" + fragment
	}
	return link
}

// IsExternal reports whether the link leaves the project: anything that
// parses as a URI with a scheme is external.
func IsExternal(link string) bool {
	_, internal := InternalPath(link)
	return !internal
}

// InternalPath returns the link as a project path when it is internal.
func InternalPath(link string) (string, bool) {
	if link == "" {
		return "", false
	}
	if u, err := url.Parse(link); err == nil && u.Scheme != "" {
		return "", false
	}
	return link, true
}

// ExpandLocalLink resolves an internal link to an absolute URI path.
// Relative links resolve against the context's URL base; absolute ones
// are just normalized. The second return is false for external links.
func ExpandLocalLink(link string, ctx *docapella.RenderContext) (string, bool) {
	p, internal := InternalPath(link)
	if !internal {
		return "", false
	}
	if !strings.HasPrefix(p, "/") {
		base := ""
		if ctx.RelativeURLBase != nil {
			base = *ctx.RelativeURLBase
		}
		return PrefixAndExpandPath(p, base), true
	}
	return ExpandPath(p), true
}

// ExpandPath normalizes a URI path: . and .. segments are resolved and
// the result is always absolute. .. never climbs above the root.
func ExpandPath(p string) string {
	var segments []string
	for _, part := range strings.Split(strings.ReplaceAll(p, "\\", "/"), "/") {
		switch part {
		case "", ".":
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, part)
		}
	}
	return "/" + strings.Join(segments, "/")
}

// PrefixAndExpandPath joins a relative URI onto a base directory and
// normalizes the result.
func PrefixAndExpandPath(uri, base string) string {
	return ExpandPath(base + "/" + uri)
}

// WebbifyURL converts an internal .md link into the URI it is served at.
func WebbifyURL(u string) string {
	if _, internal := InternalPath(u); internal && strings.HasSuffix(u, ".md") {
		return docapella.FsToURIPath(u)
	}
	return u
}

// fsify converts an internal web URI back into the project file path that
// renders at it. Known pages resolve through the page table; unknown
// links get a .md suffix appended as a best guess.
func fsify(link string, ctx *docapella.RenderContext) string {
	if _, internal := InternalPath(link); !internal {
		return link
	}
	withoutHash, _, _ := strings.Cut(link, "#")

	resolved := ""
	if page, ok := ctx.PageByURIPath(withoutHash); ok {
		resolved = page.FsPath
	} else if page, ok := ctx.PageByFsPath(strings.TrimPrefix(withoutHash, "/")); ok {
		resolved = page.FsPath
	} else {
		resolved = strings.TrimSuffix(link, ".md") + ".md"
	}
	return "/" + strings.TrimPrefix(resolved, "/")
}

// rewriteLink applies the exact rewrite table, falling back to the
// internal link prefix. Rewrites win over prefixing.
func rewriteLink(link string, ctx *docapella.RenderContext) string {
	if rewrite, ok := ctx.Options.LinkRewrites[link]; ok {
		return rewrite
	}
	if prefix := ctx.Options.PrefixLinkURLs; prefix != "" {
		if _, internal := InternalPath(link); internal {
			return prefix + "/" + strings.TrimPrefix(link, "/")
		}
	}
	return link
}

// RewriteImageSrc applies cache busting and asset prefixing to an image
// source. The cache key is the asset's content signature when the asset
// is known, the context's timestamp otherwise.
func RewriteImageSrc(src string, ctx *docapella.RenderContext) string {
	opts := ctx.Options

	busted := src
	if opts.BustImageCaches {
		key := ctx.CacheBustTimestamp
		if asset, ok := ctx.AssetByPath(strings.TrimPrefix(src, "/")); ok && asset.Signature != 0 {
			key = strconv.FormatUint(asset.Signature, 10)
		}
		busted = src + "?c=" + key
	}

	if rewrite, ok := opts.LinkRewrites[src]; ok {
		return rewrite
	}
	if opts.PrefixAssetURLs != "" && strings.HasPrefix(busted, "/_assets/") {
		return opts.PrefixAssetURLs + src
	}
	return busted
}
