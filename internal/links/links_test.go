package links

import (
	"testing"

	"github.com/stretchr/testify/assert"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
)

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "/foo/baz", PrefixAndExpandPath("../baz", "/foo/bar"))
	assert.Equal(t, "/baz", PrefixAndExpandPath("../../baz", "/foo/bar"))
	assert.Equal(t, "/baz", PrefixAndExpandPath("../../../baz", "/foo/bar"))
	assert.Equal(t, "/foo/bar/baz", PrefixAndExpandPath("./baz", "/foo/bar"))
	assert.Equal(t, "/a/b", ExpandPath("/a/./b"))
	assert.Equal(t, "/", ExpandPath("/.."))
}

func TestInternalPath(t *testing.T) {
	_, internal := InternalPath("/docs/setup")
	assert.True(t, internal)
	_, internal = InternalPath("guide.md")
	assert.True(t, internal)
	_, internal = InternalPath("https://example.com")
	assert.False(t, internal)
	_, internal = InternalPath("mailto:hi@example.com")
	assert.False(t, internal)
	_, internal = InternalPath("")
	assert.False(t, internal)
}

func TestRelativeExpansion(t *testing.T) {
	ctx := docapella.NewRenderContext().WithURLBase("/guides")

	assert.Equal(t, "/guides/intro.md", ToFinalLink("intro.md", ctx))
	assert.Equal(t, "/other", ToFinalLink("../other", ctx))
	assert.Equal(t, "/absolute", ToFinalLink("/absolute", ctx))
}

func TestWebbify(t *testing.T) {
	ctx := docapella.NewRenderContext().WithOptions(&docapella.RenderOptions{
		WebbifyInternalURLs: true,
	})

	assert.Equal(t, "/docs/setup", ToFinalLink("/docs/setup.md", ctx))
	assert.Equal(t, "https://example.com/x.md", ToFinalLink("https://example.com/x.md", ctx))
}

func TestFsify(t *testing.T) {
	ctx := docapella.NewRenderContext().
		WithOptions(&docapella.RenderOptions{FsifyInternalURLs: true}).
		WithPages([]docapella.Page{{FsPath: "guides/intro.md", URIPath: "/guides/intro"}})

	assert.Equal(t, "/guides/intro.md", ToFinalLink("/guides/intro", ctx))
	assert.Equal(t, "/nope.md", ToFinalLink("/nope", ctx))
	assert.Equal(t, "https://example.com", ToFinalLink("https://example.com", ctx))
}

func TestRewriteTableWinsOverPrefix(t *testing.T) {
	ctx := docapella.NewRenderContext().WithOptions(&docapella.RenderOptions{
		LinkRewrites:   map[string]string{"/docs/x": "https://elsewhere.com/x"},
		PrefixLinkURLs: "/v2",
	})

	assert.Equal(t, "https://elsewhere.com/x", ToFinalLink("/docs/x", ctx))
	assert.Equal(t, "/v2/docs/y", ToFinalLink("/docs/y", ctx))
	assert.Equal(t, "https://example.com", ToFinalLink("https://example.com", ctx))
}

func TestFragmentSurvivesRewrites(t *testing.T) {
	ctx := docapella.NewRenderContext().WithOptions(&docapella.RenderOptions{
		PrefixLinkURLs: "/v2",
	})

	assert.Equal(t, "/v2/docs/x#install", ToFinalLink("/docs/x#install", ctx))
}

func TestImageCacheBusting(t *testing.T) {
	ctx := docapella.NewRenderContext().
		WithOptions(&docapella.RenderOptions{BustImageCaches: true}).
		WithAssets([]docapella.Asset{{Path: "_assets/logo.png", Signature: 42}})

	assert.Equal(t, "/_assets/logo.png?c=42", RewriteImageSrc("/_assets/logo.png", ctx))

	// Unknown assets fall back to the context timestamp.
	busted := RewriteImageSrc("/_assets/other.png", ctx)
	assert.Contains(t, busted, "/_assets/other.png?c=")
}

func TestAssetPrefix(t *testing.T) {
	ctx := docapella.NewRenderContext().WithOptions(&docapella.RenderOptions{
		PrefixAssetURLs: "https://cdn.example.com",
	})

	assert.Equal(t, "https://cdn.example.com/_assets/logo.png",
		RewriteImageSrc("/_assets/logo.png", ctx))
	assert.Equal(t, "/images/other.png", RewriteImageSrc("/images/other.png", ctx))
}

func TestRewriteTree(t *testing.T) {
	ctx := docapella.NewRenderContext().
		WithURLBase("/guides").
		WithOptions(&docapella.RenderOptions{PrefixLinkURLs: "/v2"})

	link := ast.NewNode(ast.KindLink, ast.Position{})
	link.URL = "intro.md"
	anchor := ast.NewNode(ast.KindLink, ast.Position{})
	anchor.URL = "#section"
	html := ast.NewNode(ast.KindHTMLBlock, ast.Position{})
	html.Name = "a"
	html.Attributes = []ast.Attribute{ast.Literal("href", "/docs/x")}
	root := ast.NewNode(ast.KindRoot, ast.Position{}).Append(link, anchor, html)

	RewriteTree(root, ctx)

	assert.Equal(t, "/v2/guides/intro.md", link.URL)
	assert.Equal(t, "#section", anchor.URL)
	assert.Equal(t, "/v2/docs/x", html.Attributes[0].Value.Text)
}
