package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docapella "github.com/Doctave/docapella-sub001"
)

func TestExtractLinks(t *testing.T) {
	ctx := docapella.NewRenderContext().WithURLBase("/")
	src := "[abs](/foo/bar)\n\n" +
		"[rel](foo.md)\n\n" +
		"[ext](https://example.com)\n\n" +
		"[frag](#section)\n"

	out, err := ExtractLinks(src, ctx)
	require.Nil(t, err)
	assert.Equal(t, []OutgoingLink{
		{URI: "/foo/bar", ExpandedURI: "/foo/bar"},
		{URI: "foo.md", ExpandedURI: "/foo.md"},
	}, out)
}

func TestExtractLinksKeepsWrittenFormRelativeToPage(t *testing.T) {
	ctx := docapella.NewRenderContext().WithURLBase("/guides/setup")
	out, err := ExtractLinks("[next](../advanced/tuning.md)\n", ctx)
	require.Nil(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "../advanced/tuning.md", out[0].URI)
	assert.Equal(t, "/guides/advanced/tuning.md", out[0].ExpandedURI)
}

func TestExtractLinksFromHTMLAnchors(t *testing.T) {
	src := "<a href=\"/other-page\">go</a>\n\n" +
		"<a href=\"/files/report.pdf\" download>report</a>\n"

	out, err := ExtractLinks(src, nil)
	require.Nil(t, err)
	require.Len(t, out, 1, "download anchors are asset references, not page links")
	assert.Equal(t, "/other-page", out[0].URI)
}

func TestExtractAssetLinks(t *testing.T) {
	src := "![diagram](/_assets/diagram.png)\n\n" +
		"[page](/docs/intro)\n\n" +
		"<a href=\"/files/report.pdf\" download>report</a>\n"

	out, err := ExtractAssetLinks(src, nil)
	require.Nil(t, err)
	assert.Equal(t, []OutgoingLink{
		{URI: "/_assets/diagram.png", ExpandedURI: "/_assets/diagram.png"},
		{URI: "/files/report.pdf", ExpandedURI: "/files/report.pdf"},
	}, out)
}

func TestExtractAssetLinksSkipsExternalImages(t *testing.T) {
	out, err := ExtractAssetLinks("![](https://cdn.example.com/pic.png)\n", nil)
	require.Nil(t, err)
	assert.Empty(t, out)
}

func TestExtractExternalLinks(t *testing.T) {
	src := "[b](https://b.example.com)\n\n" +
		"[a](https://a.example.com)\n\n" +
		"[again](https://b.example.com)\n\n" +
		"[internal](/docs)\n"

	out, err := ExtractExternalLinks(src, nil)
	require.Nil(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, out)
}

func TestExtractLinksPermissive(t *testing.T) {
	src := "[one](/docs/one)\n" +
		"![img](/pics/cat.png)\n" +
		"[ref]: /docs/ref \"Title\"\n" +
		"[^note]: not a link\n" +
		"[bad](has space)\n" +
		"```\n[inside](/fenced)\n```\n" +
		"some `[span](/in-code)` text\n" +
		"    [indented](/code-block)\n"

	assert.Equal(t, []string{"/docs/one", "/pics/cat.png", "/docs/ref"},
		ExtractLinksPermissive(src))
}

func TestExtractLinksPermissiveFenceVariants(t *testing.T) {
	src := "~~~\n[tilde](/hidden)\n~~~\n[after](/visible)\n"
	assert.Equal(t, []string{"/visible"}, ExtractLinksPermissive(src))
}
