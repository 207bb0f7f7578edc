package docapella

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithURLBaseByFsPath(t *testing.T) {
	cases := []struct {
		fsPath string
		want   string
	}{
		{"README.md", "/"},
		{"foo/README.md", "/foo"},
		{"foo/bar.md", "/foo"},
		{"foo.md", ""},
		// A directory that looks like it has an extension must not be
		// truncated.
		{"docs/v1.0.2/guide.md", "/docs/v1.0.2"},
	}
	for _, tc := range cases {
		ctx := NewRenderContext().WithURLBaseByFsPath(tc.fsPath)
		require.NotNil(t, ctx.RelativeURLBase, tc.fsPath)
		assert.Equal(t, tc.want, *ctx.RelativeURLBase, tc.fsPath)
	}
}

func TestWithURLBaseByPageURI(t *testing.T) {
	ctx := NewRenderContext().WithURLBaseByPageURI("/foo/bar")
	require.NotNil(t, ctx.RelativeURLBase)
	assert.Equal(t, "/foo", *ctx.RelativeURLBase)

	ctx = NewRenderContext().WithURLBaseByPageURI("/foo")
	require.NotNil(t, ctx.RelativeURLBase)
	assert.Equal(t, "", *ctx.RelativeURLBase)
}

func TestShouldExpandRelativeURIs(t *testing.T) {
	ctx := NewRenderContext()
	assert.False(t, ctx.ShouldExpandRelativeURIs())

	ctx.WithURLBase("/docs/")
	assert.True(t, ctx.ShouldExpandRelativeURIs())
	assert.Equal(t, "/docs", *ctx.RelativeURLBase)

	// The empty base is still a base.
	ctx2 := NewRenderContext().WithURLBase("")
	assert.True(t, ctx2.ShouldExpandRelativeURIs())
}

func TestContextLookups(t *testing.T) {
	ctx := NewRenderContext().
		WithPages([]Page{{FsPath: "foo/bar.md", URIPath: "/foo/bar"}}).
		WithAssets([]Asset{{Path: "_assets/logo.png", Signature: 42}})

	p, ok := ctx.PageByURIPath("/foo/bar")
	require.True(t, ok)
	assert.Equal(t, "foo/bar.md", p.FsPath)

	_, ok = ctx.PageByURIPath("/nope")
	assert.False(t, ok)

	a, ok := ctx.AssetByPath("/_assets/logo.png")
	require.True(t, ok)
	assert.Equal(t, uint64(42), a.Signature)
}

func TestIsComponentFile(t *testing.T) {
	comp, err := NewComponent("<Slot />", "_components/note.md")
	require.NoError(t, err)

	ctx := NewRenderContext().WithCustomComponents([]*Component{comp})
	assert.True(t, ctx.IsComponentFile("_components/note.md"))
	assert.False(t, ctx.IsComponentFile("docs/page.md"))
}
