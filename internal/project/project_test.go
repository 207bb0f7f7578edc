package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docapella "github.com/Doctave/docapella-sub001"
)

func file(path, content string) InputFile {
	return InputFile{Path: path, Content: []byte(content)}
}

func minimalProject(t *testing.T, extra ...InputFile) *Project {
	t.Helper()
	files := append([]InputFile{
		file("docapella.yaml", "title: Test\n"),
		file("README.md", "# Welcome\n"),
	}, extra...)
	p, err := FromFiles(files)
	require.Nil(t, err)
	return p
}

func TestMissingSettings(t *testing.T) {
	_, err := FromFiles([]InputFile{file("README.md", "# Hi\n")})
	require.NotNil(t, err)
	assert.Equal(t, docapella.CodeMissingSettings, err.Code)
	assert.Equal(t, "docapella.yaml", err.File)
}

func TestInvalidSettings(t *testing.T) {
	_, err := FromFiles([]InputFile{file("docapella.yaml", "title: [\n")})
	require.NotNil(t, err)
	assert.Equal(t, docapella.CodeInvalidSettings, err.Code)
	assert.Contains(t, err.Description, "docapella.yaml")
}

func TestEmptyProject(t *testing.T) {
	_, err := FromFiles(nil)
	require.NotNil(t, err)
	assert.Equal(t, docapella.CodeEmptyProject, err.Code)
}

func TestFileSorting(t *testing.T) {
	p := minimalProject(t,
		file("docs/intro.md", "# Intro\n"),
		file("_assets/logo.png", "pngbytes"),
		file("_components/note.md", "A note.\n"),
		file("_topics/auth.md", "Auth topic.\n"),
	)

	require.Len(t, p.Pages, 2)
	assert.Equal(t, "Test", p.Settings.Title)

	page, ok := p.PageByURIPath("/docs/intro")
	require.True(t, ok)
	assert.Equal(t, "docs/intro.md", page.FsPath)

	asset, ok := p.AssetByPath("/_assets/logo.png")
	require.True(t, ok)
	assert.NotZero(t, asset.Signature)

	titles := map[string]bool{}
	for _, c := range p.Components {
		titles[c.Title] = true
	}
	assert.True(t, titles["Component.Note"])
	assert.True(t, titles["Topic.Auth"])
	assert.True(t, titles["Component.Callout"], "baked-in templates are registered")
}

func TestVerifyCleanProject(t *testing.T) {
	p := minimalProject(t, file("docs/intro.md", "[home](/)\n"))
	assert.Nil(t, p.Verify(nil))
}

func TestVerifyMissingRootReadme(t *testing.T) {
	p, err := FromFiles([]InputFile{
		file("docapella.yaml", "title: Test\n"),
		file("docs/intro.md", "# Intro\n"),
	})
	require.Nil(t, err)

	errs := p.Verify(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, docapella.CodeMissingRootReadme, errs[0].Code)
}

func TestVerifyInvalidFrontmatter(t *testing.T) {
	p := minimalProject(t, file("docs/bad.md", "---\ntitle: [\n---\n\nBody.\n"))

	errs := p.Verify(nil)
	require.NotEmpty(t, errs)
	assert.Equal(t, docapella.CodeInvalidFrontmatter, errs[0].Code)
	assert.Equal(t, "docs/bad.md", errs[0].File)
}

func TestVerifyBrokenLink(t *testing.T) {
	p := minimalProject(t, file("docs/intro.md", "[gone](/nowhere)\n"))

	errs := p.Verify(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, docapella.CodeBrokenInternalLink, errs[0].Code)
	assert.Equal(t, "Broken link detected", errs[0].Message)
	assert.Contains(t, errs[0].Description, "/nowhere")
	assert.Equal(t, "docs/intro.md", errs[0].File)
}

func TestVerifyRedirectSuppressesBrokenLink(t *testing.T) {
	p, err := FromFiles([]InputFile{
		file("docapella.yaml", "title: Test\nredirects:\n  - from: /nowhere\n    to: /\n"),
		file("README.md", "[moved](/nowhere)\n"),
	})
	require.Nil(t, err)
	assert.Nil(t, p.Verify(nil))
}

func TestVerifyBrokenAssetLink(t *testing.T) {
	p := minimalProject(t, file("docs/pics.md", "![x](/_assets/missing.png)\n"))

	errs := p.Verify(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, docapella.CodeBrokenInternalLink, errs[0].Code)
	assert.Equal(t, "Broken asset link detected", errs[0].Message)
}

func TestVerifyInvalidComponentSpec(t *testing.T) {
	p := minimalProject(t, file("_components/bad.md", "---\nattributes: [\n---\n\nBody.\n"))

	errs := p.Verify(nil)
	require.NotEmpty(t, errs)
	assert.Equal(t, docapella.CodeInvalidComponent, errs[0].Code)
	assert.Equal(t, "_components/bad.md", errs[0].File)
}

func TestVerifyUnparsableComponentBody(t *testing.T) {
	p := minimalProject(t, file("_components/broken.md", "<Card>\nnever closed\n"))

	errs := p.Verify(nil)
	require.NotEmpty(t, errs)
	assert.Equal(t, docapella.CodeInvalidTemplate, errs[0].Code)
	assert.Equal(t, "_components/broken.md", errs[0].File)
}

func TestPageASTErrorAttribution(t *testing.T) {
	p := minimalProject(t, file("docs/expr.md", "---\ntitle: Expr\n---\n\n{broken +}\n"))

	page, ok := p.PageByFsPath("docs/expr.md")
	require.True(t, ok)

	_, err := p.PageAST(page, nil)
	require.NotNil(t, err)
	assert.Equal(t, docapella.CodeInvalidExpression, err.Code)
	assert.Equal(t, "docs/expr.md", err.File)
	require.NotNil(t, err.Position)
	assert.Equal(t, 5, err.Position.Start.Row)
}

func TestPageASTRelativeLinksExpand(t *testing.T) {
	p := minimalProject(t,
		file("guides/setup.md", "[next](tuning.md)\n"),
		file("guides/tuning.md", "# Tuning\n"),
	)

	page, ok := p.PageByFsPath("guides/setup.md")
	require.True(t, ok)

	links, err := p.OutgoingLinks(page, nil)
	require.Nil(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "tuning.md", links[0].URI)
	assert.Equal(t, "/guides/tuning.md", links[0].ExpandedURI)
}

func TestPreferenceCombinations(t *testing.T) {
	s := Settings{UserPreferences: []UserPreference{
		{Name: "lang", Values: []string{"go", "rust"}},
		{Name: "os", Values: []string{"linux"}},
	}}

	combos := s.PreferenceCombinations()
	require.Len(t, combos, 2)
	assert.Equal(t, "linux", combos[0]["os"])

	assert.Len(t, Settings{}.PreferenceCombinations(), 1)
}
