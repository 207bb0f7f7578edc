package project

import (
	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/markdown"
)

// PageAST compiles one page strictly. Errors carry the page's file path
// and positions in real file coordinates.
func (p *Project) PageAST(page PageFile, opts *docapella.RenderOptions) (*ast.Node, *docapella.Error) {
	ctx := p.PageContext(page, opts)
	node, err := markdown.ToASTMDX(page.Body(), ctx)
	if err != nil {
		return nil, pageError(err, page, ctx)
	}
	return node, nil
}

// PageASTFaultTolerant compiles one page in recovery mode, returning a
// best-effort tree plus every error found.
func (p *Project) PageASTFaultTolerant(page PageFile, opts *docapella.RenderOptions) (*ast.Node, []*docapella.Error) {
	ctx := p.PageContext(page, opts)
	node, errs := markdown.ToASTMDXFaultTolerant(page.Body(), ctx)
	for i, err := range errs {
		errs[i] = pageError(err, page, ctx)
	}
	return node, errs
}

// OutgoingLinks returns the internal page links of one page, with URIs as
// written plus their expanded form.
func (p *Project) OutgoingLinks(page PageFile, opts *docapella.RenderOptions) ([]markdown.OutgoingLink, *docapella.Error) {
	ctx := p.PageContext(page, opts)
	links, err := markdown.ExtractLinks(page.Body(), ctx)
	if err != nil {
		return nil, pageError(err, page, ctx)
	}
	return links, nil
}

// AssetLinks returns the internal asset references of one page.
func (p *Project) AssetLinks(page PageFile, opts *docapella.RenderOptions) ([]markdown.OutgoingLink, *docapella.Error) {
	ctx := p.PageContext(page, opts)
	links, err := markdown.ExtractAssetLinks(page.Body(), ctx)
	if err != nil {
		return nil, pageError(err, page, ctx)
	}
	return links, nil
}

// ExternalLinks returns the deduplicated external URLs of one page.
func (p *Project) ExternalLinks(page PageFile, opts *docapella.RenderOptions) ([]string, *docapella.Error) {
	ctx := p.PageContext(page, opts)
	links, err := markdown.ExtractExternalLinks(page.Body(), ctx)
	if err != nil {
		return nil, pageError(err, page, ctx)
	}
	return links, nil
}

// pageError attributes a compilation error to the page file and shifts
// its position past the frontmatter, unless a deeper frame (a component
// template) already claimed it.
func pageError(err *docapella.Error, page PageFile, ctx *docapella.RenderContext) *docapella.Error {
	if err.File != "" {
		return err
	}
	fc := ctx.File
	return err.OffsetBy(fc.ErrorLinesOffset, fc.ErrorBytesOffset).WithFile(page.FsPath)
}
