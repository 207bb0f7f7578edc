// Package markdown is the public compilation API: it turns Markdown or
// MDX-flavored source into a fully resolved render tree, and extracts
// link graphs from documents without mutating them.
package markdown

import (
	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/interp"
	"github.com/Doctave/docapella-sub001/internal/links"
	"github.com/Doctave/docapella-sub001/internal/mdx"
)

// ToAST compiles plain GitHub-flavored Markdown. Raw HTML passes through
// as opaque html_tag nodes; components, expressions and conditionals are
// not recognized.
func ToAST(input string, ctx *docapella.RenderContext) (*ast.Node, *docapella.Error) {
	ctx = ensureContext(ctx)
	tree, err := mdx.TokenizeGFM(input)
	if err != nil {
		return nil, tokenizeError(input, err)
	}
	node, ierr := interp.New(ctx, input).Interpret(tree)
	if ierr != nil {
		return nil, ierr
	}
	links.RewriteTree(node, ctx)
	return node, nil
}

// ToASTMDX compiles the full MDX dialect: components, expressions,
// conditionals and sanitized HTML elements.
func ToASTMDX(input string, ctx *docapella.RenderContext) (*ast.Node, *docapella.Error) {
	ctx = ensureContext(ctx)
	tree, err := mdx.Tokenize(input)
	if err != nil {
		return nil, tokenizeError(input, err)
	}
	node, ierr := interp.New(ctx, input).Interpret(tree)
	if ierr != nil {
		return nil, ierr
	}
	links.RewriteTree(node, ctx)
	return node, nil
}

// ToASTMDXFaultTolerant compiles as much of a broken document as it can.
// The returned tree is best-effort (nil when nothing could be salvaged)
// and the error list carries one entry per recovered failure. A clean
// document returns an empty error list.
func ToASTMDXFaultTolerant(input string, ctx *docapella.RenderContext) (*ast.Node, []*docapella.Error) {
	ctx = ensureContext(ctx)
	tree, errs := mdx.TokenizeFaultTolerant(input)
	if tree == nil {
		return nil, errs
	}
	node, ierr := interp.New(ctx, input).Interpret(tree)
	if ierr != nil {
		return nil, append(errs, ierr)
	}
	links.RewriteTree(node, ctx)
	return node, errs
}

func ensureContext(ctx *docapella.RenderContext) *docapella.RenderContext {
	if ctx == nil {
		return docapella.NewRenderContext()
	}
	return ctx
}

// tokenizeError normalizes the tokenizer's two failure shapes into the
// public error type.
func tokenizeError(input string, err error) *docapella.Error {
	switch e := err.(type) {
	case *docapella.Error:
		return e
	case *mdx.ParseError:
		return docapella.NewError(docapella.CodeInvalidTemplate, "Could not parse document").
			WithExcerpt(input, ast.Position{Start: e.Point, End: e.Point}, e.Message)
	default:
		return docapella.NewError(docapella.CodeInvalidTemplate, err.Error())
	}
}
