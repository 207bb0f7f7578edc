package interp

import (
	"fmt"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/content"
	"github.com/Doctave/docapella-sub001/internal/expr"
	"github.com/Doctave/docapella-sub001/internal/mdx"
)

// component expands a custom component or topic invocation. The rendered
// output is inserted as a root node positioned at the invocation site.
func (in *Interpreter) component(n *content.Node) (*ast.Node, *docapella.Error) {
	if in.stackDepth > maxComponentDepth {
		err := docapella.NewError(docapella.CodeInvalidComponent, "Recursive component call").
			WithExcerpt(in.source, n.Pos, "You may have a component referencing itself")
		if in.ctx.File != nil {
			err = err.WithFile(in.ctx.File.FsPath)
		}
		return nil, err
	}

	comp, ok := in.ctx.ComponentByTitle(n.Name)
	if !ok {
		kind := "Component"
		if docapella.ComponentKindFromName(n.Name) == docapella.KindTopic {
			kind = "Topic"
		}
		return nil, docapella.Errorf(docapella.CodeInvalidComponent, "Unknown component %s", n.Name).
			WithExcerpt(in.source, n.Pos, fmt.Sprintf("Unknown %s %q", kind, n.Name))
	}

	spec, serr := comp.Spec()
	if serr != nil {
		return nil, serr
	}
	attrs, aerr := in.resolveAttributes(spec, n.Attributes, n.Pos)
	if aerr != nil {
		return nil, aerr
	}

	slotContent, cerr := in.renderChildren(n.Children)
	if cerr != nil {
		return nil, cerr
	}
	// Inline-shaped components opt into receiving their slot content
	// without the wrapping paragraph.
	if comp.UnwrapLoneP && len(slotContent) == 1 && slotContent[0].Kind == ast.KindParagraph {
		slotContent = slotContent[0].Children
	}

	rendered, rerr := in.evaluateComponent(comp, attrs, slotContent)
	if rerr != nil {
		return nil, rerr
	}
	rendered.Pos = n.Pos
	return rendered, nil
}

// evaluateComponent compiles the component body in a child interpreter
// seeded with the resolved attributes and the invocation's slot content.
// Errors from inside the body are re-attributed to the template file,
// shifted past its frontmatter.
func (in *Interpreter) evaluateComponent(comp *docapella.Component, attrs map[string]expr.Value, slotContent []*ast.Node) (*ast.Node, *docapella.Error) {
	body := comp.Body()

	fail := func(err *docapella.Error) *docapella.Error {
		// An error a nested component already claimed keeps its file and
		// position; only the message is rewritten on the way out.
		if err.File == "" {
			err.OffsetBy(comp.ErrorLineOffset(), comp.ErrorByteOffset()).
				WithFile(comp.FilePath)
		}
		err.Message = "Error rendering component"
		return err
	}

	tree, terr := mdx.Tokenize(body)
	if terr != nil {
		switch e := terr.(type) {
		case *docapella.Error:
			return nil, fail(e)
		case *mdx.ParseError:
			return nil, fail(docapella.NewError(docapella.CodeInvalidTemplate, "Could not parse document").
				WithExcerpt(body, ast.Position{Start: e.Point, End: e.Point}, e.Message))
		default:
			return nil, fail(docapella.NewError(docapella.CodeInvalidTemplate, terr.Error()))
		}
	}

	env := in.env.Clone()
	for name, val := range attrs {
		env.AddGlobal(name, val)
	}

	componentCtx := *in.ctx
	componentCtx.File = &docapella.FileContext{
		FsPath:           comp.FilePath,
		ErrorLinesOffset: comp.ErrorLineOffset(),
		ErrorBytesOffset: comp.ErrorByteOffset(),
	}

	child := &Interpreter{
		ctx:           &componentCtx,
		source:        body,
		env:           env,
		slotInjection: slotContent,
		stackDepth:    in.stackDepth + 1,
		anchors:       in.anchors,
	}
	rendered, rerr := child.Interpret(tree)
	if rerr != nil {
		return nil, fail(rerr)
	}

	return rendered, nil
}

// resolveAttributes checks an invocation's attributes against the
// component's declared specification and produces the values injected
// into the component environment.
func (in *Interpreter) resolveAttributes(spec *docapella.ComponentSpec, attrs []ast.Attribute, pos ast.Position) (map[string]expr.Value, *docapella.Error) {
	for _, a := range attrs {
		if _, isCond := content.ParseOperation(a.Key); isCond {
			continue
		}
		if _, declared := spec.Attr(a.Key); !declared {
			return nil, docapella.NewError(docapella.CodeInvalidComponent, "Unexpected attribute").
				WithExcerpt(in.source, pos,
					fmt.Sprintf("Component `%s` does not declare attribute `%s`", spec.Title, a.Key))
		}
	}

	out := make(map[string]expr.Value, len(spec.Attributes))
	for i := range spec.Attributes {
		decl := &spec.Attributes[i]
		given := ast.FindAttribute(attrs, decl.Title)

		if given == nil {
			if decl.Required {
				return nil, docapella.NewError(docapella.CodeInvalidExpression, "Error in attribute expression").
					WithExcerpt(in.source, pos,
						fmt.Sprintf("Missing required attribute `%s` for component `%s`", decl.Title, spec.Title))
			}
			if decl.Default != nil {
				out[decl.Title] = attrValueToExpr(*decl.Default)
			} else {
				out[decl.Title] = expr.Null()
			}
			continue
		}

		val, err := in.evaluateAttributeValue(given.Value, pos)
		if err != nil {
			return nil, err
		}
		if verr := verifyIncoming(decl, val); verr != "" {
			return nil, docapella.NewError(docapella.CodeInvalidExpression, "Error in attribute expression").
				WithExcerpt(in.source, pos, verr)
		}
		out[decl.Title] = val
	}
	return out, nil
}

// verifyIncoming checks a supplied value against the attribute's declared
// type and is_one_of set. The return is an error label, empty on success.
func verifyIncoming(decl *docapella.ComponentAttr, val expr.Value) string {
	switch decl.Validation.IsA {
	case docapella.AttrText:
		if val.Kind != expr.KindString {
			return fmt.Sprintf("Attribute `%s` expects text", decl.Title)
		}
	case docapella.AttrNumber:
		if val.Kind != expr.KindNumber {
			return fmt.Sprintf("Attribute `%s` expects a number", decl.Title)
		}
	case docapella.AttrBoolean:
		if val.Kind != expr.KindBool {
			return fmt.Sprintf("Attribute `%s` expects a boolean", decl.Title)
		}
	}

	if len(decl.Validation.IsOneOf) > 0 {
		got := val.String()
		for _, one := range decl.Validation.IsOneOf {
			if one.String() == got {
				return ""
			}
		}
		return fmt.Sprintf("Attribute `%s`: %q is not an accepted value", decl.Title, got)
	}
	return ""
}

// attrValueToExpr converts a frontmatter-declared default into an
// expression value.
func attrValueToExpr(v docapella.AttrValue) expr.Value {
	switch v.Type {
	case docapella.AttrBoolean:
		return expr.BoolValue(v.Bool)
	case docapella.AttrNumber:
		return expr.NumberValue(v.Num)
	default:
		return expr.StringValue(v.Text)
	}
}

// slot injects the invocation's children into a component body. Slots are
// only legal inside component and topic templates.
func (in *Interpreter) slot(n *content.Node) (*ast.Node, *docapella.Error) {
	inComponent := in.ctx.File != nil && in.ctx.IsComponentFile(in.ctx.File.FsPath)
	if !inComponent {
		return nil, docapella.NewError(docapella.CodeInvalidComponent, "Invalid slot").
			WithExcerpt(in.source, n.Pos, "`<Slot />` can only be used in components and topics")
	}
	node := ast.NewNode(ast.KindRoot, n.Pos).Append(in.slotInjection...)
	in.slotInjection = nil
	return node, nil
}
