package interp

import (
	"strconv"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/expr"
)

// evaluateOptionValue resolves one attribute value to a string: braced
// expressions are evaluated against the page environment, literals pass
// through. A nil value (bare attribute) reads as "true".
func (in *Interpreter) evaluateOptionValue(v *ast.AttributeValue, pos ast.Position) (string, *docapella.Error) {
	if v == nil {
		return "true", nil
	}
	if v.Kind == ast.AttributeExpression {
		val, everr := expr.EvalString(v.Text, in.env)
		if everr != nil {
			return "", docapella.NewError(docapella.CodeInvalidExpression, "Error in expression").
				WithExcerpt(in.source, pos, everr.Message)
		}
		return val.String(), nil
	}
	return v.Text, nil
}

// evaluateAttributeValue resolves one attribute value to a typed value.
// Literals follow the conventions users expect from markup: numbers and
// the words true/false keep their type, everything else is a string.
func (in *Interpreter) evaluateAttributeValue(v *ast.AttributeValue, pos ast.Position) (expr.Value, *docapella.Error) {
	if v == nil {
		return expr.BoolValue(true), nil
	}
	if v.Kind == ast.AttributeExpression {
		val, everr := expr.EvalString(v.Text, in.env)
		if everr != nil {
			return expr.Null(), docapella.NewError(docapella.CodeInvalidExpression, "Error in attribute expression").
				WithExcerpt(in.source, pos, everr.Message)
		}
		return val, nil
	}
	if f, err := strconv.ParseFloat(v.Text, 64); err == nil {
		return expr.NumberValue(f), nil
	}
	switch v.Text {
	case "true":
		return expr.BoolValue(true), nil
	case "false":
		return expr.BoolValue(false), nil
	}
	return expr.StringValue(v.Text), nil
}

// evaluateHTMLAttributes resolves expression-valued attributes on an HTML
// element down to literals, so the sanitizer and serializers only ever see
// plain strings.
func (in *Interpreter) evaluateHTMLAttributes(attrs []ast.Attribute, pos ast.Position) ([]ast.Attribute, *docapella.Error) {
	out := make([]ast.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if a.Value == nil || a.Value.Kind != ast.AttributeExpression {
			out = append(out, a)
			continue
		}
		val, everr := expr.EvalString(a.Value.Text, in.env)
		if everr != nil {
			return nil, docapella.NewError(docapella.CodeInvalidExpression, "Error evaluating attribute expression").
				WithExcerpt(in.source, pos, everr.Message)
		}
		out = append(out, ast.Literal(a.Key, val.String()))
	}
	return out, nil
}

// intInRange parses an integer option and checks it against an inclusive
// lower and exclusive upper bound.
func intInRange(text string, min, max int) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < min || n >= max {
		return 0, false
	}
	return n, true
}
