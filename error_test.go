package docapella

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Doctave/docapella-sub001/ast"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(CodeInvalidExpression, "could not evaluate expression").
		WithFile("docs/page.md").
		WithPosition(ast.Position{Start: ast.Point{Row: 3, Col: 7}})

	assert.Equal(t, "[invalid_expression] could not evaluate expression (docs/page.md:3:7)", err.Error())
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := Errorf(CodeInvalidComponent, "Unknown component %q", "Component.Nope")

	assert.True(t, errors.Is(err, &Error{Code: CodeInvalidComponent}))
	assert.False(t, errors.Is(err, &Error{Code: CodeInvalidExpression}))
}

func TestErrorOffsetBy(t *testing.T) {
	err := NewError(CodeInvalidTemplate, "boom").
		WithPosition(ast.Position{
			Start: ast.Point{Row: 2, Col: 1, Offset: 10},
			End:   ast.Point{Row: 2, Col: 4, Offset: 13},
		})

	err.OffsetBy(4, 50)

	assert.Equal(t, 6, err.Position.Start.Row)
	assert.Equal(t, 60, err.Position.Start.Offset)
	assert.Equal(t, 6, err.Position.End.Row)
	assert.Equal(t, 63, err.Position.End.Offset)
}

func TestErrorWithExcerpt(t *testing.T) {
	src := "hello\nworld oops\nbye"
	err := NewError(CodeInvalidExpression, "bad token").
		WithExcerpt(src, ast.Position{
			Start: ast.Point{Row: 2, Col: 7},
			End:   ast.Point{Row: 2, Col: 11},
		}, "")

	assert.Contains(t, err.Description, "    2 │ world oops")
	assert.Contains(t, err.Description, "▲▲▲▲")
	assert.Contains(t, err.Description, "└─ bad token")
}

func TestErrorCodeStrings(t *testing.T) {
	assert.Equal(t, "io", CodeIO.String())
	assert.Equal(t, "invalid_conditional", CodeInvalidConditional.String())
	assert.Equal(t, "code_999", Code(999).String())
}
