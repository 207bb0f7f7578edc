package docapella

import (
	"fmt"

	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/diag"
)

// Code is a stable numeric identifier for a class of compilation error.
// Codes are part of the public contract: hosted pipelines and editor
// integrations match on them, so existing values never change meaning.
type Code int

const (
	CodeMissingSettings      Code = 10
	CodeInvalidSettings      Code = 11
	CodeEmptyProject         Code = 13
	CodeMissingRootReadme    Code = 20
	CodeMissingNavigation    Code = 30
	CodeInvalidNavigation    Code = 31
	CodeIO                   Code = 40
	CodeInvalidFrontmatter   Code = 90
	CodeBrokenInternalLink   Code = 100
	CodeInvalidTemplate      Code = 110
	CodeInvalidExpression    Code = 120
	CodeInvalidComponent     Code = 130
	CodeInvalidConditional   Code = 140
	CodeInvalidTabs          Code = 150
	CodeInvalidSteps         Code = 160
	CodeInvalidOpenAPISchema Code = 170
)

func (c Code) String() string {
	switch c {
	case CodeMissingSettings:
		return "missing_settings"
	case CodeInvalidSettings:
		return "invalid_settings"
	case CodeEmptyProject:
		return "empty_project"
	case CodeMissingRootReadme:
		return "missing_root_readme"
	case CodeMissingNavigation:
		return "missing_navigation"
	case CodeInvalidNavigation:
		return "invalid_navigation"
	case CodeIO:
		return "io"
	case CodeInvalidFrontmatter:
		return "invalid_frontmatter"
	case CodeBrokenInternalLink:
		return "broken_internal_link"
	case CodeInvalidTemplate:
		return "invalid_markdown_template"
	case CodeInvalidExpression:
		return "invalid_expression"
	case CodeInvalidComponent:
		return "invalid_component"
	case CodeInvalidConditional:
		return "invalid_conditional"
	case CodeInvalidTabs:
		return "invalid_tabs"
	case CodeInvalidSteps:
		return "invalid_steps"
	case CodeInvalidOpenAPISchema:
		return "invalid_openapi_schema"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// Error is a user-facing compilation error. Message is a one-line summary;
// Description usually carries an annotated source excerpt. File and
// Position are set when the error can be pinned to a location.
type Error struct {
	Code        Code          `json:"code"`
	Message     string        `json:"message"`
	Description string        `json:"description"`
	File        string        `json:"file,omitempty"`
	Position    *ast.Position `json:"position,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.File != "" && e.Position != nil {
		return fmt.Sprintf("[%s] %s (%s:%d:%d)", e.Code, e.Message, e.File, e.Position.Start.Row, e.Position.Start.Col)
	}
	if e.File != "" {
		return fmt.Sprintf("[%s] %s (%s)", e.Code, e.Message, e.File)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is matches errors by code, so callers can use errors.Is with a sentinel
// like &Error{Code: CodeInvalidExpression}.
func (e *Error) Is(target error) bool {
	if other, ok := target.(*Error); ok {
		return e.Code == other.Code
	}
	return false
}

// NewError creates an error with a code and one-line message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates an error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDescription sets the long-form description and returns the error.
func (e *Error) WithDescription(desc string) *Error {
	e.Description = desc
	return e
}

// WithFile records which file the error occurred in and returns the error.
func (e *Error) WithFile(path string) *Error {
	e.File = path
	return e
}

// WithPosition pins the error to a source span and returns the error.
func (e *Error) WithPosition(pos ast.Position) *Error {
	e.Position = &pos
	return e
}

// WithExcerpt renders an annotated excerpt of source at the error's
// position into the description. label is printed under the caret; when
// empty the message is used.
func (e *Error) WithExcerpt(source string, pos ast.Position, label string) *Error {
	if label == "" {
		label = e.Message
	}
	e.Position = &pos
	e.Description = diag.RenderAt(source, pos, label)
	return e
}

// OffsetBy shifts the error's position by a line and byte count. Used when
// the source it was produced against was embedded in a larger file, for
// example a page body below its frontmatter or a component template.
func (e *Error) OffsetBy(lines, bytes int) *Error {
	if e.Position != nil {
		e.Position.BumpByLineAndByteOffset(lines, bytes)
	}
	return e
}

// IOError wraps a filesystem failure.
func IOError(err error, path string) *Error {
	return &Error{
		Code:        CodeIO,
		Message:     "could not read file",
		Description: err.Error(),
		File:        path,
	}
}
