package docapella

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Doctave/docapella-sub001/internal/frontmatter"
)

//go:embed templates/*.md
var bakedTemplates embed.FS

// ComponentKind tells whether a component came from _components/, _topics/
// or is built in. Only used for error wording.
type ComponentKind string

const (
	KindComponent ComponentKind = "component"
	KindTopic     ComponentKind = "topic"
	KindBuiltin   ComponentKind = "element"
)

// ComponentKindFromName classifies a component by its reference name.
func ComponentKindFromName(name string) ComponentKind {
	switch {
	case strings.HasPrefix(name, "Topic."):
		return KindTopic
	case strings.HasPrefix(name, "Component."):
		return KindComponent
	default:
		return KindBuiltin
	}
}

// ComponentKindFromPath classifies a component by its template path.
func ComponentKindFromPath(fsPath string) ComponentKind {
	switch {
	case strings.HasPrefix(fsPath, "_topics/"):
		return KindTopic
	case strings.HasPrefix(fsPath, "_components/"):
		return KindComponent
	default:
		return KindBuiltin
	}
}

// Component is a reusable template a page can instantiate as an element.
// User components live under _components/ (referenced as Component.*) and
// _topics/ (Topic.*); the built-in set ships with the compiler.
type Component struct {
	// Title is the name pages reference the component by, computed from
	// FilePath.
	Title string
	// FilePath is the project-relative template path. Built-in components
	// use their bare filename.
	FilePath string
	// Content is the raw template, frontmatter included.
	Content string
	// UnwrapLoneP drops a wrapping paragraph around the component's
	// output when the template body is a single paragraph. Inline-shaped
	// components like Link and Button set this.
	UnwrapLoneP bool
}

// NewComponent creates a component handle from template content and its
// path. The title is computed from the path:
//
//	_components/foo.md         => Component.Foo
//	_components/foo/bar.md     => Component.Foo.Bar
//	_components/foo-bar/baz.md => Component.FooBar.Baz
//	_topics/foo.md             => Topic.Foo
//	Card.md                    => Card
func NewComponent(content, fsPath string) (*Component, error) {
	title, err := computeComponentTitle(fsPath)
	if err != nil {
		return nil, err
	}
	return &Component{Title: title, FilePath: fsPath, Content: content}, nil
}

// WithUnwrapLoneP marks the component as inline-shaped and returns it.
func (c *Component) WithUnwrapLoneP() *Component {
	c.UnwrapLoneP = true
	return c
}

// Body returns the template with frontmatter stripped.
func (c *Component) Body() string {
	return string(frontmatter.Body([]byte(c.Content)))
}

// ErrorLineOffset returns how many lines of the template file precede the
// body. Errors raised while evaluating the body are shifted by this.
func (c *Component) ErrorLineOffset() int {
	return frontmatter.LineOffset([]byte(c.Content))
}

// ErrorByteOffset returns the byte offset of the template body.
func (c *Component) ErrorByteOffset() int {
	return frontmatter.BodyOffset([]byte(c.Content))
}

// Kind classifies the component for error wording.
func (c *Component) Kind() ComponentKind {
	return ComponentKindFromPath(c.FilePath)
}

// Spec parses the component's frontmatter into its attribute
// specification and verifies it.
func (c *Component) Spec() (*ComponentSpec, *Error) {
	fm, _, _, err := frontmatter.Split([]byte(c.Content))
	if err != nil {
		return nil, NewError(CodeInvalidComponent, "Invalid attribute list").
			WithFile(c.FilePath).
			WithDescription(err.Error())
	}

	spec := &ComponentSpec{}
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, spec); err != nil {
			return nil, NewError(CodeInvalidComponent, "Invalid attribute list").
				WithFile(c.FilePath).
				WithDescription(err.Error())
		}
	}
	spec.Title = c.Title

	if err := spec.Verify(); err != nil {
		err.File = c.FilePath
		return nil, err
	}
	return spec, nil
}

// ComponentSpec is the parsed frontmatter of a component template.
type ComponentSpec struct {
	Title      string          `yaml:"-"`
	Attributes []ComponentAttr `yaml:"attributes"`
}

// Attr returns the attribute spec with the given title.
func (s *ComponentSpec) Attr(title string) (*ComponentAttr, bool) {
	for i := range s.Attributes {
		if s.Attributes[i].Title == title {
			return &s.Attributes[i], true
		}
	}
	return nil, false
}

// Verify checks the attribute specification for internal consistency.
func (s *ComponentSpec) Verify() *Error {
	for i := range s.Attributes {
		if err := s.Attributes[i].Verify(); err != nil {
			return err
		}
	}
	return nil
}

// AttrType is the declared type of a component attribute.
type AttrType string

const (
	AttrText    AttrType = "text"
	AttrNumber  AttrType = "number"
	AttrBoolean AttrType = "boolean"
	AttrAny     AttrType = "any"
)

// ComponentAttr is one attribute declaration in a component's frontmatter.
type ComponentAttr struct {
	Title      string         `yaml:"title"`
	Default    *AttrValue     `yaml:"default"`
	Required   bool           `yaml:"required"`
	Validation AttrValidation `yaml:"validation"`
}

// AttrValidation constrains the values an attribute accepts.
type AttrValidation struct {
	IsA     AttrType    `yaml:"is_a"`
	IsOneOf []AttrValue `yaml:"is_one_of"`
}

// UnmarshalYAML defaults is_a to any.
func (v *AttrValidation) UnmarshalYAML(node *yaml.Node) error {
	type plain AttrValidation
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*v = AttrValidation(p)
	if v.IsA == "" {
		v.IsA = AttrAny
	}
	switch v.IsA {
	case AttrText, AttrNumber, AttrBoolean, AttrAny:
	default:
		return fmt.Errorf("unknown attribute type %q", v.IsA)
	}
	return nil
}

// AttrValue is a typed scalar from a component's frontmatter: a default
// value or an is_one_of member.
type AttrValue struct {
	Type AttrType
	Text string
	Num  float64
	Bool bool
}

// UnmarshalYAML keeps the YAML scalar's own type.
func (v *AttrValue) UnmarshalYAML(node *yaml.Node) error {
	var b bool
	if err := node.Decode(&b); err == nil && node.Tag == "!!bool" {
		*v = AttrValue{Type: AttrBoolean, Bool: b}
		return nil
	}
	var f float64
	if err := node.Decode(&f); err == nil && (node.Tag == "!!int" || node.Tag == "!!float") {
		*v = AttrValue{Type: AttrNumber, Num: f}
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*v = AttrValue{Type: AttrText, Text: s}
	return nil
}

// String renders the value the way a user would have typed it.
func (v AttrValue) String() string {
	switch v.Type {
	case AttrBoolean:
		return fmt.Sprintf("%t", v.Bool)
	case AttrNumber:
		if v.Num == float64(int64(v.Num)) {
			return fmt.Sprintf("%d", int64(v.Num))
		}
		return fmt.Sprintf("%g", v.Num)
	default:
		return v.Text
	}
}

// Verify checks that the declaration is self-consistent: every is_one_of
// member and the default match the declared type, the default is a member
// of is_one_of when one is given, and the title is a legal identifier.
func (a *ComponentAttr) Verify() *Error {
	for _, one := range a.Validation.IsOneOf {
		if !a.typeMatches(one) {
			return Errorf(CodeInvalidComponent,
				"Mismatch in one of: expected %s, found %s", a.Validation.IsA, one.Type)
		}
	}

	if a.Default != nil {
		if !a.typeMatches(*a.Default) {
			return Errorf(CodeInvalidComponent,
				"Mismatch in default: expected %s, found %s", a.Validation.IsA, a.Default.Type)
		}
		if len(a.Validation.IsOneOf) > 0 {
			found := false
			for _, one := range a.Validation.IsOneOf {
				if one.String() == a.Default.String() {
					found = true
					break
				}
			}
			if !found {
				return Errorf(CodeInvalidComponent, "Invalid default").
					WithDescription(fmt.Sprintf("%q is not one of %s", a.Default.String(), a.oneOfString()))
			}
		}
	}

	for _, r := range a.Title {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_') {
			return Errorf(CodeInvalidComponent, "Invalid title: %s",
				"Title can only include alphabets and underscores")
		}
	}
	return nil
}

func (a *ComponentAttr) typeMatches(v AttrValue) bool {
	switch a.Validation.IsA {
	case AttrNumber:
		return v.Type == AttrNumber
	case AttrBoolean:
		return v.Type == AttrBoolean
	case AttrText:
		return v.Type == AttrText
	default:
		return true
	}
}

func (a *ComponentAttr) oneOfString() string {
	parts := make([]string, 0, len(a.Validation.IsOneOf))
	for _, v := range a.Validation.IsOneOf {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}

// BakedComponents returns the built-in component set. The returned handles
// are freshly allocated; callers may extend the slice with project
// components.
func BakedComponents() []*Component {
	baked := []struct {
		file        string
		unwrapLoneP bool
	}{
		{"Card.md", false},
		{"Callout.md", false},
		{"Button.md", true},
		{"Link.md", true},
		{"Fragment.md", false},
		{"Image.md", false},
		{"Icon.md", false},
	}

	out := make([]*Component, 0, len(baked))
	for _, b := range baked {
		content, err := bakedTemplates.ReadFile("templates/" + b.file)
		if err != nil {
			panic(fmt.Sprintf("missing built-in component template %s: %v", b.file, err))
		}
		c, err := NewComponent(string(content), b.file)
		if err != nil {
			panic(fmt.Sprintf("invalid built-in component %s: %v", b.file, err))
		}
		c.UnwrapLoneP = b.unwrapLoneP
		out = append(out, c)
	}
	return out
}

func computeComponentTitle(fsPath string) (string, error) {
	p := strings.ReplaceAll(fsPath, "\\", "/")
	if ext := path.Ext(p); ext != "" {
		p = strings.TrimSuffix(p, ext)
	}

	var parts []string
	for _, section := range strings.Split(p, "/") {
		switch section {
		case "":
			continue
		case "_components":
			parts = append(parts, "Component")
		case "_topics":
			parts = append(parts, "Topic")
		default:
			first := rune(section[0])
			if !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z') {
				return "", fmt.Errorf("invalid path %q: all parts of the component path must start with a letter", fsPath)
			}
			for _, r := range section {
				if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
					return "", fmt.Errorf("invalid path %q: path can only include alphanumerics, underscores, and hyphens", fsPath)
				}
			}
			parts = append(parts, toCamelCase(section))
		}
	}
	return strings.Join(parts, "."), nil
}

func toCamelCase(s string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' }) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
