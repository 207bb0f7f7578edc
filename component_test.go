package docapella

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeComponentTitle(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"_components/foo.md", "Component.Foo"},
		{"_components/foo/bar.md", "Component.Foo.Bar"},
		{"_components/foo-bar/baz.md", "Component.FooBar.Baz"},
		{"_topics/foo.md", "Topic.Foo"},
		{"_topics/foo-bar/baz.md", "Topic.FooBar.Baz"},
		{"Card.md", "Card"},
	}
	for _, tc := range cases {
		c, err := NewComponent("", tc.path)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, c.Title, tc.path)
	}
}

func TestComputeComponentTitleRejectsBadSegments(t *testing.T) {
	_, err := NewComponent("", "_components/1foo.md")
	assert.Error(t, err)

	_, err = NewComponent("", "_components/foo bar.md")
	assert.Error(t, err)
}

func TestComponentSpecParsing(t *testing.T) {
	content := `---
attributes:
  - title: pad
    required: false
    default: 3
    validation:
      is_a: number
      is_one_of:
        - 0
        - 3
        - 5
---

<Box pad={pad}>
  <Slot />
</Box>
`
	c, err := NewComponent(content, "_components/example.md")
	require.NoError(t, err)

	spec, cerr := c.Spec()
	require.Nil(t, cerr)
	require.Len(t, spec.Attributes, 1)

	attr := spec.Attributes[0]
	assert.Equal(t, "pad", attr.Title)
	assert.False(t, attr.Required)
	assert.Equal(t, AttrNumber, attr.Validation.IsA)
	require.NotNil(t, attr.Default)
	assert.Equal(t, AttrNumber, attr.Default.Type)
	assert.Equal(t, float64(3), attr.Default.Num)
	assert.Len(t, attr.Validation.IsOneOf, 3)
}

func TestComponentSpecDefaultTypeMismatch(t *testing.T) {
	content := `---
attributes:
  - title: pad
    default: big
    validation:
      is_a: number
---
body
`
	c, err := NewComponent(content, "_components/example.md")
	require.NoError(t, err)

	_, cerr := c.Spec()
	require.NotNil(t, cerr)
	assert.Equal(t, CodeInvalidComponent, cerr.Code)
	assert.Contains(t, cerr.Message, "Mismatch in default")
}

func TestComponentSpecDefaultNotInOneOf(t *testing.T) {
	content := `---
attributes:
  - title: size
    default: xl
    validation:
      is_a: text
      is_one_of:
        - sm
        - md
---
body
`
	c, err := NewComponent(content, "_components/example.md")
	require.NoError(t, err)

	_, cerr := c.Spec()
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.Message, "Invalid default")
}

func TestComponentSpecBadTitle(t *testing.T) {
	content := `---
attributes:
  - title: bad-name
---
body
`
	c, err := NewComponent(content, "_components/example.md")
	require.NoError(t, err)

	_, cerr := c.Spec()
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.Message, "Invalid title")
}

func TestComponentBodyAndOffsets(t *testing.T) {
	content := "---\nattributes: []\n---\n\n# Body\n"
	c, err := NewComponent(content, "_components/example.md")
	require.NoError(t, err)

	assert.Equal(t, "\n# Body\n", c.Body())
	assert.Equal(t, 3, c.ErrorLineOffset())
	assert.Equal(t, len("---\nattributes: []\n---\n"), c.ErrorByteOffset())
}

func TestBakedComponents(t *testing.T) {
	baked := BakedComponents()
	require.Len(t, baked, 7)

	titles := make(map[string]*Component)
	for _, c := range baked {
		titles[c.Title] = c

		spec, cerr := c.Spec()
		require.Nil(t, cerr, "component %s", c.Title)
		require.NotNil(t, spec)
	}

	assert.Contains(t, titles, "Card")
	assert.Contains(t, titles, "Callout")
	assert.True(t, titles["Button"].UnwrapLoneP)
	assert.True(t, titles["Link"].UnwrapLoneP)
	assert.False(t, titles["Card"].UnwrapLoneP)
}

func TestComponentKindClassification(t *testing.T) {
	assert.Equal(t, KindComponent, ComponentKindFromName("Component.Foo"))
	assert.Equal(t, KindTopic, ComponentKindFromName("Topic.Foo"))
	assert.Equal(t, KindBuiltin, ComponentKindFromName("Card"))

	assert.Equal(t, KindComponent, ComponentKindFromPath("_components/foo.md"))
	assert.Equal(t, KindTopic, ComponentKindFromPath("_topics/foo.md"))
	assert.Equal(t, KindBuiltin, ComponentKindFromPath("Card.md"))
}
