package slugs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyKeepsCase(t *testing.T) {
	assert.Equal(t, "FOO", Slugify("FOO"))
	assert.Equal(t, "foo", Slugify("foo"))
}

func TestSlugifyKeepsUnderscores(t *testing.T) {
	assert.Equal(t, "foo_bar", Slugify("foo_bar"))
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Test String!!!1!1", "My-Test-String-1-1"},
		{"test\nit   now!", "test-it-now"},
		{"  --test-cool", "test-cool"},
		{"Æúű--cool?", "AEuu-cool"},
		{"You & Me", "You-Me"},
		{"user@example.com", "user-example.com"},
		{"äÄöÖ", "aAoO"},
		{"Exämplé", "Example"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
