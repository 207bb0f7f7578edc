package docapella

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFsToURIPath(t *testing.T) {
	assert.Equal(t, "/", FsToURIPath("README.md"))
	assert.Equal(t, "/foo", FsToURIPath("foo/README.md"))
	assert.Equal(t, "/Bar", FsToURIPath("Bar.md"))
	assert.Equal(t, "/foo/bar", FsToURIPath("foo/bar.md"))
	assert.Equal(t, "/AEuu/Example", FsToURIPath("Æúű/Exämplé.md"))
}

func TestURIToFsPath(t *testing.T) {
	assert.Equal(t, "README.md", URIToFsPath("/"))
	assert.Equal(t, "README.md", URIToFsPath(""))
	assert.Equal(t, "foo.md", URIToFsPath("/foo"))
	assert.Equal(t, "foo/bar.md", URIToFsPath("/foo/bar"))
	assert.Equal(t, "foo.md", URIToFsPath("/foo.tar"))
}
