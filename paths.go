package docapella

import (
	"path"
	"strings"

	"github.com/Doctave/docapella-sub001/internal/slugs"
)

// FsToURIPath converts a project-relative filesystem path into the URI
// path it is served at: the extension is dropped, a trailing README
// collapses into its directory, and every segment is slugified. The root
// README maps to "/".
func FsToURIPath(fsPath string) string {
	p := strings.TrimPrefix(path.Clean(strings.ReplaceAll(fsPath, "\\", "/")), "/")

	if ext := path.Ext(p); ext != "" {
		p = strings.TrimSuffix(p, ext)
	}
	if path.Base(p) == "README" {
		p = path.Dir(p)
	}
	if p == "." || p == "" {
		return "/"
	}

	segments := strings.Split(p, "/")
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(slugs.Slugify(seg))
	}
	return b.String()
}

// URIToFsPath is the best-guess inverse of FsToURIPath. It cannot be exact
// since slugification is lossy; it is used to tell a user where to put a
// file so that a given URI renders.
func URIToFsPath(uriPath string) string {
	if uriPath == "/" || uriPath == "" {
		return "README.md"
	}
	p := strings.TrimPrefix(uriPath, "/")
	if ext := path.Ext(p); ext != "" {
		p = strings.TrimSuffix(p, ext)
	}
	return p + ".md"
}
