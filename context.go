package docapella

import (
	"path"
	"strconv"
	"strings"
	"time"
)

// Page is a project page as seen by the compiler: where it lives on disk
// and what URI it is served at. Link expansion and fsify lookups run
// against these.
type Page struct {
	FsPath  string `json:"fs_path"`
	URIPath string `json:"uri_path"`
}

// Asset is a static project file. Signature is a content hash used for
// image cache busting; zero means unknown.
type Asset struct {
	Path      string `json:"path"`
	Signature uint64 `json:"signature"`
}

// URIPath returns the URI the asset is served at.
func (a Asset) URIPath() string {
	return "/" + strings.TrimPrefix(strings.ReplaceAll(a.Path, "\\", "/"), "/")
}

// FileContext identifies the file currently being compiled and how far its
// body is offset inside the physical file, so error positions can point at
// the right lines when frontmatter was stripped before parsing.
type FileContext struct {
	FsPath           string
	ErrorLinesOffset int
	ErrorBytesOffset int
}

// NewFileContext creates a FileContext for a file whose parsed body starts
// at the given line and byte offsets.
func NewFileContext(fsPath string, linesOffset, bytesOffset int) FileContext {
	return FileContext{FsPath: fsPath, ErrorLinesOffset: linesOffset, ErrorBytesOffset: bytesOffset}
}

// RenderContext carries everything a compilation needs besides the source
// text itself. It is immutable during a compile; build one per file with
// the With* methods.
type RenderContext struct {
	Options *RenderOptions

	// RelativeURLBase, when set, is the URI directory relative links in
	// the current file resolve against. The empty string is a valid base
	// (a page at the site root); nil disables relative-URL expansion.
	RelativeURLBase *string

	// File is the file being compiled, nil for anonymous input.
	File *FileContext

	Pages            []Page
	Assets           []Asset
	CustomComponents []*Component

	// CacheBustTimestamp is the fallback cache-bust value for assets with
	// no known signature. Stable for the lifetime of one context.
	CacheBustTimestamp string
}

// NewRenderContext returns a context with default options and a fresh
// cache-bust timestamp.
func NewRenderContext() *RenderContext {
	return &RenderContext{
		Options:            &RenderOptions{},
		CacheBustTimestamp: strconv.FormatInt(time.Now().Unix(), 10),
	}
}

// WithOptions sets the render options. Nil is ignored.
func (c *RenderContext) WithOptions(opts *RenderOptions) *RenderContext {
	if opts != nil {
		c.Options = opts
	}
	return c
}

// WithPages sets the known project pages.
func (c *RenderContext) WithPages(pages []Page) *RenderContext {
	c.Pages = pages
	return c
}

// WithAssets sets the known project assets.
func (c *RenderContext) WithAssets(assets []Asset) *RenderContext {
	c.Assets = assets
	return c
}

// WithCustomComponents sets the component registry.
func (c *RenderContext) WithCustomComponents(components []*Component) *RenderContext {
	c.CustomComponents = components
	return c
}

// WithFileContext records which file is being compiled.
func (c *RenderContext) WithFileContext(fc FileContext) *RenderContext {
	c.File = &fc
	return c
}

// WithURLBase sets the base URI for relative link expansion. A trailing
// slash is dropped.
func (c *RenderContext) WithURLBase(base string) *RenderContext {
	b := strings.TrimRight(base, "/")
	c.RelativeURLBase = &b
	return c
}

// WithURLBaseByFsPath derives the relative-URL base from the filesystem
// path of the page being compiled.
//
// The page path is converted to a URI first and the base taken from that,
// rather than popping the filename and converting the directory. A folder
// name can end in something extension-shaped, e.g. `v1.0.2`, and a
// directory-first conversion would truncate it.
func (c *RenderContext) WithURLBaseByFsPath(fsPath string) *RenderContext {
	uri := FsToURIPath(fsPath)

	if path.Base(strings.ReplaceAll(fsPath, "\\", "/")) == "README.md" {
		// A README collapses into its directory during conversion, so
		// the URI already is the containing directory.
		c.RelativeURLBase = &uri
		return c
	}
	idx := strings.LastIndex(uri, "/")
	base := uri[:idx]
	c.RelativeURLBase = &base
	return c
}

// WithURLBaseByPageURI derives the relative-URL base from a page URI by
// dropping its last segment.
func (c *RenderContext) WithURLBaseByPageURI(pageURI string) *RenderContext {
	base := ""
	if idx := strings.LastIndex(pageURI, "/"); idx >= 0 {
		base = strings.TrimRight(pageURI[:idx], "/")
	}
	c.RelativeURLBase = &base
	return c
}

// ShouldExpandRelativeURIs reports whether relative links get expanded.
func (c *RenderContext) ShouldExpandRelativeURIs() bool {
	return c.RelativeURLBase != nil
}

// WithCacheBustTimestamp overrides the fallback cache-bust value.
func (c *RenderContext) WithCacheBustTimestamp(ts string) *RenderContext {
	c.CacheBustTimestamp = ts
	return c
}

// PageByURIPath returns the page served at the given URI, if any.
func (c *RenderContext) PageByURIPath(uri string) (Page, bool) {
	for _, p := range c.Pages {
		if p.URIPath == uri {
			return p, true
		}
	}
	return Page{}, false
}

// PageByFsPath returns the page stored at the given filesystem path.
func (c *RenderContext) PageByFsPath(fsPath string) (Page, bool) {
	for _, p := range c.Pages {
		if p.FsPath == fsPath {
			return p, true
		}
	}
	return Page{}, false
}

// AssetByPath returns the asset whose URI path matches uri.
func (c *RenderContext) AssetByPath(uri string) (Asset, bool) {
	for _, a := range c.Assets {
		if a.URIPath() == uri || a.Path == strings.TrimPrefix(uri, "/") {
			return a, true
		}
	}
	return Asset{}, false
}

// ComponentByTitle returns the custom component with the given title.
func (c *RenderContext) ComponentByTitle(title string) (*Component, bool) {
	for _, comp := range c.CustomComponents {
		if comp.Title == title {
			return comp, true
		}
	}
	return nil, false
}

// IsComponentFile reports whether the given filesystem path is one of the
// registered custom component templates. Slot elements are only legal
// inside these files.
func (c *RenderContext) IsComponentFile(fsPath string) bool {
	for _, comp := range c.CustomComponents {
		if comp.FilePath != "" && comp.FilePath == fsPath {
			return true
		}
	}
	return false
}
