package docapella

// RenderOptions controls URL handling and output details for a single
// compilation. The zero value renders with no URL rewriting at all, which
// is what previews and tests want.
type RenderOptions struct {
	// BustImageCaches appends a cache-busting query parameter to internal
	// image URLs, derived from the asset's content signature when known.
	BustImageCaches bool `yaml:"bust_image_caches"`

	// WebbifyInternalURLs converts .md links to their web equivalents.
	// Cannot be combined with FsifyInternalURLs.
	WebbifyInternalURLs bool `yaml:"webbify_internal_urls"`

	// FsifyInternalURLs rewrites internal URLs as filesystem paths in the
	// project, e.g. /foo/bar becomes /foo/bar.md (or /foo/bar/README.md).
	// Cannot be combined with WebbifyInternalURLs.
	FsifyInternalURLs bool `yaml:"fsify_internal_urls"`

	// DisableSyntaxHighlighting leaves code blocks unstyled.
	DisableSyntaxHighlighting bool `yaml:"disable_syntax_highlighting"`

	// LinkRewrites maps exact URL strings to replacements. Matches are
	// checked after relative-URL expansion and take precedence over every
	// other transform.
	LinkRewrites map[string]string `yaml:"link_rewrites"`

	// PrefixAssetURLs is prepended to internal /_assets/ URLs.
	PrefixAssetURLs string `yaml:"prefix_asset_urls"`

	// PrefixLinkURLs is prepended to internal page URLs that no rewrite
	// matched.
	PrefixLinkURLs string `yaml:"prefix_link_urls"`

	// UserPreferences is exposed to template expressions as the
	// user_preferences object.
	UserPreferences map[string]string `yaml:"user_preferences"`

	// DownloadURLPrefix is prepended to URLs in elements carrying a
	// download attribute.
	DownloadURLPrefix string `yaml:"download_url_prefix"`
}
