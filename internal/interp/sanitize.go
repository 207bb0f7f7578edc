package interp

import (
	"net/url"
	"strings"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/content"
)

// htmlBlock renders a raw HTML element: attribute expressions are
// evaluated down to literals, then the element is run through the
// sanitizer. Disallowed elements are dropped entirely, disallowed
// attributes silently removed.
func (in *Interpreter) htmlBlock(n *content.Node) (*ast.Node, *docapella.Error) {
	attrs, err := in.evaluateHTMLAttributes(n.Attributes, n.Pos)
	if err != nil {
		return nil, err
	}
	sanitized, ok := sanitizeElement(n.Name, attrs)
	if !ok {
		return nil, nil
	}
	children, err := in.renderChildren(n.Children)
	if err != nil {
		return nil, err
	}
	node := ast.NewNode(ast.KindHTMLBlock, n.Pos).Append(children...)
	node.Name = n.Name
	node.Attributes = sanitized
	return node, nil
}

// allowedTags is the set of HTML elements that survive sanitization.
var allowedTags = tagSet(
	"a", "abbr", "acronym", "area", "article", "aside", "b", "bdi", "bdo",
	"blockquote", "br", "caption", "center", "cite", "code", "col",
	"colgroup", "data", "dd", "del", "details", "dfn", "div", "dl", "dt",
	"em", "figcaption", "figure", "footer", "h1", "h2", "h3", "h4", "h5",
	"h6", "header", "hgroup", "hr", "i", "img", "ins", "kbd", "li", "map",
	"mark", "nav", "ol", "p", "pre", "q", "rp", "rt", "rtc", "ruby", "s",
	"samp", "small", "span", "strike", "strong", "sub", "summary", "sup",
	"table", "tbody", "td", "th", "thead", "time", "tfoot", "tr", "tt",
	"u", "ul", "var", "wbr",
	// Interactive additions beyond the usual allowlist.
	"iframe", "input", "fieldset", "label", "button", "template", "select",
)

// tagAttributes lists the element-specific attributes each tag may carry.
var tagAttributes = map[string][]string{
	"a":          {"href", "hreflang", "target", "download"},
	"bdo":        {"dir"},
	"blockquote": {"cite"},
	"col":        {"align", "char", "charoff", "span"},
	"colgroup":   {"align", "char", "charoff", "span"},
	"del":        {"cite", "datetime"},
	"fieldset":   {"class", "name"},
	"hr":         {"align", "size", "width"},
	"iframe":     {"src", "allowfullscreen", "scrolling", "width", "height"},
	"img":        {"align", "alt", "height", "src", "width"},
	"input":      {"type", "id", "name", "checked", "value", "disabled"},
	"ins":        {"cite", "datetime"},
	"label":      {"for"},
	"ol":         {"start"},
	"q":          {"cite"},
	"table":      {"align", "char", "charoff", "summary"},
	"tbody":      {"align", "char", "charoff"},
	"td":         {"align", "char", "charoff", "colspan", "headers", "rowspan"},
	"tfoot":      {"align", "char", "charoff"},
	"th":         {"align", "char", "charoff", "colspan", "headers", "rowspan", "scope"},
	"thead":      {"align", "char", "charoff"},
	"tr":         {"align", "char", "charoff"},
}

// genericAttributes may appear on any allowed element. The conditional
// keys are included so sanitization before conditional folding cannot
// strip control flow off an element.
var genericAttributes = tagSet(
	"lang", "title", "class", "id", "style", "dir", "tabindex", "role",
	"hidden", "type", "if", "else", "elseif",
)

var genericAttributePrefixes = []string{"data-", "aria-"}

// allowedURLSchemes bounds what src and href may point at.
var allowedURLSchemes = tagSet(
	"bitcoin", "ftp", "ftps", "geo", "http", "https", "im", "irc", "ircs",
	"magnet", "mailto", "mms", "mx", "news", "nntp", "openpgp4fpr", "sip",
	"sms", "smsto", "ssh", "tel", "url", "webcal", "wtai", "xmpp", "asset",
)

// allowedIframeHosts pairs an embeddable host with the path prefix its
// embed URLs live under.
var allowedIframeHosts = []struct {
	host       string
	pathPrefix string
}{
	{"www.openstreetmap.org", "/export/"},
	{"youtube.com", "/embed/"},
	{"www.youtube.com", "/embed/"},
	{"loom.com", "/embed/"},
	{"www.loom.com", "/embed/"},
	{"embed.api.video", "/vod/"},
}

func tagSet(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

// sanitizeElement filters an element against the allowlists. The second
// return is false when the tag itself is disallowed and the whole element
// should be dropped.
func sanitizeElement(name string, attrs []ast.Attribute) ([]ast.Attribute, bool) {
	tag := strings.ToLower(name)
	if _, ok := allowedTags[tag]; !ok {
		return nil, false
	}
	out := make([]ast.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if retainAttribute(tag, a) {
			out = append(out, a)
		}
	}
	return out, true
}

func retainAttribute(tag string, a ast.Attribute) bool {
	key := strings.ToLower(a.Key)
	if !attributeKeyAllowed(tag, key) {
		return false
	}
	value := ""
	if a.Value != nil {
		value = a.Value.Text
	}

	switch {
	case tag == "iframe" && key == "src":
		return allowedIframeSrc(value)
	case tag == "input" && key == "type":
		return value == "radio" || value == "checkbox"
	case key == "src" || key == "href":
		// Relative URLs carry no scheme and pass as-is.
		if u, err := url.Parse(value); err == nil && u.Scheme != "" {
			_, ok := allowedURLSchemes[strings.ToLower(u.Scheme)]
			return ok
		}
	}
	return true
}

func attributeKeyAllowed(tag, key string) bool {
	for _, allowed := range tagAttributes[tag] {
		if key == allowed {
			return true
		}
	}
	if _, ok := genericAttributes[key]; ok {
		return true
	}
	for _, prefix := range genericAttributePrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func allowedIframeSrc(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	for _, h := range allowedIframeHosts {
		if u.Host == h.host && strings.HasPrefix(u.Path, h.pathPrefix) {
			return true
		}
	}
	return false
}
