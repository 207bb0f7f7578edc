package interp

import (
	"fmt"
	"regexp"
	"strings"
)

// anchorDisallowed matches every character GitHub strips when turning a
// heading into an anchor: anything that is not a letter, mark, number,
// connector punctuation, space or dash.
var anchorDisallowed = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\p{Pc} -]`)

// anchorizer produces GitHub-style heading slugs, deduplicating repeats
// with -1, -2 suffixes across one document.
type anchorizer struct {
	seen map[string]struct{}
}

func newAnchorizer() *anchorizer {
	return &anchorizer{seen: map[string]struct{}{}}
}

func (a *anchorizer) anchorize(text string) string {
	slug := strings.ToLower(text)
	slug = anchorDisallowed.ReplaceAllString(slug, "")
	slug = strings.ReplaceAll(slug, " ", "-")

	candidate := slug
	for i := 1; ; i++ {
		if _, taken := a.seen[candidate]; !taken {
			a.seen[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}
