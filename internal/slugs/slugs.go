// Package slugs turns arbitrary text into URL-safe path segments. It backs
// filesystem-to-URI path conversion; heading anchors use a separate
// GFM-style algorithm in the interpreter.
package slugs

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent decomposes characters and strips combining marks, so that
// "Exämplé" becomes "Example" before the ASCII filter runs.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatures covers characters that decomposition alone cannot reduce to
// ASCII. Case is preserved, matching the rest of the algorithm.
var ligatures = strings.NewReplacer(
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ß", "ss",
	"đ", "d", "Đ", "D",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
	"ł", "l", "Ł", "L",
	"ħ", "h", "Ħ", "H",
)

// Slugify converts text into a hyphen-separated slug. Case is NOT folded:
// URL paths on this platform are case-sensitive and existing projects rely
// on that. Accented characters are transliterated; `.`, `_` and `~` pass
// through; anything else becomes a hyphen and runs of hyphens collapse.
// The result never starts or ends with a hyphen.
func Slugify(text string) string {
	text = ligatures.Replace(text)
	if out, _, err := transform.String(deaccent, text); err == nil {
		text = out
	}

	var b strings.Builder
	b.Grow(len(text))
	// Starts true to avoid a leading hyphen.
	prevDash := true
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '~':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
