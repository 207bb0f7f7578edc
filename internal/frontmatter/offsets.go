package frontmatter

import "bytes"

// BodyOffset returns the byte offset at which the Markdown body begins,
// i.e. the length of the frontmatter block including both delimiters. Zero
// when the document has no frontmatter or it is malformed.
func BodyOffset(content []byte) int {
	_, body, had, err := Split(content)
	if err != nil || !had {
		return 0
	}
	// body is a suffix sub-slice of content.
	return len(content) - len(body)
}

// Body returns the Markdown body with any frontmatter stripped. Malformed
// frontmatter is left in place so the parser can report it.
func Body(content []byte) []byte {
	_, body, had, err := Split(content)
	if err != nil || !had {
		return content
	}
	return body
}

// LineOffset returns how many source lines the frontmatter block occupies.
// Error positions produced against the stripped body get shifted by this
// much to point into the physical file.
func LineOffset(content []byte) int {
	return bytes.Count(content[:BodyOffset(content)], []byte("\n"))
}
