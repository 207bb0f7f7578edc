package markdown

import "strings"

// ExtractLinksPermissive scans a document for link targets with a plain
// line scanner instead of the real parser. It is the fallback for tooling
// that still wants a link graph out of a document the compiler rejects:
// fenced and indented code is skipped, inline code spans are stripped, and
// inline links, images and reference definitions are collected as written.
// Targets containing whitespace are discarded as malformed.
func ExtractLinksPermissive(input string) []string {
	inCodeBlock := false
	activeFence := ""

	var out []string
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock, activeFence = toggleFence(inCodeBlock, activeFence, "```")
			continue
		}
		if strings.HasPrefix(trimmed, "~~~") {
			inCodeBlock, activeFence = toggleFence(inCodeBlock, activeFence, "~~~")
			continue
		}
		if inCodeBlock || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		clean := stripInlineCodeSpans(line)
		out = append(out, inlineTargets(clean)...)
		if target, ok := referenceDefinitionTarget(clean); ok {
			out = append(out, target)
		}
	}
	return out
}

func toggleFence(inCodeBlock bool, activeFence, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}

func stripInlineCodeSpans(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '`' {
			out.WriteByte(s[i])
			i++
			continue
		}
		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}
		marker := strings.Repeat("`", run)
		closeRel := strings.Index(s[i+run:], marker)
		if closeRel == -1 {
			// Unclosed span; keep the backticks and continue.
			out.WriteString(marker)
			i += run
			continue
		}
		i = i + run + closeRel + run
	}
	return out.String()
}

// inlineTargets finds `](target)` sequences, covering both links and
// images.
func inlineTargets(line string) []string {
	var out []string
	for i := 0; i+1 < len(line); i++ {
		if line[i] != ']' || line[i+1] != '(' {
			continue
		}
		end := strings.Index(line[i+2:], ")")
		if end == -1 {
			continue
		}
		target := line[i+2 : i+2+end]
		if target != "" && !strings.ContainsAny(target, " \t") {
			out = append(out, target)
		}
	}
	return out
}

// referenceDefinitionTarget parses a `[label]: target "title"` line.
// Footnote definitions are not links.
func referenceDefinitionTarget(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "[^") {
		return "", false
	}
	_, after, ok := strings.Cut(trimmed, "]:")
	if !ok {
		return "", false
	}
	target := strings.TrimSpace(after)
	if before, _, ok := strings.Cut(target, " \""); ok {
		target = before
	} else if before, _, ok := strings.Cut(target, " '"); ok {
		target = before
	}
	target = strings.TrimSpace(target)
	if target == "" || strings.ContainsAny(target, " \t") {
		return "", false
	}
	return target, true
}
