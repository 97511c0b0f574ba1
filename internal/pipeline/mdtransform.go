package pipeline

import (
	"regexp"
	"strings"
)

// Placeholders use Unicode Private Use Area characters. They never appear in
// rendered output: input occurrences are stripped before rendering.
const (
	placeholderStart = "\uE000" // opens a protected inline fragment
	placeholderEnd   = "\uE001" // closes a protected inline fragment
	tocPlaceholder   = "\uE002" // marks a [TOC] line for the goldmark engine
)

// tocMarker is the line that requests a table of contents.
const tocMarker = "[TOC]"

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Private use runes reserved for placeholders
	reservedRunes = regexp.MustCompile("[\uE000-\uE002]")
)

// NormalizeMarkdown converts \r\n and \r to \n and strips the private use
// runes the renderers reserve for placeholders.
func NormalizeMarkdown(content string) string {
	content = normalizeLineEndings(content)
	if strings.ContainsAny(content, placeholderStart+placeholderEnd+tocPlaceholder) {
		content = reservedRunes.ReplaceAllString(content, "")
	}
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// markTOCLines replaces every line that is exactly [TOC] with the toc
// placeholder between blank lines, so it survives goldmark as a one-rune
// paragraph. Lines inside fenced code blocks are left alone.
func markTOCLines(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	found := false
	var fence string
	for i, line := range lines {
		if fence != "" {
			if closesFence(line, fence) {
				fence = ""
			}
			continue
		}
		if f := openingFence(line); f != "" {
			fence = f
			continue
		}
		if line == tocMarker {
			lines[i] = "\n" + tocPlaceholder + "\n"
			found = true
		}
	}
	if !found {
		return content, false
	}
	return strings.Join(lines, "\n"), true
}

// openingFence returns the backtick or tilde run opening a fenced code
// block on line, or "" when line opens none.
func openingFence(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || trimmed == "" {
		return ""
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return ""
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 || (c == '`' && strings.ContainsRune(trimmed[n:], '`')) {
		return ""
	}
	return trimmed[:n]
}

// closesFence reports whether line closes a block opened by fence.
func closesFence(line, fence string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	run := strings.TrimRight(trimmed, " \t")
	return len(run) >= len(fence) && strings.Trim(run, fence[:1]) == ""
}
