package pipeline

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// DefaultTOCTitle is the heading shown above a generated table of contents.
const DefaultTOCTitle = "📑 Table of Contents"

// emptyTOC replaces a [TOC] marker when the document has no eligible headings.
const emptyTOC = `<p><em>No headings found for Table of Contents.</em></p>`

// tocHeadingPattern matches level 2-4 headings in normalized source text.
// Level 1 is the post title and never appears in the table of contents.
var tocHeadingPattern = regexp.MustCompile(`(?m)^(#{2,4}) (.+)$`)

// TOCEntry is one table of contents line.
type TOCEntry struct {
	Level int    // 2-4
	Text  string // raw heading text
	Slug  string // anchor id, same as the rendered heading id
}

// ExtractTOC scans normalized markdown for level 2-4 headings in document
// order. The scan is literal: heading-like lines inside fenced code are
// listed too.
func ExtractTOC(markdown string) []TOCEntry {
	matches := tocHeadingPattern.FindAllStringSubmatch(markdown, -1)
	if len(matches) == 0 {
		return nil
	}

	entries := make([]TOCEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, TOCEntry{
			Level: len(m[1]),
			Text:  m[2],
			Slug:  Slugify(m[2]),
		})
	}
	return entries
}

// GenerateTOC renders entries as the toc block. An empty title falls back to
// DefaultTOCTitle. Entry text is emitted as written in the source.
func GenerateTOC(entries []TOCEntry, title string) string {
	if len(entries) == 0 {
		return emptyTOC
	}
	if title == "" {
		title = DefaultTOCTitle
	}

	var sb strings.Builder
	sb.WriteString(`<div class="toc"><div class="toc-title">`)
	sb.WriteString(html.EscapeString(title))
	sb.WriteString(`</div><ul>`)
	for _, e := range entries {
		fmt.Fprintf(&sb, `<li class="toc-h%d"><a href="#%s">%s</a></li>`, e.Level, e.Slug, e.Text)
	}
	sb.WriteString(`</ul></div>`)
	return sb.String()
}
