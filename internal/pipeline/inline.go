package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Inline patterns, applied in this order.
var (
	imagePattern       = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)(\{header\})?`)
	linkPattern        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	codeSpanPattern    = regexp.MustCompile("`([^`]+)`")
	strongStarPattern  = regexp.MustCompile(`\*\*(.+?)\*\*`)
	strongUnderPattern = regexp.MustCompile(`__(.+?)__`)
	emStarPattern      = regexp.MustCompile(`\*(.+?)\*`)
	emUnderPattern     = regexp.MustCompile(`_(.+?)_`)
	strikePattern      = regexp.MustCompile(`~~(.+?)~~`)
	placeholderPattern = regexp.MustCompile("\uE000(\\d+)\uE001")
)

// inlineRenderer resolves inline syntax for one block. Every tag it emits is
// stored as a fragment and replaced by a placeholder, so later stages only
// ever see the author's text.
type inlineRenderer struct {
	images    []Image
	fragments []string
	nesting   []int // +1 opening tag, -1 closing tag, 0 self-contained
	warn      func(msg string)
}

func newInlineRenderer(images []Image, warn func(msg string)) *inlineRenderer {
	return &inlineRenderer{images: images, warn: warn}
}

// render resolves images, links, code spans, strong, emphasis and
// strikethrough in text and returns the final markup.
func (r *inlineRenderer) render(text string) string {
	r.fragments = r.fragments[:0]
	r.nesting = r.nesting[:0]

	text = replaceSubmatches(imagePattern, text, r.image)
	text = replaceSubmatches(linkPattern, text, r.link)
	text = replaceSubmatches(codeSpanPattern, text, r.codeSpan)
	text = r.wrap(text, strongStarPattern, "strong")
	text = r.wrap(text, strongUnderPattern, "strong")
	text = r.wrap(text, emStarPattern, "em")
	text = r.wrap(text, emUnderPattern, "em")
	text = r.wrap(text, strikePattern, "del")

	return r.restore(text)
}

func (r *inlineRenderer) image(groups []string) string {
	alt, ref := groups[1], groups[2]

	src := ref
	if img, ok := lookupImage(r.images, ref); ok {
		src = img.Source
	} else if isBareName(ref) && r.warn != nil {
		r.warn(fmt.Sprintf("unresolved image reference %q", ref))
	}

	var sb strings.Builder
	sb.WriteString(`<img src="`)
	sb.WriteString(src)
	sb.WriteString(`" alt="`)
	sb.WriteString(alt)
	sb.WriteString(`"`)
	if groups[3] != "" {
		sb.WriteString(` class="header-image"`)
	}
	sb.WriteString(`>`)
	return r.protect(sb.String())
}

// link keeps the link text open to later stages; the href is protected.
func (r *inlineRenderer) link(groups []string) string {
	open := `<a href="` + groups[2] + `" target="_blank" rel="noopener">`
	return r.protectTag(open, 1) + groups[1] + r.protectTag("</a>", -1)
}

func (r *inlineRenderer) codeSpan(groups []string) string {
	return r.protect("<code>" + groups[1] + "</code>")
}

// wrap encloses every match of re in tag. A match whose content opens or
// closes an element without the other half is left as typed, so tags
// never cross a link boundary.
func (r *inlineRenderer) wrap(text string, re *regexp.Regexp, tag string) string {
	return replaceSubmatches(re, text, func(groups []string) string {
		if !r.balanced(groups[1]) {
			return groups[0]
		}
		return r.protectTag("<"+tag+">", 1) + groups[1] + r.protectTag("</"+tag+">", -1)
	})
}

// balanced reports whether the tag fragments referenced in text pair up.
func (r *inlineRenderer) balanced(text string) bool {
	depth := 0
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx >= len(r.nesting) {
			continue
		}
		depth += r.nesting[idx]
		if depth < 0 {
			return false
		}
	}
	return depth == 0
}

// protect stores a self-contained fragment and returns its placeholder.
func (r *inlineRenderer) protect(fragment string) string {
	return r.protectTag(fragment, 0)
}

// protectTag stores a fragment that opens (+1) or closes (-1) an element.
func (r *inlineRenderer) protectTag(fragment string, nesting int) string {
	r.fragments = append(r.fragments, fragment)
	r.nesting = append(r.nesting, nesting)
	return placeholderStart + strconv.Itoa(len(r.fragments)-1) + placeholderEnd
}

// restore expands placeholders. Fragments may contain placeholders of
// earlier fragments (a link inside a code span), so expansion recurses.
func (r *inlineRenderer) restore(text string) string {
	if !strings.Contains(text, placeholderStart) {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		idx, err := strconv.Atoi(m[len(placeholderStart) : len(m)-len(placeholderEnd)])
		if err != nil || idx < 0 || idx >= len(r.fragments) {
			return ""
		}
		return r.restore(r.fragments[idx])
	})
}

// replaceSubmatches replaces every match of re in s with fn(groups).
// Unmatched optional groups are passed as "".
func replaceSubmatches(re *regexp.Regexp, s string, fn func(groups []string) string) string {
	indexes := re.FindAllStringSubmatchIndex(s, -1)
	if indexes == nil {
		return s
	}

	var sb strings.Builder
	last := 0
	for _, loc := range indexes {
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = s[loc[2*g]:loc[2*g+1]]
			}
		}
		sb.WriteString(s[last:loc[0]])
		sb.WriteString(fn(groups))
		last = loc[1]
	}
	sb.WriteString(s[last:])
	return sb.String()
}
