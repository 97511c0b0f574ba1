package pipeline

import (
	"context"
	"errors"
	"strings"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Image is an entry of the image table a document is rendered against.
type Image struct {
	ID     string
	Name   string
	Source string // value written to img[src], usually a data URI
}

// Warning reports a recoverable problem found while rendering.
// Line is 1-based, 0 when the warning is not tied to a line.
type Warning struct {
	Line    int
	Message string
}

// Result is the output of one conversion.
type Result struct {
	HTML     string
	TOC      []TOCEntry
	Warnings []Warning
}

// Options configures a converter.
type Options struct {
	TOCTitle       string // empty uses DefaultTOCTitle
	Highlight      bool   // tokenize fenced code with chroma
	HighlightStyle string // chroma style name, empty uses the chroma fallback
}

// HTMLConverter abstracts markdown to HTML fragment conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string, images []Image) (*Result, error)
}

// Compile-time interface checks.
var (
	_ HTMLConverter = (*EditorConverter)(nil)
	_ HTMLConverter = (*GoldmarkConverter)(nil)
)

// lookupImage returns the first image, in table order, whose Name or ID
// equals ref.
func lookupImage(images []Image, ref string) (Image, bool) {
	for _, img := range images {
		if img.Name == ref || img.ID == ref {
			return img, true
		}
	}
	return Image{}, false
}

// isBareName reports whether ref looks like an attachment name rather than
// a path or URL: no scheme, no path separator, no anchor.
func isBareName(ref string) bool {
	if ref == "" {
		return false
	}
	if strings.ContainsAny(ref, `/\#`) {
		return false
	}
	return !strings.Contains(ref, ":")
}
