package mdpost

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/alnah/go-mdpost/internal/export"
)

// Supported image media types.
const (
	MediaTypePNG  = export.MediaTypePNG
	MediaTypeJPEG = export.MediaTypeJPEG
	MediaTypeGIF  = export.MediaTypeGIF
	MediaTypeWebP = export.MediaTypeWebP
	MediaTypeSVG  = export.MediaTypeSVG
	MediaTypeBMP  = export.MediaTypeBMP
)

// SupportedMediaTypes lists the media types Attach accepts.
func SupportedMediaTypes() []string {
	return export.SupportedMediaTypes()
}

// ImageAsset is one attached image. ID is unique within its session and is
// never reused; Name is the token markdown refers to and need not be unique.
type ImageAsset struct {
	ID        string
	Name      string
	MediaType string
	Content   []byte
}

// DataURL returns the asset as a base64 data URI, the form the renderer
// substitutes for references to it.
func (a ImageAsset) DataURL() string {
	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(a.MediaType) + base64.StdEncoding.EncodedLen(len(a.Content)))
	sb.WriteString("data:")
	sb.WriteString(a.MediaType)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(a.Content))
	return sb.String()
}

// TocEntry is one heading collected for the table of contents.
type TocEntry struct {
	Level int    // 2 to 4
	Text  string // raw heading text
	Slug  string // anchor id
}

// Warning reports a recoverable problem found while rendering.
// Line is 1-based, 0 when the warning is not tied to a line.
type Warning struct {
	Line    int
	Message string
}

// String formats the warning as "line N: message".
func (w Warning) String() string {
	if w.Line == 0 {
		return w.Message
	}
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// RenderResult is the output of a render.
type RenderResult struct {
	HTML     string // HTML fragment
	TOC      []TocEntry
	Warnings []Warning
}

// ExportFile is one image of an export manifest.
type ExportFile struct {
	Name    string // filename inside ExportResult.ImageDir
	ImageID string
	Content []byte
}

// ExportResult is a post ready to be bundled.
type ExportResult struct {
	BaseName string       // sanitized base filename, without extension
	ImageDir string       // BaseName + "-images"
	Markdown string       // markdown with image references rewritten
	Files    []ExportFile // in attachment order
	Warnings []string     // export filename collisions
}

// MarkdownName returns the filename of the exported markdown document.
func (r *ExportResult) MarkdownName() string {
	return r.BaseName + ".md"
}

// ImagePath returns the path of f relative to the markdown document.
func (r *ExportResult) ImagePath(f ExportFile) string {
	return r.ImageDir + "/" + f.Name
}
