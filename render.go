package mdpost

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-mdpost/internal/pipeline"
)

// Render engines.
const (
	EngineEditor = "editor" // line-oriented editor dialect
	EngineGFM    = "gfm"    // CommonMark + GFM via goldmark
)

// DefaultTOCTitle is the title written above a generated table of contents.
const DefaultTOCTitle = pipeline.DefaultTOCTitle

// Input is the content of one render.
type Input struct {
	Markdown string
	Images   []ImageAsset // resolution table, in attachment order
}

// Renderer converts markdown to HTML fragments. It is stateless between
// calls and safe for concurrent use.
type Renderer struct {
	engine         string
	tocTitle       string
	highlight      bool
	highlightStyle string
	converter      pipeline.HTMLConverter
}

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithEngine selects the render engine (EngineEditor or EngineGFM).
func WithEngine(engine string) RenderOption {
	return func(r *Renderer) {
		r.engine = strings.ToLower(engine)
	}
}

// WithTOCTitle sets the title of the table of contents. Empty keeps the default.
func WithTOCTitle(title string) RenderOption {
	return func(r *Renderer) {
		r.tocTitle = title
	}
}

// WithHighlight enables chroma syntax highlighting of fenced code, using
// the named chroma style (empty for the chroma fallback style).
func WithHighlight(style string) RenderOption {
	return func(r *Renderer) {
		r.highlight = true
		r.highlightStyle = style
	}
}

// NewRenderer creates a Renderer. The editor engine is used unless
// WithEngine selects another one.
func NewRenderer(opts ...RenderOption) (*Renderer, error) {
	r := &Renderer{engine: EngineEditor}
	for _, opt := range opts {
		opt(r)
	}

	pipeOpts := pipeline.Options{
		TOCTitle:       r.tocTitle,
		Highlight:      r.highlight,
		HighlightStyle: r.highlightStyle,
	}

	switch r.engine {
	case EngineEditor, "":
		r.engine = EngineEditor
		r.converter = pipeline.NewEditorConverter(pipeOpts)
	case EngineGFM:
		r.converter = pipeline.NewGoldmarkConverter(pipeOpts)
	default:
		return nil, fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidEngine, r.engine, EngineEditor, EngineGFM)
	}
	return r, nil
}

// Engine returns the engine name.
func (r *Renderer) Engine() string {
	return r.engine
}

// Render converts in.Markdown to an HTML fragment. Image references are
// resolved against in.Images. Malformed markdown never fails: problems are
// reported as warnings. Only context cancellation returns an error.
func (r *Renderer) Render(ctx context.Context, in Input) (*RenderResult, error) {
	res, err := r.converter.ToHTML(ctx, in.Markdown, toPipelineImages(in.Images))
	if err != nil {
		return nil, err
	}
	return fromPipelineResult(res), nil
}

// HighlightCSS returns the stylesheet for highlighted code, or "" when
// highlighting is disabled.
func (r *Renderer) HighlightCSS() (string, error) {
	if !r.highlight {
		return "", nil
	}
	return pipeline.NewCodeHighlighter(r.highlightStyle).CSS()
}

var defaultRenderer = &Renderer{
	engine:    EngineEditor,
	converter: pipeline.NewEditorConverter(pipeline.Options{}),
}

// Render converts markdown with the editor engine and default options.
// Identical inputs always produce identical output.
func Render(markdown string, images []ImageAsset) (string, []Warning) {
	// The editor engine only fails on cancellation.
	res, err := defaultRenderer.Render(context.Background(), Input{Markdown: markdown, Images: images})
	if err != nil {
		return "", nil
	}
	return res.HTML, res.Warnings
}

func toPipelineImages(images []ImageAsset) []pipeline.Image {
	if len(images) == 0 {
		return nil
	}
	out := make([]pipeline.Image, len(images))
	for i, img := range images {
		out[i] = pipeline.Image{ID: img.ID, Name: img.Name, Source: img.DataURL()}
	}
	return out
}

func fromPipelineResult(res *pipeline.Result) *RenderResult {
	out := &RenderResult{HTML: res.HTML}
	if len(res.TOC) > 0 {
		out.TOC = make([]TocEntry, len(res.TOC))
		for i, e := range res.TOC {
			out.TOC[i] = TocEntry{Level: e.Level, Text: e.Text, Slug: e.Slug}
		}
	}
	if len(res.Warnings) > 0 {
		out.Warnings = make([]Warning, len(res.Warnings))
		for i, w := range res.Warnings {
			out.Warnings[i] = Warning{Line: w.Line, Message: w.Message}
		}
	}
	return out
}
