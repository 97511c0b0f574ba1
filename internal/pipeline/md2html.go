package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Per-conversion values handed to the AST transformer through parser.Context.
var (
	imageTableKey = parser.NewContextKey()
	warningsKey   = parser.NewContextKey()
)

// GoldmarkConverter converts markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md       goldmark.Markdown
	tocTitle string
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions,
// image table resolution and, when enabled, syntax highlighting.
func NewGoldmarkConverter(opts Options) *GoldmarkConverter {
	exts := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
	}
	if opts.Highlight {
		hlOpts := []highlighting.Option{
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // CSS classes for smaller HTML and external stylesheet control
			),
		}
		if opts.HighlightStyle != "" {
			hlOpts = append(hlOpts, highlighting.WithStyle(opts.HighlightStyle))
		}
		exts = append(exts, highlighting.NewHighlighting(hlOpts...))
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(&referenceTransformer{}, 100)),
		),
		// Note: WithUnsafe() intentionally NOT used. Raw HTML is omitted and
		// goldmark drops data URIs other than png, gif, jpeg and webp.
	)
	return &GoldmarkConverter{md: md, tocTitle: opts.TOCTitle}
}

// ToHTML converts markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string, images []Image) (*Result, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content = NormalizeMarkdown(content)

	type outcome struct {
		result *Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := c.convert(content, images)
		done <- outcome{result: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.result, o.err
	}
}

func (c *GoldmarkConverter) convert(content string, images []Image) (*Result, error) {
	marked, hasTOC := markTOCLines(content)

	var warnings []Warning
	pctx := parser.NewContext(parser.WithIDs(slugIDs{}))
	pctx.Set(imageTableKey, images)
	pctx.Set(warningsKey, &warnings)

	var buf bytes.Buffer
	if err := c.md.Convert([]byte(marked), &buf, parser.WithContext(pctx)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	entries := ExtractTOC(content)
	out := buf.String()
	if hasTOC {
		toc := GenerateTOC(entries, c.tocTitle)
		out = strings.ReplaceAll(out, "<p>"+tocPlaceholder+"</p>", toc)
		out = strings.ReplaceAll(out, tocPlaceholder, tocMarker)
	}

	return &Result{
		HTML:     strings.TrimRight(out, "\n"),
		TOC:      entries,
		Warnings: warnings,
	}, nil
}

// slugIDs assigns heading ids with Slugify so goldmark headings match the
// table of contents anchors. Colliding slugs are kept as-is.
type slugIDs struct{}

func (slugIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(Slugify(string(value)))
}

func (slugIDs) Put([]byte) {}

// referenceTransformer resolves image destinations against the image table
// and makes links open in a new tab.
type referenceTransformer struct{}

func (t *referenceTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	images, _ := pc.Get(imageTableKey).([]Image)
	warnings, _ := pc.Get(warningsKey).(*[]Warning)
	source := reader.Source()

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Image:
			ref := string(node.Destination)
			if img, ok := lookupImage(images, ref); ok {
				node.Destination = []byte(img.Source)
				if strings.HasPrefix(img.Source, "data:image/svg") || strings.HasPrefix(img.Source, "data:image/bmp") {
					addWarning(warnings, n, source, fmt.Sprintf("image %q uses a data URI this engine does not render", ref))
				}
			} else if isBareName(ref) {
				addWarning(warnings, n, source, fmt.Sprintf("unresolved image reference %q", ref))
			}
		case *ast.Link:
			node.SetAttributeString("target", []byte("_blank"))
			node.SetAttributeString("rel", []byte("noopener"))
		}
		return ast.WalkContinue, nil
	})
}

// addWarning records a warning at the line of the nearest block ancestor.
func addWarning(warnings *[]Warning, n ast.Node, source []byte, msg string) {
	if warnings == nil {
		return
	}
	*warnings = append(*warnings, Warning{Line: nodeLine(n, source), Message: msg})
}

// nodeLine returns the 1-based line of the first block ancestor of n, or 0.
// The blank lines markTOCLines adds around each toc placeholder are not
// counted.
func nodeLine(n ast.Node, source []byte) int {
	for p := n; p != nil; p = p.Parent() {
		if p.Type() != ast.TypeBlock {
			continue
		}
		lines := p.Lines()
		if lines == nil || lines.Len() == 0 {
			continue
		}
		before := source[:lines.At(0).Start]
		padding := 2 * bytes.Count(before, []byte(tocPlaceholder))
		return bytes.Count(before, []byte("\n")) - padding + 1
	}
	return 0
}
