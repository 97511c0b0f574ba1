package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// codeEscaper escapes fenced code content.
var codeEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// rawHTMLLine matches source lines the author started with an HTML tag.
var rawHTMLLine = regexp.MustCompile(`^<[a-z/]`)

// imageOnlyLine matches a line holding a single image and nothing else.
var imageOnlyLine = regexp.MustCompile(`^!\[[^\]]*\]\([^)]+\)(\{header\})?$`)

// EditorConverter renders the editor dialect: a line classifier followed by
// one grouping pass. It holds no per-call state and is safe for concurrent
// use.
type EditorConverter struct {
	tocTitle    string
	highlighter *CodeHighlighter
}

// NewEditorConverter creates an EditorConverter.
func NewEditorConverter(opts Options) *EditorConverter {
	c := &EditorConverter{tocTitle: opts.TOCTitle}
	if opts.Highlight {
		c.highlighter = NewCodeHighlighter(opts.HighlightStyle)
	}
	return c
}

// ToHTML renders content against the image table. Malformed markdown never
// produces an error; the only error is a canceled context.
func (c *EditorConverter) ToHTML(ctx context.Context, content string, images []Image) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content = NormalizeMarkdown(content)
	blocks, warnings := lexBlocks(content)

	r := &editorRun{
		conv:     c,
		source:   content,
		warnings: warnings,
	}
	r.inline = newInlineRenderer(images, r.warn)

	html := r.emit(blocks)

	return &Result{
		HTML:     html,
		TOC:      ExtractTOC(content),
		Warnings: r.warnings,
	}, nil
}

// editorRun holds the state of a single ToHTML call.
type editorRun struct {
	conv     *EditorConverter
	source   string
	inline   *inlineRenderer
	line     int
	warnings []Warning
	toc      string
	tocBuilt bool
}

func (r *editorRun) warn(msg string) {
	r.warnings = append(r.warnings, Warning{Line: r.line, Message: msg})
}

// emit groups adjacent blocks and renders them, joined with newlines.
func (r *editorRun) emit(blocks []block) string {
	out := make([]string, 0, len(blocks))

	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		r.line = b.line

		switch b.kind {
		case blockBlank:
			continue
		case blockQuote, blockTask, blockItem, blockOrderedItem:
			j := i
			for j+1 < len(blocks) && blocks[j+1].kind == b.kind {
				j++
			}
			out = append(out, r.group(blocks[i:j+1]))
			i = j
		default:
			out = append(out, r.single(b))
		}
	}

	return strings.Join(out, "\n")
}

// group renders a run of quote lines or list items of one kind.
func (r *editorRun) group(run []block) string {
	var sb strings.Builder

	switch run[0].kind {
	case blockQuote:
		sb.WriteString("<blockquote>")
		for k, b := range run {
			r.line = b.line
			if k > 0 {
				sb.WriteString("<br>")
			}
			sb.WriteString(r.inline.render(b.text))
		}
		sb.WriteString("</blockquote>")
		return sb.String()
	case blockTask:
		sb.WriteString(`<ul class="task-list">`)
	case blockItem:
		sb.WriteString("<ul>")
	case blockOrderedItem:
		sb.WriteString("<ol>")
	}

	for _, b := range run {
		r.line = b.line
		switch b.kind {
		case blockTask:
			sb.WriteString(`<li class="task-item"><input type="checkbox"`)
			if b.checked {
				sb.WriteString(" checked")
			}
			sb.WriteString(" disabled> ")
			sb.WriteString(r.inline.render(b.text))
			sb.WriteString("</li>")
		default:
			sb.WriteString("<li>")
			sb.WriteString(r.inline.render(b.text))
			sb.WriteString("</li>")
		}
	}

	if run[0].kind == blockOrderedItem {
		sb.WriteString("</ol>")
	} else {
		sb.WriteString("</ul>")
	}
	return sb.String()
}

// single renders a block that never groups with its neighbors.
func (r *editorRun) single(b block) string {
	switch b.kind {
	case blockCode:
		return r.code(b)
	case blockTOC:
		return r.tableOfContents()
	case blockTable:
		return r.table(b)
	case blockRule:
		return "<hr>"
	case blockHeading:
		return fmt.Sprintf(`<h%d id="%s">%s</h%d>`, b.level, Slugify(b.text), r.inline.render(b.text), b.level)
	default:
		return r.paragraph(b)
	}
}

func (r *editorRun) code(b block) string {
	lang := b.lang
	if lang == "" {
		lang = "text"
	}

	body := ""
	if r.conv.highlighter != nil && b.lang != "" {
		if highlighted, ok := r.conv.highlighter.Highlight(b.lang, b.code); ok {
			body = highlighted
		}
	}
	if body == "" {
		body = codeEscaper.Replace(b.code)
	}

	return `<pre><code class="language-` + lang + `">` + body + `</code></pre>`
}

// tableOfContents builds the toc block once per run; every [TOC] marker
// receives the same markup.
func (r *editorRun) tableOfContents() string {
	if !r.tocBuilt {
		r.toc = GenerateTOC(ExtractTOC(r.source), r.conv.tocTitle)
		r.tocBuilt = true
	}
	return r.toc
}

func (r *editorRun) table(b block) string {
	var sb strings.Builder
	sb.WriteString("<table><thead><tr>")
	for _, cell := range b.rows[0] {
		sb.WriteString("<th>")
		sb.WriteString(r.inline.render(cell))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr></thead><tbody>")
	for k, row := range b.rows[1:] {
		r.line = b.line + 2 + k
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>")
			sb.WriteString(r.inline.render(cell))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

// paragraph wraps a line in <p> unless it is a lone image or the author
// wrote raw HTML.
func (r *editorRun) paragraph(b block) string {
	rendered := r.inline.render(b.text)
	if rawHTMLLine.MatchString(b.text) || imageOnlyLine.MatchString(strings.TrimSpace(b.text)) {
		return rendered
	}
	return "<p>" + rendered + "</p>"
}
