package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// CodeHighlighter tokenizes fenced code with chroma and emits classed spans.
// Token text is escaped by the formatter.
type CodeHighlighter struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewCodeHighlighter creates a highlighter for the named chroma style.
// Unknown names use the chroma fallback style.
func NewCodeHighlighter(styleName string) *CodeHighlighter {
	return &CodeHighlighter{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		style: styles.Get(styleName),
	}
}

// Highlight returns the highlighted markup for code, or false when no lexer
// is registered for lang or tokenizing fails.
func (h *CodeHighlighter) Highlight(lang, code string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var sb strings.Builder
	if err := h.formatter.Format(&sb, h.style, iterator); err != nil {
		return "", false
	}
	return sb.String(), true
}

// CSS returns the stylesheet for the highlighter's classes.
func (h *CodeHighlighter) CSS() (string, error) {
	var sb strings.Builder
	if err := h.formatter.WriteCSS(&sb, h.style); err != nil {
		return "", err
	}
	return sb.String(), nil
}
