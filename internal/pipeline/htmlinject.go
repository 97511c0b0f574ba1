package pipeline

import (
	"context"
	"html"
	"strings"
)

// documentHead opens a standalone HTML5 document; the title and style block
// are written between documentHead and documentBody.
const (
	documentHead = "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<title>"
	documentBody = "</head>\n<body>\n<article class=\"post\">\n"
	documentEnd  = "\n</article>\n</body>\n</html>\n"
)

// WrapDocument wraps a rendered fragment in a standalone HTML5 document.
// An empty title becomes "Untitled".
func WrapDocument(fragment, title string) string {
	if title == "" {
		title = "Untitled"
	}

	var sb strings.Builder
	sb.Grow(len(documentHead) + len(title) + len(fragment) + 128)
	sb.WriteString(documentHead)
	sb.WriteString(html.EscapeString(title))
	sb.WriteString("</title>\n")
	sb.WriteString(documentBody)
	sb.WriteString(fragment)
	sb.WriteString(documentEnd)
	return sb.String()
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, falling back to the
// start of <body> and finally to the beginning of the content.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>\n"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.Index(htmlContent[idx:], ">"); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + styleBlock + htmlContent[pos:]
		}
	}
	return styleBlock + htmlContent
}

// sanitizeCSS escapes </ so the stylesheet cannot close its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
