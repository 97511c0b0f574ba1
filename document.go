package mdpost

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-mdpost/internal/assets"
	"github.com/alnah/go-mdpost/internal/pipeline"
)

// DefaultStyle is the embedded stylesheet used for standalone documents.
const DefaultStyle = assets.DefaultStyleName

var titlePattern = regexp.MustCompile(`(?m)^# (.+)$`)

// Document wraps an HTML fragment in a standalone HTML5 document with css
// injected in its head. An empty title becomes "Untitled".
func Document(fragment, title, css string) string {
	doc := pipeline.WrapDocument(fragment, title)
	return (&pipeline.CSSInjection{}).InjectCSS(context.Background(), doc, css)
}

// TitleFromMarkdown returns the text of the first level-1 heading, or "".
func TitleFromMarkdown(markdown string) string {
	m := titlePattern.FindStringSubmatch(pipeline.NormalizeMarkdown(markdown))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// StyleLoader loads stylesheets by name.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

// NewStyleLoader returns a loader for the embedded styles, or for the styles
// in assetPath with the embedded ones as fallback.
func NewStyleLoader(assetPath string) (StyleLoader, error) {
	if assetPath == "" {
		return assets.NewEmbeddedLoader(), nil
	}
	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver, nil
}

// StyleNames lists the embedded styles.
func StyleNames() []string {
	return assets.NewEmbeddedLoader().StyleNames()
}
