package mdpost

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdpost/internal/fileutil"
	"github.com/alnah/go-mdpost/internal/pipeline"
	"github.com/alnah/go-mdpost/internal/process"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// DefaultPDFTimeout bounds page load and printing when the context has no deadline.
const DefaultPDFTimeout = 30 * time.Second

// paperSizes maps page sizes to width and height in inches.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size   string  // "letter", "a4", "legal"
	Margin float64 // inches, applied to every side
}

// DefaultPageSettings returns US Letter with half-inch margins.
func DefaultPageSettings() PageSettings {
	return PageSettings{Size: PageSizeLetter, Margin: DefaultMargin}
}

// Validate checks the size and margin.
func (p PageSettings) Validate() error {
	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q (must be letter, a4, or legal)", ErrInvalidPageSize, p.Size)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.1f inches)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, page PageSettings) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)

// rodRenderer implements pdfRenderer using go-rod.
// Rod downloads Chromium on first use when no browser is found.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker, CI images)
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}

	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Close closes the browser and kills its process tree.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, page PageSettings) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	p, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = p.Close() }()

	if err := p.Timeout(timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := p.PDF(printOptions(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

// printOptions converts page settings to Chrome print options.
func printOptions(page PageSettings) *proto.PagePrintToPDF {
	dims := paperSizes[strings.ToLower(page.Size)]
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(dims[0]),
		PaperHeight:     floatPtr(dims[1]),
		MarginTop:       floatPtr(page.Margin),
		MarginBottom:    floatPtr(page.Margin),
		MarginLeft:      floatPtr(page.Margin),
		MarginRight:     floatPtr(page.Margin),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// PDFConverter prints standalone HTML documents to PDF with headless Chrome.
// The browser starts on first use; call Close when done.
type PDFConverter struct {
	renderer pdfRenderer
	page     PageSettings
}

// PDFOption configures a PDFConverter.
type PDFOption func(*pdfConfig)

type pdfConfig struct {
	timeout time.Duration
	page    PageSettings
}

// WithTimeout bounds page load and printing when the context has no deadline.
func WithTimeout(d time.Duration) PDFOption {
	return func(c *pdfConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPageSettings sets the page size and margin.
func WithPageSettings(page PageSettings) PDFOption {
	return func(c *pdfConfig) {
		c.page = page
	}
}

// NewPDFConverter creates a PDFConverter. It fails on invalid page settings.
func NewPDFConverter(opts ...PDFOption) (*PDFConverter, error) {
	cfg := pdfConfig{timeout: DefaultPDFTimeout, page: DefaultPageSettings()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.page.Validate(); err != nil {
		return nil, err
	}
	return &PDFConverter{
		renderer: &rodRenderer{timeout: cfg.timeout},
		page:     cfg.page,
	}, nil
}

// ToPDF prints htmlDoc. Relative img[src] and a[href] values are resolved
// against sourceDir (empty leaves them untouched) before printing.
func (c *PDFConverter) ToPDF(ctx context.Context, htmlDoc, sourceDir string) ([]byte, error) {
	if sourceDir != "" {
		rewritten, err := pipeline.RewriteRelativePaths(htmlDoc, sourceDir)
		if err != nil {
			return nil, fmt.Errorf("%w: rewriting paths: %v", ErrPDFGeneration, err)
		}
		htmlDoc = rewritten
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlDoc, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, c.page)
}

// Close releases browser resources.
func (c *PDFConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
