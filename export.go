package mdpost

import (
	"fmt"
	"time"

	"github.com/alnah/go-mdpost/internal/dateutil"
	"github.com/alnah/go-mdpost/internal/export"
)

// Export defaults.
const (
	DefaultFallbackSuffix = "blog-post"
	DefaultDateFormat     = dateutil.DefaultDateFormat
	ImageDirSuffix        = export.ImageDirSuffix
)

// Exporter prepares posts for bundling. When the requested base name
// sanitizes to nothing, it falls back to "<date>-<suffix>".
type Exporter struct {
	now        func() time.Time
	dateFormat string
	suffix     string
}

// ExportOption configures an Exporter.
type ExportOption func(*Exporter)

// WithClock sets the clock used for fallback base names.
func WithClock(now func() time.Time) ExportOption {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithDateFormat sets the date format of fallback base names: a preset
// (iso, compact, european, us, long) or YYYY/MM/DD tokens.
func WithDateFormat(format string) ExportOption {
	return func(e *Exporter) {
		if format != "" {
			e.dateFormat = format
		}
	}
}

// WithFallbackSuffix sets the suffix of fallback base names.
func WithFallbackSuffix(suffix string) ExportOption {
	return func(e *Exporter) {
		if suffix != "" {
			e.suffix = suffix
		}
	}
}

// NewExporter creates an Exporter using the system clock, the ISO date
// format and the "blog-post" suffix unless overridden.
func NewExporter(opts ...ExportOption) *Exporter {
	e := &Exporter{
		now:        time.Now,
		dateFormat: DefaultDateFormat,
		suffix:     DefaultFallbackSuffix,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FallbackName returns the base name used when none survives sanitization.
func (e *Exporter) FallbackName() (string, error) {
	date, err := dateutil.Format(e.now(), e.dateFormat)
	if err != nil {
		return "", err
	}
	return date + "-" + e.suffix, nil
}

// Prepare rewrites every reference to an attached image into
// "<base>-images/<file>" and lists the files to bundle. It performs no I/O.
// The only error is an invalid date format.
func (e *Exporter) Prepare(markdown string, images []ImageAsset, baseName string) (*ExportResult, error) {
	fallback, err := e.FallbackName()
	if err != nil {
		return nil, fmt.Errorf("fallback base name: %w", err)
	}
	return prepare(markdown, images, export.ResolveBaseName(baseName, fallback)), nil
}

var defaultExporter = NewExporter()

// PrepareExport prepares a post with the default Exporter.
func PrepareExport(markdown string, images []ImageAsset, baseName string) *ExportResult {
	// The default date format always parses.
	res, _ := defaultExporter.Prepare(markdown, images, baseName)
	return res
}

func prepare(markdown string, images []ImageAsset, base string) *ExportResult {
	in := make([]export.Image, len(images))
	for i, img := range images {
		in[i] = export.Image{ID: img.ID, Name: img.Name, MediaType: img.MediaType, Content: img.Content}
	}

	plan := export.Prepare(markdown, in, base)

	res := &ExportResult{
		BaseName: plan.BaseName,
		ImageDir: plan.ImageDir,
		Markdown: plan.Markdown,
		Files:    make([]ExportFile, len(plan.Files)),
		Warnings: plan.Warnings,
	}
	for i, f := range plan.Files {
		res.Files[i] = ExportFile{Name: f.Name, ImageID: f.ImageID, Content: f.Content}
	}
	return res
}
