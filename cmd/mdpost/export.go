package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	mdpost "github.com/alnah/go-mdpost"
	"github.com/alnah/go-mdpost/internal/config"
	"github.com/alnah/go-mdpost/internal/fileutil"
)

// Export bundle formats.
const (
	FormatMarkdown = "md"
	FormatZip      = "zip"
	FormatHTML     = "html"
	FormatPDF      = "pdf"
)

var validFormats = []string{FormatMarkdown, FormatZip, FormatHTML, FormatPDF}

// ErrInvalidFormat is returned for an unknown --format value.
var ErrInvalidFormat = errors.New("invalid export format")

// exportJob holds everything one export needs once flags and config are merged.
type exportJob struct {
	inputPath string
	markdown  string
	images    []mdpost.ImageAsset
	baseName  string
	format    string
	outputDir string
	cfg       *config.Config
	noStyle   bool
}

// runExport bundles one markdown file and its session images.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	switch {
	case len(inputs) == 0:
		return ErrNoInput
	case len(inputs) > 1:
		return fmt.Errorf("%w: export takes one file, got %d", ErrTooManyInputs, len(inputs))
	}
	inputPath := inputs[0]
	if err := validateMarkdownExtension(inputPath); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeRenderFlags(flags.render, cfg)
	mergeStyleFlags(flags.style, cfg)
	mergeExportFlags(flags, cfg)
	if err := validateFormat(cfg.Export.Format); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}

	session, err := mdpost.OpenSession(sessionPath(flags.session, cfg))
	if err != nil {
		return err
	}
	if err := attachPatterns(session, flags.images); err != nil {
		return err
	}

	job := &exportJob{
		inputPath: inputPath,
		markdown:  string(content),
		images:    session.Images(),
		baseName:  exportBaseName(flags.name, session.Filename, inputPath),
		format:    cfg.Export.Format,
		outputDir: cfg.Export.OutputDir,
		cfg:       cfg,
		noStyle:   flags.style.noStyle,
	}

	start := env.Now()
	paths, warnings, err := exportPost(ctx, job, env)
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		printWarnings(env, inputPath, warnings)
		for _, p := range paths {
			fmt.Fprintf(env.Stdout, "Created %s\n", p)
		}
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, "%s exported as %s (%v)\n", inputPath, job.format, env.Now().Sub(start).Round(time.Millisecond))
		}
	}
	return nil
}

// mergeExportFlags applies export and PDF flags on top of cfg.
func mergeExportFlags(f *exportFlags, cfg *config.Config) {
	if f.format != "" {
		cfg.Export.Format = strings.ToLower(f.format)
	}
	if f.output != "" {
		cfg.Export.OutputDir = f.output
	}
	if f.dateFormat != "" {
		cfg.Export.DateFormat = f.dateFormat
	}
	if f.includeHTML {
		cfg.Export.IncludeHTML = true
	}
	if f.timeout != "" {
		cfg.PDF.Timeout = f.timeout
	}
	if f.pageSize != "" {
		cfg.PDF.PageSize = strings.ToLower(f.pageSize)
	}
	if f.margin != 0 {
		cfg.PDF.Margin = f.margin
	}
}

// exportBaseName picks the export base name: the flag, then the name stored
// in the session, then the input file stem. The exporter sanitizes it and
// falls back to a dated name when nothing survives.
func exportBaseName(flagName, sessionName, inputPath string) string {
	if strings.TrimSpace(flagName) != "" {
		return flagName
	}
	if strings.TrimSpace(sessionName) != "" {
		return sessionName
	}
	return strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
}

// attachPatterns attaches every file matched by patterns to s. A pattern
// without glob syntax names a single file, which must exist.
func attachPatterns(s *mdpost.Session, patterns []string) error {
	for _, pattern := range patterns {
		paths, err := expandPattern(pattern)
		if err != nil {
			return err
		}
		for _, p := range paths {
			if _, err := s.AttachFile(p); err != nil {
				return fmt.Errorf("attaching %s: %w", p, err)
			}
		}
	}
	return nil
}

// expandPattern returns the files matched by a doublestar pattern, sorted,
// or the path itself when it has no glob syntax.
func expandPattern(pattern string) ([]string, error) {
	if !hasGlobMeta(pattern) {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, pattern)
	}
	slices.Sort(matches)
	return matches, nil
}

// exportPost prepares the export and writes it in the job format.
// It returns the created paths and the warnings to report.
func exportPost(ctx context.Context, job *exportJob, env *Environment) ([]string, []string, error) {
	if err := validateFormat(job.format); err != nil {
		return nil, nil, err
	}

	exporter := mdpost.NewExporter(
		mdpost.WithClock(env.Now),
		mdpost.WithDateFormat(job.cfg.Export.DateFormat),
		mdpost.WithFallbackSuffix(job.cfg.Export.FallbackSuffix),
	)
	res, err := exporter.Prepare(job.markdown, job.images, job.baseName)
	if err != nil {
		return nil, nil, err
	}
	warnings := slices.Clone(res.Warnings)

	dir := job.outputDir
	if dir == "" {
		dir = "."
	}

	switch job.format {
	case FormatMarkdown:
		paths, skipped, err := mdpost.WriteDir(dir, res)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return paths, append(warnings, skipped...), nil

	case FormatZip:
		path, skipped, err := writeZip(ctx, job, res, dir, env.Now())
		if err != nil {
			return nil, nil, err
		}
		return []string{path}, append(warnings, skipped...), nil

	case FormatHTML:
		doc, renderWarnings, err := standaloneDocument(ctx, job)
		if err != nil {
			return nil, nil, err
		}
		path := filepath.Join(dir, res.BaseName+".html")
		if err := writeOutput(path, []byte(doc)); err != nil {
			return nil, nil, err
		}
		return []string{path}, append(warnings, renderWarnings...), nil

	case FormatPDF:
		doc, renderWarnings, err := standaloneDocument(ctx, job)
		if err != nil {
			return nil, nil, err
		}
		pdf, err := printPDF(ctx, job, doc, env)
		if err != nil {
			return nil, nil, err
		}
		path := filepath.Join(dir, res.BaseName+".pdf")
		if err := writeOutput(path, pdf); err != nil {
			return nil, nil, err
		}
		return []string{path}, append(warnings, renderWarnings...), nil
	}
	return nil, nil, validateFormat(job.format)
}

// validateFormat checks the bundle format.
func validateFormat(format string) error {
	if !slices.Contains(validFormats, format) {
		return fmt.Errorf("%w: %q (must be one of: %s)", ErrInvalidFormat, format, strings.Join(validFormats, ", "))
	}
	return nil
}

// writeZip writes <dir>/<base>.zip. A partial archive is removed on failure.
func writeZip(ctx context.Context, job *exportJob, res *mdpost.ExportResult, dir string, now time.Time) (string, []string, error) {
	opts := mdpost.ArchiveOptions{Modified: now}
	if job.cfg.Export.IncludeHTML {
		renderer, err := newRenderer(job.cfg)
		if err != nil {
			return "", nil, err
		}
		css, err := resolveCSS(job.cfg, job.noStyle, renderer)
		if err != nil {
			return "", nil, err
		}
		opts.IncludeHTML = true
		opts.Renderer = renderer
		opts.CSS = css
	}

	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrCreateOutput, err)
	}
	path := filepath.Join(dir, res.BaseName+".zip")
	f, err := os.Create(path) // #nosec G304 -- output path built from sanitized base name
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	warnings, err := mdpost.WriteArchive(ctx, f, res, opts)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: %w", ErrWriteOutput, closeErr)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, warnings, nil
}

// standaloneDocument renders the original markdown against the image table,
// so images are embedded as data URIs and the document is self-contained.
func standaloneDocument(ctx context.Context, job *exportJob) (string, []string, error) {
	renderer, err := newRenderer(job.cfg)
	if err != nil {
		return "", nil, err
	}
	css, err := resolveCSS(job.cfg, job.noStyle, renderer)
	if err != nil {
		return "", nil, err
	}
	out, err := renderer.Render(ctx, mdpost.Input{Markdown: job.markdown, Images: job.images})
	if err != nil {
		return "", nil, err
	}
	doc := mdpost.Document(out.HTML, documentTitle(job.markdown, job.inputPath), css)
	return doc, warningStrings(out.Warnings), nil
}

// printPDF prints doc with relative links resolved against the input file.
func printPDF(ctx context.Context, job *exportJob, doc string, env *Environment) ([]byte, error) {
	page := mdpost.PageSettings{Size: job.cfg.PDF.PageSize, Margin: job.cfg.PDF.Margin}
	printer, err := env.NewPDF(
		mdpost.WithPageSettings(page),
		mdpost.WithTimeout(job.cfg.PDF.TimeoutDuration()),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = printer.Close() }()

	sourceDir, err := filepath.Abs(filepath.Dir(job.inputPath))
	if err != nil {
		return nil, fmt.Errorf("resolving source directory: %w", err)
	}
	return printer.ToPDF(ctx, doc, sourceDir)
}

// writeOutput writes data to path, creating its directory.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
