package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	mdpost "github.com/alnah/go-mdpost"
	"github.com/alnah/go-mdpost/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for reading and writing posts.
var (
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrCreateOutput = errors.New("failed to create output directory")
	ErrBatchFailed  = errors.New("some files failed")
)

// CLIRenderer is the rendering service used by the batch.
type CLIRenderer interface {
	Render(ctx context.Context, in mdpost.Input) (*mdpost.RenderResult, error)
}

// Compile-time interface implementation check.
var _ CLIRenderer = (*mdpost.Renderer)(nil)

// renderParams holds the per-batch settings shared by every file.
type renderParams struct {
	images     []mdpost.ImageAsset
	standalone bool
	css        string
}

// RenderOutcome holds the outcome of a single render.
type RenderOutcome struct {
	InputPath  string
	OutputPath string
	Warnings   []string
	Err        error
	Duration   time.Duration
}

// runRender renders markdown files, directories or globs to HTML.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags.render, cfg)
	mergeStyleFlags(flags.style, cfg)

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	params := &renderParams{standalone: flags.standalone}
	if flags.standalone {
		if params.css, err = resolveCSS(cfg, flags.style.noStyle, renderer); err != nil {
			return err
		}
	}
	if params.images, err = loadSessionImages(sessionPath(flags.session, cfg)); err != nil {
		return err
	}

	files, err := discoverFiles(inputs, flags.output)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := resolvePoolSize(workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Rendering %d file(s) with %d worker(s), engine %s\n", len(files), poolSize, renderer.Engine())
	}

	results := renderBatch(ctx, renderer, poolSize, files, params)
	if failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(results))
	}
	return ctx.Err()
}

// renderBatch processes files concurrently with at most poolSize workers.
// The renderer is stateless, so all workers share it.
func renderBatch(ctx context.Context, r CLIRenderer, poolSize int, files []FileToRender, params *renderParams) []RenderOutcome {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(poolSize, len(files))
	results := make([]RenderOutcome, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderOutcome{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile renders a single file and returns the outcome.
func renderFile(ctx context.Context, r CLIRenderer, f FileToRender, params *renderParams) RenderOutcome {
	start := time.Now()
	result := RenderOutcome{InputPath: f.InputPath, OutputPath: f.OutputPath}
	fail := func(err error) RenderOutcome {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadMarkdown, err))
	}

	res, err := r.Render(ctx, mdpost.Input{Markdown: string(content), Images: params.images})
	if err != nil {
		return fail(err)
	}
	result.Warnings = warningStrings(res.Warnings)

	out := res.HTML + "\n"
	if params.standalone {
		out = mdpost.Document(res.HTML, documentTitle(string(content), f.InputPath), params.css)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrCreateOutput, err))
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(out), filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	result.Duration = time.Since(start)
	return result
}

// documentTitle uses the first level-1 heading, else the file name.
func documentTitle(markdown, path string) string {
	if title := mdpost.TitleFromMarkdown(markdown); title != "" {
		return title
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// resolvePoolSize determines the worker count: explicit value first,
// then half of GOMAXPROCS (adjusted by automaxprocs), between 1 and 8.
func resolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0) / 2
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed renders.
func countResults(results []RenderOutcome) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs render results and warnings, and returns
// the number of failures.
func printResultsWithWriter(results []RenderOutcome, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			}
			continue
		}

		if quiet {
			continue
		}

		printWarnings(env, r.InputPath, r.Warnings)
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
