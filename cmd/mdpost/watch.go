package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	mdpost "github.com/alnah/go-mdpost"
)

// runWatch renders a markdown file to a standalone HTML preview and
// re-renders it whenever the file or the session changes.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseWatchFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	switch {
	case len(inputs) == 0:
		return ErrNoInput
	case len(inputs) > 1:
		return fmt.Errorf("%w: watch takes one file, got %d", ErrTooManyInputs, len(inputs))
	}
	inputPath := inputs[0]
	if err := validateMarkdownExtension(inputPath); err != nil {
		return err
	}
	if _, err := os.Stat(inputPath); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeRenderFlags(flags.render, cfg)
	mergeStyleFlags(flags.style, cfg)
	if flags.debounce != "" {
		cfg.Watch.Debounce = flags.debounce
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	css, err := resolveCSS(cfg, flags.style.noStyle, renderer)
	if err != nil {
		return err
	}

	output := flags.output
	if output == "" {
		output = resolveOutputPath(inputPath, "", "")
	}

	p := &preview{
		renderer:    renderer,
		css:         css,
		inputPath:   inputPath,
		outputPath:  output,
		sessionPath: sessionPath(flags.session, cfg),
		quiet:       flags.common.quiet,
		verbose:     flags.common.verbose,
		env:         env,
	}
	if err := p.build(ctx); err != nil {
		return err
	}

	if !p.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl+C to stop)\n", inputPath)
	}
	return watchFiles(ctx, []string{inputPath, p.sessionPath}, cfg.Watch.DebounceDuration(), p, env)
}

// preview renders one markdown file to a standalone HTML document.
type preview struct {
	renderer    CLIRenderer
	css         string
	inputPath   string
	outputPath  string
	sessionPath string
	quiet       bool
	verbose     bool
	env         *Environment
}

// build reads the markdown and the session images, and rewrites the output.
func (p *preview) build(ctx context.Context) error {
	start := time.Now()

	content, err := os.ReadFile(p.inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	images, err := loadSessionImages(p.sessionPath)
	if err != nil {
		return err
	}

	res, err := p.renderer.Render(ctx, mdpost.Input{Markdown: string(content), Images: images})
	if err != nil {
		return err
	}
	doc := mdpost.Document(res.HTML, documentTitle(string(content), p.inputPath), p.css)
	if err := writeOutput(p.outputPath, []byte(doc)); err != nil {
		return err
	}

	if !p.quiet {
		printWarnings(p.env, p.inputPath, warningStrings(res.Warnings))
		if p.verbose {
			fmt.Fprintf(p.env.Stdout, "Updated %s (%v)\n", p.outputPath, time.Since(start).Round(time.Millisecond))
		} else {
			fmt.Fprintf(p.env.Stdout, "Updated %s\n", p.outputPath)
		}
	}
	return nil
}

// watchFiles rebuilds p after the watched files stop changing for delay.
// Parent directories are watched so editors that replace files on save
// are still seen. Build errors are reported and watching continues.
func watchFiles(ctx context.Context, paths []string, delay time.Duration, p *preview, env *Environment) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range paths {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	rebuild := make(chan struct{}, 1)
	d := newDebouncer(delay, func() {
		select {
		case rebuild <- struct{}{}:
		default:
		}
	})
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !targets[abs] {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				d.Trigger()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(env.Stderr, "warning: watcher: %v\n", err)

		case <-rebuild:
			if err := p.build(ctx); err != nil && ctx.Err() == nil {
				fmt.Fprintf(env.Stderr, "error: %v\n", err)
			}
		}
	}
}

// debouncer runs fire once the triggers stop for delay.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fire  func()
}

func newDebouncer(delay time.Duration, fire func()) *debouncer {
	return &debouncer{delay: delay, fire: fire}
}

// Trigger restarts the quiet period.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Stop cancels a pending fire.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
