package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoMatches          = errors.New("no markdown files matched")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrTooManyInputs      = errors.New("output file given for several inputs")
)

// MaxWorkers bounds the --workers flag.
const MaxWorkers = 32

// markdownPattern matches markdown files below a directory.
const markdownPattern = "**/*.{md,markdown}"

// FileToRender represents a single file to process.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// discoverFiles expands files, directories and glob patterns into the
// markdown files to render, in argument order without duplicates.
// Directories are searched recursively.
func discoverFiles(inputs []string, output string) ([]FileToRender, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	var files []FileToRender
	seen := make(map[string]bool)
	add := func(path, baseDir string) {
		clean := filepath.Clean(path)
		if seen[clean] {
			return
		}
		seen[clean] = true
		files = append(files, FileToRender{InputPath: clean, OutputPath: resolveOutputPath(clean, output, baseDir)})
	}

	for _, input := range inputs {
		if hasGlobMeta(input) {
			matches, err := doublestar.FilepathGlob(input, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", input, err)
			}
			slices.Sort(matches)
			base, _ := doublestar.SplitPattern(filepath.ToSlash(input))
			for _, m := range matches {
				if isMarkdown(m) {
					add(m, filepath.FromSlash(base))
				}
			}
			continue
		}

		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(input); err != nil {
				return nil, err
			}
			add(input, "")
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(input), markdownPattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", input, err)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(filepath.Join(input, filepath.FromSlash(m)), input)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, strings.Join(inputs, " "))
	}
	if len(files) > 1 && strings.HasSuffix(output, ".html") {
		return nil, fmt.Errorf("%w: %s", ErrTooManyInputs, output)
	}
	return files, nil
}

// hasGlobMeta reports whether s contains doublestar pattern syntax.
func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// isMarkdown reports whether path has a markdown extension.
func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// resolveOutputPath determines the HTML output path for a markdown file.
// Files found below baseDir keep their relative layout under outputDir.
func resolveOutputPath(inputPath, outputDir, baseDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".html")
	}

	if strings.HasSuffix(outputDir, ".html") {
		return outputDir
	}

	if baseDir != "" {
		if relPath, err := filepath.Rel(baseDir, inputPath); err == nil && !strings.HasPrefix(relPath, "..") {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+".html")
		}
	}

	return filepath.Join(outputDir, base+".html")
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !isMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}
