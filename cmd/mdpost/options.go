package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	mdpost "github.com/alnah/go-mdpost"
	"github.com/alnah/go-mdpost/internal/config"
	"github.com/alnah/go-mdpost/internal/fileutil"
)

// ErrReadCSS is returned when a stylesheet file cannot be read.
var ErrReadCSS = errors.New("failed to read CSS file")

// mergeRenderFlags applies renderer flags on top of cfg.
func mergeRenderFlags(f renderOptionFlags, cfg *config.Config) {
	if f.engine != "" {
		cfg.Render.Engine = strings.ToLower(f.engine)
	}
	if f.tocTitle != "" {
		cfg.Render.TOCTitle = f.tocTitle
	}
	if f.highlight {
		cfg.Render.Highlight = true
	}
	if f.highlightStyle != "" {
		cfg.Render.Highlight = true
		cfg.Render.HighlightStyle = f.highlightStyle
	}
}

// mergeStyleFlags applies stylesheet flags on top of cfg.
func mergeStyleFlags(f styleFlags, cfg *config.Config) {
	if f.style != "" {
		cfg.Render.Style = f.style
	}
	if f.assetPath != "" {
		cfg.Render.AssetPath = f.assetPath
	}
}

// sessionPath returns the session file from the flag or the config.
func sessionPath(flagSession string, cfg *config.Config) string {
	if flagSession != "" {
		return flagSession
	}
	return cfg.Session.Path
}

// newRenderer builds a renderer from the render section of cfg.
func newRenderer(cfg *config.Config) (*mdpost.Renderer, error) {
	opts := []mdpost.RenderOption{
		mdpost.WithEngine(cfg.Render.Engine),
		mdpost.WithTOCTitle(cfg.Render.TOCTitle),
	}
	if cfg.Render.Highlight {
		opts = append(opts, mdpost.WithHighlight(cfg.Render.HighlightStyle))
	}
	return mdpost.NewRenderer(opts...)
}

// resolveCSS returns the stylesheet of standalone documents: a CSS file
// when the style is a path, else a named style from the asset directory or
// the embedded set. Highlight rules are appended when highlighting is on.
func resolveCSS(cfg *config.Config, noStyle bool, r *mdpost.Renderer) (string, error) {
	if noStyle {
		return "", nil
	}

	style := cfg.Render.Style
	if style == "" {
		style = mdpost.DefaultStyle
	}

	var css string
	if fileutil.IsFilePath(style) || strings.HasSuffix(style, ".css") {
		content, err := os.ReadFile(style) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
		}
		css = string(content)
	} else {
		loader, err := mdpost.NewStyleLoader(cfg.Render.AssetPath)
		if err != nil {
			return "", err
		}
		if css, err = loader.LoadStyle(style); err != nil {
			return "", err
		}
	}

	highlight, err := r.HighlightCSS()
	if err != nil {
		return "", fmt.Errorf("building highlight stylesheet: %w", err)
	}
	if highlight != "" {
		css += "\n" + highlight
	}
	return css, nil
}

// loadSessionImages returns the images of the session at path, or none
// when the file does not exist.
func loadSessionImages(path string) ([]mdpost.ImageAsset, error) {
	if path == "" {
		return nil, nil
	}
	s, err := mdpost.OpenSession(path)
	if err != nil {
		return nil, err
	}
	return s.Images(), nil
}

// printWarnings writes render or export warnings prefixed by their source.
func printWarnings(env *Environment, source string, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(env.Stderr, "%s: %s\n", source, w)
	}
}

// warningStrings formats render warnings for printWarnings.
func warningStrings(warnings []mdpost.Warning) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}
