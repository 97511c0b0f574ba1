package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlag wraps flag parsing errors so they map to ExitUsage.
var ErrInvalidFlag = errors.New("invalid flag")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderOptionFlags holds flags that configure the markdown renderer.
type renderOptionFlags struct {
	engine         string
	tocTitle       string
	highlight      bool
	highlightStyle string
}

// styleFlags holds stylesheet flags for standalone documents.
type styleFlags struct {
	style     string // Name or path of the stylesheet
	assetPath string // Override style directory
	noStyle   bool   // Write documents without CSS
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common     commonFlags
	output     string
	workers    int
	standalone bool
	session    string
	render     renderOptionFlags
	style      styleFlags
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common      commonFlags
	output      string
	name        string
	format      string
	images      []string
	session     string
	includeHTML bool
	dateFormat  string
	timeout     string
	pageSize    string
	margin      float64
	render      renderOptionFlags
	style       styleFlags
}

// watchFlags holds all flags for the watch command.
type watchFlags struct {
	common   commonFlags
	output   string
	debounce string
	session  string
	render   renderOptionFlags
	style    styleFlags
}

// sessionFlags holds flags for the attach, detach and images commands.
type sessionFlags struct {
	common  commonFlags
	session string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderOptionFlags adds renderer flags to a FlagSet.
func addRenderOptionFlags(fs *flag.FlagSet, f *renderOptionFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "render engine: editor, gfm")
	fs.StringVar(&f.tocTitle, "toc-title", "", "table of contents heading")
	fs.BoolVar(&f.highlight, "highlight", false, "syntax highlight fenced code")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for highlighted code")
}

// addStyleFlags adds stylesheet flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom style directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
}

// addSessionFlag adds the session file flag to a FlagSet.
func addSessionFlag(fs *flag.FlagSet, session *string) {
	fs.StringVarP(session, "session", "s", "", "session file (default from config)")
}

// parseFlagSet parses args and wraps parse errors with ErrInvalidFlag.
// flag.ErrHelp is returned unwrapped after the usage was printed.
func parseFlagSet(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}
	return fs.Args(), nil
}

// newFlagSet creates a FlagSet whose usage and errors go to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// buildRenderFlagSet registers the render flags into f.
func buildRenderFlagSet(w io.Writer, f *renderFlags) *flag.FlagSet {
	fs := newFlagSet("render", w, printRenderUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.standalone, "standalone", false, "write full HTML documents")
	addSessionFlag(fs, &f.session)
	addCommonFlags(fs, &f.common)
	addRenderOptionFlags(fs, &f.render)
	addStyleFlags(fs, &f.style)
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	rest, err := parseFlagSet(buildRenderFlagSet(w, f), args)
	return f, rest, err
}

// buildExportFlagSet registers the export flags into f.
func buildExportFlagSet(w io.Writer, f *exportFlags) *flag.FlagSet {
	fs := newFlagSet("export", w, printExportUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.name, "name", "n", "", "export base name")
	fs.StringVarP(&f.format, "format", "f", "", "bundle format: md, zip, html, pdf")
	fs.StringArrayVarP(&f.images, "images", "i", nil, "image file or glob to attach (repeatable)")
	fs.BoolVar(&f.includeHTML, "html", false, "add a standalone HTML document to zip bundles")
	fs.StringVar(&f.dateFormat, "date-format", "", "date format of the fallback base name")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "PDF page size: letter, a4, legal")
	fs.Float64Var(&f.margin, "margin", 0, "PDF page margin in inches (0.25-3.0)")
	addSessionFlag(fs, &f.session)
	addCommonFlags(fs, &f.common)
	addRenderOptionFlags(fs, &f.render)
	addStyleFlags(fs, &f.style)
	return fs
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, w io.Writer) (*exportFlags, []string, error) {
	f := &exportFlags{}
	rest, err := parseFlagSet(buildExportFlagSet(w, f), args)
	return f, rest, err
}

// buildWatchFlagSet registers the watch flags into f.
func buildWatchFlagSet(w io.Writer, f *watchFlags) *flag.FlagSet {
	fs := newFlagSet("watch", w, printWatchUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output HTML file")
	fs.StringVarP(&f.debounce, "debounce", "d", "", "quiet period before re-rendering (e.g., 150ms)")
	addSessionFlag(fs, &f.session)
	addCommonFlags(fs, &f.common)
	addRenderOptionFlags(fs, &f.render)
	addStyleFlags(fs, &f.style)
	return fs
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string, w io.Writer) (*watchFlags, []string, error) {
	f := &watchFlags{}
	rest, err := parseFlagSet(buildWatchFlagSet(w, f), args)
	return f, rest, err
}

// parseSessionFlags parses flags of the session commands.
func parseSessionFlags(name string, args []string, w io.Writer, usage func(io.Writer)) (*sessionFlags, []string, error) {
	f := &sessionFlags{}
	fs := newFlagSet(name, w, usage)
	addSessionFlag(fs, &f.session)
	addCommonFlags(fs, &f.common)
	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}
