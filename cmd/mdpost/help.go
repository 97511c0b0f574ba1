package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpost <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render markdown files to HTML")
	fmt.Fprintln(w, "  export     Bundle a post with its images (md, zip, html, pdf)")
	fmt.Fprintln(w, "  watch      Re-render an HTML preview on every save")
	fmt.Fprintln(w, "  attach     Attach images to the session")
	fmt.Fprintln(w, "  detach     Remove images from the session")
	fmt.Fprintln(w, "  images     List the session images")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check PDF prerequisites, config and session")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdpost help <command>' for details on a specific command.")
}

// printCommonFlags prints the flags every command accepts.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printRenderOptions prints renderer and stylesheet flags.
func printRenderOptions(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -e, --engine <s>          Engine: editor (default), gfm")
	fmt.Fprintln(w, "      --toc-title <s>       Table of contents heading")
	fmt.Fprintln(w, "      --highlight           Syntax highlight fenced code")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style (implies --highlight)")
	fmt.Fprintln(w, "  -s, --session <path>      Session file with attached images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>   CSS style name or file path")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom style directory ({dir}/styles/{name}.css)")
	fmt.Fprintln(w, "      --no-style            Disable CSS styling")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpost render <file|dir|glob>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown files to HTML fragments, or full documents with --standalone.")
	fmt.Fprintln(w, "Directories are searched recursively; globs support ** (quote them).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .html file or directory (default: next to input)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --standalone          Write full HTML documents with CSS")
	fmt.Fprintln(w)
	printRenderOptions(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  mdpost render post.md")
	fmt.Fprintln(w, "  mdpost render 'posts/**/*.md' -o public/ --standalone")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpost export <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rewrite image references to <name>-images/<file> and bundle the post.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Bundle:")
	fmt.Fprintln(w, "  -f, --format <s>          md (default), zip, html, pdf")
	fmt.Fprintln(w, "  -n, --name <s>            Base name (default: session name, then file name)")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -i, --images <glob>       Attach images for this export only (repeatable)")
	fmt.Fprintln(w, "      --html                Add <name>.html to zip bundles")
	fmt.Fprintln(w, "      --date-format <s>     Date of the fallback name: iso, compact, european, us, long")
	fmt.Fprintln(w, "                            or tokens YYYY, MM, DD")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printRenderOptions(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  mdpost export draft.md --name 'My Post' --format zip --html")
	fmt.Fprintln(w, "  mdpost export draft.md --images 'shots/*.png' --format pdf")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpost watch <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a standalone HTML preview and update it when the file or session changes.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "  -o, --output <file>       Preview file (default: <file>.html next to input)")
	fmt.Fprintln(w, "  -d, --debounce <d>        Quiet period before re-rendering (default: 150ms)")
	fmt.Fprintln(w)
	printRenderOptions(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printAttachUsage prints usage for the attach command.
func printAttachUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpost attach <image|glob>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Attach png, jpeg, gif, webp, svg or bmp images. Reference them in markdown")
	fmt.Fprintln(w, "by file name or id: ![alt](photo.png) or ![alt](img-1).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -s, --session <path>      Session file")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printDetachUsage prints usage for the detach command.
func printDetachUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpost detach <id>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Remove images from the session. Ids are never reused.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -s, --session <path>      Session file")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printImagesUsage prints usage for the images command.
func printImagesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpost images [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the session images in attachment order.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -s, --session <path>      Session file")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpost config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after merging defaults, the config file and MDPOST_* variables.")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpost doctor [--json] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome for PDF export, the environment, the config and the session file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "  -s, --session <path>      Session file")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printEnvironment prints the recognized environment variables.
func printEnvironment(w io.Writer) {
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDPOST_CONFIG     Config file name or path")
	fmt.Fprintln(w, "  MDPOST_SESSION    Session file")
	fmt.Fprintln(w, "  MDPOST_ENGINE     Render engine")
	fmt.Fprintln(w, "  MDPOST_STYLE      CSS style name or path")
	fmt.Fprintln(w, "  MDPOST_TIMEOUT    PDF generation timeout")
	fmt.Fprintln(w, "  MDPOST_WORKERS    Parallel render workers")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN   Chrome binary for PDF export")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX    Set to 1 to disable the Chrome sandbox")
}

// runHelp prints help for a command, or the main usage.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		fmt.Fprintln(env.Stdout)
		printEnvironment(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "attach":
		printAttachUsage(env.Stdout)
	case "detach":
		printDetachUsage(env.Stdout)
	case "images":
		printImagesUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdpost version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdpost help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
