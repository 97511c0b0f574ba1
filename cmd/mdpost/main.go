package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	mdpost "github.com/alnah/go-mdpost"
	"github.com/alnah/go-mdpost/internal/config"
	"github.com/alnah/go-mdpost/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// commands lists the subcommands in help order.
var commands = []string{"render", "export", "watch", "attach", "detach", "images", "config", "doctor", "version", "help"}

// isCommand reports whether name is a known subcommand.
func isCommand(name string) bool {
	for _, c := range commands {
		if c == name {
			return true
		}
	}
	return false
}

// hasVerboseFlag scans raw arguments for -v or --verbose before parsing.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// runMain dispatches the command in args and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, cmdArgs := args[1], args[2:]
	if cmd == "-h" || cmd == "--help" {
		cmd = "help"
	}
	if !isCommand(cmd) {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		if isMarkdown(cmd) {
			fmt.Fprintf(env.Stderr, "  hint: did you mean 'mdpost render %s'?\n", cmd)
		}
		fmt.Fprintln(env.Stderr)
		printUsage(env.Stderr)
		return ExitUsage
	}

	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, cmdArgs, env)
	case "export":
		err = runExport(ctx, cmdArgs, env)
	case "watch":
		err = runWatch(ctx, cmdArgs, env)
	case "attach":
		err = runAttach(cmdArgs, env)
	case "detach":
		err = runDetach(cmdArgs, env)
	case "images":
		err = runImages(cmdArgs, env)
	case "config":
		err = runConfig(cmdArgs, env)
	case "doctor":
		return runDoctorCmd(cmdArgs, env)
	case "version":
		fmt.Fprintf(env.Stdout, "mdpost %s\n", Version)
		return ExitSuccess
	case "help":
		return runHelp(cmdArgs, env)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns an actionable hint suffix for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdpost.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, mdpost.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths("mdpost"))
	case errors.Is(err, mdpost.ErrStyleNotFound):
		return hints.ForStyleNotFound(mdpost.StyleNames())
	case errors.Is(err, mdpost.ErrUnsupportedMediaType):
		return hints.ForUnsupportedMediaType(mdpost.SupportedMediaTypes())
	case errors.Is(err, mdpost.ErrImageNotFound):
		return hints.ForImageNotFound()
	case errors.Is(err, ErrCreateOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
