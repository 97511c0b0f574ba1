package main

import (
	"errors"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	flag "github.com/spf13/pflag"

	mdpost "github.com/alnah/go-mdpost"
	"github.com/alnah/go-mdpost/internal/config"
)

// Exit codes for the mdpost CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdpost.ErrBrowserConnect) ||
		errors.Is(err, mdpost.ErrPageCreate) ||
		errors.Is(err, mdpost.ErrPageLoad) ||
		errors.Is(err, mdpost.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrCreateOutput) ||
		errors.Is(err, ErrNoMatches) ||
		errors.Is(err, mdpost.ErrReadImage) ||
		errors.Is(err, mdpost.ErrSnapshotWrite) ||
		errors.Is(err, mdpost.ErrArchiveWrite) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, flag.ErrHelp) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrTooManyInputs) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidFlag) ||
		errors.Is(err, doublestar.ErrBadPattern) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdpost.ErrInvalidEngine) ||
		errors.Is(err, mdpost.ErrInvalidDateFormat) ||
		errors.Is(err, mdpost.ErrInvalidPageSize) ||
		errors.Is(err, mdpost.ErrInvalidMargin) ||
		errors.Is(err, mdpost.ErrStyleNotFound) ||
		errors.Is(err, mdpost.ErrInvalidAssetPath) ||
		errors.Is(err, mdpost.ErrUnsupportedMediaType) ||
		errors.Is(err, mdpost.ErrInvalidDataURL) ||
		errors.Is(err, mdpost.ErrImageNotFound) ||
		errors.Is(err, mdpost.ErrSnapshotParse) {
		return ExitUsage
	}

	return ExitGeneral
}
