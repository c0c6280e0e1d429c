package main

import (
	"errors"
	"os"

	"github.com/alnah/go-lessondoc"
	"github.com/alnah/go-lessondoc/internal/config"
)

// Exit codes for the lessondoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
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
	if errors.Is(err, lessondoc.ErrBrowserConnect) ||
		errors.Is(err, lessondoc.ErrPageCreate) ||
		errors.Is(err, lessondoc.ErrPageLoad) ||
		errors.Is(err, lessondoc.ErrCapture) ||
		errors.Is(err, lessondoc.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoMarkdownFiles) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, lessondoc.ErrEmptyMarkdown) ||
		errors.Is(err, lessondoc.ErrInvalidFormat) ||
		errors.Is(err, lessondoc.ErrInvalidPageSize) ||
		errors.Is(err, lessondoc.ErrInvalidOrientation) ||
		errors.Is(err, lessondoc.ErrInvalidMargin) ||
		errors.Is(err, lessondoc.ErrInvalidFontSize) ||
		errors.Is(err, lessondoc.ErrInvalidColor) ||
		errors.Is(err, lessondoc.ErrInvalidCodeStyle) ||
		errors.Is(err, lessondoc.ErrStyleNotFound) ||
		errors.Is(err, lessondoc.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrTopicWithDirectory) ||
		errors.Is(err, ErrConfigExists) {
		return ExitUsage
	}

	return ExitGeneral
}
