package lessondoc

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrInvalidFormat  = errors.New("invalid output format")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrDocumentBuild  = errors.New("document build failed")

	// Browser capture errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrCapture        = errors.New("page capture failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Style validation errors.
	ErrInvalidFontSize  = errors.New("invalid font size")
	ErrInvalidColor     = errors.New("invalid color")
	ErrInvalidCodeStyle = errors.New("invalid code style")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
