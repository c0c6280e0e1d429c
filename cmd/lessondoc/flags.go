package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// marginSentinel detects if --margin was explicitly set.
// 0 is a valid margin, so an out-of-range value marks "unset".
const marginSentinel = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// styleFlags holds display settings flags.
type styleFlags struct {
	name        string
	fontFamily  string
	fontSize    int
	textColor   string
	accentColor string
	codeStyle   string
	noHighlight bool
	noMath      bool
}

// documentFlags holds lesson metadata flags.
type documentFlags struct {
	topic    string
	creator  string
	language string
}

// assetFlags holds asset-related flags.
type assetFlags struct {
	assetPath string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	formats  string
	workers  int
	timeout  string
	page     pageFlags
	style    styleFlags
	document documentFlags
	assets   assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show sizes, timing and stage logs")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", marginSentinel, "page margin in mm (0-50)")
}

// addStyleFlags adds display settings flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVarP(&f.name, "style", "s", "", "stylesheet name (lesson, classic)")
	fs.StringVar(&f.fontFamily, "font-family", "", "font family")
	fs.IntVar(&f.fontSize, "font-size", 0, "font size in px (10-30)")
	fs.StringVar(&f.textColor, "text-color", "", "text color (#RRGGBB)")
	fs.StringVar(&f.accentColor, "accent-color", "", "math accent color (#RRGGBB)")
	fs.StringVar(&f.codeStyle, "code-style", "", "code highlighting style")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable code highlighting")
	fs.BoolVar(&f.noMath, "no-math", false, "disable math auto-render")
}

// addDocumentFlags adds lesson metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.topic, "topic", "", "lesson topic, used as title and file name")
	fs.StringVar(&f.creator, "creator", "", "author recorded in the .docx")
	fs.StringVar(&f.language, "lang", "", "document language tag (e.g. vi, en)")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom styles and templates")
}

// newConvertFlagSet registers every convert flag on a fresh FlagSet.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.formats, "formats", "f", "", "output formats: html, docx, pdf (comma-separated)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF capture timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addStyleFlags(fs, &f.style)
	addDocumentFlags(fs, &f.document)
	addAssetFlags(fs, &f.assets)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
