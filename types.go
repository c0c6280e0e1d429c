package lessondoc

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-lessondoc/internal/assets"
	"github.com/alnah/go-lessondoc/internal/docx"
	"github.com/alnah/go-lessondoc/internal/hints"
	"github.com/alnah/go-lessondoc/internal/paging"
	"github.com/alnah/go-lessondoc/internal/pipeline"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in millimetres.
const (
	MinMargin     = 0.0
	MaxMargin     = 50.0
	DefaultMargin = 20.0
)

const twipsPerMM = 1440 / 25.4

// PageSettings configures the page geometry of the .docx sections and the
// sheets of the PDF capture.
type PageSettings struct {
	Size        string  // "a4", "letter", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // millimetres, applied to all sides
}

// DefaultPageSettings returns A4 portrait with 20 mm margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Size) {
	case PageSizeA4, PageSizeLetter, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q (must be a4, letter or legal)", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, p.Orientation)
	}

	if math.IsNaN(p.Margin) || p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.0f and %.0f mm)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

func (p *PageSettings) landscape() bool {
	return strings.EqualFold(p.Orientation, OrientationLandscape)
}

// paper returns the physical sheet size, already rotated for landscape.
func (p *PageSettings) paper() paging.Size {
	var size paging.Size
	switch strings.ToLower(p.Size) {
	case PageSizeLetter:
		size = paging.Letter
	case PageSizeLegal:
		size = paging.Legal
	default:
		size = paging.A4
	}
	if p.landscape() {
		size = size.Landscape()
	}
	return size
}

// geometry returns the portrait .docx geometry; the writer rotates it.
func (p *PageSettings) geometry() docx.PageGeometry {
	var g docx.PageGeometry
	switch strings.ToLower(p.Size) {
	case PageSizeLetter:
		g = docx.Letter
	case PageSizeLegal:
		g = docx.Legal
	default:
		g = docx.A4
	}
	g.Margin = int(math.Round(p.Margin * twipsPerMM))
	g.Landscape = p.landscape()
	return g
}

// Font size bounds in CSS pixels, the range of the editor's font controls.
const (
	MinFontSize     = 10
	MaxFontSize     = 30
	DefaultFontSize = 16
)

// Default colours.
const (
	DefaultTextColor   = "#000000"
	DefaultAccentColor = "#2e7d32"
	DefaultCodeStyle   = pipeline.DefaultCodeStyle
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Style holds the display settings shared by the HTML page and the document.
// Empty fields fall back to the stylesheet or renderer defaults.
type Style struct {
	Stylesheet  string // asset name; empty uses the built-in "lesson" style
	FontFamily  string // CSS font stack; the document uses its first family
	FontSize    int    // CSS pixels, 10..30; 0 keeps the default
	TextColor   string // "#RRGGBB"
	AccentColor string // "#RRGGBB", used for math
	CodeStyle   string // chroma style for fenced code; empty disables highlighting
	Math        bool   // typeset $...$ formulas in the HTML page
}

// DefaultStyle returns the editor defaults: 16px black text, green accent,
// highlighted code and typeset math.
func DefaultStyle() *Style {
	return &Style{
		Stylesheet:  assets.DefaultStyle,
		FontSize:    DefaultFontSize,
		TextColor:   DefaultTextColor,
		AccentColor: DefaultAccentColor,
		CodeStyle:   DefaultCodeStyle,
		Math:        true,
	}
}

// Validate checks that style settings are valid.
// Returns nil if s is nil (nil means use defaults).
func (s *Style) Validate() error {
	if s == nil {
		return nil
	}

	if s.Stylesheet != "" {
		if err := assets.ValidateAssetName(s.Stylesheet); err != nil {
			return fmt.Errorf("%w: %v", ErrStyleNotFound, err)
		}
	}

	if s.FontSize != 0 && (s.FontSize < MinFontSize || s.FontSize > MaxFontSize) {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidFontSize, s.FontSize, MinFontSize, MaxFontSize)
	}

	for _, c := range []struct{ name, value string }{
		{"text", s.TextColor},
		{"accent", s.AccentColor},
	} {
		if c.value != "" && !hexColorPattern.MatchString(c.value) {
			return fmt.Errorf("%w: %s color %q (must be #RRGGBB)", ErrInvalidColor, c.name, c.value)
		}
	}

	if s.CodeStyle != "" && !pipeline.IsCodeStyle(s.CodeStyle) {
		return fmt.Errorf("%w: %q%s", ErrInvalidCodeStyle, s.CodeStyle, hints.ForCodeStyle())
	}

	return nil
}

// Format names an output of a conversion.
type Format string

// Output formats.
const (
	FormatHTML Format = "html"
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

// AllFormats lists every output format in production order.
var AllFormats = []Format{FormatHTML, FormatDOCX, FormatPDF}

// Ext returns the file extension for the format, with the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormats parses a comma-separated format list such as "docx,pdf".
// Names are case-insensitive; duplicates are dropped.
func ParseFormats(s string) ([]Format, error) {
	var formats []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(s, ",") {
		name := Format(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		if !name.valid() {
			return nil, fmt.Errorf("%w: %q%s", ErrInvalidFormat, part, hints.ForFormats(formatNames()))
		}
		if !seen[name] {
			seen[name] = true
			formats = append(formats, name)
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidFormat)
	}
	return formats, nil
}

func formatNames() []string {
	names := make([]string, len(AllFormats))
	for i, f := range AllFormats {
		names[i] = string(f)
	}
	return names
}

func (f Format) valid() bool {
	for _, k := range AllFormats {
		if f == k {
			return true
		}
	}
	return false
}

// Input contains conversion parameters.
type Input struct {
	Markdown string        // lesson markdown (required)
	Topic    string        // title and filename stem; defaults to the first level-1 heading
	Style    *Style        // nil = DefaultStyle()
	Page     *PageSettings // nil = DefaultPageSettings()
	Formats  []Format      // empty = HTML and DOCX, which need no browser
}

// Result holds the outputs produced by a conversion. Fields for formats
// that were not requested are nil.
type Result struct {
	Title string // resolved document title
	HTML  []byte // inline-styled fragment
	Page  []byte // standalone HTML document wrapping HTML
	DOCX  []byte
	PDF   []byte
	Pages int // number of PDF sheets
}

// Output returns the file content for a format. HTML output is the
// standalone page, which opens on its own in a browser.
func (r *Result) Output(f Format) []byte {
	switch f {
	case FormatHTML:
		return r.Page
	case FormatDOCX:
		return r.DOCX
	case FormatPDF:
		return r.PDF
	}
	return nil
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout   time.Duration
	assetPath string
	creator   string
	language  string
	now       func() time.Time
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the browser timeout of the PDF path.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("lessondoc: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger receiving per-stage debug records.
// A nil logger keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded assets for anything dir does not provide.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithCreator sets the author recorded in the .docx core properties.
func WithCreator(name string) Option {
	return func(c *Converter) {
		c.cfg.creator = name
	}
}

// WithLanguage sets the language tag of the HTML page and the document.
func WithLanguage(tag string) Option {
	return func(c *Converter) {
		c.cfg.language = tag
	}
}

// WithClock sets the clock that stamps the .docx creation time.
// A nil clock keeps time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.cfg.now = now
		}
	}
}
