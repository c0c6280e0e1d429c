package lessondoc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-lessondoc/internal/assets"
	"github.com/alnah/go-lessondoc/internal/docx"
	"github.com/alnah/go-lessondoc/internal/hints"
	"github.com/alnah/go-lessondoc/internal/markdown"
	"github.com/alnah/go-lessondoc/internal/pipeline"
)

var _ pipeline.MarkdownPreprocessor = (*pipeline.LessonPreprocessor)(nil)

// defaultFormats need no browser.
var defaultFormats = []Format{FormatHTML, FormatDOCX}

// Converter orchestrates the lesson pipeline: markdown is parsed once into
// blocks, which the HTML and .docx renderers consume independently. The PDF
// path captures the rendered HTML page in a headless browser.
// Create with NewConverter, use Convert for conversion, and Close when done.
type Converter struct {
	cfg          converterConfig
	logger       *slog.Logger
	assets       assets.AssetLoader
	preprocessor pipeline.MarkdownPreprocessor
	capturer     surfaceCapturer
}

// NewConverter creates a Converter with default configuration.
// The browser is only started by the first conversion that asks for PDF.
// Returns error if the asset path is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:  defaultTimeout,
			language: pipeline.DefaultLang,
			now:      time.Now,
		},
		logger:       slog.New(slog.DiscardHandler),
		assets:       assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.LessonPreprocessor{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assets = resolver
	}

	if c.capturer == nil {
		c.capturer = newRodCapturer(c.cfg.timeout, c.logger)
	}

	return c, nil
}

// Convert runs the pipeline for the requested formats.
// The context is used for cancellation and bounds the browser work.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	style := input.Style
	if style == nil {
		style = DefaultStyle()
	}
	page := input.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	formats := input.Formats
	if len(formats) == 0 {
		formats = defaultFormats
	}

	start := time.Now()
	md := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	blocks := markdown.Parse(md)
	c.logger.Debug("parsed markdown", "stage", "parse", "blocks", len(blocks), "duration", time.Since(start))

	res := &Result{
		Title: firstNonEmpty(strings.TrimSpace(input.Topic), markdown.FirstHeading(blocks, 1), pipeline.DefaultTitle),
	}

	wantPDF := slices.Contains(formats, FormatPDF)
	if wantPDF || slices.Contains(formats, FormatHTML) {
		if err := c.renderHTML(res, blocks, style, page); err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if slices.Contains(formats, FormatDOCX) {
		if err := c.renderDOCX(res, blocks, style, page); err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if wantPDF {
		start = time.Now()
		pdf, sheets, err := c.capturePDF(ctx, string(res.Page), page, style.Math)
		if err != nil {
			return nil, fmt.Errorf("converting to PDF: %w", err)
		}
		res.PDF, res.Pages = pdf, sheets
		c.logger.Debug("captured PDF", "stage", "capture", "pages", sheets, "bytes", len(pdf), "duration", time.Since(start))
	}

	return res, nil
}

func (c *Converter) renderHTML(res *Result, blocks []markdown.Block, style *Style, page *PageSettings) error {
	start := time.Now()

	var opts []pipeline.HTMLOption
	if style.CodeStyle != "" {
		opts = append(opts, pipeline.WithHighlighting(style.CodeStyle))
	}
	fragment := pipeline.RenderHTML(blocks, opts...)

	doc, err := pipeline.BuildPage(fragment, pipeline.PageOptions{
		Title:       res.Title,
		Lang:        c.cfg.language,
		Stylesheet:  style.Stylesheet,
		FontFamily:  style.FontFamily,
		FontSize:    style.FontSize,
		TextColor:   style.TextColor,
		AccentColor: style.AccentColor,
		Margin:      strconv.FormatFloat(page.Margin, 'f', -1, 64) + "mm",
		Math:        style.Math,
		Assets:      c.assets,
	})
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return fmt.Errorf("%w: %v%s", ErrStyleNotFound, err, hints.ForStyleNotFound(assets.StyleNames()))
		}
		return fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	res.HTML = []byte(fragment)
	res.Page = []byte(doc)
	c.logger.Debug("rendered HTML", "stage", "html", "bytes", len(doc), "duration", time.Since(start))
	return nil
}

func (c *Converter) renderDOCX(res *Result, blocks []markdown.Block, style *Style, page *PageSettings) error {
	start := time.Now()

	doc := docx.Render(blocks, docx.Options{
		Title:       res.Title,
		Creator:     c.cfg.creator,
		Language:    c.cfg.language,
		Created:     c.cfg.now(),
		FontFamily:  style.FontFamily,
		FontSize:    style.FontSize,
		TextColor:   style.TextColor,
		AccentColor: style.AccentColor,
		Page:        page.geometry(),
	})
	data, err := doc.Build()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentBuild, err)
	}

	res.DOCX = data
	c.logger.Debug("built document", "stage", "docx", "paragraphs", paragraphCount(doc), "bytes", len(data), "duration", time.Since(start))
	return nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.capturer != nil {
		return c.capturer.Close()
	}
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their config validated earlier by config.Validate().
func validateInput(input Input) error {
	if strings.TrimSpace(input.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Style.Validate(); err != nil {
		return err
	}
	for _, f := range input.Formats {
		if !f.valid() {
			return fmt.Errorf("%w: %q", ErrInvalidFormat, string(f))
		}
	}
	return nil
}

func paragraphCount(doc *docx.Document) int {
	n := 0
	for _, s := range doc.Sections {
		n += len(s.Paragraphs)
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
