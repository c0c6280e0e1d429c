package lessondoc

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-lessondoc/internal/fileutil"
	"github.com/alnah/go-lessondoc/internal/hints"
	"github.com/alnah/go-lessondoc/internal/paging"
	"github.com/alnah/go-lessondoc/internal/pipeline"
	"github.com/alnah/go-lessondoc/internal/process"
)

// surfaceCapturer drives a browser over rendered HTML. The PDF path treats
// the page as a picture: one tall screenshot, cut into sheets, printed back.
type surfaceCapturer interface {
	// Screenshot loads page at a viewport widthPx CSS pixels wide and
	// returns a full-height PNG taken at deviceScale.
	Screenshot(ctx context.Context, page string, widthPx int, waitMath bool) ([]byte, error)
	// PrintPDF loads sheets and prints it with zero margins on paper.
	PrintPDF(ctx context.Context, sheets string, paper paging.Size) ([]byte, error)
	Close() error
}

var _ surfaceCapturer = (*rodCapturer)(nil)

const (
	// cssPixelsPerInch is the browser's layout resolution.
	cssPixelsPerInch = 96

	// deviceScale doubles the capture resolution to paging.DefaultDPI.
	deviceScale = paging.DefaultDPI / cssPixelsPerInch

	// mathWait bounds how long a capture waits for formulas to typeset.
	// The renderer loads from a CDN; offline captures keep the raw source.
	mathWait = 5 * time.Second

	mmPerInch = 25.4
)

// rodCapturer implements surfaceCapturer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodCapturer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
	logger   *slog.Logger
}

func newRodCapturer(timeout time.Duration, logger *slog.Logger) *rodCapturer {
	return &rodCapturer{timeout: timeout, logger: logger}
}

// ensureBrowser lazily starts and connects to the browser.
func (r *rodCapturer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}
	r.launcher = l

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		r.killLauncher()
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}
	r.browser = browser
	r.logger.Debug("browser started", "stage", "capture", "pid", l.PID())
	return nil
}

// Close releases browser resources, including any orphaned child processes.
func (r *rodCapturer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.killLauncher()
	return err
}

func (r *rodCapturer) killLauncher() {
	if r.launcher == nil {
		return
	}
	process.KillProcessGroup(r.launcher.PID())
	r.launcher.Kill()
	r.launcher.Cleanup()
	r.launcher = nil
}

// open writes html to a temp file and loads it in a new tab. widthPx > 0
// sets the viewport first so layout happens at page width.
func (r *rodCapturer) open(ctx context.Context, html string, widthPx int) (*rod.Page, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, nil, err
	}

	path, removeFile, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, nil, err
	}

	tab, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		removeFile()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	cleanup := func() {
		_ = tab.Close()
		removeFile()
	}

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			cleanup()
			return nil, nil, context.DeadlineExceeded
		}
	}
	page := tab.Context(ctx)

	if widthPx > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             widthPx,
			Height:            widthPx * 3 / 2,
			DeviceScaleFactor: deviceScale,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
		}
	}

	if err := page.Timeout(timeout).Navigate("file://" + path); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w: %v%s", ErrPageLoad, err, hints.ForTimeout())
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w: %v%s", ErrPageLoad, err, hints.ForTimeout())
	}

	return page, cleanup, nil
}

// Screenshot captures the whole rendered page as one PNG.
func (r *rodCapturer) Screenshot(ctx context.Context, html string, widthPx int, waitMath bool) ([]byte, error) {
	page, cleanup, err := r.open(ctx, html, widthPx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if waitMath {
		// The page marks <body data-math="done"> once formulas are typeset.
		if _, err := page.Timeout(mathWait).Element(`body[data-math="done"]`); err != nil {
			r.logger.Debug("math not typeset, capturing source text", "stage", "capture", "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shot, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	return shot, nil
}

// PrintPDF prints the sheets document with zero margins.
func (r *rodCapturer) PrintPDF(ctx context.Context, sheets string, paper paging.Size) ([]byte, error) {
	page, cleanup, err := r.open(ctx, sheets, 0)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:        floatPtr(paper.WidthMM / mmPerInch),
		PaperHeight:       floatPtr(paper.HeightMM / mmPerInch),
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// capturePDF runs the image-based PDF path over a standalone page and
// returns the PDF with its sheet count.
func (c *Converter) capturePDF(ctx context.Context, page string, settings *PageSettings, waitMath bool) ([]byte, int, error) {
	paper := settings.paper()
	widthPx, _ := paper.Pixels(cssPixelsPerInch)

	shot, err := c.capturer.Screenshot(ctx, page, widthPx, waitMath)
	if err != nil {
		return nil, 0, err
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: decoding screenshot: %v", ErrCapture, err)
	}

	sheets, err := paging.EncodePNG(paging.Paginate(img, paper))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	c.logger.Debug("paginated capture", "stage", "capture",
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy(), "sheets", len(sheets))

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	doc, err := pipeline.BuildSheets(sheets, paper.WidthMM, paper.HeightMM, c.assets)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := c.capturer.PrintPDF(ctx, doc, paper)
	if err != nil {
		return nil, 0, err
	}
	return pdf, len(sheets), nil
}
