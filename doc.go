// Package lessondoc turns lesson-plan markdown into an HTML page, a .docx
// document and an image-based PDF.
//
// # Quick Start
//
//	conv, err := lessondoc.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, lessondoc.Input{
//	    Markdown: plan,
//	    Topic:    "Phân số",
//	    Formats:  []lessondoc.Format{lessondoc.FormatDOCX, lessondoc.FormatPDF},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(lessondoc.Filename(result.Title, "docx"), result.DOCX, 0o644)
//
// # Conversion Pipeline
//
//  1. Preprocessing (byte order mark, line endings)
//  2. Parsing into a flat list of blocks: headings, list items, code, rules
//  3. HTML rendering of the blocks, wrapped in a styled standalone page
//  4. .docx rendering of the same blocks, with real list numbering
//  5. PDF capture: the page is screenshotted in headless Chrome, cut into
//     sheets and printed back, so the PDF matches what the browser shows
//
// Parsing and both renderers never fail. Only the .docx packaging and the
// browser steps return errors.
//
// # Display Settings
//
// Style carries the font family, font size, text and accent colours, the
// code highlighting style and whether formulas are typeset. PageSettings
// carries paper size, orientation and margin. Both apply to the HTML page
// and the .docx document alike.
//
// # Parallel Processing
//
// For batch conversion, ConverterPool hands each worker its own converter
// and browser:
//
//	pool := lessondoc.NewConverterPool(lessondoc.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// Only the PDF format needs Chrome/Chromium. go-rod downloads a managed
// Chromium on first use (~/.cache/rod/browser/). In containers and CI set
// ROD_NO_SANDBOX=1; ROD_BROWSER_BIN selects a custom binary.
package lessondoc
