// Package pipeline turns parsed lesson blocks into HTML.
//
// The stages are:
//   - markdown preprocessing (byte order mark, line endings)
//   - block rendering to an HTML fragment, with optional chroma highlighting
//   - wrapping the fragment into a standalone page with the lesson stylesheet
//     and display settings
//   - laying captured page images out for printing
//
// Rasterizing and printing are handled by the root lessondoc package using
// headless Chrome (go-rod); this package never touches a browser.
package pipeline
