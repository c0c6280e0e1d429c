// Package markdown parses the small markdown dialect used by lesson plans
// into a flat, renderer-agnostic block model.
//
// Supported syntax:
//   - headings "#" through "####"
//   - "-" / "*" bullet items and "N." numbered items, nested by two spaces
//   - fenced code blocks (```), with an optional language
//   - rules made of three or more "*", "-" or "_"
//   - inline **bold**, *italic* / _italic_, ~~strike~~, `code`, $math$ and
//     $$display math$$
//
// Everything else is a paragraph. Neither Parse nor Tokenize can fail.
//
// The model is deliberately flat: list items carry their kind and nesting
// level, and consumers rebuild list structure with ListStack.
package markdown
