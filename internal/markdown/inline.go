package markdown

import "strings"

// delimiter describes one inline construct. Opener and closer are the same
// marker. accept, when set, vets a candidate pair: open is the index of the
// opening marker, close the index of the closing marker and width the marker
// length.
type delimiter struct {
	marker  string
	kind    SpanKind
	display bool
	accept  func(line string, open, close, width int) bool
}

// delimiters are tried in priority order at every position. Longer markers
// precede their single-character prefixes so "**" wins over "*".
var delimiters = []delimiter{
	{marker: "$$", kind: SpanMath, display: true},
	{marker: "$", kind: SpanMath, accept: acceptInlineMath},
	{marker: "`", kind: SpanCode},
	{marker: "**", kind: SpanBold, accept: acceptEmphasis},
	{marker: "~~", kind: SpanStrike, accept: acceptEmphasis},
	{marker: "*", kind: SpanItalic, accept: acceptEmphasis},
	{marker: "__", kind: SpanBold, accept: acceptUnderscore},
	{marker: "_", kind: SpanItalic, accept: acceptUnderscore},
}

// Tokenize splits one line of text into inline spans.
//
// The line is scanned once from left to right. At each position the
// delimiters are tried in priority order; the first one with a closing marker
// later on the line claims the text between them. Claimed text is never
// scanned again, so spans cannot overlap or nest. Markers without a partner
// stay in the surrounding plain text.
func Tokenize(line string) []Span {
	var spans []Span
	plainStart := 0
	for i := 0; i < len(line); {
		if !isMarkerByte(line[i]) {
			i++
			continue
		}
		d, closeAt, ok := matchAt(line, i)
		if !ok {
			i++
			continue
		}
		spans = appendPlain(spans, line[plainStart:i])
		spans = append(spans, Span{
			Kind:    d.kind,
			Text:    line[i+len(d.marker) : closeAt],
			Display: d.display,
		})
		i = closeAt + len(d.marker)
		plainStart = i
	}
	return appendPlain(spans, line[plainStart:])
}

// matchAt returns the highest-priority delimiter opening at i together with
// the index of its closing marker.
func matchAt(line string, i int) (delimiter, int, bool) {
	for _, d := range delimiters {
		if !strings.HasPrefix(line[i:], d.marker) {
			continue
		}
		// The interior holds at least one byte.
		from := i + len(d.marker) + 1
		if from > len(line) {
			continue
		}
		j := strings.Index(line[from:], d.marker)
		if j < 0 {
			continue
		}
		closeAt := from + j
		if d.accept != nil && !d.accept(line, i, closeAt, len(d.marker)) {
			continue
		}
		return d, closeAt, true
	}
	return delimiter{}, 0, false
}

func appendPlain(spans []Span, text string) []Span {
	if text == "" {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].Kind == SpanPlain {
		spans[n-1].Text += text
		return spans
	}
	return append(spans, Plain(text))
}

func isMarkerByte(c byte) bool {
	switch c {
	case '$', '`', '*', '~', '_':
		return true
	}
	return false
}

// acceptEmphasis rejects pairs whose interior starts or ends with whitespace
// or with the marker character, so "2 * 3 * 4" and "***" stay literal and a
// styled span never carries part of a marker.
func acceptEmphasis(line string, open, close, width int) bool {
	inner := line[open+width : close]
	first, last := inner[0], inner[len(inner)-1]
	if first == line[open] || last == line[open] {
		return false
	}
	return !isSpace(first) && !isSpace(last)
}

// acceptUnderscore applies the emphasis rules and also refuses intraword
// underscores, so identifiers like snake_case_name stay literal.
func acceptUnderscore(line string, open, close, width int) bool {
	if !acceptEmphasis(line, open, close, width) {
		return false
	}
	if open > 0 && isAlnum(line[open-1]) {
		return false
	}
	if after := close + width; after < len(line) && isAlnum(line[after]) {
		return false
	}
	return true
}

// acceptInlineMath keeps prices such as "$5 and $10" out of math: the
// formula may not start or end with whitespace and the closing "$" may not
// be followed by a digit.
func acceptInlineMath(line string, open, close, width int) bool {
	inner := line[open+width : close]
	if isSpace(inner[0]) || isSpace(inner[len(inner)-1]) {
		return false
	}
	if after := close + width; after < len(line) && isDigit(line[after]) {
		return false
	}
	return true
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
