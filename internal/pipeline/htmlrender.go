package pipeline

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-lessondoc/internal/markdown"
)

// MathClass marks the element holding one formula.
const MathClass = "math"

// HTMLOption configures RenderHTML.
type HTMLOption func(*htmlRenderer)

// WithHighlighting renders fenced code blocks that name a known language
// through chroma using the given style. Unknown styles fall back to chroma's
// default; unknown languages render as plain escaped code.
func WithHighlighting(style string) HTMLOption {
	return func(r *htmlRenderer) {
		r.highlighter = newHighlighter(style)
	}
}

// RenderHTML renders blocks as an HTML fragment.
//
// All literal text is escaped before markup is added. Consecutive list items
// are grouped with markdown.ListStack: deeper items open a container nested in
// the open <li>, a kind switch at the same level starts a new container, blank
// blocks leave groups open, and every other block closes them. Math spans keep
// their "$" delimiters inside a MathClass element; the typesetting pass only
// looks inside those, so dollar signs in plain text stay literal.
func RenderHTML(blocks []markdown.Block, opts ...HTMLOption) string {
	r := &htmlRenderer{}
	for _, opt := range opts {
		opt(r)
	}
	for _, b := range blocks {
		r.block(b)
	}
	r.closeLists(r.lists.CloseAll())
	return r.buf.String()
}

type htmlRenderer struct {
	buf         strings.Builder
	lists       markdown.ListStack
	highlighter *highlighter
}

func (r *htmlRenderer) block(b markdown.Block) {
	switch b.Kind {
	case markdown.BlockListItem:
		r.listItem(b)
		return
	case markdown.BlockBlank:
		return
	}

	r.closeLists(r.lists.CloseAll())

	switch b.Kind {
	case markdown.BlockHeading:
		tag := "h" + strconv.Itoa(b.Level)
		r.buf.WriteString("<" + tag + ">")
		r.spans(b.Spans)
		r.buf.WriteString("</" + tag + ">\n")
	case markdown.BlockParagraph:
		r.buf.WriteString("<p>")
		r.spans(b.Spans)
		r.buf.WriteString("</p>\n")
	case markdown.BlockRule:
		r.buf.WriteString("<hr />\n")
	case markdown.BlockCode:
		r.code(b)
	}
}

func (r *htmlRenderer) listItem(b markdown.Block) {
	closed, opened := r.lists.Enter(b.List, b.Level)
	r.closeLists(closed)

	if opened {
		r.buf.WriteString("<" + listTag(b.List))
		if b.List == markdown.Ordered && b.Number != 1 {
			r.buf.WriteString(` start="` + strconv.Itoa(b.Number) + `"`)
		}
		r.buf.WriteString(">\n")
	} else {
		r.buf.WriteString("</li>\n")
	}

	// The <li> stays open so a deeper group can nest inside it.
	r.buf.WriteString("<li>")
	r.spans(b.Spans)
}

func (r *htmlRenderer) closeLists(frames []markdown.ListFrame) {
	for _, f := range frames {
		r.buf.WriteString("</li>\n</" + listTag(f.Kind) + ">\n")
	}
}

func (r *htmlRenderer) code(b markdown.Block) {
	text := strings.Join(b.Lines, "\n")

	if r.highlighter != nil && b.Lang != "" {
		if out, ok := r.highlighter.highlight(b.Lang, text); ok {
			r.buf.WriteString(out)
			return
		}
	}

	r.buf.WriteString("<pre><code")
	if b.Lang != "" {
		r.buf.WriteString(` class="language-`)
		r.escape(b.Lang)
		r.buf.WriteString(`"`)
	}
	r.buf.WriteString(">")
	r.escape(text)
	r.buf.WriteString("</code></pre>\n")
}

func (r *htmlRenderer) spans(spans []markdown.Span) {
	for _, s := range spans {
		switch s.Kind {
		case markdown.SpanBold:
			r.wrap("strong", s.Text)
		case markdown.SpanItalic:
			r.wrap("em", s.Text)
		case markdown.SpanStrike:
			r.wrap("s", s.Text)
		case markdown.SpanCode:
			r.wrap("code", s.Text)
		case markdown.SpanMath:
			class, delim := MathClass, "$"
			if s.Display {
				class, delim = MathClass+" "+MathClass+"-display", "$$"
			}
			r.buf.WriteString(`<span class="` + class + `">` + delim)
			r.escape(s.Text)
			r.buf.WriteString(delim + "</span>")
		default:
			r.escape(s.Text)
		}
	}
}

func (r *htmlRenderer) wrap(tag, text string) {
	r.buf.WriteString("<" + tag + ">")
	r.escape(text)
	r.buf.WriteString("</" + tag + ">")
}

func (r *htmlRenderer) escape(text string) {
	r.buf.Write(util.EscapeHTML([]byte(text)))
}

func listTag(kind markdown.ListKind) string {
	if kind == markdown.Ordered {
		return "ol"
	}
	return "ul"
}
