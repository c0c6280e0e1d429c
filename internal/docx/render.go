package docx

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-lessondoc/internal/markdown"
)

// Page sizes in twips (1/1440 inch) with 20 mm margins.
var (
	A4     = PageGeometry{Width: 11906, Height: 16838, Margin: 1134}
	Letter = PageGeometry{Width: 12240, Height: 15840, Margin: 1134}
	Legal  = PageGeometry{Width: 12240, Height: 20160, Margin: 1134}
)

// Style IDs written into styles.xml.
const (
	ListStyle = "ListParagraph"
	CodeStyle = "Code"
)

// Run formatting for code and math spans.
const (
	CodeFont      = "Courier New"
	CodeShade     = "F1F1F1"
	MathFont      = "Cambria Math"
	DefaultAccent = "2E7D32"
	DefaultFont   = "Times New Roman"

	// DefaultFontSize is in CSS pixels, like Options.FontSize.
	DefaultFontSize = 16
)

// Numbering identifiers. Bullets share one instance; every ordered group
// gets its own instance so its count restarts.
const (
	BulletNumID       = 1
	bulletAbstractID  = 0
	orderedAbstractID = 1

	// MaxLevel is the deepest numbering level; deeper items are clamped.
	MaxLevel = 8
)

var (
	orderedFormats = []struct{ format, suffix string }{
		{"decimal", "."},
		{"lowerLetter", ")"},
		{"lowerRoman", "."},
	}
	bulletGlyphs = []string{"•", "◦", "▪"}
)

// Options carries the display settings and metadata of a rendered document.
type Options struct {
	Title       string // defaults to the first level-1 heading
	Creator     string
	Identifier  string
	Language    string
	Created     time.Time
	FontFamily  string // a CSS font stack is reduced to its first family
	FontSize    int    // CSS pixels
	TextColor   string // "#RRGGBB" or "RRGGBB"
	AccentColor string
	Page        PageGeometry // zero value means A4 portrait
}

// HeadingStyle returns the style ID for a heading level.
func HeadingStyle(level int) string {
	return fmt.Sprintf("Heading%d", level)
}

// Render maps blocks onto a single-section document.
//
// Headings use the Heading1..Heading4 styles, list items reference bullet or
// ordered numbering at their level, rules become empty paragraphs with a
// bottom border, code blocks become one shaded monospaced paragraph per line,
// and blanks become empty paragraphs. Every span becomes one run.
func Render(blocks []markdown.Block, opts Options) *Document {
	r := newRenderer(blocks, opts)
	for _, b := range blocks {
		r.block(b)
	}
	return r.doc
}

type renderer struct {
	doc    *Document
	accent string

	lists     markdown.ListStack
	groupNum  map[int]int // list level -> numbering instance of the open ordered group
	nextNumID int
}

func newRenderer(blocks []markdown.Block, opts Options) *renderer {
	page := opts.Page
	if page.Width == 0 || page.Height == 0 {
		page = A4
	}

	title := opts.Title
	if title == "" {
		title = markdown.FirstHeading(blocks, 1)
	}

	size := opts.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}

	accent := hexColor(opts.AccentColor)
	if accent == "" {
		accent = DefaultAccent
	}

	font := firstFamily(opts.FontFamily)
	if font == "" {
		font = DefaultFont
	}

	doc := &Document{
		Properties: Properties{
			Title:      title,
			Creator:    opts.Creator,
			Identifier: opts.Identifier,
			Language:   opts.Language,
			Created:    opts.Created,
		},
		Styles: Styles{
			Font:      font,
			Size:      halfPoints(size),
			Color:     hexColor(opts.TextColor),
			Accent:    accent,
			CodeFont:  CodeFont,
			CodeShade: CodeShade,
		},
		Numbering: Numbering{
			Abstracts: []AbstractNum{bulletAbstract(), orderedAbstract()},
			Instances: []NumInstance{{ID: BulletNumID, AbstractID: bulletAbstractID}},
		},
		Sections: []Section{{Page: page}},
	}

	return &renderer{
		doc:       doc,
		accent:    accent,
		groupNum:  make(map[int]int),
		nextNumID: BulletNumID + 1,
	}
}

func (r *renderer) block(b markdown.Block) {
	switch b.Kind {
	case markdown.BlockListItem:
		r.listItem(b)
		return
	case markdown.BlockBlank:
		r.add(Paragraph{})
		return
	}

	r.lists.CloseAll()

	switch b.Kind {
	case markdown.BlockHeading:
		r.add(Paragraph{Style: HeadingStyle(b.Level), Runs: r.runs(b.Spans)})
	case markdown.BlockParagraph:
		r.add(Paragraph{Runs: r.runs(b.Spans)})
	case markdown.BlockRule:
		r.add(Paragraph{BorderBottom: true})
	case markdown.BlockCode:
		lines := b.Lines
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, line := range lines {
			r.add(Paragraph{Style: CodeStyle, Runs: []Run{codeRun(line)}})
		}
	}
}

func (r *renderer) listItem(b markdown.Block) {
	_, opened := r.lists.Enter(b.List, b.Level)
	level := min(b.Level, MaxLevel)

	numID := BulletNumID
	if b.List == markdown.Ordered {
		if opened {
			r.groupNum[b.Level] = r.orderedInstance(level, b.Number)
		}
		numID = r.groupNum[b.Level]
	}

	r.add(Paragraph{
		Style: ListStyle,
		List:  &ListRef{NumID: numID, Level: level},
		Runs:  r.runs(b.Spans),
	})
}

func (r *renderer) orderedInstance(level, start int) int {
	id := r.nextNumID
	r.nextNumID++
	r.doc.Numbering.Instances = append(r.doc.Numbering.Instances, NumInstance{
		ID:         id,
		AbstractID: orderedAbstractID,
		Restart:    true,
		StartLevel: level,
		Start:      start,
	})
	return id
}

func (r *renderer) add(p Paragraph) {
	sec := &r.doc.Sections[len(r.doc.Sections)-1]
	sec.Paragraphs = append(sec.Paragraphs, p)
}

func (r *renderer) runs(spans []markdown.Span) []Run {
	if len(spans) == 0 {
		return nil
	}
	runs := make([]Run, 0, len(spans))
	for _, s := range spans {
		runs = append(runs, r.run(s))
	}
	return runs
}

func (r *renderer) run(s markdown.Span) Run {
	switch s.Kind {
	case markdown.SpanBold:
		return Run{Text: s.Text, Bold: true}
	case markdown.SpanItalic:
		return Run{Text: s.Text, Italic: true}
	case markdown.SpanStrike:
		return Run{Text: s.Text, Strike: true}
	case markdown.SpanCode:
		return codeRun(s.Text)
	case markdown.SpanMath:
		return Run{Text: s.Text, Italic: true, Font: MathFont, Color: r.accent}
	default:
		return Run{Text: s.Text}
	}
}

func codeRun(text string) Run {
	return Run{Text: text, Font: CodeFont, Shading: CodeShade}
}

func bulletAbstract() AbstractNum {
	a := AbstractNum{ID: bulletAbstractID}
	for lvl := 0; lvl <= MaxLevel; lvl++ {
		a.Levels = append(a.Levels, NumLevel{
			Level:  lvl,
			Format: "bullet",
			Text:   bulletGlyphs[lvl%len(bulletGlyphs)],
			Indent: levelIndent(lvl),
		})
	}
	return a
}

// orderedAbstract cycles decimal "%1.", lowerLetter "%2)" and lowerRoman
// "%3." through the nine levels.
func orderedAbstract() AbstractNum {
	a := AbstractNum{ID: orderedAbstractID}
	for lvl := 0; lvl <= MaxLevel; lvl++ {
		f := orderedFormats[lvl%len(orderedFormats)]
		a.Levels = append(a.Levels, NumLevel{
			Level:  lvl,
			Format: f.format,
			Text:   fmt.Sprintf("%%%d%s", lvl+1, f.suffix),
			Indent: levelIndent(lvl),
		})
	}
	return a
}

func levelIndent(lvl int) int {
	return 720 * (lvl + 1)
}

// halfPoints converts CSS pixels (0.75 pt) to half-points.
func halfPoints(px int) int {
	return px * 3 / 2
}

// hexColor normalizes "#2e7d32" or "2e7d32" to "2E7D32". Anything else
// yields "".
func hexColor(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return ""
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return ""
		}
	}
	return strings.ToUpper(s)
}

// firstFamily returns the first family of a CSS font stack without quotes.
func firstFamily(stack string) string {
	first, _, _ := strings.Cut(stack, ",")
	return strings.Trim(strings.TrimSpace(first), `"'`)
}
