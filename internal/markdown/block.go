package markdown

// SpanKind identifies the style of an inline span.
type SpanKind int

// Inline span kinds.
const (
	SpanPlain SpanKind = iota
	SpanBold
	SpanItalic
	SpanStrike
	SpanCode
	SpanMath
)

var spanKindNames = [...]string{
	SpanPlain:  "plain",
	SpanBold:   "bold",
	SpanItalic: "italic",
	SpanStrike: "strike",
	SpanCode:   "code",
	SpanMath:   "math",
}

func (k SpanKind) String() string {
	if k < 0 || int(k) >= len(spanKindNames) {
		return "unknown"
	}
	return spanKindNames[k]
}

// Span is a styled run of text inside a block. Text never includes the
// delimiters that produced the span.
type Span struct {
	Kind    SpanKind
	Text    string
	Display bool // math delimited by $$...$$
}

// Plain returns a plain span.
func Plain(text string) Span { return Span{Kind: SpanPlain, Text: text} }

// BlockKind identifies a structural block.
type BlockKind int

// Block kinds.
const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockCode
	BlockRule
	BlockBlank
)

var blockKindNames = [...]string{
	BlockParagraph: "paragraph",
	BlockHeading:   "heading",
	BlockListItem:  "list item",
	BlockCode:      "code block",
	BlockRule:      "rule",
	BlockBlank:     "blank",
}

func (k BlockKind) String() string {
	if k < 0 || int(k) >= len(blockKindNames) {
		return "unknown"
	}
	return blockKindNames[k]
}

// ListKind distinguishes numbered from bulleted list items.
type ListKind int

// List kinds.
const (
	Unordered ListKind = iota
	Ordered
)

func (k ListKind) String() string {
	if k == Ordered {
		return "ordered"
	}
	return "unordered"
}

// MaxHeadingLevel is the deepest heading the grammar recognizes.
const MaxHeadingLevel = 4

// Block is one structural unit of a parsed document. Which fields are
// meaningful depends on Kind:
//
//   - BlockHeading: Level (1..4), Spans
//   - BlockParagraph: Spans
//   - BlockListItem: List, Level (nesting depth from 0), Number, Spans
//   - BlockCode: Lines, Lang
//   - BlockRule, BlockBlank: nothing
type Block struct {
	Kind   BlockKind
	Level  int
	List   ListKind
	Number int // ordinal written in the source, ordered items only
	Spans  []Span
	Lines  []string
	Lang   string
}

// Heading returns a heading block.
func Heading(level int, spans ...Span) Block {
	return Block{Kind: BlockHeading, Level: level, Spans: spans}
}

// Paragraph returns a paragraph block.
func Paragraph(spans ...Span) Block {
	return Block{Kind: BlockParagraph, Spans: spans}
}

// ListItem returns a list item block. Ordered items default to number 1;
// set Number on the result to change it.
func ListItem(kind ListKind, level int, spans ...Span) Block {
	b := Block{Kind: BlockListItem, List: kind, Level: level, Spans: spans}
	if kind == Ordered {
		b.Number = 1
	}
	return b
}

// CodeBlock returns a fenced code block.
func CodeBlock(lang string, lines ...string) Block {
	return Block{Kind: BlockCode, Lang: lang, Lines: lines}
}

// Rule returns a horizontal rule block.
func Rule() Block { return Block{Kind: BlockRule} }

// Blank returns a blank line marker.
func Blank() Block { return Block{Kind: BlockBlank} }

// FirstHeading returns the text of the first heading of the given level,
// with inline markers stripped. Returns "" when there is none.
func FirstHeading(blocks []Block, level int) string {
	for _, b := range blocks {
		if b.Kind == BlockHeading && b.Level == level {
			return SpanText(b.Spans)
		}
	}
	return ""
}

// SpanText concatenates the text of spans, dropping all styling.
func SpanText(spans []Span) string {
	switch len(spans) {
	case 0:
		return ""
	case 1:
		return spans[0].Text
	}
	n := 0
	for _, s := range spans {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range spans {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
