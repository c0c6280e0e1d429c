package markdown

import (
	"strconv"
	"strings"
)

// Parse converts markdown text into a flat sequence of blocks.
//
// The text is read one line at a time. Parse never fails: anything that is
// not a recognized construct becomes a paragraph. Line endings must already
// be "\n"; a trailing "\r" on a line is dropped. A final "\n" terminates the
// last line and does not start a new one.
func Parse(text string) []Block {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	p := &parser{}
	for _, line := range strings.Split(text, "\n") {
		p.line(strings.TrimSuffix(line, "\r"))
	}
	p.finish()
	return p.blocks
}

type parser struct {
	blocks []Block
	lists  ListStack

	inFence bool
	code    Block
}

func (p *parser) line(line string) {
	if lang, ok := fenceMarker(line, p.inFence); ok {
		if p.inFence {
			p.closeFence()
		} else {
			p.inFence = true
			p.code = CodeBlock(lang)
		}
		return
	}
	if p.inFence {
		p.code.Lines = append(p.code.Lines, line)
		return
	}

	level := indentWidth(line) / 2
	p.lists.CloseAbove(level)

	trimmed := strings.TrimSpace(line)
	switch {
	case isRule(trimmed):
		p.lists.CloseAll()
		p.emit(Rule())
	case headingLevel(trimmed) > 0:
		n := headingLevel(trimmed)
		p.emit(Heading(n, Tokenize(strings.TrimSpace(trimmed[n+1:]))...))
	default:
		if b, ok := p.listItem(trimmed, level); ok {
			p.emit(b)
			return
		}
		if trimmed == "" {
			p.emit(Blank())
			return
		}
		p.lists.CloseAll()
		p.emit(Paragraph(Tokenize(trimmed)...))
	}
}

// listItem recognizes "N. text" and "- text" / "* text" items.
func (p *parser) listItem(trimmed string, level int) (Block, bool) {
	var (
		kind   ListKind
		number int
		rest   string
	)
	if n, r, ok := orderedMarker(trimmed); ok {
		kind, number, rest = Ordered, n, r
	} else if r, ok := bulletMarker(trimmed); ok {
		kind, rest = Unordered, r
	} else {
		return Block{}, false
	}

	p.lists.Enter(kind, level)
	b := ListItem(kind, level, Tokenize(rest)...)
	if kind == Ordered {
		b.Number = number
	}
	return b, true
}

func (p *parser) emit(b Block) {
	p.blocks = append(p.blocks, b)
}

func (p *parser) closeFence() {
	p.inFence = false
	p.emit(p.code)
	p.code = Block{}
}

// finish closes an unterminated fence. Open list groups need no trailing
// block: renderers close them when the sequence ends.
func (p *parser) finish() {
	if p.inFence {
		p.closeFence()
	}
	p.lists.CloseAll()
}

// fenceMarker reports whether line toggles a code fence. An opening fence
// may carry an info string, whose first word is returned as the language.
// A closing fence holds nothing but backticks.
func fenceMarker(line string, inFence bool) (lang string, ok bool) {
	trimmed := strings.TrimSpace(line)
	ticks := len(trimmed) - len(strings.TrimLeft(trimmed, "`"))
	if ticks < 3 {
		return "", false
	}
	info := strings.TrimSpace(trimmed[ticks:])
	if inFence {
		return "", info == ""
	}
	if strings.Contains(info, "`") {
		return "", false
	}
	lang, _, _ = strings.Cut(info, " ")
	return lang, true
}

// indentWidth counts leading indentation. A tab counts as one nesting level.
func indentWidth(line string) int {
	n := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			n++
		case '\t':
			n += 2
		default:
			return n
		}
	}
	return n
}

// isRule matches three or more of the same '*', '-' or '_' character.
func isRule(trimmed string) bool {
	if len(trimmed) < 3 {
		return false
	}
	c := trimmed[0]
	if c != '*' && c != '-' && c != '_' {
		return false
	}
	return strings.Count(trimmed, string(c)) == len(trimmed)
}

// headingLevel returns 1..4 for "# " through "#### ", otherwise 0.
func headingLevel(trimmed string) int {
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n == 0 || n > MaxHeadingLevel || n >= len(trimmed) || !isSpace(trimmed[n]) {
		return 0
	}
	return n
}

// orderedMarker matches `^\d+\.\s` and returns the number and the text
// after the marker.
func orderedMarker(trimmed string) (number int, rest string, ok bool) {
	digits := 0
	for digits < len(trimmed) && isDigit(trimmed[digits]) {
		digits++
	}
	if digits == 0 || digits+1 >= len(trimmed) || trimmed[digits] != '.' || !isSpace(trimmed[digits+1]) {
		return 0, "", false
	}
	number, err := strconv.Atoi(trimmed[:digits])
	if err != nil {
		// Too many digits for an int; still a list item.
		number = 1
	}
	return number, strings.TrimSpace(trimmed[digits+1:]), true
}

// bulletMarker matches `^[*-]\s` and returns the text after the marker.
func bulletMarker(trimmed string) (rest string, ok bool) {
	if len(trimmed) < 2 || (trimmed[0] != '-' && trimmed[0] != '*') || !isSpace(trimmed[1]) {
		return "", false
	}
	return strings.TrimSpace(trimmed[1:]), true
}
