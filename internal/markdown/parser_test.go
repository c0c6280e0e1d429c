package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// numbered sets the source ordinal of an ordered list item.
func numbered(n int, b Block) Block {
	b.Number = n
	return b
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Block
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "headings one to four",
			input: "# A\n## B\n### C\n#### D",
			want: []Block{
				Heading(1, Plain("A")),
				Heading(2, Plain("B")),
				Heading(3, Plain("C")),
				Heading(4, Plain("D")),
			},
		},
		{
			name:  "five hashes is a paragraph",
			input: "##### E",
			want:  []Block{Paragraph(Plain("##### E"))},
		},
		{
			name:  "hash without space is a paragraph",
			input: "#tag",
			want:  []Block{Paragraph(Plain("#tag"))},
		},
		{
			name:  "heading spans are tokenized",
			input: "## **I. MỤC TIÊU**",
			want:  []Block{Heading(2, Span{Kind: SpanBold, Text: "I. MỤC TIÊU"})},
		},
		{
			name:  "nested bullets by two spaces",
			input: "  - item\n    - nested",
			want: []Block{
				ListItem(Unordered, 1, Plain("item")),
				ListItem(Unordered, 2, Plain("nested")),
			},
		},
		{
			name:  "list type switch at same level",
			input: "1. a\n2. b\n- c",
			want: []Block{
				ListItem(Ordered, 0, Plain("a")),
				numbered(2, ListItem(Ordered, 0, Plain("b"))),
				ListItem(Unordered, 0, Plain("c")),
			},
		},
		{
			name:  "asterisk bullet",
			input: "* one",
			want:  []Block{ListItem(Unordered, 0, Plain("one"))},
		},
		{
			name:  "ordered number is kept",
			input: "3. third",
			want:  []Block{numbered(3, ListItem(Ordered, 0, Plain("third")))},
		},
		{
			name:  "ordered item text after extra spaces",
			input: "1.   spaced",
			want:  []Block{ListItem(Ordered, 0, Plain("spaced"))},
		},
		{
			name:  "number without space is a paragraph",
			input: "2024.",
			want:  []Block{Paragraph(Plain("2024."))},
		},
		{
			name:  "fenced code is not tokenized",
			input: "```\nraw *text*\n```",
			want:  []Block{CodeBlock("", "raw *text*")},
		},
		{
			name:  "fence keeps indentation and language",
			input: "```python\ndef f():\n    return 1\n```",
			want:  []Block{CodeBlock("python", "def f():", "    return 1")},
		},
		{
			name:  "fence with language inside code is content",
			input: "```\n```go\n```",
			want:  []Block{CodeBlock("", "```go")},
		},
		{
			name:  "unterminated fence consumes the rest",
			input: "```\n# not a heading\n- not a list",
			want:  []Block{CodeBlock("", "# not a heading", "- not a list")},
		},
		{
			name:  "empty fence",
			input: "```\n```",
			want:  []Block{CodeBlock("")},
		},
		{
			name:  "rule of asterisks",
			input: "***",
			want:  []Block{Rule()},
		},
		{
			name:  "rules of dashes and underscores",
			input: "---\n_____",
			want:  []Block{Rule(), Rule()},
		},
		{
			name:  "mixed rule characters are a paragraph",
			input: "-*-",
			want:  []Block{Paragraph(Plain("-*-"))},
		},
		{
			name:  "rule wins over bullet",
			input: "- a\n---",
			want:  []Block{ListItem(Unordered, 0, Plain("a")), Rule()},
		},
		{
			name:  "blank lines are kept",
			input: "a\n\nb",
			want:  []Block{Paragraph(Plain("a")), Blank(), Paragraph(Plain("b"))},
		},
		{
			name:  "whitespace-only line is blank",
			input: "a\n   \nb",
			want:  []Block{Paragraph(Plain("a")), Blank(), Paragraph(Plain("b"))},
		},
		{
			name:  "trailing newline adds no block",
			input: "a\n",
			want:  []Block{Paragraph(Plain("a"))},
		},
		{
			name:  "carriage returns are dropped",
			input: "# A\r\nb\r",
			want:  []Block{Heading(1, Plain("A")), Paragraph(Plain("b"))},
		},
		{
			name:  "paragraph is trimmed",
			input: "   indented text  ",
			want:  []Block{Paragraph(Plain("indented text"))},
		},
		{
			name:  "tab indents one level",
			input: "- a\n\t- b",
			want: []Block{
				ListItem(Unordered, 0, Plain("a")),
				ListItem(Unordered, 1, Plain("b")),
			},
		},
		{
			name:  "odd indentation rounds down",
			input: "- a\n   - b",
			want: []Block{
				ListItem(Unordered, 0, Plain("a")),
				ListItem(Unordered, 1, Plain("b")),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Parse(tt.input)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_LessonPlan(t *testing.T) {
	t.Parallel()

	input := "**TÊN BÀI DẠY:** Phân số\n" +
		"*   **Môn học:** Toán; **Lớp:** 6\n" +
		"\n" +
		"**I. MỤC TIÊU**\n" +
		"1.  **Về kiến thức:** so sánh $\\frac{a}{b}$\n" +
		"2.  **Về năng lực:**\n" +
		"    *   **Năng lực chung:** hợp tác\n"

	blocks := Parse(input)

	kinds := make([]BlockKind, len(blocks))
	for i, b := range blocks {
		kinds[i] = b.Kind
	}
	wantKinds := []BlockKind{
		BlockParagraph, BlockListItem, BlockBlank, BlockParagraph,
		BlockListItem, BlockListItem, BlockListItem,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("block kinds mismatch (-want +got):\n%s", diff)
	}

	nested := blocks[6]
	if nested.List != Unordered || nested.Level != 2 {
		t.Errorf("nested item = (%v, %d), want (unordered, 2)", nested.List, nested.Level)
	}

	math := blocks[4].Spans[len(blocks[4].Spans)-1]
	if math.Kind != SpanMath || math.Text != `\frac{a}{b}` {
		t.Errorf("last span of first objective = %+v, want math \\frac{a}{b}", math)
	}
}

func TestFirstHeading(t *testing.T) {
	t.Parallel()

	blocks := Parse("intro\n## Sub\n# **Main** title\n# Second")
	if got := FirstHeading(blocks, 1); got != "Main title" {
		t.Errorf("FirstHeading(1) = %q, want %q", got, "Main title")
	}
	if got := FirstHeading(blocks, 3); got != "" {
		t.Errorf("FirstHeading(3) = %q, want empty", got)
	}
}
