package pipeline

import (
	"context"
	"regexp"
	"strings"
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// LessonPreprocessor prepares generated lesson text for parsing.
type LessonPreprocessor struct{}

// PreprocessMarkdown strips a leading byte order mark and converts \r\n and
// \r line endings to \n. Line structure is otherwise preserved: blank lines
// and code fence contents reach the parser untouched.
func (p *LessonPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, "\uFEFF")
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// Compile-time interface check.
var _ MarkdownPreprocessor = (*LessonPreprocessor)(nil)
