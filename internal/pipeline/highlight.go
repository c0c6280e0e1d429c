package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/util"
)

// DefaultCodeStyle is the chroma style used when none is configured.
const DefaultCodeStyle = "github"

// IsCodeStyle reports whether name is a registered chroma style.
func IsCodeStyle(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}

// highlighter renders code with inline styles so the fragment needs no
// companion stylesheet.
type highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newHighlighter(styleName string) *highlighter {
	return &highlighter{
		style: styles.Get(styleName),
		formatter: chromahtml.New(
			chromahtml.WithClasses(false),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// highlight returns a complete <pre> element, or false when the language is
// unknown or tokenizing fails.
func (h *highlighter) highlight(lang, code string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var body strings.Builder
	if err := h.formatter.Format(&body, h.style, it); err != nil {
		return "", false
	}

	var out strings.Builder
	out.WriteString(`<pre class="chroma"`)
	if bg := h.style.Get(chroma.Background).Background; bg.IsSet() {
		out.WriteString(` style="background-color:` + bg.String() + `"`)
	}
	out.WriteString(`><code class="language-`)
	out.Write(util.EscapeHTML([]byte(lang)))
	out.WriteString(`">`)
	out.WriteString(body.String())
	out.WriteString("</code></pre>\n")
	return out.String(), true
}
