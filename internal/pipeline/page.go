package pipeline

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/alnah/go-lessondoc/internal/assets"
)

// Sentinel errors for page building.
var (
	ErrTemplateParse = errors.New("page template parsing failed")
	ErrPageRender    = errors.New("page template rendering failed")
)

// Page defaults.
const (
	DefaultTitle = "Giáo án"
	DefaultLang  = "vi"
)

// PageOptions controls the standalone document built around a fragment.
// Empty fields leave the stylesheet's own values in place.
type PageOptions struct {
	Title       string
	Lang        string
	Stylesheet  string // asset name, defaults to assets.DefaultStyle
	FontFamily  string
	FontSize    int // CSS pixels
	TextColor   string
	AccentColor string
	Margin      string // CSS length, e.g. "20mm"
	Math        bool   // include the math auto-render scripts
	Assets      assets.AssetLoader
}

type pageData struct {
	Title string
	Lang  string
	CSS   template.CSS
	Body  template.HTML
	Math  bool
}

// BuildPage wraps an HTML fragment into a standalone HTML5 document using the
// "page" template and the configured stylesheet. Display settings become CSS
// custom properties read by the stylesheet.
func BuildPage(fragment string, opts PageOptions) (string, error) {
	loader := opts.Assets
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}

	styleName := opts.Stylesheet
	if styleName == "" {
		styleName = assets.DefaultStyle
	}
	css, err := loader.LoadStyle(styleName)
	if err != nil {
		return "", err
	}

	tmpl, err := loadTemplate(loader, assets.PageTemplate)
	if err != nil {
		return "", err
	}

	data := pageData{
		Title: firstNonEmpty(opts.Title, DefaultTitle),
		Lang:  firstNonEmpty(opts.Lang, DefaultLang),
		CSS:   template.CSS(sanitizeCSS(css + "\n" + opts.variables())), // #nosec G203 -- sanitized
		Body:  template.HTML(fragment),                                  // #nosec G203 -- produced by RenderHTML
		Math:  opts.Math,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// variables renders the display settings as a :root rule.
func (o PageOptions) variables() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	decl := func(name, value string) {
		if value = cssValue(value); value != "" {
			b.WriteString("  " + name + ": " + value + ";\n")
		}
	}
	decl("--lesson-font", o.FontFamily)
	if o.FontSize > 0 {
		decl("--lesson-size", strconv.Itoa(o.FontSize)+"px")
	}
	decl("--lesson-color", o.TextColor)
	decl("--lesson-accent", o.AccentColor)
	decl("--lesson-margin", o.Margin)
	b.WriteString("}\n")
	return b.String()
}

type sheetsData struct {
	Width  float64
	Height float64
	Pages  []template.URL
}

// BuildSheets lays PNG page images out one per printed sheet of the given
// size in millimetres. The result is meant to be printed with zero margins.
func BuildSheets(pages [][]byte, widthMM, heightMM float64, loader assets.AssetLoader) (string, error) {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}

	tmpl, err := loadTemplate(loader, assets.SheetsTemplate)
	if err != nil {
		return "", err
	}

	data := sheetsData{Width: widthMM, Height: heightMM}
	for _, png := range pages {
		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
		data.Pages = append(data.Pages, template.URL(uri)) // #nosec G203 -- data URI built here
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

func loadTemplate(loader assets.AssetLoader, name string) (*template.Template, error) {
	content, err := loader.LoadTemplate(name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, name, err)
	}
	return tmpl, nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// cssValue keeps a setting inside a single declaration.
func cssValue(v string) string {
	v = strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '\n', '\r':
			return -1
		}
		return r
	}, v)
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
