package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for Build.
var (
	ErrNoSections = errors.New("document has no sections")
	ErrWritePart  = errors.New("failed to write package part")
)

// MIME type of a .docx package.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"
	relNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Build serializes the document as a .docx package.
func (d *Document) Build() ([]byte, error) {
	if len(d.Sections) == 0 {
		return nil, ErrNoSections
	}

	props := d.Properties
	if props.Identifier == "" {
		props.Identifier = "urn:uuid:" + uuid.NewString()
	}
	if props.Created.IsZero() {
		props.Created = time.Now()
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"docProps/core.xml", coreXML(props)},
		{"docProps/app.xml", appXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", d.documentXML()},
		{"word/styles.xml", d.Styles.xml()},
		{"word/numbering.xml", d.Numbering.xml()},
	}
	for _, p := range parts {
		if err := writePart(zw, p.name, p.content); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWritePart, err)
	}
	return buf.Bytes(), nil
}

func writePart(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWritePart, name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWritePart, name, err)
	}
	return nil
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const contentTypesXML = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
  <Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
  <Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
  <Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>
</Types>`

const packageRelsXML = xmlHeader + `<Relationships xmlns="` + nsRel + `">
  <Relationship Id="rId1" Type="` + relNS + `/officeDocument" Target="word/document.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
  <Relationship Id="rId3" Type="` + relNS + `/extended-properties" Target="docProps/app.xml"/>
</Relationships>`

const documentRelsXML = xmlHeader + `<Relationships xmlns="` + nsRel + `">
  <Relationship Id="rId1" Type="` + relNS + `/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="` + relNS + `/numbering" Target="numbering.xml"/>
</Relationships>`

const appXML = xmlHeader + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">
  <Application>go-lessondoc</Application>
</Properties>`

func coreXML(p Properties) string {
	created := p.Created.UTC().Format("2006-01-02T15:04:05Z")

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` + "\n")
	optional := func(tag, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  <%s>%s</%s>\n", tag, escapeXML(value), tag)
		}
	}
	optional("dc:title", p.Title)
	optional("dc:creator", p.Creator)
	optional("dc:identifier", p.Identifier)
	optional("dc:language", p.Language)
	fmt.Fprintf(&b, "  <dcterms:created xsi:type=\"dcterms:W3CDTF\">%s</dcterms:created>\n", created)
	fmt.Fprintf(&b, "  <dcterms:modified xsi:type=\"dcterms:W3CDTF\">%s</dcterms:modified>\n", created)
	b.WriteString(`</cp:coreProperties>`)
	return b.String()
}

func (d *Document) documentXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + relNS + `"><w:body>`)

	last := len(d.Sections) - 1
	for i, sec := range d.Sections {
		if i == last {
			for _, p := range sec.Paragraphs {
				writeParagraph(&b, p, "")
			}
			b.WriteString(sectPr(sec.Page))
			break
		}
		// A non-final section ends with a paragraph carrying its properties.
		paras := sec.Paragraphs
		if len(paras) == 0 {
			paras = []Paragraph{{}}
		}
		for j, p := range paras {
			extra := ""
			if j == len(paras)-1 {
				extra = sectPr(sec.Page)
			}
			writeParagraph(&b, p, extra)
		}
	}

	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, p Paragraph, sect string) {
	b.WriteString("<w:p>")

	var ppr strings.Builder
	if p.Style != "" {
		fmt.Fprintf(&ppr, `<w:pStyle w:val="%s"/>`, escapeXML(p.Style))
	}
	if p.List != nil {
		fmt.Fprintf(&ppr, `<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr>`, p.List.Level, p.List.NumID)
	}
	if p.BorderBottom {
		ppr.WriteString(`<w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="auto"/></w:pBdr>`)
	}
	ppr.WriteString(sect)
	if ppr.Len() > 0 {
		b.WriteString("<w:pPr>" + ppr.String() + "</w:pPr>")
	}

	for _, r := range p.Runs {
		writeRun(b, r)
	}
	b.WriteString("</w:p>")
}

func writeRun(b *strings.Builder, r Run) {
	b.WriteString("<w:r>")

	var rpr strings.Builder
	if r.Font != "" {
		f := escapeXML(r.Font)
		fmt.Fprintf(&rpr, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s" w:eastAsia="%s"/>`, f, f, f, f)
	}
	if r.Bold {
		rpr.WriteString(`<w:b/><w:bCs/>`)
	}
	if r.Italic {
		rpr.WriteString(`<w:i/><w:iCs/>`)
	}
	if r.Strike {
		rpr.WriteString(`<w:strike/>`)
	}
	if r.Color != "" {
		fmt.Fprintf(&rpr, `<w:color w:val="%s"/>`, escapeXML(r.Color))
	}
	if r.Shading != "" {
		fmt.Fprintf(&rpr, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, escapeXML(r.Shading))
	}
	if rpr.Len() > 0 {
		b.WriteString("<w:rPr>" + rpr.String() + "</w:rPr>")
	}

	for i, part := range strings.Split(r.Text, "\t") {
		if i > 0 {
			b.WriteString("<w:tab/>")
		}
		if part != "" {
			b.WriteString(`<w:t xml:space="preserve">` + escapeXML(part) + `</w:t>`)
		}
	}
	b.WriteString("</w:r>")
}

func sectPr(p PageGeometry) string {
	w, h := p.Width, p.Height
	orient := ""
	if p.Landscape {
		if w < h {
			w, h = h, w
		}
		orient = ` w:orient="landscape"`
	}
	return fmt.Sprintf(`<w:sectPr><w:pgSz w:w="%d" w:h="%d"%s/>`+
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="708" w:footer="708" w:gutter="0"/>`+
		`</w:sectPr>`, w, h, orient, p.Margin, p.Margin, p.Margin, p.Margin)
}

func (s Styles) xml() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:styles xmlns:w="` + nsW + `">`)

	b.WriteString(`<w:docDefaults><w:rPrDefault><w:rPr>`)
	b.WriteString(fontsXML(s.Font))
	if s.Color != "" {
		fmt.Fprintf(&b, `<w:color w:val="%s"/>`, escapeXML(s.Color))
	}
	fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, s.Size, s.Size)
	b.WriteString(`</w:rPr></w:rPrDefault>`)
	b.WriteString(`<w:pPrDefault><w:pPr><w:spacing w:after="120" w:line="276" w:lineRule="auto"/></w:pPr></w:pPrDefault>`)
	b.WriteString(`</w:docDefaults>`)

	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)

	scale := []struct{ num, den int }{{2, 1}, {8, 5}, {13, 10}, {11, 10}}
	for i, sc := range scale {
		level := i + 1
		size := s.Size * sc.num / sc.den
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="heading %d"/>`, HeadingStyle(level), level)
		b.WriteString(`<w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`)
		fmt.Fprintf(&b, `<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="%d"/></w:pPr>`, i)
		b.WriteString(`<w:rPr><w:b/><w:bCs/>`)
		if level == 1 && s.Accent != "" {
			fmt.Fprintf(&b, `<w:color w:val="%s"/>`, escapeXML(s.Accent))
		}
		fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:style>`, size, size)
	}

	b.WriteString(`<w:style w:type="paragraph" w:styleId="` + ListStyle + `"><w:name w:val="List Paragraph"/>`)
	b.WriteString(`<w:basedOn w:val="Normal"/><w:qFormat/><w:pPr><w:spacing w:after="60"/><w:contextualSpacing/></w:pPr></w:style>`)

	b.WriteString(`<w:style w:type="paragraph" w:styleId="` + CodeStyle + `"><w:name w:val="Code"/>`)
	b.WriteString(`<w:basedOn w:val="Normal"/><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr>`)
	b.WriteString(`<w:rPr>` + fontsXML(s.CodeFont))
	if s.CodeShade != "" {
		fmt.Fprintf(&b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, escapeXML(s.CodeShade))
	}
	b.WriteString(`</w:rPr></w:style>`)

	b.WriteString(`</w:styles>`)
	return b.String()
}

func fontsXML(font string) string {
	if font == "" {
		return ""
	}
	f := escapeXML(font)
	return fmt.Sprintf(`<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s" w:eastAsia="%s"/>`, f, f, f, f)
}

func (n Numbering) xml() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:numbering xmlns:w="` + nsW + `">`)

	for _, a := range n.Abstracts {
		fmt.Fprintf(&b, `<w:abstractNum w:abstractNumId="%d"><w:multiLevelType w:val="multilevel"/>`, a.ID)
		for _, l := range a.Levels {
			fmt.Fprintf(&b, `<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="%s"/><w:lvlText w:val="%s"/><w:lvlJc w:val="left"/>`,
				l.Level, escapeXML(l.Format), escapeXML(l.Text))
			fmt.Fprintf(&b, `<w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr></w:lvl>`, l.Indent)
		}
		b.WriteString(`</w:abstractNum>`)
	}

	for _, inst := range n.Instances {
		fmt.Fprintf(&b, `<w:num w:numId="%d"><w:abstractNumId w:val="%d"/>`, inst.ID, inst.AbstractID)
		if inst.Restart {
			fmt.Fprintf(&b, `<w:lvlOverride w:ilvl="%d"><w:startOverride w:val="%d"/></w:lvlOverride>`, inst.StartLevel, inst.Start)
		}
		b.WriteString(`</w:num>`)
	}

	b.WriteString(`</w:numbering>`)
	return b.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXML escapes markup characters and drops runes XML 1.0 cannot carry.
func escapeXML(s string) string {
	return xmlEscaper.Replace(strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, s))
}
