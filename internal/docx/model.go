package docx

import "time"

// Document is a word-processing document ready to be built.
type Document struct {
	Properties Properties
	Styles     Styles
	Numbering  Numbering
	Sections   []Section
}

// Properties are the package's core properties (docProps/core.xml).
type Properties struct {
	Title      string
	Creator    string
	Identifier string // generated by Build when empty
	Language   string
	Created    time.Time
}

// Styles holds the values written into styles.xml.
type Styles struct {
	Font      string
	Size      int    // half-points
	Color     string // RRGGBB
	Accent    string // RRGGBB, used for level-1 headings
	CodeFont  string
	CodeShade string // RRGGBB
}

// PageGeometry is a section's page size and margin in twips.
type PageGeometry struct {
	Width     int
	Height    int
	Margin    int
	Landscape bool
}

// Section is a run of paragraphs sharing one page geometry.
type Section struct {
	Page       PageGeometry
	Paragraphs []Paragraph
}

// Paragraph is one w:p element.
type Paragraph struct {
	Style        string // style ID, empty for Normal
	List         *ListRef
	BorderBottom bool
	Runs         []Run
}

// ListRef attaches a paragraph to a numbering instance at a level.
type ListRef struct {
	NumID int
	Level int
}

// Run is one w:r element. Font, Color and Shading are empty for the
// paragraph style's defaults.
type Run struct {
	Text    string
	Bold    bool
	Italic  bool
	Strike  bool
	Font    string
	Color   string // RRGGBB
	Shading string // RRGGBB fill
}

// Numbering is numbering.xml: abstract definitions and the instances that
// paragraphs reference.
type Numbering struct {
	Abstracts []AbstractNum
	Instances []NumInstance
}

// AbstractNum defines the marker of every level of one list style.
type AbstractNum struct {
	ID     int
	Levels []NumLevel
}

// NumLevel is one w:lvl of an abstract numbering definition.
type NumLevel struct {
	Level  int
	Format string // decimal, lowerLetter, lowerRoman, bullet
	Text   string // level text such as "%1." or "•"
	Indent int    // left indent in twips
}

// NumInstance is a w:num. StartLevel and Start restart the instance's
// counter at that level when Restart is set.
type NumInstance struct {
	ID         int
	AbstractID int
	Restart    bool
	StartLevel int
	Start      int
}

// Abstract returns the abstract definition with the given ID.
func (n Numbering) Abstract(id int) (AbstractNum, bool) {
	for _, a := range n.Abstracts {
		if a.ID == id {
			return a, true
		}
	}
	return AbstractNum{}, false
}

// Instance returns the numbering instance with the given ID.
func (n Numbering) Instance(id int) (NumInstance, bool) {
	for _, inst := range n.Instances {
		if inst.ID == id {
			return inst, true
		}
	}
	return NumInstance{}, false
}
