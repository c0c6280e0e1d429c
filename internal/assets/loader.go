package assets

// Built-in asset names.
const (
	// DefaultStyle is the stylesheet used when none is configured.
	DefaultStyle = "lesson"

	// PageTemplate wraps a rendered lesson fragment into a standalone document.
	PageTemplate = "page"

	// SheetsTemplate lays captured page images out one per printed sheet.
	SheetsTemplate = "sheets"
)

// AssetLoader defines the contract for loading CSS styles and HTML templates.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}
