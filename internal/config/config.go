package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-lessondoc/internal/fileutil"
	"github.com/alnah/go-lessondoc/internal/hints"
	"github.com/alnah/go-lessondoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// AppDir is the directory name searched under the user config directory.
const AppDir = "go-lessondoc"

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxStyleNameLength   = 64
	MaxFontFamilyLength  = 200
	MaxColorLength       = 7 // "#RRGGBB"
	MaxCodeStyleLength   = 64
	MaxPageSizeLength    = 10 // "letter", "a4", "legal"
	MaxOrientationLength = 10 // "portrait", "landscape"
	MaxCreatorLength     = 100
	MaxLanguageLength    = 35 // BCP 47 upper bound in practice
)

// Font size bounds in CSS pixels, matching the editor's font controls.
const (
	MinFontSize = 10
	MaxFontSize = 30
)

// MaxMargin is the largest accepted page margin in millimetres.
const MaxMargin = 50.0

// KnownFormats lists the output formats accepted in output.formats.
var KnownFormats = []string{"html", "docx", "pdf"}

// Config holds all configuration for lesson document generation.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Style    StyleConfig    `yaml:"style"`
	Page     PageConfig     `yaml:"page"`
	Math     MathConfig     `yaml:"math"`
	Document DocumentConfig `yaml:"document"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string   `yaml:"defaultDir"` // empty = same as source
	Formats    []string `yaml:"formats"`    // subset of html, docx, pdf
}

// StyleConfig defines display settings shared by the HTML page and the document.
type StyleConfig struct {
	Name        string `yaml:"name"`        // stylesheet in internal/assets/styles/
	FontFamily  string `yaml:"fontFamily"`  // empty = stylesheet default
	FontSize    int    `yaml:"fontSize"`    // CSS pixels, 10..30
	TextColor   string `yaml:"textColor"`   // "#RRGGBB"
	AccentColor string `yaml:"accentColor"` // math and heading accent
	CodeStyle   string `yaml:"codeStyle"`   // chroma style name, empty = no highlighting
}

// PageConfig defines page geometry for the document and the PDF capture.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "a4", "letter", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // millimetres
}

// MathConfig controls typesetting of $...$ formulas in the HTML page.
type MathConfig struct {
	AutoRender bool `yaml:"autoRender"`
}

// DocumentConfig sets document metadata.
type DocumentConfig struct {
	Creator  string `yaml:"creator"`
	Language string `yaml:"language"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = use embedded assets
}

// Validate checks field lengths and value ranges.
// Called by LoadConfig, but available for callers that build a Config by hand.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"style.name", c.Style.Name, MaxStyleNameLength},
		{"style.fontFamily", c.Style.FontFamily, MaxFontFamilyLength},
		{"style.textColor", c.Style.TextColor, MaxColorLength},
		{"style.accentColor", c.Style.AccentColor, MaxColorLength},
		{"style.codeStyle", c.Style.CodeStyle, MaxCodeStyleLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"document.creator", c.Document.Creator, MaxCreatorLength},
		{"document.language", c.Document.Language, MaxLanguageLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	for i, f := range c.Output.Formats {
		if !isKnownFormat(f) {
			return fmt.Errorf("%w: output.formats[%d] %q (must be one of %s)",
				ErrInvalidField, i, f, strings.Join(KnownFormats, ", "))
		}
	}

	if c.Style.FontSize != 0 && (c.Style.FontSize < MinFontSize || c.Style.FontSize > MaxFontSize) {
		return fmt.Errorf("%w: style.fontSize must be between %d and %d, got %d",
			ErrInvalidField, MinFontSize, MaxFontSize, c.Style.FontSize)
	}

	if c.Page.Margin < 0 || c.Page.Margin > MaxMargin {
		return fmt.Errorf("%w: page.margin must be between 0 and %.0f mm, got %.2f",
			ErrInvalidField, MaxMargin, c.Page.Margin)
	}

	return nil
}

// Marshal encodes the config as YAML, suitable for writing a starter file.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Marshal(c)
}

func isKnownFormat(f string) bool {
	for _, k := range KnownFormats {
		if strings.EqualFold(f, k) {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the settings of the lesson editor: A4 portrait,
// 16px text, math typesetting on, .docx and .pdf output.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Formats: []string{"docx", "pdf"}},
		Style: StyleConfig{
			Name:        "lesson",
			FontSize:    16,
			TextColor:   "#000000",
			AccentColor: "#2e7d32",
			CodeStyle:   "github",
		},
		Page: PageConfig{
			Size:        "a4",
			Orientation: "portrait",
			Margin:      20,
		},
		Math:     MathConfig{AutoRender: true},
		Document: DocumentConfig{Language: "vi"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-lessondoc/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound, strings.Join(triedPaths, ", "), hints.ForConfigNotFound(triedPaths))
}
