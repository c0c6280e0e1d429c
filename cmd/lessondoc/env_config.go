package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-lessondoc/internal/config"
)

// envPrefix namespaces the environment variables read by the CLI.
const envPrefix = "LESSONDOC_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // LESSONDOC_CONFIG: config file name or path
	Timeout    time.Duration // LESSONDOC_TIMEOUT: PDF capture timeout
	Workers    int           // LESSONDOC_WORKERS: parallel workers

	OutputDir string // LESSONDOC_OUTPUT_DIR: default output directory
	Formats   string // LESSONDOC_FORMATS: comma-separated output formats
	Style     string // LESSONDOC_STYLE: stylesheet name
	PageSize  string // LESSONDOC_PAGE_SIZE: a4, letter, legal
	AssetPath string // LESSONDOC_ASSET_PATH: custom asset directory
	Language  string // LESSONDOC_LANG: document language tag
}

// knownEnvVars lists valid LESSONDOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"LESSONDOC_CONFIG":     true,
	"LESSONDOC_TIMEOUT":    true,
	"LESSONDOC_WORKERS":    true,
	"LESSONDOC_OUTPUT_DIR": true,
	"LESSONDOC_FORMATS":    true,
	"LESSONDOC_STYLE":      true,
	"LESSONDOC_PAGE_SIZE":  true,
	"LESSONDOC_ASSET_PATH": true,
	"LESSONDOC_LANG":       true,
	"LESSONDOC_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("LESSONDOC_CONFIG"),
		OutputDir:  os.Getenv("LESSONDOC_OUTPUT_DIR"),
		Formats:    os.Getenv("LESSONDOC_FORMATS"),
		Style:      os.Getenv("LESSONDOC_STYLE"),
		PageSize:   os.Getenv("LESSONDOC_PAGE_SIZE"),
		AssetPath:  os.Getenv("LESSONDOC_ASSET_PATH"),
		Language:   os.Getenv("LESSONDOC_LANG"),
	}

	if timeout := os.Getenv("LESSONDOC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("LESSONDOC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized LESSONDOC_* variable.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment values on top of the loaded config.
// Precedence: CLI flags > environment > config file > defaults
// (CLI flags are applied afterwards by mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Formats != "" {
		cfg.Output.Formats = splitList(env.Formats)
	}
	if env.Style != "" {
		cfg.Style.Name = env.Style
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Language != "" {
		cfg.Document.Language = env.Language
	}
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
