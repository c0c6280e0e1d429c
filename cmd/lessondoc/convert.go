package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-lessondoc"
	"github.com/alnah/go-lessondoc/internal/config"
)

// ErrInvalidTimeout is returned for unparsable or non-positive --timeout values.
var ErrInvalidTimeout = errors.New("invalid timeout")

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath, env.Config)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	formats, err := resolveFormats(flags.formats, cfg)
	if err != nil {
		return err
	}

	if len(positionalArgs) == 0 {
		return ErrNoInput
	}
	inputPath := positionalArgs[0]

	files, err := discoverFiles(inputPath, cfg.Output.DefaultDir, flags.document.topic)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoMarkdownFiles, inputPath)
	}

	params := &conversionParams{
		topic:   flags.document.topic,
		style:   buildStyle(cfg),
		page:    buildPageSettings(cfg),
		formats: formats,
	}

	logger := newLogger(flags.common.verbose, env.Stderr)
	size := min(lessondoc.ResolvePoolSize(workers), len(files))
	logger.Debug("starting conversion", "files", len(files), "workers", size, "formats", formatList(formats))

	pool := env.NewPool(size, converterOptions(cfg, timeout, logger, env)...)
	defer pool.Close()

	results := convertBatch(ctx, pool, files, params)
	printResults(results, flags.common.quiet, flags.common.verbose, env)
	return batchErr(results)
}

// loadConfig loads the config named by the flag, else by LESSONDOC_CONFIG,
// else starts from a copy of the defaults.
func loadConfig(flagName, envName string, defaults *config.Config) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		if defaults == nil {
			return config.DefaultConfig(), nil
		}
		cfg := *defaults
		return &cfg, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != marginSentinel {
		cfg.Page.Margin = flags.page.margin
	}

	// Style flags
	if flags.style.name != "" {
		cfg.Style.Name = flags.style.name
	}
	if flags.style.fontFamily != "" {
		cfg.Style.FontFamily = flags.style.fontFamily
	}
	if flags.style.fontSize != 0 {
		cfg.Style.FontSize = flags.style.fontSize
	}
	if flags.style.textColor != "" {
		cfg.Style.TextColor = flags.style.textColor
	}
	if flags.style.accentColor != "" {
		cfg.Style.AccentColor = flags.style.accentColor
	}
	if flags.style.codeStyle != "" {
		cfg.Style.CodeStyle = flags.style.codeStyle
	}

	// Document flags
	if flags.document.creator != "" {
		cfg.Document.Creator = flags.document.creator
	}
	if flags.document.language != "" {
		cfg.Document.Language = flags.document.language
	}

	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}

	// Disable flags
	if flags.style.noHighlight {
		cfg.Style.CodeStyle = ""
	}
	if flags.style.noMath {
		cfg.Math.AutoRender = false
	}
}

// resolveFormats prefers --formats over the config list.
func resolveFormats(flagValue string, cfg *config.Config) ([]lessondoc.Format, error) {
	if flagValue != "" {
		return lessondoc.ParseFormats(flagValue)
	}
	return lessondoc.ParseFormats(strings.Join(cfg.Output.Formats, ","))
}

// resolveTimeout parses --timeout, falling back to LESSONDOC_TIMEOUT.
// Zero means the library default.
func resolveTimeout(flagValue string, envTimeout time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envTimeout, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use a duration such as 30s or 2m)", ErrInvalidTimeout, flagValue)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// buildStyle maps the style and math sections onto display settings.
func buildStyle(cfg *config.Config) *lessondoc.Style {
	return &lessondoc.Style{
		Stylesheet:  cfg.Style.Name,
		FontFamily:  cfg.Style.FontFamily,
		FontSize:    cfg.Style.FontSize,
		TextColor:   cfg.Style.TextColor,
		AccentColor: cfg.Style.AccentColor,
		CodeStyle:   cfg.Style.CodeStyle,
		Math:        cfg.Math.AutoRender,
	}
}

// buildPageSettings maps the page section, filling blanks with defaults.
func buildPageSettings(cfg *config.Config) *lessondoc.PageSettings {
	ps := &lessondoc.PageSettings{
		Size:        cfg.Page.Size,
		Orientation: cfg.Page.Orientation,
		Margin:      cfg.Page.Margin,
	}
	if ps.Size == "" {
		ps.Size = lessondoc.PageSizeA4
	}
	if ps.Orientation == "" {
		ps.Orientation = lessondoc.OrientationPortrait
	}
	return ps
}

// converterOptions builds the options shared by every pooled converter.
func converterOptions(cfg *config.Config, timeout time.Duration, logger *slog.Logger, env *Environment) []lessondoc.Option {
	opts := []lessondoc.Option{
		lessondoc.WithLogger(logger),
		lessondoc.WithAssetPath(cfg.Assets.BasePath),
		lessondoc.WithCreator(cfg.Document.Creator),
	}
	if cfg.Document.Language != "" {
		opts = append(opts, lessondoc.WithLanguage(cfg.Document.Language))
	}
	if timeout > 0 {
		opts = append(opts, lessondoc.WithTimeout(timeout))
	}
	if env.Now != nil {
		opts = append(opts, lessondoc.WithClock(env.Now))
	}
	return opts
}

// newLogger returns a debug-level text logger on w when verbose, else a
// logger that discards everything.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func formatList(formats []lessondoc.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}
