package main

// Notes:
// - Tests use t.Setenv(), which rules out t.Parallel().

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-lessondoc"
	"github.com/alnah/go-lessondoc/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("LESSONDOC_CONFIG", "school")
	t.Setenv("LESSONDOC_TIMEOUT", "2m")
	t.Setenv("LESSONDOC_WORKERS", "3")
	t.Setenv("LESSONDOC_OUTPUT_DIR", "/out")
	t.Setenv("LESSONDOC_FORMATS", "html, pdf")
	t.Setenv("LESSONDOC_STYLE", "classic")
	t.Setenv("LESSONDOC_PAGE_SIZE", "letter")
	t.Setenv("LESSONDOC_ASSET_PATH", "/assets")
	t.Setenv("LESSONDOC_LANG", "en")

	want := &envConfig{
		ConfigPath: "school",
		Timeout:    2 * time.Minute,
		Workers:    3,
		OutputDir:  "/out",
		Formats:    "html, pdf",
		Style:      "classic",
		PageSize:   "letter",
		AssetPath:  "/assets",
		Language:   "en",
	}
	if diff := cmp.Diff(want, loadEnvConfig()); diff != "" {
		t.Errorf("loadEnvConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvConfig_IgnoresMalformedNumbers(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		workers string
	}{
		{name: "garbage", timeout: "soon", workers: "many"},
		{name: "non-positive", timeout: "-1s", workers: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LESSONDOC_TIMEOUT", tt.timeout)
			t.Setenv("LESSONDOC_WORKERS", tt.workers)

			cfg := loadEnvConfig()
			if cfg.Timeout != 0 {
				t.Errorf("Timeout = %v, want 0", cfg.Timeout)
			}
			if cfg.Workers != 0 {
				t.Errorf("Workers = %d, want 0", cfg.Workers)
			}
		})
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("LESSONDOC_STYLE", "lesson")
	t.Setenv("LESSONDOC_STLYE", "typo")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "LESSONDOC_STLYE") {
		t.Errorf("output = %q, want warning for LESSONDOC_STLYE", out)
	}
	if strings.Contains(out, "LESSONDOC_STYLE ") {
		t.Errorf("output = %q, known variable should not warn", out)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty environment keeps config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{}, cfg)
		if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
			t.Errorf("applyEnvConfig() changed config (-want +got):\n%s", diff)
		}
	})

	t.Run("environment overrides config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{
			OutputDir: "/out",
			Formats:   " html ,, pdf ",
			Style:     "classic",
			PageSize:  "legal",
			AssetPath: "/assets",
			Language:  "en",
		}, cfg)

		want := config.DefaultConfig()
		want.Output.DefaultDir = "/out"
		want.Output.Formats = []string{"html", "pdf"}
		want.Style.Name = "classic"
		want.Page.Size = "legal"
		want.Assets.BasePath = "/assets"
		want.Document.Language = "en"
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("applyEnvConfig() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRunConvert_FlagsBeatEnvironment(t *testing.T) {
	t.Setenv("LESSONDOC_FORMATS", "html")
	t.Setenv("LESSONDOC_PAGE_SIZE", "letter")

	dir := t.TempDir()
	path := writeLesson(t, dir, "bai.md", testLesson)
	pool := &fakePool{conv: &fakeConverter{}}
	env, _, _ := testEnv(pool)

	flags, args := parseTestFlags(t, "--page-size", "legal", path)
	if err := runConvert(context.Background(), args, flags, env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	in := pool.conv.calls()[0]
	if diff := cmp.Diff([]lessondoc.Format{lessondoc.FormatHTML}, in.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if in.Page.Size != "legal" {
		t.Errorf("Page.Size = %q, want legal", in.Page.Size)
	}
}
