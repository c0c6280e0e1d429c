package main

// Notes:
// - Chrome detection depends on the machine, so assertions stay on fields
//   that do not: platform, styles, status consistency.
// - Container detection tests set environment variables and cannot run in parallel.

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-lessondoc/internal/config"
)

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &stderr}

	code := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout.String())
	}
	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", result.Env.OS, result.Env.Arch, runtime.GOOS, runtime.GOARCH)
	}
	if !strings.Contains(strings.Join(result.System.Styles, ","), "lesson") {
		t.Errorf("styles = %v, want the embedded lesson style", result.System.Styles)
	}

	switch result.Status {
	case statusErrors:
		if code != ExitGeneral {
			t.Errorf("exit code = %d, want %d for errors", code, ExitGeneral)
		}
	case statusReady, statusWarnings:
		if code != ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, ExitSuccess)
		}
	default:
		t.Errorf("unknown status %q", result.Status)
	}

	if !result.Chrome.Found && len(result.Warnings) == 0 {
		t.Error("missing Chrome should produce a warning")
	}
}

func TestRunDoctorCmd_TextOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &stderr}
	runDoctorCmd(nil, env)

	out := stdout.String()
	for _, want := range []string{"lessondoc doctor", "Chrome/Chromium (pdf only)", "Environment", "Status:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckAssets(t *testing.T) {
	t.Parallel()

	custom := t.TempDir()
	writeLesson(t, custom, "styles/lesson.css", "body { color: teal; }")

	tests := []struct {
		name       string
		path       string
		wantCustom bool
		wantErr    bool
	}{
		{name: "embedded only", path: ""},
		{name: "custom directory", path: custom, wantCustom: true},
		{name: "empty custom directory falls back", path: t.TempDir(), wantCustom: true},
		{name: "missing directory", path: filepath.Join(custom, "missing"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := &doctorResult{}
			checkAssets(result, tt.path)

			if result.System.CustomAssets != tt.wantCustom {
				t.Errorf("CustomAssets = %v, want %v", result.System.CustomAssets, tt.wantCustom)
			}
			if tt.wantCustom && result.System.AssetPath != tt.path {
				t.Errorf("AssetPath = %q, want %q", result.System.AssetPath, tt.path)
			}
			if gotErr := len(result.Errors) > 0; gotErr != tt.wantErr {
				t.Errorf("errors = %v, wantErr %v", result.Errors, tt.wantErr)
			}
		})
	}
}

func TestDoctorAssetPath_FromConfig(t *testing.T) {
	t.Setenv("LESSONDOC_ASSET_PATH", "")

	cfg := config.DefaultConfig()
	cfg.Assets.BasePath = "/srv/lesson-assets"
	if got := doctorAssetPath(&Environment{Config: cfg}); got != "/srv/lesson-assets" {
		t.Errorf("doctorAssetPath() = %q, want config base path", got)
	}

	t.Setenv("LESSONDOC_ASSET_PATH", "/opt/assets")
	if got := doctorAssetPath(&Environment{Config: cfg}); got != "/opt/assets" {
		t.Errorf("doctorAssetPath() = %q, want environment override", got)
	}
}

func TestIsContainer_ExplicitOverride(t *testing.T) {
	t.Setenv("LESSONDOC_CONTAINER", "1")

	found, hint := isContainer()
	if !found || hint != "LESSONDOC_CONTAINER=1" {
		t.Errorf("isContainer() = (%v, %q), want (true, LESSONDOC_CONTAINER=1)", found, hint)
	}
}

func TestCheckEnvironment_SandboxWarning(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")

	result := &doctorResult{}
	checkEnvironment(result)

	if !result.Env.CI {
		t.Error("CI not detected")
	}
	if !strings.Contains(strings.Join(result.Warnings, "\n"), "ROD_NO_SANDBOX") {
		t.Errorf("warnings = %v, want ROD_NO_SANDBOX advice", result.Warnings)
	}
}
