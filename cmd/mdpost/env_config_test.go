package main

// Notes:
// - These tests use t.Setenv and therefore cannot run in parallel.

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdpost/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("MDPOST_CONFIG", "blog")
	t.Setenv("MDPOST_SESSION", "/tmp/s.json")
	t.Setenv("MDPOST_ENGINE", "GFM")
	t.Setenv("MDPOST_STYLE", "plain")
	t.Setenv("MDPOST_TIMEOUT", "45s")
	t.Setenv("MDPOST_WORKERS", "3")

	got := loadEnvConfig()

	if got.ConfigPath != "blog" {
		t.Errorf("ConfigPath = %q, want %q", got.ConfigPath, "blog")
	}
	if got.SessionPath != "/tmp/s.json" {
		t.Errorf("SessionPath = %q, want %q", got.SessionPath, "/tmp/s.json")
	}
	if got.Engine != "GFM" {
		t.Errorf("Engine = %q, want %q", got.Engine, "GFM")
	}
	if got.Style != "plain" {
		t.Errorf("Style = %q, want %q", got.Style, "plain")
	}
	if got.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", got.Timeout)
	}
	if got.Workers != 3 {
		t.Errorf("Workers = %d, want 3", got.Workers)
	}
}

func TestLoadEnvConfig_InvalidNumbersIgnored(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		workers string
	}{
		{"garbage", "soon", "many"},
		{"negative", "-5s", "-2"},
		{"zero", "0s", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MDPOST_TIMEOUT", tt.timeout)
			t.Setenv("MDPOST_WORKERS", tt.workers)

			got := loadEnvConfig()
			if got.Timeout != 0 {
				t.Errorf("Timeout = %v, want 0", got.Timeout)
			}
			if got.Workers != 0 {
				t.Errorf("Workers = %d, want 0", got.Workers)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MDPOST_ENGIN", "gfm")
	t.Setenv("MDPOST_ENGINE", "gfm")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "unknown environment variable MDPOST_ENGIN (typo?)") {
		t.Errorf("expected warning for MDPOST_ENGIN, got %q", out)
	}
	if strings.Contains(out, "MDPOST_ENGINE ") {
		t.Errorf("known variable should not be reported, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Environment overrides file values
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("env overrides config values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Render.Style = "preview"
		applyEnvConfig(&envConfig{
			SessionPath: "s.json",
			Engine:      "GFM",
			Style:       "plain",
			Timeout:     2 * time.Minute,
		}, cfg)

		if cfg.Session.Path != "s.json" {
			t.Errorf("Session.Path = %q, want s.json", cfg.Session.Path)
		}
		if cfg.Render.Engine != "gfm" {
			t.Errorf("Render.Engine = %q, want gfm", cfg.Render.Engine)
		}
		if cfg.Render.Style != "plain" {
			t.Errorf("Render.Style = %q, want plain", cfg.Render.Style)
		}
		if cfg.PDF.TimeoutDuration() != 2*time.Minute {
			t.Errorf("PDF.Timeout = %q, want 2m", cfg.PDF.Timeout)
		}
	})

	t.Run("empty env keeps config values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		want := *cfg
		applyEnvConfig(&envConfig{}, cfg)

		if *cfg != want {
			t.Errorf("config changed: got %+v, want %+v", *cfg, want)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File and environment precedence
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "blog.yaml", "render:\n  engine: gfm\n  style: plain\nexport:\n  format: zip\n")

	tests := []struct {
		name       string
		flagConfig string
		env        *envConfig
		wantEngine string
		wantFormat string
		wantErr    error
	}{
		{
			name:       "defaults without file",
			env:        &envConfig{},
			wantEngine: config.DefaultEngine,
			wantFormat: config.DefaultFormat,
		},
		{
			name:       "flag names the file",
			flagConfig: path,
			env:        &envConfig{},
			wantEngine: "gfm",
			wantFormat: "zip",
		},
		{
			name:       "env names the file",
			env:        &envConfig{ConfigPath: path},
			wantEngine: "gfm",
			wantFormat: "zip",
		},
		{
			name:       "env overrides file",
			flagConfig: path,
			env:        &envConfig{Engine: "editor"},
			wantEngine: "editor",
			wantFormat: "zip",
		},
		{
			name:       "missing file",
			flagConfig: filepath.Join(dir, "nope.yaml"),
			env:        &envConfig{},
			wantErr:    config.ErrConfigNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := loadConfig(tt.flagConfig, tt.env)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("loadConfig() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfig() unexpected error: %v", err)
			}
			if cfg.Render.Engine != tt.wantEngine {
				t.Errorf("Render.Engine = %q, want %q", cfg.Render.Engine, tt.wantEngine)
			}
			if cfg.Export.Format != tt.wantFormat {
				t.Errorf("Export.Format = %q, want %q", cfg.Export.Format, tt.wantFormat)
			}
		})
	}
}

func TestRunMain_EnvSessionPath(t *testing.T) {
	dir := t.TempDir()
	sessionFile := writeSession(t, dir)
	t.Setenv("MDPOST_SESSION", sessionFile)

	env, stdout, stderr := testEnv()
	if code := runMain([]string{"mdpost", "images"}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "photo.png") {
		t.Errorf("images should list the session from MDPOST_SESSION, got %q", stdout.String())
	}
	if _, err := os.Stat(sessionFile); err != nil {
		t.Errorf("session file should still exist: %v", err)
	}
}
