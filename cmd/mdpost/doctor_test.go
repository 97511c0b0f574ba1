package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrintDoctorResult - Human-readable output
// ---------------------------------------------------------------------------

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		result       *doctorResult
		wantContains []string
	}{
		{
			name: "ready",
			result: &doctorResult{
				Status:  statusReady,
				Chrome:  chromeInfo{Found: true, Path: "/usr/bin/chromium", Version: "Chromium 120", Sandbox: true},
				Env:     envInfo{OS: "linux", Arch: "amd64", TempWritable: true},
				Config:  configInfo{Source: "defaults", Engine: "editor", Format: "zip"},
				Session: sessionInfo{Path: "mdpost-session.json"},
			},
			wantContains: []string{
				"[OK] Found at /usr/bin/chromium",
				"[OK] Version: Chromium 120",
				"[OK] Sandbox: enabled",
				"[OK] Platform: linux/amd64",
				"[OK] Engine: editor, format: zip",
				"(not created yet)",
				"Status: Ready",
			},
		},
		{
			name: "missing chrome is a warning",
			result: &doctorResult{
				Status:   statusWarnings,
				Env:      envInfo{OS: "linux", Arch: "arm64", TempWritable: true},
				Config:   configInfo{Source: "defaults"},
				Warnings: []string{"Chrome/Chromium not found; PDF export unavailable"},
			},
			wantContains: []string{"[WARN] Not found", "Warnings:", "Status: Ready with warnings"},
		},
		{
			name: "errors",
			result: &doctorResult{
				Status:  statusErrors,
				Env:     envInfo{OS: "darwin", Arch: "arm64", Container: true, ContainerHint: "/.dockerenv"},
				Config:  configInfo{Source: "blog.yaml"},
				Session: sessionInfo{Path: "s.json", Exists: true, Images: 3},
				Errors:  []string{"Temp directory not writable: /tmp"},
			},
			wantContains: []string{
				"Container: detected (/.dockerenv)",
				"[ERROR] Temp directory: not writable",
				"Session: s.json (3 images)",
				"Status: Not ready",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var sb strings.Builder
			printDoctorResult(&sb, tt.result)
			for _, want := range tt.wantContains {
				if !strings.Contains(sb.String(), want) {
					t.Errorf("output missing %q\ngot:\n%s", want, sb.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCheckConfigAndSession
// ---------------------------------------------------------------------------

func TestCheckConfigAndSession(t *testing.T) {
	t.Parallel()

	t.Run("existing session counts images", func(t *testing.T) {
		t.Parallel()

		path := writeSession(t, t.TempDir())
		result := &doctorResult{}
		checkConfigAndSession(result, &sessionFlags{session: path})

		if !result.Session.Exists || result.Session.Images != 1 {
			t.Errorf("Session = %+v, want existing with 1 image", result.Session)
		}
		if result.Config.Engine != "editor" {
			t.Errorf("Config.Engine = %q, want editor", result.Config.Engine)
		}
		if len(result.Errors) != 0 {
			t.Errorf("Errors = %v", result.Errors)
		}
	})

	t.Run("corrupt session is an error", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "bad.json", "{not json")
		result := &doctorResult{}
		checkConfigAndSession(result, &sessionFlags{session: path})

		if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Session:") {
			t.Errorf("Errors = %v, want one session error", result.Errors)
		}
	})

	t.Run("missing config is an error", func(t *testing.T) {
		t.Parallel()

		f := &sessionFlags{}
		f.common.config = filepath.Join(t.TempDir(), "absent.yaml")
		result := &doctorResult{}
		checkConfigAndSession(result, f)

		if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Config:") {
			t.Errorf("Errors = %v, want one config error", result.Errors)
		}
		if result.Config.Source != f.common.config {
			t.Errorf("Config.Source = %q, want %q", result.Config.Source, f.common.config)
		}
	})
}

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	sessionFile := filepath.Join(t.TempDir(), "s.json")
	code := runDoctorCmd([]string{"--json", "--session", sessionFile}, env)
	if code != ExitSuccess && code != ExitGeneral {
		t.Fatalf("runDoctorCmd() = %d", code)
	}

	var got doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}
	if got.Session.Path != sessionFile || got.Session.Exists {
		t.Errorf("Session = %+v, want %s not created", got.Session, sessionFile)
	}
	if got.Env.OS == "" {
		t.Error("Env.OS should be set")
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := runDoctorCmd([]string{"--bogus"}, env); code != ExitUsage {
		t.Errorf("runDoctorCmd() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "error:") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
