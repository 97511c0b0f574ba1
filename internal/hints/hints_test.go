package hints

// ForBrowserConnect tests do not run in parallel: they use t.Setenv and
// swap the package-level IsInContainer.

import (
	"strings"
	"testing"
)

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		container   bool
		env         map[string]string
		wantSandbox bool
		wantBin     bool
	}{
		{
			name:        "ci without overrides",
			env:         map[string]string{"CI": "true", "ROD_NO_SANDBOX": "", "ROD_BROWSER_BIN": ""},
			wantSandbox: true,
			wantBin:     true,
		},
		{
			name:        "docker",
			container:   true,
			env:         map[string]string{"CI": "", "GITHUB_ACTIONS": "", "GITLAB_CI": "", "ROD_NO_SANDBOX": "", "ROD_BROWSER_BIN": ""},
			wantSandbox: true,
			wantBin:     true,
		},
		{
			name:    "sandbox already disabled",
			env:     map[string]string{"CI": "true", "ROD_NO_SANDBOX": "1", "ROD_BROWSER_BIN": ""},
			wantBin: true,
		},
		{
			name: "fully configured workstation",
			env:  map[string]string{"CI": "", "GITHUB_ACTIONS": "", "GITLAB_CI": "", "ROD_BROWSER_BIN": "/usr/bin/chromium"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := IsInContainer
			defer func() { IsInContainer = orig }()
			IsInContainer = func() bool { return tt.container }

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			hint := ForBrowserConnect()
			if got := strings.Contains(hint, "ROD_NO_SANDBOX"); got != tt.wantSandbox {
				t.Errorf("sandbox hint = %v, want %v (%q)", got, tt.wantSandbox, hint)
			}
			if got := strings.Contains(hint, "ROD_BROWSER_BIN"); got != tt.wantBin {
				t.Errorf("browser bin hint = %v, want %v (%q)", got, tt.wantBin, hint)
			}
			if hint != "" && !strings.HasPrefix(hint, "\n  hint: ") {
				t.Errorf("hint format = %q", hint)
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	hint := ForConfigNotFound([]string{"blog.yaml", "/home/u/.config/go-mdpost/blog.yaml"})
	if !strings.Contains(hint, "--config") || !strings.Contains(hint, "/home/u/.config/go-mdpost/blog.yaml") {
		t.Errorf("ForConfigNotFound() = %q", hint)
	}

	if strings.Contains(ForConfigNotFound([]string{"blog.yaml"}), "create") {
		t.Error("no user path, no create suggestion")
	}
}

func TestSimpleHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"timeout", ForTimeout(), "--timeout"},
		{"output directory", ForOutputDirectory(), "writable"},
		{"style", ForStyleNotFound([]string{"plain", "preview"}), "available: plain, preview"},
		{"media type", ForUnsupportedMediaType([]string{"image/png", "image/gif"}), "image/png, image/gif"},
		{"image id", ForImageNotFound(), "mdpost images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !strings.HasPrefix(tt.got, "\n  hint: ") || !strings.Contains(tt.got, tt.want) {
				t.Errorf("hint = %q, want it to contain %q", tt.got, tt.want)
			}
		})
	}

	if ForStyleNotFound(nil) != "" {
		t.Error("no styles, no hint")
	}
}
