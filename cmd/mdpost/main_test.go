package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	mdpost "github.com/alnah/go-mdpost"
	"github.com/alnah/go-mdpost/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunMain - Main entry point exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage and exits with ExitUsage",
			args:         []string{"mdpost"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: mdpost"},
		},
		{
			name:         "version command exits 0",
			args:         []string{"mdpost", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"mdpost " + Version},
		},
		{
			name:         "help command exits 0",
			args:         []string{"mdpost", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mdpost", "Commands:", "MDPOST_SESSION"},
		},
		{
			name:         "--help is an alias of help",
			args:         []string{"mdpost", "--help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Commands:"},
		},
		{
			name:         "help export shows export help",
			args:         []string{"mdpost", "help", "export"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mdpost export"},
		},
		{
			name:         "unknown command exits with ExitUsage",
			args:         []string{"mdpost", "unknown"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: unknown"},
		},
		{
			name:         "markdown file as command suggests render",
			args:         []string{"mdpost", "post.md"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"did you mean 'mdpost render post.md'"},
		},
		{
			name:         "render -h prints render usage",
			args:         []string{"mdpost", "render", "-h"},
			wantCode:     ExitSuccess,
			wantInStderr: []string{"Usage: mdpost render"},
		},
		{
			name:         "unknown flag exits with ExitUsage",
			args:         []string{"mdpost", "render", "--nope", "a.md"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid flag"},
		},
		{
			name:         "missing input exits with ExitIO",
			args:         []string{"mdpost", "render", "does-not-exist.md"},
			wantCode:     ExitIO,
			wantInStderr: []string{"error:"},
		},
		{
			name:         "render without input exits with ExitUsage",
			args:         []string{"mdpost", "render"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"no input specified"},
		},
		{
			name:         "invalid engine exits with ExitUsage",
			args:         []string{"mdpost", "render", "--engine", "wiki", "a.md"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid render engine"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, stderr.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsCommand - Command name detection
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"render", true},
		{"export", true},
		{"watch", true},
		{"attach", true},
		{"detach", true},
		{"images", true},
		{"config", true},
		{"doctor", true},
		{"version", true},
		{"help", true},
		{"convert", false},
		{"", false},
		{"post.md", false},
		{"Render", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := isCommand(tt.input); got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag - Pre-parse verbose detection
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"short flag", []string{"render", "-v", "a.md"}, true},
		{"long flag", []string{"export", "a.md", "--verbose"}, true},
		{"absent", []string{"render", "a.md"}, false},
		{"after terminator", []string{"render", "--", "-v"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hasVerboseFlag(tt.args); got != tt.want {
				t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Hint suffixes for actionable errors
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"style not found lists styles", fmt.Errorf("wrap: %w", mdpost.ErrStyleNotFound), "available: "},
		{"unsupported media type lists types", mdpost.ErrUnsupportedMediaType, "image/png"},
		{"image not found points at images", mdpost.ErrImageNotFound, "mdpost images"},
		{"config not found suggests --config", config.ErrConfigNotFound, "--config"},
		{"page load suggests timeout", mdpost.ErrPageLoad, "--timeout"},
		{"output directory", ErrCreateOutput, "writable"},
		{"plain error has no hint", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor(%v) = %q, want empty", tt.err, got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor(%v) = %q, want to contain %q", tt.err, got, tt.want)
			}
		})
	}
}
