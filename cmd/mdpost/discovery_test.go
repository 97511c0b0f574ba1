package main

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Files, directories and globs
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# A")
	writeFile(t, dir, "notes.txt", "not markdown")
	writeFile(t, dir, "posts/b.md", "# B")
	writeFile(t, dir, "posts/2026/c.markdown", "# C")

	tests := []struct {
		name    string
		inputs  []string
		output  string
		want    []FileToRender
		wantErr error
	}{
		{
			name:   "single file renders next to input",
			inputs: []string{filepath.Join(dir, "a.md")},
			want: []FileToRender{
				{InputPath: filepath.Join(dir, "a.md"), OutputPath: filepath.Join(dir, "a.html")},
			},
		},
		{
			name:   "single file to explicit html path",
			inputs: []string{filepath.Join(dir, "a.md")},
			output: filepath.Join(dir, "out", "index.html"),
			want: []FileToRender{
				{InputPath: filepath.Join(dir, "a.md"), OutputPath: filepath.Join(dir, "out", "index.html")},
			},
		},
		{
			name:   "directory is searched recursively and keeps layout",
			inputs: []string{filepath.Join(dir, "posts")},
			output: filepath.Join(dir, "public"),
			want: []FileToRender{
				{InputPath: filepath.Join(dir, "posts", "2026", "c.markdown"), OutputPath: filepath.Join(dir, "public", "2026", "c.html")},
				{InputPath: filepath.Join(dir, "posts", "b.md"), OutputPath: filepath.Join(dir, "public", "b.html")},
			},
		},
		{
			name:   "doublestar glob skips non markdown",
			inputs: []string{filepath.Join(dir, "**", "*.*")},
			output: filepath.Join(dir, "public"),
			want: []FileToRender{
				{InputPath: filepath.Join(dir, "a.md"), OutputPath: filepath.Join(dir, "public", "a.html")},
				{InputPath: filepath.Join(dir, "posts", "2026", "c.markdown"), OutputPath: filepath.Join(dir, "public", "posts", "2026", "c.html")},
				{InputPath: filepath.Join(dir, "posts", "b.md"), OutputPath: filepath.Join(dir, "public", "posts", "b.html")},
			},
		},
		{
			name:   "duplicates are rendered once",
			inputs: []string{filepath.Join(dir, "a.md"), filepath.Join(dir, "*.md")},
			want: []FileToRender{
				{InputPath: filepath.Join(dir, "a.md"), OutputPath: filepath.Join(dir, "a.html")},
			},
		},
		{
			name:    "no inputs",
			wantErr: ErrNoInput,
		},
		{
			name:    "glob without matches",
			inputs:  []string{filepath.Join(dir, "*.rst")},
			wantErr: ErrNoMatches,
		},
		{
			name:    "missing file",
			inputs:  []string{filepath.Join(dir, "missing.md")},
			wantErr: fs.ErrNotExist,
		},
		{
			name:    "wrong extension",
			inputs:  []string{filepath.Join(dir, "notes.txt")},
			wantErr: ErrInvalidExtension,
		},
		{
			name:    "html output with several inputs",
			inputs:  []string{filepath.Join(dir, "posts")},
			output:  "index.html",
			wantErr: ErrTooManyInputs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := discoverFiles(tt.inputs, tt.output)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("discoverFiles() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("discoverFiles() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("discoverFiles() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("file[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		outputDir string
		baseDir   string
		want      string
	}{
		{"no output dir", "posts/hello.md", "", "", filepath.Join("posts", "hello.html")},
		{"markdown extension", "posts/hello.markdown", "", "", filepath.Join("posts", "hello.html")},
		{"explicit html file", "posts/hello.md", "site/index.html", "", "site/index.html"},
		{"output dir", "posts/hello.md", "site", "", filepath.Join("site", "hello.html")},
		{"keeps relative layout", filepath.Join("posts", "2026", "hello.md"), "site", "posts", filepath.Join("site", "2026", "hello.html")},
		{"outside base dir", "other/hello.md", "site", "posts", filepath.Join("site", "hello.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveOutputPath(tt.input, tt.outputDir, tt.baseDir); got != tt.want {
				t.Errorf("resolveOutputPath(%q, %q, %q) = %q, want %q", tt.input, tt.outputDir, tt.baseDir, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{MaxWorkers, false},
		{-1, true},
		{MaxWorkers + 1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}
