package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := WriteTempFile("<p>post</p>", "html")
	if err != nil {
		t.Fatalf("WriteTempFile() unexpected error: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(path), tempPrefix) || !strings.HasSuffix(path, ".html") {
		t.Errorf("unexpected temp path %q", path)
	}
	got, err := os.ReadFile(path) // #nosec G304 -- test temp file
	if err != nil || string(got) != "<p>post</p>" {
		t.Errorf("content = %q, %v", got, err)
	}

	cleanup()
	if FileExists(path) {
		t.Error("cleanup should remove the file")
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want error
	}{
		{"", ErrExtensionEmpty},
		{"../html", ErrExtensionPathTraversal},
		{`a\b`, ErrExtensionPathTraversal},
		{"h\x00", ErrExtensionPathTraversal},
	}
	for _, tt := range tests {
		if _, _, err := WriteTempFile("x", tt.ext); !errors.Is(err, tt.want) {
			t.Errorf("WriteTempFile(ext=%q) error = %v, want %v", tt.ext, err, tt.want)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	if err := WriteFileAtomic(path, []byte("first"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic() unexpected error: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite unexpected error: %v", err)
	}

	got, err := os.ReadFile(path) // #nosec G304 -- test temp file
	if err != nil || string(got) != "second" {
		t.Errorf("content = %q, %v", got, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("perm = %v, want 0600", info.Mode().Perm())
		}
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "x.json")
	if err := WriteFileAtomic(path, []byte("x"), 0o600); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists(file) = false")
	}
	if FileExists(dir) {
		t.Error("FileExists(dir) = true")
	}
	if FileExists(filepath.Join(dir, "none")) {
		t.Error("FileExists(missing) = true")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"preview":          false,
		"my-style":         false,
		"./blog.css":       true,
		"styles/blog.css":  true,
		`C:\styles\a.css`:  true,
		"/abs/path/a.css":  true,
	}
	for in, want := range tests {
		if got := IsFilePath(in); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", in, got, want)
		}
	}
}
