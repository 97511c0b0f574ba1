package main

// Test helpers shared across command tests.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	mdpost "github.com/alnah/go-mdpost"
)

// fixedNow is the clock used by command tests.
var fixedNow = time.Date(2026, 3, 7, 10, 30, 0, 0, time.UTC)

// testEnv returns an environment writing to buffers with a fixed clock.
// PDF printing uses a mock that never starts a browser.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: &stdout,
		Stderr: &stderr,
		NewPDF: func(...mdpost.PDFOption) (PDFPrinter, error) {
			return &mockPrinter{pdf: []byte("%PDF-1.4 mock")}, nil
		},
	}
	return env, &stdout, &stderr
}

// writeFile writes content under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// writeSession saves a session with one attached png named photo.png.
func writeSession(t *testing.T, dir string) string {
	t.Helper()
	s := mdpost.NewSession()
	if _, err := s.Attach("photo.png", []byte("png-bytes"), mdpost.MediaTypePNG); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	path := filepath.Join(dir, "session.json")
	if err := mdpost.SaveSession(path, s); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	return path
}

// mockPrinter is a PDFPrinter that records its input.
type mockPrinter struct {
	pdf       []byte
	err       error
	gotHTML   string
	gotDir    string
	closed    bool
	callCount int
}

func (m *mockPrinter) ToPDF(_ context.Context, htmlDoc, sourceDir string) ([]byte, error) {
	m.callCount++
	m.gotHTML = htmlDoc
	m.gotDir = sourceDir
	if m.err != nil {
		return nil, m.err
	}
	return m.pdf, nil
}

func (m *mockPrinter) Close() error {
	m.closed = true
	return nil
}

// staticRenderer is a CLIRenderer returning a fixed result.
type staticRenderer struct {
	html string
	err  error
}

func (r *staticRenderer) Render(_ context.Context, _ mdpost.Input) (*mdpost.RenderResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &mdpost.RenderResult{HTML: r.html}, nil
}
