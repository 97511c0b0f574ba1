package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestRunRender - End-to-end render command
// ---------------------------------------------------------------------------

func TestRunRender(t *testing.T) {
	t.Parallel()

	t.Run("fragment resolves session images and reports warnings", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sess := writeSession(t, dir)
		md := writeFile(t, dir, "post.md", "# Hello\n\n![p](photo.png)\n\n![x](missing.png)\n")

		env, stdout, stderr := testEnv()
		if err := runRender(context.Background(), []string{"--session", sess, md}, env); err != nil {
			t.Fatalf("runRender() unexpected error: %v", err)
		}

		out := readFile(t, filepath.Join(dir, "post.html"))
		for _, want := range []string{`<h1 id="hello">Hello</h1>`, `src="data:image/png;base64,`} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q\ngot: %s", want, out)
			}
		}
		if strings.Contains(out, "<!DOCTYPE html>") {
			t.Error("fragment output should not be a full document")
		}
		if !strings.Contains(stdout.String(), "Created "+filepath.Join(dir, "post.html")) {
			t.Errorf("stdout = %q, want Created line", stdout.String())
		}
		if !strings.Contains(stderr.String(), `line 5: unresolved image reference "missing.png"`) {
			t.Errorf("stderr = %q, want unresolved warning", stderr.String())
		}
	})

	t.Run("standalone writes a styled document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		md := writeFile(t, dir, "post.md", "# My Post\n\n```go\nx := 1\n```\n")
		out := filepath.Join(dir, "site", "index.html")

		env, _, _ := testEnv()
		args := []string{"--standalone", "--highlight", "--session", filepath.Join(dir, "none.json"), "-o", out, md}
		if err := runRender(context.Background(), args, env); err != nil {
			t.Fatalf("runRender() unexpected error: %v", err)
		}

		got := readFile(t, out)
		for _, want := range []string{"<!DOCTYPE html>", "<title>My Post</title>", "<style>", `<span class="`} {
			if !strings.Contains(got, want) {
				t.Errorf("document missing %q", want)
			}
		}
	})

	t.Run("gfm engine", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		md := writeFile(t, dir, "post.md", "Footnote[^1].\n\n[^1]: note\n")

		env, _, _ := testEnv()
		if err := runRender(context.Background(), []string{"-e", "gfm", "-q", "--session", filepath.Join(dir, "none.json"), md}, env); err != nil {
			t.Fatalf("runRender() unexpected error: %v", err)
		}
		if got := readFile(t, filepath.Join(dir, "post.html")); !strings.Contains(got, "footnote") {
			t.Errorf("gfm output should contain footnotes, got: %s", got)
		}
	})

	t.Run("batch prints summary", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "posts/a.md", "# A")
		writeFile(t, dir, "posts/b.md", "# B")

		env, stdout, _ := testEnv()
		args := []string{"-w", "2", "--session", filepath.Join(dir, "none.json"), "-o", filepath.Join(dir, "out"), filepath.Join(dir, "posts")}
		if err := runRender(context.Background(), args, env); err != nil {
			t.Fatalf("runRender() unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
			t.Errorf("stdout = %q, want summary", stdout.String())
		}
		readFile(t, filepath.Join(dir, "out", "a.html"))
		readFile(t, filepath.Join(dir, "out", "b.html"))
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		md := writeFile(t, dir, "post.md", "# A")

		env, _, _ := testEnv()
		err := runRender(context.Background(), []string{"--standalone", "--style", "neon", md}, env)
		if exitCodeFor(err) != ExitUsage {
			t.Errorf("error = %v, want a usage error", err)
		}
	})

	t.Run("too many workers", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		err := runRender(context.Background(), []string{"-w", "99", "a.md"}, env)
		if !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("error = %v, want ErrInvalidWorkerCount", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRenderBatch - Worker pool behavior
// ---------------------------------------------------------------------------

func TestRenderBatch(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		if got := renderBatch(context.Background(), &staticRenderer{}, 4, nil, &renderParams{}); got != nil {
			t.Errorf("renderBatch(nil) = %v, want nil", got)
		}
	})

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var files []FileToRender
		for _, name := range []string{"a", "b", "c", "d", "e"} {
			in := writeFile(t, dir, name+".md", "# "+name)
			files = append(files, FileToRender{InputPath: in, OutputPath: filepath.Join(dir, name+".html")})
		}

		results := renderBatch(context.Background(), &staticRenderer{html: "<p>x</p>"}, 3, files, &renderParams{})
		for i, r := range results {
			if r.Err != nil {
				t.Errorf("result[%d] error: %v", i, r.Err)
			}
			if r.InputPath != files[i].InputPath {
				t.Errorf("result[%d].InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
			}
		}
	})

	t.Run("renderer error is per file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeFile(t, dir, "a.md", "# a")
		boom := errors.New("boom")

		results := renderBatch(context.Background(), &staticRenderer{err: boom}, 1,
			[]FileToRender{{InputPath: in, OutputPath: filepath.Join(dir, "a.html")}}, &renderParams{})
		if !errors.Is(results[0].Err, boom) {
			t.Errorf("error = %v, want boom", results[0].Err)
		}
	})

	t.Run("missing input wraps ErrReadMarkdown", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		results := renderBatch(context.Background(), &staticRenderer{}, 1,
			[]FileToRender{{InputPath: filepath.Join(dir, "gone.md"), OutputPath: filepath.Join(dir, "gone.html")}}, &renderParams{})
		if !errors.Is(results[0].Err, ErrReadMarkdown) {
			t.Errorf("error = %v, want ErrReadMarkdown", results[0].Err)
		}
	})

	t.Run("canceled context skips files", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := renderBatch(ctx, &staticRenderer{}, 2, []FileToRender{{InputPath: "a.md"}, {InputPath: "b.md"}}, &renderParams{})
		for i, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("result[%d] error = %v, want context.Canceled", i, r.Err)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolvePoolSize
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := resolvePoolSize(5); got != 5 {
		t.Errorf("resolvePoolSize(5) = %d, want 5", got)
	}

	want := runtime.GOMAXPROCS(0) / 2
	want = max(1, min(8, want))
	if got := resolvePoolSize(0); got != want {
		t.Errorf("resolvePoolSize(0) = %d, want %d", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestPrintResultsWithWriter
// ---------------------------------------------------------------------------

func TestPrintResultsWithWriter(t *testing.T) {
	t.Parallel()

	results := []RenderOutcome{
		{InputPath: "a.md", OutputPath: "a.html", Warnings: []string{"line 2: unresolved image reference \"x.png\""}, Duration: 12 * time.Millisecond},
		{InputPath: "b.md", Err: errors.New("boom")},
	}

	tests := []struct {
		name         string
		quiet        bool
		verbose      bool
		wantStdout   []string
		wantStderr   []string
		rejectStdout []string
	}{
		{
			name:       "default",
			wantStdout: []string{"Created a.html", "1 succeeded, 1 failed"},
			wantStderr: []string{"FAILED b.md: boom", "a.md: line 2: unresolved"},
		},
		{
			name:       "verbose",
			verbose:    true,
			wantStdout: []string{"a.md -> a.html (12ms)"},
		},
		{
			name:         "quiet only shows failures",
			quiet:        true,
			wantStderr:   []string{"FAILED b.md"},
			rejectStdout: []string{"Created", "succeeded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			env := &Environment{Stdout: &stdout, Stderr: &stderr}

			if failed := printResultsWithWriter(results, tt.quiet, tt.verbose, env); failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, stdout.String())
				}
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, stderr.String())
				}
			}
			for _, reject := range tt.rejectStdout {
				if strings.Contains(stdout.String(), reject) {
					t.Errorf("stdout should not contain %q, got %q", reject, stdout.String())
				}
			}
		})
	}
}
