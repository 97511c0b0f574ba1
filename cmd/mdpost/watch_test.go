package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestDebouncer
// ---------------------------------------------------------------------------

func TestDebouncer(t *testing.T) {
	t.Parallel()

	t.Run("coalesces bursts", func(t *testing.T) {
		t.Parallel()

		var fired atomic.Int32
		d := newDebouncer(30*time.Millisecond, func() { fired.Add(1) })
		defer d.Stop()

		for range 5 {
			d.Trigger()
			time.Sleep(5 * time.Millisecond)
		}
		time.Sleep(150 * time.Millisecond)

		if got := fired.Load(); got != 1 {
			t.Errorf("fired %d times, want 1", got)
		}
	})

	t.Run("stop cancels pending fire", func(t *testing.T) {
		t.Parallel()

		var fired atomic.Int32
		d := newDebouncer(30*time.Millisecond, func() { fired.Add(1) })
		d.Trigger()
		d.Stop()
		time.Sleep(100 * time.Millisecond)

		if got := fired.Load(); got != 0 {
			t.Errorf("fired %d times after Stop, want 0", got)
		}
	})

	t.Run("stop without trigger", func(t *testing.T) {
		t.Parallel()
		newDebouncer(time.Millisecond, func() {}).Stop()
	})
}

// ---------------------------------------------------------------------------
// TestRunWatch
// ---------------------------------------------------------------------------

func TestRunWatch_RebuildsOnSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "post.md", "# First\n")
	output := filepath.Join(dir, "preview.html")
	sessionFile := filepath.Join(dir, "session.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env, stdout, _ := testEnv()
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, []string{input, "-o", output, "-s", sessionFile, "-d", "20ms", "--no-style"}, env)
	}()

	waitForContent(t, output, "First")

	// Let the watcher register before saving.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "post.md", "# Second\n")
	waitForContent(t, output, "Second")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runWatch() unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch did not stop after cancel")
	}

	if !strings.Contains(stdout.String(), "Watching "+input) {
		t.Errorf("stdout missing watch banner\ngot: %s", stdout.String())
	}
	if got := strings.Count(stdout.String(), "Updated "+output); got < 2 {
		t.Errorf("Updated lines = %d, want at least 2\ngot: %s", got, stdout.String())
	}
}

func TestRunWatch_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.md", "# A")
	b := writeFile(t, dir, "b.md", "# B")
	txt := writeFile(t, dir, "notes.txt", "x")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no input", nil, ErrNoInput},
		{"two inputs", []string{a, b}, ErrTooManyInputs},
		{"not markdown", []string{txt}, ErrInvalidExtension},
		{"bad engine", []string{a, "-e", "pandoc"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv()
			err := runWatch(context.Background(), tt.args, env)
			if err == nil {
				t.Fatal("runWatch() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("runWatch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// waitForContent polls path until it contains want.
func waitForContent(t *testing.T, path, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(path); err == nil && strings.Contains(string(data), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("%s never contained %q", path, want)
}
