package pipeline

import "testing"

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"Hello", "hello"},
		{"Hello World", "hello-world"},
		{"Step 1: Install", "step-1-install"},
		{"  padded  ", "padded"},
		{"a -- b", "a-b"},
		{"snake_case stays", "snake_case-stays"},
		{"What's new?", "whats-new"},
		{"Café au lait", "caf-au-lait"},
		{"!!!", ""},
		{"-leading and trailing-", "leading-and-trailing"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Hello World",
		"  --Mixed__Case  Text--  ",
		"Ünïcödé headings 😀",
		"a-b-c",
		"",
		"Ⅻ roman",
	}

	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
