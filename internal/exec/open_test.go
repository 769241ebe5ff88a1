package exec

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandTemplate(t *testing.T) {
	target := Target{
		Root: "/home/user/project",
		Path: "src/app/main.go",
	}

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "path variable",
			template: "nvim {path}",
			expected: "nvim /home/user/project/src/app/main.go",
		},
		{
			name:     "name variable",
			template: "echo {name}",
			expected: "echo main.go",
		},
		{
			name:     "dir variable",
			template: "cd {dir}",
			expected: "cd /home/user/project/src/app",
		},
		{
			name:     "root variable",
			template: "echo {root}",
			expected: "echo /home/user/project",
		},
		{
			name:     "multiple variables",
			template: "tmux new-window -c {dir} nvim {name}",
			expected: "tmux new-window -c /home/user/project/src/app nvim main.go",
		},
		{
			name:     "unknown variables are left alone",
			template: "echo {branch}",
			expected: "echo {branch}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExpandTemplate(tt.template, target)
			if result != tt.expected {
				t.Errorf("ExpandTemplate() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExpandTemplatePathsWithSpaces(t *testing.T) {
	target := Target{
		Root: "/home/user/My Project",
		Path: "docs/it's here.md",
	}

	got := ExpandTemplate("open {path}", target)
	want := `open '/home/user/My Project/docs/it'"'"'s here.md'`
	if got != want {
		t.Errorf("ExpandTemplate() = %q, want %q", got, want)
	}

	got = ExpandTemplate("cd {root}", target)
	if got != "cd '/home/user/My Project'" {
		t.Errorf("Expected quoted root, got %q", got)
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no special chars - no quoting",
			input:    "/home/user/project",
			expected: "/home/user/project",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "''",
		},
		{
			name:     "path with spaces",
			input:    "/home/user/My Project",
			expected: "'/home/user/My Project'",
		},
		{
			name:     "path with single quote",
			input:    "/home/user/it's here",
			expected: "'/home/user/it'\"'\"'s here'",
		},
		{
			name:     "path with multiple special chars",
			input:    "/home/user/test $VAR",
			expected: "'/home/user/test $VAR'",
		},
		{
			name:     "path with parentheses",
			input:    "/home/user/test (copy)",
			expected: "'/home/user/test (copy)'",
		},
		{
			name:     "path with semicolon",
			input:    "a;rm -rf b",
			expected: "'a;rm -rf b'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shellQuote(tt.input)
			if result != tt.expected {
				t.Errorf("shellQuote(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTargetAbs(t *testing.T) {
	target := Target{Root: "/r", Path: "a/b.txt"}
	if got := target.Abs(); got != filepath.Join("/r", "a", "b.txt") {
		t.Errorf("Expected /r/a/b.txt, got %q", got)
	}
}

func TestOpenRunsCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "note.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	target := Target{Root: dir, Path: "note.txt"}

	if err := Open("cp {path} {dir}/copy.txt", target); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "copy.txt")); err != nil {
		t.Errorf("Expected command to run: %v", err)
	}

	if err := Open("exit 3", target); err == nil {
		t.Error("Expected error for failing command")
	}
}

func TestOpenDetached(t *testing.T) {
	dir := t.TempDir()
	target := Target{Root: dir, Path: "x"}

	if err := OpenDetached("touch {dir}/touched", target); err != nil {
		t.Fatalf("OpenDetached failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(filepath.Join(dir, "touched")); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("Detached command did not run")
}
