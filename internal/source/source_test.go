package source

import (
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

// writeFiles creates each relative path under root with some content.
func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create dir for %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte(p), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}
	}
}

func TestReadList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain", "a/b.go\nc.go\n", []string{"a/b.go", "c.go"}},
		{"blank lines", "\n  \na\n\n", []string{"a"}},
		{"dot slash prefix", "./src/main.go", []string{"src/main.go"}},
		{"trailing slash", "docs/", []string{"docs"}},
		{"absolute", "/etc/hosts", []string{"etc/hosts"}},
		{"crlf", "a.txt\r\nb.txt\r\n", []string{"a.txt", "b.txt"}},
		{"double slash", "a//b", []string{"a/b"}},
		{"backslash kept", `a\b.txt`, []string{`a\b.txt`}},
		{"spaces kept", "My Docs/a b.txt", []string{"My Docs/a b.txt"}},
		{"only dot", ".\n./\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadList(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadList error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ReadList(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"README.md",
		"src/main.go",
		"src/ui/view.go",
		".env",
		".git/config",
		"node_modules/x/index.js",
	)
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Walk(root, Options{Ignore: []string{".git", "node_modules"}})
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	slices.Sort(got)
	want := []string{"README.md", "src/main.go", "src/ui/view.go"}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got, err = Walk(root, Options{ShowHidden: true, Ignore: []string{".git", "node_*"}})
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	if !slices.Contains(got, ".env") {
		t.Errorf("Expected hidden .env with ShowHidden, got %v", got)
	}
	if slices.Contains(got, ".git/config") || slices.Contains(got, "node_modules/x/index.js") {
		t.Errorf("Ignored entries should be skipped, got %v", got)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	if _, err := Walk(filepath.Join(t.TempDir(), "missing"), Options{}); err == nil {
		t.Error("Expected error for missing root")
	}
}

func TestLoadModes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	got, err := Load(root, Options{Mode: ModeList, List: strings.NewReader("x/y\n")})
	if err != nil || !slices.Equal(got, []string{"x/y"}) {
		t.Errorf("List mode = %v, %v", got, err)
	}

	got, err = Load(root, Options{Mode: ModeWalk})
	if err != nil || !slices.Equal(got, []string{"a.txt"}) {
		t.Errorf("Walk mode = %v, %v", got, err)
	}

	if _, err := Load(root, Options{Mode: ModeList}); err == nil {
		t.Error("Expected error for list mode without input")
	}
	if _, err := Load(root, Options{Mode: "svn"}); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paths.txt")
	if err := os.WriteFile(path, []byte("b\na/c\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil || !slices.Equal(got, []string{"b", "a/c"}) {
		t.Errorf("ReadFile = %v, %v", got, err)
	}
	if _, err := ReadFile(path + ".missing"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func runIn(dir string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.Run()
}

func TestGitFiles(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	root := t.TempDir()
	if err := runIn(root, "git", "init"); err != nil {
		t.Fatalf("git init failed: %v", err)
	}
	writeFiles(t, root, "tracked/a.go", "b.go", "untracked.txt")
	if err := runIn(root, "git", "add", "tracked", "b.go"); err != nil {
		t.Fatalf("git add failed: %v", err)
	}

	if !IsGitRepo(root) {
		t.Fatal("Expected a git repo")
	}

	got, err := GitFiles(root)
	if err != nil {
		t.Fatalf("GitFiles error: %v", err)
	}
	slices.Sort(got)
	if !slices.Equal(got, []string{"b.go", "tracked/a.go"}) {
		t.Errorf("Expected tracked files only, got %v", got)
	}

	got, err = Load(root, Options{Mode: ModeAuto})
	if err != nil || len(got) != 2 {
		t.Errorf("Auto mode should use git, got %v, %v", got, err)
	}
}

func TestIsGitRepoOutsideRepo(t *testing.T) {
	if IsGitRepo(filepath.Join(t.TempDir(), "missing")) {
		t.Error("A missing directory is not a git repo")
	}
}

func TestWatcherCoalescesBurst(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "src/a.go")

	w, err := NewWatcher(root, Options{Ignore: []string{"*.swp"}})
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	defer w.Close()
	w.SetSettle(50 * time.Millisecond)

	type result struct {
		changed []string
		err     error
	}
	done := make(chan result, 1)
	go func() {
		changed, err := w.Next()
		done <- result{changed, err}
	}()

	writeFiles(t, root, "src/.a.go.swp", "src/b.go", "src/c.go")

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("Next error: %v", r.err)
		}
		if !slices.Contains(r.changed, "src/b.go") {
			t.Errorf("Expected src/b.go in %v", r.changed)
		}
		if slices.Contains(r.changed, "src/.a.go.swp") {
			t.Errorf("Hidden files should be ignored, got %v", r.changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watcher did not report changes")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := w.Next()
		done <- err
	}()

	_ = w.Close()
	select {
	case err := <-done:
		if err != ErrClosed {
			t.Errorf("Expected ErrClosed, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Next did not return after Close")
	}
}
