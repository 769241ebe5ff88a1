// Package exec handles executing external commands.
package exec

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Target is the file an open command acts on.
type Target struct {
	// Root is the absolute root directory the tree was built from.
	Root string

	// Path is the slash-separated path relative to Root.
	Path string
}

// Abs returns the target's absolute path on the host.
func (t Target) Abs() string {
	return filepath.Join(t.Root, filepath.FromSlash(t.Path))
}

// Open executes the open command in the foreground, attached to the
// terminal.
func Open(command string, t Target) error {
	cmd := exec.Command("sh", "-c", ExpandTemplate(command, t))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open %s: %w", t.Path, err)
	}
	return nil
}

// OpenDetached executes the open command in a detached process.
// This is useful for commands that should outlive foldtree.
func OpenDetached(command string, t Target) error {
	cmd := exec.Command("sh", "-c", ExpandTemplate(command, t))
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	// Start the process but don't wait for it
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", t.Path, err)
	}
	return cmd.Process.Release()
}

// ExpandTemplate expands template variables in the command. Every value is
// shell-quoted.
func ExpandTemplate(command string, t Target) string {
	abs := t.Abs()
	r := strings.NewReplacer(
		"{path}", shellQuote(abs),
		"{name}", shellQuote(filepath.Base(abs)),
		"{dir}", shellQuote(filepath.Dir(abs)),
		"{root}", shellQuote(t.Root),
	)
	return r.Replace(command)
}

// shellQuote quotes s for sh when it contains anything besides safe
// characters. Single quotes are closed, emitted in double quotes, and
// reopened.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsFunc(s, needsQuote) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("/._-+,:@%=", r)
}
