// Package source produces the flat path sets the tree is built from.
//
// Paths are always relative to a root and slash separated. A source never
// returns directories on their own; folders appear through the files
// inside them.
package source

import (
	"fmt"
	"io"
	"os"

	"github.com/henri123lemoine/foldtree/internal/debug"
)

// Mode selects where paths come from.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeGit  Mode = "git"
	ModeWalk Mode = "walk"
	ModeList Mode = "list"
)

// Options control directory-based sources.
type Options struct {
	Mode Mode

	// ShowHidden includes dot files and dot directories when walking.
	ShowHidden bool

	// Ignore holds base-name patterns (filepath.Match syntax) to skip.
	Ignore []string

	// List is read instead of the directory when Mode is ModeList.
	List io.Reader
}

// Load returns the paths under root for the configured mode.
func Load(root string, opts Options) ([]string, error) {
	defer debug.Timed(fmt.Sprintf("source.Load(%s, %s)", root, opts.Mode))()

	switch opts.Mode {
	case ModeList:
		if opts.List == nil {
			return nil, fmt.Errorf("list source: no input")
		}
		return ReadList(opts.List)
	case ModeGit:
		return GitFiles(root)
	case ModeWalk:
		return Walk(root, opts)
	case ModeAuto, "":
		if IsGitRepo(root) {
			paths, err := GitFiles(root)
			if err == nil {
				return paths, nil
			}
			debug.Warn(err, "git source failed, walking %s", root)
		}
		return Walk(root, opts)
	default:
		return nil, fmt.Errorf("unknown source mode %q", opts.Mode)
	}
}

// ReadFile reads a path list from name, or from stdin when name is "-".
func ReadFile(name string) ([]string, error) {
	if name == "-" {
		return ReadList(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadList(f)
}
