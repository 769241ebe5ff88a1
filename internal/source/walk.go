package source

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Walk lists the files under dir, relative to dir. Hidden entries are
// skipped unless opts.ShowHidden is set, and entries whose base name
// matches an ignore pattern are skipped along with their contents.
// Unreadable subdirectories are skipped.
func Walk(dir string, opts Options) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if p == dir {
			return err
		}
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if skip(d.Name(), opts) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func skip(name string, opts Options) bool {
	if !opts.ShowHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range opts.Ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
