package app

// Selection holds the selected path. The owner creates it and hands it to
// New, so the selection outlives the model and can be read after the
// program exits.
type Selection struct {
	path string
}

// NewSelection returns a selection holding path.
func NewSelection(path string) *Selection {
	return &Selection{path: path}
}

// Path returns the selected path, or "" when nothing is selected.
func (s *Selection) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Set selects path.
func (s *Selection) Set(path string) {
	s.path = path
}

// Is reports whether path is selected.
func (s *Selection) Is(path string) bool {
	return s != nil && s.path != "" && s.path == path
}
