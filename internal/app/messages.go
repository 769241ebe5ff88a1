package app

// Message types for the bubbletea app.

// PathsLoadedMsg is sent when the path set has been read from its source.
type PathsLoadedMsg struct {
	Paths []string
	Err   error
}

// FsChangedMsg is sent when the watcher reports a settled burst of changes.
type FsChangedMsg struct {
	Paths []string
	Err   error
}

// OpenedMsg is sent when the open command has been started.
type OpenedMsg struct {
	Path string
	Err  error
}

// frameMsg runs the detection pass for one frame.
type frameMsg struct{}

// foldMsg resolves folds once the stuck flags have been quiet for the
// debounce delay. Only the latest generation is honoured.
type foldMsg struct {
	gen uint64
}
