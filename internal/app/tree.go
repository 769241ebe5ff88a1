package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/henri123lemoine/foldtree/internal/debug"
	"github.com/henri123lemoine/foldtree/internal/exec"
	"github.com/henri123lemoine/foldtree/internal/layout"
	"github.com/henri123lemoine/foldtree/internal/tree"
	"github.com/henri123lemoine/foldtree/internal/ui"
)

func (m Model) rows() []layout.Row {
	if m.geo.Layout == nil {
		return nil
	}
	return m.geo.Layout.Rows
}

func (m Model) isOpen(path string) bool {
	return m.open[path]
}

func (m Model) metrics() layout.Metrics {
	return layout.Metrics{
		FolderHeight:  m.config.FolderHeight(),
		FileHeight:    m.config.FileHeight(),
		PaddingBottom: m.config.Tree.PaddingBottom,
	}
}

// props is the presentation state of row i.
func (m Model) props(i int, row layout.Row) ui.Props {
	p := ui.Props{
		Path:     row.Path,
		Name:     row.Name,
		Depth:    row.Depth,
		Folder:   row.Folder,
		Open:     row.Open,
		Selected: m.selection.Is(row.Path),
		Focused:  i == m.cursor,
	}
	if row.Folder {
		p.Stuck, p.Folded = m.registry.Flags(row.Path)
	}
	return p
}

// rebuild builds the forest from paths and re-mounts the folder headers.
// The cursor stays on the same path, or on its nearest shown ancestor.
func (m *Model) rebuild(paths []string) tea.Cmd {
	defer debug.Timed("rebuild")()

	cursorPath := ""
	if rows := m.rows(); m.cursor < len(rows) {
		cursorPath = rows[m.cursor].Path
	}

	forest, conflicts := tree.BuildWithConflicts(paths)
	for _, c := range conflicts {
		debug.Log("path %q is both a file and a folder, keeping the folder", c)
	}

	m.forest = forest
	m.files, m.folders = 0, 0
	forest.Walk(func(_ string, _ int, n *tree.Node) bool {
		if n.IsFolder() {
			m.folders++
		} else {
			m.files++
		}
		return true
	})

	m.geo.Layout = layout.Build(forest, m.isOpen, m.metrics())
	res := m.registry.Sync(m.geo.Mounts())
	debug.With(map[string]interface{}{
		"paths":   len(paths),
		"rows":    len(m.geo.Layout.Rows),
		"headers": m.registry.Len(),
	}, "tree rebuilt")

	m.cursor = m.locate(cursorPath)
	m.refresh()

	var cmds []tea.Cmd
	if scrolled := m.syncScroll(); scrolled != nil {
		cmds = append(cmds, scrolled)
	} else if res.Detect {
		cmds = append(cmds, m.requestFrame())
	}
	if len(res.Changed) > 0 {
		debug.Log("stuck cleared: %v", res.Changed)
		cmds = append(cmds, m.scheduleFold())
	}
	return tea.Batch(cmds...)
}

// locate returns the row index for path, falling back to its closest
// ancestor with a row, then to the clamped current cursor.
func (m Model) locate(path string) int {
	l := m.geo.Layout
	for p := path; p != ""; p = tree.Parent(p) {
		if i, ok := l.Index(p); ok {
			return i
		}
	}
	return min(max(m.cursor, 0), max(len(l.Rows)-1, 0))
}

// resize lays the tree region out for the current terminal size.
func (m *Model) resize() tea.Cmd {
	if m.width == 0 {
		return nil
	}

	m.frame = ui.TreeFrame(m.width, m.height, m.err != nil, m.config.UI.ShowHelp)
	m.vp.Width = m.frame.Width
	m.vp.Height = m.frame.Height

	m.geo.Top = m.frame.Top
	m.geo.BorderTop = m.frame.BorderTop
	m.geo.PaddingTop = m.frame.PaddingTop
	m.geo.Height = m.frame.Height

	if m.geo.Layout == nil {
		return nil
	}
	m.refresh()
	if cmd := m.syncScroll(); cmd != nil {
		return cmd
	}
	// Header rects moved with the region.
	return m.requestFrame()
}

// setErr shows err in the header, resizing the tree region when the error
// line appears or goes away.
func (m *Model) setErr(err error) tea.Cmd {
	had := m.err != nil
	m.err = err
	if err != nil {
		debug.Warn(err, "shown to user")
	}
	if had != (err != nil) {
		return m.resize()
	}
	return nil
}

// refresh re-renders the document into the viewport.
func (m *Model) refresh() {
	if m.geo.Layout == nil || m.width == 0 {
		return
	}
	m.vp.SetContent(ui.TreeContent(m.geo.Layout, m.renderer, m.frame.Width, m.props))
	m.vp.SetYOffset(m.vp.YOffset)
}

// syncScroll mirrors the viewport offset into the geometry. A change is a
// scroll event and schedules a detection frame.
func (m *Model) syncScroll() tea.Cmd {
	if !m.geo.SetOffset(m.vp.YOffset) {
		return nil
	}
	return m.requestFrame()
}

// requestFrame schedules a detection pass unless one is already pending.
func (m *Model) requestFrame() tea.Cmd {
	if !m.config.Tree.Folding || !m.throttle.Request() {
		return nil
	}
	return tea.Tick(m.frameInterval(), func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// scheduleFold restarts the fold debounce.
func (m *Model) scheduleFold() tea.Cmd {
	gen := m.debounce.Trigger()
	return tea.Tick(m.debounceDelay(), func(time.Time) tea.Msg {
		return foldMsg{gen: gen}
	})
}

// moveCursor moves the cursor to row i and scrolls it into view.
func (m *Model) moveCursor(i int) tea.Cmd {
	rows := m.rows()
	if len(rows) == 0 {
		return nil
	}
	m.cursor = min(max(i, 0), len(rows)-1)

	var cmd tea.Cmd
	if m.geo.Height > 0 && m.geo.Reveal(m.cursor) {
		// The geometry already moved; the viewport follows.
		m.vp.SetYOffset(m.geo.Offset)
		cmd = m.requestFrame()
	}
	m.refresh()
	return cmd
}

// page scrolls by delta lines and keeps the cursor on the same screen line.
func (m *Model) page(delta int) tea.Cmd {
	rows := m.rows()
	if len(rows) == 0 {
		return nil
	}

	line := rows[m.cursor].Top - m.geo.Offset
	m.vp.SetYOffset(m.vp.YOffset + delta)
	if m.vp.YOffset == m.geo.Offset {
		// Already at the edge.
		if delta > 0 {
			return m.moveCursor(len(rows) - 1)
		}
		return m.moveCursor(0)
	}

	cmd := m.syncScroll()
	i, ok := m.geo.Layout.RowAt(m.geo.Offset + line)
	if !ok {
		i = len(rows) - 1
	}
	return tea.Batch(cmd, m.moveCursor(i))
}

// toggle opens or closes a folder. Folded flags inside it are cleared.
func (m *Model) toggle(path string) tea.Cmd {
	if m.open[path] {
		delete(m.open, path)
	} else {
		m.open[path] = true
	}
	m.registry.ClearFoldedWithin(path)
	debug.Log("toggle %s open=%v", path, m.open[path])
	return m.applyFilter()
}

// activate selects row i. Folders toggle. Files either end the program or
// run the open command detached, depending on configuration.
func (m *Model) activate(i int) tea.Cmd {
	rows := m.rows()
	if i < 0 || i >= len(rows) {
		return nil
	}
	row := rows[i]
	m.cursor = i
	m.selection.Set(row.Path)

	if row.Folder {
		return m.toggle(row.Path)
	}

	debug.Log("select %s", row.Path)
	m.chosen = row.Path
	m.refresh()

	// On exit the caller runs the open command in the foreground.
	if m.config.Open.ExitAfterSelect {
		m.shouldQuit = true
		return tea.Quit
	}
	if cmd := m.config.Open.Command; cmd != "" {
		return openFile(cmd, exec.Target{Root: m.opts.Root, Path: row.Path})
	}
	return nil
}
