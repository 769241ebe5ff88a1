package app

import (
	"errors"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/henri123lemoine/foldtree/internal/config"
	"github.com/henri123lemoine/foldtree/internal/debug"
	"github.com/henri123lemoine/foldtree/internal/exec"
	"github.com/henri123lemoine/foldtree/internal/fold"
	"github.com/henri123lemoine/foldtree/internal/layout"
	"github.com/henri123lemoine/foldtree/internal/source"
	"github.com/henri123lemoine/foldtree/internal/tree"
	"github.com/henri123lemoine/foldtree/internal/ui"
)

// State represents the current UI state.
type State int

const (
	StateTree State = iota
	StateFilter
	StateHelp
)

// Options describe where the model gets its paths from.
type Options struct {
	// Root is the directory paths are relative to.
	Root string

	Source source.Options

	// Paths, when non-nil, is used instead of loading from Source.
	Paths []string

	// Open lists the folders that start expanded.
	Open []string

	// Watcher, when set, triggers a reload on every settled change.
	Watcher *source.Watcher

	// Selection is shared with the caller. New creates one when nil.
	Selection *Selection
}

// Model is the main application model.
type Model struct {
	// Configuration
	config *config.Config
	keys   KeyMap
	opts   Options

	// Data
	paths     []string
	forest    tree.Forest
	files     int
	folders   int
	open      map[string]bool
	selection *Selection

	// Presentation
	geo      *layout.Viewport
	vp       viewport.Model
	frame    ui.Frame
	renderer ui.Renderer
	cursor   int

	// Folding
	registry *fold.Registry
	throttle *fold.Throttle
	debounce *fold.Debouncer

	// State
	state   State
	loading bool
	err     error

	filterInput textinput.Model

	width  int
	height int

	// Exit behavior
	chosen     string
	shouldQuit bool
}

// New creates a new Model.
func New(cfg *config.Config, opts Options) Model {
	filterInput := textinput.New()
	filterInput.Placeholder = "filter..."
	filterInput.CharLimit = 100

	sel := opts.Selection
	if sel == nil {
		sel = NewSelection("")
	}

	open := make(map[string]bool, len(opts.Open))
	for _, p := range opts.Open {
		open[p] = true
	}

	geo := &layout.Viewport{Sticky: cfg.Tree.Folding}
	registry := fold.NewRegistry(cfg.FolderHeight())
	if cfg.Tree.Folding {
		registry.SetContainer(geo)
	}

	return Model{
		config:      cfg,
		keys:        KeyMapFromConfig(&cfg.Keys),
		opts:        opts,
		open:        open,
		selection:   sel,
		geo:         geo,
		vp:          viewport.New(0, 0),
		renderer:    rendererFromConfig(cfg),
		registry:    registry,
		throttle:    &fold.Throttle{},
		debounce:    &fold.Debouncer{},
		filterInput: filterInput,
		state:       StateTree,
		loading:     true,
	}
}

func rendererFromConfig(cfg *config.Config) ui.Renderer {
	arrow := ui.DefaultArrow()
	if cfg.Folder.Icon != "" {
		arrow.Closed = cfg.Folder.Icon
	}
	if cfg.Folder.IconOpen != "" {
		arrow.Open = cfg.Folder.IconOpen
	}
	if cfg.File.Icon != "" {
		arrow.File = cfg.File.Icon
	}

	return ui.Renderer{
		Item:          ui.RowOptions{Icon: arrow, Gap: cfg.Item.Gap},
		Folder:        ui.RowOptions{Gap: cfg.FolderGap()},
		File:          ui.RowOptions{Gap: cfg.FileGap()},
		DepthDistance: cfg.Tree.DepthDistance,
		InlineLeft:    cfg.Item.InlineOffsetLeft,
		InlineRight:   cfg.Item.InlineOffsetRight,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), waitForChange(m.opts.Watcher))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cmd := m.resize()
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (key.Matches(msg, m.keys.Quit) && m.state == StateTree) {
			m.shouldQuit = true
			return m, tea.Quit
		}
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case PathsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			cmd := m.setErr(msg.Err)
			return m, cmd
		}
		m.paths = msg.Paths
		cmd := tea.Batch(m.setErr(nil), m.applyFilter())
		return m, cmd

	case FsChangedMsg:
		if msg.Err != nil {
			if !errors.Is(msg.Err, source.ErrClosed) {
				debug.Warn(msg.Err, "watcher stopped")
			}
			return m, nil
		}
		debug.With(map[string]interface{}{"changed": len(msg.Paths)}, "reload after fs change")
		return m, tea.Batch(m.load(), waitForChange(m.opts.Watcher))

	case OpenedMsg:
		if msg.Err != nil {
			cmd := m.setErr(msg.Err)
			return m, cmd
		}
		debug.Log("opened %s", msg.Path)
		return m, nil

	case frameMsg:
		m.throttle.Done()
		changed := m.registry.Detect()
		if len(changed) == 0 {
			return m, nil
		}
		debug.Log("stuck changed: %v", changed)
		m.refresh()
		cmd := m.scheduleFold()
		return m, cmd

	case foldMsg:
		if !m.debounce.Due(msg.gen) {
			return m, nil
		}
		if changed := m.registry.Resolve(); len(changed) > 0 {
			debug.Log("folded changed: %v", changed)
			m.refresh()
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles key presses based on current state.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateTree:
		return m.handleTreeKeys(msg)
	case StateFilter:
		return m.handleFilterKeys(msg)
	case StateHelp:
		// Any key closes help
		m.state = StateTree
		return m, nil
	}
	return m, nil
}

// handleTreeKeys handles key presses in the tree view.
func (m Model) handleTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Up):
		cmd = m.moveCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		cmd = m.moveCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.Home):
		cmd = m.moveCursor(0)
	case key.Matches(msg, m.keys.End):
		cmd = m.moveCursor(len(rows) - 1)
	case key.Matches(msg, m.keys.PageUp):
		cmd = m.page(-m.geo.Height)
	case key.Matches(msg, m.keys.PageDown):
		cmd = m.page(m.geo.Height)
	case key.Matches(msg, m.keys.HalfUp):
		cmd = m.page(-max(m.geo.Height/2, 1))
	case key.Matches(msg, m.keys.HalfDown):
		cmd = m.page(max(m.geo.Height/2, 1))

	case key.Matches(msg, m.keys.Collapse):
		if m.cursor >= len(rows) {
			break
		}
		row := rows[m.cursor]
		if row.Folder && row.Open {
			cmd = m.toggle(row.Path)
		} else if row.Parent >= 0 {
			cmd = m.moveCursor(row.Parent)
		}
	case key.Matches(msg, m.keys.Expand):
		if m.cursor >= len(rows) {
			break
		}
		row := rows[m.cursor]
		if row.Folder && !row.Open {
			cmd = m.toggle(row.Path)
		} else if row.Folder && m.cursor+1 < len(rows) && rows[m.cursor+1].Parent == m.cursor {
			cmd = m.moveCursor(m.cursor + 1)
		}
	case key.Matches(msg, m.keys.Select):
		cmd = m.activate(m.cursor)

	case key.Matches(msg, m.keys.Filter):
		m.state = StateFilter
		m.filterInput.Focus()
		cmd = textinput.Blink
	case key.Matches(msg, m.keys.Cancel):
		if m.filterInput.Value() != "" {
			m.filterInput.Reset()
			cmd = m.applyFilter()
		}
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		cmd = m.load()
	case key.Matches(msg, m.keys.Help):
		m.state = StateHelp
	}
	return m, cmd
}

// handleFilterKeys handles key presses in filter mode.
func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateTree
		m.filterInput.Reset()
		m.filterInput.Blur()
		cmd := m.applyFilter()
		return m, cmd
	case tea.KeyEnter:
		m.state = StateTree
		m.filterInput.Blur()
		return m, nil
	}

	before := m.filterInput.Value()
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.filterInput.Value() != before {
		cmd = tea.Batch(cmd, m.applyFilter())
	}
	return m, cmd
}

// handleMouse scrolls on the wheel and activates the row under a click.
// A click on a stuck header hits the header, not the row scrolled
// beneath it.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != StateTree || m.geo.Layout == nil {
		return m, nil
	}

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
		line := msg.Y - m.frame.Top - m.frame.BorderTop - m.frame.PaddingTop
		i, ok := m.rowAtLine(line)
		if !ok {
			return m, nil
		}
		cmd := m.activate(i)
		return m, cmd
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	cmd = tea.Batch(cmd, m.syncScroll())
	return m, cmd
}

// rowAtLine returns the row drawn at a content line.
func (m Model) rowAtLine(line int) (int, bool) {
	if line < 0 || line >= m.geo.Height {
		return 0, false
	}
	overlays := m.geo.Overlays()
	for k := len(overlays) - 1; k >= 0; k-- {
		ov := overlays[k]
		if line >= ov.Line && line < ov.Line+m.geo.Layout.Rows[ov.Row].Height {
			return ov.Row, true
		}
	}
	return m.geo.Layout.RowAt(m.geo.Offset + line)
}

// pathSource implements fuzzy.Source over the loaded paths.
type pathSource []string

func (p pathSource) String(i int) string {
	return p[i]
}

func (p pathSource) Len() int {
	return len(p)
}

// applyFilter rebuilds the tree from the paths matching the filter.
func (m *Model) applyFilter() tea.Cmd {
	filter := m.filterInput.Value()
	if filter == "" {
		return m.rebuild(m.paths)
	}

	matches := fuzzy.FindFrom(filter, pathSource(m.paths))
	filtered := make([]string, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, m.paths[match.Index])
	}
	return m.rebuild(filtered)
}

// View renders the UI.
func (m Model) View() string {
	var treeView string
	if m.geo.Layout != nil && m.width > 0 {
		treeView = ui.StickHeaders(m.vp.View(), m.geo, m.renderer, m.frame.Width, m.props)
	}

	return ui.Render(ui.RenderParams{
		State:        int(m.state),
		Width:        m.width,
		Height:       m.height,
		Root:         m.opts.Root,
		Loading:      m.loading,
		Err:          m.err,
		Tree:         treeView,
		Empty:        len(m.rows()) == 0,
		Files:        m.files,
		Folders:      m.folders,
		FilterInput:  m.filterInput.View(),
		FilterValue:  m.filterInput.Value(),
		ShowHelp:     m.config.UI.ShowHelp,
		HelpSections: m.keys.helpSections(),
	})
}

// ShouldQuit returns true if the app should quit.
func (m Model) ShouldQuit() bool {
	return m.shouldQuit
}

// Chosen returns the file selected to exit with, or "".
func (m Model) Chosen() string {
	return m.chosen
}

// OpenFolders returns the expanded folders, sorted. Once paths are loaded,
// folders that no longer exist are dropped.
func (m Model) OpenFolders() []string {
	var known tree.Forest
	if m.paths != nil {
		known = tree.Build(m.paths)
	}

	out := make([]string, 0, len(m.open))
	for p := range m.open {
		if known != nil {
			if n := known.Find(p); n == nil || !n.IsFolder() {
				continue
			}
		}
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Commands

func (m Model) load() tea.Cmd {
	if m.opts.Paths != nil {
		paths := m.opts.Paths
		return func() tea.Msg {
			return PathsLoadedMsg{Paths: paths}
		}
	}
	root, opts := m.opts.Root, m.opts.Source
	return func() tea.Msg {
		paths, err := source.Load(root, opts)
		return PathsLoadedMsg{Paths: paths, Err: err}
	}
}

func waitForChange(w *source.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		paths, err := w.Next()
		return FsChangedMsg{Paths: paths, Err: err}
	}
}

func openFile(command string, t exec.Target) tea.Cmd {
	return func() tea.Msg {
		err := exec.OpenDetached(command, t)
		return OpenedMsg{Path: t.Path, Err: err}
	}
}

func (m Model) frameInterval() time.Duration {
	return time.Duration(max(m.config.Fold.FrameIntervalMs, 1)) * time.Millisecond
}

func (m Model) debounceDelay() time.Duration {
	return time.Duration(max(m.config.Fold.DebounceMs, 0)) * time.Millisecond
}
