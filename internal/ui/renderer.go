package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/henri123lemoine/foldtree/internal/layout"
)

// Props is everything a renderer knows about one row.
type Props struct {
	Path     string
	Name     string
	Depth    int
	Folder   bool
	Open     bool
	Selected bool
	Focused  bool
	Stuck    bool
	Folded   bool
}

// IconRenderer draws the glyph in front of a row's name.
type IconRenderer interface {
	RenderIcon(p Props) string
}

// TextRenderer draws a row's name into at most width cells.
type TextRenderer interface {
	RenderText(p Props, width int) string
}

// DepthOffsetParams is the input to a DepthOffsetFunc.
type DepthOffsetParams struct {
	Depth         int
	DepthDistance int
	Gap           int
}

// DepthOffsetFunc returns the indentation of a row, in cells.
type DepthOffsetFunc func(DepthOffsetParams) int

// DefaultDepthOffset indents each level by the depth distance.
func DefaultDepthOffset(p DepthOffsetParams) int {
	return p.DepthDistance * max(p.Depth-1, 0)
}

// Arrow is the default icon: an arrow that turns down when the folder is
// open, and a dot for files.
type Arrow struct {
	Closed string
	Open   string
	File   string
}

// DefaultArrow returns the built-in glyphs.
func DefaultArrow() Arrow {
	return Arrow{Closed: SymbolFolder, Open: SymbolFolderOpen, File: SymbolFile}
}

// RenderIcon implements IconRenderer.
func (a Arrow) RenderIcon(p Props) string {
	switch {
	case !p.Folder:
		return a.File
	case p.Open:
		return a.Open
	default:
		return a.Closed
	}
}

// Name is the default text renderer: the name, truncated with an
// ellipsis.
type Name struct{}

// RenderText implements TextRenderer.
func (Name) RenderText(p Props, width int) string {
	return Truncate(p.Name, width)
}

// Truncate shortens s to width cells, ending in an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, SymbolEllipsis)
}

// RowOptions customise one kind of row. Nil fields and a zero Gap fall
// back to the item options, then to the defaults.
type RowOptions struct {
	Icon        IconRenderer
	Text        TextRenderer
	DepthOffset DepthOffsetFunc
	Gap         int
}

// Renderer turns layout rows into styled lines.
type Renderer struct {
	Folder RowOptions
	File   RowOptions
	Item   RowOptions

	DepthDistance int
	InlineLeft    int
	InlineRight   int
}

type resolved struct {
	icon   IconRenderer
	text   TextRenderer
	offset DepthOffsetFunc
	gap    int
}

func (r Renderer) resolve(folder bool) resolved {
	kind := r.File
	if folder {
		kind = r.Folder
	}

	out := resolved{icon: DefaultArrow(), text: Name{}, offset: DefaultDepthOffset}
	for _, o := range []RowOptions{r.Item, kind} {
		if o.Icon != nil {
			out.icon = o.Icon
		}
		if o.Text != nil {
			out.text = o.Text
		}
		if o.DepthOffset != nil {
			out.offset = o.DepthOffset
		}
		if o.Gap > 0 {
			out.gap = o.Gap
		}
	}
	return out
}

// Line renders the unstyled first line of a row, at most width cells.
func (r Renderer) Line(p Props, width int) string {
	opts := r.resolve(p.Folder)

	indent := max(r.InlineLeft, 0) + max(opts.offset(DepthOffsetParams{
		Depth:         p.Depth,
		DepthDistance: r.DepthDistance,
		Gap:           opts.gap,
	}), 0)
	icon := opts.icon.RenderIcon(p)

	avail := width - indent - lipgloss.Width(icon) - opts.gap - max(r.InlineRight, 0)
	text := opts.text.RenderText(p, max(avail, 0))

	line := strings.Repeat(" ", indent) + icon + strings.Repeat(" ", opts.gap) + text
	return Truncate(line, width)
}

// Render renders a row as exactly row.Height styled lines of width cells.
func (r Renderer) Render(row layout.Row, p Props, width int) []string {
	style := rowStyle(p, width)

	lines := make([]string, max(row.Height, 1))
	lines[0] = style.Render(r.Line(p, width))
	for i := 1; i < len(lines); i++ {
		lines[i] = style.Render("")
	}
	return lines
}
