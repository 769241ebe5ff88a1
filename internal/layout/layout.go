// Package layout flattens a forest into rows with document positions and
// computes where each folder header is drawn inside the scroll region.
package layout

import (
	"github.com/henri123lemoine/foldtree/internal/tree"
)

// Metrics are the row heights, in terminal lines.
type Metrics struct {
	FolderHeight  int
	FileHeight    int
	PaddingBottom int
}

// Row is one rendered node.
type Row struct {
	Path   string
	Name   string
	Depth  int
	Folder bool
	Open   bool

	// Top is the first document line of the row.
	Top    int
	Height int

	// End is the line just past the row's block: the row itself plus, for
	// open folders, everything rendered inside it.
	End int

	// Parent is the index of the enclosing folder row, or -1.
	Parent int
}

// Header is a mounted folder header. Headers inside collapsed folders stay
// mounted but are not visible.
type Header struct {
	Path    string
	Depth   int
	Open    bool
	Visible bool
}

// Layout is the flattened document.
type Layout struct {
	Rows    []Row
	Headers []Header

	// Height is the total number of document lines, padding included.
	Height int

	metrics Metrics
	index   map[string]int
	isOpen  func(string) bool
	y       int
}

// Build lays out the forest. isOpen reports whether the folder at a path is
// expanded; a nil func treats every folder as collapsed.
func Build(f tree.Forest, isOpen func(path string) bool, m Metrics) *Layout {
	if m.FolderHeight < 1 {
		m.FolderHeight = 1
	}
	if m.FileHeight < 1 {
		m.FileHeight = 1
	}
	if isOpen == nil {
		isOpen = func(string) bool { return false }
	}

	l := &Layout{
		metrics: m,
		index:   make(map[string]int),
		isOpen:  isOpen,
	}
	l.add(f, "", -1, 1, true)
	l.Height = l.y + max(m.PaddingBottom, 0)
	return l
}

func (l *Layout) add(nodes []*tree.Node, parent string, parentRow, depth int, visible bool) {
	for _, n := range nodes {
		path := tree.Join(parent, n.Name)
		folder := n.IsFolder()
		open := folder && l.isOpen(path)

		if folder {
			l.Headers = append(l.Headers, Header{Path: path, Depth: depth, Open: open, Visible: visible})
		}

		if !visible {
			if folder {
				l.add(n.Children, path, parentRow, depth+1, false)
			}
			continue
		}

		height := l.metrics.FileHeight
		if folder {
			height = l.metrics.FolderHeight
		}

		idx := len(l.Rows)
		l.Rows = append(l.Rows, Row{
			Path:   path,
			Name:   n.Name,
			Depth:  depth,
			Folder: folder,
			Open:   open,
			Top:    l.y,
			Height: height,
			Parent: parentRow,
		})
		l.index[path] = idx
		l.y += height

		if folder {
			l.add(n.Children, path, idx, depth+1, open)
		}
		l.Rows[idx].End = l.y
	}
}

// Index returns the row index for path.
func (l *Layout) Index(path string) (int, bool) {
	i, ok := l.index[path]
	return i, ok
}

// Metrics returns the metrics the layout was built with.
func (l *Layout) Metrics() Metrics {
	return l.metrics
}

// RowAt returns the index of the row covering document line y.
func (l *Layout) RowAt(y int) (int, bool) {
	lo, hi := 0, len(l.Rows)
	for lo < hi {
		mid := (lo + hi) / 2
		r := l.Rows[mid]
		switch {
		case y < r.Top:
			hi = mid
		case y >= r.Top+r.Height:
			lo = mid + 1
		default:
			return mid, true
		}
	}
	return 0, false
}

// Ancestors returns the row indexes of the folders enclosing row i,
// outermost first.
func (l *Layout) Ancestors(i int) []int {
	var out []int
	for p := l.Rows[i].Parent; p >= 0; p = l.Rows[p].Parent {
		out = append(out, p)
	}
	for a, b := 0, len(out)-1; a < b; a, b = a+1, b-1 {
		out[a], out[b] = out[b], out[a]
	}
	return out
}
