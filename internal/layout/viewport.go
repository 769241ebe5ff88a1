package layout

import (
	"sort"

	"github.com/henri123lemoine/foldtree/internal/fold"
)

// Viewport is the scroll container: where the scroll region sits on
// screen, how far it is scrolled, and the layout it shows. It implements
// fold.Container. The app owns a single Viewport and updates it in place,
// so headers handed out by Header always measure the current state.
type Viewport struct {
	Layout *Layout

	// Top is the screen row of the container's outer edge.
	Top        int
	BorderTop  int
	PaddingTop int

	// Height is the number of content lines shown.
	Height int

	// Offset is the scroll offset in document lines.
	Offset int

	// Sticky enables sticky folder headers.
	Sticky bool
}

// Rect implements fold.Measurable. It fails until the container has a
// layout and a size.
func (v *Viewport) Rect() (fold.Rect, bool) {
	if v == nil || v.Layout == nil || v.Height <= 0 {
		return fold.Rect{}, false
	}
	return fold.Rect{Top: v.Top, Height: v.BorderTop + v.PaddingTop + v.Height}, true
}

// ScrollTop implements fold.Container.
func (v *Viewport) ScrollTop() int {
	return v.Offset
}

// Insets implements fold.Container.
func (v *Viewport) Insets() (int, int) {
	return v.BorderTop, v.PaddingTop
}

// MaxOffset is the largest useful scroll offset.
func (v *Viewport) MaxOffset() int {
	if v.Layout == nil {
		return 0
	}
	return max(v.Layout.Height-v.Height, 0)
}

// SetOffset scrolls to y, clamped to the document, and reports whether
// the offset changed.
func (v *Viewport) SetOffset(y int) bool {
	y = min(max(y, 0), v.MaxOffset())
	if y == v.Offset {
		return false
	}
	v.Offset = y
	return true
}

// RowTop returns where row i is drawn, relative to the content box.
// Folder headers stick at their nominal top while their block is still on
// screen and are pushed up by the end of that block.
func (v *Viewport) RowTop(i int) int {
	r := v.Layout.Rows[i]
	natural := r.Top - v.Offset
	if !v.Sticky || !r.Folder {
		return natural
	}

	nominal := fold.NominalTop(r.Depth, v.Layout.metrics.FolderHeight)
	top := max(natural, nominal)
	return min(top, r.End-v.Offset-r.Height)
}

// Header returns the measurable box of the folder header at path.
func (v *Viewport) Header(path string) fold.Measurable {
	return headerBox{v: v, path: path}
}

type headerBox struct {
	v    *Viewport
	path string
}

func (h headerBox) Rect() (fold.Rect, bool) {
	if h.v.Layout == nil {
		return fold.Rect{}, false
	}
	i, ok := h.v.Layout.Index(h.path)
	if !ok {
		return fold.Rect{}, false
	}
	return fold.Rect{
		Top:    h.v.Top + h.v.BorderTop + h.v.PaddingTop + h.v.RowTop(i),
		Height: h.v.Layout.Rows[i].Height,
	}, true
}

// Mounts returns every mounted header for fold.Registry.Sync.
func (v *Viewport) Mounts() []fold.Mount {
	if v.Layout == nil {
		return nil
	}
	mounts := make([]fold.Mount, len(v.Layout.Headers))
	for i, h := range v.Layout.Headers {
		mounts[i] = fold.Mount{
			Path:    h.Path,
			Depth:   h.Depth,
			Open:    h.Open,
			Visible: h.Visible,
			Header:  v.Header(h.Path),
		}
	}
	return mounts
}

// Overlay is a folder header drawn at its sticky position.
type Overlay struct {
	Row  int
	Line int
}

// Overlays returns the folder headers that intersect the content box, in
// paint order: deeper headers first, and among equals later siblings
// first, so ancestors and earlier siblings end up on top.
func (v *Viewport) Overlays() []Overlay {
	if !v.Sticky || v.Layout == nil {
		return nil
	}

	var out []Overlay
	for i, r := range v.Layout.Rows {
		if !r.Folder {
			continue
		}
		top := v.RowTop(i)
		if top+r.Height <= 0 || top >= v.Height {
			continue
		}
		out = append(out, Overlay{Row: i, Line: top})
	}

	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := v.Layout.Rows[out[a].Row], v.Layout.Rows[out[b].Row]
		if ra.Depth != rb.Depth {
			return ra.Depth > rb.Depth
		}
		return out[a].Row > out[b].Row
	})
	return out
}

// Occluded returns how many content lines at the top are covered by stuck
// ancestor headers of row i.
func (v *Viewport) Occluded(i int) int {
	if !v.Sticky {
		return 0
	}
	lines := 0
	for _, a := range v.Layout.Ancestors(i) {
		lines += v.Layout.Rows[a].Height
	}
	return lines
}

// Reveal scrolls the minimum amount needed to show row i below its stuck
// ancestors and reports whether the offset changed.
func (v *Viewport) Reveal(i int) bool {
	if v.Layout == nil || i < 0 || i >= len(v.Layout.Rows) {
		return false
	}
	r := v.Layout.Rows[i]

	if top := r.Top - v.Occluded(i); top < v.Offset {
		return v.SetOffset(top)
	}
	if bottom := r.Top + r.Height; bottom > v.Offset+v.Height {
		return v.SetOffset(bottom - v.Height)
	}
	return false
}
