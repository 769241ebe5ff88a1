// Package fold decides which folder headers are stuck to the top of a
// scroll container and which stuck header carries the folded marker.
//
// Nothing here touches the terminal. Geometry is read through the
// Container and Measurable interfaces, and the caller drives timing: it
// asks a Throttle whether to schedule a detection frame, runs
// Registry.Detect when the frame fires, and runs Registry.Resolve once the
// Debouncer says the latest fold request is due.
package fold

// Rect is the vertical extent of a laid-out box, in screen rows.
type Rect struct {
	Top    int
	Height int
}

// Measurable is anything with a vertical extent. Rect returns false when
// the box has not been laid out (or is hidden).
type Measurable interface {
	Rect() (Rect, bool)
}

// Container is the scrollable ancestor that headers stick to.
type Container interface {
	Measurable

	// ScrollTop is the number of rows scrolled past the top.
	ScrollTop() int

	// Insets returns the top border and top padding inside Rect.
	Insets() (borderTop, paddingTop int)
}

// Measurement is the input to IsStuck for a single header.
type Measurement struct {
	// Offset is the header's top relative to the container's content box.
	Offset       int
	HeaderHeight int
	NominalTop   int
	ScrollTop    int
	Open         bool
}

// NominalTop is the offset a header at depth is pinned at: each ancestor
// level contributes one header height of stacking room.
func NominalTop(depth, headerHeight int) int {
	if depth < 1 {
		depth = 1
	}
	return headerHeight * (depth - 1)
}

// IsStuck reports whether a header sits in its pinned band: it has reached
// its nominal top but is not yet fully scrolled past it, the container is
// scrolled, and the header's folder is open.
func IsStuck(m Measurement) bool {
	return m.Offset <= m.NominalTop &&
		m.Offset+m.HeaderHeight > m.NominalTop &&
		m.ScrollTop > 0 &&
		m.Open
}

// Measure reads header geometry relative to container. It returns false if
// either box is missing or not laid out yet.
func Measure(container Container, header Measurable, nominalTop int, open bool) (Measurement, bool) {
	if container == nil || header == nil {
		return Measurement{}, false
	}

	c, ok := container.Rect()
	if !ok {
		return Measurement{}, false
	}
	h, ok := header.Rect()
	if !ok {
		return Measurement{}, false
	}

	borderTop, paddingTop := container.Insets()
	return Measurement{
		Offset:       h.Top - c.Top - borderTop - paddingTop,
		HeaderHeight: h.Height,
		NominalTop:   nominalTop,
		ScrollTop:    container.ScrollTop(),
		Open:         open,
	}, true
}
