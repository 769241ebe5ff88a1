package ui

import (
	"strings"

	"github.com/henri123lemoine/foldtree/internal/layout"
)

// PropsFunc returns the presentation state of row i.
type PropsFunc func(i int, row layout.Row) Props

// TreeContent renders the whole document: every row at its natural
// position followed by the bottom padding. It has exactly Layout.Height
// lines.
func TreeContent(l *layout.Layout, r Renderer, width int, props PropsFunc) string {
	lines := make([]string, 0, l.Height)
	for i, row := range l.Rows {
		lines = append(lines, r.Render(row, props(i, row), width)...)
	}
	for len(lines) < l.Height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// StickHeaders paints folder headers at their sticky positions over
// window, the visible slice of TreeContent.
func StickHeaders(window string, v *layout.Viewport, r Renderer, width int, props PropsFunc) string {
	overlays := v.Overlays()
	if len(overlays) == 0 {
		return window
	}

	lines := strings.Split(window, "\n")
	for _, ov := range overlays {
		row := v.Layout.Rows[ov.Row]
		for k, line := range r.Render(row, props(ov.Row, row), width) {
			if y := ov.Line + k; y >= 0 && y < len(lines) {
				lines[y] = line
			}
		}
	}
	return strings.Join(lines, "\n")
}
