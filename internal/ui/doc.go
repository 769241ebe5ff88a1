// Package ui provides rendering functions for the foldtree terminal UI.
//
// Render takes RenderParams and produces the full screen. The tree region
// is rendered in two passes: TreeContent renders every row at its natural
// document position (the content of the scroll viewport), and StickHeaders
// paints folder headers at their sticky positions over the visible window.
// Row contents are produced by IconRenderer and TextRenderer
// implementations that can be swapped per row kind.
//
// The rendering is pure (no side effects) and separated from state management.
package ui
