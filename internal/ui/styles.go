// Package ui handles terminal UI rendering.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors. Tree colors adapt to the terminal background.
var (
	ColorPrimary   = lipgloss.Color("4")   // Blue
	ColorSecondary = lipgloss.Color("8")   // Gray
	ColorDanger    = lipgloss.Color("1")   // Red (dimmer)
	ColorMuted     = lipgloss.Color("245") // Light gray
	ColorHighlight = lipgloss.Color("6")   // Cyan

	ColorText       = lipgloss.AdaptiveColor{Light: "#525252", Dark: "#adadad"}
	ColorBackground = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#161616"}
	ColorSelected   = lipgloss.AdaptiveColor{Light: "#e5e5e5", Dark: "#2c2c2c"}
	ColorFocus      = lipgloss.AdaptiveColor{Light: "#0a0a0a", Dark: "#f0f0f0"}
	ColorFocusBg    = lipgloss.AdaptiveColor{Light: "#dbeafe", Dark: "#172554"}
)

// Styles
var (
	// Box styles
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(1, 2)

	// The scroll region holding the tree
	TreeStyle = lipgloss.NewStyle()

	// Header style
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	// Path style
	PathStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Active filter tag in the header
	FilterTagStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// Help style
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Error style
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	// Divider style
	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	// Help section title
	SectionStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)
)

// Row styles. They are layered in this order: base, stuck, selected,
// focused, folded.
var (
	RowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// Stuck headers are opaque so rows scrolling underneath are hidden.
	StuckStyle = lipgloss.NewStyle().
			Background(ColorBackground)

	SelectedStyle = lipgloss.NewStyle().
			Background(ColorSelected)

	FocusedStyle = lipgloss.NewStyle().
			Foreground(ColorFocus).
			Background(ColorFocusBg).
			Bold(true)

	// The folded header marks the edge of the stuck stack.
	FoldedStyle = lipgloss.NewStyle().
			Underline(true).
			UnderlineSpaces(true)
)

// Symbols
const (
	SymbolFolder     = "▸"
	SymbolFolderOpen = "▾"
	SymbolFile       = "·"
	SymbolEllipsis   = "…"
	SymbolDivider    = "─"
)

// ApplyTheme forces the light or dark palette. "auto" keeps whatever the
// terminal reports.
func ApplyTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

// rowStyle composes the style for one row.
func rowStyle(p Props, width int) lipgloss.Style {
	s := RowStyle
	if p.Stuck {
		s = s.Inherit(StuckStyle)
	}
	if p.Selected {
		s = s.Background(SelectedStyle.GetBackground())
	}
	if p.Focused {
		s = s.Foreground(FocusedStyle.GetForeground()).
			Background(FocusedStyle.GetBackground()).
			Bold(true)
	}
	if p.Folded {
		s = s.Inherit(FoldedStyle)
	}
	return s.Width(width).MaxWidth(width)
}
