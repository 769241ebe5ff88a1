package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// State constants (matching app.State)
const (
	StateTree = iota
	StateFilter
	StateHelp
)

// HelpBinding represents a keybinding for help display.
type HelpBinding struct {
	Keys string
	Desc string
}

// HelpSection represents a section of help bindings.
type HelpSection struct {
	Title    string
	Bindings []HelpBinding
}

// RenderParams contains all parameters needed for rendering.
type RenderParams struct {
	State   int
	Width   int
	Height  int
	Root    string
	Loading bool
	Err     error

	// Tree is the visible tree region, sticky headers included.
	Tree  string
	Empty bool

	// Counts for the header line.
	Files   int
	Folders int

	FilterInput string
	FilterValue string

	ShowHelp     bool
	HelpSections []HelpSection
}

// MinWidth is the absolute minimum terminal width we try to support.
const MinWidth = 30

// MinHeight is the absolute minimum terminal height we try to support.
const MinHeight = 8

// Frame is the screen geometry of the tree region.
type Frame struct {
	// Top is the screen row where the region starts.
	Top        int
	Height     int
	Width      int
	BorderTop  int
	PaddingTop int
}

// TreeFrame computes where the tree region sits for a terminal of the
// given size. Render lays the screen out the same way.
func TreeFrame(width, height int, hasErr, showHelp bool) Frame {
	width = max(width, MinWidth)
	height = max(height, MinHeight)

	above := 2 // header + divider
	if hasErr {
		above++
	}
	below := 0
	if showHelp {
		below = 2 // divider + help
	}

	return Frame{
		Top:        BoxStyle.GetBorderTopSize() + BoxStyle.GetPaddingTop() + above,
		Height:     max(height-BoxStyle.GetVerticalFrameSize()-TreeStyle.GetVerticalFrameSize()-above-below, 1),
		Width:      width - BoxStyle.GetHorizontalFrameSize() - TreeStyle.GetHorizontalFrameSize(),
		BorderTop:  TreeStyle.GetBorderTopSize(),
		PaddingTop: TreeStyle.GetPaddingTop(),
	}
}

// Render renders the full UI.
func Render(p RenderParams) string {
	// Clamp to the minimum instead of jumping to arbitrary values.
	if p.Width < MinWidth {
		p.Width = MinWidth
	}
	if p.Height < MinHeight {
		p.Height = MinHeight
	}

	switch p.State {
	case StateHelp:
		return renderHelp(p)
	default:
		return renderTree(p)
	}
}

// renderTree renders the tree screen, with the filter prompt in the header
// while filtering.
func renderTree(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - BoxStyle.GetHorizontalFrameSize()
	frame := TreeFrame(p.Width, p.Height, p.Err != nil, p.ShowHelp)

	// Header
	var header string
	if p.State == StateFilter {
		header = HeaderStyle.Render("FILTER") + "  " + p.FilterInput
	} else {
		counts := countLabel(p.Files, "file") + ", " + countLabel(p.Folders, "folder")
		header = HeaderStyle.Render("FILES") + "  " + PathStyle.Render(counts)
		if p.FilterValue != "" {
			header += "  " + FilterTagStyle.Render("/"+p.FilterValue)
		}
		used := len("FILES") + 2 + len(counts) + 2
		if room := contentWidth - used; room > 8 && p.FilterValue == "" {
			header += "  " + PathStyle.Render(Truncate(p.Root, room))
		}
	}
	// TreeFrame counts the header as one line.
	b.WriteString(ansi.Truncate(header, contentWidth, SymbolEllipsis) + "\n")
	b.WriteString(divider(contentWidth) + "\n")

	// Error message if any
	if p.Err != nil {
		b.WriteString(ErrorStyle.Render(Truncate("Error: "+p.Err.Error(), contentWidth)) + "\n")
	}

	region := TreeStyle.Width(frame.Width).Height(frame.Height).MaxHeight(frame.Height)
	switch {
	case p.Loading:
		b.WriteString(region.Render(PathStyle.Render("Loading files...")))
	case p.Empty && p.FilterValue != "":
		b.WriteString(region.Render(PathStyle.Render("No matches found.")))
	case p.Empty:
		b.WriteString(region.Render(PathStyle.Render("No files.")))
	default:
		b.WriteString(region.Render(p.Tree))
	}

	// Footer
	if p.ShowHelp {
		b.WriteString("\n" + divider(contentWidth) + "\n")
		var helpText string
		if p.State == StateFilter {
			helpText = "enter keep • esc clear"
		} else {
			helpText = compactHelp(
				"↑↓ move • ←→ fold • enter select • / filter • r reload • ? help • q quit",
				"↑↓•←→•enter•/•r•?•q",
				p.Width,
			)
		}
		b.WriteString(HelpStyle.Render(helpText))
	}

	return wrapInBox(b.String(), p.Width)
}

// renderHelp renders the help screen.
func renderHelp(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - BoxStyle.GetHorizontalFrameSize()

	b.WriteString(HeaderStyle.Render("HELP") + "\n")
	b.WriteString(divider(contentWidth) + "\n\n")

	for i, section := range p.HelpSections {
		b.WriteString(SectionStyle.Render(section.Title) + "\n")
		b.WriteString(divider(min(40, contentWidth)) + "\n")
		for _, binding := range section.Bindings {
			// Pad keys to 12 cells for alignment
			keys := binding.Keys
			if w := len([]rune(keys)); w < 12 {
				keys += strings.Repeat(" ", 12-w)
			}
			b.WriteString(PathStyle.Render("  "+keys) + " " + binding.Desc + "\n")
		}
		if i < len(p.HelpSections)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + divider(contentWidth) + "\n")
	b.WriteString(HelpStyle.Render("Press any key to close"))

	return wrapInBox(b.String(), p.Width)
}

// countLabel formats n with the singular or plural form of noun.
func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func divider(width int) string {
	return DividerStyle.Render(strings.Repeat(SymbolDivider, max(width, 0)))
}

// wrapInBox wraps content in a bordered box.
func wrapInBox(content string, width int) string {
	boxWidth := width - BoxStyle.GetBorderLeftSize() - BoxStyle.GetBorderRightSize()
	if boxWidth < MinWidth-2 {
		boxWidth = MinWidth - 2
	}

	// Height comes from the content.
	return BoxStyle.Width(boxWidth).Render(content)
}

// compactHelp returns a shortened help string for small terminals.
func compactHelp(full, compact string, width int) string {
	if width >= 80 {
		return full
	}
	return compact
}
