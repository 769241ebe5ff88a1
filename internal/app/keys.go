package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/henri123lemoine/foldtree/internal/config"
	"github.com/henri123lemoine/foldtree/internal/ui"
)

// KeyMap defines all keybindings.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding

	// Tree
	Collapse key.Binding
	Expand   key.Binding
	Select   key.Binding
	Filter   key.Binding
	Reload   key.Binding

	// General
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "last"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "page down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse / parent"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand / child"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle folder / select file"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapFromConfig creates a KeyMap from config settings. Empty settings
// keep the default binding.
func KeyMapFromConfig(cfg *config.KeysConfig) KeyMap {
	km := DefaultKeyMap()

	override(&km.Up, cfg.Up)
	override(&km.Down, cfg.Down)
	override(&km.Home, cfg.Home)
	override(&km.End, cfg.End)
	override(&km.PageUp, cfg.PageUp)
	override(&km.PageDown, cfg.PageDown)
	override(&km.HalfUp, cfg.HalfUp)
	override(&km.HalfDown, cfg.HalfDown)
	override(&km.Collapse, cfg.Collapse)
	override(&km.Expand, cfg.Expand)
	override(&km.Select, cfg.Select)
	override(&km.Filter, cfg.Filter)
	override(&km.Reload, cfg.Reload)
	override(&km.Help, cfg.Help)
	override(&km.Quit, cfg.Quit)

	return km
}

// override rebinds b to the keys in s, keeping its help description.
func override(b *key.Binding, s string) {
	keys := parseKeys(s)
	if len(keys) == 0 {
		return
	}
	*b = key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.TrimSpace(s), b.Help().Desc),
	)
}

// parseKeys parses a comma-separated list of keys. "space" names the
// space bar, which bubbletea reports as " ".
func parseKeys(s string) []string {
	parts := strings.Split(s, ",")
	var keys []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "":
			continue
		case "space":
			p = " "
		}
		keys = append(keys, p)
	}
	return keys
}

// helpSections groups the bindings for the help screen.
func (k KeyMap) helpSections() []ui.HelpSection {
	section := func(title string, bindings ...key.Binding) ui.HelpSection {
		s := ui.HelpSection{Title: title}
		for _, b := range bindings {
			h := b.Help()
			s.Bindings = append(s.Bindings, ui.HelpBinding{Keys: h.Key, Desc: h.Desc})
		}
		return s
	}

	return []ui.HelpSection{
		section("Navigation", k.Up, k.Down, k.Home, k.End, k.PageUp, k.PageDown, k.HalfUp, k.HalfDown),
		section("Tree", k.Collapse, k.Expand, k.Select, k.Filter, k.Cancel, k.Reload),
		section("General", k.Help, k.Quit),
	}
}
