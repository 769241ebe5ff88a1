// Package config handles foldtree configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents foldtree configuration.
type Config struct {
	Tree   TreeConfig   `toml:"tree"`
	Item   ItemConfig   `toml:"item"`
	Folder KindConfig   `toml:"folder"`
	File   KindConfig   `toml:"file"`
	Fold   FoldConfig   `toml:"fold"`
	Source SourceConfig `toml:"source"`
	Open   OpenConfig   `toml:"open"`
	UI     UIConfig     `toml:"ui"`
	Keys   KeysConfig   `toml:"keys"`
}

// TreeConfig contains tree-wide settings.
type TreeConfig struct {
	// Pin folder headers to the top of the view while scrolling their contents
	Folding bool `toml:"folding"`

	// Indentation added per nesting level, in cells
	DepthDistance int `toml:"depth_distance"`

	// Blank lines after the last row
	PaddingBottom int `toml:"padding_bottom"`
}

// ItemConfig contains settings shared by folders and files.
type ItemConfig struct {
	// Row height in lines
	Height int `toml:"height"`

	// Gap between the icon and the name, in cells
	Gap int `toml:"gap"`

	// Blank cells before the icon and after the name
	InlineOffsetLeft  int `toml:"inline_offset_left"`
	InlineOffsetRight int `toml:"inline_offset_right"`
}

// KindConfig overrides item settings for folders or files.
// Zero values inherit from [item].
type KindConfig struct {
	Height int `toml:"height"`
	Gap    int `toml:"gap"`

	// Icon glyphs; empty keeps the built-in glyph
	Icon     string `toml:"icon"`
	IconOpen string `toml:"icon_open"`
}

// FoldConfig contains stuck-detection timing.
type FoldConfig struct {
	// Interval of the detection frame, in milliseconds
	FrameIntervalMs int `toml:"frame_interval_ms"`

	// Delay between the last stuck change and fold resolution, in milliseconds
	DebounceMs int `toml:"debounce_ms"`
}

// SourceConfig contains settings for where paths come from.
type SourceConfig struct {
	// "auto", "git", "walk" or "list"
	Mode string `toml:"mode"`

	// Include dot files when walking a directory
	ShowHidden bool `toml:"show_hidden"`

	// Names skipped when walking a directory (filepath.Match syntax)
	Ignore []string `toml:"ignore"`

	// Reload the tree when files change
	Watch bool `toml:"watch"`
}

// OpenConfig contains settings for activating a file.
type OpenConfig struct {
	// Command to run when a file is activated
	// Template variables: {path}, {name}, {dir}, {root}
	Command string `toml:"command"`

	// Whether to exit after a file is selected
	ExitAfterSelect bool `toml:"exit_after_select"`

	// Whether to print the selected path to stdout on exit
	PrintSelection bool `toml:"print_selection"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Color theme: auto, dark, light
	Theme string `toml:"theme"`

	// Show the key hints in the footer
	ShowHelp bool `toml:"show_help"`

	// Remember open folders per root directory
	PersistState bool `toml:"persist_state"`
}

// KeysConfig contains keybinding settings.
type KeysConfig struct {
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Home     string `toml:"home"`
	End      string `toml:"end"`
	PageUp   string `toml:"page_up"`
	PageDown string `toml:"page_down"`
	HalfUp   string `toml:"half_up"`
	HalfDown string `toml:"half_down"`
	Collapse string `toml:"collapse"`
	Expand   string `toml:"expand"`
	Select   string `toml:"select"`
	Filter   string `toml:"filter"`
	Reload   string `toml:"reload"`
	Help     string `toml:"help"`
	Quit     string `toml:"quit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Tree: TreeConfig{
			Folding:       true,
			DepthDistance: 2,
			PaddingBottom: 1,
		},
		Item: ItemConfig{
			Height:            1,
			Gap:               1,
			InlineOffsetLeft:  1,
			InlineOffsetRight: 1,
		},
		Folder: KindConfig{},
		File:   KindConfig{},
		Fold: FoldConfig{
			FrameIntervalMs: 16,
			DebounceMs:      50,
		},
		Source: SourceConfig{
			Mode:       "auto",
			ShowHidden: false,
			Ignore:     []string{".git", "node_modules"},
			Watch:      false,
		},
		Open: OpenConfig{
			Command:         "",
			ExitAfterSelect: true,
			PrintSelection:  true,
		},
		UI: UIConfig{
			Theme:        "auto",
			ShowHelp:     true,
			PersistState: true,
		},
		Keys: KeysConfig{
			Up:       "up,k",
			Down:     "down,j",
			Home:     "home,g",
			End:      "end,G",
			PageUp:   "pgup",
			PageDown: "pgdown",
			HalfUp:   "ctrl+u",
			HalfDown: "ctrl+d",
			Collapse: "left,h",
			Expand:   "right,l",
			Select:   "enter,space",
			Filter:   "/",
			Reload:   "r",
			Help:     "?",
			Quit:     "q,ctrl+c",
		},
	}
}

// FolderHeight returns the folder row height, inheriting from [item].
func (c *Config) FolderHeight() int {
	return firstPositive(c.Folder.Height, c.Item.Height, 1)
}

// FileHeight returns the file row height, inheriting from [item].
func (c *Config) FileHeight() int {
	return firstPositive(c.File.Height, c.Item.Height, 1)
}

// FolderGap returns the folder icon gap, inheriting from [item].
func (c *Config) FolderGap() int {
	return firstPositive(c.Folder.Gap, c.Item.Gap, 0)
}

// FileGap returns the file icon gap, inheriting from [item].
func (c *Config) FileGap() int {
	return firstPositive(c.File.Gap, c.Item.Gap, 0)
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

// ConfigPath returns the path to the config file.
// Uses ~/.config/foldtree/config.toml (XDG style) on all Unix systems.
func ConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "foldtree", "config.toml")
	}
	home := os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".config", "foldtree", "config.toml")
	}
	// Windows
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "foldtree", "config.toml")
	}
	return filepath.Join(configDir, "foldtree", "config.toml")
}

// Load loads configuration from the config file.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	// go-toml/v2 only overwrites fields present in the file, so defaults
	// survive for everything else.
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save saves configuration to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// CreateDefaultConfigFile writes a commented default config to path.
// An existing file is left alone unless force is set.
func CreateDefaultConfigFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(generateDefaultConfigContent()), 0644)
}

// generateDefaultConfigContent generates a commented config file.
func generateDefaultConfigContent() string {
	var b strings.Builder
	cfg := DefaultConfig()

	b.WriteString("# foldtree configuration\n\n")

	b.WriteString("[tree]\n")
	b.WriteString("# Pin folder headers while scrolling their contents\n")
	fmt.Fprintf(&b, "folding = %v\n", cfg.Tree.Folding)
	b.WriteString("# Indentation per nesting level, in cells\n")
	fmt.Fprintf(&b, "depth_distance = %d\n", cfg.Tree.DepthDistance)
	b.WriteString("# Blank lines after the last row\n")
	fmt.Fprintf(&b, "padding_bottom = %d\n\n", cfg.Tree.PaddingBottom)

	b.WriteString("[item]\n")
	b.WriteString("# Row height in lines\n")
	fmt.Fprintf(&b, "height = %d\n", cfg.Item.Height)
	b.WriteString("# Cells between icon and name\n")
	fmt.Fprintf(&b, "gap = %d\n", cfg.Item.Gap)
	fmt.Fprintf(&b, "inline_offset_left = %d\n", cfg.Item.InlineOffsetLeft)
	fmt.Fprintf(&b, "inline_offset_right = %d\n\n", cfg.Item.InlineOffsetRight)

	b.WriteString("# Per-kind overrides; 0 or empty inherits from [item]\n")
	b.WriteString("[folder]\n")
	b.WriteString("# height = 1\n")
	b.WriteString("# icon = \"▸\"\n")
	b.WriteString("# icon_open = \"▾\"\n\n")
	b.WriteString("[file]\n")
	b.WriteString("# height = 1\n")
	b.WriteString("# icon = \"·\"\n\n")

	b.WriteString("[fold]\n")
	b.WriteString("# Stuck detection frame interval\n")
	fmt.Fprintf(&b, "frame_interval_ms = %d\n", cfg.Fold.FrameIntervalMs)
	b.WriteString("# Delay before the folded header is recomputed\n")
	fmt.Fprintf(&b, "debounce_ms = %d\n\n", cfg.Fold.DebounceMs)

	b.WriteString("[source]\n")
	b.WriteString("# Where paths come from: \"auto\", \"git\", \"walk\", or \"list\"\n")
	fmt.Fprintf(&b, "mode = %q\n", cfg.Source.Mode)
	fmt.Fprintf(&b, "show_hidden = %v\n", cfg.Source.ShowHidden)
	b.WriteString("# Names skipped when walking (filepath.Match syntax)\n")
	fmt.Fprintf(&b, "ignore = [%s]\n", quoteList(cfg.Source.Ignore))
	b.WriteString("# Reload when files change\n")
	fmt.Fprintf(&b, "watch = %v\n\n", cfg.Source.Watch)

	b.WriteString("[open]\n")
	b.WriteString("# Command to run when a file is selected\n")
	b.WriteString("# Template variables: {path}, {name}, {dir}, {root}\n")
	b.WriteString("# Variables are shell-escaped for safety.\n")
	b.WriteString("# command = \"code --goto {path}\"\n")
	fmt.Fprintf(&b, "exit_after_select = %v\n", cfg.Open.ExitAfterSelect)
	b.WriteString("# Print the selected path on exit (for shell integration)\n")
	fmt.Fprintf(&b, "print_selection = %v\n\n", cfg.Open.PrintSelection)

	b.WriteString("[ui]\n")
	b.WriteString("# Color theme: \"auto\", \"dark\", or \"light\"\n")
	fmt.Fprintf(&b, "theme = %q\n", cfg.UI.Theme)
	fmt.Fprintf(&b, "show_help = %v\n", cfg.UI.ShowHelp)
	b.WriteString("# Remember open folders per directory\n")
	fmt.Fprintf(&b, "persist_state = %v\n\n", cfg.UI.PersistState)

	b.WriteString("[keys]\n")
	b.WriteString("# Keybindings (comma-separated for multiple keys)\n")
	fmt.Fprintf(&b, "# up = %q\n", cfg.Keys.Up)
	fmt.Fprintf(&b, "# down = %q\n", cfg.Keys.Down)
	fmt.Fprintf(&b, "# collapse = %q\n", cfg.Keys.Collapse)
	fmt.Fprintf(&b, "# expand = %q\n", cfg.Keys.Expand)
	fmt.Fprintf(&b, "# select = %q\n", cfg.Keys.Select)
	fmt.Fprintf(&b, "# filter = %q\n", cfg.Keys.Filter)
	fmt.Fprintf(&b, "# reload = %q\n", cfg.Keys.Reload)
	fmt.Fprintf(&b, "# help = %q\n", cfg.Keys.Help)
	fmt.Fprintf(&b, "# quit = %q\n", cfg.Keys.Quit)

	return b.String()
}

func quoteList(vals []string) string {
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

// TemplateVars are the variables allowed in open.command.
var TemplateVars = []string{"{path}", "{name}", "{dir}", "{root}"}

// Validate validates the configuration and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	for _, v := range extractTemplateVars(c.Open.Command) {
		if !slices.Contains(TemplateVars, v) {
			warnings = append(warnings, fmt.Sprintf("Unknown template variable in open.command: %s", v))
		}
	}

	if c.Source.Mode != "" &&
		c.Source.Mode != "auto" &&
		c.Source.Mode != "git" &&
		c.Source.Mode != "walk" &&
		c.Source.Mode != "list" {
		warnings = append(warnings, fmt.Sprintf("Invalid value for source.mode: %s (expected auto, git, walk, or list)", c.Source.Mode))
	}

	for _, pattern := range c.Source.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			warnings = append(warnings, fmt.Sprintf("Invalid pattern in source.ignore: %s", pattern))
		}
	}

	if c.UI.Theme != "" &&
		c.UI.Theme != "auto" &&
		c.UI.Theme != "dark" &&
		c.UI.Theme != "light" {
		warnings = append(warnings, fmt.Sprintf("Invalid value for ui.theme: %s (expected auto, dark, or light)", c.UI.Theme))
	}

	ints := []struct {
		name string
		val  int
	}{
		{"tree.depth_distance", c.Tree.DepthDistance},
		{"tree.padding_bottom", c.Tree.PaddingBottom},
		{"item.height", c.Item.Height},
		{"item.gap", c.Item.Gap},
		{"item.inline_offset_left", c.Item.InlineOffsetLeft},
		{"item.inline_offset_right", c.Item.InlineOffsetRight},
		{"folder.height", c.Folder.Height},
		{"folder.gap", c.Folder.Gap},
		{"file.height", c.File.Height},
		{"file.gap", c.File.Gap},
		{"fold.frame_interval_ms", c.Fold.FrameIntervalMs},
		{"fold.debounce_ms", c.Fold.DebounceMs},
	}
	for _, v := range ints {
		if v.val < 0 {
			warnings = append(warnings, fmt.Sprintf("Invalid value for %s: %d (must not be negative)", v.name, v.val))
		}
	}

	return warnings
}

// extractTemplateVars extracts template variables from a string.
func extractTemplateVars(s string) []string {
	re := regexp.MustCompile(`\{[^}]+\}`)
	return re.FindAllString(s, -1)
}
