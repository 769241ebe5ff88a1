package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/henri123lemoine/foldtree/internal/app"
	"github.com/henri123lemoine/foldtree/internal/config"
	"github.com/henri123lemoine/foldtree/internal/debug"
	"github.com/henri123lemoine/foldtree/internal/exec"
	"github.com/henri123lemoine/foldtree/internal/source"
	"github.com/henri123lemoine/foldtree/internal/state"
	"github.com/henri123lemoine/foldtree/internal/tree"
	"github.com/henri123lemoine/foldtree/internal/ui"
)

// Version is set at build time.
var Version = "dev"

var (
	cfgFile    string
	debugFile  string
	sourceMode string
	listFile   string
	watch      bool
	noFolding  bool
	showHidden bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "foldtree [dir]",
		Short: "Browse a file tree with sticky, folding folder headers",
		Long: `foldtree shows the files under a directory as a collapsible tree.

While scrolling, the headers of open folders stick to the top of the view
and the deepest stuck header is drawn folded. Selecting a file prints its
path on exit, or runs the configured open command.

Paths come from git ls-files inside a git work tree, from a directory walk
otherwise, or from a list given with --file (use - for stdin).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debugFile == "" {
				return nil
			}
			return debug.Enable(debugFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			debug.Close()
		},
		RunE: runTree,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&debugFile, "debug", "", "Write a debug log to this file")
	rootCmd.PersistentFlags().StringVarP(&sourceMode, "source", "s", "", "Path source: auto, git, walk or list")
	rootCmd.PersistentFlags().StringVarP(&listFile, "file", "f", "", "Read newline-separated paths from a file (- for stdin)")
	rootCmd.PersistentFlags().BoolVar(&showHidden, "hidden", false, "Include hidden files when walking")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the tree when files change")
	rootCmd.Flags().BoolVar(&noFolding, "no-folding", false, "Disable sticky folder headers")

	rootCmd.AddCommand(newPrintCmd(), newConfigCmd())
	return rootCmd
}

func newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print [dir]",
		Short: "Print the tree without the interface",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root, err := rootDir(args)
			if err != nil {
				return err
			}
			paths, err := loadPaths(cfg, root)
			if err != nil {
				return err
			}
			return tree.Print(cmd.OutOrStdout(), tree.Build(paths))
		},
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage foldtree configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Write a commented default configuration file.

Use --force to overwrite an existing file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()
			if err := config.CreateDefaultConfigFile(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), configPath())
		},
	}

	configCmd.AddCommand(initCmd, pathCmd)
	return configCmd
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noFolding {
		cfg.Tree.Folding = false
	}
	if watch {
		cfg.Source.Watch = true
	}
	for _, w := range cfg.Validate() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	root, err := rootDir(args)
	if err != nil {
		return err
	}
	ui.ApplyTheme(cfg.UI.Theme)

	opts := app.Options{
		Root:      root,
		Source:    sourceOptions(cfg),
		Selection: app.NewSelection(""),
	}

	listed := listFile != "" || opts.Source.Mode == source.ModeList
	if listed {
		paths, err := loadPaths(cfg, root)
		if err != nil {
			return err
		}
		opts.Paths = paths
	}

	persist := cfg.UI.PersistState && !listed
	if persist {
		opts.Open = state.Load(root)
	}

	if cfg.Source.Watch && !listed {
		w, err := source.NewWatcher(root, opts.Source)
		if err != nil {
			debug.Warn(err, "watch %s", root)
		} else {
			defer w.Close()
			opts.Watcher = w
		}
	}

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if listed && (listFile == "-" || listFile == "") {
		// Stdin held the path list; keys come from the terminal.
		programOpts = append(programOpts, tea.WithInputTTY())
	}

	p := tea.NewProgram(app.New(cfg, opts), programOpts...)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := finalModel.(app.Model)
	if !ok {
		return nil
	}

	if persist {
		if err := state.Save(root, m.OpenFolders()); err != nil {
			debug.Warn(err, "save open state")
		}
	}

	chosen := m.Chosen()
	if chosen == "" {
		return nil
	}
	target := exec.Target{Root: root, Path: chosen}
	if cfg.Open.PrintSelection {
		fmt.Fprintln(cmd.OutOrStdout(), target.Abs())
	}
	if cfg.Open.Command != "" && cfg.Open.ExitAfterSelect {
		return exec.Open(cfg.Open.Command, target)
	}
	return nil
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigPath()
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromPath(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if sourceMode != "" {
		cfg.Source.Mode = sourceMode
	}
	if listFile != "" {
		cfg.Source.Mode = string(source.ModeList)
	}
	if showHidden {
		cfg.Source.ShowHidden = true
	}
	return cfg, nil
}

func sourceOptions(cfg *config.Config) source.Options {
	return source.Options{
		Mode:       source.Mode(cfg.Source.Mode),
		ShowHidden: cfg.Source.ShowHidden,
		Ignore:     cfg.Source.Ignore,
	}
}

// loadPaths reads the path set for the configured source.
func loadPaths(cfg *config.Config, root string) ([]string, error) {
	if listFile != "" {
		return source.ReadFile(listFile)
	}
	opts := sourceOptions(cfg)
	if opts.Mode == source.ModeList {
		opts.List = os.Stdin
	}
	return source.Load(root, opts)
}

// rootDir returns the absolute directory the tree is built from.
func rootDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return abs, nil
}
