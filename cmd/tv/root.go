package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/ui"
)

var (
	// Global flags
	configPath  string
	logLevel    string
	displayRoot bool
	noDrag      bool
	noDrop      bool
	noSelect    bool
	repair      bool
)

var rootCmd = &cobra.Command{
	Use:   "tv [outline]",
	Short: "Browse and reorganize outline trees",
	Long: `tv shows an outline as a collapsible tree. Nodes can be selected,
dragged to a new parent or position, renamed, added and deleted.

Without an argument tv opens a generated demo tree that keeps loading
children in the background. Outline files are YAML or JSON, either nested
(root/children) or flat (records with parent ids).

Example:
  tv
  tv notes.outline.yaml
  tv project notes.outline.yaml --format json`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered .treeview/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Enable file logging at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&displayRoot, "display-root", false, "Show the root element as a row")
	rootCmd.PersistentFlags().BoolVar(&noDrag, "no-drag", false, "Disable dragging nodes")
	rootCmd.PersistentFlags().BoolVar(&noDrop, "no-drop", false, "Disable dropping onto the tree")
	rootCmd.PersistentFlags().BoolVar(&noSelect, "no-select", false, "Disable selection")
	rootCmd.PersistentFlags().BoolVar(&repair, "repair", false, "Break parent cycles in flat outlines instead of failing")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file and applies the command line overrides.
// It also initializes the file logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		var dir string
		if dir, err = os.Getwd(); err == nil {
			cfg, _, err = config.Discover(dir)
		}
	}
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("display-root") {
		cfg.Tree.DisplayRootElement = displayRoot
	}
	if flags.Changed("no-drag") {
		cfg.Tree.Draggable = !noDrag
	}
	if flags.Changed("no-drop") {
		cfg.Tree.Droppable = !noDrop
	}
	if flags.Changed("no-select") {
		cfg.Tree.Selectable = !noSelect
	}
	if flags.Changed("log-level") {
		cfg.Log.Enabled = true
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	if _, err := logger.Init(logger.Options{
		Enabled: cfg.Log.Enabled,
		LogDir:  cfg.Log.Dir,
		Level:   logger.ParseLevel(cfg.Log.Level),
	}); err != nil {
		return cfg, fmt.Errorf("initializing log: %w", err)
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tv needs a terminal; use `tv project` or `tv export` for plain output")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := ui.Options{Config: cfg, Outlines: config.DiscoverOutlines(cfg)}
	if len(args) == 1 {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		doc, err := loader.LoadFile(path)
		if err != nil {
			return err
		}
		opts.Doc, opts.Active = doc, path
		if !hasOutline(opts.Outlines, path) {
			opts.Outlines = append([]config.Outline{{Name: doc.Title, Path: path}}, opts.Outlines...)
		}
	}

	m := ui.NewModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if paths := watchPaths(opts.Outlines); cfg.UI.Watch && len(paths) > 0 {
		w, err := ui.NewReloadWorker(ui.WorkerConfig{
			Paths:         paths,
			DebounceDelay: cfg.UI.DebounceDelay,
			Program:       p,
		})
		if err != nil {
			logger.Warn("file watching disabled", "error", err)
		} else if err := w.Start(); err != nil {
			logger.Warn("file watching disabled", "error", err)
		} else {
			defer w.Stop()
		}
	}

	logger.Info("starting", "outlines", len(opts.Outlines), "active", opts.Active)
	_, err = p.Run()
	return err
}

func hasOutline(outlines []config.Outline, path string) bool {
	for _, o := range outlines {
		if o.ResolvedPath() == path {
			return true
		}
	}
	return false
}

// watchPaths returns the outline files that exist on disk.
func watchPaths(outlines []config.Outline) []string {
	var paths []string
	for _, o := range outlines {
		path := o.ResolvedPath()
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			paths = append(paths, path)
		}
	}
	return paths
}
