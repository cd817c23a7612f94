// Package config loads treeview's YAML configuration.
//
// Lookup order: .treeview/config.yaml in the current directory or any parent
// (stopping at the home directory), then the user config file
// ($XDG_CONFIG_HOME/treeview/config.yaml), then built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

const (
	dirName  = ".treeview"
	fileName = "config.yaml"
)

// Config is the top-level configuration file (.treeview/config.yaml)
type Config struct {
	// Tree holds the engine switches (display root, drag/drop, selection)
	Tree tree.Options `yaml:"tree" json:"tree"`

	// Demo configures the generated demo tree
	Demo DemoConfig `yaml:"demo" json:"demo"`

	// Log configures the file logger
	Log LogConfig `yaml:"log" json:"log"`

	// UI configures the terminal view
	UI UIConfig `yaml:"ui" json:"ui"`

	// Outlines lists registered outline files
	Outlines []Outline `yaml:"outlines,omitempty" json:"outlines,omitempty"`

	// Discovery configures scanning for outline files
	Discovery DiscoveryConfig `yaml:"discovery,omitempty" json:"discovery,omitempty"`
}

// DemoConfig shapes the demo tree: a root with Folders children, each of
// which loads Children children after Delay, down to Depth levels.
type DemoConfig struct {
	Folders  int           `yaml:"folders" json:"folders"`
	Children int           `yaml:"children" json:"children"`
	Depth    int           `yaml:"depth" json:"depth"`
	Delay    time.Duration `yaml:"delay" json:"delay"`
}

// LogConfig controls the file logger
type LogConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Dir     string `yaml:"dir,omitempty" json:"dir,omitempty"`
	Level   string `yaml:"level" json:"level"`
}

// UIConfig controls the terminal view
type UIConfig struct {
	// Indent is the number of columns per tree level
	Indent int `yaml:"indent" json:"indent"`
	// Watch reloads outline files when they change on disk
	Watch bool `yaml:"watch" json:"watch"`
	// DebounceDelay is how long file changes settle before a reload
	DebounceDelay time.Duration `yaml:"debounce_delay" json:"debounce_delay"`
}

// Outline is a named outline file
type Outline struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// ResolvedPath returns the outline path with ~ expanded
func (o Outline) ResolvedPath() string {
	return expandHome(o.Path)
}

// DiscoveryConfig controls scanning for outline files
type DiscoveryConfig struct {
	// ScanPaths are directories searched for outline files
	ScanPaths []string `yaml:"scan_paths,omitempty" json:"scan_paths,omitempty"`
	// Patterns are file name globs (default: *.outline.yaml, *.outline.yml, *.outline.json)
	Patterns []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	// MaxDepth limits directory traversal depth (default: 3)
	MaxDepth int `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
}

// DefaultPatterns returns the outline file globs used when none are configured
func DefaultPatterns() []string {
	return []string{"*.outline.yaml", "*.outline.yml", "*.outline.json"}
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Tree: tree.DefaultOptions(),
		Demo: DemoConfig{
			Folders:  5,
			Children: 5,
			Depth:    2,
			Delay:    500 * time.Millisecond,
		},
		Log: LogConfig{
			Enabled: false,
			Level:   "info",
		},
		UI: UIConfig{
			Indent:        4,
			Watch:         true,
			DebounceDelay: 200 * time.Millisecond,
		},
		Discovery: DiscoveryConfig{
			Patterns: DefaultPatterns(),
			MaxDepth: 3,
		},
	}
}

// Validate checks if the configuration values are usable
func (c *Config) Validate() error {
	if c.Demo.Folders < 0 || c.Demo.Children < 0 || c.Demo.Depth < 0 {
		return fmt.Errorf("demo sizes cannot be negative")
	}
	if c.Demo.Delay < 0 {
		return fmt.Errorf("demo delay cannot be negative")
	}
	if c.UI.Indent < 1 || c.UI.Indent > 8 {
		return fmt.Errorf("ui indent must be between 1 and 8, got %d", c.UI.Indent)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	for _, o := range c.Outlines {
		if o.Path == "" {
			return fmt.Errorf("outline %q has no path", o.Name)
		}
	}
	return nil
}

// Load reads a configuration file. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Discovery.Patterns) == 0 {
		cfg.Discovery.Patterns = DefaultPatterns()
	}
	if cfg.Discovery.MaxDepth == 0 {
		cfg.Discovery.MaxDepth = 3
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Find searches for .treeview/config.yaml starting from dir and walking up.
// An empty dir means the current working directory.
func Find(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	if root, ok := findConfigRoot(dir); ok {
		return filepath.Join(root, dirName, fileName), nil
	}
	return "", os.ErrNotExist
}

// UserConfigPath returns the per-user config file location
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "treeview", fileName), nil
}

// Discover resolves and loads the configuration for dir. It returns the
// config and the file it came from ("" for defaults).
func Discover(dir string) (Config, string, error) {
	path, err := Find(dir)
	if err != nil {
		path, err = UserConfigPath()
		if err == nil {
			if _, statErr := os.Stat(path); statErr != nil {
				err = statErr
			}
		}
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), "", nil
		}
		return Default(), "", err
	}

	cfg, err := Load(path)
	if err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}

// Example returns a commented starting point for a config file
func Example() string {
	return `# treeview configuration
tree:
  display_root_element: false
  draggable: true
  droppable: true
  selectable: true
demo:
  folders: 5
  children: 5
  depth: 2
  delay: 500ms
log:
  enabled: false
  level: info
ui:
  indent: 4
  watch: true
  debounce_delay: 200ms
# outlines:
#   - name: notes
#     path: ~/notes/notes.outline.yaml
`
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
