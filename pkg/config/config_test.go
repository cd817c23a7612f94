package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ".treeview", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Tree.DisplayRootElement || !cfg.Tree.Draggable || !cfg.Tree.Droppable || !cfg.Tree.Selectable {
		t.Errorf("unexpected tree defaults: %+v", cfg.Tree)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
tree:
  display_root_element: true
demo:
  delay: 1500ms
  folders: 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Tree.DisplayRootElement {
		t.Error("expected display_root_element from file")
	}
	if !cfg.Tree.Draggable {
		t.Error("expected draggable to keep its default")
	}
	if cfg.Demo.Delay != 1500*time.Millisecond {
		t.Errorf("expected 1.5s delay, got %v", cfg.Demo.Delay)
	}
	if cfg.Demo.Folders != 2 || cfg.Demo.Children != 5 {
		t.Errorf("unexpected demo config: %+v", cfg.Demo)
	}
	if cfg.UI.Indent != 4 {
		t.Errorf("expected default indent, got %d", cfg.UI.Indent)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"BadYAML", "tree: [", "parsing config"},
		{"NegativeFolders", "demo:\n  folders: -1\n", "cannot be negative"},
		{"BadIndent", "ui:\n  indent: 0\n", "indent"},
		{"BadLevel", "log:\n  level: loud\n", "invalid log level"},
		{"OutlineWithoutPath", "outlines:\n  - name: x\n", "has no path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "ui:\n  indent: 2\n")
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, from, err := Discover(sub)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if from != path {
		t.Errorf("expected config from %q, got %q", path, from)
	}
	if cfg.UI.Indent != 2 {
		t.Errorf("expected indent 2, got %d", cfg.UI.Indent)
	}
}

func TestDiscoverFallsBackToUserConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	userPath := filepath.Join(xdg, "treeview", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(userPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userPath, []byte("demo:\n  depth: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Home is pointed at the temp dir so the walk-up stops there
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, from, err := Discover(home)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if from != userPath {
		t.Skipf("config found elsewhere on this machine: %s", from)
	}
	if cfg.Demo.Depth != 3 {
		t.Errorf("expected depth 3 from user config, got %d", cfg.Demo.Depth)
	}
}

func TestExampleParses(t *testing.T) {
	path := writeConfig(t, t.TempDir(), Example())
	if _, err := Load(path); err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/x.outline.yaml"); got != filepath.Join(home, "x.outline.yaml") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expected absolute path untouched, got %q", got)
	}
}
