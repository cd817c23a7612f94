package config

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("root:\n  label: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanForOutlines(t *testing.T) {
	root := t.TempDir()

	notes := filepath.Join(root, "notes.outline.yaml")
	plan := filepath.Join(root, "sub", "plan.outline.json")
	touch(t, notes)
	touch(t, plan)
	touch(t, filepath.Join(root, "readme.md"))

	results := scanForOutlines(root, 3, DefaultPatterns())

	if len(results) != 2 {
		t.Fatalf("expected 2 outlines, got %d: %v", len(results), results)
	}

	found := make(map[string]bool)
	for _, r := range results {
		found[r] = true
	}
	if !found[notes] {
		t.Error("expected to find notes outline")
	}
	if !found[plan] {
		t.Error("expected to find plan outline")
	}
}

func TestScanForOutlines_DepthLimit(t *testing.T) {
	root := t.TempDir()

	deep := filepath.Join(root, "a", "b", "c", "d", "deep.outline.yaml")
	shallow := filepath.Join(root, "x", "shallow.outline.yaml")
	touch(t, deep)
	touch(t, shallow)

	results := scanForOutlines(root, 2, DefaultPatterns())

	if len(results) != 1 {
		t.Fatalf("expected 1 outline within depth 2, got %d: %v", len(results), results)
	}
	if results[0] != shallow {
		t.Errorf("expected shallow outline, got %q", results[0])
	}
}

func TestScanForOutlines_SkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, ".hidden", "secret.outline.yaml"))

	results := scanForOutlines(root, 3, DefaultPatterns())
	if len(results) != 0 {
		t.Errorf("expected 0 results (hidden dir skipped), got %d", len(results))
	}
}

func TestDiscoverOutlines_MergesWithRegistered(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "mine.outline.yaml")
	touch(t, path)

	cfg := Config{
		Outlines: []Outline{
			{Name: "registered", Path: path},
		},
		Discovery: DiscoveryConfig{
			ScanPaths: []string{root},
			MaxDepth:  3,
		},
	}

	result := DiscoverOutlines(cfg)

	if len(result) != 1 {
		t.Fatalf("expected 1 deduped outline, got %d: %v", len(result), result)
	}
	if result[0].Name != "registered" {
		t.Errorf("expected registered name, got %q", result[0].Name)
	}
}

func TestDiscoverOutlines_AddsNewOutlines(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "first.outline.yaml")
	second := filepath.Join(root, "second.outline.yml")
	touch(t, first)
	touch(t, second)

	cfg := Config{
		Outlines:  []Outline{{Name: "first", Path: first}},
		Discovery: DiscoveryConfig{ScanPaths: []string{root}},
	}

	result := DiscoverOutlines(cfg)

	if len(result) != 2 {
		t.Fatalf("expected 2 outlines, got %d", len(result))
	}
	if result[0].Name != "first" {
		t.Errorf("expected first outline 'first', got %q", result[0].Name)
	}
	if result[1].Name != "second" {
		t.Errorf("expected discovered outline 'second', got %q", result[1].Name)
	}
}

func TestFindConfigRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, ".treeview", "config.yaml"))

	sub := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	found, ok := findConfigRoot(sub)
	if !ok {
		t.Error("expected to find config root")
	}
	if found != root {
		t.Errorf("expected %q, got %q", root, found)
	}
}

func TestFindConfigRoot_IgnoresBareDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".treeview"), 0o755); err != nil {
		t.Fatal(err)
	}

	found, ok := findConfigRoot(root)
	// A config further up may exist on the test machine; it just must not be root.
	if ok && found == root {
		t.Errorf("directory without config.yaml should not count, got %q", found)
	}
}
