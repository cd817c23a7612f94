package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

const nestedYAML = `
title: Projects
root:
  label: root
  open: true
  children:
    - label: docs
      children:
        - label: intro
        - label: guide
    - label: src
      open: true
      children:
        - label: main.go
`

const flatJSON = `{
  "title": "Flat",
  "records": [
    {"id": "c", "parent": "b", "label": "leaf"},
    {"id": "a", "label": "top", "open": true},
    {"id": "b", "parent": "a", "label": "middle"}
  ]
}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func labelsOf(tr *tree.Tree, ids []tree.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = tr.Label(id)
	}
	return out
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		ext     string
		wantErr string
		format  model.Format
	}{
		{"YAML", nestedYAML, ".yaml", "", model.FormatNested},
		{"YML", nestedYAML, ".YML", "", model.FormatNested},
		{"JSON", flatJSON, ".json", "", model.FormatFlat},
		{"BadJSON", "{", ".json", "decoding JSON", ""},
		{"Unsupported", "x", ".toml", "unsupported outline format", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.data), tt.ext)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if doc.Format() != tt.format {
				t.Errorf("expected format %s, got %s", tt.format, doc.Format())
			}
		})
	}
}

func TestLoadFileSetsSourceAndTitle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plan.outline.yaml", "root:\n  label: r\n")

	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if doc.Source != path {
		t.Errorf("expected source %q, got %q", path, doc.Source)
	}
	if doc.Title != "plan" {
		t.Errorf("expected title from file name, got %q", doc.Title)
	}
}

func TestLoadFileValidates(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "root:\n  children:\n    - label: x\n")
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("expected validation error mentioning path, got %v", err)
	}
}

func TestLoadFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c", "d"} {
		paths = append(paths, writeFile(t, dir, name+".yaml", "root:\n  label: "+name+"\n"))
	}

	docs, err := LoadFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("LoadFiles failed: %v", err)
	}
	for i, name := range []string{"a", "b", "c", "d"} {
		if docs[i].Root.Label != name {
			t.Errorf("docs[%d] = %q, want %q", i, docs[i].Root.Label, name)
		}
	}
}

func TestLoadFilesFailsOnAnyError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "root:\n  label: ok\n")
	missing := filepath.Join(dir, "missing.yaml")

	if _, err := LoadFiles(context.Background(), []string{good, missing}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuildNested(t *testing.T) {
	doc, err := Decode([]byte(nestedYAML), ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	tr := tree.New()
	root, err := Build(tr, doc, BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if tr.Root() != root {
		t.Errorf("expected built root to be the tree root")
	}
	if got := labelsOf(tr, tr.Children(root)); strings.Join(got, ",") != "docs,src" {
		t.Errorf("unexpected children: %v", got)
	}
	// docs is closed in the file, src is open
	want := "docs,src,main.go"
	if got := strings.Join(labelsOf(tr, tr.Visible()), ","); got != want {
		t.Errorf("expected visible %q, got %q", want, got)
	}
}

func TestBuildFlatOrdersRecords(t *testing.T) {
	doc, err := Decode([]byte(flatJSON), ".json")
	if err != nil {
		t.Fatal(err)
	}
	tr := tree.New()
	root, err := Build(tr, doc, BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if tr.Label(root) != "Flat" {
		t.Errorf("expected root labeled with title, got %q", tr.Label(root))
	}
	top := tr.Children(root)
	if len(top) != 1 || tr.Label(top[0]) != "top" {
		t.Fatalf("expected single top-level record, got %v", labelsOf(tr, top))
	}
	mid := tr.Children(top[0])
	if len(mid) != 1 || tr.Label(tr.Children(mid[0])[0]) != "leaf" {
		t.Errorf("expected top > middle > leaf")
	}
	if !tr.IsOpened(top[0]) || tr.IsOpened(mid[0]) {
		t.Errorf("open flags not applied")
	}
}

func TestBuildFlatCycle(t *testing.T) {
	doc := &model.Document{Title: "x", Source: "x.json", Records: []model.Record{
		{ID: "a", Parent: "b", Label: "a"},
		{ID: "b", Parent: "a", Label: "b"},
		{ID: "c", Label: "c"},
	}}

	tr := tree.New()
	if _, err := Build(tr, doc, BuildOptions{}); err == nil || !strings.Contains(err.Error(), "x.json") {
		t.Fatalf("expected cycle error mentioning source, got %v", err)
	}
	if tr.Len() != 0 {
		t.Errorf("failed build must leave no nodes, got %d", tr.Len())
	}

	root, err := Build(tr, doc, BuildOptions{Repair: true})
	if err != nil {
		t.Fatalf("repair build failed: %v", err)
	}
	if n := len(tr.Children(root)); n != 2 {
		t.Errorf("expected a (carrying b) and c at top level, got %d", n)
	}
	if tr.Len() != 4 {
		t.Errorf("expected 4 nodes, got %d", tr.Len())
	}
}

func TestBuildAll(t *testing.T) {
	tr := tree.New()
	docs := []*model.Document{
		{Root: &model.Item{Label: "one"}},
		{Root: &model.Item{Label: "two", Children: []*model.Item{{Label: "2a"}}}},
	}
	root, err := BuildAll(tr, "all", docs, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildAll failed: %v", err)
	}
	if got := strings.Join(labelsOf(tr, tr.Children(root)), ","); got != "one,two" {
		t.Errorf("unexpected children %q", got)
	}
	if tr.Root() != root {
		t.Error("shared root must be the tree root")
	}
}

func TestOpenPathsRoundTrip(t *testing.T) {
	doc, _ := Decode([]byte(nestedYAML), ".yaml")
	tr := tree.New()
	root, _ := Build(tr, doc, BuildOptions{})
	docs := tr.Children(root)[0]
	_ = tr.SetOpened(docs, true)
	open := OpenPaths(tr, root)

	fresh := tree.New()
	root2, _ := Build(fresh, doc, BuildOptions{})
	RestoreOpen(fresh, root2, open)

	if strings.Join(labelsOf(fresh, fresh.Visible()), ",") != strings.Join(labelsOf(tr, tr.Visible()), ",") {
		t.Errorf("open state not restored: %v vs %v", labelsOf(fresh, fresh.Visible()), labelsOf(tr, tr.Visible()))
	}
}
