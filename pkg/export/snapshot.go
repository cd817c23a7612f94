// Package export renders trees and projections for people and programs.
package export

import (
	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Row is one line of a projection
type Row struct {
	Index    int    `json:"index" yaml:"index"`
	Label    string `json:"label" yaml:"label"`
	Level    int    `json:"level" yaml:"level"`
	Branch   bool   `json:"branch,omitempty" yaml:"branch,omitempty"`
	Open     bool   `json:"open,omitempty" yaml:"open,omitempty"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// Rows describes the projection ids in render order.
func Rows(t *tree.Tree, ids []tree.NodeID) []Row {
	rows := make([]Row, len(ids))
	for i, id := range ids {
		rows[i] = Row{
			Index:    i,
			Label:    t.Label(id),
			Level:    t.Level(id),
			Branch:   t.IsBranch(id),
			Open:     t.IsOpened(id),
			Selected: t.IsSelected(id),
		}
	}
	return rows
}

// Snapshot converts the subtree under root back into an outline item. With
// visibleOnly, children of closed nodes are left out.
func Snapshot(t *tree.Tree, root tree.NodeID, visibleOnly bool) *model.Item {
	if !t.Exists(root) {
		return nil
	}
	item := &model.Item{Label: t.Label(root), Open: t.IsOpened(root)}
	if visibleOnly && !t.IsOpened(root) {
		return item
	}
	for _, c := range t.Children(root) {
		item.Children = append(item.Children, Snapshot(t, c, visibleOnly))
	}
	return item
}

// Document wraps Snapshot in a document that the loader can read back.
func Document(t *tree.Tree, root tree.NodeID, title string, visibleOnly bool) *model.Document {
	return &model.Document{Title: title, Root: Snapshot(t, root, visibleOnly)}
}
