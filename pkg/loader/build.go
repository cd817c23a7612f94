package loader

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/treeview/pkg/analysis"
	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// BuildOptions tune how documents become trees.
type BuildOptions struct {
	// Repair detaches records that form parent cycles or point at missing
	// parents instead of failing.
	Repair bool
}

// Build adds the document to t as a new parentless subtree and returns its
// root. Nodes join the hierarchy through InsertInto; the open flags from the
// document are applied afterwards.
func Build(t *tree.Tree, doc *model.Document, opts BuildOptions) (tree.NodeID, error) {
	if doc.Root != nil {
		return buildNested(t, doc.Root), nil
	}
	return buildFlat(t, doc, opts)
}

// BuildAll places every document under a shared root labeled title.
func BuildAll(t *tree.Tree, title string, docs []*model.Document, opts BuildOptions) (tree.NodeID, error) {
	root := t.NewNode(title)
	for _, doc := range docs {
		sub, err := Build(t, doc, opts)
		if err != nil {
			_ = t.Remove(root)
			return tree.None, err
		}
		if err := t.InsertInto(sub, root); err != nil {
			_ = t.Remove(root)
			return tree.None, fmt.Errorf("attaching %s: %w", doc.Title, err)
		}
	}
	return root, nil
}

func buildNested(t *tree.Tree, item *model.Item) tree.NodeID {
	var opened []tree.NodeID
	var add func(*model.Item) tree.NodeID
	add = func(it *model.Item) tree.NodeID {
		id := t.NewNode(it.Label)
		for _, c := range it.Children {
			child := add(c)
			// fresh nodes never form cycles
			_ = t.InsertInto(child, id)
		}
		if it.Open {
			opened = append(opened, id)
		}
		return id
	}
	root := add(item)
	t.CollapseAll(root)
	for _, id := range opened {
		_ = t.SetOpened(id, true)
	}
	return root
}

func buildFlat(t *tree.Tree, doc *model.Document, opts BuildOptions) (tree.NodeID, error) {
	records := doc.Records
	a := analysis.NewAnalyzer(records)
	if opts.Repair {
		var breaks []analysis.CycleBreakItem
		records, breaks = a.Repair()
		for _, b := range breaks {
			logger.Warn("parent cycle broken", "source", doc.Source, "record", b.Record, "parent", b.Parent)
		}
		a = analysis.NewAnalyzer(records)
	}
	ordered, err := a.Order()
	if err != nil {
		if doc.Source != "" {
			return tree.None, fmt.Errorf("%s: %w", doc.Source, err)
		}
		return tree.None, err
	}

	root := t.NewNode(doc.Title)
	ids := make(map[string]tree.NodeID, len(ordered))
	var opened []tree.NodeID
	for _, r := range ordered {
		id := t.NewNode(r.Label)
		ids[r.ID] = id
		parent := root
		if p, ok := ids[r.Parent]; ok {
			parent = p
		}
		if err := t.InsertInto(id, parent); err != nil {
			_ = t.Remove(root)
			return tree.None, fmt.Errorf("record %s: %w", r.ID, err)
		}
		if r.Open {
			opened = append(opened, id)
		}
	}

	t.CollapseAll(root)
	_ = t.SetOpened(root, true)
	for _, id := range opened {
		_ = t.SetOpened(id, true)
	}
	return root, nil
}

// OpenPaths records which nodes under root are open, keyed by label path.
func OpenPaths(t *tree.Tree, root tree.NodeID) map[string]bool {
	open := make(map[string]bool)
	t.Walk(root, func(id tree.NodeID, _ int) bool {
		if t.IsOpened(id) {
			open[pathKey(t, id)] = true
		}
		return true
	})
	return open
}

// RestoreOpen reopens the nodes under root whose label path is in open and
// closes the rest. Used after a reload rebuilt the tree from scratch.
func RestoreOpen(t *tree.Tree, root tree.NodeID, open map[string]bool) {
	var ids []tree.NodeID
	t.Walk(root, func(id tree.NodeID, _ int) bool {
		ids = append(ids, id)
		return true
	})
	for _, id := range ids {
		_ = t.SetOpened(id, open[pathKey(t, id)])
	}
}

func pathKey(t *tree.Tree, id tree.NodeID) string {
	return strings.Join(t.Path(id), "\x00")
}
