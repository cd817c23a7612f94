package ui

import (
	"errors"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// ErrDropRejected is returned when a Droppable refuses what is being dropped.
var ErrDropRejected = errors.New("drop not allowed")

// Draggable is something the user has picked up: a node of the tree, or an
// external payload such as clipboard text.
type Draggable interface {
	// DragNode returns the dragged node, or tree.None for external payloads.
	DragNode() tree.NodeID
	// Payload is what ElementDropped receives when the drag is not a node.
	Payload() any
}

// Droppable is a place a Draggable can be released.
type Droppable interface {
	// Accepts reports whether d may land here. The view uses it for live
	// drop feedback as well as for gating Drop.
	Accepts(t *tree.Tree, d Draggable) bool
	Drop(t *tree.Tree, d Draggable) error
}

// NodeDrag drags an existing node.
type NodeDrag tree.NodeID

func (n NodeDrag) DragNode() tree.NodeID { return tree.NodeID(n) }
func (n NodeDrag) Payload() any          { return tree.NodeID(n) }

// PayloadDrag drags something that is not part of the tree.
type PayloadDrag struct {
	Value any
}

func (p PayloadDrag) DragNode() tree.NodeID { return tree.None }
func (p PayloadDrag) Payload() any          { return p.Value }

// IntoRow drops onto a row, appending to its children.
type IntoRow struct {
	Node tree.NodeID
}

func (r IntoRow) Accepts(t *tree.Tree, d Draggable) bool {
	if !t.Options().Droppable || !t.Exists(r.Node) {
		return false
	}
	if id := d.DragNode(); id != tree.None {
		return t.IsDropAllowed(id, r.Node)
	}
	return true
}

func (r IntoRow) Drop(t *tree.Tree, d Draggable) error {
	if !r.Accepts(t, d) {
		return ErrDropRejected
	}
	if id := d.DragNode(); id != tree.None {
		return t.InsertInto(id, r.Node)
	}
	t.DropElement(d.Payload(), t.ChildCount(r.Node), r.Node)
	return nil
}

// AfterRow drops into the gap below a row, as its next sibling.
type AfterRow struct {
	Node tree.NodeID
}

func (r AfterRow) Accepts(t *tree.Tree, d Draggable) bool {
	if !t.Options().Droppable {
		return false
	}
	parent := t.Parent(r.Node)
	if parent == tree.None {
		return false
	}
	if id := d.DragNode(); id != tree.None {
		return id != r.Node && t.IsDropAllowed(id, parent)
	}
	return true
}

func (r AfterRow) Drop(t *tree.Tree, d Draggable) error {
	if !r.Accepts(t, d) {
		return ErrDropRejected
	}
	if id := d.DragNode(); id != tree.None {
		return t.InsertAfter(id, r.Node)
	}
	t.DropElement(d.Payload(), t.IndexOf(r.Node)+1, t.Parent(r.Node))
	return nil
}

// EmptyTree accepts external payloads while the tree has no root. The
// ElementDropped hook receives tree.None as the parent and is expected to
// create the root.
type EmptyTree struct{}

func (EmptyTree) Accepts(t *tree.Tree, d Draggable) bool {
	return t.Options().Droppable && t.Root() == tree.None && d.DragNode() == tree.None
}

func (e EmptyTree) Drop(t *tree.Tree, d Draggable) error {
	if !e.Accepts(t, d) {
		return ErrDropRejected
	}
	t.DropElement(d.Payload(), 0, tree.None)
	return nil
}
