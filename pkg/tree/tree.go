// Package tree is the tree-manipulation engine behind the outline view.
//
// Nodes live in an arena owned by a Tree and are addressed by NodeID handles.
// All structural changes go through the mutation methods (Move, InsertInto,
// InsertAfter, Remove), which keep the hierarchy a simple rooted tree and
// report through Hooks. A Tree is not safe for concurrent use; callers
// serialize access, normally by mutating only from the UI loop.
package tree

import (
	"log/slog"
	"slices"

	"github.com/RoaringBitmap/roaring"

	"github.com/vanderheijden86/treeview/pkg/logger"
)

// NodeID is a stable handle into a Tree's node arena.
type NodeID uint32

// None is the absent node: the parent of a root, or "nothing clicked yet".
const None NodeID = 0

type node struct {
	label    string
	parent   NodeID
	children []NodeID
	opened   bool
	active   bool
	live     bool
}

// Tree owns a node arena plus the view state layered on top of it.
type Tree struct {
	nodes []node // slot 0 is reserved for None
	live  int

	opts  Options
	hooks Hooks
	log   *slog.Logger

	selected    *roaring.Bitmap
	lastClicked NodeID

	rev     uint64
	rootRev uint64
	root    NodeID
	cache   projection
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		nodes:    make([]node, 1, 64),
		opts:     DefaultOptions(),
		selected: roaring.New(),
		rev:      1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tree) logger() *slog.Logger {
	if t.log != nil {
		return t.log
	}
	return logger.L
}

// Options returns the tree's current options.
func (t *Tree) Options() Options {
	return t.opts
}

// SetOptions replaces the options. Changing DisplayRootElement affects
// Visible and IsVisible immediately.
func (t *Tree) SetOptions(o Options) {
	t.opts = o
}

// SetHooks replaces the notification callbacks.
func (t *Tree) SetHooks(h Hooks) {
	t.hooks = h
}

// Revision increases on every structural or open-state change.
func (t *Tree) Revision() uint64 {
	return t.rev
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return t.live
}

// Exists reports whether id refers to a live node.
func (t *Tree) Exists(id NodeID) bool {
	return id != None && int(id) < len(t.nodes) && t.nodes[id].live
}

// Nodes returns every live node in creation order.
func (t *Tree) Nodes() []NodeID {
	out := make([]NodeID, 0, t.live)
	for i := 1; i < len(t.nodes); i++ {
		if t.nodes[i].live {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// Root returns the first live parentless node in creation order, or None.
func (t *Tree) Root() NodeID {
	if t.rootRev == t.rev && t.Exists(t.root) {
		return t.root
	}
	t.root = None
	for i := 1; i < len(t.nodes); i++ {
		n := &t.nodes[i]
		if n.live && n.parent == None {
			t.root = NodeID(i)
			break
		}
	}
	t.rootRev = t.rev
	return t.root
}

// Label returns the node's display string.
func (t *Tree) Label(id NodeID) string {
	if !t.Exists(id) {
		return ""
	}
	return t.nodes[id].label
}

// SetLabel renames a node. Labels are not part of the hierarchy, so the
// revision is unchanged.
func (t *Tree) SetLabel(id NodeID, label string) error {
	if !t.Exists(id) {
		return &NodeError{Op: "rename", Node: id, Err: ErrInvalidReference}
	}
	t.nodes[id].label = label
	return nil
}

// Parent returns the node's parent, or None for roots and unknown handles.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.Exists(id) {
		return None
	}
	return t.nodes[id].parent
}

// Children returns a copy of the node's ordered children.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.Exists(id) {
		return nil
	}
	return slices.Clone(t.nodes[id].children)
}

// ChildCount returns the number of direct children.
func (t *Tree) ChildCount(id NodeID) int {
	if !t.Exists(id) {
		return 0
	}
	return len(t.nodes[id].children)
}

// IndexOf returns the node's position among its siblings, or -1 for roots.
func (t *Tree) IndexOf(id NodeID) int {
	p := t.Parent(id)
	if p == None {
		return -1
	}
	return slices.Index(t.nodes[p].children, id)
}

// IsRoot reports whether the node has no parent.
func (t *Tree) IsRoot(id NodeID) bool {
	return t.Exists(id) && t.nodes[id].parent == None
}

// IsBranch reports whether the node has children.
func (t *Tree) IsBranch(id NodeID) bool {
	return t.Exists(id) && len(t.nodes[id].children) > 0
}

// IsLeaf reports whether the node has no children.
func (t *Tree) IsLeaf(id NodeID) bool {
	return t.Exists(id) && len(t.nodes[id].children) == 0
}

// Level returns the number of edges between the node and its parentless ancestor.
func (t *Tree) Level(id NodeID) int {
	if !t.Exists(id) {
		return 0
	}
	level := 0
	for p := t.nodes[id].parent; p != None; p = t.nodes[p].parent {
		level++
	}
	return level
}

// IsOpened reports whether the node's children are shown.
func (t *Tree) IsOpened(id NodeID) bool {
	return t.Exists(id) && t.nodes[id].opened
}

// IsSelected reports whether the node is in the selection.
func (t *Tree) IsSelected(id NodeID) bool {
	return t.Exists(id) && t.selected.Contains(uint32(id))
}

// IsActive reports whether the node is hovered.
func (t *Tree) IsActive(id NodeID) bool {
	return t.Exists(id) && t.nodes[id].active
}

// Path returns the labels from the parentless ancestor down to the node.
func (t *Tree) Path(id NodeID) []string {
	if !t.Exists(id) {
		return nil
	}
	var path []string
	for n := id; n != None; n = t.nodes[n].parent {
		path = append(path, t.nodes[n].label)
	}
	slices.Reverse(path)
	return path
}

// Walk visits the subtree under root in pre-order, ignoring open state.
// Returning false from fn skips that node's children. fn must not mutate the tree.
func (t *Tree) Walk(root NodeID, fn func(id NodeID, depth int) bool) {
	if !t.Exists(root) {
		return
	}
	t.walk(root, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, c := range t.nodes[id].children {
		t.walk(c, depth+1, fn)
	}
}
