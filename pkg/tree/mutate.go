package tree

import "slices"

// NewNode allocates a detached node. It joins the hierarchy through
// InsertInto or Move; until then it is parentless.
func (t *Tree) NewNode(label string) NodeID {
	t.nodes = append(t.nodes, node{label: label, live: true})
	t.live++
	t.rev++
	return NodeID(len(t.nodes) - 1)
}

// AddChild creates a node and appends it to parent's children.
// The parent's open state is left alone.
func (t *Tree) AddChild(parent NodeID, label string) (NodeID, error) {
	if !t.Exists(parent) {
		return None, &MoveError{Op: "add", Target: parent, Err: ErrInvalidReference}
	}
	id := t.NewNode(label)
	t.nodes[id].parent = parent
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id, nil
}

// Move detaches id and re-attaches it as child index of target. The index is
// interpreted against target's children after id has been removed from them.
// Validation happens before anything changes; on error the tree is untouched.
func (t *Tree) Move(id, target NodeID, index int) error {
	return t.move("move", id, target, index)
}

// InsertInto drops id onto target, appending it as the last child.
// Dropping onto the current parent returns ErrNoOp.
func (t *Tree) InsertInto(id, target NodeID) error {
	if !t.Exists(id) || !t.Exists(target) {
		return t.reject(&MoveError{Op: "insert-into", Node: id, Target: target, Err: ErrInvalidReference})
	}
	if t.nodes[id].parent == target {
		return t.reject(&MoveError{Op: "insert-into", Node: id, Target: target, Index: t.IndexOf(id), Err: ErrNoOp})
	}
	return t.move("insert-into", id, target, len(t.nodes[target].children))
}

// InsertAfter drops id into the gap directly after sibling.
func (t *Tree) InsertAfter(id, sibling NodeID) error {
	if !t.Exists(id) || !t.Exists(sibling) || t.nodes[sibling].parent == None {
		return t.reject(&MoveError{Op: "insert-after", Node: id, Target: t.Parent(sibling), Err: ErrInvalidReference})
	}
	parent, index := t.DropAfterPosition(id, sibling)
	return t.move("insert-after", id, parent, index)
}

// DropAfterPosition returns the parent and post-removal index that place id
// directly after sibling. Within the same parent, moving a node down past its
// own slot shifts the siblings up by one, so the index is only bumped when the
// node comes from another parent or from below the sibling.
func (t *Tree) DropAfterPosition(id, sibling NodeID) (NodeID, int) {
	parent := t.Parent(sibling)
	if parent == None {
		return None, -1
	}
	pos := t.IndexOf(sibling)
	oldParent := t.Parent(id)
	if oldParent != parent || t.IndexOf(id) > pos {
		pos++
	}
	return parent, pos
}

func (t *Tree) move(op string, id, target NodeID, index int) error {
	if err := t.validateMove(op, id, target, index); err != nil {
		return t.reject(err)
	}

	oldParent := t.nodes[id].parent
	oldIndex := -1
	if oldParent != None {
		oldIndex = t.detach(id)
	}

	opened := !t.nodes[target].opened
	t.nodes[target].opened = true
	t.nodes[id].parent = target
	t.nodes[target].children = slices.Insert(t.nodes[target].children, index, id)
	t.rev++

	t.logger().Debug("node moved",
		"op", op,
		"node", id,
		"from", oldParent,
		"from_index", oldIndex,
		"to", target,
		"to_index", index,
	)

	// Notifications go out once the tree is consistent again, in effect order.
	if opened {
		t.hooks.openStateChanged(target, true)
	}
	t.hooks.nodeMoved(MoveEvent{
		Node:      id,
		OldParent: oldParent,
		OldIndex:  oldIndex,
		NewParent: target,
		NewIndex:  index,
	})
	return nil
}

func (t *Tree) validateMove(op string, id, target NodeID, index int) *MoveError {
	e := &MoveError{Op: op, Node: id, Target: target, Index: index}
	switch {
	case !t.Exists(id) || !t.Exists(target):
		e.Err = ErrInvalidReference
		return e
	case !t.IsDropAllowed(id, target):
		e.Err = ErrCycle
		return e
	}

	n := t.nodes[id]
	limit := len(t.nodes[target].children)
	if n.parent == target {
		limit--
	}
	if index < 0 || index > limit {
		e.Err = ErrIndexOutOfRange
		return e
	}
	if n.parent == target && t.IndexOf(id) == index {
		e.Err = ErrNoOp
		return e
	}
	return nil
}

func (t *Tree) reject(err *MoveError) error {
	if err.Err == ErrNoOp {
		t.logger().Debug("move ignored", "op", err.Op, "node", err.Node, "target", err.Target)
	} else {
		t.logger().Warn("move rejected", "op", err.Op, "node", err.Node, "target", err.Target, "index", err.Index, "error", err.Err)
	}
	return err
}

// detach removes id from its parent's children and returns its old index.
func (t *Tree) detach(id NodeID) int {
	p := t.nodes[id].parent
	i := slices.Index(t.nodes[p].children, id)
	t.nodes[p].children = slices.Delete(t.nodes[p].children, i, i+1)
	t.nodes[id].parent = None
	return i
}

// Remove detaches id with its whole subtree and frees the handles.
// Removed nodes leave the selection; later use of their handles fails with
// ErrInvalidReference.
func (t *Tree) Remove(id NodeID) error {
	if !t.Exists(id) {
		return t.reject(&MoveError{Op: "remove", Node: id, Err: ErrInvalidReference})
	}

	parent := t.nodes[id].parent
	index := -1
	if parent != None {
		index = t.detach(id)
	}
	label := t.nodes[id].label

	var doomed []NodeID
	t.walk(id, 0, func(n NodeID, _ int) bool {
		doomed = append(doomed, n)
		return true
	})
	for _, n := range doomed {
		t.selected.Remove(uint32(n))
		if t.lastClicked == n {
			t.lastClicked = None
		}
		t.nodes[n] = node{}
	}
	t.live -= len(doomed)
	t.rev++

	t.logger().Debug("subtree removed", "node", id, "parent", parent, "size", len(doomed))
	t.hooks.nodeRemoved(RemoveEvent{Node: id, Parent: parent, Index: index, Label: label, Size: len(doomed)})
	return nil
}
