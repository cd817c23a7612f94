package tree

// SetOpened sets a node's open state. OpenStateChanged fires only on change.
func (t *Tree) SetOpened(id NodeID, opened bool) error {
	if !t.Exists(id) {
		return &NodeError{Op: "set-opened", Node: id, Err: ErrInvalidReference}
	}
	if t.nodes[id].opened == opened {
		return nil
	}
	t.nodes[id].opened = opened
	t.rev++
	t.hooks.openStateChanged(id, opened)
	return nil
}

// ToggleOpen flips a branch's open state. Leaves are left alone and false is
// returned.
func (t *Tree) ToggleOpen(id NodeID) bool {
	if !t.IsBranch(id) {
		return false
	}
	_ = t.SetOpened(id, !t.nodes[id].opened)
	return true
}

// Reveal opens every ancestor of id so that it shows up in the projection.
func (t *Tree) Reveal(id NodeID) error {
	if !t.Exists(id) {
		return &NodeError{Op: "reveal", Node: id, Err: ErrInvalidReference}
	}
	var changed []NodeID
	for p := t.nodes[id].parent; p != None; p = t.nodes[p].parent {
		if !t.nodes[p].opened {
			t.nodes[p].opened = true
			changed = append(changed, p)
		}
	}
	t.applyOpen(changed, true)
	return nil
}

// ExpandAll opens every branch in the subtree under root.
func (t *Tree) ExpandAll(root NodeID) {
	t.ExpandToLevel(root, -1)
}

// CollapseAll closes every branch in the subtree under root.
func (t *Tree) CollapseAll(root NodeID) {
	t.ExpandToLevel(root, 0)
}

// ExpandToLevel opens branches less than depth levels below root and closes
// the rest. A negative depth opens everything.
func (t *Tree) ExpandToLevel(root NodeID, depth int) {
	var opened, closed []NodeID
	t.Walk(root, func(id NodeID, d int) bool {
		n := &t.nodes[id]
		if len(n.children) == 0 {
			return true
		}
		want := depth < 0 || d < depth
		if n.opened != want {
			n.opened = want
			if want {
				opened = append(opened, id)
			} else {
				closed = append(closed, id)
			}
		}
		return true
	})
	t.applyOpen(opened, true)
	t.applyOpen(closed, false)
}

func (t *Tree) applyOpen(changed []NodeID, opened bool) {
	if len(changed) == 0 {
		return
	}
	t.rev++
	for _, id := range changed {
		t.hooks.openStateChanged(id, opened)
	}
}
