package tree

// IsDropAllowed reports whether candidate may become a child of target:
// both must exist, differ, and target must not lie in candidate's subtree.
func (t *Tree) IsDropAllowed(candidate, target NodeID) bool {
	if !t.Exists(candidate) || !t.Exists(target) || candidate == target {
		return false
	}
	return !t.IsAncestor(candidate, target)
}

// AcceptsDrop is IsDropAllowed gated by the Droppable option.
func (t *Tree) AcceptsDrop(candidate, target NodeID) bool {
	return t.opts.Droppable && t.IsDropAllowed(candidate, target)
}

// IsAncestor reports whether a is a strict ancestor of b. The walk follows
// parents up to the parentless top, independent of the display boundary.
func (t *Tree) IsAncestor(a, b NodeID) bool {
	if !t.Exists(a) || !t.Exists(b) {
		return false
	}
	for p := t.nodes[b].parent; p != None; p = t.nodes[p].parent {
		if p == a {
			return true
		}
	}
	return false
}
