package tree

import "slices"

// Modifiers are the keyboard modifiers held during a click.
type Modifiers struct {
	Ctrl  bool
	Shift bool
}

type selectionChange struct {
	node     NodeID
	selected bool
}

// OnClick applies a click on id. visible is the current render order, used
// to resolve shift ranges.
//
//   - plain: every other node is deselected, then id is toggled
//   - ctrl: id is force-selected when more than one node is already selected,
//     otherwise toggled
//   - shift: if the last clicked node is still selected, the inclusive range
//     between it and id in visible is selected; nothing is deselected
//
// The clicked node becomes the last clicked node in every case.
// SelectionChanged fires for each node whose flag changed, and always for id.
func (t *Tree) OnClick(id NodeID, mods Modifiers, visible []NodeID) error {
	if !t.opts.Selectable {
		return nil
	}
	if !t.Exists(id) {
		return &NodeError{Op: "click", Node: id, Err: ErrInvalidReference}
	}

	var changes []selectionChange
	if !mods.Ctrl && !mods.Shift {
		for _, other := range t.selected.ToArray() {
			if NodeID(other) != id {
				t.selected.Remove(other)
				changes = append(changes, selectionChange{NodeID(other), false})
			}
		}
	}

	switch {
	case mods.Shift:
		changes = append(changes, t.selectRange(t.lastClicked, id, visible)...)
	case mods.Ctrl && t.selected.GetCardinality() > 1:
		if t.selected.CheckedAdd(uint32(id)) {
			changes = append(changes, selectionChange{id, true})
		}
	default:
		selected := !t.selected.Contains(uint32(id))
		t.setSelected(id, selected)
		changes = append(changes, selectionChange{id, selected})
	}
	t.lastClicked = id

	reported := false
	for _, c := range changes {
		reported = reported || c.node == id
		t.hooks.selectionChanged(c.node, c.selected)
	}
	if !reported {
		t.hooks.selectionChanged(id, t.IsSelected(id))
	}
	return nil
}

func (t *Tree) selectRange(from, to NodeID, visible []NodeID) []selectionChange {
	if from == None || !t.IsSelected(from) {
		return nil
	}
	i, j := slices.Index(visible, from), slices.Index(visible, to)
	if i < 0 || j < 0 {
		return nil
	}
	lo, hi := min(i, j), max(i, j)
	var changes []selectionChange
	for _, n := range visible[lo : hi+1] {
		if t.Exists(n) && t.selected.CheckedAdd(uint32(n)) {
			changes = append(changes, selectionChange{n, true})
		}
	}
	return changes
}

func (t *Tree) setSelected(id NodeID, selected bool) {
	if selected {
		t.selected.Add(uint32(id))
	} else {
		t.selected.Remove(uint32(id))
	}
}

// SetSelected sets one node's selection flag directly, leaving the rest of
// the selection and the last clicked node alone.
func (t *Tree) SetSelected(id NodeID, selected bool) error {
	if !t.Exists(id) {
		return &NodeError{Op: "select", Node: id, Err: ErrInvalidReference}
	}
	if t.IsSelected(id) == selected {
		return nil
	}
	t.setSelected(id, selected)
	t.hooks.selectionChanged(id, selected)
	return nil
}

// OnDoubleClick toggles the node's open state. Selection is not touched.
func (t *Tree) OnDoubleClick(id NodeID) error {
	if !t.Exists(id) {
		return &NodeError{Op: "double-click", Node: id, Err: ErrInvalidReference}
	}
	return t.SetOpened(id, !t.nodes[id].opened)
}

// SetActive sets the hover state. ActiveStateChanged fires only on change.
func (t *Tree) SetActive(id NodeID, active bool) error {
	if !t.Exists(id) {
		return &NodeError{Op: "set-active", Node: id, Err: ErrInvalidReference}
	}
	if t.nodes[id].active == active {
		return nil
	}
	t.nodes[id].active = active
	t.hooks.activeStateChanged(id, active)
	return nil
}

// BeginDrag reports whether id may be picked up. Picking up an unselected
// node clears the current selection first.
func (t *Tree) BeginDrag(id NodeID) bool {
	if !t.opts.Draggable || !t.Exists(id) {
		return false
	}
	if !t.IsSelected(id) {
		t.ClearSelection()
	}
	return true
}

// ClearSelection deselects every node, one notification per node.
func (t *Tree) ClearSelection() {
	for _, n := range t.selected.ToArray() {
		t.selected.Remove(n)
		t.hooks.selectionChanged(NodeID(n), false)
	}
}

// SelectedNodes returns the selection in handle order.
func (t *Tree) SelectedNodes() []NodeID {
	arr := t.selected.ToArray()
	out := make([]NodeID, len(arr))
	for i, n := range arr {
		out[i] = NodeID(n)
	}
	return out
}

// SelectionCount returns the number of selected nodes.
func (t *Tree) SelectionCount() int {
	return int(t.selected.GetCardinality())
}

// LastClicked returns the anchor for shift ranges, or None.
func (t *Tree) LastClicked() NodeID {
	if !t.Exists(t.lastClicked) {
		return None
	}
	return t.lastClicked
}

// DropElement reports a drop of something that is not a tree node.
// The tree itself is unchanged; the ElementDropped hook decides what happens.
func (t *Tree) DropElement(payload any, position int, parent NodeID) {
	t.logger().Debug("external element dropped", "position", position, "parent", parent)
	t.hooks.elementDropped(DropEvent{Payload: payload, Position: position, Parent: parent})
}
