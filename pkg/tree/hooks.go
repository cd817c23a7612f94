package tree

// MoveEvent is delivered after a node has been moved.
type MoveEvent struct {
	Node      NodeID
	OldParent NodeID
	OldIndex  int
	NewParent NodeID
	NewIndex  int
}

// RemoveEvent is delivered after a subtree has been removed.
// Node and its descendants are no longer valid handles.
type RemoveEvent struct {
	Node   NodeID
	Parent NodeID
	Index  int
	Label  string
	Size   int
}

// DropEvent is delivered when something that is not a tree node is dropped.
type DropEvent struct {
	Payload  any
	Position int
	Parent   NodeID
}

// Hooks are optional callbacks, invoked synchronously after the state they
// report on is fully applied.
type Hooks struct {
	NodeMoved          func(MoveEvent)
	NodeRemoved        func(RemoveEvent)
	OpenStateChanged   func(node NodeID, opened bool)
	SelectionChanged   func(node NodeID, selected bool)
	ActiveStateChanged func(node NodeID, active bool)
	ElementDropped     func(DropEvent)
}

func (h Hooks) nodeMoved(e MoveEvent) {
	if h.NodeMoved != nil {
		h.NodeMoved(e)
	}
}

func (h Hooks) nodeRemoved(e RemoveEvent) {
	if h.NodeRemoved != nil {
		h.NodeRemoved(e)
	}
}

func (h Hooks) openStateChanged(id NodeID, opened bool) {
	if h.OpenStateChanged != nil {
		h.OpenStateChanged(id, opened)
	}
}

func (h Hooks) selectionChanged(id NodeID, selected bool) {
	if h.SelectionChanged != nil {
		h.SelectionChanged(id, selected)
	}
}

func (h Hooks) activeStateChanged(id NodeID, active bool) {
	if h.ActiveStateChanged != nil {
		h.ActiveStateChanged(id, active)
	}
}

func (h Hooks) elementDropped(e DropEvent) {
	if h.ElementDropped != nil {
		h.ElementDropped(e)
	}
}
