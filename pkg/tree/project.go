package tree

import "slices"

type projectionKey struct {
	root        NodeID
	includeRoot bool
	rev         uint64
}

type projection struct {
	key   projectionKey
	nodes []NodeID
	valid bool
}

// Project flattens the subtree under root into render order: depth-first
// pre-order, descending only into open nodes. With includeRoot the root comes
// first and its children follow only if it is open; without it the root acts
// as an always-open boundary. The result is cached until the next structural
// or open-state change; callers get their own copy.
func (t *Tree) Project(root NodeID, includeRoot bool) []NodeID {
	if !t.Exists(root) {
		return []NodeID{}
	}
	key := projectionKey{root: root, includeRoot: includeRoot, rev: t.rev}
	if !t.cache.valid || t.cache.key != key {
		t.cache = projection{key: key, nodes: t.flatten(root, includeRoot), valid: true}
	}
	return slices.Clone(t.cache.nodes)
}

// Visible projects from Root() using the DisplayRootElement option.
func (t *Tree) Visible() []NodeID {
	return t.Project(t.Root(), t.opts.DisplayRootElement)
}

// IsVisible reports whether id appears in Visible().
func (t *Tree) IsVisible(id NodeID) bool {
	root := t.Root()
	if !t.Exists(id) || root == None {
		return false
	}
	if id == root {
		return t.opts.DisplayRootElement
	}
	for p := t.nodes[id].parent; p != None; p = t.nodes[p].parent {
		if p == root {
			return !t.opts.DisplayRootElement || t.nodes[root].opened
		}
		if !t.nodes[p].opened {
			return false
		}
	}
	return false
}

func (t *Tree) flatten(root NodeID, includeRoot bool) []NodeID {
	out := make([]NodeID, 0, len(t.nodes[root].children)+1)
	if includeRoot {
		out = append(out, root)
		if !t.nodes[root].opened {
			return out
		}
	}
	return t.appendVisible(out, root)
}

func (t *Tree) appendVisible(out []NodeID, id NodeID) []NodeID {
	for _, c := range t.nodes[id].children {
		out = append(out, c)
		if t.nodes[c].opened {
			out = t.appendVisible(out, c)
		}
	}
	return out
}
