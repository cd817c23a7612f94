package analysis

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Stats summarizes the shape and view state of a subtree.
type Stats struct {
	Nodes    int `json:"nodes"`
	Branches int `json:"branches"`
	Leaves   int `json:"leaves"`
	Opened   int `json:"opened"`
	Selected int `json:"selected"`
	Visible  int `json:"visible"`
	MaxDepth int `json:"max_depth"`

	// Branching factor over branch nodes only
	MeanBranching   float64 `json:"mean_branching"`
	StdDevBranching float64 `json:"stddev_branching"`

	// LevelWidths[d] is the number of nodes d levels below the root
	LevelWidths []int `json:"level_widths"`
}

// Compute gathers Stats for the whole tree, using the tree's display options
// for the visible count.
func Compute(t *tree.Tree) Stats {
	root := t.Root()
	s := ComputeFrom(t, root)
	if root != tree.None {
		s.Visible = len(t.Visible())
	}
	return s
}

// ComputeFrom gathers Stats for the subtree under root. Visible counts the
// projection with root included.
func ComputeFrom(t *tree.Tree, root tree.NodeID) Stats {
	var s Stats
	if !t.Exists(root) {
		return s
	}

	g := simple.NewDirectedGraph()
	var branching []float64
	t.Walk(root, func(id tree.NodeID, _ int) bool {
		if g.Node(int64(id)) == nil {
			g.AddNode(simple.Node(id))
		}
		s.Nodes++
		if t.IsOpened(id) {
			s.Opened++
		}
		if t.IsSelected(id) {
			s.Selected++
		}
		children := t.Children(id)
		if len(children) == 0 {
			s.Leaves++
			return true
		}
		s.Branches++
		branching = append(branching, float64(len(children)))
		for _, c := range children {
			g.SetEdge(g.NewEdge(simple.Node(id), simple.Node(c)))
		}
		return true
	})

	var bf traverse.BreadthFirst
	bf.Walk(g, simple.Node(root), func(_ graph.Node, depth int) bool {
		for len(s.LevelWidths) <= depth {
			s.LevelWidths = append(s.LevelWidths, 0)
		}
		s.LevelWidths[depth]++
		return false
	})
	s.MaxDepth = len(s.LevelWidths) - 1

	if len(branching) > 0 {
		s.MeanBranching = stat.Mean(branching, nil)
	}
	if len(branching) > 1 {
		s.StdDevBranching = stat.StdDev(branching, nil)
	}
	s.Visible = len(t.Project(root, true))
	return s
}
