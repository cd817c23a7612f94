package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/treeview/pkg/model"
)

// HierarchyError reports why a set of flat records does not form a tree.
type HierarchyError struct {
	Cycles   [][]string `json:"cycles,omitempty"`   // record IDs per cycle, in input order
	Dangling []string   `json:"dangling,omitempty"` // records whose parent does not exist
}

func (e *HierarchyError) Error() string {
	var parts []string
	if len(e.Cycles) > 0 {
		cycles := make([]string, len(e.Cycles))
		for i, c := range e.Cycles {
			cycles[i] = "[" + strings.Join(c, " ") + "]"
		}
		parts = append(parts, fmt.Sprintf("%d parent cycle(s) %s", len(e.Cycles), strings.Join(cycles, ", ")))
	}
	if len(e.Dangling) > 0 {
		parts = append(parts, fmt.Sprintf("%d dangling parent(s) %s", len(e.Dangling), strings.Join(e.Dangling, ", ")))
	}
	return "invalid hierarchy: " + strings.Join(parts, "; ")
}

// CycleBreakItem suggests the parent link to cut to break one cycle.
type CycleBreakItem struct {
	Record     string `json:"record"`     // record whose parent link is cut
	Parent     string `json:"parent"`     // the parent it currently points to
	Cycle      int    `json:"cycle"`      // index into HierarchyError.Cycles
	Collateral int    `json:"collateral"` // direct children carried along
	Rationale  string `json:"rationale"`
}

// Analyzer holds the parent graph of a flat outline. Edges point from parent
// to child; records without a parent hang under the implicit document root
// and contribute no edge.
type Analyzer struct {
	records  []model.Record
	g        *simple.DirectedGraph
	idToNode map[string]int64
	dangling []string
	selfRefs []string
}

// NewAnalyzer builds the parent graph for records.
func NewAnalyzer(records []model.Record) *Analyzer {
	a := &Analyzer{
		records:  records,
		g:        simple.NewDirectedGraph(),
		idToNode: make(map[string]int64, len(records)),
	}
	for i, r := range records {
		if _, dup := a.idToNode[r.ID]; dup {
			continue
		}
		a.idToNode[r.ID] = int64(i)
		a.g.AddNode(simple.Node(i))
	}
	for i, r := range records {
		if r.Parent == "" {
			continue
		}
		if r.Parent == r.ID {
			a.selfRefs = append(a.selfRefs, r.ID)
			continue
		}
		p, ok := a.idToNode[r.Parent]
		if !ok {
			a.dangling = append(a.dangling, r.ID)
			continue
		}
		a.g.SetEdge(a.g.NewEdge(simple.Node(p), simple.Node(i)))
	}
	return a
}

// Cycles returns every parent cycle, each as record IDs in input order.
func (a *Analyzer) Cycles() [][]string {
	var cycles [][]string
	for _, id := range a.selfRefs {
		cycles = append(cycles, []string{id})
	}

	_, err := topo.Sort(a.g)
	var unorderable topo.Unorderable
	if errors.As(err, &unorderable) {
		for _, component := range unorderable {
			cycles = append(cycles, a.recordIDs(component))
		}
	}

	sort.SliceStable(cycles, func(i, j int) bool {
		return a.idToNode[cycles[i][0]] < a.idToNode[cycles[j][0]]
	})
	return cycles
}

// Check returns a *HierarchyError if the records contain parent cycles or
// dangling parent references.
func (a *Analyzer) Check() error {
	cycles := a.Cycles()
	if len(cycles) == 0 && len(a.dangling) == 0 {
		return nil
	}
	return &HierarchyError{Cycles: cycles, Dangling: append([]string(nil), a.dangling...)}
}

// Order returns the records sorted so that every parent precedes its
// children, keeping input order among independent records.
func (a *Analyzer) Order() ([]model.Record, error) {
	if err := a.Check(); err != nil {
		return nil, err
	}
	sorted, err := topo.SortStabilized(a.g, byID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, a.records[n.ID()])
	}
	return out, nil
}

// CycleBreaks suggests one parent link to cut per cycle: the first record of
// the cycle in input order.
func (a *Analyzer) CycleBreaks() []CycleBreakItem {
	var items []CycleBreakItem
	for i, cycle := range a.Cycles() {
		id := cycle[0]
		rec := a.records[a.idToNode[id]]
		items = append(items, CycleBreakItem{
			Record:     id,
			Parent:     rec.Parent,
			Cycle:      i,
			Collateral: a.childCount(id),
			Rationale:  "First cycle member in file order; it moves to the top level.",
		})
	}
	return items
}

// Repair returns a copy of the records with every cycle broken and every
// dangling parent cleared, so the affected records attach to the document
// root. The applied breaks are returned alongside.
func (a *Analyzer) Repair() ([]model.Record, []CycleBreakItem) {
	breaks := a.CycleBreaks()
	detach := make(map[string]bool, len(breaks)+len(a.dangling))
	for _, b := range breaks {
		detach[b.Record] = true
	}
	for _, id := range a.dangling {
		detach[id] = true
	}

	out := make([]model.Record, len(a.records))
	copy(out, a.records)
	for i := range out {
		if detach[out[i].ID] {
			out[i].Parent = ""
		}
	}
	return out, breaks
}

func (a *Analyzer) childCount(id string) int {
	n, ok := a.idToNode[id]
	if !ok {
		return 0
	}
	return a.g.From(n).Len()
}

func (a *Analyzer) recordIDs(nodes []graph.Node) []string {
	byID(nodes)
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = a.records[n.ID()].ID
	}
	return ids
}

// byID orders gonum nodes by record position; gonum's node sets are map-backed.
func byID(nodes []graph.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
}
