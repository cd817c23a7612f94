package analysis

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vanderheijden86/treeview/pkg/model"
)

func recs(pairs ...string) []model.Record {
	var out []model.Record
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.Record{ID: pairs[i], Parent: pairs[i+1], Label: pairs[i]})
	}
	return out
}

func TestCheckValidHierarchy(t *testing.T) {
	a := NewAnalyzer(recs("a", "", "b", "a", "c", "a", "d", "c"))
	if err := a.Check(); err != nil {
		t.Fatalf("expected valid hierarchy, got %v", err)
	}
	if cycles := a.Cycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}

func TestCheckDetectsCycles(t *testing.T) {
	// a <- b <- c <- a forms a loop; d hangs off it; e points at itself
	a := NewAnalyzer(recs("x", "", "a", "c", "b", "a", "c", "b", "d", "c", "e", "e"))

	err := a.Check()
	var herr *HierarchyError
	if !errors.As(err, &herr) {
		t.Fatalf("expected *HierarchyError, got %v", err)
	}
	want := [][]string{{"a", "b", "c"}, {"e"}}
	if !reflect.DeepEqual(herr.Cycles, want) {
		t.Errorf("Cycles = %v, want %v", herr.Cycles, want)
	}
	if !strings.Contains(herr.Error(), "2 parent cycle(s)") {
		t.Errorf("unexpected message: %s", herr.Error())
	}
}

func TestCheckDetectsDangling(t *testing.T) {
	a := NewAnalyzer(recs("a", "", "b", "missing"))
	err := a.Check()
	var herr *HierarchyError
	if !errors.As(err, &herr) {
		t.Fatalf("expected *HierarchyError, got %v", err)
	}
	if !reflect.DeepEqual(herr.Dangling, []string{"b"}) {
		t.Errorf("Dangling = %v, want [b]", herr.Dangling)
	}
	if len(herr.Cycles) != 0 {
		t.Errorf("expected no cycles, got %v", herr.Cycles)
	}
}

func TestOrderPutsParentsFirst(t *testing.T) {
	// children listed before their parents
	a := NewAnalyzer(recs("leaf", "mid", "mid", "top", "top", "", "other", ""))
	ordered, err := a.Order()
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	pos := map[string]int{}
	for i, r := range ordered {
		pos[r.ID] = i
	}
	if len(ordered) != 4 {
		t.Fatalf("expected 4 records, got %d", len(ordered))
	}
	if !(pos["top"] < pos["mid"] && pos["mid"] < pos["leaf"]) {
		t.Errorf("parents must precede children, got %v", ordered)
	}
}

func TestOrderFailsOnCycle(t *testing.T) {
	a := NewAnalyzer(recs("a", "b", "b", "a"))
	if _, err := a.Order(); err == nil {
		t.Fatal("expected error for cyclic records")
	}
}

func TestRepairBreaksCyclesAndDangling(t *testing.T) {
	a := NewAnalyzer(recs("a", "c", "b", "a", "c", "b", "d", "nowhere"))
	repaired, breaks := a.Repair()

	if len(breaks) != 1 || breaks[0].Record != "a" || breaks[0].Parent != "c" {
		t.Fatalf("unexpected breaks: %+v", breaks)
	}
	if breaks[0].Collateral != 1 {
		t.Errorf("expected a to carry 1 child, got %d", breaks[0].Collateral)
	}
	if err := NewAnalyzer(repaired).Check(); err != nil {
		t.Errorf("repaired records still invalid: %v", err)
	}
	if repaired[0].Parent != "" || repaired[3].Parent != "" {
		t.Errorf("expected a and d detached, got %+v", repaired)
	}
	if a.records[0].Parent != "c" {
		t.Error("Repair must not modify the input records")
	}
}
